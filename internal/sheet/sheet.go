// package sheet reads tabular DOI metadata from .csv and .xlsx files.
//
// Rows are returned in file order with values keyed by header name. The
// xlsx path goes through excelize; csv uses the standard library reader.
package sheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phenomics-au/doimint/internal/shared"
	"github.com/xuri/excelize/v2"
)

// RequiredColumns are the headers every input file must carry. The doi
// column is optional.
var RequiredColumns = []string{"title", "Creator", "Publisher", "publication_year", "url"}

// Row is a single spreadsheet record.
type Row struct {
	Line   int // 1-based line number in the file; the header is line 1
	Values map[string]string
}

// Get returns the trimmed value for the named column, or "" when absent.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r.Values[col])
}

// Sheet is a parsed spreadsheet with its header order preserved.
type Sheet struct {
	Path    string
	Headers []string
	Rows    []Row
}

// Read parses the file at path into a Sheet, dispatching on extension.
//
// Returns [shared.ErrUnsupportedFormat] for anything other than .csv or
// .xlsx, and [shared.ErrRead] when the file cannot be parsed or a
// required column is missing.
func Read(path string) (*Sheet, error) {
	return ReadColumns(path, RequiredColumns)
}

// ReadColumns is Read with a caller-supplied required column set, for
// inputs that only carry a subset of the metadata (a doi column, say).
func ReadColumns(path string, required []string) (*Sheet, error) {
	var headers []string
	var records [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		headers, records, err = readCSV(path)
	case ".xlsx":
		headers, records, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s (use .xlsx or .csv)", shared.ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	if missing := missingColumns(headers, required); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", shared.ErrRead, strings.Join(missing, ", "))
	}

	s := &Sheet{Path: path, Headers: headers}
	for i, record := range records {
		values := make(map[string]string, len(headers))
		hasData := false
		for j, h := range headers {
			var v string
			if j < len(record) {
				v = strings.TrimSpace(record[j])
			}
			values[h] = v
			if v != "" {
				hasData = true
			}
		}
		if !hasData {
			continue
		}
		s.Rows = append(s.Rows, Row{Line: i + 2, Values: values})
	}

	return s, nil
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", shared.ErrRead, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", shared.ErrRead, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%w: file has no header row", shared.ErrRead)
	}

	headers := make([]string, len(all[0]))
	for i, h := range all[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return headers, all[1:], nil
}

func readXLSX(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", shared.ErrRead, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: workbook has no sheets", shared.ErrRead)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", shared.ErrRead, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: file has no header row", shared.ErrRead)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return headers, rows[1:], nil
}

func missingColumns(headers, required []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}
