package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/phenomics-au/doimint/internal/shared"
	"github.com/xuri/excelize/v2"
)

// WriteBack records resulting DOIs into the doi column of the original
// file, keyed by [Row.Line]. A timestamped backup of the file is created
// first unless noBackup is set. Returns the backup path, or "" when no
// backup was made.
func (s *Sheet) WriteBack(dois map[int]string, noBackup bool) (string, error) {
	if len(dois) == 0 {
		return "", nil
	}

	for i := range s.Rows {
		if doi, ok := dois[s.Rows[i].Line]; ok && doi != "" {
			s.Rows[i].Values["doi"] = doi
		}
	}
	if !slices.Contains(s.Headers, "doi") {
		s.Headers = append(s.Headers, "doi")
	}

	backup := ""
	if !noBackup {
		var err error
		if backup, err = backupFile(s.Path); err != nil {
			return "", err
		}
	}

	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".csv":
		return backup, s.writeCSV()
	case ".xlsx":
		return backup, s.writeXLSX()
	default:
		return backup, fmt.Errorf("%w: %s", shared.ErrUnsupportedFormat, filepath.Ext(s.Path))
	}
}

func (s *Sheet) writeCSV() error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("failed to rewrite %s: %w", s.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(s.Headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range s.Rows {
		record := make([]string, len(s.Headers))
		for i, h := range s.Headers {
			record[i] = row.Values[h]
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row.Line, err)
		}
	}

	w.Flush()
	return w.Error()
}

// writeXLSX edits the doi column in place so the rest of the workbook
// (formatting, other sheets) survives the rewrite.
func (s *Sheet) writeXLSX() error {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return fmt.Errorf("failed to reopen %s: %w", s.Path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("%w: workbook has no sheets", shared.ErrRead)
	}
	name := sheets[0]

	col := slices.Index(s.Headers, "doi") + 1
	header, err := excelize.CoordinatesToCellName(col, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(name, header, "doi"); err != nil {
		return err
	}

	for _, row := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(col, row.Line)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, row.Values["doi"]); err != nil {
			return err
		}
	}

	return f.Save()
}

func backupFile(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for backup: %w", path, err)
	}
	defer src.Close()

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	backup := fmt.Sprintf("%s.backup-%s%s", base, time.Now().Format("20060102-150405"), ext)

	dst, err := os.Create(backup)
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy backup: %w", err)
	}
	return backup, nil
}
