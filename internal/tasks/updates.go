package tasks

import "fmt"

// ProgressUpdate represents a progress event during a run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	SendRequest Phase = iota
	PatchURL
	RowDone
	FetchDOI
	DeleteDOI
	PatchRelated
)

func (p Phase) String() string {
	switch p {
	case SendRequest:
		return "send_request"
	case PatchURL:
		return "patch_url"
	case RowDone:
		return "row_done"
	case FetchDOI:
		return "fetch_doi"
	case DeleteDOI:
		return "delete_doi"
	case PatchRelated:
		return "patch_related"
	default:
		return ""
	}
}

func sendRequestUpdate(step, total int, title string, doiKnown bool) ProgressUpdate {
	verb := "Creating DOI for"
	if doiKnown {
		verb = "Updating DOI for"
	}
	return ProgressUpdate{
		Phase:   SendRequest,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %s", step, total, verb, title),
	}
}

func patchURLUpdate(step, total int, doi string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PatchURL,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Minted %s, patching landing page URL", step, total, doi),
	}
}

func rowDoneUpdate(step, total int, res RowResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RowDone,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] row %d done", step, total, res.Line),
		Data:    res,
	}
}

func fetchDOIUpdate(step, total int, doi string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDOI,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Checking %s", step, total, doi),
	}
}

func deleteDOIUpdate(step, total int, doi string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DeleteDOI,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Deleting draft %s", step, total, doi),
	}
}

func patchRelatedUpdate(step, total int, doi string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PatchRelated,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Patching related items for %s", step, total, doi),
	}
}
