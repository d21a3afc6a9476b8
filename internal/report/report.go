// package report renders per-row status lines and end-of-run summaries
// for terminal output.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/phenomics-au/doimint/internal/tasks"
)

// Printer is a simple stylesheet built with named [lipgloss.Style] fields
type Printer struct {
	ok    lipgloss.Style
	fail  lipgloss.Style
	warn  lipgloss.Style
	title lipgloss.Style
	dim   lipgloss.Style
}

// New returns a Printer with the default palette.
func New() *Printer {
	style := func(fg string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
	}
	return &Printer{
		ok:    style("#04B575").Bold(true),
		fail:  style("#FF0000").Bold(true),
		warn:  style("#FFA500"),
		title: style("#7D56F4").Bold(true),
		dim:   style("#626262").Italic(true),
	}
}

// RowLine renders a single publish row result.
func (p *Printer) RowLine(res tasks.RowResult) string {
	switch res.State {
	case tasks.RowSucceeded:
		line := fmt.Sprintf("%s row %d: %s", p.ok.Render("✓"), res.Line, res.DOI)
		if res.Simulated {
			line += " " + p.dim.Render("(simulated)")
		}
		if res.PatchErr != nil {
			line += "\n" + p.warn.Render(fmt.Sprintf("  ! URL patch failed: %v", res.PatchErr))
		}
		return line
	case tasks.RowSkipped:
		return fmt.Sprintf("%s row %d skipped: %v", p.warn.Render("−"), res.Line, res.Err)
	default:
		return fmt.Sprintf("%s row %d: %v", p.fail.Render("✗"), res.Line, res.Err)
	}
}

// CleanupLine renders a single draft cleanup result.
func (p *Printer) CleanupLine(res tasks.CleanupResult) string {
	switch {
	case res.Deleted:
		line := fmt.Sprintf("%s deleted %s", p.ok.Render("✓"), res.DOI)
		if res.Simulated {
			line += " " + p.dim.Render("(simulated)")
		}
		return line
	case res.Err != nil:
		return fmt.Sprintf("%s %s: %v", p.fail.Render("✗"), res.DOI, res.Err)
	default:
		return fmt.Sprintf("%s skipped %s (state: %s)", p.warn.Render("−"), res.DOI, res.State)
	}
}

// RelatedLine renders a single related-item update result.
func (p *Printer) RelatedLine(res tasks.RelatedResult) string {
	if res.Err != nil {
		return fmt.Sprintf("%s %s: %v", p.fail.Render("✗"), res.DOI, res.Err)
	}
	line := fmt.Sprintf("%s updated %s", p.ok.Render("✓"), res.DOI)
	if res.Simulated {
		line += " " + p.dim.Render("(simulated)")
	}
	return line
}

// Summary renders the end-of-run count block for a publish run.
func (p *Printer) Summary(sum *tasks.RunSummary) string {
	var b strings.Builder
	b.WriteString(p.header("Summary"))
	fmt.Fprintf(&b, "Total rows: %d\n", sum.Total)
	fmt.Fprintf(&b, "Successful: %s\n", p.ok.Render(fmt.Sprintf("%d", sum.Succeeded)))
	fmt.Fprintf(&b, "Failed:     %s\n", p.fail.Render(fmt.Sprintf("%d", sum.Failed)))
	fmt.Fprintf(&b, "Skipped:    %s\n", p.warn.Render(fmt.Sprintf("%d", sum.Skipped)))
	return b.String()
}

// CleanupSummary renders the count block for a draft cleanup run.
func (p *Printer) CleanupSummary(sum *tasks.CleanupSummary) string {
	var b strings.Builder
	b.WriteString(p.header("Summary"))
	fmt.Fprintf(&b, "Total DOIs: %d\n", sum.Total)
	fmt.Fprintf(&b, "Deleted:    %s\n", p.ok.Render(fmt.Sprintf("%d", sum.Deleted)))
	fmt.Fprintf(&b, "Skipped:    %s\n", p.warn.Render(fmt.Sprintf("%d", sum.Skipped)))
	fmt.Fprintf(&b, "Failed:     %s\n", p.fail.Render(fmt.Sprintf("%d", sum.Failed)))
	return b.String()
}

// RelatedSummary renders the count block for a related-item update run.
func (p *Printer) RelatedSummary(sum *tasks.RelatedSummary) string {
	var b strings.Builder
	b.WriteString(p.header("Summary"))
	fmt.Fprintf(&b, "Total DOIs: %d\n", sum.Total)
	fmt.Fprintf(&b, "Successful: %s\n", p.ok.Render(fmt.Sprintf("%d", sum.Succeeded)))
	fmt.Fprintf(&b, "Failed:     %s\n", p.fail.Render(fmt.Sprintf("%d", sum.Failed)))
	return b.String()
}

func (p *Printer) header(title string) string {
	rule := strings.Repeat("═", 39)
	return fmt.Sprintf("\n%s\n%s\n%s\n", rule, p.title.Render(title), rule)
}
