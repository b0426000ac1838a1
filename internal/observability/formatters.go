// Package observability provides formatted output utilities for verbose CLI mode
// and the Prometheus metrics recorded around renders.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-exporter/internal/selection"
	"github.com/jonathan/resume-exporter/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// PrintResume outputs a summary of the resume as the transformers will see it,
// with selections already resolved.
func (p *Printer) PrintResume(r *types.Resume) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", r.ProfileName()))
	if r.Contact.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", r.Contact.Title))
	}
	sb.WriteString(fmt.Sprintf("Summary:  %d sentence(s) selected\n", len(selection.SummarySentences(r.Summary))))
	sb.WriteString("\n")

	if len(r.Experience) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(r.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			e := r.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s @ %s (%d bullets)\n", e.Position, e.Company, len(selection.Accomplishments(e))))
		}
		if len(r.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(r.Experience)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if groups := selection.SkillGroups(r.Skills); len(groups) > 0 {
		sb.WriteString("Skills:\n")
		for _, g := range groups {
			sb.WriteString(fmt.Sprintf("  • %s: %d\n", g.Label, len(g.Skills)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Projects: %d  Education: %d  Certifications: %d\n",
		len(r.Projects), len(r.Education), len(r.Certifications)))

	p.printBox("RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// RenderSummary describes one finished render for PrintRenders.
type RenderSummary struct {
	Target string
	Format string
	Theme  string
	Bytes  int
	Path   string
	Err    error
}

// PrintRenders outputs the outcome of a batch of renders.
func (p *Printer) PrintRenders(renders []RenderSummary) {
	if len(renders) == 0 {
		return
	}

	var sb strings.Builder
	failed := 0
	for _, r := range renders {
		label := r.Target + "/" + r.Format
		if r.Theme != "" {
			label += " (" + r.Theme + ")"
		}
		if r.Err != nil {
			failed++
			sb.WriteString(fmt.Sprintf("⚠ %s\n", label))
			sb.WriteString(fmt.Sprintf("  %s\n", firstLine(r.Err.Error())))
			continue
		}
		sb.WriteString(fmt.Sprintf("✓ %s  %d bytes\n", label, r.Bytes))
		if r.Path != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", r.Path))
		}
	}
	sb.WriteString(fmt.Sprintf("\n%d succeeded, %d failed", len(renders)-failed, failed))

	p.printBox("RENDERS", sb.String())
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
