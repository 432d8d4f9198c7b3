// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/marc/gazelle-sync/internal/matching"
	"github.com/marc/gazelle-sync/internal/types"
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

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRequests outputs a human-readable summary of the extracted requests.
func (p *Printer) PrintRequests(requests []types.ExtractedRequest) {
	if len(requests) == 0 {
		p.printBox("EXTRACTED REQUESTS", "No requests detected")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total requests extracted: %d\n\n", len(requests)))

	count := min(len(requests), maxItemsToShow)
	for i := 0; i < count; i++ {
		req := &requests[i]
		sb.WriteString(fmt.Sprintf("#%d  %s", i+1, orDash(req.DateString())))
		if req.Time != "" {
			sb.WriteString(" " + req.Time)
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("    Room: %s  Requester: %s\n",
			orDash(req.Room), orDash(req.Requester)))
		if req.Piano != "" || req.ForWho != "" {
			sb.WriteString(fmt.Sprintf("    Piano: %s  For: %s\n",
				orDash(req.Piano), orDash(req.ForWho)))
		}
		sb.WriteString(fmt.Sprintf("    Confidence: %.2f\n", req.Confidence))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(requests) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more requests", len(requests)-maxItemsToShow))
	}

	p.printBox("EXTRACTED REQUESTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMerged outputs the post-merge requests with their warnings.
func (p *Printer) PrintMerged(merged []types.MergedRequest) {
	if len(merged) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Requests after merge: %d\n\n", len(merged)))

	count := min(len(merged), maxItemsToShow)
	for i := 0; i < count; i++ {
		req := &merged[i]
		sb.WriteString(fmt.Sprintf("• %s  %s", orDash(req.DateString()), orDash(req.Room)))
		if req.Time != "" {
			sb.WriteString("  " + req.Time)
		}
		sb.WriteString("\n")
		for _, w := range req.Warnings {
			warning := w
			if len(warning) > 48 {
				warning = warning[:45] + "..."
			}
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", warning))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(merged) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more requests", len(merged)-maxItemsToShow))
	}

	p.printBox("MERGED REQUESTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAlerts outputs the alert keywords found in the raw text.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintAlerts(alerts []string) {
	if len(alerts) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO ALERT KEYWORDS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d alert keyword(s):\n\n", len(alerts)))
	for _, kw := range alerts {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", kw))
	}

	p.printBox("ALERT KEYWORDS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs the result of a reconciliation run.
func (p *Printer) PrintReport(report *matching.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Requests examined: %d\n", report.Examined))
	sb.WriteString(fmt.Sprintf("Linked:            %d\n", len(report.Linked)))
	sb.WriteString(fmt.Sprintf("Unmatched:         %d\n", len(report.Unmatched)))

	if len(report.Linked) > 0 {
		sb.WriteString("\n")
		count := min(len(report.Linked), maxItemsToShow)
		for i := 0; i < count; i++ {
			link := report.Linked[i]
			sb.WriteString(fmt.Sprintf("• %s (score %d)\n", link.AppointmentID, link.Score))
		}
		if len(report.Linked) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more links\n", len(report.Linked)-maxItemsToShow))
		}
	}

	p.printBox("RECONCILIATION REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
