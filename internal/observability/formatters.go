// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/experience-validator/internal/types"
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

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		// fmt pads by rune, so truncate by rune too
		if r := []rune(line); len(r) > boxWidth-4 {
			line = string(r[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func orDash(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "-"
	}
	return *s
}

func monthsText(m *int) string {
	if m == nil {
		return "unknown"
	}
	return fmt.Sprintf("%d months", *m)
}

// PrintRecords outputs the experience records found in a document.
func (p *Printer) PrintRecords(records []types.ExperienceRecord) {
	var sb strings.Builder

	if len(records) == 0 {
		sb.WriteString("No experience found\n")
	}
	count := min(len(records), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := records[i]
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, orDash(r.Position)))
		sb.WriteString(fmt.Sprintf("   Company: %s\n", orDash(r.CompanyName)))
		sb.WriteString(fmt.Sprintf("   Period:  %s → %s (%s)\n", orDash(r.StartDate), orDash(r.EndDate), monthsText(r.MonthsWorked)))
	}
	if len(records) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(records)-maxItemsToShow))
	}

	p.printBox(fmt.Sprintf("EXTRACTED EXPERIENCE (%d)", len(records)), sb.String())
}

// PrintValidation outputs a single-record decision.
func (p *Printer) PrintValidation(result *types.ValidationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status:   %s\n", strings.ToUpper(string(result.Status))))
	sb.WriteString(fmt.Sprintf("Months:   %d found / %d required\n", result.FoundMonths, result.RequiredMonths))
	sb.WriteString(fmt.Sprintf("Position: %s\n", orDash(result.Details.PositionFound)))
	if result.PositionMatch != nil {
		line := fmt.Sprintf("Match:    %s", *result.PositionMatch)
		if result.Details.SimilarityScore != nil {
			line += fmt.Sprintf(" (%.2f)", *result.Details.SimilarityScore)
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString(fmt.Sprintf("Reason:   %s\n", result.Details.Reason))

	p.printBox("VALIDATION RESULT", sb.String())
}

// PrintConsolidated outputs an aggregate decision and its per-record statuses.
func (p *Printer) PrintConsolidated(result *types.ConsolidatedResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status:      %s\n", strings.ToUpper(string(result.Status))))
	sb.WriteString(fmt.Sprintf("Months:      %d total / %d required\n", result.TotalMonths, result.RequiredMonths))
	sb.WriteString(fmt.Sprintf("Experiences: %d approved of %d\n", result.ApprovedExperienceCount, result.TotalExperienceCount))
	sb.WriteString(fmt.Sprintf("Reason:      %s\n", result.Reason))

	if len(result.IndividualValidations) > 0 {
		sb.WriteString("\n")
		count := min(len(result.IndividualValidations), maxItemsToShow)
		for i := 0; i < count; i++ {
			v := result.IndividualValidations[i]
			sb.WriteString(fmt.Sprintf("  • [%s] %s, %d months\n", v.Status, orDash(v.Details.PositionFound), v.FoundMonths))
		}
		if len(result.IndividualValidations) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.IndividualValidations)-maxItemsToShow))
		}
	}

	p.printBox("CONSOLIDATED RESULT", sb.String())
}

// PrintBatchSummary outputs status counts for a batch run.
func (p *Printer) PrintBatchSummary(statuses map[string]types.Status) {
	counts := map[types.Status]int{}
	for _, s := range statuses {
		counts[s]++
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Files:         %d\n", len(statuses)))
	sb.WriteString(fmt.Sprintf("Approved:      %d\n", counts[types.StatusApproved]))
	sb.WriteString(fmt.Sprintf("Manual review: %d\n", counts[types.StatusManualReview]))
	sb.WriteString(fmt.Sprintf("Rejected:      %d\n", counts[types.StatusRejected]))

	p.printBox("BATCH SUMMARY", sb.String())
}
