// Package observability provides formatted output utilities for CLI commands.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmendez/crmboard/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of deals to display per column
	maxItemsToShow = 5
)

// Printer handles formatted output for the board CLI commands
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

// FormatCurrency renders a deal value as a compact dollar amount: plain
// below a thousand, then k/m suffixes.
func FormatCurrency(value float64) string {
	switch {
	case value >= 1_000_000:
		return fmt.Sprintf("$%.1fm", value/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("$%.1fk", value/1_000)
	default:
		return fmt.Sprintf("$%.0f", value)
	}
}

// columnSummary renders one column's deal list with its total.
func columnSummary(sb *strings.Builder, title string, deals []types.Deal, sum float64) {
	sb.WriteString(fmt.Sprintf("%s  (%d deals, %s)\n", title, len(deals), FormatCurrency(sum)))

	count := min(len(deals), maxItemsToShow)
	for i := 0; i < count; i++ {
		deal := deals[i]
		text := deal.Title
		if len(text) > 35 {
			text = text[:32] + "..."
		}
		sb.WriteString(fmt.Sprintf("  • %-35s %s\n", text, FormatCurrency(deal.Value)))
	}
	if len(deals) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(deals)-maxItemsToShow))
	}
}

// PrintPipelineView outputs a human-readable summary of the board.
func (p *Printer) PrintPipelineView(view *types.PipelineView) {
	if view == nil {
		return
	}

	var sb strings.Builder

	columnSummary(&sb, "UNASSIGNED", view.Unassigned, view.UnassignedSum)
	for _, col := range view.Columns {
		sb.WriteString("\n")
		columnSummary(&sb, col.Stage.Title, col.Deals, col.Sum)
	}
	if view.Won != nil {
		sb.WriteString("\n")
		columnSummary(&sb, view.Won.Stage.Title, view.Won.Deals, view.Won.Sum)
	}
	if view.Lost != nil {
		sb.WriteString("\n")
		columnSummary(&sb, view.Lost.Stage.Title, view.Lost.Deals, view.Lost.Sum)
	}

	p.printBox("SALES PIPELINE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStageSummaries outputs per-stage totals for the dashboard command.
func (p *Printer) PrintStageSummaries(summaries []types.StageSummary) {
	if len(summaries) == 0 {
		p.printBox("STAGE TOTALS", "No stages configured")
		return
	}

	var sb strings.Builder
	for _, s := range summaries {
		title := s.Title
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		sb.WriteString(fmt.Sprintf("%-30s %4d  %s\n", title, s.DealCount, FormatCurrency(s.DealSum)))
	}

	p.printBox("STAGE TOTALS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDeal outputs a single deal with its joined references.
func (p *Printer) PrintDeal(deal *types.Deal) {
	if deal == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", deal.Title))
	sb.WriteString(fmt.Sprintf("Value:    %s\n", FormatCurrency(deal.Value)))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", deal.Status))
	if deal.Company != nil {
		sb.WriteString(fmt.Sprintf("Company:  %s\n", deal.Company.Name))
	}
	if deal.DealOwner != nil {
		sb.WriteString(fmt.Sprintf("Owner:    %s\n", deal.DealOwner.Name))
	}
	if deal.Notes != "" {
		notes := deal.Notes
		if len(notes) > 45 {
			notes = notes[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("Notes:    %s\n", notes))
	}

	p.printBox("DEAL", strings.TrimSuffix(sb.String(), "\n"))
}
