// Package observability provides formatted output utilities for verbose
// CLI mode. Diagnostics flow through here, never through control flow.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/deck-pipeline/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxIssuesToShow caps how many issues a unit summary lists
	maxIssuesToShow = 5
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
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCreativeDirection outputs a human-readable summary of the stage-1
// concept.
func (p *Printer) PrintCreativeDirection(d *types.CreativeDirection) {
	if d == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Metaphor:  %s\n", d.VisualMetaphor))
	sb.WriteString(fmt.Sprintf("Tension:   %s\n", d.Tension))
	sb.WriteString(fmt.Sprintf("One rule:  %s\n", d.OneRule))
	sb.WriteString(fmt.Sprintf("Motif:     %s\n", d.Motif))
	if len(d.TensionUnits) > 0 {
		sb.WriteString(fmt.Sprintf("Critique:  %s\n", strings.Join(d.TensionUnits, ", ")))
	}
	p.printBox("CREATIVE DIRECTION", sb.String())
}

// PrintDesignSystem outputs the frozen palette and type scale.
func (p *Printer) PrintDesignSystem(ds *types.DesignSystem) {
	if ds == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Background: %s  Text: %s\n", ds.Colors.Background, ds.Colors.Text))
	sb.WriteString(fmt.Sprintf("Primary: %s  Accent: %s\n", ds.Colors.Primary, ds.Colors.Accent))
	sb.WriteString(fmt.Sprintf("Type scale: %v\n", ds.Typography.SizeScale))
	sb.WriteString(fmt.Sprintf("Corners: %s  Decor: %s\n", ds.Effects.CornerStyle, ds.Effects.DecorativeStyle))
	p.printBox("DESIGN SYSTEM", sb.String())
}

// PrintValidationSummary outputs one unit's score and leading issues.
func (p *Printer) PrintValidationSummary(unit *types.Unit, result *types.ValidationResult) {
	if unit == nil || result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score: %.0f  Valid: %t  Issues: %d\n", result.Score, result.Valid, len(result.Issues)))
	for i, is := range result.Issues {
		if i >= maxIssuesToShow {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(result.Issues)-maxIssuesToShow))
			break
		}
		sb.WriteString(fmt.Sprintf("[%s] %s: %s\n", is.Severity, is.Category, is.Message))
	}
	p.printBox(fmt.Sprintf("UNIT %s (%s)", unit.ID, unit.ContentType), sb.String())
}
