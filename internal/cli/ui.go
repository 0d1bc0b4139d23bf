package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/format"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/scale"
	datatable "github.com/c112110130-dot/waste-system-django-sub002/pkg/table"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	styleTableLabel  = lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints an output file line, tagged with whether it came from
// the artifact cache.
func printFile(path string, cached bool) {
	status, style := iconFresh, styleComputed
	if cached {
		status, style = iconCached, styleCached
	}
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path) + " " + style.Render(status))
}

// =============================================================================
// Data Output
// =============================================================================

// printTable writes t as a bordered terminal table. With separateUnits the
// unit labels get their own row under the header.
func printTable(w io.Writer, t *datatable.Table, separateUnits bool) {
	rows := make([][]string, 0, len(t.Rows)+1)
	if separateUnits {
		rows = append(rows, t.Units)
	}
	for _, r := range t.Rows {
		rows = append(rows, r.Texts(!separateUnits))
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(t.Header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleTableHeader
			case col == 0:
				return styleTableLabel
			case separateUnits && row == 0:
				return styleTableHeader
			}
			return styleTableCell
		})

	if t.Title != "" {
		fmt.Fprintln(w, StyleTitle.Render(t.Title))
	}
	fmt.Fprintln(w, tbl.Render())
}

// printAxis writes the axis parameters and one labelled line per tick.
func printAxis(w io.Writer, a scale.Axis, labels []string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(10)
	fmt.Fprintln(w, keyStyle.Render("interval")+" "+StyleNumber.Render(format.Number(a.Interval)))
	fmt.Fprintln(w, keyStyle.Render("max")+" "+StyleNumber.Render(format.Number(a.Max)))
	fmt.Fprintln(w, keyStyle.Render("ticks")+" "+StyleNumber.Render(fmt.Sprint(a.TickCount)))
	for i, v := range a.Ticks() {
		fmt.Fprintf(w, "  %s %s\n", StyleDim.Render(fmt.Sprintf("%-10g", v)), StyleValue.Render(labels[i]))
	}
}
