package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/forumone/f1-ext-install/pkg/extension"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Terminal Detection
// =============================================================================

// isTerminal reports whether w is an interactive terminal. Styling is only
// applied to terminals so that build logs stay free of escape codes.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// paint renders s with style when w is a terminal.
func paint(w io.Writer, style lipgloss.Style, s string) string {
	if !isTerminal(w) {
		return s
	}
	return style.Render(s)
}

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, paint(w, styleIconSuccess, iconSuccess)+" "+msg)
}

// printError prints an error message.
func printError(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, paint(w, styleIconError, iconError)+" "+msg)
}

// printInfo prints an info/status message.
func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, paint(w, styleIconInfo, iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, "  "+paint(w, styleDim, msg))
}

// printStep prints the header for an installer step.
func printStep(w io.Writer, step string) {
	fmt.Fprintln(w, paint(w, styleIconInfo, iconInfo)+" "+paint(w, styleTitle, step))
}

// =============================================================================
// Dry Run
// =============================================================================

// printDryRunHeader summarizes what a dry run is about to print.
func printDryRunHeader(w io.Writer, exts []extension.Extension) {
	printInfo(w, "%s %d extension(s); commands are printed, not run",
		paint(w, styleWarning, "dry run:"), len(exts))
	for _, ext := range exts {
		var notes []string
		if pkgs := ext.Packages(); len(pkgs) > 0 {
			notes = append(notes, "packages: "+strings.Join(pkgs, ", "))
		}
		if args := ext.ConfigureCmd(); args != nil {
			notes = append(notes, "configure: "+strings.Join(args, " "))
		}
		if !ext.DefaultEnabled() {
			notes = append(notes, "not enabled")
		}
		line := ext.String()
		if len(notes) > 0 {
			line += " " + iconArrow + " " + strings.Join(notes, "; ")
		}
		printDetail(w, "%s", line)
	}
}

// =============================================================================
// Tables
// =============================================================================

// renderTable renders rows under headers. Terminals get a bordered,
// styled table; anything else gets tab-separated lines.
func renderTable(w io.Writer, headers []string, rows [][]string) string {
	if !isTerminal(w) {
		var b strings.Builder
		b.WriteString(strings.Join(headers, "\t"))
		b.WriteByte('\n')
		for _, row := range rows {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteByte('\n')
		}
		return b.String()
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		})
	return t.Render() + "\n"
}
