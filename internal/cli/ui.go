package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Styles shared by the summary printers and the explorer.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleMarkOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleMarkFail    = lipgloss.NewStyle().Foreground(colorRed)
	styleMarkWarn    = lipgloss.NewStyle().Foreground(colorYellow)
	styleMarkNote    = lipgloss.NewStyle().Foreground(colorGray)
	styleMarkSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	markOK    = "✓"
	markFail  = "✗"
	markWarn  = "!"
	markNote  = "›"
	markArrow = "→"
)

// =============================================================================
// Status lines
// =============================================================================

func printMarked(mark string, style lipgloss.Style, msg string) {
	fmt.Println(style.Render(mark) + " " + msg)
}

func printSuccess(format string, args ...any) {
	printMarked(markOK, styleMarkOK, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printMarked(markFail, styleMarkFail, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printMarked(markWarn, styleMarkWarn, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printMarked(markNote, styleMarkNote, fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written artifact.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(markArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// =============================================================================
// Build summary
// =============================================================================

// buildSummary is the one-line digest printed after map and reduce.
type buildSummary struct {
	nodes     int
	edges     int
	redexes   int
	cached    bool
	truncated bool
}

// String joins the non-zero counts and the cache state with dots.
func (s buildSummary) String() string {
	var parts []string
	if s.nodes > 0 {
		parts = append(parts, plural(s.nodes, "node"))
	}
	if s.edges > 0 {
		parts = append(parts, plural(s.edges, "edge"))
	}
	if s.redexes > 0 {
		parts = append(parts, plural(s.redexes, "redex"))
	}
	if s.truncated {
		parts = append(parts, "truncated")
	}
	if s.cached {
		parts = append(parts, "cached")
	} else {
		parts = append(parts, "fresh")
	}
	return strings.Join(parts, " · ")
}

func printSummary(s buildSummary) {
	fmt.Println("  " + StyleDim.Render(s.String()))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	switch {
	case strings.HasSuffix(noun, "x"):
		return fmt.Sprintf("%d %ses", n, noun)
	case strings.HasSuffix(noun, "y"):
		return fmt.Sprintf("%d %sies", n, strings.TrimSuffix(noun, "y"))
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
