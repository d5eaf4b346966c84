package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/codeviz/pkg/graph"
)

// stdout receives all status output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorPurple = lipgloss.Color("141")
	colorOrange = lipgloss.Color("215")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for paths and values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleCached  = lipgloss.NewStyle().Foreground(colorGreen)
)

// kindStyles colors each node kind the way the diagram legend does.
var kindStyles = map[graph.Kind]lipgloss.Style{
	graph.KindFunction: lipgloss.NewStyle().Foreground(colorBlue),
	graph.KindClass:    lipgloss.NewStyle().Foreground(colorPurple),
	graph.KindVariable: lipgloss.NewStyle().Foreground(colorOrange),
	graph.KindImport:   lipgloss.NewStyle().Foreground(colorGreen),
}

// =============================================================================
// Status lines
// =============================================================================

// status is a leading icon and its color.
type status struct {
	icon  string
	style lipgloss.Style
}

var (
	statusSuccess = status{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	statusError   = status{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	statusWarning = status{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	statusInfo    = status{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (s status) print(msg string) {
	fmt.Fprintln(stdout, s.style.Render(s.icon)+" "+msg)
}

func printSuccess(format string, args ...any) {
	statusSuccess.print(fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	statusError.print(fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	statusWarning.print(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	statusInfo.print(fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

// printNextStep prints a suggested follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Graph summary
// =============================================================================

// printStats prints the legend breakdown of a graph on one line, for
// example "3 functions · 1 class · 2 calls · fresh".
func printStats(s graph.Stats, cached bool) {
	fmt.Fprintln(stdout, "  "+statsLine(s, cached))
}

func statsLine(s graph.Stats, cached bool) string {
	var parts []string
	for _, k := range graph.Kinds {
		n := s.Kinds[k]
		if n == 0 || k == graph.KindHelp {
			continue
		}
		style, ok := kindStyles[k]
		if !ok {
			style = StyleDim
		}
		parts = append(parts, style.Render(countNoun(n, kindNoun(k))))
	}
	if len(parts) == 0 {
		parts = append(parts, StyleDim.Render("no declarations"))
	}
	for _, r := range graph.Relations {
		if n := s.Relations[r]; n > 0 {
			parts = append(parts, StyleDim.Render(strconv.Itoa(n)+" "+string(r)))
		}
	}

	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// kindNoun returns the singular and plural nouns for k.
func kindNoun(k graph.Kind) [2]string {
	if k == graph.KindClass {
		return [2]string{"class", "classes"}
	}
	return [2]string{string(k), string(k) + "s"}
}

func countNoun(n int, noun [2]string) string {
	if n == 1 {
		return "1 " + noun[0]
	}
	return strconv.Itoa(n) + " " + noun[1]
}
