package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cubicleview/pkg/graph"
	"github.com/matzehuels/cubicleview/pkg/model"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorPurple = lipgloss.Color("177")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleSelected and StyleAncestor mirror the node fills of the viewer.
	StyleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	StyleAncestor = lipgloss.NewStyle().Foreground(colorPurple)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// categoryStyles colors the state categories in listings.
var categoryStyles = map[string]lipgloss.Style{
	"orig":      lipgloss.NewStyle().Foreground(colorGreen),
	"unsafe":    lipgloss.NewStyle().Foreground(colorRed),
	"error":     lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	"subsumed":  lipgloss.NewStyle().Foreground(colorGray),
	"approx":    lipgloss.NewStyle().Foreground(colorYellow),
	"invariant": lipgloss.NewStyle().Foreground(colorPurple),
}

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

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

// printFile prints a written output file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// formatCategories renders a node's categories as colored tags.
func formatCategories(categories []string) string {
	tags := make([]string, 0, len(categories))
	for _, c := range categories {
		style, ok := categoryStyles[c]
		if !ok {
			style = StyleDim
		}
		tags = append(tags, style.Render(c))
	}
	return strings.Join(tags, " ")
}

// formatState renders one state for a listing: name, label when it
// differs, and categories.
func formatState(n *model.Node) string {
	s := StyleValue.Render(n.Name)
	if n.Label != n.Name {
		s += " " + StyleDim.Render(strings.ReplaceAll(n.Label, "\n", " "))
	}
	if cats := graph.Categories(n.Attrs); len(cats) > 0 {
		s += " " + formatCategories(cats)
	}
	return s
}
