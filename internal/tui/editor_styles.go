package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/jsonpad/jsonpad/internal/syntax"
)

// Render classes for a buffer cell, in increasing priority.
const (
	classDefault = iota
	classStructural
	classNumber
	classBoolNull
	classString
	classKey
	classOccurrence
	classMatch
	classCurrentMatch
	classSelection
	classCaret
)

var noColor = os.Getenv("NO_COLOR") != ""

var classStyles = initClassStyles()

func initClassStyles() map[int]lipgloss.Style {
	if noColor {
		return map[int]lipgloss.Style{
			classDefault:      lipgloss.NewStyle(),
			classStructural:   lipgloss.NewStyle(),
			classNumber:       lipgloss.NewStyle(),
			classBoolNull:     lipgloss.NewStyle(),
			classString:       lipgloss.NewStyle(),
			classKey:          lipgloss.NewStyle(),
			classOccurrence:   lipgloss.NewStyle().Underline(true),
			classMatch:        lipgloss.NewStyle().Reverse(true),
			classCurrentMatch: lipgloss.NewStyle().Reverse(true).Bold(true),
			classSelection:    lipgloss.NewStyle().Reverse(true),
			classCaret:        lipgloss.NewStyle().Reverse(true),
		}
	}
	return map[int]lipgloss.Style{
		classDefault:      lipgloss.NewStyle(),
		classStructural:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		classNumber:       lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		classBoolNull:     lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		classString:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		classKey:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
		classOccurrence:   lipgloss.NewStyle().Underline(true),
		classMatch:        lipgloss.NewStyle().Background(lipgloss.Color("3")).Foreground(lipgloss.Color("0")),
		classCurrentMatch: lipgloss.NewStyle().Background(lipgloss.Color("11")).Foreground(lipgloss.Color("0")),
		classSelection:    lipgloss.NewStyle().Reverse(true),
		classCaret:        lipgloss.NewStyle().Reverse(true),
	}
}

func kindClass(k syntax.RegionKind) int {
	switch k {
	case syntax.KindKey:
		return classKey
	case syntax.KindString:
		return classString
	case syntax.KindNumber:
		return classNumber
	case syntax.KindBoolNull:
		return classBoolNull
	case syntax.KindStructural:
		return classStructural
	}
	return classDefault
}

var (
	gutterStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	gutterCurStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Bold(true)

	statusBarStyle = lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("7"))
	errorBarStyle  = lipgloss.NewStyle().Background(lipgloss.Color("1")).Foreground(lipgloss.Color("15")).Bold(true)
	barLabelStyle  = lipgloss.NewStyle().Bold(true)

	panelBorder = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("8"))
	panelTitleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	panelSelStyle   = lipgloss.NewStyle().Reverse(true)
	panelDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)
