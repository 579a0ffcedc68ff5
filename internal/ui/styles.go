package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var (
	cPurple     = lipgloss.Color("99")
	cCyan       = lipgloss.Color("39")
	cRed        = lipgloss.Color("203")
	cOrange     = lipgloss.Color("208")
	cGold       = lipgloss.Color("220")
	cGray       = lipgloss.Color("240")
	cBrightGray = lipgloss.Color("246")
	cLightGray  = lipgloss.Color("250")
	cWhite      = lipgloss.Color("255")
	cHighlight  = lipgloss.Color("57")
	cField      = lipgloss.Color("63")

	styleNormalText = lipgloss.NewStyle().Foreground(cWhite)
	styleStatsDim   = lipgloss.NewStyle().Foreground(cBrightGray)
	styleMarker     = lipgloss.NewStyle().Foreground(cCyan)
	styleID         = lipgloss.NewStyle().Foreground(cGold).Bold(true)

	styleSelected = lipgloss.NewStyle().
			Background(cHighlight).
			Foreground(cWhite).
			Bold(true)

	// styleMoveSource marks the group being moved while a target is picked.
	styleMoveSource = lipgloss.NewStyle().
			Foreground(cOrange).
			Bold(true)

	styleAppHeader = lipgloss.NewStyle().
			Foreground(cWhite).
			Background(cPurple).
			Bold(true).
			Padding(0, 1)

	styleWarning = lipgloss.NewStyle().
			Foreground(cOrange).
			Bold(true)

	styleErrorIndicator = lipgloss.NewStyle().
				Foreground(cWhite).
				Background(cRed).
				Bold(true).
				Padding(0, 1)

	styleToast = lipgloss.NewStyle().
			Foreground(cWhite).
			Background(cHighlight).
			Padding(0, 1)

	stylePane = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(cGray)

	stylePaneFocused = lipgloss.NewStyle().
				Border(lipgloss.ThickBorder()).
				BorderForeground(cPurple)

	styleDetailHeader = lipgloss.NewStyle().
				Background(cHighlight).
				Foreground(cWhite).
				Bold(true).
				Padding(0, 1)

	styleField = lipgloss.NewStyle().
			Foreground(cField).
			Bold(true).
			Width(12)

	styleBreadcrumb = lipgloss.NewStyle().Foreground(cLightGray)

	styleFooter = lipgloss.NewStyle().Foreground(cBrightGray)

	styleOverlay = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cPurple).
			Padding(1, 2)

	styleOverlayTitle = lipgloss.NewStyle().
				Foreground(cPurple).
				Bold(true)

	styleOverlayDanger = lipgloss.NewStyle().
				Foreground(cRed).
				Bold(true)

	styleFormError = lipgloss.NewStyle().Foreground(cRed)
)

func buildMarkdownRenderer(format string, width int) func(string) string {
	fallback := func(input string) string {
		return wordwrap.String(input, width)
	}

	style := strings.ToLower(strings.TrimSpace(format))
	if style == "" || style == "rich" || style == "dark" {
		style = "dark"
	}
	if style == "plain" {
		return fallback
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fallback
	}
	return func(input string) string {
		out, err := renderer.Render(input)
		if err != nil {
			return fallback(input)
		}
		return strings.TrimSpace(out)
	}
}
