package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Tab is a page of the browser.
type Tab int

const (
	TabLayouts Tab = iota
	TabTags
	tabCount
)

var tabTitles = [tabCount]string{"Layouts", "Tags"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "?"
	}
	return tabTitles[t]
}

var (
	chrome = lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("250"))

	tabOn  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("25")).Padding(0, 2)
	tabOff = chrome.Padding(0, 2)

	statusOKStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func renderTabBar(active Tab, width int) string {
	cells := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		style := tabOff
		if t == active {
			style = tabOn
		}
		cells = append(cells, style.Render(t.String()))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	return chrome.Width(width).MarginBottom(1).Render(row)
}

// renderStatusBar shows whether a daemon backs the browser.
func renderStatusBar(connected bool, activeLayout string, width int) string {
	text := dimStyle.Render("○") + " offline, previewing the config file"
	if connected {
		text = statusOKStyle.Render("●") + " daemon connected"
		if activeLayout != "" {
			text += "  layout " + activeLayout
		}
	}
	return chrome.Width(width).Padding(0, 1).Render(text)
}

func renderHelpBar(width int) string {
	return dimStyle.Width(width).Padding(0, 1).
		Render("tab/shift-tab switch  r refresh  q quit")
}

// renderMessage renders a transient status line, red for errors.
func renderMessage(text string, isErr bool) string {
	switch {
	case text == "":
		return ""
	case isErr:
		return statusErrStyle.Render(text)
	default:
		return statusOKStyle.Render(text)
	}
}
