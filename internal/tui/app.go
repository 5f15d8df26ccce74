package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// model is the root bubbletea model for the TUI.
type model struct {
	activeTab Tab

	layoutsTab LayoutsTab
	tagsTab    TagsTab

	connected bool

	width  int
	height int
}

func newModel(opts Options) model {
	return model{
		activeTab:  TabLayouts,
		layoutsTab: NewLayoutsTab(opts.Source, opts.Control, opts.Initial, opts.Clients),
		tagsTab:    NewTagsTab(opts.Control),
		connected:  opts.Control != nil,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Tab bar, status bar and help bar take four rows.
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-4, 1)}
		var c1, c2 tea.Cmd
		m.layoutsTab, c1 = m.layoutsTab.Update(inner)
		m.tagsTab, c2 = m.tagsTab.Update(inner)
		return m, tea.Batch(c1, c2)

	case clearStatusMsg:
		var c1, c2 tea.Cmd
		m.layoutsTab, c1 = m.layoutsTab.Update(msg)
		m.tagsTab, c2 = m.tagsTab.Update(msg)
		return m, tea.Batch(c1, c2)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case TabLayouts:
		m.layoutsTab, cmd = m.layoutsTab.Update(msg)
	case TabTags:
		m.tagsTab, cmd = m.tagsTab.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var content string
	switch m.activeTab {
	case TabLayouts:
		content = m.layoutsTab.View()
	case TabTags:
		content = m.tagsTab.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderTabBar(m.activeTab, m.width),
		content,
		renderStatusBar(m.connected, m.layoutsTab.active, m.width),
		renderHelpBar(m.width),
	)
}
