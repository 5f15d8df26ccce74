package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tagtile/internal/ipc"
)

const maxPreviewClients = 16

// layoutItem implements list.Item for the layout picker sidebar.
type layoutItem struct {
	info     ipc.LayoutInfo
	isActive bool
}

func (i layoutItem) Title() string {
	prefix := "  "
	if i.isActive {
		prefix = "* "
	}
	suffix := ""
	if i.info.Floating {
		suffix = " (float)"
	}
	return prefix + i.info.Name + suffix
}

func (i layoutItem) Description() string { return "" }
func (i layoutItem) FilterValue() string { return i.info.Name }

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// LayoutsTab browses the layout catalog with a live preview.
type LayoutsTab struct {
	list list.Model
	src  Source
	ctl  Controller

	layouts []ipc.LayoutInfo
	active  string
	clients int
	preview *ipc.PreviewData

	statusText string
	statusErr  bool

	width  int
	height int
	ready  bool
}

// NewLayoutsTab creates the layouts tab and selects initial when it names
// a layout.
func NewLayoutsTab(src Source, ctl Controller, initial string, clients int) LayoutsTab {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 30, 20)
	l.Title = "Layouts"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	if clients <= 0 {
		clients = 3
	}
	lt := LayoutsTab{list: l, src: src, ctl: ctl, clients: min(clients, maxPreviewClients)}
	lt.refresh()
	if initial != "" {
		lt.selectName(initial)
	}
	lt.updatePreview()
	return lt
}

func (lt *LayoutsTab) refresh() {
	data, err := lt.src.ListLayouts()
	if err != nil {
		lt.setStatus(err.Error(), true)
		return
	}
	selected := lt.selectedName()
	lt.layouts = data.Layouts
	lt.active = data.ActiveLayout
	lt.rebuildItems()
	if selected == "" {
		selected = lt.active
	}
	lt.selectName(selected)
}

func (lt *LayoutsTab) rebuildItems() {
	items := make([]list.Item, 0, len(lt.layouts))
	for _, info := range lt.layouts {
		items = append(items, layoutItem{info: info, isActive: info.Name == lt.active})
	}
	lt.list.SetItems(items)
}

func (lt *LayoutsTab) selectName(name string) {
	for i, info := range lt.layouts {
		if info.Name == name {
			lt.list.Select(i)
			return
		}
	}
}

func (lt LayoutsTab) selectedName() string {
	item, ok := lt.list.SelectedItem().(layoutItem)
	if !ok {
		return ""
	}
	return item.info.Name
}

func (lt *LayoutsTab) updatePreview() {
	name := lt.selectedName()
	if name == "" {
		lt.preview = nil
		return
	}
	p, err := lt.src.PreviewLayout(name, lt.clients)
	if err != nil {
		lt.preview = nil
		lt.setStatus(err.Error(), true)
		return
	}
	lt.preview = p
}

func (lt *LayoutsTab) setStatus(text string, isErr bool) {
	lt.statusText = text
	lt.statusErr = isErr
}

// Update implements the tea.Model update step for the tab.
func (lt LayoutsTab) Update(msg tea.Msg) (LayoutsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		lt.width = msg.Width
		lt.height = msg.Height
		lt.updateListSize()
		lt.ready = true
		return lt, nil

	case clearStatusMsg:
		lt.setStatus("", false)
		return lt, nil

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "enter", "a":
			return lt.applySelected()
		case "r":
			lt.refresh()
			lt.updatePreview()
			return lt, nil
		case "+", "=":
			lt.clients = min(lt.clients+1, maxPreviewClients)
			lt.updatePreview()
			return lt, nil
		case "-":
			lt.clients = max(lt.clients-1, 0)
			lt.updatePreview()
			return lt, nil
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			lt.clients = int(key[0] - '0')
			lt.updatePreview()
			return lt, nil
		}
	}

	before := lt.selectedName()
	var cmd tea.Cmd
	lt.list, cmd = lt.list.Update(msg)
	if lt.selectedName() != before {
		lt.updatePreview()
	}
	return lt, cmd
}

func (lt LayoutsTab) applySelected() (LayoutsTab, tea.Cmd) {
	name := lt.selectedName()
	if name == "" {
		return lt, nil
	}
	if lt.ctl == nil {
		lt.setStatus("daemon not connected", true)
		return lt, clearStatusAfter(3 * time.Second)
	}
	if err := lt.ctl.Dispatch("layout_set", name); err != nil {
		lt.setStatus(fmt.Sprintf("error: %v", err), true)
	} else {
		lt.active = name
		lt.rebuildItems()
		lt.setStatus("applied: "+name, false)
	}
	return lt, clearStatusAfter(3 * time.Second)
}

func (lt *LayoutsTab) updateListSize() {
	lt.list.SetSize(lt.sidebarWidth(), max(lt.height-2, 1))
}

func (lt LayoutsTab) sidebarWidth() int {
	// About a third of the width, between 20 and 40 columns.
	return min(max(lt.width*35/100, 20), 40)
}

// View implements the tea.Model view step for the tab.
func (lt LayoutsTab) View() string {
	if !lt.ready || lt.width == 0 || lt.height == 0 {
		return ""
	}

	sidebarWidth := lt.sidebarWidth()
	previewWidth := max(lt.width-sidebarWidth-3, 10)

	sidebar := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(lt.height - 2).
		Render(lt.list.View())

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.Repeat("│\n", max(lt.height-3, 0)) + "│")

	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep, lt.renderPreview(previewWidth))
	return lipgloss.JoinVertical(lipgloss.Left, columns, lt.renderTabStatus())
}

func (lt LayoutsTab) renderPreview(previewWidth int) string {
	name := lt.selectedName()
	if name == "" || lt.preview == nil {
		return ""
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(fmt.Sprintf(" %s  [%d clients]", name, lt.clients))
	summary := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Render(" " + summarizePreview(lt.preview))

	lines := renderASCIIPreview(lt.preview, max(previewWidth-2, 5), max(lt.height-6, 5))
	block := lipgloss.NewStyle().
		Foreground(lipgloss.Color("247")).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, title, summary, "", block)
}

func (lt LayoutsTab) renderTabStatus() string {
	left := renderMessage(lt.statusText, lt.statusErr)
	right := dimStyle.Render(fmt.Sprintf("clients:%d  enter/a:apply  1-9,+/-:clients", lt.clients))

	gap := max(lt.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return lipgloss.NewStyle().
		Width(lt.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
