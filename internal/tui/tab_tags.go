package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/wm"
)

var (
	tagCursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	tagSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	tagNormalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	screenHeadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
)

// TagsTab lists the tags of the selected screen and switches between them.
type TagsTab struct {
	ctl    Controller
	data   *ipc.TagsData
	screen wm.ScreenInfo
	cursor int

	statusText string
	statusErr  bool

	width  int
	height int
}

// NewTagsTab creates the tags tab. ctl may be nil when no daemon runs.
func NewTagsTab(ctl Controller) TagsTab {
	tt := TagsTab{ctl: ctl}
	tt.refresh()
	return tt
}

func (tt *TagsTab) refresh() {
	if tt.ctl == nil {
		return
	}
	data, err := tt.ctl.GetTags()
	if err != nil {
		tt.statusText, tt.statusErr = err.Error(), true
		return
	}
	tt.data = data
	tt.screen = wm.ScreenInfo{}
	for _, s := range data.Screens {
		if s.Selected {
			tt.screen = s
			break
		}
	}
	if n := len(tt.screen.Tags); tt.cursor >= n {
		tt.cursor = max(n-1, 0)
	}
}

// Update implements the tea.Model update step for the tab.
func (tt TagsTab) Update(msg tea.Msg) (TagsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		tt.width, tt.height = msg.Width, msg.Height
	case clearStatusMsg:
		tt.statusText, tt.statusErr = "", false
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if tt.cursor > 0 {
				tt.cursor--
			}
		case "down", "j":
			if tt.cursor < len(tt.screen.Tags)-1 {
				tt.cursor++
			}
		case "r":
			tt.refresh()
		case "enter":
			return tt.viewSelected()
		}
	}
	return tt, nil
}

func (tt TagsTab) viewSelected() (TagsTab, tea.Cmd) {
	if tt.ctl == nil {
		tt.statusText, tt.statusErr = "daemon not connected", true
		return tt, clearStatusAfter(3 * time.Second)
	}
	if tt.cursor >= len(tt.screen.Tags) {
		return tt, nil
	}
	tag := tt.screen.Tags[tt.cursor]
	if err := tt.ctl.Dispatch("tag_set", strconv.Itoa(tag.Index+1)); err != nil {
		tt.statusText, tt.statusErr = fmt.Sprintf("error: %v", err), true
	} else {
		tt.statusText, tt.statusErr = "viewing "+tag.Name, false
		tt.refresh()
	}
	return tt, clearStatusAfter(3 * time.Second)
}

// View implements the tea.Model view step for the tab.
func (tt TagsTab) View() string {
	if tt.ctl == nil {
		return dimStyle.Render("  start the daemon to browse tags")
	}
	if tt.data == nil {
		return renderMessage(tt.statusText, tt.statusErr)
	}

	var b strings.Builder
	b.WriteString(screenHeadStyle.Render(fmt.Sprintf("  screen %d  %s", tt.screen.ID, tt.screen.Usable)))
	b.WriteString("\n\n")
	for i, tag := range tt.screen.Tags {
		cursor := "  "
		if i == tt.cursor {
			cursor = tagCursorStyle.Render("> ")
		}
		style := tagNormalStyle
		marker := " "
		if tag.Selected {
			style = tagSelectedStyle
			marker = "*"
		}
		line := fmt.Sprintf("%s %d %-12s %-10s %d clients", marker, tag.Index+1, tag.Name, tag.Layout, len(tag.Clients))
		b.WriteString(cursor + style.Render(line) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  focused:%d  dying:%d  j/k:move  enter:view", tt.data.Focused, tt.data.Dying)))
	if tt.statusText != "" {
		b.WriteString("\n  " + renderMessage(tt.statusText, tt.statusErr))
	}
	return b.String()
}
