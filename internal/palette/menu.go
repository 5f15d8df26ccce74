package palette

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/1broseidon/tagtile/internal/ipc"
)

// Choice is the action picked from a menu.
type Choice struct {
	Action string
	Arg    string
}

// Menu walks nested items with a backend. Choosing a row with a submenu
// opens it; cancelling a submenu returns to its parent.
type Menu struct {
	backend Backend
	root    []Item
}

// NewMenu creates a menu over root.
func NewMenu(backend Backend, root []Item) *Menu {
	return &Menu{backend: backend, root: root}
}

// Show runs the menu until a leaf is chosen or the top level is cancelled.
func (m *Menu) Show() (Choice, error) {
	return m.show("tagtile", m.root, false)
}

func (m *Menu) show(prompt string, items []Item, nested bool) (Choice, error) {
	if len(items) == 0 {
		return Choice{}, fmt.Errorf("menu %q is empty", prompt)
	}
	rows := items
	if nested {
		rows = append([]Item{{Label: "← Back", Icon: "go-previous"}}, items...)
	}
	for {
		idx, err := m.backend.Show(prompt, rows)
		if err != nil {
			return Choice{}, err
		}
		if nested && idx == 0 {
			return Choice{}, ErrCancelled
		}
		item := rows[idx]
		switch {
		case !item.Selectable():
			// Pickers without row options let headers be chosen.
			continue
		case len(item.Submenu) > 0:
			c, err := m.show(item.Label, item.Submenu, true)
			if errors.Is(err, ErrCancelled) {
				continue
			}
			return c, err
		case item.Action == "":
			continue
		default:
			return Choice{Action: item.Action, Arg: item.Arg}, nil
		}
	}
}

// Build assembles the palette from the daemon state: tags of the selected
// screen, the layout catalog and client and manager actions.
func Build(tags *ipc.TagsData, layouts *ipc.LayoutsData) []Item {
	var tagItems, moveItems []Item
	for _, s := range tags.Screens {
		if !s.Selected {
			continue
		}
		for _, t := range s.Tags {
			pos := strconv.Itoa(t.Index + 1)
			label := fmt.Sprintf("%s  %s", pos, t.Name)
			if n := len(t.Clients); n > 0 {
				label += fmt.Sprintf("  (%d)", n)
			}
			tagItems = append(tagItems, Item{Label: label, Action: "tag_set", Arg: pos, IsActive: t.Selected, Meta: t.Layout})
			moveItems = append(moveItems, Item{Label: label, Action: "tag_client", Arg: pos, IsActive: t.Selected})
		}
	}

	var layoutItems []Item
	for _, l := range layouts.Layouts {
		label := l.Name
		if l.Floating {
			label += "  (float)"
		}
		layoutItems = append(layoutItems, Item{Label: label, Action: "layout_set", Arg: l.Name, IsActive: l.Name == layouts.ActiveLayout})
	}

	items := []Item{
		{Label: "View tag", Icon: "view-grid", Submenu: tagItems},
		{Label: "Layout", Icon: "view-dual", Submenu: layoutItems},
		{Label: "Next layout", Action: "layout_next", Icon: "go-next"},
	}
	if tags.Focused != 0 {
		items = append(items,
			Item{Label: "Client", IsHeader: true},
			Item{Label: "Send to tag", Icon: "document-send", Submenu: moveItems},
			Item{Label: "Toggle floating", Action: "client_free", Icon: "window-restore"},
			Item{Label: "Tab into next", Action: "client_tab_next", Icon: "tab-new"},
			Item{Label: "Untab", Action: "client_untab", Icon: "tab-close"},
			Item{Label: "Close", Action: "client_close", Icon: "window-close"},
		)
	}
	return append(items,
		Item{Label: "Window manager", IsHeader: true},
		Item{Label: "Toggle bar", Action: "bar_toggle", Icon: "view-restore"},
		Item{Label: "Next screen", Action: "screen_next", Icon: "video-display"},
		Item{Label: "Reload config", Action: "reload", Icon: "view-refresh"},
	)
}
