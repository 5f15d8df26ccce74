package mcp

import "github.com/1broseidon/tagtile/internal/geom"

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	Screens       int    `json:"screens"`
	CurrentTag    string `json:"current_tag"`
	Layout        string `json:"layout"`
	Focused       uint32 `json:"focused"`
	FocusedTitle  string `json:"focused_title,omitempty"`
	Managed       int    `json:"managed"`
	Dying         int    `json:"dying"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ListTagsInput is the input for the list_tags tool.
type ListTagsInput struct {
	Screen *int `json:"screen,omitempty" jsonschema:"Only list the tags of this screen id (default: every screen)"`
}

// TagSummary describes one tag in list_tags.
type TagSummary struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
	Layout   string `json:"layout"`
	Clients  int    `json:"clients"`
	Tiled    int    `json:"tiled"`
}

// ScreenSummary describes one screen in list_tags.
type ScreenSummary struct {
	ID       int          `json:"id"`
	Selected bool         `json:"selected"`
	Usable   geom.Rect    `json:"usable"`
	Tags     []TagSummary `json:"tags"`
}

// ListTagsOutput is the output for the list_tags tool.
type ListTagsOutput struct {
	Screens []ScreenSummary `json:"screens"`
	Focused uint32          `json:"focused"`
	Dying   int             `json:"dying"`
}

// GetLayoutInput is the input for the get_layout tool.
type GetLayoutInput struct {
	Tag string `json:"tag,omitempty" jsonschema:"Tag name or 1-based position on the selected screen (default: the current tag)"`
}

// ClientSummary describes one client in get_layout.
type ClientSummary struct {
	ID       uint32    `json:"id"`
	Title    string    `json:"title"`
	Class    string    `json:"class"`
	Geometry geom.Rect `json:"geometry"`
	State    string    `json:"state"`
	Flags    string    `json:"flags,omitempty"`
	Selected bool      `json:"selected"`
}

// GetLayoutOutput is the output for the get_layout tool.
type GetLayoutOutput struct {
	Tag     string          `json:"tag"`
	Layout  string          `json:"layout"`
	Layouts []string        `json:"layouts"`
	Clients []ClientSummary `json:"clients"`
}

// ListLayoutsInput is the input for the list_layouts tool.
type ListLayoutsInput struct{}

// LayoutSummary describes one catalog entry in list_layouts.
type LayoutSummary struct {
	Name     string `json:"name"`
	Floating bool   `json:"floating"`
	Gap      int    `json:"gap"`
	Counts   []int  `json:"counts"`
}

// ListLayoutsOutput is the output for the list_layouts tool.
type ListLayoutsOutput struct {
	Layouts  []LayoutSummary `json:"layouts"`
	Active   string          `json:"active"`
	Defaults []string        `json:"defaults"`
}

// PreviewLayoutInput is the input for the preview_layout tool.
type PreviewLayoutInput struct {
	Layout  string `json:"layout,omitempty" jsonschema:"Layout name (default: the layout of the current tag)"`
	Clients int    `json:"clients" jsonschema:"Number of tiled clients to arrange"`
}

// PreviewLayoutOutput is the output for the preview_layout tool.
type PreviewLayoutOutput struct {
	Layout string      `json:"layout"`
	Usable geom.Rect   `json:"usable"`
	Rects  []geom.Rect `json:"rects"`
	// Shared counts clients placed on a rectangle another client already
	// uses.
	Shared int `json:"shared"`
}

// DispatchInput is the input for the dispatch tool.
type DispatchInput struct {
	Action string `json:"action" jsonschema:"Action name such as tag_set, layout_next or client_close"`
	Arg    string `json:"arg,omitempty" jsonschema:"Single argument for the action, e.g. a tag position for tag_set"`
}

// DispatchOutput is the output for the dispatch tool.
type DispatchOutput struct {
	Action string `json:"action"`
	Arg    string `json:"arg,omitempty"`
	Done   bool   `json:"done"`
}

// ReloadInput is the input for the reload tool.
type ReloadInput struct{}

// ReloadOutput is the output for the reload tool.
type ReloadOutput struct {
	Reloaded bool `json:"reloaded"`
}
