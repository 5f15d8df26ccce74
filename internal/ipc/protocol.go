package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload        CommandType = "RELOAD"
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandGetTags       CommandType = "GET_TAGS"
	CommandGetLayout     CommandType = "GET_LAYOUT"
	CommandListLayouts   CommandType = "LIST_LAYOUTS"
	CommandPreviewLayout CommandType = "PREVIEW_LAYOUT"
	CommandDispatch      CommandType = "DISPATCH"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Screens       int    `json:"screens"`
	CurrentTag    string `json:"current_tag"`
	Layout        string `json:"layout"`
	Focused       uint32 `json:"focused"`
	FocusedTitle  string `json:"focused_title,omitempty"`
	Managed       int    `json:"managed"`
	Dying         int    `json:"dying"`
	BarStatus     string `json:"bar_status,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// TagsData is the topology returned by GET_TAGS.
type TagsData = wm.Snapshot

// GetLayoutPayload selects the tag for GET_LAYOUT. An empty tag means the
// selected tag of the selected screen; otherwise a 1-based position or a
// name on the selected screen.
type GetLayoutPayload struct {
	Tag string `json:"tag,omitempty"`
}

// LayoutData is the tag view returned by GET_LAYOUT.
type LayoutData = wm.TagInfo

// LayoutInfo describes one catalog entry.
type LayoutInfo struct {
	Name     string `json:"name"`
	Floating bool   `json:"floating,omitempty"`
	Gap      int    `json:"gap,omitempty"`
	// Counts lists the client counts the set has an explicit partition for.
	Counts []int `json:"counts,omitempty"`
}

type LayoutsData struct {
	Layouts        []LayoutInfo `json:"layouts"`
	DefaultLayouts []string     `json:"default_layouts"`
	ActiveLayout   string       `json:"active_layout"`
}

// PreviewLayoutPayload asks what a layout would do with n clients on the
// selected screen.
type PreviewLayoutPayload struct {
	LayoutName string `json:"layout_name"`
	Clients    int    `json:"clients"`
}

// PreviewData is the arrangement returned by PREVIEW_LAYOUT.
type PreviewData struct {
	Layout string      `json:"layout"`
	Usable geom.Rect   `json:"usable"`
	Rects  []geom.Rect `json:"rects"`
	Shared int         `json:"shared,omitempty"`
}

// DispatchPayload is one user action.
type DispatchPayload struct {
	Action string `json:"action"`
	Arg    string `json:"arg,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
