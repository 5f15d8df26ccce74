// Package mcp exposes the running window manager to MCP clients over
// stdio. Every tool is a thin call through the daemon's IPC socket.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tagtile/internal/ipc"
)

const (
	ServerName    = "tagtile"
	ServerVersion = "0.1.0"
)

// Daemon is the part of the IPC client the tools use.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	GetTags() (*ipc.TagsData, error)
	GetLayout(tag string) (*ipc.LayoutData, error)
	ListLayouts() (*ipc.LayoutsData, error)
	PreviewLayout(layoutName string, clients int) (*ipc.PreviewData, error)
	Dispatch(action, arg string) error
	Reload() error
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server for tagtile.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates an MCP server that forwards to d.
func NewServer(d Daemon, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{daemon: d, logger: logger}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		&mcpsdk.ServerOptions{Logger: logger},
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Show the window manager status: screen count, current tag and layout, focused client and client counts.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_tags",
		Description: "List the tags of every screen with their active layout and client counts. Positions are 1-based and can be passed to get_layout and to tag actions.",
	}, s.handleListTags)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_layout",
		Description: "Show one tag: its active layout, its layout cycle and the geometry of every client on it.",
	}, s.handleGetLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_layouts",
		Description: "List every layout in the catalog and the default layout cycle.",
	}, s.handleListLayouts)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "preview_layout",
		Description: "Compute the rectangles a layout would give a number of tiled clients on the selected screen, without changing anything.",
	}, s.handlePreviewLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "dispatch",
		Description: "Run a window manager action, the same ones key bindings use: tag_set, tag_next, tag_prev, tag_client, tag_add, tag_del, layout_set, layout_next, layout_prev, client_next, client_prev, client_free, client_swap_next, client_swap_prev, client_tab_next, client_untab, client_close, screen_next, screen_prev, bar_toggle, status, reload.",
	}, s.handleDispatch)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload",
		Description: "Reload the configuration file. Layouts, rules, themes and tags are applied without restarting.",
	}, s.handleReload)
}
