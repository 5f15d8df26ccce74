package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tagtile/internal/geom"
)

// maxPreviewClients bounds the client count preview_layout accepts.
const maxPreviewClients = 64

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		Screens:       st.Screens,
		CurrentTag:    st.CurrentTag,
		Layout:        st.Layout,
		Focused:       st.Focused,
		FocusedTitle:  st.FocusedTitle,
		Managed:       st.Managed,
		Dying:         st.Dying,
		UptimeSeconds: st.UptimeSeconds,
	}, nil
}

func (s *Server) handleListTags(_ context.Context, _ *mcpsdk.CallToolRequest, args ListTagsInput) (*mcpsdk.CallToolResult, ListTagsOutput, error) {
	snap, err := s.daemon.GetTags()
	if err != nil {
		return nil, ListTagsOutput{}, err
	}
	out := ListTagsOutput{
		Screens: []ScreenSummary{},
		Focused: uint32(snap.Focused),
		Dying:   snap.Dying,
	}
	for _, scr := range snap.Screens {
		if args.Screen != nil && int(scr.ID) != *args.Screen {
			continue
		}
		sum := ScreenSummary{
			ID:       int(scr.ID),
			Selected: scr.Selected,
			Usable:   scr.Usable,
			Tags:     make([]TagSummary, 0, len(scr.Tags)),
		}
		for _, t := range scr.Tags {
			sum.Tags = append(sum.Tags, TagSummary{
				Position: t.Index + 1,
				Name:     t.Name,
				Selected: t.Selected,
				Layout:   t.Layout,
				Clients:  len(t.Clients),
				Tiled:    t.Tiled,
			})
		}
		out.Screens = append(out.Screens, sum)
	}
	if args.Screen != nil && len(out.Screens) == 0 {
		return nil, ListTagsOutput{}, fmt.Errorf("unknown screen %d", *args.Screen)
	}
	return nil, out, nil
}

func (s *Server) handleGetLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args GetLayoutInput) (*mcpsdk.CallToolResult, GetLayoutOutput, error) {
	info, err := s.daemon.GetLayout(strings.TrimSpace(args.Tag))
	if err != nil {
		return nil, GetLayoutOutput{}, err
	}
	out := GetLayoutOutput{
		Tag:     info.Name,
		Layout:  info.Layout,
		Layouts: append([]string{}, info.Layouts...),
		Clients: make([]ClientSummary, 0, len(info.Clients)),
	}
	for _, c := range info.Clients {
		out.Clients = append(out.Clients, ClientSummary{
			ID:       uint32(c.ID),
			Title:    c.Title,
			Class:    c.Class,
			Geometry: c.Geometry,
			State:    c.State,
			Flags:    c.Flags,
			Selected: c.Selected,
		})
	}
	return nil, out, nil
}

func (s *Server) handleListLayouts(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListLayoutsInput) (*mcpsdk.CallToolResult, ListLayoutsOutput, error) {
	data, err := s.daemon.ListLayouts()
	if err != nil {
		return nil, ListLayoutsOutput{}, err
	}
	out := ListLayoutsOutput{
		Layouts:  make([]LayoutSummary, 0, len(data.Layouts)),
		Active:   data.ActiveLayout,
		Defaults: append([]string{}, data.DefaultLayouts...),
	}
	for _, l := range data.Layouts {
		out.Layouts = append(out.Layouts, LayoutSummary{
			Name:     l.Name,
			Floating: l.Floating,
			Gap:      l.Gap,
			Counts:   append([]int{}, l.Counts...),
		})
	}
	return nil, out, nil
}

func (s *Server) handlePreviewLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args PreviewLayoutInput) (*mcpsdk.CallToolResult, PreviewLayoutOutput, error) {
	if args.Clients < 0 || args.Clients > maxPreviewClients {
		return nil, PreviewLayoutOutput{}, fmt.Errorf("clients must be between 0 and %d", maxPreviewClients)
	}
	p, err := s.daemon.PreviewLayout(strings.TrimSpace(args.Layout), args.Clients)
	if err != nil {
		return nil, PreviewLayoutOutput{}, err
	}
	return nil, PreviewLayoutOutput{
		Layout: p.Layout,
		Usable: p.Usable,
		Rects:  append([]geom.Rect{}, p.Rects...),
		Shared: p.Shared,
	}, nil
}

func (s *Server) handleDispatch(_ context.Context, _ *mcpsdk.CallToolRequest, args DispatchInput) (*mcpsdk.CallToolResult, DispatchOutput, error) {
	action := strings.TrimSpace(args.Action)
	if action == "" {
		return nil, DispatchOutput{}, fmt.Errorf("action is required")
	}
	// Stopping the daemon is left to the user.
	if action == "quit" {
		return nil, DispatchOutput{}, fmt.Errorf("quit is not available over MCP")
	}
	if err := s.daemon.Dispatch(action, args.Arg); err != nil {
		s.logger.Debug("mcp dispatch failed", "action", action, "error", err)
		return nil, DispatchOutput{}, err
	}
	return nil, DispatchOutput{Action: action, Arg: args.Arg, Done: true}, nil
}

func (s *Server) handleReload(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadInput) (*mcpsdk.CallToolResult, ReloadOutput, error) {
	if err := s.daemon.Reload(); err != nil {
		return nil, ReloadOutput{}, err
	}
	return nil, ReloadOutput{Reloaded: true}, nil
}
