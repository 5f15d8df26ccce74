package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/1broseidon/tagtile/internal/runtimepath"
)

// Handler answers IPC requests. The daemon implements it by running each
// call on its serial loop.
type Handler interface {
	Status() (StatusData, error)
	Tags() (TagsData, error)
	Layout(tag string) (LayoutData, error)
	Layouts() (LayoutsData, error)
	Preview(name string, clients int) (PreviewData, error)
	Dispatch(action, arg string) error
	Reload() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	handler      Handler
	log          *slog.Logger
	wg           sync.WaitGroup
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server on the runtime socket of display.
func NewServer(display string, h Handler, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath(display)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, h, logger), nil
}

// NewServerAt creates a server listening on socketPath.
func NewServerAt(socketPath string, h Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath: socketPath,
		handler:    h,
		log:        logger,
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// Remove a stale socket left by a crashed daemon.
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.log.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			done := s.shuttingDown
			s.shutdownMu.Unlock()
			if done || errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn("IPC accept error", "error", err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection serves one request per connection: a JSON line in, a
// JSON line out.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.Debug("IPC read error", "error", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("invalid request: %v", err))
	} else {
		resp = s.handleCommand(req)
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.log.Error("failed to marshal response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.log.Debug("failed to send response", "error", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	s.log.Debug("IPC request", "command", req.Command)
	switch req.Command {
	case CommandReload:
		return reply(nil, s.handler.Reload())
	case CommandGetStatus:
		st, err := s.handler.Status()
		return reply(st, err)
	case CommandGetTags:
		tags, err := s.handler.Tags()
		return reply(tags, err)
	case CommandGetLayout:
		var p GetLayoutPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		data, err := s.handler.Layout(p.Tag)
		return reply(data, err)
	case CommandListLayouts:
		data, err := s.handler.Layouts()
		return reply(data, err)
	case CommandPreviewLayout:
		var p PreviewLayoutPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.Clients < 0 {
			return NewErrorResponse("clients must be >= 0")
		}
		data, err := s.handler.Preview(p.LayoutName, p.Clients)
		return reply(data, err)
	case CommandDispatch:
		var p DispatchPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.Action == "" {
			return NewErrorResponse("action is required")
		}
		return reply(nil, s.handler.Dispatch(p.Action, p.Arg))
	default:
		return NewErrorResponse(fmt.Sprintf("unknown command: %s", req.Command))
	}
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func reply(data any, err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// Stop closes the listener, waits for in-flight requests and removes the
// socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}
