package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tagtile/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the socket of the daemon on $DISPLAY.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath("")
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = raw
	}
	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetTags retrieves the screen and tag topology.
func (c *Client) GetTags() (*TagsData, error) {
	var tags TagsData
	if err := c.call(CommandGetTags, nil, &tags); err != nil {
		return nil, err
	}
	return &tags, nil
}

// GetLayout retrieves one tag with its clients and geometry.
func (c *Client) GetLayout(tag string) (*LayoutData, error) {
	var data LayoutData
	if err := c.call(CommandGetLayout, GetLayoutPayload{Tag: tag}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListLayouts retrieves the layout catalog and the active layout.
func (c *Client) ListLayouts() (*LayoutsData, error) {
	var data LayoutsData
	if err := c.call(CommandListLayouts, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// PreviewLayout computes what a layout would do with n clients on the
// selected screen without changing anything.
func (c *Client) PreviewLayout(layoutName string, clients int) (*PreviewData, error) {
	var data PreviewData
	payload := PreviewLayoutPayload{LayoutName: layoutName, Clients: clients}
	if err := c.call(CommandPreviewLayout, payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Dispatch runs one action in the daemon.
func (c *Client) Dispatch(action, arg string) error {
	return c.call(CommandDispatch, DispatchPayload{Action: action, Arg: arg}, nil)
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
