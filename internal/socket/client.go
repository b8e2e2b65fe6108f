package socket

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Client sends requests to a running viewer
type Client struct {
	socketPath string
}

// FindRunningInstance finds the socket of the most recently started viewer
// in SocketDir. It returns the socket path and the viewer's PID.
func FindRunningInstance() (string, int, error) {
	return FindRunningInstanceIn(SocketDir())
}

// FindRunningInstanceIn finds the newest viewer socket in dir
func FindRunningInstanceIn(dir string) (string, int, error) {
	var newest string
	var newestTime time.Time

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // directory might not exist
		}
		if d.IsDir() || !strings.HasPrefix(d.Name(), "tpdiff-") || !strings.HasSuffix(d.Name(), ".sock") {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = path
			newestTime = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to scan socket directory: %w", err)
	}
	if newest == "" {
		return "", 0, fmt.Errorf("no running tpdiff instance found")
	}

	pidStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(newest), "tpdiff-"), ".sock")
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		pid = 0
	}
	return newest, pid, nil
}

// NewClient creates a client for the given socket
func NewClient(socketPath string) (*Client, error) {
	if _, err := os.Stat(socketPath); err != nil {
		return nil, fmt.Errorf("socket not found: %w", err)
	}
	return &Client{socketPath: socketPath}, nil
}

// Send sends one message and waits for the response
func (c *Client) Send(msg Message) (*Response, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(replyTimeout + time.Second))

	if err := json.NewEncoder(conn).Encode(msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	var response Response
	if err := json.NewDecoder(conn).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to receive response: %w", err)
	}
	return &response, nil
}

// Toggle flips the overlay of the viewer
func (c *Client) Toggle() (*Response, error) {
	return c.Send(Message{Command: CommandToggle})
}

// SetEnabled switches the overlay of the viewer on or off
func (c *Client) SetEnabled(enabled bool) (*Response, error) {
	return c.Send(Message{Command: CommandSetEnabled, Enabled: &enabled})
}

// Status asks the viewer whether a diff is available and shown
func (c *Client) Status() (*Response, error) {
	return c.Send(Message{Command: CommandStatus})
}
