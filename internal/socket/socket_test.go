package socket

import (
	"os"
	"testing"
	"time"
)

// socketDir returns a short directory; Unix socket paths are length limited
func socketDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "tpd")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// serve answers every request like a viewer holding an enabled flag
func serve(server *Server, enabled *bool) {
	go func() {
		for msg := range server.Messages() {
			switch msg.Command {
			case CommandToggle:
				*enabled = !*enabled
			case CommandSetEnabled:
				*enabled = *msg.Enabled
			}
			msg.Reply <- Response{Success: true, Message: "ok", Available: true, Enabled: *enabled}
		}
	}()
}

func startServer(t *testing.T, dir string) *Server {
	server, err := NewServerInDir(dir, os.Getpid())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	t.Cleanup(server.Stop)
	server.Start()
	return server
}

func TestServerClient(t *testing.T) {
	server := startServer(t, socketDir(t))
	enabled := true
	serve(server, &enabled)

	client, err := NewClient(server.SocketPath())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	response, err := client.Toggle()
	if err != nil {
		t.Fatalf("Failed to send toggle: %v", err)
	}
	if !response.Success || response.Enabled {
		t.Errorf("Expected success with enabled=false, got %+v", response)
	}

	response, err = client.SetEnabled(true)
	if err != nil {
		t.Fatalf("Failed to send set_enabled: %v", err)
	}
	if !response.Enabled {
		t.Errorf("Expected enabled=true, got %+v", response)
	}

	response, err = client.Status()
	if err != nil {
		t.Fatalf("Failed to send status: %v", err)
	}
	if !response.Available || !response.Enabled {
		t.Errorf("Expected available and enabled, got %+v", response)
	}
}

func TestServerRejectsInvalidMessages(t *testing.T) {
	server := startServer(t, socketDir(t))

	client, err := NewClient(server.SocketPath())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{"missing command", Message{}, "Missing command field"},
		{"unknown command", Message{Command: "add_node"}, "Unknown command: add_node"},
		{"set_enabled without value", Message{Command: CommandSetEnabled}, "set_enabled needs an enabled field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, err := client.Send(tt.msg)
			if err != nil {
				t.Fatalf("Failed to send: %v", err)
			}
			if response.Success {
				t.Errorf("Expected failure")
			}
			if response.Message != tt.want {
				t.Errorf("Expected message %q, got %q", tt.want, response.Message)
			}
		})
	}

	select {
	case msg := <-server.Messages():
		t.Errorf("Invalid message reached the viewer: %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFindRunningInstance(t *testing.T) {
	dir := socketDir(t)

	if _, _, err := FindRunningInstanceIn(dir); err == nil {
		t.Fatalf("Expected an error without a running instance")
	}

	server := startServer(t, dir)

	socketPath, pid, err := FindRunningInstanceIn(dir)
	if err != nil {
		t.Fatalf("Failed to find running instance: %v", err)
	}
	if socketPath != server.SocketPath() {
		t.Errorf("Expected socketPath=%s, got socketPath=%s", server.SocketPath(), socketPath)
	}
	if pid != os.Getpid() {
		t.Errorf("Expected pid=%d, got pid=%d", os.Getpid(), pid)
	}
}
