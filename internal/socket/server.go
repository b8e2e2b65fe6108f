package socket

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const replyTimeout = 5 * time.Second

// Server accepts remote control requests on a Unix socket. Requests are
// handed to the viewer through Messages and answered once the viewer
// replies.
type Server struct {
	socketPath string
	listener   net.Listener
	msgChan    chan Message
	stopChan   chan struct{}
}

// SocketDir returns the directory sockets are created in
func SocketDir() string {
	if xdg.RuntimeDir != "" {
		return filepath.Join(xdg.RuntimeDir, "prompt-diff")
	}
	return filepath.Join(xdg.DataHome, "prompt-diff")
}

// NewServer listens on tpdiff-<pid>.sock in SocketDir
func NewServer(pid int) (*Server, error) {
	return NewServerInDir(SocketDir(), pid)
}

// NewServerInDir listens on tpdiff-<pid>.sock in dir
func NewServerInDir(dir string, pid int) (*Server, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	socketPath := filepath.Join(dir, fmt.Sprintf("tpdiff-%d.sock", pid))
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on socket: %w", err)
	}

	log.Printf("Socket server listening on: %s", socketPath)

	return &Server{
		socketPath: socketPath,
		listener:   listener,
		msgChan:    make(chan Message, 10),
		stopChan:   make(chan struct{}),
	}, nil
}

// Start begins accepting connections
func (s *Server) Start() {
	go s.acceptLoop()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopChan:
				return
			default:
				log.Printf("Error accepting connection: %v", err)
				continue
			}
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)
	reply := func(response Response) {
		if err := encoder.Encode(response); err != nil {
			log.Printf("Error encoding response: %v", err)
		}
	}

	var msg Message
	if err := decoder.Decode(&msg); err != nil {
		if err != io.EOF {
			log.Printf("Error decoding message: %v", err)
		}
		reply(Response{Message: fmt.Sprintf("Invalid message format: %v", err)})
		return
	}

	switch msg.Command {
	case "":
		reply(Response{Message: "Missing command field"})
		return
	case CommandToggle, CommandStatus:
	case CommandSetEnabled:
		if msg.Enabled == nil {
			reply(Response{Message: "set_enabled needs an enabled field"})
			return
		}
	default:
		reply(Response{Message: "Unknown command: " + msg.Command})
		return
	}

	msg.Reply = make(chan Response, 1)

	select {
	case s.msgChan <- msg:
	case <-s.stopChan:
		reply(Response{Message: "Server is shutting down"})
		return
	}

	select {
	case response := <-msg.Reply:
		reply(response)
	case <-time.After(replyTimeout):
		reply(Response{Message: "Command timed out"})
	case <-s.stopChan:
		reply(Response{Message: "Server is shutting down"})
	}
}

// Messages returns the channel requests arrive on
func (s *Server) Messages() <-chan Message {
	return s.msgChan
}

// SocketPath returns the path of the Unix socket
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Stop closes the listener and removes the socket file
func (s *Server) Stop() {
	close(s.stopChan)
	if s.listener != nil {
		s.listener.Close()
	}
	if s.socketPath != "" {
		os.Remove(s.socketPath)
	}
	log.Printf("Socket server stopped")
}
