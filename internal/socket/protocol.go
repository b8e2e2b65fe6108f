package socket

// Message is a request sent to a running viewer
type Message struct {
	Command string `json:"command"`
	Enabled *bool  `json:"enabled,omitempty"` // for set_enabled

	// Reply is set by the server; the handler answers on it exactly once
	Reply chan Response `json:"-"`
}

// Response answers a Message
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Available bool   `json:"available"`
	Enabled   bool   `json:"enabled"`
}

// Command types
const (
	CommandToggle     = "toggle"
	CommandSetEnabled = "set_enabled"
	CommandStatus     = "status"
)
