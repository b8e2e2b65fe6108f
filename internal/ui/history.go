package ui

import "log"

// HistoryStore persists history entries under a name
type HistoryStore interface {
	Load(name string) ([]string, error)
	Save(name string, entries []string) error
}

// History keeps previous inputs of a prompt and lets the user step through
// them with the arrow keys
type History struct {
	entries    []string
	cursor     int // -1 while not navigating
	maxEntries int
	draft      string // input typed before navigation started

	store HistoryStore
	name  string
}

// NewHistory creates an in-memory history
func NewHistory(maxEntries int) *History {
	return &History{cursor: -1, maxEntries: maxEntries}
}

// NewStoredHistory creates a history backed by store. Entries already
// stored under name are loaded; a load failure leaves the history empty.
func NewStoredHistory(maxEntries int, store HistoryStore, name string) *History {
	h := NewHistory(maxEntries)
	h.store = store
	h.name = name

	entries, err := store.Load(name)
	if err != nil {
		log.Printf("Failed to load %s history: %v", name, err)
		return h
	}
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	h.entries = entries
	return h
}

// Add records an entry. Empty entries and repeats of the latest entry are
// ignored.
func (h *History) Add(entry string) {
	if entry == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		h.Reset()
		return
	}

	h.entries = append(h.entries, entry)
	if len(h.entries) > h.maxEntries {
		h.entries = h.entries[len(h.entries)-h.maxEntries:]
	}
	h.Reset()

	if h.store != nil {
		if err := h.store.Save(h.name, h.entries); err != nil {
			log.Printf("Failed to save %s history: %v", h.name, err)
		}
	}
}

// Previous steps back to an older entry, stopping at the oldest
func (h *History) Previous() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor < 0:
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps forward to a newer entry. Stepping past the newest entry ends
// navigation and returns the draft.
func (h *History) Next() (string, bool) {
	if h.cursor < 0 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		draft := h.draft
		h.Reset()
		return draft, true
	}
	return h.entries[h.cursor], true
}

// SetDraft stores the current input so Next can restore it
func (h *History) SetDraft(input string) {
	h.draft = input
}

// Reset ends navigation
func (h *History) Reset() {
	h.cursor = -1
	h.draft = ""
}

// IsNavigating reports whether an entry is currently selected
func (h *History) IsNavigating() bool {
	return h.cursor >= 0
}

// Entries returns a copy of the entries, oldest first
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries
func (h *History) Len() int {
	return len(h.entries)
}
