package diff

import "sync"

// Listener receives the current snapshot
type Listener func(*Snapshot)

// Inputs are the optional payloads a State is built from
type Inputs struct {
	Structured *StructuredDiffPayload
	Rendered   *RenderedDiffPayload
}

type subscription struct {
	id       int
	listener Listener
}

// State owns one aggregated diff snapshot and the user-facing enabled toggle.
// Subscribers are notified synchronously, after the lock is released, so a
// listener may call back into the State.
type State struct {
	mu        sync.Mutex
	snapshot  *Snapshot
	listeners []subscription
	nextID    int
}

// NewState aggregates the given payloads. Diff display starts enabled
// whenever at least one payload is present.
func NewState(inputs Inputs) *State {
	structured := BuildStructuredSnapshot(inputs.Structured)
	rendered := BuildRenderedSnapshot(inputs.Rendered)
	available := structured != nil || rendered != nil

	return &State{
		snapshot: &Snapshot{
			Available:  available,
			Enabled:    available,
			Structured: structured,
			Rendered:   rendered,
		},
	}
}

// Snapshot returns the current snapshot. Callers must not modify it.
func (s *State) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// IsAvailable reports whether any diff data was supplied
func (s *State) IsAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Available
}

// IsEnabled reports whether diff display is on. It is never true when no
// diff data is available.
func (s *State) IsEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Available && s.snapshot.Enabled
}

// SetEnabled turns diff display on or off. Enabling is ignored when no
// diff data is available. Listeners are only notified on an actual change.
func (s *State) SetEnabled(value bool) {
	s.update(func(*Snapshot) bool { return value })
}

// Toggle flips the enabled flag
func (s *State) Toggle() {
	s.update(func(current *Snapshot) bool { return !current.Enabled })
}

// update replaces the enabled flag with the value computed from the current
// snapshot under the lock, then notifies listeners outside of it
func (s *State) update(enabled func(current *Snapshot) bool) {
	s.mu.Lock()
	current := s.snapshot
	next := enabled(current) && current.Available
	if next == current.Enabled {
		s.mu.Unlock()
		return
	}

	replaced := *current
	replaced.Enabled = next
	s.snapshot = &replaced

	listeners := make([]Listener, 0, len(s.listeners))
	for _, sub := range s.listeners {
		listeners = append(listeners, sub.listener)
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(&replaced)
	}
}

// Subscribe registers a listener and immediately calls it with the current
// snapshot. The returned function removes the registration; calling it more
// than once is harmless.
func (s *State) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, listener: listener})
	current := s.snapshot
	s.mu.Unlock()

	listener(current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}
