package navigate

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Navigator steps through a list of changes, optionally narrowed by a
// fuzzy filter. Stepping wraps around at both ends.
type Navigator struct {
	changes []Change
	visible []int
	current int
	query   string
}

// NewNavigator creates a navigator with nothing selected
func NewNavigator(changes []Change) *Navigator {
	n := &Navigator{changes: changes}
	n.Filter("")
	return n
}

// Len returns the number of visible changes
func (n *Navigator) Len() int {
	return len(n.visible)
}

// Changes returns the visible changes in order
func (n *Navigator) Changes() []Change {
	changes := make([]Change, 0, len(n.visible))
	for _, i := range n.visible {
		changes = append(changes, n.changes[i])
	}
	return changes
}

// Position returns the index of the current change among the visible ones, or -1
func (n *Navigator) Position() int {
	return n.current
}

// Current returns the selected change
func (n *Navigator) Current() (Change, bool) {
	if n.current < 0 || n.current >= len(n.visible) {
		return Change{}, false
	}
	return n.changes[n.visible[n.current]], true
}

// Next selects the following change
func (n *Navigator) Next() (Change, bool) {
	if len(n.visible) == 0 {
		return Change{}, false
	}
	n.current = (n.current + 1) % len(n.visible)
	return n.Current()
}

// First selects the first visible change
func (n *Navigator) First() (Change, bool) {
	n.current = -1
	return n.Next()
}

// Prev selects the preceding change
func (n *Navigator) Prev() (Change, bool) {
	if len(n.visible) == 0 {
		return Change{}, false
	}
	if n.current <= 0 {
		n.current = len(n.visible) - 1
	} else {
		n.current--
	}
	return n.Current()
}

// Filter keeps the changes whose op, element or text fuzzily match the
// query and clears the selection. An empty query shows everything.
func (n *Navigator) Filter(query string) {
	n.query = query
	n.current = -1
	n.visible = n.visible[:0]
	for i, change := range n.changes {
		if query == "" || fuzzy.MatchFold(query, change.searchText()) {
			n.visible = append(n.visible, i)
		}
	}
}

// Query returns the active filter
func (n *Navigator) Query() string {
	return n.query
}

// Search ranks changes by how closely their label matches the query,
// best match first. Changes that do not match are left out.
func Search(changes []Change, query string) []Change {
	labels := make([]string, len(changes))
	for i, change := range changes {
		labels[i] = change.Label()
	}

	ranks := fuzzy.RankFindFold(query, labels)
	sort.Stable(ranks)

	results := make([]Change, 0, len(ranks))
	for _, rank := range ranks {
		results = append(results, changes[rank.OriginalIndex])
	}
	return results
}
