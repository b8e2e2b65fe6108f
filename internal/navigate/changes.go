// Package navigate orders the chunk changes of a rendered diff the way
// they appear in the document and lets the viewer step and filter them.
package navigate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pstuifzand/prompt-diff/internal/diff"
	"github.com/pstuifzand/prompt-diff/internal/model"
)

// Change is one navigable chunk change
type Change struct {
	Op        diff.ChunkOp
	ChunkID   string
	ElementID string
	Before    string
	After     string

	// Ghost changes stand for before-chunks; ChunkID is then the before
	// chunk id and AnchorID the after chunk they are shown in front of
	Ghost    bool
	AnchorID string
}

// Label is the one-line description shown in lists
func (c Change) Label() string {
	op := strings.ToUpper(string(c.Op))
	switch {
	case c.Ghost && c.Op == diff.OpReplace:
		return fmt.Sprintf("%s %s (was): %s", op, c.ElementID, oneLine(c.Before))
	case c.Ghost:
		return fmt.Sprintf("%s %s: %s", op, c.ElementID, oneLine(c.Before))
	case c.Op == diff.OpReplace:
		return fmt.Sprintf("%s %s: %s → %s", op, c.ElementID, oneLine(c.Before), oneLine(c.After))
	default:
		return fmt.Sprintf("%s %s: %s", op, c.ElementID, oneLine(c.After))
	}
}

// searchText is what filters and searches match against
func (c Change) searchText() string {
	return strings.Join([]string{string(c.Op), c.ElementID, c.Before, c.After}, " ")
}

func oneLine(text string) string {
	return strings.ReplaceAll(text, "\n", "↵")
}

// BuildChanges lists the annotated and ghost chunks in document order.
// Ghosts come right before their anchor chunk; ghosts anchored to the end
// or to a chunk missing from the IR come last. Annotations for chunks
// missing from the IR are appended after those, ordered by chunk id.
func BuildChanges(snapshot *diff.RenderedSnapshot, after *model.IR) []Change {
	if snapshot == nil {
		return nil
	}

	inventory := after.Inventory()

	ghostsByAnchor := make(map[string][]diff.GhostChunk)
	var trailing []diff.GhostChunk
	for _, ghost := range snapshot.DeletedChunks {
		if _, ok := inventory[ghost.AnchorAfterID]; ghost.AnchorAfterID == "" || !ok {
			trailing = append(trailing, ghost)
			continue
		}
		ghostsByAnchor[ghost.AnchorAfterID] = append(ghostsByAnchor[ghost.AnchorAfterID], ghost)
	}

	changes := make([]Change, 0, len(snapshot.ChunkAnnotations)+len(snapshot.DeletedChunks))
	seen := make(map[string]bool)
	for _, chunkID := range after.ChunkIDs() {
		if seen[chunkID] {
			continue
		}
		seen[chunkID] = true

		for _, ghost := range ghostsByAnchor[chunkID] {
			changes = append(changes, ghostChange(ghost))
		}
		if annotation, ok := snapshot.ChunkAnnotations[chunkID]; ok {
			changes = append(changes, annotationChange(annotation, inventory[chunkID]))
		}
	}

	for _, ghost := range trailing {
		changes = append(changes, ghostChange(ghost))
	}

	var orphans []string
	for chunkID := range snapshot.ChunkAnnotations {
		if !seen[chunkID] {
			orphans = append(orphans, chunkID)
		}
	}
	sort.Strings(orphans)
	for _, chunkID := range orphans {
		changes = append(changes, annotationChange(snapshot.ChunkAnnotations[chunkID], nil))
	}

	return changes
}

func ghostChange(ghost diff.GhostChunk) Change {
	return Change{
		Op:        ghost.Op,
		ChunkID:   ghost.ChunkID,
		ElementID: ghost.ElementID,
		Before:    ghost.Text,
		Ghost:     true,
		AnchorID:  ghost.AnchorAfterID,
	}
}

func annotationChange(annotation diff.ChunkAnnotation, chunk *model.Chunk) Change {
	change := Change{
		Op:        annotation.Op,
		ChunkID:   annotation.ChunkID,
		ElementID: annotation.BeforeElementID,
	}
	if chunk != nil {
		change.ElementID = chunk.ElementID
		change.After = chunk.Text
	}
	if annotation.BeforeText != nil {
		change.Before = *annotation.BeforeText
	}
	return change
}
