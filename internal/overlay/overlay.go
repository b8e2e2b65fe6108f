package overlay

import (
	"strings"

	"github.com/pstuifzand/prompt-diff/internal/diff"
	"github.com/pstuifzand/prompt-diff/internal/model"
	"github.com/pstuifzand/prompt-diff/internal/render"
)

// Result counts what one overlay pass did
type Result struct {
	Matched   int // chunks marked with an operation
	Unchanged int // chunks matched by an equal delta
	Skipped   int // chunks without a text inventory entry or without a match
}

// Delta chunk ids are not guaranteed to share an id space with the rendered
// chunks, so matching goes through the owning element and the exact text.
type matchKey struct {
	elementID string
	text      string
}

// ApplyAfter marks the spans of the after view. Every delta with an after
// side takes part in the lookup; later deltas win on identical keys.
func ApplyAfter(index render.ChunkIndex, inventory model.Inventory, payload *diff.RenderedDiffPayload, classes ClassSet) Result {
	lookup := make(map[matchKey]diff.ChunkOp)
	if payload != nil {
		for _, delta := range payload.ChunkDeltas {
			if delta.After == nil {
				continue
			}
			lookup[matchKey{delta.After.ElementID, delta.After.Text}] = delta.Op
		}
	}
	return apply(index, inventory, lookup, classes)
}

// ApplyBefore marks the spans of the before view. Only delete and replace
// deltas are relevant to the prior version.
func ApplyBefore(index render.ChunkIndex, inventory model.Inventory, payload *diff.RenderedDiffPayload, classes ClassSet) Result {
	lookup := make(map[matchKey]diff.ChunkOp)
	if payload != nil {
		for _, delta := range payload.ChunkDeltas {
			if delta.Before == nil {
				continue
			}
			if delta.Op != diff.OpDelete && delta.Op != diff.OpReplace {
				continue
			}
			lookup[matchKey{delta.Before.ElementID, delta.Before.Text}] = delta.Op
		}
	}
	return apply(index, inventory, lookup, classes)
}

func apply(index render.ChunkIndex, inventory model.Inventory, lookup map[matchKey]diff.ChunkOp, classes ClassSet) Result {
	var result Result

	for chunkID, spans := range index {
		chunk, ok := inventory[chunkID]
		if !ok || chunk == nil || !chunk.IsText() {
			result.Skipped++
			continue
		}

		op, ok := lookup[matchKey{chunk.ElementID, chunk.Text}]
		if !ok {
			result.Skipped++
			continue
		}

		class := classes.ClassFor(op)
		if class == "" {
			result.Unchanged++
			continue
		}

		for _, span := range spans {
			span.SetAttr(render.AttrDiffOp, string(op))
			span.AddClass(class)
		}
		result.Matched++
	}

	return result
}

// PlaceGhosts inserts a span for each ghost chunk in front of its anchor,
// or at the end of the document when it has none. Returns the number of
// ghosts placed by this call; ghosts already in the document are left alone.
func PlaceGhosts(doc *render.Document, ghosts []diff.GhostChunk, classes ClassSet) int {
	placed := 0
	for _, ghost := range ghosts {
		if ghost.ChunkID == "" || doc.HasGhost(ghost.ChunkID) {
			continue
		}

		span := render.NewSpan("", ghost.ElementID, strings.ReplaceAll(ghost.Text, "\n", "↵"))
		span.SetAttr(render.AttrDiffOp, string(ghost.Op))
		span.AddClass(classes.Ghost)
		span.AddClass(classes.ClassFor(ghost.Op))

		doc.PlaceGhost(ghost.ChunkID, ghost.AnchorAfterID, span)
		placed++
	}
	return placed
}

// Clear removes the diff attribute and the given classes from every indexed span
func Clear(index render.ChunkIndex, classes ClassSet) {
	for _, spans := range index {
		for _, span := range spans {
			span.RemoveAttr(render.AttrDiffOp)
			span.RemoveClass(classes.Insert)
			span.RemoveClass(classes.Delete)
			span.RemoveClass(classes.Replace)
		}
	}
}
