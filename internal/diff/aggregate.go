// Package diff aggregates precomputed prompt diffs into lookup snapshots
// and holds the toggleable diff display state.
package diff

// BuildStructuredSnapshot indexes a structured diff tree by after-version
// element id and collects removed nodes. A nil payload yields nil.
func BuildStructuredSnapshot(payload *StructuredDiffPayload) *StructuredSnapshot {
	if payload == nil {
		return nil
	}

	snapshot := &StructuredSnapshot{
		Stats:             payload.Stats,
		Metrics:           payload.Metrics,
		StatusByElementID: make(map[string]*NodeDelta),
		RemovedNodes:      make([]*NodeDelta, 0),
		Counts:            make(map[NodeStatus]int),
		Root:              payload.Root,
	}

	if payload.Root == nil {
		return snapshot
	}

	// Explicit stack, children pushed in reverse so nodes come out in pre-order
	stack := []*NodeDelta{payload.Root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}

		snapshot.Counts[node.Status]++

		if node.AfterID != "" {
			snapshot.StatusByElementID[node.AfterID] = node
		}
		if node.Status == StatusDeleted && node.BeforeID != "" {
			snapshot.RemovedNodes = append(snapshot.RemovedNodes, node)
		}

		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}

	return snapshot
}

// BuildRenderedSnapshot walks the chunk deltas once, annotating inserted and
// replaced after-chunks and collecting ghosts for deleted and replaced
// before-chunks. A nil payload yields nil.
//
// Ghost anchors are found by scanning forward, so a long run of trailing
// deletions costs O(n²) in the number of deltas.
func BuildRenderedSnapshot(payload *RenderedDiffPayload) *RenderedSnapshot {
	if payload == nil {
		return nil
	}

	snapshot := &RenderedSnapshot{
		Stats:            payload.Stats,
		Metrics:          payload.Metrics,
		ChunkAnnotations: make(map[string]ChunkAnnotation),
		DeletedChunks:    make([]GhostChunk, 0),
		ElementSummaries: make(map[string]*ElementSummary),
	}

	deltas := payload.ChunkDeltas
	for i, delta := range deltas {
		registerElementSummary(snapshot.ElementSummaries, delta)

		switch delta.Op {
		case OpInsert:
			if afterID := delta.AfterChunkID(); afterID != "" {
				snapshot.ChunkAnnotations[afterID] = ChunkAnnotation{
					ChunkID:         afterID,
					Op:              OpInsert,
					BeforeElementID: delta.After.ElementID,
				}
			}

		case OpReplace:
			if afterID := delta.AfterChunkID(); afterID != "" {
				beforeText := ""
				beforeElementID := ""
				if delta.Before != nil {
					beforeText = delta.Before.Text
					beforeElementID = delta.Before.ElementID
				}
				snapshot.ChunkAnnotations[afterID] = ChunkAnnotation{
					ChunkID:         afterID,
					Op:              OpReplace,
					BeforeText:      &beforeText,
					BeforeElementID: beforeElementID,
				}
			}
			if beforeID := delta.BeforeChunkID(); beforeID != "" {
				anchor := delta.AfterChunkID()
				if anchor == "" {
					anchor = findAnchor(deltas, i+1)
				}
				snapshot.DeletedChunks = append(snapshot.DeletedChunks, GhostChunk{
					ChunkID:       beforeID,
					Text:          delta.Before.Text,
					ElementID:     delta.Before.ElementID,
					AnchorAfterID: anchor,
					Op:            OpReplace,
				})
			}

		case OpDelete:
			if beforeID := delta.BeforeChunkID(); beforeID != "" {
				snapshot.DeletedChunks = append(snapshot.DeletedChunks, GhostChunk{
					ChunkID:       beforeID,
					Text:          delta.Before.Text,
					ElementID:     delta.Before.ElementID,
					AnchorAfterID: findAnchor(deltas, i+1),
					Op:            OpDelete,
				})
			}
		}
	}

	return snapshot
}

// findAnchor returns the first after chunk id at or after start, or "" when
// the rest of the sequence has none
func findAnchor(deltas []ChunkDelta, start int) string {
	for j := start; j < len(deltas); j++ {
		if id := deltas[j].AfterChunkID(); id != "" {
			return id
		}
	}
	return ""
}

// registerElementSummary folds one delta into the per-element summaries,
// keyed by the after element id and falling back to the before element id
func registerElementSummary(summaries map[string]*ElementSummary, delta ChunkDelta) {
	elementID := ""
	if delta.After != nil {
		elementID = delta.After.ElementID
	}
	if elementID == "" && delta.Before != nil {
		elementID = delta.Before.ElementID
	}
	if elementID == "" {
		return
	}

	summary, ok := summaries[elementID]
	if !ok {
		summary = &ElementSummary{
			ElementID:  elementID,
			Operations: make(map[ChunkOp]int),
		}
		summaries[elementID] = summary
	}

	summary.Operations[delta.Op]++
	if delta.Before != nil {
		summary.BeforeText += delta.Before.Text
	}
	if delta.After != nil {
		summary.AfterText += delta.After.Text
	}
}
