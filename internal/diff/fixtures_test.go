package diff

// sampleStructured has a modified node with after id node-after and a
// deleted node with before id deleted-node under an equal root
func sampleStructured() *StructuredDiffPayload {
	return &StructuredDiffPayload{
		Stats: StructuredStats{NodesModified: 1, NodesRemoved: 1, TextAdded: 4, TextRemoved: 2},
		Metrics: StructuredMetrics{
			StructEditCount: 2,
			StructSpanChars: 6,
			StructCharRatio: 0.25,
		},
		Root: &NodeDelta{
			Status:      StatusEqual,
			ElementType: "StructuredPrompt",
			BeforeID:    "root-before",
			AfterID:     "root-after",
			Children: []*NodeDelta{
				{
					Status:      StatusModified,
					ElementType: "TextInterpolation",
					Key:         "title",
					BeforeID:    "node-before",
					AfterID:     "node-after",
					AttrChanges: map[string]AttrChange{
						"format_spec": {Before: "", After: "upper"},
					},
					TextEdits: []TextEdit{
						{Op: OpEqual, Before: "Project ", After: "Project "},
						{Op: OpReplace, Before: "Plan", After: "Update"},
					},
				},
				{
					Status:      StatusDeleted,
					ElementType: "Static",
					Key:         1,
					BeforeID:    "deleted-node",
				},
			},
		},
	}
}

// sampleRendered is replace(chunk-before→chunk-after), delete(chunk-deleted), insert(chunk-added)
func sampleRendered() *RenderedDiffPayload {
	return &RenderedDiffPayload{
		Stats: RenderedStats{Replace: 1, Delete: 1, Insert: 1},
		ChunkDeltas: []ChunkDelta{
			{
				Op:     OpReplace,
				Before: &ChunkRef{Text: "Project Plan", ElementID: "node-before", ChunkID: "chunk-before"},
				After:  &ChunkRef{Text: "Project Update", ElementID: "node-after", ChunkID: "chunk-after"},
			},
			{
				Op:     OpDelete,
				Before: &ChunkRef{Text: "Old paragraph", ElementID: "deleted-node", ChunkID: "chunk-deleted"},
			},
			{
				Op:    OpInsert,
				After: &ChunkRef{Text: "New paragraph", ElementID: "added-node", ChunkID: "chunk-added"},
			},
		},
	}
}
