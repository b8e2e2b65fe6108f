package diff

import "strings"

// NodeStatus is the change status of a node in the structured diff
type NodeStatus string

const (
	StatusEqual    NodeStatus = "equal"
	StatusAdded    NodeStatus = "added"
	StatusDeleted  NodeStatus = "deleted"
	StatusModified NodeStatus = "modified"
	StatusMoved    NodeStatus = "moved"
)

// UnmarshalText accepts the canonical status names plus the aliases
// produced by older diff writers (removed, insert, delete, replace).
// Unknown names are kept as-is so they are indexed but never treated as deletions.
func (s *NodeStatus) UnmarshalText(text []byte) error {
	raw := strings.ToLower(strings.TrimSpace(string(text)))
	switch raw {
	case "equal", "":
		*s = StatusEqual
	case "added", "insert":
		*s = StatusAdded
	case "deleted", "removed", "delete":
		*s = StatusDeleted
	case "modified", "replace":
		*s = StatusModified
	case "moved":
		*s = StatusMoved
	default:
		*s = NodeStatus(raw)
	}
	return nil
}

// MarshalText writes the canonical status name
func (s NodeStatus) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// ChunkOp is the alignment operation of a rendered chunk delta
type ChunkOp string

const (
	OpEqual   ChunkOp = "equal"
	OpInsert  ChunkOp = "insert"
	OpDelete  ChunkOp = "delete"
	OpReplace ChunkOp = "replace"
)

// AttrChange holds the before and after value of a changed attribute
type AttrChange struct {
	Before any `json:"before" yaml:"before"`
	After  any `json:"after" yaml:"after"`
}

// TextEdit is a single operation of a text diff inside a node
type TextEdit struct {
	Op     ChunkOp `json:"op" yaml:"op"`
	Before string  `json:"before,omitempty" yaml:"before,omitempty"`
	After  string  `json:"after,omitempty" yaml:"after,omitempty"`
}

// NodeDelta describes one node of the prompt tree compared across versions.
// An empty BeforeID means the node does not exist in the before version,
// an empty AfterID means it does not exist in the after version.
type NodeDelta struct {
	Status      NodeStatus            `json:"status" yaml:"status"`
	ElementType string                `json:"element_type" yaml:"element_type"`
	Key         any                   `json:"key,omitempty" yaml:"key,omitempty"`
	BeforeID    string                `json:"before_id,omitempty" yaml:"before_id,omitempty"`
	AfterID     string                `json:"after_id,omitempty" yaml:"after_id,omitempty"`
	BeforeIndex *int                  `json:"before_index,omitempty" yaml:"before_index,omitempty"`
	AfterIndex  *int                  `json:"after_index,omitempty" yaml:"after_index,omitempty"`
	AttrChanges map[string]AttrChange `json:"attr_changes,omitempty" yaml:"attr_changes,omitempty"`
	TextEdits   []TextEdit            `json:"text_edits,omitempty" yaml:"text_edits,omitempty"`
	Children    []*NodeDelta          `json:"children,omitempty" yaml:"children,omitempty"`
}

// HasTextChanges reports whether any text edit is not an equal run
func (n *NodeDelta) HasTextChanges() bool {
	for _, edit := range n.TextEdits {
		if edit.Op != OpEqual {
			return true
		}
	}
	return false
}

// StructuredStats are the aggregate counts computed upstream for a structured diff
type StructuredStats struct {
	NodesAdded    int `json:"nodes_added" yaml:"nodes_added"`
	NodesRemoved  int `json:"nodes_removed" yaml:"nodes_removed"`
	NodesModified int `json:"nodes_modified" yaml:"nodes_modified"`
	NodesMoved    int `json:"nodes_moved" yaml:"nodes_moved"`
	TextAdded     int `json:"text_added" yaml:"text_added"`
	TextRemoved   int `json:"text_removed" yaml:"text_removed"`
}

// IsZero reports whether no counts were supplied
func (s StructuredStats) IsZero() bool {
	return s == StructuredStats{}
}

// StructuredMetrics are derived scores for a structured diff
type StructuredMetrics struct {
	StructEditCount  float64 `json:"struct_edit_count" yaml:"struct_edit_count"`
	StructSpanChars  float64 `json:"struct_span_chars" yaml:"struct_span_chars"`
	StructCharRatio  float64 `json:"struct_char_ratio" yaml:"struct_char_ratio"`
	StructOrderScore float64 `json:"struct_order_score" yaml:"struct_order_score"`
}

// StructuredDiffPayload is the structured diff as produced upstream
type StructuredDiffPayload struct {
	Stats   StructuredStats   `json:"stats" yaml:"stats"`
	Metrics StructuredMetrics `json:"metrics" yaml:"metrics"`
	Root    *NodeDelta        `json:"root" yaml:"root"`
}

// ChunkRef identifies a chunk on one side of a rendered delta.
// Empty ElementID or ChunkID means the identifier was not supplied.
type ChunkRef struct {
	Text      string `json:"text" yaml:"text"`
	ElementID string `json:"element_id,omitempty" yaml:"element_id,omitempty"`
	ChunkID   string `json:"chunk_id,omitempty" yaml:"chunk_id,omitempty"`
}

// ChunkDelta is one alignment operation between a before and an after chunk.
// Insert deltas have no Before, delete deltas have no After.
type ChunkDelta struct {
	Op     ChunkOp   `json:"op" yaml:"op"`
	Before *ChunkRef `json:"before" yaml:"before"`
	After  *ChunkRef `json:"after" yaml:"after"`
}

// AfterChunkID returns the after chunk id or "" when there is no after side
func (d ChunkDelta) AfterChunkID() string {
	if d.After == nil {
		return ""
	}
	return d.After.ChunkID
}

// BeforeChunkID returns the before chunk id or "" when there is no before side
func (d ChunkDelta) BeforeChunkID() string {
	if d.Before == nil {
		return ""
	}
	return d.Before.ChunkID
}

// RenderedStats counts chunk deltas per operation
type RenderedStats struct {
	Insert  int `json:"insert" yaml:"insert"`
	Delete  int `json:"delete" yaml:"delete"`
	Replace int `json:"replace" yaml:"replace"`
	Equal   int `json:"equal" yaml:"equal"`
}

// RenderedMetrics are derived scores for a rendered diff
type RenderedMetrics struct {
	RenderTokenDelta     float64 `json:"render_token_delta" yaml:"render_token_delta"`
	RenderNonWSDelta     float64 `json:"render_non_ws_delta" yaml:"render_non_ws_delta"`
	RenderWSDelta        float64 `json:"render_ws_delta" yaml:"render_ws_delta"`
	RenderCharsDelta     float64 `json:"render_chars_delta" yaml:"render_chars_delta"`
	RenderContextChanges float64 `json:"render_context_changes" yaml:"render_context_changes"`
}

// RenderedDiffPayload is the rendered diff as produced upstream
type RenderedDiffPayload struct {
	Stats       RenderedStats   `json:"stats" yaml:"stats"`
	Metrics     RenderedMetrics `json:"metrics" yaml:"metrics"`
	ChunkDeltas []ChunkDelta    `json:"chunk_deltas" yaml:"chunk_deltas"`
}

// StructuredSnapshot is the lookup view over a structured diff
type StructuredSnapshot struct {
	Stats   StructuredStats
	Metrics StructuredMetrics

	// StatusByElementID maps after-version element ids to their delta
	StatusByElementID map[string]*NodeDelta

	// RemovedNodes holds deleted nodes that had a before id, in pre-order
	RemovedNodes []*NodeDelta

	// Root is the payload tree, shared with the payload
	Root *NodeDelta

	// Counts tallies visited nodes per status
	Counts map[NodeStatus]int
}

// ChunkAnnotation marks an after-version chunk as inserted or replaced
type ChunkAnnotation struct {
	ChunkID string
	Op      ChunkOp

	// BeforeText is nil for inserts
	BeforeText *string

	// BeforeElementID is the before element for replaces. For inserts there
	// is no before side and this carries the after element id instead.
	BeforeElementID string
}

// GhostChunk is a before-version chunk with no surviving after-version home
type GhostChunk struct {
	ChunkID   string
	Text      string
	ElementID string

	// AnchorAfterID is the after chunk the ghost is placed in front of.
	// Empty means the end of the document.
	AnchorAfterID string
	Op            ChunkOp
}

// ElementSummary aggregates the chunk operations touching one element
type ElementSummary struct {
	ElementID  string
	Operations map[ChunkOp]int
	BeforeText string
	AfterText  string
}

// TextDelta is the absolute change in text length for the element
func (e *ElementSummary) TextDelta() int {
	delta := len(e.AfterText) - len(e.BeforeText)
	if delta < 0 {
		return -delta
	}
	return delta
}

// RenderedSnapshot is the lookup view over a rendered diff
type RenderedSnapshot struct {
	Stats   RenderedStats
	Metrics RenderedMetrics

	// ChunkAnnotations maps after-version chunk ids to their annotation
	ChunkAnnotations map[string]ChunkAnnotation

	// DeletedChunks lists ghosts in delta order
	DeletedChunks []GhostChunk

	ElementSummaries map[string]*ElementSummary
}

// Snapshot is the immutable state published by State. It is replaced
// wholesale on every change and never modified in place.
type Snapshot struct {
	Available  bool
	Enabled    bool
	Structured *StructuredSnapshot
	Rendered   *RenderedSnapshot
}
