// Package render lays a prompt IR out as a tree of spans and keeps the
// chunk id → span bookkeeping the diff overlay reads.
package render

// Attribute names written on spans
const (
	AttrDiffOp     = "data-diff-op"
	AttrGhostChunk = "data-ghost-chunk"
)

// Span is one rendered output element. Chunk spans carry the id of the chunk
// they realize; line and root spans have an empty ChunkID.
type Span struct {
	ChunkID   string
	ElementID string
	Text      string
	Children  []*Span

	attrs   map[string]string
	classes []string
}

// NewSpan creates a span realizing (part of) a chunk
func NewSpan(chunkID, elementID, text string) *Span {
	return &Span{
		ChunkID:   chunkID,
		ElementID: elementID,
		Text:      text,
	}
}

// SetAttr sets or overwrites an attribute
func (s *Span) SetAttr(name, value string) {
	if s.attrs == nil {
		s.attrs = make(map[string]string)
	}
	s.attrs[name] = value
}

// Attr returns an attribute value
func (s *Span) Attr(name string) (string, bool) {
	value, ok := s.attrs[name]
	return value, ok
}

// RemoveAttr deletes an attribute
func (s *Span) RemoveAttr(name string) {
	delete(s.attrs, name)
}

// AddClass adds a class unless it is already present
func (s *Span) AddClass(class string) {
	if class == "" || s.HasClass(class) {
		return
	}
	s.classes = append(s.classes, class)
}

// HasClass reports whether the span has the class
func (s *Span) HasClass(class string) bool {
	for _, c := range s.classes {
		if c == class {
			return true
		}
	}
	return false
}

// RemoveClass removes a class
func (s *Span) RemoveClass(class string) {
	for i, c := range s.classes {
		if c == class {
			s.classes = append(s.classes[:i], s.classes[i+1:]...)
			return
		}
	}
}

// Classes returns a copy of the span's classes in insertion order
func (s *Span) Classes() []string {
	classes := make([]string, len(s.classes))
	copy(classes, s.classes)
	return classes
}

// IsGhost reports whether the span stands in for a deleted before-chunk
func (s *Span) IsGhost() bool {
	_, ok := s.attrs[AttrGhostChunk]
	return ok
}

// ChunkIndex maps chunk ids to the spans realizing them
type ChunkIndex map[string][]*Span

// RebuildIndex walks a span tree and maps each chunk id to its top-level
// owner spans. Spans nested under an ancestor with the same id are skipped.
func RebuildIndex(root *Span) ChunkIndex {
	index := make(ChunkIndex)
	if root == nil {
		return index
	}

	owners := make(map[string]bool)
	var walk func(span *Span)
	walk = func(span *Span) {
		id := span.ChunkID
		owner := id != "" && !owners[id]
		if owner {
			index[id] = append(index[id], span)
			owners[id] = true
		}

		for _, child := range span.Children {
			if child != nil {
				walk(child)
			}
		}

		if owner {
			delete(owners, id)
		}
	}
	walk(root)

	return index
}
