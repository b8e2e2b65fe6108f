package render

import (
	"fmt"
	"strings"

	"github.com/pstuifzand/prompt-diff/internal/model"
)

// Document is a laid-out prompt: a root span whose children are lines,
// each line holding the chunk spans shown on it
type Document struct {
	Root  *Span
	Index ChunkIndex

	ghosts map[string]*Span
}

// Layout splits the chunks of an IR into lines. A chunk spanning several
// lines is realized by one span per line.
func Layout(ir *model.IR) *Document {
	root := &Span{}
	line := &Span{}

	if ir != nil {
		for _, chunk := range ir.Chunks {
			if chunk == nil {
				continue
			}

			if !chunk.IsText() {
				line.Children = append(line.Children, NewSpan(chunk.ID, chunk.ElementID, fmt.Sprintf("[%s]", imageLabel(chunk))))
				continue
			}

			realized := false
			for i, part := range strings.Split(chunk.Text, "\n") {
				if i > 0 {
					root.Children = append(root.Children, line)
					line = &Span{}
				}
				if part != "" {
					line.Children = append(line.Children, NewSpan(chunk.ID, chunk.ElementID, part))
					realized = true
				}
			}

			// Keep whitespace-only chunks addressable
			if !realized {
				line.Children = append(line.Children, NewSpan(chunk.ID, chunk.ElementID, ""))
			}
		}
	}
	root.Children = append(root.Children, line)

	return &Document{
		Root:   root,
		Index:  RebuildIndex(root),
		ghosts: make(map[string]*Span),
	}
}

func imageLabel(chunk *model.Chunk) string {
	if chunk.Type == model.ChunkTypeImage {
		return "image"
	}
	return strings.ToLower(chunk.Type)
}

// Lines returns the line spans
func (d *Document) Lines() []*Span {
	return d.Root.Children
}

// LineOf returns the line holding the first span of a chunk, or -1
func (d *Document) LineOf(chunkID string) int {
	spans := d.Index[chunkID]
	if len(spans) == 0 {
		return -1
	}
	return d.lineOfSpan(spans[0])
}

// GhostLine returns the line holding a placed ghost, or -1
func (d *Document) GhostLine(ghostID string) int {
	span, ok := d.ghosts[ghostID]
	if !ok {
		return -1
	}
	return d.lineOfSpan(span)
}

func (d *Document) lineOfSpan(target *Span) int {
	for i, line := range d.Root.Children {
		for _, span := range line.Children {
			if span == target {
				return i
			}
		}
	}
	return -1
}

// HasGhost reports whether a ghost with this id was already placed
func (d *Document) HasGhost(ghostID string) bool {
	_, ok := d.ghosts[ghostID]
	return ok
}

// PlaceGhost inserts a ghost span in front of the first span of the anchor
// chunk, or at the end of the document when the anchor is empty or unknown.
// Placing the same ghost id twice is a no-op.
func (d *Document) PlaceGhost(ghostID, anchorChunkID string, span *Span) {
	if d.HasGhost(ghostID) {
		return
	}
	span.SetAttr(AttrGhostChunk, ghostID)
	d.ghosts[ghostID] = span

	if anchors := d.Index[anchorChunkID]; anchorChunkID != "" && len(anchors) > 0 {
		if d.insertBefore(anchors[0], span) {
			return
		}
	}

	lines := d.Root.Children
	last := lines[len(lines)-1]
	last.Children = append(last.Children, span)
}

func (d *Document) insertBefore(anchor, span *Span) bool {
	for _, line := range d.Root.Children {
		for i, child := range line.Children {
			if child != anchor {
				continue
			}
			line.Children = append(line.Children, nil)
			copy(line.Children[i+1:], line.Children[i:])
			line.Children[i] = span
			return true
		}
	}
	return false
}

// Ghosts returns the placed ghost spans keyed by ghost id
func (d *Document) Ghosts() map[string]*Span {
	return d.ghosts
}
