// Package model contains the rendered prompt representation the diff is overlaid on
package model

import "strings"

// Chunk types as written by the prompt renderer
const (
	ChunkTypeText  = "TextChunk"
	ChunkTypeImage = "ImageChunk"
)

// Chunk is a leaf unit of a rendered prompt, owned by exactly one element
type Chunk struct {
	ID        string `json:"id" yaml:"id"`
	Type      string `json:"type" yaml:"type"`
	Text      string `json:"text,omitempty" yaml:"text,omitempty"`
	ElementID string `json:"element_id" yaml:"element_id"`
}

// IsText reports whether the chunk carries text. Chunks without a type are
// treated as text for compatibility with hand-written bundles.
func (c *Chunk) IsText() bool {
	return c.Type == ChunkTypeText || c.Type == ""
}

// IR is the intermediate representation of one rendered prompt version
type IR struct {
	ID             string   `json:"id,omitempty" yaml:"id,omitempty"`
	SourcePromptID string   `json:"source_prompt_id,omitempty" yaml:"source_prompt_id,omitempty"`
	Chunks         []*Chunk `json:"chunks" yaml:"chunks"`
}

// Inventory maps chunk ids to chunks
type Inventory map[string]*Chunk

// NewIR creates an IR with the given chunks
func NewIR(chunks ...*Chunk) *IR {
	return &IR{Chunks: chunks}
}

// NewTextChunk creates a text chunk
func NewTextChunk(id, elementID, text string) *Chunk {
	return &Chunk{
		ID:        id,
		Type:      ChunkTypeText,
		Text:      text,
		ElementID: elementID,
	}
}

// Inventory builds the chunk lookup for this IR. Later chunks win on
// duplicate ids.
func (ir *IR) Inventory() Inventory {
	inventory := make(Inventory)
	if ir == nil {
		return inventory
	}
	for _, chunk := range ir.Chunks {
		if chunk == nil || chunk.ID == "" {
			continue
		}
		inventory[chunk.ID] = chunk
	}
	return inventory
}

// ChunkIDs returns the chunk ids in document order
func (ir *IR) ChunkIDs() []string {
	if ir == nil {
		return nil
	}
	ids := make([]string, 0, len(ir.Chunks))
	for _, chunk := range ir.Chunks {
		if chunk != nil && chunk.ID != "" {
			ids = append(ids, chunk.ID)
		}
	}
	return ids
}

// Text concatenates the text of all chunks
func (ir *IR) Text() string {
	if ir == nil {
		return ""
	}
	var sb strings.Builder
	for _, chunk := range ir.Chunks {
		if chunk != nil {
			sb.WriteString(chunk.Text)
		}
	}
	return sb.String()
}

// FindChunkByID finds a chunk by its ID
func (ir *IR) FindChunkByID(id string) *Chunk {
	if ir == nil {
		return nil
	}
	for _, chunk := range ir.Chunks {
		if chunk != nil && chunk.ID == id {
			return chunk
		}
	}
	return nil
}
