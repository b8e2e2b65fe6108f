package diff

import (
	"fmt"
	"sort"
	"strings"
)

// DiffLineType indicates the type of diff line for rendering
type DiffLineType int

const (
	DiffTypeHeader DiffLineType = iota
	DiffTypeNewSection
	DiffTypeDeletedSection
	DiffTypeModifiedSection
	DiffTypeNewItem
	DiffTypeDeletedItem
	DiffTypeModifiedItem
	DiffTypeItemDetail
	DiffTypeSummary
	DiffTypeBlank
)

// DiffLine represents a rendered line in diff output
type DiffLine struct {
	Type    DiffLineType
	Content string
	Indent  int // Indentation level
}

// BuildDiffLines converts a snapshot into formatted display lines.
// This is suitable for both CLI and TUI output.
func BuildDiffLines(snapshot *Snapshot, verbose bool) []DiffLine {
	var lines []DiffLine
	if snapshot == nil || !snapshot.Available {
		return []DiffLine{{Type: DiffTypeHeader, Content: "No diff available"}}
	}

	if s := snapshot.Structured; s != nil {
		lines = append(lines, structuredLines(s, verbose)...)
	}
	if r := snapshot.Rendered; r != nil {
		lines = append(lines, renderedLines(r, verbose)...)
	}

	lines = append(lines, DiffLine{Type: DiffTypeBlank})
	lines = append(lines, DiffLine{Type: DiffTypeSummary, Content: "=== Summary ==="})
	lines = append(lines, summaryLines(snapshot)...)

	return lines
}

func structuredLines(s *StructuredSnapshot, verbose bool) []DiffLine {
	var lines []DiffLine

	// Added and modified nodes come from the after-id index
	var added, modified []string
	for _, id := range getSortedIDs(s.StatusByElementID) {
		switch s.StatusByElementID[id].Status {
		case StatusAdded:
			added = append(added, id)
		case StatusModified, StatusMoved:
			modified = append(modified, id)
		}
	}

	if len(added) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeNewSection, Content: "Added Nodes:"})
		for _, id := range added {
			lines = append(lines, formatNode(DiffTypeNewItem, id, s.StatusByElementID[id], false)...)
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	if len(s.RemovedNodes) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeDeletedSection, Content: "Removed Nodes:"})
		for _, node := range s.RemovedNodes {
			lines = append(lines, formatNode(DiffTypeDeletedItem, node.BeforeID, node, false)...)
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	if len(modified) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeModifiedSection, Content: "Modified Nodes:"})
		for _, id := range modified {
			lines = append(lines, formatNode(DiffTypeModifiedItem, id, s.StatusByElementID[id], verbose)...)
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	return lines
}

// formatNode creates display lines for one node delta
func formatNode(lineType DiffLineType, id string, node *NodeDelta, verbose bool) []DiffLine {
	label := node.ElementType
	if node.Key != nil {
		label += fmt.Sprintf("[%v]", node.Key)
	}
	if node.Status == StatusMoved {
		label += " (moved)"
	}

	lines := []DiffLine{{
		Type:    lineType,
		Content: fmt.Sprintf("%s: %s", id, label),
		Indent:  1,
	}}

	if !verbose {
		return lines
	}

	for _, name := range getSortedIDs(node.AttrChanges) {
		change := node.AttrChanges[name]
		lines = append(lines, DiffLine{
			Type:    DiffTypeItemDetail,
			Content: fmt.Sprintf("ATTR %s: %v → %v", name, change.Before, change.After),
			Indent:  2,
		})
	}

	for _, edit := range node.TextEdits {
		var content string
		switch edit.Op {
		case OpInsert:
			content = fmt.Sprintf("TEXT + %s", truncateText(edit.After, 40))
		case OpDelete:
			content = fmt.Sprintf("TEXT - %s", truncateText(edit.Before, 40))
		case OpReplace:
			content = fmt.Sprintf("TEXT %s → %s", truncateText(edit.Before, 40), truncateText(edit.After, 40))
		default:
			continue
		}
		lines = append(lines, DiffLine{Type: DiffTypeItemDetail, Content: content, Indent: 2})
	}

	return lines
}

func renderedLines(r *RenderedSnapshot, verbose bool) []DiffLine {
	var lines []DiffLine

	var inserted, replaced []string
	for _, id := range getSortedIDs(r.ChunkAnnotations) {
		switch r.ChunkAnnotations[id].Op {
		case OpInsert:
			inserted = append(inserted, id)
		case OpReplace:
			replaced = append(replaced, id)
		}
	}

	if len(inserted) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeNewSection, Content: "Inserted Chunks:"})
		for _, id := range inserted {
			annotation := r.ChunkAnnotations[id]
			content := id
			if annotation.BeforeElementID != "" {
				content = fmt.Sprintf("%s (element %s)", id, annotation.BeforeElementID)
			}
			lines = append(lines, DiffLine{Type: DiffTypeNewItem, Content: content, Indent: 1})
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	if len(r.DeletedChunks) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeDeletedSection, Content: "Deleted Chunks:"})
		for _, ghost := range r.DeletedChunks {
			anchor := ghost.AnchorAfterID
			if anchor == "" {
				anchor = "end"
			}
			lines = append(lines, DiffLine{
				Type:    DiffTypeDeletedItem,
				Content: fmt.Sprintf("%s: %s", ghost.ChunkID, truncateText(ghost.Text, 60)),
				Indent:  1,
			})
			if verbose {
				lines = append(lines, DiffLine{
					Type:    DiffTypeItemDetail,
					Content: fmt.Sprintf("%s, anchored before %s", strings.ToUpper(string(ghost.Op)), anchor),
					Indent:  2,
				})
			}
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	if len(replaced) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeModifiedSection, Content: "Replaced Chunks:"})
		for _, id := range replaced {
			annotation := r.ChunkAnnotations[id]
			lines = append(lines, DiffLine{Type: DiffTypeModifiedItem, Content: id, Indent: 1})
			if verbose && annotation.BeforeText != nil {
				lines = append(lines, DiffLine{
					Type:    DiffTypeItemDetail,
					Content: fmt.Sprintf("WAS: %s", truncateText(*annotation.BeforeText, 60)),
					Indent:  2,
				})
			}
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	return lines
}

// summaryLines reports upstream stats, falling back to the traversal counts
// when the structured stats were not supplied
func summaryLines(snapshot *Snapshot) []DiffLine {
	var lines []DiffLine

	if s := snapshot.Structured; s != nil {
		stats := s.Stats
		if stats.IsZero() {
			stats = StructuredStats{
				NodesAdded:    s.Counts[StatusAdded],
				NodesRemoved:  s.Counts[StatusDeleted],
				NodesModified: s.Counts[StatusModified],
				NodesMoved:    s.Counts[StatusMoved],
			}
		}
		lines = append(lines, DiffLine{
			Type: DiffTypeSummary,
			Content: fmt.Sprintf("  nodes: %d modified, %d added, %d removed, %d moved",
				stats.NodesModified, stats.NodesAdded, stats.NodesRemoved, stats.NodesMoved),
		})
		if stats.TextAdded > 0 || stats.TextRemoved > 0 {
			lines = append(lines, DiffLine{
				Type:    DiffTypeSummary,
				Content: fmt.Sprintf("  text: +%d / -%d chars", stats.TextAdded, stats.TextRemoved),
			})
		}
	}

	if r := snapshot.Rendered; r != nil {
		lines = append(lines, DiffLine{
			Type: DiffTypeSummary,
			Content: fmt.Sprintf("  chunks: %d inserted, %d deleted, %d replaced, %d equal",
				r.Stats.Insert, r.Stats.Delete, r.Stats.Replace, r.Stats.Equal),
		})
	}

	return lines
}

// truncateText limits text length for display
func truncateText(text string, maxLen int) string {
	// Handle multi-line text
	lines := strings.Split(text, "\n")
	text = lines[0]
	if len(lines) > 1 {
		text += " ..."
	}

	runes := []rune(text)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return text
}

// getSortedIDs returns a sorted slice of keys from a map
func getSortedIDs[T any](items map[string]T) []string {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
