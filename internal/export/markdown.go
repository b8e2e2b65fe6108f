package export

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pstuifzand/prompt-diff/internal/diff"
	"github.com/pstuifzand/prompt-diff/internal/model"
	"github.com/pstuifzand/prompt-diff/internal/navigate"
)

// ExportToMarkdown writes the markdown report of a diff to a file
func ExportToMarkdown(snapshot *diff.Snapshot, after *model.IR, filePath string) error {
	content := RenderMarkdown(snapshot, after)
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown file: %w", err)
	}

	return nil
}

// RenderMarkdown builds a markdown report: the summary counts, the changed
// part of the structured tree as a nested list, and a table of chunk changes
// in document order.
func RenderMarkdown(snapshot *diff.Snapshot, after *model.IR) string {
	var sb strings.Builder
	sb.WriteString("# Prompt diff\n\n")

	if snapshot == nil || !snapshot.Available {
		sb.WriteString("No diff available.\n")
		return sb.String()
	}

	sb.WriteString("## Summary\n\n")
	for _, line := range diff.BuildDiffLines(snapshot, false) {
		if line.Type != diff.DiffTypeSummary || strings.HasPrefix(line.Content, "===") {
			continue
		}
		sb.WriteString("- ")
		sb.WriteString(strings.TrimSpace(line.Content))
		sb.WriteString("\n")
	}

	if s := snapshot.Structured; s != nil && s.Root != nil {
		sb.WriteString("\n## Structure\n\n")
		writeNodeAsMarkdown(&sb, s.Root, 0)
	}

	if r := snapshot.Rendered; r != nil {
		changes := navigate.BuildChanges(r, after)
		if len(changes) > 0 {
			sb.WriteString("\n## Chunk changes\n\n")
			sb.WriteString("| Op | Element | Before | After |\n")
			sb.WriteString("|---|---|---|---|\n")
			for _, change := range changes {
				after := change.After
				if change.Ghost {
					after = ""
				}
				fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
					change.Op, escapeCell(change.ElementID), escapeCell(change.Before), escapeCell(after))
			}
		}
	}

	return sb.String()
}

// writeNodeAsMarkdown writes a node delta and its children as nested bullets.
// Equal subtrees without changes are left out.
func writeNodeAsMarkdown(sb *strings.Builder, node *diff.NodeDelta, depth int) {
	if node == nil || !hasChanges(node) {
		return
	}

	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent)
	sb.WriteString("- ")
	if node.Status != diff.StatusEqual {
		fmt.Fprintf(sb, "**%s** ", node.Status)
	}
	if node.ElementType != "" {
		fmt.Fprintf(sb, "`%s`", node.ElementType)
	}
	if node.Key != nil {
		fmt.Fprintf(sb, " [%v]", node.Key)
	}
	if id := nodeID(node); id != "" {
		fmt.Fprintf(sb, " (%s)", id)
	}
	sb.WriteString("\n")

	names := make([]string, 0, len(node.AttrChanges))
	for name := range node.AttrChanges {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		change := node.AttrChanges[name]
		fmt.Fprintf(sb, "%s  - attr `%s`: `%v` → `%v`\n", indent, name, change.Before, change.After)
	}

	if node.HasTextChanges() {
		sb.WriteString(indent)
		sb.WriteString("  - text: ")
		for _, edit := range node.TextEdits {
			switch edit.Op {
			case diff.OpEqual:
				sb.WriteString(inline(edit.Before))
			case diff.OpInsert:
				sb.WriteString("**" + inline(edit.After) + "**")
			case diff.OpDelete:
				sb.WriteString("~~" + inline(edit.Before) + "~~")
			case diff.OpReplace:
				sb.WriteString("~~" + inline(edit.Before) + "~~**" + inline(edit.After) + "**")
			}
		}
		sb.WriteString("\n")
	}

	for _, child := range node.Children {
		writeNodeAsMarkdown(sb, child, depth+1)
	}
}

func hasChanges(node *diff.NodeDelta) bool {
	if node.Status != diff.StatusEqual || len(node.AttrChanges) > 0 || node.HasTextChanges() {
		return true
	}
	for _, child := range node.Children {
		if child != nil && hasChanges(child) {
			return true
		}
	}
	return false
}

func nodeID(node *diff.NodeDelta) string {
	if node.AfterID != "" {
		return node.AfterID
	}
	return node.BeforeID
}

func inline(text string) string {
	return strings.ReplaceAll(text, "\n", "↵")
}

func escapeCell(text string) string {
	return strings.ReplaceAll(inline(text), "|", "\\|")
}
