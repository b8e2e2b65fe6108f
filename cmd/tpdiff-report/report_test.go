package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pstuifzand/prompt-diff/internal/diff"
	"github.com/pstuifzand/prompt-diff/internal/model"
	"github.com/pstuifzand/prompt-diff/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBundle writes a small bundle and returns its path
func writeBundle(t *testing.T, name string) string {
	t.Helper()
	widget := &storage.WidgetData{
		IR: model.NewIR(
			model.NewTextChunk("a1", "title", "Project Update"),
			model.NewTextChunk("a2", "body", "New paragraph"),
		),
		PriorPromptIR: model.NewIR(
			model.NewTextChunk("b1", "title", "Project Plan"),
			model.NewTextChunk("b2", "old", "Old paragraph"),
		),
		RenderedDiff: &diff.RenderedDiffPayload{
			Stats: diff.RenderedStats{Replace: 1, Delete: 1, Insert: 1},
			ChunkDeltas: []diff.ChunkDelta{
				{
					Op:     diff.OpReplace,
					Before: &diff.ChunkRef{Text: "Project Plan", ElementID: "title", ChunkID: "b1"},
					After:  &diff.ChunkRef{Text: "Project Update", ElementID: "title", ChunkID: "a1"},
				},
				{Op: diff.OpDelete, Before: &diff.ChunkRef{Text: "Old paragraph", ElementID: "old", ChunkID: "b2"}},
				{Op: diff.OpInsert, After: &diff.ChunkRef{Text: "New paragraph", ElementID: "body", ChunkID: "a2"}},
			},
		},
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, storage.NewBundleStore(path).Save(widget))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSummaryCommand(t *testing.T) {
	path := writeBundle(t, "bundle.yaml")

	out, err := run(t, "summary", path)
	require.NoError(t, err)
	assert.Contains(t, out, "=== Summary ===")
	assert.Contains(t, out, "Inserted Chunks:")
	assert.NotContains(t, out, "anchored before")

	out, err = run(t, "summary", path, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "anchored before a2")
}

func TestSummaryCommandJSON(t *testing.T) {
	path := writeBundle(t, "bundle.json")

	out, err := run(t, "summary", path, "--json")
	require.NoError(t, err)

	var summary struct {
		Available bool               `json:"available"`
		Chunks    diff.RenderedStats `json:"chunks"`
		Elements  []struct {
			ElementID string `json:"element_id"`
		} `json:"elements"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.True(t, summary.Available)
	assert.Equal(t, diff.RenderedStats{Replace: 1, Delete: 1, Insert: 1}, summary.Chunks)
	require.NotEmpty(t, summary.Elements)
	for i := 1; i < len(summary.Elements); i++ {
		assert.Less(t, summary.Elements[i-1].ElementID, summary.Elements[i].ElementID)
	}
}

func TestChangesCommand(t *testing.T) {
	path := writeBundle(t, "bundle.json")

	out, err := run(t, "changes", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Contains(t, lines[1], "b1 (ghost)")
	assert.Contains(t, lines[1], "REPLACE title (was): Project Plan")
	assert.Contains(t, lines[2], "REPLACE title: Project Plan → Project Update")
	assert.Contains(t, lines[3], "DELETE old: Old paragraph")
	assert.Contains(t, lines[4], "INSERT body: New paragraph")
}

func TestChangesCommandQueryAndJSON(t *testing.T) {
	path := writeBundle(t, "bundle.json")

	out, err := run(t, "changes", path, "--query", "delete", "--json")
	require.NoError(t, err)

	var changes []changeJSON
	require.NoError(t, json.Unmarshal([]byte(out), &changes))
	require.Len(t, changes, 1)
	assert.Equal(t, "b2", changes[0].ChunkID)
	assert.True(t, changes[0].Ghost)
	assert.Equal(t, "a2", changes[0].AnchorID)
}

func TestMarkdownCommand(t *testing.T) {
	path := writeBundle(t, "bundle.json")

	out, err := run(t, "markdown", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Prompt diff"))
	assert.Contains(t, out, "## Chunk changes")

	target := filepath.Join(t.TempDir(), "report.md")
	out, err = run(t, "markdown", path, "--output", target)
	require.NoError(t, err)
	assert.Equal(t, "Saved to: "+target+"\n", out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Prompt diff"))
}

func TestMarkdownCommandRender(t *testing.T) {
	path := writeBundle(t, "bundle.json")

	out, err := run(t, "markdown", path, "--render", "--style", "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Prompt diff")

	_, err = run(t, "markdown", path, "--render", "--style", "sepia")
	assert.EqualError(t, err, `unknown style "sepia"`)
}

func TestMissingBundle(t *testing.T) {
	_, err := run(t, "summary", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open bundle")
}
