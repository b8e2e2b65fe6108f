package navigate

import (
	"testing"

	"github.com/pstuifzand/prompt-diff/internal/diff"
	"github.com/pstuifzand/prompt-diff/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChanges(t *testing.T) []Change {
	t.Helper()

	after := model.NewIR(
		model.NewTextChunk("a1", "title", "Project Update"),
		model.NewTextChunk("a2", "intro", "Hello"),
		model.NewTextChunk("a3", "body", "New paragraph"),
	)
	payload := &diff.RenderedDiffPayload{
		ChunkDeltas: []diff.ChunkDelta{
			{
				Op:     diff.OpReplace,
				Before: &diff.ChunkRef{Text: "Project Plan", ElementID: "title", ChunkID: "b1"},
				After:  &diff.ChunkRef{Text: "Project Update", ElementID: "title", ChunkID: "a1"},
			},
			{
				Op:     diff.OpEqual,
				Before: &diff.ChunkRef{Text: "Hello", ElementID: "intro", ChunkID: "b2"},
				After:  &diff.ChunkRef{Text: "Hello", ElementID: "intro", ChunkID: "a2"},
			},
			{Op: diff.OpDelete, Before: &diff.ChunkRef{Text: "Old paragraph", ElementID: "body", ChunkID: "b3"}},
			{Op: diff.OpInsert, After: &diff.ChunkRef{Text: "New paragraph", ElementID: "body", ChunkID: "a3"}},
			{Op: diff.OpDelete, Before: &diff.ChunkRef{Text: "Footer", ElementID: "footer", ChunkID: "b4"}},
		},
	}

	return BuildChanges(diff.BuildRenderedSnapshot(payload), after)
}

func TestBuildChangesDocumentOrder(t *testing.T) {
	changes := sampleChanges(t)
	require.Len(t, changes, 5)

	type step struct {
		op    diff.ChunkOp
		id    string
		ghost bool
	}
	var got []step
	for _, change := range changes {
		got = append(got, step{change.Op, change.ChunkID, change.Ghost})
	}

	assert.Equal(t, []step{
		{diff.OpReplace, "b1", true},
		{diff.OpReplace, "a1", false},
		{diff.OpDelete, "b3", true},
		{diff.OpInsert, "a3", false},
		{diff.OpDelete, "b4", true},
	}, got)

	assert.Equal(t, "Project Plan", changes[1].Before)
	assert.Equal(t, "Project Update", changes[1].After)
	assert.Equal(t, "a3", changes[2].AnchorID)
	assert.Equal(t, "", changes[4].AnchorID)
}

func TestBuildChangesOrphanAnnotations(t *testing.T) {
	snapshot := diff.BuildRenderedSnapshot(&diff.RenderedDiffPayload{
		ChunkDeltas: []diff.ChunkDelta{
			{Op: diff.OpInsert, After: &diff.ChunkRef{Text: "z", ElementID: "ez", ChunkID: "zz"}},
			{Op: diff.OpInsert, After: &diff.ChunkRef{Text: "y", ElementID: "ey", ChunkID: "yy"}},
		},
	})

	changes := BuildChanges(snapshot, nil)
	require.Len(t, changes, 2)
	assert.Equal(t, "yy", changes[0].ChunkID)
	assert.Equal(t, "ey", changes[0].ElementID)
	assert.Equal(t, "zz", changes[1].ChunkID)

	assert.Nil(t, BuildChanges(nil, nil))
}

func TestChangeLabel(t *testing.T) {
	changes := sampleChanges(t)

	assert.Equal(t, "REPLACE title (was): Project Plan", changes[0].Label())
	assert.Equal(t, "REPLACE title: Project Plan → Project Update", changes[1].Label())
	assert.Equal(t, "DELETE body: Old paragraph", changes[2].Label())
	assert.Equal(t, "INSERT body: New paragraph", changes[3].Label())

	multi := Change{Op: diff.OpInsert, ElementID: "e", After: "a\nb"}
	assert.Equal(t, "INSERT e: a↵b", multi.Label())
}

func TestNavigatorStepping(t *testing.T) {
	nav := NewNavigator(sampleChanges(t))
	assert.Equal(t, 5, nav.Len())

	_, ok := nav.Current()
	assert.False(t, ok)
	assert.Equal(t, -1, nav.Position())

	change, ok := nav.Next()
	require.True(t, ok)
	assert.Equal(t, "b1", change.ChunkID)

	change, _ = nav.Next()
	assert.Equal(t, "a1", change.ChunkID)

	change, _ = nav.Prev()
	assert.Equal(t, "b1", change.ChunkID)

	change, _ = nav.Prev()
	assert.Equal(t, "b4", change.ChunkID, "wraps to the last change")

	change, _ = nav.Next()
	assert.Equal(t, "b1", change.ChunkID, "wraps to the first change")

	nav.Next()
	nav.Next()
	change, ok = nav.First()
	require.True(t, ok)
	assert.Equal(t, "b1", change.ChunkID)
	assert.Equal(t, 0, nav.Position())
}

func TestNavigatorPrevFromNothingSelectsLast(t *testing.T) {
	nav := NewNavigator(sampleChanges(t))
	change, ok := nav.Prev()
	require.True(t, ok)
	assert.Equal(t, "b4", change.ChunkID)
}

func TestNavigatorFilter(t *testing.T) {
	nav := NewNavigator(sampleChanges(t))
	nav.Next()

	nav.Filter("paragraph")
	assert.Equal(t, "paragraph", nav.Query())
	assert.Equal(t, -1, nav.Position())

	visible := nav.Changes()
	require.Len(t, visible, 2)
	assert.Equal(t, "b3", visible[0].ChunkID)
	assert.Equal(t, "a3", visible[1].ChunkID)

	nav.Filter("FOOTER")
	require.Equal(t, 1, nav.Len())
	change, _ := nav.Next()
	assert.Equal(t, "b4", change.ChunkID)

	nav.Filter("")
	assert.Equal(t, 5, nav.Len())
}

func TestNavigatorEmpty(t *testing.T) {
	nav := NewNavigator(nil)

	_, ok := nav.Next()
	assert.False(t, ok)
	_, ok = nav.Prev()
	assert.False(t, ok)
	assert.Empty(t, nav.Changes())
}

func TestSearchRanksShorterLabelsFirst(t *testing.T) {
	results := Search(sampleChanges(t), "plan")

	require.Len(t, results, 2)
	assert.True(t, results[0].Ghost)
	assert.Equal(t, "a1", results[1].ChunkID)

	assert.Empty(t, Search(sampleChanges(t), "qqq"))
}
