package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/prompt-diff/internal/config"
	"github.com/pstuifzand/prompt-diff/internal/diff"
	"github.com/pstuifzand/prompt-diff/internal/history"
	"github.com/pstuifzand/prompt-diff/internal/model"
	"github.com/pstuifzand/prompt-diff/internal/socket"
	"github.com/pstuifzand/prompt-diff/internal/storage"
	"github.com/pstuifzand/prompt-diff/internal/theme"
	"github.com/pstuifzand/prompt-diff/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple command",
			input:    "summary",
			expected: []string{"summary"},
		},
		{
			name:     "command with arguments",
			input:    "view before",
			expected: []string{"view", "before"},
		},
		{
			name:     "double quoted string",
			input:    `export "my diff.md"`,
			expected: []string{"export", "my diff.md"},
		},
		{
			name:     "single quoted string",
			input:    "export 'my diff.md'",
			expected: []string{"export", "my diff.md"},
		},
		{
			name:     "mixed quotes",
			input:    `filter "Project Plan" and more`,
			expected: []string{"filter", "Project Plan", "and", "more"},
		},
		{
			name:     "escaped quotes",
			input:    `filter "value with \"quotes\""`,
			expected: []string{"filter", `value with "quotes"`},
		},
		{
			name:     "escaped backslash",
			input:    `export "C:\\Users\\diff.md"`,
			expected: []string{"export", `C:\Users\diff.md`},
		},
		{
			name:     "multiple spaces",
			input:    "diff    off",
			expected: []string{"diff", "off"},
		},
		{
			name:     "tabs and spaces",
			input:    "set\tshow_ghosts\t  false",
			expected: []string{"set", "show_ghosts", "false"},
		},
		{
			name:     "empty quoted string",
			input:    `filter ""`,
			expected: []string{"filter", ""},
		},
		{
			name:     "blank input",
			input:    "   ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseCommand(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("Expected %d parts, got %d. Input: %q", len(tt.expected), len(result), tt.input)
				return
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("Part %d: expected %q, got %q", i, tt.expected[i], result[i])
				}
			}
		})
	}
}

func sampleWidget() *storage.WidgetData {
	return &storage.WidgetData{
		IR: model.NewIR(
			model.NewTextChunk("a1", "title", "Project Update"),
			model.NewTextChunk("n1", "title", "\n"),
			model.NewTextChunk("a2", "body", "New paragraph"),
		),
		PriorPromptIR: model.NewIR(
			model.NewTextChunk("b1", "title", "Project Plan"),
			model.NewTextChunk("m1", "title", "\n"),
			model.NewTextChunk("b2", "old", "Old paragraph"),
		),
		RenderedDiff: &diff.RenderedDiffPayload{
			Stats: diff.RenderedStats{Replace: 1, Equal: 1, Delete: 1, Insert: 1},
			ChunkDeltas: []diff.ChunkDelta{
				{
					Op:     diff.OpReplace,
					Before: &diff.ChunkRef{Text: "Project Plan", ElementID: "title", ChunkID: "b1"},
					After:  &diff.ChunkRef{Text: "Project Update", ElementID: "title", ChunkID: "a1"},
				},
				{
					Op:     diff.OpEqual,
					Before: &diff.ChunkRef{Text: "\n", ElementID: "title", ChunkID: "m1"},
					After:  &diff.ChunkRef{Text: "\n", ElementID: "title", ChunkID: "n1"},
				},
				{Op: diff.OpDelete, Before: &diff.ChunkRef{Text: "Old paragraph", ElementID: "old", ChunkID: "b2"}},
				{Op: diff.OpInsert, After: &diff.ChunkRef{Text: "New paragraph", ElementID: "body", ChunkID: "a2"}},
			},
		},
	}
}

type testApp struct {
	*App
	sim      tcell.SimulationScreen
	historyM *history.Manager
}

func newTestApp(t *testing.T, widget *storage.WidgetData, cfg *config.Config) testApp {
	t.Helper()
	dir := t.TempDir()

	path := filepath.Join(dir, "bundle.json")
	if widget != nil {
		require.NoError(t, storage.NewBundleStore(path).Save(widget))
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	sim := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, sim.Init())
	sim.SetSize(60, 10)

	manager, err := history.NewManagerAt(filepath.Join(dir, "history"))
	require.NoError(t, err)

	a, err := newApp(ui.NewScreenFromTCell(sim, theme.Default()), path, cfg, manager)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	return testApp{App: a, sim: sim, historyM: manager}
}

func (ta testApp) press(keys ...rune) {
	for _, r := range keys {
		ta.handleRawEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func (ta testApp) pressKey(k tcell.Key) {
	ta.handleRawEvent(tcell.NewEventKey(k, 0, tcell.ModNone))
}

func (ta testApp) row(y int) string {
	ta.render()
	cells, width, _ := ta.sim.GetContents()
	var sb strings.Builder
	for x := 0; x < width; x++ {
		if runes := cells[y*width+x].Runes; len(runes) > 0 {
			sb.WriteRune(runes[0])
		} else {
			sb.WriteRune(' ')
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestNewAppAppliesOverlay(t *testing.T) {
	ta := newTestApp(t, sampleWidget(), nil)

	assert.True(t, ta.state.IsAvailable())
	assert.True(t, ta.view.OverlayActive())
	assert.Equal(t, 2, ta.view.Result().Matched)
	assert.Equal(t, []string{"Project PlanProject Update", "Old paragraphNew paragraph"}, ta.view.Text())
	assert.Contains(t, ta.row(0), "[after] overlay on: 2 marked")
}

func TestToggleDiffKey(t *testing.T) {
	ta := newTestApp(t, sampleWidget(), nil)

	ta.press('d')
	assert.False(t, ta.state.IsEnabled())
	assert.False(t, ta.view.OverlayActive())
	assert.Equal(t, []string{"Project Update", "New paragraph"}, ta.view.Text(), "ghosts leave with the overlay")
	assert.Contains(t, ta.row(0), "overlay off")
	assert.Equal(t, "Diff overlay off", ta.row(9))

	ta.press('d')
	assert.True(t, ta.state.IsEnabled())
	assert.Equal(t, 2, ta.view.Result().Matched)
}

func TestStartDisabled(t *testing.T) {
	ta := newTestApp(t, sampleWidget(), &config.Config{Diff: config.DiffConfig{StartDisabled: true}})

	assert.True(t, ta.state.IsAvailable())
	assert.False(t, ta.state.IsEnabled())
	assert.Equal(t, 0, ta.view.Result().Matched)
}

func TestClassOverridesFromConfig(t *testing.T) {
	cfg := &config.Config{Diff: config.DiffConfig{
		AfterClasses: map[string]string{"replace": "changed"},
	}}
	ta := newTestApp(t, sampleWidget(), cfg)

	spans := ta.view.Document().Index["a1"]
	require.Len(t, spans, 1)
	assert.True(t, spans[0].HasClass("changed"))
	assert.False(t, spans[0].HasClass("replace-after"))
}

func TestClassOverridesFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[diff.after_classes]\nreplace = \"changed\"\n\n[diff.before_classes]\ndelete = \"gone\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	ta := newTestApp(t, sampleWidget(), cfg)

	spans := ta.view.Document().Index["a1"]
	require.Len(t, spans, 1)
	assert.True(t, spans[0].HasClass("changed"))

	ta.press('b')
	spans = ta.view.Document().Index["b2"]
	require.Len(t, spans, 1)
	assert.True(t, spans[0].HasClass("gone"))
	assert.False(t, spans[0].HasClass("delete-before"))
}

func TestMissingBundle(t *testing.T) {
	ta := newTestApp(t, nil, nil)

	assert.False(t, ta.state.IsAvailable())
	ta.press('d')
	assert.False(t, ta.state.IsEnabled())
	assert.Equal(t, "No diff available", ta.statusMsg)
	assert.Contains(t, ta.row(0), "no diff available")
}

func TestViewAndChangeKeys(t *testing.T) {
	ta := newTestApp(t, sampleWidget(), nil)

	ta.press('n')
	change, ok := ta.view.Navigator().Current()
	require.True(t, ok)
	assert.Equal(t, "b1", change.ChunkID)

	ta.press('b')
	assert.Equal(t, config.ViewBefore, ta.view.View())
	assert.Equal(t, []string{"Project Plan", "Old paragraph"}, ta.view.Text())
	assert.Equal(t, "Showing before version", ta.statusMsg)

	ta.press('g', 'n')
	change, _ = ta.view.Navigator().Current()
	assert.Equal(t, "b1", change.ChunkID)

	ta.press('p')
	change, _ = ta.view.Navigator().Current()
	assert.Equal(t, "a2", change.ChunkID)
	assert.Contains(t, ta.statusMsg, "not shown in this view")
}

func TestSummaryAndHelpOverlays(t *testing.T) {
	ta := newTestApp(t, sampleWidget(), nil)

	ta.press('s')
	require.True(t, ta.diffView.IsVisible())
	assert.Contains(t, ta.row(2), "Changes: bundle.json")
	ta.press('q')
	assert.False(t, ta.diffView.IsVisible())
	assert.False(t, ta.quit, "q closes the summary first")

	ta.press('?')
	assert.True(t, ta.help.IsVisible())
	ta.pressKey(tcell.KeyEscape)
	assert.False(t, ta.help.IsVisible())

	ta.press('q')
	assert.True(t, ta.quit)
}

func TestCommandMode(t *testing.T) {
	ta := newTestApp(t, sampleWidget(), nil)

	ta.press(':')
	require.True(t, ta.command.IsActive())
	ta.press([]rune("diff off")...)
	assert.Equal(t, ":diff off", ta.row(9))
	ta.pressKey(tcell.KeyEnter)

	assert.False(t, ta.command.IsActive())
	assert.False(t, ta.state.IsEnabled())

	entries, err := ta.historyM.Load("command.toml")
	require.NoError(t, err)
	assert.Equal(t, []string{"diff off"}, entries)
}

func TestHandleCommand(t *testing.T) {
	tests := []struct {
		command string
		check   func(t *testing.T, ta testApp)
	}{
		{"diff off", func(t *testing.T, ta testApp) {
			assert.False(t, ta.state.IsEnabled())
		}},
		{"diff", func(t *testing.T, ta testApp) {
			assert.False(t, ta.state.IsEnabled(), "diff without argument toggles")
		}},
		{"diff maybe", func(t *testing.T, ta testApp) {
			assert.True(t, ta.state.IsEnabled())
			assert.Equal(t, "Usage: diff on|off|toggle", ta.statusMsg)
		}},
		{"view before", func(t *testing.T, ta testApp) {
			assert.Equal(t, config.ViewBefore, ta.view.View())
		}},
		{"view after", func(t *testing.T, ta testApp) {
			assert.Equal(t, config.ViewAfter, ta.view.View())
		}},
		{"filter new paragraph", func(t *testing.T, ta testApp) {
			assert.Equal(t, "new paragraph", ta.view.Navigator().Query())
			assert.Equal(t, 1, ta.view.Navigator().Len())
			assert.Equal(t, "1 changes match", ta.statusMsg)
		}},
		{"set show_ghosts false", func(t *testing.T, ta testApp) {
			assert.Equal(t, []string{"Project Update", "New paragraph"}, ta.view.Text())
			assert.Equal(t, "false", ta.cfg.Get("show_ghosts"))
		}},
		{"set colour red", func(t *testing.T, ta testApp) {
			assert.Equal(t, "Unknown setting: colour", ta.statusMsg)
			assert.Equal(t, "", ta.cfg.Get("colour"))
		}},
		{"summary", func(t *testing.T, ta testApp) {
			assert.True(t, ta.diffView.IsVisible())
		}},
		{"help", func(t *testing.T, ta testApp) {
			assert.True(t, ta.help.IsVisible())
		}},
		{"frobnicate", func(t *testing.T, ta testApp) {
			assert.Equal(t, "Unknown command: frobnicate", ta.statusMsg)
		}},
		{"quit", func(t *testing.T, ta testApp) {
			assert.True(t, ta.quit)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			ta := newTestApp(t, sampleWidget(), nil)
			ta.handleCommand(tt.command)
			tt.check(t, ta)
		})
	}
}

func TestExportCommand(t *testing.T) {
	ta := newTestApp(t, sampleWidget(), nil)
	path := filepath.Join(t.TempDir(), "report.md")

	ta.handleCommand("export " + path)
	assert.Equal(t, "Exported to "+path, ta.statusMsg)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Prompt diff"))

	ta.handleCommand("export " + filepath.Join(path, "nested.md"))
	assert.Contains(t, ta.statusMsg, "Failed to export")
}

func TestSocketMessages(t *testing.T) {
	ta := newTestApp(t, sampleWidget(), nil)

	send := func(msg socket.Message) socket.Response {
		msg.Reply = make(chan socket.Response, 1)
		ta.handleSocketMessage(msg)
		return <-msg.Reply
	}

	response := send(socket.Message{Command: socket.CommandToggle})
	assert.True(t, response.Success)
	assert.False(t, response.Enabled)
	assert.Equal(t, "diff overlay off", response.Message)
	assert.False(t, ta.view.OverlayActive())

	on := true
	response = send(socket.Message{Command: socket.CommandSetEnabled, Enabled: &on})
	assert.True(t, response.Enabled)
	assert.True(t, ta.view.OverlayActive())

	response = send(socket.Message{Command: socket.CommandStatus})
	assert.True(t, response.Available)
	assert.Equal(t, "diff overlay on", response.Message)
}

func TestSocketMessagesWithoutDiff(t *testing.T) {
	ta := newTestApp(t, nil, nil)

	on := true
	msg := socket.Message{Command: socket.CommandSetEnabled, Enabled: &on, Reply: make(chan socket.Response, 1)}
	ta.handleSocketMessage(msg)
	response := <-msg.Reply

	assert.True(t, response.Success)
	assert.False(t, response.Available)
	assert.False(t, response.Enabled)
	assert.Equal(t, "no diff available", response.Message)
}

func TestEscapeClearsFilter(t *testing.T) {
	ta := newTestApp(t, sampleWidget(), nil)

	ta.press('/')
	require.True(t, ta.view.IsFiltering())
	ta.press([]rune("delete")...)
	ta.pressKey(tcell.KeyEnter)
	assert.Equal(t, 1, ta.view.Navigator().Len())

	ta.pressKey(tcell.KeyEscape)
	assert.Equal(t, "", ta.view.Navigator().Query())
	assert.Equal(t, 4, ta.view.Navigator().Len())
	assert.Equal(t, "Filter cleared", ta.statusMsg)
}
