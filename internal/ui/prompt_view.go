package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/prompt-diff/internal/config"
	"github.com/pstuifzand/prompt-diff/internal/diff"
	"github.com/pstuifzand/prompt-diff/internal/model"
	"github.com/pstuifzand/prompt-diff/internal/navigate"
	"github.com/pstuifzand/prompt-diff/internal/overlay"
	"github.com/pstuifzand/prompt-diff/internal/render"
)

const tabWidth = 4

// PromptViewOptions configures a PromptView
type PromptViewOptions struct {
	After    *model.IR
	Before   *model.IR
	Rendered *diff.RenderedDiffPayload

	AfterClasses  overlay.ClassSet
	BeforeClasses overlay.ClassSet
	ShowGhosts    bool
	StartView     string

	// FilterHistory keeps previous filter queries; nil keeps them in memory
	FilterHistory *History
}

type chunkKey struct {
	elementID string
	text      string
}

// PromptView shows one version of the prompt with the diff overlay applied
// while the diff state is enabled
type PromptView struct {
	opts PromptViewOptions

	snapshot *diff.Snapshot
	view     string
	doc      *render.Document
	result   overlay.Result
	nav      *navigate.Navigator

	// beforeIDs resolves a deleted chunk to its chunk in the before IR by
	// element and text, first occurrence wins
	beforeIDs map[chunkKey]string

	scrollOffset int
	height       int

	filtering   bool
	filterInput string
}

// NewPromptView creates a view showing the start view without overlay until
// a snapshot arrives
func NewPromptView(opts PromptViewOptions) *PromptView {
	if opts.StartView != config.ViewBefore {
		opts.StartView = config.ViewAfter
	}
	if opts.FilterHistory == nil {
		opts.FilterHistory = NewHistory(50)
	}
	pv := &PromptView{
		opts: opts,
		view: opts.StartView,
		nav:  navigate.NewNavigator(nil),
	}
	pv.rebuild()
	return pv
}

// attach subscribes the view to a diff state. The current snapshot is
// applied immediately.
func (pv *PromptView) attach(state *diff.State) func() {
	return state.Subscribe(pv.OnSnapshot)
}

// OnSnapshot applies a new diff snapshot
func (pv *PromptView) OnSnapshot(snapshot *diff.Snapshot) {
	previous := pv.snapshot
	pv.snapshot = snapshot

	if previous == nil || previous.Rendered != snapshot.Rendered {
		pv.nav = navigate.NewNavigator(navigate.BuildChanges(snapshot.Rendered, pv.opts.After))
		pv.filterInput = ""
	}
	pv.rebuild()
}

// rebuild lays out the current view and applies the overlay
func (pv *PromptView) rebuild() {
	pv.result = overlay.Result{}

	if pv.view == config.ViewBefore {
		pv.doc = render.Layout(pv.opts.Before)
		pv.indexBefore()
		if pv.OverlayActive() {
			pv.result = overlay.ApplyBefore(pv.doc.Index, pv.opts.Before.Inventory(), pv.opts.Rendered, pv.opts.BeforeClasses)
		}
		return
	}

	pv.doc = render.Layout(pv.opts.After)
	if pv.OverlayActive() {
		pv.result = overlay.ApplyAfter(pv.doc.Index, pv.opts.After.Inventory(), pv.opts.Rendered, pv.opts.AfterClasses)
		if pv.opts.ShowGhosts && pv.snapshot.Rendered != nil {
			overlay.PlaceGhosts(pv.doc, pv.snapshot.Rendered.DeletedChunks, pv.opts.AfterClasses)
		}
	}
}

func (pv *PromptView) indexBefore() {
	pv.beforeIDs = make(map[chunkKey]string)
	if pv.opts.Before == nil {
		return
	}
	for _, chunk := range pv.opts.Before.Chunks {
		if chunk == nil || chunk.ID == "" || !chunk.IsText() {
			continue
		}
		key := chunkKey{chunk.ElementID, chunk.Text}
		if _, ok := pv.beforeIDs[key]; !ok {
			pv.beforeIDs[key] = chunk.ID
		}
	}
}

// beforeChunkID returns the before IR chunk a deleted chunk was matched to.
// Delta chunk ids need not be the ids of the IR, so the id of the change is
// only used when nothing matches.
func (pv *PromptView) beforeChunkID(change navigate.Change) string {
	if id, ok := pv.beforeIDs[chunkKey{change.ElementID, change.Before}]; ok {
		return id
	}
	return change.ChunkID
}

// OverlayActive reports whether diff marks are currently shown
func (pv *PromptView) OverlayActive() bool {
	return pv.snapshot != nil && pv.snapshot.Enabled
}

// View returns the version being shown, after or before
func (pv *PromptView) View() string {
	return pv.view
}

// Document returns the laid-out document of the current view
func (pv *PromptView) Document() *render.Document {
	return pv.doc
}

// Result returns the counters of the last overlay pass
func (pv *PromptView) Result() overlay.Result {
	return pv.result
}

// Navigator returns the change navigator
func (pv *PromptView) Navigator() *navigate.Navigator {
	return pv.nav
}

// SetShowGhosts turns the placement of deleted chunks in the after view on or off
func (pv *PromptView) SetShowGhosts(show bool) {
	pv.opts.ShowGhosts = show
	pv.rebuild()
}

// ToggleView switches between the after and the before version
func (pv *PromptView) ToggleView() {
	if pv.view == config.ViewAfter {
		pv.view = config.ViewBefore
	} else {
		pv.view = config.ViewAfter
	}
	pv.scrollOffset = 0
	pv.rebuild()
}

// NextChange selects the following change and scrolls to it
func (pv *PromptView) NextChange() (navigate.Change, bool) {
	change, ok := pv.nav.Next()
	if ok {
		pv.scrollToChange(change)
	}
	return change, ok
}

// PrevChange selects the preceding change and scrolls to it
func (pv *PromptView) PrevChange() (navigate.Change, bool) {
	change, ok := pv.nav.Prev()
	if ok {
		pv.scrollToChange(change)
	}
	return change, ok
}

// FirstChange selects the first change and scrolls to it
func (pv *PromptView) FirstChange() (navigate.Change, bool) {
	change, ok := pv.nav.First()
	if ok {
		pv.scrollToChange(change)
	}
	return change, ok
}

// LineForChange returns the document line showing a change in the current
// view, or -1 when the change is not visible there
func (pv *PromptView) LineForChange(change navigate.Change) int {
	if pv.view == config.ViewBefore {
		if change.Ghost {
			return pv.doc.LineOf(pv.beforeChunkID(change))
		}
		return -1
	}
	if change.Ghost {
		return pv.doc.GhostLine(change.ChunkID)
	}
	return pv.doc.LineOf(change.ChunkID)
}

func (pv *PromptView) scrollToChange(change navigate.Change) {
	line := pv.LineForChange(change)
	if line < 0 {
		return
	}
	if pv.height <= 0 || line < pv.scrollOffset || line >= pv.scrollOffset+pv.height {
		pv.scrollOffset = line - pv.height/3
	}
	pv.clampScroll()
}

// Scroll moves the view up or down
func (pv *PromptView) Scroll(lines int) {
	pv.scrollOffset += lines
	pv.clampScroll()
}

// ScrollToTop jumps to the first line
func (pv *PromptView) ScrollToTop() {
	pv.scrollOffset = 0
}

// ScrollToBottom jumps so the last line is visible
func (pv *PromptView) ScrollToBottom() {
	pv.scrollOffset = len(pv.doc.Lines())
	pv.clampScroll()
}

// ScrollOffset returns the first visible line
func (pv *PromptView) ScrollOffset() int {
	return pv.scrollOffset
}

func (pv *PromptView) clampScroll() {
	pv.scrollOffset = clamp(pv.scrollOffset, 0, max(len(pv.doc.Lines())-pv.height, 0))
}

// StartFilter opens the change filter prompt
func (pv *PromptView) StartFilter() {
	pv.filtering = true
	pv.filterInput = pv.nav.Query()
	pv.opts.FilterHistory.Reset()
}

// SetFilter narrows the change list to changes matching query
func (pv *PromptView) SetFilter(query string) {
	pv.filtering = false
	pv.filterInput = query
	pv.nav.Filter(query)
	pv.opts.FilterHistory.Add(query)
}

// IsFiltering reports whether the filter prompt is open
func (pv *PromptView) IsFiltering() bool {
	return pv.filtering
}

// HandleFilterKey edits the filter prompt. Enter applies the filter,
// Escape clears it.
func (pv *PromptView) HandleFilterKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		pv.SetFilter(pv.filterInput)
	case tcell.KeyUp:
		history := pv.opts.FilterHistory
		if !history.IsNavigating() {
			history.SetDraft(pv.filterInput)
		}
		if prev, ok := history.Previous(); ok {
			pv.filterInput = prev
		}
	case tcell.KeyDown:
		if next, ok := pv.opts.FilterHistory.Next(); ok {
			pv.filterInput = next
		}
	case tcell.KeyEscape:
		pv.filtering = false
		pv.filterInput = ""
		pv.nav.Filter("")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if runes := []rune(pv.filterInput); len(runes) > 0 {
			pv.filterInput = string(runes[:len(runes)-1])
		}
	case tcell.KeyRune:
		pv.filterInput += string(ev.Rune())
	}
}

// Render draws the header, the document and the status line
func (pv *PromptView) Render(screen *Screen) {
	width := screen.GetWidth()
	height := screen.GetHeight()
	pv.height = height - 2
	pv.clampScroll()

	pv.renderHeader(screen, width)

	lines := pv.doc.Lines()
	gutter := len(fmt.Sprint(len(lines))) + 1
	selected, hasSelected := pv.nav.Current()

	for row := 0; row < pv.height; row++ {
		y := row + 1
		screen.FillLine(0, y, screen.TextStyle())

		index := pv.scrollOffset + row
		if index >= len(lines) {
			continue
		}

		number := fmt.Sprintf("%*d ", gutter-1, index+1)
		x := screen.DrawString(0, y, number, screen.LineNumberStyle())

		for _, span := range lines[index].Children {
			if x >= width {
				break
			}
			style := pv.spanStyle(screen, span)
			if hasSelected && pv.isSelected(span, selected) {
				style = screen.SelectedStyle(style)
			}
			x += screen.DrawStringLimited(x, y, ExpandTabs(span.Text, tabWidth), width-x, style)
		}
	}

	pv.renderStatus(screen, width, height-1)
}

func (pv *PromptView) renderHeader(screen *Screen, width int) {
	screen.FillLine(0, 0, screen.TextStyle())
	x := screen.DrawString(0, 0, " Prompt diff ", screen.HeaderStyle())
	x += screen.DrawString(x, 0, fmt.Sprintf("[%s] ", pv.view), screen.StatusModeStyle())

	switch {
	case pv.snapshot == nil || !pv.snapshot.Available:
		screen.DrawStringLimited(x, 0, "no diff available", width-x, screen.StatusOffStyle())
	case !pv.snapshot.Enabled:
		screen.DrawStringLimited(x, 0, "overlay off", width-x, screen.StatusOffStyle())
	default:
		label := fmt.Sprintf("overlay on: %d marked", pv.result.Matched)
		screen.DrawStringLimited(x, 0, label, width-x, screen.StatusMessageStyle())
	}
}

func (pv *PromptView) renderStatus(screen *Screen, width, y int) {
	screen.FillLine(0, y, screen.TextStyle())

	if pv.filtering {
		screen.DrawStringLimited(0, y, "/"+pv.filterInput, width, screen.StatusModeStyle())
		return
	}

	var status string
	if change, ok := pv.nav.Current(); ok {
		status = fmt.Sprintf("%d/%d %s", pv.nav.Position()+1, pv.nav.Len(), change.Label())
	} else if pv.nav.Len() > 0 {
		status = fmt.Sprintf("%d changes, n/p to step", pv.nav.Len())
	} else {
		status = "no changes"
	}
	if query := pv.nav.Query(); query != "" {
		status = fmt.Sprintf("[/%s] %s", query, status)
	}
	screen.DrawStringLimited(0, y, TruncateToWidthWithEllipsis(status, width), width, screen.StatusMessageStyle())
}

func (pv *PromptView) spanStyle(screen *Screen, span *render.Span) tcell.Style {
	value, ok := span.Attr(render.AttrDiffOp)
	if !ok {
		return screen.TextStyle()
	}
	op := diff.ChunkOp(value)
	if span.IsGhost() {
		return screen.GhostStyle(op)
	}
	return screen.ChangeStyle(op)
}

func (pv *PromptView) isSelected(span *render.Span, change navigate.Change) bool {
	if change.Ghost {
		ghostID, ok := span.Attr(render.AttrGhostChunk)
		if ok {
			return ghostID == change.ChunkID
		}
		return pv.view == config.ViewBefore && span.ChunkID == pv.beforeChunkID(change)
	}
	return pv.view == config.ViewAfter && span.ChunkID == change.ChunkID
}

// Text returns the document of the current view as plain lines
func (pv *PromptView) Text() []string {
	var out []string
	for _, line := range pv.doc.Lines() {
		var sb strings.Builder
		for _, span := range line.Children {
			sb.WriteString(span.Text)
		}
		out = append(out, sb.String())
	}
	return out
}
