package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/prompt-diff/internal/config"
	"github.com/pstuifzand/prompt-diff/internal/diff"
	"github.com/pstuifzand/prompt-diff/internal/export"
	"github.com/pstuifzand/prompt-diff/internal/history"
	"github.com/pstuifzand/prompt-diff/internal/navigate"
	"github.com/pstuifzand/prompt-diff/internal/overlay"
	"github.com/pstuifzand/prompt-diff/internal/socket"
	"github.com/pstuifzand/prompt-diff/internal/storage"
	"github.com/pstuifzand/prompt-diff/internal/theme"
	"github.com/pstuifzand/prompt-diff/internal/ui"
)

const statusDuration = 3 * time.Second

// App is the main application controller
type App struct {
	screen   *ui.Screen
	cfg      *config.Config
	filePath string
	widget   *storage.WidgetData
	state    *diff.State
	view     *ui.PromptView
	diffView *ui.DiffViewWidget
	help     *ui.HelpScreen
	command  *ui.CommandLine
	server   *socket.Server

	keybindings        []KeyBinding
	pendingKeybindings []PendingKeyBinding
	pendingKey         rune

	unsubscribe func()
	statusMsg   string
	statusTime  time.Time
	quit        bool
	debugMode   bool
}

// NewApp opens the terminal and loads the bundle at filePath. An empty or
// missing file shows the prompt viewer with no diff available.
func NewApp(filePath string, cfg *config.Config) (*App, error) {
	screen, err := ui.NewScreenWithTheme(theme.LoadThemeOrDefault(cfg.Theme))
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}

	var historyStore ui.HistoryStore
	if manager, err := history.NewManager(); err != nil {
		log.Printf("History disabled: %v", err)
	} else {
		historyStore = manager
	}

	a, err := newApp(screen, filePath, cfg, historyStore)
	if err != nil {
		screen.Close()
		return nil, err
	}

	server, err := socket.NewServer(os.Getpid())
	if err != nil {
		log.Printf("Remote control disabled: %v", err)
	} else {
		server.Start()
		a.server = server
	}

	return a, nil
}

func newApp(screen *ui.Screen, filePath string, cfg *config.Config, historyStore ui.HistoryStore) (*App, error) {
	widget := &storage.WidgetData{}
	if filePath != "" {
		store := storage.NewBundleStore(filePath)
		if !store.FileExists() {
			log.Printf("Bundle %s does not exist, no diff available", filePath)
		}
		loaded, err := store.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load bundle: %w", err)
		}
		widget = loaded
	}

	state := diff.NewState(widget.DiffInputs())
	if cfg.Diff.StartDisabled {
		state.SetEnabled(false)
	}
	log.Printf("Loaded %q: available=%v enabled=%v", filePath, state.IsAvailable(), state.IsEnabled())

	commandHistory := ui.NewHistory(50)
	filterHistory := ui.NewHistory(50)
	if historyStore != nil {
		commandHistory = ui.NewStoredHistory(50, historyStore, "command.toml")
		filterHistory = ui.NewStoredHistory(50, historyStore, "filter.toml")
	}

	view := ui.NewPromptView(ui.PromptViewOptions{
		After:         widget.IR,
		Before:        widget.PriorPromptIR,
		Rendered:      widget.RenderedDiff,
		AfterClasses:  overlay.AfterClasses().With(cfg.Diff.AfterClasses),
		BeforeClasses: overlay.BeforeClasses().With(cfg.Diff.BeforeClasses),
		ShowGhosts:    cfg.ShowGhosts(),
		StartView:     cfg.StartView(),
		FilterHistory: filterHistory,
	})

	a := &App{
		screen:     screen,
		cfg:        cfg,
		filePath:   filePath,
		widget:     widget,
		state:      state,
		view:       view,
		diffView:   ui.NewDiffViewWidget(),
		help:       ui.NewHelpScreen(),
		command:    ui.NewCommandLine(commandHistory),
		statusMsg:  "Ready",
		statusTime: time.Now(),
	}
	a.keybindings = a.InitializeKeybindings()
	a.pendingKeybindings = a.InitializePendingKeybindings()
	a.help.SetKeybindings(a.helpEntries())
	a.help.SetCommands(commandHelp())
	a.unsubscribe = state.Subscribe(a.onSnapshot)

	return a, nil
}

// Run starts the main event loop
func (a *App) Run() error {
	defer a.Close()

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			event := a.screen.PollEvent()
			eventChan <- event
			if event == nil {
				break
			}
		}
	}()

	var socketMsgs <-chan socket.Message
	if a.server != nil {
		socketMsgs = a.server.Messages()
	}

	ticker := time.NewTicker(50 * time.Millisecond) // ~20 FPS
	defer ticker.Stop()

	for !a.quit {
		select {
		case ev := <-eventChan:
			if ev != nil {
				a.handleRawEvent(ev)
			}
		case msg := <-socketMsgs:
			a.handleSocketMessage(msg)
		case <-ticker.C:
			a.render()
		}
	}

	return nil
}

// Close releases the subscription, the socket and the terminal
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if a.server != nil {
		a.server.Stop()
		a.server = nil
	}
	if a.screen != nil {
		return a.screen.Close()
	}
	return nil
}

// onSnapshot runs on every state change, and once when subscribing
func (a *App) onSnapshot(snapshot *diff.Snapshot) {
	a.view.OnSnapshot(snapshot)
	a.logOverlay("snapshot")

	if a.debugMode {
		log.Printf("Snapshot: %s", spew.Sdump(snapshot))
	}
	if a.diffView.IsVisible() {
		a.diffView.Update(snapshot)
	}
}

func (a *App) logOverlay(reason string) {
	result := a.view.Result()
	log.Printf("Overlay %s (%s view, enabled=%v): matched=%d unchanged=%d skipped=%d",
		reason, a.view.View(), a.view.OverlayActive(), result.Matched, result.Unchanged, result.Skipped)
}

// render renders the current state to the screen
func (a *App) render() {
	a.screen.Clear()
	a.view.Render(a.screen)

	height := a.screen.GetHeight()
	if a.command.IsActive() {
		a.command.Render(a.screen, height-1)
	} else if a.statusMsg != "Ready" && time.Since(a.statusTime) <= statusDuration && !a.view.IsFiltering() {
		a.screen.FillLine(0, height-1, a.screen.TextStyle())
		a.screen.DrawStringLimited(0, height-1, a.statusMsg, a.screen.GetWidth(), a.screen.StatusMessageStyle())
	}

	a.diffView.Render(a.screen)
	a.help.Render(a.screen)
	a.screen.Show()
}

// handleRawEvent processes raw input events
func (a *App) handleRawEvent(ev tcell.Event) {
	keyEv, ok := ev.(*tcell.EventKey)
	if !ok {
		return
	}

	if a.command.IsActive() {
		if cmd, done := a.command.HandleKey(keyEv); done {
			a.handleCommand(cmd)
		}
		return
	}

	if a.view.IsFiltering() {
		a.view.HandleFilterKey(keyEv)
		return
	}

	if a.help.IsVisible() {
		if keyEv.Key() == tcell.KeyEscape || keyEv.Rune() == '?' {
			a.help.Toggle()
		}
		return
	}

	if a.diffView.IsVisible() {
		a.diffView.HandleKeyEvent(keyEv)
		return
	}

	a.handleKeypress(keyEv)
}

// handleKeypress handles a single keypress in normal mode
func (a *App) handleKeypress(ev *tcell.EventKey) {
	if a.debugMode {
		a.SetStatus(fmt.Sprintf("Key: %v | Rune: %q | Modifiers: %v", ev.Key(), ev.Rune(), ev.Modifiers()))
	}

	if a.pendingKey != 0 {
		prefix := a.pendingKey
		a.pendingKey = 0
		if pending := a.GetPendingKeyBindingByPrefix(prefix); pending != nil {
			if binding, ok := pending.Sequences[ev.Rune()]; ok {
				binding.Handler(a)
			}
		}
		return
	}

	switch ev.Key() {
	case tcell.KeyDown:
		a.view.Scroll(1)
		return
	case tcell.KeyUp:
		a.view.Scroll(-1)
		return
	case tcell.KeyPgDn, tcell.KeyCtrlD:
		a.view.Scroll(a.screen.GetHeight() / 2)
		return
	case tcell.KeyPgUp, tcell.KeyCtrlU:
		a.view.Scroll(-a.screen.GetHeight() / 2)
		return
	case tcell.KeyEscape:
		if a.view.Navigator().Query() != "" {
			a.view.SetFilter("")
			a.SetStatus("Filter cleared")
		}
		return
	case tcell.KeyCtrlC:
		a.Quit()
		return
	case tcell.KeyRune:
	default:
		return
	}

	if binding := a.GetKeybindingByKey(ev.Rune()); binding != nil {
		binding.Handler(a)
		return
	}
	if a.GetPendingKeyBindingByPrefix(ev.Rune()) != nil {
		a.pendingKey = ev.Rune()
	}
}

// handleCommand processes a command from command mode
func (a *App) handleCommand(cmd string) {
	parts := parseCommand(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "q", "quit":
		a.Quit()
	case "diff":
		arg := "toggle"
		if len(parts) > 1 {
			arg = parts[1]
		}
		switch arg {
		case "on":
			a.SetDiffEnabled(true)
		case "off":
			a.SetDiffEnabled(false)
		case "toggle":
			a.ToggleDiff()
		default:
			a.SetStatus("Usage: diff on|off|toggle")
		}
	case "view":
		if len(parts) < 2 || (parts[1] != config.ViewAfter && parts[1] != config.ViewBefore) {
			a.SetStatus("Usage: view after|before")
			return
		}
		if a.view.View() != parts[1] {
			a.ToggleView()
		}
	case "export":
		if len(parts) < 2 {
			a.SetStatus("Usage: export <file.md>")
			return
		}
		a.Export(parts[1])
	case "filter":
		query := strings.Join(parts[1:], " ")
		a.view.SetFilter(query)
		a.SetStatus(fmt.Sprintf("%d changes match", a.view.Navigator().Len()))
	case "set":
		a.handleSet(parts[1:])
	case "summary":
		a.ShowSummary()
	case "help":
		a.help.Toggle()
	case "debug":
		a.SetDebugMode(!a.debugMode)
		if a.debugMode {
			a.SetStatus("Debug mode ON")
		} else {
			a.SetStatus("Debug mode OFF")
		}
	default:
		a.SetStatus("Unknown command: " + parts[0])
	}
}

// parseCommand splits a command line on whitespace. Single or double quotes
// group words, and a backslash escapes the next character.
func parseCommand(input string) []string {
	var parts []string
	var current strings.Builder
	inToken := false
	var quote rune
	escaped := false

	for _, r := range input {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
			inToken = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				parts = append(parts, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	if inToken {
		parts = append(parts, current.String())
	}
	return parts
}

// handleSet changes a session setting. Without arguments it lists them.
func (a *App) handleSet(args []string) {
	if len(args) == 0 {
		var pairs []string
		for _, k := range a.cfg.Keys() {
			pairs = append(pairs, k+"="+a.cfg.Get(k))
		}
		if len(pairs) == 0 {
			a.SetStatus("No settings")
		} else {
			a.SetStatus(strings.Join(pairs, " "))
		}
		return
	}
	if len(args) < 2 {
		a.SetStatus(args[0] + "=" + a.cfg.Get(args[0]))
		return
	}

	key, value := args[0], strings.Join(args[1:], " ")
	if key != "show_ghosts" {
		a.SetStatus("Unknown setting: " + key)
		return
	}
	a.cfg.Set(key, value)
	a.view.SetShowGhosts(a.cfg.ShowGhosts())
	a.logOverlay("settings")
	a.SetStatus(key + "=" + value)
}

// handleSocketMessage applies a remote control request and answers it
func (a *App) handleSocketMessage(msg socket.Message) {
	log.Printf("Received socket message: command=%s", msg.Command)

	switch msg.Command {
	case socket.CommandToggle:
		a.ToggleDiff()
	case socket.CommandSetEnabled:
		if msg.Enabled != nil {
			a.SetDiffEnabled(*msg.Enabled)
		}
	}

	response := socket.Response{
		Success:   true,
		Available: a.state.IsAvailable(),
		Enabled:   a.state.IsEnabled(),
	}
	switch {
	case !response.Available:
		response.Message = "no diff available"
	case response.Enabled:
		response.Message = "diff overlay on"
	default:
		response.Message = "diff overlay off"
	}

	if msg.Reply != nil {
		msg.Reply <- response
	}
}

// ToggleDiff flips the diff overlay
func (a *App) ToggleDiff() {
	a.SetDiffEnabled(!a.state.IsEnabled())
}

// SetDiffEnabled switches the diff overlay on or off
func (a *App) SetDiffEnabled(enabled bool) {
	if !a.state.IsAvailable() {
		a.SetStatus("No diff available")
		return
	}
	a.state.SetEnabled(enabled)
	if a.state.IsEnabled() {
		a.SetStatus("Diff overlay on")
	} else {
		a.SetStatus("Diff overlay off")
	}
}

// ToggleView switches between the after and the before version
func (a *App) ToggleView() {
	a.view.ToggleView()
	a.logOverlay("view")
	a.SetStatus("Showing " + a.view.View() + " version")
}

// ShowSummary opens the change summary box
func (a *App) ShowSummary() {
	title := "untitled"
	if a.filePath != "" {
		title = filepath.Base(a.filePath)
	}
	a.diffView.Show(a.state.Snapshot(), title)
}

// Export writes the markdown report of the current diff to path
func (a *App) Export(path string) {
	if err := export.ExportToMarkdown(a.state.Snapshot(), a.widget.IR, path); err != nil {
		log.Printf("Export failed: %v", err)
		a.SetStatus("Failed to export: " + err.Error())
		return
	}
	a.SetStatus("Exported to " + path)
}

func (a *App) stepChange(step func() (navigate.Change, bool)) {
	change, ok := step()
	if !ok {
		a.SetStatus("No changes")
		return
	}
	if a.view.LineForChange(change) < 0 {
		a.SetStatus(change.Label() + " (not shown in this view)")
	}
}

func (a *App) firstChange() {
	a.stepChange(a.view.FirstChange)
}

// SetStatus sets the status message
func (a *App) SetStatus(msg string) {
	a.statusMsg = msg
	a.statusTime = time.Now()
}

// Quit signals the app to quit
func (a *App) Quit() {
	a.quit = true
}

// SetDebugMode enables or disables debug mode. Enabling it dumps the
// current snapshot to the log.
func (a *App) SetDebugMode(debug bool) {
	a.debugMode = debug
	if debug {
		log.Printf("Snapshot: %s", spew.Sdump(a.state.Snapshot()))
	}
}
