package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dshills/goterm"

	"github.com/dshills/gomove/pkg/config"
	"github.com/dshills/gomove/pkg/geometry"
	"github.com/dshills/gomove/pkg/graph"
	"github.com/dshills/gomove/pkg/move"
)

// keyInput is a decoded keyboard input from raw stdin bytes
type keyInput struct {
	Key       rune
	Ctrl      bool
	Shift     bool
	IsSpecial bool
	Special   string
}

// App represents the interactive demo application root
type App struct {
	screen     *goterm.Screen
	workspace  *graph.Workspace
	view       *CanvasView
	controller *move.Controller
	cfg        *config.Config
	running    bool
	mu         sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
	inputChan  chan keyInput
}

// NewApp creates a demo application over the workspace
func NewApp(workspace *graph.Workspace, cfg *config.Config) (*App, error) {
	// Initialize terminal screen
	screen, err := goterm.Init()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	view := NewCanvasView(workspace)

	controller, err := move.NewController(workspace.Capabilities(), cfg, view)
	if err != nil {
		screen.Close()
		return nil, fmt.Errorf("failed to create move controller: %w", err)
	}
	controller.SetMovablePredicate(workspace.Movable)

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		screen:     screen,
		workspace:  workspace,
		view:       view,
		controller: controller,
		cfg:        cfg,
		ctx:        ctx,
		cancel:     cancel,
		inputChan:  make(chan keyInput, 100),
	}

	if ids := view.NodeIDs(); len(ids) > 0 {
		view.SetSelected(ids[0])
	}
	app.updateStatus()

	return app, nil
}

// Run starts the demo main loop
func (a *App) Run() error {
	a.mu.Lock()
	a.running = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start keyboard input goroutine
	go a.readKeyboardInput()

	// Render loop targeting 60 FPS (16ms frame time)
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	// Initial render
	if err := a.render(); err != nil {
		return fmt.Errorf("initial render failed: %w", err)
	}

	for {
		select {
		case <-a.ctx.Done():
			return nil

		case <-sigChan:
			a.cancel()
			return nil

		case input := <-a.inputChan:
			if err := a.handleInput(input); err != nil {
				return err
			}
			// Render immediately after input
			if err := a.render(); err != nil {
				return err
			}

		case <-ticker.C:
			a.controller.FlushPending()
			if err := a.render(); err != nil {
				return err
			}
		}
	}
}

// handleInput routes decoded input to the demo or the move controller
func (a *App) handleInput(input keyInput) error {
	if input.Ctrl && input.Key == 'c' {
		a.cancel()
		return nil
	}

	sessionActive := a.controller.State().Active()

	if !sessionActive {
		switch {
		case input.Key == 'q':
			a.cancel()
			return nil
		case input.IsSpecial && input.Special == "Tab":
			a.selectNext()
			return nil
		case input.IsSpecial && input.Special == "Enter":
			return a.startSession()
		}
		a.updateStatus()
		return nil
	}

	ev, ok := toMoveKey(input)
	if !ok {
		return nil
	}
	a.controller.HandleKey(ev)
	if !a.controller.State().Active() {
		a.view.SetActive("")
	}
	a.updateStatus()
	return nil
}

// toMoveKey converts a decoded input into an engine key event
func toMoveKey(input keyInput) (move.KeyEvent, bool) {
	ev := move.KeyEvent{Time: time.Now(), Modified: input.Shift}
	if !input.IsSpecial {
		return ev, false
	}
	switch input.Special {
	case "Up":
		ev.Key = move.KeyUp
	case "Down":
		ev.Key = move.KeyDown
	case "Left":
		ev.Key = move.KeyLeft
	case "Right":
		ev.Key = move.KeyRight
	case "Enter":
		ev.Key = move.KeyEnter
	case "Escape":
		ev.Key = move.KeyEscape
	default:
		return ev, false
	}
	return ev, true
}

// selectNext moves the demo cursor to the next node
func (a *App) selectNext() {
	ids := a.view.NodeIDs()
	if len(ids) == 0 {
		return
	}
	current := a.view.Selected()
	next := ids[0]
	for i, id := range ids {
		if id == current {
			next = ids[(i+1)%len(ids)]
			break
		}
	}
	a.view.SetSelected(next)
	a.updateStatus()
}

// startSession begins a keyboard move session on the selected node
func (a *App) startSession() error {
	node, ok := a.workspace.Node(a.view.Selected())
	if !ok {
		return nil
	}
	origin := geometry.NewTransformer().CanvasToScreen(node.Position, a.workspace.Viewport())
	if err := a.controller.StartSession(node, origin, move.ModalityKeyboard); err != nil {
		a.view.SetStatus(fmt.Sprintf("error: %v", err))
		return nil
	}
	a.view.SetActive(node.ID)
	a.updateStatus()
	return nil
}

// updateStatus refreshes the message line from controller state
func (a *App) updateStatus() {
	if a.controller.State().Active() {
		hint := "arrows: cycle targets | shift+arrows: step | enter: connect | esc: cancel"
		if c := a.controller.CurrentCandidate(); c != nil {
			a.view.SetStatus(fmt.Sprintf("moving %s | target %s:%s | %s",
				a.view.Selected(), c.Neighbour.Node.ID, c.Neighbour.Type, hint))
		} else {
			a.view.SetStatus(fmt.Sprintf("moving %s | no target | %s", a.view.Selected(), hint))
		}
		return
	}
	a.view.SetStatus("tab: select node | enter: move | q: quit")
}

// render draws the workspace to the screen
func (a *App) render() error {
	a.screen.Clear()

	if err := a.view.Render(a.screen); err != nil {
		return fmt.Errorf("view render failed: %w", err)
	}

	if err := a.screen.Show(); err != nil {
		return fmt.Errorf("screen show failed: %w", err)
	}

	return nil
}

// readKeyboardInput reads keyboard input in a background goroutine
func (a *App) readKeyboardInput() {
	// Read from stdin in raw mode (blocking)
	buf := make([]byte, 32)

	for {
		// Check for context cancellation before each read
		select {
		case <-a.ctx.Done():
			return
		default:
		}

		// Blocking read - terminal is already in raw mode from goterm
		n, err := os.Stdin.Read(buf)
		if err != nil {
			// Handle EOF gracefully (stdin closed)
			if err == io.EOF {
				return
			}
			// On other errors, continue to next iteration
			continue
		}

		if n > 0 {
			// Parse input and send to input channel
			input := parseKeyInput(buf[:n])
			select {
			case a.inputChan <- input:
			case <-a.ctx.Done():
				return
			}
		}
	}
}

// parseKeyInput converts raw bytes into a keyInput
func parseKeyInput(buf []byte) keyInput {
	if len(buf) == 0 {
		return keyInput{}
	}

	// Handle escape sequences (arrow keys, etc.)
	if buf[0] == 27 {
		if len(buf) == 1 {
			return keyInput{IsSpecial: true, Special: "Escape"}
		}
		if len(buf) > 2 && buf[1] == '[' {
			// Shift+arrow arrives as ESC [ 1 ; 2 <letter>
			if len(buf) >= 6 && buf[2] == '1' && buf[3] == ';' && buf[4] == '2' {
				if special, ok := arrowSpecial(buf[5]); ok {
					return keyInput{IsSpecial: true, Special: special, Shift: true}
				}
			}
			if special, ok := arrowSpecial(buf[2]); ok {
				return keyInput{IsSpecial: true, Special: special}
			}
		}
		return keyInput{IsSpecial: true, Special: "Escape"}
	}

	// Handle special keys
	switch buf[0] {
	case 9: // Tab
		return keyInput{IsSpecial: true, Special: "Tab"}
	case 13: // Enter
		return keyInput{IsSpecial: true, Special: "Enter"}
	case 127: // Backspace
		return keyInput{IsSpecial: true, Special: "Backspace"}
	}

	// Handle Ctrl combinations
	if buf[0] < 32 {
		return keyInput{
			Key:  rune(buf[0] + 'a' - 1),
			Ctrl: true,
		}
	}

	// Regular character
	key := rune(buf[0])
	shift := key >= 'A' && key <= 'Z'

	return keyInput{
		Key:   key,
		Shift: shift,
	}
}

// arrowSpecial maps a CSI final byte to an arrow name
func arrowSpecial(b byte) (string, bool) {
	switch b {
	case 'A':
		return "Up", true
	case 'B':
		return "Down", true
	case 'C':
		return "Right", true
	case 'D':
		return "Left", true
	}
	return "", false
}

// Close performs cleanup and restores terminal state
func (a *App) Close() error {
	a.cancel()

	a.controller.Dispose()

	// Close screen (restores terminal)
	if err := a.screen.Close(); err != nil {
		return fmt.Errorf("failed to close screen: %w", err)
	}

	return nil
}

// Controller returns the move controller instance
func (a *App) Controller() *move.Controller {
	return a.controller
}
