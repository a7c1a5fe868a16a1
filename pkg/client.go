package pkg

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Client owns the console session: it wires renderer keystrokes into the
// console, registers the command set, and drives board redraws.
//
// A single mutex serializes everything that touches shared state: keystroke
// dispatch, FEN loads, and quit-flag access. Keystrokes arrive on a goroutine
// owned by the renderer's event source; LoadFEN and ShouldQuit may be called
// from any goroutine.
type Client struct {
	renderer Renderer
	console  Console

	mu         sync.Mutex
	engine     Engine
	shouldQuit bool

	keyHandle CallbackHandle
	closeOnce sync.Once
}

// NewClient builds a client over the given adapters. fen optionally overrides
// the starting position; if it does not parse, creation fails and nothing has
// been rendered or subscribed. Input acceptance is enabled last, so no
// keystroke is ever processed against a partially registered command set.
func NewClient(r Renderer, c Console, fen string) (*Client, error) {
	cl := &Client{renderer: r, console: c}
	cl.engine.SetBoard(NewDefaultBoard())

	if fen != "" {
		board, err := NewBoardFromFEN(fen)
		if err != nil {
			return nil, fmt.Errorf("initial position: %w", err)
		}
		cl.engine.SetBoard(board)
	}

	cl.keyHandle = r.AddKeyCallback(cl.handleKey)
	cl.registerCommands()
	cl.redraw()
	c.SetAcceptInput(true)

	return cl, nil
}

// Close unsubscribes the key callback, before anything else, so no further
// keystrokes reach a client being torn down. Safe to call more than once; the
// subscription is released exactly once. The renderer and console are owned
// by the caller and are not shut down here.
func (cl *Client) Close() {
	cl.closeOnce.Do(func() {
		cl.renderer.RemoveKeyCallback(cl.keyHandle)
	})
}

// handleKey is the renderer's key callback. The mutex is held across the
// whole of keystroke processing, including any command the console dispatches
// from inside ProcessKeystroke.
func (cl *Client) handleKey(ch rune) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	cl.console.ProcessKeystroke(ch)
}

// LoadFEN replaces the board with a position parsed from fen. On a parse
// failure the existing board is untouched and false is returned.
func (cl *Client) LoadFEN(fen string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	board, err := NewBoardFromFEN(fen)
	if err != nil {
		return false
	}

	cl.engine.SetBoard(board)
	return true
}

// ShouldQuit reports whether the quit command has run. The run loop polls it.
func (cl *Client) ShouldQuit() bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	return cl.shouldQuit
}

// Engine exposes the engine adapter for piece queries.
func (cl *Client) Engine() *Engine {
	return &cl.engine
}

// Redraw repaints the board and flushes.
func (cl *Client) Redraw() {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	cl.redraw()
}

func (cl *Client) redraw() {
	DrawBoard(cl.renderer, &cl.engine, Coord{}, ThemeDefault)
	cl.renderer.Show()
}

// bind wraps a command handler in the console locking protocol: input
// acceptance is disabled for the duration of the handler and restored on
// every exit path, a panic included. This keeps a second keystroke from
// re-entering the console dispatcher while a command is still executing.
func (cl *Client) bind(fn CommandFunc) CommandFunc {
	return func(args []string) error {
		cl.console.SetAcceptInput(false)
		defer cl.console.SetAcceptInput(true)

		return fn(args)
	}
}

// Command handlers run on the keystroke path with the client mutex already
// held, so they touch engine state and the quit flag directly instead of
// going through the locked public methods.

func (cl *Client) registerCommands() {
	cl.console.Register([]string{"quit", "exit", "q"}, cl.bind(cl.cmdQuit))
	cl.console.Register([]string{"fen", "load"}, cl.bind(cl.cmdLoadFEN))
	cl.console.Register([]string{"new", "reset"}, cl.bind(cl.cmdReset))
	cl.console.Register([]string{"redraw", "r"}, cl.bind(cl.cmdRedraw))
}

// cmdQuit flags the session for termination and nothing more; the external
// run loop owns actually exiting.
func (cl *Client) cmdQuit(args []string) error {
	cl.shouldQuit = true
	return nil
}

func (cl *Client) cmdLoadFEN(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: fen <position>")
	}

	board, err := NewBoardFromFEN(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("invalid position: %w", err)
	}

	cl.engine.SetBoard(board)
	cl.redraw()
	return nil
}

func (cl *Client) cmdReset(args []string) error {
	cl.engine.SetBoard(NewDefaultBoard())
	cl.redraw()
	return nil
}

func (cl *Client) cmdRedraw(args []string) error {
	cl.redraw()
	return nil
}
