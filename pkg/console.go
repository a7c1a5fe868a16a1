package pkg

import (
	"fmt"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// CommandFunc handles a parsed console command. args holds everything after
// the command word. A returned error becomes the console message line.
type CommandFunc func(args []string) error

// Console is the keystroke-to-command surface the client drives. The concrete
// implementation is GameConsole; tests substitute stubs to probe the locking
// and re-entrancy protocol.
type Console interface {
	// ProcessKeystroke feeds one keystroke into the line editor, possibly
	// dispatching a command. Keystrokes are dropped while input acceptance
	// is disabled.
	ProcessKeystroke(ch rune)
	// SetAcceptInput opens or closes the accept-input gate.
	SetAcceptInput(accept bool)
	// AcceptsInput reports the gate state.
	AcceptsInput() bool
	// Register binds a handler to one or more command aliases.
	Register(aliases []string, fn CommandFunc)
}

const promptGlyph = '>'

// maxLineWidth caps the echoed input line and message line.
const maxLineWidth = 72

// GameConsole assembles keystrokes into command lines and dispatches them to
// registered handlers. It repaints its prompt and message lines through the
// renderer; the board above it is the client's business.
//
// GameConsole itself is not safe for concurrent use. Every production call
// arrives on the client's keystroke path, which holds the client mutex; only
// the accept-input gate is read from other goroutines and is atomic for that
// reason.
type GameConsole struct {
	renderer Renderer
	origin   Coord // top-left of the prompt line; message line sits below

	accept   atomic.Bool
	buf      []rune
	message  string
	commands map[string]CommandFunc
}

// NewGameConsole returns a console drawing at origin. The accept-input gate
// starts closed; the client opens it once construction completes.
func NewGameConsole(r Renderer, origin Coord) *GameConsole {
	return &GameConsole{
		renderer: r,
		origin:   origin,
		commands: make(map[string]CommandFunc),
	}
}

func (c *GameConsole) Register(aliases []string, fn CommandFunc) {
	for _, alias := range aliases {
		c.commands[alias] = fn
	}
}

func (c *GameConsole) SetAcceptInput(accept bool) {
	c.accept.Store(accept)
}

func (c *GameConsole) AcceptsInput() bool {
	return c.accept.Load()
}

// ProcessKeystroke implements the line editor: printable runes append, Enter
// dispatches, Backspace deletes. Anything else is ignored.
func (c *GameConsole) ProcessKeystroke(ch rune) {
	if !c.accept.Load() {
		return
	}

	switch {
	case ch == '\n' || ch == '\r':
		line := string(c.buf)
		c.buf = c.buf[:0]
		c.dispatch(line)
	case ch == '\b' || ch == 0x7f:
		if len(c.buf) > 0 {
			c.buf = c.buf[:len(c.buf)-1]
		}
	case unicode.IsPrint(ch):
		if len(c.buf) < maxLineWidth-2 {
			c.buf = append(c.buf, ch)
		}
	default:
		return
	}

	c.Redraw()
}

// dispatch parses a submitted line and invokes the matching handler. A
// handler panic propagates to the caller; the client's command wrapper still
// restores the accept-input gate on that path.
func (c *GameConsole) dispatch(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	fn, ok := c.commands[fields[0]]
	if !ok {
		c.message = fmt.Sprintf("unknown command: %s", fields[0])
		return
	}

	c.message = ""
	if err := fn(fields[1:]); err != nil {
		c.message = err.Error()
	}
}

// Redraw repaints the prompt and message lines.
func (c *GameConsole) Redraw() {
	fg, bg := tcell.ColorDefault, tcell.ColorDefault

	c.drawLine(c.origin, string(c.buf), promptGlyph, fg, bg)
	c.drawLine(c.origin.Add(Coord{Y: 1}), c.message, ' ', fg, bg)
	c.renderer.Show()
}

// drawLine paints "<lead> <text>" padded with spaces to erase leftovers from
// a longer previous line.
func (c *GameConsole) drawLine(pos Coord, text string, lead rune, fg, bg tcell.Color) {
	c.renderer.Render(pos, lead, fg, bg)
	x := pos.X + 2
	for _, ch := range text {
		if x >= pos.X+maxLineWidth {
			break
		}
		c.renderer.Render(Coord{X: x, Y: pos.Y}, ch, fg, bg)
		x++
	}
	for ; x < pos.X+maxLineWidth; x++ {
		c.renderer.Render(Coord{X: x, Y: pos.Y}, ' ', fg, bg)
	}
}
