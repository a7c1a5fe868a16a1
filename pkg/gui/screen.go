package gui

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"termchess/pkg"
)

// Screen adapts a tcell screen to the renderer contract: glyph placement plus
// an asynchronous key-event subscription. Key events are translated to runes
// and fanned out to subscribers from a single polling goroutine, which the
// screen owns for its whole lifetime.
type Screen struct {
	screen tcell.Screen

	mu        sync.Mutex
	callbacks map[pkg.CallbackHandle]func(ch rune)
	next      pkg.CallbackHandle

	done chan struct{}
}

// NewScreen initializes the process terminal and starts event polling.
func NewScreen() (*Screen, error) {
	ts, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := ts.Init(); err != nil {
		return nil, err
	}
	return NewScreenFor(ts), nil
}

// NewScreenFor wraps an already initialized tcell screen. Tests pass a
// tcell.SimulationScreen here.
func NewScreenFor(ts tcell.Screen) *Screen {
	s := &Screen{
		screen:    ts,
		callbacks: make(map[pkg.CallbackHandle]func(ch rune)),
		done:      make(chan struct{}),
	}
	go s.poll()
	return s
}

// Fini restores the terminal and stops the polling goroutine.
func (s *Screen) Fini() {
	s.screen.Fini()
	<-s.done
}

func (s *Screen) Render(pos pkg.Coord, glyph rune, fg, bg tcell.Color) {
	style := tcell.StyleDefault.Foreground(fg).Background(bg)
	s.screen.SetContent(int(pos.X), int(pos.Y), glyph, nil, style)
}

func (s *Screen) Show() {
	s.screen.Show()
}

func (s *Screen) AddKeyCallback(fn func(ch rune)) pkg.CallbackHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	s.callbacks[s.next] = fn
	return s.next
}

func (s *Screen) RemoveKeyCallback(h pkg.CallbackHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.callbacks, h)
}

// poll drains tcell events until Fini, forwarding key runes to subscribers.
// Callbacks run on this goroutine.
func (s *Screen) poll() {
	defer close(s.done)

	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ch, ok := keyRune(ev); ok {
				s.dispatch(ch)
			}
		case *tcell.EventResize:
			s.screen.Sync()
		}
	}
}

// dispatch snapshots the subscriber list before invoking anything, so a
// callback that adds or removes subscriptions does not deadlock against the
// polling goroutine.
func (s *Screen) dispatch(ch rune) {
	s.mu.Lock()
	fns := make([]func(ch rune), 0, len(s.callbacks))
	for _, fn := range s.callbacks {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ch)
	}
}

// keyRune reduces a key event to the single-character alphabet the console
// understands. Keys with no character meaning are dropped here.
func keyRune(ev *tcell.EventKey) (rune, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		return ev.Rune(), true
	case tcell.KeyEnter:
		return '\n', true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return '\b', true
	default:
		return 0, false
	}
}
