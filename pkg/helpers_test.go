package pkg

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

type renderCall struct {
	pos    Coord
	glyph  rune
	fg, bg tcell.Color
}

// fakeRenderer records render calls and hands out key-callback subscriptions
// without a terminal behind it.
type fakeRenderer struct {
	mu        sync.Mutex
	calls     []renderCall
	shows     int
	callbacks map[CallbackHandle]func(ch rune)
	next      CallbackHandle
	removed   int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{callbacks: make(map[CallbackHandle]func(ch rune))}
}

func (r *fakeRenderer) Render(pos Coord, glyph rune, fg, bg tcell.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, renderCall{pos: pos, glyph: glyph, fg: fg, bg: bg})
}

func (r *fakeRenderer) Show() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shows++
}

func (r *fakeRenderer) AddKeyCallback(fn func(ch rune)) CallbackHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.callbacks[r.next] = fn
	return r.next
}

func (r *fakeRenderer) RemoveKeyCallback(h CallbackHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.callbacks[h]; ok {
		delete(r.callbacks, h)
		r.removed++
	}
}

func (r *fakeRenderer) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *fakeRenderer) callbackCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.callbacks)
}

// keyFunc returns the sole subscribed key callback.
func (r *fakeRenderer) keyFunc() func(ch rune) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, fn := range r.callbacks {
		return fn
	}
	return nil
}

// at returns the last call issued for pos, glyph placement being
// last-write-wins on a character grid.
func (r *fakeRenderer) at(pos Coord) (renderCall, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.calls) - 1; i >= 0; i-- {
		if r.calls[i].pos == pos {
			return r.calls[i], true
		}
	}
	return renderCall{}, false
}

// feed types a whole line, Enter included, through fn.
func feed(fn func(ch rune), line string) {
	for _, ch := range line {
		fn(ch)
	}
	fn('\n')
}
