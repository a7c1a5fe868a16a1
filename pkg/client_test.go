package pkg

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, fen string) (*Client, *GameConsole, *fakeRenderer) {
	t.Helper()
	r := newFakeRenderer()
	c := NewGameConsole(r, Coord{Y: BoardWidth*2 + 2})
	cl, err := NewClient(r, c, fen)
	require.NoError(t, err)
	return cl, c, r
}

func TestNewClientDefaultPosition(t *testing.T) {
	cl, c, r := newTestClient(t, "")

	assert.Equal(t, 'K', cl.Engine().GetPiece(Coord{X: 4, Y: 0}).DisplayRune())
	assert.Equal(t, 'k', cl.Engine().GetPiece(Coord{X: 4, Y: 7}).DisplayRune())
	assert.False(t, cl.ShouldQuit())

	assert.True(t, c.AcceptsInput(), "input acceptance enabled last")
	assert.Equal(t, 1, r.callbackCount(), "key callback subscribed")
	assert.Positive(t, r.callCount(), "initial redraw happened")
	assert.Positive(t, r.shows)
}

func TestNewClientWithFEN(t *testing.T) {
	cl, _, _ := newTestClient(t, kingsOnlyFEN)

	assert.Equal(t, 'k', cl.Engine().GetPiece(Coord{X: 3, Y: 3}).DisplayRune())
	assert.True(t, cl.Engine().GetPiece(Coord{X: 0, Y: 1}).Empty())
}

func TestNewClientInvalidFEN(t *testing.T) {
	r := newFakeRenderer()
	c := NewGameConsole(r, Coord{Y: 18})

	cl, err := NewClient(r, c, "invalid-fen")
	assert.Error(t, err)
	assert.Nil(t, cl)

	// Failed creation leaves no trace behind.
	assert.Zero(t, r.callCount(), "no rendering side effects")
	assert.Zero(t, r.callbackCount(), "no subscription side effects")
	assert.False(t, c.AcceptsInput())
}

func TestLoadFEN(t *testing.T) {
	cl, _, _ := newTestClient(t, "")

	assert.True(t, cl.LoadFEN(kingsOnlyFEN))
	assert.Equal(t, kingsOnlyFEN, cl.Engine().Board().FEN())

	// Failure leaves the board untouched.
	assert.False(t, cl.LoadFEN("not a position"))
	assert.Equal(t, kingsOnlyFEN, cl.Engine().Board().FEN())
}

func TestQuitCommand(t *testing.T) {
	cl, c, r := newTestClient(t, "")
	before := cl.Engine().Board().FEN()

	feed(r.keyFunc(), "quit")

	assert.True(t, cl.ShouldQuit())
	assert.Equal(t, before, cl.Engine().Board().FEN(), "quit touches nothing else")
	assert.True(t, c.AcceptsInput(), "gate restored after the command")
}

func TestFenCommand(t *testing.T) {
	cl, c, r := newTestClient(t, "")
	drawn := r.callCount()

	feed(r.keyFunc(), "fen "+kingsOnlyFEN)
	assert.Equal(t, kingsOnlyFEN, cl.Engine().Board().FEN())
	assert.Greater(t, r.callCount(), drawn, "board redrawn after load")

	feed(r.keyFunc(), "fen garbage")
	assert.Equal(t, kingsOnlyFEN, cl.Engine().Board().FEN(), "bad load leaves board untouched")
	assert.Contains(t, c.message, "invalid position")

	feed(r.keyFunc(), "fen")
	assert.Contains(t, c.message, "usage")
}

func TestResetCommand(t *testing.T) {
	cl, _, r := newTestClient(t, kingsOnlyFEN)

	feed(r.keyFunc(), "reset")
	assert.Equal(t, 'Q', cl.Engine().GetPiece(Coord{X: 3, Y: 0}).DisplayRune())
}

func TestCommandGateHeldDuringExecution(t *testing.T) {
	cl, c, r := newTestClient(t, "")

	var during []bool
	c.Register([]string{"probe"}, cl.bind(func(args []string) error {
		during = append(during, c.AcceptsInput())
		return nil
	}))

	feed(r.keyFunc(), "probe")
	assert.Equal(t, []bool{false}, during, "input disabled while the command runs")
	assert.True(t, c.AcceptsInput(), "input restored afterwards")
}

func TestCommandGateRestoredOnPanic(t *testing.T) {
	cl, c, r := newTestClient(t, "")

	c.Register([]string{"boom"}, cl.bind(func(args []string) error {
		panic("mid-command failure")
	}))

	func() {
		defer func() {
			require.NotNil(t, recover(), "panic propagates out of dispatch")
		}()
		feed(r.keyFunc(), "boom")
	}()

	assert.True(t, c.AcceptsInput(), "gate restored on the panic path")
	assert.False(t, cl.ShouldQuit(), "client mutex released on the panic path")
}

// overlapConsole detects concurrent entry into ProcessKeystroke.
type overlapConsole struct {
	accept   atomic.Bool
	active   int32
	overlaps int32
	keys     int32
}

func (c *overlapConsole) ProcessKeystroke(ch rune) {
	if atomic.AddInt32(&c.active, 1) > 1 {
		atomic.AddInt32(&c.overlaps, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&c.keys, 1)
	atomic.AddInt32(&c.active, -1)
}

func (c *overlapConsole) SetAcceptInput(accept bool)         { c.accept.Store(accept) }
func (c *overlapConsole) AcceptsInput() bool                 { return c.accept.Load() }
func (c *overlapConsole) Register(_ []string, _ CommandFunc) {}

func TestKeystrokesMutuallyExclusive(t *testing.T) {
	r := newFakeRenderer()
	c := &overlapConsole{}
	cl, err := NewClient(r, c, "")
	require.NoError(t, err)

	const workers, perWorker = 8, 5
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				r.keyFunc()('x')
			}
		}()
	}

	// FEN loads and quit checks contend on the same mutex as keystrokes.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			cl.LoadFEN(kingsOnlyFEN)
			cl.ShouldQuit()
		}
	}()
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&c.overlaps), "no overlapping keystroke processing")
	assert.Equal(t, int32(workers*perWorker), atomic.LoadInt32(&c.keys), "no keystroke lost")
}

func TestClientClose(t *testing.T) {
	cl, _, r := newTestClient(t, "")

	cl.Close()
	assert.Zero(t, r.callbackCount(), "subscription released")
	assert.Equal(t, 1, r.removed)

	// Close is idempotent; the handle is released exactly once.
	cl.Close()
	assert.Equal(t, 1, r.removed)
}
