package pkg

import "github.com/gdamore/tcell/v2"

// CallbackHandle identifies a key-callback subscription.
type CallbackHandle uint64

// Renderer is the display primitive the client draws through. The tcell
// implementation lives in pkg/gui; tests substitute a recording fake.
type Renderer interface {
	// Render places a single glyph at pos with the given colors.
	Render(pos Coord, glyph rune, fg, bg tcell.Color)
	// Show flushes buffered glyphs to the display.
	Show()
	// AddKeyCallback subscribes fn to keystroke events. Events arrive on a
	// goroutine owned by the renderer.
	AddKeyCallback(fn func(ch rune)) CallbackHandle
	// RemoveKeyCallback releases a subscription. No further invocations of
	// fn begin after it returns.
	RemoveKeyCallback(h CallbackHandle)
}

// PieceSource answers piece queries for the piece pass.
type PieceSource interface {
	GetPiece(c Coord) PieceInfo
}

// Theme holds the board palette.
type Theme struct {
	Light   tcell.Color // light square background, dark square foreground
	Dark    tcell.Color // dark square background, light square foreground
	FrameFg tcell.Color
	FrameBg tcell.Color
}

var ThemeDefault = Theme{
	Light:   tcell.ColorWhite,
	Dark:    tcell.ColorBlack,
	FrameFg: tcell.ColorWhite,
	FrameBg: tcell.ColorDefault,
}

// Double-line box drawing glyphs for the board frame.
const (
	glyphVertical   = '║'
	glyphHorizontal = '═'
	glyphCross      = '╬'
	glyphCornerTL   = '╔'
	glyphCornerTR   = '╗'
	glyphCornerBL   = '╚'
	glyphCornerBR   = '╝'
	glyphTeeTop     = '╦'
	glyphTeeBottom  = '╩'
	glyphTeeLeft    = '╠'
	glyphTeeRight   = '╣'
)

// DrawBoard renders the board at offset: a double-line frame pass followed by
// a piece pass. It is stateless and issues the same render calls for the same
// position, so it is safe to invoke on every redraw.
func DrawBoard(r Renderer, pieces PieceSource, offset Coord, th Theme) {
	drawFrame(r, offset, th)

	for x := int32(0); x < BoardWidth; x++ {
		for y := int32(0); y < BoardWidth; y++ {
			local := Coord{X: x, Y: y}

			light := local.TaxicabLength()%2 != 0
			fg, bg := th.Light, th.Dark
			if light {
				fg, bg = th.Dark, th.Light
			}

			glyph := pieces.GetPiece(local).DisplayRune()

			// Each cell is two units wide and tall including its
			// shared border; rank 0 goes at the bottom.
			global := offset.Add(Coord{X: 1 + x*2, Y: 1 + (BoardWidth-(y+1))*2})
			r.Render(global, glyph, fg, bg)
		}
	}
}

func drawFrame(r Renderer, offset Coord, th Theme) {
	fg, bg := th.FrameFg, th.FrameBg

	// lines
	for i := int32(0); i <= BoardWidth; i++ {
		for j := int32(0); j < BoardWidth; j++ {
			on, between := i*2, 1+j*2

			r.Render(offset.Add(Coord{X: on, Y: between}), glyphVertical, fg, bg)
			r.Render(offset.Add(Coord{X: between, Y: on}), glyphHorizontal, fg, bg)
		}
	}

	// internal intersections
	for i := int32(0); i < BoardWidth-1; i++ {
		for j := int32(0); j < BoardWidth-1; j++ {
			x, y := 2+i*2, 2+j*2

			r.Render(offset.Add(Coord{X: x, Y: y}), glyphCross, fg, bg)
		}
	}

	// corners
	r.Render(offset, glyphCornerTL, fg, bg)
	r.Render(offset.Add(Coord{X: BoardWidth * 2}), glyphCornerTR, fg, bg)
	r.Render(offset.Add(Coord{Y: BoardWidth * 2}), glyphCornerBL, fg, bg)
	r.Render(offset.Add(Coord{X: BoardWidth * 2, Y: BoardWidth * 2}), glyphCornerBR, fg, bg)

	// edge intersections
	for i := int32(0); i < BoardWidth-1; i++ {
		c := 2 + i*2

		r.Render(offset.Add(Coord{X: c}), glyphTeeTop, fg, bg)
		r.Render(offset.Add(Coord{X: c, Y: BoardWidth * 2}), glyphTeeBottom, fg, bg)
		r.Render(offset.Add(Coord{Y: c}), glyphTeeLeft, fg, bg)
		r.Render(offset.Add(Coord{X: BoardWidth * 2, Y: c}), glyphTeeRight, fg, bg)
	}
}
