package pkg

import (
	"unicode"

	"github.com/notnil/chess"
)

// PieceInfo describes the occupant of a single board square.
type PieceInfo struct {
	piece chess.Piece
}

func (p PieceInfo) Empty() bool {
	return p.piece == chess.NoPiece
}

func (p PieceInfo) Type() chess.PieceType {
	return p.piece.Type()
}

func (p PieceInfo) Color() chess.Color {
	return p.piece.Color()
}

var pieceRunes = map[chess.PieceType]rune{
	chess.King:   'K',
	chess.Queen:  'Q',
	chess.Rook:   'R',
	chess.Bishop: 'B',
	chess.Knight: 'N',
	chess.Pawn:   'P',
}

// DisplayRune returns the single character drawn for the piece: FEN letters,
// uppercase for white and lowercase for black, a space for an empty square.
func (p PieceInfo) DisplayRune() rune {
	if p.Empty() {
		return ' '
	}
	r := pieceRunes[p.piece.Type()]
	if p.piece.Color() == chess.Black {
		r = unicode.ToLower(r)
	}
	return r
}

// squareAt maps a board coordinate to the engine's square index. A1 is square
// 0, so the rank is the Y component.
func squareAt(c Coord) chess.Square {
	return chess.Square(int(c.Y)*BoardWidth + int(c.X))
}
