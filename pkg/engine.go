package pkg

import (
	"fmt"

	"github.com/notnil/chess"
)

// BoardWidth is the number of squares per side.
const BoardWidth = 8

// Board is an immutable position snapshot held by the engine.
type Board struct {
	game *chess.Game
}

// NewDefaultBoard returns the standard starting position.
func NewDefaultBoard() *Board {
	return &Board{game: chess.NewGame(chess.UseNotation(chess.UCINotation{}))}
}

// NewBoardFromFEN parses a position from FEN. The FEN grammar itself is the
// engine library's business; a parse failure surfaces as an error and no board.
func NewBoardFromFEN(fen string) (*Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	return &Board{game: chess.NewGame(opt, chess.UseNotation(chess.UCINotation{}))}, nil
}

// FEN returns the position encoded back to FEN.
func (b *Board) FEN() string {
	return b.game.Position().String()
}

// Engine holds the current board and answers piece queries. Replacing and
// reading the board reference is the caller's concurrency problem; the client
// does both under its mutex.
type Engine struct {
	board *Board
}

func (e *Engine) SetBoard(b *Board) {
	e.board = b
}

func (e *Engine) Board() *Board {
	return e.board
}

// GetPiece reports the piece on the square at c, with x the file and y the
// rank, both zero based.
func (e *Engine) GetPiece(c Coord) PieceInfo {
	board := e.board.game.Position().Board()
	return PieceInfo{piece: board.Piece(squareAt(c))}
}
