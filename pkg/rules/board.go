// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package rules adapts the mess move generator into the rules collaborator
// used by game sessions: legal move generation, legality checks, applying
// moves and detecting the end of the game.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"laptudirm.com/x/mess/pkg/board"
	"laptudirm.com/x/mess/pkg/board/move"
	"laptudirm.com/x/mess/pkg/formats/fen"

	"laptudirm.com/x/gambit/pkg/codec"
)

// Draw rule thresholds, in plies and occurrences.
const (
	SeventyFiveMoveLimit = 150
	FivefoldLimit        = 5
)

var ErrIllegalMove = errors.New("rules: illegal move")

// Board is a chess board which only ever holds legal reachable positions.
// It tracks the history needed for repetition detection.
type Board struct {
	board *board.Board

	moves []move.Move  // legal moves in the current position
	legal []codec.Move // moves, in codec form, index aligned

	position    codec.Position
	repetitions map[string]int
}

// New creates a Board from the given FEN.
func New(fenstr string) (*Board, error) {
	pos, err := codec.DecodePosition(fenstr)
	if err != nil {
		return nil, err
	}

	if err := checkKings(pos); err != nil {
		return nil, err
	}

	var b Board
	if err := b.load(codec.EncodePosition(pos)); err != nil {
		return nil, err
	}

	b.repetitions = map[string]int{b.position.RepetitionKey(): 1}
	return &b, nil
}

// load sets up the mess board. Malformed positions which slip past the
// FEN checks may panic inside the move generator; those become errors.
func (b *Board) load(fenstr string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rules: unusable position %q: %v", fenstr, r)
		}
	}()

	b.board = board.New(board.FEN(fen.FromString(fenstr)))
	b.refresh()
	return nil
}

// refresh regenerates the legal move list and the cached position.
func (b *Board) refresh() {
	b.moves = b.board.GenerateMoves(false)
	b.legal = b.legal[:0]
	for _, mov := range b.moves {
		m, _ := codec.DecodeMove(strings.ToLower(mov.String()))
		b.legal = append(b.legal, m)
	}

	fields := [6]string(b.board.FEN())
	b.position, _ = codec.DecodePosition(strings.Join(fields[:], " "))
}

func checkKings(pos codec.Position) error {
	var white, black int
	for _, piece := range pos.Board {
		switch piece {
		case 'K':
			white++
		case 'k':
			black++
		}
	}

	if white != 1 || black != 1 {
		return fmt.Errorf("%w: need exactly one king per side", codec.ErrInvalidFEN)
	}

	return nil
}

// Position returns the current position.
func (b *Board) Position() codec.Position {
	return b.position
}

// FEN returns the current position as a FEN string.
func (b *Board) FEN() string {
	return codec.EncodePosition(b.position)
}

// SideToMove returns the color whose turn it is.
func (b *Board) SideToMove() codec.Color {
	return b.position.SideToMove
}

// LegalMoves returns a copy of the legal moves in the current position.
func (b *Board) LegalMoves() []codec.Move {
	return append([]codec.Move(nil), b.legal...)
}

// IsLegal reports whether m is legal in the current position.
func (b *Board) IsLegal(m codec.Move) bool {
	return b.index(m) >= 0
}

func (b *Board) index(m codec.Move) int {
	for i, legal := range b.legal {
		if legal == m {
			return i
		}
	}

	return -1
}

// IsCapture reports whether m takes a piece, including en-passant.
func (b *Board) IsCapture(m codec.Move) bool {
	if b.position.PieceAt(m.To) != 0 {
		return true
	}

	piece := b.position.PieceAt(m.From)
	return (piece == 'P' || piece == 'p') && m.To == b.position.EnPassant
}

// IsPawn reports whether the piece on sq is a pawn of either color.
func (b *Board) IsPawn(sq codec.Square) bool {
	piece := b.position.PieceAt(sq)
	return piece == 'P' || piece == 'p'
}

// MakeMove plays m on the board. The move must be legal in the current
// position, otherwise ErrIllegalMove is returned and the board is left
// unchanged.
func (b *Board) MakeMove(m codec.Move) error {
	i := b.index(m)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	b.board.MakeMove(b.moves[i])
	b.refresh()

	b.repetitions[b.position.RepetitionKey()]++
	return nil
}

// InCheck reports whether the side to move is in check.
func (b *Board) InCheck() bool {
	return b.board.IsInCheck(b.board.SideToMove)
}

// KingSquare returns the square of the king of the side to move.
func (b *Board) KingSquare() codec.Square {
	king := byte('K')
	if b.position.SideToMove == codec.Black {
		king = 'k'
	}

	for sq, piece := range b.position.Board {
		if piece == king {
			return codec.Square(sq)
		}
	}

	return codec.NoSquare
}

// Repetitions returns how many times the current position has occurred.
func (b *Board) Repetitions() int {
	return b.repetitions[b.position.RepetitionKey()]
}
