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

package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the position-exchange string of the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position is a normalized snapshot of a chess position. It is a value:
// copying it copies the board.
type Position struct {
	// Board holds the FEN letter of the piece on each square, or 0.
	Board [SquareN]byte

	SideToMove Color
	Castling   string // subset of "KQkq" in that order, or "-"
	EnPassant  Square

	HalfMoves int // halfmove clock for the 50/75 move rules
	FullMoves int
}

// PieceAt returns the FEN letter of the piece on the given square, or 0 if
// the square is empty.
func (pos Position) PieceAt(sq Square) byte {
	if !sq.Valid() {
		return 0
	}

	return pos.Board[sq]
}

// String returns the position's FEN.
func (pos Position) String() string {
	return EncodePosition(pos)
}

// StartPosition returns the standard starting position.
func StartPosition() Position {
	pos, err := DecodePosition(StartFEN)
	if err != nil {
		panic(err)
	}

	return pos
}

// EncodePosition encodes pos in Forsyth–Edwards Notation.
func EncodePosition(pos Position) string {
	var b strings.Builder
	b.Grow(90)

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := pos.Board[NewSquare(file, rank)]
			if piece == 0 {
				empty++
				continue
			}

			if empty > 0 {
				b.WriteByte('0' + byte(empty))
				empty = 0
			}
			b.WriteByte(piece)
		}

		if empty > 0 {
			b.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			b.WriteByte('/')
		}
	}

	b.WriteByte(' ')
	if pos.SideToMove == Black {
		b.WriteByte('b')
	} else {
		b.WriteByte('w')
	}

	castling := pos.Castling
	if castling == "" {
		castling = "-"
	}

	fmt.Fprintf(&b, " %s %s %d %d", castling, pos.EnPassant, pos.HalfMoves, pos.FullMoves)
	return b.String()
}

var ErrInvalidFEN = errors.New("codec: invalid fen")

func fenError(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidFEN}, a...)...)
}

// DecodePosition parses a FEN string into a Position. The move counters
// may be omitted, in which case they default to 0 and 1.
func DecodePosition(fen string) (Position, error) {
	var pos Position

	fields := strings.Fields(fen)
	if len(fields) != 4 && len(fields) != 6 {
		return pos, fenError("expected 4 or 6 fields, got %d", len(fields))
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return pos, fenError("expected 8 ranks, got %d", len(ranks))
	}

	for i, row := range ranks {
		rank, file := 7-i, 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			switch {
			case c >= '1' && c <= '8':
				file += int(c - '0')
			case strings.IndexByte("PNBRQKpnbrqk", c) >= 0:
				if file >= 8 {
					return pos, fenError("too many pieces in rank %d", rank+1)
				}
				pos.Board[NewSquare(file, rank)] = c
				file++
			default:
				return pos, fenError("unexpected character %q in placement", c)
			}
		}

		if file != 8 {
			return pos, fenError("rank %d has %d files", rank+1, file)
		}
	}

	switch fields[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return pos, fenError("side to move must be 'w' or 'b'")
	}

	castling, err := normalizeCastling(fields[2])
	if err != nil {
		return pos, err
	}
	pos.Castling = castling

	pos.EnPassant = NoSquare
	if fields[3] != "-" {
		sq, ok := ParseSquare(fields[3])
		if !ok || (sq.Rank() != 2 && sq.Rank() != 5) {
			return pos, fenError("invalid en-passant square %q", fields[3])
		}
		pos.EnPassant = sq
	}

	pos.HalfMoves, pos.FullMoves = 0, 1
	if len(fields) == 6 {
		if pos.HalfMoves, err = strconv.Atoi(fields[4]); err != nil || pos.HalfMoves < 0 {
			return pos, fenError("invalid halfmove clock %q", fields[4])
		}

		if pos.FullMoves, err = strconv.Atoi(fields[5]); err != nil || pos.FullMoves < 1 {
			return pos, fenError("invalid fullmove number %q", fields[5])
		}
	}

	return pos, nil
}

func normalizeCastling(s string) (string, error) {
	if s == "-" {
		return s, nil
	}

	var seen [4]bool
	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte("KQkq", s[i])
		if idx < 0 || seen[idx] {
			return "", fenError("invalid castling rights %q", s)
		}
		seen[idx] = true
	}

	var b strings.Builder
	for i, ok := range seen {
		if ok {
			b.WriteByte("KQkq"[i])
		}
	}

	return b.String(), nil
}

// RepetitionKey identifies a position for repetition counting: placement,
// side to move, castling rights and en-passant target.
func (pos Position) RepetitionKey() string {
	fen := EncodePosition(pos)
	fields := strings.Fields(fen)
	return strings.Join(fields[:4], " ")
}
