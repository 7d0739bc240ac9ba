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

// Package codec converts positions and moves to and from the textual
// exchange formats understood by native engine units: FEN for positions
// and UCI coordinate notation for moves.
package codec

// Square indexes a board square from a1 (0) to h8 (63), file-major within
// each rank, so e2 is 12 and e4 is 28.
type Square int8

// NoSquare represents the absence of a square, like an unset en-passant
// target.
const NoSquare Square = -1

// SquareN is the number of squares on a chess board.
const SquareN = 64

// NewSquare creates a Square from a 0-based file and rank.
func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}

	return Square(rank*8 + file)
}

// ParseSquare parses a square in algebraic form like "e4". The second
// return value is false if the string is not a valid square.
func ParseSquare(s string) (Square, bool) {
	if len(s) != 2 {
		return NoSquare, false
	}

	file, rank := s[0], s[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return NoSquare, false
	}

	return NewSquare(int(file-'a'), int(rank-'1')), true
}

func (sq Square) File() int { return int(sq) % 8 }
func (sq Square) Rank() int { return int(sq) / 8 }

// Valid reports whether sq is one of the 64 board squares.
func (sq Square) Valid() bool {
	return sq >= 0 && sq < SquareN
}

func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}

	return string([]byte{'a' + byte(sq.File()), '1' + byte(sq.Rank())})
}

// Color is one of the two sides in a game of chess.
type Color uint8

const (
	White Color = iota
	Black

	ColorN = 2
)

// Other returns the opponent of the given Color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "?"
	}
}
