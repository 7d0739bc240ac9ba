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

import "strings"

// PieceKind is the kind of piece a pawn is promoted to. The zero value
// means no promotion.
type PieceKind uint8

const (
	NoPiece PieceKind = iota
	Knight
	Bishop
	Rook
	Queen
)

// promotionLetters maps PieceKind to its UCI promotion suffix.
var promotionLetters = [...]byte{
	Knight: 'n',
	Bishop: 'b',
	Rook:   'r',
	Queen:  'q',
}

// MaxMoveLength is the length of the longest move-exchange string, which
// is a move with a promotion suffix.
const MaxMoveLength = 5

// Move is a move from one square to another with an optional promotion.
type Move struct {
	From, To  Square
	Promotion PieceKind
}

// NullMove is the zero-value stand-in returned alongside a false ok.
var NullMove = Move{From: NoSquare, To: NoSquare}

func (m Move) String() string {
	return EncodeMove(m)
}

// EncodeMove encodes a Move in UCI coordinate notation, like e2e4 or e7e8q.
func EncodeMove(m Move) string {
	var b strings.Builder
	b.Grow(MaxMoveLength)

	b.WriteString(m.From.String())
	b.WriteString(m.To.String())
	if m.Promotion != NoPiece && int(m.Promotion) < len(promotionLetters) {
		b.WriteByte(promotionLetters[m.Promotion])
	}

	return b.String()
}

// DecodeMove decodes a move in UCI coordinate notation. Empty, short,
// over-length and otherwise malformed strings are reported with a false ok
// and never cause a panic.
func DecodeMove(s string) (Move, bool) {
	if len(s) != 4 && len(s) != MaxMoveLength {
		return NullMove, false
	}

	from, ok := ParseSquare(s[0:2])
	if !ok {
		return NullMove, false
	}

	to, ok := ParseSquare(s[2:4])
	if !ok || from == to {
		return NullMove, false
	}

	m := Move{From: from, To: to}
	if len(s) == MaxMoveLength {
		kind := parsePromotion(s[4])
		if kind == NoPiece {
			return NullMove, false
		}

		// promotions only ever land on the last rank of either side
		if r := to.Rank(); r != 0 && r != 7 {
			return NullMove, false
		}

		m.Promotion = kind
	}

	return m, true
}

func parsePromotion(c byte) PieceKind {
	switch c {
	case 'q', 'Q':
		return Queen
	case 'r', 'R':
		return Rook
	case 'b', 'B':
		return Bishop
	case 'n', 'N':
		return Knight
	default:
		return NoPiece
	}
}
