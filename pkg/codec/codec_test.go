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

import "testing"

func TestSquareIndexing(t *testing.T) {
	tests := []struct {
		name string
		want Square
	}{
		{"a1", 0},
		{"h1", 7},
		{"e2", 12},
		{"e4", 28},
		{"h8", 63},
	}

	for _, tt := range tests {
		sq, ok := ParseSquare(tt.name)
		if !ok {
			t.Fatalf("ParseSquare(%q) failed", tt.name)
		}
		if sq != tt.want {
			t.Errorf("ParseSquare(%q) = %d, want %d", tt.name, sq, tt.want)
		}
		if sq.String() != tt.name {
			t.Errorf("Square(%d).String() = %q, want %q", sq, sq.String(), tt.name)
		}
	}
}

func TestMoveRoundTrip(t *testing.T) {
	moves := []Move{
		{From: 12, To: 28},
		{From: 6, To: 21},
		{From: 4, To: 6},
		{From: 52, To: 60, Promotion: Queen},
		{From: 52, To: 61, Promotion: Knight},
		{From: 9, To: 0, Promotion: Rook},
		{From: 14, To: 7, Promotion: Bishop},
	}

	for _, m := range moves {
		s := EncodeMove(m)
		got, ok := DecodeMove(s)
		if !ok {
			t.Errorf("DecodeMove(%q) returned none", s)
			continue
		}
		if got != m {
			t.Errorf("DecodeMove(EncodeMove(%+v)) = %+v", m, got)
		}
	}
}

func TestEncodeMove(t *testing.T) {
	if got := EncodeMove(Move{From: 12, To: 28}); got != "e2e4" {
		t.Errorf("EncodeMove = %q, want e2e4", got)
	}
	if got := EncodeMove(Move{From: 52, To: 60, Promotion: Queen}); got != "e7e8q" {
		t.Errorf("EncodeMove = %q, want e7e8q", got)
	}
}

func TestDecodeMalformedMoves(t *testing.T) {
	inputs := []string{
		"",
		"e2",
		"e2e",
		"e2e4qq",
		"e2e4e5e6e7",
		"z2e4",
		"e9e4",
		"e2e0",
		"e2e2",
		"0000",
		"e7e8k",
		"e2e4q",
		"E2E4",
		"\x00\x00\x00\x00",
		"ééé",
	}

	for _, s := range inputs {
		if m, ok := DecodeMove(s); ok {
			t.Errorf("DecodeMove(%q) = %+v, want none", s, m)
		}
	}
}

func TestPositionRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		"r3k2r/8/8/8/8/8/8/R3K2R b Kq - 12 40",
		"8/P7/8/8/8/8/8/k6K w - - 0 1",
		"4k3/8/8/8/8/8/8/4K3 b - - 99 120",
	}

	for _, fen := range fens {
		pos, err := DecodePosition(fen)
		if err != nil {
			t.Errorf("DecodePosition(%q): %v", fen, err)
			continue
		}

		if got := EncodePosition(pos); got != fen {
			t.Errorf("round trip mismatch:\n got %q\nwant %q", got, fen)
		}
	}
}

func TestDecodePositionDefaults(t *testing.T) {
	pos, err := DecodePosition("8/8/8/8/8/8/8/K6k w - -")
	if err != nil {
		t.Fatalf("DecodePosition: %v", err)
	}

	if pos.HalfMoves != 0 || pos.FullMoves != 1 {
		t.Errorf("counters = %d %d, want 0 1", pos.HalfMoves, pos.FullMoves)
	}
	if pos.EnPassant != NoSquare {
		t.Errorf("EnPassant = %v, want none", pos.EnPassant)
	}
	if pos.PieceAt(0) != 'K' || pos.PieceAt(7) != 'k' {
		t.Errorf("unexpected pieces %q %q", pos.PieceAt(0), pos.PieceAt(7))
	}
}

func TestDecodePositionErrors(t *testing.T) {
	fens := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkK - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e4 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0",
	}

	for _, fen := range fens {
		if _, err := DecodePosition(fen); err == nil {
			t.Errorf("DecodePosition(%q) succeeded, want error", fen)
		}
	}
}

func TestCastlingNormalized(t *testing.T) {
	pos, err := DecodePosition("r3k2r/8/8/8/8/8/8/R3K2R w qkQK - 0 1")
	if err != nil {
		t.Fatalf("DecodePosition: %v", err)
	}

	if pos.Castling != "KQkq" {
		t.Errorf("Castling = %q, want KQkq", pos.Castling)
	}
}

func TestRepetitionKeyIgnoresCounters(t *testing.T) {
	a, _ := DecodePosition("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	b, _ := DecodePosition("4k3/8/8/8/8/8/8/4K3 w - - 8 5")

	if a.RepetitionKey() != b.RepetitionKey() {
		t.Errorf("keys differ: %q vs %q", a.RepetitionKey(), b.RepetitionKey())
	}
}
