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

package cmd

import (
	"strings"
	"testing"

	"laptudirm.com/x/gambit/pkg/codec"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"e2e4", "e2e4", true},
		{"  E2E4 ", "e2e4", true},
		{"e2 e4", "e2e4", true},
		{"e7e8q", "e7e8q", true},
		{"e2", "", false},
		{"e2 e4 e5", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		m, ok := parseInput(tt.input)
		if ok != tt.ok || (ok && m.String() != tt.want) {
			t.Errorf("parseInput(%q) = %v, %v; want %s, %v", tt.input, m, ok, tt.want, tt.ok)
		}
	}
}

func TestRenderBoard(t *testing.T) {
	board := renderBoard(codec.StartPosition(), codec.NullMove)
	lines := strings.Split(strings.TrimSuffix(board, "\n"), "\n")

	if len(lines) != 9 {
		t.Fatalf("%d lines rendered, want 9", len(lines))
	}
	if !strings.HasPrefix(lines[0], " 8 ") || !strings.HasPrefix(lines[7], " 1 R N B Q K B N R") {
		t.Errorf("unexpected board:\n%s", board)
	}
}

func TestFormatMoves(t *testing.T) {
	moves := []codec.Move{{From: 12, To: 28}, {From: 52, To: 36}, {From: 6, To: 21}}
	if got := formatMoves(moves); got != "1. e2e4 e7e5 2. g1f3" {
		t.Errorf("formatMoves = %q", got)
	}
}
