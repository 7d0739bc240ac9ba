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
	"fmt"
	"strings"

	"laptudirm.com/x/gambit/pkg/codec"
	"laptudirm.com/x/gambit/pkg/session"
)

// renderBoard draws pos from white's side, marking the squares of the
// last move.
func renderBoard(pos codec.Position, last codec.Move) string {
	var b strings.Builder

	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&b, " %d ", rank+1)
		for file := 0; file < 8; file++ {
			sq := codec.NewSquare(file, rank)

			piece := pos.PieceAt(sq)
			if piece == 0 {
				piece = '.'
			}

			switch {
			case sq == last.From || sq == last.To:
				fmt.Fprintf(&b, "\x1b[33m%c\x1b[0m ", piece)
			case piece >= 'a' && piece <= 'z':
				fmt.Fprintf(&b, "\x1b[34m%c\x1b[0m ", piece)
			default:
				fmt.Fprintf(&b, "%c ", piece)
			}
		}
		b.WriteByte('\n')
	}

	b.WriteString("   a b c d e f g h\n")
	return b.String()
}

// parseInput reads a move typed by the user: either a move-exchange
// string like e2e4 or e7e8n, or two squares separated by space.
func parseInput(s string) (codec.Move, bool) {
	fields := strings.Fields(strings.ToLower(s))
	switch len(fields) {
	case 1:
		return codec.DecodeMove(fields[0])
	case 2:
		return codec.DecodeMove(fields[0] + fields[1])
	default:
		return codec.NullMove, false
	}
}

// describeResult formats the result of a finished game.
func describeResult(s *session.Session) string {
	status := s.Status()
	if status == "" {
		status = "Game abandoned"
	}

	return fmt.Sprintf("%s (%s, %d plies)", status, s.Result().Outcome, len(s.Moves()))
}
