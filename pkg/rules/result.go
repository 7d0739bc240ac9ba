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

package rules

import "laptudirm.com/x/gambit/pkg/codec"

// Outcome is the state of a game as seen by the rules.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Checkmate
	Stalemate
	InsufficientMaterial
	SeventyFiveMoveRule
	FivefoldRepetition
)

func (outcome Outcome) String() string {
	switch outcome {
	case Ongoing:
		return "Ongoing"
	case Checkmate:
		return "Checkmate"
	case Stalemate:
		return "Stalemate"
	case InsufficientMaterial:
		return "Insufficient Material"
	case SeventyFiveMoveRule:
		return "75-move Rule"
	case FivefoldRepetition:
		return "Fivefold Repetition"
	default:
		return "Unknown"
	}
}

// Result is a terminal-condition check on a position.
type Result struct {
	Outcome Outcome

	// Winner is only meaningful when Outcome is Checkmate.
	Winner codec.Color
}

// Over reports whether the game has ended.
func (result Result) Over() bool {
	return result.Outcome != Ongoing
}

// Draw reports whether the game ended without a winner.
func (result Result) Draw() bool {
	return result.Over() && result.Outcome != Checkmate
}

// GameResult checks the current position for the terminal conditions in
// order: checkmate, stalemate, insufficient material, the 75-move rule and
// fivefold repetition.
func (b *Board) GameResult() Result {
	switch {
	case len(b.moves) == 0:
		if b.InCheck() {
			return Result{Outcome: Checkmate, Winner: b.position.SideToMove.Other()}
		}

		return Result{Outcome: Stalemate}

	case b.board.IsInsufficientMaterial():
		return Result{Outcome: InsufficientMaterial}
	case b.board.DrawClock >= SeventyFiveMoveLimit:
		return Result{Outcome: SeventyFiveMoveRule}
	case b.Repetitions() >= FivefoldLimit:
		return Result{Outcome: FivefoldRepetition}
	}

	return Result{Outcome: Ongoing}
}
