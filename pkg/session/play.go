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

package session

import (
	"time"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/gambit/pkg/codec"
	"laptudirm.com/x/gambit/pkg/rules"
)

// searchResult is the outcome of an engine search.
type searchResult struct {
	side codec.Color
	move codec.Move
	ok   bool
	took time.Duration
}

// AttemptMove plays the move from->to for the human side to move. A pawn
// moved to its last rank is promoted to a queen. It reports whether the
// move was played; false simply means the square pair is not a legal
// move right now.
func (s *Session) AttemptMove(from, to codec.Square) bool {
	m := codec.Move{From: from, To: to}
	if !s.board.IsLegal(m) {
		m.Promotion = codec.Queen
	}

	return s.Play(m)
}

// Play plays m for the human side to move, with an explicit promotion.
func (s *Session) Play(m codec.Move) bool {
	if s.closed || !s.IsHumanTurn() || s.pending != nil {
		return false
	}

	return s.apply(m)
}

// Tick drives automated play. It must be called regularly while the
// game is active; when an automated side is due and its think time has
// passed, its move is requested and applied.
func (s *Session) Tick() {
	if s.closed || s.state != Active {
		return
	}

	if s.pending != nil {
		s.poll()
		return
	}

	side := s.board.SideToMove()
	if !s.scheduler.Tick(s.automated(side), s.result.Over()) {
		return
	}

	if s.async && s.engines[side] != nil {
		s.startSearch(side)
		return
	}

	s.RequestAutomatedMove()
}

// RequestAutomatedMove obtains a move for the automated side to move and
// applies it. The side's engine is asked first; if it has none, or has no
// usable move, a random legal move is played instead. It is driven by
// Tick and reports whether a move was applied.
func (s *Session) RequestAutomatedMove() bool {
	if s.closed || s.state != Active || s.pending != nil {
		return false
	}

	side := s.board.SideToMove()
	if !s.automated(side) {
		return false
	}

	return s.complete(s.search(side))
}

// search asks the engine of side for a move in the current position.
func (s *Session) search(side codec.Color) searchResult {
	engine := s.engines[side]
	if engine == nil {
		return searchResult{side: side}
	}

	start := time.Now()
	m, ok := engine.BestMove(s.board.Position(), s.budget)
	return searchResult{side: side, move: m, ok: ok, took: time.Since(start)}
}

// startSearch runs the engine search of side on a worker goroutine. The
// board is not changed while the search is in flight.
func (s *Session) startSearch(side codec.Color) {
	engine := s.engines[side]
	pos := s.board.Position()
	budget := s.budget

	results := make(chan searchResult, 1)
	s.pending = results

	s.workers.Add(1)
	go func() {
		defer s.workers.Done()

		start := time.Now()
		m, ok := engine.BestMove(pos, budget)
		results <- searchResult{side: side, move: m, ok: ok, took: time.Since(start)}
	}()
}

// poll applies the result of the in-flight search if it is ready.
func (s *Session) poll() {
	select {
	case result := <-s.pending:
		s.pending = nil
		s.complete(result)
	default:
	}
}

// complete applies the move of a finished search, falling back to a
// random legal move if the search produced none.
func (s *Session) complete(result searchResult) bool {
	log := s.log.WithField("side", result.side)

	s.engineTime = result.took
	m := result.move

	if s.engines[result.side] != nil {
		log.WithField("took", result.took).Debug("Engine search complete")
	}

	if !result.ok || !s.board.IsLegal(m) {
		if s.engines[result.side] != nil {
			log.WithField("move", m).Warn("Engine returned no usable move, falling back")
		}

		var found bool
		if m, found = s.fallback.PickMove(s.board.Position(), s.board.LegalMoves()); !found {
			// unreachable while the game is ongoing
			log.Error("No legal move to fall back on")
			s.scheduler.Applied(s.result.Over())
			return false
		}
	}

	applied := s.apply(m)
	s.scheduler.Applied(s.result.Over())
	return applied
}

// apply plays a legal move on the board, checks for the end of the game
// and emits events.
func (s *Session) apply(m codec.Move) bool {
	side := s.board.SideToMove()
	capture := s.board.IsCapture(m)

	if err := s.board.MakeMove(m); err != nil {
		return false
	}

	s.lastMove = m
	s.moves = append(s.moves, m)
	s.result = s.board.GameResult()

	s.log.WithFields(logrus.Fields{
		"side": side,
		"move": m,
	}).Debug("Played move")

	kind := MoveEvent
	if capture {
		kind = CaptureEvent
	}
	s.emit(Event{Kind: kind, Move: m, Side: side})

	if s.board.InCheck() {
		s.emit(Event{Kind: CheckEvent, Move: m, Side: side})
	}

	if s.result.Over() {
		s.finish()
		s.emit(Event{Kind: GameOverEvent, Move: m, Side: side, Result: s.result})
	}

	return true
}

// finish ends the game.
func (s *Session) finish() {
	s.state = Over
	s.scheduler.Applied(true)

	fields := logrus.Fields{
		"result": s.result.Outcome,
		"moves":  len(s.moves),
	}
	if s.result.Outcome == rules.Checkmate {
		fields["winner"] = s.result.Winner
	}

	s.log.WithFields(fields).Info("Game over")
}

func (s *Session) emit(event Event) {
	for _, listener := range s.listeners {
		listener(event)
	}
}
