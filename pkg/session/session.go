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

// Package session implements a chess game session: the authoritative
// board, the players taking part and the coordination of automated sides
// with their native engines.
//
// A Session is driven by a single goroutine, usually a UI loop, which
// calls Tick regularly and feeds human input through AttemptMove.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/gambit/pkg/bridge"
	"laptudirm.com/x/gambit/pkg/codec"
	"laptudirm.com/x/gambit/pkg/fallback"
	"laptudirm.com/x/gambit/pkg/rules"
	"laptudirm.com/x/gambit/pkg/scheduler"
)

// DefaultTimeBudget is the search time advised to engines.
const DefaultTimeBudget = 2 * time.Second

// ErrState is returned when a session operation is not valid in the
// session's current state.
var ErrState = errors.New("session: invalid state")

// Engine is a native move source for one automated side.
type Engine interface {
	BestMove(pos codec.Position, budget time.Duration) (codec.Move, bool)
	Close() error
}

// Opener opens the Engine for an automated side.
type Opener func(side codec.Color) (Engine, error)

// BridgeOpener returns an Opener which loads the named native unit
// through the bridge, once per side.
func BridgeOpener(name string, options ...bridge.Option) Opener {
	return func(side codec.Color) (Engine, error) {
		opts := append([]bridge.Option{bridge.WithName(side.String())}, options...)

		h, err := bridge.Open(name, opts...)
		if err != nil {
			return nil, err
		}

		return h, nil
	}
}

// Option configures a Session.
type Option func(*Session)

// WithOpener sets the Opener used for automated sides.
func WithOpener(opener Opener) Option {
	return func(s *Session) { s.opener = opener }
}

// WithClock sets the clock used to pace automated moves.
func WithClock(clock scheduler.Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithThinkTime sets the minimum delay before an automated move.
func WithThinkTime(d time.Duration) Option {
	return func(s *Session) { s.thinkTime = d }
}

// WithTimeBudget sets the search time advised to engines.
func WithTimeBudget(d time.Duration) Option {
	return func(s *Session) { s.budget = d }
}

// WithFallback sets the selector used when an engine has no move.
func WithFallback(selector *fallback.Selector) Option {
	return func(s *Session) { s.fallback = selector }
}

// WithListener adds a listener for session events.
func WithListener(listener Listener) Option {
	return func(s *Session) { s.listeners = append(s.listeners, listener) }
}

// WithStartPosition sets the FEN games are started from.
func WithStartPosition(fen string) Option {
	return func(s *Session) { s.startFEN = fen }
}

// WithAsyncEngine makes engine searches run on a worker goroutine. Tick
// then polls for the result instead of blocking on the search.
func WithAsyncEngine() Option {
	return func(s *Session) { s.async = true }
}

// Session is a single chess game and the players taking part in it. It
// is not safe for concurrent use.
type Session struct {
	id  string
	log *logrus.Entry

	opener    Opener
	clock     scheduler.Clock
	thinkTime time.Duration
	budget    time.Duration
	fallback  *fallback.Selector
	listeners []Listener
	startFEN  string
	async     bool

	state State
	mode  Mode
	human codec.Color // human side of a human-vs-bot game

	board    *rules.Board
	result   rules.Result
	lastMove codec.Move
	moves    []codec.Move

	scheduler *scheduler.Scheduler

	// engines holds the open engine of each automated side. A side whose
	// engine failed to open is marked in failed and plays fallback moves
	// for the rest of the session.
	engines [codec.ColorN]Engine
	failed  [codec.ColorN]bool

	engineTime time.Duration // duration of the last engine search

	pending chan searchResult // result of the in-flight async search
	workers sync.WaitGroup

	closed bool
}

// New creates a Session in ModeSelect.
func New(options ...Option) (*Session, error) {
	s := &Session{
		opener:    BridgeOpener(bridge.LibraryName),
		clock:     scheduler.SystemClock{},
		thinkTime: scheduler.DefaultThreshold,
		budget:    DefaultTimeBudget,
		startFEN:  codec.StartFEN,
	}

	for _, option := range options {
		option(s)
	}

	if s.fallback == nil {
		s.fallback = fallback.New(nil)
	}

	s.scheduler = scheduler.New(s.thinkTime, s.clock)
	if err := s.reset(); err != nil {
		return nil, err
	}

	return s, nil
}

// reset starts a new game from the start position, in ModeSelect.
func (s *Session) reset() error {
	board, err := rules.New(s.startFEN)
	if err != nil {
		return fmt.Errorf("session: start position: %w", err)
	}

	s.id = uuid.NewString()
	s.log = logrus.WithField("session", s.id)

	s.state = ModeSelect
	s.mode = HumanVsHuman
	s.human = codec.White

	s.board = board
	s.result = board.GameResult()
	s.lastMove = codec.NullMove
	s.moves = nil

	s.failed = [codec.ColorN]bool{}
	s.engineTime = 0
	s.scheduler.Reset()

	return nil
}

// SelectMode chooses the game mode. Human-vs-bot games continue with
// side selection; other modes start the game immediately.
func (s *Session) SelectMode(mode Mode) error {
	if s.closed || s.state != ModeSelect {
		return fmt.Errorf("%w: cannot select mode in %s", ErrState, s.state)
	}

	switch mode {
	case HumanVsHuman, BotVsBot:
		s.mode = mode
		s.activate()
	case HumanVsBot:
		s.mode = mode
		s.state = SideSelect
	default:
		return fmt.Errorf("session: unknown mode %d", mode)
	}

	return nil
}

// SelectSide chooses the human's side in a human-vs-bot game and starts
// the game.
func (s *Session) SelectSide(side codec.Color) error {
	if s.closed || s.state != SideSelect {
		return fmt.Errorf("%w: cannot select side in %s", ErrState, s.state)
	}

	if side != codec.White && side != codec.Black {
		return fmt.Errorf("session: unknown side %d", side)
	}

	s.human = side
	s.activate()
	return nil
}

// activate starts the game, opening an engine for every automated side.
func (s *Session) activate() {
	s.state = Active

	fields := logrus.Fields{"mode": s.mode}
	if s.mode == HumanVsBot {
		fields["human"] = s.human
	}
	s.log.WithFields(fields).Info("Starting game")

	for _, side := range []codec.Color{codec.White, codec.Black} {
		if !s.automated(side) {
			continue
		}

		engine, err := s.opener(side)
		if err != nil || engine == nil {
			// reported once, the side never touches an engine again
			s.failed[side] = true
			s.log.WithError(err).WithField("side", side).
				Warn("Engine unavailable, playing fallback moves")
			continue
		}

		s.engines[side] = engine
	}

	s.scheduler.Reset()
	if s.result.Over() {
		s.finish()
	}
}

// automated reports whether side is played by the computer.
func (s *Session) automated(side codec.Color) bool {
	switch s.mode {
	case BotVsBot:
		return true
	case HumanVsBot:
		return side != s.human
	default:
		return false
	}
}

// Restart abandons the current game, releasing its engines, and returns
// the session to ModeSelect.
func (s *Session) Restart() error {
	if s.closed {
		return fmt.Errorf("%w: session is closed", ErrState)
	}

	s.closeEngines()
	return s.reset()
}

// Close releases every engine held by the session. An outstanding async
// search is waited for first. Close may be called more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true
	return s.closeEngines()
}

// closeEngines waits for any in-flight search, then closes every open
// engine exactly once.
func (s *Session) closeEngines() error {
	s.workers.Wait()
	s.pending = nil

	var errs []error
	for side, engine := range s.engines {
		if engine == nil {
			continue
		}

		s.engines[side] = nil
		if err := engine.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Wait blocks until the in-flight async search, if any, has completed.
// Its result is applied by the next Tick.
func (s *Session) Wait() {
	s.workers.Wait()
}

// ID returns the identifier of the current game.
func (s *Session) ID() string { return s.id }

// State returns the lifecycle state of the session.
func (s *Session) State() State { return s.state }

// Mode returns the selected game mode.
func (s *Session) Mode() Mode { return s.mode }

// Human returns the human side of a human-vs-bot game.
func (s *Session) Human() codec.Color { return s.human }

// Position returns the current position.
func (s *Session) Position() codec.Position { return s.board.Position() }

// FEN returns the current position as a FEN string.
func (s *Session) FEN() string { return s.board.FEN() }

// Turn returns the side to move.
func (s *Session) Turn() codec.Color { return s.board.SideToMove() }

// InCheck reports whether the side to move is in check.
func (s *Session) InCheck() bool { return s.board.InCheck() }

// KingSquare returns the square of the king of the side to move, which a
// UI highlights when it is in check.
func (s *Session) KingSquare() codec.Square { return s.board.KingSquare() }

// Result returns the result of the game, Ongoing until it is over.
func (s *Session) Result() rules.Result { return s.result }

// LastMove returns the last move played, if any.
func (s *Session) LastMove() (codec.Move, bool) {
	return s.lastMove, s.lastMove != codec.NullMove
}

// Moves returns the moves played so far.
func (s *Session) Moves() []codec.Move {
	return append([]codec.Move(nil), s.moves...)
}

// EngineTime returns the duration of the last engine search, or zero if
// the last automated move did not come from an engine.
func (s *Session) EngineTime() time.Duration { return s.engineTime }

// HasEngine reports whether side is played by an open engine.
func (s *Session) HasEngine(side codec.Color) bool { return s.engines[side] != nil }

// EngineFailed reports whether opening the engine of side failed.
func (s *Session) EngineFailed(side codec.Color) bool { return s.failed[side] }

// IsAutomated reports whether side is played by the computer.
func (s *Session) IsAutomated(side codec.Color) bool {
	return s.state >= Active && s.automated(side)
}

// IsHumanTurn reports whether the side to move is played by a human.
func (s *Session) IsHumanTurn() bool {
	return s.state == Active && !s.automated(s.board.SideToMove())
}

// Status returns a short description of the game state for display:
// the result once the game is over, "Check!" if the side to move is in
// check, and the empty string otherwise.
func (s *Session) Status() string {
	if s.result.Over() {
		switch s.result.Outcome {
		case rules.Checkmate:
			return fmt.Sprintf("Checkmate! %s wins!", s.result.Winner)
		case rules.Stalemate:
			return "Stalemate! Draw!"
		case rules.InsufficientMaterial:
			return "Insufficient material! Draw!"
		default:
			return "Game over! Draw!"
		}
	}

	if s.board.InCheck() {
		return "Check!"
	}

	return ""
}

// LegalTargets returns the target squares of the legal moves of the
// piece on from, each marked as a capture or a normal move.
func (s *Session) LegalTargets(from codec.Square) map[codec.Square]TargetKind {
	targets := make(map[codec.Square]TargetKind)
	if s.state != Active {
		return targets
	}

	for _, m := range s.board.LegalMoves() {
		if m.From != from {
			continue
		}

		if s.board.IsCapture(m) {
			targets[m.To] = CaptureTarget
		} else {
			targets[m.To] = NormalTarget
		}
	}

	return targets
}
