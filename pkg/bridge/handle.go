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

package bridge

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/gambit/pkg/codec"
	"laptudirm.com/x/gambit/pkg/rules"
)

// Capacities of the exchange buffers handed to the native unit.
const (
	DefaultMoveBuffer = 16
	DefaultFENBuffer  = 128
)

// DefaultLoader is the loader used by Open when none is given.
var DefaultLoader = NewLoader()

// Validator checks moves produced by a native unit before they are
// returned to the caller.
type Validator interface {
	IsLegal(pos codec.Position, m codec.Move) bool
}

// Handle owns exactly one native engine unit instance. The instance is
// created by Open and destroyed by the first call to Close; any query
// made after Close fails without calling into the native unit.
//
// A Handle must not be copied. It is safe for concurrent use, but calls
// are serialized: Close waits for an in-flight query to complete.
type Handle struct {
	name      string
	loader    Loader
	validator Validator

	moveBuffer int
	fenBuffer  int

	mu     sync.Mutex
	unit   *Unit
	closed bool

	log *logrus.Entry
}

// Option configures a Handle.
type Option func(*Handle)

// WithLoader sets the Loader used to load the native unit.
func WithLoader(loader Loader) Option {
	return func(h *Handle) { h.loader = loader }
}

// WithValidator sets the Validator used to re-check native moves.
func WithValidator(validator Validator) Option {
	return func(h *Handle) { h.validator = validator }
}

// WithBufferSizes sets the capacities of the move and position exchange
// buffers. Non-positive values keep the defaults.
func WithBufferSizes(move, fen int) Option {
	return func(h *Handle) {
		if move > 0 {
			h.moveBuffer = move
		}
		if fen > 0 {
			h.fenBuffer = fen
		}
	}
}

// WithName sets the name the Handle uses in its log entries.
func WithName(name string) Option {
	return func(h *Handle) { h.name = name }
}

// Open loads the native unit with the given logical name or path and
// initializes it. Failures are returned as *Error with Kind
// LibraryNotFound, LoadFailed or InitializationFailed. Open never panics
// and never retries.
func Open(name string, options ...Option) (handle *Handle, err error) {
	h := &Handle{
		name:       "engine",
		loader:     DefaultLoader,
		validator:  rules.Oracle{},
		moveBuffer: DefaultMoveBuffer,
		fenBuffer:  DefaultFENBuffer,
	}

	for _, option := range options {
		option(h)
	}

	h.log = logrus.WithField("engine", h.name)

	defer func() {
		if r := recover(); r != nil {
			handle = nil
			err = &Error{Kind: LoadFailed, Op: "open", Path: name, Err: fmt.Errorf("%v", r)}
		}
	}()

	unit, err := h.loader.Load(name)
	if err != nil {
		return nil, err
	}

	if err := guard(unit.Create); err != nil {
		_ = unit.Unload()
		return nil, &Error{Kind: InitializationFailed, Op: SymCreate, Path: unit.Path, Err: err}
	}

	h.unit = unit
	h.logger().WithField("path", unit.Path).Info("Loaded native engine")
	return h, nil
}

// guard runs fn and converts a panic raised by it into an error.
func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("native fault: %v", r)
		}
	}()

	fn()
	return nil
}

// call runs fn against the native unit under the handle's lock.
func (h *Handle) call(op string, fn func(unit *Unit)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || h.unit == nil {
		return &Error{Kind: NativeCallFailed, Op: op, Err: ErrClosed}
	}

	unit := h.unit
	if err := guard(func() { fn(unit) }); err != nil {
		return &Error{Kind: NativeCallFailed, Op: op, Path: unit.Path, Err: err}
	}

	return nil
}

func (h *Handle) logger() *logrus.Entry {
	if h.log == nil {
		h.log = logrus.WithField("engine", h.name)
	}

	return h.log
}

// readString reads the NUL-terminated string written by the native unit
// into buf. A string which fills the buffer is treated as truncated.
func readString(buf []byte) (string, error) {
	n := bytes.IndexByte(buf, 0)
	if n < 0 || n >= len(buf)-1 {
		return "", ErrTruncated
	}

	return string(buf[:n]), nil
}

// Path returns the path of the loaded library, or "" once closed.
func (h *Handle) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.unit == nil {
		return ""
	}

	return h.unit.Path
}

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// SetPosition sends pos to the native unit. It does not report failures:
// a broken unit surfaces on the next query instead.
func (h *Handle) SetPosition(pos codec.Position) {
	fen := codec.EncodePosition(pos)
	h.logger().Debugf("(engine)< %s %s", SymSetPos, fen)

	if err := h.call(SymSetPos, func(unit *Unit) { unit.SetPosition(fen) }); err != nil {
		h.logger().WithError(err).Debug("set_position failed")
	}
}

// Search asks the native unit for its best move in pos. The move is
// decoded and checked against the rules for pos before being returned.
// The time budget is advisory, as the native unit decides how long it
// searches; overruns are logged.
func (h *Handle) Search(pos codec.Position, budget time.Duration) (codec.Move, error) {
	fen := codec.EncodePosition(pos)
	buf := make([]byte, h.moveBuffer)

	start := time.Now()
	err := h.call(SymBestMove, func(unit *Unit) {
		unit.SetPosition(fen)
		unit.BestMove(buf, int32(len(buf)))
	})
	elapsed := time.Since(start)

	if err != nil {
		return codec.NullMove, err
	}

	if budget > 0 && elapsed > budget {
		h.logger().WithFields(logrus.Fields{
			"budget":  budget,
			"elapsed": elapsed,
		}).Warn("Engine exceeded its time budget")
	}

	str, err := readString(buf)
	if err != nil {
		return codec.NullMove, &Error{Kind: InvalidMoveString, Op: SymBestMove, Err: err}
	}

	h.logger().Debugf("(engine)> %s %q (%v)", SymBestMove, str, elapsed)

	if str == "" {
		return codec.NullMove, &Error{Kind: InvalidMoveString, Op: SymBestMove, Err: ErrNoMove}
	}

	m, ok := codec.DecodeMove(str)
	if !ok {
		return codec.NullMove, &Error{
			Kind: InvalidMoveString, Op: SymBestMove,
			Err: fmt.Errorf("malformed move %q", str),
		}
	}

	if !h.validator.IsLegal(pos, m) {
		return codec.NullMove, &Error{
			Kind: InvalidMoveString, Op: SymBestMove,
			Err: fmt.Errorf("illegal move %s in %s", m, fen),
		}
	}

	return m, nil
}

// BestMove is like Search, but reports every failure as no move. Callers
// are expected to fall back to another move source.
func (h *Handle) BestMove(pos codec.Position, budget time.Duration) (codec.Move, bool) {
	m, err := h.Search(pos, budget)
	if err != nil {
		h.logger().WithError(err).Warn("Engine produced no usable move")
		return codec.NullMove, false
	}

	return m, true
}

// Evaluate returns the native unit's static evaluation of pos. It is
// informational only; false is returned on any failure.
func (h *Handle) Evaluate(pos codec.Position) (int, bool) {
	fen := codec.EncodePosition(pos)

	var score int32
	supported := true
	err := h.call(SymEvaluation, func(unit *Unit) {
		if unit.Evaluation == nil {
			supported = false
			return
		}

		unit.SetPosition(fen)
		score = unit.Evaluation()
	})

	if err != nil || !supported {
		return 0, false
	}

	return int(score), true
}

// queryBool runs an optional boolean query against pos.
func (h *Handle) queryBool(op string, pos codec.Position, pick func(*Unit) func() bool) (bool, bool) {
	fen := codec.EncodePosition(pos)

	var result, supported bool
	err := h.call(op, func(unit *Unit) {
		query := pick(unit)
		if query == nil {
			return
		}

		supported = true
		unit.SetPosition(fen)
		result = query()
	})

	return result, err == nil && supported
}

// InCheck asks the native unit whether the side to move in pos is in check.
func (h *Handle) InCheck(pos codec.Position) (bool, bool) {
	return h.queryBool(SymInCheck, pos, func(unit *Unit) func() bool { return unit.IsInCheck })
}

// IsTerminal asks the native unit whether pos ends the game.
func (h *Handle) IsTerminal(pos codec.Position) (bool, bool) {
	return h.queryBool(SymGameOver, pos, func(unit *Unit) func() bool { return unit.IsGameOver })
}

// SideToMove asks the native unit whose turn it is in pos.
func (h *Handle) SideToMove(pos codec.Position) (codec.Color, bool) {
	white, ok := h.queryBool(SymSideToMove, pos, func(unit *Unit) func() bool { return unit.SideToMove })
	if !ok {
		return codec.White, false
	}

	if white {
		return codec.White, true
	}

	return codec.Black, true
}

// Position reads back the position held by the native unit.
func (h *Handle) Position() (codec.Position, bool) {
	buf := make([]byte, h.fenBuffer)

	supported := true
	err := h.call(SymGetFEN, func(unit *Unit) {
		if unit.GetFEN == nil {
			supported = false
			return
		}

		unit.GetFEN(buf, int32(len(buf)))
	})
	if err != nil || !supported {
		return codec.Position{}, false
	}

	str, err := readString(buf)
	if err != nil {
		return codec.Position{}, false
	}

	pos, err := codec.DecodePosition(str)
	return pos, err == nil
}

// ApplyMove plays m on the native unit's internal board, if the unit
// supports it. The result is the unit's acceptance of the move.
func (h *Handle) ApplyMove(m codec.Move) bool {
	str := codec.EncodeMove(m)

	var accepted bool
	err := h.call(SymMakeMove, func(unit *Unit) {
		if unit.MakeMove != nil {
			accepted = unit.MakeMove(str)
		}
	})

	return err == nil && accepted
}

// Close destroys the native unit and releases the library. It is safe
// to call Close more than once, and on a nil Handle; only the first call
// reaches the native unit.
func (h *Handle) Close() error {
	if h == nil {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	unit := h.unit
	h.unit = nil
	if unit == nil {
		return nil
	}

	destroyErr := guard(unit.Destroy)

	var unloadErr error
	if unit.Unload != nil {
		unloadErr = unit.Unload()
	}

	h.logger().WithField("path", unit.Path).Debug("Closed native engine")

	if err := errors.Join(destroyErr, unloadErr); err != nil {
		return &Error{Kind: NativeCallFailed, Op: SymDestroy, Path: unit.Path, Err: err}
	}

	return nil
}
