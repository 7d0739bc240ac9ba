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

// Package bridge loads native chess engine units and exposes them through
// an owned Handle with a result-bearing API. Faults inside the native unit
// are converted into bridge errors instead of crashing the caller.
package bridge

// Symbols exported by a native engine unit.
const (
	SymCreate     = "create_engine"
	SymDestroy    = "destroy_engine"
	SymSetPos     = "set_position"
	SymBestMove   = "get_best_move"
	SymMakeMove   = "make_move"
	SymGetFEN     = "get_fen"
	SymGameOver   = "is_game_over"
	SymInCheck    = "is_in_check"
	SymSideToMove = "get_side_to_move"
	SymEvaluation = "get_evaluation"
)

// LibraryName is the logical name of the reference native unit.
const LibraryName = "chess_engine_wrapper"

// Unit is the set of native functions exported by an engine unit. The
// required functions are always set on a loaded Unit; optional ones are
// nil if the library does not export them.
type Unit struct {
	// Path is the file the unit was loaded from.
	Path string

	// required
	Create      func()
	Destroy     func()
	SetPosition func(fen string)
	BestMove    func(buf []byte, capacity int32)

	// optional
	MakeMove   func(move string) bool
	GetFEN     func(buf []byte, capacity int32)
	IsGameOver func() bool
	IsInCheck  func() bool
	SideToMove func() bool
	Evaluation func() int32

	// Unload releases the library. It is called exactly once, after
	// Destroy, by the Handle owning the unit.
	Unload func() error
}

// binding associates a symbol name with the Unit field it is bound to.
type binding struct {
	name     string
	fn       any
	required bool
}

func (unit *Unit) bindings() []binding {
	return []binding{
		{SymCreate, &unit.Create, true},
		{SymDestroy, &unit.Destroy, true},
		{SymSetPos, &unit.SetPosition, true},
		{SymBestMove, &unit.BestMove, true},

		{SymMakeMove, &unit.MakeMove, false},
		{SymGetFEN, &unit.GetFEN, false},
		{SymGameOver, &unit.IsGameOver, false},
		{SymInCheck, &unit.IsInCheck, false},
		{SymSideToMove, &unit.SideToMove, false},
		{SymEvaluation, &unit.Evaluation, false},
	}
}

// Loader is the capability to resolve a dynamic engine unit by logical
// name and load it. Implementations differ per host OS, but all either
// return a ready Unit or a bridge *Error describing the failure.
type Loader interface {
	Load(name string) (*Unit, error)
}
