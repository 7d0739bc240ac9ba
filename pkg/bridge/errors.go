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
	"errors"
	"fmt"
	"strings"
)

// Kind classifies the failures of the engine bridge.
type Kind uint8

const (
	// LibraryNotFound means no file matching the library name was found
	// in any of the searched locations.
	LibraryNotFound Kind = iota + 1

	// LoadFailed means the dynamic loader rejected the library, or a
	// required symbol is missing from it.
	LoadFailed

	// InitializationFailed means the library loaded but its initializer
	// faulted.
	InitializationFailed

	// InvalidMoveString means the native unit produced a move which could
	// not be decoded or is not legal in the queried position.
	InvalidMoveString

	// NativeCallFailed means a call into the native unit faulted, or the
	// handle was used after being closed.
	NativeCallFailed
)

func (kind Kind) String() string {
	switch kind {
	case LibraryNotFound:
		return "library not found"
	case LoadFailed:
		return "load failed"
	case InitializationFailed:
		return "initialization failed"
	case InvalidMoveString:
		return "invalid move string"
	case NativeCallFailed:
		return "native call failed"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by the bridge. It carries the path of
// the library involved and the underlying diagnostic.
type Error struct {
	Kind Kind
	Op   string // operation being performed, like "open" or "get_best_move"

	// Path is the library path involved. Tried lists every path attempted
	// when resolving a library which could not be found.
	Path  string
	Tried []string

	Err error
}

func (err *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "bridge: %s: %s", err.Op, err.Kind)

	if err.Path != "" {
		fmt.Fprintf(&b, " (%s)", err.Path)
	}
	if len(err.Tried) > 0 {
		fmt.Fprintf(&b, " [tried %s]", strings.Join(err.Tried, ", "))
	}
	if err.Err != nil {
		fmt.Fprintf(&b, ": %v", err.Err)
	}

	return b.String()
}

func (err *Error) Unwrap() error {
	return err.Err
}

// Is makes errors.Is(err, &Error{Kind: k}) match any bridge error of that
// kind.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == err.Kind && t.Op == "" && t.Err == nil
}

// Sentinels for errors.Is matching by kind.
var (
	ErrLibraryNotFound      = &Error{Kind: LibraryNotFound}
	ErrLoadFailed           = &Error{Kind: LoadFailed}
	ErrInitializationFailed = &Error{Kind: InitializationFailed}
	ErrInvalidMoveString    = &Error{Kind: InvalidMoveString}
	ErrNativeCallFailed     = &Error{Kind: NativeCallFailed}
)

var (
	ErrClosed      = errors.New("handle is closed")
	ErrNoMove      = errors.New("engine returned no move")
	ErrTruncated   = errors.New("native string exceeds exchange buffer")
	ErrUnsupported = errors.New("symbol not exported by library")
)

// KindOf returns the Kind of a bridge error, or 0 if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return 0
}
