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
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"laptudirm.com/x/gambit/pkg/codec"
)

// fakeEngine imitates a native unit through the Unit function table.
type fakeEngine struct {
	reply    string // written by get_best_move
	fen      string // last position received
	eval     int32
	creates  int
	destroys int
	unloads  int
	searches int

	panicCreate bool
	panicSearch bool
	noEval      bool
}

func (engine *fakeEngine) unit() *Unit {
	unit := &Unit{
		Path: "fake" + LibrarySuffix(),

		Create: func() {
			if engine.panicCreate {
				panic("segfault in create_engine")
			}
			engine.creates++
		},
		Destroy: func() { engine.destroys++ },
		SetPosition: func(fen string) {
			engine.fen = fen
		},
		BestMove: func(buf []byte, capacity int32) {
			engine.searches++
			if engine.panicSearch {
				panic("segfault in get_best_move")
			}
			// strncpy(result, move, max_length - 1)
			n := copy(buf[:capacity-1], engine.reply)
			buf[n] = 0
		},
		GetFEN: func(buf []byte, capacity int32) {
			n := copy(buf[:capacity-1], engine.fen)
			buf[n] = 0
		},
		IsInCheck: func() bool { return strings.Contains(engine.fen, " b ") },
		Unload: func() error {
			engine.unloads++
			return nil
		},
	}

	if !engine.noEval {
		unit.Evaluation = func() int32 { return engine.eval }
	}

	return unit
}

type fakeLoader struct {
	engine *fakeEngine
	err    error
	loads  int
}

func (loader *fakeLoader) Load(name string) (*Unit, error) {
	loader.loads++
	if loader.err != nil {
		return nil, loader.err
	}

	return loader.engine.unit(), nil
}

func openFake(t *testing.T, engine *fakeEngine) *Handle {
	t.Helper()

	h, err := Open(LibraryName, WithLoader(&fakeLoader{engine: engine}), WithName(t.Name()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	return h
}

func TestOpenCreatesOnce(t *testing.T) {
	engine := &fakeEngine{}
	h := openFake(t, engine)

	if engine.creates != 1 {
		t.Errorf("create_engine called %d times, want 1", engine.creates)
	}
	if h.Path() == "" {
		t.Errorf("Path empty on an open handle")
	}

	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	engine := &fakeEngine{}
	h := openFake(t, engine)

	for i := 0; i < 3; i++ {
		if err := h.Close(); err != nil {
			t.Fatalf("Close #%d: %v", i+1, err)
		}
	}

	if engine.destroys != 1 || engine.unloads != 1 {
		t.Errorf("destroys = %d, unloads = %d; want 1, 1", engine.destroys, engine.unloads)
	}
	if !h.Closed() {
		t.Errorf("Closed() = false after Close")
	}
}

func TestCloseNeverOpened(t *testing.T) {
	var nilHandle *Handle
	if err := nilHandle.Close(); err != nil {
		t.Errorf("nil Handle Close: %v", err)
	}

	var zero Handle
	if err := zero.Close(); err != nil {
		t.Errorf("zero Handle Close: %v", err)
	}
	if err := zero.Close(); err != nil {
		t.Errorf("zero Handle second Close: %v", err)
	}
}

func TestQueriesAfterClose(t *testing.T) {
	engine := &fakeEngine{reply: "e2e4"}
	h := openFake(t, engine)
	_ = h.Close()

	_, err := h.Search(codec.StartPosition(), 0)
	if !errors.Is(err, ErrNativeCallFailed) || !errors.Is(err, ErrClosed) {
		t.Errorf("Search after Close = %v, want closed handle error", err)
	}

	h.SetPosition(codec.StartPosition())
	if _, ok := h.Evaluate(codec.StartPosition()); ok {
		t.Errorf("Evaluate succeeded after Close")
	}

	if engine.searches != 0 || engine.fen != "" {
		t.Errorf("native unit called after Close")
	}
}

func TestOpenMissingLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "chess_engine_wrapper"+LibrarySuffix())

	h, err := Open(path, WithLoader(NewLoader()))
	if h != nil {
		t.Errorf("Open returned a handle for a missing library")
	}
	if !errors.Is(err, ErrLibraryNotFound) {
		t.Fatalf("Open = %v, want LibraryNotFound", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not mention the attempted path", err)
	}

	// closing what Open returned must still be harmless
	if err := h.Close(); err != nil {
		t.Errorf("Close on failed Open: %v", err)
	}
}

func TestOpenLoaderError(t *testing.T) {
	want := &Error{Kind: LoadFailed, Op: "open", Path: "x", Err: errors.New("bad ELF header")}
	_, err := Open("x", WithLoader(&fakeLoader{err: want}))

	if !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("Open = %v, want LoadFailed", err)
	}
	if KindOf(err) != LoadFailed {
		t.Errorf("KindOf = %v, want LoadFailed", KindOf(err))
	}
}

func TestOpenInitializationFault(t *testing.T) {
	engine := &fakeEngine{panicCreate: true}
	_, err := Open(LibraryName, WithLoader(&fakeLoader{engine: engine}))

	if !errors.Is(err, ErrInitializationFailed) {
		t.Fatalf("Open = %v, want InitializationFailed", err)
	}
	if engine.unloads != 1 {
		t.Errorf("library unloaded %d times after failed init, want 1", engine.unloads)
	}
	if engine.destroys != 0 {
		t.Errorf("destroy_engine called on a unit that was never created")
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
		kind  Kind
		cause error
	}{
		{name: "Legal", reply: "e2e4", want: "e2e4"},
		{name: "Empty", reply: "", kind: InvalidMoveString, cause: ErrNoMove},
		{name: "Garbage", reply: "xyzzy", kind: InvalidMoveString},
		{name: "Illegal", reply: "e2e5", kind: InvalidMoveString},
		{name: "Truncated", reply: "e2e4e5e6e7e8f1f2f3", kind: InvalidMoveString, cause: ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := openFake(t, &fakeEngine{reply: tt.reply})
			defer h.Close()

			m, err := h.Search(codec.StartPosition(), time.Second)
			if tt.kind == 0 {
				if err != nil {
					t.Fatalf("Search: %v", err)
				}
				if m.String() != tt.want {
					t.Errorf("Search = %s, want %s", m, tt.want)
				}
				return
			}

			if KindOf(err) != tt.kind {
				t.Fatalf("Search error = %v, want kind %v", err, tt.kind)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("Search error = %v, want cause %v", err, tt.cause)
			}
			if _, ok := h.BestMove(codec.StartPosition(), time.Second); ok {
				t.Errorf("BestMove reported a move for reply %q", tt.reply)
			}
		})
	}
}

func TestSearchSendsPosition(t *testing.T) {
	engine := &fakeEngine{reply: "e7e5"}
	h := openFake(t, engine)
	defer h.Close()

	pos, _ := codec.DecodePosition("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	if _, ok := h.BestMove(pos, 0); !ok {
		t.Fatalf("BestMove failed")
	}

	if engine.fen != codec.EncodePosition(pos) {
		t.Errorf("engine received %q, want %q", engine.fen, codec.EncodePosition(pos))
	}
}

func TestSearchNativeFault(t *testing.T) {
	h := openFake(t, &fakeEngine{panicSearch: true})
	defer h.Close()

	_, err := h.Search(codec.StartPosition(), 0)
	if !errors.Is(err, ErrNativeCallFailed) {
		t.Fatalf("Search = %v, want NativeCallFailed", err)
	}

	if _, ok := h.BestMove(codec.StartPosition(), 0); ok {
		t.Errorf("BestMove reported a move after a native fault")
	}
}

func TestInformationalQueries(t *testing.T) {
	engine := &fakeEngine{eval: 35}
	h := openFake(t, engine)
	defer h.Close()

	if score, ok := h.Evaluate(codec.StartPosition()); !ok || score != 35 {
		t.Errorf("Evaluate = %d, %v; want 35, true", score, ok)
	}

	pos, ok := h.Position()
	if !ok || codec.EncodePosition(pos) != codec.StartFEN {
		t.Errorf("Position = %v, %v; want the start position", pos, ok)
	}

	black, _ := codec.DecodePosition("4k3/8/8/8/8/8/8/4K3 b - - 0 1")
	if check, ok := h.InCheck(black); !ok || !check {
		t.Errorf("InCheck = %v, %v; want true, true", check, ok)
	}

	if _, ok := h.IsTerminal(black); ok {
		t.Errorf("IsTerminal supported by a unit without is_game_over")
	}
	if h.ApplyMove(codec.Move{From: 12, To: 28}) {
		t.Errorf("ApplyMove accepted by a unit without make_move")
	}
}

func TestEvaluateUnsupported(t *testing.T) {
	h := openFake(t, &fakeEngine{noEval: true})
	defer h.Close()

	if _, ok := h.Evaluate(codec.StartPosition()); ok {
		t.Errorf("Evaluate succeeded without get_evaluation")
	}
}

func TestCandidates(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir)

	candidates := loader.Candidates(LibraryName)
	if len(candidates) == 0 || candidates[0] != filepath.Join(dir, LibraryName+LibrarySuffix()) {
		t.Errorf("Candidates = %v, want %s first", candidates, filepath.Join(dir, LibraryName+LibrarySuffix()))
	}

	path := filepath.Join(dir, "engine"+LibrarySuffix())
	if got := loader.Candidates(path); len(got) != 1 || got[0] != path {
		t.Errorf("Candidates(%q) = %v, want only the path", path, got)
	}

	bare := filepath.Join(dir, "engine")
	if got := loader.Candidates(bare); len(got) != 2 || got[1] != bare+LibrarySuffix() {
		t.Errorf("Candidates(%q) = %v, want path and suffixed path", bare, got)
	}
}

func TestResolveSearchPath(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, LibraryName+LibrarySuffix())
	if err := os.WriteFile(want, []byte("not really a library"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewLoader(dir).Resolve(LibraryName)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestLoadInvalidLibrary(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("dynamic loader diagnostics only checked on linux and darwin")
	}

	path := filepath.Join(t.TempDir(), "broken"+LibrarySuffix())
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path, WithLoader(NewLoader()))
	if !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("Open = %v, want LoadFailed", err)
	}
}

func TestIsolateCopiesLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine"+LibrarySuffix())
	if err := os.WriteFile(path, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	copied, err := isolate(path)
	if err != nil {
		t.Fatalf("isolate: %v", err)
	}
	defer os.Remove(copied)

	if copied == path || filepath.Ext(copied) != LibrarySuffix() {
		t.Errorf("isolate = %q, want a distinct file with the library suffix", copied)
	}

	data, err := os.ReadFile(copied)
	if err != nil || string(data) != "payload" {
		t.Errorf("copy holds %q, %v", data, err)
	}

	discard(path, copied)
	if _, err := os.Stat(copied); !os.IsNotExist(err) {
		t.Errorf("discard left the copy behind")
	}
}

func TestReadString(t *testing.T) {
	if s, err := readString([]byte("e2e4\x00\x00\x00\x00")); err != nil || s != "e2e4" {
		t.Errorf("readString = %q, %v", s, err)
	}
	if _, err := readString([]byte("e2e4e5e\x00")); !errors.Is(err, ErrTruncated) {
		t.Errorf("full buffer not reported as truncated: %v", err)
	}
	if _, err := readString([]byte("e2e4e5e6")); !errors.Is(err, ErrTruncated) {
		t.Errorf("unterminated buffer not reported as truncated: %v", err)
	}
}
