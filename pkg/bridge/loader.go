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
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// library is a dynamic library opened by the host's loader.
type library interface {
	symbol(name string) (uintptr, error)
	close() error
}

// DynamicLoader resolves engine units on disk and loads them with the
// host's dynamic loader. It is safe for concurrent use.
//
// Loading a file which another live Unit from the same loader already
// holds would return the same native instance, sharing its globals. In
// that case a private copy of the file is loaded instead, so that every
// Unit owns an independent instance.
type DynamicLoader struct {
	// SearchPath lists directories searched for libraries given by
	// logical name, before the executable's and working directories.
	SearchPath []string

	mu   sync.Mutex
	held map[string]int // resolved path -> live units
}

// NewLoader creates a DynamicLoader which searches the given directories.
func NewLoader(dirs ...string) *DynamicLoader {
	return &DynamicLoader{
		SearchPath: dirs,
		held:       make(map[string]int),
	}
}

// LibrarySuffix returns the file suffix of dynamic libraries on the host.
func LibrarySuffix() string {
	switch runtime.GOOS {
	case "windows":
		return ".dll"
	case "darwin", "ios":
		return ".dylib"
	default:
		return ".so"
	}
}

// Candidates returns the paths at which a library with the given name is
// looked for, in order. A name containing a path separator is treated as
// a path and only the path itself is tried, with the host suffix added
// if it is missing.
func (loader *DynamicLoader) Candidates(name string) []string {
	suffix := LibrarySuffix()

	file := name
	if !strings.EqualFold(filepath.Ext(name), suffix) {
		file += suffix
	}

	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		if file == name {
			return []string{name}
		}

		return []string{name, file}
	}

	dirs := append([]string(nil), loader.SearchPath...)
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}

	candidates := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		candidates = append(candidates, filepath.Join(dir, file))
	}

	return candidates
}

// Resolve finds the first candidate path for name which exists.
func (loader *DynamicLoader) Resolve(name string) (string, error) {
	tried := loader.Candidates(name)
	for _, path := range tried {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	return "", &Error{
		Kind:  LibraryNotFound,
		Op:    "open",
		Path:  name,
		Tried: tried,
		Err:   fs.ErrNotExist,
	}
}

// Load implements Loader.
func (loader *DynamicLoader) Load(name string) (*Unit, error) {
	path, err := loader.Resolve(name)
	if err != nil {
		return nil, err
	}

	if info, err := os.Stat(path); err == nil {
		logrus.WithFields(logrus.Fields{
			"path": path,
			"size": info.Size(),
		}).Debug("Resolved native engine library")
	}

	loader.mu.Lock()
	defer loader.mu.Unlock()

	if loader.held == nil {
		loader.held = make(map[string]int)
	}

	file := path
	if loader.held[path] > 0 {
		if file, err = isolate(path); err != nil {
			return nil, &Error{Kind: LoadFailed, Op: "open", Path: path, Err: err}
		}

		logrus.WithFields(logrus.Fields{
			"path": path,
			"copy": file,
		}).Debug("Library already in use, loading a private copy")
	}

	lib, err := openLibrary(file)
	if err != nil {
		discard(path, file)
		return nil, &Error{Kind: LoadFailed, Op: "open", Path: file, Err: err}
	}

	unit := &Unit{Path: file}
	if err := bind(unit, lib); err != nil {
		_ = lib.close()
		discard(path, file)
		return nil, &Error{Kind: LoadFailed, Op: "open", Path: file, Err: err}
	}

	loader.held[path]++

	var once sync.Once
	unit.Unload = func() error {
		var err error
		once.Do(func() {
			err = lib.close()

			loader.mu.Lock()
			loader.held[path]--
			loader.mu.Unlock()

			discard(path, file)
		})
		return err
	}

	return unit, nil
}

// isolate copies the library at path into a temporary file.
func isolate(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dst, err := os.CreateTemp("", base+"-*"+filepath.Ext(path))
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}

	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", err
	}

	return dst.Name(), os.Chmod(dst.Name(), 0o755)
}

// discard removes file if it is a private copy of path.
func discard(path, file string) {
	if file != path {
		_ = os.Remove(file)
	}
}

// bindSymbols looks up every symbol of the unit in lib and passes the
// addresses to register. Missing optional symbols are skipped.
func bindSymbols(unit *Unit, lib library, register func(fn any, sym uintptr)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("binding symbols: %v", r)
		}
	}()

	var missing []string
	for _, b := range unit.bindings() {
		sym, serr := lib.symbol(b.name)
		if serr != nil || sym == 0 {
			if b.required {
				missing = append(missing, b.name)
			}
			continue
		}

		register(b.fn, sym)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrUnsupported, strings.Join(missing, ", "))
	}

	return nil
}

var errUnsupportedPlatform = errors.New("dynamic loading is not supported on " + runtime.GOOS)
