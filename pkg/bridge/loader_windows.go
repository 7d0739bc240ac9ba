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

//go:build windows

package bridge

import (
	"path/filepath"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/windows"
)

type winLibrary windows.Handle

// openLibrary loads the DLL with its own directory added to the search
// path, so dependencies shipped next to it are found.
func openLibrary(path string) (library, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	handle, err := windows.LoadLibraryEx(abs, 0, windows.LOAD_WITH_ALTERED_SEARCH_PATH)
	if err != nil {
		return nil, err
	}

	return winLibrary(handle), nil
}

func (lib winLibrary) symbol(name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(lib), name)
}

func (lib winLibrary) close() error {
	return windows.FreeLibrary(windows.Handle(lib))
}

func bind(unit *Unit, lib library) error {
	return bindSymbols(unit, lib, purego.RegisterFunc)
}
