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

//go:build darwin || freebsd || linux || netbsd

package bridge

import "github.com/ebitengine/purego"

type dlLibrary uintptr

func openLibrary(path string) (library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, err
	}

	return dlLibrary(handle), nil
}

func (lib dlLibrary) symbol(name string) (uintptr, error) {
	return purego.Dlsym(uintptr(lib), name)
}

func (lib dlLibrary) close() error {
	return purego.Dlclose(uintptr(lib))
}

func bind(unit *Unit, lib library) error {
	return bindSymbols(unit, lib, purego.RegisterFunc)
}
