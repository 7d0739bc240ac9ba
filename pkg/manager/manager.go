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

// Package manager fetches, builds and keeps track of native engine
// libraries. Library sources are git repositories, which are cloned into
// the manager's source directory and built into dynamic libraries that
// the bridge can load by name.
package manager

import (
	"path/filepath"

	"laptudirm.com/x/gambit/pkg/common"
)

// Manager manages the native engine libraries installed under a root
// directory.
type Manager struct {
	// LibraryDirectory holds the built libraries. The current version of
	// a library named foo is kept as foo<suffix>, so it can be loaded by
	// its logical name from this directory.
	LibraryDirectory string

	// SourceDirectory holds the source repositories of libraries.
	SourceDirectory string

	// RegistryFile is the lockfile used to keep track of what libraries
	// and versions are installed.
	RegistryFile string

	Registry Registry
}

// New creates a Manager rooted at root, creating its directories and
// loading its registry.
func New(root string) (*Manager, error) {
	manager := &Manager{
		LibraryDirectory: filepath.Join(root, "lib"),
		SourceDirectory:  filepath.Join(root, "src"),
		RegistryFile:     filepath.Join(root, "libraries.yaml"),
	}

	for _, dir := range []string{root, manager.LibraryDirectory, manager.SourceDirectory} {
		if err := common.TryMkdir(dir); err != nil {
			return nil, err
		}
	}

	registry, err := LoadRegistry(manager.RegistryFile)
	if err != nil {
		return nil, err
	}

	manager.Registry = registry
	return manager, nil
}

// Default creates a Manager rooted at gambit's data directory.
func Default() (*Manager, error) {
	return New(common.Directory)
}

// Save writes the registry back to disk.
func (manager *Manager) Save() error {
	return manager.Registry.Save(manager.RegistryFile)
}
