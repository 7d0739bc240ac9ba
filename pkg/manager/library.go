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

package manager

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/gambit/pkg/bridge"
)

// Library is a native engine library managed by the Manager. It contains
// metadata about the library and its source repository.
type Library struct {
	// Basic Information
	Name   string
	Author string
	Info   *LibraryInfo

	// Source Repository Information
	URL  string // URL of the library's remote repository
	Path string // Path to the library's local repository
	*git.Repository
	*git.Worktree

	manager *Manager
}

// NewLibrary creates a Library from the given identifier, which has one
// of the following formats:
//
// 1. <library-name>                 - Installed Library Format
// 2. <library-author>/<library-name> - GitHub Library Format
// 3. <full-source-git-url>          - Git Library Format
//
// Only libraries which have been previously installed can be identified
// using format (1).
func (manager *Manager) NewLibrary(identifier string) (*Library, error) {
	library := Library{manager: manager}

	// In all formats, the library name is the last part of the identifier:
	// [<stuff-depending-on-the-particular-format>/]<library-name>
	library.Name = strings.TrimSuffix(filepath.Base(identifier), ".git")
	if library.Name == "" || library.Name == "." || library.Name == "/" {
		return nil, fmt.Errorf("Invalid library identifier \x1b[31m%s\x1b[0m", identifier)
	}

	// The library's repository will be stored at <source>/<library-name>.
	library.Path = filepath.Join(manager.SourceDirectory, strings.ToLower(library.Name))

	// The formats can be differentiated between using the number of '/' in
	// the identifier. (1) has 0, (2) has 1, and (3) has >= 2 '/'s.
	switch strings.Count(identifier, "/") {
	case 0:
		info, found := manager.Registry[identifier]
		if !found {
			return nil, fmt.Errorf("Library %s is not installed", library.Name)
		}

		library.Info = &info
		library.URL = info.Source
		library.Author = info.Author

	case 1:
		library.URL = "https://github.com/" + identifier
		library.Author, _, _ = strings.Cut(identifier, "/")

	default:
		library.URL = identifier
		library.Author = filepath.Base(filepath.Dir(identifier))
	}

	if info, found := manager.Registry[library.Name]; found && library.Info == nil {
		library.Info = &info
	}

	logrus.WithFields(logrus.Fields{
		"name":       library.Name,
		"author":     library.Author,
		"identifier": library.URL,
	}).Debug("Figured out basic library details")

	return &library, nil
}

// File returns the path of the library's current version, which is the
// path the bridge resolves the library's name to.
func (library *Library) File() string {
	return filepath.Join(library.manager.LibraryDirectory, library.Name+bridge.LibrarySuffix())
}

// VersionFile returns the path of the given version of the library.
func (library *Library) VersionFile(version string) string {
	return filepath.Join(library.manager.LibraryDirectory, library.Name+"-"+version+bridge.LibrarySuffix())
}

// Installed reports whether the given version of the library is built.
func (library *Library) Installed(version string) bool {
	_, err := os.Stat(library.VersionFile(version))
	return err == nil
}
