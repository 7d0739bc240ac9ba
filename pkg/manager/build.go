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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/gambit/pkg/common"
	"laptudirm.com/x/gambit/pkg/data"
	"laptudirm.com/x/gambit/pkg/internal/util"
)

// Install builds the given version of the library, records it in the
// registry and makes it the library's current version.
func (manager *Manager) Install(library *Library, version Version) error {
	dst := library.VersionFile(version.Name)

	if err := library.Build(version, dst); err != nil {
		return err
	}

	// Check if the library was successfully built and moved.
	if _, err := os.Stat(dst); err != nil {
		return errors.New("Installer \x1b[31mfailed\x1b[0m in building the library")
	}

	if err := copyFile(dst, library.File()); err != nil {
		return err
	}

	manager.Registry.AddVersion(library, version.Name)
	manager.Registry.SetCurrent(library.Name, version.Name)
	if err := manager.Save(); err != nil {
		return err
	}

	logrus.WithField("path", library.File()).Debug("Installed current version")
	fmt.Printf("\nInstalled library \x1b[92m%s %s\x1b[0m.\n", library.Name, version.Name)
	return nil
}

// Uninstall removes the given version of the library, or every version
// if version is empty.
func (manager *Manager) Uninstall(library *Library, version string) error {
	info := manager.Registry[library.Name]

	versions := info.Versions
	if version != "" {
		versions = []string{version}
	}

	for _, v := range versions {
		if err := os.Remove(library.VersionFile(v)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		manager.Registry.RemoveVersion(library.Name, v)
	}

	if version == "" || info.Current == version {
		if err := os.Remove(library.File()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	if version == "" {
		manager.Registry.Remove(library.Name)
	}

	return manager.Save()
}

// Build builds the given version of the library and moves it to dst.
func (library *Library) Build(version Version, dst string) error {
	// Reset repository state after building has been done.
	head, err := library.Head()
	if err != nil {
		return err
	}

	defer func() {
		logrus.Debugf("Checking out back to %s", head.Name().Short())
		if err := library.Checkout(&git.CheckoutOptions{Branch: head.Name()}); err != nil {
			logrus.Error(err)
		}
	}()

	// Fetch the git objects associated with the given version,
	// and checkout to its commit in preparation for building.
	if err := library.FetchVersion(version); err != nil {
		return err
	}

	hash, err := library.ResolveRevision(plumbing.Revision(version.Ref.Name().String()))
	if err != nil {
		hash = new(plumbing.Hash)
		*hash = version.Ref.Hash()
	}

	if err := library.Checkout(&git.CheckoutOptions{Hash: *hash}); err != nil {
		return err
	}

	recipe := library.Recipe()
	logrus.Infof("Trying to build using the \x1b[33m%s\x1b[0m recipe...", recipe.Name)

	err = util.ExecuteScript(
		library.Path,
		"Build script failed; Check requirements or open an issue",
		recipe.Script,
	)
	if err != nil {
		return err
	}

	// Move the library to the destination provided by the caller.
	if err := os.Rename(filepath.Join(library.Path, data.Output), dst); err != nil {
		logrus.Debug(err)
		return errors.New("Build script \x1b[31mdid not produce\x1b[0m a library")
	}

	return nil
}

// Recipe picks the build recipe for the library's repository. A build
// script recorded in the registry takes precedence over the known
// recipes.
func (library *Library) Recipe() data.Recipe {
	if library.Info != nil && library.Info.BuildScript != "" {
		return data.Recipe{Name: "registered", Script: library.Info.BuildScript}
	}

	return SelectRecipe(library.Path)
}

// SelectRecipe returns the first known recipe whose marker file exists
// in dir.
func SelectRecipe(dir string) data.Recipe {
	for _, recipe := range data.Recipes {
		if recipe.Marker == "" {
			return recipe
		}

		if _, err := os.Stat(filepath.Join(dir, recipe.Marker)); err == nil {
			return recipe
		}
	}

	return data.Recipes[len(data.Recipes)-1]
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, common.FilePermissions)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
