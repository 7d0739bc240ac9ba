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
	"io/fs"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"laptudirm.com/x/gambit/pkg/common"
)

// Registry records the installed libraries, by name.
type Registry map[string]LibraryInfo

// LibraryInfo is the registry entry of a library.
type LibraryInfo struct {
	Author string `yaml:"author"`
	Source string `yaml:"source"`

	// Installation Stuff
	Current     string   `yaml:"current"`
	Versions    []string `yaml:"versions,omitempty"`
	BuildScript string   `yaml:"build-script,omitempty"`
}

// LoadRegistry reads the registry at path. A missing file is an empty
// registry.
func LoadRegistry(path string) (Registry, error) {
	registry := make(Registry)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return registry, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, err
	}

	if registry == nil {
		// an empty file decodes to a nil map
		registry = make(Registry)
	}

	return registry, nil
}

// Save writes the registry to path.
func (registry Registry) Save(path string) error {
	data, err := yaml.Marshal(registry)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, common.FilePermissions)
}

// TryAdd adds an entry for library if there is none yet.
func (registry Registry) TryAdd(library *Library) {
	if _, found := registry[library.Name]; !found {
		registry[library.Name] = LibraryInfo{
			Author: library.Author,
			Source: library.URL,
		}
	}
}

// AddVersion records version as installed for library.
func (registry Registry) AddVersion(library *Library, version string) {
	registry.TryAdd(library)

	info := registry[library.Name]
	if !slices.Contains(info.Versions, version) {
		info.Versions = append(info.Versions, version)
	}
	registry[library.Name] = info
}

// SetCurrent makes version the current version of the named library.
func (registry Registry) SetCurrent(name, version string) {
	info := registry[name]
	info.Current = version
	registry[name] = info
}

// RemoveVersion forgets an installed version of the named library.
func (registry Registry) RemoveVersion(name, version string) {
	info, found := registry[name]
	if !found {
		return
	}

	info.Versions = slices.DeleteFunc(info.Versions, func(v string) bool { return v == version })
	if info.Current == version {
		info.Current = ""
	}

	registry[name] = info
}

// Remove forgets the named library.
func (registry Registry) Remove(name string) {
	delete(registry, name)
}
