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

// Package config loads gambit's configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"laptudirm.com/x/gambit/pkg/bridge"
	"laptudirm.com/x/gambit/pkg/common"
	"laptudirm.com/x/gambit/pkg/scheduler"
	"laptudirm.com/x/gambit/pkg/session"
)

// Config is the user's configuration. Flags given on the command line
// override the values read from the file.
type Config struct {
	// Library is the logical name or path of the native engine unit.
	Library string `yaml:"library"`

	// LibraryDir is searched for libraries given by logical name.
	LibraryDir string `yaml:"library-dir"`

	ThinkTime  time.Duration `yaml:"think-time"`
	TimeBudget time.Duration `yaml:"time-budget"`

	Async bool `yaml:"async"`
}

// File is the default location of the configuration file.
var File = filepath.Join(common.ConfigDirectory, "config.yaml")

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Library:    bridge.LibraryName,
		LibraryDir: filepath.Join(common.Directory, "lib"),
		ThinkTime:  scheduler.DefaultThreshold,
		TimeBudget: session.DefaultTimeBudget,
	}
}

// Load reads the configuration at path. Fields missing from the file
// keep their defaults, and a missing file yields the defaults.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logrus.WithField("path", path).Debug("No configuration file, using defaults")
		return config, nil
	}
	if err != nil {
		return config, err
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("config: %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("config: %s: %w", path, err)
	}

	config.LibraryDir = common.ExpandHome(config.LibraryDir)
	return config, nil
}

// Save writes the configuration to path.
func (config Config) Save(path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	if err := common.TryMkdir(filepath.Dir(path)); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration for values which can't be used.
func (config Config) Validate() error {
	switch {
	case config.Library == "":
		return errors.New("library must not be empty")
	case config.ThinkTime < 0:
		return errors.New("think-time must not be negative")
	case config.TimeBudget < 0:
		return errors.New("time-budget must not be negative")
	}

	return nil
}

// SessionOptions returns the session options described by the
// configuration.
func (config Config) SessionOptions() []session.Option {
	options := []session.Option{
		session.WithThinkTime(config.ThinkTime),
		session.WithTimeBudget(config.TimeBudget),
		session.WithOpener(session.BridgeOpener(
			config.Library,
			bridge.WithLoader(bridge.NewLoader(config.LibraryDir)),
		)),
	}

	if config.Async {
		options = append(options, session.WithAsyncEngine())
	}

	return options
}
