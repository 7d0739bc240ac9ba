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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"laptudirm.com/x/gambit/pkg/bridge"
)

func write(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestLoadMissing(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if config != Default() {
		t.Errorf("Load = %+v, want defaults", config)
	}
	if config.Library != bridge.LibraryName || config.ThinkTime != 500*time.Millisecond {
		t.Errorf("unexpected defaults %+v", config)
	}
}

func TestLoad(t *testing.T) {
	path := write(t, `
library: /opt/engines/libfast.so
think-time: 250ms
time-budget: 3s
async: true
`)

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Library = "/opt/engines/libfast.so"
	want.ThinkTime = 250 * time.Millisecond
	want.TimeBudget = 3 * time.Second
	want.Async = true

	if config != want {
		t.Errorf("Load = %+v, want %+v", config, want)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"Syntax":        "library: [unterminated",
		"Duration":      "think-time: soon",
		"EmptyLibrary":  `library: ""`,
		"NegativeThink": "think-time: -1s",
	}

	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(write(t, contents)); err == nil {
				t.Errorf("Load accepted %q", contents)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	config := Default()
	config.LibraryDir = t.TempDir()
	config.ThinkTime = time.Second
	config.Async = true

	if err := config.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != config {
		t.Errorf("Load = %+v, want %+v", loaded, config)
	}
}

func TestSessionOptions(t *testing.T) {
	config := Default()
	if got := len(config.SessionOptions()); got != 3 {
		t.Errorf("%d session options, want 3", got)
	}

	config.Async = true
	if got := len(config.SessionOptions()); got != 4 {
		t.Errorf("%d session options with async, want 4", got)
	}
}
