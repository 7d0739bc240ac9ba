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

package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

func TestExpandHome(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"~", xdg.Home},
		{"~/lib", filepath.Join(xdg.Home, "lib")},
		{"/usr/lib", "/usr/lib"},
		{"~user/lib", "~user/lib"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExpandHome(tt.path); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestTryCreateKeepsExisting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := TryMkdir(dir); err != nil {
		t.Fatalf("TryMkdir: %v", err)
	}

	file := filepath.Join(dir, "registry.yaml")
	if err := TryCreate(file, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := TryCreate(file, []byte("second")); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(file)
	if string(data) != "first" {
		t.Errorf("file holds %q, want the first contents", data)
	}
}
