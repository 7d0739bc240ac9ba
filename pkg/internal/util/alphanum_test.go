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

package util

import "testing"

func TestAlphanumLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"v1", "v2", true},
		{"v2", "v10", true},
		{"v10", "v2", false},
		{"v1.9", "v1.10", true},
		{"v1.10", "v1.9", false},
		{"v1", "v1", false},
		{"v1", "v1.1", true},
		{"v1.1", "v1", false},
		{"alpha", "beta", true},
		{"1.0-rc1", "1.0-rc2", true},
		{"", "v1", true},
		{"v01", "v1", true},
	}

	for _, tt := range tests {
		if got := AlphanumLess(tt.a, tt.b); got != tt.want {
			t.Errorf("AlphanumLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
