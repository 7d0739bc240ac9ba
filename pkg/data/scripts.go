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

// Package data holds the build recipes used to turn a native engine's
// source repository into a dynamic library.
package data

import "github.com/MakeNowJust/heredoc/v2"

// Output is the file every build recipe leaves in the repository root.
const Output = "engine-library"

// Recipe builds a native engine unit from source.
type Recipe struct {
	Name string

	// Marker is a file whose presence in the repository root selects
	// the recipe. An empty marker matches any repository.
	Marker string

	Script string
}

// Recipes lists the known build recipes in order of preference.
var Recipes = []Recipe{
	{
		Name:   "cmake",
		Marker: "CMakeLists.txt",
		Script: heredoc.Doc(`
			cmake -S . -B build -DCMAKE_BUILD_TYPE=Release -DCMAKE_POSITION_INDEPENDENT_CODE=ON
			cmake --build build --parallel
			lib=$(find build -maxdepth 3 -type f \( -name '*.so' -o -name '*.dylib' -o -name '*.dll' \) | head -n 1)
			test -n "$lib"
			cp "$lib" engine-library
		`),
	},
	{
		Name:   "makefile",
		Marker: "Makefile",
		Script: heredoc.Doc(`
			make -j LIB=engine-library engine-library
		`),
	},
	{
		Name: "c++",
		Script: heredoc.Doc(`
			sources=$(find src -name '*.cpp' ! -name 'main.cpp' ! -name '*GUI*.cpp')
			${CXX:-c++} -std=c++17 -O3 -shared -fPIC -Isrc -o engine-library $sources
		`),
	},
}
