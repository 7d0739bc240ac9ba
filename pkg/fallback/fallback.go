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

// Package fallback selects moves without a native engine unit.
package fallback

import (
	"math/rand"
	"sync"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/gambit/pkg/codec"
)

// Selector picks uniformly random moves from a legal move set.
type Selector struct {
	mu   sync.Mutex
	rand *rand.Rand
}

// New creates a Selector drawing from src. A nil src uses a source
// seeded from the global random generator.
func New(src rand.Source) *Selector {
	if src == nil {
		src = rand.NewSource(rand.Int63())
	}

	return &Selector{rand: rand.New(src)}
}

// PickMove returns a uniformly random move from legal. It returns false
// only if legal is empty, in which case the side to move in pos has no
// legal moves.
func (selector *Selector) PickMove(pos codec.Position, legal []codec.Move) (codec.Move, bool) {
	if len(legal) == 0 {
		return codec.NullMove, false
	}

	selector.mu.Lock()
	m := legal[selector.rand.Intn(len(legal))]
	selector.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"side":  pos.SideToMove,
		"move":  m,
		"moves": len(legal),
	}).Trace("Picked fallback move")

	return m, true
}

var std = New(nil)

// PickMove picks a move using the package's shared Selector.
func PickMove(pos codec.Position, legal []codec.Move) (codec.Move, bool) {
	return std.PickMove(pos, legal)
}
