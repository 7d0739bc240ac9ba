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

package rules

import "laptudirm.com/x/gambit/pkg/codec"

// Oracle answers legality questions about standalone positions, without
// any game history attached.
type Oracle struct{}

// LegalMoves returns the legal moves in pos.
func (Oracle) LegalMoves(pos codec.Position) ([]codec.Move, error) {
	b, err := New(codec.EncodePosition(pos))
	if err != nil {
		return nil, err
	}

	return b.LegalMoves(), nil
}

// IsLegal reports whether m is a legal move in pos. Unusable positions
// have no legal moves.
func (Oracle) IsLegal(pos codec.Position, m codec.Move) bool {
	b, err := New(codec.EncodePosition(pos))
	if err != nil {
		return false
	}

	return b.IsLegal(m)
}
