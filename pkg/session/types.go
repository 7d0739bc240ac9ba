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

package session

import (
	"fmt"
	"strings"

	"laptudirm.com/x/gambit/pkg/codec"
	"laptudirm.com/x/gambit/pkg/rules"
)

// Mode is the kind of players taking part in a game.
type Mode int

const (
	HumanVsHuman Mode = iota
	HumanVsBot
	BotVsBot
)

func (mode Mode) String() string {
	switch mode {
	case HumanVsHuman:
		return "human-vs-human"
	case HumanVsBot:
		return "human-vs-bot"
	case BotVsBot:
		return "bot-vs-bot"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode given either in full or in its short form:
// hvh, hvb or bvb.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "hvh", "human-vs-human":
		return HumanVsHuman, nil
	case "hvb", "human-vs-bot":
		return HumanVsBot, nil
	case "bvb", "bot-vs-bot":
		return BotVsBot, nil
	default:
		return 0, fmt.Errorf("session: unknown mode %q", s)
	}
}

// ParseColor parses a side name, "white" or "black".
func ParseColor(s string) (codec.Color, error) {
	switch strings.ToLower(s) {
	case "w", "white":
		return codec.White, nil
	case "b", "black":
		return codec.Black, nil
	default:
		return codec.White, fmt.Errorf("session: unknown side %q", s)
	}
}

// State is the lifecycle state of a Session.
type State int

const (
	ModeSelect State = iota
	SideSelect       // only entered for human-vs-bot games
	Active
	Over
)

func (state State) String() string {
	switch state {
	case ModeSelect:
		return "mode-select"
	case SideSelect:
		return "side-select"
	case Active:
		return "active"
	case Over:
		return "over"
	default:
		return "unknown"
	}
}

// TargetKind classifies the target square of a legal move.
type TargetKind int

const (
	NormalTarget TargetKind = iota
	CaptureTarget
)

func (kind TargetKind) String() string {
	if kind == CaptureTarget {
		return "capture"
	}

	return "normal"
}

// EventKind is the kind of an Event.
type EventKind int

const (
	MoveEvent EventKind = iota // a quiet move was played
	CaptureEvent
	CheckEvent
	GameOverEvent
)

func (kind EventKind) String() string {
	switch kind {
	case MoveEvent:
		return "move"
	case CaptureEvent:
		return "capture"
	case CheckEvent:
		return "check"
	case GameOverEvent:
		return "game-over"
	default:
		return "unknown"
	}
}

// Event is emitted to listeners when a move is applied. Every applied
// move emits a MoveEvent or CaptureEvent, followed by a CheckEvent if
// the opponent is now in check, and a GameOverEvent if the game ended.
type Event struct {
	Kind EventKind

	Move codec.Move
	Side codec.Color // side which played Move

	// Result is set for GameOverEvent.
	Result rules.Result
}

// Listener receives session events. Listeners are called synchronously
// from the goroutine driving the session.
type Listener func(Event)
