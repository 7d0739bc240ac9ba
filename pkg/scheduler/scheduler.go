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

// Package scheduler paces requests to automated move sources.
//
// A Scheduler is driven by an external tick. When the side to move is
// automated it starts waiting, and only once a minimum think time has
// passed does it tell the caller to invoke the move source. No further
// request is issued until the caller reports the move as applied.
package scheduler

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultThreshold is the minimum time between a side becoming due and
// its automated move source being invoked.
const DefaultThreshold = 500 * time.Millisecond

// State is the state of a Scheduler.
type State int

const (
	Idle     State = iota // no automated move pending
	Awaiting              // an automated move is due or outstanding
	Blocked               // game over, nothing is requested
)

func (state State) String() string {
	switch state {
	case Idle:
		return "idle"
	case Awaiting:
		return "awaiting"
	case Blocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Clock is a source of the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock reading the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Scheduler is the turn scheduler of a single game. It is not safe for
// concurrent use.
type Scheduler struct {
	clock     Clock
	threshold time.Duration

	state State
	since time.Time // when the current Awaiting period started
	fired bool      // the move source was invoked for this period
}

// New creates an Idle Scheduler with the given threshold and clock. A
// negative threshold is treated as zero, and a nil clock reads the wall
// clock.
func New(threshold time.Duration, clock Clock) *Scheduler {
	if threshold < 0 {
		threshold = 0
	}

	if clock == nil {
		clock = SystemClock{}
	}

	return &Scheduler{
		clock:     clock,
		threshold: threshold,
	}
}

// State returns the current state of the scheduler.
func (s *Scheduler) State() State {
	return s.state
}

// Threshold returns the minimum think time.
func (s *Scheduler) Threshold() time.Duration {
	return s.threshold
}

// Outstanding reports whether the move source has been invoked and its
// move has not yet been reported as applied.
func (s *Scheduler) Outstanding() bool {
	return s.state == Awaiting && s.fired
}

// Tick advances the scheduler. automated reports whether the side to
// move is automated and over whether the game has ended. Tick returns
// true exactly once per Awaiting period: when the caller must invoke the
// move source.
func (s *Scheduler) Tick(automated, over bool) bool {
	if over {
		s.block()
		return false
	}

	switch s.state {
	case Blocked:
		return false

	case Idle:
		if !automated {
			return false
		}

		s.state = Awaiting
		s.since = s.clock.Now()
		s.fired = false

	case Awaiting:
		if s.fired {
			// a request is outstanding
			return false
		}

		if !automated {
			s.Reset()
			return false
		}
	}

	if elapsed := s.clock.Now().Sub(s.since); elapsed < s.threshold {
		return false
	}

	s.fired = true
	logrus.WithField("waited", s.clock.Now().Sub(s.since)).Trace("Requesting automated move")
	return true
}

// Applied reports that the requested move was applied. The scheduler
// returns to Idle, or to Blocked if the game is over.
func (s *Scheduler) Applied(over bool) {
	s.fired = false

	if over {
		s.block()
		return
	}

	s.state = Idle
}

// Reset returns the scheduler to Idle, abandoning any Awaiting period.
// It is used when the side to move becomes human controlled, and when a
// game is restarted.
func (s *Scheduler) Reset() {
	s.state = Idle
	s.fired = false
	s.since = time.Time{}
}

func (s *Scheduler) block() {
	s.state = Blocked
	s.fired = false
}
