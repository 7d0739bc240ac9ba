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

// Package stats summarizes the results of a series of games.
package stats

import (
	"fmt"
	"math"

	"laptudirm.com/x/gambit/pkg/codec"
	"laptudirm.com/x/gambit/pkg/rules"
)

// Score tallies game results from white's point of view.
type Score struct {
	White int // games won by white
	Black int // games won by black
	Draws int
}

// Add records the result of a finished game.
func (score *Score) Add(result rules.Result) {
	switch {
	case result.Outcome == rules.Checkmate && result.Winner == codec.White:
		score.White++
	case result.Outcome == rules.Checkmate:
		score.Black++
	default:
		score.Draws++
	}
}

// Games returns the number of games recorded.
func (score Score) Games() int {
	return score.White + score.Black + score.Draws
}

// Elo returns the Elo difference of white over black implied by the
// score, with the bounds of its 95% confidence interval. A score of
// only wins or only losses gives infinite values.
func (score Score) Elo() (lower float64, elo float64, upper float64) {
	n := float64(score.Games()) // total number of games

	if n == 0 {
		return 0, 0, 0
	}

	w := float64(score.White) / n // measured win probability
	d := float64(score.Draws) / n // measured draw probability
	l := float64(score.Black) / n // measured loss probability

	// empirical mean of random variable
	mu := w + d/2

	// standard deviation of the random variable
	sigma := math.Sqrt(w*math.Pow(1-mu, 2)+d*math.Pow(0.5-mu, 2)+l*math.Pow(0-mu, 2)) / math.Sqrt(n)

	lower = scoreToElo(mu + phiInv(0.025)*sigma)
	upper = scoreToElo(mu + phiInv(0.975)*sigma)
	return lower, scoreToElo(mu), upper
}

func (score Score) String() string {
	lower, elo, upper := score.Elo()
	return fmt.Sprintf(
		"White %d, Black %d, Draws %d; Elo %.1f [%.1f, %.1f]",
		score.White, score.Black, score.Draws, elo, lower, upper,
	)
}

// scoreToElo converts an expected score into an Elo difference.
func scoreToElo(x float64) float64 {
	switch {
	case x <= 0:
		return math.Inf(-1)
	case x >= 1:
		return math.Inf(+1)
	default:
		return -400 * math.Log10(1/x-1)
	}
}

// phiInv is the quantile function of the standard normal distribution.
func phiInv(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}
