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

// Package util contains helpers for the command line tools: running
// external commands, progress spinners and version ordering.
package util

import (
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// SpinnerCharSet is the spinner.CharSets entry used by the tools.
const SpinnerCharSet = 31

var (
	spin     *spinner.Spinner
	spinOnce sync.Once
)

func theSpinner() *spinner.Spinner {
	spinOnce.Do(func() {
		spin = spinner.New(
			spinner.CharSets[SpinnerCharSet],
			100*time.Millisecond,
			spinner.WithWriter(os.Stderr),
		)
	})

	return spin
}

// StartSpinner shows the progress spinner.
func StartSpinner() {
	theSpinner().Start()
}

// PauseSpinner hides the progress spinner. It may be started again.
func PauseSpinner() {
	theSpinner().Stop()
}
