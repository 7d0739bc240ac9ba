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

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Execute runs command with args in dir while showing the spinner. The
// command's output is shown live at Trace level, and dumped only if it
// fails otherwise. On failure errStr is returned as the error, or the
// command's own error if errStr is empty.
func Execute(dir, errStr, command string, args ...string) error {
	return run(dir, errStr, nil, command, args...)
}

// ExecuteScript pipes script into a shell run in dir.
func ExecuteScript(dir, errStr, script string) error {
	return run(dir, errStr, strings.NewReader(script), "sh")
}

func run(dir, errStr string, stdin io.Reader, command string, args ...string) error {
	logrus.Debugf("\x1b[34m%s\x1b[0m %s", command, strings.Join(args, " "))

	cmd := exec.Command(command, args...)
	cmd.Dir = dir
	cmd.Stdin = stdin

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	// Show the command's output if logging level is Trace.
	trace := logrus.IsLevelEnabled(logrus.TraceLevel)
	if trace {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	fmt.Fprint(os.Stderr, "\x1b[33m")
	StartSpinner()

	err := cmd.Run()

	PauseSpinner()
	fmt.Fprint(os.Stderr, "\x1b[0m")

	if err == nil {
		return nil
	}

	// Dump the command's output in case of failure.
	if !trace {
		fmt.Fprint(os.Stderr, "==== \x1b[31mERROR\x1b[0m ====\n\x1b[31m")
		_, _ = io.Copy(os.Stderr, &output)
		fmt.Fprint(os.Stderr, "\x1b[0m===============\n")
	}

	logrus.Debug(err)
	if errStr == "" {
		return err
	}

	return errors.New(errStr)
}
