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

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"laptudirm.com/x/gambit/pkg/bridge"
	"laptudirm.com/x/gambit/pkg/codec"
)

// gambit probe
func Probe() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe [library]",
		Short: "Load a native engine library and report on it",
		Args:  cobra.MaximumNArgs(1),
		Long: heredoc.Doc(`probe resolves and loads a native engine library, and
			exercises every function it exports from the starting
			position. The configured library is probed if none is given.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			name := cfg.Library
			if len(args) == 1 {
				name = args[0]
			}

			loader := bridge.NewLoader(cfg.LibraryDir)

			fmt.Printf("\x1b[92mProbing library\x1b[0m: %s\n\n", name)
			for _, path := range loader.Candidates(name) {
				if info, err := os.Stat(path); err == nil {
					fmt.Printf("  \x1b[32mfound\x1b[0m   %s (%d bytes)\n", path, info.Size())
				} else {
					fmt.Printf("  \x1b[31mmissing\x1b[0m %s\n", path)
				}
			}
			fmt.Println()

			handle, err := bridge.Open(name, bridge.WithLoader(loader), bridge.WithName("probe"))
			if err != nil {
				var bridgeErr *bridge.Error
				if errors.As(err, &bridgeErr) {
					return fmt.Errorf("Probe \x1b[31mfailed\x1b[0m (%s): %w", bridgeErr.Kind, err)
				}
				return err
			}
			defer handle.Close()

			pos := codec.StartPosition()
			fmt.Printf("Loaded %s\n", handle.Path())

			if m, err := handle.Search(pos, cfg.TimeBudget); err == nil {
				fmt.Printf("  best move     %s\n", m)
			} else {
				fmt.Printf("  best move     \x1b[31m%v\x1b[0m\n", err)
			}

			report := func(name string, value any, ok bool) {
				if ok {
					fmt.Printf("  %-13s %v\n", name, value)
				} else {
					fmt.Printf("  %-13s \x1b[33munavailable\x1b[0m\n", name)
				}
			}

			score, ok := handle.Evaluate(pos)
			report("evaluation", score, ok)

			check, ok := handle.InCheck(pos)
			report("in check", check, ok)

			over, ok := handle.IsTerminal(pos)
			report("game over", over, ok)

			side, ok := handle.SideToMove(pos)
			report("side to move", side, ok)

			position, ok := handle.Position()
			report("position", position, ok)

			return handle.Close()
		},
	}

	engineFlags(cmd)
	return cmd
}
