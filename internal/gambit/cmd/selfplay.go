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
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/gambit/pkg/session"
	"laptudirm.com/x/gambit/pkg/stats"
)

// gambit selfplay
func SelfPlay() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selfplay",
		Short: "Play engine games without a board display",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`selfplay plays bot-vs-bot games between two instances of
			the configured native engine library and prints their
			results. No think time is waited between moves.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			games, _ := cmd.Flags().GetInt("games")
			if games < 1 {
				return fmt.Errorf("Invalid number of games \x1b[31m%d\x1b[0m", games)
			}

			game, err := session.New(append(cfg.SessionOptions(), session.WithThinkTime(0))...)
			if err != nil {
				return err
			}
			defer game.Close()

			var score stats.Score
			for i := 1; i <= games; i++ {
				if err := game.SelectMode(session.BotVsBot); err != nil {
					return err
				}

				for game.State() == session.Active {
					game.Tick()
					game.Wait()
				}

				score.Add(game.Result())

				logrus.WithField("game", game.ID()).Debug(formatMoves(game.Moves()))
				fmt.Printf("Game %d: %s\n", i, describeResult(game))

				if err := game.Restart(); err != nil {
					return err
				}
			}

			fmt.Printf("\n\x1b[92mScore\x1b[0m: %s\n", score)
			return nil
		},
	}

	cmd.Flags().IntP("games", "n", 1, "Number of games to play")
	engineFlags(cmd)

	return cmd
}
