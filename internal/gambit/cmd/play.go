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
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"laptudirm.com/x/gambit/pkg/codec"
	"laptudirm.com/x/gambit/pkg/session"
)

// tickInterval is how often the play loop drives the session.
const tickInterval = 50 * time.Millisecond

// gambit play
func Play() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`play starts an interactive game in the terminal.

			Moves are typed in coordinate form, like e2e4 or e7e8q. A pawn
			reaching its last rank without a promotion piece becomes a
			queen. The commands "moves", "board", "restart" and "quit" are
			also understood.

			Automated sides are played by the configured native engine
			library. If it can not be loaded, or produces no usable move,
			a random legal move is played instead.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			modeStr, _ := cmd.Flags().GetString("mode")
			mode, err := session.ParseMode(modeStr)
			if err != nil {
				return err
			}

			sideStr, _ := cmd.Flags().GetString("side")
			side, err := session.ParseColor(sideStr)
			if err != nil {
				return err
			}

			var game *session.Session
			printer := func(event session.Event) {
				switch event.Kind {
				case session.MoveEvent, session.CaptureEvent:
					printMove(game, event)
				case session.CheckEvent:
					fmt.Println("\x1b[31mCheck!\x1b[0m")
				}
			}

			game, err = session.New(append(cfg.SessionOptions(), session.WithListener(printer))...)
			if err != nil {
				return err
			}
			defer game.Close()

			start := func() error {
				if err := game.SelectMode(mode); err != nil {
					return err
				}
				if mode == session.HumanVsBot {
					if err := game.SelectSide(side); err != nil {
						return err
					}
				}

				fmt.Print(renderBoard(game.Position(), codec.NullMove))
				return nil
			}

			if err := start(); err != nil {
				return err
			}

			return playLoop(game, start)
		},
	}

	cmd.Flags().StringP("mode", "m", "hvb", "Game mode: hvh, hvb or bvb")
	cmd.Flags().StringP("side", "s", "white", "Side played by the human in hvb games")
	engineFlags(cmd)

	return cmd
}

// playLoop drives game until it ends or the user quits.
func playLoop(game *session.Session, restart func() error) error {
	input := make(chan string)
	go func() {
		defer close(input)

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			input <- scanner.Text()
		}
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	prompted := false
	for {
		if game.State() == session.Over {
			fmt.Printf("\n\x1b[92m%s\x1b[0m\n", describeResult(game))
			return nil
		}

		if game.IsHumanTurn() && !prompted {
			fmt.Printf("%s> ", game.Turn())
			prompted = true
		}

		select {
		case line, ok := <-input:
			if !ok {
				return nil
			}

			prompted = false
			switch strings.TrimSpace(line) {
			case "":
			case "quit", "exit":
				return nil
			case "board":
				last, _ := game.LastMove()
				fmt.Print(renderBoard(game.Position(), last))
			case "moves":
				fmt.Println(formatMoves(game.Moves()))
			case "restart":
				if err := game.Restart(); err != nil {
					return err
				}
				if err := restart(); err != nil {
					return err
				}
			default:
				humanMove(game, line)
			}

		case <-ticker.C:
			game.Tick()
		}
	}
}

// humanMove plays the move typed by the user.
func humanMove(game *session.Session, line string) {
	if !game.IsHumanTurn() {
		fmt.Println("\x1b[31mNot your turn.\x1b[0m")
		return
	}

	m, ok := parseInput(line)
	if !ok {
		fmt.Printf("\x1b[31mCan't read move %q.\x1b[0m\n", line)
		return
	}

	var played bool
	if m.Promotion == codec.NoPiece {
		played = game.AttemptMove(m.From, m.To)
	} else {
		played = game.Play(m)
	}

	if !played {
		fmt.Printf("\x1b[31mIllegal move %s.\x1b[0m\n", m)
	}
}

func printMove(game *session.Session, event session.Event) {
	fmt.Printf("\n%s plays \x1b[92m%s\x1b[0m", event.Side, event.Move)
	if t := game.EngineTime(); t > 0 && game.IsAutomated(event.Side) {
		fmt.Printf(" (engine time: %.4f sec)", t.Seconds())
	}
	fmt.Println()

	fmt.Print(renderBoard(game.Position(), event.Move))
}

func formatMoves(moves []codec.Move) string {
	var b strings.Builder
	for i, m := range moves {
		if i%2 == 0 {
			fmt.Fprintf(&b, "%d. ", i/2+1)
		}
		fmt.Fprintf(&b, "%s ", m)
	}

	return strings.TrimSpace(b.String())
}
