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
	"github.com/spf13/cobra"

	"laptudirm.com/x/gambit/pkg/config"
)

// engineFlags registers the flags which override the configuration.
func engineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("library", "l", "", "Name or path of the native engine library")
	cmd.Flags().Duration("think-time", 0, "Minimum delay before an automated move")
	cmd.Flags().Duration("time-budget", 0, "Search time advised to engines")
	cmd.Flags().Bool("async", false, "Run engine searches on a worker goroutine")
}

// loadConfig reads the configuration file and applies the command's
// flags on top of it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := config.File
	if flag := cmd.Flag("config"); flag != nil && flag.Value.String() != "" {
		path = flag.Value.String()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("library") {
		cfg.Library, _ = flags.GetString("library")
	}
	if flags.Changed("think-time") {
		cfg.ThinkTime, _ = flags.GetDuration("think-time")
	}
	if flags.Changed("time-budget") {
		cfg.TimeBudget, _ = flags.GetDuration("time-budget")
	}
	if flags.Changed("async") {
		cfg.Async, _ = flags.GetBool("async")
	}

	return cfg, cfg.Validate()
}
