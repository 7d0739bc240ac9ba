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
	"sort"

	"github.com/spf13/cobra"

	"laptudirm.com/x/gambit/pkg/manager"
)

// gambit libraries
func Libraries() *cobra.Command {
	return &cobra.Command{
		Use:   "libraries",
		Short: "Lists the installed libraries and their versions",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manager.Default()
			if err != nil {
				return err
			}

			names := make([]string, 0, len(m.Registry))
			for name, info := range m.Registry {
				if len(info.Versions) > 0 {
					names = append(names, name)
				}
			}

			if len(names) == 0 {
				fmt.Println("\x1b[31mNo Libraries Installed.\x1b[0m")
				return nil
			}

			sort.Strings(names)
			fmt.Printf("\x1b[32mInstalled Libraries\x1b[0m (%s):\n\n", m.LibraryDirectory)

			for _, name := range names {
				info := m.Registry[name]

				versions := ""
				for _, version := range info.Versions {
					if version == info.Current {
						versions = "\x1b[33m" + version + "\x1b[0m " + versions
					} else {
						versions += version + " "
					}
				}

				fmt.Printf("- %-20s %s\n", fmt.Sprintf("\x1b[34m%s\x1b[0m:", name), versions)
			}

			return nil
		},
	}
}
