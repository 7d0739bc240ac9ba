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
	"strings"

	"github.com/spf13/cobra"

	"laptudirm.com/x/gambit/pkg/manager"
)

// gambit remove
func Remove() *cobra.Command {
	return &cobra.Command{
		Use:   "remove library[@version]",
		Short: "Uninstall a native engine library",
		Args:  cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			name, version, _ := strings.Cut(args[0], "@")

			m, err := manager.Default()
			if err != nil {
				return err
			}

			library, err := m.NewLibrary(name)
			if err != nil {
				return err
			}

			if version != "" && !library.Installed(version) {
				fmt.Printf("Library \x1b[32m%s %s\x1b[0m is not installed.\n", library.Name, version)
				return nil
			}

			fmt.Printf("\x1b[32mUninstalling Library:\x1b[0m %s %s\n", library.Name, version)
			return m.Uninstall(library, version)
		},
	}
}
