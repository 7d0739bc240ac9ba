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

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/gambit/pkg/manager"
)

// gambit install
func Install() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install { library owner/library git-url }[@version]",
		Short: "Fetch and build a native engine library",
		Args:  cobra.ExactArgs(1),
		Long: heredoc.Doc(`install fetches the source of a native engine library and
			builds it into the library directory, where gambit finds it
			by name.

			The formats supported for the library are <name>,
			<owner>/<name> (for libraries on github), or a full <url> to
			a git repository. The <name> format is only supported for
			libraries which have been installed before.

			The version may be "stable" (the latest tag, the default),
			"latest" (the newest commit) or the name of a tag.

			Libraries are built with CMake or an exported Makefile target
			if the repository has one, or else by compiling the C++
			sources under src/ into a shared library.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, tag, hasTag := strings.Cut(args[0], "@")
			if !hasTag {
				tag = "stable"
			}

			m, err := manager.Default()
			if err != nil {
				return err
			}

			library, err := m.NewLibrary(source)
			if err != nil {
				return err
			}

			logrus.WithField("library", library.Name).Debug("Installing library")
			fmt.Printf("\x1b[92mInstalling Library:\x1b[0m %s by %s\n\n", library.Name, library.Author)

			if err := library.Fetch(); err != nil {
				return err
			}

			version, err := library.ResolveVersion(tag)
			if err != nil {
				return err
			}

			force, _ := cmd.Flags().GetBool("force")
			if library.Installed(version.Name) && !force {
				fmt.Printf("Library \x1b[32m%s %s\x1b[0m is already installed.\n", library.Name, version.Name)
				return nil
			}

			return m.Install(library, version)
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Force a re-installation of the library")
	return cmd
}
