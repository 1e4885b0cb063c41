// Copyright 2026 The dovecot-core Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command cfgdump parses a settings file tree and dumps the resulting
// stream of assignment and section events. It does not validate settings
// against a SettingDef table.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/tphelps/dovecot-core/cfgparser"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var section string
	var verbose bool

	root := &cobra.Command{
		Use:   "cfgdump <file>",
		Short: "Parse a settings file and print its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var logger *log.Logger
			if verbose {
				logger = log.New(cmd.ErrOrStderr(), "", 0)
			}

			depth := 0
			opts := cfgparser.Options{
				Section: section,
				Logger:  logger,
				KV: func(key, value string, quoted bool) error {
					fmt.Fprintf(cmd.OutOrStdout(), "%*s%s = %q\n", depth*2, "", key, value)
					return nil
				},
				Sect: func(sectionType, name string, close bool) (bool, error) {
					if close {
						depth--
						fmt.Fprintf(cmd.OutOrStdout(), "%*s}\n", depth*2, "")
						return true, nil
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%*s%s %s {\n", depth*2, "", sectionType, name)
					depth++
					return true, nil
				},
			}

			if err := cfgparser.Parse(path, opts); err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			return nil
		},
	}

	root.Flags().StringVar(&section, "section", "", "dump only the named section path (A/B/C)")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "print parser warnings to stderr")

	return root
}
