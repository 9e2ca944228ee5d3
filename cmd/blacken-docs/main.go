// Copyright 2024 The blacken-docs Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blacken-docs [flags] <path> [path...]",
	Short: "Format code blocks embedded in documentation files",
	Long: `blacken-docs finds fenced code blocks, code directives, and doctest
snippets in Markdown and reStructuredText files, rewrites the code inside
each block with the formatter registered for the block's language, and
leaves the surrounding prose untouched.

The exit status is 0 when nothing changed, 1 when any file was (or, with
--check, would be) reformatted, and 123 when a code block or file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

// exitStatus is the overall run outcome, set by run.
var exitStatus int

func init() {
	rootCmd.Flags().Bool("check", false, "report files whose blocks would change without rewriting them")
	rootCmd.Flags().Bool("diff", false, "print a unified diff for each file instead of rewriting it")
	rootCmd.Flags().BoolP("skip-errors", "E", false, "do not fail the run when a code block cannot be parsed")
	rootCmd.Flags().String("config", "", "path to a blacken-docs.toml configuration file")
	rootCmd.Flags().IntP("jobs", "j", 1, "number of files to process concurrently")
	rootCmd.Flags().BoolP("quiet", "q", false, "suppress per-file output")
	rootCmd.Flags().String("color", "auto", "colorize output (auto|on|off)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
	os.Exit(exitStatus)
}
