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
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Gobot1234/blacken-docs/internal/driver"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	pathStyle  = color.New(color.Bold)
)

func run(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	diff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	skipErrors, err := cmd.Flags().GetBool("skip-errors")
	if err != nil {
		return err
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	switch colorMode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
	default:
		return fmt.Errorf("unsupported color mode %q", colorMode)
	}

	setup, err := loadSetup(configPath)
	if err != nil {
		return err
	}

	results, err := driver.FormatPaths(cmd.Context(), args, driver.FormatOptions{
		Check:      check,
		Diff:       diff,
		Jobs:       jobs,
		Extensions: setup.extensions,
		Registry:   setup.registry,
		Scan:       setup.scan,
	})
	if err != nil {
		return err
	}

	changed, failed, unchanged := renderResults(results, check, quiet)
	if !quiet {
		printSummary(changed, failed, unchanged, check)
	}

	switch {
	case failed > 0 && !skipErrors:
		exitStatus = 123
	case changed > 0:
		exitStatus = 1
	}
	return nil
}

func renderResults(results []driver.FormatResult, check, quiet bool) (changed, failed, unchanged int) {
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s %s: %v\n", errorLabel.Sprint("error:"), res.Path, res.Err)
			continue
		}
		if len(res.Blocks) > 0 {
			failed++
			for _, be := range res.Blocks {
				fmt.Fprintf(os.Stderr, "%s %s:%d: code block parse error: %v\n",
					errorLabel.Sprint("error:"), res.Path, be.Line, be.Err)
			}
			if !res.Changed {
				continue
			}
		}

		if !res.Changed {
			unchanged++
			continue
		}
		changed++
		if res.Diff != "" {
			fmt.Fprint(os.Stdout, res.Diff)
			continue
		}
		if quiet {
			continue
		}
		if check {
			fmt.Fprintf(os.Stdout, "would reformat %s\n", pathStyle.Sprint(res.Path))
		} else {
			fmt.Fprintf(os.Stdout, "reformatted %s\n", pathStyle.Sprint(res.Path))
		}
	}
	return changed, failed, unchanged
}

func printSummary(changed, failed, unchanged int, check bool) {
	if failed > 0 {
		fmt.Fprintln(os.Stderr, "Oh no! \U0001F4A5 \U0001F494 \U0001F4A5")
	} else {
		fmt.Fprintln(os.Stdout, "All done! ✨ \U0001F370 ✨")
	}
	verb := "reformatted"
	if check {
		verb = "would be reformatted"
	}
	fmt.Fprintf(os.Stdout, "%s %s, %s left unchanged, %s failed to reformat.\n",
		plural(changed, "file"), verb, plural(unchanged, "file"), plural(failed, "file"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
