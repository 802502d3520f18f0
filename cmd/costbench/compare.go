/*
 * Cadence - The resource-oriented smart contract programming language
 *
 * Copyright Flow Foundation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/onflow/cadence-benchmarking/report"
)

func readReport(path string) (_ *report.Report, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		closeErr := f.Close()
		if err == nil {
			err = closeErr
		}
	}()

	return report.ReadJSON(f)
}

func newCompareCmd(options *globalOptions) *cobra.Command {
	var diff bool

	cmd := &cobra.Command{
		Use:   "compare <before.json> <after.json>",
		Short: "Compare the costs of two reports",
		Long: `Compare the costs of the cases measured in both reports.

A change is only reported if the samples are unlikely to be drawn from the same distribution.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := readReport(args[0])
			if err != nil {
				return err
			}
			after, err := readReport(args[1])
			if err != nil {
				return err
			}

			au := colorizer(options.noColor)
			out := cmd.OutOrStdout()

			for _, comparison := range report.Compare(before, after) {
				delta := au.Faint(comparison.FormattedDelta())
				if comparison.Significant {
					if comparison.Delta > 0 {
						delta = au.Red(comparison.FormattedDelta())
					} else {
						delta = au.Green(comparison.FormattedDelta())
					}
				}

				_, _ = fmt.Fprintf(
					out,
					"%-20s %6d  %12.1f ns/op  %12.1f ns/op  %s (p=%.3f)\n",
					comparison.Operation,
					comparison.Size,
					comparison.Old.Center,
					comparison.New.Center,
					delta,
					comparison.P,
				)
			}

			if !diff {
				return nil
			}

			match, outcomeDiff, err := report.Diff(before, after)
			if err != nil {
				return err
			}
			if match {
				_, err = fmt.Fprintln(out, au.Green("outcomes match"))
				return err
			}
			_, err = fmt.Fprintln(out, outcomeDiff)
			return err
		},
	}

	cmd.Flags().BoolVar(&diff, "diff", false, "Also print the differences of case outcomes")

	return cmd
}
