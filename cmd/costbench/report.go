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
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/onflow/cadence-benchmarking/report"
)

func newReportCmd(options *globalOptions) *cobra.Command {
	var (
		query     string
		fit       bool
		function  string
		pprofPath string
		htmlPath  string
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "report <report.json>",
		Short: "Inspect, query and export a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := readReport(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			switch {
			case query != "":
				results, err := report.Query(r, query)
				if err != nil {
					return err
				}
				for _, result := range results {
					data, err := json.Marshal(result)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintln(out, string(data))
				}

			case fit:
				err = printFits(out, r, function)
				if err != nil {
					return err
				}

			case jsonOut:
				err = report.WriteJSON(out, r, report.JSONOptions{
					Indent: true,
					Color:  !options.noColor,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out)

			default:
				_, _ = fmt.Fprint(out, report.Tree(r).String())
			}

			if pprofPath != "" {
				err = writeFile(pprofPath, func(w io.Writer) error {
					return report.WriteProfile(w, r)
				})
				if err != nil {
					return err
				}
			}

			if htmlPath != "" {
				err = writeFile(htmlPath, func(w io.Writer) error {
					return report.WriteCharts(w, r)
				})
				if err != nil {
					return err
				}
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&query, "query", "", "jq query to evaluate against the report")
	flags.BoolVar(&fit, "fit", false, "Fit cost functions to the measured sizes of each operation")
	flags.StringVar(&function, "function", "", "Cost function to fit: linear, logn or nlogn (default: best fit)")
	flags.StringVar(&pprofPath, "pprof", "", "Write a pprof profile to the path")
	flags.StringVar(&htmlPath, "html", "", "Write HTML charts to the path")
	flags.BoolVar(&jsonOut, "json", false, "Print the report as JSON")

	return cmd
}

func printFits(out io.Writer, r *report.Report, functionName string) error {
	var fits []*report.Fit

	if functionName == "" {
		fits = report.FitAll(r)
	} else {
		function, err := report.ParseCostFunction(functionName)
		if err != nil {
			return err
		}
		for _, operation := range r.Operations() {
			fit, err := report.FitCost(r, operation, function)
			if err != nil {
				continue
			}
			fits = append(fits, fit)
		}
	}

	for _, fit := range fits {
		_, err := fmt.Fprintf(
			out,
			"%-20s %-6s a=%.4f b=%.4f r2=%.4f\n",
			fit.Operation,
			fit.Function,
			fit.A,
			fit.B,
			fit.RSquared,
		)
		if err != nil {
			return err
		}
	}

	return nil
}
