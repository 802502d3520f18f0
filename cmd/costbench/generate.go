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
	"strings"

	"github.com/onflow/cadence/common"
	"github.com/spf13/cobra"
	"github.com/turbolent/prettier"

	"github.com/onflow/cadence-benchmarking/evaluator"
	"github.com/onflow/cadence-benchmarking/generator"
)

const maxLineWidth = 100

func newGenerateCmd(options *globalOptions) *cobra.Command {
	var (
		size  uint64
		scale uint64
		seed  uint64
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "generate <operation>",
		Short: "Print the program generated for an operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			operation, err := generator.ParseOperation(args[0])
			if err != nil {
				return err
			}

			random := generator.NewRandom()
			if seed != 0 {
				random = generator.NewSeededRandom(seed)
			}

			workload, err := generator.New(nil, random).Generate(generator.WorkloadSpec{
				Operation: operation,
				Scale:     scale,
				Size:      size,
			})
			if err != nil {
				return err
			}

			source := workload.Source()
			if !raw {
				source, err = prettySource(source)
				if err != nil {
					return err
				}
			}

			au := colorizer(options.noColor)

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s\n", au.Faint(fmt.Sprintf(
				"// %s, throughput %d",
				workload.Spec,
				workload.Throughput,
			)))
			_, err = fmt.Fprintln(out, source)
			return err
		},
	}

	flags := cmd.Flags()
	flags.Uint64Var(&size, "size", 1, "Input size")
	flags.Uint64Var(&scale, "scale", 1, "Number of applications of the operation")
	flags.Uint64Var(&seed, "seed", 0, "Random seed (0 = from entropy)")
	flags.BoolVar(&raw, "raw", false, "Print the program as generated")

	return cmd
}

// prettySource parses the source and formats its declarations.
func prettySource(source string) (string, error) {
	program, err := evaluator.Parse(common.StringLocation("generated"), []byte(source))
	if err != nil {
		return "", err
	}

	declarations := program.Declarations()
	docs := make([]prettier.Doc, 0, len(declarations)*2)

	for _, declaration := range declarations {
		hasDoc, ok := declaration.(interface{ Doc() prettier.Doc })
		if !ok {
			continue
		}
		if len(docs) > 0 {
			docs = append(docs, prettier.HardLine{}, prettier.HardLine{})
		}
		docs = append(docs, hasDoc.Doc())
	}

	var b strings.Builder
	prettier.Prettier(&b, prettier.Concat(docs), maxLineWidth, "    ")
	return b.String(), nil
}
