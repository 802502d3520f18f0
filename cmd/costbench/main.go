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


// costbench measures the cost of the primitive operations of the VM
// with the tree-walking interpreter or through WebAssembly.
package main

import (
	"context"
	"os"
	"os/signal"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/onflow/cadence-benchmarking/config"
)

func main() {
	// the benchmark sampler runs outside of a test binary
	testing.Init()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		printError(root.ErrOrStderr(), err)
		os.Exit(1)
	}
}

type globalOptions struct {
	configFile string
	noColor    bool
}

func newRootCmd() *cobra.Command {
	options := &globalOptions{}

	root := &cobra.Command{
		Use:   "costbench",
		Short: "Cost benchmarks for the primitive operations of the VM",
		Long: `costbench generates programs exercising each primitive operation of the VM
at a range of input sizes, runs them against a warmed chain state,
and reports the sampled cost of each sweep point.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&options.configFile, "config", "",
		"Path to the configuration file (default: ./costbench.yaml, if present)")
	flags.BoolVar(&options.noColor, "no-color", false,
		"Disable colored output")

	root.AddCommand(
		newRunCmd(options),
		newBootstrapCmd(options),
		newGenerateCmd(options),
		newListCmd(options),
		newCompareCmd(options),
		newReportCmd(options),
		newDumpCmd(options),
	)

	return root
}

// loadConfig loads the configuration, overridden by the flags of the command.
func loadConfig(cmd *cobra.Command, options *globalOptions) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(config.LoadOptions{
		File:  options.configFile,
		Flags: cmd.Flags(),
	})
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	if options.noColor {
		cfg.Log.Format = "json"
	}

	logger := cfg.NewLogger(cmd.ErrOrStderr())
	return cfg, logger, nil
}
