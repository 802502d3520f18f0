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
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/onflow/cadence-benchmarking/chainstate"
	"github.com/onflow/cadence-benchmarking/config"
	"github.com/onflow/cadence-benchmarking/driver"
	"github.com/onflow/cadence-benchmarking/evaluator"
	"github.com/onflow/cadence-benchmarking/generator"
	"github.com/onflow/cadence-benchmarking/headers"
	"github.com/onflow/cadence-benchmarking/report"
)

func addSweepFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("backend", "", "Backend: interpreter or wasm")
	flags.Uint64("scale", 0, "Number of applications of the operation per program")
	flags.IntSlice("sizes", nil, "Input sizes")
	flags.StringSlice("operations", nil, "Operations or families (default: all)")
	flags.Uint64("seed", 0, "Random seed (0 = from entropy)")
	flags.String("sampler", "", "Sampler: benchmark or fixed")
	flags.Int("rounds", 0, "Number of sampled rounds per case")
	flags.String("output", "", "Output directory")
	flags.StringSlice("formats", nil, "Output formats: json, pprof, html")
}

func addStoreFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Uint64("state-scale", 0, "Number of keys of the warmed store")
	flags.Bool("memory", false, "Run each case on an in-memory store")
	flags.String("cache-dir", "", "Directory of the warmed store cache")
	flags.String("headers", "", "Path of the SQLite header database (default: derived headers)")
	flags.String("log-level", "", "Log level")
}

func newRunCmd(options *globalOptions) *cobra.Command {
	var planPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Measure sweeps of operations and sizes",
		Long: `Measure each configured operation at each configured size.

Without --plan, one sweep is run from the configuration and flags.
With --plan, the sweeps of the plan are run in order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd, options)
			if err != nil {
				return err
			}

			sweeps, err := resolveSweeps(cfg, planPath)
			if err != nil {
				return err
			}

			return runSweeps(cmd, cfg, logger, sweeps, options.noColor)
		},
	}

	cmd.Flags().StringVar(&planPath, "plan", "", "Path of a YAML sweep plan")
	addSweepFlags(cmd)
	addStoreFlags(cmd)

	return cmd
}

func resolveSweeps(cfg *config.Config, planPath string) ([]driver.Sweep, error) {
	if planPath == "" {
		sweep, err := cfg.Sweep()
		if err != nil {
			return nil, err
		}
		return []driver.Sweep{sweep}, nil
	}

	plan, err := config.ReadPlan(planPath)
	if err != nil {
		return nil, err
	}
	return plan.Resolve(cfg)
}

func newGenerator(cfg *config.Config) *generator.Generator {
	random := generator.NewRandom()
	if cfg.Seed != 0 {
		random = generator.NewSeededRandom(cfg.Seed)
	}
	return generator.New(generator.NewFixtures(), random)
}

func newBootstrapper(cfg *config.Config, logger zerolog.Logger, progress io.Writer) *chainstate.Bootstrapper {
	return &chainstate.Bootstrapper{
		CacheDir:   cfg.Store.CacheDir,
		ScratchDir: cfg.Store.ScratchDir,
		Blocks:     max(cfg.Store.Blocks, len(chainstate.TraitContracts())),
		BlockKeys:  cfg.Store.BlockKeys,
		Deployer:   evaluator.NewDeployer(),
		Progress:   progress,
		Logger:     logger,
	}
}

// openHeaders returns the header oracle of the configuration.
// Blocks committed by the bootstrapper are recorded in the SQLite database.
func openHeaders(cfg *config.Config, bootstrapper *chainstate.Bootstrapper) (headers.Oracle, func() error, error) {
	if cfg.Headers == "" {
		return headers.DerivedOracle{}, func() error { return nil }, nil
	}

	oracle, err := headers.OpenSQLiteOracle(cfg.Headers)
	if err != nil {
		return nil, nil, err
	}

	if bootstrapper != nil {
		bootstrapper.OnBlock = oracle.RecordBlock
	}

	return oracle, oracle.Close, nil
}

func runSweeps(
	cmd *cobra.Command,
	cfg *config.Config,
	logger zerolog.Logger,
	sweeps []driver.Sweep,
	noColor bool,
) (err error) {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	au := colorizer(noColor)

	bridgeConfig, err := cfg.BridgeConfig(logger)
	if err != nil {
		return err
	}

	d := driver.New(newGenerator(cfg), cfg.NewSampler())
	d.StateScale = cfg.StateScale
	d.BridgeConfig = bridgeConfig
	d.Logger = logger

	if !cfg.Store.Memory {
		d.Bootstrapper = newBootstrapper(cfg, logger, cmd.ErrOrStderr())
	}

	oracle, closeHeaders, err := openHeaders(cfg, d.Bootstrapper)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := closeHeaders()
		if err == nil {
			err = closeErr
		}
	}()
	d.Headers = oracle

	d.OnResult = func(result *driver.Result) {
		c := report.NewCase(result)
		status := au.Green(fmt.Sprintf("%-4s", "ok"))
		if !c.Succeeded() {
			status = au.Red("FAIL")
		}
		_, _ = fmt.Fprintf(
			out,
			"%s %-20s %6d  %s\n",
			status,
			c.Operation,
			c.Size,
			caseSummary(c),
		)
	}

	for _, sweep := range sweeps {
		result, err := d.Run(ctx, sweep)
		if err != nil {
			return err
		}

		r := report.New(result)
		err = writeOutputs(cfg, r, logger)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(out, report.Tree(r).String())
	}

	return nil
}

func caseSummary(c *report.Case) string {
	if !c.Succeeded() {
		return c.Error
	}
	return fmt.Sprintf(
		"%12.1f ns/op  %10.2f ns/unit  %6d allocs/op",
		c.Summary.Center,
		c.NsPerUnit(),
		c.AllocsPerOp,
	)
}

// writeOutputs writes the report in each configured format to the output directory.
func writeOutputs(cfg *config.Config, r *report.Report, logger zerolog.Logger) error {
	if len(cfg.Output.Formats) == 0 {
		return nil
	}

	err := os.MkdirAll(cfg.Output.Dir, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	base := filepath.Join(
		cfg.Output.Dir,
		fmt.Sprintf("%s-%s", r.Backend, r.Created.Format("20060102-150405")),
	)

	for _, format := range cfg.Output.Formats {
		var path string
		var write func(w io.Writer) error

		switch format {
		case "json":
			path = base + ".json"
			write = func(w io.Writer) error {
				return report.WriteJSON(w, r, report.JSONOptions{Indent: true})
			}
		case "pprof":
			path = base + ".pb.gz"
			write = func(w io.Writer) error {
				return report.WriteProfile(w, r)
			}
		case "html":
			path = base + ".html"
			write = func(w io.Writer) error {
				return report.WriteCharts(w, r)
			}
		default:
			continue
		}

		err := writeFile(path, write)
		if err != nil {
			return err
		}

		logger.Info().
			Str("path", path).
			Msg("wrote report")
	}

	return nil
}

func writeFile(path string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := f.Close()
		if err == nil {
			err = closeErr
		}
	}()

	return write(f)
}
