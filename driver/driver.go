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

package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/onflow/cadence-benchmarking/bridge"
	"github.com/onflow/cadence-benchmarking/chainstate"
	"github.com/onflow/cadence-benchmarking/evaluator"
	"github.com/onflow/cadence-benchmarking/generator"
	"github.com/onflow/cadence-benchmarking/headers"
)

var tracer = otel.Tracer("github.com/onflow/cadence-benchmarking/driver")

// Sweep is a set of sweep points: each operation is measured at each size.
type Sweep struct {
	Operations []generator.Operation
	Sizes      []uint64
	Scale      uint64
	Backend    Backend
}

// Result is the outcome of a case.
type Result struct {
	Spec       generator.WorkloadSpec
	Backend    Backend
	Throughput uint64
	Samples    *Samples
	// State is the final state of the case: StateReported or StateFailed.
	State    State
	Err      error
	Duration time.Duration
}

func (r *Result) Succeeded() bool {
	return r.State == StateReported
}

// SweepResult holds the results of a sweep, in sweep order.
type SweepResult struct {
	Sweep   Sweep
	Results []*Result
	// Measured records, per operation, the indices of the sizes which were measured successfully.
	Measured map[generator.Operation]*bitset.BitSet
}

// Complete returns true if the operation was measured at all sizes of the sweep.
func (r *SweepResult) Complete(operation generator.Operation) bool {
	measured, ok := r.Measured[operation]
	return ok && measured.All()
}

// Failed returns the results of the failed cases.
func (r *SweepResult) Failed() []*Result {
	var failed []*Result
	for _, result := range r.Results {
		if !result.Succeeded() {
			failed = append(failed, result)
		}
	}
	return failed
}

// Driver runs sweeps, one case at a time.
type Driver struct {
	Generator *generator.Generator
	// Bootstrapper provides a scratch copy of the warmed store for each case.
	// If nil, each case runs on an in-memory store with the trait contracts deployed.
	Bootstrapper *chainstate.Bootstrapper
	// StateScale is the scale of the warmed store.
	StateScale   uint64
	Headers      headers.Oracle
	Sampler      Sampler
	BridgeConfig bridge.Config
	Logger       zerolog.Logger
	// OnResult is called after each case
	OnResult func(result *Result)
}

func New(g *generator.Generator, sampler Sampler) *Driver {
	return &Driver{
		Generator:    g,
		Sampler:      sampler,
		BridgeConfig: bridge.DefaultConfig(),
		Logger:       zerolog.Nop(),
	}
}

// Run measures all sweep points.
//
// A failing case is recorded in its result and the sweep continues.
// Generation and bootstrap failures abort the sweep.
func (d *Driver) Run(ctx context.Context, sweep Sweep) (*SweepResult, error) {
	result := &SweepResult{
		Sweep:    sweep,
		Measured: map[generator.Operation]*bitset.BitSet{},
	}

	for _, operation := range sweep.Operations {
		measured := bitset.New(uint(len(sweep.Sizes)))
		result.Measured[operation] = measured

		for index, size := range sweep.Sizes {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			spec := generator.WorkloadSpec{
				Operation: operation,
				Scale:     sweep.Scale,
				Size:      size,
			}

			caseResult, err := d.RunCase(ctx, spec, sweep.Backend)
			if err != nil {
				return result, err
			}

			result.Results = append(result.Results, caseResult)
			if caseResult.Succeeded() {
				measured.Set(uint(index))
			}

			if d.OnResult != nil {
				d.OnResult(caseResult)
			}
		}
	}

	return result, nil
}

// RunCase generates the workload of the spec and measures it through the backend.
// The returned error is only set if the workload cannot be generated or the store cannot be opened.
func (d *Driver) RunCase(ctx context.Context, spec generator.WorkloadSpec, backend Backend) (_ *Result, err error) {
	ctx, span := tracer.Start(
		ctx,
		"case",
		trace.WithAttributes(
			attribute.String("operation", spec.Operation.String()),
			attribute.Int64("scale", int64(spec.Scale)),
			attribute.Int64("size", int64(spec.Size)),
			attribute.String("backend", backend.String()),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	start := time.Now()

	workload, err := d.Generator.Generate(spec)
	if err != nil {
		return nil, err
	}

	store, err := d.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		closeErr := store.Close()
		if err == nil {
			err = closeErr
		}
	}()

	c := NewCase(workload, backend)
	c.Headers = d.Headers
	c.BridgeConfig = d.BridgeConfig
	c.Logger = d.Logger.With().
		Str("operation", spec.Operation.String()).
		Uint64("size", spec.Size).
		Logger()
	defer c.Close()

	result := &Result{
		Spec:       spec,
		Backend:    backend,
		Throughput: workload.Throughput,
	}

	err = c.Prepare(store)
	if err == nil {
		result.Samples, err = c.Measure(d.Sampler)
	}

	result.State = c.State()
	result.Err = c.Err()
	result.Duration = time.Since(start)

	if result.Err != nil {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, result.Err.Error())

		d.Logger.Warn().
			Err(result.Err).
			Str("operation", spec.Operation.String()).
			Uint64("size", spec.Size).
			Str("backend", backend.String()).
			Msg("case failed")
	} else {
		d.Logger.Info().
			Str("operation", spec.Operation.String()).
			Uint64("size", spec.Size).
			Str("backend", backend.String()).
			Int("iterations", result.Samples.Iterations).
			Dur("duration", result.Duration).
			Msg("case measured")
	}

	return result, nil
}

func (d *Driver) openStore(ctx context.Context) (*chainstate.Store, error) {
	if d.Bootstrapper != nil {
		return d.Bootstrapper.Bootstrap(ctx, d.StateScale)
	}

	store, err := chainstate.OpenMemory()
	if err != nil {
		return nil, err
	}

	bootstrapper := &chainstate.Bootstrapper{
		Blocks:   len(chainstate.TraitContracts()),
		Deployer: evaluator.NewDeployer(),
		Logger:   d.Logger,
	}
	err = bootstrapper.Populate(store, d.StateScale)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to populate in-memory store: %w", err)
	}

	return store, nil
}
