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
	"fmt"
	"testing"
	"time"
)

// RunOnceFunc runs the measured function of a case once.
type RunOnceFunc func() error

// Samples is the sampled cost of a case.
type Samples struct {
	// NsPerOp holds one sample per round: the mean duration of a run-once call, in nanoseconds.
	NsPerOp []float64
	// Iterations is the total number of run-once calls.
	Iterations int
	// AllocsPerOp and AllocedBytesPerOp are the mean allocations of a run-once call, over all rounds.
	AllocsPerOp       int64
	AllocedBytesPerOp int64
}

// Sampler repeatedly invokes a run-once function and samples its duration.
// Throughput is the declared unit of work of a run-once call.
type Sampler interface {
	Sample(throughput uint64, runOnce RunOnceFunc) (*Samples, error)
}

// BenchmarkSampler samples with the benchmark machinery of the testing package:
// each round is one testing.Benchmark, in which each iteration calls the run-once function
// Repetitions times, amplifying cheap calls relative to the timer resolution.
//
// When used outside of a test binary, testing.Init must be called first.
type BenchmarkSampler struct {
	Rounds      int
	Repetitions int
}

var _ Sampler = BenchmarkSampler{}

func (s BenchmarkSampler) Sample(throughput uint64, runOnce RunOnceFunc) (*Samples, error) {
	rounds := max(s.Rounds, 1)
	repetitions := max(s.Repetitions, 1)

	samples := &Samples{
		NsPerOp: make([]float64, 0, rounds),
	}

	var allocs, allocedBytes uint64

	for round := 0; round < rounds; round++ {
		var runErr error

		result := testing.Benchmark(func(b *testing.B) {
			b.SetBytes(int64(throughput) * int64(repetitions))
			b.ReportAllocs()

			for b.Loop() {
				for i := 0; i < repetitions; i++ {
					err := runOnce()
					if err != nil {
						runErr = err
						b.FailNow()
					}
				}
			}
		})

		if runErr != nil {
			return nil, runErr
		}
		if result.N == 0 {
			return nil, fmt.Errorf("round %d did not run", round)
		}

		calls := result.N * repetitions
		samples.NsPerOp = append(
			samples.NsPerOp,
			float64(result.T.Nanoseconds())/float64(calls),
		)
		samples.Iterations += calls
		allocs += result.MemAllocs
		allocedBytes += result.MemBytes
	}

	if samples.Iterations > 0 {
		samples.AllocsPerOp = int64(allocs / uint64(samples.Iterations))
		samples.AllocedBytesPerOp = int64(allocedBytes / uint64(samples.Iterations))
	}

	return samples, nil
}

// FixedSampler calls the run-once function a fixed number of times per round
// and times each round with the wall clock.
type FixedSampler struct {
	Rounds     int
	Iterations int
}

var _ Sampler = FixedSampler{}

func (s FixedSampler) Sample(_ uint64, runOnce RunOnceFunc) (*Samples, error) {
	rounds := max(s.Rounds, 1)
	iterations := max(s.Iterations, 1)

	samples := &Samples{
		NsPerOp: make([]float64, 0, rounds),
	}

	for round := 0; round < rounds; round++ {
		start := time.Now()
		for i := 0; i < iterations; i++ {
			err := runOnce()
			if err != nil {
				return nil, err
			}
		}
		elapsed := time.Since(start)

		samples.NsPerOp = append(
			samples.NsPerOp,
			float64(elapsed.Nanoseconds())/float64(iterations),
		)
		samples.Iterations += iterations
	}

	return samples, nil
}
