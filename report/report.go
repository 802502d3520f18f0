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


package report

import (
	"math"
	"slices"
	"time"

	"golang.org/x/perf/benchmath"

	"github.com/onflow/cadence-benchmarking/driver"
	"github.com/onflow/cadence-benchmarking/generator"
)

// Confidence is the confidence level of the summary intervals.
const Confidence = 0.95

// Assumption is the distributional assumption of summaries and comparisons.
// Samples of a case are few and timing noise is skewed, so nothing is assumed.
var Assumption = benchmath.AssumeNothing

// Report is the serializable outcome of a sweep.
type Report struct {
	Backend string    `json:"backend"`
	Scale   uint64    `json:"scale"`
	Sizes   []uint64  `json:"sizes"`
	Created time.Time `json:"created"`
	Cases   []*Case   `json:"cases"`
}

// Case is the outcome of one sweep point.
type Case struct {
	Operation  string `json:"operation"`
	Family     string `json:"family"`
	Size       uint64 `json:"size"`
	Throughput uint64 `json:"throughput"`
	State      string `json:"state"`
	Error      string `json:"error,omitempty"`
	// NsPerOp holds one sample per round
	NsPerOp           []float64 `json:"nsPerOp,omitempty"`
	Summary           *Summary  `json:"summary,omitempty"`
	Iterations        int       `json:"iterations,omitempty"`
	AllocsPerOp       int64     `json:"allocsPerOp,omitempty"`
	AllocedBytesPerOp int64     `json:"allocedBytesPerOp,omitempty"`
	DurationNs        int64     `json:"durationNs"`
}

// Succeeded returns true if the case was measured.
func (c *Case) Succeeded() bool {
	return c.Summary != nil
}

// NsPerUnit returns the center of the summary divided by the throughput.
func (c *Case) NsPerUnit() float64 {
	if c.Summary == nil || c.Throughput == 0 {
		return 0
	}
	return c.Summary.Center / float64(c.Throughput)
}

// Summary is the central tendency of the samples of a case, with its confidence interval.
type Summary struct {
	Center     float64  `json:"center"`
	Lo         float64  `json:"lo"`
	Hi         float64  `json:"hi"`
	Confidence float64  `json:"confidence"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Summarize summarizes the samples.
// It returns nil if there are no samples.
func Summarize(values []float64) *Summary {
	if len(values) == 0 {
		return nil
	}

	// samples are sorted in place
	sample := benchmath.NewSample(slices.Clone(values), &benchmath.DefaultThresholds)
	summary := Assumption.Summary(sample, Confidence)

	result := &Summary{
		Center:     summary.Center,
		Lo:         summary.Lo,
		Hi:         summary.Hi,
		Confidence: summary.Confidence,
	}

	// too few samples for the interval: fall back to the sample range
	if math.IsInf(result.Lo, 0) || math.IsNaN(result.Lo) {
		result.Lo = sample.Values[0]
	}
	if math.IsInf(result.Hi, 0) || math.IsNaN(result.Hi) {
		result.Hi = sample.Values[len(sample.Values)-1]
	}
	for _, warning := range summary.Warnings {
		result.Warnings = append(result.Warnings, warning.Error())
	}
	return result
}

// New returns the report of the sweep.
func New(result *driver.SweepResult) *Report {
	report := &Report{
		Backend: result.Sweep.Backend.String(),
		Scale:   result.Sweep.Scale,
		Sizes:   result.Sweep.Sizes,
		Created: time.Now().UTC(),
		Cases:   make([]*Case, 0, len(result.Results)),
	}

	for _, caseResult := range result.Results {
		report.Cases = append(report.Cases, NewCase(caseResult))
	}

	return report
}

// NewCase returns the report of a case.
func NewCase(result *driver.Result) *Case {
	c := &Case{
		Operation:  result.Spec.Operation.String(),
		Family:     result.Spec.Operation.Family(),
		Size:       result.Spec.Size,
		Throughput: result.Throughput,
		State:      result.State.String(),
		DurationNs: result.Duration.Nanoseconds(),
	}

	if result.Err != nil {
		c.Error = result.Err.Error()
	}

	if samples := result.Samples; samples != nil {
		c.NsPerOp = samples.NsPerOp
		c.Iterations = samples.Iterations
		c.AllocsPerOp = samples.AllocsPerOp
		c.AllocedBytesPerOp = samples.AllocedBytesPerOp
		c.Summary = Summarize(samples.NsPerOp)
	}

	return c
}

// Operations returns the names of the operations of the report, in order of first appearance.
func (r *Report) Operations() []string {
	var operations []string
	seen := map[string]struct{}{}
	for _, c := range r.Cases {
		if _, ok := seen[c.Operation]; ok {
			continue
		}
		seen[c.Operation] = struct{}{}
		operations = append(operations, c.Operation)
	}
	return operations
}

// Measured returns the measured cases of the operation, in sweep order.
func (r *Report) Measured(operation string) []*Case {
	var cases []*Case
	for _, c := range r.Cases {
		if c.Operation == operation && c.Succeeded() {
			cases = append(cases, c)
		}
	}
	return cases
}

// Lookup returns the case of the operation at the given size.
func (r *Report) Lookup(operation string, size uint64) (*Case, bool) {
	for _, c := range r.Cases {
		if c.Operation == operation && c.Size == size {
			return c, true
		}
	}
	return nil, false
}

func familyOf(name string) string {
	operation, err := generator.ParseOperation(name)
	if err != nil {
		return ""
	}
	return operation.Family()
}
