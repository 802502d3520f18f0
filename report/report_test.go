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
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	pprof "github.com/google/pprof/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/cadence-benchmarking/driver"
	"github.com/onflow/cadence-benchmarking/generator"
)

var testSizes = []uint64{1, 2, 4, 8}

// spread returns seven samples with the given median.
func spread(center float64) []float64 {
	return []float64{
		center - 3,
		center - 2,
		center - 1,
		center,
		center + 1,
		center + 2,
		center + 3,
	}
}

// newTestReport returns a report in which add costs 10 + 2n, and list-length failed at every size.
func newTestReport(cost func(size uint64) float64) *Report {
	sweep := driver.Sweep{
		Operations: []generator.Operation{
			generator.OperationAdd,
			generator.OperationListLength,
		},
		Sizes:   testSizes,
		Scale:   4,
		Backend: driver.BackendWasm,
	}

	result := &driver.SweepResult{
		Sweep: sweep,
	}

	for _, size := range testSizes {
		result.Results = append(result.Results, &driver.Result{
			Spec: generator.WorkloadSpec{
				Operation: generator.OperationAdd,
				Scale:     sweep.Scale,
				Size:      size,
			},
			Backend:    sweep.Backend,
			Throughput: size,
			Samples: &driver.Samples{
				NsPerOp:    spread(cost(size)),
				Iterations: 600,
			},
			State:    driver.StateReported,
			Duration: time.Millisecond,
		})
	}

	for _, size := range testSizes {
		result.Results = append(result.Results, &driver.Result{
			Spec: generator.WorkloadSpec{
				Operation: generator.OperationListLength,
				Scale:     sweep.Scale,
				Size:      size,
			},
			Backend:    sweep.Backend,
			Throughput: size,
			State:      driver.StateFailed,
			Err:        errors.New("unsupported"),
		})
	}

	report := New(result)
	report.Created = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return report
}

func linearCost(size uint64) float64 {
	return 10 + 2*float64(size)
}

func TestNew(t *testing.T) {

	t.Parallel()

	report := newTestReport(linearCost)

	assert.Equal(t, "wasm", report.Backend)
	assert.Equal(t, uint64(4), report.Scale)
	assert.Equal(t, testSizes, report.Sizes)
	require.Len(t, report.Cases, 8)
	assert.Equal(t, []string{"add", "list-length"}, report.Operations())

	add, ok := report.Lookup("add", 4)
	require.True(t, ok)
	assert.True(t, add.Succeeded())
	assert.Equal(t, "arithmetic", add.Family)
	assert.Equal(t, "reported", add.State)
	assert.Empty(t, add.Error)
	assert.Equal(t, 18.0, add.Summary.Center)
	assert.LessOrEqual(t, add.Summary.Lo, add.Summary.Center)
	assert.GreaterOrEqual(t, add.Summary.Hi, add.Summary.Center)
	assert.Equal(t, 4.5, add.NsPerUnit())
	assert.Equal(t, int64(time.Millisecond), add.DurationNs)

	listLength, ok := report.Lookup("list-length", 4)
	require.True(t, ok)
	assert.False(t, listLength.Succeeded())
	assert.Equal(t, "failed", listLength.State)
	assert.Equal(t, "unsupported", listLength.Error)
	assert.Zero(t, listLength.NsPerUnit())

	assert.Len(t, report.Measured("add"), 4)
	assert.Empty(t, report.Measured("list-length"))
}

func TestSummarize(t *testing.T) {

	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, Summarize(nil))
	})

	t.Run("single sample", func(t *testing.T) {
		t.Parallel()

		summary := Summarize([]float64{42})
		require.NotNil(t, summary)
		assert.Equal(t, 42.0, summary.Center)
		assert.Equal(t, 42.0, summary.Lo)
		assert.Equal(t, 42.0, summary.Hi)
		// the interval of a single sample is the sample itself
		assert.Equal(t, 1.0, summary.Confidence)
	})

	t.Run("samples are not reordered", func(t *testing.T) {
		t.Parallel()

		values := []float64{3, 1, 2}
		summary := Summarize(values)
		require.NotNil(t, summary)
		assert.Equal(t, 2.0, summary.Center)
		assert.Equal(t, []float64{3, 1, 2}, values)
	})
}

func TestJSON(t *testing.T) {

	t.Parallel()

	report := newTestReport(linearCost)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := WriteJSON(&buf, report, JSONOptions{Indent: true})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "\n  \"backend\": \"wasm\"")

		decoded, err := ReadJSON(&buf)
		require.NoError(t, err)
		assert.Equal(t, report, decoded)
	})

	t.Run("color", func(t *testing.T) {
		t.Parallel()

		data, err := MarshalJSON(report, JSONOptions{Color: true})
		require.NoError(t, err)
		assert.Contains(t, string(data), "\x1b[")
		assert.NotContains(t, string(data), "\n  ")
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		_, err := ReadJSON(strings.NewReader(`{"backend": "wasm", "unknown": 1}`))
		var invalidErr *InvalidReportError
		require.ErrorAs(t, err, &invalidErr)
	})
}

func TestFitCost(t *testing.T) {

	t.Parallel()

	t.Run("linear", func(t *testing.T) {
		t.Parallel()

		report := newTestReport(linearCost)

		fit, err := FitCost(report, "add", CostFunctionLinear)
		require.NoError(t, err)
		assert.Equal(t, "add", fit.Operation)
		assert.InDelta(t, 2.0, fit.A, 1e-9)
		assert.InDelta(t, 10.0, fit.B, 1e-9)
		assert.InDelta(t, 1.0, fit.RSquared, 1e-9)
		assert.InDelta(t, 42.0, fit.Cost(16), 1e-9)
	})

	t.Run("best fit", func(t *testing.T) {
		t.Parallel()

		report := newTestReport(func(size uint64) float64 {
			return 100 + 5*float64(size)*log2(size)
		})

		fit, err := BestFit(report, "add")
		require.NoError(t, err)
		assert.Equal(t, CostFunctionNLogN, fit.Function)
		assert.InDelta(t, 5.0, fit.A, 1e-9)
		assert.InDelta(t, 100.0, fit.B, 1e-9)
	})

	t.Run("negative intercept", func(t *testing.T) {
		t.Parallel()

		report := newTestReport(func(size uint64) float64 {
			return 10*float64(size) - 5
		})

		fit, err := FitCost(report, "add", CostFunctionLinear)
		require.NoError(t, err)
		assert.InDelta(t, 10.0, fit.A, 1e-9)
		assert.Zero(t, fit.B)
	})

	t.Run("insufficient data", func(t *testing.T) {
		t.Parallel()

		report := newTestReport(linearCost)

		_, err := FitCost(report, "list-length", CostFunctionLinear)
		require.ErrorAs(t, err, &InsufficientDataError{})

		fits := FitAll(report)
		require.Len(t, fits, 1)
		assert.Equal(t, "add", fits[0].Operation)
	})

	t.Run("parse", func(t *testing.T) {
		t.Parallel()

		for _, function := range CostFunctions() {
			parsed, err := ParseCostFunction(string(function))
			require.NoError(t, err)
			assert.Equal(t, function, parsed)
		}

		_, err := ParseCostFunction("quadratic")
		require.Error(t, err)
	})
}

func log2(size uint64) float64 {
	return CostFunctionLogN.Transform(float64(size))
}

func TestCompare(t *testing.T) {

	t.Parallel()

	before := newTestReport(linearCost)

	t.Run("regression", func(t *testing.T) {
		t.Parallel()

		after := newTestReport(func(size uint64) float64 {
			return 2 * linearCost(size)
		})

		comparisons := Compare(before, after)
		require.Len(t, comparisons, 4)

		for _, comparison := range comparisons {
			assert.Equal(t, "add", comparison.Operation)
			assert.True(t, comparison.Significant)
			assert.InDelta(t, 100.0, comparison.Delta, 1e-9)
			assert.Equal(t, "+100.00%", comparison.FormattedDelta())
		}

		assert.True(t, strings.HasPrefix(comparisons[0].String(), "add/1: 12.0ns -> 24.0ns +100.00% (p="))
	})

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		comparisons := Compare(before, newTestReport(linearCost))
		require.Len(t, comparisons, 4)

		for _, comparison := range comparisons {
			assert.False(t, comparison.Significant)
			assert.Zero(t, comparison.Delta)
			assert.Equal(t, "~", comparison.FormattedDelta())
		}
	})
}

func TestDiff(t *testing.T) {

	t.Parallel()

	before := newTestReport(linearCost)

	t.Run("same outcome", func(t *testing.T) {
		t.Parallel()

		after := newTestReport(func(size uint64) float64 {
			return 3 * linearCost(size)
		})
		after.Created = time.Now()

		match, _, err := Diff(before, after)
		require.NoError(t, err)
		assert.True(t, match)
	})

	t.Run("different outcome", func(t *testing.T) {
		t.Parallel()

		after := newTestReport(linearCost)
		after.Cases[0].State = "failed"
		after.Cases[0].Error = "trap"

		match, diff, err := Diff(before, after)
		require.NoError(t, err)
		assert.False(t, match)
		assert.Contains(t, diff, "trap")
	})
}

func TestQuery(t *testing.T) {

	t.Parallel()

	report := newTestReport(linearCost)

	t.Run("failed operations", func(t *testing.T) {
		t.Parallel()

		results, err := Query(report, `[.cases[] | select(.state == "failed") | .operation] | unique`)
		require.NoError(t, err)
		assert.Equal(t, []any{[]any{"list-length"}}, results)
	})

	t.Run("multiple outputs", func(t *testing.T) {
		t.Parallel()

		results, err := Query(report, `.cases[] | select(.operation == "add") | .size | tostring`)
		require.NoError(t, err)
		assert.Equal(t, []any{"1", "2", "4", "8"}, results)
	})

	t.Run("parse error", func(t *testing.T) {
		t.Parallel()

		_, err := Query(report, `.cases[`)
		var queryErr *InvalidQueryError
		require.ErrorAs(t, err, &queryErr)
	})

	t.Run("evaluation error", func(t *testing.T) {
		t.Parallel()

		_, err := Query(report, `.backend + 1`)
		var queryErr *InvalidQueryError
		require.ErrorAs(t, err, &queryErr)
	})
}

func TestPProfExporter(t *testing.T) {

	t.Parallel()

	report := newTestReport(linearCost)

	profile, err := NewPProfExporter(report).Export()
	require.NoError(t, err)

	require.Len(t, profile.Function, 1)
	assert.Equal(t, "add", profile.Function[0].Name)
	assert.Equal(t, "arithmetic", profile.Function[0].Filename)
	require.Len(t, profile.Location, 4)
	require.Len(t, profile.Sample, 4)

	sample := profile.Sample[2]
	assert.Equal(t, []int64{18, 4}, sample.Value)
	assert.Equal(t, []int64{4}, sample.NumLabel["size"])
	assert.Equal(t, int64(4), sample.Location[0].Line[0].Line)

	var buf bytes.Buffer
	require.NoError(t, WriteProfile(&buf, report))

	parsed, err := pprof.Parse(&buf)
	require.NoError(t, err)
	assert.Len(t, parsed.Sample, 4)
}

func TestWriteCharts(t *testing.T) {

	t.Parallel()

	var buf bytes.Buffer
	err := WriteCharts(&buf, newTestReport(linearCost))
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "arithmetic")
	assert.Contains(t, html, "sequences")
}

func TestTree(t *testing.T) {

	t.Parallel()

	tree := Tree(newTestReport(linearCost)).String()

	assert.True(t, strings.HasPrefix(tree, "wasm (scale 4)\n"))
	assert.Contains(t, tree, "arithmetic")
	assert.Contains(t, tree, "[4]  18.0 ns/op")
	assert.Contains(t, tree, "failed: unsupported")
}

func TestOperationsTree(t *testing.T) {

	t.Parallel()

	tree := OperationsTree().String()

	for _, operation := range generator.AllOperations() {
		assert.Contains(t, tree, operation.String())
	}
	assert.Contains(t, tree, "[not implemented]  contract-deploy")
}
