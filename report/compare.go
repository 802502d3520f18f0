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
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/nsf/jsondiff"
	"golang.org/x/perf/benchmath"
)

// Comparison is the comparison of a case measured in two reports.
type Comparison struct {
	Operation string
	Size      uint64
	Old       *Summary
	New       *Summary
	// Delta is the relative change of the center, in percent.
	Delta float64
	// P is the p-value of the samples being drawn from the same distribution.
	P           float64
	Alpha       float64
	Significant bool
	Warnings    []string
}

// FormattedDelta returns the delta, or "~" if the change is not significant.
func (c *Comparison) FormattedDelta() string {
	if !c.Significant {
		return "~"
	}
	return fmt.Sprintf("%+.2f%%", c.Delta)
}

func (c *Comparison) String() string {
	return fmt.Sprintf(
		"%s/%d: %.1fns -> %.1fns %s (p=%.3f)",
		c.Operation,
		c.Size,
		c.Old.Center,
		c.New.Center,
		c.FormattedDelta(),
		c.P,
	)
}

// Compare compares the cases measured in both reports, in the order of the later report.
func Compare(before, after *Report) []*Comparison {
	var comparisons []*Comparison

	for _, newCase := range after.Cases {
		if !newCase.Succeeded() {
			continue
		}

		oldCase, ok := before.Lookup(newCase.Operation, newCase.Size)
		if !ok || !oldCase.Succeeded() {
			continue
		}

		comparisons = append(comparisons, compareCases(oldCase, newCase))
	}

	return comparisons
}

func compareCases(before, after *Case) *Comparison {
	oldSample := benchmath.NewSample(slices.Clone(before.NsPerOp), &benchmath.DefaultThresholds)
	newSample := benchmath.NewSample(slices.Clone(after.NsPerOp), &benchmath.DefaultThresholds)

	comparison := Assumption.Compare(oldSample, newSample)

	result := &Comparison{
		Operation:   after.Operation,
		Size:        after.Size,
		Old:         before.Summary,
		New:         after.Summary,
		P:           comparison.P,
		Alpha:       comparison.Alpha,
		Significant: comparison.P < comparison.Alpha,
	}

	if before.Summary.Center != 0 {
		result.Delta = (after.Summary.Center - before.Summary.Center) / before.Summary.Center * 100
	}

	for _, warning := range comparison.Warnings {
		result.Warnings = append(result.Warnings, warning.Error())
	}

	return result
}

// Diff returns the structural differences of the reports' outcomes,
// ignoring raw samples and timestamps.
// The returned bool is true if the outcomes match.
func Diff(before, after *Report) (bool, string, error) {
	oldData, err := json.Marshal(outcome(before))
	if err != nil {
		return false, "", err
	}
	newData, err := json.Marshal(outcome(after))
	if err != nil {
		return false, "", err
	}

	options := jsondiff.DefaultConsoleOptions()
	difference, diff := jsondiff.Compare(oldData, newData, &options)
	return difference == jsondiff.FullMatch, diff, nil
}

// outcome returns a copy of the report without the data that differs between runs.
func outcome(report *Report) *Report {
	result := *report
	result.Created = time.Time{}
	result.Cases = make([]*Case, len(report.Cases))
	for i, c := range report.Cases {
		result.Cases[i] = &Case{
			Operation:  c.Operation,
			Family:     c.Family,
			Size:       c.Size,
			Throughput: c.Throughput,
			State:      c.State,
			Error:      c.Error,
		}
	}
	return &result
}
