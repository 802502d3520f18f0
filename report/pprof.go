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
	"io"

	pprof "github.com/google/pprof/profile"
)

// PProfExporter exports the measured cases of a report as a profile:
// each operation is a function, and each size is a line of that function,
// so that per-size costs can be inspected with the pprof tools.
type PProfExporter struct {
	Report        *Report
	profile       *pprof.Profile
	functions     map[string]*pprof.Function
	lineLocations map[pprof.Line]*pprof.Location
}

func NewPProfExporter(report *Report) *PProfExporter {
	return &PProfExporter{
		Report:        report,
		functions:     make(map[string]*pprof.Function),
		lineLocations: make(map[pprof.Line]*pprof.Location),
	}
}

func (e *PProfExporter) Export() (*pprof.Profile, error) {
	e.profile = &pprof.Profile{
		SampleType: []*pprof.ValueType{
			{
				Type: "time",
				Unit: "nanoseconds",
			},
			{
				Type: "throughput",
				Unit: "count",
			},
		},
		DefaultSampleType: "time",
		TimeNanos:         e.Report.Created.UnixNano(),
		Comments: []string{
			"backend: " + e.Report.Backend,
		},
	}

	for _, c := range e.Report.Cases {
		if !c.Succeeded() {
			continue
		}

		location := e.getOrAddLocation(e.getOrAddFunction(c), c.Size)

		e.profile.Sample = append(
			e.profile.Sample,
			&pprof.Sample{
				Location: []*pprof.Location{location},
				Value: []int64{
					int64(c.Summary.Center),
					int64(c.Throughput),
				},
				NumLabel: map[string][]int64{
					"size": {int64(c.Size)},
				},
				NumUnit: map[string][]string{
					"size": {"bytes"},
				},
			},
		)
	}

	err := e.profile.CheckValid()
	if err != nil {
		return nil, err
	}

	return e.profile, nil
}

func (e *PProfExporter) getOrAddFunction(c *Case) *pprof.Function {
	function, ok := e.functions[c.Operation]
	if ok {
		return function
	}

	function = &pprof.Function{
		// ID must be non-zero
		ID:       uint64(len(e.profile.Function) + 1),
		Name:     c.Operation,
		Filename: c.Family,
	}
	e.functions[c.Operation] = function
	e.profile.Function = append(e.profile.Function, function)

	return function
}

func (e *PProfExporter) getOrAddLocation(function *pprof.Function, size uint64) *pprof.Location {
	line := pprof.Line{
		Function: function,
		Line:     int64(size),
	}

	location, ok := e.lineLocations[line]
	if ok {
		return location
	}

	location = &pprof.Location{
		// ID must be non-zero
		ID:   uint64(len(e.profile.Location) + 1),
		Line: []pprof.Line{line},
	}
	e.lineLocations[line] = location
	e.profile.Location = append(e.profile.Location, location)

	return location
}

// WriteProfile writes the gzipped profile of the report.
func WriteProfile(w io.Writer, report *Report) error {
	profile, err := NewPProfExporter(report).Export()
	if err != nil {
		return err
	}
	return profile.Write(w)
}
