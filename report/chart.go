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
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteCharts renders an HTML page with one chart per operation family:
// the cost of each operation of the family over the sizes of the report.
func WriteCharts(w io.Writer, report *Report) error {
	page := components.NewPage()

	for _, family := range families(report) {
		page.AddCharts(familyChart(report, family))
	}

	return page.Render(w)
}

type familyOperations struct {
	name       string
	operations []string
}

// families groups the operations of the report by family, in order of first appearance.
func families(report *Report) []familyOperations {
	var result []familyOperations
	index := map[string]int{}

	for _, operation := range report.Operations() {
		name := familyOf(operation)
		i, ok := index[name]
		if !ok {
			i = len(result)
			index[name] = i
			result = append(result, familyOperations{name: name})
		}
		result[i].operations = append(result[i].operations, operation)
	}

	return result
}

func familyChart(report *Report, family familyOperations) *charts.Line {
	sizes := slices.Clone(report.Sizes)
	slices.Sort(sizes)

	labels := make([]string, len(sizes))
	for i, size := range sizes {
		labels[i] = strconv.FormatUint(size, 10)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    family.name,
			Subtitle: fmt.Sprintf("backend %s, scale %d", report.Backend, report.Scale),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "size"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ns/op"}),
	)
	line.SetXAxis(labels)

	for _, operation := range family.operations {
		data := make([]opts.LineData, len(sizes))
		for i, size := range sizes {
			c, ok := report.Lookup(operation, size)
			if !ok || !c.Succeeded() {
				continue
			}
			data[i] = opts.LineData{Value: c.Summary.Center}
		}
		line.AddSeries(operation, data)
	}

	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
	)

	return line
}
