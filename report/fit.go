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
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CostFunction is the shape of a cost function of the input size.
type CostFunction string

const (
	CostFunctionLinear CostFunction = "linear"
	CostFunctionLogN   CostFunction = "logn"
	CostFunctionNLogN  CostFunction = "nlogn"
)

// CostFunctions returns all cost functions.
func CostFunctions() []CostFunction {
	return []CostFunction{
		CostFunctionLinear,
		CostFunctionLogN,
		CostFunctionNLogN,
	}
}

// ParseCostFunction returns the cost function with the given name.
func ParseCostFunction(name string) (CostFunction, error) {
	for _, function := range CostFunctions() {
		if string(function) == name {
			return function, nil
		}
	}
	return "", fmt.Errorf("unknown cost function: %s", name)
}

// Transform maps the input size to the regressor of the cost function.
func (f CostFunction) Transform(size float64) float64 {
	switch f {
	case CostFunctionLogN:
		return math.Log2(size)
	case CostFunctionNLogN:
		return size * math.Log2(size)
	default:
		return size
	}
}

const minFitPoints = 2

// Fit is a cost function fitted to the measured sizes of an operation:
// cost(n) = A * f(n) + B, in nanoseconds.
type Fit struct {
	Operation string       `json:"operation"`
	Function  CostFunction `json:"function"`
	A         float64      `json:"a"`
	B         float64      `json:"b"`
	RSquared  float64      `json:"rSquared"`
}

// Cost returns the estimated cost at the given size.
func (f *Fit) Cost(size uint64) float64 {
	return f.A*f.Function.Transform(float64(size)) + f.B
}

// FitCost fits the cost function to the measured sizes of the operation.
//
// The intercept is never negative: a negative intercept is replaced by the cost at the smallest size
// not explained by the slope, or zero.
func FitCost(report *Report, operation string, function CostFunction) (*Fit, error) {
	cases := report.Measured(operation)
	if len(cases) < minFitPoints {
		return nil, InsufficientDataError{
			Operation: operation,
			Points:    len(cases),
		}
	}

	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].Size < cases[j].Size
	})

	xs := make([]float64, len(cases))
	ys := make([]float64, len(cases))
	for i, c := range cases {
		xs[i] = function.Transform(float64(max(c.Size, 1)))
		ys[i] = c.Summary.Center
	}

	b, a := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(a) || math.IsNaN(b) {
		// all sizes map to the same regressor
		return nil, InsufficientDataError{
			Operation: operation,
			Points:    1,
		}
	}

	rSquared := stat.RSquared(xs, ys, nil, b, a)
	if b < 0 {
		b = max(ys[0]-a*xs[0], 0)
	}

	if math.IsNaN(rSquared) {
		rSquared = 0
	}

	return &Fit{
		Operation: operation,
		Function:  function,
		A:         a,
		B:         b,
		RSquared:  rSquared,
	}, nil
}

// BestFit fits all cost functions to the operation and returns the one explaining the most variance.
func BestFit(report *Report, operation string) (*Fit, error) {
	var best *Fit
	var lastErr error
	for _, function := range CostFunctions() {
		fit, err := FitCost(report, operation, function)
		if err != nil {
			lastErr = err
			continue
		}
		if best == nil || fit.RSquared > best.RSquared {
			best = fit
		}
	}
	if best == nil {
		return nil, lastErr
	}
	return best, nil
}

// FitAll returns the best fit of each operation of the report with enough measured sizes.
func FitAll(report *Report) []*Fit {
	var fits []*Fit
	for _, operation := range report.Operations() {
		fit, err := BestFit(report, operation)
		if err != nil {
			continue
		}
		fits = append(fits, fit)
	}
	return fits
}
