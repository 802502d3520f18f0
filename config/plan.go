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


package config

import (
	"errors"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/onflow/cadence-benchmarking/driver"
)

// Plan is a sequence of sweeps, decoded from YAML:
//
//	name: hashing
//	backend: wasm
//	sweeps:
//	  - operations: [sha3-256, keccak-256]
//	    sizes: [32, 64, 128]
//	  - operations: [signatures]
//	    scale: 10
//
// Unset values of a sweep are inherited from the plan, then from the configuration.
type Plan struct {
	Name    string       `yaml:"name"`
	Backend string       `yaml:"backend"`
	Scale   uint64       `yaml:"scale"`
	Sizes   []uint64     `yaml:"sizes"`
	Sweeps  []*SweepPlan `yaml:"sweeps"`
}

type SweepPlan struct {
	// Operations are operation or family names.
	Operations []string `yaml:"operations"`
	Sizes      []uint64 `yaml:"sizes"`
	Scale      uint64   `yaml:"scale"`
	Backend    string   `yaml:"backend"`
}

// ParsePlan decodes a plan. Unknown fields and duplicate keys are rejected.
func ParsePlan(data []byte) (*Plan, error) {
	var plan Plan
	err := yaml.UnmarshalWithOptions(
		data,
		&plan,
		yaml.DisallowUnknownField(),
	)
	if err != nil {
		return nil, &InvalidPlanError{
			Err: errors.New(yaml.FormatError(err, false, true)),
		}
	}

	if len(plan.Sweeps) == 0 {
		return nil, &InvalidPlanError{
			Err: errors.New("no sweeps"),
		}
	}

	return &plan, nil
}

// ReadPlan reads and decodes the plan at the given path.
func ReadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	plan, err := ParsePlan(data)
	if err != nil {
		var planErr *InvalidPlanError
		if errors.As(err, &planErr) {
			planErr.Path = path
		}
		return nil, err
	}

	return plan, nil
}

// Resolve resolves the sweeps of the plan against the configuration.
func (p *Plan) Resolve(config *Config) ([]driver.Sweep, error) {
	sweeps := make([]driver.Sweep, 0, len(p.Sweeps))

	for _, sweepPlan := range p.Sweeps {
		backendName := firstNonEmpty(sweepPlan.Backend, p.Backend, config.Backend)
		backend, err := driver.ParseBackend(backendName)
		if err != nil {
			return nil, &InvalidPlanError{Err: err}
		}

		if len(sweepPlan.Operations) == 0 {
			return nil, &InvalidPlanError{
				Err: errors.New("sweep without operations"),
			}
		}

		operations, err := ResolveOperations(sweepPlan.Operations)
		if err != nil {
			return nil, &InvalidPlanError{Err: err}
		}

		sizes := sweepPlan.Sizes
		if len(sizes) == 0 {
			sizes = p.Sizes
		}
		if len(sizes) == 0 {
			sizes = config.Sizes
		}

		scale := sweepPlan.Scale
		if scale == 0 {
			scale = p.Scale
		}
		if scale == 0 {
			scale = config.Scale
		}

		sweeps = append(sweeps, driver.Sweep{
			Operations: operations,
			Sizes:      sizes,
			Scale:      scale,
			Backend:    backend,
		})
	}

	return sweeps, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
