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

package evaluator

import (
	"github.com/onflow/cadence/ast"
	"github.com/onflow/cadence/common"
	"github.com/onflow/cadence/parser"
	"github.com/onflow/cadence/sema"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/sha3"
)

// Analysis is a parsed and checked program.
type Analysis struct {
	Location common.Location
	Code     []byte
	Program  *ast.Program
	Checker  *sema.Checker
}

// CodeHash returns the SHA3-256 hash of the code.
func (a *Analysis) CodeHash() [32]byte {
	return sha3.Sum256(a.Code)
}

// Declarations returns the identifiers of the top-level functions
// and composite types of the program.
func (a *Analysis) Declarations() []string {
	var result []string
	for _, declaration := range a.Program.FunctionDeclarations() {
		result = append(result, declaration.Identifier.Identifier)
	}
	for _, declaration := range a.Program.CompositeDeclarations() {
		result = append(result, declaration.Identifier.Identifier)
	}
	for _, declaration := range a.Program.InterfaceDeclarations() {
		result = append(result, declaration.Identifier.Identifier)
	}
	return result
}

// HasFunction returns true if the program declares a top-level function with the given name.
func (a *Analysis) HasFunction(name string) bool {
	for _, declaration := range a.Program.FunctionDeclarations() {
		if declaration.Identifier.Identifier == name {
			return true
		}
	}
	return false
}

// Analyzer parses and checks programs.
// The intrinsics are available to all programs,
// and imports are resolved through the analysis store.
type Analyzer struct {
	store  *AnalysisStore
	Logger zerolog.Logger
}

// NewAnalyzer returns an analyzer resolving imports through the given store.
// Cold lookups of the store are analyzed with the returned analyzer.
func NewAnalyzer(store *AnalysisStore) *Analyzer {
	analyzer := &Analyzer{
		store:  store,
		Logger: zerolog.Nop(),
	}
	store.analyzer = analyzer
	return analyzer
}

func (a *Analyzer) Store() *AnalysisStore {
	return a.store
}

// Parse parses the code into a program.
func Parse(location common.Location, code []byte) (*ast.Program, error) {
	program, err := parser.ParseProgram(nil, code, parser.Config{})
	if err != nil {
		return nil, &ParseError{
			Location:   location,
			Diagnostic: diagnostic(err, location, code),
			Err:        err,
		}
	}
	return program, nil
}

// Analyze parses and checks the code.
func (a *Analyzer) Analyze(location common.Location, code []byte) (*Analysis, error) {
	program, err := Parse(location, code)
	if err != nil {
		return nil, err
	}

	checker, err := sema.NewChecker(
		program,
		location,
		nil,
		&sema.Config{
			AccessCheckMode:            sema.AccessCheckModeStrict,
			BaseValueActivationHandler: baseValueActivationHandler,
			LocationHandler:            resolveLocation,
			ImportHandler: func(_ *sema.Checker, importedLocation common.Location, _ ast.Range) (sema.Import, error) {
				imported, err := a.store.Get(importedLocation)
				if err != nil {
					return nil, err
				}
				return sema.ElaborationImport{
					Elaboration: imported.Checker.Elaboration,
				}, nil
			},
		},
	)
	if err != nil {
		return nil, err
	}

	err = checker.Check()
	if err != nil {
		return nil, &CheckError{
			Location:   location,
			Diagnostic: diagnostic(err, location, code),
			Err:        err,
		}
	}

	a.Logger.Debug().
		Str("location", location.String()).
		Int("size", len(code)).
		Msg("analyzed program")

	return &Analysis{
		Location: location,
		Code:     code,
		Program:  program,
		Checker:  checker,
	}, nil
}

// resolveLocation resolves each identifier imported from an address
// to the program deployed under that name.
func resolveLocation(identifiers []ast.Identifier, location common.Location) ([]sema.ResolvedLocation, error) {
	addressLocation, ok := location.(common.AddressLocation)
	if !ok || len(identifiers) == 0 {
		return []sema.ResolvedLocation{
			{
				Location:    location,
				Identifiers: identifiers,
			},
		}, nil
	}

	result := make([]sema.ResolvedLocation, 0, len(identifiers))
	for _, identifier := range identifiers {
		result = append(result, sema.ResolvedLocation{
			Location: common.AddressLocation{
				Address: addressLocation.Address,
				Name:    identifier.Identifier,
			},
			Identifiers: []ast.Identifier{
				identifier,
			},
		})
	}
	return result, nil
}
