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


package common_utils

import (
	goerrors "errors"
	"strings"
	"testing"

	"github.com/k0kubun/pp/v3"
	"github.com/kr/pretty"
	"github.com/onflow/cadence/common"
	"github.com/onflow/cadence/errors"
	"github.com/stretchr/testify/require"

	"github.com/onflow/cadence-benchmarking/chainstate"
)

func init() {
	pp.Default.SetColoringEnabled(false)
}

// TestLocation is used as the default location for programs in tests.
const TestLocation = common.StringLocation("test")

// AssertEqualWithDiff asserts that two objects are equal.
//
// If the objects are not equal, this function prints a human-readable diff.
func AssertEqualWithDiff(t testing.TB, expected, actual any) {
	t.Helper()

	diff := pretty.Diff(expected, actual)

	if len(diff) != 0 {
		s := strings.Builder{}

		for i, d := range diff {
			if i == 0 {
				s.WriteString("diff    : ")
			} else {
				s.WriteString("          ")
			}

			s.WriteString(d)
			s.WriteString("\n")
		}

		t.Errorf(
			"Not equal: \n"+
				"expected: %s\n"+
				"actual  : %s\n\n"+
				"%s",
			pp.Sprint(expected),
			pp.Sprint(actual),
			s.String(),
		)
	}
}

// RequireError is a wrapper around require.Error which also ensures
// that the messages of the error and all errors it wraps can be produced,
// and that the error is classified as either a user error or an internal error.
func RequireError(t testing.TB, err error) {
	t.Helper()

	require.Error(t, err)

	for e := err; e != nil; e = goerrors.Unwrap(e) {
		_ = e.Error()
	}

	var userErr errors.UserError
	var internalErr errors.InternalError
	require.True(
		t,
		goerrors.As(err, &userErr) || goerrors.As(err, &internalErr),
		"unclassified error: %T",
		err,
	)
}

// NewMemoryStore returns an empty in-memory store, closed when the test ends.
func NewMemoryStore(t testing.TB) *chainstate.Store {
	t.Helper()

	store, err := chainstate.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// NewWarmedStore returns an in-memory store with the genesis block
// and the blocks deploying the trait contracts.
func NewWarmedStore(t testing.TB, deployer chainstate.ContractDeployer) *chainstate.Store {
	t.Helper()

	store := NewMemoryStore(t)

	bootstrapper := &chainstate.Bootstrapper{
		Blocks:   len(chainstate.TraitContracts()),
		Deployer: deployer,
	}
	require.NoError(t, bootstrapper.Populate(store, 0))

	return store
}

// BeginNext begins a transaction for the block following the tip of the store.
func BeginNext(t testing.TB, store *chainstate.Store) *chainstate.Tx {
	t.Helper()

	tx, err := store.BeginNext()
	require.NoError(t, err)
	t.Cleanup(tx.Rollback)

	return tx
}
