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

package chainstate

import (
	"cmp"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/onflow/cadence/common"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/sha3"
)

const (
	// DefaultBlocks is the number of blocks appended after the genesis block.
	DefaultBlocks = 10
	// DefaultBlockKeys is the number of keys written by each appended block.
	DefaultBlockKeys = 100
	// GenesisBalance is the native token balance of each genesis account.
	GenesisBalance = 1_000_000_000
)

// GenesisAccounts are the accounts credited in the genesis block.
var GenesisAccounts = []common.Address{
	common.MustBytesToAddress([]byte{0x1}),
	common.MustBytesToAddress([]byte{0x2}),
}

var tracer = otel.Tracer("github.com/onflow/cadence-benchmarking/chainstate")

// Bootstrapper builds warmed stores.
//
// A warmed store for a scale is built once, into the cache directory,
// and never modified afterwards. Each bootstrap returns a fresh copy of it.
type Bootstrapper struct {
	CacheDir   string
	ScratchDir string
	// Blocks is the number of blocks appended after the genesis block.
	// The first three deploy the trait contracts.
	Blocks int
	// BlockKeys is the number of keys written by each appended block.
	BlockKeys int
	Deployer  ContractDeployer
	// OnBlock is called after each block is committed.
	OnBlock  func(record BlockRecord) error
	Progress io.Writer
	Logger   zerolog.Logger
}

// CachePath returns the path of the cached warmed store for the given scale.
// The block settings are part of the path, so stores built with other settings are never reused.
func (b *Bootstrapper) CachePath(scale uint64) string {
	return filepath.Join(
		b.CacheDir,
		fmt.Sprintf("warmed-%d-%dx%d", scale, b.blocks(), b.blockKeys()),
	)
}

func (b *Bootstrapper) blocks() int {
	return cmp.Or(b.Blocks, DefaultBlocks)
}

func (b *Bootstrapper) blockKeys() int {
	return cmp.Or(b.BlockKeys, DefaultBlockKeys)
}

// Bootstrap returns a scratch copy of the warmed store for the given scale,
// building the warmed store first if it is not cached yet.
//
// All errors are BootstrapIOErrors.
func (b *Bootstrapper) Bootstrap(ctx context.Context, scale uint64) (_ *Store, err error) {
	_, span := tracer.Start(
		ctx,
		"bootstrap",
		trace.WithAttributes(attribute.Int64("scale", int64(scale))),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	cachePath := b.CachePath(scale)

	_, err = os.Stat(cachePath)
	switch {
	case err == nil:
		b.Logger.Info().
			Uint64("scale", scale).
			Str("path", cachePath).
			Msg("warmed store cache hit")

	case os.IsNotExist(err):
		b.Logger.Info().
			Uint64("scale", scale).
			Str("path", cachePath).
			Msg("building warmed store")

		err = b.build(cachePath, scale)
		if err != nil {
			return nil, err
		}

	default:
		return nil, bootstrapIOError("stat", cachePath, err)
	}

	err = os.RemoveAll(b.ScratchDir)
	if err != nil {
		return nil, bootstrapIOError("remove", b.ScratchDir, err)
	}

	err = copyDirectory(cachePath, b.ScratchDir)
	if err != nil {
		return nil, bootstrapIOError("copy", cachePath, err)
	}

	store, err := Open(b.ScratchDir)
	if err != nil {
		return nil, bootstrapIOError("open", b.ScratchDir, err)
	}
	return store, nil
}

// build populates a new store in a temporary directory and moves it to the cache path,
// so an interrupted build is never mistaken for a cached store.
func (b *Bootstrapper) build(cachePath string, scale uint64) error {
	buildPath := cachePath + ".build"

	err := os.RemoveAll(buildPath)
	if err != nil {
		return bootstrapIOError("remove", buildPath, err)
	}

	err = os.MkdirAll(b.CacheDir, 0o755)
	if err != nil {
		return bootstrapIOError("create", b.CacheDir, err)
	}

	store, err := Open(buildPath)
	if err != nil {
		return bootstrapIOError("open", buildPath, err)
	}

	err = b.Populate(store, scale)
	closeErr := store.Close()
	if err != nil {
		return bootstrapIOError("populate", buildPath, err)
	}
	if closeErr != nil {
		return bootstrapIOError("close", buildPath, closeErr)
	}

	err = os.Rename(buildPath, cachePath)
	if err != nil {
		return bootstrapIOError("rename", buildPath, err)
	}
	return nil
}

// SyntheticKey returns the i-th synthetic key written by the genesis block.
func SyntheticKey(i uint64) string {
	return fmt.Sprintf("key-%d", i)
}

// syntheticValue returns the deterministic value of a synthetic key.
func syntheticValue(key string) []byte {
	digest := sha3.Sum256([]byte(key))
	return []byte(hex.EncodeToString(digest[:]))
}

// Populate writes the genesis block and the appended blocks to an empty store.
func (b *Bootstrapper) Populate(store *Store, scale uint64) error {
	blocks := b.blocks()
	blockKeys := b.blockKeys()

	contracts := TraitContracts()
	if blocks < len(contracts) {
		return fmt.Errorf("at least %d blocks are required, got %d", len(contracts), blocks)
	}
	if b.Deployer == nil {
		return fmt.Errorf("missing contract deployer")
	}

	err := b.writeGenesis(store, scale)
	if err != nil {
		return err
	}

	for counter := 1; counter <= blocks; counter++ {
		tx, err := store.Begin(
			NewBlockIdentity(uint32(counter-1)),
			NewBlockIdentity(uint32(counter)),
		)
		if err != nil {
			return err
		}

		for i := 0; i < blockKeys; i++ {
			key := fmt.Sprintf("block-%d-key-%d", counter, i)
			err = tx.SetValue(StorageOwner[:], StorageKey(key), syntheticValue(key))
			if err != nil {
				return err
			}
		}

		// blocks 1, 2, and 3 deploy the trait definer, implementer, and user
		if counter <= len(contracts) {
			contract := contracts[counter-1]
			err = b.Deployer.DeployContract(tx, contract)
			if err != nil {
				return fmt.Errorf("failed to deploy contract %s: %w", contract.Location(), err)
			}
			b.Logger.Debug().
				Int("block", counter).
				Str("contract", contract.Location().String()).
				Msg("deployed contract")
		}

		err = b.commit(tx)
		if err != nil {
			return err
		}
	}

	return nil
}

func (b *Bootstrapper) writeGenesis(store *Store, scale uint64) error {
	tx, err := store.Begin(SentinelBlockIdentity, NewBlockIdentity(0))
	if err != nil {
		return err
	}

	for _, address := range GenesisAccounts {
		err = CreditAccount(tx, address, GenesisBalance)
		if err != nil {
			return err
		}
	}

	progress := b.Progress
	if progress == nil {
		progress = io.Discard
	}
	bar := progressbar.NewOptions64(
		int64(scale),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription(fmt.Sprintf("genesis (%d keys)", scale)),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
	)

	for i := uint64(0); i < scale; i++ {
		key := SyntheticKey(i)
		err = tx.SetValue(StorageOwner[:], StorageKey(key), syntheticValue(key))
		if err != nil {
			return err
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	return b.commit(tx)
}

func (b *Bootstrapper) commit(tx *Tx) error {
	record, err := tx.CommitToBlock()
	if err != nil {
		return err
	}

	b.Logger.Debug().
		Uint64("height", record.Height).
		Uint64("writes", record.Writes).
		Str("id", record.ID.String()).
		Msg("committed block")

	if b.OnBlock != nil {
		return b.OnBlock(record)
	}
	return nil
}
