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

package host

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/onflow/cadence-benchmarking/chainstate"
)

// Block properties which can be looked up with blockInfo.
const (
	BlockPropertyHeaderHash          = "header-hash"
	BlockPropertyBurnchainHeaderHash = "burnchain-header-hash"
	BlockPropertyTime                = "time"
	BlockPropertyBurnchainHeight     = "burnchain-height"
	BlockPropertyMinerAddress        = "miner-address"
	BlockPropertyVRFSeed             = "vrf-seed"
)

func (env *Environment) blockIdentity(height uint64) (chainstate.BlockIdentity, bool, error) {
	if env.Blocks == nil {
		if height > uint64(^uint32(0)) {
			return chainstate.BlockIdentity{}, false, nil
		}
		return chainstate.NewBlockIdentity(uint32(height)), true, nil
	}

	block, ok, err := env.Blocks.BlockAt(height)
	if err != nil || !ok {
		return chainstate.BlockIdentity{}, false, err
	}
	return block.ID, true, nil
}

// BlockInfo returns the property of the block at the given height.
// The result is empty if the block or its header is unknown.
func (env *Environment) BlockInfo(height uint64, property string) (string, error) {
	id, ok, err := env.blockIdentity(height)
	if err != nil {
		return "", fmt.Errorf("failed to resolve block at height %d: %w", height, err)
	}
	if !ok {
		return "", nil
	}

	oracle := env.headerOracle()

	if property == BlockPropertyMinerAddress {
		payment, ok, err := oracle.MinerPayment(id)
		if err != nil || !ok {
			return "", err
		}
		return payment.Recipient.HexWithPrefix(), nil
	}

	info, ok, err := oracle.HeaderInfo(id)
	if err != nil {
		return "", err
	}

	var result string
	switch property {
	case BlockPropertyHeaderHash:
		result = hex.EncodeToString(info.BlockHash)
	case BlockPropertyBurnchainHeaderHash:
		result = hex.EncodeToString(info.BurnHeaderHash)
	case BlockPropertyTime:
		result = strconv.FormatUint(info.Timestamp, 10)
	case BlockPropertyBurnchainHeight:
		result = strconv.FormatUint(uint64(info.BurnHeight), 10)
	case BlockPropertyVRFSeed:
		result = hex.EncodeToString(info.VRFSeed)
	default:
		return "", UnknownBlockPropertyError{Property: property}
	}

	if !ok {
		return "", nil
	}
	return result, nil
}

func init() {
	register(&Intrinsic{
		Name: "blockInfo",
		Parameters: []Parameter{
			param("height", KindUInt64),
			param("property", KindString),
		},
		Result: KindString,
		Function: func(env *Environment, args []Value) (Value, error) {
			height := args[0].(UInt64)
			property := args[1].(String)
			info, err := env.BlockInfo(uint64(height), string(property))
			if err != nil {
				return nil, err
			}
			return String(info), nil
		},
	})
}
