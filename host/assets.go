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
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/onflow/atree"
	"github.com/onflow/cadence/common"

	"github.com/onflow/cadence-benchmarking/chainstate"
)

// assetOwner is the ledger owner of asset definitions.
var assetOwner = common.ZeroAddress

var cborEncMode = func() cbor.EncMode {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

// FungibleToken is the definition of a fungible token.
type FungibleToken struct {
	// Supply is the maximum amount which can be minted, or 0 if unlimited.
	Supply uint64 `cbor:"1,keyasint"`
	Minted uint64 `cbor:"2,keyasint"`
}

// NonFungibleToken is a minted non-fungible asset.
type NonFungibleToken struct {
	Owner  common.Address `cbor:"1,keyasint"`
	Serial uint64         `cbor:"2,keyasint"`
}

func fungibleTokenKey(name string) []byte {
	return []byte("ft/" + name)
}

func fungibleBalanceKey(name string) []byte {
	return []byte("ft-balance/" + name)
}

func nonFungibleTokenKey(name string, id string) []byte {
	return []byte(fmt.Sprintf("nft/%d/%s/%s", len(name), name, id))
}

func readRecord[T any](ledger atree.Ledger, owner common.Address, key []byte) (*T, error) {
	data, err := ledger.GetValue(owner[:], key)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var record T
	err = cbor.Unmarshal(data, &record)
	if err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", key, err)
	}
	return &record, nil
}

func writeRecord(ledger atree.Ledger, owner common.Address, key []byte, record any) error {
	data, err := cborEncMode.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", key, err)
	}
	return ledger.SetValue(owner[:], key, data)
}

func (env *Environment) fungibleToken(name string) (*FungibleToken, error) {
	return readRecord[FungibleToken](env.Ledger, assetOwner, fungibleTokenKey(name))
}

// FungibleBalance returns the balance of the owner in the token.
func (env *Environment) FungibleBalance(name string, owner common.Address) (uint64, error) {
	data, err := env.Ledger.GetValue(owner[:], fungibleBalanceKey(name))
	if err != nil {
		return 0, err
	}
	if len(data) != 8 {
		return 0, nil
	}
	return binary.BigEndian.Uint64(data), nil
}

func (env *Environment) setFungibleBalance(name string, owner common.Address, balance uint64) error {
	return env.Ledger.SetValue(
		owner[:],
		fungibleBalanceKey(name),
		binary.BigEndian.AppendUint64(nil, balance),
	)
}

// DefineFungibleToken defines a token with the given supply, 0 meaning unlimited.
// It returns false if the token is already defined.
func (env *Environment) DefineFungibleToken(name string, supply uint64) (bool, error) {
	token, err := env.fungibleToken(name)
	if err != nil || token != nil {
		return false, err
	}
	err = writeRecord(env.Ledger, assetOwner, fungibleTokenKey(name), FungibleToken{Supply: supply})
	if err != nil {
		return false, err
	}
	return true, nil
}

// MintFungibleToken mints the amount to the recipient.
// It returns false if the token is not defined, or the supply would be exceeded.
func (env *Environment) MintFungibleToken(name string, amount uint64, recipient common.Address) (bool, error) {
	if amount == 0 {
		return false, nil
	}

	token, err := env.fungibleToken(name)
	if err != nil || token == nil {
		return false, err
	}

	minted := token.Minted + amount
	if minted < token.Minted || (token.Supply > 0 && minted > token.Supply) {
		env.Logger.Debug().
			Str("token", name).
			Uint64("amount", amount).
			Msg("mint exceeds supply")
		return false, nil
	}

	balance, err := env.FungibleBalance(name, recipient)
	if err != nil {
		return false, err
	}

	token.Minted = minted
	err = writeRecord(env.Ledger, assetOwner, fungibleTokenKey(name), token)
	if err != nil {
		return false, err
	}
	err = env.setFungibleBalance(name, recipient, balance+amount)
	if err != nil {
		return false, err
	}
	return true, nil
}

// TransferFungibleToken moves the amount from the sender to the recipient.
// It returns false if the sender's balance is insufficient.
func (env *Environment) TransferFungibleToken(
	name string,
	amount uint64,
	sender common.Address,
	recipient common.Address,
) (bool, error) {
	if amount == 0 || sender == recipient {
		return false, nil
	}

	token, err := env.fungibleToken(name)
	if err != nil || token == nil {
		return false, err
	}

	senderBalance, err := env.FungibleBalance(name, sender)
	if err != nil {
		return false, err
	}
	if senderBalance < amount {
		env.Logger.Debug().
			Str("token", name).
			Stringer("sender", sender).
			Uint64("balance", senderBalance).
			Uint64("amount", amount).
			Msg("insufficient balance")
		return false, nil
	}

	recipientBalance, err := env.FungibleBalance(name, recipient)
	if err != nil {
		return false, err
	}

	err = env.setFungibleBalance(name, sender, senderBalance-amount)
	if err != nil {
		return false, err
	}
	err = env.setFungibleBalance(name, recipient, recipientBalance+amount)
	if err != nil {
		return false, err
	}
	return true, nil
}

// FungibleSupply returns the amount of the token minted and not burned.
func (env *Environment) FungibleSupply(name string) (uint64, error) {
	token, err := env.fungibleToken(name)
	if err != nil || token == nil {
		return 0, err
	}
	return token.Minted, nil
}

// BurnFungibleToken destroys the amount of the owner's balance.
// It returns false if the owner's balance is insufficient.
func (env *Environment) BurnFungibleToken(name string, amount uint64, owner common.Address) (bool, error) {
	if amount == 0 {
		return false, nil
	}

	token, err := env.fungibleToken(name)
	if err != nil || token == nil {
		return false, err
	}

	balance, err := env.FungibleBalance(name, owner)
	if err != nil {
		return false, err
	}
	if balance < amount {
		return false, nil
	}

	token.Minted -= amount
	err = writeRecord(env.Ledger, assetOwner, fungibleTokenKey(name), token)
	if err != nil {
		return false, err
	}
	err = env.setFungibleBalance(name, owner, balance-amount)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (env *Environment) nonFungibleToken(name string, id string) (*NonFungibleToken, error) {
	return readRecord[NonFungibleToken](env.Ledger, assetOwner, nonFungibleTokenKey(name, id))
}

// MintNonFungibleToken mints the asset with the given id to the recipient.
// It returns false if the asset already exists.
func (env *Environment) MintNonFungibleToken(name string, id string, recipient common.Address) (bool, error) {
	token, err := env.nonFungibleToken(name, id)
	if err != nil || token != nil {
		return false, err
	}

	index, err := env.Ledger.AllocateSlabIndex(assetOwner[:])
	if err != nil {
		return false, fmt.Errorf("failed to allocate serial of %s %s: %w", name, id, err)
	}

	err = writeRecord(
		env.Ledger,
		assetOwner,
		nonFungibleTokenKey(name, id),
		NonFungibleToken{
			Owner:  recipient,
			Serial: binary.BigEndian.Uint64(index[:]),
		},
	)
	if err != nil {
		return false, err
	}
	return true, nil
}

// TransferNonFungibleToken moves the asset from the sender to the recipient.
// It returns false if the asset does not exist or is not owned by the sender.
func (env *Environment) TransferNonFungibleToken(
	name string,
	id string,
	sender common.Address,
	recipient common.Address,
) (bool, error) {
	if sender == recipient {
		return false, nil
	}

	token, err := env.nonFungibleToken(name, id)
	if err != nil || token == nil || token.Owner != sender {
		return false, err
	}

	token.Owner = recipient
	err = writeRecord(env.Ledger, assetOwner, nonFungibleTokenKey(name, id), token)
	if err != nil {
		return false, err
	}
	return true, nil
}

// NonFungibleOwner returns the owner of the asset, if it exists.
func (env *Environment) NonFungibleOwner(name string, id string) (common.Address, bool, error) {
	token, err := env.nonFungibleToken(name, id)
	if err != nil || token == nil {
		return common.ZeroAddress, false, err
	}
	return token.Owner, true, nil
}

// BurnNonFungibleToken destroys the asset.
// It returns false if the asset does not exist or is not owned by the owner.
func (env *Environment) BurnNonFungibleToken(name string, id string, owner common.Address) (bool, error) {
	token, err := env.nonFungibleToken(name, id)
	if err != nil || token == nil || token.Owner != owner {
		return false, err
	}

	err = env.Ledger.SetValue(assetOwner[:], nonFungibleTokenKey(name, id), nil)
	if err != nil {
		return false, err
	}
	return true, nil
}

// TransferToken moves the amount of the native token from the sender to the recipient.
// It returns false if the sender's balance is insufficient.
func (env *Environment) TransferToken(amount uint64, sender common.Address, recipient common.Address) (bool, error) {
	if amount == 0 || sender == recipient {
		return false, nil
	}

	balance, err := chainstate.ReadBalance(env.Ledger, sender)
	if err != nil {
		return false, err
	}
	if balance < amount {
		return false, nil
	}

	err = chainstate.WriteBalance(env.Ledger, sender, balance-amount)
	if err != nil {
		return false, err
	}
	err = chainstate.CreditAccount(env.Ledger, recipient, amount)
	if err != nil {
		return false, err
	}
	return true, nil
}

func boolResult(result bool, err error) (Value, error) {
	if err != nil {
		return nil, err
	}
	return Bool(result), nil
}

func uint64Result(result uint64, err error) (Value, error) {
	if err != nil {
		return nil, err
	}
	return UInt64(result), nil
}

func address(value Value) common.Address {
	return common.Address(value.(Address))
}

func init() {
	register(&Intrinsic{
		Name: "ftDefine",
		Parameters: []Parameter{
			param("name", KindString),
			param("supply", KindUInt64),
		},
		Result: KindBool,
		Function: func(env *Environment, args []Value) (Value, error) {
			return boolResult(env.DefineFungibleToken(
				string(args[0].(String)),
				uint64(args[1].(UInt64)),
			))
		},
	})

	register(&Intrinsic{
		Name: "ftMint",
		Parameters: []Parameter{
			param("name", KindString),
			param("amount", KindUInt64),
			param("recipient", KindAddress),
		},
		Result: KindBool,
		Function: func(env *Environment, args []Value) (Value, error) {
			return boolResult(env.MintFungibleToken(
				string(args[0].(String)),
				uint64(args[1].(UInt64)),
				address(args[2]),
			))
		},
	})

	register(&Intrinsic{
		Name: "ftTransfer",
		Parameters: []Parameter{
			param("name", KindString),
			param("amount", KindUInt64),
			param("sender", KindAddress),
			param("recipient", KindAddress),
		},
		Result: KindBool,
		Function: func(env *Environment, args []Value) (Value, error) {
			return boolResult(env.TransferFungibleToken(
				string(args[0].(String)),
				uint64(args[1].(UInt64)),
				address(args[2]),
				address(args[3]),
			))
		},
	})

	register(&Intrinsic{
		Name: "ftBalance",
		Parameters: []Parameter{
			param("name", KindString),
			param("owner", KindAddress),
		},
		Result: KindUInt64,
		Function: func(env *Environment, args []Value) (Value, error) {
			return uint64Result(env.FungibleBalance(
				string(args[0].(String)),
				address(args[1]),
			))
		},
	})

	register(&Intrinsic{
		Name:       "ftSupply",
		Parameters: []Parameter{param("name", KindString)},
		Result:     KindUInt64,
		Function: func(env *Environment, args []Value) (Value, error) {
			return uint64Result(env.FungibleSupply(string(args[0].(String))))
		},
	})

	register(&Intrinsic{
		Name: "ftBurn",
		Parameters: []Parameter{
			param("name", KindString),
			param("amount", KindUInt64),
			param("owner", KindAddress),
		},
		Result: KindBool,
		Function: func(env *Environment, args []Value) (Value, error) {
			return boolResult(env.BurnFungibleToken(
				string(args[0].(String)),
				uint64(args[1].(UInt64)),
				address(args[2]),
			))
		},
	})

	register(&Intrinsic{
		Name: "nftMint",
		Parameters: []Parameter{
			param("name", KindString),
			param("id", KindString),
			param("recipient", KindAddress),
		},
		Result: KindBool,
		Function: func(env *Environment, args []Value) (Value, error) {
			return boolResult(env.MintNonFungibleToken(
				string(args[0].(String)),
				string(args[1].(String)),
				address(args[2]),
			))
		},
	})

	register(&Intrinsic{
		Name: "nftTransfer",
		Parameters: []Parameter{
			param("name", KindString),
			param("id", KindString),
			param("sender", KindAddress),
			param("recipient", KindAddress),
		},
		Result: KindBool,
		Function: func(env *Environment, args []Value) (Value, error) {
			return boolResult(env.TransferNonFungibleToken(
				string(args[0].(String)),
				string(args[1].(String)),
				address(args[2]),
				address(args[3]),
			))
		},
	})

	register(&Intrinsic{
		Name: "nftOwner",
		Parameters: []Parameter{
			param("name", KindString),
			param("id", KindString),
		},
		Result: KindString,
		Function: func(env *Environment, args []Value) (Value, error) {
			owner, ok, err := env.NonFungibleOwner(
				string(args[0].(String)),
				string(args[1].(String)),
			)
			if err != nil {
				return nil, err
			}
			if !ok {
				return String(""), nil
			}
			return String(owner.HexWithPrefix()), nil
		},
	})

	register(&Intrinsic{
		Name: "nftBurn",
		Parameters: []Parameter{
			param("name", KindString),
			param("id", KindString),
			param("owner", KindAddress),
		},
		Result: KindBool,
		Function: func(env *Environment, args []Value) (Value, error) {
			return boolResult(env.BurnNonFungibleToken(
				string(args[0].(String)),
				string(args[1].(String)),
				address(args[2]),
			))
		},
	})

	register(&Intrinsic{
		Name: "tokenTransfer",
		Parameters: []Parameter{
			param("amount", KindUInt64),
			param("sender", KindAddress),
			param("recipient", KindAddress),
		},
		Result: KindBool,
		Function: func(env *Environment, args []Value) (Value, error) {
			return boolResult(env.TransferToken(
				uint64(args[0].(UInt64)),
				address(args[1]),
				address(args[2]),
			))
		},
	})

	register(&Intrinsic{
		Name:       "tokenBalance",
		Parameters: []Parameter{param("owner", KindAddress)},
		Result:     KindUInt64,
		Function: func(env *Environment, args []Value) (Value, error) {
			return uint64Result(chainstate.ReadBalance(env.Ledger, address(args[0])))
		},
	})
}
