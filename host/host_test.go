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
	"math/big"
	"strconv"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/onflow/cadence/common"
	"github.com/onflow/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/cadence-benchmarking/chainstate"
	"github.com/onflow/cadence-benchmarking/headers"
	. "github.com/onflow/cadence-benchmarking/test_utils/common_utils"
)

func newTestEnvironment(t *testing.T) *Environment {
	return NewEnvironment(BeginNext(t, NewMemoryStore(t)))
}

func call(t *testing.T, env *Environment, name string, args ...Value) Value {
	intrinsic, err := Lookup(name)
	require.NoError(t, err)

	result, err := intrinsic.Call(env, args)
	require.NoError(t, err)
	require.Equal(t, intrinsic.Result, result.Kind())

	return result
}

var (
	alice = Address(common.MustBytesToAddress([]byte{0xa}))
	bob   = Address(common.MustBytesToAddress([]byte{0xb}))
)

func TestIntrinsics(t *testing.T) {

	t.Parallel()

	names := map[string]bool{}
	for _, intrinsic := range Intrinsics() {
		names[intrinsic.Name] = true
	}

	for _, name := range []string{
		"sha2_256", "sha3_256", "keccak_256", "sha2_384", "sha3_384", "hash160",
		"secp256k1Verify", "secp256k1Recover", "p256Verify",
		"ftDefine", "ftMint", "ftTransfer", "ftBalance", "ftSupply", "ftBurn",
		"nftMint", "nftTransfer", "nftOwner", "nftBurn",
		"tokenTransfer", "tokenBalance",
		"principalOf", "isStandard",
		"blockInfo",
		"storageGet", "storagePut",
	} {
		assert.True(t, names[name], name)
	}

	_, err := Lookup("sha2_512")
	require.ErrorAs(t, err, &UnknownIntrinsicError{})
}

func TestIntrinsicCallChecksArguments(t *testing.T) {

	t.Parallel()

	env := newTestEnvironment(t)

	intrinsic, err := Lookup("ftBalance")
	require.NoError(t, err)

	_, err = intrinsic.Call(env, []Value{String("x")})
	require.Equal(t,
		ArgumentCountError{Intrinsic: "ftBalance", Expected: 2, Actual: 1},
		err,
	)

	_, err = intrinsic.Call(env, []Value{String("x"), UInt64(1)})
	require.Equal(t,
		ArgumentKindError{Intrinsic: "ftBalance", Index: 1, Expected: KindAddress, Actual: KindUInt64},
		err,
	)
}

func TestStorage(t *testing.T) {

	t.Parallel()

	env := newTestEnvironment(t)

	assert.Equal(t, String(""), call(t, env, "storageGet", String("a")))
	assert.Equal(t, Bool(true), call(t, env, "storagePut", String("a"), String("b")))
	assert.Equal(t, String("b"), call(t, env, "storageGet", String("a")))
}

func TestFungibleTokens(t *testing.T) {

	t.Parallel()

	t.Run("limited supply", func(t *testing.T) {

		t.Parallel()

		env := newTestEnvironment(t)

		assert.Equal(t, Bool(true), call(t, env, "ftDefine", String("gold"), UInt64(100)))
		assert.Equal(t, Bool(false), call(t, env, "ftDefine", String("gold"), UInt64(0)))

		assert.Equal(t, Bool(true), call(t, env, "ftMint", String("gold"), UInt64(60), alice))
		assert.Equal(t, Bool(false), call(t, env, "ftMint", String("gold"), UInt64(41), alice))
		assert.Equal(t, Bool(true), call(t, env, "ftMint", String("gold"), UInt64(40), bob))

		assert.Equal(t, UInt64(100), call(t, env, "ftSupply", String("gold")))
		assert.Equal(t, UInt64(60), call(t, env, "ftBalance", String("gold"), alice))
	})

	t.Run("transfer and burn", func(t *testing.T) {

		t.Parallel()

		env := newTestEnvironment(t)

		call(t, env, "ftDefine", String("silver"), UInt64(0))
		assert.Equal(t, Bool(true), call(t, env, "ftMint", String("silver"), UInt64(10), alice))

		assert.Equal(t, Bool(true), call(t, env, "ftTransfer", String("silver"), UInt64(4), alice, bob))
		assert.Equal(t, Bool(false), call(t, env, "ftTransfer", String("silver"), UInt64(7), alice, bob))
		assert.Equal(t, Bool(false), call(t, env, "ftTransfer", String("silver"), UInt64(1), alice, alice))

		assert.Equal(t, UInt64(6), call(t, env, "ftBalance", String("silver"), alice))
		assert.Equal(t, UInt64(4), call(t, env, "ftBalance", String("silver"), bob))

		assert.Equal(t, Bool(true), call(t, env, "ftBurn", String("silver"), UInt64(4), bob))
		assert.Equal(t, Bool(false), call(t, env, "ftBurn", String("silver"), UInt64(1), bob))
		assert.Equal(t, UInt64(6), call(t, env, "ftSupply", String("silver")))
	})

	t.Run("undefined", func(t *testing.T) {

		t.Parallel()

		env := newTestEnvironment(t)

		assert.Equal(t, Bool(false), call(t, env, "ftMint", String("lead"), UInt64(1), alice))
		assert.Equal(t, UInt64(0), call(t, env, "ftSupply", String("lead")))
		assert.Equal(t, UInt64(0), call(t, env, "ftBalance", String("lead"), alice))
	})
}

func TestNonFungibleTokens(t *testing.T) {

	t.Parallel()

	env := newTestEnvironment(t)

	assert.Equal(t, Bool(true), call(t, env, "nftMint", String("art"), String("a"), alice))
	assert.Equal(t, Bool(false), call(t, env, "nftMint", String("art"), String("a"), bob))
	assert.Equal(t, Bool(true), call(t, env, "nftMint", String("art"), String("b"), alice))

	first, err := env.nonFungibleToken("art", "a")
	require.NoError(t, err)
	second, err := env.nonFungibleToken("art", "b")
	require.NoError(t, err)
	assert.Less(t, first.Serial, second.Serial)

	aliceAddress := common.Address(alice)
	bobAddress := common.Address(bob)

	assert.Equal(t,
		String(aliceAddress.HexWithPrefix()),
		call(t, env, "nftOwner", String("art"), String("a")),
	)
	assert.Equal(t, String(""), call(t, env, "nftOwner", String("art"), String("a-missing")))

	assert.Equal(t, Bool(false), call(t, env, "nftTransfer", String("art"), String("a"), bob, alice))
	assert.Equal(t, Bool(true), call(t, env, "nftTransfer", String("art"), String("a"), alice, bob))
	assert.Equal(t,
		String(bobAddress.HexWithPrefix()),
		call(t, env, "nftOwner", String("art"), String("a")),
	)

	assert.Equal(t, Bool(false), call(t, env, "nftBurn", String("art"), String("a"), alice))
	assert.Equal(t, Bool(true), call(t, env, "nftBurn", String("art"), String("a"), bob))
	assert.Equal(t, Bool(false), call(t, env, "nftBurn", String("art"), String("a"), bob))
	assert.Equal(t, String(""), call(t, env, "nftOwner", String("art"), String("a")))
}

func TestNativeToken(t *testing.T) {

	t.Parallel()

	env := newTestEnvironment(t)

	require.NoError(t, chainstate.CreditAccount(env.Ledger, common.Address(alice), 50))

	assert.Equal(t, Bool(true), call(t, env, "tokenTransfer", UInt64(20), alice, bob))
	assert.Equal(t, Bool(false), call(t, env, "tokenTransfer", UInt64(31), alice, bob))
	assert.Equal(t, UInt64(30), call(t, env, "tokenBalance", alice))
	assert.Equal(t, UInt64(20), call(t, env, "tokenBalance", bob))
}

func TestOperands(t *testing.T) {

	t.Parallel()

	t.Run("unsigned", func(t *testing.T) {

		t.Parallel()

		operand, err := NewUInt128Operand(big.NewInt(258))
		require.NoError(t, err)
		assert.Equal(t,
			[]byte{2, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			operand.Payload,
		)

		_, err = NewUInt128Operand(big.NewInt(-1))
		require.Error(t, err)
	})

	t.Run("signed", func(t *testing.T) {

		t.Parallel()

		operand, err := NewInt128Operand(big.NewInt(-1))
		require.NoError(t, err)
		for _, b := range operand.Payload {
			assert.Equal(t, byte(0xff), b)
		}

		_, err = NewInt128Operand(new(big.Int).Lsh(big.NewInt(1), 127))
		require.Error(t, err)
	})

	t.Run("encoding", func(t *testing.T) {

		t.Parallel()

		operand, err := NewBufferOperand("0102")
		require.NoError(t, err)

		decoded, err := DecodeOperand(operand.Encode())
		require.NoError(t, err)
		assert.Equal(t, operand, decoded)

		_, err = DecodeOperand([]byte{byte(OperandKindUInt128), 1})
		require.Error(t, err)

		_, err = NewBufferOperand("xyz")
		require.Error(t, err)
	})
}

func TestHashes(t *testing.T) {

	t.Parallel()

	env := newTestEnvironment(t)

	operand, err := NewBufferOperand("")
	require.NoError(t, err)

	for name, expected := range map[string]string{
		"sha2_256":   "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		"sha3_256":   "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a",
		"keccak_256": "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		"hash160":    "b472a266d0bd89c13706a4132ccfb16f7c3b9fcb",
	} {
		assert.Equal(t, String(expected), call(t, env, name, operand), name)
	}

	result := call(t, env, "sha2_384", operand)
	assert.Len(t, string(result.(String)), 96)
}

func TestSecp256k1(t *testing.T) {

	t.Parallel()

	env := newTestEnvironment(t)

	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	message := ethcrypto.Keccak256([]byte("message"))
	signature, err := ethcrypto.Sign(message, key)
	require.NoError(t, err)

	publicKey := ethcrypto.CompressPubkey(&key.PublicKey)

	assert.Equal(t,
		Bool(true),
		call(t, env, "secp256k1Verify",
			String(hex.EncodeToString(message)),
			String(hex.EncodeToString(signature)),
			String(hex.EncodeToString(publicKey)),
		),
	)

	otherMessage := ethcrypto.Keccak256([]byte("other"))
	assert.Equal(t,
		Bool(false),
		call(t, env, "secp256k1Verify",
			String(hex.EncodeToString(otherMessage)),
			String(hex.EncodeToString(signature)),
			String(hex.EncodeToString(publicKey)),
		),
	)

	assert.Equal(t,
		String(hex.EncodeToString(publicKey)),
		call(t, env, "secp256k1Recover",
			String(hex.EncodeToString(message)),
			String(hex.EncodeToString(signature)),
		),
	)

	intrinsic, err := Lookup("secp256k1Verify")
	require.NoError(t, err)
	_, err = intrinsic.Call(env, []Value{String("zz"), String(""), String("")})
	require.ErrorAs(t, err, &InvalidArgumentError{})
}

func TestP256(t *testing.T) {

	t.Parallel()

	env := newTestEnvironment(t)

	seed := make([]byte, crypto.KeyGenSeedMinLen)
	seed[0] = 1
	key, err := crypto.GeneratePrivateKey(crypto.ECDSAP256, seed)
	require.NoError(t, err)

	message := []byte("message")
	signature, err := key.Sign(message, P256Hasher())
	require.NoError(t, err)

	verify := func(message []byte) Value {
		return call(t, env, "p256Verify",
			String(hex.EncodeToString(message)),
			String(hex.EncodeToString(signature)),
			String(hex.EncodeToString(key.PublicKey().Encode())),
		)
	}

	assert.Equal(t, Bool(true), verify(message))
	assert.Equal(t, Bool(false), verify([]byte("other")))
}

func TestPrincipals(t *testing.T) {

	t.Parallel()

	env := newTestEnvironment(t)

	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	publicKey := ethcrypto.CompressPubkey(&key.PublicKey)

	result := call(t, env, "principalOf", String(hex.EncodeToString(publicKey)))

	var expected common.Address
	copy(expected[:], Hash160(publicKey))
	assert.Equal(t, Address(expected), result)

	intrinsic, err := Lookup("principalOf")
	require.NoError(t, err)
	_, err = intrinsic.Call(env, []Value{String("0102")})
	require.ErrorAs(t, err, &InvalidArgumentError{})

	assert.Equal(t, Bool(true), call(t, env, "isStandard", alice))
	assert.Equal(t,
		Bool(false),
		call(t, env, "isStandard", Address(common.Address{0x80})),
	)
}

type testBlockIndex map[uint64]chainstate.BlockRecord

func (index testBlockIndex) BlockAt(height uint64) (chainstate.BlockRecord, bool, error) {
	block, ok := index[height]
	return block, ok, nil
}

func TestBlockInfo(t *testing.T) {

	t.Parallel()

	t.Run("derived", func(t *testing.T) {

		t.Parallel()

		env := newTestEnvironment(t)

		id := chainstate.NewBlockIdentity(5)

		assert.Equal(t, String("5"), call(t, env, "blockInfo", UInt64(5), String(BlockPropertyBurnchainHeight)))
		assert.Equal(t, String("1"), call(t, env, "blockInfo", UInt64(5), String(BlockPropertyTime)))
		assert.Equal(t,
			String(id.String()),
			call(t, env, "blockInfo", UInt64(5), String(BlockPropertyHeaderHash)),
		)
		assert.Equal(t,
			String(common.ZeroAddress.HexWithPrefix()),
			call(t, env, "blockInfo", UInt64(5), String(BlockPropertyMinerAddress)),
		)

		intrinsic, err := Lookup("blockInfo")
		require.NoError(t, err)
		_, err = intrinsic.Call(env, []Value{UInt64(1), String("difficulty")})
		require.Equal(t, UnknownBlockPropertyError{Property: "difficulty"}, err)
	})

	t.Run("indexed", func(t *testing.T) {

		t.Parallel()

		env := newTestEnvironment(t)

		record := chainstate.BlockRecord{
			ID:     chainstate.NewBlockIdentity(9),
			Height: 2,
		}
		env.Blocks = testBlockIndex{2: record}

		oracle, err := headers.OpenSQLiteOracle(t.TempDir() + "/headers.sqlite")
		require.NoError(t, err)
		defer oracle.Close()
		require.NoError(t, oracle.RecordBlock(record))
		env.Headers = oracle

		expected := headers.HeaderForBlock(record)
		assert.Equal(t,
			String(strconv.FormatUint(expected.Timestamp, 10)),
			call(t, env, "blockInfo", UInt64(2), String(BlockPropertyTime)),
		)

		// unknown blocks have no info
		assert.Equal(t, String(""), call(t, env, "blockInfo", UInt64(3), String(BlockPropertyTime)))
	})
}
