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

package bridge

import (
	"encoding/binary"
	"fmt"

	"github.com/bytecodealliance/wasmtime-go/v22"
	"github.com/onflow/cadence/common"
	"github.com/onflow/cadence/errors"

	"github.com/onflow/cadence-benchmarking/compiler"
	"github.com/onflow/cadence-benchmarking/host"
	"github.com/onflow/cadence-benchmarking/wasm"
)

const pageSize = 64 * 1024

func valKind(valueType wasm.ValueType) wasmtime.ValKind {
	switch valueType {
	case wasm.ValueTypeI32:
		return wasmtime.KindI32
	case wasm.ValueTypeI64:
		return wasmtime.KindI64
	}
	panic(errors.NewUnreachableError())
}

func valTypes(valueTypes []wasm.ValueType) []*wasmtime.ValType {
	result := make([]*wasmtime.ValType, 0, len(valueTypes))
	for _, valueType := range valueTypes {
		result = append(result, wasmtime.NewValType(valKind(valueType)))
	}
	return result
}

// defineImport defines the function imported by the module,
// which calls the intrinsic with the same name on the environment of the context.
func (b *Bridge) defineImport(linker *wasmtime.Linker, imported *wasmtime.ImportType) error {
	if imported.Module() != compiler.ImportModuleName || imported.Name() == nil {
		return fmt.Errorf("unknown import from module %q", imported.Module())
	}
	name := *imported.Name()

	intrinsic, err := host.Lookup(name)
	if err != nil {
		return err
	}

	functionType := compiler.IntrinsicFunctionType(intrinsic)

	return linker.FuncNew(
		compiler.ImportModuleName,
		name,
		wasmtime.NewFuncType(
			valTypes(functionType.Params),
			valTypes(functionType.Results),
		),
		func(caller *wasmtime.Caller, args []wasmtime.Val) ([]wasmtime.Val, *wasmtime.Trap) {
			hostArgs := make([]host.Value, len(args))
			for index, arg := range args {
				value, err := b.hostValue(caller, arg, intrinsic.Parameters[index].Kind)
				if err != nil {
					return nil, b.trap(host.InvalidArgumentError{
						Intrinsic: intrinsic.Name,
						Index:     index,
						Err:       err,
					})
				}
				hostArgs[index] = value
			}

			result, err := intrinsic.Call(b.ctx.Environment, hostArgs)
			if err != nil {
				return nil, b.trap(err)
			}

			if intrinsic.Result == host.KindVoid {
				return nil, nil
			}

			val, err := b.wasmVal(caller, result)
			if err != nil {
				return nil, b.trap(err)
			}
			return []wasmtime.Val{val}, nil
		},
	)
}

func (b *Bridge) trap(err error) *wasmtime.Trap {
	b.hostErr = err
	return wasmtime.NewTrap(err.Error())
}

// read returns the bytes referenced by the packed pointer.
func (b *Bridge) read(caller *wasmtime.Caller, packed int64) ([]byte, error) {
	offset, length := compiler.UnpackPointer(packed)
	data := b.memory.UnsafeData(caller)
	end := uint64(offset) + uint64(length)
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("out of bounds memory access: %d..%d", offset, end)
	}
	result := make([]byte, length)
	copy(result, data[offset:end])
	return result, nil
}

// write places the bytes on the heap, growing the memory as needed,
// and returns the packed pointer to them.
func (b *Bridge) write(caller *wasmtime.Caller, value []byte) (int64, error) {
	length := uint32(len(value))
	offset := b.heapTop
	end := uint64(offset) + uint64(length)

	size := uint64(b.memory.DataSize(caller))
	if end > size {
		pages := (end - size + pageSize - 1) / pageSize
		_, err := b.memory.Grow(caller, pages)
		if err != nil {
			return 0, fmt.Errorf("failed to grow memory by %d pages: %w", pages, err)
		}
	}

	copy(b.memory.UnsafeData(caller)[offset:end], value)
	b.heapTop = uint32(end)

	return compiler.PackPointer(offset, length), nil
}

func (b *Bridge) hostValue(caller *wasmtime.Caller, arg wasmtime.Val, kind host.Kind) (host.Value, error) {
	switch kind {
	case host.KindInt64:
		return host.Int64(arg.I64()), nil

	case host.KindUInt64:
		return host.UInt64(uint64(arg.I64())), nil

	case host.KindBool:
		return host.Bool(arg.I32() != 0), nil

	case host.KindAddress:
		var address common.Address
		binary.BigEndian.PutUint64(address[:], uint64(arg.I64()))
		return host.Address(address), nil

	case host.KindString:
		data, err := b.read(caller, arg.I64())
		if err != nil {
			return nil, err
		}
		return host.String(data), nil

	case host.KindOperand:
		data, err := b.read(caller, arg.I64())
		if err != nil {
			return nil, err
		}
		return host.DecodeOperand(data)
	}

	return nil, fmt.Errorf("unsupported parameter kind %s", kind)
}

func (b *Bridge) wasmVal(caller *wasmtime.Caller, value host.Value) (wasmtime.Val, error) {
	switch value := value.(type) {
	case host.Int64:
		return wasmtime.ValI64(int64(value)), nil

	case host.UInt64:
		return wasmtime.ValI64(int64(value)), nil

	case host.Bool:
		if value {
			return wasmtime.ValI32(1), nil
		}
		return wasmtime.ValI32(0), nil

	case host.Address:
		return wasmtime.ValI64(int64(binary.BigEndian.Uint64(value[:]))), nil

	case host.String:
		packed, err := b.write(caller, []byte(value))
		if err != nil {
			return wasmtime.Val{}, err
		}
		return wasmtime.ValI64(packed), nil
	}

	return wasmtime.Val{}, fmt.Errorf("unsupported result %T", value)
}
