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
	"fmt"

	"github.com/onflow/cadence/activations"
	"github.com/onflow/cadence/common"
	"github.com/onflow/cadence/errors"
	"github.com/onflow/cadence/interpreter"
	"github.com/onflow/cadence/sema"
	"github.com/onflow/cadence/stdlib"

	"github.com/onflow/cadence-benchmarking/host"
)

// SemaType returns the type of values of the given kind.
// Operands are either 128-bit integers or strings, so they are accepted as any struct.
func SemaType(kind host.Kind) sema.Type {
	switch kind {
	case host.KindVoid:
		return sema.VoidType
	case host.KindInt64:
		return sema.Int64Type
	case host.KindUInt64:
		return sema.UInt64Type
	case host.KindBool:
		return sema.BoolType
	case host.KindString:
		return sema.StringType
	case host.KindAddress:
		return sema.TheAddressType
	case host.KindOperand:
		return sema.AnyStructType
	}
	panic(errors.NewUnreachableError())
}

// FunctionType returns the type of the host function of the intrinsic.
func FunctionType(intrinsic *host.Intrinsic) *sema.FunctionType {
	parameters := make([]sema.Parameter, 0, len(intrinsic.Parameters))
	for _, parameter := range intrinsic.Parameters {
		parameters = append(parameters, sema.Parameter{
			Label:          sema.ArgumentLabelNotRequired,
			Identifier:     parameter.Name,
			TypeAnnotation: sema.NewTypeAnnotation(SemaType(parameter.Kind)),
		})
	}
	return &sema.FunctionType{
		Parameters:           parameters,
		ReturnTypeAnnotation: sema.NewTypeAnnotation(SemaType(intrinsic.Result)),
	}
}

// HostValue converts an interpreter value to a value of the given kind.
func HostValue(value interpreter.Value, kind host.Kind) (host.Value, error) {
	switch kind {
	case host.KindInt64:
		if value, ok := value.(interpreter.Int64Value); ok {
			return host.Int64(value), nil
		}
	case host.KindUInt64:
		if value, ok := value.(interpreter.UInt64Value); ok {
			return host.UInt64(value), nil
		}
	case host.KindBool:
		if value, ok := value.(interpreter.BoolValue); ok {
			return host.Bool(value), nil
		}
	case host.KindString:
		if value, ok := value.(*interpreter.StringValue); ok {
			return host.String(value.Str), nil
		}
	case host.KindAddress:
		if value, ok := value.(interpreter.AddressValue); ok {
			return host.Address(value), nil
		}
	case host.KindOperand:
		switch value := value.(type) {
		case interpreter.UInt128Value:
			return host.NewUInt128Operand(value.BigInt)
		case interpreter.Int128Value:
			return host.NewInt128Operand(value.BigInt)
		case *interpreter.StringValue:
			return host.NewBufferOperand(value.Str)
		}
	}
	return nil, fmt.Errorf("cannot convert %T to %s", value, kind)
}

// InterpreterValue converts a value returned by an intrinsic to an interpreter value.
func InterpreterValue(value host.Value) interpreter.Value {
	switch value := value.(type) {
	case nil:
		return interpreter.Void
	case host.Int64:
		return interpreter.NewUnmeteredInt64Value(int64(value))
	case host.UInt64:
		return interpreter.NewUnmeteredUInt64Value(uint64(value))
	case host.Bool:
		return interpreter.BoolValue(value)
	case host.String:
		return interpreter.NewUnmeteredStringValue(string(value))
	case host.Address:
		return interpreter.AddressValue(value)
	}
	panic(errors.NewUnexpectedError("cannot convert %T to an interpreter value", value))
}

// intrinsicFunction returns the host function of the intrinsic,
// operating on the given environment.
func intrinsicFunction(intrinsic *host.Intrinsic, env *host.Environment) stdlib.StandardLibraryValue {
	return stdlib.NewNativeStandardLibraryStaticFunction(
		intrinsic.Name,
		FunctionType(intrinsic),
		"",
		func(
			_ interpreter.NativeFunctionContext,
			_ interpreter.TypeArgumentsIterator,
			_ interpreter.Value,
			arguments []interpreter.Value,
		) interpreter.Value {
			args := make([]host.Value, len(arguments))
			for index, argument := range arguments {
				arg, err := HostValue(argument, intrinsic.Parameters[index].Kind)
				if err != nil {
					panic(host.InvalidArgumentError{
						Intrinsic: intrinsic.Name,
						Index:     index,
						Err:       err,
					})
				}
				args[index] = arg
			}

			result, err := intrinsic.Call(env, args)
			if err != nil {
				panic(err)
			}
			return InterpreterValue(result)
		},
		false,
	)
}

// baseValueActivation declares the intrinsics for the checker.
var baseValueActivation = func() *sema.VariableActivation {
	activation := sema.NewVariableActivation(sema.BaseValueActivation)
	for _, intrinsic := range host.Intrinsics() {
		activation.DeclareValue(intrinsicFunction(intrinsic, nil))
	}
	return activation
}()

// newBaseActivation declares the intrinsics for the interpreter,
// operating on the given environment.
func newBaseActivation(env *host.Environment) *interpreter.VariableActivation {
	activation := activations.NewActivation(nil, interpreter.BaseActivation)
	for _, intrinsic := range host.Intrinsics() {
		interpreter.Declare(activation, intrinsicFunction(intrinsic, env))
	}
	return activation
}

func baseValueActivationHandler(_ common.Location) *sema.VariableActivation {
	return baseValueActivation
}
