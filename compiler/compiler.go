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

package compiler

import (
	"encoding/binary"
	goerrors "errors"
	"fmt"
	"math/big"

	"github.com/onflow/cadence/activations"
	"github.com/onflow/cadence/ast"
	"github.com/onflow/cadence/common"
	"github.com/onflow/cadence/errors"

	"github.com/onflow/cadence-benchmarking/compiler/ir"
	"github.com/onflow/cadence-benchmarking/host"
)

// IntrinsicResolver returns the intrinsic with the given name.
type IntrinsicResolver func(name string) (*host.Intrinsic, error)

// Compiler lowers the functions of a program to IR.
//
// Only functions reachable from the entry function are compiled.
// Locals are Int64, UInt64, Bool, Address, or String values;
// any other construct is reported as unsupported.
type Compiler struct {
	Location   common.Location
	program    *ast.Program
	intrinsics IntrinsicResolver

	declarations map[string]*ast.FunctionDeclaration
	signatures   map[string]ir.FuncType
	pending      []string
	scheduled    map[string]bool
	funcs        []*ir.Func
	used         map[string]struct{}
	usedOrder    []string

	activations *activations.Activations[*Local]
	locals      []*Local
	resultType  ir.ValType
}

func NewCompiler(location common.Location, program *ast.Program, intrinsics IntrinsicResolver) *Compiler {
	declarations := map[string]*ast.FunctionDeclaration{}
	for _, declaration := range program.FunctionDeclarations() {
		declarations[declaration.Identifier.Identifier] = declaration
	}

	return &Compiler{
		Location:     location,
		program:      program,
		intrinsics:   intrinsics,
		declarations: declarations,
		signatures:   map[string]ir.FuncType{},
		scheduled:    map[string]bool{},
		used:         map[string]struct{}{},
	}
}

// Compile compiles the entry function and all functions it calls.
func (c *Compiler) Compile(entry string) (program *ir.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			recovered, ok := r.(error)
			var userErr errors.UserError
			if !ok || !goerrors.As(recovered, &userErr) {
				panic(r)
			}
			err = recovered
		}
	}()

	declaration, ok := c.declarations[entry]
	if !ok {
		return nil, &MissingEntryFunctionError{
			Location: c.Location,
			Name:     entry,
		}
	}

	signature := c.signature(entry)
	if len(signature.Params) > 0 || signature.Result != ir.ValTypeBool {
		return nil, &MissingEntryFunctionError{
			Location: c.Location,
			Name:     declaration.Identifier.Identifier,
		}
	}

	c.schedule(entry)

	for len(c.pending) > 0 {
		name := c.pending[0]
		c.pending = c.pending[1:]
		c.funcs = append(c.funcs, c.compileFunction(c.declarations[name]))
	}

	return &ir.Program{
		Funcs:      c.funcs,
		Intrinsics: c.usedOrder,
	}, nil
}

func (c *Compiler) unsupported(element ast.HasPosition, construct string) *UnsupportedError {
	return &UnsupportedError{
		Location:  c.Location,
		Position:  element.StartPosition(),
		Construct: construct,
	}
}

// declareLocal declares a local.
func (c *Compiler) declareLocal(identifier string, valType ir.ValType) *Local {
	// NOTE: semantic analysis already checked possible invalid redeclaration
	index := uint32(len(c.locals))
	local := NewLocal(index, valType)
	c.locals = append(c.locals, local)
	c.activations.Set(identifier, local)
	return local
}

func (c *Compiler) findLocal(name string) *Local {
	return c.activations.Find(name)
}

// signature returns the type of the function with the given name.
func (c *Compiler) signature(name string) ir.FuncType {
	if signature, ok := c.signatures[name]; ok {
		return signature
	}

	declaration := c.declarations[name]

	var params []ir.ValType
	if declaration.ParameterList != nil {
		for _, parameter := range declaration.ParameterList.Parameters {
			params = append(params, c.compileTypeAnnotation(parameter.TypeAnnotation, parameter))
		}
	}

	signature := ir.FuncType{
		Params: params,
		Result: c.compileTypeAnnotation(declaration.ReturnTypeAnnotation, declaration),
	}
	c.signatures[name] = signature
	return signature
}

func (c *Compiler) compileFunction(declaration *ast.FunctionDeclaration) *ir.Func {
	functionBlock := declaration.FunctionBlock
	if functionBlock == nil || functionBlock.Block == nil {
		panic(c.unsupported(declaration, "function without body"))
	}
	if functionBlock.PreConditions != nil || functionBlock.PostConditions != nil {
		panic(c.unsupported(declaration, "function conditions"))
	}

	name := declaration.Identifier.Identifier
	signature := c.signature(name)

	c.locals = nil
	c.activations = activations.NewActivations[*Local](nil)
	c.resultType = signature.Result

	// Declare a local for each parameter

	c.activations.PushNewWithCurrent()
	if declaration.ParameterList != nil {
		for i, parameter := range declaration.ParameterList.Parameters {
			c.declareLocal(parameter.Identifier.Identifier, signature.Params[i])
		}
	}

	stmt := c.compileBlock(functionBlock.Block)

	c.activations.Pop()

	// parameters are not part of the locals of the function
	locals := make([]ir.Local, 0, len(c.locals)-len(signature.Params))
	for _, local := range c.locals[len(signature.Params):] {
		locals = append(locals, ir.Local{Type: local.Type})
	}

	return &ir.Func{
		Name:      name,
		Type:      signature,
		Locals:    locals,
		Statement: stmt,
	}
}

func (c *Compiler) compileBlock(block *ast.Block) ir.Stmt {

	// Block scope: each block gets an activation record

	c.activations.PushNewWithCurrent()
	defer c.activations.Pop()

	stmts := make([]ir.Stmt, 0, len(block.Statements))
	for _, statement := range block.Statements {
		stmts = append(stmts, c.compileStatement(statement))
	}

	return &ir.Sequence{
		Stmts: stmts,
	}
}

func (c *Compiler) compileStatement(statement ast.Statement) ir.Stmt {
	switch statement := statement.(type) {
	case *ast.VariableDeclaration:
		return c.compileVariableDeclaration(statement)

	case *ast.AssignmentStatement:
		target, ok := statement.Target.(*ast.IdentifierExpression)
		if !ok {
			panic(c.unsupported(statement, "assignment to "+statement.Target.String()))
		}
		local := c.findLocal(target.Identifier.Identifier)
		if local == nil {
			panic(c.unsupported(statement, "assignment to global "+target.Identifier.Identifier))
		}
		return &ir.StoreLocal{
			LocalIndex: local.Index,
			Exp:        c.compileExpression(statement.Value, local.Type),
		}

	case *ast.IfStatement:
		test, ok := statement.Test.(ast.Expression)
		if !ok {
			panic(c.unsupported(statement, "optional binding"))
		}
		result := &ir.If{
			Test: c.compileExpression(test, ir.ValTypeBool),
			Then: c.compileBlock(statement.Then),
		}
		if statement.Else != nil {
			result.Else = c.compileBlock(statement.Else)
		}
		return result

	case *ast.ReturnStatement:
		if statement.Expression == nil {
			return &ir.Return{}
		}
		return &ir.Return{
			Exp: c.compileExpression(statement.Expression, c.resultType),
		}

	case *ast.ExpressionStatement:
		return &ir.Drop{
			Exp: c.compileExpression(statement.Expression, ir.ValTypeUnknown),
		}
	}

	panic(c.unsupported(statement, "statement "+statement.ElementType().String()))
}

func (c *Compiler) compileVariableDeclaration(declaration *ast.VariableDeclaration) ir.Stmt {
	if declaration.SecondValue != nil {
		panic(c.unsupported(declaration, "second value"))
	}

	var valType ir.ValType
	if declaration.TypeAnnotation != nil {
		valType = c.compileTypeAnnotation(declaration.TypeAnnotation, declaration)
	} else {
		valType = c.inferType(declaration.Value)
	}
	if valType == ir.ValTypeUnknown {
		panic(c.unsupported(declaration, "variable of type Int"))
	}

	// the value is compiled before the local is declared,
	// it cannot refer to the declared variable
	exp := c.compileExpression(declaration.Value, valType)
	local := c.declareLocal(declaration.Identifier.Identifier, valType)

	return &ir.StoreLocal{
		LocalIndex: local.Index,
		Exp:        exp,
	}
}

func (c *Compiler) compileTypeAnnotation(annotation *ast.TypeAnnotation, element ast.HasPosition) ir.ValType {
	if annotation == nil || annotation.Type == nil {
		return ir.ValTypeVoid
	}
	nominalType, ok := annotation.Type.(*ast.NominalType)
	if !ok || len(nominalType.NestedIdentifiers) > 0 || annotation.IsResource {
		panic(c.unsupported(element, "type "+annotation.Type.String()))
	}
	valType := valTypeByName(nominalType.Identifier.Identifier)
	if valType == ir.ValTypeUnknown {
		panic(c.unsupported(element, "type "+annotation.Type.String()))
	}
	return valType
}

func valTypeByName(name string) ir.ValType {
	switch name {
	case "", "Void":
		return ir.ValTypeVoid
	case "Int64":
		return ir.ValTypeInt64
	case "UInt64":
		return ir.ValTypeUInt64
	case "Bool":
		return ir.ValTypeBool
	case "Address":
		return ir.ValTypeAddress
	case "String":
		return ir.ValTypeString
	}
	return ir.ValTypeUnknown
}

func intrinsicValType(kind host.Kind) ir.ValType {
	switch kind {
	case host.KindVoid:
		return ir.ValTypeVoid
	case host.KindInt64:
		return ir.ValTypeInt64
	case host.KindUInt64:
		return ir.ValTypeUInt64
	case host.KindBool:
		return ir.ValTypeBool
	case host.KindString:
		return ir.ValTypeString
	case host.KindAddress:
		return ir.ValTypeAddress
	case host.KindOperand:
		return ir.ValTypeOperand
	}
	panic(errors.NewUnreachableError())
}

// castTypeName returns the name of the target type of a cast.
func castTypeName(expression *ast.CastingExpression) string {
	if expression.TypeAnnotation == nil {
		return ""
	}
	nominalType, ok := expression.TypeAnnotation.Type.(*ast.NominalType)
	if !ok || len(nominalType.NestedIdentifiers) > 0 {
		return ""
	}
	return nominalType.Identifier.Identifier
}

// integerLiteral returns the value of an integer literal, possibly negated.
func integerLiteral(expression ast.Expression) (*big.Int, bool) {
	switch expression := expression.(type) {
	case *ast.IntegerExpression:
		return expression.Value, true
	case *ast.UnaryExpression:
		if expression.Operation != ast.OperationMinus {
			return nil, false
		}
		value, ok := integerLiteral(expression.Expression)
		if !ok {
			return nil, false
		}
		return new(big.Int).Neg(value), true
	}
	return nil, false
}

// inferType returns the type of an expression without compiling it.
// Integer literals without a cast have no type on their own.
func (c *Compiler) inferType(expression ast.Expression) ir.ValType {
	switch expression := expression.(type) {
	case *ast.BoolExpression:
		return ir.ValTypeBool

	case *ast.StringExpression:
		return ir.ValTypeString

	case *ast.IdentifierExpression:
		if local := c.findLocal(expression.Identifier.Identifier); local != nil {
			return local.Type
		}

	case *ast.CastingExpression:
		return valTypeByName(castTypeName(expression))

	case *ast.UnaryExpression:
		if expression.Operation == ast.OperationNegate {
			return ir.ValTypeBool
		}
		return c.inferType(expression.Expression)

	case *ast.BinaryExpression:
		op, ok := compileBinaryOperation(expression.Operation)
		if !ok {
			return ir.ValTypeUnknown
		}
		if op.IsComparison() {
			return ir.ValTypeBool
		}
		if valType := c.inferType(expression.Left); valType != ir.ValTypeUnknown {
			return valType
		}
		return c.inferType(expression.Right)

	case *ast.ConditionalExpression:
		if valType := c.inferType(expression.Then); valType != ir.ValTypeUnknown {
			return valType
		}
		return c.inferType(expression.Else)

	case *ast.InvocationExpression:
		identifier, ok := expression.InvokedExpression.(*ast.IdentifierExpression)
		if !ok {
			return ir.ValTypeUnknown
		}
		name := identifier.Identifier.Identifier
		if conversion := conversionTarget(name); conversion != ir.ValTypeUnknown {
			return conversion
		}
		if _, ok := c.declarations[name]; ok {
			return c.signature(name).Result
		}
		if intrinsic, err := c.intrinsics(name); err == nil {
			return intrinsicValType(intrinsic.Result)
		}
	}

	return ir.ValTypeUnknown
}

func conversionTarget(name string) ir.ValType {
	switch name {
	case "Int64":
		return ir.ValTypeInt64
	case "UInt64":
		return ir.ValTypeUInt64
	}
	return ir.ValTypeUnknown
}

// compileExpression compiles an expression of the expected type.
// If the expected type is unknown, the type of the expression is inferred.
func (c *Compiler) compileExpression(expression ast.Expression, expected ir.ValType) ir.Expr {
	result := c.compileUncheckedExpression(expression, expected)
	if expected != ir.ValTypeUnknown && result.Type() != expected {
		panic(&TypeMismatchError{
			Location: c.Location,
			Position: expression.StartPosition(),
			Expected: expected,
			Actual:   result.Type(),
		})
	}
	return result
}

func (c *Compiler) compileUncheckedExpression(expression ast.Expression, expected ir.ValType) ir.Expr {
	switch expression := expression.(type) {
	case *ast.BoolExpression:
		return &ir.Const{
			Constant: ir.Bool{Value: expression.Value},
		}

	case *ast.IntegerExpression:
		return c.compileIntegerLiteral(expression, expression.Value, expected)

	case *ast.StringExpression:
		if expected == ir.ValTypeOperand {
			operand, err := host.NewBufferOperand(expression.Value)
			if err != nil {
				panic(c.invalidLiteral(expression, "buffer", err))
			}
			return &ir.Const{
				Constant: ir.Operand{Value: operand.Encode()},
			}
		}
		return &ir.Const{
			Constant: ir.String{Value: expression.Value},
		}

	case *ast.IdentifierExpression:
		local := c.findLocal(expression.Identifier.Identifier)
		if local == nil {
			panic(c.unsupported(expression, "global "+expression.Identifier.Identifier))
		}
		return &ir.CopyLocal{
			LocalIndex: local.Index,
			LocalType:  local.Type,
		}

	case *ast.CastingExpression:
		return c.compileCastingExpression(expression, expected)

	case *ast.UnaryExpression:
		return c.compileUnaryExpression(expression, expected)

	case *ast.BinaryExpression:
		return c.compileBinaryExpression(expression, expected)

	case *ast.ConditionalExpression:
		valType := expected
		if valType == ir.ValTypeUnknown {
			valType = c.inferType(expression)
		}
		return &ir.Conditional{
			Test: c.compileExpression(expression.Test, ir.ValTypeBool),
			Then: c.compileExpression(expression.Then, valType),
			Else: c.compileExpression(expression.Else, valType),
		}

	case *ast.InvocationExpression:
		return c.compileInvocationExpression(expression)
	}

	panic(c.unsupported(expression, "expression "+expression.ElementType().String()))
}

func (c *Compiler) invalidLiteral(element ast.HasPosition, typeName string, err error) *InvalidLiteralError {
	return &InvalidLiteralError{
		Location: c.Location,
		Position: element.StartPosition(),
		Type:     typeName,
		Err:      err,
	}
}

func (c *Compiler) compileIntegerLiteral(element ast.HasPosition, value *big.Int, expected ir.ValType) ir.Expr {
	switch expected {
	case ir.ValTypeInt64:
		if !value.IsInt64() {
			panic(c.invalidLiteral(element, "Int64", fmt.Errorf("%s is out of range", value)))
		}
		return &ir.Const{
			Constant: ir.Int64{Value: value.Int64()},
		}

	case ir.ValTypeUInt64:
		if !value.IsUint64() {
			panic(c.invalidLiteral(element, "UInt64", fmt.Errorf("%s is out of range", value)))
		}
		return &ir.Const{
			Constant: ir.UInt64{Value: value.Uint64()},
		}

	case ir.ValTypeAddress:
		if !value.IsUint64() {
			panic(c.invalidLiteral(element, "Address", fmt.Errorf("%s is out of range", value)))
		}
		var address ir.Address
		binary.BigEndian.PutUint64(address.Value[:], value.Uint64())
		return &ir.Const{
			Constant: address,
		}
	}

	panic(c.unsupported(element, "integer literal of type "+expected.String()))
}

func (c *Compiler) compileCastingExpression(expression *ast.CastingExpression, expected ir.ValType) ir.Expr {
	if expression.Operation != ast.OperationCast {
		panic(c.unsupported(expression, "failable or force cast"))
	}

	typeName := castTypeName(expression)

	if expected == ir.ValTypeOperand {
		value, ok := integerLiteral(expression.Expression)
		if ok {
			var operand host.Operand
			var err error
			switch typeName {
			case "UInt128":
				operand, err = host.NewUInt128Operand(value)
			case "Int128":
				operand, err = host.NewInt128Operand(value)
			default:
				panic(c.unsupported(expression, "operand of type "+typeName))
			}
			if err != nil {
				panic(c.invalidLiteral(expression, typeName, err))
			}
			return &ir.Const{
				Constant: ir.Operand{Value: operand.Encode()},
			}
		}
	}

	valType := valTypeByName(typeName)
	if valType == ir.ValTypeUnknown || valType == ir.ValTypeVoid {
		panic(c.unsupported(expression, "cast to "+typeName))
	}

	return c.compileExpression(expression.Expression, valType)
}

func (c *Compiler) compileUnaryExpression(expression *ast.UnaryExpression, expected ir.ValType) ir.Expr {
	switch expression.Operation {
	case ast.OperationNegate:
		return &ir.UnOpExpr{
			Op:  ir.UnOpNot,
			Exp: c.compileExpression(expression.Expression, ir.ValTypeBool),
		}

	case ast.OperationMinus:
		if value, ok := integerLiteral(expression); ok {
			return c.compileIntegerLiteral(expression, value, expected)
		}
		valType := expected
		if valType == ir.ValTypeUnknown {
			valType = c.inferType(expression.Expression)
		}
		if valType != ir.ValTypeInt64 {
			panic(c.unsupported(expression, "negation of "+valType.String()))
		}
		return &ir.UnOpExpr{
			Op:  ir.UnOpNegate,
			Exp: c.compileExpression(expression.Expression, valType),
		}
	}

	panic(c.unsupported(expression, "unary operation "+expression.Operation.String()))
}

func compileBinaryOperation(operation ast.Operation) (ir.BinOp, bool) {
	switch operation {
	case ast.OperationPlus:
		return ir.BinOpPlus, true
	case ast.OperationMinus:
		return ir.BinOpMinus, true
	case ast.OperationMul:
		return ir.BinOpMul, true
	case ast.OperationDiv:
		return ir.BinOpDiv, true
	case ast.OperationMod:
		return ir.BinOpMod, true
	case ast.OperationBitwiseAnd:
		return ir.BinOpBitwiseAnd, true
	case ast.OperationBitwiseOr:
		return ir.BinOpBitwiseOr, true
	case ast.OperationBitwiseXor:
		return ir.BinOpBitwiseXor, true
	case ast.OperationBitwiseLeftShift:
		return ir.BinOpShiftLeft, true
	case ast.OperationBitwiseRightShift:
		return ir.BinOpShiftRight, true
	case ast.OperationLess:
		return ir.BinOpLess, true
	case ast.OperationLessEqual:
		return ir.BinOpLessEqual, true
	case ast.OperationGreater:
		return ir.BinOpGreater, true
	case ast.OperationGreaterEqual:
		return ir.BinOpGreaterEqual, true
	case ast.OperationEqual:
		return ir.BinOpEqual, true
	case ast.OperationNotEqual:
		return ir.BinOpNotEqual, true
	case ast.OperationAnd:
		return ir.BinOpAnd, true
	case ast.OperationOr:
		return ir.BinOpOr, true
	}
	return 0, false
}

func (c *Compiler) compileBinaryExpression(expression *ast.BinaryExpression, expected ir.ValType) ir.Expr {
	op, ok := compileBinaryOperation(expression.Operation)
	if !ok {
		panic(c.unsupported(expression, "binary operation "+expression.Operation.String()))
	}

	var operandType ir.ValType

	switch op {
	case ir.BinOpAnd, ir.BinOpOr:
		operandType = ir.ValTypeBool

	case ir.BinOpLess, ir.BinOpLessEqual, ir.BinOpGreater, ir.BinOpGreaterEqual,
		ir.BinOpEqual, ir.BinOpNotEqual:

		operandType = c.inferType(expression.Left)
		if operandType == ir.ValTypeUnknown {
			operandType = c.inferType(expression.Right)
		}
		switch operandType {
		case ir.ValTypeInt64, ir.ValTypeUInt64:
		case ir.ValTypeBool, ir.ValTypeAddress:
			if op != ir.BinOpEqual && op != ir.BinOpNotEqual {
				panic(c.unsupported(expression, "comparison of "+operandType.String()))
			}
		default:
			panic(c.unsupported(expression, "comparison of "+operandType.String()))
		}

	default:
		operandType = expected
		if !operandType.IsInteger() {
			operandType = c.inferType(expression.Left)
		}
		if operandType == ir.ValTypeUnknown {
			operandType = c.inferType(expression.Right)
		}
		if !operandType.IsInteger() {
			panic(c.unsupported(expression, "arithmetic on "+operandType.String()))
		}
	}

	return &ir.BinOpExpr{
		Op:    op,
		Left:  c.compileExpression(expression.Left, operandType),
		Right: c.compileExpression(expression.Right, operandType),
	}
}

func (c *Compiler) compileInvocationExpression(expression *ast.InvocationExpression) ir.Expr {
	identifier, ok := expression.InvokedExpression.(*ast.IdentifierExpression)
	if !ok {
		panic(c.unsupported(expression, "invocation of "+expression.InvokedExpression.String()))
	}
	if len(expression.TypeArguments) > 0 {
		panic(c.unsupported(expression, "type arguments"))
	}

	name := identifier.Identifier.Identifier

	if target := conversionTarget(name); target != ir.ValTypeUnknown {
		return c.compileConversion(expression, target)
	}

	var params []ir.ValType
	var result ir.ValType
	var isIntrinsic bool

	if _, ok := c.declarations[name]; ok {
		signature := c.signature(name)
		params = signature.Params
		result = signature.Result
		c.schedule(name)
	} else {
		intrinsic, err := c.intrinsics(name)
		if err != nil {
			panic(c.unsupported(expression, "invocation of "+name))
		}
		for _, parameter := range intrinsic.Parameters {
			params = append(params, intrinsicValType(parameter.Kind))
		}
		result = intrinsicValType(intrinsic.Result)
		isIntrinsic = true

		if _, ok := c.used[name]; !ok {
			c.used[name] = struct{}{}
			c.usedOrder = append(c.usedOrder, name)
		}
	}

	if len(expression.Arguments) != len(params) {
		panic(c.unsupported(expression, fmt.Sprintf("invocation of %s with %d arguments", name, len(expression.Arguments))))
	}

	arguments := make([]ir.Expr, 0, len(params))
	for i, argument := range expression.Arguments {
		arguments = append(arguments, c.compileExpression(argument.Expression, params[i]))
	}

	return &ir.Call{
		Function:   name,
		Intrinsic:  isIntrinsic,
		Arguments:  arguments,
		ResultType: result,
	}
}

// schedule schedules the compilation of the function, unless it was already scheduled.
func (c *Compiler) schedule(name string) {
	if c.scheduled[name] {
		return
	}
	c.scheduled[name] = true
	c.pending = append(c.pending, name)
}

func (c *Compiler) compileConversion(expression *ast.InvocationExpression, target ir.ValType) ir.Expr {
	if len(expression.Arguments) != 1 {
		panic(c.unsupported(expression, "conversion with multiple arguments"))
	}
	argument := expression.Arguments[0].Expression

	if value, ok := integerLiteral(argument); ok {
		return c.compileIntegerLiteral(argument, value, target)
	}

	source := c.inferType(argument)
	if !source.IsInteger() {
		panic(c.unsupported(expression, "conversion of "+source.String()))
	}

	exp := c.compileExpression(argument, source)
	if source == target {
		return exp
	}

	return &ir.Convert{
		To:  target,
		Exp: exp,
	}
}
