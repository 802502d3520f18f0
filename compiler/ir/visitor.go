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

package ir

type Repr any

type Visitor interface {
	VisitInt64(Int64) Repr
	VisitUInt64(UInt64) Repr
	VisitBool(Bool) Repr
	VisitAddress(Address) Repr
	VisitString(String) Repr
	VisitOperand(Operand) Repr

	VisitSequence(*Sequence) Repr
	VisitIf(*If) Repr
	VisitStoreLocal(*StoreLocal) Repr
	VisitDrop(*Drop) Repr
	VisitReturn(*Return) Repr

	VisitConst(*Const) Repr
	VisitCopyLocal(*CopyLocal) Repr
	VisitUnOpExpr(*UnOpExpr) Repr
	VisitBinOpExpr(*BinOpExpr) Repr
	VisitConvert(*Convert) Repr
	VisitConditional(*Conditional) Repr
	VisitCall(*Call) Repr
	VisitFunc(*Func) Repr
}
