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

// Stmt is a statement of a compiled workload function.
type Stmt interface {
	isStmt()
	Accept(Visitor) Repr
}

// EndsInReturn reports whether the statement is, or is a sequence ending in, a return.
// Code after such a statement is never reached.
func EndsInReturn(stmt Stmt) bool {
	switch stmt := stmt.(type) {
	case *Return:
		return true
	case *Sequence:
		if len(stmt.Stmts) == 0 {
			return false
		}
		return EndsInReturn(stmt.Stmts[len(stmt.Stmts)-1])
	}
	return false
}

// Sequence is the body of a block. Each block is its own scope for locals.
type Sequence struct {
	Stmts []Stmt
}

func (*Sequence) isStmt() {}

func (s *Sequence) Accept(v Visitor) Repr {
	return v.VisitSequence(s)
}

// If branches on a Bool test. Optional bindings are not compiled.
type If struct {
	Test Expr
	Then Stmt
	// Else is optional.
	Else Stmt
}

func (*If) isStmt() {}

func (s *If) Accept(v Visitor) Repr {
	return v.VisitIf(s)
}

// StoreLocal stores the value of a declaration or assignment in a local.
type StoreLocal struct {
	LocalIndex uint32
	Exp        Expr
}

func (*StoreLocal) isStmt() {}

func (s *StoreLocal) Accept(v Visitor) Repr {
	return v.VisitStoreLocal(s)
}

// Drop evaluates an expression and discards its result.
type Drop struct {
	Exp Expr
}

func (*Drop) isStmt() {}

func (s *Drop) Accept(v Visitor) Repr {
	return v.VisitDrop(s)
}

// Return leaves the function. The result of the entry function is the measured value.
type Return struct {
	// Exp is nil for functions without a result.
	Exp Expr
}

func (*Return) isStmt() {}

func (s *Return) Accept(v Visitor) Repr {
	return v.VisitReturn(s)
}
