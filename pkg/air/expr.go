// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package air provides the vocabulary for expressing algebraic constraints
// over execution traces: symbolic expressions, the constraint builder, lookup
// buses and the reusable arithmetic operations shared between chips.
package air

import (
	"fmt"
	"strings"

	"github.com/consensys/go-rivet/pkg/field/babybear"
)

// Expr is a multivariate polynomial over the columns of a single trace
// window (the current row and its successor).  Expressions are built
// symbolically by chip constraint code, and either evaluated concretely
// against trace rows (debugging) or inspected structurally (interaction
// collection).
type Expr interface {
	// Eval evaluates this expression over a concrete pair of adjacent rows.
	Eval(local, next []babybear.Element) babybear.Element
	// String returns a human-readable rendition, used in failure reports.
	String() string
}

// ============================================================================
// Leaves
// ============================================================================

type constExpr struct {
	value babybear.Element
}

type colExpr struct {
	index uint
	// shift is 0 for the current row, 1 for the next row.
	shift uint
}

// Const lifts a field element into an expression.
func Const(value babybear.Element) Expr {
	return &constExpr{value}
}

// C lifts a u32 constant into an expression.
func C(value uint32) Expr {
	return &constExpr{babybear.New(value)}
}

// Zero is the additive identity expression.
func Zero() Expr {
	return &constExpr{babybear.Zero()}
}

// One is the multiplicative identity expression.
func One() Expr {
	return &constExpr{babybear.One()}
}

// Local reads the given column on the current row.
func Local(index uint) Expr {
	return &colExpr{index, 0}
}

// Next reads the given column on the following row.
func Next(index uint) Expr {
	return &colExpr{index, 1}
}

func (e *constExpr) Eval(local, next []babybear.Element) babybear.Element {
	return e.value
}

func (e *colExpr) Eval(local, next []babybear.Element) babybear.Element {
	if e.shift == 0 {
		return local[e.index]
	}
	//
	return next[e.index]
}

func (e *constExpr) String() string {
	return e.value.String()
}

func (e *colExpr) String() string {
	if e.shift == 0 {
		return fmt.Sprintf("c%d", e.index)
	}
	//
	return fmt.Sprintf("c%d'", e.index)
}

// ============================================================================
// Connectives
// ============================================================================

type addExpr struct{ args []Expr }
type subExpr struct{ lhs, rhs Expr }
type mulExpr struct{ args []Expr }
type negExpr struct{ arg Expr }

// Add sums zero or more expressions.
func Add(args ...Expr) Expr {
	switch len(args) {
	case 0:
		return Zero()
	case 1:
		return args[0]
	default:
		return &addExpr{args}
	}
}

// Sub subtracts rhs from lhs.
func Sub(lhs, rhs Expr) Expr {
	return &subExpr{lhs, rhs}
}

// Mul multiplies one or more expressions.
func Mul(args ...Expr) Expr {
	if len(args) == 1 {
		return args[0]
	}
	//
	return &mulExpr{args}
}

// Neg negates an expression.
func Neg(arg Expr) Expr {
	return &negExpr{arg}
}

func (e *addExpr) Eval(local, next []babybear.Element) babybear.Element {
	acc := babybear.Zero()
	for _, arg := range e.args {
		acc = acc.Add(arg.Eval(local, next))
	}
	//
	return acc
}

func (e *subExpr) Eval(local, next []babybear.Element) babybear.Element {
	return e.lhs.Eval(local, next).Sub(e.rhs.Eval(local, next))
}

func (e *mulExpr) Eval(local, next []babybear.Element) babybear.Element {
	acc := babybear.One()
	for _, arg := range e.args {
		acc = acc.Mul(arg.Eval(local, next))
	}
	//
	return acc
}

func (e *negExpr) Eval(local, next []babybear.Element) babybear.Element {
	return e.arg.Eval(local, next).Neg()
}

func (e *addExpr) String() string {
	return nary("+", e.args)
}

func (e *subExpr) String() string {
	return fmt.Sprintf("(%s - %s)", e.lhs, e.rhs)
}

func (e *mulExpr) String() string {
	return nary("*", e.args)
}

func (e *negExpr) String() string {
	return fmt.Sprintf("-%s", e.arg)
}

func nary(op string, args []Expr) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	//
	for i, arg := range args {
		if i != 0 {
			builder.WriteString(" ")
			builder.WriteString(op)
			builder.WriteString(" ")
		}
		//
		builder.WriteString(arg.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
