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

package air

import "github.com/consensys/go-rivet/pkg/field/babybear"

// IsZeroOperation witnesses whether a field element is zero, using the
// classic inverse trick: Result == 1 - Inverse * input, with Result * input
// forced to vanish.  At input zero the inverse witness is zero and the
// result one; at nonzero input the inverse is the true field inverse and
// the result zero.
type IsZeroOperation[T any] struct {
	Inverse T
	Result  T
}

// PopulateIsZero fills the witness columns for a given input and returns
// the boolean result.
func PopulateIsZero(op *IsZeroOperation[babybear.Element], input babybear.Element) bool {
	if input.IsZero() {
		op.Inverse = babybear.Zero()
		op.Result = babybear.One()
		//
		return true
	}
	//
	op.Inverse = input.Inverse()
	op.Result = babybear.Zero()
	//
	return false
}

// EvalIsZero constrains the witness columns against the input, under the
// given realness guard.
func EvalIsZero(b Builder, op IsZeroOperation[Expr], input Expr, isReal Expr) {
	guarded := b.When(isReal)
	// result == 1 - inverse * input
	guarded.AssertEq(op.Result, Sub(One(), Mul(op.Inverse, input)))
	// result is only set when the input vanishes
	guarded.AssertZero(Mul(op.Result, input))
}

// IsZeroWordOperation witnesses whether a word is zero, limb by limb.  The
// result is the conjunction of the per-limb results.
type IsZeroWordOperation[T any] struct {
	IsZeroByte [WordSize]IsZeroOperation[T]
	Result     T
}

// PopulateIsZeroWord fills the witness columns for a given word value and
// returns the boolean result.
func PopulateIsZeroWord(op *IsZeroWordOperation[babybear.Element], value uint32) bool {
	result := true
	//
	for i := 0; i < WordSize; i++ {
		limb := babybear.New((value >> (8 * i)) & 0xff)
		result = PopulateIsZero(&op.IsZeroByte[i], limb) && result
	}
	//
	op.Result = babybear.FromBool(result)
	//
	return result
}

// EvalIsZeroWord constrains the witness columns against a word, under the
// given realness guard.
func EvalIsZeroWord(b Builder, op IsZeroWordOperation[Expr], word Word[Expr], isReal Expr) {
	product := One()
	//
	for i := 0; i < WordSize; i++ {
		EvalIsZero(b, op.IsZeroByte[i], word[i], isReal)
		product = Mul(product, op.IsZeroByte[i].Result)
	}
	//
	b.When(isReal).AssertEq(op.Result, product)
}

// IsEqualWordOperation witnesses whether two words agree, as a zero check
// over their limbwise difference.
type IsEqualWordOperation[T any] struct {
	IsDiffZero IsZeroWordOperation[T]
}

// PopulateIsEqualWord fills the witness columns for a given pair of word
// values and returns the boolean result.
func PopulateIsEqualWord(op *IsEqualWordOperation[babybear.Element], lhs, rhs uint32) bool {
	result := true
	//
	for i := 0; i < WordSize; i++ {
		a := babybear.New((lhs >> (8 * i)) & 0xff)
		b := babybear.New((rhs >> (8 * i)) & 0xff)
		result = PopulateIsZero(&op.IsDiffZero.IsZeroByte[i], a.Sub(b)) && result
	}
	//
	op.IsDiffZero.Result = babybear.FromBool(result)
	//
	return result
}

// EvalIsEqualWord constrains the witness columns against a pair of words,
// under the given realness guard.
func EvalIsEqualWord(b Builder, op IsEqualWordOperation[Expr], lhs, rhs Word[Expr], isReal Expr) {
	var diff Word[Expr]
	//
	for i := 0; i < WordSize; i++ {
		diff[i] = Sub(lhs[i], rhs[i])
	}
	//
	EvalIsZeroWord(b, op.IsDiffZero, diff, isReal)
}
