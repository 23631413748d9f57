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

// AddOperation witnesses a u32 addition as byte-limb arithmetic with
// explicit carries.  The top carry is discarded, realising wrapping
// semantics.
type AddOperation[T any] struct {
	Value Word[T]
	Carry [WordSize - 1]T
}

// PopulateAdd fills the witness columns for a + b and returns the wrapped
// sum, range checking the result limbs.
func PopulateAdd(op *AddOperation[babybear.Element], record ByteRecord, a, b uint32) uint32 {
	sum := a + b
	op.Value = WordFromUint32(sum)
	//
	carry := uint32(0)
	for i := 0; i < WordSize-1; i++ {
		carry = ((a >> (8 * i) & 0xff) + (b >> (8 * i) & 0xff) + carry) >> 8
		op.Carry[i] = babybear.New(carry)
	}
	//
	AddU8RangeChecks(record, uint8(sum), uint8(sum>>8), uint8(sum>>16), uint8(sum>>24))
	//
	return sum
}

// EvalAdd constrains the witness columns to hold a + b, under the given
// realness guard.
func EvalAdd(b Builder, op AddOperation[Expr], x, y Word[Expr], isReal Expr) {
	base := C(1 << 8)
	guarded := b.When(isReal)
	//
	guarded.AssertEq(Add(x[0], y[0]), Add(op.Value[0], Mul(op.Carry[0], base)))
	//
	for i := 1; i < WordSize-1; i++ {
		guarded.AssertEq(
			Add(x[i], y[i], op.Carry[i-1]),
			Add(op.Value[i], Mul(op.Carry[i], base)),
		)
	}
	// The top limb may overflow by exactly one carry, which is dropped.
	top := Sub(Add(x[3], y[3], op.Carry[2]), op.Value[3])
	guarded.AssertZero(Mul(top, Sub(top, base)))
	//
	for i := range op.Carry {
		guarded.AssertBool(op.Carry[i])
	}
	//
	rangeCheckWord(b, op.Value, isReal)
}

// SubOperation witnesses a u32 subtraction, expressed as the addition
// value + b == a so that the same carry discipline applies.
type SubOperation[T any] struct {
	Value Word[T]
	Carry [WordSize - 1]T
}

// PopulateSub fills the witness columns for a - b and returns the wrapped
// difference, range checking the result limbs.
func PopulateSub(op *SubOperation[babybear.Element], record ByteRecord, a, b uint32) uint32 {
	diff := a - b
	op.Value = WordFromUint32(diff)
	//
	carry := uint32(0)
	for i := 0; i < WordSize-1; i++ {
		carry = ((diff >> (8 * i) & 0xff) + (b >> (8 * i) & 0xff) + carry) >> 8
		op.Carry[i] = babybear.New(carry)
	}
	//
	AddU8RangeChecks(record, uint8(diff), uint8(diff>>8), uint8(diff>>16), uint8(diff>>24))
	//
	return diff
}

// EvalSub constrains the witness columns to hold a - b, under the given
// realness guard.
func EvalSub(b Builder, op SubOperation[Expr], x, y Word[Expr], isReal Expr) {
	base := C(1 << 8)
	guarded := b.When(isReal)
	//
	guarded.AssertEq(Add(op.Value[0], y[0]), Add(x[0], Mul(op.Carry[0], base)))
	//
	for i := 1; i < WordSize-1; i++ {
		guarded.AssertEq(
			Add(op.Value[i], y[i], op.Carry[i-1]),
			Add(x[i], Mul(op.Carry[i], base)),
		)
	}
	//
	top := Sub(Add(op.Value[3], y[3], op.Carry[2]), x[3])
	guarded.AssertZero(Mul(top, Sub(top, base)))
	//
	for i := range op.Carry {
		guarded.AssertBool(op.Carry[i])
	}
	//
	rangeCheckWord(b, op.Value, isReal)
}

// rangeCheckWord sends paired byte range checks for the limbs of a word.
func rangeCheckWord(b Builder, word Word[Expr], isReal Expr) {
	b.Send(ByteBus, isReal, C(uint32(ByteU8Range)), Zero(), Zero(), word[0], word[1])
	b.Send(ByteBus, isReal, C(uint32(ByteU8Range)), Zero(), Zero(), word[2], word[3])
}
