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

// WordSize is the number of byte limbs in a machine word.
const WordSize = 4

// Word is a 32-bit machine word decomposed into four little-endian byte
// limbs.  The limb type is babybear.Element when populating trace rows and
// Expr when expressing constraints, giving each chip a single column layout
// serving both purposes.
type Word[T any] [WordSize]T

// WordFromUint32 decomposes a u32 into field element limbs.
func WordFromUint32(value uint32) Word[babybear.Element] {
	return Word[babybear.Element]{
		babybear.New(value & 0xff),
		babybear.New((value >> 8) & 0xff),
		babybear.New((value >> 16) & 0xff),
		babybear.New((value >> 24) & 0xff),
	}
}

// WordToUint32 recomposes field element limbs into a u32, under the
// assumption that every limb is byte valued.
func WordToUint32(word Word[babybear.Element]) uint32 {
	var value uint32
	//
	for i := WordSize - 1; i >= 0; i-- {
		value = (value << 8) | word[i].Uint32()
	}
	//
	return value
}

// ReduceWord recombines the limbs of a word under base-256 weighting,
// yielding a single field element expression.
func ReduceWord(word Word[Expr]) Expr {
	return Add(
		word[0],
		Mul(C(1<<8), word[1]),
		Mul(C(1<<16), word[2]),
		Mul(C(1<<24), word[3]),
	)
}

// ExprWord lifts a concrete u32 into a constant word expression.
func ExprWord(value uint32) Word[Expr] {
	return Word[Expr]{
		C(value & 0xff),
		C((value >> 8) & 0xff),
		C((value >> 16) & 0xff),
		C((value >> 24) & 0xff),
	}
}
