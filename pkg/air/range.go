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

// modulusTopByte is the most significant byte of the BabyBear modulus
// 2013265921 (0x78000001).
const modulusTopByte uint32 = 0x78

// BabyBearWordRangeChecker witnesses that a four-limb word encodes a value
// strictly below the BabyBear modulus, so it can be safely reduced to a
// single field element without aliasing.  A word is in range when its top
// byte is below 0x78, or its top byte equals 0x78 and all lower bytes are
// zero.
type BabyBearWordRangeChecker[T any] struct {
	// UpperLT witnesses top byte < 0x78, proven via a byte table lookup.
	UpperLT T
}

// PopulateBabyBearRange fills the witness column for a given in-range value.
func PopulateBabyBearRange(op *BabyBearWordRangeChecker[babybear.Element], record ByteRecord, value uint32) {
	top := uint8(value >> 24)
	lt := top < uint8(modulusTopByte)
	op.UpperLT = babybear.FromBool(lt)
	//
	record.AddByteLookupEvent(ByteLookupEvent{
		Opcode: ByteLTU,
		A1:     boolByte(lt),
		B:      top,
		C:      uint8(modulusTopByte),
	})
}

// EvalBabyBearRange constrains the given word to lie strictly below the
// BabyBear modulus, under the given realness guard.
func EvalBabyBearRange(b Builder, op BabyBearWordRangeChecker[Expr], word Word[Expr], isReal Expr) {
	guarded := b.When(isReal)
	guarded.AssertBool(op.UpperLT)
	// When the top byte is not below 0x78, it must equal it and all lower
	// bytes must vanish.
	boundary := guarded.When(Sub(One(), op.UpperLT))
	boundary.AssertEq(word[3], C(modulusTopByte))
	boundary.AssertZero(word[0])
	boundary.AssertZero(word[1])
	boundary.AssertZero(word[2])
	//
	b.Send(ByteBus, isReal, C(uint32(ByteLTU)), op.UpperLT, Zero(), word[3], C(modulusTopByte))
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	//
	return 0
}
