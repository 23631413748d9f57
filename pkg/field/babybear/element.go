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
package babybear

import (
	"fmt"

	"github.com/consensys/gnark-crypto/field/babybear"
)

// Modulus is the order of the BabyBear prime field, 2³¹ - 2²⁷ + 1.  Every
// 32-bit machine word strictly below this bound embeds injectively into the
// field; words at or above it must be split before being committed to a
// trace (see the word range checker in pkg/air).
const Modulus uint32 = 2013265921

// Element wraps babybear.Element from gnark-crypto to provide value-semantics
// arithmetic, which keeps trace-population code free of pointer plumbing.
type Element struct {
	babybear.Element
}

// New constructs a field element from a canonical uint32 value.
func New(val uint32) Element {
	return Element{babybear.NewElement(uint64(val))}
}

// FromBool constructs the field element 1 if b holds, and 0 otherwise.
func FromBool(b bool) Element {
	if b {
		return One()
	}
	//
	return Zero()
}

// Zero constructs the additive identity.
func Zero() Element {
	var elem babybear.Element
	//
	return Element{elem}
}

// One constructs the multiplicative identity.
func One() Element {
	return New(1)
}

// Add x + y
func (x Element) Add(y Element) Element {
	var res babybear.Element
	//
	res.Add(&x.Element, &y.Element)
	//
	return Element{res}
}

// Sub x - y
func (x Element) Sub(y Element) Element {
	var res babybear.Element
	//
	res.Sub(&x.Element, &y.Element)
	//
	return Element{res}
}

// Mul x * y
func (x Element) Mul(y Element) Element {
	var res babybear.Element
	//
	res.Mul(&x.Element, &y.Element)
	//
	return Element{res}
}

// Neg -x
func (x Element) Neg() Element {
	var res babybear.Element
	//
	res.Neg(&x.Element)
	//
	return Element{res}
}

// Inverse x⁻¹, or 0 if x = 0.
func (x Element) Inverse() Element {
	var res babybear.Element
	//
	res.Inverse(&x.Element)
	//
	return Element{res}
}

// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y (comparing canonical
// representatives).
func (x Element) Cmp(y Element) int {
	return x.Element.Cmp(&y.Element)
}

// Equals returns whether x and y represent the same field element.
func (x Element) Equals(y Element) bool {
	return x.Element.Equal(&y.Element)
}

// IsZero reports whether x is the additive identity.
func (x Element) IsZero() bool {
	return x.Element.IsZero()
}

// IsOne reports whether x is the multiplicative identity.
func (x Element) IsOne() bool {
	return x.Element.IsOne()
}

// Uint32 returns the canonical (non-Montgomery) value of x.
func (x Element) Uint32() uint32 {
	i := x.Element.Uint64()
	// Sanity check (the field order fits well within 32 bits)
	if i >= 1<<32 {
		panic(fmt.Errorf("cannot convert to uint32: %d", i))
	}
	//
	return uint32(i)
}

func (x Element) String() string {
	return x.Element.String()
}
