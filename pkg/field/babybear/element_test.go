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
	"math/rand"
	"testing"

	"github.com/consensys/go-rivet/pkg/util/assert"
)

func TestAddSubRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(0))
	//
	for i := 0; i < 1000; i++ {
		x := New(rng.Uint32() % Modulus)
		y := New(rng.Uint32() % Modulus)
		// (x + y) - y == x
		assert.Equal(t, x, x.Add(y).Sub(y))
	}
}

func TestMulInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	//
	for i := 0; i < 1000; i++ {
		x := New(rng.Uint32() % Modulus)
		if x.IsZero() {
			continue
		}
		// x * x⁻¹ == 1
		assert.True(t, x.Mul(x.Inverse()).IsOne(), "inverse failed for %s", x)
	}
	// Inverse of zero is zero, by convention.
	assert.True(t, Zero().Inverse().IsZero())
}

func TestCanonicalValue(t *testing.T) {
	for _, v := range []uint32{0, 1, 255, 1 << 16, Modulus - 1} {
		assert.Equal(t, v, New(v).Uint32())
	}
	// Values reduce modulo the field order.
	assert.Equal(t, uint32(0), New(Modulus).Uint32())
	assert.Equal(t, uint32(1), New(Modulus+1).Uint32())
}

func TestFromBool(t *testing.T) {
	assert.True(t, FromBool(true).IsOne())
	assert.True(t, FromBool(false).IsZero())
}
