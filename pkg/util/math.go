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
package util

import "math/bits"

// NextPowerOfTwo returns the smallest power of two which is at least n.  By
// convention NextPowerOfTwo(0) == 1.
func NextPowerOfTwo(n uint) uint {
	if n <= 1 {
		return 1
	}
	//
	return 1 << bits.Len(n-1)
}

// IsPowerOfTwo checks whether n is a power of two.
func IsPowerOfTwo(n uint) bool {
	return n != 0 && n&(n-1) == 0
}

// SignExtendByte sign extends an 8-bit value into a 32-bit value.
func SignExtendByte(b uint8) uint32 {
	return uint32(int32(int8(b)))
}

// SignExtendHalf sign extends a 16-bit value into a 32-bit value.
func SignExtendHalf(h uint16) uint32 {
	return uint32(int32(int16(h)))
}
