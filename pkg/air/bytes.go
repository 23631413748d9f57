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

import "fmt"

// ByteOpcode enumerates the 8-bit operations proved by lookup into the byte
// table, rather than by per-chip constraints.
type ByteOpcode uint8

const (
	// ByteAnd is bitwise conjunction of two bytes.
	ByteAnd ByteOpcode = iota
	// ByteOr is bitwise disjunction of two bytes.
	ByteOr
	// ByteXor is bitwise exclusive disjunction of two bytes.
	ByteXor
	// ByteSLL shifts a byte left by up to seven bits.
	ByteSLL
	// ByteShrCarry shifts a byte right, also exposing the bits shifted out.
	ByteShrCarry
	// ByteLTU is unsigned byte comparison, with a boolean result.
	ByteLTU
	// ByteMSB extracts the most significant bit of a byte.
	ByteMSB
	// ByteU8Range asserts that two values are bytes.
	ByteU8Range
	// ByteU16Range asserts that a value fits in sixteen bits.
	ByteU16Range
)

// NumByteOpcodes is the size of the ByteOpcode enumeration.
const NumByteOpcodes = 9

func (op ByteOpcode) String() string {
	switch op {
	case ByteAnd:
		return "AND"
	case ByteOr:
		return "OR"
	case ByteXor:
		return "XOR"
	case ByteSLL:
		return "SLL"
	case ByteShrCarry:
		return "SHR"
	case ByteLTU:
		return "LTU"
	case ByteMSB:
		return "MSB"
	case ByteU8Range:
		return "U8"
	case ByteU16Range:
		return "U16"
	default:
		return fmt.Sprintf("ByteOpcode(%d)", op)
	}
}

// ByteLookupEvent is one claim sent on the byte bus: applying Opcode to the
// operands (B, C) yields the results (A1, A2).  Most operations use only A1;
// ByteShrCarry also fills A2 with the shifted-out bits, and the range checks
// leave both results zero.
type ByteLookupEvent struct {
	Opcode ByteOpcode
	A1     uint8
	A2     uint8
	B      uint8
	C      uint8
}

// ByteRecord collects byte lookups produced while populating trace rows.
// The multiset of collected events must be matched by the byte table chip.
type ByteRecord interface {
	// AddByteLookupEvent records a single byte operation lookup.
	AddByteLookupEvent(event ByteLookupEvent)
}

// AddU8RangeChecks records range checks showing each given value is a byte.
// Values are checked in pairs since one table row covers two operands.
func AddU8RangeChecks(record ByteRecord, values ...uint8) {
	for len(values)%2 != 0 {
		values = append(values, 0)
	}
	//
	for i := 0; i < len(values); i += 2 {
		record.AddByteLookupEvent(ByteLookupEvent{
			Opcode: ByteU8Range, B: values[i], C: values[i+1],
		})
	}
}

// AddU16RangeCheck records a range check showing the given value fits in
// sixteen bits.
func AddU16RangeCheck(record ByteRecord, value uint16) {
	record.AddByteLookupEvent(ByteLookupEvent{
		Opcode: ByteU16Range, B: uint8(value), C: uint8(value >> 8),
	})
}
