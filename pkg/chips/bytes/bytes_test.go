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
package bytes_test

import (
	"testing"

	"github.com/consensys/go-rivet/pkg/air"
	"github.com/consensys/go-rivet/pkg/chips/bytes"
	"github.com/consensys/go-rivet/pkg/exec"
	"github.com/consensys/go-rivet/pkg/field/babybear"
	"github.com/consensys/go-rivet/pkg/util/assert"
)

func TestByteChipPopulate(t *testing.T) {
	record := exec.NewExecutionRecord(1)
	record.AddByteLookupEvent(air.ByteLookupEvent{Opcode: air.ByteXor, A1: 0x0f, B: 0xf0, C: 0xff})
	record.AddByteLookupEvent(air.ByteLookupEvent{Opcode: air.ByteAnd, A1: 0x10, B: 0x55, C: 0x30})
	record.AddByteLookupEvent(air.ByteLookupEvent{Opcode: air.ByteShrCarry, A1: 0x0a, A2: 0x02, B: 0x52, C: 3})
	record.AddByteLookupEvent(air.ByteLookupEvent{Opcode: air.ByteLTU, A1: 1, B: 3, C: 7})
	// Repeats fold into a single row with multiplicity 3.
	for i := 0; i < 3; i++ {
		record.AddByteLookupEvent(air.ByteLookupEvent{Opcode: air.ByteU8Range, B: 0x42})
	}
	//
	chip := bytes.New()
	matrix := chip.Populate(record)
	//
	assert.Equal(t, chip.Width(), matrix.Width())
	// Rows are sorted by opcode; And < Xor < ShrCarry < LTU < U8Range.
	var opcodes []uint32
	//
	for i := uint(0); i < 5; i++ {
		opcodes = append(opcodes, matrix.Get(i, 0).Uint32())
	}
	//
	assert.Equal(t, []uint32{
		uint32(air.ByteAnd), uint32(air.ByteXor), uint32(air.ByteShrCarry),
		uint32(air.ByteLTU), uint32(air.ByteU8Range),
	}, opcodes)
	// The folded row answers with multiplicity 3.
	assert.True(t, matrix.Get(4, 5).Equals(babybear.New(3)))
}

func TestByteChipRejectsInvalidLookup(t *testing.T) {
	record := exec.NewExecutionRecord(1)
	// 0x55 & 0x30 is 0x10, not 0x11.
	record.AddByteLookupEvent(air.ByteLookupEvent{Opcode: air.ByteAnd, A1: 0x11, B: 0x55, C: 0x30})
	//
	assert.Panics(t, func() {
		bytes.New().Populate(record)
	})
}
