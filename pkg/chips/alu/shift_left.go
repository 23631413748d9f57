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

package alu

import (
	"github.com/consensys/go-rivet/pkg/air"
	"github.com/consensys/go-rivet/pkg/chips"
	"github.com/consensys/go-rivet/pkg/exec"
	"github.com/consensys/go-rivet/pkg/field/babybear"
	"github.com/consensys/go-rivet/pkg/rv32"
	"github.com/consensys/go-rivet/pkg/trace"
	"github.com/consensys/go-rivet/pkg/util"
)

// ShiftLeftChip proves SLL.  The shift amount c mod 32 splits into a bit
// shift (0..7), realised as a limbwise multiplication by a product of
// bit-selected powers of two, and a byte shift (0..3), realised as a
// one-hot limb rotation.
type ShiftLeftChip struct{}

// NewShiftLeft constructs the ShiftLeft chip.
func NewShiftLeft() *ShiftLeftChip {
	return &ShiftLeftChip{}
}

// Name implementation for chips.Chip.
func (c *ShiftLeftChip) Name() string {
	return "shift_left"
}

// Width implementation for chips.Chip.
func (c *ShiftLeftChip) Width() uint {
	return shiftLeftNumCols
}

// Populate implementation for chips.Chip.
func (c *ShiftLeftChip) Populate(record *exec.ExecutionRecord) *trace.Matrix {
	byteRec := &chips.SyncByteRecord{Record: record}
	matrix := trace.NewMatrix(shiftLeftNumCols, uint(len(record.ShiftLeftEvents)))
	//
	util.ParChunks(uint(len(record.ShiftLeftEvents)), func(start, end uint) {
		for i := start; i < end; i++ {
			c.populateRow(matrix.Row(i), &record.ShiftLeftEvents[i], byteRec)
		}
	})
	//
	matrix.Pad()
	//
	return matrix
}

func (c *ShiftLeftChip) populateRow(row []babybear.Element, event *exec.AluEvent, byteRec air.ByteRecord) {
	chips.SetBool(row, shiftLeftIsReal, true)
	chips.SetU32(row, shiftLeftClk, event.Clk)
	//
	chips.SetWord(row, shiftLeftA0, event.A)
	chips.SetWord(row, shiftLeftB0, event.B)
	chips.SetWord(row, shiftLeftC0, event.C)
	//
	shift := event.C & 31
	n, k := shift&7, shift>>3
	//
	chips.SetU32(row, shiftLeftBit0, n&1)
	chips.SetU32(row, shiftLeftBit1, (n>>1)&1)
	chips.SetU32(row, shiftLeftBit2, (n>>2)&1)
	chips.SetU32(row, shiftLeftByte0+uint(k), 1)
	chips.SetU32(row, shiftLeftCRest, (event.C&0xff)>>5)
	//
	bl := limbs(event.B)
	//
	var shifted, carry [air.WordSize]uint8
	//
	acc := uint32(0)
	for i := 0; i < air.WordSize; i++ {
		v := uint32(bl[i])<<n + acc
		shifted[i], acc = uint8(v), v>>8
		carry[i] = uint8(acc)
		//
		chips.SetU32(row, shiftLeftShifted0+uint(i), uint32(shifted[i]))
		chips.SetU32(row, shiftLeftCarry0+uint(i), uint32(carry[i]))
	}
	//
	air.AddU8RangeChecks(byteRec, shifted[:]...)
	air.AddU8RangeChecks(byteRec, carry[:]...)
	air.AddU8RangeChecks(byteRec, uint8((event.C&0xff)>>5))
}

// Eval implementation for chips.Chip.
func (c *ShiftLeftChip) Eval(b air.Builder) {
	isReal := air.Local(shiftLeftIsReal)
	//
	aWord := chips.LocalWord(shiftLeftA0)
	bWord := chips.LocalWord(shiftLeftB0)
	cWord := chips.LocalWord(shiftLeftC0)
	//
	bits := [3]air.Expr{
		air.Local(shiftLeftBit0), air.Local(shiftLeftBit1), air.Local(shiftLeftBit2),
	}
	//
	var bytes [air.WordSize]air.Expr
	for i := 0; i < air.WordSize; i++ {
		bytes[i] = air.Local(shiftLeftByte0 + uint(i))
		b.AssertBool(bytes[i])
	}
	//
	cRest := air.Local(shiftLeftCRest)
	guarded := b.When(isReal)
	//
	b.AssertBool(isReal)
	for _, bit := range bits {
		b.AssertBool(bit)
	}
	guarded.AssertEq(air.Add(bytes[:]...), air.One())
	// The low operand limb decomposes into bit shift, byte shift and rest.
	byteShift := air.Add(bytes[1],
		air.Mul(air.C(2), bytes[2]), air.Mul(air.C(3), bytes[3]))
	guarded.AssertEq(cWord[0], air.Add(
		bits[0], air.Mul(air.C(2), bits[1]), air.Mul(air.C(4), bits[2]),
		air.Mul(air.C(8), byteShift), air.Mul(air.C(32), cRest)))
	//
	b.Send(air.ByteBus, isReal, air.C(uint32(air.ByteU8Range)),
		air.Zero(), air.Zero(), cRest, air.Zero())
	// power == 2^n for the bit shift n.
	power := air.Mul(
		air.Add(air.One(), bits[0]),
		air.Add(air.One(), air.Mul(air.C(3), bits[1])),
		air.Add(air.One(), air.Mul(air.C(15), bits[2])))
	// Limbwise multiplication by the power, with byte carries.
	for i := 0; i < air.WordSize; i++ {
		lhs := air.Mul(bWord[i], power)
		if i > 0 {
			lhs = air.Add(lhs, air.Local(shiftLeftCarry0+uint(i-1)))
		}
		//
		guarded.AssertEq(lhs, air.Add(
			air.Local(shiftLeftShifted0+uint(i)),
			air.Mul(air.C(256), air.Local(shiftLeftCarry0+uint(i)))))
	}
	//
	for i := uint(0); i < air.WordSize; i += 2 {
		b.Send(air.ByteBus, isReal, air.C(uint32(air.ByteU8Range)),
			air.Zero(), air.Zero(),
			air.Local(shiftLeftShifted0+i), air.Local(shiftLeftShifted0+i+1))
		b.Send(air.ByteBus, isReal, air.C(uint32(air.ByteU8Range)),
			air.Zero(), air.Zero(),
			air.Local(shiftLeftCarry0+i), air.Local(shiftLeftCarry0+i+1))
	}
	// Byte rotation: under byte shift k the result drops the top k shifted
	// limbs and zero-fills from below.
	for k := 0; k < air.WordSize; k++ {
		shiftedBy := b.When(air.Mul(isReal, bytes[k]))
		for j := 0; j < air.WordSize; j++ {
			if j < k {
				shiftedBy.AssertZero(aWord[j])
			} else {
				shiftedBy.AssertEq(aWord[j], air.Local(shiftLeftShifted0+uint(j-k)))
			}
		}
	}
	//
	b.Receive(air.AluBus, isReal,
		aluTuple(air.Local(shiftLeftClk), air.C(uint32(rv32.SLL)), aWord, bWord, cWord)...)
}
