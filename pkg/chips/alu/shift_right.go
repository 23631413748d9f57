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

// ShiftRightChip proves SRL and SRA.  The byte part of the shift amount is
// a one-hot limb rotation towards the low end; the bit part splits each
// rotated limb into shifted and carry halves through the byte shr-carry
// table, with the carry of each limb feeding the limb below.  Arithmetic
// shifts add a sign fill derived from the witnessed operand MSB.
type ShiftRightChip struct{}

// NewShiftRight constructs the ShiftRight chip.
func NewShiftRight() *ShiftRightChip {
	return &ShiftRightChip{}
}

// Name implementation for chips.Chip.
func (c *ShiftRightChip) Name() string {
	return "shift_right"
}

// Width implementation for chips.Chip.
func (c *ShiftRightChip) Width() uint {
	return shiftRightNumCols
}

// Populate implementation for chips.Chip.
func (c *ShiftRightChip) Populate(record *exec.ExecutionRecord) *trace.Matrix {
	byteRec := &chips.SyncByteRecord{Record: record}
	matrix := trace.NewMatrix(shiftRightNumCols, uint(len(record.ShiftRightEvents)))
	//
	util.ParChunks(uint(len(record.ShiftRightEvents)), func(start, end uint) {
		for i := start; i < end; i++ {
			c.populateRow(matrix.Row(i), &record.ShiftRightEvents[i], byteRec)
		}
	})
	//
	matrix.Pad()
	//
	return matrix
}

func (c *ShiftRightChip) populateRow(row []babybear.Element, event *exec.AluEvent, byteRec air.ByteRecord) {
	arithmetic := event.Opcode == rv32.SRA
	//
	chips.SetBool(row, shiftRightIsReal, true)
	chips.SetBool(row, shiftRightIsSrl, event.Opcode == rv32.SRL)
	chips.SetBool(row, shiftRightIsSra, arithmetic)
	chips.SetU32(row, shiftRightClk, event.Clk)
	//
	chips.SetWord(row, shiftRightA0, event.A)
	chips.SetWord(row, shiftRightB0, event.B)
	chips.SetWord(row, shiftRightC0, event.C)
	//
	shift := event.C & 31
	n, k := shift&7, shift>>3
	//
	chips.SetU32(row, shiftRightN0+uint(n), 1)
	chips.SetU32(row, shiftRightByte0+uint(k), 1)
	chips.SetU32(row, shiftRightCRest, (event.C&0xff)>>5)
	air.AddU8RangeChecks(byteRec, uint8((event.C&0xff)>>5))
	//
	bl := limbs(event.B)
	//
	if arithmetic {
		msb := bl[3] >> 7
		chips.SetU32(row, shiftRightBMsb, uint32(msb))
		//
		byteRec.AddByteLookupEvent(air.ByteLookupEvent{
			Opcode: air.ByteMSB, A1: msb, B: bl[3],
		})
	}
	// Rotate the dropped low limbs out; the vacated top limbs hold zero,
	// with any sign fill applied at recombination.
	var rotated [air.WordSize]uint8
	for j := uint32(0); j+k < air.WordSize; j++ {
		rotated[j] = bl[j+k]
	}
	//
	for i := 0; i < air.WordSize; i++ {
		shifted := rotated[i] >> n
		carried := rotated[i] & uint8(1<<n-1)
		//
		chips.SetU32(row, shiftRightRotated0+uint(i), uint32(rotated[i]))
		chips.SetU32(row, shiftRightShifted0+uint(i), uint32(shifted))
		chips.SetU32(row, shiftRightCarry0+uint(i), uint32(carried))
		//
		byteRec.AddByteLookupEvent(air.ByteLookupEvent{
			Opcode: air.ByteShrCarry, A1: shifted, A2: carried,
			B: rotated[i], C: uint8(n),
		})
	}
}

// Eval implementation for chips.Chip.
func (c *ShiftRightChip) Eval(b air.Builder) {
	isReal := air.Local(shiftRightIsReal)
	isSrl := air.Local(shiftRightIsSrl)
	isSra := air.Local(shiftRightIsSra)
	bMsb := air.Local(shiftRightBMsb)
	cRest := air.Local(shiftRightCRest)
	//
	aWord := chips.LocalWord(shiftRightA0)
	bWord := chips.LocalWord(shiftRightB0)
	cWord := chips.LocalWord(shiftRightC0)
	//
	guarded := b.When(isReal)
	//
	b.AssertBool(isReal)
	b.AssertBool(isSrl)
	b.AssertBool(isSra)
	b.AssertEq(air.Add(isSrl, isSra), isReal)
	//
	var ns [8]air.Expr
	for n := 0; n < 8; n++ {
		ns[n] = air.Local(shiftRightN0 + uint(n))
		b.AssertBool(ns[n])
	}
	//
	var bytes [air.WordSize]air.Expr
	for k := 0; k < air.WordSize; k++ {
		bytes[k] = air.Local(shiftRightByte0 + uint(k))
		b.AssertBool(bytes[k])
	}
	//
	guarded.AssertEq(air.Add(ns[:]...), air.One())
	guarded.AssertEq(air.Add(bytes[:]...), air.One())
	// The low operand limb decomposes into bit shift, byte shift and rest.
	bitShift := air.Zero()
	for n := 1; n < 8; n++ {
		bitShift = air.Add(bitShift, air.Mul(air.C(uint32(n)), ns[n]))
	}
	//
	byteShift := air.Add(bytes[1],
		air.Mul(air.C(2), bytes[2]), air.Mul(air.C(3), bytes[3]))
	guarded.AssertEq(cWord[0], air.Add(
		bitShift, air.Mul(air.C(8), byteShift), air.Mul(air.C(32), cRest)))
	//
	b.Send(air.ByteBus, isReal, air.C(uint32(air.ByteU8Range)),
		air.Zero(), air.Zero(), cRest, air.Zero())
	// Witnessed sign bit, checked by an MSB lookup on arithmetic rows.
	b.When(isSra).AssertBool(bMsb)
	b.Send(air.ByteBus, isSra,
		air.C(uint32(air.ByteMSB)), bMsb, air.Zero(), bWord[3], air.Zero())
	// Byte rotation towards the low end, zero-filling from above.
	for k := 0; k < air.WordSize; k++ {
		rotatedBy := b.When(air.Mul(isReal, bytes[k]))
		for j := 0; j < air.WordSize; j++ {
			if j+k < air.WordSize {
				rotatedBy.AssertEq(air.Local(shiftRightRotated0+uint(j)), bWord[j+k])
			} else {
				rotatedBy.AssertZero(air.Local(shiftRightRotated0 + uint(j)))
			}
		}
	}
	// Each rotated limb splits into its shifted and carried halves.
	for i := uint(0); i < air.WordSize; i++ {
		b.Send(air.ByteBus, isReal, air.C(uint32(air.ByteShrCarry)),
			air.Local(shiftRightShifted0+i), air.Local(shiftRightCarry0+i),
			air.Local(shiftRightRotated0+i), bitShift)
	}
	// carryPow == 2^(8-n) for n > 0; the carry of the limb above lands in
	// the top n bits of the limb below.
	carryPow := air.Zero()
	for n := 1; n < 8; n++ {
		carryPow = air.Add(carryPow, air.Mul(air.C(uint32(1)<<(8-n)), ns[n]))
	}
	// topFill is the sign fill of the highest data limb, covering the n
	// bits vacated by the bit shift.
	topFill := air.Zero()
	for n := 1; n < 8; n++ {
		topFill = air.Add(topFill, air.Mul(air.C(256-uint32(1)<<(8-n)), ns[n]))
	}
	// Recombine, with sign fill on arithmetic rows: vacated limbs fill
	// entirely, the highest data limb fills its vacated bits only.
	for i := 0; i < air.WordSize; i++ {
		fill := air.Zero()
		for k := 0; k < air.WordSize; k++ {
			switch {
			case i+k > air.WordSize-1:
				fill = air.Add(fill, air.Mul(bytes[k], air.C(255)))
			case i+k == air.WordSize-1:
				fill = air.Add(fill, air.Mul(bytes[k], topFill))
			}
		}
		//
		limb := air.Local(shiftRightShifted0 + uint(i))
		if i < air.WordSize-1 {
			limb = air.Add(limb,
				air.Mul(air.Local(shiftRightCarry0+uint(i+1)), carryPow))
		}
		//
		limb = air.Add(limb, air.Mul(isSra, bMsb, fill))
		guarded.AssertEq(aWord[i], limb)
	}
	//
	opcode := opcodeOf(sel(shiftRightIsSrl, rv32.SRL), sel(shiftRightIsSra, rv32.SRA))
	b.Receive(air.AluBus, isReal,
		aluTuple(air.Local(shiftRightClk), opcode, aWord, bWord, cWord)...)
}
