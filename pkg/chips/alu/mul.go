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

// productLimbs is the width of the full 64-bit product in byte limbs.
const productLimbs = 2 * air.WordSize

// MulChip proves MUL, MULH, MULHU and MULHSU via schoolbook byte limb
// multiplication over sign extended operands.  Signedness is witnessed by
// MSB lookups steering the extension bytes; the 64-bit product is carried
// limbwise, and the result word selects its low or high half.
type MulChip struct{}

// NewMul constructs the Mul chip.
func NewMul() *MulChip {
	return &MulChip{}
}

// Name implementation for chips.Chip.
func (c *MulChip) Name() string {
	return "mul"
}

// Width implementation for chips.Chip.
func (c *MulChip) Width() uint {
	return mulNumCols
}

// Populate implementation for chips.Chip.
func (c *MulChip) Populate(record *exec.ExecutionRecord) *trace.Matrix {
	byteRec := &chips.SyncByteRecord{Record: record}
	matrix := trace.NewMatrix(mulNumCols, uint(len(record.MulEvents)))
	//
	util.ParChunks(uint(len(record.MulEvents)), func(start, end uint) {
		for i := start; i < end; i++ {
			c.populateRow(matrix.Row(i), &record.MulEvents[i], byteRec)
		}
	})
	//
	matrix.Pad()
	//
	return matrix
}

func (c *MulChip) populateRow(row []babybear.Element, event *exec.AluEvent, byteRec air.ByteRecord) {
	chips.SetBool(row, mulIsReal, true)
	chips.SetBool(row, mulIsMul, event.Opcode == rv32.MUL)
	chips.SetBool(row, mulIsMulh, event.Opcode == rv32.MULH)
	chips.SetBool(row, mulIsMulhu, event.Opcode == rv32.MULHU)
	chips.SetBool(row, mulIsMulhsu, event.Opcode == rv32.MULHSU)
	chips.SetU32(row, mulClk, event.Clk)
	//
	chips.SetWord(row, mulA0, event.A)
	chips.SetWord(row, mulB0, event.B)
	chips.SetWord(row, mulC0, event.C)
	//
	bSigned := event.Opcode == rv32.MULH || event.Opcode == rv32.MULHSU
	cSigned := event.Opcode == rv32.MULH
	//
	bl, cl := limbs(event.B), limbs(event.C)
	//
	var bExt, cExt uint8
	//
	if bSigned {
		msb := bl[3] >> 7
		chips.SetU32(row, mulBMsb, uint32(msb))
		bExt = uint8(0xff * uint32(msb))
		//
		byteRec.AddByteLookupEvent(air.ByteLookupEvent{
			Opcode: air.ByteMSB, A1: msb, B: bl[3],
		})
	}
	//
	if cSigned {
		msb := cl[3] >> 7
		chips.SetU32(row, mulCMsb, uint32(msb))
		cExt = uint8(0xff * uint32(msb))
		//
		byteRec.AddByteLookupEvent(air.ByteLookupEvent{
			Opcode: air.ByteMSB, A1: msb, B: cl[3],
		})
	}
	//
	chips.SetU32(row, mulBExt, uint32(bExt))
	chips.SetU32(row, mulCExt, uint32(cExt))
	//
	var bFull, cFull [productLimbs]uint32
	for i := 0; i < air.WordSize; i++ {
		bFull[i], cFull[i] = uint32(bl[i]), uint32(cl[i])
		bFull[air.WordSize+i], cFull[air.WordSize+i] = uint32(bExt), uint32(cExt)
	}
	// Schoolbook limb products with byte carries; limbs at or above the
	// product width are discarded, realising mod 2^64 semantics.
	var product [productLimbs]uint8
	//
	carry := uint32(0)
	for k := 0; k < productLimbs; k++ {
		sum := carry
		for i := 0; i <= k && i < productLimbs; i++ {
			if j := k - i; j < productLimbs {
				sum += bFull[i] * cFull[j]
			}
		}
		//
		product[k] = uint8(sum)
		carry = sum >> 8
		//
		chips.SetU32(row, mulProduct0+uint(k), uint32(product[k]))
		chips.SetU32(row, mulCarryLo0+uint(k), carry&0xff)
		chips.SetU32(row, mulCarryHi0+uint(k), carry>>8)
		//
		air.AddU8RangeChecks(byteRec, uint8(carry), uint8(carry>>8))
	}
	//
	air.AddU8RangeChecks(byteRec, product[:]...)
}

// Eval implementation for chips.Chip.
func (c *MulChip) Eval(b air.Builder) {
	isReal := air.Local(mulIsReal)
	isMul := air.Local(mulIsMul)
	isMulh := air.Local(mulIsMulh)
	isMulhu := air.Local(mulIsMulhu)
	isMulhsu := air.Local(mulIsMulhsu)
	//
	aWord := chips.LocalWord(mulA0)
	bWord := chips.LocalWord(mulB0)
	cWord := chips.LocalWord(mulC0)
	//
	guarded := b.When(isReal)
	//
	b.AssertBool(isReal)
	for _, s := range []air.Expr{isMul, isMulh, isMulhu, isMulhsu} {
		b.AssertBool(s)
	}
	b.AssertEq(air.Add(isMul, isMulh, isMulhu, isMulhsu), isReal)
	// Sign extension bytes, steered by witnessed operand MSBs.
	bMsb := air.Local(mulBMsb)
	cMsb := air.Local(mulCMsb)
	bExt := air.Local(mulBExt)
	cExt := air.Local(mulCExt)
	//
	bSigned := air.Add(isMulh, isMulhsu)
	cSigned := isMulh
	//
	b.When(bSigned).AssertBool(bMsb)
	b.When(cSigned).AssertBool(cMsb)
	b.When(bSigned).AssertEq(bExt, air.Mul(bMsb, air.C(0xff)))
	b.When(air.Add(isMul, isMulhu)).AssertZero(bExt)
	b.When(cSigned).AssertEq(cExt, air.Mul(cMsb, air.C(0xff)))
	b.When(air.Add(isMul, isMulhu, isMulhsu)).AssertZero(cExt)
	//
	b.Send(air.ByteBus, bSigned,
		air.C(uint32(air.ByteMSB)), bMsb, air.Zero(), bWord[3], air.Zero())
	b.Send(air.ByteBus, cSigned,
		air.C(uint32(air.ByteMSB)), cMsb, air.Zero(), cWord[3], air.Zero())
	// Extended operands as eight limb vectors.
	var bFull, cFull [productLimbs]air.Expr
	for i := 0; i < air.WordSize; i++ {
		bFull[i], cFull[i] = bWord[i], cWord[i]
		bFull[air.WordSize+i], cFull[air.WordSize+i] = bExt, cExt
	}
	// Limbwise schoolbook recurrence.
	carryAt := func(k int) air.Expr {
		return air.Add(
			air.Local(mulCarryLo0+uint(k)),
			air.Mul(air.C(256), air.Local(mulCarryHi0+uint(k))))
	}
	//
	for k := 0; k < productLimbs; k++ {
		terms := []air.Expr{}
		for i := 0; i <= k && i < productLimbs; i++ {
			if j := k - i; j < productLimbs {
				terms = append(terms, air.Mul(bFull[i], cFull[j]))
			}
		}
		//
		if k > 0 {
			terms = append(terms, carryAt(k-1))
		}
		//
		guarded.AssertEq(
			air.Add(terms...),
			air.Add(air.Local(mulProduct0+uint(k)), air.Mul(air.C(256), carryAt(k))))
		//
		b.Send(air.ByteBus, isReal, air.C(uint32(air.ByteU8Range)),
			air.Zero(), air.Zero(),
			air.Local(mulCarryLo0+uint(k)), air.Local(mulCarryHi0+uint(k)))
	}
	//
	for k := 0; k < productLimbs; k += 2 {
		b.Send(air.ByteBus, isReal, air.C(uint32(air.ByteU8Range)),
			air.Zero(), air.Zero(),
			air.Local(mulProduct0+uint(k)), air.Local(mulProduct0+uint(k+1)))
	}
	// The result selects the low or high half of the product.
	isHigh := air.Add(isMulh, isMulhu, isMulhsu)
	for i := 0; i < air.WordSize; i++ {
		b.When(isMul).AssertEq(aWord[i], air.Local(mulProduct0+uint(i)))
		b.When(isHigh).AssertEq(aWord[i], air.Local(mulProduct0+uint(air.WordSize+i)))
	}
	//
	opcode := opcodeOf(sel(mulIsMul, rv32.MUL), sel(mulIsMulh, rv32.MULH),
		sel(mulIsMulhu, rv32.MULHU), sel(mulIsMulhsu, rv32.MULHSU))
	b.Receive(air.AluBus, isReal,
		aluTuple(air.Local(mulClk), opcode, aWord, bWord, cWord)...)
}
