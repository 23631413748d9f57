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

// LtChip proves SLT and SLTU.  Signed comparison reduces to unsigned by
// flipping the top bit of each operand's most significant limb; a one-hot
// flag vector then marks the most significant differing limb, and a single
// byte LTU lookup on that limb pair decides the result.
type LtChip struct{}

// NewLt constructs the Lt chip.
func NewLt() *LtChip {
	return &LtChip{}
}

// Name implementation for chips.Chip.
func (c *LtChip) Name() string {
	return "lt"
}

// Width implementation for chips.Chip.
func (c *LtChip) Width() uint {
	return ltNumCols
}

// Populate implementation for chips.Chip.
func (c *LtChip) Populate(record *exec.ExecutionRecord) *trace.Matrix {
	byteRec := &chips.SyncByteRecord{Record: record}
	matrix := trace.NewMatrix(ltNumCols, uint(len(record.LtEvents)))
	//
	util.ParChunks(uint(len(record.LtEvents)), func(start, end uint) {
		for i := start; i < end; i++ {
			c.populateRow(matrix.Row(i), &record.LtEvents[i], byteRec)
		}
	})
	//
	matrix.Pad()
	//
	return matrix
}

func (c *LtChip) populateRow(row []babybear.Element, event *exec.AluEvent, byteRec air.ByteRecord) {
	signed := event.Opcode == rv32.SLT
	//
	chips.SetBool(row, ltIsReal, true)
	chips.SetBool(row, ltIsSlt, signed)
	chips.SetBool(row, ltIsSltu, event.Opcode == rv32.SLTU)
	chips.SetU32(row, ltClk, event.Clk)
	//
	chips.SetWord(row, ltA0, event.A)
	chips.SetWord(row, ltB0, event.B)
	chips.SetWord(row, ltC0, event.C)
	//
	bl, cl := limbs(event.B), limbs(event.C)
	//
	if signed {
		chips.SetU32(row, ltBMsb, uint32(bl[3]>>7))
		chips.SetU32(row, ltCMsb, uint32(cl[3]>>7))
		//
		byteRec.AddByteLookupEvent(air.ByteLookupEvent{
			Opcode: air.ByteMSB, A1: bl[3] >> 7, B: bl[3],
		})
		byteRec.AddByteLookupEvent(air.ByteLookupEvent{
			Opcode: air.ByteMSB, A1: cl[3] >> 7, B: cl[3],
		})
		// Reduce to unsigned comparison by flipping the sign bits.
		bl[3] ^= 0x80
		cl[3] ^= 0x80
	}
	// Flag the most significant differing limb, if any.
	byteB, byteC := uint8(0), uint8(0)
	//
	for i := 3; i >= 0; i-- {
		if bl[i] != cl[i] {
			byteB, byteC = bl[i], cl[i]
			chips.SetU32(row, ltFlag0+uint(i), 1)
			//
			diff := babybear.New(uint32(byteB)).Sub(babybear.New(uint32(byteC)))
			row[ltDiffInv] = diff.Inverse()
			//
			break
		}
	}
	//
	chips.SetU32(row, ltByteB, uint32(byteB))
	chips.SetU32(row, ltByteC, uint32(byteC))
	//
	byteRec.AddByteLookupEvent(air.ByteLookupEvent{
		Opcode: air.ByteLTU, A1: boolU8(byteB < byteC), B: byteB, C: byteC,
	})
}

// Eval implementation for chips.Chip.
func (c *LtChip) Eval(b air.Builder) {
	isReal := air.Local(ltIsReal)
	isSlt := air.Local(ltIsSlt)
	isSltu := air.Local(ltIsSltu)
	//
	aWord := chips.LocalWord(ltA0)
	bWord := chips.LocalWord(ltB0)
	cWord := chips.LocalWord(ltC0)
	//
	bMsb := air.Local(ltBMsb)
	cMsb := air.Local(ltCMsb)
	byteB := air.Local(ltByteB)
	byteC := air.Local(ltByteC)
	//
	b.AssertBool(isReal)
	b.AssertBool(isSlt)
	b.AssertBool(isSltu)
	b.AssertEq(air.Add(isSlt, isSltu), isReal)
	// Witnessed sign bits, checked by MSB lookups on signed rows.
	b.When(isSlt).AssertBool(bMsb)
	b.When(isSlt).AssertBool(cMsb)
	b.Send(air.ByteBus, isSlt,
		air.C(uint32(air.ByteMSB)), bMsb, air.Zero(), bWord[3], air.Zero())
	b.Send(air.ByteBus, isSlt,
		air.C(uint32(air.ByteMSB)), cMsb, air.Zero(), cWord[3], air.Zero())
	// Adjusted limbs: the top limb has its sign bit flipped on signed rows,
	// which maps signed order onto unsigned order.
	var adjB, adjC [air.WordSize]air.Expr
	for i := 0; i < air.WordSize; i++ {
		adjB[i], adjC[i] = bWord[i], cWord[i]
	}
	adjB[3] = air.Add(bWord[3], air.Mul(isSlt, air.Sub(air.C(128), air.Mul(air.C(256), bMsb))))
	adjC[3] = air.Add(cWord[3], air.Mul(isSlt, air.Sub(air.C(128), air.Mul(air.C(256), cMsb))))
	//
	var flags [air.WordSize]air.Expr
	for i := 0; i < air.WordSize; i++ {
		flags[i] = air.Local(ltFlag0 + uint(i))
		b.AssertBool(flags[i])
	}
	//
	anyFlag := air.Add(flags[:]...)
	b.AssertBool(anyFlag)
	// Limbs above the flagged one agree; with no flag set, all limbs agree.
	for i := 0; i < air.WordSize; i++ {
		above := []air.Expr{}
		for j := i; j < air.WordSize; j++ {
			above = append(above, flags[j])
		}
		//
		guard := air.Mul(isReal, air.Sub(air.One(), air.Add(above...)))
		b.When(guard).AssertEq(adjB[i], adjC[i])
	}
	// The comparison bytes are the adjusted limbs at the flagged position,
	// or zero when the operands agree.
	selectB := make([]air.Expr, air.WordSize)
	selectC := make([]air.Expr, air.WordSize)
	for i := 0; i < air.WordSize; i++ {
		selectB[i] = air.Mul(flags[i], adjB[i])
		selectC[i] = air.Mul(flags[i], adjC[i])
	}
	//
	guarded := b.When(isReal)
	guarded.AssertEq(byteB, air.Add(selectB...))
	guarded.AssertEq(byteC, air.Add(selectC...))
	// A flagged limb pair must genuinely differ.
	guarded.AssertEq(air.Mul(air.Sub(byteB, byteC), air.Local(ltDiffInv)), anyFlag)
	// The byte comparison decides the word comparison.
	b.Send(air.ByteBus, isReal,
		air.C(uint32(air.ByteLTU)), aWord[0], air.Zero(), byteB, byteC)
	//
	guarded.AssertZero(aWord[1])
	guarded.AssertZero(aWord[2])
	guarded.AssertZero(aWord[3])
	//
	opcode := opcodeOf(sel(ltIsSlt, rv32.SLT), sel(ltIsSltu, rv32.SLTU))
	b.Receive(air.AluBus, isReal,
		aluTuple(air.Local(ltClk), opcode, aWord, bWord, cWord)...)
}

func boolU8(b bool) uint8 {
	if b {
		return 1
	}
	//
	return 0
}
