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

// DivRemChip proves DIV, DIVU, REM and REMU by delegation: it witnesses a
// quotient and remainder satisfying b == q*c + r mod 2^32, and sends the
// multiply, the recomposition add and (unsigned) the remainder bound back
// onto the ALU bus for the Mul, AddSub and Lt chips to prove.  The wrapping
// identity holds for every RISC-V corner, including division by zero
// (q == 0xffffffff, r == b) and signed overflow (q == b, r == 0).
type DivRemChip struct{}

// NewDivRem constructs the DivRem chip.
func NewDivRem() *DivRemChip {
	return &DivRemChip{}
}

// Name implementation for chips.Chip.
func (c *DivRemChip) Name() string {
	return "divrem"
}

// Width implementation for chips.Chip.
func (c *DivRemChip) Width() uint {
	return divRemNumCols
}

// Populate implementation for chips.Chip.  Delegated events are appended
// sequentially before the rows are filled, hence this chip must populate
// before Mul, AddSub and Lt.
func (c *DivRemChip) Populate(record *exec.ExecutionRecord) *trace.Matrix {
	for i := range record.DivRemEvents {
		c.delegate(record, &record.DivRemEvents[i])
	}
	//
	matrix := trace.NewMatrix(divRemNumCols, uint(len(record.DivRemEvents)))
	//
	util.ParChunks(uint(len(record.DivRemEvents)), func(start, end uint) {
		for i := start; i < end; i++ {
			c.populateRow(matrix.Row(i), &record.DivRemEvents[i])
		}
	})
	//
	matrix.Pad()
	//
	return matrix
}

// delegate appends the ALU events backing one division row.
func (c *DivRemChip) delegate(record *exec.ExecutionRecord, event *exec.AluEvent) {
	quotient, remainder := exec.QuotientRemainder(event.B, event.C, event.Opcode)
	mulLow := quotient * event.C
	//
	record.AddAluEvent(exec.AluEvent{
		Clk: event.Clk, Opcode: rv32.MUL, A: mulLow, B: quotient, C: event.C,
	})
	record.AddAluEvent(exec.AluEvent{
		Clk: event.Clk, Opcode: rv32.ADD, A: event.B, B: mulLow, C: remainder,
	})
	// Unsigned remainder bound, only meaningful for a nonzero divisor.
	unsigned := event.Opcode == rv32.DIVU || event.Opcode == rv32.REMU
	if unsigned && event.C != 0 {
		record.AddAluEvent(exec.AluEvent{
			Clk: event.Clk, Opcode: rv32.SLTU, A: 1, B: remainder, C: event.C,
		})
	}
}

func (c *DivRemChip) populateRow(row []babybear.Element, event *exec.AluEvent) {
	chips.SetBool(row, divRemIsReal, true)
	chips.SetBool(row, divRemIsDiv, event.Opcode == rv32.DIV)
	chips.SetBool(row, divRemIsDivu, event.Opcode == rv32.DIVU)
	chips.SetBool(row, divRemIsRem, event.Opcode == rv32.REM)
	chips.SetBool(row, divRemIsRemu, event.Opcode == rv32.REMU)
	chips.SetU32(row, divRemClk, event.Clk)
	//
	chips.SetWord(row, divRemA0, event.A)
	chips.SetWord(row, divRemB0, event.B)
	chips.SetWord(row, divRemC0, event.C)
	//
	quotient, remainder := exec.QuotientRemainder(event.B, event.C, event.Opcode)
	chips.SetWord(row, divRemQuotient0, quotient)
	chips.SetWord(row, divRemRemainder0, remainder)
	chips.SetWord(row, divRemMulLow0, quotient*event.C)
	//
	var cIsZero air.IsZeroWordOperation[babybear.Element]
	air.PopulateIsZeroWord(&cIsZero, event.C)
	chips.StoreIsZeroWord(row, divRemCIsZero, &cIsZero)
}

// Eval implementation for chips.Chip.
func (c *DivRemChip) Eval(b air.Builder) {
	isReal := air.Local(divRemIsReal)
	isDiv := air.Local(divRemIsDiv)
	isDivu := air.Local(divRemIsDivu)
	isRem := air.Local(divRemIsRem)
	isRemu := air.Local(divRemIsRemu)
	clk := air.Local(divRemClk)
	//
	aWord := chips.LocalWord(divRemA0)
	bWord := chips.LocalWord(divRemB0)
	cWord := chips.LocalWord(divRemC0)
	quotient := chips.LocalWord(divRemQuotient0)
	remainder := chips.LocalWord(divRemRemainder0)
	mulLow := chips.LocalWord(divRemMulLow0)
	//
	b.AssertBool(isReal)
	for _, s := range []air.Expr{isDiv, isDivu, isRem, isRemu} {
		b.AssertBool(s)
	}
	b.AssertEq(air.Add(isDiv, isDivu, isRem, isRemu), isReal)
	// mulLow == q * c mod 2^32, proven by the Mul chip.
	b.Send(air.AluBus, isReal,
		aluTuple(clk, air.C(uint32(rv32.MUL)), mulLow, quotient, cWord)...)
	// b == mulLow + r mod 2^32, proven by the AddSub chip.
	b.Send(air.AluBus, isReal,
		aluTuple(clk, air.C(uint32(rv32.ADD)), bWord, mulLow, remainder)...)
	// r < c for the unsigned forms with a nonzero divisor, proven by the
	// Lt chip.
	cIsZero := chips.IsZeroWordExpr(divRemCIsZero)
	air.EvalIsZeroWord(b, cIsZero, cWord, isReal)
	//
	boundMult := air.Mul(air.Add(isDivu, isRemu), air.Sub(air.One(), cIsZero.Result))
	b.Send(air.AluBus, boundMult,
		aluTuple(clk, air.C(uint32(rv32.SLTU)), air.ExprWord(1), remainder, cWord)...)
	// Division by zero fixes q == 0xffffffff and r == b.
	divByZero := b.When(air.Mul(isReal, cIsZero.Result))
	for i := 0; i < air.WordSize; i++ {
		divByZero.AssertEq(quotient[i], air.C(0xff))
		divByZero.AssertEq(remainder[i], bWord[i])
	}
	// The result selects the quotient or the remainder.
	b.When(air.Add(isDiv, isDivu)).AssertEqWord(aWord, quotient)
	b.When(air.Add(isRem, isRemu)).AssertEqWord(aWord, remainder)
	//
	opcode := opcodeOf(sel(divRemIsDiv, rv32.DIV), sel(divRemIsDivu, rv32.DIVU),
		sel(divRemIsRem, rv32.REM), sel(divRemIsRemu, rv32.REMU))
	b.Receive(air.AluBus, isReal,
		aluTuple(clk, opcode, aWord, bWord, cWord)...)
}
