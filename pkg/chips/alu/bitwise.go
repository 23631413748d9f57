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

// BitwiseChip proves 32-bit AND, OR and XOR as four byte table lookups, one
// per limb.
type BitwiseChip struct{}

// NewBitwise constructs the Bitwise chip.
func NewBitwise() *BitwiseChip {
	return &BitwiseChip{}
}

// Name implementation for chips.Chip.
func (c *BitwiseChip) Name() string {
	return "bitwise"
}

// Width implementation for chips.Chip.
func (c *BitwiseChip) Width() uint {
	return bitwiseNumCols
}

// Populate implementation for chips.Chip.
func (c *BitwiseChip) Populate(record *exec.ExecutionRecord) *trace.Matrix {
	byteRec := &chips.SyncByteRecord{Record: record}
	matrix := trace.NewMatrix(bitwiseNumCols, uint(len(record.BitwiseEvents)))
	//
	util.ParChunks(uint(len(record.BitwiseEvents)), func(start, end uint) {
		for i := start; i < end; i++ {
			c.populateRow(matrix.Row(i), &record.BitwiseEvents[i], byteRec)
		}
	})
	//
	matrix.Pad()
	//
	return matrix
}

func (c *BitwiseChip) populateRow(row []babybear.Element, event *exec.AluEvent, byteRec air.ByteRecord) {
	chips.SetBool(row, bitwiseIsReal, true)
	chips.SetBool(row, bitwiseIsXor, event.Opcode == rv32.XOR)
	chips.SetBool(row, bitwiseIsOr, event.Opcode == rv32.OR)
	chips.SetBool(row, bitwiseIsAnd, event.Opcode == rv32.AND)
	chips.SetU32(row, bitwiseClk, event.Clk)
	//
	chips.SetWord(row, bitwiseA0, event.A)
	chips.SetWord(row, bitwiseB0, event.B)
	chips.SetWord(row, bitwiseC0, event.C)
	//
	var byteOp air.ByteOpcode
	switch event.Opcode {
	case rv32.XOR:
		byteOp = air.ByteXor
	case rv32.OR:
		byteOp = air.ByteOr
	default:
		byteOp = air.ByteAnd
	}
	//
	a, bb, cc := limbs(event.A), limbs(event.B), limbs(event.C)
	for i := 0; i < air.WordSize; i++ {
		byteRec.AddByteLookupEvent(air.ByteLookupEvent{
			Opcode: byteOp, A1: a[i], B: bb[i], C: cc[i],
		})
	}
}

// Eval implementation for chips.Chip.
func (c *BitwiseChip) Eval(b air.Builder) {
	isReal := air.Local(bitwiseIsReal)
	isXor := air.Local(bitwiseIsXor)
	isOr := air.Local(bitwiseIsOr)
	isAnd := air.Local(bitwiseIsAnd)
	//
	aWord := chips.LocalWord(bitwiseA0)
	bWord := chips.LocalWord(bitwiseB0)
	cWord := chips.LocalWord(bitwiseC0)
	//
	b.AssertBool(isReal)
	b.AssertBool(isXor)
	b.AssertBool(isOr)
	b.AssertBool(isAnd)
	b.AssertEq(air.Add(isXor, isOr, isAnd), isReal)
	// One lookup per limb proves the whole word.
	byteOp := air.Add(
		air.Mul(isXor, air.C(uint32(air.ByteXor))),
		air.Mul(isOr, air.C(uint32(air.ByteOr))),
		air.Mul(isAnd, air.C(uint32(air.ByteAnd))),
	)
	//
	for i := 0; i < air.WordSize; i++ {
		b.Send(air.ByteBus, isReal, byteOp, aWord[i], air.Zero(), bWord[i], cWord[i])
	}
	//
	opcode := opcodeOf(sel(bitwiseIsXor, rv32.XOR), sel(bitwiseIsOr, rv32.OR),
		sel(bitwiseIsAnd, rv32.AND))
	b.Receive(air.AluBus, isReal,
		aluTuple(air.Local(bitwiseClk), opcode, aWord, bWord, cWord)...)
}
