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

// AddSubChip proves wrapping u32 addition and subtraction through byte limb
// arithmetic with explicit carries.
type AddSubChip struct{}

// NewAddSub constructs the AddSub chip.
func NewAddSub() *AddSubChip {
	return &AddSubChip{}
}

// Name implementation for chips.Chip.
func (c *AddSubChip) Name() string {
	return "add_sub"
}

// Width implementation for chips.Chip.
func (c *AddSubChip) Width() uint {
	return addSubNumCols
}

// Populate implementation for chips.Chip.
func (c *AddSubChip) Populate(record *exec.ExecutionRecord) *trace.Matrix {
	events := make([]exec.AluEvent, 0, len(record.AddEvents)+len(record.SubEvents))
	events = append(events, record.AddEvents...)
	events = append(events, record.SubEvents...)
	//
	byteRec := &chips.SyncByteRecord{Record: record}
	matrix := trace.NewMatrix(addSubNumCols, uint(len(events)))
	//
	util.ParChunks(uint(len(events)), func(start, end uint) {
		for i := start; i < end; i++ {
			c.populateRow(matrix.Row(i), &events[i], byteRec)
		}
	})
	//
	matrix.Pad()
	//
	return matrix
}

func (c *AddSubChip) populateRow(row []babybear.Element, event *exec.AluEvent, byteRec air.ByteRecord) {
	chips.SetBool(row, addSubIsReal, true)
	chips.SetBool(row, addSubIsAdd, event.Opcode == rv32.ADD)
	chips.SetBool(row, addSubIsSub, event.Opcode == rv32.SUB)
	chips.SetU32(row, addSubClk, event.Clk)
	//
	chips.SetWord(row, addSubA0, event.A)
	chips.SetWord(row, addSubB0, event.B)
	chips.SetWord(row, addSubC0, event.C)
	//
	if event.Opcode == rv32.ADD {
		var op air.AddOperation[babybear.Element]
		air.PopulateAdd(&op, byteRec, event.B, event.C)
		chips.StoreAddOp(row, addSubAddOp, &op)
	} else {
		var op air.SubOperation[babybear.Element]
		air.PopulateSub(&op, byteRec, event.B, event.C)
		chips.StoreSubOp(row, addSubSubOp, &op)
	}
}

// Eval implementation for chips.Chip.
func (c *AddSubChip) Eval(b air.Builder) {
	isReal := air.Local(addSubIsReal)
	isAdd := air.Local(addSubIsAdd)
	isSub := air.Local(addSubIsSub)
	//
	aWord := chips.LocalWord(addSubA0)
	bWord := chips.LocalWord(addSubB0)
	cWord := chips.LocalWord(addSubC0)
	//
	b.AssertBool(isReal)
	b.AssertBool(isAdd)
	b.AssertBool(isSub)
	b.AssertEq(air.Add(isAdd, isSub), isReal)
	//
	addOp := chips.AddOpExpr(addSubAddOp)
	air.EvalAdd(b, addOp, bWord, cWord, isAdd)
	b.When(isAdd).AssertEqWord(addOp.Value, aWord)
	//
	subOp := chips.SubOpExpr(addSubSubOp)
	air.EvalSub(b, subOp, bWord, cWord, isSub)
	b.When(isSub).AssertEqWord(subOp.Value, aWord)
	//
	opcode := opcodeOf(sel(addSubIsAdd, rv32.ADD), sel(addSubIsSub, rv32.SUB))
	b.Receive(air.AluBus, isReal,
		aluTuple(air.Local(addSubClk), opcode, aWord, bWord, cWord)...)
}
