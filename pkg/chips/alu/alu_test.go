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
package alu_test

import (
	"testing"

	"github.com/consensys/go-rivet/pkg/air"
	"github.com/consensys/go-rivet/pkg/chips"
	"github.com/consensys/go-rivet/pkg/chips/alu"
	"github.com/consensys/go-rivet/pkg/exec"
	"github.com/consensys/go-rivet/pkg/rv32"
	"github.com/consensys/go-rivet/pkg/trace"
	"github.com/consensys/go-rivet/pkg/util/assert"
)

// evalRows drives a chip's constraints over every row of its trace.
func evalRows(t *testing.T, chip chips.Chip, matrix *trace.Matrix) {
	t.Helper()
	//
	height := matrix.Height()
	for row := uint(0); row < height; row++ {
		builder := air.NewRowBuilder(
			matrix.Row(row), matrix.Row((row+1)%height),
			row == 0, row == height-1)
		chip.Eval(builder)
		//
		for _, err := range builder.Failures() {
			t.Errorf("%s row %d: %v", chip.Name(), row, err)
		}
	}
}

// populate generates and sanity checks a chip's trace for a record.
func populate(t *testing.T, chip chips.Chip, record *exec.ExecutionRecord) *trace.Matrix {
	t.Helper()
	//
	matrix := chip.Populate(record)
	assert.Equal(t, chip.Width(), matrix.Width())
	//
	return matrix
}

func TestAddSubChip(t *testing.T) {
	record := exec.NewExecutionRecord(1)
	record.AddAluEvent(exec.AluEvent{Clk: 0, Opcode: rv32.ADD, A: 30, B: 10, C: 20})
	record.AddAluEvent(exec.AluEvent{Clk: 4, Opcode: rv32.ADD, A: 0, B: 0xffffffff, C: 1})
	record.AddAluEvent(exec.AluEvent{Clk: 8, Opcode: rv32.SUB, A: 0xfffffffd, B: 2, C: 5})
	record.AddAluEvent(exec.AluEvent{Clk: 12, Opcode: rv32.SUB, A: 1000, B: 1003, C: 3})
	//
	chip := alu.NewAddSub()
	evalRows(t, chip, populate(t, chip, record))
}

func TestBitwiseChip(t *testing.T) {
	record := exec.NewExecutionRecord(1)
	record.AddAluEvent(exec.AluEvent{Clk: 0, Opcode: rv32.XOR, A: 6, B: 5, C: 3})
	record.AddAluEvent(exec.AluEvent{Clk: 4, Opcode: rv32.OR, A: 7, B: 5, C: 3})
	record.AddAluEvent(exec.AluEvent{Clk: 8, Opcode: rv32.AND, A: 1, B: 5, C: 3})
	record.AddAluEvent(exec.AluEvent{Clk: 12, Opcode: rv32.AND, A: 0xdead0000, B: 0xdeadbeef, C: 0xffff0000})
	//
	chip := alu.NewBitwise()
	evalRows(t, chip, populate(t, chip, record))
}

func TestMulChip(t *testing.T) {
	record := exec.NewExecutionRecord(1)
	record.AddAluEvent(exec.AluEvent{Clk: 0, Opcode: rv32.MUL, A: 200, B: 10, C: 20})
	// -1 * 2 wraps low, and its high half depends on signedness.
	record.AddAluEvent(exec.AluEvent{Clk: 4, Opcode: rv32.MUL, A: 0xfffffffe, B: 0xffffffff, C: 2})
	record.AddAluEvent(exec.AluEvent{Clk: 8, Opcode: rv32.MULH, A: 0xffffffff, B: 0xffffffff, C: 2})
	record.AddAluEvent(exec.AluEvent{Clk: 12, Opcode: rv32.MULHU, A: 1, B: 0xffffffff, C: 2})
	record.AddAluEvent(exec.AluEvent{Clk: 16, Opcode: rv32.MULHSU, A: 0xffffffff, B: 0xffffffff, C: 2})
	record.AddAluEvent(exec.AluEvent{Clk: 20, Opcode: rv32.MULH, A: 0, B: 0xffffffff, C: 0xffffffff})
	//
	chip := alu.NewMul()
	evalRows(t, chip, populate(t, chip, record))
}

func TestDivRemChip(t *testing.T) {
	record := exec.NewExecutionRecord(1)
	// -7 / 2 truncates towards zero.
	record.AddAluEvent(exec.AluEvent{Clk: 0, Opcode: rv32.DIV, A: 0xfffffffd, B: 0xfffffff9, C: 2})
	// Division by zero yields all ones.
	record.AddAluEvent(exec.AluEvent{Clk: 4, Opcode: rv32.DIVU, A: 0xffffffff, B: 5, C: 0})
	// Signed overflow: INT_MIN rem -1 is zero.
	record.AddAluEvent(exec.AluEvent{Clk: 8, Opcode: rv32.REM, A: 0, B: 0x80000000, C: 0xffffffff})
	record.AddAluEvent(exec.AluEvent{Clk: 12, Opcode: rv32.REMU, A: 1, B: 7, C: 2})
	//
	chip := alu.NewDivRem()
	evalRows(t, chip, populate(t, chip, record))
	// Every row delegates a multiply and an add; only the unsigned row with
	// a nonzero divisor delegates a remainder bound.
	assert.Equal(t, 4, len(record.MulEvents))
	assert.Equal(t, 4, len(record.AddEvents))
	assert.Equal(t, 1, len(record.LtEvents))
}

func TestLtChip(t *testing.T) {
	record := exec.NewExecutionRecord(1)
	record.AddAluEvent(exec.AluEvent{Clk: 0, Opcode: rv32.SLT, A: 1, B: 0xffffffff, C: 0})
	record.AddAluEvent(exec.AluEvent{Clk: 4, Opcode: rv32.SLT, A: 0, B: 5, C: 5})
	record.AddAluEvent(exec.AluEvent{Clk: 8, Opcode: rv32.SLTU, A: 1, B: 3, C: 7})
	record.AddAluEvent(exec.AluEvent{Clk: 12, Opcode: rv32.SLTU, A: 0, B: 0xffffffff, C: 1})
	record.AddAluEvent(exec.AluEvent{Clk: 16, Opcode: rv32.SLT, A: 1, B: 0x7fffff00, C: 0x7fffffff})
	//
	chip := alu.NewLt()
	evalRows(t, chip, populate(t, chip, record))
}

func TestShiftLeftChip(t *testing.T) {
	record := exec.NewExecutionRecord(1)
	record.AddAluEvent(exec.AluEvent{Clk: 0, Opcode: rv32.SLL, A: 10 << 13, B: 10, C: 13})
	record.AddAluEvent(exec.AluEvent{Clk: 4, Opcode: rv32.SLL, A: 1 << 31, B: 1, C: 31})
	// The shift amount is taken mod 32.
	record.AddAluEvent(exec.AluEvent{Clk: 8, Opcode: rv32.SLL, A: 7, B: 7, C: 32})
	record.AddAluEvent(exec.AluEvent{Clk: 12, Opcode: rv32.SLL, A: 5, B: 5, C: 0})
	//
	chip := alu.NewShiftLeft()
	evalRows(t, chip, populate(t, chip, record))
}

func TestShiftRightChip(t *testing.T) {
	record := exec.NewExecutionRecord(1)
	record.AddAluEvent(exec.AluEvent{Clk: 0, Opcode: rv32.SRL, A: 0x00400000, B: 0x80000000, C: 9})
	record.AddAluEvent(exec.AluEvent{Clk: 4, Opcode: rv32.SRA, A: 0xffffffff, B: 0x80000000, C: 31})
	record.AddAluEvent(exec.AluEvent{Clk: 8, Opcode: rv32.SRA, A: 0xffffc000, B: 0x80000000, C: 17})
	record.AddAluEvent(exec.AluEvent{Clk: 12, Opcode: rv32.SRL, A: 5, B: 5, C: 0})
	//
	chip := alu.NewShiftRight()
	evalRows(t, chip, populate(t, chip, record))
}
