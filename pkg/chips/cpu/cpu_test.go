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
package cpu_test

import (
	"testing"

	"github.com/consensys/go-rivet/pkg/air"
	"github.com/consensys/go-rivet/pkg/chips/cpu"
	"github.com/consensys/go-rivet/pkg/exec"
	"github.com/consensys/go-rivet/pkg/exec/syscall"
	"github.com/consensys/go-rivet/pkg/field/babybear"
	"github.com/consensys/go-rivet/pkg/program"
	"github.com/consensys/go-rivet/pkg/rv32"
	"github.com/consensys/go-rivet/pkg/trace"
	"github.com/consensys/go-rivet/pkg/util/assert"
)

// runTrace executes the given program and returns its single shard record.
func runTrace(t *testing.T, p *program.Program) *exec.ExecutionRecord {
	t.Helper()
	//
	e := exec.NewExecutor(p, exec.Trace, exec.DefaultOpts(), syscall.DefaultTable())
	assert.NoError(t, e.Run())
	assert.Equal(t, 1, len(e.Records()))
	//
	return e.Records()[0]
}

// evalRows drives the chip's constraints over every row of its trace.
func evalRows(t *testing.T, chip *cpu.Chip, matrix *trace.Matrix) {
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
			t.Errorf("row %d: %v", row, err)
		}
	}
}

func TestCpuChipAluProgram(t *testing.T) {
	record := runTrace(t, program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, 5, 0, 10),
		rv32.NewImmCInstruction(rv32.ADD, 6, 0, 3),
		rv32.NewInstruction(rv32.SUB, 7, 5, 6),
		rv32.NewInstruction(rv32.MUL, 8, 7, 7),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	))
	//
	chip := cpu.New()
	matrix := chip.Populate(record)
	//
	assert.Equal(t, chip.Width(), matrix.Width())
	evalRows(t, chip, matrix)
}

func TestCpuChipMemoryProgram(t *testing.T) {
	record := runTrace(t, program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, 6, 0, 8192),
		rv32.NewImmCInstruction(rv32.ADD, 5, 0, 0xcafe),
		rv32.NewImmCInstruction(rv32.SW, 5, 6, 0),
		rv32.NewImmCInstruction(rv32.LW, 7, 6, 0),
		rv32.NewImmCInstruction(rv32.LHU, 8, 6, 2),
		rv32.NewImmCInstruction(rv32.SB, 5, 6, 5),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	))
	//
	chip := cpu.New()
	evalRows(t, chip, chip.Populate(record))
}

func TestCpuChipControlFlow(t *testing.T) {
	record := runTrace(t, program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, 5, 0, 10),     // pc 0
		rv32.NewImmCInstruction(rv32.BEQ, 5, 5, 12),     // pc 4, taken
		rv32.NewImmCInstruction(rv32.ADD, 6, 0, 99),     // pc 8, skipped
		rv32.NewImmCInstruction(rv32.ADD, 7, 0, 99),     // pc 12, skipped
		rv32.NewImmBCInstruction(rv32.JAL, 1, 8, 0),     // pc 16, to pc 24
		rv32.NewImmCInstruction(rv32.ADD, 8, 0, 99),     // pc 20, skipped
		rv32.NewImmCInstruction(rv32.BLT, 5, 0, 8),      // pc 24, not taken
		rv32.NewImmBCInstruction(rv32.AUIPC, 9, 512, 0), // pc 28
		rv32.NewImmCInstruction(rv32.JALR, 2, 1, 16),    // pc 32, to pc 36
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),         // pc 36
	))
	// The branch comparison pass delegates one SLT event for the BLT row.
	chip := cpu.New()
	matrix := chip.Populate(record)
	//
	assert.Equal(t, 1, len(record.LtEvents))
	evalRows(t, chip, matrix)
}

func TestCpuChipDetectsTampering(t *testing.T) {
	record := runTrace(t, program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, 5, 0, 10),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	))
	//
	chip := cpu.New()
	matrix := chip.Populate(record)
	// Zeroing the first row makes the real rows no longer form a prefix.
	row := matrix.Row(0)
	for i := range row {
		row[i] = babybear.Zero()
	}
	//
	failed := false
	height := matrix.Height()
	//
	for r := uint(0); r < height; r++ {
		builder := air.NewRowBuilder(
			matrix.Row(r), matrix.Row((r+1)%height), r == 0, r == height-1)
		chip.Eval(builder)
		failed = failed || len(builder.Failures()) > 0
	}
	//
	assert.True(t, failed)
}
