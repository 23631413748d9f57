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
package machine_test

import (
	"testing"

	"github.com/consensys/go-rivet/pkg/air"
	"github.com/consensys/go-rivet/pkg/exec"
	"github.com/consensys/go-rivet/pkg/exec/syscall"
	"github.com/consensys/go-rivet/pkg/machine"
	"github.com/consensys/go-rivet/pkg/program"
	"github.com/consensys/go-rivet/pkg/rv32"
	"github.com/consensys/go-rivet/pkg/util/assert"
)

// generate runs the given program to completion and generates the trace of
// every shard.
func generate(t *testing.T, p *program.Program, opts exec.Opts) (*machine.Machine, []*machine.ShardTrace) {
	t.Helper()
	//
	e := exec.NewExecutor(p, exec.Trace, opts, syscall.DefaultTable())
	assert.NoError(t, e.Run())
	//
	m := machine.New(p)
	//
	var shards []*machine.ShardTrace
	for _, record := range e.Records() {
		shards = append(shards, m.Generate(record))
	}
	//
	return m, shards
}

// verify checks constraints on every shard and interaction balance across
// all of them.
func verify(t *testing.T, m *machine.Machine, shards []*machine.ShardTrace) {
	t.Helper()
	//
	for _, shard := range shards {
		assert.NoError(t, m.DebugConstraints(shard))
	}
	//
	assert.NoError(t, m.CheckInteractions(shards,
		air.MemoryBus, air.ProgramBus, air.AluBus, air.ByteBus))
}

func TestMachineAluProgram(t *testing.T) {
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, 5, 0, 1000),
		rv32.NewImmCInstruction(rv32.ADD, 6, 0, 3),
		rv32.NewInstruction(rv32.ADD, 7, 5, 6),
		rv32.NewInstruction(rv32.SUB, 8, 6, 5),
		rv32.NewInstruction(rv32.XOR, 9, 5, 6),
		rv32.NewInstruction(rv32.OR, 10, 5, 6),
		rv32.NewInstruction(rv32.AND, 11, 5, 6),
		rv32.NewInstruction(rv32.MUL, 12, 5, 6),
		rv32.NewInstruction(rv32.MULH, 13, 8, 5),
		rv32.NewInstruction(rv32.MULHU, 14, 8, 5),
		rv32.NewInstruction(rv32.MULHSU, 15, 8, 5),
		rv32.NewInstruction(rv32.DIV, 16, 5, 6),
		rv32.NewInstruction(rv32.DIVU, 17, 5, 6),
		rv32.NewInstruction(rv32.REM, 18, 8, 6),
		rv32.NewInstruction(rv32.REMU, 19, 5, 0),
		rv32.NewInstruction(rv32.SLT, 20, 8, 6),
		rv32.NewInstruction(rv32.SLTU, 21, 5, 6),
		rv32.NewInstruction(rv32.SLL, 22, 5, 6),
		rv32.NewInstruction(rv32.SRL, 23, 5, 6),
		rv32.NewInstruction(rv32.SRA, 24, 8, 6),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	)
	//
	m, shards := generate(t, p, exec.DefaultOpts())
	assert.Equal(t, 1, len(shards))
	//
	verify(t, m, shards)
}

func TestMachineMemoryProgram(t *testing.T) {
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, 6, 0, 8192),
		rv32.NewImmCInstruction(rv32.ADD, 5, 0, 0x12345678),
		rv32.NewImmCInstruction(rv32.SW, 5, 6, 0),
		rv32.NewImmCInstruction(rv32.LW, 7, 6, 0),
		rv32.NewImmCInstruction(rv32.LHU, 8, 6, 2),
		rv32.NewImmCInstruction(rv32.LH, 9, 6, 0),
		rv32.NewImmCInstruction(rv32.LB, 10, 6, 1),
		rv32.NewImmCInstruction(rv32.SB, 5, 6, 5),
		rv32.NewImmCInstruction(rv32.LBU, 11, 6, 5),
		rv32.NewImmCInstruction(rv32.SH, 5, 6, 6),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	)
	//
	m, shards := generate(t, p, exec.DefaultOpts())
	verify(t, m, shards)
}

func TestMachineControlFlowProgram(t *testing.T) {
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, 5, 0, 10),      // pc 0
		rv32.NewImmCInstruction(rv32.ADD, 6, 0, 10),      // pc 4
		rv32.NewImmCInstruction(rv32.BEQ, 5, 6, 8),       // pc 8, taken
		rv32.NewImmCInstruction(rv32.ADD, 7, 0, 99),      // pc 12, skipped
		rv32.NewImmCInstruction(rv32.BNE, 5, 6, 8),       // pc 16, not taken
		rv32.NewImmCInstruction(rv32.BLT, 5, 6, 8),       // pc 20, not taken
		rv32.NewImmCInstruction(rv32.BGEU, 5, 6, 4),      // pc 24, taken
		rv32.NewImmBCInstruction(rv32.JAL, 1, 8, 0),      // pc 28, to pc 36
		rv32.NewImmCInstruction(rv32.ADD, 8, 0, 99),      // pc 32, skipped
		rv32.NewImmBCInstruction(rv32.AUIPC, 9, 4096, 0), // pc 36
		rv32.NewImmCInstruction(rv32.JALR, 2, 1, 16),     // pc 40, to pc 48
		rv32.NewImmCInstruction(rv32.ADD, 10, 0, 99),     // pc 44, skipped
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),          // pc 48
	)
	//
	m, shards := generate(t, p, exec.DefaultOpts())
	verify(t, m, shards)
}

func TestMachineShardedProgram(t *testing.T) {
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, 5, 0, 1),
		rv32.NewImmCInstruction(rv32.ADD, 6, 0, 2),
		rv32.NewInstruction(rv32.ADD, 7, 5, 6),
		rv32.NewInstruction(rv32.MUL, 28, 7, 7),
		rv32.NewInstruction(rv32.SLTU, 29, 5, 6),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	)
	//
	opts := exec.DefaultOpts()
	opts.ShardSize = 2
	//
	m, shards := generate(t, p, opts)
	assert.Equal(t, 3, len(shards))
	// Register state flows between shards over the memory bus, so balance
	// only holds across all of them together.
	verify(t, m, shards)
}

func TestMachineTableShapes(t *testing.T) {
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, 5, 0, 7),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	)
	//
	m, shards := generate(t, p, exec.DefaultOpts())
	assert.Equal(t, 1, len(shards))
	//
	tables := shards[0].Tables
	assert.Equal(t, len(m.Chips()), len(tables))
	//
	for i, chip := range m.Chips() {
		assert.Equal(t, chip.Name(), tables[i].Name)
		assert.Equal(t, chip.Width(), tables[i].Matrix.Width())
		assert.True(t, tables[i].Matrix.Height() >= 4)
	}
}
