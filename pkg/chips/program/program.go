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

// Package program commits the instruction stream.  Every fetch the CPU
// table claims is received here against the actual program, with one row
// per instruction carrying its execution count.
package program

import (
	"github.com/consensys/go-rivet/pkg/air"
	"github.com/consensys/go-rivet/pkg/chips"
	"github.com/consensys/go-rivet/pkg/exec"
	rvprog "github.com/consensys/go-rivet/pkg/program"
	"github.com/consensys/go-rivet/pkg/trace"
	"github.com/consensys/go-rivet/pkg/util"
)

// Chip proves instruction fetches against a fixed program.
type Chip struct {
	program *rvprog.Program
}

// New constructs the Program chip for the given program.
func New(program *rvprog.Program) *Chip {
	return &Chip{program: program}
}

// Name implementation for chips.Chip.
func (c *Chip) Name() string {
	return "program"
}

// Width implementation for chips.Chip.
func (c *Chip) Width() uint {
	return programNumCols
}

// Populate implementation for chips.Chip.
func (c *Chip) Populate(record *exec.ExecutionRecord) *trace.Matrix {
	// Execution counts per pc.
	counts := make(map[uint32]uint32, len(c.program.Instructions))
	for i := range record.CpuEvents {
		counts[record.CpuEvents[i].Pc]++
	}
	//
	matrix := trace.NewMatrix(programNumCols, uint(len(c.program.Instructions)))
	//
	util.ParChunks(uint(len(c.program.Instructions)), func(start, end uint) {
		for i := start; i < end; i++ {
			insn := &c.program.Instructions[i]
			pc := c.program.PcBase + 4*uint32(i)
			//
			row := matrix.Row(i)
			chips.SetU32(row, programPc, pc)
			chips.SetU32(row, programOpcode, uint32(insn.Opcode))
			chips.SetU32(row, programOpA, insn.OpA)
			chips.SetU32(row, programOpB, insn.OpB)
			chips.SetU32(row, programOpC, insn.OpC)
			chips.SetBool(row, programImmB, insn.ImmB)
			chips.SetBool(row, programImmC, insn.ImmC)
			chips.SetU32(row, programMult, counts[pc])
		}
	})
	//
	matrix.Pad()
	//
	return matrix
}

// Eval implementation for chips.Chip.  Unexecuted instructions and padding
// rows answer with zero multiplicity.
func (c *Chip) Eval(b air.Builder) {
	b.Receive(air.ProgramBus, air.Local(programMult),
		air.Local(programPc), air.Local(programOpcode),
		air.Local(programOpA), air.Local(programOpB), air.Local(programOpC),
		air.Local(programImmB), air.Local(programImmC))
}
