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
package exec_test

import (
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/consensys/go-rivet/pkg/exec"
	"github.com/consensys/go-rivet/pkg/exec/syscall"
	"github.com/consensys/go-rivet/pkg/program"
	"github.com/consensys/go-rivet/pkg/rv32"
	"github.com/consensys/go-rivet/pkg/util/assert"
)

// run executes the given program to completion in trace mode.
func run(t *testing.T, p *program.Program, opts exec.Opts) *exec.Executor {
	t.Helper()
	//
	e := exec.NewExecutor(p, exec.Trace, opts, syscall.DefaultTable())
	assert.NoError(t, e.Run())
	//
	return e
}

func TestExecutorAdd(t *testing.T) {
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, 5, 0, 10),
		rv32.NewImmCInstruction(rv32.ADD, 6, 0, 20),
		rv32.NewInstruction(rv32.ADD, 7, 5, 6),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	)
	//
	e := run(t, p, exec.DefaultOpts())
	//
	assert.Equal(t, uint32(30), e.Register(rv32.NewRegister(7)))
	//
	records := e.Records()
	assert.Equal(t, 1, len(records))
	assert.Equal(t, 3, len(records[0].AddEvents))
	assert.Equal(t, 4, len(records[0].CpuEvents))
	assert.Equal(t, uint64(4), e.Report().TotalCycles)
}

func TestExecutorWritesToX0Dropped(t *testing.T) {
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, 0, 0, 99),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	)
	//
	e := run(t, p, exec.DefaultOpts())
	//
	assert.Equal(t, uint32(0), e.Register(rv32.X0))
}

func TestExecutorExitCode(t *testing.T) {
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, uint32(rv32.A0), 0, 42),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	)
	//
	e := exec.NewExecutor(p, exec.Trace, exec.DefaultOpts(), syscall.DefaultTable())
	err := e.Run()
	//
	var exitErr *exec.ExitCodeError
	assert.True(t, errors.As(err, &exitErr))
	assert.Equal(t, uint32(42), exitErr.Code)
	//
	for _, record := range e.Records() {
		assert.Equal(t, uint32(42), record.PublicValues.ExitCode)
	}
}

func TestExecutorCycleLimit(t *testing.T) {
	// Tight loop: jal x0, 0.
	p := program.FromInstructions(
		rv32.NewImmBCInstruction(rv32.JAL, 0, 0, 0),
	)
	//
	opts := exec.DefaultOpts()
	opts.CycleLimit = 100
	//
	e := exec.NewExecutor(p, exec.Simple, opts, nil)
	err := e.Run()
	//
	assert.True(t, errors.Is(err, exec.ErrCycleLimitExceeded))
}

func TestExecutorDynamicEcall(t *testing.T) {
	// The code register is computed at runtime, so the dispatch cannot be
	// specialised statically and goes through ECALL.
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, 6, 0, rv32.SyscallHalt),
		rv32.NewInstruction(rv32.ADD, uint32(rv32.T0), 6, 0),
		rv32.NewInstruction(rv32.ECALL, uint32(rv32.T0), 0, 0),
	)
	// The analysis pass must have left the dynamic dispatch alone.
	assert.Equal(t, rv32.ECALL, p.Instructions[2].Opcode)
	//
	e := run(t, p, exec.DefaultOpts())
	//
	assert.Equal(t, uint64(1), e.Report().OpcodeCounts[rv32.ECALL])
}

func TestExecutorInputStream(t *testing.T) {
	// The input word flows through a0 into the exit code.
	p := program.FromInstructions(
		rv32.NewInstruction(rv32.LWA, uint32(rv32.A0), 0, 0),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	)
	//
	e := exec.NewExecutor(p, exec.Trace, exec.DefaultOpts(), syscall.DefaultTable())
	e.SetInput([]uint32{0xdeadbeef})
	err := e.Run()
	//
	var exitErr *exec.ExitCodeError
	assert.True(t, errors.As(err, &exitErr))
	assert.Equal(t, uint32(0xdeadbeef), exitErr.Code)
}

func TestExecutorShardSplitByCycles(t *testing.T) {
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, 5, 0, 1),
		rv32.NewImmCInstruction(rv32.ADD, 6, 0, 2),
		rv32.NewImmCInstruction(rv32.ADD, 7, 0, 3),
		rv32.NewImmCInstruction(rv32.ADD, 28, 0, 4),
		rv32.NewImmCInstruction(rv32.ADD, 29, 0, 5),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	)
	//
	opts := exec.DefaultOpts()
	opts.ShardSize = 2
	//
	e := run(t, p, opts)
	records := e.Records()
	//
	assert.Equal(t, 3, len(records))
	//
	for i, record := range records {
		assert.Equal(t, uint32(i+1), record.Index)
		assert.Equal(t, 2, len(record.CpuEvents))
		// The shard clock restarts at every boundary.
		assert.Equal(t, uint32(0), record.CpuEvents[0].Clk)
	}
	// Memory is finalized once, in the last shard.
	assert.Equal(t, 0, len(records[0].MemoryFinalizeEvents))
	assert.True(t, len(records[2].MemoryFinalizeEvents) > 0)
	// All shards commit to the same public values.
	assert.Equal(t, records[0].PublicValues, records[2].PublicValues)
}

func TestExecutorPublicValuesDigest(t *testing.T) {
	// Store 0x04030201 at 8192, then write its four bytes to fd 3.
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, 6, 0, 8192),
		rv32.NewImmCInstruction(rv32.ADD, 7, 0, 0x04030201),
		rv32.NewImmCInstruction(rv32.SW, 7, 6, 0),
		rv32.NewImmCInstruction(rv32.ADD, uint32(rv32.A0), 0, 3),
		rv32.NewImmCInstruction(rv32.ADD, uint32(rv32.A1), 0, 8192),
		rv32.NewImmCInstruction(rv32.ADD, uint32(rv32.A2), 0, 4),
		rv32.NewImmCInstruction(rv32.PRECOMPILE, uint32(rv32.T0), 0, rv32.SyscallWrite),
		rv32.NewImmCInstruction(rv32.ADD, uint32(rv32.A0), 0, 0),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	)
	//
	e := run(t, p, exec.DefaultOpts())
	//
	expected := sha256.Sum256([]byte{1, 2, 3, 4})
	assert.Equal(t, expected, e.PublicValuesDigest())
	assert.Equal(t, expected, e.Records()[0].PublicValues.Digest)
	// The observational write leaves exactly one syscall event.
	assert.Equal(t, 1, len(e.Records()[0].SyscallEvents))
}

func TestExecutorShaExtend(t *testing.T) {
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, uint32(rv32.A0), 0, 8192),
		rv32.NewImmCInstruction(rv32.PRECOMPILE, uint32(rv32.T0), 0, rv32.SyscallShaExtend),
		rv32.NewImmCInstruction(rv32.ADD, uint32(rv32.A0), 0, 0),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	)
	//
	var w [64]uint32
	for i := 0; i < 16; i++ {
		w[i] = uint32(i + 1)
		p.Image[8192+4*uint32(i)] = w[i]
	}
	//
	e := run(t, p, exec.DefaultOpts())
	//
	syscall.ShaExtendWords(&w)
	//
	for i := 16; i < 64; i++ {
		value, live := e.Memory().Peek(8192 + 4*uint32(i))
		assert.True(t, live)
		assert.Equal(t, w[i], value, "schedule word %d", i)
	}
	//
	events := e.Records()[0].ShaExtendEvents
	assert.Equal(t, 1, len(events))
	assert.Equal(t, 48, len(events[0].WMinus15Reads))
	assert.Equal(t, 48, len(events[0].WMinus2Reads))
	assert.Equal(t, 48, len(events[0].WMinus16Reads))
	assert.Equal(t, 48, len(events[0].WMinus7Reads))
	assert.Equal(t, 48, len(events[0].WWrites))
}

func TestExecutorKeccakDeferredSplit(t *testing.T) {
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, uint32(rv32.A0), 0, 4096),
		rv32.NewImmCInstruction(rv32.PRECOMPILE, uint32(rv32.T0), 0, rv32.SyscallKeccakPermute),
		rv32.NewImmCInstruction(rv32.PRECOMPILE, uint32(rv32.T0), 0, rv32.SyscallKeccakPermute),
		rv32.NewImmCInstruction(rv32.PRECOMPILE, uint32(rv32.T0), 0, rv32.SyscallKeccakPermute),
		rv32.NewImmCInstruction(rv32.ADD, uint32(rv32.A0), 0, 0),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	)
	//
	var state [25]uint64
	for i := 0; i < 50; i++ {
		p.Image[4096+4*uint32(i)] = uint32(3*i + 1)
	}
	//
	for i := range state {
		state[i] = uint64(3*(2*i)+1) | uint64(3*(2*i+1)+1)<<32
	}
	//
	opts := exec.DefaultOpts()
	opts.Split.Keccak = 2
	//
	e := run(t, p, opts)
	records := e.Records()
	// The third permutation lands in a fresh shard.
	assert.Equal(t, 2, len(records))
	assert.Equal(t, 2, len(records[0].KeccakPermuteEvents))
	assert.Equal(t, 1, len(records[1].KeccakPermuteEvents))
	//
	syscall.KeccakF1600(&state)
	syscall.KeccakF1600(&state)
	//
	assert.Equal(t, state, records[1].KeccakPermuteEvents[0].PreState)
	//
	syscall.KeccakF1600(&state)
	assert.Equal(t, state, records[1].KeccakPermuteEvents[0].PostState)
	//
	for i := range state {
		lo, _ := e.Memory().Peek(4096 + 8*uint32(i))
		hi, _ := e.Memory().Peek(4096 + 8*uint32(i) + 4)
		assert.Equal(t, state[i], uint64(lo)|uint64(hi)<<32, "lane %d", i)
	}
}

func TestExecutorUnconstrainedRegion(t *testing.T) {
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.PRECOMPILE, uint32(rv32.T0), 0, rv32.SyscallEnterUnconstrained),
		rv32.NewImmCInstruction(rv32.ADD, 28, 0, 77),
		rv32.NewImmCInstruction(rv32.ADD, 6, 0, 12288),
		rv32.NewImmCInstruction(rv32.SW, 28, 6, 0),
		rv32.NewImmCInstruction(rv32.PRECOMPILE, uint32(rv32.T0), 0, rv32.SyscallExitUnconstrained),
		rv32.NewImmCInstruction(rv32.LW, 7, 6, 0),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	)
	//
	e := run(t, p, exec.DefaultOpts())
	// The hint computed inside the region is visible afterwards.
	assert.Equal(t, uint32(77), e.Register(rv32.NewRegister(7)))
	//
	record := e.Records()[0]
	// Only the entering ecall, the load and the halt are provable.
	assert.Equal(t, 3, len(record.CpuEvents))
	assert.Equal(t, 0, len(record.AddEvents))
	assert.Equal(t, 0, len(record.SyscallEvents))
	// The region consumed no provable cycles.
	assert.Equal(t, uint64(3), e.Report().TotalCycles)
}

func TestExecutorNestedUnconstrainedPanics(t *testing.T) {
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.PRECOMPILE, uint32(rv32.T0), 0, rv32.SyscallEnterUnconstrained),
		rv32.NewImmCInstruction(rv32.PRECOMPILE, uint32(rv32.T0), 0, rv32.SyscallEnterUnconstrained),
	)
	//
	e := exec.NewExecutor(p, exec.Trace, exec.DefaultOpts(), syscall.DefaultTable())
	//
	assert.Panics(t, func() {
		_ = e.Run()
	})
}

func TestExecutorLoadStoreBytes(t *testing.T) {
	// Store a word, overwrite its second byte, then load bytes back both
	// signed and unsigned.
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, 6, 0, 8192),
		rv32.NewImmCInstruction(rv32.ADD, 7, 0, 0x11223344),
		rv32.NewImmCInstruction(rv32.SW, 7, 6, 0),
		rv32.NewImmCInstruction(rv32.ADD, 28, 0, 0xff),
		rv32.NewImmCInstruction(rv32.SB, 28, 6, 1),
		rv32.NewImmCInstruction(rv32.LW, 29, 6, 0),
		rv32.NewImmCInstruction(rv32.LB, 30, 6, 1),
		rv32.NewImmCInstruction(rv32.LBU, 31, 6, 1),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	)
	//
	e := run(t, p, exec.DefaultOpts())
	//
	assert.Equal(t, uint32(0x1122ff44), e.Register(rv32.NewRegister(29)))
	assert.Equal(t, uint32(0xffffffff), e.Register(rv32.NewRegister(30)))
	assert.Equal(t, uint32(0xff), e.Register(rv32.NewRegister(31)))
}

func TestExecutorBranchesAndJumps(t *testing.T) {
	// The beq at pc 4 skips the poison write at pc 8; the jal at pc 12
	// calls pc 20 linking ra = 16, and the jalr at pc 24 returns to the
	// halt at pc 16.
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, 5, 0, 7),
		rv32.NewImmCInstruction(rv32.BEQ, 5, 5, 8),
		rv32.NewImmCInstruction(rv32.ADD, 5, 0, 0),
		rv32.NewImmBCInstruction(rv32.JAL, 1, 8, 0),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
		rv32.NewImmCInstruction(rv32.ADD, 6, 5, 1),
		rv32.NewImmCInstruction(rv32.JALR, 28, 1, 0),
	)
	//
	e := run(t, p, exec.DefaultOpts())
	//
	assert.Equal(t, uint32(7), e.Register(rv32.T0))
	assert.Equal(t, uint32(8), e.Register(rv32.NewRegister(6)))
	assert.Equal(t, uint32(16), e.Register(rv32.NewRegister(1)))
	assert.Equal(t, uint32(28), e.Register(rv32.NewRegister(28)))
	//
	record := e.Records()[0]
	assert.Equal(t, 6, len(record.CpuEvents))
	//
	for _, event := range record.CpuEvents {
		if event.Branch != nil {
			assert.True(t, event.Branch.Taken)
			assert.Equal(t, uint32(12), event.Branch.NextPc)
		}
	}
}

func TestExecutorRepeatedSourceRegisters(t *testing.T) {
	// One instruction per class naming the same source register twice.
	// Operand reads happen at distinct ascending timestamps within the
	// cycle, so the repeated register must be read C then B then A.
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, 5, 0, 21),
		rv32.NewInstruction(rv32.ADD, 7, 5, 5),      // x7 = x5 + x5
		rv32.NewImmCInstruction(rv32.BEQ, 5, 5, 8),  // taken
		rv32.NewImmCInstruction(rv32.ADD, 6, 0, 99), // skipped
		rv32.NewImmCInstruction(rv32.ADD, 8, 0, 8192),
		rv32.NewImmCInstruction(rv32.SW, 8, 8, 0), // store x8 at [x8]
		rv32.NewImmCInstruction(rv32.LW, 9, 8, 0),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	)
	//
	e := run(t, p, exec.DefaultOpts())
	//
	assert.Equal(t, uint32(42), e.Register(rv32.NewRegister(7)))
	assert.Equal(t, uint32(0), e.Register(rv32.NewRegister(6)))
	assert.Equal(t, uint32(8192), e.Register(rv32.NewRegister(9)))
}

func TestExecutorMisalignedAccessPanics(t *testing.T) {
	for _, insn := range []rv32.Instruction{
		rv32.NewImmCInstruction(rv32.LW, 6, 5, 2),
		rv32.NewImmCInstruction(rv32.SW, 6, 5, 2),
		rv32.NewImmCInstruction(rv32.LH, 6, 5, 1),
		rv32.NewImmCInstruction(rv32.SH, 6, 5, 1),
	} {
		p := program.FromInstructions(
			rv32.NewImmCInstruction(rv32.ADD, 5, 0, 8192),
			insn,
			rv32.NewInstruction(rv32.HALT, 0, 0, 0),
		)
		//
		e := exec.NewExecutor(p, exec.Trace, exec.DefaultOpts(), syscall.DefaultTable())
		assert.Panics(t, func() { _ = e.Run() })
	}
}
