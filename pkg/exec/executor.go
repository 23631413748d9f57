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
package exec

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"hash"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-rivet/pkg/program"
	"github.com/consensys/go-rivet/pkg/rv32"
	"github.com/consensys/go-rivet/pkg/util"
)

// Mode selects how much the executor records while running.
type Mode uint8

const (
	// Simple executes without recording events, for plain runs where only
	// the outcome and the report matter.
	Simple Mode = iota
	// Trace records the full event log needed for trace generation.
	Trace
)

// MemoryAccessPosition fixes the sub-timestamp of each access an
// instruction may perform within its cycle, so that all accesses of one
// cycle carry distinct, deterministic timestamps.
type MemoryAccessPosition uint32

const (
	// PositionMemory is the load/store data access.
	PositionMemory MemoryAccessPosition = iota
	// PositionC is the third operand register read.
	PositionC
	// PositionB is the second operand register read.
	PositionB
	// PositionA is the first operand register access.
	PositionA
)

// Syscall is the contract every syscall handler implements: read inputs
// through the context, compute, write outputs, and optionally override the
// return register value.
type Syscall interface {
	// Execute runs the syscall.  The returned boolean indicates whether the
	// returned value should be written to the return register.
	Execute(ctx *SyscallContext, arg1, arg2 uint32) (uint32, bool)
	// NumExtraCycles returns how many clock cycles the syscall consumes
	// beyond the dispatching instruction.
	NumExtraCycles() uint32
}

// Executor is the interpreter: it owns the memory map, clock and current
// event record exclusively for the duration of a run.  Execution is
// strictly sequential; only trace generation afterwards is parallel.
type Executor struct {
	program  *program.Program
	opts     Opts
	mode     Mode
	syscalls map[uint32]Syscall
	//
	memory *Memory
	//
	record  *ExecutionRecord
	records []*ExecutionRecord
	//
	globalClk uint64
	clk       uint32
	pc        uint32
	shard     uint32
	//
	halted   bool
	exitCode uint32
	//
	input    []uint32
	inputPos int
	// pvHasher accumulates everything written to the public values stream.
	// It is owned by the executor, initialised at construction and
	// finalised exactly once at halt.
	pvHasher hash.Hash
	pvDigest [32]byte
	//
	unconstrained *checkpoint
	//
	report *ExecutionReport
	//
	stdoutBuf     bytes.Buffer
	stderrBuf     bytes.Buffer
	trackerStarts map[string]uint64
}

// NewExecutor constructs an executor over the given program.  The syscall
// table is supplied by the caller so the dispatch surface stays explicit;
// passing nil leaves only the statically specialised pseudo instructions
// available.
func NewExecutor(p *program.Program, mode Mode, opts Opts, syscalls map[uint32]Syscall) *Executor {
	image := make(map[uint32]uint32, len(p.Image)+rv32.NumRegisters)
	for addr, value := range p.Image {
		image[addr] = value
	}
	// Registers are live from the start, holding zero.
	for i := uint32(0); i < rv32.NumRegisters; i++ {
		image[RegisterBase+4*i] = 0
	}
	//
	return &Executor{
		program:       p,
		opts:          opts,
		mode:          mode,
		syscalls:      syscalls,
		memory:        NewMemory(image),
		record:        NewExecutionRecord(1),
		pc:            p.PcStart,
		shard:         1,
		pvHasher:      sha256.New(),
		report:        NewExecutionReport(),
		trackerStarts: make(map[string]uint64),
	}
}

// SetInput replaces the prover supplied input stream consumed by LWA.
func (e *Executor) SetInput(words []uint32) {
	e.input = words
	e.inputPos = 0
}

// Register returns the current value of a register, without recording an
// access.
func (e *Executor) Register(reg rv32.Register) uint32 {
	return e.peekRegister(reg)
}

// Memory returns the executor's memory map.
func (e *Executor) Memory() *Memory {
	return e.memory
}

// Records returns the per-shard execution records of a completed run.
func (e *Executor) Records() []*ExecutionRecord {
	return e.records
}

// Report returns the execution report.
func (e *Executor) Report() *ExecutionReport {
	return e.report
}

// PublicValuesDigest returns the finalized digest of the public values
// stream.  Only meaningful after the program has halted.
func (e *Executor) PublicValuesDigest() [32]byte {
	return e.pvDigest
}

// Run executes the program to completion.  Guest bugs (invalid opcodes,
// misaligned or unwritten memory, nested unconstrained regions) panic, as
// they make the program unprovable; resource conditions are returned as
// typed errors.
func (e *Executor) Run() error {
	for !e.halted {
		if e.opts.CycleLimit > 0 && e.globalClk >= e.opts.CycleLimit {
			return ErrCycleLimitExceeded
		}
		//
		e.step()
		//
		if !e.halted && e.shouldSplit() {
			e.splitShard()
		}
	}
	//
	e.finalize()
	//
	if e.exitCode != 0 {
		return &ExitCodeError{e.exitCode}
	}
	//
	return nil
}

// ============================================================================
// Instruction loop
// ============================================================================

func (e *Executor) step() {
	index, err := e.program.FetchIndex(e.pc)
	if err != nil {
		panic(err)
	}
	//
	insn := e.program.Instructions[index]
	e.report.OpcodeCounts[insn.Opcode]++
	// Whether this step is captured is decided up front: a step which
	// enters the unconstrained region is itself still provable, whereas
	// the step exiting it is not.
	wasRecording := e.recording()
	//
	event := CpuEvent{Shard: e.shard, Clk: e.clk, Pc: e.pc, Instruction: insn}
	nextPc := e.pc + 4
	//
	switch {
	case insn.Opcode.IsAlu():
		e.executeAlu(insn, &event)
	case insn.Opcode.IsLoad():
		e.executeLoad(insn, &event)
	case insn.Opcode.IsStore():
		e.executeStore(insn, &event)
	case insn.Opcode.IsBranch():
		nextPc = e.executeBranch(insn, &event)
	case insn.Opcode == rv32.JAL:
		nextPc = e.pc + insn.OpB
		e.executeJump(insn, nextPc, &event)
	case insn.Opcode == rv32.JALR:
		b, rec := e.readOperandB(insn)
		event.B, event.BRecord = b, rec
		nextPc = (b + insn.OpC) &^ 1
		e.executeJump(insn, nextPc, &event)
	case insn.Opcode == rv32.AUIPC:
		a := e.pc + insn.OpB
		event.A, event.ARecord = a, e.rw(insn.RegA(), a)
		event.B = insn.OpB
		event.Auipc = &AuipcEvent{Pc: e.pc}
	case insn.Opcode == rv32.HALT:
		e.halt(e.peekRegister(rv32.A0), &event)
	case insn.Opcode == rv32.LWA:
		word, ok := e.nextInputWord()
		if !ok {
			panic("input stream exhausted")
		}
		//
		event.A, event.ARecord = word, e.rw(insn.RegA(), word)
	case insn.Opcode == rv32.PRECOMPILE:
		e.dispatchSyscall(insn.OpC, &event)
	case insn.Opcode == rv32.ECALL:
		code, rec := e.rr(rv32.T0, PositionA)
		event.A, event.ARecord = code, rec
		//
		switch code {
		case rv32.SyscallHalt:
			e.halt(e.peekRegister(rv32.A0), &event)
		case rv32.SyscallLWA:
			word, ok := e.nextInputWord()
			if !ok {
				panic("input stream exhausted")
			}
			//
			e.rw(rv32.A0, word)
		default:
			e.dispatchSyscall(code, &event)
		}
	default:
		panic(fmt.Sprintf("invalid instruction at pc %#x: %s", e.pc, insn))
	}
	//
	event.NextPc = nextPc
	//
	if wasRecording {
		e.record.CpuEvents = append(e.record.CpuEvents, event)
	}
	// Advance.
	e.pc = nextPc
	e.globalClk++
	e.clk += 4
	//
	if cp := e.unconstrained; cp != nil && cp.exiting {
		e.restoreCheckpoint(cp)
	}
}

func (e *Executor) executeAlu(insn rv32.Instruction, event *CpuEvent) {
	// Operands are read in ascending access position order (C, B, A), so
	// repeated source registers see strictly increasing timestamps.
	c, recC := e.readOperandC(insn)
	b, recB := e.readOperandB(insn)
	a := AluOp(insn.Opcode, b, c)
	//
	event.A, event.ARecord = a, e.rw(insn.RegA(), a)
	event.B, event.BRecord = b, recB
	event.C, event.CRecord = c, recC
	//
	if e.recording() {
		e.record.AddAluEvent(AluEvent{Clk: e.clk, Opcode: insn.Opcode, A: a, B: b, C: c})
	}
}

func (e *Executor) executeLoad(insn rv32.Instruction, event *CpuEvent) {
	b, recB := e.readOperandB(insn)
	c := insn.OpC
	addr := b + c
	//
	e.checkAlignment(insn.Opcode, addr)
	//
	word, memRec := e.mr(addr &^ 3)
	//
	var a uint32
	switch insn.Opcode {
	case rv32.LB:
		a = util.SignExtendByte(uint8(word >> (8 * (addr & 3))))
	case rv32.LBU:
		a = (word >> (8 * (addr & 3))) & 0xff
	case rv32.LH:
		a = util.SignExtendHalf(uint16(word >> (8 * (addr & 2))))
	case rv32.LHU:
		a = (word >> (8 * (addr & 2))) & 0xffff
	case rv32.LW:
		a = word
	}
	//
	event.A, event.ARecord = a, e.rw(insn.RegA(), a)
	event.B, event.BRecord = b, recB
	event.C = c
	event.Mem = &MemInstrEvent{Addr: addr, Access: memRec}
}

func (e *Executor) executeStore(insn rv32.Instruction, event *CpuEvent) {
	// B before A, matching ascending access positions.
	b, recB := e.readOperandB(insn)
	a, recA := e.rr(insn.RegA(), PositionA)
	c := insn.OpC
	addr := b + c
	//
	e.checkAlignment(insn.Opcode, addr)
	//
	aligned := addr &^ 3
	prev, _ := e.memory.Peek(aligned)
	//
	var merged uint32
	switch insn.Opcode {
	case rv32.SB:
		shift := 8 * (addr & 3)
		merged = (prev &^ (0xff << shift)) | (a&0xff)<<shift
	case rv32.SH:
		shift := 8 * (addr & 2)
		merged = (prev &^ (0xffff << shift)) | (a&0xffff)<<shift
	case rv32.SW:
		merged = a
	}
	//
	memRec := e.mw(aligned, merged)
	//
	event.A, event.ARecord = a, recA
	event.B, event.BRecord = b, recB
	event.C = c
	event.Mem = &MemInstrEvent{Addr: addr, Access: memRec}
}

func (e *Executor) executeBranch(insn rv32.Instruction, event *CpuEvent) uint32 {
	// B before A, matching ascending access positions.
	b, recB := e.readOperandB(insn)
	a, recA := e.rr(insn.RegA(), PositionA)
	c := insn.OpC
	//
	var taken bool
	switch insn.Opcode {
	case rv32.BEQ:
		taken = a == b
	case rv32.BNE:
		taken = a != b
	case rv32.BLT:
		taken = int32(a) < int32(b)
	case rv32.BGE:
		taken = int32(a) >= int32(b)
	case rv32.BLTU:
		taken = a < b
	case rv32.BGEU:
		taken = a >= b
	}
	//
	nextPc := e.pc + 4
	if taken {
		nextPc = e.pc + c
	}
	//
	event.A, event.ARecord = a, recA
	event.B, event.BRecord = b, recB
	event.C = c
	event.Branch = &BranchEvent{Taken: taken, NextPc: nextPc}
	//
	return nextPc
}

func (e *Executor) executeJump(insn rv32.Instruction, nextPc uint32, event *CpuEvent) {
	a := e.pc + 4
	event.A, event.ARecord = a, e.rw(insn.RegA(), a)
	event.Jump = &JumpEvent{NextPc: nextPc}
}

func (e *Executor) halt(code uint32, event *CpuEvent) {
	e.halted = true
	e.exitCode = code
	event.ExitCode = code
}

func (e *Executor) checkAlignment(opcode rv32.Opcode, addr uint32) {
	switch opcode {
	case rv32.LW, rv32.SW:
		if addr%4 != 0 {
			panic(fmt.Sprintf("misaligned word access at %#x (pc %#x)", addr, e.pc))
		}
	case rv32.LH, rv32.LHU, rv32.SH:
		if addr%2 != 0 {
			panic(fmt.Sprintf("misaligned halfword access at %#x (pc %#x)", addr, e.pc))
		}
	}
}

// ============================================================================
// Syscall dispatch
// ============================================================================

func (e *Executor) dispatchSyscall(code uint32, event *CpuEvent) {
	arg2, rec2 := e.rr(rv32.A1, PositionC)
	arg1, rec1 := e.rr(rv32.A0, PositionB)
	event.B, event.BRecord = arg1, rec1
	event.C, event.CRecord = arg2, rec2
	//
	e.report.SyscallCounts[code]++
	// Unconstrained region brackets leave no syscall events, matching
	// their missing CPU rows.
	observable := code != rv32.SyscallEnterUnconstrained && code != rv32.SyscallExitUnconstrained
	//
	if e.recording() && observable {
		e.record.SyscallEvents = append(e.record.SyscallEvents, SyscallEvent{
			Shard: e.shard, Clk: e.clk, Code: code, Arg1: arg1, Arg2: arg2,
		})
	}
	//
	handler, ok := e.syscalls[code]
	if !ok {
		panic(fmt.Sprintf("unimplemented syscall %d at pc %#x", code, e.pc))
	}
	//
	ctx := &SyscallContext{exec: e, clk: e.clk}
	//
	if ret, write := handler.Execute(ctx, arg1, arg2); write {
		rec := e.rw(rv32.A0, ret)
		// A dynamic ECALL already holds the syscall code read in its A
		// slot; the immediate form has the slot free for the result.
		if event.ARecord == nil {
			event.A, event.ARecord = ret, rec
		}
	}
	// Extra cycles consumed by the handler carry into the shard clock.
	e.clk = ctx.clk
}

// ============================================================================
// Memory and register plumbing
// ============================================================================

// timestamp returns the clock value of an access at a given position within
// the current cycle.
func (e *Executor) timestamp(position MemoryAccessPosition) uint32 {
	return e.clk + uint32(position)
}

// recording indicates whether events should currently be captured.
func (e *Executor) recording() bool {
	return e.mode == Trace && e.unconstrained == nil
}

// rr reads a register at the given access position.
func (e *Executor) rr(reg rv32.Register, position MemoryAccessPosition) (uint32, *MemoryAccess) {
	addr := RegisterBase + 4*uint32(reg)
	//
	if e.unconstrained != nil {
		return e.memory.ReadUnconstrained(addr), nil
	}
	//
	record, first := e.memory.Read(addr, e.shard, e.timestamp(position))
	e.noteInit(addr, record.Value, first)
	//
	return record.Value, ReadAccess(addr, record)
}

// rw writes a register at position A.  Writes to X0 are dropped, as the
// zero register is hardwired.
func (e *Executor) rw(reg rv32.Register, value uint32) *MemoryAccess {
	if reg == rv32.X0 {
		value = 0
	}
	//
	addr := RegisterBase + 4*uint32(reg)
	//
	if e.unconstrained != nil {
		e.memory.WriteUnconstrained(addr, value)
		//
		return nil
	}
	//
	record, first := e.memory.Write(addr, value, e.shard, e.timestamp(PositionA))
	e.noteInit(addr, record.PrevValue, first)
	//
	return WriteAccess(addr, record)
}

// mr reads a word of memory at the memory access position.
func (e *Executor) mr(addr uint32) (uint32, *MemoryAccess) {
	if e.unconstrained != nil {
		return e.memory.ReadUnconstrained(addr), nil
	}
	//
	record, first := e.memory.Read(addr, e.shard, e.timestamp(PositionMemory))
	e.noteInit(addr, record.Value, first)
	//
	return record.Value, ReadAccess(addr, record)
}

// mw writes a word of memory at the memory access position.
func (e *Executor) mw(addr, value uint32) *MemoryAccess {
	if e.unconstrained != nil {
		e.memory.WriteUnconstrained(addr, value)
		//
		return nil
	}
	//
	record, first := e.memory.Write(addr, value, e.shard, e.timestamp(PositionMemory))
	e.noteInit(addr, record.PrevValue, first)
	//
	return WriteAccess(addr, record)
}

// peekRegister reads a register without recording an access.
func (e *Executor) peekRegister(reg rv32.Register) uint32 {
	value, _ := e.memory.Peek(RegisterBase + 4*uint32(reg))
	//
	return value
}

// noteInit records a memory initialisation event on the first touch of an
// address.
func (e *Executor) noteInit(addr, value uint32, first bool) {
	if first && e.recording() {
		e.record.MemoryInitEvents = append(e.record.MemoryInitEvents, MemoryInitEvent{
			Addr: addr, Value: value,
		})
	}
}

func (e *Executor) readOperandB(insn rv32.Instruction) (uint32, *MemoryAccess) {
	if insn.ImmB {
		return insn.OpB, nil
	}
	//
	return e.rr(insn.RegB(), PositionB)
}

func (e *Executor) readOperandC(insn rv32.Instruction) (uint32, *MemoryAccess) {
	if insn.ImmC {
		return insn.OpC, nil
	}
	//
	return e.rr(insn.RegC(), PositionC)
}

func (e *Executor) nextInputWord() (uint32, bool) {
	if e.inputPos >= len(e.input) {
		return 0, false
	}
	//
	word := e.input[e.inputPos]
	e.inputPos++
	//
	return word, true
}

// ============================================================================
// Shard boundaries
// ============================================================================

func (e *Executor) shouldSplit() bool {
	if e.clk >= e.opts.ShardSize*4 {
		return true
	}
	//
	split := e.opts.Split
	//
	return uint64(len(e.record.ShaExtendEvents)) >= split.ShaExtend ||
		uint64(len(e.record.ShaCompressEvents)) >= split.ShaCompress ||
		uint64(len(e.record.KeccakPermuteEvents)) >= split.Keccak ||
		uint64(len(e.record.MemoryInitEvents)) >= split.Memory ||
		uint64(len(e.record.SyscallEvents)) >= split.Deferred
}

// splitShard closes the current record and opens the next.  The program
// counter and memory carry over untouched; the shard clock restarts, which
// preserves the (shard, timestamp) ordering because the shard number grew.
func (e *Executor) splitShard() {
	e.records = append(e.records, e.record)
	e.shard++
	e.clk = 0
	e.record = NewExecutionRecord(e.shard)
}

func (e *Executor) finalize() {
	if e.mode == Trace {
		for _, addr := range e.memory.Addresses() {
			cell := e.memory.Cell(addr)
			e.record.MemoryFinalizeEvents = append(e.record.MemoryFinalizeEvents,
				MemoryFinalizeEvent{Addr: addr, Value: cell.Value, Shard: cell.Shard, Timestamp: cell.Timestamp})
		}
	}
	//
	e.flushFdBuffers()
	//
	copy(e.pvDigest[:], e.pvHasher.Sum(nil))
	//
	e.records = append(e.records, e.record)
	pv := PublicValues{Digest: e.pvDigest, ExitCode: e.exitCode}
	//
	for _, record := range e.records {
		record.PublicValues = pv
	}
	//
	e.report.TotalCycles = e.globalClk
}

// ============================================================================
// Host file descriptors
// ============================================================================

// writeFd routes guest writes to a host file descriptor: fd 1 and 2 are
// line buffered console streams (fd 1 additionally carrying cycle tracker
// markers), fd 3 accumulates the public values digest, and fd 4 feeds hint
// bytes back into the input stream.
func (e *Executor) writeFd(fd uint32, data []byte) {
	switch fd {
	case 1:
		e.stdoutBuf.Write(data)
		e.drainLines(&e.stdoutBuf, true)
	case 2:
		e.stderrBuf.Write(data)
		e.drainLines(&e.stderrBuf, false)
	case 3:
		e.pvHasher.Write(data)
	case 4:
		e.appendInputBytes(data)
	default:
		panic(fmt.Sprintf("write to unsupported file descriptor %d", fd))
	}
}

// appendInputBytes packs hint bytes into words appended to the input
// stream, little-endian and zero padded.
func (e *Executor) appendInputBytes(data []byte) {
	for i := 0; i < len(data); i += 4 {
		var word uint32
		//
		for j := 0; j < 4 && i+j < len(data); j++ {
			word |= uint32(data[i+j]) << (8 * j)
		}
		//
		e.input = append(e.input, word)
	}
}

const (
	trackerStartPrefix = "cycle-tracker-start:"
	trackerEndPrefix   = "cycle-tracker-end:"
)

func (e *Executor) drainLines(buf *bytes.Buffer, stdout bool) {
	for {
		line, err := buf.ReadString('\n')
		if err != nil {
			// Partial line, keep buffering.
			buf.WriteString(line)
			return
		}
		//
		e.consumeLine(strings.TrimSuffix(line, "\n"), stdout)
	}
}

func (e *Executor) consumeLine(line string, stdout bool) {
	switch {
	case strings.HasPrefix(line, trackerStartPrefix):
		name := strings.TrimSpace(strings.TrimPrefix(line, trackerStartPrefix))
		e.trackerStarts[name] = e.globalClk
	case strings.HasPrefix(line, trackerEndPrefix):
		name := strings.TrimSpace(strings.TrimPrefix(line, trackerEndPrefix))
		//
		if start, ok := e.trackerStarts[name]; ok {
			e.report.CycleTracker[name] += e.globalClk - start
			delete(e.trackerStarts, name)
		} else {
			log.Warnf("cycle tracker end without start: %q", name)
		}
	case stdout:
		log.Infof("[guest] %s", line)
	default:
		log.Errorf("[guest] %s", line)
	}
}

func (e *Executor) flushFdBuffers() {
	if e.stdoutBuf.Len() > 0 {
		e.consumeLine(e.stdoutBuf.String(), true)
		e.stdoutBuf.Reset()
	}
	//
	if e.stderrBuf.Len() > 0 {
		e.consumeLine(e.stderrBuf.String(), false)
		e.stderrBuf.Reset()
	}
}
