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

// Package cpu implements the central trace table: one row per executed
// instruction, carrying the decoded instruction, its operand words, its four
// potential memory access slots and an opcode specific column region.  The
// CPU row ties the whole machine together, sending instruction fetches to the
// program table, ALU work to the ALU tables and memory accesses to the global
// memory argument.
package cpu

import (
	"github.com/consensys/go-rivet/pkg/air"
	"github.com/consensys/go-rivet/pkg/chips"
	"github.com/consensys/go-rivet/pkg/exec"
	"github.com/consensys/go-rivet/pkg/field/babybear"
	"github.com/consensys/go-rivet/pkg/rv32"
	"github.com/consensys/go-rivet/pkg/trace"
	"github.com/consensys/go-rivet/pkg/util"
)

// slotCols lays out one memory access slot: whether it is used, the word
// aligned address touched, the (shard, timestamp) of the previous access and
// the value words before and after.
type slotCols struct {
	used      uint
	addr      uint
	prevShard uint
	prevClk   uint
	prevValue uint
	value     uint
}

var (
	slotA   = slotCols{cpuSlotAUsed, cpuSlotAAddr, cpuSlotAPrevShard, cpuSlotAPrevClk, cpuSlotAPrevValue0, cpuSlotAValue0}
	slotB   = slotCols{cpuSlotBUsed, cpuSlotBAddr, cpuSlotBPrevShard, cpuSlotBPrevClk, cpuSlotBPrevValue0, cpuSlotBValue0}
	slotC   = slotCols{cpuSlotCUsed, cpuSlotCAddr, cpuSlotCPrevShard, cpuSlotCPrevClk, cpuSlotCPrevValue0, cpuSlotCValue0}
	slotMem = slotCols{cpuSlotMemUsed, cpuSlotMemAddr, cpuSlotMemPrevShard, cpuSlotMemPrevClk, cpuSlotMemPrevValue0, cpuSlotMemValue0}
)

// The opcode specific region is shared between mutually exclusive views,
// each selected by its opcode selector.  Every constraint and interaction
// over a view must be gated by that selector, since on other rows the same
// columns belong to a different view.

// memCols is the load/store view: the effective address as a witnessed
// addition of the two address operands, plus its sub-word offset bits.
type memCols struct {
	addrOp     uint // AddOperation, b + c
	offsetBit0 uint
	offsetBit1 uint
}

// branchCols is the conditional branch view.
type branchCols struct {
	isBeq, isBne, isBlt, isBge, isBltu, isBgeu uint
	// eq witnesses a == b limbwise.
	eq uint // IsEqualWordOperation
	// aLtB is the (possibly signed) comparison result, proven by the Lt
	// table via a delegated lookup.
	aLtB         uint
	branching    uint
	notBranching uint
	// wrap is the 2^32 overflow bit of the taken target pc + c.
	wrap uint
}

// jumpCols is the JAL/JALR view.
type jumpCols struct {
	isJal, isJalr uint
	wrap          uint
	// lsb is the bit cleared from a JALR target.
	lsb uint
	// linkRange witnesses that the link value lies below the field modulus.
	linkRange uint // BabyBearWordRangeChecker
}

// auipcCols is the AUIPC view.
type auipcCols struct {
	wrap uint
}

var (
	memView = memCols{
		addrOp:     cpuSpecificBase,
		offsetBit0: cpuSpecificBase + chips.AddOpWidth,
		offsetBit1: cpuSpecificBase + chips.AddOpWidth + 1,
	}
	branchView = branchCols{
		isBeq: cpuSpecificBase, isBne: cpuSpecificBase + 1,
		isBlt: cpuSpecificBase + 2, isBge: cpuSpecificBase + 3,
		isBltu: cpuSpecificBase + 4, isBgeu: cpuSpecificBase + 5,
		eq:           cpuSpecificBase + 6,
		aLtB:         cpuSpecificBase + 6 + chips.IsEqualWordWidth,
		branching:    cpuSpecificBase + 7 + chips.IsEqualWordWidth,
		notBranching: cpuSpecificBase + 8 + chips.IsEqualWordWidth,
		wrap:         cpuSpecificBase + 9 + chips.IsEqualWordWidth,
	}
	jumpView = jumpCols{
		isJal: cpuSpecificBase, isJalr: cpuSpecificBase + 1,
		wrap: cpuSpecificBase + 2, lsb: cpuSpecificBase + 3,
		linkRange: cpuSpecificBase + 4,
	}
	auipcView = auipcCols{wrap: cpuSpecificBase}
)

// Chip is the CPU trace table.
type Chip struct{}

// New constructs the CPU chip.
func New() *Chip {
	return &Chip{}
}

// Name implementation for chips.Chip.
func (c *Chip) Name() string {
	return "cpu"
}

// Width implementation for chips.Chip.
func (c *Chip) Width() uint {
	return cpuNumCols
}

// Populate implementation for chips.Chip.  Branch comparisons are delegated
// to the Lt table, so matching events are appended to the record up front;
// the Lt chip is populated strictly after the CPU chip.
func (c *Chip) Populate(record *exec.ExecutionRecord) *trace.Matrix {
	appendBranchComparisons(record)
	//
	byteRec := &chips.SyncByteRecord{Record: record}
	matrix := trace.NewMatrix(cpuNumCols, uint(len(record.CpuEvents)))
	//
	util.ParChunks(uint(len(record.CpuEvents)), func(start, end uint) {
		for i := start; i < end; i++ {
			populateRow(matrix.Row(i), &record.CpuEvents[i], byteRec)
		}
	})
	//
	matrix.Pad()
	//
	return matrix
}

// appendBranchComparisons mirrors each comparing branch row with the Lt
// event its lookup consumes.
func appendBranchComparisons(record *exec.ExecutionRecord) {
	for i := range record.CpuEvents {
		event := &record.CpuEvents[i]
		if event.Branch == nil {
			continue
		}
		//
		var (
			opcode rv32.Opcode
			lt     bool
		)
		//
		switch event.Instruction.Opcode {
		case rv32.BLT, rv32.BGE:
			opcode, lt = rv32.SLT, int32(event.A) < int32(event.B)
		case rv32.BLTU, rv32.BGEU:
			opcode, lt = rv32.SLTU, event.A < event.B
		default:
			continue
		}
		//
		record.AddAluEvent(exec.AluEvent{
			Clk: event.Clk, Opcode: opcode,
			A: boolU32(lt), B: event.A, C: event.B,
		})
	}
}

func populateRow(row []babybear.Element, event *exec.CpuEvent, byteRec air.ByteRecord) {
	insn := event.Instruction
	//
	chips.SetBool(row, cpuIsReal, true)
	chips.SetU32(row, cpuShard, event.Shard)
	chips.SetU32(row, cpuClk, event.Clk)
	chips.SetU32(row, cpuPc, event.Pc)
	chips.SetU32(row, cpuNextPc, event.NextPc)
	//
	chips.SetU32(row, cpuOpcode, uint32(insn.Opcode))
	chips.SetU32(row, cpuOpA, insn.OpA)
	chips.SetU32(row, cpuOpB, insn.OpB)
	chips.SetU32(row, cpuOpC, insn.OpC)
	chips.SetBool(row, cpuImmB, insn.ImmB)
	chips.SetBool(row, cpuImmC, insn.ImmC)
	//
	chips.SetBool(row, cpuIsAlu, insn.Opcode.IsAlu())
	chips.SetBool(row, cpuIsLoad, insn.Opcode.IsLoad())
	chips.SetBool(row, cpuIsStore, insn.Opcode.IsStore())
	chips.SetBool(row, cpuIsBranch, insn.Opcode.IsBranch())
	chips.SetBool(row, cpuIsJump, insn.Opcode.IsJump())
	chips.SetBool(row, cpuIsAuipc, insn.Opcode == rv32.AUIPC)
	chips.SetBool(row, cpuIsHalt, insn.Opcode == rv32.HALT)
	chips.SetBool(row, cpuIsLwa, insn.Opcode == rv32.LWA)
	chips.SetBool(row, cpuIsPrecompile, insn.Opcode == rv32.PRECOMPILE)
	chips.SetBool(row, cpuIsEcall, insn.Opcode == rv32.ECALL)
	//
	chips.SetU32(row, cpuExitCode, event.ExitCode)
	//
	chips.SetWord(row, cpuA0, event.A)
	chips.SetWord(row, cpuB0, event.B)
	chips.SetWord(row, cpuC0, event.C)
	//
	storeSlot(row, slotA, event.ARecord)
	storeSlot(row, slotB, event.BRecord)
	storeSlot(row, slotC, event.CRecord)
	//
	var opAZero air.IsZeroOperation[babybear.Element]
	air.PopulateIsZero(&opAZero, babybear.New(insn.OpA))
	chips.StoreIsZero(row, cpuOpAIsZero, &opAZero)
	//
	if event.Mem != nil {
		storeSlot(row, slotMem, event.Mem.Access)
		populateMem(row, event, byteRec)
	}
	//
	if event.Branch != nil {
		populateBranch(row, event)
	}
	//
	if event.Jump != nil {
		populateJump(row, event, byteRec)
	}
	//
	if event.Auipc != nil {
		carry := (uint64(event.Pc) + uint64(insn.OpB)) >> 32
		chips.SetU32(row, auipcView.wrap, uint32(carry))
	}
}

func storeSlot(row []babybear.Element, slot slotCols, access *exec.MemoryAccess) {
	if access == nil {
		return
	}
	//
	prevValue, prevShard, prevClk := access.Previous()
	//
	chips.SetBool(row, slot.used, true)
	chips.SetU32(row, slot.addr, access.Addr)
	chips.SetU32(row, slot.prevShard, prevShard)
	chips.SetU32(row, slot.prevClk, prevClk)
	chips.SetWord(row, slot.prevValue, prevValue)
	chips.SetWord(row, slot.value, access.Value())
}

func populateMem(row []babybear.Element, event *exec.CpuEvent, byteRec air.ByteRecord) {
	var addrOp air.AddOperation[babybear.Element]
	//
	air.PopulateAdd(&addrOp, byteRec, event.B, event.C)
	chips.StoreAddOp(row, memView.addrOp, &addrOp)
	//
	chips.SetBool(row, memView.offsetBit0, event.Mem.Addr&1 != 0)
	chips.SetBool(row, memView.offsetBit1, event.Mem.Addr&2 != 0)
}

func populateBranch(row []babybear.Element, event *exec.CpuEvent) {
	opcode := event.Instruction.Opcode
	//
	chips.SetBool(row, branchView.isBeq, opcode == rv32.BEQ)
	chips.SetBool(row, branchView.isBne, opcode == rv32.BNE)
	chips.SetBool(row, branchView.isBlt, opcode == rv32.BLT)
	chips.SetBool(row, branchView.isBge, opcode == rv32.BGE)
	chips.SetBool(row, branchView.isBltu, opcode == rv32.BLTU)
	chips.SetBool(row, branchView.isBgeu, opcode == rv32.BGEU)
	//
	var eq air.IsEqualWordOperation[babybear.Element]
	air.PopulateIsEqualWord(&eq, event.A, event.B)
	chips.StoreIsEqualWord(row, branchView.eq, &eq)
	//
	switch opcode {
	case rv32.BLT, rv32.BGE:
		chips.SetBool(row, branchView.aLtB, int32(event.A) < int32(event.B))
	case rv32.BLTU, rv32.BGEU:
		chips.SetBool(row, branchView.aLtB, event.A < event.B)
	}
	//
	chips.SetBool(row, branchView.branching, event.Branch.Taken)
	chips.SetBool(row, branchView.notBranching, !event.Branch.Taken)
	//
	carry := (uint64(event.Pc) + uint64(event.C)) >> 32
	chips.SetU32(row, branchView.wrap, uint32(carry))
}

func populateJump(row []babybear.Element, event *exec.CpuEvent, byteRec air.ByteRecord) {
	insn := event.Instruction
	//
	chips.SetBool(row, jumpView.isJal, insn.Opcode == rv32.JAL)
	chips.SetBool(row, jumpView.isJalr, insn.Opcode == rv32.JALR)
	//
	if insn.Opcode == rv32.JAL {
		carry := (uint64(event.Pc) + uint64(insn.OpB)) >> 32
		chips.SetU32(row, jumpView.wrap, uint32(carry))
	} else {
		target := uint64(event.B) + uint64(insn.OpC)
		chips.SetU32(row, jumpView.wrap, uint32(target>>32))
		chips.SetBool(row, jumpView.lsb, target&1 != 0)
	}
	//
	var linkRange air.BabyBearWordRangeChecker[babybear.Element]
	air.PopulateBabyBearRange(&linkRange, byteRec, event.A)
	row[jumpView.linkRange] = linkRange.UpperLT
}

// Eval implementation for chips.Chip.
func (c *Chip) Eval(b air.Builder) {
	isReal := air.Local(cpuIsReal)
	clk := air.Local(cpuClk)
	pc := air.Local(cpuPc)
	nextPc := air.Local(cpuNextPc)
	//
	aWord := chips.LocalWord(cpuA0)
	bWord := chips.LocalWord(cpuB0)
	cWord := chips.LocalWord(cpuC0)
	//
	selectors := []air.Expr{
		air.Local(cpuIsAlu), air.Local(cpuIsLoad), air.Local(cpuIsStore),
		air.Local(cpuIsBranch), air.Local(cpuIsJump), air.Local(cpuIsAuipc),
		air.Local(cpuIsHalt), air.Local(cpuIsLwa),
		air.Local(cpuIsPrecompile), air.Local(cpuIsEcall),
	}
	//
	b.AssertBool(isReal)
	b.AssertBool(air.Local(cpuImmB))
	b.AssertBool(air.Local(cpuImmC))
	//
	for _, sel := range selectors {
		b.AssertBool(sel)
	}
	// Exactly one selector holds on a real row, none on padding.
	b.AssertEq(air.Add(selectors...), isReal)
	//
	c.evalClocks(b, isReal, clk, pc, nextPc)
	c.evalOperands(b, bWord, cWord)
	c.evalSlots(b, clk, aWord, bWord, cWord)
	c.evalMemory(b, bWord, cWord)
	c.evalBranch(b, clk, pc, nextPc, aWord, bWord)
	c.evalJump(b, pc, nextPc, aWord, bWord)
	c.evalAuipc(b, pc, aWord)
	// An exit code only appears on the halting row.
	b.When(air.Sub(air.One(), air.Local(cpuIsHalt))).AssertZero(air.Local(cpuExitCode))
	// Instruction fetch against the committed program.
	b.Send(air.ProgramBus, isReal,
		pc, air.Local(cpuOpcode),
		air.Local(cpuOpA), air.Local(cpuOpB), air.Local(cpuOpC),
		air.Local(cpuImmB), air.Local(cpuImmC))
	// ALU work is proven by the per-opcode ALU tables.
	values := []air.Expr{clk, air.Local(cpuOpcode)}
	values = append(values, aWord[:]...)
	values = append(values, bWord[:]...)
	values = append(values, cWord[:]...)
	b.Send(air.AluBus, air.Local(cpuIsAlu), values...)
}

// evalClocks pins down the row ordering: rows within a shard chain their
// clocks and program counters.
func (c *Chip) evalClocks(b air.Builder, isReal, clk, pc, nextPc air.Expr) {
	b.WhenFirstRow().AssertEq(isReal, air.One())
	b.WhenFirstRow().AssertZero(clk)
	// Real rows form a prefix.
	b.WhenTransition().AssertZero(
		air.Mul(air.Sub(air.One(), isReal), air.Next(cpuIsReal)))
	//
	transition := b.WhenTransition().When(air.Next(cpuIsReal))
	transition.AssertEq(air.Next(cpuShard), air.Local(cpuShard))
	transition.AssertEq(air.Next(cpuPc), nextPc)
	// Syscall rows consume handler dependent extra cycles, so only plain
	// rows chain their clock.
	plain := air.Sub(air.One(),
		air.Add(air.Local(cpuIsPrecompile), air.Local(cpuIsEcall)))
	transition.When(plain).AssertEq(air.Next(cpuClk), air.Add(clk, air.C(4)))
	// Straight line flow unless a branch or jump redirects.
	straight := air.Sub(air.One(),
		air.Add(air.Local(cpuIsBranch), air.Local(cpuIsJump)))
	b.When(isReal).When(straight).AssertEq(nextPc, air.Add(pc, air.C(4)))
}

// evalOperands couples immediate operands to their word columns.
func (c *Chip) evalOperands(b air.Builder, bWord, cWord air.Word[air.Expr]) {
	// JAL holds its pc relative target in operand b rather than a value, and
	// PRECOMPILE holds the syscall code in operand c.
	notJump := air.Sub(air.One(), air.Local(cpuIsJump))
	notPrecompile := air.Sub(air.One(), air.Local(cpuIsPrecompile))
	//
	b.When(air.Local(cpuImmB)).When(notJump).
		AssertEq(air.ReduceWord(bWord), air.Local(cpuOpB))
	b.When(air.Local(cpuImmC)).When(notPrecompile).
		AssertEq(air.ReduceWord(cWord), air.Local(cpuOpC))
}

// evalSlots wires each used access slot into the global memory argument:
// the previous access is consumed and the access itself produced, at the
// slot's fixed position within the cycle.
func (c *Chip) evalSlots(b air.Builder, clk air.Expr, aWord, bWord, cWord air.Word[air.Expr]) {
	evalSlot := func(slot slotCols, position exec.MemoryAccessPosition) {
		used := air.Local(slot.used)
		b.AssertBool(used)
		//
		prevValue := chips.LocalWord(slot.prevValue)
		value := chips.LocalWord(slot.value)
		//
		receive := []air.Expr{
			air.Local(slot.prevShard), air.Local(slot.prevClk), air.Local(slot.addr),
		}
		receive = append(receive, prevValue[:]...)
		b.Receive(air.MemoryBus, used, receive...)
		//
		send := []air.Expr{
			air.Local(cpuShard),
			air.Add(clk, air.C(uint32(position))),
			air.Local(slot.addr),
		}
		send = append(send, value[:]...)
		b.Send(air.MemoryBus, used, send...)
	}
	//
	evalSlot(slotA, exec.PositionA)
	evalSlot(slotB, exec.PositionB)
	evalSlot(slotC, exec.PositionC)
	evalSlot(slotMem, exec.PositionMemory)
	// Register slots observe exactly the operand words.  The memory slot is
	// exempt: sub-word loads and stores relate the memory word to the
	// operand through byte extraction witnessed in the memory view.  Slot A
	// is exempt when the destination is x0, whose writes are hardwired to
	// zero while the operand keeps the computed value.
	opAZero := chips.IsZeroExpr(cpuOpAIsZero)
	air.EvalIsZero(b, opAZero, air.Local(cpuOpA), air.Local(cpuIsReal))
	//
	slotAGuard := b.When(air.Local(slotA.used))
	slotAGuard.When(air.Sub(air.One(), opAZero.Result)).
		AssertEqWord(chips.LocalWord(slotA.value), aWord)
	slotAGuard.When(opAZero.Result).
		AssertEqWord(chips.LocalWord(slotA.value), air.ExprWord(0))
	//
	b.When(air.Local(slotB.used)).AssertEqWord(chips.LocalWord(slotB.value), bWord)
	b.When(air.Local(slotC.used)).AssertEqWord(chips.LocalWord(slotC.value), cWord)
}

// evalMemory constrains the load/store view.
func (c *Chip) evalMemory(b air.Builder, bWord, cWord air.Word[air.Expr]) {
	isMemory := air.Add(air.Local(cpuIsLoad), air.Local(cpuIsStore))
	guarded := b.When(isMemory)
	// The effective address is b + c, witnessed with byte carries.
	addrOp := chips.AddOpExpr(memView.addrOp)
	air.EvalAdd(b, addrOp, bWord, cWord, isMemory)
	//
	bit0 := air.Local(memView.offsetBit0)
	bit1 := air.Local(memView.offsetBit1)
	guarded.AssertBool(bit0)
	guarded.AssertBool(bit1)
	// The slot holds the word aligned address.
	guarded.AssertEq(
		air.ReduceWord(addrOp.Value),
		air.Add(air.Local(slotMem.addr), bit0, air.Mul(air.C(2), bit1)))
	guarded.AssertEq(air.Local(slotMem.used), air.One())
}

// evalBranch constrains the conditional branch view.
func (c *Chip) evalBranch(b air.Builder, clk, pc, nextPc air.Expr, aWord, bWord air.Word[air.Expr]) {
	isBranch := air.Local(cpuIsBranch)
	guarded := b.When(isBranch)
	//
	sels := []air.Expr{
		air.Local(branchView.isBeq), air.Local(branchView.isBne),
		air.Local(branchView.isBlt), air.Local(branchView.isBge),
		air.Local(branchView.isBltu), air.Local(branchView.isBgeu),
	}
	//
	for _, sel := range sels {
		guarded.AssertBool(sel)
	}
	//
	guarded.AssertEq(air.Add(sels...), air.One())
	//
	eq := chips.IsEqualWordExpr(branchView.eq)
	air.EvalIsEqualWord(b, eq, aWord, bWord, isBranch)
	//
	lt := air.Local(branchView.aLtB)
	eqResult := eq.IsDiffZero.Result
	guarded.AssertBool(lt)
	// The branch condition, per branch opcode.
	condition := air.Add(
		air.Mul(air.Local(branchView.isBeq), eqResult),
		air.Mul(air.Local(branchView.isBne), air.Sub(air.One(), eqResult)),
		air.Mul(air.Add(air.Local(branchView.isBlt), air.Local(branchView.isBltu)), lt),
		air.Mul(air.Add(air.Local(branchView.isBge), air.Local(branchView.isBgeu)),
			air.Sub(air.One(), lt)),
	)
	//
	branching := air.Local(branchView.branching)
	notBranching := air.Local(branchView.notBranching)
	guarded.AssertBool(branching)
	guarded.AssertBool(notBranching)
	guarded.AssertEq(air.Add(branching, notBranching), air.One())
	guarded.AssertEq(branching, condition)
	// Taken branches redirect to pc + c modulo 2^32; the rest fall through.
	wrap := air.Local(branchView.wrap)
	guarded.When(branching).AssertBool(wrap)
	guarded.When(branching).AssertEq(
		air.Add(pc, air.Local(cpuOpC)),
		air.Add(nextPc, air.Mul(wrap, two32())))
	guarded.When(notBranching).AssertEq(nextPc, air.Add(pc, air.C(4)))
	// Order comparisons are delegated to the Lt table.
	opcode := air.Add(
		air.Mul(air.Add(air.Local(branchView.isBlt), air.Local(branchView.isBge)),
			air.C(uint32(rv32.SLT))),
		air.Mul(air.Add(air.Local(branchView.isBltu), air.Local(branchView.isBgeu)),
			air.C(uint32(rv32.SLTU))),
	)
	multiplicity := air.Mul(isBranch, air.Add(
		air.Local(branchView.isBlt), air.Local(branchView.isBge),
		air.Local(branchView.isBltu), air.Local(branchView.isBgeu)))
	//
	values := []air.Expr{clk, opcode, lt, air.Zero(), air.Zero(), air.Zero()}
	values = append(values, aWord[:]...)
	values = append(values, bWord[:]...)
	b.Send(air.AluBus, multiplicity, values...)
}

// evalJump constrains the JAL/JALR view.
func (c *Chip) evalJump(b air.Builder, pc, nextPc air.Expr, aWord, bWord air.Word[air.Expr]) {
	isJump := air.Local(cpuIsJump)
	guarded := b.When(isJump)
	//
	isJal := air.Local(jumpView.isJal)
	isJalr := air.Local(jumpView.isJalr)
	wrap := air.Local(jumpView.wrap)
	lsb := air.Local(jumpView.lsb)
	//
	guarded.AssertBool(isJal)
	guarded.AssertBool(isJalr)
	guarded.AssertEq(air.Add(isJal, isJalr), air.One())
	guarded.AssertBool(wrap)
	guarded.AssertBool(lsb)
	// The link value is pc + 4, written through slot A.
	guarded.AssertEq(air.ReduceWord(aWord), air.Add(pc, air.C(4)))
	guarded.AssertEq(air.Local(slotA.used), air.One())
	// JAL targets pc + b; JALR targets (b + c) with the low bit cleared.
	guarded.When(isJal).AssertEq(
		air.Add(pc, air.Local(cpuOpB)),
		air.Add(nextPc, air.Mul(wrap, two32())))
	guarded.When(isJal).AssertZero(lsb)
	guarded.When(isJalr).AssertEq(
		air.Add(air.ReduceWord(bWord), air.Local(cpuOpC)),
		air.Add(nextPc, lsb, air.Mul(wrap, two32())))
	// The link value must reduce injectively into the field.
	linkRange := air.BabyBearWordRangeChecker[air.Expr]{
		UpperLT: air.Local(jumpView.linkRange),
	}
	air.EvalBabyBearRange(b, linkRange, aWord, isJump)
}

// evalAuipc constrains the AUIPC view.
func (c *Chip) evalAuipc(b air.Builder, pc air.Expr, aWord air.Word[air.Expr]) {
	isAuipc := air.Local(cpuIsAuipc)
	guarded := b.When(isAuipc)
	wrap := air.Local(auipcView.wrap)
	//
	guarded.AssertBool(wrap)
	guarded.AssertEq(
		air.Add(pc, air.Local(cpuOpB)),
		air.Add(air.ReduceWord(aWord), air.Mul(wrap, two32())))
	guarded.AssertEq(air.Local(slotA.used), air.One())
}

// two32 is 2^32 as a field constant, used to witness u32 wrap arounds.
func two32() air.Expr {
	return air.Mul(air.C(1<<16), air.C(1<<16))
}

func boolU32(b bool) uint32 {
	if b {
		return 1
	}
	//
	return 0
}
