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
	"github.com/consensys/go-rivet/pkg/air"
	"github.com/consensys/go-rivet/pkg/rv32"
)

// PublicValues is the publicly committed outcome of one shard: the digest
// of everything the guest wrote to the public values stream, and its exit
// code.
type PublicValues struct {
	Digest   [32]byte
	ExitCode uint32
}

// ExecutionRecord aggregates every event produced while executing one
// shard.  It is created empty at shard start, appended to during
// interpretation, and becomes immutable once the shard boundary is hit and
// it is handed to trace generation.
type ExecutionRecord struct {
	// Index is the 1-based shard number.
	Index uint32
	//
	CpuEvents []CpuEvent
	// ALU events, split per chip.
	AddEvents        []AluEvent
	SubEvents        []AluEvent
	BitwiseEvents    []AluEvent
	MulEvents        []AluEvent
	DivRemEvents     []AluEvent
	LtEvents         []AluEvent
	ShiftLeftEvents  []AluEvent
	ShiftRightEvents []AluEvent
	//
	SyscallEvents       []SyscallEvent
	ShaExtendEvents     []ShaExtendEvent
	ShaCompressEvents   []ShaCompressEvent
	KeccakPermuteEvents []KeccakPermuteEvent
	//
	MemoryInitEvents     []MemoryInitEvent
	MemoryFinalizeEvents []MemoryFinalizeEvent
	// ByteLookups is the deduplicated multiset of byte table lookups.
	ByteLookups map[air.ByteLookupEvent]uint64
	//
	PublicValues PublicValues
}

// NewExecutionRecord constructs an empty record for the given shard.
func NewExecutionRecord(index uint32) *ExecutionRecord {
	return &ExecutionRecord{
		Index:       index,
		ByteLookups: make(map[air.ByteLookupEvent]uint64),
	}
}

// AddAluEvent appends an ALU event to the slice owned by its opcode's chip.
func (r *ExecutionRecord) AddAluEvent(event AluEvent) {
	switch event.Opcode {
	case rv32.ADD:
		r.AddEvents = append(r.AddEvents, event)
	case rv32.SUB:
		r.SubEvents = append(r.SubEvents, event)
	case rv32.XOR, rv32.OR, rv32.AND:
		r.BitwiseEvents = append(r.BitwiseEvents, event)
	case rv32.MUL, rv32.MULH, rv32.MULHU, rv32.MULHSU:
		r.MulEvents = append(r.MulEvents, event)
	case rv32.DIV, rv32.DIVU, rv32.REM, rv32.REMU:
		r.DivRemEvents = append(r.DivRemEvents, event)
	case rv32.SLT, rv32.SLTU:
		r.LtEvents = append(r.LtEvents, event)
	case rv32.SLL:
		r.ShiftLeftEvents = append(r.ShiftLeftEvents, event)
	case rv32.SRL, rv32.SRA:
		r.ShiftRightEvents = append(r.ShiftRightEvents, event)
	default:
		panic("not an ALU opcode: " + event.Opcode.String())
	}
}

// AddByteLookupEvent implementation for air.ByteRecord, deduplicating
// repeated lookups into multiplicities.
func (r *ExecutionRecord) AddByteLookupEvent(event air.ByteLookupEvent) {
	r.ByteLookups[event]++
}

// NumAluEvents returns the total number of ALU events across all opcodes.
func (r *ExecutionRecord) NumAluEvents() int {
	return len(r.AddEvents) + len(r.SubEvents) + len(r.BitwiseEvents) +
		len(r.MulEvents) + len(r.DivRemEvents) + len(r.LtEvents) +
		len(r.ShiftLeftEvents) + len(r.ShiftRightEvents)
}
