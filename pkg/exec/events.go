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

import "github.com/consensys/go-rivet/pkg/rv32"

// AluEvent records one executed ALU instruction: the result a together with
// the operands b and c.  Events are immutable once created and consumed by
// the corresponding ALU chip's trace generator.
type AluEvent struct {
	Clk    uint32
	Opcode rv32.Opcode
	A      uint32
	B      uint32
	C      uint32
}

// MemInstrEvent is the memory specific payload of a load or store row.
type MemInstrEvent struct {
	// Addr is the (unaligned) effective address.
	Addr uint32
	// Access is the word level access to the aligned address.
	Access *MemoryAccess
}

// BranchEvent is the branch specific payload of a CPU row.
type BranchEvent struct {
	// Taken indicates the branch condition held.
	Taken bool
	// NextPc is the resolved successor program counter.
	NextPc uint32
}

// JumpEvent is the jump specific payload of a CPU row.
type JumpEvent struct {
	NextPc uint32
}

// AuipcEvent is the AUIPC specific payload of a CPU row.
type AuipcEvent struct {
	Pc uint32
}

// CpuEvent records one executed instruction: its position in time, the
// instruction itself, the three operand values with their register accesses,
// and the opcode specific payload (at most one of which is set).
type CpuEvent struct {
	Shard  uint32
	Clk    uint32
	Pc     uint32
	NextPc uint32
	//
	Instruction rv32.Instruction
	//
	A, B, C uint32
	// ARecord, BRecord and CRecord hold the register accesses behind the
	// operands, when the operand was not an immediate.
	ARecord *MemoryAccess
	BRecord *MemoryAccess
	CRecord *MemoryAccess
	//
	Mem    *MemInstrEvent
	Branch *BranchEvent
	Jump   *JumpEvent
	Auipc  *AuipcEvent
	//
	ExitCode uint32
}

// SyscallEvent records one syscall dispatch.
type SyscallEvent struct {
	Shard uint32
	Clk   uint32
	Code  uint32
	Arg1  uint32
	Arg2  uint32
}

// ShaExtendEvent records one SHA-256 message schedule extension: 48 rounds,
// each reading four previous schedule words and writing one new one.
type ShaExtendEvent struct {
	Shard uint32
	Clk   uint32
	WPtr  uint32
	//
	WMinus15Reads []MemoryReadRecord
	WMinus2Reads  []MemoryReadRecord
	WMinus16Reads []MemoryReadRecord
	WMinus7Reads  []MemoryReadRecord
	WWrites       []MemoryWriteRecord
}

// ShaCompressEvent records one SHA-256 compression: the eight state words
// are read, the 64 schedule words consumed, and the updated state written
// back.
type ShaCompressEvent struct {
	Shard uint32
	Clk   uint32
	WPtr  uint32
	HPtr  uint32
	//
	HReads  []MemoryReadRecord
	WReads  []MemoryReadRecord
	HWrites []MemoryWriteRecord
}

// KeccakPermuteEvent records one Keccak-f[1600] permutation over a 25-lane
// state held in guest memory as 50 little-endian words.
type KeccakPermuteEvent struct {
	Shard    uint32
	Clk      uint32
	StatePtr uint32
	//
	PreState  [25]uint64
	PostState [25]uint64
	//
	StateReads  []MemoryReadRecord
	StateWrites []MemoryWriteRecord
}

// MemoryInitEvent records the first touch of an address, establishing its
// initial value for the global memory argument.
type MemoryInitEvent struct {
	Addr  uint32
	Value uint32
}

// MemoryFinalizeEvent records the final state of an address at program
// halt, closing the global memory argument.
type MemoryFinalizeEvent struct {
	Addr      uint32
	Value     uint32
	Shard     uint32
	Timestamp uint32
}
