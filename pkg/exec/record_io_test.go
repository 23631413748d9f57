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
	"testing"

	"github.com/consensys/go-rivet/pkg/air"
	"github.com/consensys/go-rivet/pkg/rv32"
	"github.com/consensys/go-rivet/pkg/util/assert"
)

func TestRecordRoundTripEmpty(t *testing.T) {
	record := NewExecutionRecord(1)
	//
	roundTripRecord(t, record)
}

func TestRecordRoundTrip(t *testing.T) {
	record := NewExecutionRecord(3)
	//
	read := NewMemoryReadRecord(7, 3, 12, 3, 8)
	write := NewMemoryWriteRecord(9, 3, 16, 7, 3, 12)
	// One CPU event per payload variant.
	record.CpuEvents = []CpuEvent{
		{
			Shard: 3, Clk: 0, Pc: 4096, NextPc: 4100,
			Instruction: rv32.NewImmCInstruction(rv32.ADD, 7, 8, 100),
			A:           105, B: 5, C: 100,
			ARecord: WriteAccess(RegisterBase+4*7, write),
			BRecord: ReadAccess(RegisterBase+4*8, read),
		},
		{
			Shard: 3, Clk: 4, Pc: 4100, NextPc: 4104,
			Instruction: rv32.NewImmCInstruction(rv32.LW, 7, 8, 0),
			Mem:         &MemInstrEvent{Addr: 8192, Access: ReadAccess(8192, read)},
		},
		{
			Shard: 3, Clk: 8, Pc: 4104, NextPc: 4096,
			Instruction: rv32.NewImmCInstruction(rv32.BEQ, 7, 8, 0xfffffff8),
			Branch:      &BranchEvent{Taken: true, NextPc: 4096},
		},
		{
			Shard: 3, Clk: 12, Pc: 4096, NextPc: 8192,
			Instruction: rv32.NewImmBCInstruction(rv32.JAL, 1, 4096, 0),
			Jump:        &JumpEvent{NextPc: 8192},
		},
		{
			Shard: 3, Clk: 16, Pc: 8192, NextPc: 8196,
			Instruction: rv32.NewImmBCInstruction(rv32.AUIPC, 5, 0x1000, 0),
			Auipc:       &AuipcEvent{Pc: 8192},
		},
	}
	//
	record.AddAluEvent(AluEvent{Clk: 0, Opcode: rv32.ADD, A: 105, B: 5, C: 100})
	record.AddAluEvent(AluEvent{Clk: 4, Opcode: rv32.XOR, A: 6, B: 5, C: 3})
	record.AddAluEvent(AluEvent{Clk: 8, Opcode: rv32.DIVU, A: 2, B: 5, C: 2})
	record.AddAluEvent(AluEvent{Clk: 12, Opcode: rv32.SRA, A: 0xffffffff, B: 0x80000000, C: 31})
	//
	record.SyscallEvents = []SyscallEvent{
		{Shard: 3, Clk: 20, Code: rv32.SyscallWrite, Arg1: 3, Arg2: 8192},
	}
	//
	record.ShaExtendEvents = []ShaExtendEvent{
		{
			Shard: 3, Clk: 24, WPtr: 8192,
			WMinus15Reads: []MemoryReadRecord{read},
			WMinus2Reads:  []MemoryReadRecord{read},
			WMinus16Reads: []MemoryReadRecord{read},
			WMinus7Reads:  []MemoryReadRecord{read},
			WWrites:       []MemoryWriteRecord{write},
		},
	}
	//
	record.ShaCompressEvents = []ShaCompressEvent{
		{
			Shard: 3, Clk: 28, WPtr: 8192, HPtr: 12288,
			HReads:  []MemoryReadRecord{read, read},
			WReads:  []MemoryReadRecord{read},
			HWrites: []MemoryWriteRecord{write},
		},
	}
	//
	keccak := KeccakPermuteEvent{
		Shard: 3, Clk: 32, StatePtr: 16384,
		StateReads:  []MemoryReadRecord{read},
		StateWrites: []MemoryWriteRecord{write},
	}
	keccak.PreState[0] = 0x0123456789abcdef
	keccak.PostState[24] = 0xfedcba9876543210
	record.KeccakPermuteEvents = []KeccakPermuteEvent{keccak}
	//
	record.MemoryInitEvents = []MemoryInitEvent{{Addr: 8192, Value: 7}}
	record.MemoryFinalizeEvents = []MemoryFinalizeEvent{{Addr: 8192, Value: 9, Shard: 3, Timestamp: 16}}
	//
	record.AddByteLookupEvent(air.ByteLookupEvent{Opcode: air.ByteU8Range, B: 105})
	record.AddByteLookupEvent(air.ByteLookupEvent{Opcode: air.ByteU8Range, B: 105})
	record.AddByteLookupEvent(air.ByteLookupEvent{Opcode: air.ByteLTU, A1: 1, B: 0x12, C: 0x78})
	//
	record.PublicValues.Digest[0] = 0xab
	record.PublicValues.Digest[31] = 0xcd
	record.PublicValues.ExitCode = 42
	//
	roundTripRecord(t, record)
}

func TestRecordBadMagic(t *testing.T) {
	_, err := ReadRecord(bytes.NewReader([]byte{'r', 'v', 't', 9, 0, 0, 0, 0}))
	assert.Error(t, err)
}

func TestRecordTruncated(t *testing.T) {
	record := NewExecutionRecord(1)
	data := record.Bytes()
	//
	_, err := ReadRecord(bytes.NewReader(data[:len(data)-1]))
	assert.Error(t, err)
}

func roundTripRecord(t *testing.T, record *ExecutionRecord) {
	t.Helper()
	//
	reloaded, err := ReadRecord(bytes.NewReader(record.Bytes()))
	assert.NoError(t, err)
	assert.Equal(t, record, reloaded)
}
