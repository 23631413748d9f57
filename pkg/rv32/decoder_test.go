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
package rv32

import (
	"testing"

	"github.com/consensys/go-rivet/pkg/util/assert"
)

// Golden encodings assembled with the GNU assembler for riscv32im.
func TestDecodeGolden(t *testing.T) {
	tests := []struct {
		word     uint32
		expected Instruction
	}{
		// add x5, x6, x7
		{0x007302b3, NewInstruction(ADD, 5, 6, 7)},
		// sub x5, x6, x7
		{0x407302b3, NewInstruction(SUB, 5, 6, 7)},
		// xor x10, x11, x12
		{0x00c5c533, NewInstruction(XOR, 10, 11, 12)},
		// or x10, x11, x12
		{0x00c5e533, NewInstruction(OR, 10, 11, 12)},
		// and x10, x11, x12
		{0x00c5f533, NewInstruction(AND, 10, 11, 12)},
		// sll x5, x6, x7
		{0x007312b3, NewInstruction(SLL, 5, 6, 7)},
		// srl x5, x6, x7
		{0x007352b3, NewInstruction(SRL, 5, 6, 7)},
		// sra x5, x6, x7
		{0x407352b3, NewInstruction(SRA, 5, 6, 7)},
		// slt x5, x6, x7
		{0x007322b3, NewInstruction(SLT, 5, 6, 7)},
		// sltu x5, x6, x7
		{0x007332b3, NewInstruction(SLTU, 5, 6, 7)},
		// mul x5, x6, x7
		{0x027302b3, NewInstruction(MUL, 5, 6, 7)},
		// mulh x5, x6, x7
		{0x027312b3, NewInstruction(MULH, 5, 6, 7)},
		// mulhsu x5, x6, x7
		{0x027322b3, NewInstruction(MULHSU, 5, 6, 7)},
		// mulhu x5, x6, x7
		{0x027332b3, NewInstruction(MULHU, 5, 6, 7)},
		// div x5, x6, x7
		{0x027342b3, NewInstruction(DIV, 5, 6, 7)},
		// divu x5, x6, x7
		{0x027352b3, NewInstruction(DIVU, 5, 6, 7)},
		// rem x5, x6, x7
		{0x027362b3, NewInstruction(REM, 5, 6, 7)},
		// remu x5, x6, x7
		{0x027372b3, NewInstruction(REMU, 5, 6, 7)},
		// addi x5, x0, 10
		{0x00a00293, NewImmCInstruction(ADD, 5, 0, 10)},
		// addi x5, x6, -1
		{0xfff30293, NewImmCInstruction(ADD, 5, 6, 0xffffffff)},
		// slli x5, x6, 4
		{0x00431293, NewImmCInstruction(SLL, 5, 6, 4)},
		// srli x5, x6, 4
		{0x00435293, NewImmCInstruction(SRL, 5, 6, 4)},
		// srai x5, x6, 4
		{0x40435293, NewImmCInstruction(SRA, 5, 6, 4)},
		// lw x5, 8(x6)
		{0x00832283, NewImmCInstruction(LW, 5, 6, 8)},
		// lb x5, -4(x6)
		{0xffc30283, NewImmCInstruction(LB, 5, 6, 0xfffffffc)},
		// lbu x5, 0(x6)
		{0x00034283, NewImmCInstruction(LBU, 5, 6, 0)},
		// lh x5, 2(x6)
		{0x00231283, NewImmCInstruction(LH, 5, 6, 2)},
		// lhu x5, 2(x6)
		{0x00235283, NewImmCInstruction(LHU, 5, 6, 2)},
		// sw x5, 8(x6)
		{0x00532423, NewImmCInstruction(SW, 5, 6, 8)},
		// sb x5, -1(x6)
		{0xfe530fa3, NewImmCInstruction(SB, 5, 6, 0xffffffff)},
		// sh x5, 2(x6)
		{0x00531123, NewImmCInstruction(SH, 5, 6, 2)},
		// beq x5, x6, +8
		{0x00628463, NewImmCInstruction(BEQ, 5, 6, 8)},
		// bne x5, x6, -4
		{0xfe629ee3, NewImmCInstruction(BNE, 5, 6, 0xfffffffc)},
		// blt x5, x6, +16
		{0x0062c863, NewImmCInstruction(BLT, 5, 6, 16)},
		// bge x5, x6, +16
		{0x0062d863, NewImmCInstruction(BGE, 5, 6, 16)},
		// bltu x5, x6, +16
		{0x0062e863, NewImmCInstruction(BLTU, 5, 6, 16)},
		// bgeu x5, x6, +16
		{0x0062f863, NewImmCInstruction(BGEU, 5, 6, 16)},
		// jal x1, +16
		{0x010000ef, NewImmBCInstruction(JAL, 1, 16, 0)},
		// jal x0, -8
		{0xff9ff06f, NewImmBCInstruction(JAL, 0, 0xfffffff8, 0)},
		// jalr x1, x5, 0
		{0x000280e7, NewImmCInstruction(JALR, 1, 5, 0)},
		// lui x5, 0x12345
		{0x123452b7, NewImmCInstruction(ADD, 5, 0, 0x12345000)},
		// auipc x5, 0x1
		{0x00001297, NewImmBCInstruction(AUIPC, 5, 0x1000, 0)},
		// ecall
		{0x00000073, NewInstruction(ECALL, uint32(T0), 0, 0)},
		// ebreak
		{0x00100073, NewInstruction(EBREAK, 0, 0, 0)},
	}
	//
	for _, test := range tests {
		actual := Decode(test.word)
		assert.Equal(t, test.expected, actual, "decoding %08x", test.word)
	}
}

func TestDecodeUnimp(t *testing.T) {
	for _, word := range []uint32{0x00000000, 0xffffffff, 0xc0001073} {
		assert.Equal(t, UNIMP, Decode(word).Opcode, "decoding %08x", word)
	}
}

func TestAnalyseEcalls(t *testing.T) {
	program := []Instruction{
		NewImmCInstruction(ADD, uint32(T0), 0, SyscallHalt),
		NewInstruction(ECALL, uint32(T0), 0, 0),
		NewImmCInstruction(ADD, uint32(T0), 0, SyscallLWA),
		NewInstruction(ECALL, uint32(T0), 0, 0),
		NewImmCInstruction(ADD, uint32(T0), 0, 102),
		NewInstruction(ECALL, uint32(T0), 0, 0),
		// Dynamic code (not statically known): left alone.
		NewInstruction(ADD, uint32(T0), 6, 7),
		NewInstruction(ECALL, uint32(T0), 0, 0),
	}
	//
	analysed := AnalyseEcalls(program)
	assert.Equal(t, HALT, analysed[1].Opcode)
	assert.Equal(t, LWA, analysed[3].Opcode)
	assert.Equal(t, PRECOMPILE, analysed[5].Opcode)
	assert.Equal(t, uint32(102), analysed[5].OpC)
	assert.Equal(t, ECALL, analysed[7].Opcode)
}

// Running the analysis a second time must not change the stream further.
func TestAnalyseEcallsIdempotent(t *testing.T) {
	program := []Instruction{
		NewImmCInstruction(ADD, uint32(T0), 0, SyscallHalt),
		NewInstruction(ECALL, uint32(T0), 0, 0),
		NewImmCInstruction(ADD, uint32(T0), 0, 106),
		NewInstruction(ECALL, uint32(T0), 0, 0),
	}
	//
	once := AnalyseEcalls(program)
	twice := AnalyseEcalls(once)
	assert.Equal(t, once, twice)
}
