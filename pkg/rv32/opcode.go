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

// Opcode identifies the operation performed by a decoded instruction.
// Immediate variants of the RV32IM instructions (e.g. ADDI) are folded into
// their register form at decode time, with the immediate flag recorded on the
// instruction itself.  Beyond the base ISA, three pseudo opcodes (HALT, LWA
// and PRECOMPILE) are introduced by the ecall analysis pass, which statically
// specialises the `ADDI t0, x0, code; ECALL` idiom.
type Opcode uint8

const (
	// ADD performs (wrapping) 32-bit addition.  LUI is lowered onto ADD from
	// the zero register at decode time.
	ADD Opcode = iota
	// SUB performs (wrapping) 32-bit subtraction.
	SUB
	// XOR performs bitwise exclusive-or.
	XOR
	// OR performs bitwise or.
	OR
	// AND performs bitwise and.
	AND
	// SLL shifts left logically by the low five bits of the second operand.
	SLL
	// SRL shifts right logically by the low five bits of the second operand.
	SRL
	// SRA shifts right arithmetically by the low five bits of the second operand.
	SRA
	// SLT is signed less-than, producing 0 or 1.
	SLT
	// SLTU is unsigned less-than, producing 0 or 1.
	SLTU
	// MUL produces the low 32 bits of the 64-bit product.
	MUL
	// MULH produces the high 32 bits of the signed×signed product.
	MULH
	// MULHU produces the high 32 bits of the unsigned×unsigned product.
	MULHU
	// MULHSU produces the high 32 bits of the signed×unsigned product.
	MULHSU
	// DIV is signed division (RISC-V semantics on zero divisors and overflow).
	DIV
	// DIVU is unsigned division.
	DIVU
	// REM is signed remainder.
	REM
	// REMU is unsigned remainder.
	REMU
	// LB loads a sign-extended byte.
	LB
	// LH loads a sign-extended half word.
	LH
	// LW loads a word.
	LW
	// LBU loads a zero-extended byte.
	LBU
	// LHU loads a zero-extended half word.
	LHU
	// SB stores the low byte of a register.
	SB
	// SH stores the low half word of a register.
	SH
	// SW stores a word.
	SW
	// BEQ branches when the operands are equal.
	BEQ
	// BNE branches when the operands differ.
	BNE
	// BLT branches on signed less-than.
	BLT
	// BGE branches on signed greater-or-equal.
	BGE
	// BLTU branches on unsigned less-than.
	BLTU
	// BGEU branches on unsigned greater-or-equal.
	BGEU
	// JAL jumps relative to pc, linking pc+4.
	JAL
	// JALR jumps to a register plus offset, linking pc+4.
	JALR
	// AUIPC adds an upper immediate to pc.
	AUIPC
	// ECALL requests a system call, with the code held in register t0.
	ECALL
	// EBREAK triggers a breakpoint.
	EBREAK
	// HALT terminates execution (pseudo opcode, from the ecall analysis pass).
	HALT
	// LWA loads a word supplied by the prover's input stream (pseudo opcode).
	LWA
	// PRECOMPILE invokes the precompile identified by the immediate operand
	// (pseudo opcode).
	PRECOMPILE
	// UNIMP marks an instruction word which could not be decoded.  Executing
	// it is fatal.
	UNIMP
)

var opcodeNames = [...]string{
	ADD: "add", SUB: "sub", XOR: "xor", OR: "or", AND: "and",
	SLL: "sll", SRL: "srl", SRA: "sra", SLT: "slt", SLTU: "sltu",
	MUL: "mul", MULH: "mulh", MULHU: "mulhu", MULHSU: "mulhsu",
	DIV: "div", DIVU: "divu", REM: "rem", REMU: "remu",
	LB: "lb", LH: "lh", LW: "lw", LBU: "lbu", LHU: "lhu",
	SB: "sb", SH: "sh", SW: "sw",
	BEQ: "beq", BNE: "bne", BLT: "blt", BGE: "bge", BLTU: "bltu", BGEU: "bgeu",
	JAL: "jal", JALR: "jalr", AUIPC: "auipc",
	ECALL: "ecall", EBREAK: "ebreak",
	HALT: "halt", LWA: "lwa", PRECOMPILE: "precompile", UNIMP: "unimp",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	//
	return "???"
}

// IsAlu reports whether this opcode is handled by one of the ALU chips.
func (op Opcode) IsAlu() bool {
	return op <= REMU
}

// IsMemory reports whether this opcode loads from or stores to memory.
func (op Opcode) IsMemory() bool {
	return op >= LB && op <= SW
}

// IsLoad reports whether this opcode loads from memory.
func (op Opcode) IsLoad() bool {
	return op >= LB && op <= LHU
}

// IsStore reports whether this opcode stores to memory.
func (op Opcode) IsStore() bool {
	return op >= SB && op <= SW
}

// IsBranch reports whether this opcode conditionally branches.
func (op Opcode) IsBranch() bool {
	return op >= BEQ && op <= BGEU
}

// IsJump reports whether this opcode unconditionally jumps.
func (op Opcode) IsJump() bool {
	return op == JAL || op == JALR
}
