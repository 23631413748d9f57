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

// Base instruction formats of the RV32 encoding, identified by the low seven
// bits of the instruction word.
const (
	opcodeOpReg  = 0b0110011 // R-type ALU
	opcodeOpImm  = 0b0010011 // I-type ALU
	opcodeLoad   = 0b0000011
	opcodeStore  = 0b0100011
	opcodeBranch = 0b1100011
	opcodeJal    = 0b1101111
	opcodeJalr   = 0b1100111
	opcodeLui    = 0b0110111
	opcodeAuipc  = 0b0010111
	opcodeSystem = 0b1110011
)

// Decode translates a raw 32-bit RV32IM instruction word into its internal
// form.  Instruction words are decoded exactly once, at program-load time;
// the executor then dispatches on the decoded opcode alone.  Unknown words
// decode to UNIMP rather than failing here, because a program may legally
// contain data (or genuinely unimplemented instructions) in its text segment
// which are never reached; executing an UNIMP is fatal.
func Decode(word uint32) Instruction {
	var (
		rd     = (word >> 7) & 0x1f
		funct3 = (word >> 12) & 0x7
		rs1    = (word >> 15) & 0x1f
		rs2    = (word >> 20) & 0x1f
		funct7 = (word >> 25) & 0x7f
	)
	//
	switch word & 0x7f {
	case opcodeOpReg:
		if opcode, ok := decodeAluReg(funct3, funct7); ok {
			return NewInstruction(opcode, rd, rs1, rs2)
		}
	case opcodeOpImm:
		if opcode, imm, ok := decodeAluImm(word, funct3, funct7); ok {
			return NewImmCInstruction(opcode, rd, rs1, imm)
		}
	case opcodeLoad:
		if opcode, ok := decodeLoad(funct3); ok {
			return NewImmCInstruction(opcode, rd, rs1, immI(word))
		}
	case opcodeStore:
		if opcode, ok := decodeStore(funct3); ok {
			// OpA holds the register whose value is stored.
			return NewImmCInstruction(opcode, rs2, rs1, immS(word))
		}
	case opcodeBranch:
		if opcode, ok := decodeBranch(funct3); ok {
			return NewImmCInstruction(opcode, rs1, rs2, immB(word))
		}
	case opcodeJal:
		return NewImmBCInstruction(JAL, rd, immJ(word), 0)
	case opcodeJalr:
		if funct3 == 0 {
			return NewImmCInstruction(JALR, rd, rs1, immI(word))
		}
	case opcodeLui:
		// LUI is an addition of the shifted immediate to the zero register.
		return NewImmCInstruction(ADD, rd, uint32(X0), immU(word))
	case opcodeAuipc:
		return NewImmBCInstruction(AUIPC, rd, immU(word), 0)
	case opcodeSystem:
		switch word >> 7 {
		case 0:
			return NewInstruction(ECALL, uint32(T0), 0, 0)
		case 1 << 13:
			return NewInstruction(EBREAK, 0, 0, 0)
		}
	}
	//
	return NewInstruction(UNIMP, 0, 0, 0)
}

// DecodeProgram decodes a contiguous sequence of instruction words.
func DecodeProgram(words []uint32) []Instruction {
	instructions := make([]Instruction, len(words))
	//
	for i, word := range words {
		instructions[i] = Decode(word)
	}
	//
	return instructions
}

func decodeAluReg(funct3, funct7 uint32) (Opcode, bool) {
	// M extension
	if funct7 == 1 {
		switch funct3 {
		case 0b000:
			return MUL, true
		case 0b001:
			return MULH, true
		case 0b010:
			return MULHSU, true
		case 0b011:
			return MULHU, true
		case 0b100:
			return DIV, true
		case 0b101:
			return DIVU, true
		case 0b110:
			return REM, true
		case 0b111:
			return REMU, true
		}
	}
	//
	switch funct3 {
	case 0b000:
		if funct7 == 0x20 {
			return SUB, funct7 == 0x20
		}
		//
		return ADD, funct7 == 0
	case 0b001:
		return SLL, funct7 == 0
	case 0b010:
		return SLT, funct7 == 0
	case 0b011:
		return SLTU, funct7 == 0
	case 0b100:
		return XOR, funct7 == 0
	case 0b101:
		if funct7 == 0x20 {
			return SRA, true
		}
		//
		return SRL, funct7 == 0
	case 0b110:
		return OR, funct7 == 0
	case 0b111:
		return AND, funct7 == 0
	}
	//
	return UNIMP, false
}

func decodeAluImm(word, funct3, funct7 uint32) (Opcode, uint32, bool) {
	switch funct3 {
	case 0b000:
		return ADD, immI(word), true
	case 0b001:
		// SLLI encodes the shift amount in place of rs2.
		return SLL, (word >> 20) & 0x1f, funct7 == 0
	case 0b010:
		return SLT, immI(word), true
	case 0b011:
		return SLTU, immI(word), true
	case 0b100:
		return XOR, immI(word), true
	case 0b101:
		if funct7 == 0x20 {
			return SRA, (word >> 20) & 0x1f, true
		}
		//
		return SRL, (word >> 20) & 0x1f, funct7 == 0
	case 0b110:
		return OR, immI(word), true
	case 0b111:
		return AND, immI(word), true
	}
	//
	return UNIMP, 0, false
}

func decodeLoad(funct3 uint32) (Opcode, bool) {
	switch funct3 {
	case 0b000:
		return LB, true
	case 0b001:
		return LH, true
	case 0b010:
		return LW, true
	case 0b100:
		return LBU, true
	case 0b101:
		return LHU, true
	}
	//
	return UNIMP, false
}

func decodeStore(funct3 uint32) (Opcode, bool) {
	switch funct3 {
	case 0b000:
		return SB, true
	case 0b001:
		return SH, true
	case 0b010:
		return SW, true
	}
	//
	return UNIMP, false
}

func decodeBranch(funct3 uint32) (Opcode, bool) {
	switch funct3 {
	case 0b000:
		return BEQ, true
	case 0b001:
		return BNE, true
	case 0b100:
		return BLT, true
	case 0b101:
		return BGE, true
	case 0b110:
		return BLTU, true
	case 0b111:
		return BGEU, true
	}
	//
	return UNIMP, false
}

// immI extracts the sign-extended I-type immediate (bits 31:20).
func immI(word uint32) uint32 {
	return uint32(int32(word) >> 20)
}

// immS extracts the sign-extended S-type immediate (bits 31:25 and 11:7).
func immS(word uint32) uint32 {
	return uint32(int32(word)>>25)<<5 | (word>>7)&0x1f
}

// immB extracts the sign-extended B-type immediate (a 13-bit, 2-byte aligned
// branch offset).
func immB(word uint32) uint32 {
	imm := (word>>8)&0xf<<1 |
		(word>>25)&0x3f<<5 |
		(word>>7)&0x1<<11 |
		(word>>31)<<12
	// Sign extend from bit 12
	return uint32(int32(imm<<19) >> 19)
}

// immU extracts the U-type immediate (bits 31:12, pre-shifted).
func immU(word uint32) uint32 {
	return word & 0xfffff000
}

// immJ extracts the sign-extended J-type immediate (a 21-bit, 2-byte aligned
// jump offset).
func immJ(word uint32) uint32 {
	imm := (word>>21)&0x3ff<<1 |
		(word>>20)&0x1<<11 |
		(word>>12)&0xff<<12 |
		(word>>31)<<20
	// Sign extend from bit 20
	return uint32(int32(imm<<11) >> 11)
}
