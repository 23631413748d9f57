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

// AluOp computes a = b OP c with RV32IM wrapping semantics.  Signedness is
// opcode dependent: DIV, REM, SRA, SLT and the upper multiplies interpret
// operands as two's complement, everything else is unsigned at the bit
// level.
func AluOp(opcode rv32.Opcode, b, c uint32) uint32 {
	switch opcode {
	case rv32.ADD:
		return b + c
	case rv32.SUB:
		return b - c
	case rv32.XOR:
		return b ^ c
	case rv32.OR:
		return b | c
	case rv32.AND:
		return b & c
	case rv32.SLL:
		return b << (c & 31)
	case rv32.SRL:
		return b >> (c & 31)
	case rv32.SRA:
		return uint32(int32(b) >> (c & 31))
	case rv32.SLT:
		if int32(b) < int32(c) {
			return 1
		}
		//
		return 0
	case rv32.SLTU:
		if b < c {
			return 1
		}
		//
		return 0
	case rv32.MUL:
		return b * c
	case rv32.MULH:
		return uint32((int64(int32(b)) * int64(int32(c))) >> 32)
	case rv32.MULHU:
		return uint32((uint64(b) * uint64(c)) >> 32)
	case rv32.MULHSU:
		return uint32((int64(int32(b)) * int64(c)) >> 32)
	case rv32.DIV, rv32.DIVU:
		quotient, _ := QuotientRemainder(b, c, opcode)
		//
		return quotient
	case rv32.REM, rv32.REMU:
		_, remainder := QuotientRemainder(b, c, opcode)
		//
		return remainder
	default:
		panic("not an ALU opcode: " + opcode.String())
	}
}

// QuotientRemainder computes the quotient and remainder of b divided by c
// under the given (signed or unsigned) division opcode.  Division by zero
// yields (0xFFFFFFFF, b) for both signed and unsigned opcodes, and signed
// overflow (MinInt32 / -1) yields (MinInt32, 0), as the RISC-V
// specification requires.
func QuotientRemainder(b, c uint32, opcode rv32.Opcode) (uint32, uint32) {
	if c == 0 {
		return 0xffffffff, b
	}
	//
	switch opcode {
	case rv32.DIV, rv32.REM:
		if int32(b) == -2147483648 && int32(c) == -1 {
			return b, 0
		}
		//
		return uint32(int32(b) / int32(c)), uint32(int32(b) % int32(c))
	case rv32.DIVU, rv32.REMU:
		return b / c, b % c
	default:
		panic("not a division opcode: " + opcode.String())
	}
}
