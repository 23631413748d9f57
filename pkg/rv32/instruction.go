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

import "fmt"

// Instruction is the decoded form of a 32-bit instruction word.  Operands
// follow the a = b OP c discipline used throughout the trace tables:
//
//   - for ALU and load instructions, OpA is the destination register;
//   - for store instructions, OpA is the register holding the value stored;
//   - for branches, OpA and OpB are the compared registers and OpC the
//     pc-relative offset;
//   - for jumps, OpA is the link register.
//
// When ImmB (resp. ImmC) holds, OpB (resp. OpC) is a 32-bit immediate rather
// than a register index.  Instructions are immutable once decoded: the
// program owns them and the executor only ever reads them.
type Instruction struct {
	// Opcode selects the operation.
	Opcode Opcode
	// OpA is the first operand (always a register index).
	OpA uint32
	// OpB is the second operand (register index or immediate).
	OpB uint32
	// OpC is the third operand (register index or immediate).
	OpC uint32
	// ImmB indicates OpB holds an immediate.
	ImmB bool
	// ImmC indicates OpC holds an immediate.
	ImmC bool
}

// NewInstruction constructs an instruction with register operands.
func NewInstruction(opcode Opcode, a, b, c uint32) Instruction {
	return Instruction{Opcode: opcode, OpA: a, OpB: b, OpC: c}
}

// NewImmCInstruction constructs an instruction whose third operand is an
// immediate.
func NewImmCInstruction(opcode Opcode, a, b, c uint32) Instruction {
	return Instruction{Opcode: opcode, OpA: a, OpB: b, OpC: c, ImmC: true}
}

// NewImmBCInstruction constructs an instruction whose second and third
// operands are both immediates (e.g. JAL, AUIPC).
func NewImmBCInstruction(opcode Opcode, a, b, c uint32) Instruction {
	return Instruction{Opcode: opcode, OpA: a, OpB: b, OpC: c, ImmB: true, ImmC: true}
}

// RegA returns the first operand as a register.
func (p Instruction) RegA() Register {
	return NewRegister(p.OpA)
}

// RegB returns the second operand as a register.  This must not be called
// when ImmB holds.
func (p Instruction) RegB() Register {
	if p.ImmB {
		panic("operand b is an immediate")
	}
	//
	return NewRegister(p.OpB)
}

// RegC returns the third operand as a register.  This must not be called
// when ImmC holds.
func (p Instruction) RegC() Register {
	if p.ImmC {
		panic("operand c is an immediate")
	}
	//
	return NewRegister(p.OpC)
}

func (p Instruction) String() string {
	operand := func(val uint32, imm bool) string {
		if imm {
			return fmt.Sprintf("%d", int32(val))
		}
		//
		return Register(val).String()
	}
	//
	return fmt.Sprintf("%s %s, %s, %s", p.Opcode,
		Register(p.OpA), operand(p.OpB, p.ImmB), operand(p.OpC, p.ImmC))
}
