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

// Syscall codes which the ecall analysis pass specialises into dedicated
// pseudo opcodes.  The remaining codes dispatch through PRECOMPILE.
const (
	// SyscallHalt terminates the program.
	SyscallHalt uint32 = 100
	// SyscallLWA loads a word from the prover-supplied input stream.
	SyscallLWA uint32 = 101
)

// AnalyseEcalls rewrites the `ADDI t0, x0, code; ECALL` idiom into the HALT,
// LWA and PRECOMPILE pseudo instructions, which removes a register read from
// the hot dispatch path when the syscall code is statically known.  The pass
// is a pure function of the instruction stream and idempotent: pseudo
// opcodes produced by a previous run are never rewritten again, and ECALL
// instructions whose code register is not statically known are left alone
// (they dispatch dynamically at execution time).
func AnalyseEcalls(program []Instruction) []Instruction {
	result := make([]Instruction, len(program))
	copy(result, program)
	//
	for i, insn := range result {
		if insn.Opcode != ECALL || i == 0 {
			continue
		}
		// Look for a preceding constant load into t0.
		code, ok := staticSyscallCode(result[i-1])
		if !ok {
			continue
		}
		//
		switch code {
		case SyscallHalt:
			result[i] = NewInstruction(HALT, 0, 0, 0)
		case SyscallLWA:
			result[i] = NewInstruction(LWA, uint32(A0), 0, 0)
		default:
			result[i] = NewImmCInstruction(PRECOMPILE, uint32(T0), 0, code)
		}
	}
	//
	return result
}

// staticSyscallCode recognises `ADDI t0, x0, code` and returns the code.
func staticSyscallCode(insn Instruction) (uint32, bool) {
	if insn.Opcode != ADD || !insn.ImmC || insn.ImmB {
		return 0, false
	}
	//
	if insn.OpA != uint32(T0) || insn.OpB != uint32(X0) {
		return 0, false
	}
	//
	return insn.OpC, true
}
