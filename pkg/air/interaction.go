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

package air

// Bus identifies one of the global lookup channels over which chips
// communicate.  Every value sent on a bus must be received elsewhere with
// matching multiplicity, and vice versa.
type Bus uint8

const (
	// MemoryBus carries memory access tuples (shard, timestamp, address,
	// value).
	MemoryBus Bus = iota
	// ProgramBus carries (pc, instruction) pairs proving that executed
	// instructions belong to the committed program.
	ProgramBus
	// InstructionBus carries fetched instruction operands from the CPU to
	// instruction-specific chips.
	InstructionBus
	// AluBus carries (opcode, a, b, c) tuples from the CPU to the ALU chips.
	AluBus
	// ByteBus carries 8-bit operation lookups into the byte table.
	ByteBus
	// RangeBus carries range membership claims.
	RangeBus
	// SyscallBus carries syscall invocation tuples to precompile tables.
	SyscallBus
	// FieldBus carries native field operation lookups.
	FieldBus
)

func (b Bus) String() string {
	switch b {
	case MemoryBus:
		return "memory"
	case ProgramBus:
		return "program"
	case InstructionBus:
		return "instruction"
	case AluBus:
		return "alu"
	case ByteBus:
		return "byte"
	case RangeBus:
		return "range"
	case SyscallBus:
		return "syscall"
	case FieldBus:
		return "field"
	default:
		return "unknown"
	}
}

// Interaction is one send or receive performed by a chip on a given bus.
// Values and multiplicity are expressions over the chip's own columns,
// evaluated per trace row.
type Interaction struct {
	Bus          Bus
	Values       []Expr
	Multiplicity Expr
	// IsSend distinguishes the two directions of the lookup argument.
	IsSend bool
}
