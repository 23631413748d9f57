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

// Package syscall provides the handlers behind the guest syscall ABI: the
// host interface calls (halt, write, input) and the precompiles (SHA-256,
// Keccak).  Every precompile follows the same shape: read all inputs,
// compute purely, write all outputs, push one typed event.  No handler has
// side effects outside its declared reads and writes, since its AIR must be
// able to replay exactly the recorded accesses.
package syscall

import (
	"github.com/consensys/go-rivet/pkg/exec"
	"github.com/consensys/go-rivet/pkg/rv32"
)

// DefaultTable returns the full syscall dispatch table.
func DefaultTable() map[uint32]exec.Syscall {
	return map[uint32]exec.Syscall{
		rv32.SyscallHalt:               Halt{},
		rv32.SyscallLWA:                LoadWitness{},
		rv32.SyscallWrite:              Write{},
		rv32.SyscallShaExtend:          ShaExtend{},
		rv32.SyscallShaCompress:        ShaCompress{},
		rv32.SyscallKeccakPermute:      KeccakPermute{},
		rv32.SyscallEnterUnconstrained: EnterUnconstrained{},
		rv32.SyscallExitUnconstrained:  ExitUnconstrained{},
	}
}

// Halt stops the program, with arg1 as the exit code.
type Halt struct{}

// Execute implementation for exec.Syscall interface.
func (s Halt) Execute(ctx *exec.SyscallContext, arg1, arg2 uint32) (uint32, bool) {
	ctx.Halt(arg1)
	//
	return 0, false
}

// NumExtraCycles implementation for exec.Syscall interface.
func (s Halt) NumExtraCycles() uint32 {
	return 0
}

// LoadWitness returns the next word of the prover supplied input stream.
type LoadWitness struct{}

// Execute implementation for exec.Syscall interface.
func (s LoadWitness) Execute(ctx *exec.SyscallContext, arg1, arg2 uint32) (uint32, bool) {
	word, ok := ctx.InputWord()
	if !ok {
		panic("input stream exhausted")
	}
	//
	return word, true
}

// NumExtraCycles implementation for exec.Syscall interface.
func (s LoadWitness) NumExtraCycles() uint32 {
	return 0
}

// Write sends guest bytes to a host file descriptor: arg1 is the
// descriptor, arg2 the buffer address, and register a2 the byte count.  The
// bytes are peeked rather than read, as console output and hints are
// observational and never part of the proof.
type Write struct{}

// Execute implementation for exec.Syscall interface.
func (s Write) Execute(ctx *exec.SyscallContext, arg1, arg2 uint32) (uint32, bool) {
	nbytes := ctx.PeekRegister(rv32.A2)
	data := ctx.PeekBytes(arg2, int(nbytes))
	//
	ctx.WriteFd(arg1, data)
	//
	return 0, false
}

// NumExtraCycles implementation for exec.Syscall interface.
func (s Write) NumExtraCycles() uint32 {
	return 0
}

// EnterUnconstrained begins an unconstrained region, returning 1 to the
// guest so it can tell host execution from constrained re-execution.
type EnterUnconstrained struct{}

// Execute implementation for exec.Syscall interface.
func (s EnterUnconstrained) Execute(ctx *exec.SyscallContext, arg1, arg2 uint32) (uint32, bool) {
	return ctx.EnterUnconstrained(), true
}

// NumExtraCycles implementation for exec.Syscall interface.
func (s EnterUnconstrained) NumExtraCycles() uint32 {
	return 0
}

// ExitUnconstrained ends the current unconstrained region, returning 0.
type ExitUnconstrained struct{}

// Execute implementation for exec.Syscall interface.
func (s ExitUnconstrained) Execute(ctx *exec.SyscallContext, arg1, arg2 uint32) (uint32, bool) {
	return ctx.ExitUnconstrained(), true
}

// NumExtraCycles implementation for exec.Syscall interface.
func (s ExitUnconstrained) NumExtraCycles() uint32 {
	return 0
}
