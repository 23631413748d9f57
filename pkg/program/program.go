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

// Package program provides the immutable representation of a guest program:
// its decoded instruction stream, entry point and initial memory image.
package program

import (
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/consensys/go-rivet/pkg/rv32"
)

// Program is an executable guest program.  It is immutable after
// construction: the executor re-reads instructions on every visit of a given
// pc but never mutates them.
type Program struct {
	// Instructions holds the decoded instruction stream, after the ecall
	// analysis pass has specialised static syscall idioms.
	Instructions []rv32.Instruction
	// PcBase is the address of the first instruction.
	PcBase uint32
	// PcStart is the entry point.
	PcStart uint32
	// Image is the initial memory image (word addressed).
	Image map[uint32]uint32
}

// New constructs a program from raw instruction words located at the given
// base address, applying decode and the ecall analysis pass.
func New(words []uint32, pcBase, pcStart uint32) *Program {
	instructions := rv32.AnalyseEcalls(rv32.DecodeProgram(words))
	//
	return &Program{
		Instructions: instructions,
		PcBase:       pcBase,
		PcStart:      pcStart,
		Image:        make(map[uint32]uint32),
	}
}

// FromInstructions constructs a program directly from decoded instructions,
// based at pc 0.  This is the main entry point for tests.
func FromInstructions(instructions ...rv32.Instruction) *Program {
	return &Program{
		Instructions: rv32.AnalyseEcalls(instructions),
		Image:        make(map[uint32]uint32),
	}
}

// FetchIndex converts a program counter value into an instruction index, or
// fails if the pc lies outside the program.
func (p *Program) FetchIndex(pc uint32) (uint32, error) {
	if pc < p.PcBase || pc%4 != 0 {
		return 0, fmt.Errorf("program counter out of range: %#x", pc)
	}
	//
	index := (pc - p.PcBase) / 4
	if index >= uint32(len(p.Instructions)) {
		return 0, fmt.Errorf("program counter out of range: %#x", pc)
	}
	//
	return index, nil
}

// Digest computes a Keccak-256 commitment to the instruction stream and
// entry point, reported alongside execution so that a given trace can be
// attributed to a specific program.
func (p *Program) Digest() [32]byte {
	hasher := sha3.NewLegacyKeccak256()
	//
	var buf [4]byte
	put := func(val uint32) {
		buf[0] = byte(val)
		buf[1] = byte(val >> 8)
		buf[2] = byte(val >> 16)
		buf[3] = byte(val >> 24)
		hasher.Write(buf[:])
	}
	//
	put(p.PcBase)
	put(p.PcStart)
	//
	for _, insn := range p.Instructions {
		put(uint32(insn.Opcode))
		put(insn.OpA)
		put(insn.OpB)
		put(insn.OpC)
		//
		var flags uint32
		if insn.ImmB {
			flags |= 1
		}
		//
		if insn.ImmC {
			flags |= 2
		}
		//
		put(flags)
	}
	//
	var digest [32]byte
	copy(digest[:], hasher.Sum(nil))
	//
	return digest
}
