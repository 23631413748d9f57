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

// SyscallContext is the surface a syscall handler operates through.  All
// memory traffic goes through ReadWord/WriteWord so that every access is
// recorded, and multi-step precompiles call Bump between logical sub-steps
// so each access carries a distinct, strictly increasing timestamp.
type SyscallContext struct {
	exec *Executor
	clk  uint32
}

// Clk returns the current syscall clock.
func (c *SyscallContext) Clk() uint32 {
	return c.clk
}

// Shard returns the current shard number.
func (c *SyscallContext) Shard() uint32 {
	return c.exec.shard
}

// Bump advances the syscall clock by one sub-step.
func (c *SyscallContext) Bump() {
	c.clk += 4
}

// ReadWord reads one word of guest memory, producing an access record.
func (c *SyscallContext) ReadWord(addr uint32) (uint32, MemoryReadRecord) {
	e := c.exec
	//
	if e.unconstrained != nil {
		return e.memory.ReadUnconstrained(addr), MemoryReadRecord{}
	}
	//
	record, first := e.memory.Read(addr, e.shard, c.clk)
	e.noteInit(addr, record.Value, first)
	//
	return record.Value, record
}

// WriteWord writes one word of guest memory, producing an access record.
func (c *SyscallContext) WriteWord(addr, value uint32) MemoryWriteRecord {
	e := c.exec
	//
	if e.unconstrained != nil {
		e.memory.WriteUnconstrained(addr, value)
		//
		return MemoryWriteRecord{}
	}
	//
	record, first := e.memory.Write(addr, value, e.shard, c.clk)
	e.noteInit(addr, record.PrevValue, first)
	//
	return record
}

// ReadSlice reads n consecutive words starting at addr.
func (c *SyscallContext) ReadSlice(addr uint32, n int) ([]uint32, []MemoryReadRecord) {
	values := make([]uint32, n)
	records := make([]MemoryReadRecord, n)
	//
	for i := 0; i < n; i++ {
		values[i], records[i] = c.ReadWord(addr + 4*uint32(i))
	}
	//
	return values, records
}

// WriteSlice writes consecutive words starting at addr.
func (c *SyscallContext) WriteSlice(addr uint32, values []uint32) []MemoryWriteRecord {
	records := make([]MemoryWriteRecord, len(values))
	//
	for i, value := range values {
		records[i] = c.WriteWord(addr+4*uint32(i), value)
	}
	//
	return records
}

// PeekRegister reads a register without recording an access.  Used by
// observational syscalls whose inputs are not part of the proof.
func (c *SyscallContext) PeekRegister(reg rv32.Register) uint32 {
	return c.exec.peekRegister(reg)
}

// PeekBytes reads n bytes of guest memory without recording accesses.
func (c *SyscallContext) PeekBytes(addr uint32, n int) []byte {
	data := make([]byte, n)
	//
	for i := 0; i < n; i++ {
		byteAddr := addr + uint32(i)
		word, _ := c.exec.memory.Peek(byteAddr &^ 3)
		data[i] = byte(word >> (8 * (byteAddr & 3)))
	}
	//
	return data
}

// WriteFd routes bytes to a host file descriptor.
func (c *SyscallContext) WriteFd(fd uint32, data []byte) {
	c.exec.writeFd(fd, data)
}

// InputWord consumes the next word of the prover supplied input stream.
func (c *SyscallContext) InputWord() (uint32, bool) {
	return c.exec.nextInputWord()
}

// Halt stops execution with the given exit code.
func (c *SyscallContext) Halt(code uint32) {
	e := c.exec
	e.halted = true
	e.exitCode = code
}

// EnterUnconstrained begins an unconstrained region.  See the package
// documentation of the checkpoint type for the exact semantics.
func (c *SyscallContext) EnterUnconstrained() uint32 {
	return c.exec.enterUnconstrained()
}

// ExitUnconstrained ends the current unconstrained region.
func (c *SyscallContext) ExitUnconstrained() uint32 {
	return c.exec.exitUnconstrained()
}

// Recording indicates whether events should currently be captured.
func (c *SyscallContext) Recording() bool {
	return c.exec.recording()
}

// AddShaExtendEvent appends a SHA-256 extension event to the current
// record.
func (c *SyscallContext) AddShaExtendEvent(event ShaExtendEvent) {
	if c.Recording() {
		r := c.exec.record
		r.ShaExtendEvents = append(r.ShaExtendEvents, event)
	}
}

// AddShaCompressEvent appends a SHA-256 compression event to the current
// record.
func (c *SyscallContext) AddShaCompressEvent(event ShaCompressEvent) {
	if c.Recording() {
		r := c.exec.record
		r.ShaCompressEvents = append(r.ShaCompressEvents, event)
	}
}

// AddKeccakPermuteEvent appends a Keccak permutation event to the current
// record.
func (c *SyscallContext) AddKeccakPermuteEvent(event KeccakPermuteEvent) {
	if c.Recording() {
		r := c.exec.record
		r.KeccakPermuteEvents = append(r.KeccakPermuteEvents, event)
	}
}
