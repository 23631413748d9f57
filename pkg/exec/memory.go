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

// Package exec implements the execution engine: a deterministic RV32IM
// interpreter which records every register, memory and ALU state transition
// as events, aggregated into per-shard execution records from which trace
// tables are later generated.
package exec

import (
	"fmt"
	"sort"
)

// RegisterBase is the address at which the 32 general purpose registers are
// mapped.  Registers share the flat memory map and its ordering discipline,
// so one read/write consistency argument covers both.
const RegisterBase uint32 = 1024 * 1024 * 8

// MemoryCell is the current state of one word of memory, together with the
// shard and timestamp of its most recent access.
type MemoryCell struct {
	Value     uint32
	Shard     uint32
	Timestamp uint32
}

// MemoryReadRecord captures a single read access: the value observed, the
// access time and the time of the previous access to the same address.
type MemoryReadRecord struct {
	Value         uint32
	Shard         uint32
	Timestamp     uint32
	PrevShard     uint32
	PrevTimestamp uint32
}

// MemoryWriteRecord captures a single write access, additionally carrying
// the value overwritten.
type MemoryWriteRecord struct {
	Value         uint32
	Shard         uint32
	Timestamp     uint32
	PrevValue     uint32
	PrevShard     uint32
	PrevTimestamp uint32
}

// NewMemoryReadRecord constructs a read record, enforcing that accesses to
// an address are strictly increasing in (shard, timestamp) order.
func NewMemoryReadRecord(value, shard, timestamp, prevShard, prevTimestamp uint32) MemoryReadRecord {
	assertOrdered(shard, timestamp, prevShard, prevTimestamp)
	//
	return MemoryReadRecord{value, shard, timestamp, prevShard, prevTimestamp}
}

// NewMemoryWriteRecord constructs a write record, enforcing that accesses to
// an address are strictly increasing in (shard, timestamp) order.
func NewMemoryWriteRecord(value, shard, timestamp, prevValue, prevShard, prevTimestamp uint32) MemoryWriteRecord {
	assertOrdered(shard, timestamp, prevShard, prevTimestamp)
	//
	return MemoryWriteRecord{value, shard, timestamp, prevValue, prevShard, prevTimestamp}
}

func assertOrdered(shard, timestamp, prevShard, prevTimestamp uint32) {
	if !(shard > prevShard || (shard == prevShard && timestamp > prevTimestamp)) {
		panic(fmt.Sprintf(
			"memory access out of order: (%d,%d) after (%d,%d)",
			shard, timestamp, prevShard, prevTimestamp))
	}
}

// MemoryAccess is one read or write slot of a CPU event, pinned to the
// address it touched.
type MemoryAccess struct {
	Addr    uint32
	IsWrite bool
	Read    MemoryReadRecord
	Write   MemoryWriteRecord
}

// ReadAccess wraps a read record as an access slot.
func ReadAccess(addr uint32, record MemoryReadRecord) *MemoryAccess {
	return &MemoryAccess{Addr: addr, Read: record}
}

// WriteAccess wraps a write record as an access slot.
func WriteAccess(addr uint32, record MemoryWriteRecord) *MemoryAccess {
	return &MemoryAccess{Addr: addr, IsWrite: true, Write: record}
}

// Value returns the value of the access (observed for reads, stored for
// writes).
func (p *MemoryAccess) Value() uint32 {
	if p.IsWrite {
		return p.Write.Value
	}
	//
	return p.Read.Value
}

// Previous returns the value, shard and timestamp of the access preceding
// this one at the same address.
func (p *MemoryAccess) Previous() (value, shard, timestamp uint32) {
	if p.IsWrite {
		return p.Write.PrevValue, p.Write.PrevShard, p.Write.PrevTimestamp
	}
	//
	return p.Read.Value, p.Read.PrevShard, p.Read.PrevTimestamp
}

// Memory is the flat, word addressed memory map.  An address is live once it
// has been written, or once it is faulted in from the initial image on first
// touch; reading any other address is fatal, as it indicates an unprovable
// guest.
type Memory struct {
	cells map[uint32]MemoryCell
	// image holds the initial contents of addresses which may be read
	// before being written.
	image map[uint32]uint32
}

// NewMemory constructs a memory with the given initial image.
func NewMemory(image map[uint32]uint32) *Memory {
	return &Memory{
		cells: make(map[uint32]MemoryCell, len(image)),
		image: image,
	}
}

// Read performs a read access at the given time, returning its record along
// with whether this was the first touch of the address (in which case the
// caller owes a memory initialisation event).
func (m *Memory) Read(addr, shard, timestamp uint32) (MemoryReadRecord, bool) {
	cell, first := m.touch(addr)
	record := NewMemoryReadRecord(cell.Value, shard, timestamp, cell.Shard, cell.Timestamp)
	//
	m.cells[addr] = MemoryCell{cell.Value, shard, timestamp}
	//
	return record, first
}

// Write performs a write access at the given time, returning its record
// along with whether this was the first touch of the address.
func (m *Memory) Write(addr, value, shard, timestamp uint32) (MemoryWriteRecord, bool) {
	cell, first, live := m.peekCell(addr)
	// Unlike reads, writes to untouched addresses are legal.
	if !live {
		cell = MemoryCell{}
	}
	//
	record := NewMemoryWriteRecord(value, shard, timestamp, cell.Value, cell.Shard, cell.Timestamp)
	//
	m.cells[addr] = MemoryCell{value, shard, timestamp}
	//
	return record, first || !live
}

// Peek returns the current value of an address without recording an access,
// along with whether the address is live.
func (m *Memory) Peek(addr uint32) (uint32, bool) {
	cell, _, live := m.peekCell(addr)
	//
	return cell.Value, live
}

// ReadUnconstrained reads an address without recording the access or
// advancing its (shard, timestamp) metadata.
func (m *Memory) ReadUnconstrained(addr uint32) uint32 {
	cell, _ := m.touch(addr)
	//
	return cell.Value
}

// WriteUnconstrained overwrites an address without recording the access or
// advancing its (shard, timestamp) metadata.  A fresh address becomes live
// with zeroed metadata, so constrained code may later read the hint placed
// there.
func (m *Memory) WriteUnconstrained(addr, value uint32) {
	cell, _, live := m.peekCell(addr)
	if !live {
		cell = MemoryCell{}
	}
	//
	cell.Value = value
	m.cells[addr] = cell
}

// Addresses returns every live address, in increasing order.
func (m *Memory) Addresses() []uint32 {
	addresses := make([]uint32, 0, len(m.cells))
	for addr := range m.cells {
		addresses = append(addresses, addr)
	}
	//
	sort.Slice(addresses, func(i, j int) bool { return addresses[i] < addresses[j] })
	//
	return addresses
}

// Cell returns the current state of a live address.
func (m *Memory) Cell(addr uint32) MemoryCell {
	return m.cells[addr]
}

// touch faults an address in from the image if this is its first access,
// failing if the address was never written and has no image entry.
func (m *Memory) touch(addr uint32) (MemoryCell, bool) {
	cell, first, live := m.peekCell(addr)
	if !live {
		panic(fmt.Sprintf("read from unwritten address %#x", addr))
	}
	//
	if first {
		m.cells[addr] = cell
	}
	//
	return cell, first
}

// peekCell looks an address up without faulting, reporting whether it was
// untouched until now and whether it is live at all.
func (m *Memory) peekCell(addr uint32) (cell MemoryCell, first, live bool) {
	if cell, ok := m.cells[addr]; ok {
		return cell, false, true
	}
	//
	if value, ok := m.image[addr]; ok {
		return MemoryCell{Value: value}, true, true
	}
	//
	return MemoryCell{}, true, false
}
