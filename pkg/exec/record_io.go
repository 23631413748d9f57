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

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/consensys/go-rivet/pkg/air"
	"github.com/consensys/go-rivet/pkg/rv32"
)

// recordMagic identifies a serialized execution record, with the trailing
// byte versioning the layout.
var recordMagic = [4]byte{'r', 'v', 't', 1}

// WriteTo serializes the record into a stable, length-prefixed big-endian
// binary form, so that shards can be virtualized to temporary storage and
// reloaded.  The encoding round-trips field for field.
func (r *ExecutionRecord) WriteTo(w io.Writer) error {
	buf := bufio.NewWriter(w)
	enc := encoder{w: buf}
	//
	enc.bytes(recordMagic[:])
	enc.u32(r.Index)
	//
	enc.length(len(r.CpuEvents))
	for i := range r.CpuEvents {
		enc.cpuEvent(&r.CpuEvents[i])
	}
	//
	for _, events := range r.aluEventSlices() {
		enc.length(len(*events))
		//
		for _, e := range *events {
			enc.u32(e.Clk)
			enc.u8(uint8(e.Opcode))
			enc.u32(e.A)
			enc.u32(e.B)
			enc.u32(e.C)
		}
	}
	//
	enc.length(len(r.SyscallEvents))
	for _, e := range r.SyscallEvents {
		enc.u32(e.Shard)
		enc.u32(e.Clk)
		enc.u32(e.Code)
		enc.u32(e.Arg1)
		enc.u32(e.Arg2)
	}
	//
	enc.length(len(r.ShaExtendEvents))
	for i := range r.ShaExtendEvents {
		e := &r.ShaExtendEvents[i]
		enc.u32(e.Shard)
		enc.u32(e.Clk)
		enc.u32(e.WPtr)
		enc.readRecords(e.WMinus15Reads)
		enc.readRecords(e.WMinus2Reads)
		enc.readRecords(e.WMinus16Reads)
		enc.readRecords(e.WMinus7Reads)
		enc.writeRecords(e.WWrites)
	}
	//
	enc.length(len(r.ShaCompressEvents))
	for i := range r.ShaCompressEvents {
		e := &r.ShaCompressEvents[i]
		enc.u32(e.Shard)
		enc.u32(e.Clk)
		enc.u32(e.WPtr)
		enc.u32(e.HPtr)
		enc.readRecords(e.HReads)
		enc.readRecords(e.WReads)
		enc.writeRecords(e.HWrites)
	}
	//
	enc.length(len(r.KeccakPermuteEvents))
	for i := range r.KeccakPermuteEvents {
		e := &r.KeccakPermuteEvents[i]
		enc.u32(e.Shard)
		enc.u32(e.Clk)
		enc.u32(e.StatePtr)
		//
		for _, lane := range e.PreState {
			enc.u64(lane)
		}
		//
		for _, lane := range e.PostState {
			enc.u64(lane)
		}
		//
		enc.readRecords(e.StateReads)
		enc.writeRecords(e.StateWrites)
	}
	//
	enc.length(len(r.MemoryInitEvents))
	for _, e := range r.MemoryInitEvents {
		enc.u32(e.Addr)
		enc.u32(e.Value)
	}
	//
	enc.length(len(r.MemoryFinalizeEvents))
	for _, e := range r.MemoryFinalizeEvents {
		enc.u32(e.Addr)
		enc.u32(e.Value)
		enc.u32(e.Shard)
		enc.u32(e.Timestamp)
	}
	//
	enc.byteLookups(r.ByteLookups)
	//
	enc.bytes(r.PublicValues.Digest[:])
	enc.u32(r.PublicValues.ExitCode)
	//
	if enc.err != nil {
		return enc.err
	}
	//
	return buf.Flush()
}

// ReadRecord deserializes a record previously written with WriteTo.
func ReadRecord(r io.Reader) (*ExecutionRecord, error) {
	dec := decoder{r: bufio.NewReader(r)}
	record := NewExecutionRecord(0)
	//
	var magic [4]byte
	dec.bytes(magic[:])
	//
	if dec.err == nil && magic != recordMagic {
		return nil, fmt.Errorf("malformed execution record (bad magic)")
	}
	//
	record.Index = dec.u32()
	//
	if n := dec.length(); n > 0 {
		record.CpuEvents = make([]CpuEvent, n)
		//
		for i := range record.CpuEvents {
			dec.cpuEvent(&record.CpuEvents[i])
		}
	}
	//
	for _, events := range record.aluEventSlices() {
		n := dec.length()
		//
		for j := 0; j < n; j++ {
			var e AluEvent
			e.Clk = dec.u32()
			e.Opcode = rv32.Opcode(dec.u8())
			e.A = dec.u32()
			e.B = dec.u32()
			e.C = dec.u32()
			*events = append(*events, e)
		}
	}
	//
	n := dec.length()
	for i := 0; i < n; i++ {
		var e SyscallEvent
		e.Shard = dec.u32()
		e.Clk = dec.u32()
		e.Code = dec.u32()
		e.Arg1 = dec.u32()
		e.Arg2 = dec.u32()
		record.SyscallEvents = append(record.SyscallEvents, e)
	}
	//
	n = dec.length()
	for i := 0; i < n; i++ {
		var e ShaExtendEvent
		e.Shard = dec.u32()
		e.Clk = dec.u32()
		e.WPtr = dec.u32()
		e.WMinus15Reads = dec.readRecords()
		e.WMinus2Reads = dec.readRecords()
		e.WMinus16Reads = dec.readRecords()
		e.WMinus7Reads = dec.readRecords()
		e.WWrites = dec.writeRecords()
		record.ShaExtendEvents = append(record.ShaExtendEvents, e)
	}
	//
	n = dec.length()
	for i := 0; i < n; i++ {
		var e ShaCompressEvent
		e.Shard = dec.u32()
		e.Clk = dec.u32()
		e.WPtr = dec.u32()
		e.HPtr = dec.u32()
		e.HReads = dec.readRecords()
		e.WReads = dec.readRecords()
		e.HWrites = dec.writeRecords()
		record.ShaCompressEvents = append(record.ShaCompressEvents, e)
	}
	//
	n = dec.length()
	for i := 0; i < n; i++ {
		var e KeccakPermuteEvent
		e.Shard = dec.u32()
		e.Clk = dec.u32()
		e.StatePtr = dec.u32()
		//
		for j := range e.PreState {
			e.PreState[j] = dec.u64()
		}
		//
		for j := range e.PostState {
			e.PostState[j] = dec.u64()
		}
		//
		e.StateReads = dec.readRecords()
		e.StateWrites = dec.writeRecords()
		record.KeccakPermuteEvents = append(record.KeccakPermuteEvents, e)
	}
	//
	n = dec.length()
	for i := 0; i < n; i++ {
		var e MemoryInitEvent
		e.Addr = dec.u32()
		e.Value = dec.u32()
		record.MemoryInitEvents = append(record.MemoryInitEvents, e)
	}
	//
	n = dec.length()
	for i := 0; i < n; i++ {
		var e MemoryFinalizeEvent
		e.Addr = dec.u32()
		e.Value = dec.u32()
		e.Shard = dec.u32()
		e.Timestamp = dec.u32()
		record.MemoryFinalizeEvents = append(record.MemoryFinalizeEvents, e)
	}
	//
	n = dec.length()
	for i := 0; i < n; i++ {
		var e air.ByteLookupEvent
		e.Opcode = air.ByteOpcode(dec.u8())
		e.A1 = dec.u8()
		e.A2 = dec.u8()
		e.B = dec.u8()
		e.C = dec.u8()
		record.ByteLookups[e] = dec.u64()
	}
	//
	dec.bytes(record.PublicValues.Digest[:])
	record.PublicValues.ExitCode = dec.u32()
	//
	if dec.err != nil {
		return nil, dec.err
	}
	//
	return record, nil
}

// Bytes serializes the record to an in-memory buffer.
func (r *ExecutionRecord) Bytes() []byte {
	var buf bytes.Buffer
	// Writes to a memory buffer cannot fail.
	if err := r.WriteTo(&buf); err != nil {
		panic(err)
	}
	//
	return buf.Bytes()
}

// aluEventSlices returns the per-chip ALU event slices in their canonical
// serialization order.
func (r *ExecutionRecord) aluEventSlices() []*[]AluEvent {
	return []*[]AluEvent{
		&r.AddEvents, &r.SubEvents, &r.BitwiseEvents, &r.MulEvents,
		&r.DivRemEvents, &r.LtEvents, &r.ShiftLeftEvents, &r.ShiftRightEvents,
	}
}

// ============================================================================
// Encoding helpers
// ============================================================================

type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) u8(v uint8) {
	e.bytes([]byte{v})
}

func (e *encoder) u32(v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	e.bytes(buf[:])
}

func (e *encoder) u64(v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	e.bytes(buf[:])
}

func (e *encoder) length(n int) {
	e.u32(uint32(n))
}

func (e *encoder) bool(b bool) {
	if b {
		e.u8(1)
	} else {
		e.u8(0)
	}
}

func (e *encoder) bytes(data []byte) {
	if e.err == nil {
		_, e.err = e.w.Write(data)
	}
}

func (e *encoder) access(a *MemoryAccess) {
	if a == nil {
		e.u8(0)
		return
	}
	//
	e.u8(1)
	e.u32(a.Addr)
	e.bool(a.IsWrite)
	//
	if a.IsWrite {
		e.writeRecord(a.Write)
	} else {
		e.readRecord(a.Read)
	}
}

func (e *encoder) readRecord(r MemoryReadRecord) {
	e.u32(r.Value)
	e.u32(r.Shard)
	e.u32(r.Timestamp)
	e.u32(r.PrevShard)
	e.u32(r.PrevTimestamp)
}

func (e *encoder) writeRecord(r MemoryWriteRecord) {
	e.u32(r.Value)
	e.u32(r.Shard)
	e.u32(r.Timestamp)
	e.u32(r.PrevValue)
	e.u32(r.PrevShard)
	e.u32(r.PrevTimestamp)
}

func (e *encoder) readRecords(rs []MemoryReadRecord) {
	e.length(len(rs))
	//
	for _, r := range rs {
		e.readRecord(r)
	}
}

func (e *encoder) writeRecords(rs []MemoryWriteRecord) {
	e.length(len(rs))
	//
	for _, r := range rs {
		e.writeRecord(r)
	}
}

func (e *encoder) instruction(insn rv32.Instruction) {
	e.u8(uint8(insn.Opcode))
	e.u32(insn.OpA)
	e.u32(insn.OpB)
	e.u32(insn.OpC)
	e.bool(insn.ImmB)
	e.bool(insn.ImmC)
}

func (e *encoder) cpuEvent(ev *CpuEvent) {
	e.u32(ev.Shard)
	e.u32(ev.Clk)
	e.u32(ev.Pc)
	e.u32(ev.NextPc)
	e.instruction(ev.Instruction)
	e.u32(ev.A)
	e.u32(ev.B)
	e.u32(ev.C)
	e.access(ev.ARecord)
	e.access(ev.BRecord)
	e.access(ev.CRecord)
	// Opcode specific payload, tagged.
	switch {
	case ev.Mem != nil:
		e.u8(1)
		e.u32(ev.Mem.Addr)
		e.access(ev.Mem.Access)
	case ev.Branch != nil:
		e.u8(2)
		e.bool(ev.Branch.Taken)
		e.u32(ev.Branch.NextPc)
	case ev.Jump != nil:
		e.u8(3)
		e.u32(ev.Jump.NextPc)
	case ev.Auipc != nil:
		e.u8(4)
		e.u32(ev.Auipc.Pc)
	default:
		e.u8(0)
	}
	//
	e.u32(ev.ExitCode)
}

func (e *encoder) byteLookups(lookups map[air.ByteLookupEvent]uint64) {
	events := make([]air.ByteLookupEvent, 0, len(lookups))
	for event := range lookups {
		events = append(events, event)
	}
	// Canonical order, so serialization is deterministic.
	sort.Slice(events, func(i, j int) bool {
		l, r := events[i], events[j]
		//
		if l.Opcode != r.Opcode {
			return l.Opcode < r.Opcode
		} else if l.B != r.B {
			return l.B < r.B
		} else if l.C != r.C {
			return l.C < r.C
		} else if l.A1 != r.A1 {
			return l.A1 < r.A1
		}
		//
		return l.A2 < r.A2
	})
	//
	e.length(len(events))
	for _, event := range events {
		e.u8(uint8(event.Opcode))
		e.u8(event.A1)
		e.u8(event.A2)
		e.u8(event.B)
		e.u8(event.C)
		e.u64(lookups[event])
	}
}

// ============================================================================
// Decoding helpers
// ============================================================================

type decoder struct {
	r   io.Reader
	err error
}

func (d *decoder) u8() uint8 {
	var buf [1]byte
	d.bytes(buf[:])
	//
	return buf[0]
}

func (d *decoder) u32() uint32 {
	var buf [4]byte
	d.bytes(buf[:])
	//
	return binary.BigEndian.Uint32(buf[:])
}

func (d *decoder) u64() uint64 {
	var buf [8]byte
	d.bytes(buf[:])
	//
	return binary.BigEndian.Uint64(buf[:])
}

func (d *decoder) length() int {
	return int(d.u32())
}

func (d *decoder) bool() bool {
	return d.u8() != 0
}

func (d *decoder) bytes(buf []byte) {
	if d.err == nil {
		_, d.err = io.ReadFull(d.r, buf)
	}
}

func (d *decoder) access() *MemoryAccess {
	if d.u8() == 0 {
		return nil
	}
	//
	var access MemoryAccess
	access.Addr = d.u32()
	access.IsWrite = d.bool()
	//
	if access.IsWrite {
		access.Write = d.writeRecord()
	} else {
		access.Read = d.readRecord()
	}
	//
	return &access
}

func (d *decoder) readRecord() MemoryReadRecord {
	var r MemoryReadRecord
	r.Value = d.u32()
	r.Shard = d.u32()
	r.Timestamp = d.u32()
	r.PrevShard = d.u32()
	r.PrevTimestamp = d.u32()
	//
	return r
}

func (d *decoder) writeRecord() MemoryWriteRecord {
	var r MemoryWriteRecord
	r.Value = d.u32()
	r.Shard = d.u32()
	r.Timestamp = d.u32()
	r.PrevValue = d.u32()
	r.PrevShard = d.u32()
	r.PrevTimestamp = d.u32()
	//
	return r
}

func (d *decoder) readRecords() []MemoryReadRecord {
	n := d.length()
	if n == 0 {
		return nil
	}
	//
	records := make([]MemoryReadRecord, n)
	for i := range records {
		records[i] = d.readRecord()
	}
	//
	return records
}

func (d *decoder) writeRecords() []MemoryWriteRecord {
	n := d.length()
	if n == 0 {
		return nil
	}
	//
	records := make([]MemoryWriteRecord, n)
	for i := range records {
		records[i] = d.writeRecord()
	}
	//
	return records
}

func (d *decoder) instruction() rv32.Instruction {
	var insn rv32.Instruction
	insn.Opcode = rv32.Opcode(d.u8())
	insn.OpA = d.u32()
	insn.OpB = d.u32()
	insn.OpC = d.u32()
	insn.ImmB = d.bool()
	insn.ImmC = d.bool()
	//
	return insn
}

func (d *decoder) cpuEvent(ev *CpuEvent) {
	ev.Shard = d.u32()
	ev.Clk = d.u32()
	ev.Pc = d.u32()
	ev.NextPc = d.u32()
	ev.Instruction = d.instruction()
	ev.A = d.u32()
	ev.B = d.u32()
	ev.C = d.u32()
	ev.ARecord = d.access()
	ev.BRecord = d.access()
	ev.CRecord = d.access()
	//
	switch d.u8() {
	case 1:
		ev.Mem = &MemInstrEvent{Addr: d.u32(), Access: d.access()}
	case 2:
		ev.Branch = &BranchEvent{Taken: d.bool(), NextPc: d.u32()}
	case 3:
		ev.Jump = &JumpEvent{NextPc: d.u32()}
	case 4:
		ev.Auipc = &AuipcEvent{Pc: d.u32()}
	}
	//
	ev.ExitCode = d.u32()
}
