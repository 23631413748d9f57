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

// Package memglobal closes the global memory argument.  Every address the
// program touches is opened once onto the memory bus at shard zero, time
// zero, and received back with its final state at halt; the executor's
// per-access send/receive pairs telescope in between.
package memglobal

import (
	"sort"

	"github.com/consensys/go-rivet/pkg/air"
	"github.com/consensys/go-rivet/pkg/chips"
	"github.com/consensys/go-rivet/pkg/exec"
	"github.com/consensys/go-rivet/pkg/field/babybear"
	"github.com/consensys/go-rivet/pkg/trace"
	"github.com/consensys/go-rivet/pkg/util"
)

// Chip proves memory initialisation and finalisation.  Rows hold the init
// events in strictly increasing address order, then the finalize events
// likewise; strict ordering makes double initialisation impossible.
type Chip struct{}

// New constructs the MemoryGlobal chip.
func New() *Chip {
	return &Chip{}
}

// Name implementation for chips.Chip.
func (c *Chip) Name() string {
	return "memory_global"
}

// Width implementation for chips.Chip.
func (c *Chip) Width() uint {
	return memNumCols
}

// Populate implementation for chips.Chip.
func (c *Chip) Populate(record *exec.ExecutionRecord) *trace.Matrix {
	byteRec := &chips.SyncByteRecord{Record: record}
	// Events arrive in first-touch order and must be laid out by address.
	inits := make([]exec.MemoryInitEvent, len(record.MemoryInitEvents))
	copy(inits, record.MemoryInitEvents)
	sort.Slice(inits, func(i, j int) bool { return inits[i].Addr < inits[j].Addr })
	//
	fins := make([]exec.MemoryFinalizeEvent, len(record.MemoryFinalizeEvents))
	copy(fins, record.MemoryFinalizeEvents)
	sort.Slice(fins, func(i, j int) bool { return fins[i].Addr < fins[j].Addr })
	//
	matrix := trace.NewMatrix(memNumCols, uint(len(inits)+len(fins)))
	//
	util.ParChunks(uint(len(inits)), func(start, end uint) {
		for i := start; i < end; i++ {
			row := matrix.Row(i)
			chips.SetBool(row, memIsInit, true)
			chips.SetU32(row, memAddr, inits[i].Addr)
			chips.SetWord(row, memValue0, inits[i].Value)
			//
			if i+1 < uint(len(inits)) {
				c.populateDiff(row, inits[i].Addr, inits[i+1].Addr, byteRec)
			}
		}
	})
	//
	base := uint(len(inits))
	util.ParChunks(uint(len(fins)), func(start, end uint) {
		for i := start; i < end; i++ {
			row := matrix.Row(base + i)
			chips.SetBool(row, memIsFinalize, true)
			chips.SetU32(row, memShard, fins[i].Shard)
			chips.SetU32(row, memClk, fins[i].Timestamp)
			chips.SetU32(row, memAddr, fins[i].Addr)
			chips.SetWord(row, memValue0, fins[i].Value)
			//
			if i+1 < uint(len(fins)) {
				c.populateDiff(row, fins[i].Addr, fins[i+1].Addr, byteRec)
			}
		}
	})
	//
	matrix.Pad()
	//
	return matrix
}

// populateDiff witnesses the strict address gap to the next row.
func (c *Chip) populateDiff(row []babybear.Element, addr, next uint32, byteRec air.ByteRecord) {
	diff := next - addr - 1
	//
	chips.SetBool(row, memDiffReal, true)
	chips.SetWord(row, memDiffLimb0, diff)
	//
	air.AddU8RangeChecks(byteRec,
		uint8(diff), uint8(diff>>8), uint8(diff>>16), uint8(diff>>24))
}

// Eval implementation for chips.Chip.
func (c *Chip) Eval(b air.Builder) {
	isInit := air.Local(memIsInit)
	isFinalize := air.Local(memIsFinalize)
	isReal := air.Add(isInit, isFinalize)
	shard := air.Local(memShard)
	clk := air.Local(memClk)
	addr := air.Local(memAddr)
	value := chips.LocalWord(memValue0)
	diffReal := air.Local(memDiffReal)
	//
	b.AssertBool(isInit)
	b.AssertBool(isFinalize)
	b.AssertBool(isReal)
	b.AssertBool(diffReal)
	// Initial cells carry the zero timestamp.
	b.When(isInit).AssertZero(shard)
	b.When(isInit).AssertZero(clk)
	//
	b.Send(air.MemoryBus, isInit, shard, clk, addr, value[0], value[1], value[2], value[3])
	b.Receive(air.MemoryBus, isFinalize, shard, clk, addr, value[0], value[1], value[2], value[3])
	// Real rows form a prefix, inits before finalizes.
	transition := b.WhenTransition()
	transition.When(air.Sub(air.One(), isReal)).AssertZero(air.Next(memIsInit))
	transition.When(air.Sub(air.One(), isReal)).AssertZero(air.Next(memIsFinalize))
	transition.AssertZero(air.Mul(isFinalize, air.Next(memIsInit)))
	// Addresses within each section strictly increase, witnessed by the
	// byte decomposition of the gap.
	transition.AssertEq(diffReal, air.Add(
		air.Mul(isInit, air.Next(memIsInit)),
		air.Mul(isFinalize, air.Next(memIsFinalize))))
	//
	gap := air.Add(
		air.Local(memDiffLimb0),
		air.Mul(air.C(1<<8), air.Local(memDiffLimb1)),
		air.Mul(air.C(1<<16), air.Local(memDiffLimb2)),
		air.Mul(air.C(1<<24), air.Local(memDiffLimb3)))
	transition.When(diffReal).AssertEq(air.Next(memAddr), air.Add(addr, air.One(), gap))
	//
	b.WhenLastRow().AssertZero(diffReal)
	//
	b.Send(air.ByteBus, diffReal, air.C(uint32(air.ByteU8Range)),
		air.Zero(), air.Zero(), air.Local(memDiffLimb0), air.Local(memDiffLimb1))
	b.Send(air.ByteBus, diffReal, air.C(uint32(air.ByteU8Range)),
		air.Zero(), air.Zero(), air.Local(memDiffLimb2), air.Local(memDiffLimb3))
}
