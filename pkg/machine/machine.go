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

// Package machine assembles the chips of the zkVM into one machine, turning
// execution records into trace tables and checking those tables against the
// chips' constraints and bus interactions.
package machine

import (
	"fmt"

	"github.com/consensys/go-rivet/pkg/air"
	"github.com/consensys/go-rivet/pkg/chips"
	"github.com/consensys/go-rivet/pkg/chips/alu"
	bytechip "github.com/consensys/go-rivet/pkg/chips/bytes"
	cpuchip "github.com/consensys/go-rivet/pkg/chips/cpu"
	"github.com/consensys/go-rivet/pkg/chips/memglobal"
	programchip "github.com/consensys/go-rivet/pkg/chips/program"
	"github.com/consensys/go-rivet/pkg/exec"
	"github.com/consensys/go-rivet/pkg/field/babybear"
	"github.com/consensys/go-rivet/pkg/program"
	"github.com/consensys/go-rivet/pkg/trace"
	log "github.com/sirupsen/logrus"
)

// Machine holds the chips proving one program, in population order.  Order
// matters: the CPU and DivRem chips append delegated events while
// populating, so they run before the chips consuming those events, and the
// byte table runs last once every lookup has been recorded.
type Machine struct {
	chips []chips.Chip
}

// New assembles the machine for the given program.
func New(p *program.Program) *Machine {
	return &Machine{
		chips: []chips.Chip{
			cpuchip.New(),
			alu.NewDivRem(),
			alu.NewAddSub(),
			alu.NewBitwise(),
			alu.NewMul(),
			alu.NewLt(),
			alu.NewShiftLeft(),
			alu.NewShiftRight(),
			memglobal.New(),
			programchip.New(p),
			bytechip.New(),
		},
	}
}

// Chips returns the machine's chips in population order.
func (m *Machine) Chips() []chips.Chip {
	return m.chips
}

// ShardTrace is the output of trace generation for one shard: a table per
// chip, aligned with the machine's chip order.
type ShardTrace struct {
	Record *exec.ExecutionRecord
	Tables []trace.Table
}

// Generate produces the trace tables for one shard.  Populating appends
// delegated events to the record, so a record must be generated at most
// once.
func (m *Machine) Generate(record *exec.ExecutionRecord) *ShardTrace {
	tables := make([]trace.Table, len(m.chips))
	//
	for i, chip := range m.chips {
		matrix := chip.Populate(record)
		tables[i] = trace.Table{Name: chip.Name(), Matrix: matrix}
		//
		log.Debugf("shard %d: %s table %d x %d",
			record.Index, chip.Name(), matrix.Height(), matrix.Width())
	}
	//
	return &ShardTrace{Record: record, Tables: tables}
}

// VerificationError reports one constraint violation, locating it by chip
// and row.
type VerificationError struct {
	Chip string
	Row  uint
	Err  error
}

// Error implementation for the error interface.
func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Chip, e.Row, e.Err)
}

// DebugConstraints checks every chip's vanishing constraints against the
// generated tables, row by row, reporting the first violation found.
func (m *Machine) DebugConstraints(st *ShardTrace) error {
	for i, chip := range m.chips {
		matrix := st.Tables[i].Matrix
		height := matrix.Height()
		//
		for row := uint(0); row < height; row++ {
			builder := air.NewRowBuilder(
				matrix.Row(row), matrix.Row((row+1)%height),
				row == 0, row == height-1)
			chip.Eval(builder)
			//
			if failures := builder.Failures(); len(failures) > 0 {
				return &VerificationError{Chip: chip.Name(), Row: row, Err: failures[0]}
			}
		}
	}
	//
	return nil
}

// busKey identifies one bus tuple in the global lookup argument.
type busKey struct {
	bus    air.Bus
	values string
}

// busEntry tracks the running signed multiplicity of one bus tuple.
type busEntry struct {
	values []uint32
	sum    babybear.Element
}

// CheckInteractions verifies that, over all given shards, every tuple sent
// on the given buses is received with matching multiplicity.  The memory
// bus only balances for executions without precompile syscalls, whose
// internal accesses have no sending chip.
func (m *Machine) CheckInteractions(shards []*ShardTrace, buses ...air.Bus) error {
	selected := make(map[air.Bus]bool, len(buses))
	for _, bus := range buses {
		selected[bus] = true
	}
	// Each chip's interactions are collected once and evaluated per row.
	interactions := make([][]air.Interaction, len(m.chips))
	for i, chip := range m.chips {
		builder := air.NewInteractionBuilder()
		chip.Eval(builder)
		//
		for _, in := range builder.Interactions() {
			if selected[in.Bus] {
				interactions[i] = append(interactions[i], in)
			}
		}
	}
	//
	entries := make(map[busKey]*busEntry)
	//
	for _, shard := range shards {
		for i := range m.chips {
			m.tallyChip(entries, interactions[i], shard.Tables[i].Matrix)
		}
	}
	//
	for key, entry := range entries {
		if !entry.sum.IsZero() {
			return fmt.Errorf("unbalanced %s bus tuple %v: net multiplicity %d",
				key.bus, entry.values, entry.sum.Uint32())
		}
	}
	//
	return nil
}

// tallyChip accumulates one chip's bus traffic over one table.
func (m *Machine) tallyChip(entries map[busKey]*busEntry, interactions []air.Interaction, matrix *trace.Matrix) {
	height := matrix.Height()
	//
	for row := uint(0); row < height; row++ {
		local := matrix.Row(row)
		next := matrix.Row((row + 1) % height)
		//
		for _, in := range interactions {
			mult := in.Multiplicity.Eval(local, next)
			if mult.IsZero() {
				continue
			}
			//
			values := make([]uint32, len(in.Values))
			for j, v := range in.Values {
				values[j] = v.Eval(local, next).Uint32()
			}
			//
			key := busKey{bus: in.Bus, values: fmt.Sprint(values)}
			entry := entries[key]
			if entry == nil {
				entry = &busEntry{values: values}
				entries[key] = entry
			}
			//
			if in.IsSend {
				entry.sum = entry.sum.Add(mult)
			} else {
				entry.sum = entry.sum.Sub(mult)
			}
		}
	}
}
