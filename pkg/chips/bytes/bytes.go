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

// Package bytes answers the byte bus.  Every 8-bit operation the other
// chips delegate by lookup resolves here, one row per distinct operation
// with its aggregated multiplicity.
package bytes

import (
	"fmt"
	"sort"

	"github.com/consensys/go-rivet/pkg/air"
	"github.com/consensys/go-rivet/pkg/chips"
	"github.com/consensys/go-rivet/pkg/exec"
	"github.com/consensys/go-rivet/pkg/field/babybear"
	"github.com/consensys/go-rivet/pkg/trace"
	"github.com/consensys/go-rivet/pkg/util"
)

// Chip proves the deduplicated byte lookups of one shard.
type Chip struct{}

// New constructs the Byte chip.
func New() *Chip {
	return &Chip{}
}

// Name implementation for chips.Chip.
func (c *Chip) Name() string {
	return "byte"
}

// Width implementation for chips.Chip.
func (c *Chip) Width() uint {
	return byteNumCols
}

// Populate implementation for chips.Chip.  This chip must populate last,
// after every other chip has recorded its lookups.
func (c *Chip) Populate(record *exec.ExecutionRecord) *trace.Matrix {
	events := make([]air.ByteLookupEvent, 0, len(record.ByteLookups))
	for event := range record.ByteLookups {
		events = append(events, event)
	}
	//
	sort.Slice(events, func(i, j int) bool {
		return compareEvents(events[i], events[j]) < 0
	})
	//
	matrix := trace.NewMatrix(byteNumCols, uint(len(events)))
	//
	util.ParChunks(uint(len(events)), func(start, end uint) {
		for i := start; i < end; i++ {
			event := events[i]
			// An event no byte operation produces cannot be balanced.
			if a1, a2 := reference(event.Opcode, event.B, event.C); a1 != event.A1 || a2 != event.A2 {
				panic(fmt.Sprintf("invalid byte lookup: %s(%d, %d) != (%d, %d)",
					event.Opcode, event.B, event.C, event.A1, event.A2))
			}
			//
			row := matrix.Row(i)
			chips.SetU32(row, byteOpcode, uint32(event.Opcode))
			chips.SetU32(row, byteA1, uint32(event.A1))
			chips.SetU32(row, byteA2, uint32(event.A2))
			chips.SetU32(row, byteB, uint32(event.B))
			chips.SetU32(row, byteC, uint32(event.C))
			//
			mult := record.ByteLookups[event] % uint64(babybear.Modulus)
			row[byteMult] = babybear.New(uint32(mult))
		}
	})
	//
	matrix.Pad()
	//
	return matrix
}

func compareEvents(lhs, rhs air.ByteLookupEvent) int {
	lk := [5]uint8{uint8(lhs.Opcode), lhs.B, lhs.C, lhs.A1, lhs.A2}
	rk := [5]uint8{uint8(rhs.Opcode), rhs.B, rhs.C, rhs.A1, rhs.A2}
	//
	for i := range lk {
		if lk[i] != rk[i] {
			return int(lk[i]) - int(rk[i])
		}
	}
	//
	return 0
}

// reference gives the results of a byte operation on a pair of operands.
func reference(op air.ByteOpcode, b, c uint8) (uint8, uint8) {
	switch op {
	case air.ByteAnd:
		return b & c, 0
	case air.ByteOr:
		return b | c, 0
	case air.ByteXor:
		return b ^ c, 0
	case air.ByteSLL:
		return b << (c & 7), 0
	case air.ByteShrCarry:
		return b >> (c & 7), b & (1<<(c&7) - 1)
	case air.ByteLTU:
		if b < c {
			return 1, 0
		}
		return 0, 0
	case air.ByteMSB:
		return b >> 7, 0
	case air.ByteU8Range, air.ByteU16Range:
		return 0, 0
	default:
		panic(fmt.Sprintf("unknown byte opcode: %d", op))
	}
}

// Eval implementation for chips.Chip.  The table carries no constraints of
// its own; padding rows answer with zero multiplicity.
func (c *Chip) Eval(b air.Builder) {
	b.Receive(air.ByteBus, air.Local(byteMult),
		air.Local(byteOpcode), air.Local(byteA1), air.Local(byteA2),
		air.Local(byteB), air.Local(byteC))
}
