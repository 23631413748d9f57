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

// Package chips defines the contract every trace table implements, together
// with the column layout helpers its sub-packages share.  A chip pairs one
// Populate function, mapping a shard's events to concrete trace rows, with
// one Eval function expressing the constraints those rows must satisfy; the
// two are written against a single column layout so that every witnessed
// value has exactly one constraint checking it.
package chips

import (
	"sync"

	"github.com/consensys/go-rivet/pkg/air"
	"github.com/consensys/go-rivet/pkg/exec"
	"github.com/consensys/go-rivet/pkg/field/babybear"
	"github.com/consensys/go-rivet/pkg/trace"
)

// Chip is one table of the machine.  Populate consumes the events a shard
// recorded and lays them out as trace rows; Eval declares the constraints and
// bus traffic of those rows against a builder.  Populate may append derived
// events to the record (delegated comparisons, byte lookups), so chips are
// populated in a fixed order and each record is populated at most once.
type Chip interface {
	// Name identifies the chip in verification failures and trace files.
	Name() string
	// Width returns the fixed number of columns of this chip's table.
	Width() uint
	// Populate generates the trace rows for one shard, padded to a power of
	// two height.
	Populate(record *exec.ExecutionRecord) *trace.Matrix
	// Eval declares this chip's constraints and interactions.
	Eval(b air.Builder)
}

// SyncByteRecord serialises byte lookup recording behind a mutex, so that
// row-parallel Populate implementations can share one underlying record.
type SyncByteRecord struct {
	mu     sync.Mutex
	Record air.ByteRecord
}

// AddByteLookupEvent implementation for air.ByteRecord.
func (r *SyncByteRecord) AddByteLookupEvent(event air.ByteLookupEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	//
	r.Record.AddByteLookupEvent(event)
}

// ============================================================================
// Column layout helpers
// ============================================================================

// SetU32 writes a u32 into a single column.
func SetU32(row []babybear.Element, col uint, value uint32) {
	row[col] = babybear.New(value)
}

// SetBool writes a boolean flag into a single column.
func SetBool(row []babybear.Element, col uint, value bool) {
	row[col] = babybear.FromBool(value)
}

// SetWord writes the four byte limbs of a u32 into consecutive columns
// starting at base.
func SetWord(row []babybear.Element, base uint, value uint32) {
	word := air.WordFromUint32(value)
	//
	for i := uint(0); i < air.WordSize; i++ {
		row[base+i] = word[i]
	}
}

// StoreWord writes an already-decomposed word into consecutive columns.
func StoreWord(row []babybear.Element, base uint, word air.Word[babybear.Element]) {
	for i := uint(0); i < air.WordSize; i++ {
		row[base+i] = word[i]
	}
}

// LocalWord views four consecutive columns of the current row as a word.
func LocalWord(base uint) air.Word[air.Expr] {
	return air.Word[air.Expr]{
		air.Local(base), air.Local(base + 1), air.Local(base + 2), air.Local(base + 3),
	}
}

// NextWord views four consecutive columns of the next row as a word.
func NextWord(base uint) air.Word[air.Expr] {
	return air.Word[air.Expr]{
		air.Next(base), air.Next(base + 1), air.Next(base + 2), air.Next(base + 3),
	}
}

// ============================================================================
// Operation layouts
//
// Each reusable operation from pkg/air occupies a fixed run of columns: the
// expression view and the store function below must agree on that layout, as
// must the generated column maps reserving space for them.
// ============================================================================

// AddOpWidth is the number of columns an AddOperation occupies: the value
// word followed by its three carries.  SubOperation is laid out identically.
const AddOpWidth = air.WordSize + air.WordSize - 1

// AddOpExpr views columns [base, base+AddOpWidth) as an AddOperation.
func AddOpExpr(base uint) air.AddOperation[air.Expr] {
	return air.AddOperation[air.Expr]{
		Value: LocalWord(base),
		Carry: [air.WordSize - 1]air.Expr{
			air.Local(base + 4), air.Local(base + 5), air.Local(base + 6),
		},
	}
}

// StoreAddOp writes a populated AddOperation at base.
func StoreAddOp(row []babybear.Element, base uint, op *air.AddOperation[babybear.Element]) {
	StoreWord(row, base, op.Value)
	//
	for i := uint(0); i < air.WordSize-1; i++ {
		row[base+4+i] = op.Carry[i]
	}
}

// SubOpExpr views columns [base, base+AddOpWidth) as a SubOperation.
func SubOpExpr(base uint) air.SubOperation[air.Expr] {
	return air.SubOperation[air.Expr]{
		Value: LocalWord(base),
		Carry: [air.WordSize - 1]air.Expr{
			air.Local(base + 4), air.Local(base + 5), air.Local(base + 6),
		},
	}
}

// StoreSubOp writes a populated SubOperation at base.
func StoreSubOp(row []babybear.Element, base uint, op *air.SubOperation[babybear.Element]) {
	StoreWord(row, base, op.Value)
	//
	for i := uint(0); i < air.WordSize-1; i++ {
		row[base+4+i] = op.Carry[i]
	}
}

// IsZeroWidth is the number of columns an IsZeroOperation occupies.
const IsZeroWidth = 2

// IsZeroExpr views columns [base, base+IsZeroWidth) as an IsZeroOperation.
func IsZeroExpr(base uint) air.IsZeroOperation[air.Expr] {
	return air.IsZeroOperation[air.Expr]{
		Inverse: air.Local(base),
		Result:  air.Local(base + 1),
	}
}

// StoreIsZero writes a populated IsZeroOperation at base.
func StoreIsZero(row []babybear.Element, base uint, op *air.IsZeroOperation[babybear.Element]) {
	row[base] = op.Inverse
	row[base+1] = op.Result
}

// IsZeroWordWidth is the number of columns an IsZeroWordOperation occupies:
// four per-limb inverse/result pairs followed by the conjunction result.
const IsZeroWordWidth = air.WordSize*IsZeroWidth + 1

// IsZeroWordExpr views columns [base, base+IsZeroWordWidth) as an
// IsZeroWordOperation.
func IsZeroWordExpr(base uint) air.IsZeroWordOperation[air.Expr] {
	var op air.IsZeroWordOperation[air.Expr]
	//
	for i := uint(0); i < air.WordSize; i++ {
		op.IsZeroByte[i] = IsZeroExpr(base + i*IsZeroWidth)
	}
	//
	op.Result = air.Local(base + air.WordSize*IsZeroWidth)
	//
	return op
}

// StoreIsZeroWord writes a populated IsZeroWordOperation at base.
func StoreIsZeroWord(row []babybear.Element, base uint, op *air.IsZeroWordOperation[babybear.Element]) {
	for i := uint(0); i < air.WordSize; i++ {
		StoreIsZero(row, base+i*IsZeroWidth, &op.IsZeroByte[i])
	}
	//
	row[base+air.WordSize*IsZeroWidth] = op.Result
}

// IsEqualWordWidth is the number of columns an IsEqualWordOperation occupies.
const IsEqualWordWidth = IsZeroWordWidth

// IsEqualWordExpr views columns [base, base+IsEqualWordWidth) as an
// IsEqualWordOperation.
func IsEqualWordExpr(base uint) air.IsEqualWordOperation[air.Expr] {
	return air.IsEqualWordOperation[air.Expr]{IsDiffZero: IsZeroWordExpr(base)}
}

// StoreIsEqualWord writes a populated IsEqualWordOperation at base.
func StoreIsEqualWord(row []babybear.Element, base uint, op *air.IsEqualWordOperation[babybear.Element]) {
	StoreIsZeroWord(row, base, &op.IsDiffZero)
}
