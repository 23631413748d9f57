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

// Package alu implements the arithmetic trace tables, one per opcode family:
// AddSub, Bitwise, Mul, DivRem, Lt, ShiftLeft and ShiftRight.  Each table
// holds one row per ALU event, receives its work tuple from the CPU on the
// ALU bus and proves the result through byte table lookups, following the
// populate/eval duality.
package alu

import (
	"github.com/consensys/go-rivet/pkg/air"
	"github.com/consensys/go-rivet/pkg/field/babybear"
	"github.com/consensys/go-rivet/pkg/rv32"
)

// aluTuple assembles the canonical ALU bus tuple (clk, opcode, a, b, c).
func aluTuple(clk, opcode air.Expr, a, b, c air.Word[air.Expr]) []air.Expr {
	values := []air.Expr{clk, opcode}
	values = append(values, a[:]...)
	values = append(values, b[:]...)
	values = append(values, c[:]...)
	//
	return values
}

// opcodeOf weights opcode selectors into a single opcode expression.
func opcodeOf(pairs ...selOpcode) air.Expr {
	terms := make([]air.Expr, len(pairs))
	//
	for i, pair := range pairs {
		terms[i] = air.Mul(pair.sel, air.C(uint32(pair.opcode)))
	}
	//
	return air.Add(terms...)
}

type selOpcode struct {
	sel    air.Expr
	opcode rv32.Opcode
}

func sel(col uint, opcode rv32.Opcode) selOpcode {
	return selOpcode{air.Local(col), opcode}
}

// limbs splits a u32 into its four byte limbs.
func limbs(value uint32) [4]uint8 {
	return [4]uint8{
		uint8(value), uint8(value >> 8), uint8(value >> 16), uint8(value >> 24),
	}
}

func boolElem(b bool) babybear.Element {
	return babybear.FromBool(b)
}
