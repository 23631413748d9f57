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
	"testing"

	"github.com/consensys/go-rivet/pkg/rv32"
	"github.com/consensys/go-rivet/pkg/util/assert"
)

func TestAluOp(t *testing.T) {
	cases := []struct {
		opcode   rv32.Opcode
		b, c     uint32
		expected uint32
	}{
		{rv32.ADD, 0xffffffff, 1, 0},
		{rv32.SUB, 0, 1, 0xffffffff},
		{rv32.XOR, 0xff00ff00, 0x0ff00ff0, 0xf0f0f0f0},
		{rv32.OR, 0xff00ff00, 0x0ff00ff0, 0xfff0fff0},
		{rv32.AND, 0xff00ff00, 0x0ff00ff0, 0x0f000f00},
		{rv32.SLL, 1, 33, 2},
		{rv32.SRL, 0x80000000, 31, 1},
		{rv32.SRA, 0x80000000, 31, 0xffffffff},
		{rv32.SLT, 0xffffffff, 0, 1},
		{rv32.SLTU, 0xffffffff, 0, 0},
		{rv32.MUL, 0x10000, 0x10000, 0},
		{rv32.MULH, 0xffffffff, 0xffffffff, 0},
		{rv32.MULHU, 0xffffffff, 0xffffffff, 0xfffffffe},
		{rv32.MULHSU, 0xffffffff, 0xffffffff, 0xffffffff},
		{rv32.DIV, 0xfffffff9, 2, 0xfffffffd},
		{rv32.DIVU, 0xfffffff9, 2, 0x7ffffffc},
		{rv32.REM, 0xfffffff9, 2, 0xffffffff},
		{rv32.REMU, 0xfffffff9, 2, 1},
	}
	//
	for _, c := range cases {
		actual := AluOp(c.opcode, c.b, c.c)
		assert.Equal(t, c.expected, actual, "%s %#x %#x", c.opcode, c.b, c.c)
	}
}

func TestDivisionByZero(t *testing.T) {
	for _, opcode := range []rv32.Opcode{rv32.DIV, rv32.DIVU, rv32.REM, rv32.REMU} {
		for _, b := range []uint32{0, 1, 0x80000000, 0xffffffff} {
			quotient, remainder := QuotientRemainder(b, 0, opcode)
			assert.Equal(t, uint32(0xffffffff), quotient, "%s %#x / 0", opcode, b)
			assert.Equal(t, b, remainder, "%s %#x %% 0", opcode, b)
		}
	}
}

func TestSignedDivisionOverflow(t *testing.T) {
	quotient, remainder := QuotientRemainder(0x80000000, 0xffffffff, rv32.DIV)
	assert.Equal(t, uint32(0x80000000), quotient)
	assert.Equal(t, uint32(0), remainder)
	// Unsigned division of the same bit patterns is unremarkable.
	quotient, remainder = QuotientRemainder(0x80000000, 0xffffffff, rv32.DIVU)
	assert.Equal(t, uint32(0), quotient)
	assert.Equal(t, uint32(0x80000000), remainder)
}
