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
package trace

import (
	"bytes"
	"testing"

	"github.com/consensys/go-rivet/pkg/field/babybear"
	"github.com/consensys/go-rivet/pkg/util/assert"
)

func TestMatrixPadToMinimum(t *testing.T) {
	m := NewMatrix(3, 1)
	m.Set(0, 1, babybear.New(7))
	//
	m.Pad()
	//
	assert.Equal(t, uint(4), m.Height())
	assert.Equal(t, babybear.New(7), m.Get(0, 1))
	// Padding rows are zero.
	for col := uint(0); col < 3; col++ {
		assert.True(t, m.Get(3, col).IsZero())
	}
}

func TestMatrixPadToPowerOfTwo(t *testing.T) {
	cases := []struct {
		height, padded uint
	}{
		{0, 4},
		{4, 4},
		{5, 8},
		{9, 16},
		{16, 16},
	}
	//
	for _, c := range cases {
		m := NewMatrix(2, c.height)
		m.Pad()
		assert.Equal(t, c.padded, m.Height(), "height %d", c.height)
	}
}

func TestMatrixRowAliases(t *testing.T) {
	m := NewMatrix(2, 2)
	//
	row := m.Row(1)
	row[0] = babybear.New(9)
	//
	assert.Equal(t, babybear.New(9), m.Get(1, 0))
}

func TestFileRoundTrip(t *testing.T) {
	cpu := NewMatrix(3, 5)
	alu := NewMatrix(2, 4)
	//
	for row := uint(0); row < 5; row++ {
		for col := uint(0); col < 3; col++ {
			cpu.Set(row, col, babybear.New(uint32(10*row+col)))
		}
	}
	//
	alu.Set(3, 1, babybear.New(0xdeadbeef%babybear.Modulus))
	//
	tables := []Table{{"cpu", cpu}, {"alu", alu}}
	//
	var buf bytes.Buffer
	assert.NoError(t, WriteFile(&buf, tables))
	//
	reloaded, err := ReadFile(&buf)
	assert.NoError(t, err)
	assert.Equal(t, tables, reloaded)
}

func TestFileBadIdentifier(t *testing.T) {
	_, err := ReadFile(bytes.NewReader([]byte{'x', 'x', 'x', 0, 0, 0, 0, 0}))
	assert.Error(t, err)
}
