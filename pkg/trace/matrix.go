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

// Package trace provides the row-major trace matrices produced by trace
// generation, together with their power-of-two padding and a binary file
// format for moving traces between processes.
package trace

import (
	"fmt"

	"github.com/consensys/go-rivet/pkg/field/babybear"
	"github.com/consensys/go-rivet/pkg/util"
)

// MinHeight is the smallest trace height.  Every matrix is padded to at
// least this many rows, so transition constraints always have a row pair to
// range over.
const MinHeight = 4

// Matrix is a fixed-width, row-major matrix of field elements.  Row-major
// layout keeps one trace row contiguous, which is what both population
// (writing a whole row per event) and constraint evaluation (reading a
// local/next row pair) want.
type Matrix struct {
	width uint
	data  []babybear.Element
}

// NewMatrix constructs a zeroed matrix of the given dimensions.
func NewMatrix(width, height uint) *Matrix {
	return &Matrix{
		width: width,
		data:  make([]babybear.Element, width*height),
	}
}

// Width returns the number of columns.
func (m *Matrix) Width() uint {
	return m.width
}

// Height returns the number of rows.
func (m *Matrix) Height() uint {
	return uint(len(m.data)) / m.width
}

// Row returns the given row as a slice aliasing the matrix.
func (m *Matrix) Row(row uint) []babybear.Element {
	return m.data[row*m.width : (row+1)*m.width]
}

// Get returns the element at the given row and column.
func (m *Matrix) Get(row, col uint) babybear.Element {
	return m.data[row*m.width+col]
}

// Set assigns the element at the given row and column.
func (m *Matrix) Set(row, col uint, val babybear.Element) {
	m.data[row*m.width+col] = val
}

// Pad extends the matrix with zero rows to the next power of two height (at
// least MinHeight).  Zero rows carry is_real = 0, so every chip's
// constraints degenerate to trivial on them.
func (m *Matrix) Pad() {
	height := max(m.Height(), MinHeight)
	padded := util.NextPowerOfTwo(height)
	//
	if padded == m.Height() {
		return
	}
	//
	data := make([]babybear.Element, padded*m.width)
	copy(data, m.data)
	m.data = data
}

func (m *Matrix) String() string {
	return fmt.Sprintf("matrix %dx%d", m.Height(), m.width)
}
