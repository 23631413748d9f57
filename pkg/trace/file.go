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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/consensys/go-rivet/pkg/field/babybear"
	"github.com/consensys/go-rivet/pkg/util"
)

// fileIdentifier opens every trace file, with the trailing byte versioning
// the layout.
var fileIdentifier = [4]byte{'r', 'v', 'a', 1}

// Table pairs a named matrix with its contents, one per chip.
type Table struct {
	Name   string
	Matrix *Matrix
}

// WriteFile serializes a set of tables: a fixed identifier, the table count,
// then per table its name, dimensions and row-major element values (all
// integers big-endian, elements as canonical uint32).
func WriteFile(w io.Writer, tables []Table) error {
	buf := bufio.NewWriter(w)
	//
	if _, err := buf.Write(fileIdentifier[:]); err != nil {
		return err
	}
	//
	if err := binary.Write(buf, binary.BigEndian, uint32(len(tables))); err != nil {
		return err
	}
	//
	for _, table := range tables {
		name := []byte(table.Name)
		//
		if err := binary.Write(buf, binary.BigEndian, uint16(len(name))); err != nil {
			return err
		}
		//
		if _, err := buf.Write(name); err != nil {
			return err
		}
		//
		m := table.Matrix
		//
		if err := binary.Write(buf, binary.BigEndian, uint32(m.Width())); err != nil {
			return err
		}
		//
		if err := binary.Write(buf, binary.BigEndian, uint32(m.Height())); err != nil {
			return err
		}
		//
		var scratch [4]byte
		for _, elem := range m.data {
			binary.BigEndian.PutUint32(scratch[:], elem.Uint32())
			//
			if _, err := buf.Write(scratch[:]); err != nil {
				return err
			}
		}
	}
	//
	return buf.Flush()
}

// ReadFile deserializes a trace file written with WriteFile.  The raw table
// blobs are read sequentially but converted into field elements in
// parallel, as conversion dominates for large traces.
func ReadFile(r io.Reader) ([]Table, error) {
	buf := bufio.NewReader(r)
	//
	var identifier [4]byte
	if _, err := io.ReadFull(buf, identifier[:]); err != nil {
		return nil, err
	}
	//
	if identifier != fileIdentifier {
		return nil, fmt.Errorf("malformed trace file (bad identifier)")
	}
	//
	var count uint32
	if err := binary.Read(buf, binary.BigEndian, &count); err != nil {
		return nil, err
	}
	//
	tables := make([]Table, count)
	blobs := make([][]byte, count)
	//
	for i := range tables {
		var nameLen uint16
		if err := binary.Read(buf, binary.BigEndian, &nameLen); err != nil {
			return nil, err
		}
		//
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(buf, name); err != nil {
			return nil, err
		}
		//
		var width, height uint32
		if err := binary.Read(buf, binary.BigEndian, &width); err != nil {
			return nil, err
		}
		//
		if err := binary.Read(buf, binary.BigEndian, &height); err != nil {
			return nil, err
		}
		//
		blob := make([]byte, 4*width*height)
		if _, err := io.ReadFull(buf, blob); err != nil {
			return nil, err
		}
		//
		tables[i] = Table{Name: string(name), Matrix: NewMatrix(uint(width), uint(height))}
		blobs[i] = blob
	}
	//
	for i := range tables {
		m := tables[i].Matrix
		blob := blobs[i]
		//
		util.ParChunks(uint(len(m.data)), func(start, end uint) {
			for j := start; j < end; j++ {
				m.data[j] = babybear.New(binary.BigEndian.Uint32(blob[4*j:]))
			}
		})
	}
	//
	return tables, nil
}
