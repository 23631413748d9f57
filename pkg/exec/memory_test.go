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

	"github.com/consensys/go-rivet/pkg/util/assert"
)

func TestMemoryReadBeforeWritePanics(t *testing.T) {
	memory := NewMemory(nil)
	//
	assert.Panics(t, func() {
		memory.Read(0x1000, 1, 0)
	})
}

func TestMemoryImageFaultIn(t *testing.T) {
	memory := NewMemory(map[uint32]uint32{0x1000: 0xdeadbeef})
	//
	record, first := memory.Read(0x1000, 1, 4)
	assert.True(t, first)
	assert.Equal(t, uint32(0xdeadbeef), record.Value)
	assert.Equal(t, uint32(0), record.PrevShard)
	assert.Equal(t, uint32(0), record.PrevTimestamp)
	// Second access is no longer a first touch.
	record, first = memory.Read(0x1000, 1, 8)
	assert.False(t, first)
	assert.Equal(t, uint32(1), record.PrevShard)
	assert.Equal(t, uint32(4), record.PrevTimestamp)
}

func TestMemoryOrderingWithinShard(t *testing.T) {
	memory := NewMemory(nil)
	//
	memory.Write(0x2000, 1, 1, 4)
	memory.Read(0x2000, 1, 8)
	// Going back in time within the same shard is fatal.
	assert.Panics(t, func() {
		memory.Read(0x2000, 1, 8)
	})
}

func TestMemoryOrderingAcrossShards(t *testing.T) {
	memory := NewMemory(nil)
	//
	memory.Write(0x2000, 1, 1, 100)
	// A later shard may restart its timestamps from zero.
	record, _ := memory.Read(0x2000, 2, 0)
	assert.Equal(t, uint32(1), record.PrevShard)
	assert.Equal(t, uint32(100), record.PrevTimestamp)
	// An earlier shard may not appear again.
	assert.Panics(t, func() {
		memory.Read(0x2000, 1, 200)
	})
}

func TestMemoryWriteFreshAddress(t *testing.T) {
	memory := NewMemory(nil)
	//
	record, first := memory.Write(0x3000, 42, 1, 4)
	assert.True(t, first)
	assert.Equal(t, uint32(0), record.PrevValue)
	//
	value, live := memory.Peek(0x3000)
	assert.True(t, live)
	assert.Equal(t, uint32(42), value)
}

func TestMemoryUnconstrainedWriteKeepsMetadata(t *testing.T) {
	memory := NewMemory(nil)
	//
	memory.Write(0x4000, 1, 1, 4)
	memory.WriteUnconstrained(0x4000, 99)
	//
	cell := memory.Cell(0x4000)
	assert.Equal(t, uint32(99), cell.Value)
	assert.Equal(t, uint32(1), cell.Shard)
	assert.Equal(t, uint32(4), cell.Timestamp)
}
