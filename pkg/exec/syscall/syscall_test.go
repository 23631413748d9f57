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
package syscall_test

import (
	"crypto/sha256"
	"testing"

	"github.com/consensys/go-rivet/pkg/exec"
	"github.com/consensys/go-rivet/pkg/exec/syscall"
	"github.com/consensys/go-rivet/pkg/program"
	"github.com/consensys/go-rivet/pkg/rv32"
	"github.com/consensys/go-rivet/pkg/util/assert"
)

// TestKeccak256Empty squeezes Keccak-256 of the empty string out of the raw
// permutation: absorb the padded empty block into a zero state, permute
// once, and read the digest off the first four lanes.
func TestKeccak256Empty(t *testing.T) {
	var state [25]uint64
	// Rate is 136 bytes: pad10*1 with the legacy 0x01 domain byte.
	state[0] ^= 0x01
	state[16] ^= 0x80 << 56
	//
	syscall.KeccakF1600(&state)
	//
	var digest [32]byte
	for i := 0; i < 4; i++ {
		for j := 0; j < 8; j++ {
			digest[8*i+j] = byte(state[i] >> (8 * j))
		}
	}
	//
	expected := [32]byte{
		0xc5, 0xd2, 0x46, 0x01, 0x86, 0xf7, 0x23, 0x3c,
		0x92, 0x7e, 0x7d, 0xb2, 0xdc, 0xc7, 0x03, 0xc0,
		0xe5, 0x00, 0xb6, 0x53, 0xca, 0x82, 0x27, 0x3b,
		0x7b, 0xfa, 0xd8, 0x04, 0x5d, 0x85, 0xa4, 0x70,
	}
	//
	assert.Equal(t, expected, digest)
}

// TestSha256SingleBlock hashes "abc" through the extend and compress
// precompiles and checks the resulting state words against crypto/sha256.
func TestSha256SingleBlock(t *testing.T) {
	const (
		wPtr = 8192
		hPtr = 12288
	)
	//
	p := program.FromInstructions(
		rv32.NewImmCInstruction(rv32.ADD, uint32(rv32.A0), 0, wPtr),
		rv32.NewImmCInstruction(rv32.PRECOMPILE, uint32(rv32.T0), 0, rv32.SyscallShaExtend),
		rv32.NewImmCInstruction(rv32.ADD, uint32(rv32.A1), 0, hPtr),
		rv32.NewImmCInstruction(rv32.PRECOMPILE, uint32(rv32.T0), 0, rv32.SyscallShaCompress),
		rv32.NewImmCInstruction(rv32.ADD, uint32(rv32.A0), 0, 0),
		rv32.NewInstruction(rv32.HALT, 0, 0, 0),
	)
	// The padded single-block message "abc".
	schedule := [16]uint32{0: 0x61626380, 15: 0x00000018}
	for i, word := range schedule {
		p.Image[wPtr+4*uint32(i)] = word
	}
	// The SHA-256 initial state.
	state := [8]uint32{
		0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
		0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
	}
	for i, word := range state {
		p.Image[hPtr+4*uint32(i)] = word
	}
	//
	e := exec.NewExecutor(p, exec.Trace, exec.DefaultOpts(), syscall.DefaultTable())
	assert.NoError(t, e.Run())
	//
	expected := sha256.Sum256([]byte("abc"))
	//
	for i := 0; i < 8; i++ {
		word, live := e.Memory().Peek(hPtr + 4*uint32(i))
		assert.True(t, live)
		//
		var buf [4]byte
		buf[0] = byte(word >> 24)
		buf[1] = byte(word >> 16)
		buf[2] = byte(word >> 8)
		buf[3] = byte(word)
		//
		assert.Equal(t, [4]byte(expected[4*i:4*i+4]), buf, "state word %d", i)
	}
	//
	record := e.Records()[0]
	assert.Equal(t, 1, len(record.ShaExtendEvents))
	assert.Equal(t, 1, len(record.ShaCompressEvents))
	assert.Equal(t, 8, len(record.ShaCompressEvents[0].HReads))
	assert.Equal(t, 64, len(record.ShaCompressEvents[0].WReads))
	assert.Equal(t, 8, len(record.ShaCompressEvents[0].HWrites))
}
