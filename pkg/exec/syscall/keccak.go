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
package syscall

import (
	"math/bits"

	"github.com/consensys/go-rivet/pkg/exec"
)

var keccakRC = [24]uint64{
	0x0000000000000001, 0x0000000000008082, 0x800000000000808a, 0x8000000080008000,
	0x000000000000808b, 0x0000000080000001, 0x8000000080008081, 0x8000000000008009,
	0x000000000000008a, 0x0000000000000088, 0x0000000080008009, 0x000000008000000a,
	0x000000008000808b, 0x800000000000008b, 0x8000000000008089, 0x8000000000008003,
	0x8000000000008002, 0x8000000000000080, 0x000000000000800a, 0x800000008000000a,
	0x8000000080008081, 0x8000000000008080, 0x0000000080000001, 0x8000000080008008,
}

// KeccakF1600 is the reference Keccak permutation over a 25-lane state.
func KeccakF1600(a *[25]uint64) {
	var bc [5]uint64
	//
	for round := 0; round < 24; round++ {
		// Theta
		for x := 0; x < 5; x++ {
			bc[x] = a[x] ^ a[x+5] ^ a[x+10] ^ a[x+15] ^ a[x+20]
		}
		//
		for x := 0; x < 5; x++ {
			d := bc[(x+4)%5] ^ bits.RotateLeft64(bc[(x+1)%5], 1)
			//
			for y := 0; y < 25; y += 5 {
				a[y+x] ^= d
			}
		}
		// Rho and pi
		last := a[1]
		x, y := 1, 0
		//
		for t := 0; t < 24; t++ {
			x, y = y, (2*x+3*y)%5
			index := 5*y + x
			last, a[index] = a[index], bits.RotateLeft64(last, (t+1)*(t+2)/2%64)
		}
		// Chi
		for y := 0; y < 25; y += 5 {
			copy(bc[:], a[y:y+5])
			//
			for x := 0; x < 5; x++ {
				a[y+x] = bc[x] ^ (^bc[(x+1)%5] & bc[(x+2)%5])
			}
		}
		// Iota
		a[0] ^= keccakRC[round]
	}
}

// KeccakPermute applies Keccak-f[1600] to a 25-lane state held at arg1 as
// 50 little-endian words: all 50 words are read, the permutation computed,
// and the 50 words written back one clock step later.
type KeccakPermute struct{}

// Execute implementation for exec.Syscall interface.
func (s KeccakPermute) Execute(ctx *exec.SyscallContext, arg1, arg2 uint32) (uint32, bool) {
	statePtr := arg1
	//
	event := exec.KeccakPermuteEvent{
		Shard:    ctx.Shard(),
		Clk:      ctx.Clk(),
		StatePtr: statePtr,
	}
	//
	words, reads := ctx.ReadSlice(statePtr, 50)
	ctx.Bump()
	//
	var state [25]uint64
	for i := range state {
		state[i] = uint64(words[2*i]) | uint64(words[2*i+1])<<32
	}
	//
	event.PreState = state
	KeccakF1600(&state)
	event.PostState = state
	//
	for i := range state {
		words[2*i] = uint32(state[i])
		words[2*i+1] = uint32(state[i] >> 32)
	}
	//
	writes := ctx.WriteSlice(statePtr, words)
	ctx.Bump()
	//
	event.StateReads = reads
	event.StateWrites = writes
	ctx.AddKeccakPermuteEvent(event)
	//
	return 0, false
}

// NumExtraCycles implementation for exec.Syscall interface.
func (s KeccakPermute) NumExtraCycles() uint32 {
	return 2 * 4
}
