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

// shaK holds the SHA-256 round constants.
var shaK = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// ShaExtendWords is the reference message schedule extension: given a
// 64-word schedule whose first 16 words are filled, it computes words 16
// through 63 in place.
func ShaExtendWords(w *[64]uint32) {
	for i := 16; i < 64; i++ {
		s0 := bits.RotateLeft32(w[i-15], -7) ^ bits.RotateLeft32(w[i-15], -18) ^ (w[i-15] >> 3)
		s1 := bits.RotateLeft32(w[i-2], -17) ^ bits.RotateLeft32(w[i-2], -19) ^ (w[i-2] >> 10)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}
}

// ShaExtend performs the SHA-256 message schedule extension over a 64-word
// schedule at arg1, whose first 16 words are filled.  Each of the 48 rounds
// reads the four source words, writes the new one and advances the clock,
// so all 240 accesses carry strictly increasing timestamps per address.
type ShaExtend struct{}

// Execute implementation for exec.Syscall interface.
func (s ShaExtend) Execute(ctx *exec.SyscallContext, arg1, arg2 uint32) (uint32, bool) {
	wPtr := arg1
	//
	event := exec.ShaExtendEvent{
		Shard: ctx.Shard(),
		Clk:   ctx.Clk(),
		WPtr:  wPtr,
	}
	//
	for i := uint32(16); i < 64; i++ {
		wMinus15, r15 := ctx.ReadWord(wPtr + 4*(i-15))
		wMinus2, r2 := ctx.ReadWord(wPtr + 4*(i-2))
		wMinus16, r16 := ctx.ReadWord(wPtr + 4*(i-16))
		wMinus7, r7 := ctx.ReadWord(wPtr + 4*(i-7))
		//
		s0 := bits.RotateLeft32(wMinus15, -7) ^ bits.RotateLeft32(wMinus15, -18) ^ (wMinus15 >> 3)
		s1 := bits.RotateLeft32(wMinus2, -17) ^ bits.RotateLeft32(wMinus2, -19) ^ (wMinus2 >> 10)
		wi := wMinus16 + s0 + wMinus7 + s1
		//
		write := ctx.WriteWord(wPtr+4*i, wi)
		//
		event.WMinus15Reads = append(event.WMinus15Reads, r15)
		event.WMinus2Reads = append(event.WMinus2Reads, r2)
		event.WMinus16Reads = append(event.WMinus16Reads, r16)
		event.WMinus7Reads = append(event.WMinus7Reads, r7)
		event.WWrites = append(event.WWrites, write)
		//
		ctx.Bump()
	}
	//
	ctx.AddShaExtendEvent(event)
	//
	return 0, false
}

// NumExtraCycles implementation for exec.Syscall interface.
func (s ShaExtend) NumExtraCycles() uint32 {
	return 48 * 4
}

// ShaCompress performs the SHA-256 compression function: arg1 points at the
// 64-word schedule, arg2 at the 8-word state.
type ShaCompress struct{}

// Execute implementation for exec.Syscall interface.
func (s ShaCompress) Execute(ctx *exec.SyscallContext, arg1, arg2 uint32) (uint32, bool) {
	wPtr, hPtr := arg1, arg2
	//
	event := exec.ShaCompressEvent{
		Shard: ctx.Shard(),
		Clk:   ctx.Clk(),
		WPtr:  wPtr,
		HPtr:  hPtr,
	}
	//
	state, hReads := ctx.ReadSlice(hPtr, 8)
	ctx.Bump()
	//
	w, wReads := ctx.ReadSlice(wPtr, 64)
	ctx.Bump()
	//
	a, b, c, d := state[0], state[1], state[2], state[3]
	e, f, g, h := state[4], state[5], state[6], state[7]
	//
	for i := 0; i < 64; i++ {
		s1 := bits.RotateLeft32(e, -6) ^ bits.RotateLeft32(e, -11) ^ bits.RotateLeft32(e, -25)
		ch := (e & f) ^ (^e & g)
		temp1 := h + s1 + ch + shaK[i] + w[i]
		s0 := bits.RotateLeft32(a, -2) ^ bits.RotateLeft32(a, -13) ^ bits.RotateLeft32(a, -22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		temp2 := s0 + maj
		//
		h, g, f, e = g, f, e, d+temp1
		d, c, b, a = c, b, a, temp1+temp2
	}
	//
	final := []uint32{
		state[0] + a, state[1] + b, state[2] + c, state[3] + d,
		state[4] + e, state[5] + f, state[6] + g, state[7] + h,
	}
	//
	hWrites := ctx.WriteSlice(hPtr, final)
	ctx.Bump()
	//
	event.HReads = hReads
	event.WReads = wReads
	event.HWrites = hWrites
	ctx.AddShaCompressEvent(event)
	//
	return 0, false
}

// NumExtraCycles implementation for exec.Syscall interface.
func (s ShaCompress) NumExtraCycles() uint32 {
	return 3 * 4
}
