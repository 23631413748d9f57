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

// SplitOpts bounds the number of deferred events a single shard may
// accumulate before the executor must flush it.  Each threshold bounds the
// trace area of the corresponding table, acting as backpressure on the
// record rather than on the guest.
type SplitOpts struct {
	// Deferred bounds generic deferred events.
	Deferred uint64
	// ShaExtend bounds SHA-256 extend events.
	ShaExtend uint64
	// ShaCompress bounds SHA-256 compress events.
	ShaCompress uint64
	// Keccak bounds Keccak permutation events.
	Keccak uint64
	// Memory bounds memory initialisation events.
	Memory uint64
}

// Opts configures an executor.
type Opts struct {
	// ShardSize is the cycle budget of one shard.
	ShardSize uint32
	// Split holds the deferred event thresholds.
	Split SplitOpts
	// CycleLimit aborts execution after this many cycles, with zero meaning
	// no limit.
	CycleLimit uint64
}

// DefaultOpts returns the executor configuration used when none is given.
func DefaultOpts() Opts {
	return Opts{
		ShardSize: 1 << 20,
		Split: SplitOpts{
			Deferred:    1 << 14,
			ShaExtend:   1 << 14,
			ShaCompress: 1 << 14,
			Keccak:      1 << 13,
			Memory:      1 << 16,
		},
	}
}
