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

// checkpoint is the snapshot taken on entry to an unconstrained region.
// While a checkpoint is outstanding, no events are recorded and memory
// accesses leave the (shard, timestamp) metadata of every cell untouched;
// value writes, however, land directly in the memory map, which is how host
// computed hints become visible to the constrained program after exit.
// Exiting restores the clocks to the snapshot, so the whole region costs
// the provable execution exactly one instruction (the entering ecall).
// Exactly one level is allowed: re-entering while a checkpoint is
// outstanding is fatal.
type checkpoint struct {
	globalClk uint64
	clk       uint32
	pc        uint32
	// exiting marks the checkpoint for restoration at the end of the
	// current step, so the exit ecall itself is still unconstrained.
	exiting bool
}

// enterUnconstrained begins an unconstrained region, returning the value
// the guest observes from the entering syscall.
func (e *Executor) enterUnconstrained() uint32 {
	if e.unconstrained != nil {
		panic("nested unconstrained region")
	}
	//
	e.unconstrained = &checkpoint{
		globalClk: e.globalClk,
		clk:       e.clk,
		pc:        e.pc,
	}
	//
	return 1
}

// exitUnconstrained marks the current region for restoration.  The actual
// restore happens once the exit ecall finishes its step.
func (e *Executor) exitUnconstrained() uint32 {
	if e.unconstrained == nil {
		panic("exit of unconstrained region without entry")
	}
	//
	e.unconstrained.exiting = true
	//
	return 0
}

// restoreCheckpoint rewinds the clocks to just after the entering ecall.
// The program counter is not rewound: execution proceeds past the exit
// ecall, with the region having consumed no provable cycles.
func (e *Executor) restoreCheckpoint(cp *checkpoint) {
	e.globalClk = cp.globalClk + 1
	e.clk = cp.clk + 4
	e.unconstrained = nil
}
