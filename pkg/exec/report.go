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
	"fmt"
	"sort"
	"strings"

	"github.com/consensys/go-rivet/pkg/rv32"
)

// ExecutionReport summarises one program run: per-opcode instruction
// counts, per-code syscall counts, and the named cycle spans the guest
// marked via the cycle tracker protocol.  Purely observational, never part
// of the proof.
type ExecutionReport struct {
	OpcodeCounts  map[rv32.Opcode]uint64
	SyscallCounts map[uint32]uint64
	CycleTracker  map[string]uint64
	TotalCycles   uint64
}

// NewExecutionReport constructs an empty report.
func NewExecutionReport() *ExecutionReport {
	return &ExecutionReport{
		OpcodeCounts:  make(map[rv32.Opcode]uint64),
		SyscallCounts: make(map[uint32]uint64),
		CycleTracker:  make(map[string]uint64),
	}
}

func (r *ExecutionReport) String() string {
	var builder strings.Builder
	//
	fmt.Fprintf(&builder, "cycles: %d\n", r.TotalCycles)
	//
	opcodes := make([]rv32.Opcode, 0, len(r.OpcodeCounts))
	for opcode := range r.OpcodeCounts {
		opcodes = append(opcodes, opcode)
	}
	//
	sort.Slice(opcodes, func(i, j int) bool {
		return r.OpcodeCounts[opcodes[i]] > r.OpcodeCounts[opcodes[j]]
	})
	//
	for _, opcode := range opcodes {
		fmt.Fprintf(&builder, "  %-8s %d\n", opcode, r.OpcodeCounts[opcode])
	}
	//
	if len(r.SyscallCounts) > 0 {
		builder.WriteString("syscalls:\n")
		//
		codes := make([]uint32, 0, len(r.SyscallCounts))
		for code := range r.SyscallCounts {
			codes = append(codes, code)
		}
		//
		sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
		//
		for _, code := range codes {
			fmt.Fprintf(&builder, "  %-8d %d\n", code, r.SyscallCounts[code])
		}
	}
	//
	if len(r.CycleTracker) > 0 {
		builder.WriteString("spans:\n")
		//
		names := make([]string, 0, len(r.CycleTracker))
		for name := range r.CycleTracker {
			names = append(names, name)
		}
		//
		sort.Strings(names)
		//
		for _, name := range names {
			fmt.Fprintf(&builder, "  %-24s %d\n", name, r.CycleTracker[name])
		}
	}
	//
	return builder.String()
}
