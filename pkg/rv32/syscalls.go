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
package rv32

// Remaining syscall codes of the guest ABI.  Unlike SyscallHalt and
// SyscallLWA these are not specialised by the ecall analysis pass, but
// dispatch through PRECOMPILE (statically known code) or ECALL (code read
// from t0 at execution time).
const (
	// SyscallShaExtend performs the SHA-256 message schedule extension.
	SyscallShaExtend uint32 = 102
	// SyscallShaCompress performs the SHA-256 compression function.
	SyscallShaCompress uint32 = 103
	// SyscallKeccakPermute performs the Keccak-f[1600] permutation.
	SyscallKeccakPermute uint32 = 106
	// SyscallEnterUnconstrained begins an unconstrained execution region.
	SyscallEnterUnconstrained uint32 = 110
	// SyscallExitUnconstrained ends an unconstrained execution region.
	SyscallExitUnconstrained uint32 = 111
	// SyscallWrite writes bytes to a host file descriptor.
	SyscallWrite uint32 = 999
)
