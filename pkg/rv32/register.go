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

import "fmt"

// Register identifies one of the 32 general-purpose registers.  X0 is
// hardwired to zero by the RISC-V convention: writes to it must not
// observably change program behaviour.
type Register uint8

// NumRegisters is the size of the register file.
const NumRegisters = 32

// Named registers used by the syscall calling convention.
const (
	// X0 is the hardwired zero register.
	X0 Register = 0
	// T0 carries the syscall code on an ecall.
	T0 Register = 5
	// SP is the stack pointer.
	SP Register = 2
	// A0 carries the first syscall argument, and receives the result.
	A0 Register = 10
	// A1 carries the second syscall argument.
	A1 Register = 11
	// A2 carries the third syscall argument, read directly by handlers
	// which need one.
	A2 Register = 12
)

// NewRegister checks the given index identifies a valid register.  An
// invalid index indicates a decoder bug and is fatal.
func NewRegister(index uint32) Register {
	if index >= NumRegisters {
		panic(fmt.Sprintf("invalid register index: %d", index))
	}
	//
	return Register(index)
}

func (r Register) String() string {
	return fmt.Sprintf("%%x%d", uint8(r))
}
