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

package program

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// MaxMemory bounds the addressable guest memory; segments reaching beyond it
// are rejected at load time rather than discovered mid-execution.
const MaxMemory uint32 = 0x78000000

// LoadElf reads a 32-bit little-endian RISC-V executable and converts its
// loadable segments into a program: executable segments are decoded into
// instructions, and every loadable byte is recorded in the initial memory
// image.
func LoadElf(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	//
	return ParseElf(data)
}

// ParseElf converts an in-memory ELF executable into a program.  See LoadElf.
func ParseElf(data []byte) (*Program, error) {
	file, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	// Sanity check the target architecture.
	if file.Class != elf.ELFCLASS32 || file.Data != elf.ELFDATA2LSB {
		return nil, fmt.Errorf("unsupported ELF class: want 32-bit little-endian")
	} else if file.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("unsupported ELF machine: %s", file.Machine)
	} else if file.Type != elf.ET_EXEC {
		return nil, fmt.Errorf("unsupported ELF type: %s", file.Type)
	}
	//
	pcStart := uint32(file.Entry)
	image := make(map[uint32]uint32)
	//
	var (
		pcBase       uint32
		instructions []uint32
	)
	//
	for _, prog := range file.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		//
		vaddr := uint32(prog.Vaddr)
		memsz := uint32(prog.Memsz)
		//
		if vaddr%4 != 0 {
			return nil, fmt.Errorf("unaligned segment address: %#x", vaddr)
		} else if memsz > MaxMemory || vaddr > MaxMemory-memsz {
			return nil, fmt.Errorf("segment out of range: %#x+%#x", vaddr, memsz)
		}
		//
		segment := make([]byte, memsz)
		if _, err := io.ReadFull(io.NewSectionReader(prog, 0, int64(prog.Filesz)), segment[:prog.Filesz]); err != nil {
			return nil, err
		}
		// Pad the final partial word, if any.
		for addr := uint32(0); addr < memsz; addr += 4 {
			word := binary.LittleEndian.Uint32(pad4(segment[addr:]))
			image[vaddr+addr] = word
			//
			if prog.Flags&elf.PF_X != 0 {
				if len(instructions) == 0 {
					pcBase = vaddr
				}
				//
				instructions = append(instructions, word)
			}
		}
	}
	//
	if len(instructions) == 0 {
		return nil, fmt.Errorf("no executable segment")
	}
	//
	program := New(instructions, pcBase, pcStart)
	program.Image = image
	//
	return program, nil
}

func pad4(bytes []byte) []byte {
	if len(bytes) >= 4 {
		return bytes[:4]
	}
	//
	var padded [4]byte
	copy(padded[:], bytes)
	//
	return padded[:]
}
