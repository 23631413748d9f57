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

// Generates the column index files of the chip tables.  Chips address their
// columns by flat index into a row slice, so the indices of every table are
// declared in one place per package and regenerated when a layout changes.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/consensys/bavard"
)

const copyrightHolder = "Consensys Software Inc."

//go:generate go run main.go
func main() {
	bgen := bavard.NewBatchGenerator(copyrightHolder, 2025, "go-rivet/internal/generator")
	//
	for _, file := range files() {
		err := bgen.Generate(file, file.Package, "templates", bavard.Entry{
			File:      fmt.Sprintf("../../pkg/chips/%s/columns_gen.go", file.Package),
			Templates: []string{"columns.go.tmpl"},
		})
		//
		assertNoError(err, "for package %q", file.Package)
	}
	//
	runCmd("gofmt", "-w", "../../pkg/chips/")
	runCmd("goimports", "-w", "../../pkg/chips/")
}

// tableSpec describes one trace table: a prefix shared by all its column
// constants and the ordered column names.
type tableSpec struct {
	Name    string
	Prefix  string
	Columns []string
	// Sentinel names the trailing constant closing the iota block.
	Sentinel string
}

// fileSpec describes one generated columns file.
type fileSpec struct {
	Package string
	Tables  []tableSpec
	// Tail is an optional verbatim block following the tables.
	Tail string
}

func files() []fileSpec {
	return []fileSpec{
		{Package: "cpu", Tables: []tableSpec{cpuTable()}, Tail: cpuTail},
		{Package: "alu", Tables: []tableSpec{
			addSubTable(), bitwiseTable(), mulTable(), divRemTable(),
			ltTable(), shiftLeftTable(), shiftRightTable(),
		}},
		{Package: "memglobal", Tables: []tableSpec{{
			Name:   "MemoryGlobal",
			Prefix: "mem",
			Columns: flatten("IsInit", "IsFinalize", "Shard", "Clk", "Addr",
				word("Value"), word("DiffLimb"), "DiffReal"),
			Sentinel: "NumCols",
		}}},
		{Package: "bytes", Tables: []tableSpec{{
			Name:     "Byte",
			Prefix:   "byte",
			Columns:  flatten("Opcode", "A1", "A2", "B", "C", "Mult"),
			Sentinel: "NumCols",
		}}},
		{Package: "program", Tables: []tableSpec{{
			Name:     "Program",
			Prefix:   "program",
			Columns:  flatten("Pc", "Opcode", "OpA", "OpB", "OpC", "ImmB", "ImmC", "Mult"),
			Sentinel: "NumCols",
		}}},
	}
}

const cpuTail = `const (
	// cpuSpecificWidth is the size of the shared opcode specific region.
	cpuSpecificWidth = 19
	// cpuNumCols is the total width of the CPU table.
	cpuNumCols = cpuSpecificBase + cpuSpecificWidth
)`

func cpuTable() tableSpec {
	return tableSpec{
		Name:   "CPU",
		Prefix: "cpu",
		Columns: flatten(
			"IsReal", "Shard", "Clk", "Pc", "NextPc",
			"Opcode", "OpA", "OpB", "OpC", "ImmB", "ImmC",
			"IsAlu", "IsLoad", "IsStore", "IsBranch", "IsJump",
			"IsAuipc", "IsHalt", "IsLwa", "IsPrecompile", "IsEcall",
			"ExitCode",
			word("A"), word("B"), word("C"),
			slot("SlotA"), slot("SlotB"), slot("SlotC"), slot("SlotMem"),
			"OpAIsZero", "OpAIsZeroResult",
		),
		Sentinel: "SpecificBase",
	}
}

func addSubTable() tableSpec {
	return tableSpec{
		Name:   "AddSub",
		Prefix: "addSub",
		Columns: flatten("IsReal", "IsAdd", "IsSub", "Clk",
			word("A"), word("B"), word("C"),
			operation("AddOp", 7), operation("SubOp", 7)),
		Sentinel: "NumCols",
	}
}

func bitwiseTable() tableSpec {
	return tableSpec{
		Name:   "Bitwise",
		Prefix: "bitwise",
		Columns: flatten("IsReal", "IsXor", "IsOr", "IsAnd", "Clk",
			word("A"), word("B"), word("C")),
		Sentinel: "NumCols",
	}
}

func mulTable() tableSpec {
	return tableSpec{
		Name:   "Mul",
		Prefix: "mul",
		Columns: flatten("IsReal", "IsMul", "IsMulh", "IsMulhu", "IsMulhsu", "Clk",
			word("A"), word("B"), word("C"),
			"BMsb", "CMsb", "BExt", "CExt",
			seq("Product", 8), seq("CarryLo", 8), seq("CarryHi", 8)),
		Sentinel: "NumCols",
	}
}

func divRemTable() tableSpec {
	return tableSpec{
		Name:   "DivRem",
		Prefix: "divRem",
		Columns: flatten("IsReal", "IsDiv", "IsDivu", "IsRem", "IsRemu", "Clk",
			word("A"), word("B"), word("C"),
			word("Quotient"), word("Remainder"), word("MulLow"),
			operation("CIsZero", 9)),
		Sentinel: "NumCols",
	}
}

func ltTable() tableSpec {
	return tableSpec{
		Name:   "Lt",
		Prefix: "lt",
		Columns: flatten("IsReal", "IsSlt", "IsSltu", "Clk",
			word("A"), word("B"), word("C"),
			"BMsb", "CMsb", word("Flag"), "ByteB", "ByteC", "DiffInv"),
		Sentinel: "NumCols",
	}
}

func shiftLeftTable() tableSpec {
	return tableSpec{
		Name:   "ShiftLeft",
		Prefix: "shiftLeft",
		Columns: flatten("IsReal", "Clk",
			word("A"), word("B"), word("C"),
			seq("Bit", 3), word("Byte"), "CRest",
			word("Shifted"), word("Carry")),
		Sentinel: "NumCols",
	}
}

func shiftRightTable() tableSpec {
	return tableSpec{
		Name:   "ShiftRight",
		Prefix: "shiftRight",
		Columns: flatten("IsReal", "IsSrl", "IsSra", "Clk",
			word("A"), word("B"), word("C"),
			"BMsb", seq("N", 8), word("Byte"), "CRest",
			word("Rotated"), word("Shifted"), word("Carry")),
		Sentinel: "NumCols",
	}
}

// word names the four byte limb columns of a word.
func word(name string) []string {
	return seq(name, 4)
}

// seq names n numbered columns.
func seq(name string, n int) []string {
	columns := make([]string, n)
	for i := range columns {
		columns[i] = fmt.Sprintf("%s%d", name, i)
	}
	//
	return columns
}

// slot names the columns of one CPU memory access slot.
func slot(name string) []string {
	return flatten(name+"Used", name+"Addr", name+"PrevShard", name+"PrevClk",
		seq(name+"PrevValue", 4), seq(name+"Value", 4))
}

// operation names the columns of a gadget occupying a contiguous region,
// where only the base index is addressed directly.
func operation(name string, width int) []string {
	columns := []string{name}
	for i := 1; i < width; i++ {
		columns = append(columns, fmt.Sprintf("%s%d", name, i))
	}
	//
	return columns
}

// flatten splices strings and string slices into one column list.
func flatten(parts ...any) []string {
	var columns []string
	//
	for _, part := range parts {
		switch p := part.(type) {
		case string:
			columns = append(columns, p)
		case []string:
			columns = append(columns, p...)
		default:
			panic(fmt.Sprintf("unexpected column spec %T", part))
		}
	}
	//
	return columns
}

func runCmd(name string, arg ...string) {
	fmt.Println(name, strings.Join(arg, " "))
	//
	cmd := exec.Command(name, arg...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	assertNoError(cmd.Run(), "running %s", name)
}

func assertNoError(err error, format string, args ...any) {
	if err != nil {
		fmt.Fprintf(os.Stderr, format+": %v\n", append(args, err)...)
		os.Exit(1)
	}
}
