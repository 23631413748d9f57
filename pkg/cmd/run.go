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
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-rivet/pkg/exec"
	"github.com/consensys/go-rivet/pkg/exec/syscall"
	"github.com/spf13/cobra"
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run [flags] elf_file",
	Short: "Execute a guest program without recording events.",
	Long: `Execute a guest program without recording events.
	Prints the execution report: cycle counts per opcode, syscall counts,
	and any cycle spans the guest marked.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		p := readElfFile(args[0])
		e := exec.NewExecutor(p, exec.Simple, executorOpts(cmd), syscall.DefaultTable())
		err := e.Run()
		//
		fmt.Print(e.Report())
		exitOutcome(err)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addExecutorFlags(runCmd)
}
