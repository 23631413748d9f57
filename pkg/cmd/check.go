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

	"github.com/consensys/go-rivet/pkg/air"
	"github.com/consensys/go-rivet/pkg/exec"
	"github.com/consensys/go-rivet/pkg/exec/syscall"
	"github.com/consensys/go-rivet/pkg/machine"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command.
var checkCmd = &cobra.Command{
	Use:   "check [flags] elf_file",
	Short: "Execute a guest program and check its trace against the machine.",
	Long: `Execute a guest program, generate its trace tables, and check every
	chip's constraints row by row together with the balance of the lookup
	buses.  This is a debugging aid: it locates the first offending chip and
	row rather than producing a proof.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		p := readElfFile(args[0])
		e := exec.NewExecutor(p, exec.Trace, executorOpts(cmd), syscall.DefaultTable())
		runErr := e.Run()
		//
		m := machine.New(p)
		//
		var shards []*machine.ShardTrace
		for _, record := range e.Records() {
			st := m.Generate(record)
			shards = append(shards, st)
			//
			if err := m.DebugConstraints(st); err != nil {
				fmt.Printf("shard %d: %v\n", record.Index, err)
				os.Exit(1)
			}
			//
			log.Infof("shard %d: constraints hold", record.Index)
		}
		// The memory bus stays unbalanced in the presence of precompile
		// syscalls, whose internal accesses have no sending chip.
		buses := []air.Bus{air.ProgramBus, air.AluBus, air.ByteBus}
		if !getFlag(cmd, "no-memory-bus") {
			buses = append(buses, air.MemoryBus)
		}
		//
		if err := m.CheckInteractions(shards, buses...); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		log.Infof("interactions balance over %d shards", len(shards))
		exitOutcome(runErr)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addExecutorFlags(checkCmd)
	//
	checkCmd.Flags().Bool("no-memory-bus", false, "skip the memory bus balance check")
}
