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
	"path/filepath"

	"github.com/consensys/go-rivet/pkg/exec"
	"github.com/consensys/go-rivet/pkg/exec/syscall"
	"github.com/consensys/go-rivet/pkg/machine"
	"github.com/consensys/go-rivet/pkg/trace"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// traceCmd represents the trace command.
var traceCmd = &cobra.Command{
	Use:   "trace [flags] elf_file output_dir",
	Short: "Execute a guest program and write its trace tables.",
	Long: `Execute a guest program and write its trace tables.
	One trace file is written per shard, holding the tables of every chip.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		p := readElfFile(args[0])
		e := exec.NewExecutor(p, exec.Trace, executorOpts(cmd), syscall.DefaultTable())
		err := e.Run()
		//
		if err := os.MkdirAll(args[1], 0o755); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		m := machine.New(p)
		for _, record := range e.Records() {
			st := m.Generate(record)
			name := filepath.Join(args[1], fmt.Sprintf("shard_%04d.rva", record.Index))
			//
			if err := writeShard(name, st); err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
			//
			log.Infof("wrote %s (%d tables)", name, len(st.Tables))
		}
		//
		exitOutcome(err)
	},
}

func writeShard(name string, st *machine.ShardTrace) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	//
	return trace.WriteFile(f, st.Tables)
}

func init() {
	rootCmd.AddCommand(traceCmd)
	addExecutorFlags(traceCmd)
}
