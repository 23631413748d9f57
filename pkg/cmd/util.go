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
	"errors"
	"fmt"
	"os"

	"github.com/consensys/go-rivet/pkg/exec"
	"github.com/consensys/go-rivet/pkg/program"
	"github.com/spf13/cobra"
)

// Get an expected flag, or exit if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// Get an expected uint flag, or exit if an error arises.
func getUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// Get an expected uint64 flag, or exit if an error arises.
func getUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// Load a guest program from an ELF file, or exit.
func readElfFile(filename string) *program.Program {
	p, err := program.LoadElf(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return p
}

// executorOpts assembles executor options from the common flags.
func executorOpts(cmd *cobra.Command) exec.Opts {
	opts := exec.DefaultOpts()
	opts.CycleLimit = getUint64(cmd, "cycle-limit")
	//
	if size := getUint(cmd, "shard-size"); size != 0 {
		opts.ShardSize = uint32(size)
	}
	//
	return opts
}

// exitOutcome reports the run outcome, treating a zero exit code as
// success.  The exit code of the guest becomes the exit code of rivet.
func exitOutcome(err error) {
	var exitErr *exec.ExitCodeError
	//
	switch {
	case err == nil:
		return
	case errors.As(err, &exitErr):
		fmt.Printf("guest exited with code %d\n", exitErr.Code)
		if exitErr.Code != 0 {
			os.Exit(int(exitErr.Code & 0xff))
		}
	default:
		fmt.Println(err)
		os.Exit(1)
	}
}

// addExecutorFlags registers the flags shared by every command that runs a
// guest program.
func addExecutorFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64("cycle-limit", 0, "abort execution after this many cycles (0 for no limit)")
	cmd.Flags().Uint("shard-size", 0, "cycle budget of one shard (0 for the default)")
}
