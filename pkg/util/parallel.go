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
package util

import (
	"runtime"
	"sync"
)

// ParChunks applies fn to [start, end) index chunks of a workload of size n,
// one chunk per go-routine.  Chunks are sized so that every core gets work,
// and fn is never invoked for an empty chunk.  This is the workhorse for
// trace generation, where rows are independent and can be populated in any
// order.
func ParChunks(n uint, fn func(start, end uint)) {
	var (
		wg sync.WaitGroup
		// A worker panic is rethrown on the caller after all workers have
		// finished, so it remains recoverable.
		panicMu  sync.Mutex
		panicked any
	)
	//
	if n == 0 {
		return
	}
	// Determine chunk size
	chunk := n / uint(runtime.NumCPU())
	if chunk == 0 {
		chunk = n
	}
	//
	for start := uint(0); start < n; start += chunk {
		end := min(start+chunk, n)
		//
		wg.Add(1)
		//
		go func(start, end uint) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					panicMu.Lock()
					panicked = r
					panicMu.Unlock()
				}
			}()
			fn(start, end)
		}(start, end)
	}
	// Wait for all chunks to complete
	wg.Wait()
	//
	if panicked != nil {
		panic(panicked)
	}
}

// ParMap applies fn to every item of a worklist in parallel, producing one
// result per item in the original order.
func ParMap[S, T any](worklist []S, fn func(S) T) []T {
	results := make([]T, len(worklist))
	//
	ParChunks(uint(len(worklist)), func(start, end uint) {
		for i := start; i < end; i++ {
			results[i] = fn(worklist[i])
		}
	})
	// Done
	return results
}
