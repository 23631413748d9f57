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
	"errors"
	"fmt"
)

// ErrCycleLimitExceeded is returned by Run when the configured cycle limit
// is reached before the program halts.  Unlike the program-fatal conditions
// (which panic), this is recoverable at the orchestration layer: the caller
// may retry with a larger limit.
var ErrCycleLimitExceeded = errors.New("cycle limit exceeded")

// ExitCodeError is returned by Run when the program halts with a nonzero
// exit code.
type ExitCodeError struct {
	Code uint32
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("program halted with exit code %d", e.Code)
}
