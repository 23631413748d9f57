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
package assert

import (
	"reflect"
	"testing"
)

// Equal fails the test immediately if expected and actual differ.  Comparison
// is by reflect.DeepEqual, which covers the event structs and field elements
// used throughout this repository.  An optional format string and arguments
// can be supplied to provide additional context.
func Equal(t *testing.T, expected, actual any, msg ...any) {
	t.Helper()
	//
	if reflect.DeepEqual(expected, actual) {
		return
	}
	//
	t.Errorf("expected: %v, actual: %v", expected, actual)
	//
	if len(msg) != 0 {
		t.Errorf(msg[0].(string), msg[1:]...)
	}
	//
	t.FailNow()
}

// True fails the test immediately unless the given condition holds.
func True(t *testing.T, condition bool, msg ...any) {
	t.Helper()
	//
	if condition {
		return
	}
	//
	t.Errorf("expected condition to hold")
	//
	if len(msg) != 0 {
		t.Errorf(msg[0].(string), msg[1:]...)
	}
	//
	t.FailNow()
}

// False fails the test immediately if the given condition holds.
func False(t *testing.T, condition bool, msg ...any) {
	t.Helper()
	True(t, !condition, msg...)
}

// NoError fails the test immediately if err is non-nil.
func NoError(t *testing.T, err error) {
	t.Helper()
	//
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Error fails the test immediately if err is nil.
func Error(t *testing.T, err error) {
	t.Helper()
	//
	if err == nil {
		t.Fatal("expected an error")
	}
}

// Panics fails the test immediately unless the given function panics.
func Panics(t *testing.T, fn func()) {
	t.Helper()
	//
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	// Trigger the (expected) panic
	fn()
}
