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

package air

import (
	"fmt"

	"github.com/consensys/go-rivet/pkg/field/babybear"
)

// Builder is the surface against which chips express their constraints and
// lookups.  A chip's Eval method is written once against this interface and
// then driven by different implementations: RowBuilder checks constraints
// concretely against trace rows, whilst InteractionBuilder merely collects
// the bus traffic for the global lookup argument.
type Builder interface {
	// AssertZero requires the expression to vanish on every applicable row.
	AssertZero(e Expr)
	// AssertEq requires two expressions to agree.
	AssertEq(lhs, rhs Expr)
	// AssertBool requires the expression to be zero or one.
	AssertBool(e Expr)
	// AssertEqWord requires two words to agree limbwise.
	AssertEqWord(lhs, rhs Word[Expr])
	// When returns a builder whose assertions only apply on rows where the
	// (boolean) condition holds.
	When(cond Expr) Builder
	// WhenTransition returns a builder whose assertions exclude the final
	// row, where the next-row view wraps around.
	WhenTransition() Builder
	// WhenFirstRow returns a builder whose assertions apply on the first row
	// only.
	WhenFirstRow() Builder
	// WhenLastRow returns a builder whose assertions apply on the final row
	// only.
	WhenLastRow() Builder
	// Send emits values on the given bus with the given multiplicity.
	Send(bus Bus, multiplicity Expr, values ...Expr)
	// Receive absorbs values from the given bus with the given multiplicity.
	Receive(bus Bus, multiplicity Expr, values ...Expr)
}

// rowFilter restricts a constraint to a subset of trace rows.
type rowFilter uint8

const (
	allRows rowFilter = iota
	transitionRows
	firstRowOnly
	lastRowOnly
)

// ============================================================================
// Concrete row evaluation
// ============================================================================

// RowBuilder evaluates constraints immediately against one concrete pair of
// adjacent trace rows, accumulating an error for every violation.
type RowBuilder struct {
	local   []babybear.Element
	next    []babybear.Element
	isFirst bool
	isLast  bool
	// cond is the accumulated guard under which assertions apply, or nil
	// when unguarded.
	cond   Expr
	filter rowFilter
	// failures is shared between a root builder and its guarded children.
	failures *[]error
}

// NewRowBuilder constructs a builder over the given pair of adjacent rows.
func NewRowBuilder(local, next []babybear.Element, isFirst, isLast bool) *RowBuilder {
	return &RowBuilder{
		local: local, next: next,
		isFirst: isFirst, isLast: isLast,
		failures: new([]error),
	}
}

// Failures returns all constraint violations observed on this row.
func (b *RowBuilder) Failures() []error {
	return *b.failures
}

// AssertZero implementation for Builder interface.
func (b *RowBuilder) AssertZero(e Expr) {
	if !b.applicable() {
		return
	}
	//
	guarded := e
	if b.cond != nil {
		guarded = Mul(b.cond, e)
	}
	//
	if !guarded.Eval(b.local, b.next).IsZero() {
		*b.failures = append(*b.failures, fmt.Errorf("constraint %s != 0", guarded))
	}
}

// AssertEq implementation for Builder interface.
func (b *RowBuilder) AssertEq(lhs, rhs Expr) {
	b.AssertZero(Sub(lhs, rhs))
}

// AssertBool implementation for Builder interface.
func (b *RowBuilder) AssertBool(e Expr) {
	b.AssertZero(Mul(e, Sub(e, One())))
}

// AssertEqWord implementation for Builder interface.
func (b *RowBuilder) AssertEqWord(lhs, rhs Word[Expr]) {
	for i := range lhs {
		b.AssertEq(lhs[i], rhs[i])
	}
}

// When implementation for Builder interface.
func (b *RowBuilder) When(cond Expr) Builder {
	child := *b
	//
	if b.cond == nil {
		child.cond = cond
	} else {
		child.cond = Mul(b.cond, cond)
	}
	//
	return &child
}

// WhenTransition implementation for Builder interface.
func (b *RowBuilder) WhenTransition() Builder {
	child := *b
	child.filter = transitionRows
	//
	return &child
}

// WhenFirstRow implementation for Builder interface.
func (b *RowBuilder) WhenFirstRow() Builder {
	child := *b
	child.filter = firstRowOnly
	//
	return &child
}

// WhenLastRow implementation for Builder interface.
func (b *RowBuilder) WhenLastRow() Builder {
	child := *b
	child.filter = lastRowOnly
	//
	return &child
}

// Send implementation for Builder interface.  Bus traffic is checked
// globally by the interaction collector, not row by row.
func (b *RowBuilder) Send(bus Bus, multiplicity Expr, values ...Expr) {}

// Receive implementation for Builder interface.
func (b *RowBuilder) Receive(bus Bus, multiplicity Expr, values ...Expr) {}

func (b *RowBuilder) applicable() bool {
	switch b.filter {
	case transitionRows:
		return !b.isLast
	case firstRowOnly:
		return b.isFirst
	case lastRowOnly:
		return b.isLast
	default:
		return true
	}
}

// ============================================================================
// Interaction collection
// ============================================================================

// InteractionBuilder records the bus traffic a chip declares, ignoring its
// vanishing constraints.  A chip's Eval is driven once against this builder
// and the collected interactions are then evaluated per trace row.
type InteractionBuilder struct {
	cond         Expr
	interactions *[]Interaction
}

// NewInteractionBuilder constructs an empty interaction collector.
func NewInteractionBuilder() *InteractionBuilder {
	return &InteractionBuilder{interactions: new([]Interaction)}
}

// Interactions returns all collected bus traffic.
func (b *InteractionBuilder) Interactions() []Interaction {
	return *b.interactions
}

// AssertZero implementation for Builder interface.
func (b *InteractionBuilder) AssertZero(e Expr) {}

// AssertEq implementation for Builder interface.
func (b *InteractionBuilder) AssertEq(lhs, rhs Expr) {}

// AssertBool implementation for Builder interface.
func (b *InteractionBuilder) AssertBool(e Expr) {}

// AssertEqWord implementation for Builder interface.
func (b *InteractionBuilder) AssertEqWord(lhs, rhs Word[Expr]) {}

// When implementation for Builder interface.  Guards scale the multiplicity
// of any interaction declared beneath them.
func (b *InteractionBuilder) When(cond Expr) Builder {
	child := *b
	//
	if b.cond == nil {
		child.cond = cond
	} else {
		child.cond = Mul(b.cond, cond)
	}
	//
	return &child
}

// WhenTransition implementation for Builder interface.
func (b *InteractionBuilder) WhenTransition() Builder {
	return b
}

// WhenFirstRow implementation for Builder interface.
func (b *InteractionBuilder) WhenFirstRow() Builder {
	return b
}

// WhenLastRow implementation for Builder interface.
func (b *InteractionBuilder) WhenLastRow() Builder {
	return b
}

// Send implementation for Builder interface.
func (b *InteractionBuilder) Send(bus Bus, multiplicity Expr, values ...Expr) {
	b.record(bus, multiplicity, values, true)
}

// Receive implementation for Builder interface.
func (b *InteractionBuilder) Receive(bus Bus, multiplicity Expr, values ...Expr) {
	b.record(bus, multiplicity, values, false)
}

func (b *InteractionBuilder) record(bus Bus, multiplicity Expr, values []Expr, isSend bool) {
	if b.cond != nil {
		multiplicity = Mul(b.cond, multiplicity)
	}
	//
	*b.interactions = append(*b.interactions, Interaction{
		Bus: bus, Values: values, Multiplicity: multiplicity, IsSend: isSend,
	})
}
