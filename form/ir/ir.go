// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ir defines the expression nodes of finite-element weak forms.
//
// Expressions form an acyclic graph: a node references its operands and an
// operand may be shared by several parents. Nodes are immutable once
// constructed and identified by their canonical representation (Repr):
// two nodes are structurally equal iff their representations are equal.
// Smart constructors validate shapes, domains and index use at build time,
// so a node that exists satisfies its invariants.
package ir

import (
	"fmt"

	"github.com/gx-org/weakform/fem"
	"github.com/gx-org/weakform/form/formerr"
)

type (
	// Expr is a node of a weak-form expression.
	Expr interface {
		fmt.Stringer
		// Shape returns the value shape of the expression.
		// Free index dimensions are never part of the value shape.
		// Callers must not modify the returned slice.
		Shape() []int
		// FreeIndices returns the indices occurring exactly once in the
		// expression, in first-occurrence order.
		FreeIndices() []Index
		// IndexDims returns the dimension bound to each index of the
		// expression. Callers must not modify the returned map.
		IndexDims() IndexDims
		// Domain returns the cell the expression is defined on,
		// or fem.NoCell when the expression carries no domain.
		Domain() fem.Cell
		// Operands returns the direct operands of the expression.
		// Terminals return nil.
		Operands() []Expr
		// Repr returns the canonical representation identifying the
		// expression structurally.
		Repr() string
		node()
	}

	// Terminal is a leaf expression with no operands.
	Terminal interface {
		Expr
		terminal()
	}
)

// Equal reports whether two expressions are structurally equal.
func Equal(x, y Expr) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil {
		return false
	}
	return x.Repr() == y.Repr()
}

// Rank returns the number of axes of the expression value.
func Rank(x Expr) int {
	return len(x.Shape())
}

func shapesEqual(x, y []int) bool {
	if len(x) != len(y) {
		return false
	}
	for i, xi := range x {
		if xi != y[i] {
			return false
		}
	}
	return true
}

// subShape drops the leading axis of a shape. The shape of a scalar
// is returned unchanged.
func subShape(shape []int) []int {
	if len(shape) == 0 {
		return nil
	}
	return shape[1:]
}

// copyShape returns a copy of a shape, keeping nil for scalars.
func copyShape(shape []int) []int {
	if len(shape) == 0 {
		return nil
	}
	return append([]int{}, shape...)
}

// domainDim resolves the spatial dimension of the domain of an expression.
func domainDim(x Expr) (int, error) {
	cell := x.Domain()
	if cell == fem.NoCell {
		return 0, formerr.MissingDomainf("no domain attached to %s", x)
	}
	return fem.Dim(cell)
}

// operandsDomain returns the first domain found among the operands.
func operandsDomain(operands ...Expr) fem.Cell {
	for _, op := range operands {
		if cell := op.Domain(); cell != fem.NoCell {
			return cell
		}
	}
	return fem.NoCell
}
