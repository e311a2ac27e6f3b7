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

// Package rewrite transforms weak-form expressions bottom-up.
//
// A Rewriter decides what happens at the terminals; compound nodes are
// rebuilt from their rewritten operands through the same constructors that
// built them, so every rewritten expression satisfies the node invariants.
// A subtree whose operands all come back untouched is returned as the same
// object, preserving sharing across the graph.
package rewrite

import (
	"github.com/pkg/errors"

	"github.com/gx-org/weakform/form/formerr"
	"github.com/gx-org/weakform/form/ir"
)

type (
	// Rewriter maps the terminals of an expression to replacements.
	Rewriter interface {
		// Terminal returns the replacement of a terminal node.
		// Returning the node itself leaves it untouched.
		Terminal(node ir.Terminal) (ir.Expr, error)
	}

	// CoefficientDerivativeRewriter is a Rewriter that additionally
	// processes coefficient derivative markers instead of having them
	// rebuilt from their operands.
	CoefficientDerivativeRewriter interface {
		Rewriter

		// CoefficientDerivative returns the replacement of a derivative
		// marker.
		CoefficientDerivative(node *ir.CoefficientDerivative) (ir.Expr, error)
	}
)

// mapper traverses one expression for one Map call.
type mapper struct {
	rw   Rewriter
	done map[string]ir.Expr
}

// Map rewrites an expression with a rewriter. A subexpression shared by
// several parents is visited once per call.
func Map(rw Rewriter, x ir.Expr) (ir.Expr, error) {
	m := &mapper{rw: rw, done: make(map[string]ir.Expr)}
	return m.visit(x)
}

func (m *mapper) visit(x ir.Expr) (ir.Expr, error) {
	if out, ok := m.done[x.Repr()]; ok {
		return out, nil
	}
	out, err := m.rewrite(x)
	if err != nil {
		return nil, err
	}
	m.done[x.Repr()] = out
	return out, nil
}

func (m *mapper) rewrite(x ir.Expr) (ir.Expr, error) {
	if term, ok := x.(ir.Terminal); ok {
		return m.rw.Terminal(term)
	}
	if cd, ok := x.(*ir.CoefficientDerivative); ok {
		if cdrw, ok := m.rw.(CoefficientDerivativeRewriter); ok {
			return cdrw.CoefficientDerivative(cd)
		}
	}
	ops := x.Operands()
	rewritten := make([]ir.Expr, len(ops))
	touched := false
	for i, op := range ops {
		out, err := m.visit(op)
		if err != nil {
			return nil, err
		}
		rewritten[i] = out
		if !ir.Equal(out, op) {
			touched = true
		}
	}
	if !touched {
		return x, nil
	}
	return reconstruct(x, rewritten)
}

// reconstruct rebuilds a compound node from rewritten operands, running the
// node's own validation again.
func reconstruct(x ir.Expr, ops []ir.Expr) (ir.Expr, error) {
	switch xT := x.(type) {
	case *ir.SpatialDerivative:
		indices, err := multiIndexOperand(ops[1])
		if err != nil {
			return nil, err
		}
		return ir.NewSpatialDerivative(ops[0], indices)
	case *ir.VariableDerivative:
		return ir.NewVariableDerivative(ops[0], ops[1])
	case *ir.Grad:
		return ir.NewGrad(ops[0])
	case *ir.Div:
		return ir.NewDiv(ops[0])
	case *ir.Curl:
		return ir.NewCurl(ops[0])
	case *ir.Rot:
		return ir.NewRot(ops[0])
	case *ir.Variable:
		return ir.NewVariableWithCount(ops[0], xT.Count()), nil
	case *ir.Indexed:
		indices, err := multiIndexOperand(ops[1])
		if err != nil {
			return nil, err
		}
		return ir.NewIndexed(ops[0], indices)
	case *ir.CoefficientDerivative:
		w, ok := ops[1].(*ir.Coefficient)
		if !ok {
			return nil, errors.Errorf("replacement %s of coefficient %s is not a coefficient", ops[1], xT.Coefficient())
		}
		return ir.NewCoefficientDerivative(ops[0], w, ops[2])
	default:
		return nil, formerr.Internalf("cannot rebuild node: %T not supported", x)
	}
}

func multiIndexOperand(op ir.Expr) (*ir.MultiIndex, error) {
	indices, ok := op.(*ir.MultiIndex)
	if !ok {
		return nil, errors.Errorf("replacement %s of a multi-index is not a multi-index", op)
	}
	return indices, nil
}
