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

package rewrite

import (
	"github.com/gx-org/weakform/form/formerr"
	"github.com/gx-org/weakform/form/ir"
)

// HasCoefficientDerivative reports whether a coefficient derivative marker
// occurs anywhere in an expression.
func HasCoefficientDerivative(x ir.Expr) bool {
	return scanCoefficientDerivative(x, make(map[string]bool))
}

func scanCoefficientDerivative(x ir.Expr, seen map[string]bool) bool {
	if seen[x.Repr()] {
		return false
	}
	seen[x.Repr()] = true
	if _, ok := x.(*ir.CoefficientDerivative); ok {
		return true
	}
	for _, op := range x.Operands() {
		if scanCoefficientDerivative(op, seen) {
			return true
		}
	}
	return false
}

// expander replaces derivative markers bottom-up for one expansion call.
type expander struct {
	done map[string]ir.Expr
}

// ExpandCoefficientDerivatives replaces every coefficient derivative marker
// of an expression with explicit derivative structure. Nested markers
// expand innermost first.
func ExpandCoefficientDerivatives(x ir.Expr) (ir.Expr, error) {
	e := &expander{done: make(map[string]ir.Expr)}
	return e.visit(x)
}

func (e *expander) visit(x ir.Expr) (ir.Expr, error) {
	if out, ok := e.done[x.Repr()]; ok {
		return out, nil
	}
	out, err := e.expand(x)
	if err != nil {
		return nil, err
	}
	e.done[x.Repr()] = out
	return out, nil
}

func (e *expander) expand(x ir.Expr) (ir.Expr, error) {
	if _, ok := x.(ir.Terminal); ok {
		return x, nil
	}
	if cd, ok := x.(*ir.CoefficientDerivative); ok {
		f, err := e.visit(cd.Expression())
		if err != nil {
			return nil, err
		}
		return differentiate(f, cd.Coefficient(), cd.Direction())
	}
	ops := x.Operands()
	expanded := make([]ir.Expr, len(ops))
	touched := false
	for i, op := range ops {
		out, err := e.visit(op)
		if err != nil {
			return nil, err
		}
		expanded[i] = out
		if !ir.Equal(out, op) {
			touched = true
		}
	}
	if !touched {
		return x, nil
	}
	return reconstruct(x, expanded)
}

// differentiate returns the derivative of f with respect to the coefficient
// w in direction v. f contains no derivative marker. Every compound in the
// node set is linear in its value operand, so the derivative commutes with
// the node: differentiate the operand, then rebuild, or collapse to zero
// when the operand derivative vanishes.
func differentiate(f ir.Expr, w *ir.Coefficient, v ir.Expr) (ir.Expr, error) {
	if term, ok := f.(ir.Terminal); ok {
		if ir.Equal(term, w) {
			return v, nil
		}
		return ir.NewZeroIndexed(f.Shape(), f.FreeIndices(), f.IndexDims()), nil
	}
	if vr, ok := f.(*ir.Variable); ok {
		// The derivative is generally not the bound expression, so the
		// binding does not survive differentiation.
		return differentiate(vr.Expression(), w, v)
	}
	switch f.(type) {
	case *ir.SpatialDerivative, *ir.VariableDerivative, *ir.Grad, *ir.Div, *ir.Curl, *ir.Rot, *ir.Indexed:
	default:
		return nil, formerr.Internalf("cannot differentiate node: %T not supported", f)
	}
	ops := append([]ir.Expr{}, f.Operands()...)
	df, err := differentiate(ops[0], w, v)
	if err != nil {
		return nil, err
	}
	if _, vanished := df.(*ir.Zero); vanished {
		return ir.NewZeroIndexed(f.Shape(), f.FreeIndices(), f.IndexDims()), nil
	}
	ops[0] = df
	return reconstruct(f, ops)
}
