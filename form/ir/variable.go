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

package ir

import (
	"fmt"

	"github.com/gx-org/weakform/base/count"
	"github.com/gx-org/weakform/fem"
	"github.com/gx-org/weakform/form/formerr"
)

var variableCounter count.Counter

// Variable is a numbered binding of an expression, the target of variable
// differentiation. Its value is the value of the wrapped expression.
type Variable struct {
	expr  Expr
	count int64
	repr  string
}

var _ Expr = (*Variable)(nil)

// NewVariable returns a binding of an expression with the next free
// variable number.
func NewVariable(expr Expr) *Variable {
	return NewVariableWithCount(expr, variableCounter.Next())
}

// NewVariableWithCount returns a binding with an explicit number.
func NewVariableWithCount(expr Expr, n int64) *Variable {
	variableCounter.Observe(n)
	return &Variable{
		expr:  expr,
		count: n,
		repr:  fmt.Sprintf("Variable(%s, %d)", expr.Repr(), n),
	}
}

func (*Variable) node() {}

// Expression returns the bound expression.
func (v *Variable) Expression() Expr { return v.expr }

// Count returns the variable number.
func (v *Variable) Count() int64 { return v.count }

// Shape returns the value shape of the expression.
func (v *Variable) Shape() []int { return v.expr.Shape() }

// FreeIndices returns the free indices of the expression.
func (v *Variable) FreeIndices() []Index { return v.expr.FreeIndices() }

// IndexDims returns the dimensions bound to the indices of the expression.
func (v *Variable) IndexDims() IndexDims { return v.expr.IndexDims() }

// Domain returns the cell the expression is defined on.
func (v *Variable) Domain() fem.Cell { return v.expr.Domain() }

// Operands returns the direct operands of the expression.
func (v *Variable) Operands() []Expr { return []Expr{v.expr} }

// Repr returns the canonical representation of the expression.
func (v *Variable) Repr() string { return v.repr }

// String returns the numbered binding around the bound expression.
func (v *Variable) String() string {
	return fmt.Sprintf("%s(%s)", countStr("var", v.count), v.expr)
}

// Indexed is the value of an expression at a multi-index covering every
// axis of its value shape. The value is scalar; summation indices among the
// entries contract with the expression's own free indices as usual.
type Indexed struct {
	expr     Expr
	indices  *MultiIndex
	free     []Index
	repeated []Index
	dims     IndexDims
	repr     string
}

var _ Expr = (*Indexed)(nil)

// NewIndexed returns the value of an expression at a multi-index.
func NewIndexed(expr Expr, indices *MultiIndex) (*Indexed, error) {
	sh := expr.Shape()
	entries := indices.Entries()
	if len(entries) != len(sh) {
		return nil, formerr.Rankf("%s has rank %d but is indexed with %d indices", expr, len(sh), len(entries))
	}
	for pos, entry := range entries {
		fixed, ok := entry.(FixedIndex)
		if !ok {
			continue
		}
		if int(fixed) < 0 || int(fixed) >= sh[pos] {
			return nil, formerr.ShapeMismatchf("fixed index %d out of range for axis %d of dimension %d", int(fixed), pos, sh[pos])
		}
	}
	exprFree := expr.FreeIndices()
	exprDims := expr.IndexDims()
	combined := make([]IndexEntry, 0, len(exprFree)+len(entries))
	dims := make([]int, 0, len(exprFree)+len(entries))
	for _, i := range exprFree {
		combined = append(combined, i)
		dims = append(dims, exprDims[i])
	}
	combined = append(combined, entries...)
	dims = append(dims, sh...)
	ext, err := ExtractIndices(combined, dims)
	if err != nil {
		return nil, err
	}
	return &Indexed{
		expr:     expr,
		indices:  indices,
		free:     ext.Free,
		repeated: ext.Repeated,
		dims:     ext.Dims,
		repr:     fmt.Sprintf("Indexed(%s, %s)", expr.Repr(), indices.Repr()),
	}, nil
}

func (*Indexed) node() {}

// RepeatedIndices returns the summation indices of the expression, in
// first-occurrence order.
func (x *Indexed) RepeatedIndices() []Index { return x.repeated }

// Shape returns the value shape of the expression.
func (x *Indexed) Shape() []int { return nil }

// FreeIndices returns the free indices of the expression.
func (x *Indexed) FreeIndices() []Index { return x.free }

// IndexDims returns the dimensions bound to the indices of the expression.
func (x *Indexed) IndexDims() IndexDims { return x.dims }

// Domain returns the cell the expression is defined on.
func (x *Indexed) Domain() fem.Cell { return x.expr.Domain() }

// Operands returns the direct operands of the expression.
func (x *Indexed) Operands() []Expr { return []Expr{x.expr, x.indices} }

// Repr returns the canonical representation of the expression.
func (x *Indexed) Repr() string { return x.repr }

// String returns the indexed expression.
func (x *Indexed) String() string {
	return fmt.Sprintf("%s[%s]", x.expr, x.indices)
}

// CoefficientDerivative marks the derivative of an expression with respect
// to a coefficient, taken in a given direction. The node is a placeholder:
// expanding it into explicit derivative structure is a rewrite
// (see form/rewrite), and rewrites that cannot process the marker fail.
type CoefficientDerivative struct {
	f    Expr
	w    *Coefficient
	v    Expr
	repr string
}

var _ Expr = (*CoefficientDerivative)(nil)

// NewCoefficientDerivative returns the derivative marker of an expression
// with respect to a coefficient, in a direction of the coefficient's shape.
func NewCoefficientDerivative(f Expr, w *Coefficient, v Expr) (*CoefficientDerivative, error) {
	if !shapesEqual(v.Shape(), w.Shape()) {
		return nil, formerr.ShapeMismatchf("direction %s has shape %v but coefficient %s has shape %v", v, v.Shape(), w, w.Shape())
	}
	if len(v.FreeIndices()) > 0 {
		return nil, formerr.FreeIndexf("direction %s carries free indices %v", v, v.FreeIndices())
	}
	return &CoefficientDerivative{
		f:    f,
		w:    w,
		v:    v,
		repr: fmt.Sprintf("CoefficientDerivative(%s, %s, %s)", f.Repr(), w.Repr(), v.Repr()),
	}, nil
}

func (*CoefficientDerivative) node() {}

// Expression returns the differentiated expression.
func (cd *CoefficientDerivative) Expression() Expr { return cd.f }

// Coefficient returns the coefficient the derivative is taken with respect
// to.
func (cd *CoefficientDerivative) Coefficient() *Coefficient { return cd.w }

// Direction returns the direction the derivative is taken in.
func (cd *CoefficientDerivative) Direction() Expr { return cd.v }

// Shape returns the value shape of the expression.
func (cd *CoefficientDerivative) Shape() []int { return cd.f.Shape() }

// FreeIndices returns the free indices of the expression.
func (cd *CoefficientDerivative) FreeIndices() []Index { return cd.f.FreeIndices() }

// IndexDims returns the dimensions bound to the indices of the expression.
func (cd *CoefficientDerivative) IndexDims() IndexDims { return cd.f.IndexDims() }

// Domain returns the cell the expression is defined on.
func (cd *CoefficientDerivative) Domain() fem.Cell {
	return operandsDomain(cd.f, cd.w, cd.v)
}

// Operands returns the direct operands of the expression.
func (cd *CoefficientDerivative) Operands() []Expr { return []Expr{cd.f, cd.w, cd.v} }

// Repr returns the canonical representation of the expression.
func (cd *CoefficientDerivative) Repr() string { return cd.repr }

// String returns the derivative in differential notation.
func (cd *CoefficientDerivative) String() string {
	return fmt.Sprintf("(d[%s] / d[%s])[%s]", cd.f, cd.w, cd.v)
}
