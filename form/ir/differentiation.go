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

	"github.com/pkg/errors"

	"github.com/gx-org/weakform/fem"
	"github.com/gx-org/weakform/form/formerr"
)

// selfPaired reports whether every summation index among the entries occurs
// exactly twice.
func selfPaired(entries []IndexEntry) bool {
	counts := make(map[Index]int)
	for _, entry := range entries {
		if idx, ok := entry.(Index); ok {
			counts[idx]++
		}
	}
	for _, n := range counts {
		if n != 2 {
			return false
		}
	}
	return true
}

// sameIndexSet reports whether two index lists cover the same set of
// indices, ignoring order and repetition.
func sameIndexSet(a, b []Index) bool {
	as := make(map[Index]bool, len(a))
	for _, i := range a {
		as[i] = true
	}
	bs := make(map[Index]bool, len(b))
	for _, i := range b {
		bs[i] = true
	}
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !bs[i] {
			return false
		}
	}
	return true
}

// SpatialDerivative is the partial derivative of an expression in the
// spatial directions named by a multi-index. An index repeated within the
// multi-index, or against a free index of the expression, contracts by
// summation.
type SpatialDerivative struct {
	expr     Expr
	indices  *MultiIndex
	free     []Index
	repeated []Index
	dims     IndexDims
	repr     string
}

var _ Expr = (*SpatialDerivative)(nil)

// NewSpatialDerivative returns the derivative of an expression in the
// spatial directions of a multi-index. Differentiating a spatially constant
// terminal with entirely self-paired indices collapses to zero.
func NewSpatialDerivative(expr Expr, indices *MultiIndex) (Expr, error) {
	if IsSpatiallyConstant(expr) && selfPaired(indices.Entries()) {
		return NewZero(expr.Shape()), nil
	}
	dx, err := ExtractIndices(indices.Entries(), nil)
	if err != nil {
		return nil, err
	}
	dim, err := domainDim(expr)
	if err != nil {
		return nil, err
	}
	exprFree := expr.FreeIndices()
	exprDims := expr.IndexDims()
	combined := make([]IndexEntry, 0, len(exprFree)+len(dx.Free))
	dims := make([]int, 0, len(exprFree)+len(dx.Free))
	for _, i := range exprFree {
		combined = append(combined, i)
		dims = append(dims, exprDims[i])
	}
	for _, i := range dx.Free {
		combined = append(combined, i)
		dims = append(dims, dim)
	}
	ext, err := ExtractIndices(combined, dims)
	if err != nil {
		return nil, err
	}
	return &SpatialDerivative{
		expr:     expr,
		indices:  indices,
		free:     ext.Free,
		repeated: ext.Repeated,
		dims:     ext.Dims,
		repr:     fmt.Sprintf("SpatialDerivative(%s, %s)", expr.Repr(), indices.Repr()),
	}, nil
}

func (*SpatialDerivative) node() {}

// Indices returns the differentiation multi-index.
func (d *SpatialDerivative) Indices() *MultiIndex { return d.indices }

// RepeatedIndices returns the summation indices of the expression, in
// first-occurrence order.
func (d *SpatialDerivative) RepeatedIndices() []Index { return d.repeated }

// Shape returns the value shape of the expression.
func (d *SpatialDerivative) Shape() []int { return d.expr.Shape() }

// FreeIndices returns the free indices of the expression.
func (d *SpatialDerivative) FreeIndices() []Index { return d.free }

// IndexDims returns the dimensions bound to the indices of the expression.
func (d *SpatialDerivative) IndexDims() IndexDims { return d.dims }

// Domain returns the cell the expression is defined on.
func (d *SpatialDerivative) Domain() fem.Cell { return d.expr.Domain() }

// Operands returns the direct operands of the expression.
func (d *SpatialDerivative) Operands() []Expr { return []Expr{d.expr, d.indices} }

// Repr returns the canonical representation of the expression.
func (d *SpatialDerivative) Repr() string { return d.repr }

// String returns the derivative in differential notation.
func (d *SpatialDerivative) String() string {
	return fmt.Sprintf("(d[%s] / dx_%s)", d.expr, d.indices)
}

// VariableDerivative is the derivative of an expression with respect to a
// bound variable, or to an indexed access into one.
type VariableDerivative struct {
	f     Expr
	v     Expr
	free  []Index
	dims  IndexDims
	shape []int
	repr  string
}

var _ Expr = (*VariableDerivative)(nil)

// NewVariableDerivative returns the derivative of f with respect to v.
// A terminal f that is not itself a variable cannot depend on v: when the
// free index sets of the two coincide, the derivative collapses to zero.
func NewVariableDerivative(f, v Expr) (Expr, error) {
	if _, isVariable := f.(*Variable); !isVariable {
		if _, isTerminal := f.(Terminal); isTerminal && sameIndexSet(f.FreeIndices(), v.FreeIndices()) {
			return NewZero(f.Shape()), nil
		}
	}
	switch vT := v.(type) {
	case *Variable:
	case *Indexed:
		if _, ok := vT.expr.(*Variable); !ok {
			return nil, errors.Errorf("can only differentiate with respect to a variable or an indexed variable, got %s", v)
		}
	default:
		return nil, errors.Errorf("can only differentiate with respect to a variable or an indexed variable, got %s", v)
	}
	fFree, vFree := f.FreeIndices(), v.FreeIndices()
	for _, fi := range fFree {
		for _, vi := range vFree {
			if fi == vi {
				return nil, formerr.IndexArityf("index %s is free in both %s and %s", fi, f, v)
			}
		}
	}
	free := make([]Index, 0, len(fFree)+len(vFree))
	free = append(append(free, fFree...), vFree...)
	dims := make(IndexDims, len(f.IndexDims())+len(v.IndexDims()))
	for i, d := range f.IndexDims() {
		dims[i] = d
	}
	for i, d := range v.IndexDims() {
		dims[i] = d
	}
	shape := make([]int, 0, len(f.Shape())+len(v.Shape()))
	shape = append(shape, f.Shape()...)
	shape = append(shape, v.Shape()...)
	return &VariableDerivative{
		f:     f,
		v:     v,
		free:  free,
		dims:  dims,
		shape: copyShape(shape),
		repr:  fmt.Sprintf("VariableDerivative(%s, %s)", f.Repr(), v.Repr()),
	}, nil
}

func (*VariableDerivative) node() {}

// Shape returns the value shape of the expression.
func (d *VariableDerivative) Shape() []int { return d.shape }

// FreeIndices returns the free indices of the expression.
func (d *VariableDerivative) FreeIndices() []Index { return d.free }

// IndexDims returns the dimensions bound to the indices of the expression.
func (d *VariableDerivative) IndexDims() IndexDims { return d.dims }

// Domain returns the cell the expression is defined on.
func (d *VariableDerivative) Domain() fem.Cell { return operandsDomain(d.f, d.v) }

// Operands returns the direct operands of the expression.
func (d *VariableDerivative) Operands() []Expr { return []Expr{d.f, d.v} }

// Repr returns the canonical representation of the expression.
func (d *VariableDerivative) Repr() string { return d.repr }

// String returns the derivative in differential notation.
func (d *VariableDerivative) String() string {
	return fmt.Sprintf("(d[%s] / d[%s])", d.f, d.v)
}

// Grad is the spatial gradient of an expression, prepending the spatial
// dimension to the value shape.
type Grad struct {
	f     Expr
	shape []int
	repr  string
}

var _ Expr = (*Grad)(nil)

// NewGrad returns the spatial gradient of an expression. The gradient of a
// spatially constant expression collapses to zero; either way the
// expression needs a domain.
func NewGrad(f Expr) (Expr, error) {
	dim, err := domainDim(f)
	if err != nil {
		return nil, err
	}
	if IsSpatiallyConstant(f) {
		return NewZero(append([]int{dim}, f.Shape()...)), nil
	}
	if len(f.FreeIndices()) > 0 {
		return nil, formerr.FreeIndexf("cannot take the gradient of %s: free indices %v", f, f.FreeIndices())
	}
	return &Grad{
		f:     f,
		shape: append([]int{dim}, f.Shape()...),
		repr:  fmt.Sprintf("Grad(%s)", f.Repr()),
	}, nil
}

func (*Grad) node() {}

// Shape returns the value shape of the expression.
func (g *Grad) Shape() []int { return g.shape }

// FreeIndices returns the free indices of the expression.
func (g *Grad) FreeIndices() []Index { return g.f.FreeIndices() }

// IndexDims returns the dimensions bound to the indices of the expression.
func (g *Grad) IndexDims() IndexDims { return g.f.IndexDims() }

// Domain returns the cell the expression is defined on.
func (g *Grad) Domain() fem.Cell { return g.f.Domain() }

// Operands returns the direct operands of the expression.
func (g *Grad) Operands() []Expr { return []Expr{g.f} }

// Repr returns the canonical representation of the expression.
func (g *Grad) Repr() string { return g.repr }

// String returns the gradient in operator notation.
func (g *Grad) String() string { return fmt.Sprintf("grad(%s)", g.f) }

// Div is the divergence of an expression, dropping the leading axis of the
// value shape.
type Div struct {
	f    Expr
	repr string
}

var _ Expr = (*Div)(nil)

// NewDiv returns the divergence of an expression. The divergence of a
// spatially constant expression collapses to zero before any rank check.
func NewDiv(f Expr) (Expr, error) {
	if IsSpatiallyConstant(f) {
		return NewZero(subShape(f.Shape())), nil
	}
	if Rank(f) < 1 {
		return nil, formerr.Rankf("cannot take the divergence of the scalar %s", f)
	}
	if len(f.FreeIndices()) > 0 {
		return nil, formerr.FreeIndexf("cannot take the divergence of %s: free indices %v", f, f.FreeIndices())
	}
	return &Div{f: f, repr: fmt.Sprintf("Div(%s)", f.Repr())}, nil
}

func (*Div) node() {}

// Shape returns the value shape of the expression.
func (d *Div) Shape() []int { return subShape(d.f.Shape()) }

// FreeIndices returns the free indices of the expression.
func (d *Div) FreeIndices() []Index { return d.f.FreeIndices() }

// IndexDims returns the dimensions bound to the indices of the expression.
func (d *Div) IndexDims() IndexDims { return d.f.IndexDims() }

// Domain returns the cell the expression is defined on.
func (d *Div) Domain() fem.Cell { return d.f.Domain() }

// Operands returns the direct operands of the expression.
func (d *Div) Operands() []Expr { return []Expr{d.f} }

// Repr returns the canonical representation of the expression.
func (d *Div) Repr() string { return d.repr }

// String returns the divergence in operator notation.
func (d *Div) String() string { return fmt.Sprintf("div(%s)", d.f) }

// Curl is the curl of a vector expression over the spatial dimension of its
// domain.
type Curl struct {
	f    Expr
	dim  int
	repr string
}

var _ Expr = (*Curl)(nil)

// NewCurl returns the curl of a vector expression. The operand value must
// be a vector of the spatial dimension.
//
// TODO: fold spatially constant operands to zero like Grad and Div do;
// downstream consumers still expect the unsimplified node.
func NewCurl(f Expr) (Expr, error) {
	dim, err := domainDim(f)
	if err != nil {
		return nil, err
	}
	if !shapesEqual(f.Shape(), []int{dim}) {
		return nil, formerr.Rankf("curl needs a vector of dimension %d, got %s of shape %v", dim, f, f.Shape())
	}
	if len(f.FreeIndices()) > 0 {
		return nil, formerr.FreeIndexf("cannot take the curl of %s: free indices %v", f, f.FreeIndices())
	}
	return &Curl{f: f, dim: dim, repr: fmt.Sprintf("Curl(%s)", f.Repr())}, nil
}

func (*Curl) node() {}

// Shape returns the value shape of the expression.
func (c *Curl) Shape() []int { return []int{c.dim} }

// FreeIndices returns the free indices of the expression.
func (c *Curl) FreeIndices() []Index { return c.f.FreeIndices() }

// IndexDims returns the dimensions bound to the indices of the expression.
func (c *Curl) IndexDims() IndexDims { return c.f.IndexDims() }

// Domain returns the cell the expression is defined on.
func (c *Curl) Domain() fem.Cell { return c.f.Domain() }

// Operands returns the direct operands of the expression.
func (c *Curl) Operands() []Expr { return []Expr{c.f} }

// Repr returns the canonical representation of the expression.
func (c *Curl) Repr() string { return c.repr }

// String returns the curl in operator notation.
func (c *Curl) String() string { return fmt.Sprintf("curl(%s)", c.f) }

// Rot is the scalar rotation of a vector expression.
type Rot struct {
	f    Expr
	repr string
}

var _ Expr = (*Rot)(nil)

// NewRot returns the rotation of a vector expression. The operand value
// must be a vector of the spatial dimension; the result is scalar.
//
// TODO: same zero folding gap as Curl.
func NewRot(f Expr) (Expr, error) {
	dim, err := domainDim(f)
	if err != nil {
		return nil, err
	}
	if !shapesEqual(f.Shape(), []int{dim}) {
		return nil, formerr.Rankf("rot needs a vector of dimension %d, got %s of shape %v", dim, f, f.Shape())
	}
	if len(f.FreeIndices()) > 0 {
		return nil, formerr.FreeIndexf("cannot take the rot of %s: free indices %v", f, f.FreeIndices())
	}
	return &Rot{f: f, repr: fmt.Sprintf("Rot(%s)", f.Repr())}, nil
}

func (*Rot) node() {}

// Shape returns the value shape of the expression.
func (r *Rot) Shape() []int { return nil }

// FreeIndices returns the free indices of the expression.
func (r *Rot) FreeIndices() []Index { return r.f.FreeIndices() }

// IndexDims returns the dimensions bound to the indices of the expression.
func (r *Rot) IndexDims() IndexDims { return r.f.IndexDims() }

// Domain returns the cell the expression is defined on.
func (r *Rot) Domain() fem.Cell { return r.f.Domain() }

// Operands returns the direct operands of the expression.
func (r *Rot) Operands() []Expr { return []Expr{r.f} }

// Repr returns the canonical representation of the expression.
func (r *Rot) Repr() string { return r.repr }

// String returns the rot in operator notation.
func (r *Rot) String() string { return fmt.Sprintf("rot(%s)", r.f) }
