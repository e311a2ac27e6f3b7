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
	"strconv"

	"github.com/gx-org/weakform/base/count"
	"github.com/gx-org/weakform/fem"
	"github.com/gx-org/weakform/form/formerr"
)

// Arguments and coefficients are numbered independently. The constant
// family shares the coefficient numbers.
var (
	argumentCounter    count.Counter
	coefficientCounter count.Counter
)

// countStr formats a numbered name, bracing counts longer than one character.
func countStr(prefix string, n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) == 1 {
		return prefix + "_" + s
	}
	return prefix + "_{" + s + "}"
}

// Argument is the placeholder for a basis function over an element. The test
// and trial functions of a form are the arguments numbered -2 and -1.
type Argument struct {
	element fem.Element
	count   int64
	repr    string
}

var _ Terminal = (*Argument)(nil)

// NewArgument returns an argument with the next free argument number.
func NewArgument(element fem.Element) *Argument {
	return NewArgumentWithCount(element, argumentCounter.Next())
}

// NewArgumentWithCount returns an argument with an explicit number.
func NewArgumentWithCount(element fem.Element, n int64) *Argument {
	argumentCounter.Observe(n)
	return &Argument{
		element: element,
		count:   n,
		repr:    fmt.Sprintf("Argument(%s, %d)", element, n),
	}
}

// TestFunction returns the test argument over an element.
func TestFunction(element fem.Element) *Argument {
	return NewArgumentWithCount(element, -2)
}

// TrialFunction returns the trial argument over an element.
func TrialFunction(element fem.Element) *Argument {
	return NewArgumentWithCount(element, -1)
}

func (*Argument) node()     {}
func (*Argument) terminal() {}

// Element returns the element the argument is defined over.
func (a *Argument) Element() fem.Element { return a.element }

// Count returns the argument number.
func (a *Argument) Count() int64 { return a.count }

// Reconstruct returns an argument over another element, reusing the receiver
// when the element is unchanged. The new element must preserve the value
// shape.
func (a *Argument) Reconstruct(element fem.Element) (*Argument, error) {
	if element.String() == a.element.String() {
		return a, nil
	}
	if !shapesEqual(element.ValueShape(), a.element.ValueShape()) {
		return nil, formerr.ShapeMismatchf("element %s has value shape %v but %s has value shape %v", element, element.ValueShape(), a.element, a.element.ValueShape())
	}
	return NewArgumentWithCount(element, a.count), nil
}

// Shape returns the value shape of the expression.
func (a *Argument) Shape() []int { return a.element.ValueShape() }

// FreeIndices returns the free indices of the expression.
func (a *Argument) FreeIndices() []Index { return nil }

// IndexDims returns the dimensions bound to the indices of the expression.
func (a *Argument) IndexDims() IndexDims { return nil }

// Domain returns the cell the expression is defined on.
func (a *Argument) Domain() fem.Cell { return a.element.Cell() }

// Operands returns the direct operands of the expression.
func (a *Argument) Operands() []Expr { return nil }

// Repr returns the canonical representation of the expression.
func (a *Argument) Repr() string { return a.repr }

// String returns the numbered name of the argument.
func (a *Argument) String() string { return countStr("v", a.count) }

// Coefficient is a field coefficient over an element. Unlike the constant
// family, a coefficient may vary over the domain.
type Coefficient struct {
	element fem.Element
	count   int64
	repr    string
}

var _ Terminal = (*Coefficient)(nil)

// NewCoefficient returns a coefficient with the next free coefficient number.
func NewCoefficient(element fem.Element) *Coefficient {
	return NewCoefficientWithCount(element, coefficientCounter.Next())
}

// NewCoefficientWithCount returns a coefficient with an explicit number.
func NewCoefficientWithCount(element fem.Element, n int64) *Coefficient {
	coefficientCounter.Observe(n)
	return &Coefficient{
		element: element,
		count:   n,
		repr:    fmt.Sprintf("Coefficient(%s, %d)", element, n),
	}
}

func (*Coefficient) node()     {}
func (*Coefficient) terminal() {}

// Element returns the element the coefficient is defined over.
func (c *Coefficient) Element() fem.Element { return c.element }

// Count returns the coefficient number.
func (c *Coefficient) Count() int64 { return c.count }

// Reconstruct returns a coefficient over another element, reusing the
// receiver when the element is unchanged. The new element must preserve the
// value shape.
func (c *Coefficient) Reconstruct(element fem.Element) (*Coefficient, error) {
	if element.String() == c.element.String() {
		return c, nil
	}
	if !shapesEqual(element.ValueShape(), c.element.ValueShape()) {
		return nil, formerr.ShapeMismatchf("element %s has value shape %v but %s has value shape %v", element, element.ValueShape(), c.element, c.element.ValueShape())
	}
	return NewCoefficientWithCount(element, c.count), nil
}

// Shape returns the value shape of the expression.
func (c *Coefficient) Shape() []int { return c.element.ValueShape() }

// FreeIndices returns the free indices of the expression.
func (c *Coefficient) FreeIndices() []Index { return nil }

// IndexDims returns the dimensions bound to the indices of the expression.
func (c *Coefficient) IndexDims() IndexDims { return nil }

// Domain returns the cell the expression is defined on.
func (c *Coefficient) Domain() fem.Cell { return c.element.Cell() }

// Operands returns the direct operands of the expression.
func (c *Coefficient) Operands() []Expr { return nil }

// Repr returns the canonical representation of the expression.
func (c *Coefficient) Repr() string { return c.repr }

// String returns the numbered name of the coefficient.
func (c *Coefficient) String() string { return countStr("w", c.count) }

type (
	// Constant is a scalar coefficient that does not vary over its domain.
	// It is defined over an implicit piecewise-constant element on the cell.
	Constant struct {
		element *fem.FiniteElement
		count   int64
		repr    string
	}

	// VectorConstant is a vector-valued constant coefficient.
	VectorConstant struct {
		element *fem.VectorElement
		count   int64
		repr    string
	}

	// TensorConstant is a tensor-valued constant coefficient.
	TensorConstant struct {
		element *fem.TensorElement
		count   int64
		repr    string
	}
)

var (
	_ Terminal = (*Constant)(nil)
	_ Terminal = (*VectorConstant)(nil)
	_ Terminal = (*TensorConstant)(nil)
)

// NewConstant returns a scalar constant on a cell.
func NewConstant(cell fem.Cell) *Constant {
	return NewConstantWithCount(cell, coefficientCounter.Next())
}

// NewConstantWithCount returns a scalar constant with an explicit number.
func NewConstantWithCount(cell fem.Cell, n int64) *Constant {
	coefficientCounter.Observe(n)
	return &Constant{
		element: fem.NewFiniteElement(fem.DiscontinuousLagrange, cell, 0),
		count:   n,
		repr:    fmt.Sprintf("Constant(%q, %d)", cell, n),
	}
}

func (*Constant) node()     {}
func (*Constant) terminal() {}

// Element returns the element the constant is defined over.
func (c *Constant) Element() fem.Element { return c.element }

// Count returns the coefficient number of the constant.
func (c *Constant) Count() int64 { return c.count }

// Shape returns the value shape of the expression.
func (c *Constant) Shape() []int { return nil }

// FreeIndices returns the free indices of the expression.
func (c *Constant) FreeIndices() []Index { return nil }

// IndexDims returns the dimensions bound to the indices of the expression.
func (c *Constant) IndexDims() IndexDims { return nil }

// Domain returns the cell the expression is defined on.
func (c *Constant) Domain() fem.Cell { return c.element.Cell() }

// Operands returns the direct operands of the expression.
func (c *Constant) Operands() []Expr { return nil }

// Repr returns the canonical representation of the expression.
func (c *Constant) Repr() string { return c.repr }

// String returns the numbered name of the constant.
func (c *Constant) String() string { return countStr("c", c.count) }

// NewVectorConstant returns a vector constant whose dimension is the spatial
// dimension of the cell.
func NewVectorConstant(cell fem.Cell) (*VectorConstant, error) {
	dim, err := fem.Dim(cell)
	if err != nil {
		return nil, err
	}
	return NewVectorConstantDim(cell, dim), nil
}

// NewVectorConstantDim returns a vector constant of an explicit dimension.
func NewVectorConstantDim(cell fem.Cell, dim int) *VectorConstant {
	return NewVectorConstantWithCount(cell, dim, coefficientCounter.Next())
}

// NewVectorConstantWithCount returns a vector constant with an explicit
// number.
func NewVectorConstantWithCount(cell fem.Cell, dim int, n int64) *VectorConstant {
	coefficientCounter.Observe(n)
	return &VectorConstant{
		element: fem.NewVectorElementDim(fem.DiscontinuousLagrange, cell, 0, dim),
		count:   n,
		repr:    fmt.Sprintf("VectorConstant(%q, %d, %d)", cell, dim, n),
	}
}

func (*VectorConstant) node()     {}
func (*VectorConstant) terminal() {}

// Element returns the element the constant is defined over.
func (c *VectorConstant) Element() fem.Element { return c.element }

// Count returns the coefficient number of the constant.
func (c *VectorConstant) Count() int64 { return c.count }

// Shape returns the value shape of the expression.
func (c *VectorConstant) Shape() []int { return c.element.ValueShape() }

// FreeIndices returns the free indices of the expression.
func (c *VectorConstant) FreeIndices() []Index { return nil }

// IndexDims returns the dimensions bound to the indices of the expression.
func (c *VectorConstant) IndexDims() IndexDims { return nil }

// Domain returns the cell the expression is defined on.
func (c *VectorConstant) Domain() fem.Cell { return c.element.Cell() }

// Operands returns the direct operands of the expression.
func (c *VectorConstant) Operands() []Expr { return nil }

// Repr returns the canonical representation of the expression.
func (c *VectorConstant) Repr() string { return c.repr }

// String returns the numbered name of the constant.
func (c *VectorConstant) String() string { return countStr("C", c.count) }

// NewTensorConstant returns a tensor constant of a value shape on a cell.
func NewTensorConstant(cell fem.Cell, shape []int, symmetric bool) *TensorConstant {
	return NewTensorConstantWithCount(cell, shape, symmetric, coefficientCounter.Next())
}

// NewTensorConstantWithCount returns a tensor constant with an explicit
// number.
func NewTensorConstantWithCount(cell fem.Cell, shape []int, symmetric bool, n int64) *TensorConstant {
	coefficientCounter.Observe(n)
	el := fem.NewTensorElementShape(fem.DiscontinuousLagrange, cell, 0, shape, symmetric)
	return &TensorConstant{
		element: el,
		count:   n,
		repr:    fmt.Sprintf("TensorConstant(%q, %v, %t, %d)", cell, el.ValueShape(), symmetric, n),
	}
}

func (*TensorConstant) node()     {}
func (*TensorConstant) terminal() {}

// Element returns the element the constant is defined over.
func (c *TensorConstant) Element() fem.Element { return c.element }

// Count returns the coefficient number of the constant.
func (c *TensorConstant) Count() int64 { return c.count }

// Shape returns the value shape of the expression.
func (c *TensorConstant) Shape() []int { return c.element.ValueShape() }

// FreeIndices returns the free indices of the expression.
func (c *TensorConstant) FreeIndices() []Index { return nil }

// IndexDims returns the dimensions bound to the indices of the expression.
func (c *TensorConstant) IndexDims() IndexDims { return nil }

// Domain returns the cell the expression is defined on.
func (c *TensorConstant) Domain() fem.Cell { return c.element.Cell() }

// Operands returns the direct operands of the expression.
func (c *TensorConstant) Operands() []Expr { return nil }

// Repr returns the canonical representation of the expression.
func (c *TensorConstant) Repr() string { return c.repr }

// String returns the numbered name of the constant.
func (c *TensorConstant) String() string { return countStr("C", c.count) }
