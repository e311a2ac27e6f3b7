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

package fem

import "fmt"

// Common element families.
const (
	Lagrange              = "Lagrange"
	DiscontinuousLagrange = "Discontinuous Lagrange"
)

// Element is the metadata of a finite element. Elements are immutable and
// compared by their String form.
type Element interface {
	// ValueShape returns the value shape of the element at a point.
	// Callers must not modify the returned slice.
	ValueShape() []int
	// Cell returns the reference cell the element is defined on.
	Cell() Cell
	// String returns the canonical description of the element.
	String() string
}

type (
	// FiniteElement is a scalar element of a given family and polynomial
	// degree on a cell.
	FiniteElement struct {
		family string
		cell   Cell
		degree int
	}

	// VectorElement is a vector-valued element.
	VectorElement struct {
		family string
		cell   Cell
		degree int
		dim    int
	}

	// TensorElement is a tensor-valued element.
	TensorElement struct {
		family    string
		cell      Cell
		degree    int
		shape     []int
		symmetric bool
	}
)

var (
	_ Element = (*FiniteElement)(nil)
	_ Element = (*VectorElement)(nil)
	_ Element = (*TensorElement)(nil)
)

// NewFiniteElement returns a scalar element.
func NewFiniteElement(family string, cell Cell, degree int) *FiniteElement {
	return &FiniteElement{family: family, cell: cell, degree: degree}
}

// ValueShape returns the value shape of the element at a point.
func (e *FiniteElement) ValueShape() []int { return nil }

// Cell returns the reference cell the element is defined on.
func (e *FiniteElement) Cell() Cell { return e.cell }

// Family returns the element family.
func (e *FiniteElement) Family() string { return e.family }

// Degree returns the polynomial degree.
func (e *FiniteElement) Degree() int { return e.degree }

// String returns the canonical description of the element.
func (e *FiniteElement) String() string {
	return fmt.Sprintf("FiniteElement(%q, %q, %d)", e.family, e.cell, e.degree)
}

// NewVectorElement returns a vector element whose value dimension is the
// spatial dimension of the cell.
func NewVectorElement(family string, cell Cell, degree int) (*VectorElement, error) {
	dim, err := Dim(cell)
	if err != nil {
		return nil, err
	}
	return NewVectorElementDim(family, cell, degree, dim), nil
}

// NewVectorElementDim returns a vector element with an explicit value dimension.
func NewVectorElementDim(family string, cell Cell, degree, dim int) *VectorElement {
	return &VectorElement{family: family, cell: cell, degree: degree, dim: dim}
}

// ValueShape returns the value shape of the element at a point.
func (e *VectorElement) ValueShape() []int { return []int{e.dim} }

// Cell returns the reference cell the element is defined on.
func (e *VectorElement) Cell() Cell { return e.cell }

// Family returns the element family.
func (e *VectorElement) Family() string { return e.family }

// Degree returns the polynomial degree.
func (e *VectorElement) Degree() int { return e.degree }

// String returns the canonical description of the element.
func (e *VectorElement) String() string {
	return fmt.Sprintf("VectorElement(%q, %q, %d, %d)", e.family, e.cell, e.degree, e.dim)
}

// NewTensorElement returns a tensor element whose value shape is
// (dim, dim) on the element cell.
func NewTensorElement(family string, cell Cell, degree int, symmetric bool) (*TensorElement, error) {
	dim, err := Dim(cell)
	if err != nil {
		return nil, err
	}
	return NewTensorElementShape(family, cell, degree, []int{dim, dim}, symmetric), nil
}

// NewTensorElementShape returns a tensor element with an explicit value shape.
func NewTensorElementShape(family string, cell Cell, degree int, shape []int, symmetric bool) *TensorElement {
	return &TensorElement{
		family:    family,
		cell:      cell,
		degree:    degree,
		shape:     append([]int{}, shape...),
		symmetric: symmetric,
	}
}

// ValueShape returns the value shape of the element at a point.
// Callers must not modify the returned slice.
func (e *TensorElement) ValueShape() []int { return e.shape }

// Cell returns the reference cell the element is defined on.
func (e *TensorElement) Cell() Cell { return e.cell }

// Family returns the element family.
func (e *TensorElement) Family() string { return e.family }

// Degree returns the polynomial degree.
func (e *TensorElement) Degree() int { return e.degree }

// Symmetric returns true if the element value is a symmetric tensor.
func (e *TensorElement) Symmetric() bool { return e.symmetric }

// String returns the canonical description of the element.
func (e *TensorElement) String() string {
	return fmt.Sprintf("TensorElement(%q, %q, %d, %v, %t)", e.family, e.cell, e.degree, e.shape, e.symmetric)
}
