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

	"github.com/gx-org/backend/dtype"

	"github.com/gx-org/weakform/fem"
)

// Zero is the literal zero value of a shape. A zero may carry free indices
// when it stands for a vanished expression that had them.
type Zero struct {
	shape []int
	free  []Index
	dims  IndexDims
	repr  string
}

var _ Terminal = (*Zero)(nil)

// NewZero returns the zero value of a shape.
func NewZero(shape []int) *Zero {
	z := &Zero{shape: copyShape(shape)}
	z.repr = fmt.Sprintf("Zero(%v)", z.shape)
	return z
}

// NewZeroIndexed returns a zero carrying free indices. dims must bind every
// free index to its dimension.
func NewZeroIndexed(shape []int, free []Index, dims IndexDims) *Zero {
	if len(free) == 0 {
		return NewZero(shape)
	}
	z := &Zero{shape: copyShape(shape), free: append([]Index{}, free...)}
	z.dims = make(IndexDims, len(free))
	for _, i := range z.free {
		z.dims[i] = dims[i]
	}
	z.repr = fmt.Sprintf("Zero(%v, %v, %s)", z.shape, z.free, z.dims)
	return z
}

func (*Zero) node()     {}
func (*Zero) terminal() {}

// Shape returns the value shape of the expression.
func (z *Zero) Shape() []int { return z.shape }

// FreeIndices returns the free indices of the expression.
func (z *Zero) FreeIndices() []Index { return z.free }

// IndexDims returns the dimensions bound to the indices of the expression.
func (z *Zero) IndexDims() IndexDims { return z.dims }

// Domain returns the cell the expression is defined on.
func (z *Zero) Domain() fem.Cell { return fem.NoCell }

// Operands returns the direct operands of the expression.
func (z *Zero) Operands() []Expr { return nil }

// Repr returns the canonical representation of the expression.
func (z *Zero) Repr() string { return z.repr }

// String returns the literal and, for tensors, its shape.
func (z *Zero) String() string {
	if len(z.shape) == 0 {
		return "0"
	}
	return fmt.Sprintf("0%v", z.shape)
}

// Identity is the identity tensor of a dimension, of shape (dim, dim).
type Identity struct {
	dim  int
	repr string
}

var _ Terminal = (*Identity)(nil)

// NewIdentity returns the identity tensor of a dimension.
func NewIdentity(dim int) *Identity {
	return &Identity{dim: dim, repr: fmt.Sprintf("Identity(%d)", dim)}
}

func (*Identity) node()     {}
func (*Identity) terminal() {}

// Dim returns the dimension of the identity tensor.
func (id *Identity) Dim() int { return id.dim }

// Shape returns the value shape of the expression.
func (id *Identity) Shape() []int { return []int{id.dim, id.dim} }

// FreeIndices returns the free indices of the expression.
func (id *Identity) FreeIndices() []Index { return nil }

// IndexDims returns the dimensions bound to the indices of the expression.
func (id *Identity) IndexDims() IndexDims { return nil }

// Domain returns the cell the expression is defined on.
func (id *Identity) Domain() fem.Cell { return fem.NoCell }

// Operands returns the direct operands of the expression.
func (id *Identity) Operands() []Expr { return nil }

// Repr returns the canonical representation of the expression.
func (id *Identity) Repr() string { return id.repr }

// String representation of the identity tensor.
func (id *Identity) String() string { return "I" }

type (
	// ScalarValue is a literal scalar of any data type.
	ScalarValue interface {
		Terminal
		// DType returns the data type of the literal value.
		DType() dtype.DataType
		scalarValue()
	}

	// ScalarValueT is a literal scalar of a Go data type.
	ScalarValueT[T dtype.GoDataType] struct {
		val  T
		repr string
	}
)

var _ ScalarValue = (*ScalarValueT[float64])(nil)

// NewScalarValue returns a literal scalar.
func NewScalarValue[T dtype.GoDataType](val T) *ScalarValueT[T] {
	return &ScalarValueT[T]{
		val:  val,
		repr: fmt.Sprintf("ScalarValue(%T, %v)", val, val),
	}
}

// FloatValue returns a float literal.
func FloatValue(val float64) *ScalarValueT[float64] {
	return NewScalarValue(val)
}

// IntValue returns an integer literal.
func IntValue(val int64) *ScalarValueT[int64] {
	return NewScalarValue(val)
}

func (*ScalarValueT[T]) node()        {}
func (*ScalarValueT[T]) terminal()    {}
func (*ScalarValueT[T]) scalarValue() {}

// Val returns the literal value.
func (s *ScalarValueT[T]) Val() T { return s.val }

// DType returns the data type of the literal value.
func (s *ScalarValueT[T]) DType() dtype.DataType { return dtype.Generic[T]() }

// Shape returns the value shape of the expression.
func (s *ScalarValueT[T]) Shape() []int { return nil }

// FreeIndices returns the free indices of the expression.
func (s *ScalarValueT[T]) FreeIndices() []Index { return nil }

// IndexDims returns the dimensions bound to the indices of the expression.
func (s *ScalarValueT[T]) IndexDims() IndexDims { return nil }

// Domain returns the cell the expression is defined on.
func (s *ScalarValueT[T]) Domain() fem.Cell { return fem.NoCell }

// Operands returns the direct operands of the expression.
func (s *ScalarValueT[T]) Operands() []Expr { return nil }

// Repr returns the canonical representation of the expression.
func (s *ScalarValueT[T]) Repr() string { return s.repr }

// String returns the literal value.
func (s *ScalarValueT[T]) String() string { return fmt.Sprint(s.val) }

// IsSpatiallyConstant reports whether an expression is guaranteed
// independent of spatial position. Field coefficients are not in this
// category: they may vary over the domain.
func IsSpatiallyConstant(x Expr) bool {
	switch x.(type) {
	case ScalarValue, *Zero, *Identity, *Constant, *VectorConstant, *TensorConstant:
		return true
	}
	return false
}
