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

// Package weakform builds symbolic finite-element weak forms.
//
// A weak form is an immutable expression graph over placeholders: arguments
// (test and trial functions), field coefficients, and constants, combined by
// differentiation operators with Einstein index notation. The package
// validates shapes, domains and index use at construction time and keeps
// structurally equal subexpressions shareable, so downstream passes can
// traverse a form once per distinct node.
//
// Expression nodes live in form/ir, traversals in form/rewrite, and element
// metadata in fem. This package is the construction surface over the three.
package weakform

import (
	"github.com/gx-org/weakform/fem"
	"github.com/gx-org/weakform/form/ir"
	"github.com/gx-org/weakform/form/rewrite"
)

type (
	// Expr is a node of a weak-form expression.
	Expr = ir.Expr

	// Terminal is a leaf expression with no operands.
	Terminal = ir.Terminal

	// Index is a symbolic summation index.
	Index = ir.Index

	// IndexEntry is an entry of a multi-index: an Index or a FixedIndex.
	IndexEntry = ir.IndexEntry

	// FixedIndex is a concrete non-summed slot in a multi-index.
	FixedIndex = ir.FixedIndex

	// Replacements is an ordered mapping from terminals to substitutes.
	Replacements = rewrite.Replacements
)

// TestFunction returns the test argument over an element.
func TestFunction(element fem.Element) *ir.Argument {
	return ir.TestFunction(element)
}

// TrialFunction returns the trial argument over an element.
func TrialFunction(element fem.Element) *ir.Argument {
	return ir.TrialFunction(element)
}

// Argument returns an argument over an element with the next free argument
// number.
func Argument(element fem.Element) *ir.Argument {
	return ir.NewArgument(element)
}

// Coefficient returns a field coefficient over an element.
func Coefficient(element fem.Element) *ir.Coefficient {
	return ir.NewCoefficient(element)
}

// Constant returns a scalar constant coefficient on a cell.
func Constant(cell fem.Cell) *ir.Constant {
	return ir.NewConstant(cell)
}

// VectorConstant returns a vector constant coefficient of a dimension on a
// cell.
func VectorConstant(cell fem.Cell, dim int) *ir.VectorConstant {
	return ir.NewVectorConstantDim(cell, dim)
}

// TensorConstant returns a tensor constant coefficient of a value shape on
// a cell.
func TensorConstant(cell fem.Cell, shape []int, symmetric bool) *ir.TensorConstant {
	return ir.NewTensorConstant(cell, shape, symmetric)
}

// Zero returns the literal zero of a shape.
func Zero(shape ...int) *ir.Zero {
	return ir.NewZero(shape)
}

// Identity returns the identity tensor of a dimension.
func Identity(dim int) *ir.Identity {
	return ir.NewIdentity(dim)
}

// FloatValue returns a float literal.
func FloatValue(val float64) Expr {
	return ir.FloatValue(val)
}

// IntValue returns an integer literal.
func IntValue(val int64) Expr {
	return ir.IntValue(val)
}

// NewIndex returns a fresh summation index, distinct from every other
// index.
func NewIndex() Index {
	return ir.NewIndex()
}

// Indices returns n fresh summation indices.
func Indices(n int) []Index {
	return ir.NewIndices(n)
}

// Variable returns a numbered binding of an expression, the target of Diff.
func Variable(expr Expr) *ir.Variable {
	return ir.NewVariable(expr)
}

// At returns the value of an expression at a multi-index covering every
// axis of its value shape.
func At(expr Expr, entries ...IndexEntry) (Expr, error) {
	return ir.NewIndexed(expr, ir.NewMultiIndex(entries...))
}

// Dx returns the derivative of an expression in the spatial directions
// named by index entries. A repeated index contracts by summation.
func Dx(expr Expr, entries ...IndexEntry) (Expr, error) {
	return ir.NewSpatialDerivative(expr, ir.NewMultiIndex(entries...))
}

// Diff returns the derivative of f with respect to a variable, or to an
// indexed access into one.
func Diff(f, v Expr) (Expr, error) {
	return ir.NewVariableDerivative(f, v)
}

// Grad returns the spatial gradient of an expression.
func Grad(f Expr) (Expr, error) {
	return ir.NewGrad(f)
}

// Div returns the divergence of an expression.
func Div(f Expr) (Expr, error) {
	return ir.NewDiv(f)
}

// Curl returns the curl of a vector expression.
func Curl(f Expr) (Expr, error) {
	return ir.NewCurl(f)
}

// Rot returns the scalar rotation of a vector expression.
func Rot(f Expr) (Expr, error) {
	return ir.NewRot(f)
}

// Derivative returns the unexpanded derivative of an expression with
// respect to a coefficient, taken in a direction of the coefficient's
// shape. Replace expands such markers before substituting.
func Derivative(f Expr, w *ir.Coefficient, v Expr) (Expr, error) {
	return ir.NewCoefficientDerivative(f, w, v)
}

// NewReplacements returns an empty substitution mapping.
func NewReplacements() *Replacements {
	return rewrite.NewReplacements()
}

// Replace substitutes terminals of an expression according to a mapping,
// expanding derivative markers first.
func Replace(x Expr, repl *Replacements) (Expr, error) {
	return rewrite.Replace(x, repl)
}

// ExpandDerivatives replaces every derivative marker of an expression with
// explicit derivative structure.
func ExpandDerivatives(x Expr) (Expr, error) {
	return rewrite.ExpandCoefficientDerivatives(x)
}

// Equal reports whether two expressions are structurally equal.
func Equal(x, y Expr) bool {
	return ir.Equal(x, y)
}
