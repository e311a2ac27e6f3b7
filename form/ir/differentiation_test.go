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

package ir_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gx-org/weakform/fem"
	"github.com/gx-org/weakform/form/formerr"
	"github.com/gx-org/weakform/form/ir"
)

func TestSpatialDerivative(t *testing.T) {
	u := scalarCoefficient(fem.Triangle)
	i := ir.NewIndex()
	d, err := ir.NewSpatialDerivative(u, ir.NewMultiIndex(i))
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Shape()) != 0 {
		t.Errorf("got shape %v but want a scalar", d.Shape())
	}
	if !sameIndices(d.FreeIndices(), []ir.Index{i}) {
		t.Errorf("got free indices %v but want %v", d.FreeIndices(), []ir.Index{i})
	}
	if got := d.IndexDims()[i]; got != 2 {
		t.Errorf("got dimension %d for index %s but want 2", got, i)
	}
	if got, want := d.String(), fmt.Sprintf("(d[%s] / dx_%s)", u, i); got != want {
		t.Errorf("got %q but want %q", got, want)
	}
	other, err := ir.NewSpatialDerivative(u, ir.NewMultiIndex(i))
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(d, other) {
		t.Errorf("identical derivatives are not equal")
	}
}

func TestSpatialDerivativeContraction(t *testing.T) {
	w := vectorCoefficient(t, fem.Triangle)
	i := ir.NewIndex()
	x, err := ir.NewIndexed(w, ir.NewMultiIndex(i))
	if err != nil {
		t.Fatal(err)
	}
	// d(w_i)/dx_i contracts the component index with the direction.
	d, err := ir.NewSpatialDerivative(x, ir.NewMultiIndex(i))
	if err != nil {
		t.Fatal(err)
	}
	if len(d.FreeIndices()) != 0 {
		t.Errorf("got free indices %v but want none", d.FreeIndices())
	}
	sd := d.(*ir.SpatialDerivative)
	if !sameIndices(sd.RepeatedIndices(), []ir.Index{i}) {
		t.Errorf("got repeated indices %v but want %v", sd.RepeatedIndices(), []ir.Index{i})
	}
	if got := d.IndexDims()[i]; got != 2 {
		t.Errorf("got dimension %d for index %s but want 2", got, i)
	}
}

func TestSpatialDerivativeConstantFolds(t *testing.T) {
	i := ir.NewIndex()
	tests := []struct {
		expr ir.Expr
		want *ir.Zero
	}{
		{
			expr: ir.NewConstant(fem.Triangle),
			want: ir.NewZero(nil),
		},
		{
			// A zero carries no domain: the fold happens without one.
			expr: ir.NewZero(nil),
			want: ir.NewZero(nil),
		},
		{
			expr: ir.NewVectorConstantWithCount(fem.Triangle, 2, 30),
			want: ir.NewZero([]int{2}),
		},
	}
	for k, test := range tests {
		got, err := ir.NewSpatialDerivative(test.expr, ir.NewMultiIndex(i, i))
		if err != nil {
			t.Errorf("test %d: %v", k, err)
			continue
		}
		if !ir.Equal(got, test.want) {
			t.Errorf("test %d: got %s but want %s", k, got, test.want)
		}
	}
}

func TestSpatialDerivativeConstantFreeIndex(t *testing.T) {
	// A free direction index does not fold, even on a constant.
	c := ir.NewConstant(fem.Triangle)
	i := ir.NewIndex()
	d, err := ir.NewSpatialDerivative(c, ir.NewMultiIndex(i))
	if err != nil {
		t.Fatal(err)
	}
	if _, isZero := d.(*ir.Zero); isZero {
		t.Errorf("derivative with a free index folded to zero")
	}
	if !sameIndices(d.FreeIndices(), []ir.Index{i}) {
		t.Errorf("got free indices %v but want %v", d.FreeIndices(), []ir.Index{i})
	}
}

func TestSpatialDerivativeErrors(t *testing.T) {
	i := ir.NewIndex()
	long := vectorCoefficientDim(t, fem.Triangle, 3)
	indexed, err := ir.NewIndexed(long, ir.NewMultiIndex(i))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		expr    ir.Expr
		indices *ir.MultiIndex
		kind    error
	}{
		{
			// Three occurrences of the same index.
			expr:    ir.NewConstant(fem.Triangle),
			indices: ir.NewMultiIndex(i, i, i),
			kind:    formerr.ErrIndexArity,
		},
		{
			// No domain to resolve the spatial dimension against.
			expr:    ir.NewVariableWithCount(ir.FloatValue(1), 20),
			indices: ir.NewMultiIndex(i),
			kind:    formerr.ErrMissingDomain,
		},
		{
			// The component index runs over 3, the direction over 2.
			expr:    indexed,
			indices: ir.NewMultiIndex(i),
			kind:    formerr.ErrIndexArity,
		},
	}
	for k, test := range tests {
		if _, err := ir.NewSpatialDerivative(test.expr, test.indices); !errors.Is(err, test.kind) {
			t.Errorf("test %d: got error %v but want %v", k, err, test.kind)
		}
	}
}

func vectorCoefficientDim(t *testing.T, cell fem.Cell, dim int) *ir.Coefficient {
	t.Helper()
	return ir.NewCoefficient(fem.NewVectorElementDim(fem.Lagrange, cell, 1, dim))
}

func TestVariableDerivative(t *testing.T) {
	w := vectorCoefficient(t, fem.Triangle)
	u := scalarCoefficient(fem.Triangle)
	f := ir.NewVariable(w)
	v := ir.NewVariable(u)
	d, err := ir.NewVariableDerivative(f, v)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(d.Shape(), []int{2}); diff != "" {
		t.Errorf("unexpected shape:\n%s", diff)
	}
	if got, want := d.String(), fmt.Sprintf("(d[%s] / d[%s])", f, v); got != want {
		t.Errorf("got %q but want %q", got, want)
	}
	if d.Domain() != fem.Triangle {
		t.Errorf("got domain %s but want %s", d.Domain(), fem.Triangle)
	}
}

func TestVariableDerivativeFolds(t *testing.T) {
	u := scalarCoefficient(fem.Triangle)
	w := vectorCoefficient(t, fem.Triangle)
	v := ir.NewVariable(scalarCoefficient(fem.Triangle))
	tests := []struct {
		f    ir.Expr
		want *ir.Zero
	}{
		// A terminal that is not the variable cannot depend on it.
		{f: u, want: ir.NewZero(nil)},
		{f: ir.FloatValue(3), want: ir.NewZero(nil)},
		{f: w, want: ir.NewZero([]int{2})},
	}
	for k, test := range tests {
		got, err := ir.NewVariableDerivative(test.f, v)
		if err != nil {
			t.Errorf("test %d: %v", k, err)
			continue
		}
		if !ir.Equal(got, test.want) {
			t.Errorf("test %d: got %s but want %s", k, got, test.want)
		}
	}
}

func TestVariableDerivativeIndexedVariable(t *testing.T) {
	w := vectorCoefficient(t, fem.Triangle)
	u := scalarCoefficient(fem.Triangle)
	i := ir.NewIndex()
	v, err := ir.NewIndexed(ir.NewVariable(w), ir.NewMultiIndex(i))
	if err != nil {
		t.Fatal(err)
	}
	d, err := ir.NewVariableDerivative(ir.NewVariable(u), v)
	if err != nil {
		t.Fatal(err)
	}
	if !sameIndices(d.FreeIndices(), []ir.Index{i}) {
		t.Errorf("got free indices %v but want %v", d.FreeIndices(), []ir.Index{i})
	}
	if got := d.IndexDims()[i]; got != 2 {
		t.Errorf("got dimension %d for index %s but want 2", got, i)
	}
}

func TestVariableDerivativeErrors(t *testing.T) {
	w := vectorCoefficient(t, fem.Triangle)
	u := scalarCoefficient(fem.Triangle)

	// Only variables and indexed variables are differentiation targets.
	if _, err := ir.NewVariableDerivative(ir.NewVariable(u), u); err == nil {
		t.Errorf("got no error differentiating with respect to a coefficient")
	}
	i := ir.NewIndex()
	indexed, err := ir.NewIndexed(w, ir.NewMultiIndex(i))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ir.NewVariableDerivative(ir.NewVariable(u), indexed); err == nil {
		t.Errorf("got no error differentiating with respect to an indexed coefficient")
	}

	// An index free in both operands would be summed across the quotient.
	f, err := ir.NewIndexed(ir.NewVariable(w), ir.NewMultiIndex(i))
	if err != nil {
		t.Fatal(err)
	}
	v, err := ir.NewIndexed(ir.NewVariable(vectorCoefficient(t, fem.Triangle)), ir.NewMultiIndex(i))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ir.NewVariableDerivative(f, v); !errors.Is(err, formerr.ErrIndexArity) {
		t.Errorf("got error %v but want an index arity error", err)
	}
}

func TestGrad(t *testing.T) {
	u := scalarCoefficient(fem.Triangle)
	g, err := ir.NewGrad(u)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(g.Shape(), []int{2}); diff != "" {
		t.Errorf("unexpected shape:\n%s", diff)
	}
	if got, want := g.String(), fmt.Sprintf("grad(%s)", u); got != want {
		t.Errorf("got %q but want %q", got, want)
	}

	w := vectorCoefficient(t, fem.Triangle)
	gw, err := ir.NewGrad(w)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(gw.Shape(), []int{2, 2}); diff != "" {
		t.Errorf("unexpected shape:\n%s", diff)
	}
}

func TestGradConstantFolds(t *testing.T) {
	g, err := ir.NewGrad(ir.NewConstant(fem.Triangle))
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(g, ir.NewZero([]int{2})) {
		t.Errorf("got %s but want %s", g, ir.NewZero([]int{2}))
	}
}

func TestGradErrors(t *testing.T) {
	w := vectorCoefficient(t, fem.Triangle)
	i := ir.NewIndex()
	indexed, err := ir.NewIndexed(w, ir.NewMultiIndex(i))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		f    ir.Expr
		kind error
	}{
		// Even the zero fold needs a domain for the result shape.
		{f: ir.FloatValue(1.5), kind: formerr.ErrMissingDomain},
		{f: ir.NewZero([]int{2}), kind: formerr.ErrMissingDomain},
		{f: indexed, kind: formerr.ErrFreeIndex},
	}
	for k, test := range tests {
		if _, err := ir.NewGrad(test.f); !errors.Is(err, test.kind) {
			t.Errorf("test %d: got error %v but want %v", k, err, test.kind)
		}
	}
}

func TestDiv(t *testing.T) {
	w := vectorCoefficient(t, fem.Triangle)
	d, err := ir.NewDiv(w)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Shape()) != 0 {
		t.Errorf("got shape %v but want a scalar", d.Shape())
	}
	if got, want := d.String(), fmt.Sprintf("div(%s)", w); got != want {
		t.Errorf("got %q but want %q", got, want)
	}

	element, err := fem.NewTensorElement(fem.Lagrange, fem.Triangle, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	a := ir.NewCoefficient(element)
	da, err := ir.NewDiv(a)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(da.Shape(), []int{2}); diff != "" {
		t.Errorf("unexpected shape:\n%s", diff)
	}
}

func TestDivConstantFolds(t *testing.T) {
	// The fold drops the leading axis and never needs the domain, so a
	// vector dimension unrelated to the cell is fine here.
	d, err := ir.NewDiv(ir.NewVectorConstantWithCount(fem.Triangle, 3, 40))
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(d, ir.NewZero(nil)) {
		t.Errorf("got %s but want %s", d, ir.NewZero(nil))
	}
}

func TestDivScalarError(t *testing.T) {
	if _, err := ir.NewDiv(scalarCoefficient(fem.Triangle)); !errors.Is(err, formerr.ErrRank) {
		t.Errorf("got error %v but want a rank error", err)
	}
}

func TestCurl(t *testing.T) {
	w := vectorCoefficient(t, fem.Triangle)
	c, err := ir.NewCurl(w)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(c.Shape(), []int{2}); diff != "" {
		t.Errorf("unexpected shape:\n%s", diff)
	}
	if got, want := c.String(), fmt.Sprintf("curl(%s)", w); got != want {
		t.Errorf("got %q but want %q", got, want)
	}
}

func TestRot(t *testing.T) {
	w := vectorCoefficient(t, fem.Triangle)
	r, err := ir.NewRot(w)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Shape()) != 0 {
		t.Errorf("got shape %v but want a scalar", r.Shape())
	}
	if got, want := r.String(), fmt.Sprintf("rot(%s)", w); got != want {
		t.Errorf("got %q but want %q", got, want)
	}
}

func TestCurlRotErrors(t *testing.T) {
	ops := []struct {
		name string
		op   func(ir.Expr) (ir.Expr, error)
	}{
		{name: "curl", op: ir.NewCurl},
		{name: "rot", op: ir.NewRot},
	}
	tests := []struct {
		f    ir.Expr
		kind error
	}{
		{f: scalarCoefficient(fem.Triangle), kind: formerr.ErrRank},
		// A vector of dimension 2 on a three-dimensional cell.
		{f: vectorCoefficientDim(t, fem.Tetrahedron, 2), kind: formerr.ErrRank},
		{f: ir.NewZero([]int{2}), kind: formerr.ErrMissingDomain},
	}
	for _, op := range ops {
		for k, test := range tests {
			if _, err := op.op(test.f); !errors.Is(err, test.kind) {
				t.Errorf("%s test %d: got error %v but want %v", op.name, k, err, test.kind)
			}
		}
	}
}
