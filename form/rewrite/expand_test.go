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

package rewrite_test

import (
	"testing"

	"github.com/gx-org/weakform/fem"
	"github.com/gx-org/weakform/form/ir"
	"github.com/gx-org/weakform/form/rewrite"
)

func TestHasCoefficientDerivative(t *testing.T) {
	w := scalarCoefficient(fem.Triangle)
	v := scalarCoefficient(fem.Triangle)
	cd, err := ir.NewCoefficientDerivative(w, w, v)
	if err != nil {
		t.Fatal(err)
	}
	i := ir.NewIndex()
	deep, err := ir.NewSpatialDerivative(cd, ir.NewMultiIndex(i))
	if err != nil {
		t.Fatal(err)
	}
	g, err := ir.NewGrad(w)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		x    ir.Expr
		want bool
	}{
		{x: w, want: false},
		{x: g, want: false},
		{x: cd, want: true},
		{x: deep, want: true},
	}
	for k, test := range tests {
		if got := rewrite.HasCoefficientDerivative(test.x); got != test.want {
			t.Errorf("test %d: got %v for %s but want %v", k, got, test.x, test.want)
		}
	}
}

func TestExpandTerminalRules(t *testing.T) {
	w := scalarCoefficient(fem.Triangle)
	u := scalarCoefficient(fem.Triangle)
	v := scalarCoefficient(fem.Triangle)

	// The derivative of the coefficient itself is the direction.
	dw, err := ir.NewCoefficientDerivative(w, w, v)
	if err != nil {
		t.Fatal(err)
	}
	got, err := rewrite.ExpandCoefficientDerivatives(dw)
	if err != nil {
		t.Fatal(err)
	}
	if got != v {
		t.Errorf("got %s but want the direction %s", got, v)
	}

	// Any other terminal is independent of the coefficient.
	du, err := ir.NewCoefficientDerivative(u, w, v)
	if err != nil {
		t.Fatal(err)
	}
	got, err = rewrite.ExpandCoefficientDerivatives(du)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(got, ir.NewZero(nil)) {
		t.Errorf("got %s but want %s", got, ir.NewZero(nil))
	}
}

func TestExpandCommutesWithCompounds(t *testing.T) {
	w := scalarCoefficient(fem.Triangle)
	v := scalarCoefficient(fem.Triangle)
	g, err := ir.NewGrad(w)
	if err != nil {
		t.Fatal(err)
	}
	cd, err := ir.NewCoefficientDerivative(g, w, v)
	if err != nil {
		t.Fatal(err)
	}
	got, err := rewrite.ExpandCoefficientDerivatives(cd)
	if err != nil {
		t.Fatal(err)
	}
	want, err := ir.NewGrad(v)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(got, want) {
		t.Errorf("got %s but want %s", got, want)
	}
}

func TestExpandCollapsesVanishedCompounds(t *testing.T) {
	w := scalarCoefficient(fem.Triangle)
	u := scalarCoefficient(fem.Triangle)
	v := scalarCoefficient(fem.Triangle)
	g, err := ir.NewGrad(u)
	if err != nil {
		t.Fatal(err)
	}
	cd, err := ir.NewCoefficientDerivative(g, w, v)
	if err != nil {
		t.Fatal(err)
	}
	got, err := rewrite.ExpandCoefficientDerivatives(cd)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(got, ir.NewZero([]int{2})) {
		t.Errorf("got %s but want %s", got, ir.NewZero([]int{2}))
	}
}

func TestExpandKeepsFreeIndicesOnCollapse(t *testing.T) {
	w := scalarCoefficient(fem.Triangle)
	u := scalarCoefficient(fem.Triangle)
	v := scalarCoefficient(fem.Triangle)
	i := ir.NewIndex()
	du, err := ir.NewSpatialDerivative(u, ir.NewMultiIndex(i))
	if err != nil {
		t.Fatal(err)
	}
	cd, err := ir.NewCoefficientDerivative(du, w, v)
	if err != nil {
		t.Fatal(err)
	}
	got, err := rewrite.ExpandCoefficientDerivatives(cd)
	if err != nil {
		t.Fatal(err)
	}
	if _, isZero := got.(*ir.Zero); !isZero {
		t.Fatalf("got %s but want a zero", got)
	}
	if len(got.FreeIndices()) != 1 || got.FreeIndices()[0] != i {
		t.Errorf("got free indices %v but want %v", got.FreeIndices(), []ir.Index{i})
	}
	if got.IndexDims()[i] != 2 {
		t.Errorf("got dimension %d for index %s but want 2", got.IndexDims()[i], i)
	}
}

func TestExpandNestedInnermostFirst(t *testing.T) {
	w := scalarCoefficient(fem.Triangle)
	v := scalarCoefficient(fem.Triangle)
	inner, err := ir.NewCoefficientDerivative(w, w, w)
	if err != nil {
		t.Fatal(err)
	}
	outer, err := ir.NewCoefficientDerivative(inner, w, v)
	if err != nil {
		t.Fatal(err)
	}
	// The inner marker expands to w first, so the outer derivative sees
	// the coefficient and yields the direction.
	got, err := rewrite.ExpandCoefficientDerivatives(outer)
	if err != nil {
		t.Fatal(err)
	}
	if got != v {
		t.Errorf("got %s but want %s", got, v)
	}
}

func TestExpandWithoutMarkers(t *testing.T) {
	w := scalarCoefficient(fem.Triangle)
	g, err := ir.NewGrad(w)
	if err != nil {
		t.Fatal(err)
	}
	got, err := rewrite.ExpandCoefficientDerivatives(g)
	if err != nil {
		t.Fatal(err)
	}
	if got != g {
		t.Errorf("an expression without markers was not returned as the same node")
	}
}
