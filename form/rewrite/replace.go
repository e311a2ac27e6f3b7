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

type (
	// Replacements is an ordered mapping from terminals to substitute
	// expressions. A terminal added twice takes its last substitute.
	Replacements struct {
		pairs []replacement
	}

	replacement struct {
		from ir.Expr
		to   ir.Expr
	}
)

// NewReplacements returns an empty mapping.
func NewReplacements() *Replacements {
	return &Replacements{}
}

// Add records the substitution of a terminal and returns the mapping.
// The substitution is validated when the mapping is applied.
func (r *Replacements) Add(from, to ir.Expr) *Replacements {
	r.pairs = append(r.pairs, replacement{from: from, to: to})
	return r
}

// validate checks every pair and reports all violations at once: keys must
// be terminals and a substitute must have the shape of its key.
func (r *Replacements) validate() error {
	errs := &formerr.Appender{}
	for _, p := range r.pairs {
		if _, ok := p.from.(ir.Terminal); !ok {
			errs.Append(formerr.SubstitutionTargetf("cannot substitute %s: not a terminal", p.from))
			continue
		}
		if !sameShape(p.to.Shape(), p.from.Shape()) {
			errs.Append(formerr.ShapeMismatchf("substitute %s has shape %v but %s has shape %v", p.to, p.to.Shape(), p.from, p.from.Shape()))
		}
	}
	return errs.Err()
}

func (r *Replacements) index() map[string]ir.Expr {
	subs := make(map[string]ir.Expr, len(r.pairs))
	for _, p := range r.pairs {
		subs[p.from.Repr()] = p.to
	}
	return subs
}

func sameShape(x, y []int) bool {
	if len(x) != len(y) {
		return false
	}
	for i, xi := range x {
		if xi != y[i] {
			return false
		}
	}
	return true
}

// replacer substitutes terminals by structural lookup.
type replacer struct {
	subs map[string]ir.Expr
}

var _ CoefficientDerivativeRewriter = (*replacer)(nil)

// Terminal returns the substitute of a terminal, or the terminal itself
// when the mapping does not name it.
func (r *replacer) Terminal(node ir.Terminal) (ir.Expr, error) {
	if to, ok := r.subs[node.Repr()]; ok {
		return to, nil
	}
	return node, nil
}

// CoefficientDerivative fails: substituting under a derivative marker would
// change what the later expansion differentiates.
func (r *replacer) CoefficientDerivative(node *ir.CoefficientDerivative) (ir.Expr, error) {
	return nil, formerr.UnexpandedDerivativef("%s must be expanded before substitution", node)
}

// Replace substitutes terminals of an expression according to a mapping.
// Derivative markers in the expression are expanded first.
func Replace(x ir.Expr, repl *Replacements) (ir.Expr, error) {
	if err := repl.validate(); err != nil {
		return nil, err
	}
	if HasCoefficientDerivative(x) {
		expanded, err := ExpandCoefficientDerivatives(x)
		if err != nil {
			return nil, err
		}
		x = expanded
	}
	return Map(&replacer{subs: repl.index()}, x)
}
