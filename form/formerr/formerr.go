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

// Package formerr defines the error kinds reported while building or
// rewriting weak-form expressions.
//
// Every kind is a sentinel error; callers match with errors.Is. All errors
// are raised at construction or validation time: an expression that was
// built without an error satisfies its structural invariants.
package formerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds.
var (
	// ErrShapeMismatch reports incompatible value shapes.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrIndexArity reports an index repeated more than twice or bound to
	// conflicting dimensions.
	ErrIndexArity = errors.New("invalid index arity")
	// ErrMissingDomain reports an expression with no domain when an operator
	// needs a spatial dimension.
	ErrMissingDomain = errors.New("missing domain")
	// ErrRank reports an operand whose rank an operator cannot accept.
	ErrRank = errors.New("invalid rank")
	// ErrFreeIndex reports free indices on an operand that requires none.
	ErrFreeIndex = errors.New("unexpected free index")
	// ErrSubstitutionTarget reports a replacement key that is not a terminal.
	ErrSubstitutionTarget = errors.New("unsupported substitution target")
	// ErrUnexpandedDerivative reports a coefficient derivative that reached a
	// rewrite which cannot process it.
	ErrUnexpandedDerivative = errors.New("unexpanded coefficient derivative")
)

// ShapeMismatchf returns a formatted shape mismatch error.
func ShapeMismatchf(format string, a ...any) error {
	return errors.Wrapf(ErrShapeMismatch, format, a...)
}

// IndexArityf returns a formatted index arity error.
func IndexArityf(format string, a ...any) error {
	return errors.Wrapf(ErrIndexArity, format, a...)
}

// MissingDomainf returns a formatted missing domain error.
func MissingDomainf(format string, a ...any) error {
	return errors.Wrapf(ErrMissingDomain, format, a...)
}

// Rankf returns a formatted rank error.
func Rankf(format string, a ...any) error {
	return errors.Wrapf(ErrRank, format, a...)
}

// FreeIndexf returns a formatted free index error.
func FreeIndexf(format string, a ...any) error {
	return errors.Wrapf(ErrFreeIndex, format, a...)
}

// SubstitutionTargetf returns a formatted substitution target error.
func SubstitutionTargetf(format string, a ...any) error {
	return errors.Wrapf(ErrSubstitutionTarget, format, a...)
}

// UnexpandedDerivativef returns a formatted unexpanded derivative error.
func UnexpandedDerivativef(format string, a ...any) error {
	return errors.Wrapf(ErrUnexpandedDerivative, format, a...)
}

// Internal marks an error as internal, potentially adding additional information.
func Internal(err error) error {
	return fmt.Errorf("weakform internal error. This is a bug in weakform. Please report it. Error:\n%+v", err)
}

// Internalf returns a formatted internal error.
func Internalf(format string, a ...any) error {
	return Internal(errors.Errorf(format, a...))
}
