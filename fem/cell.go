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

// Package fem describes the finite elements weak-form expressions are built
// over: reference cells with their spatial dimensions, element metadata, and
// the array shape occupied by an element value.
package fem

import (
	"github.com/pkg/errors"

	"github.com/gx-org/weakform/base/sync"
	"github.com/gx-org/weakform/form/formerr"
)

// Cell is the reference cell of a domain, identified by name.
type Cell string

// Builtin cells.
const (
	// NoCell marks an expression that carries no domain.
	NoCell        Cell = ""
	Interval      Cell = "interval"
	Triangle      Cell = "triangle"
	Quadrilateral Cell = "quadrilateral"
	Tetrahedron   Cell = "tetrahedron"
	Hexahedron    Cell = "hexahedron"
)

// cellDims maps every known cell to its spatial dimension.
var cellDims sync.Map[Cell, int]

func init() {
	for cell, dim := range map[Cell]int{
		Interval:      1,
		Triangle:      2,
		Quadrilateral: 2,
		Tetrahedron:   3,
		Hexahedron:    3,
	} {
		cellDims.Store(cell, dim)
	}
}

// Register binds a cell name to its spatial dimension, extending the set of
// cells Dim can resolve. Registering a known cell overwrites its dimension.
// Safe to call concurrently with expression construction.
func Register(cell Cell, dim int) error {
	if cell == NoCell {
		return errors.Errorf("cannot register the empty cell")
	}
	if dim <= 0 {
		return errors.Errorf("cell %s: dimension %d is not positive", cell, dim)
	}
	cellDims.Store(cell, dim)
	return nil
}

// Dim returns the spatial dimension of a cell.
func Dim(cell Cell) (int, error) {
	if cell == NoCell {
		return 0, formerr.MissingDomainf("no domain")
	}
	dim, ok := cellDims.Load(cell)
	if !ok {
		return 0, formerr.MissingDomainf("cell %s has no registered dimension", cell)
	}
	return dim, nil
}
