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
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
)

// ArrayShape returns the backend array shape of an expression evaluated
// pointwise: its value shape followed by one axis per free index, in
// free-index order.
func ArrayShape(x Expr, dt dtype.DataType) *shape.Shape {
	dims := x.IndexDims()
	free := x.FreeIndices()
	axes := make([]int, 0, len(x.Shape())+len(free))
	axes = append(axes, x.Shape()...)
	for _, i := range free {
		axes = append(axes, dims[i])
	}
	return &shape.Shape{DType: dt, AxisLengths: axes}
}
