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

import (
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
)

// ArrayShape returns the backend array shape occupied by a value of the
// element, for a given scalar data type. This is the handoff boundary to
// numerical consumers of a weak form.
func ArrayShape(el Element, dt dtype.DataType) *shape.Shape {
	return &shape.Shape{
		DType:       dt,
		AxisLengths: append([]int{}, el.ValueShape()...),
	}
}
