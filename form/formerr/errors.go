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

package formerr

import "go.uber.org/multierr"

// Appender collects the errors of successive checks so that a validation
// pass can report all failures at once.
type Appender struct {
	errs error
}

// Append records an error. Appending nil is a no-op.
func (a *Appender) Append(err error) {
	a.errs = multierr.Append(a.errs, err)
}

// Empty returns true if no error has been recorded.
func (a *Appender) Empty() bool {
	return a.errs == nil
}

// Err returns all recorded errors combined, or nil if none were recorded.
func (a *Appender) Err() error {
	return a.errs
}
