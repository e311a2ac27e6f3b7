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

// Package count provides process-wide monotonic counters.
package count

import "sync/atomic"

// Counter issues monotonically increasing numbers starting at 0.
// The zero value is ready to use. All methods are safe for concurrent use.
type Counter struct {
	next atomic.Int64
}

// Next returns the next number.
func (c *Counter) Next() int64 {
	return c.next.Add(1) - 1
}

// Observe notes an externally chosen number n so that Next never
// returns a number less than or equal to n.
func (c *Counter) Observe(n int64) {
	for {
		cur := c.next.Load()
		if cur > n {
			return
		}
		if c.next.CompareAndSwap(cur, n+1) {
			return
		}
	}
}
