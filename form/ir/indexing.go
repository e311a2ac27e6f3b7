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
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/exp/maps"

	"github.com/gx-org/weakform/base/count"
	"github.com/gx-org/weakform/base/iter"
	"github.com/gx-org/weakform/base/ordered"
	"github.com/gx-org/weakform/base/stringseq"
	"github.com/gx-org/weakform/fem"
	"github.com/gx-org/weakform/form/formerr"
)

// indexCounter numbers indices process-wide.
var indexCounter count.Counter

type (
	// IndexEntry is an entry of a multi-index: a summation Index or a
	// FixedIndex naming a concrete slot.
	IndexEntry interface {
		fmt.Stringer
		indexEntry()
	}

	// Index is a symbolic summation index. Every index returned by NewIndex
	// is distinct from all others; an index never carries a numeric value.
	Index struct {
		id int64
	}

	// FixedIndex is a concrete non-summed slot in a multi-index.
	FixedIndex int

	// IndexDims maps indices to the dimension they iterate over.
	IndexDims map[Index]int
)

var (
	_ IndexEntry = Index{}
	_ IndexEntry = FixedIndex(0)
)

// NewIndex returns a fresh index, distinct from every other index.
func NewIndex() Index {
	return Index{id: indexCounter.Next()}
}

// NewIndices returns n fresh indices.
func NewIndices(n int) []Index {
	indices := make([]Index, n)
	for i := range indices {
		indices[i] = NewIndex()
	}
	return indices
}

func (Index) indexEntry() {}

// String returns the index name.
func (i Index) String() string {
	return fmt.Sprintf("i_%d", i.id)
}

func (FixedIndex) indexEntry() {}

// String returns the slot number.
func (i FixedIndex) String() string {
	return strconv.Itoa(int(i))
}

// String returns the mapping in index order.
func (d IndexDims) String() string {
	keys := maps.Keys(d)
	sort.Slice(keys, func(i, j int) bool { return keys[i].id < keys[j].id })
	entries := make([]string, len(keys))
	for i, k := range keys {
		entries[i] = fmt.Sprintf("%s:%d", k, d[k])
	}
	return "{" + stringseq.Join(iter.All(entries), ", ") + "}"
}

// MultiIndex is an ordered sequence of indices and fixed slots. It is itself
// a terminal node so that it can appear among the operands of indexing and
// differentiation expressions; it reports no shape, free indices or domain
// of its own.
type MultiIndex struct {
	entries []IndexEntry
	repr    string
}

var _ Terminal = (*MultiIndex)(nil)

// NewMultiIndex returns a multi-index over the given entries.
func NewMultiIndex(entries ...IndexEntry) *MultiIndex {
	mi := &MultiIndex{entries: append([]IndexEntry{}, entries...)}
	mi.repr = "MultiIndex(" + stringseq.JoinStringer(iter.All(mi.entries), ", ") + ")"
	return mi
}

func (*MultiIndex) node()     {}
func (*MultiIndex) terminal() {}

// Entries returns the entries of the multi-index.
// Callers must not modify the returned slice.
func (mi *MultiIndex) Entries() []IndexEntry { return mi.entries }

// Shape returns the value shape of the expression.
func (mi *MultiIndex) Shape() []int { return nil }

// FreeIndices returns the free indices of the expression.
func (mi *MultiIndex) FreeIndices() []Index { return nil }

// IndexDims returns the dimensions bound to the indices of the expression.
func (mi *MultiIndex) IndexDims() IndexDims { return nil }

// Domain returns the cell the expression is defined on.
func (mi *MultiIndex) Domain() fem.Cell { return fem.NoCell }

// Operands returns the direct operands of the expression.
func (mi *MultiIndex) Operands() []Expr { return nil }

// Repr returns the canonical representation of the expression.
func (mi *MultiIndex) Repr() string { return mi.repr }

// String returns the entries, parenthesized when there are several.
func (mi *MultiIndex) String() string {
	if len(mi.entries) == 1 {
		return mi.entries[0].String()
	}
	return "(" + stringseq.JoinStringer(iter.All(mi.entries), ", ") + ")"
}

// Extraction is the partition of an index list into free and repeated
// indices.
type Extraction struct {
	// Free lists the indices occurring exactly once, in first-occurrence
	// order.
	Free []Index
	// Repeated lists the indices occurring exactly twice, in
	// first-occurrence order.
	Repeated []Index
	// Shape lists the dimensions of the free indices.
	Shape []int
	// Dims maps every free and repeated index to its dimension.
	Dims IndexDims
}

// ExtractIndices partitions a flat index list into indices occurring exactly
// once (free) and exactly twice (repeated, denoting summation). Fixed slots
// are ignored. dims is either nil or parallel to indices; when nil, no
// dimensions are recorded. An index occurring more than twice, or twice with
// two different dimensions, is an error.
func ExtractIndices(indices []IndexEntry, dims []int) (*Extraction, error) {
	if dims != nil && len(dims) != len(indices) {
		return nil, formerr.Internalf("got %d dimensions for %d indices", len(dims), len(indices))
	}
	counts := ordered.NewMap[Index, int]()
	ext := &Extraction{Dims: IndexDims{}}
	for pos, entry := range indices {
		idx, ok := entry.(Index)
		if !ok {
			continue
		}
		n, _ := counts.Load(idx)
		n++
		counts.Store(idx, n)
		switch n {
		case 1:
			if dims != nil {
				ext.Dims[idx] = dims[pos]
			}
		case 2:
			if dims != nil && ext.Dims[idx] != dims[pos] {
				return nil, formerr.IndexArityf("index %s is bound to dimensions %d and %d", idx, ext.Dims[idx], dims[pos])
			}
		default:
			return nil, formerr.IndexArityf("index %s occurs more than twice", idx)
		}
	}
	for idx, n := range counts.Iter() {
		if n == 1 {
			ext.Free = append(ext.Free, idx)
			if dims != nil {
				ext.Shape = append(ext.Shape, ext.Dims[idx])
			}
		} else {
			ext.Repeated = append(ext.Repeated, idx)
		}
	}
	return ext, nil
}
