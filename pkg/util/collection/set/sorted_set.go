// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package set

import "sort"

// SortedSet is a set of unique, sorted, non-negative integer indices (no
// duplicates).  It is used by pkg/lower to collect the trace column
// indices that the constraint roots reference, where a dense bit-set would
// be overkill but insertion order doesn't matter.
type SortedSet []uint

// NewSortedSet returns an empty sorted set.
func NewSortedSet() *SortedSet {
	return &SortedSet{}
}

// Contains returns true if a given element is in the set.
func (p *SortedSet) Contains(element uint) bool {
	data := *p
	i := sort.Search(len(data), func(i int) bool {
		return element <= data[i]
	})

	return i < len(data) && data[i] == element
}

// Insert an element into this sorted set.
func (p *SortedSet) Insert(element uint) {
	data := *p
	i := sort.Search(len(data), func(i int) bool {
		return element <= data[i]
	})

	if i >= len(data) || data[i] != element {
		ndata := make([]uint, len(data)+1)
		copy(ndata, data[0:i])
		ndata[i] = element
		copy(ndata[i+1:], data[i:])
		*p = ndata
	}
}

// Len returns the number of elements in this set.
func (p *SortedSet) Len() int {
	return len(*p)
}

// Elements returns the elements of this set in ascending order.
func (p *SortedSet) Elements() []uint {
	return *p
}
