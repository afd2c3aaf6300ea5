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
package hash

import "testing"

type testKey struct {
	value uint
}

func (p testKey) Equals(other testKey) bool {
	return p.value == other.value
}

func (p testKey) Hash() uint64 {
	// Deliberately coarse, to exercise collision handling in the bucket
	// implementation.
	return uint64(p.value % 4)
}

func Test_HashMap_Uniqueness(t *testing.T) {
	items := []uint{1, 2, 3, 4, 3, 2, 1, 9, 13, 17}
	check_HashMap(t, items)
}

func Test_HashMap_Collisions(t *testing.T) {
	// These fall into just two hash buckets under testKey.Hash (mod 4),
	// five items each, exercising the bucket's linear scan.
	items := []uint{0, 4, 8, 12, 16, 1, 5, 9, 13, 17}
	check_HashMap(t, items)
}

func Test_HashMap_Overwrite(t *testing.T) {
	m := NewMap[testKey, string](0)
	//
	if m.Insert(testKey{1}, "first") {
		t.Fatalf("expected first insertion to report not-present")
	}

	if !m.Insert(testKey{1}, "second") {
		t.Fatalf("expected second insertion to report already-present")
	}

	v, ok := m.Get(testKey{1})
	if !ok || v != "second" {
		t.Fatalf("expected overwritten value %q, got %q (ok=%v)", "second", v, ok)
	}

	if m.Size() != 1 {
		t.Fatalf("expected exactly one entry, got %d", m.Size())
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_HashMap(t *testing.T, items []uint) {
	gmap := initGoMap(items)
	hmap := NewMap[testKey, uint](0)
	// Insert items
	for key, val := range gmap {
		hmap.Insert(testKey{key}, val)
	}
	// Sanity check number of unique items
	if hmap.Size() != uint(len(gmap)) {
		t.Errorf("expected %d items, got %d: %s", len(gmap), hmap.Size(), hmap.String())
	}
	// Sanity check containership
	for key, val := range gmap {
		if !hmap.ContainsKey(testKey{key}) {
			t.Errorf("missing key %d: %s", key, hmap.String())
		} else if v, ok := hmap.Get(testKey{key}); !ok {
			t.Errorf("missing item %d=>%d: %s", key, val, hmap.String())
		} else if v != val {
			t.Errorf("expecting %d=>%d, got %d=>%d: %s", key, val, key, v, hmap.String())
		}
	}
}

func initGoMap(items []uint) map[uint]uint {
	gmap := make(map[uint]uint)
	//
	for _, v := range items {
		gmap[v] = v
	}
	//
	return gmap
}
