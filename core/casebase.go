// Copyright 2026 Poiesic Systems
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


package core

// CaseBase is an insertion-ordered mapping from CaseID to case value.
// Iteration order is stable and serves as the tie-break baseline for
// ranking. A CaseBase is safe for concurrent reads once construction is
// finished; it must not be mutated while retrievals are in flight.
type CaseBase struct {
	keys   []CaseID
	values map[CaseID]Value
	index  map[CaseID]int
}

// NewCaseBase creates an empty case base.
func NewCaseBase() *CaseBase {
	return &CaseBase{
		values: make(map[CaseID]Value),
		index:  make(map[CaseID]int),
	}
}

// Add inserts a case. Adding an existing ID replaces its value without
// changing the original insertion index.
func (cb *CaseBase) Add(id CaseID, value Value) {
	if _, ok := cb.values[id]; !ok {
		cb.index[id] = len(cb.keys)
		cb.keys = append(cb.keys, id)
	}
	cb.values[id] = value
}

// Get returns the value for id.
func (cb *CaseBase) Get(id CaseID) (Value, bool) {
	v, ok := cb.values[id]
	return v, ok
}

// Has reports whether id is present.
func (cb *CaseBase) Has(id CaseID) bool {
	_, ok := cb.values[id]
	return ok
}

// Index returns the insertion index of id, or -1 if absent.
func (cb *CaseBase) Index(id CaseID) int {
	idx, ok := cb.index[id]
	if !ok {
		return -1
	}
	return idx
}

// Len returns the number of cases.
func (cb *CaseBase) Len() int { return len(cb.keys) }

// Keys returns the case IDs in insertion order. The returned slice is a
// copy; mutating it does not affect the case base.
func (cb *CaseBase) Keys() []CaseID {
	keys := make([]CaseID, len(cb.keys))
	copy(keys, cb.keys)
	return keys
}

// Subset returns a new case base containing the given IDs in the given
// order. Unknown IDs are skipped. The values are shared, not copied.
func (cb *CaseBase) Subset(ids []CaseID) *CaseBase {
	sub := NewCaseBase()
	for _, id := range ids {
		if v, ok := cb.values[id]; ok {
			sub.Add(id, v)
		}
	}
	return sub
}
