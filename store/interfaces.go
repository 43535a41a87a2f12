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


package store

import (
	"context"

	"github.com/poiesic/casekit/core"
)

// CaseRepository persists a case base. Implementations must be safe for
// concurrent use.
//
// Values round-trip through JSON, so numeric leaves come back as float64
// regardless of how they were stored. The similarity functions accept
// either, so retrieval over a loaded repository behaves like retrieval
// over the original case base.
type CaseRepository interface {
	// Put stores a case. Replacing an existing case keeps its position in
	// the insertion order, matching core.CaseBase semantics.
	Put(ctx context.Context, id core.CaseID, value core.Value) error

	// Get retrieves a single case.
	// Returns ErrNotFound if the case doesn't exist.
	Get(ctx context.Context, id core.CaseID) (core.Value, error)

	// Delete removes a case and its order-index entry.
	// Returns ErrNotFound if the case doesn't exist.
	Delete(ctx context.Context, id core.CaseID) error

	// All materializes the stored cases as a case base in insertion order.
	All(ctx context.Context) (*core.CaseBase, error)

	// Count returns the number of stored cases.
	Count(ctx context.Context) (int, error)

	// Close releases repository resources.
	Close() error
}
