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

import "errors"

// Engine error taxonomy. Components wrap these sentinels with context via
// fmt.Errorf("...: %w", ...) so callers can classify failures with errors.Is.
var (
	// ErrInvalidConfiguration indicates bad construction input such as a
	// non-positive scale, negative weights, or a cyclic composition. Always
	// reported at construction time, never deferred to query time.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrTypeMismatch indicates a similarity function was given a value pair
	// it does not declare support for.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrLookup indicates a term was not found in a taxonomy or table and no
	// fallback was configured.
	ErrLookup = errors.New("lookup failed")

	// ErrEmptyInput indicates an aggregator was given no scores.
	ErrEmptyInput = errors.New("empty input")

	// ErrMissingWeight indicates a configured attribute weight has no
	// corresponding score and dropping was not explicitly enabled.
	ErrMissingWeight = errors.New("missing weight")

	// ErrGraphTooDeep indicates the composition recursion safety bound was
	// exceeded while scoring nested values.
	ErrGraphTooDeep = errors.New("similarity graph too deep")

	// ErrEmbeddingUnavailable indicates the external embedding capability
	// failed. The engine never retries; retry policy belongs to the adapter.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrCompletionUnavailable indicates the external completion capability
	// failed.
	ErrCompletionUnavailable = errors.New("completion unavailable")

	// ErrCancelled indicates a retrieval honored cooperative cancellation
	// before producing a full result.
	ErrCancelled = errors.New("retrieval cancelled")

	// ErrPartialResult indicates a degraded but non-empty result was returned
	// under explicit caller opt-in.
	ErrPartialResult = errors.New("partial result")
)
