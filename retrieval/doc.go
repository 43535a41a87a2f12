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


// Package retrieval scores a case base against a query and produces a
// deterministically ranked result.
//
// The Retriever applies a similarity measure to every case in parallel on
// a bounded worker pool, then sorts by score descending with ties broken
// by case-base insertion order. Pipelines chain retrievers into cascaded
// stages where each stage reranks the previous stage's survivors, enabling
// cheap-filter-then-expensive-rerank setups.
package retrieval
