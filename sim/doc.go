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


// Package sim provides pairwise similarity measures and their composition.
//
// Every measure implements Func: a pure, deterministic comparison of a
// query value against a case value yielding a score in [0, 1]. Measures
// never return NaN; an invalid comparison fails with an explicit error
// instead. Structured cases are scored by AttributeValue, which composes
// per-attribute measures through an Aggregator, recursing into nested
// records. Specialized measures live in subpackages: taxonomy, timeseries,
// graphs, and embed.
package sim
