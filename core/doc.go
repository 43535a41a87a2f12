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


// Package core defines the domain model shared by all casekit packages.
//
// The central types are CaseBase, an insertion-ordered mapping from CaseID
// to an arbitrary case value, and the structured value types (TimeSeries,
// Graph) that similarity functions operate on. The package also declares
// the sentinel errors used across the engine so that callers can classify
// failures with errors.Is regardless of which component produced them.
package core
