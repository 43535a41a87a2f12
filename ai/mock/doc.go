// Package mock provides deterministic test doubles for the ai interfaces.
//
// The mock embedder derives vectors from a hash of the input text, so the
// same text always produces the same vector and tests stay reproducible
// without network access. Behavior can be overridden per test via function
// fields.
package mock
