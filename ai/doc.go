// Package ai defines the boundary to external model capabilities.
//
// The engine consumes embeddings and text completions through the Embedder
// and Completer interfaces; concrete adapters live in subpackages (openai
// for OpenAI-compatible endpoints, mock for deterministic test doubles).
// Adapters return their provider's raw errors; classification into the
// engine taxonomy happens at the call sites in sim/embed and synthesis.
package ai
