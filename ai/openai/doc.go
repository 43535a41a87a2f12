// Package openai implements the ai interfaces against OpenAI-compatible
// HTTP endpoints (OpenAI itself, Ollama, llama.cpp server, vLLM, ...)
// using langchaingo clients.
package openai
