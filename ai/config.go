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


package ai

import (
	"errors"
	"strings"
)

var (
	// ErrEmbeddingHostRequired is returned when no embedding host is configured.
	ErrEmbeddingHostRequired = errors.New("embedding host required")

	// ErrEmbeddingModelRequired is returned when no embedding model is configured.
	ErrEmbeddingModelRequired = errors.New("embedding model required")

	// ErrCompletionHostRequired is returned when completions are enabled
	// without a completion host.
	ErrCompletionHostRequired = errors.New("completion host required")

	// ErrCompletionModelRequired is returned when completions are enabled
	// without a completion model.
	ErrCompletionModelRequired = errors.New("completion model required")
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server.
	EmbeddingHost string

	// EmbeddingModel is the model identifier for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// CompletionHost is the base URL for the completion service API.
	// Empty disables the Completer; only retrieval synthesis needs it.
	CompletionHost string

	// CompletionModel is the model identifier for text completions.
	CompletionModel string

	// APIToken authenticates against the endpoints. "none" works for local
	// services that do not require authentication.
	APIToken string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithCompletionHost sets the completion service host URL.
func WithCompletionHost(host string) ConfigOption {
	return func(c *Config) {
		c.CompletionHost = host
	}
}

// WithCompletionModel sets the completion model identifier.
func WithCompletionModel(model string) ConfigOption {
	return func(c *Config) {
		c.CompletionModel = model
	}
}

// WithAPIToken sets the API token.
func WithAPIToken(token string) ConfigOption {
	return func(c *Config) {
		c.APIToken = token
	}
}

// DefaultConfig returns a configuration targeting a local OpenAI-compatible
// server without authentication.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:  "http://localhost:11434/v1",
		EmbeddingModel: "embeddinggemma",
		APIToken:       "none",
	}
}

// NewConfig creates a configuration from defaults plus options.
func NewConfig(opts ...ConfigOption) *Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Normalize cleans up the configuration in place: whitespace is trimmed and
// trailing slashes are removed from host URLs.
func (c *Config) Normalize() {
	c.EmbeddingHost = strings.TrimRight(strings.TrimSpace(c.EmbeddingHost), "/")
	c.CompletionHost = strings.TrimRight(strings.TrimSpace(c.CompletionHost), "/")
	c.EmbeddingModel = strings.TrimSpace(c.EmbeddingModel)
	c.CompletionModel = strings.TrimSpace(c.CompletionModel)
	if strings.TrimSpace(c.APIToken) == "" {
		c.APIToken = "none"
	}
}

// Validate normalizes the configuration and reports the first problem found.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return ErrEmbeddingHostRequired
	}
	if c.EmbeddingModel == "" {
		return ErrEmbeddingModelRequired
	}
	if c.CompletionHost == "" && c.CompletionModel != "" {
		return ErrCompletionHostRequired
	}
	if c.CompletionHost != "" && c.CompletionModel == "" {
		return ErrCompletionModelRequired
	}
	return nil
}

// CompletionEnabled reports whether a completion endpoint is configured.
func (c *Config) CompletionEnabled() bool {
	return c.CompletionHost != "" && c.CompletionModel != ""
}
