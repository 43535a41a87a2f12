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


package mock

import "github.com/poiesic/casekit/ai"

// Provider is a test double for ai.Provider aggregating mock services.
type Provider struct {
	embedder  *Embedder
	completer *Completer
}

// NewProvider creates a mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production
// constructors. Use MockEmbedder()/MockCompleter() to access concrete types
// for test assertions.
func NewProvider() ai.Provider {
	return &Provider{
		embedder:  NewEmbedder(),
		completer: NewCompleter(""),
	}
}

// NewProviderWithServices creates a mock provider with custom mock services.
func NewProviderWithServices(embedder *Embedder, completer *Completer) ai.Provider {
	return &Provider{
		embedder:  embedder,
		completer: completer,
	}
}

// Embedder returns the mock embedder.
func (p *Provider) Embedder() ai.Embedder { return p.embedder }

// Completer returns the mock completer.
func (p *Provider) Completer() ai.Completer { return p.completer }

// Close is a no-op for mocks.
func (p *Provider) Close() error { return nil }

// MockEmbedder returns the concrete mock embedder for test assertions.
func (p *Provider) MockEmbedder() *Embedder { return p.embedder }

// MockCompleter returns the concrete mock completer for test assertions.
func (p *Provider) MockCompleter() *Completer { return p.completer }
