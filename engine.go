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


package casekit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/casekit/ai"
	"github.com/poiesic/casekit/ai/openai"
	"github.com/poiesic/casekit/core"
	"github.com/poiesic/casekit/loaders"
	"github.com/poiesic/casekit/retrieval"
	"github.com/poiesic/casekit/store"
	"github.com/poiesic/casekit/store/badger"
	"github.com/poiesic/casekit/synthesis"
)

// Engine ties storage, AI services, and retrieval together behind one
// handle. It owns the lifecycle of all three.
type Engine struct {
	backend   *badger.Backend
	caseRepo  store.CaseRepository
	provider  ai.Provider
	retriever *retrieval.Retriever
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig      *ai.Config
	inMemory      bool
	retrieverOpts []retrieval.Option
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = cfg
	}
}

// WithInMemoryStorage keeps the case store in memory instead of on disk.
func WithInMemoryStorage() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithRetrieverOptions forwards options to the engine's retriever.
func WithRetrieverOptions(opts ...retrieval.Option) EngineOption {
	return func(o *engineOptions) {
		o.retrieverOpts = append(o.retrieverOpts, opts...)
	}
}

func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	// Apply options
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create case repository
	caseRepo, err := badger.NewCaseRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		caseRepo.Close()
		backend.Close()
		return nil, err
	}

	retriever, err := retrieval.NewRetriever(options.retrieverOpts...)
	if err != nil {
		provider.Close()
		caseRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:   backend,
		caseRepo:  caseRepo,
		provider:  provider,
		retriever: retriever,
		logger:    slog.Default(),
	}, nil
}

func (e *Engine) Close() error {
	e.retriever.Close()

	// Close AI provider first
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	// Close repositories
	if err := e.caseRepo.Close(); err != nil {
		e.logger.Error("error closing case repository", "err", err)
		return err
	}

	// Close backend
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (e *Engine) CaseRepository() store.CaseRepository {
	return e.caseRepo
}

func (e *Engine) Retriever() *retrieval.Retriever {
	return e.retriever
}

func (e *Engine) Embedder() ai.Embedder {
	return e.provider.Embedder()
}

// ImportCases loads a case base file into the store and returns the number
// of cases imported.
func (e *Engine) ImportCases(ctx context.Context, path string) (int, error) {
	cb, err := loaders.Path(path)
	if err != nil {
		return 0, err
	}

	for _, id := range cb.Keys() {
		value, _ := cb.Get(id)
		if err := e.caseRepo.Put(ctx, id, value); err != nil {
			return 0, fmt.Errorf("storing case %q: %w", id, err)
		}
	}
	e.logger.Info("imported case base", "path", path, "cases", cb.Len())
	return cb.Len(), nil
}

// CaseBase materializes the stored cases in insertion order.
func (e *Engine) CaseBase(ctx context.Context) (*core.CaseBase, error) {
	return e.caseRepo.All(ctx)
}

// Retrieve runs the staged cascade over the stored case base for a batch
// of queries.
func (e *Engine) Retrieve(ctx context.Context, queries map[string]core.Value, stages ...retrieval.Stage) (map[string]*retrieval.PipelineResult, error) {
	cb, err := e.CaseBase(ctx)
	if err != nil {
		return nil, err
	}

	pipeline, err := retrieval.NewPipeline(e.retriever, stages...)
	if err != nil {
		return nil, err
	}
	return pipeline.Apply(ctx, cb, queries)
}

func (e *Engine) NewPipeline(stages ...retrieval.Stage) (*retrieval.Pipeline, error) {
	return retrieval.NewPipeline(e.retriever, stages...)
}

// NewSynthesizer fails when the AI configuration has completions disabled.
func (e *Engine) NewSynthesizer(opts ...synthesis.Option) (*synthesis.Synthesizer, error) {
	return synthesis.NewSynthesizer(e.provider.Completer(), opts...)
}
