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


package synthesis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/casekit/ai"
	"github.com/poiesic/casekit/core"
	"github.com/poiesic/casekit/retrieval"
)

// DefaultInstructions frame the completion request when no custom
// instructions are configured.
const DefaultInstructions = "You are given a query and the most similar cases " +
	"retrieved from a case base, each with its similarity score. Propose a " +
	"solution for the query by adapting the retrieved cases. Answer concisely " +
	"and mention which cases informed the proposal."

// DefaultMaxCases bounds how many ranked cases go into the prompt.
const DefaultMaxCases = 5

// Synthesizer turns a ranked retrieval result into a textual solution
// proposal via a completion model.
type Synthesizer struct {
	completer    ai.Completer
	instructions string
	maxCases     int
	logger       *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer) error

// WithInstructions replaces the framing instructions at the top of the
// prompt.
func WithInstructions(instructions string) Option {
	return func(s *Synthesizer) error {
		if strings.TrimSpace(instructions) == "" {
			return fmt.Errorf("%w: instructions must not be empty", core.ErrInvalidConfiguration)
		}
		s.instructions = instructions
		return nil
	}
}

// WithMaxCases bounds how many of the top-ranked cases are included.
func WithMaxCases(n int) Option {
	return func(s *Synthesizer) error {
		if n < 1 {
			return fmt.Errorf("%w: max cases must be positive, got %d", core.ErrInvalidConfiguration, n)
		}
		s.maxCases = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSynthesizer creates a synthesizer over the given completer.
func NewSynthesizer(completer ai.Completer, opts ...Option) (*Synthesizer, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer is required", core.ErrInvalidConfiguration)
	}

	s := &Synthesizer{
		completer:    completer,
		instructions: DefaultInstructions,
		maxCases:     DefaultMaxCases,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Synthesize builds a prompt from the query and the ranked result and asks
// the completer for a proposal. The case base supplies the full case
// values; entries whose case is missing from it are skipped.
func (s *Synthesizer) Synthesize(ctx context.Context, cb *core.CaseBase, query core.Value, result *retrieval.Result) (string, error) {
	if cb == nil {
		return "", retrieval.ErrCaseBaseRequired
	}
	if query == nil {
		return "", retrieval.ErrQueryRequired
	}
	if result == nil || len(result.Entries) == 0 {
		return "", fmt.Errorf("%w: no retrieved cases to synthesize from", core.ErrEmptyInput)
	}

	prompt, included, err := s.buildPrompt(cb, query, result)
	if err != nil {
		return "", err
	}
	if included == 0 {
		return "", fmt.Errorf("%w: no retrieved case is present in the case base", core.ErrEmptyInput)
	}

	s.logger.Debug("requesting synthesis",
		"requestID", result.RequestID, "cases", included)

	proposal, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrCompletionUnavailable, err)
	}
	return strings.TrimSpace(proposal), nil
}

func (s *Synthesizer) buildPrompt(cb *core.CaseBase, query core.Value, result *retrieval.Result) (string, int, error) {
	var sb strings.Builder
	sb.WriteString(s.instructions)
	sb.WriteString("\n\nQuery:\n")

	queryJSON, err := json.Marshal(query)
	if err != nil {
		return "", 0, fmt.Errorf("encoding query: %w", err)
	}
	sb.Write(queryJSON)
	sb.WriteString("\n\nRetrieved cases:\n")

	included := 0
	for _, entry := range result.Entries {
		if included >= s.maxCases {
			break
		}
		value, ok := cb.Get(entry.CaseID)
		if !ok {
			s.logger.Warn("ranked case missing from case base",
				"requestID", result.RequestID, "caseID", entry.CaseID)
			continue
		}

		valueJSON, err := json.Marshal(value)
		if err != nil {
			return "", 0, fmt.Errorf("encoding case %q: %w", entry.CaseID, err)
		}
		fmt.Fprintf(&sb, "%d. %s (similarity %.3f): %s\n",
			included+1, entry.CaseID, entry.Score, valueJSON)
		included++
	}

	return sb.String(), included, nil
}
