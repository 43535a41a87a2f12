package openai

import (
	"context"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/casekit/ai"
)

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client llms.Model
	logger *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if !config.CompletionEnabled() {
		return nil, ai.ErrCompletionHostRequired
	}

	client, err := openai.New(
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken(config.APIToken),
		openai.WithModel(config.CompletionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client: client,
		logger: slog.Default().With("component", "openai-completer"),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete generates a completion for the prompt with temperature 0 so that
// repeated calls with the same prompt stay as deterministic as the backend
// allows.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("generating completion", "promptLength", len(prompt))

	response, err := llms.GenerateFromSinglePrompt(ctx, c.client, prompt, llms.WithTemperature(0.0))
	if err != nil {
		c.logger.Error("failed to generate completion", "err", err)
		return "", err
	}
	return response, nil
}
