// Package ai provides the generative-text collaborator: one prompt string
// in, one generated text out. All structure in the response (month markers,
// list formatting) is requested through the prompt, never through the API.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrCollaborator marks a generation call that could not be completed,
// whether no provider is configured or the configured one failed.
var ErrCollaborator = errors.New("collaborator call failed")

// GenerateRequest is the input to a text generation call.
type GenerateRequest struct {
	Prompt      string  `json:"prompt"`
	Model       string  `json:"model,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// GenerateResponse is the output of a text generation call.
type GenerateResponse struct {
	Text         string `json:"text"`
	Model        string `json:"model"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// ModelInfo describes an available model.
type ModelInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MaxTokens int    `json:"max_tokens"`
}

// Provider is the interface all collaborator backends implement.
type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Models() []ModelInfo
	HealthCheck(ctx context.Context) error
}

// Generator is the narrow contract the domain services depend on.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
}

// Registry holds the configured providers and designates one as primary.
// A generation call goes to the primary only: a failed call is reported to
// the caller, never retried against another provider.
type Registry struct {
	providers map[string]Provider
	primary   string
	mu        sync.RWMutex
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider. The first registered provider becomes primary.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
	if r.primary == "" {
		r.primary = name
	}
}

// SetPrimary designates the provider generation calls go to.
func (r *Registry) SetPrimary(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("unknown provider %q", name)
	}
	r.primary = name
	return nil
}

// HasProvider reports whether any provider is registered.
func (r *Registry) HasProvider() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers) > 0
}

// Generate sends the prompt to the primary provider.
func (r *Registry) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	r.mu.RLock()
	name := r.primary
	p, ok := r.providers[name]
	r.mu.RUnlock()

	if !ok {
		return GenerateResponse{}, fmt.Errorf("%w: no provider configured", ErrCollaborator)
	}

	resp, err := p.Generate(ctx, req)
	if err != nil {
		slog.Warn("collaborator call failed", "provider", name, "error", err)
		return GenerateResponse{}, fmt.Errorf("%w: %s: %w", ErrCollaborator, name, err)
	}

	slog.Debug("collaborator call completed",
		"provider", name,
		"model", resp.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
	)
	return resp, nil
}
