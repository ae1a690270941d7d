// Package generation wraps the external text-generation engines behind a
// small interface so the orchestrator (services.GenerationService) can fan
// out per template without knowing which vendor it is talking to, and so
// tests can substitute stubs.
package generation

import (
	"context"
	"errors"
	"fmt"
)

// Supported engine selectors. The set is closed; only Gemini is wired to a
// real client today.
const (
	EngineGemini = "gemini"
	EngineClaude = "claude"
	EngineOpenAI = "openai"
)

// ErrUnknownEngine is returned for selectors outside the closed engine set.
// It is a caller configuration error and rejects the whole batch before any
// template is attempted.
var ErrUnknownEngine = errors.New("unknown ai engine")

// ErrEngineNotConfigured is returned for selectors that are recognized but
// have no working client (claude, openai, or gemini without an API key).
var ErrEngineNotConfigured = errors.New("ai engine not configured")

// Result is one successful engine call: the generated text plus the token
// counters the orchestrator aggregates across a batch.
type Result struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

// Engine produces rewritten text from a template prompt and an article.
// Implementations must be safe for concurrent use: the orchestrator may run
// template calls in parallel.
type Engine interface {
	// Name returns the engine selector (e.g. "gemini").
	Name() string
	// Generate invokes the engine with the template prompt followed by the
	// article text. Transport, auth, and rate errors come back as plain
	// errors; the orchestrator isolates them per template.
	Generate(ctx context.Context, prompt, article string) (*Result, error)
}

// Config carries the credentials and model selection for engine clients.
type Config struct {
	GeminiAPIKey string
	GeminiModel  string
}

// Resolver maps an engine selector to a ready client. A zero Resolver
// rejects everything as not configured.
type Resolver struct {
	cfg Config
}

// NewResolver returns a Resolver over the given engine configuration.
func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve returns the Engine for the given selector.
//
// Unknown selectors yield ErrUnknownEngine. Claude and OpenAI are part of
// the selector set but have no client yet, so they yield
// ErrEngineNotConfigured, as does Gemini without an API key. Both errors are
// request-level fatal: resolution happens before any template work.
func (r *Resolver) Resolve(ctx context.Context, name string) (Engine, error) {
	switch name {
	case EngineGemini:
		return NewGemini(ctx, r.cfg.GeminiAPIKey, r.cfg.GeminiModel)
	case EngineClaude, EngineOpenAI:
		return nil, fmt.Errorf("%w: %s", ErrEngineNotConfigured, name)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}
