package generation

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// defaultGeminiModel is used when no model is configured.
const defaultGeminiModel = "gemini-2.0-flash"

// Gemini is the Google Gemini engine backed by google.golang.org/genai.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini builds a Gemini engine. A missing API key is a configuration
// error surfaced as ErrEngineNotConfigured.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini (missing api key)", ErrEngineNotConfigured)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{client: client, model: model}, nil
}

// Name implements Engine.
func (g *Gemini) Name() string { return EngineGemini }

// Generate implements Engine. The template prompt carries the rewrite
// instructions (tone, language, formatting); the article is appended as
// plain content below it.
func (g *Gemini) Generate(ctx context.Context, prompt, article string) (*Result, error) {
	full := prompt + "\n\nArticle:\n" + article

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(full), nil)
	if err != nil {
		return nil, err
	}

	out := &Result{Text: resp.Text()}
	if um := resp.UsageMetadata; um != nil {
		out.InputTokens = int64(um.PromptTokenCount)
		out.OutputTokens = int64(um.CandidatesTokenCount)
	}
	return out, nil
}
