package generation

import (
	"context"
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	r := NewResolver(Config{})

	if _, err := r.Resolve(context.Background(), "bogus"); !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("bogus: got %v", err)
	}
	for _, name := range []string{EngineClaude, EngineOpenAI} {
		if _, err := r.Resolve(context.Background(), name); !errors.Is(err, ErrEngineNotConfigured) {
			t.Fatalf("%s: got %v", name, err)
		}
	}
	// Gemini without an API key is recognized but unusable.
	if _, err := r.Resolve(context.Background(), EngineGemini); !errors.Is(err, ErrEngineNotConfigured) {
		t.Fatalf("gemini without key: got %v", err)
	}
}
