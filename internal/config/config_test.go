package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Errorf("APIBasePath = %q", cfg.APIBasePath)
	}
	if cfg.MaxArticleRunes != 50000 {
		t.Errorf("MaxArticleRunes = %d", cfg.MaxArticleRunes)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("Gemini.Model = %q", cfg.Gemini.Model)
	}
	if cfg.MaxPublishRetries != 3 || cfg.PublishRetryDelay != 5*time.Minute {
		t.Errorf("publish retry = %d/%v", cfg.MaxPublishRetries, cfg.PublishRetryDelay)
	}
	if cfg.RateMaxPerWindow != 10 || cfg.RateWindow != time.Minute {
		t.Errorf("rate gate = %d/%v", cfg.RateMaxPerWindow, cfg.RateWindow)
	}
	if cfg.Threads.Timeout != 30*time.Second {
		t.Errorf("Threads.Timeout = %v", cfg.Threads.Timeout)
	}
	if cfg.OTEL.ServiceName != "go-repurpose-backend" {
		t.Errorf("OTEL.ServiceName = %q", cfg.OTEL.ServiceName)
	}
}

func TestLoadOverridesAndNormalization(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("GIN_MODE", "bogus")
	t.Setenv("API_BASE_PATH", "api/v2/")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , https://b.example ,")
	t.Setenv("MAX_ARTICLE_RUNES", "123")
	t.Setenv("PUBLISH_RETRY_DELAY", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q", cfg.GinMode)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Errorf("APIBasePath = %q", cfg.APIBasePath)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[0] != "https://a.example" {
		t.Errorf("CORS = %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.MaxArticleRunes != 123 {
		t.Errorf("MaxArticleRunes = %d", cfg.MaxArticleRunes)
	}
	if cfg.PublishRetryDelay != 90*time.Second {
		t.Errorf("PublishRetryDelay = %v", cfg.PublishRetryDelay)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		key, val string
		want     string
	}{
		{"LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"RATE_MAX_PER_WINDOW", "0", "RATE_MAX_PER_WINDOW"},
		{"MAX_PUBLISH_RETRIES", "-1", "MAX_PUBLISH_RETRIES"},
		{"RATE_BURST", "0", "RATE_BURST"},
		{"OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v; want mention of %s", err, tc.want)
			}
		})
	}
}
