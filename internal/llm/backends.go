package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/config"
	"github.com/sells-group/lead-cli/pkg/anthropic"
	"github.com/sells-group/lead-cli/pkg/gemini"
	"github.com/sells-group/lead-cli/pkg/ollama"
)

// AnthropicBackend adapts an anthropic.Client to Backend.
type AnthropicBackend struct {
	Client    anthropic.Client
	MaxTokens int64
}

// Generate implements Backend.
func (b *AnthropicBackend) Generate(ctx context.Context, prompt, model string, temperature float64) (string, error) {
	resp, err := b.Client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       model,
		MaxTokens:   b.MaxTokens,
		System:      []anthropic.SystemBlock{{Text: SystemPrompt}},
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GeminiBackend adapts a gemini.Client to Backend.
type GeminiBackend struct {
	Client    *gemini.Client
	MaxTokens int32
}

// Generate implements Backend.
func (b *GeminiBackend) Generate(ctx context.Context, prompt, model string, temperature float64) (string, error) {
	return b.Client.Generate(ctx, gemini.Request{
		Model:       model,
		System:      SystemPrompt,
		Prompt:      prompt,
		Temperature: temperature,
		MaxTokens:   b.MaxTokens,
	})
}

// OllamaBackend adapts an ollama.Client to Backend.
type OllamaBackend struct {
	Client    *ollama.Client
	MaxTokens int
}

// Generate implements Backend.
func (b *OllamaBackend) Generate(ctx context.Context, prompt, model string, temperature float64) (string, error) {
	return b.Client.Generate(ctx, ollama.Request{
		Model:       model,
		System:      SystemPrompt,
		Prompt:      prompt,
		Temperature: temperature,
		MaxTokens:   b.MaxTokens,
	})
}

// NewFromConfig builds the gateway for the configured backend. A hosted
// provider without an API key yields a gateway with no backend, which answers
// every prompt with SentinelNotConfigured.
func NewFromConfig(ctx context.Context, cfg config.LLMConfig) (*Gateway, error) {
	opts := Options{
		Model:            cfg.Model,
		Temperature:      cfg.Temperature,
		MaxRetries:       cfg.MaxRetries,
		RetryDelay:       time.Duration(cfg.RetryDelayMs) * time.Millisecond,
		RateLimit:        cfg.RateLimit,
		BreakerThreshold: cfg.BreakerThreshold,
		BreakerCooldown:  time.Duration(cfg.BreakerCooldownSecs) * time.Second,
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second

	if cfg.UseLocal {
		opts.Name = "ollama"
		if opts.Model == "" {
			opts.Model = ollama.DefaultModel
		}
		client := ollama.NewClient(cfg.OllamaURL, ollama.WithHTTPClient(&http.Client{Timeout: timeout}))
		return New(&OllamaBackend{Client: client, MaxTokens: cfg.MaxTokens}, opts), nil
	}

	switch cfg.Provider {
	case "anthropic", "":
		opts.Name = "anthropic"
		if cfg.AnthropicKey == "" {
			zap.L().Warn("llm: anthropic api key not set, model analysis disabled")
			return New(nil, opts), nil
		}
		if opts.Model == "" {
			opts.Model = anthropic.DefaultModel
		}
		client := anthropic.NewClient(cfg.AnthropicKey)
		return New(&AnthropicBackend{Client: client, MaxTokens: int64(cfg.MaxTokens)}, opts), nil

	case "gemini":
		opts.Name = "gemini"
		if cfg.GeminiKey == "" {
			zap.L().Warn("llm: gemini api key not set, model analysis disabled")
			return New(nil, opts), nil
		}
		if opts.Model == "" {
			opts.Model = gemini.DefaultModel
		}
		client, err := gemini.NewClient(ctx, cfg.GeminiKey)
		if err != nil {
			return nil, eris.Wrap(err, "llm: create gemini client")
		}
		return New(&GeminiBackend{Client: client, MaxTokens: int32(cfg.MaxTokens)}, opts), nil

	default:
		return nil, eris.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
