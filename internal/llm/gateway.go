// Package llm sends prompts to a configured language model backend and
// extracts structured data from its replies. Failures never surface as
// errors: callers get a sentinel string and fall back to rules.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/lead-cli/internal/resilience"
)

// Sentinel replies returned instead of errors.
const (
	SentinelNotConfigured = "LLM backend is not configured"
	SentinelFailed        = "Failed to get response from LLM"
)

// IsSentinel reports whether text is one of the gateway's failure replies.
func IsSentinel(text string) bool {
	return text == SentinelNotConfigured || text == SentinelFailed
}

// SystemPrompt is sent with every request.
const SystemPrompt = "You are a helpful assistant that provides concise, accurate information."

// DefaultTemperature is the sampling temperature when none is given.
const DefaultTemperature = 0.7

// Backend produces a completion for a single prompt.
type Backend interface {
	Generate(ctx context.Context, prompt, model string, temperature float64) (string, error)
}

// Options configures a Gateway.
type Options struct {
	Name             string
	Model            string
	Temperature      float64
	MaxRetries       int
	RetryDelay       time.Duration
	RateLimit        float64 // requests per second, 0 = unlimited
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// Gateway wraps a Backend with pacing, retries and failure sentinels. Only
// transient backend errors (see resilience.IsTransient) and empty replies are
// retried.
type Gateway struct {
	backend Backend
	name    string
	model   string
	temp    float64
	retry   resilience.RetryConfig
	limiter *rate.Limiter
	breaker *resilience.Breaker
}

// New creates a Gateway. A nil backend yields a gateway that always answers
// SentinelNotConfigured.
func New(backend Backend, opts Options) *Gateway {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryDelay < 0 {
		opts.RetryDelay = 0
	}
	if opts.Temperature <= 0 {
		opts.Temperature = DefaultTemperature
	}

	g := &Gateway{
		backend: backend,
		name:    opts.Name,
		model:   opts.Model,
		temp:    opts.Temperature,
		retry:   resilience.FixedDelay(opts.MaxRetries, opts.RetryDelay),
		breaker: resilience.NewBreaker(resilience.BreakerConfig{
			FailureThreshold: opts.BreakerThreshold,
			Cooldown:         opts.BreakerCooldown,
		}),
	}
	if opts.RateLimit > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	g.retry.OnRetry = resilience.RetryLogger("llm", g.name)
	return g
}

// Available reports whether a backend is configured and not tripped.
func (g *Gateway) Available() bool {
	return g != nil && g.backend != nil && !g.breaker.Open()
}

// Name returns the backend name for logging.
func (g *Gateway) Name() string {
	if g == nil {
		return ""
	}
	return g.name
}

type callOptions struct {
	model       string
	temperature float64
}

// Option overrides a per-call setting.
type Option func(*callOptions)

// WithModel overrides the model for one call.
func WithModel(model string) Option {
	return func(o *callOptions) { o.model = model }
}

// WithTemperature overrides the sampling temperature for one call.
func WithTemperature(t float64) Option {
	return func(o *callOptions) { o.temperature = t }
}

// Generate returns the model's reply to prompt, or a sentinel when no backend
// is configured or every attempt failed.
func (g *Gateway) Generate(ctx context.Context, prompt string, opts ...Option) string {
	if g == nil || g.backend == nil {
		return SentinelNotConfigured
	}

	co := callOptions{model: g.model, temperature: g.temp}
	for _, o := range opts {
		o(&co)
	}

	start := time.Now()
	text, err := resilience.Call(ctx, g.breaker, func(ctx context.Context) (string, error) {
		return resilience.DoVal(ctx, g.retry, func(ctx context.Context) (string, error) {
			return g.attempt(ctx, prompt, co)
		})
	})
	if err != nil {
		zap.L().Warn("llm: generate failed",
			zap.String("backend", g.name),
			zap.String("model", co.model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return SentinelFailed
	}

	zap.L().Debug("llm: generate ok",
		zap.String("backend", g.name),
		zap.Int("prompt_len", len(prompt)),
		zap.Int("reply_len", len(text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return text
}

func (g *Gateway) attempt(ctx context.Context, prompt string, co callOptions) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.New(fmt.Sprintf("llm: backend panic: %v", r))
		}
	}()

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "llm: rate limit wait")
		}
	}

	text, err = g.backend.Generate(ctx, prompt, co.model, co.temperature)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", resilience.NewTransientError(eris.New("llm: empty response"), 0)
	}
	return text, nil
}
