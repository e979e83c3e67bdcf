package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Default request options applied when the caller supplies none.
// The benchmark sends every prompt verbatim with a fixed sampling
// temperature and response budget so runs are comparable across models.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 600
)

// CoreLLM is the minimal surface a provider must implement. The model is
// passed per request in the provider's native form (for a gateway, the full
// composite identifier), so one provider instance serves every configured
// model behind the same credentials.
type CoreLLM interface {
	// DoRequest sends prompt to model and returns the response text plus
	// input and output token counts when the provider reports them.
	DoRequest(ctx context.Context, model, prompt string, opts map[string]any) (response string, tokensIn, tokensOut int, err error)

	// Provider returns the provider name for logs, metrics, and errors.
	Provider() string
}

// Middleware wraps a CoreLLM with cross-cutting behavior such as retries
// or rate limiting. Middleware compose; the last one in a chain talks to
// the provider.
type Middleware func(CoreLLM) CoreLLM

// ClientConfig configures a provider and its middleware chain.
type ClientConfig struct {
	// APIKey authenticates requests to the provider.
	APIKey string

	// BaseURL overrides the provider's default endpoint. Used mainly by
	// the openrouter provider, which is an OpenAI-compatible gateway.
	BaseURL string

	// AttemptTimeout bounds each individual request attempt. Zero disables
	// the per-attempt deadline.
	AttemptTimeout time.Duration

	// Retry controls the backoff schedule for transient failures.
	Retry RetryConfig

	// RequestsPerSecond paces outgoing attempts. Zero disables pacing.
	RequestsPerSecond float64

	// Burst is the token bucket depth when pacing is enabled.
	Burst int

	// ExtraMiddleware is appended after the standard chain, closest to
	// the provider.
	ExtraMiddleware []Middleware
}

// Client composes a provider with the standard middleware chain. Order,
// outermost first: tracing, metrics, retry, rate limit, per-attempt timeout.
// Rate limiting sits inside retry so every attempt waits for a token, and
// the timeout is innermost so it bounds single attempts rather than the
// whole retry schedule.
type Client struct {
	core CoreLLM
}

// NewClient builds a Client for the named provider. The provider must have
// been registered via RegisterProviderFactory (all built-in providers
// register themselves in init).
func NewClient(provider string, config ClientConfig) (*Client, error) {
	factory, ok := lookupProviderFactory(provider)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVendor, provider)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", provider, err)
	}

	var chain []Middleware
	chain = append(chain, TracingMiddleware())
	chain = append(chain, MetricsMiddleware())
	chain = append(chain, RetryMiddleware(config.Retry))
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst <= 0 {
			burst = 1
		}
		chain = append(chain, RateLimitMiddleware(rate.Limit(config.RequestsPerSecond), burst))
	}
	if config.AttemptTimeout > 0 {
		chain = append(chain, TimeoutMiddleware(config.AttemptTimeout))
	}
	chain = append(chain, config.ExtraMiddleware...)

	// Apply in reverse so the first middleware in the chain is outermost.
	for i := len(chain) - 1; i >= 0; i-- {
		core = chain[i](core)
	}

	return &Client{core: core}, nil
}

// Complete sends a completion request and returns the response text.
func (c *Client) Complete(ctx context.Context, model, prompt string, options map[string]any) (string, error) {
	response, _, _, err := c.core.DoRequest(ctx, model, prompt, options)
	return response, err
}

// optionFloat reads a float option, tolerating int values from config files.
func optionFloat(opts map[string]any, key string, fallback float64) float64 {
	if opts == nil {
		return fallback
	}
	switch v := opts[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	default:
		return fallback
	}
}

// optionInt reads an integer option, tolerating float values from JSON.
func optionInt(opts map[string]any, key string, fallback int) int {
	if opts == nil {
		return fallback
	}
	switch v := opts[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}
