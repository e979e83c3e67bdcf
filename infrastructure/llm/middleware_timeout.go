package llm

import (
	"context"
	"time"
)

// timeoutLLM bounds each individual attempt. It sits innermost in the
// middleware chain so the retry schedule is not charged against the
// attempt deadline.
type timeoutLLM struct {
	next    CoreLLM
	timeout time.Duration
}

// TimeoutMiddleware creates middleware enforcing a per-attempt deadline.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &timeoutLLM{next: next, timeout: timeout}
	}
}

// Provider implements CoreLLM.
func (t *timeoutLLM) Provider() string { return t.next.Provider() }

// DoRequest executes the attempt under a deadline-bounded context.
func (t *timeoutLLM) DoRequest(ctx context.Context, model, prompt string, opts map[string]any) (string, int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.DoRequest(ctx, model, prompt, opts)
}
