package llm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// tracerName identifies spans emitted by the completion transport.
const tracerName = "github.com/ahrav/go-rubric/infrastructure/llm"

// tracingLLM wraps completions in OpenTelemetry spans carrying the provider,
// model, and token usage. Spans are no-ops unless the host process installs
// a tracer provider.
type tracingLLM struct {
	next CoreLLM
}

// TracingMiddleware creates middleware emitting one span per completion.
func TracingMiddleware() Middleware {
	return func(next CoreLLM) CoreLLM {
		return &tracingLLM{next: next}
	}
}

// Provider implements CoreLLM.
func (t *tracingLLM) Provider() string { return t.next.Provider() }

// DoRequest forwards the request inside a span.
func (t *tracingLLM) DoRequest(ctx context.Context, model, prompt string, opts map[string]any) (string, int, int, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "llm.Complete")
	defer span.End()

	span.SetAttributes(
		attribute.String("llm.provider", t.next.Provider()),
		attribute.String("llm.model", model),
	)

	response, tokensIn, tokensOut, err := t.next.DoRequest(ctx, model, prompt, opts)
	if err != nil {
		span.SetAttributes(attribute.String("llm.error_kind", string(KindOf(err))))
		span.SetStatus(codes.Error, err.Error())
		return "", 0, 0, err
	}

	span.SetAttributes(
		attribute.Int("llm.tokens_in", tokensIn),
		attribute.Int("llm.tokens_out", tokensOut),
	)
	span.SetStatus(codes.Ok, "")
	return response, tokensIn, tokensOut, nil
}
