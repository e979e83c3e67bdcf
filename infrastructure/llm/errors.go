// Package llm provides the completion transport for benchmark runs: a small
// set of provider implementations behind a common interface, composed with
// middleware for retries, rate limiting, per-attempt timeouts, metrics, and
// tracing. Callers route requests by model vendor through a Router, either
// natively per provider or through an OpenAI-compatible gateway.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by providers before a request is ever sent.
var (
	// ErrEmptyAPIKey indicates a provider was configured without an API key.
	ErrEmptyAPIKey = errors.New("API key cannot be empty")
	// ErrEmptyResponse indicates the provider returned no usable content.
	ErrEmptyResponse = errors.New("empty response from provider")
	// ErrUnknownVendor indicates a model spec references a vendor with no
	// registered provider factory.
	ErrUnknownVendor = errors.New("no provider registered for vendor")
)

// ErrorKind categorizes a failed model call. Kinds are stable strings so
// they can be persisted in failure markers and used as metric labels.
type ErrorKind string

const (
	// KindTimeout covers per-attempt deadline expiry.
	KindTimeout ErrorKind = "timeout"
	// KindRateLimited covers HTTP 429 and provider quota errors.
	KindRateLimited ErrorKind = "rate_limited"
	// KindInvalidModel covers unknown or inaccessible model identifiers.
	KindInvalidModel ErrorKind = "invalid_model"
	// KindServerError covers provider-side 5xx failures.
	KindServerError ErrorKind = "server_error"
	// KindAuth covers rejected credentials.
	KindAuth ErrorKind = "auth"
	// KindBadRequest covers malformed requests and parameter errors.
	KindBadRequest ErrorKind = "bad_request"
	// KindNetwork covers client-side connection failures.
	KindNetwork ErrorKind = "network"
	// KindCanceled covers caller-initiated cancellation.
	KindCanceled ErrorKind = "canceled"
	// KindUnknown covers everything the classifier cannot place.
	KindUnknown ErrorKind = "unknown"
)

// CallError is a model call failure normalized across providers.
// It carries the classified kind used by the retry middleware and by the
// orchestrator's failure markers.
type CallError struct {
	// Provider names the provider that produced the failure.
	Provider string
	// Kind is the classified failure category.
	Kind ErrorKind
	// StatusCode holds the HTTP status when one was received.
	StatusCode int
	// Message is the provider's error text, if any.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *CallError) Error() string {
	s := fmt.Sprintf("%s call failed [%s]", e.Provider, e.Kind)
	if e.StatusCode > 0 {
		s += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap supports errors.Is and errors.As on the underlying error.
func (e *CallError) Unwrap() error { return e.Err }

// ErrorKind implements ports.ErrorKinder so callers outside this package
// can persist the classification without importing it.
func (e *CallError) ErrorKind() string { return string(e.Kind) }

// Retryable reports whether another attempt could plausibly succeed.
// Invalid models, bad requests, auth failures, and cancellations are
// terminal on the first attempt.
func (e *CallError) Retryable() bool {
	switch e.Kind {
	case KindTimeout, KindRateLimited, KindServerError, KindNetwork:
		return true
	default:
		return false
	}
}

// KindOf extracts the classified kind from any error, returning KindUnknown
// for errors that did not come from a provider.
func KindOf(err error) ErrorKind {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	return KindUnknown
}

// classifier builds CallErrors for one provider.
type classifier struct{ provider string }

// fromStatus classifies a failure by its HTTP status code.
func (c classifier) fromStatus(status int, message string, err error) *CallError {
	kind := KindUnknown
	switch {
	case status == 401 || status == 403:
		kind = KindAuth
	case status == 404:
		kind = KindInvalidModel
	case status == 429:
		kind = KindRateLimited
	case status == 400:
		kind = KindBadRequest
	case status >= 500:
		kind = KindServerError
	case status >= 400:
		kind = KindBadRequest
	}
	return &CallError{Provider: c.provider, Kind: kind, StatusCode: status, Message: message, Err: err}
}

// fromContext classifies deadline and cancellation failures.
func (c classifier) fromContext(err error) *CallError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &CallError{Provider: c.provider, Kind: KindTimeout, Message: "attempt deadline exceeded", Err: err}
	case errors.Is(err, context.Canceled):
		return &CallError{Provider: c.provider, Kind: KindCanceled, Message: "request canceled", Err: err}
	default:
		return c.unknown(err)
	}
}

// unknown wraps an unclassifiable error, treating plain transport failures
// as network errors so they stay retryable.
func (c classifier) unknown(err error) *CallError {
	return &CallError{Provider: c.provider, Kind: KindNetwork, Err: err}
}

// isContextError reports whether err stems from context expiry.
func isContextError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
