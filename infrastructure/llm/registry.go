package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/ahrav/go-rubric/internal/domain"
	"github.com/ahrav/go-rubric/internal/ports"
)

// ProviderFactory constructs a provider from client configuration.
type ProviderFactory func(ClientConfig) (CoreLLM, error)

var (
	factoryMu sync.RWMutex
	factories = make(map[string]ProviderFactory)
)

// RegisterProviderFactory makes a provider available to NewClient under the
// given name. Built-in providers register themselves in init; the hook is
// exported so tests and embedders can add stubs.
func RegisterProviderFactory(name string, factory ProviderFactory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factories[name] = factory
}

func lookupProviderFactory(name string) (ProviderFactory, bool) {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	f, ok := factories[name]
	return f, ok
}

var _ ports.CompletionClient = (*Router)(nil)

// Router implements ports.CompletionClient by dispatching each request to
// the right provider client based on the model's vendor. In gateway mode a
// single OpenAI-compatible endpoint serves every vendor and receives the
// full composite identifier; in native mode each vendor needs its own
// registered client and receives only the vendor-scoped model name.
type Router struct {
	gateway *Client
	clients map[string]*Client
}

// NewGatewayRouter routes every model through one gateway client.
func NewGatewayRouter(gateway *Client) *Router {
	return &Router{gateway: gateway}
}

// NewVendorRouter routes models to per-vendor clients.
func NewVendorRouter(clients map[string]*Client) *Router {
	return &Router{clients: clients}
}

// Complete implements ports.CompletionClient.
func (r *Router) Complete(ctx context.Context, model domain.ModelSpec, prompt string, options map[string]any) (string, error) {
	if r.gateway != nil {
		return r.gateway.Complete(ctx, model.ID(), prompt, options)
	}

	client, ok := r.clients[model.Vendor]
	if !ok {
		// Surface this as an invalid-model failure so the orchestrator
		// records it terminally instead of retrying.
		return "", &CallError{
			Provider: "router",
			Kind:     KindInvalidModel,
			Message:  fmt.Sprintf("%v: %q", ErrUnknownVendor, model.Vendor),
		}
	}
	return client.Complete(ctx, model.Name, prompt, options)
}
