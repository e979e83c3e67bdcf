package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-rubric/internal/domain"
)

// echoLLM records the model it was asked for and echoes it back.
type echoLLM struct {
	name      string
	lastModel string
}

func (e *echoLLM) Provider() string { return e.name }

func (e *echoLLM) DoRequest(ctx context.Context, model, prompt string, opts map[string]any) (string, int, int, error) {
	e.lastModel = model
	return "echo:" + model, 0, 0, nil
}

func newEchoClient(t *testing.T, name string) (*Client, *echoLLM) {
	t.Helper()
	echo := &echoLLM{name: name}
	RegisterProviderFactory(name, func(ClientConfig) (CoreLLM, error) { return echo, nil })
	client, err := NewClient(name, ClientConfig{APIKey: "test"})
	require.NoError(t, err)
	return client, echo
}

func TestNewClientUnknownProvider(t *testing.T) {
	_, err := NewClient("no-such-provider", ClientConfig{APIKey: "test"})
	require.ErrorIs(t, err, ErrUnknownVendor)
}

func TestGatewayRouterPassesCompositeIdentifier(t *testing.T) {
	client, echo := newEchoClient(t, "test-gateway")
	router := NewGatewayRouter(client)

	spec := domain.ModelSpec{Vendor: "openai", Name: "gpt-4o-mini"}
	response, err := router.Complete(context.Background(), spec, "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "echo:openai/gpt-4o-mini", response)
	assert.Equal(t, "openai/gpt-4o-mini", echo.lastModel,
		"gateways receive the full vendor/name identifier")
}

func TestVendorRouterPassesNativeName(t *testing.T) {
	client, echo := newEchoClient(t, "test-native")
	router := NewVendorRouter(map[string]*Client{"acme": client})

	spec := domain.ModelSpec{Vendor: "acme", Name: "model-v2"}
	_, err := router.Complete(context.Background(), spec, "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "model-v2", echo.lastModel,
		"native clients receive only the vendor-scoped name")
}

func TestVendorRouterUnknownVendorIsInvalidModel(t *testing.T) {
	router := NewVendorRouter(map[string]*Client{})

	spec := domain.ModelSpec{Vendor: "ghost", Name: "m"}
	_, err := router.Complete(context.Background(), spec, "hi", nil)
	require.Error(t, err)

	var ce *CallError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, KindInvalidModel, ce.Kind,
		"unroutable vendors must be terminal, not retried")
}

func TestBuiltinProvidersRegistered(t *testing.T) {
	for _, name := range []string{"openrouter", "openai", "anthropic", "google"} {
		_, ok := lookupProviderFactory(name)
		assert.True(t, ok, "provider %s should self-register", name)
	}
}

func TestChatProviderRequiresAPIKey(t *testing.T) {
	_, err := NewClient("openai", ClientConfig{})
	require.ErrorIs(t, err, ErrEmptyAPIKey)
}
