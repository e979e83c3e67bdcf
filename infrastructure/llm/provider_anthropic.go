package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func init() {
	RegisterProviderFactory("anthropic", newAnthropicProvider)
}

// anthropicProvider implements CoreLLM for Anthropic's Messages API.
type anthropicProvider struct {
	client   anthropic.Client
	classify classifier
}

func newAnthropicProvider(config ClientConfig) (CoreLLM, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &anthropicProvider{
		client:   anthropic.NewClient(opts...),
		classify: classifier{provider: "anthropic"},
	}, nil
}

// Provider implements CoreLLM.
func (p *anthropicProvider) Provider() string { return "anthropic" }

// DoRequest implements CoreLLM.
func (p *anthropicProvider) DoRequest(ctx context.Context, model, prompt string, opts map[string]any) (string, int, int, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(optionInt(opts, "max_tokens", DefaultMaxTokens)),
		Temperature: anthropic.Float(optionFloat(opts, "temperature", DefaultTemperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", 0, 0, p.wrapError(err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if content, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(content.Text)
		}
	}
	if text.Len() == 0 {
		return "", 0, 0, &CallError{Provider: "anthropic", Kind: KindServerError, Message: "no text blocks in response", Err: ErrEmptyResponse}
	}

	return text.String(), int(message.Usage.InputTokens), int(message.Usage.OutputTokens), nil
}

// wrapError normalizes Anthropic SDK errors into classified CallErrors.
func (p *anthropicProvider) wrapError(err error) error {
	if isContextError(err) {
		return p.classify.fromContext(err)
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return p.classify.fromStatus(apiErr.StatusCode, apiErr.Error(), err)
	}

	return p.classify.unknown(err)
}
