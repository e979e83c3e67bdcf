package llm

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

func init() {
	RegisterProviderFactory("openai", func(config ClientConfig) (CoreLLM, error) {
		return newChatProvider("openai", "", config)
	})
}

// chatProvider implements CoreLLM over the OpenAI chat-completions wire
// format. It backs both the native openai provider and any gateway that
// speaks the same protocol (openrouter).
type chatProvider struct {
	name     string
	client   *openai.Client
	classify classifier
}

// newChatProvider creates a chat-completions provider. defaultBaseURL is
// applied when the config does not override the endpoint; empty means the
// SDK's default OpenAI endpoint.
func newChatProvider(name, defaultBaseURL string, config ClientConfig) (CoreLLM, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	switch {
	case config.BaseURL != "":
		clientConfig.BaseURL = config.BaseURL
	case defaultBaseURL != "":
		clientConfig.BaseURL = defaultBaseURL
	}
	// The middleware chain owns deadlines; keep the transport itself
	// unbounded so a per-attempt timeout is the only clock in play.
	clientConfig.HTTPClient = &http.Client{}

	return &chatProvider{
		name:     name,
		client:   openai.NewClientWithConfig(clientConfig),
		classify: classifier{provider: name},
	}, nil
}

// Provider implements CoreLLM.
func (p *chatProvider) Provider() string { return p.name }

// DoRequest implements CoreLLM over a single user message.
func (p *chatProvider) DoRequest(ctx context.Context, model, prompt string, opts map[string]any) (string, int, int, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(optionFloat(opts, "temperature", DefaultTemperature)),
		MaxTokens:   optionInt(opts, "max_tokens", DefaultMaxTokens),
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", 0, 0, p.wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", 0, 0, &CallError{Provider: p.name, Kind: KindServerError, Message: "no response choices", Err: ErrEmptyResponse}
	}

	content := resp.Choices[0].Message.Content
	return content, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, nil
}

// wrapError normalizes go-openai errors into classified CallErrors.
func (p *chatProvider) wrapError(err error) error {
	if isContextError(err) {
		return p.classify.fromContext(err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return p.classify.fromStatus(apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return p.classify.fromStatus(reqErr.HTTPStatusCode, reqErr.Error(), err)
	}

	return p.classify.unknown(err)
}
