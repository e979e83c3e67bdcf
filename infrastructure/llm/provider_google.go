package llm

import (
	"context"
	"errors"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

func init() {
	RegisterProviderFactory("google", newGoogleProvider)
}

// googleProvider implements CoreLLM for Google's Gemini API.
type googleProvider struct {
	client   *genai.Client
	classify classifier
}

func newGoogleProvider(config ClientConfig) (CoreLLM, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &googleProvider{
		client:   client,
		classify: classifier{provider: "google"},
	}, nil
}

// Provider implements CoreLLM.
func (p *googleProvider) Provider() string { return "google" }

// DoRequest implements CoreLLM.
func (p *googleProvider) DoRequest(ctx context.Context, model, prompt string, opts map[string]any) (string, int, int, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(optionFloat(opts, "temperature", DefaultTemperature))),
		MaxOutputTokens: int32(optionInt(opts, "max_tokens", DefaultMaxTokens)),
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", 0, 0, p.wrapError(err)
	}

	text := resp.Text()
	if text == "" {
		return "", 0, 0, &CallError{Provider: "google", Kind: KindServerError, Message: "no candidates in response", Err: ErrEmptyResponse}
	}

	var tokensIn, tokensOut int
	if usage := resp.UsageMetadata; usage != nil {
		tokensIn = int(usage.PromptTokenCount)
		tokensOut = int(usage.CandidatesTokenCount)
	}
	return text, tokensIn, tokensOut, nil
}

// wrapError normalizes Gemini API errors into classified CallErrors.
func (p *googleProvider) wrapError(err error) error {
	if isContextError(err) {
		return p.classify.fromContext(err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" && len(apiErr.Errors) > 0 {
			message = apiErr.Errors[0].Message
		}
		return p.classify.fromStatus(apiErr.Code, message, err)
	}

	return p.classify.unknown(err)
}
