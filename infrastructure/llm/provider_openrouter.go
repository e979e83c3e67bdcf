package llm

// OpenRouterBaseURL is the default endpoint for the OpenRouter gateway.
// OpenRouter speaks the OpenAI chat-completions protocol and accepts the
// composite "vendor/name" identifier as the model field, which makes it
// the natural single transport for multi-vendor benchmark runs.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

func init() {
	RegisterProviderFactory("openrouter", func(config ClientConfig) (CoreLLM, error) {
		return newChatProvider("openrouter", OpenRouterBaseURL, config)
	})
}
