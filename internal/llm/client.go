// Package llm constructs configured OpenAI API clients for the embedding
// and extraction layers. Both speak the same wire protocol, so the client
// setup (credential check, optional base URL override for compatible
// endpoints) lives here once.
package llm

import (
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// NewClient builds an OpenAI client for the given credential. An empty
// base URL means the public OpenAI endpoint; a non-empty one points the
// client at any OpenAI-compatible server.
func NewClient(apiKey, baseURL string) (*openai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return openai.NewClientWithConfig(clientConfig), nil
}
