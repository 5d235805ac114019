// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the hosted language model behind a single
// request/response call so analysis and chat can share backends and tests
// can supply a mock.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/contract-engine/pkg/types"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("model returned no text")

// Role is the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Request is a single completion call.
type Request struct {
	// System carries the instructions and, for chat, the contract text.
	System string

	// Messages is the conversation, oldest first. The last message is the
	// one the model answers.
	Messages []Message

	// JSON asks the backend to constrain output to a JSON object where the
	// provider supports it.
	JSON bool

	// MaxTokens overrides the backend default when positive.
	MaxTokens int
}

// Completer sends a request to a language model and returns its text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// New builds the backend selected by cfg.Provider. httpClient may be nil.
func New(cfg types.AIConfig, apiKey string, httpClient *http.Client) (Completer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Provider)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	switch cfg.Provider {
	case types.ProviderAnthropic:
		return NewAnthropic(cfg, apiKey, httpClient), nil
	case types.ProviderOpenAI:
		return NewOpenAI(cfg, apiKey, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// SecretKey returns the secrets file name holding the API key for provider.
func SecretKey(provider types.AIProvider) string {
	return string(provider) + "-api-key"
}

// StripCodeFence removes a Markdown code fence wrapped around a JSON reply.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func maxTokens(req Request, fallback int) int64 {
	if req.MaxTokens > 0 {
		return int64(req.MaxTokens)
	}
	if fallback > 0 {
		return int64(fallback)
	}
	return 8192
}
