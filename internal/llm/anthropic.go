// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	anthropicSDK "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pdiddy/contract-engine/pkg/types"
)

// AnthropicClient calls the Claude Messages API.
type AnthropicClient struct {
	client    anthropicSDK.Client
	model     string
	maxTokens int
}

// NewAnthropic creates a Claude backend. Retries are left to the HTTP
// client's transport, so the SDK's own retry loop is disabled.
func NewAnthropic(cfg types.AIConfig, apiKey string, httpClient *http.Client) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &AnthropicClient{
		client:    anthropicSDK.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

// Complete sends one Messages API request and concatenates the text blocks
// of the reply. Claude has no JSON response mode; req.JSON is honoured by the
// prompt alone.
func (a *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	params := anthropicSDK.MessageNewParams{
		Model:     anthropicSDK.Model(a.model),
		MaxTokens: maxTokens(req, a.maxTokens),
		Messages:  toAnthropicMessages(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropicSDK.TextBlockParam{{Text: req.System}}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type != "text" {
			continue
		}
		b.WriteString(block.Text)
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

func toAnthropicMessages(msgs []Message) []anthropicSDK.MessageParam {
	out := make([]anthropicSDK.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		block := anthropicSDK.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			out = append(out, anthropicSDK.NewAssistantMessage(block))
			continue
		}
		out = append(out, anthropicSDK.NewUserMessage(block))
	}
	return out
}
