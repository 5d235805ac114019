// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/contract-engine/pkg/types"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```\n", `{"a":1}`},
		{"```json{\"a\":1}```", `{"a":1}`},
		{"  plain text  ", "plain text"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripCodeFence(tt.in), "input %q", tt.in)
	}
}

func TestNew(t *testing.T) {
	cfg := types.DefaultConfig().AI

	_, err := New(cfg, "", nil)
	assert.Error(t, err, "missing key")

	c, err := New(cfg, "key", nil)
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, c)

	cfg.Provider = types.ProviderOpenAI
	c, err = New(cfg, "key", nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	cfg.Provider = "gemini"
	_, err = New(cfg, "key", nil)
	assert.Error(t, err)
}

func TestSecretKey(t *testing.T) {
	assert.Equal(t, "anthropic-api-key", SecretKey(types.ProviderAnthropic))
	assert.Equal(t, "openai-api-key", SecretKey(types.ProviderOpenAI))
}

// capture records the decoded JSON body of the last request.
type capture struct {
	path string
	body map[string]any
}

func newServer(t *testing.T, c *capture, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.path = r.URL.Path
		data, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("reading request body: %v", err)
		}
		if err := json.Unmarshal(data, &c.body); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnthropicComplete(t *testing.T) {
	var c capture
	srv := newServer(t, &c, `{
		"id": "msg_01",
		"type": "message",
		"role": "assistant",
		"model": "claude-test",
		"content": [{"type": "text", "text": "{\"ok\":"}, {"type": "text", "text": "true}"}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 10, "output_tokens": 3}
	}`)

	cfg := types.AIConfig{Provider: types.ProviderAnthropic, Model: "claude-test", MaxTokens: 512, BaseURL: srv.URL}
	client := NewAnthropic(cfg, "test-key", srv.Client())

	got, err := client.Complete(context.Background(), Request{
		System: "be brief",
		Messages: []Message{
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "hello"},
			{Role: RoleUser, Content: "again"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, got)

	assert.True(t, strings.HasSuffix(c.path, "/v1/messages"), "path %q", c.path)
	assert.Equal(t, "claude-test", c.body["model"])
	assert.EqualValues(t, 512, c.body["max_tokens"])
	msgs, ok := c.body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 3)
	assert.Equal(t, "assistant", msgs[1].(map[string]any)["role"])
}

func TestAnthropicEmptyResponse(t *testing.T) {
	var c capture
	srv := newServer(t, &c, `{
		"id": "msg_02", "type": "message", "role": "assistant", "model": "m",
		"content": [], "stop_reason": "end_turn",
		"usage": {"input_tokens": 1, "output_tokens": 0}
	}`)

	client := NewAnthropic(types.AIConfig{Model: "m", BaseURL: srv.URL}, "k", srv.Client())
	_, err := client.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	assert.True(t, errors.Is(err, ErrEmptyResponse), "got %v", err)
}

func TestOpenAIComplete(t *testing.T) {
	var c capture
	srv := newServer(t, &c, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "gpt-test",
		"choices": [{"index": 0, "finish_reason": "stop",
			"message": {"role": "assistant", "content": "answer"}}]
	}`)

	cfg := types.AIConfig{Provider: types.ProviderOpenAI, Model: "gpt-test", MaxTokens: 256, BaseURL: srv.URL + "/v1"}
	client := NewOpenAI(cfg, "test-key", srv.Client())

	got, err := client.Complete(context.Background(), Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "q"}},
		JSON:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "answer", got)

	assert.Equal(t, "/v1/chat/completions", c.path)
	assert.Equal(t, "gpt-test", c.body["model"])
	msgs, ok := c.body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	format, ok := c.body["response_format"].(map[string]any)
	require.True(t, ok, "response_format missing")
	assert.Equal(t, "json_object", format["type"])
}

func TestOpenAINoChoices(t *testing.T) {
	var c capture
	srv := newServer(t, &c, `{"id": "c", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`)

	client := NewOpenAI(types.AIConfig{Model: "m", BaseURL: srv.URL}, "k", srv.Client())
	_, err := client.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	assert.True(t, errors.Is(err, ErrEmptyResponse), "got %v", err)
}
