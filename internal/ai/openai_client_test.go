package ai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOpenAI(t *testing.T, h http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewOpenAIClient(OpenAIConfig{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: srv.URL + "/v1",
	}, discardLogger())
	require.NoError(t, err)
	return c
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(OpenAIConfig{}, discardLogger())
	assert.EqualError(t, err, "OPENAI_API_KEY not set")
}

func TestOpenAIClient_Complete(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "test-model",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Mocked LLM guidance"}, "finish_reason": "stop"}]
		}`)
	})

	text, err := c.Complete(context.Background(), []Message{
		{Role: RoleSystem, Text: "sys"},
		{Role: RoleUser, Text: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mocked LLM guidance", text)

	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "sys", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
}

func TestOpenAIClient_EmptyChoices(t *testing.T) {
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`)
	})

	_, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Text: "hi"}})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestOpenAIClient_EmptyContentPassesThrough(t *testing.T) {
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": "chatcmpl-3", "object": "chat.completion", "choices": [{"index": 0, "message": {"role": "assistant", "content": ""}, "finish_reason": "stop"}]}`)
	})

	text, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Text: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestOpenAIClient_ProviderError(t *testing.T) {
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error": {"message": "provider exploded", "type": "server_error"}}`)
	})

	_, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Text: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider exploded")
}
