package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, ChatConfig) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := ChatConfig{
		BaseURL:     server.URL,
		APIKey:      "test-key",
		Model:       "llama-3.1-8b-instant",
		Temperature: 0.7,
		MaxTokens:   2000,
	}
	return server, cfg
}

func TestCompleteSuccess(t *testing.T) {
	_, cfg := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama-3.1-8b-instant", body["model"])
		assert.Equal(t, false, body["stream"])

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Paris is the capital."}}]}`))
	})

	client := NewGroqClient(nil)
	text, err := client.Complete(context.Background(), cfg, []ChatMessage{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: "capital of france?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital.", text)
}

func TestCompleteDoesNotRetryClientError(t *testing.T) {
	var calls int32
	_, cfg := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
	})

	client := NewGroqClient(nil)
	_, err := client.Complete(context.Background(), cfg, []ChatMessage{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCompleteRetriesServerError(t *testing.T) {
	if testing.Short() {
		t.Skip("retry backoff sleeps")
	}

	var calls int32
	_, cfg := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"recovered"}}]}`))
	})

	client := NewGroqClient(nil)
	text, err := client.Complete(context.Background(), cfg, []ChatMessage{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCompleteContextCanceledDuringBackoff(t *testing.T) {
	_, cfg := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusTooManyRequests)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := NewGroqClient(nil)
	_, err := client.Complete(ctx, cfg, []ChatMessage{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompleteEmptyChoices(t *testing.T) {
	_, cfg := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	client := NewGroqClient(nil)
	_, err := client.Complete(context.Background(), cfg, []ChatMessage{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty llm choices")
}
