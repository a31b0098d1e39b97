package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recreate-labs/recreate/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client, err := NewOpenAIClient(config.ProviderConfig{
		APIKey:     "test-key",
		BaseURL:    ts.URL,
		TextModel:  "gpt-4",
		ImageModel: "dall-e-3",
		Timeout:    5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func TestNewOpenAIClientRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIClient(config.ProviderConfig{BaseURL: "http://x"})
	assert.ErrorContains(t, err, "API key")
}

func TestGenerateText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4", req.Model)
		assert.Equal(t, 800, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "describe the image", req.Messages[0].Content)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "four ideas here"}},
			},
		})
	})

	text, err := client.GenerateText(context.Background(), "describe the image", 800)
	require.NoError(t, err)
	assert.Equal(t, "four ideas here", text)
}

func TestGenerateTextEmptyCompletion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	})

	_, err := client.GenerateText(context.Background(), "p", 100)
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestGenerateTextUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	})

	_, err := client.GenerateText(context.Background(), "p", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")
}

func TestGenerateImage(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generations", r.URL.Path)

		var req imageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "dall-e-3", req.Model)
		assert.Equal(t, 1, req.N)
		assert.Equal(t, "1024x1024", req.Size)
		assert.Equal(t, "b64_json", req.ResponseFormat)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{
				{"b64_json": base64.StdEncoding.EncodeToString(raw)},
			},
		})
	})

	img, err := client.GenerateImage(context.Background(), "a lantern")
	require.NoError(t, err)
	assert.Equal(t, raw, img)
}

func TestGenerateImageEmptyPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	})

	_, err := client.GenerateImage(context.Background(), "p")
	assert.ErrorContains(t, err, "no payload")
}

func TestGenerateImageBadBase64(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"b64_json": "not base64 !!!"}},
		})
	})

	_, err := client.GenerateImage(context.Background(), "p")
	assert.ErrorContains(t, err, "decode")
}

func TestContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background read and can
		// observe the client disconnect; otherwise r.Context() is never
		// cancelled and Cleanup's ts.Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.GenerateText(ctx, "p", 100)
	assert.Error(t, err)
}
