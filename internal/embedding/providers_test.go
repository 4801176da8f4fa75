package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"intern-match-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCohereEmbedStrings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embed", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req CohereEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "search_document", req.InputType)

		resp := CohereEmbedResponse{
			Embeddings: make([][]float64, len(req.Texts)),
		}
		for i := range req.Texts {
			resp.Embeddings[i] = []float64{0.1, 0.2, 0.3}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	embedder, err := NewCohereEmbedder("test-key", config.ProviderConfig{
		Model:      "embed-english-v3.0",
		Dimensions: 3,
		BaseURL:    server.URL + "/v1/embed",
	})
	require.NoError(t, err)

	vectors, err := embedder.EmbedStrings(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vectors[0])
	assert.Equal(t, "cohere", embedder.ProviderName())
	assert.Equal(t, 3, embedder.GetDimensions())
}

func TestCohereEmbedStringsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "rate limit exceeded"})
	}))
	defer server.Close()

	embedder, err := NewCohereEmbedder("test-key", config.ProviderConfig{
		Model:      "embed-english-v3.0",
		Dimensions: 3,
		BaseURL:    server.URL,
	})
	require.NoError(t, err)

	_, err = embedder.EmbedStrings(context.Background(), []string{"a"})
	assert.Error(t, err)
}

func TestOpenAIEmbedStrings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		// 故意乱序返回，验证按Index重排
		resp := OpenAIEmbeddingResponse{
			Object: "list",
			Model:  "text-embedding-ada-002",
			Data: []OpenAIEmbeddingEntry{
				{Object: "embedding", Index: 1, Embedding: []float64{0.9}},
				{Object: "embedding", Index: 0, Embedding: []float64{0.1}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	embedder, err := NewOpenAIEmbedder("sk-test", config.ProviderConfig{
		Model:      "text-embedding-ada-002",
		Dimensions: 1,
		BaseURL:    server.URL + "/v1/embeddings",
	})
	require.NoError(t, err)

	vectors, err := embedder.EmbedStrings(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float64{0.1}, vectors[0])
	assert.Equal(t, []float64{0.9}, vectors[1])
	assert.Equal(t, "openai", embedder.ProviderName())
}

func TestOpenAIEmbedStringsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "invalid api key", "type": "auth_error"},
		})
	}))
	defer server.Close()

	embedder, err := NewOpenAIEmbedder("bad", config.ProviderConfig{
		Model:      "text-embedding-ada-002",
		Dimensions: 1,
		BaseURL:    server.URL,
	})
	require.NoError(t, err)

	_, err = embedder.EmbedStrings(context.Background(), []string{"x"})
	assert.Error(t, err)
}
