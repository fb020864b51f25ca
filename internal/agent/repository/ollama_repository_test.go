package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-news-agent/internal/agent/config"
	"go-news-agent/internal/agent/dto"
	"go-news-agent/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ollamaConfig(baseURL, model string) *config.Config {
	cfg := &config.Config{}
	cfg.Ollama.BaseURL = baseURL
	cfg.Ollama.Model = model
	cfg.Ollama.Timeout = 5 * time.Second
	cfg.Ollama.MaxRequestPerMinute = 600
	cfg.Ollama.Temperature = 0.2
	cfg.Ollama.TopK = 40
	cfg.Ollama.TopP = 0.9
	return cfg
}

func tagsHandler(models ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := dto.OllamaTagsResponse{}
		for _, m := range models {
			resp.Models = append(resp.Models, dto.OllamaModel{Name: m})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func TestNewOllamaRepositoryUnreachable(t *testing.T) {
	_, err := NewOllamaRepository(ollamaConfig("http://127.0.0.1:1", "llama3.1:8b"), logger.NewNop())

	var infErr *InferenceError
	assert.ErrorAs(t, err, &infErr)
}

func TestResolveModel(t *testing.T) {
	t.Run("configured model available", func(t *testing.T) {
		srv := httptest.NewServer(tagsHandler("llama3.1:8b", "mistral:7b"))
		defer srv.Close()

		repo, err := NewOllamaRepository(ollamaConfig(srv.URL, "llama3.1:8b"), logger.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "llama3.1:8b", repo.ModelName())
	})

	t.Run("family match substitutes", func(t *testing.T) {
		srv := httptest.NewServer(tagsHandler("mistral:7b", "llama3.1:70b"))
		defer srv.Close()

		repo, err := NewOllamaRepository(ollamaConfig(srv.URL, "llama3.1:8b"), logger.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "llama3.1:70b", repo.ModelName())
	})

	t.Run("no match falls back to first available", func(t *testing.T) {
		srv := httptest.NewServer(tagsHandler("mistral:7b", "phi3:mini"))
		defer srv.Close()

		repo, err := NewOllamaRepository(ollamaConfig(srv.URL, "llama3.1:8b"), logger.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "mistral:7b", repo.ModelName())
	})

	t.Run("empty list keeps configured model", func(t *testing.T) {
		srv := httptest.NewServer(tagsHandler())
		defer srv.Close()

		repo, err := NewOllamaRepository(ollamaConfig(srv.URL, "llama3.1:8b"), logger.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "llama3.1:8b", repo.ModelName())
	})
}

func TestGenerate(t *testing.T) {
	var captured dto.OllamaGenerateRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", tagsHandler("llama3.1:8b"))
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(dto.OllamaGenerateResponse{
			Response: "\n\nFirst line.\n\n\nSecond line.\n\n",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	repo, err := NewOllamaRepository(ollamaConfig(srv.URL, "llama3.1:8b"), logger.NewNop())
	require.NoError(t, err)

	text := repo.Generate(context.Background(), "say something", 100)

	assert.Equal(t, "First line.\nSecond line.", text)
	assert.Equal(t, "llama3.1:8b", captured.Model)
	assert.Equal(t, "say something", captured.Prompt)
	assert.False(t, captured.Stream)
	assert.Equal(t, 100, captured.Options.NumPredict)
	assert.InDelta(t, 0.2, captured.Options.Temperature, 1e-9)
	assert.Equal(t, 40, captured.Options.TopK)
	assert.InDelta(t, 0.9, captured.Options.TopP, 1e-9)
}

func TestGenerateFailureReturnsSentinel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", tagsHandler("llama3.1:8b"))
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	repo, err := NewOllamaRepository(ollamaConfig(srv.URL, "llama3.1:8b"), logger.NewNop())
	require.NoError(t, err)

	text := repo.Generate(context.Background(), "say something", 100)
	assert.True(t, IsErrorText(text))
}

func TestSummarizeShortInputSkipsModel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", tagsHandler("llama3.1:8b"))
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		t.Error("generate must not be called for short input")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	repo, err := NewOllamaRepository(ollamaConfig(srv.URL, "llama3.1:8b"), logger.NewNop())
	require.NoError(t, err)

	short := "Too short to bother."
	assert.Equal(t, short, repo.Summarize(context.Background(), short))
	assert.Nil(t, repo.ExtractKeywords(context.Background(), "tiny"))
}

func TestParseKeywords(t *testing.T) {
	keywords := ParseKeywords("alpha, beta , , c, delta, epsilon, zeta", 5)
	assert.Equal(t, []string{"alpha", "beta", "delta", "epsilon", "zeta"}, keywords)
}
