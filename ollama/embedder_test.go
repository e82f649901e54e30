package ollama_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/helpdex"
	"github.com/fwojciec/helpdex/ollama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// embedServer returns a test server that echoes a vector derived from the
// prompt, so output ordering is verifiable.
func embedServer(t *testing.T, dimensions int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/embeddings", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)

		vector := make([]float32, dimensions)
		vector[0] = float32(len(req.Prompt))
		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": vector})
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"models": [{"name": "nomic-embed-text:latest"}, {"name": "llama3:8b"}]}`)
	})
	return httptest.NewServer(mux)
}

func TestEmbedder_Embed(t *testing.T) {
	t.Parallel()

	t.Run("returns vector of expected dimension", func(t *testing.T) {
		t.Parallel()

		server := embedServer(t, 8)
		defer server.Close()

		e := ollama.NewEmbedder(server.URL, "nomic-embed-text", ollama.WithDimensions(8))
		vector, err := e.Embed(context.Background(), "hello")
		require.NoError(t, err)
		require.Len(t, vector, 8)
		assert.Equal(t, float32(5), vector[0])
	})

	t.Run("dimension mismatch names the model", func(t *testing.T) {
		t.Parallel()

		server := embedServer(t, 4)
		defer server.Close()

		e := ollama.NewEmbedder(server.URL, "nomic-embed-text", ollama.WithDimensions(8))
		_, err := e.Embed(context.Background(), "hello")
		require.Error(t, err)
		assert.Equal(t, helpdex.EINVALID, helpdex.ErrorCode(err))
		assert.Contains(t, helpdex.ErrorMessage(err), "nomic-embed-text")
	})

	t.Run("unreachable service returns EUNAVAILABLE with guidance", func(t *testing.T) {
		t.Parallel()

		// A closed server guarantees connection refused.
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		e := ollama.NewEmbedder(server.URL, "nomic-embed-text")
		_, err := e.Embed(context.Background(), "hello")
		require.Error(t, err)
		assert.Equal(t, helpdex.EUNAVAILABLE, helpdex.ErrorCode(err))
		assert.Contains(t, helpdex.ErrorMessage(err), "Ollama")
	})
}

func TestEmbedder_EmbedBatch(t *testing.T) {
	t.Parallel()

	t.Run("preserves input order", func(t *testing.T) {
		t.Parallel()

		server := embedServer(t, 8)
		defer server.Close()

		texts := []string{"a", "bb", "ccc", "dddd", "eeeee", "ffffff", "ggggggg"}
		e := ollama.NewEmbedder(server.URL, "nomic-embed-text", ollama.WithDimensions(8))

		vectors, err := e.EmbedBatch(context.Background(), texts)
		require.NoError(t, err)
		require.Len(t, vectors, len(texts))
		for i, v := range vectors {
			assert.Equal(t, float32(len(texts[i])), v[0], "vector %d out of order", i)
		}
	})

	t.Run("bounds in-flight requests", func(t *testing.T) {
		t.Parallel()

		var inFlight, peak atomic.Int64
		mux := http.NewServeMux()
		mux.HandleFunc("/api/embeddings", func(w http.ResponseWriter, r *http.Request) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			vector := make([]float32, 8)
			_ = json.NewEncoder(w).Encode(map[string]any{"embedding": vector})
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		texts := make([]string, 40)
		for i := range texts {
			texts[i] = "text"
		}

		e := ollama.NewEmbedder(server.URL, "nomic-embed-text",
			ollama.WithDimensions(8), ollama.WithConcurrency(3))
		_, err := e.EmbedBatch(context.Background(), texts)
		require.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int64(3))
	})

	t.Run("single failure aborts the batch", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		mux := http.NewServeMux()
		mux.HandleFunc("/api/embeddings", func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			vector := make([]float32, 8)
			_ = json.NewEncoder(w).Encode(map[string]any{"embedding": vector})
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		e := ollama.NewEmbedder(server.URL, "nomic-embed-text", ollama.WithDimensions(8))
		vectors, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c", "d", "e"})
		require.Error(t, err)
		assert.Nil(t, vectors, "no partial results on failure")
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		t.Parallel()

		e := ollama.NewEmbedder("http://localhost:0", "nomic-embed-text")
		vectors, err := e.EmbedBatch(context.Background(), nil)
		require.NoError(t, err)
		assert.Nil(t, vectors)
	})
}

func TestEmbedder_Probes(t *testing.T) {
	t.Parallel()

	t.Run("reachable service with available model", func(t *testing.T) {
		t.Parallel()

		server := embedServer(t, 8)
		defer server.Close()

		e := ollama.NewEmbedder(server.URL, "nomic-embed-text")
		assert.True(t, e.Reachable(context.Background()))
		assert.True(t, e.ModelAvailable(context.Background()))
	})

	t.Run("missing model", func(t *testing.T) {
		t.Parallel()

		server := embedServer(t, 8)
		defer server.Close()

		e := ollama.NewEmbedder(server.URL, "mxbai-embed-large")
		assert.True(t, e.Reachable(context.Background()))
		assert.False(t, e.ModelAvailable(context.Background()))
	})

	t.Run("unreachable service never errors", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		e := ollama.NewEmbedder(server.URL, "nomic-embed-text")
		assert.False(t, e.Reachable(context.Background()))
		assert.False(t, e.ModelAvailable(context.Background()))
	})
}
