// Package ollama provides a helpdex.Embedder backed by a local Ollama
// instance's embeddings API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/helpdex"
	"golang.org/x/sync/errgroup"
)

// Default embedder configuration.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultConcurrency = 5
)

// Ensure Embedder implements helpdex.Embedder at compile time.
var _ helpdex.Embedder = (*Embedder)(nil)

// Embedder generates embeddings using Ollama.
type Embedder struct {
	client      *http.Client
	baseURL     string
	model       string
	dimensions  int
	concurrency int
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Embedder) { e.client.Timeout = d }
}

// WithDimensions sets the expected vector size.
// Defaults to helpdex.DefaultEmbeddingDimensions.
func WithDimensions(n int) Option {
	return func(e *Embedder) { e.dimensions = n }
}

// WithConcurrency sets the maximum number of in-flight embedding calls
// during EmbedBatch. Defaults to DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(e *Embedder) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewEmbedder creates a new Embedder for the given base URL and model.
func NewEmbedder(baseURL, model string, opts ...Option) *Embedder {
	e := &Embedder{
		client:      &http.Client{Timeout: DefaultTimeout},
		baseURL:     baseURL,
		model:       model,
		dimensions:  helpdex.DefaultEmbeddingDimensions,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// embedRequest is the Ollama API request format.
type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// embedResponse is the Ollama API response format.
type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// tagsResponse is the Ollama model listing format.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Embed generates a vector embedding for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		if isConnectionError(err) {
			return nil, helpdex.Errorf(helpdex.EUNAVAILABLE,
				"embedding service at %s is unreachable; is Ollama running? (try: ollama serve)", e.baseURL)
		}
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, helpdex.Errorf(helpdex.EINTERNAL,
			"embedding service returned status %d: %s", resp.StatusCode, msg)
	}

	var embedResp embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}

	if len(embedResp.Embedding) != e.dimensions {
		return nil, helpdex.Errorf(helpdex.EINVALID,
			"model %q returned a %d-dimension vector, want %d; check the configured embedding model",
			e.model, len(embedResp.Embedding), e.dimensions)
	}

	return embedResp.Embedding, nil
}

// EmbedBatch generates embeddings for all texts with at most the configured
// number of calls in flight. Vectors are returned in input order. Any single
// failure aborts the whole batch; partial results are never returned.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, text := range texts {
		g.Go(func() error {
			vector, err := e.Embed(gctx, text)
			if err != nil {
				return fmt.Errorf("embed text %d: %w", i, err)
			}
			vectors[i] = vector
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// Reachable reports whether the embedding service responds at all.
func (e *Embedder) Reachable(ctx context.Context) bool {
	_, err := e.tags(ctx)
	return err == nil
}

// ModelAvailable reports whether the configured model is present at the
// service. Model tags may carry a ":latest" suffix, so a prefix match on the
// configured name is accepted.
func (e *Embedder) ModelAvailable(ctx context.Context) bool {
	tags, err := e.tags(ctx)
	if err != nil {
		return false
	}
	for _, m := range tags.Models {
		if m.Name == e.model || m.Name == e.model+":latest" {
			return true
		}
	}
	return false
}

// tags fetches the model listing from the service.
func (e *Embedder) tags(ctx context.Context) (*tagsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, err
	}
	return &tags, nil
}

// isConnectionError reports whether err indicates the service could not be
// reached at all, as opposed to an error from the service itself.
func isConnectionError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var sysErr *net.DNSError
	return errors.As(err, &sysErr)
}
