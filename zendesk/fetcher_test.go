package zendesk_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/helpdex"
	"github.com/fwojciec/helpdex/zendesk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFetcher() *zendesk.Fetcher {
	return zendesk.NewFetcher(
		zendesk.WithPageDelay(time.Millisecond),
		zendesk.WithRetry(2, time.Millisecond, 10*time.Millisecond),
		zendesk.WithTimeout(5*time.Second),
	)
}

func testSource(baseURL string) *helpdex.Source {
	return &helpdex.Source{
		ID:      "acme",
		Name:    "Acme Support",
		BaseURL: baseURL,
		Locale:  "en-us",
		Enabled: true,
	}
}

func TestFetcher_FetchAll(t *testing.T) {
	t.Parallel()

	t.Run("follows pagination and excludes drafts", func(t *testing.T) {
		t.Parallel()

		var server *httptest.Server
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v2/help_center/en-us/articles.json", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") == "2" {
				fmt.Fprint(w, `{
					"articles": [
						{"id": 3, "title": "Three", "body": "<p>c</p>", "section_id": 10,
						 "updated_at": "2025-06-01T10:00:00Z", "html_url": "https://acme.test/a/3", "draft": false}
					],
					"next_page": null, "count": 3
				}`)
				return
			}
			fmt.Fprintf(w, `{
				"articles": [
					{"id": 1, "title": "One", "body": "<p>a</p>", "section_id": 10,
					 "updated_at": "2025-06-01T10:00:00Z", "html_url": "https://acme.test/a/1", "draft": false},
					{"id": 2, "title": "Two", "body": "<p>b</p>", "section_id": 11,
					 "updated_at": "2025-06-01T11:00:00Z", "html_url": "https://acme.test/a/2", "draft": true}
				],
				"next_page": %q, "count": 3
			}`, server.URL+"/api/v2/help_center/en-us/articles.json?page=2")
		})
		mux.HandleFunc("/api/v2/help_center/en-us/sections.json", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"sections": [{"id": 10, "name": "Billing"}, {"id": 11, "name": "Accounts"}], "next_page": null}`)
		})
		mux.HandleFunc("/api/v2/help_center/en-us/categories.json", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"categories": [{"id": 10, "name": "General"}], "next_page": null}`)
		})
		server = httptest.NewServer(mux)
		defer server.Close()

		var progressCounts []int
		result, err := testFetcher().FetchAll(context.Background(), testSource(server.URL), func(fetched int) {
			progressCounts = append(progressCounts, fetched)
		})
		require.NoError(t, err)

		require.Len(t, result.Articles, 2, "draft article must be excluded")
		assert.Equal(t, int64(1), result.Articles[0].ID)
		assert.Equal(t, int64(3), result.Articles[1].ID)
		assert.Equal(t, "One", result.Articles[0].Title)
		assert.Equal(t, "<p>a</p>", result.Articles[0].Body)
		assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), result.Articles[0].UpdatedAt)

		assert.Equal(t, []int{1, 2}, progressCounts)
		assert.Equal(t, map[int64]string{10: "Billing", 11: "Accounts"}, result.Sections)
		assert.Equal(t, map[int64]string{10: "General"}, result.Categories)
	})

	t.Run("retries 429 honoring Retry-After", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int64
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v2/help_center/en-us/articles.json", func(w http.ResponseWriter, r *http.Request) {
			if attempts.Add(1) == 1 {
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			fmt.Fprint(w, `{"articles": [], "next_page": null, "count": 0}`)
		})
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"next_page": null}`)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		result, err := testFetcher().FetchAll(context.Background(), testSource(server.URL), nil)
		require.NoError(t, err)
		assert.Empty(t, result.Articles)
		assert.GreaterOrEqual(t, attempts.Load(), int64(2))
	})

	t.Run("exhausted 429 retries return ERATELIMIT", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := testFetcher().FetchAll(context.Background(), testSource(server.URL), nil)
		require.Error(t, err)
		assert.Equal(t, helpdex.ERATELIMIT, helpdex.ErrorCode(err))
	})

	t.Run("retries 5xx then succeeds", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int64
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v2/help_center/en-us/articles.json", func(w http.ResponseWriter, r *http.Request) {
			if attempts.Add(1) <= 2 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			fmt.Fprint(w, `{"articles": [], "next_page": null, "count": 0}`)
		})
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"next_page": null}`)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		_, err := testFetcher().FetchAll(context.Background(), testSource(server.URL), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), attempts.Load())
	})

	t.Run("non-retryable 4xx fails immediately", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := testFetcher().FetchAll(context.Background(), testSource(server.URL), nil)
		require.Error(t, err)
		assert.Equal(t, int64(1), attempts.Load(), "4xx must not be retried")
		assert.Contains(t, err.Error(), "acme", "fetch failure must name the source")
	})

	t.Run("section and category failures degrade to empty maps", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/api/v2/help_center/en-us/articles.json", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"articles": [
				{"id": 1, "title": "One", "body": "<p>a</p>", "section_id": 10,
				 "updated_at": "2025-06-01T10:00:00Z", "html_url": "https://acme.test/a/1", "draft": false}
			], "next_page": null, "count": 1}`)
		})
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		result, err := testFetcher().FetchAll(context.Background(), testSource(server.URL), nil)
		require.NoError(t, err, "lookup failures must not abort the fetch")
		require.Len(t, result.Articles, 1)
		assert.Empty(t, result.Sections)
		assert.Empty(t, result.Categories)
	})
}
