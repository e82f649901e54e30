// Package zendesk provides a helpdex.ArticleFetcher for Zendesk-style Help
// Center APIs. It follows next_page cursors until exhausted, paces page
// requests to avoid origin-side throttling, and retries transient failures
// with exponential backoff.
package zendesk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/helpdex"
	"golang.org/x/time/rate"
)

// Default fetcher configuration.
const (
	// DefaultPerPage is the page size requested from the articles endpoint.
	DefaultPerPage = 100

	// DefaultPageDelay is the fixed delay between page requests.
	DefaultPageDelay = 500 * time.Millisecond

	// DefaultTimeout bounds each HTTP attempt.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the number of retries after the initial attempt.
	DefaultMaxRetries = 3

	// DefaultBaseDelay is the initial backoff delay, doubled per retry.
	DefaultBaseDelay = 1 * time.Second

	// DefaultMaxDelay caps the backoff delay.
	DefaultMaxDelay = 30 * time.Second
)

// Ensure Fetcher implements helpdex.ArticleFetcher at compile time.
var _ helpdex.ArticleFetcher = (*Fetcher)(nil)

// Fetcher retrieves published articles from a Help Center origin.
type Fetcher struct {
	client     *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithPageDelay sets the fixed delay between page requests.
func WithPageDelay(d time.Duration) Option {
	return func(f *Fetcher) { f.limiter = rate.NewLimiter(rate.Every(d), 1) }
}

// WithRetry sets the retry count and backoff bounds.
// Useful for testing without waiting for real delays.
func WithRetry(maxRetries int, baseDelay, maxDelay time.Duration) Option {
	return func(f *Fetcher) {
		f.maxRetries = maxRetries
		f.baseDelay = baseDelay
		f.maxDelay = maxDelay
	}
}

// NewFetcher creates a new Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		limiter:    rate.NewLimiter(rate.Every(DefaultPageDelay), 1),
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultBaseDelay,
		maxDelay:   DefaultMaxDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{Timeout: f.timeout}
	return f
}

// apiArticle is the wire representation of one article.
type apiArticle struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	SectionID int64  `json:"section_id"`
	UpdatedAt string `json:"updated_at"`
	HTMLURL   string `json:"html_url"`
	Draft     bool   `json:"draft"`
	Promoted  bool   `json:"promoted"`
}

// articlePage is one page of the articles listing.
type articlePage struct {
	Articles []apiArticle `json:"articles"`
	NextPage *string      `json:"next_page"`
	Count    int          `json:"count"`
}

// namedItem is one entry of the sections or categories listings.
type namedItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// namedPage is one page of a sections or categories listing.
type namedPage struct {
	Sections   []namedItem `json:"sections"`
	Categories []namedItem `json:"categories"`
	NextPage   *string     `json:"next_page"`
}

// FetchAll retrieves the complete, current set of published articles for the
// source, plus best-effort section and category name maps. Draft articles
// are excluded. The progress callback, if provided, receives the running
// article count after each page.
func (f *Fetcher) FetchAll(ctx context.Context, source *helpdex.Source, progress helpdex.FetchProgressFunc) (*helpdex.FetchResult, error) {
	result := &helpdex.FetchResult{
		Sections:   map[int64]string{},
		Categories: map[int64]string{},
	}

	url := fmt.Sprintf("%s/api/v2/help_center/%s/articles.json?per_page=%d",
		source.BaseURL, source.Locale, DefaultPerPage)

	for url != "" {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var page articlePage
		if err := f.getJSON(ctx, url, &page); err != nil {
			return nil, fmt.Errorf("fetch articles for source %q: %w", source.ID, err)
		}

		for _, a := range page.Articles {
			if a.Draft {
				continue
			}
			updatedAt, err := time.Parse(time.RFC3339, a.UpdatedAt)
			if err != nil {
				return nil, fmt.Errorf("fetch articles for source %q: parse updated_at %q: %w",
					source.ID, a.UpdatedAt, err)
			}
			result.Articles = append(result.Articles, &helpdex.RawArticle{
				ID:        a.ID,
				Title:     a.Title,
				URL:       a.HTMLURL,
				Body:      a.Body,
				SectionID: a.SectionID,
				UpdatedAt: updatedAt,
			})
		}

		if progress != nil {
			progress(len(result.Articles))
		}

		url = ""
		if page.NextPage != nil {
			url = *page.NextPage
		}
	}

	// Section and category names are cosmetic metadata; a failed lookup
	// degrades to an empty map rather than aborting the sync.
	result.Sections = f.fetchNames(ctx, source, "sections")
	result.Categories = f.fetchNames(ctx, source, "categories")

	return result, nil
}

// fetchNames retrieves an id→name map from the sections or categories
// endpoint. Any failure yields an empty map.
func (f *Fetcher) fetchNames(ctx context.Context, source *helpdex.Source, kind string) map[int64]string {
	names := map[int64]string{}

	url := fmt.Sprintf("%s/api/v2/help_center/%s/%s.json?per_page=%d",
		source.BaseURL, source.Locale, kind, DefaultPerPage)

	for url != "" {
		if err := f.limiter.Wait(ctx); err != nil {
			return map[int64]string{}
		}

		var page namedPage
		if err := f.getJSON(ctx, url, &page); err != nil {
			return map[int64]string{}
		}

		items := page.Sections
		if kind == "categories" {
			items = page.Categories
		}
		for _, item := range items {
			names[item.ID] = item.Name
		}

		url = ""
		if page.NextPage != nil {
			url = *page.NextPage
		}
	}

	return names
}

// getJSON performs a GET request with bounded retry and decodes the JSON
// response into v. Retryable failures (429, 5xx, network errors) back off
// exponentially; a 429 Retry-After header overrides the computed delay.
// Other 4xx statuses fail immediately.
func (f *Fetcher) getJSON(ctx context.Context, url string, v any) error {
	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, f.retryDelay(attempt-1, lastErr)); err != nil {
				return err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = helpdex.Errorf(helpdex.EUNAVAILABLE, "request to %s failed: %v", url, err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(v)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decode response from %s: %w", url, err)
			}
			return nil

		case resp.StatusCode == http.StatusTooManyRequests:
			retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
			resp.Body.Close()
			lastErr = &rateLimitError{url: url, retryAfter: retryAfter}
			continue

		case resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = helpdex.Errorf(helpdex.EINTERNAL, "HTTP %d for %s", resp.StatusCode, url)
			continue

		default:
			// Other 4xx statuses are terminal.
			resp.Body.Close()
			return helpdex.Errorf(helpdex.EINTERNAL, "HTTP %d for %s", resp.StatusCode, url)
		}
	}

	if rl, ok := lastErr.(*rateLimitError); ok {
		return helpdex.Errorf(helpdex.ERATELIMIT,
			"rate limited on %s after %d attempts", rl.url, f.maxRetries+1)
	}
	return lastErr
}

// retryDelay computes the backoff delay before retry number attempt
// (0-based). A pending 429 with a Retry-After header overrides it.
func (f *Fetcher) retryDelay(attempt int, lastErr error) time.Duration {
	if rl, ok := lastErr.(*rateLimitError); ok && rl.retryAfter > 0 {
		return rl.retryAfter
	}
	delay := f.baseDelay << attempt
	if delay > f.maxDelay || delay <= 0 {
		delay = f.maxDelay
	}
	return delay
}

// rateLimitError marks a 429 response pending retry.
type rateLimitError struct {
	url        string
	retryAfter time.Duration
}

func (e *rateLimitError) Error() string {
	return fmt.Sprintf("rate limited on %s", e.url)
}

// parseRetryAfter parses a Retry-After header value in seconds.
// Returns 0 if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// sleep waits for d or until the context is canceled.
func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
