package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// HTTPSource polls a platform search endpoint. The endpoint receives
// the query as a "q" parameter and answers with any payload shape
// DecodeProducts accepts.
type HTTPSource struct {
	platform domain.Platform
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

// HTTPOption configures the HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		s.client = hc
	}
}

// WithRateLimit installs a token-bucket limiter; every Search waits on
// it before hitting the endpoint.
func WithRateLimit(perSecond float64, burst int) HTTPOption {
	return func(s *HTTPSource) {
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewHTTPSource creates a source that polls endpoint for platform.
func NewHTTPSource(platform domain.Platform, endpoint string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		platform: platform,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Platform implements Source.
func (s *HTTPSource) Platform() domain.Platform {
	return s.platform
}

// Search implements Source.
func (s *HTTPSource) Search(ctx context.Context, query string) ([]domain.RawProduct, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	params := u.Query()
	params.Set("q", query)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s source error (status %d): %s",
			s.platform, resp.StatusCode, string(body))
	}

	records, err := DecodeProducts(body, s.platform)
	if err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", s.platform, err)
	}
	return records, nil
}
