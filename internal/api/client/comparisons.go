package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// ComparisonFilter narrows the comparison listing.
type ComparisonFilter struct {
	SearchQuery string
	Since       time.Time
	Limit       int
	Offset      int
}

// ComparisonPage is one page of stored comparison runs.
type ComparisonPage struct {
	Comparisons []domain.ComparisonResult `json:"comparisons"`
	Total       int                       `json:"total"`
	Limit       int                       `json:"limit"`
	Offset      int                       `json:"offset"`
}

// ListComparisons returns stored comparison runs, newest first.
func (c *Client) ListComparisons(ctx context.Context, filter ComparisonFilter) (*ComparisonPage, error) {
	q := url.Values{}
	if filter.SearchQuery != "" {
		q.Set("search_query", filter.SearchQuery)
	}
	if !filter.Since.IsZero() {
		q.Set("since", filter.Since.Format(time.RFC3339))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		q.Set("offset", strconv.Itoa(filter.Offset))
	}

	path := "/api/v1/comparisons"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page ComparisonPage
	if err := c.get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetComparison returns a single stored comparison by ID.
func (c *Client) GetComparison(ctx context.Context, id string) (*domain.ComparisonResult, error) {
	var result domain.ComparisonResult
	if err := c.get(ctx, "/api/v1/comparisons/"+id, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LatestComparison returns the newest stored comparison for a search query.
func (c *Client) LatestComparison(ctx context.Context, searchQuery string) (*domain.ComparisonResult, error) {
	path := fmt.Sprintf("/api/v1/comparisons/latest?search_query=%s", url.QueryEscape(searchQuery))

	var result domain.ComparisonResult
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
