package client

import (
	"context"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// CompareRequest contains the fields the compare endpoint accepts.
type CompareRequest struct {
	Query       string           `json:"query"`
	Platforms   []string         `json:"platforms,omitempty"`
	Location    *domain.Location `json:"location,omitempty"`
	Strict      bool             `json:"strict,omitempty"`
	SkipPersist bool             `json:"skip_persist,omitempty"`
}

// Compare runs an on-demand comparison for a search query.
func (c *Client) Compare(ctx context.Context, req CompareRequest) (*domain.ComparisonResult, error) {
	var result domain.ComparisonResult
	if err := c.post(ctx, "/api/v1/compare", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
