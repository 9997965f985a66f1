package client

import (
	"context"
	"fmt"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// watchRequest contains only the fields the API accepts for create/update.
type watchRequest struct {
	Name        string          `json:"name,omitempty"`
	SearchQuery string          `json:"search_query,omitempty"`
	Platforms   []string        `json:"platforms,omitempty"`
	Location    domain.Location `json:"location,omitempty"`
	MaxPrice    *float64        `json:"max_price,omitempty"`
	Strict      bool            `json:"strict,omitempty"`
	Enabled     *bool           `json:"enabled,omitempty"`
}

func toWatchRequest(w *domain.Watch) watchRequest {
	platforms := make([]string, 0, len(w.Platforms))
	for _, p := range w.Platforms {
		platforms = append(platforms, string(p))
	}

	enabled := w.Enabled
	return watchRequest{
		Name:        w.Name,
		SearchQuery: w.SearchQuery,
		Platforms:   platforms,
		Location:    w.Location,
		MaxPrice:    w.MaxPrice,
		Strict:      w.Strict,
		Enabled:     &enabled,
	}
}

// ListWatches returns all watches. With enabledOnly set, disabled
// watches are filtered out server-side.
func (c *Client) ListWatches(ctx context.Context, enabledOnly bool) ([]domain.Watch, error) {
	path := "/api/v1/watches"
	if enabledOnly {
		path += "?enabled=true"
	}

	var watches []domain.Watch
	if err := c.get(ctx, path, &watches); err != nil {
		return nil, err
	}
	return watches, nil
}

// GetWatch returns a single watch by ID.
func (c *Client) GetWatch(ctx context.Context, id string) (*domain.Watch, error) {
	var w domain.Watch
	if err := c.get(ctx, "/api/v1/watches/"+id, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateWatch creates a new watch.
func (c *Client) CreateWatch(ctx context.Context, w *domain.Watch) (*domain.Watch, error) {
	var created domain.Watch
	if err := c.post(ctx, "/api/v1/watches", toWatchRequest(w), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateWatch updates an existing watch.
func (c *Client) UpdateWatch(ctx context.Context, w *domain.Watch) (*domain.Watch, error) {
	var updated domain.Watch
	if err := c.put(ctx, "/api/v1/watches/"+w.ID, toWatchRequest(w), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetWatchEnabled enables or disables a watch.
func (c *Client) SetWatchEnabled(ctx context.Context, id string, enabled bool) error {
	body := map[string]bool{"enabled": enabled}
	return c.put(ctx, fmt.Sprintf("/api/v1/watches/%s/enabled", id), body, nil)
}

// DeleteWatch deletes a watch by ID.
func (c *Client) DeleteWatch(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/watches/"+id, nil)
}
