package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/basketwatch/basketwatch/internal/store"
	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// WatchesProvider defines the store methods required by the watches
// handler.
type WatchesProvider interface {
	CreateWatch(ctx context.Context, w *domain.Watch) error
	GetWatch(ctx context.Context, id string) (*domain.Watch, error)
	ListWatches(ctx context.Context, enabledOnly bool) ([]domain.Watch, error)
	UpdateWatch(ctx context.Context, w *domain.Watch) error
	DeleteWatch(ctx context.Context, id string) error
	SetWatchEnabled(ctx context.Context, id string, enabled bool) error
}

// WatchHandler handles watch CRUD operations.
type WatchHandler struct {
	store WatchesProvider
}

// NewWatchHandler creates a new WatchHandler.
func NewWatchHandler(s WatchesProvider) *WatchHandler {
	return &WatchHandler{store: s}
}

// watchBody is the writable portion of a watch.
type watchBody struct {
	Name        string          `json:"name"         minLength:"1" doc:"Display name" example:"Salt price watch"`
	SearchQuery string          `json:"search_query" minLength:"1" doc:"Product search query" example:"tata salt 1kg"`
	Platforms   []string        `json:"platforms,omitempty" doc:"Restrict refreshes to these platforms"`
	Location    domain.Location `json:"location,omitempty" doc:"Delivery location for refreshes"`
	MaxPrice    *float64        `json:"max_price,omitempty" minimum:"0" doc:"Alert when the best price drops to this or below"`
	Strict      bool            `json:"strict,omitempty" doc:"Strict quantity matching for refreshes"`
	Enabled     *bool           `json:"enabled,omitempty" doc:"Whether the scheduler refreshes this watch (default true)"`
}

func (b *watchBody) toWatch() (*domain.Watch, error) {
	w := &domain.Watch{
		Name:        b.Name,
		SearchQuery: b.SearchQuery,
		Location:    b.Location,
		MaxPrice:    b.MaxPrice,
		Strict:      b.Strict,
		Enabled:     true,
	}
	if b.Enabled != nil {
		w.Enabled = *b.Enabled
	}

	for _, p := range b.Platforms {
		tag := domain.Platform(strings.ToLower(strings.TrimSpace(p)))
		if !tag.Valid() {
			return nil, huma.Error400BadRequest("blank platform tag in platforms")
		}
		w.Platforms = append(w.Platforms, tag)
	}

	return w, nil
}

// ListWatchesInput is the input for listing watches.
type ListWatchesInput struct {
	Enabled bool `query:"enabled" doc:"Return only enabled watches"`
}

// ListWatchesOutput is the response for listing watches.
type ListWatchesOutput struct {
	Body []domain.Watch
}

// WatchIDInput addresses a single watch.
type WatchIDInput struct {
	ID string `path:"id" doc:"Watch UUID"`
}

// WatchOutput is the response carrying a single watch.
type WatchOutput struct {
	Body domain.Watch
}

// CreateWatchInput is the request body for creating a watch.
type CreateWatchInput struct {
	Body watchBody
}

// UpdateWatchInput is the request for replacing a watch.
type UpdateWatchInput struct {
	ID   string `path:"id" doc:"Watch UUID"`
	Body watchBody
}

// SetWatchEnabledInput is the request for toggling a watch.
type SetWatchEnabledInput struct {
	ID   string `path:"id" doc:"Watch UUID"`
	Body struct {
		Enabled bool `json:"enabled" example:"true"`
	}
}

// List returns all watches, optionally only enabled ones.
func (h *WatchHandler) List(ctx context.Context, input *ListWatchesInput) (*ListWatchesOutput, error) {
	watches, err := h.store.ListWatches(ctx, input.Enabled)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing watches failed: " + err.Error())
	}

	if watches == nil {
		watches = []domain.Watch{}
	}

	return &ListWatchesOutput{Body: watches}, nil
}

// Get returns a single watch by ID.
func (h *WatchHandler) Get(ctx context.Context, input *WatchIDInput) (*WatchOutput, error) {
	w, err := h.store.GetWatch(ctx, input.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("watch not found")
		}
		return nil, huma.Error500InternalServerError("fetching watch failed: " + err.Error())
	}

	return &WatchOutput{Body: *w}, nil
}

// Create stores a new watch.
func (h *WatchHandler) Create(ctx context.Context, input *CreateWatchInput) (*WatchOutput, error) {
	w, err := input.Body.toWatch()
	if err != nil {
		return nil, err
	}

	if err := h.store.CreateWatch(ctx, w); err != nil {
		return nil, huma.Error500InternalServerError("creating watch failed: " + err.Error())
	}

	return &WatchOutput{Body: *w}, nil
}

// Update replaces an existing watch.
func (h *WatchHandler) Update(ctx context.Context, input *UpdateWatchInput) (*WatchOutput, error) {
	w, err := input.Body.toWatch()
	if err != nil {
		return nil, err
	}
	w.ID = input.ID

	if err := h.store.UpdateWatch(ctx, w); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("watch not found")
		}
		return nil, huma.Error500InternalServerError("updating watch failed: " + err.Error())
	}

	return &WatchOutput{Body: *w}, nil
}

// SetEnabled toggles a watch without touching the rest of its fields.
func (h *WatchHandler) SetEnabled(ctx context.Context, input *SetWatchEnabledInput) (*struct{}, error) {
	if err := h.store.SetWatchEnabled(ctx, input.ID, input.Body.Enabled); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("watch not found")
		}
		return nil, huma.Error500InternalServerError("toggling watch failed: " + err.Error())
	}

	return nil, nil
}

// Delete removes a watch by ID.
func (h *WatchHandler) Delete(ctx context.Context, input *WatchIDInput) (*struct{}, error) {
	if err := h.store.DeleteWatch(ctx, input.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("watch not found")
		}
		return nil, huma.Error500InternalServerError("deleting watch failed: " + err.Error())
	}

	return nil, nil
}

// RegisterWatchRoutes registers watch CRUD endpoints with the Huma API.
func RegisterWatchRoutes(api huma.API, h *WatchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-watches",
		Method:      http.MethodGet,
		Path:        "/api/v1/watches",
		Summary:     "List watches",
		Description: "Returns all watches, optionally filtered to enabled ones.",
		Tags:        []string{"watches"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-watch",
		Method:      http.MethodGet,
		Path:        "/api/v1/watches/{id}",
		Summary:     "Get a watch by ID",
		Tags:        []string{"watches"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID:   "create-watch",
		Method:        http.MethodPost,
		Path:          "/api/v1/watches",
		Summary:       "Create a watch",
		Tags:          []string{"watches"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "update-watch",
		Method:      http.MethodPut,
		Path:        "/api/v1/watches/{id}",
		Summary:     "Update a watch",
		Tags:        []string{"watches"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
	}, h.Update)

	huma.Register(api, huma.Operation{
		OperationID:   "set-watch-enabled",
		Method:        http.MethodPut,
		Path:          "/api/v1/watches/{id}/enabled",
		Summary:       "Enable or disable a watch",
		Tags:          []string{"watches"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.SetEnabled)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-watch",
		Method:        http.MethodDelete,
		Path:          "/api/v1/watches/{id}",
		Summary:       "Delete a watch",
		Tags:          []string{"watches"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Delete)
}
