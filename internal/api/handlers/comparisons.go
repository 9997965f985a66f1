package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/basketwatch/basketwatch/internal/store"
	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// ComparisonsProvider defines the store methods required by the
// comparisons handler.
type ComparisonsProvider interface {
	GetComparison(ctx context.Context, id string) (*domain.ComparisonResult, error)
	ListComparisons(ctx context.Context, opts *store.ComparisonQuery) ([]domain.ComparisonResult, int, error)
	LatestComparison(ctx context.Context, searchQuery string) (*domain.ComparisonResult, error)
}

// ComparisonsHandler handles stored comparison query endpoints.
type ComparisonsHandler struct {
	store ComparisonsProvider
}

// NewComparisonsHandler creates a new ComparisonsHandler.
func NewComparisonsHandler(s ComparisonsProvider) *ComparisonsHandler {
	return &ComparisonsHandler{store: s}
}

// ListComparisonsInput is the input for listing stored comparisons.
type ListComparisonsInput struct {
	SearchQuery string `query:"search_query" doc:"Filter by exact search query"`
	Since       string `query:"since"        doc:"Only runs at or after this RFC 3339 timestamp"`
	Limit       int    `query:"limit"        doc:"Number of results (default 50)" minimum:"1" maximum:"500"`
	Offset      int    `query:"offset"       doc:"Pagination offset"              minimum:"0"`
}

// ListComparisonsOutput is the response for listing stored comparisons.
type ListComparisonsOutput struct {
	Body struct {
		Comparisons []domain.ComparisonResult `json:"comparisons"`
		Total       int                       `json:"total"`
		Limit       int                       `json:"limit"`
		Offset      int                       `json:"offset"`
	}
}

// GetComparisonInput is the input for getting a single comparison.
type GetComparisonInput struct {
	ID string `path:"id" doc:"Comparison UUID"`
}

// GetComparisonOutput is the response for getting a single comparison.
type GetComparisonOutput struct {
	Body domain.ComparisonResult
}

// LatestComparisonInput is the input for getting the newest comparison
// for a search query.
type LatestComparisonInput struct {
	SearchQuery string `query:"search_query" required:"true" minLength:"1" doc:"Search query to look up"`
}

const defaultComparisonLimit = 50

// ListComparisons returns stored comparison runs, newest first.
func (h *ComparisonsHandler) ListComparisons(
	ctx context.Context,
	input *ListComparisonsInput,
) (*ListComparisonsOutput, error) {
	q := &store.ComparisonQuery{
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if q.Limit <= 0 {
		q.Limit = defaultComparisonLimit
	}

	if input.SearchQuery != "" {
		q.SearchQuery = &input.SearchQuery
	}

	if input.Since != "" {
		since, err := time.Parse(time.RFC3339, input.Since)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("since must be an RFC 3339 timestamp")
		}
		q.Since = &since
	}

	comparisons, total, err := h.store.ListComparisons(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing comparisons failed: " + err.Error())
	}

	if comparisons == nil {
		comparisons = []domain.ComparisonResult{}
	}

	out := &ListComparisonsOutput{}
	out.Body.Comparisons = comparisons
	out.Body.Total = total
	out.Body.Limit = q.Limit
	out.Body.Offset = q.Offset
	return out, nil
}

// GetComparison returns a single stored comparison by ID.
func (h *ComparisonsHandler) GetComparison(
	ctx context.Context,
	input *GetComparisonInput,
) (*GetComparisonOutput, error) {
	c, err := h.store.GetComparison(ctx, input.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("comparison not found")
		}
		return nil, huma.Error500InternalServerError("fetching comparison failed: " + err.Error())
	}

	return &GetComparisonOutput{Body: *c}, nil
}

// LatestComparison returns the newest stored comparison for a search query.
func (h *ComparisonsHandler) LatestComparison(
	ctx context.Context,
	input *LatestComparisonInput,
) (*GetComparisonOutput, error) {
	c, err := h.store.LatestComparison(ctx, input.SearchQuery)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("no comparison for query")
		}
		return nil, huma.Error500InternalServerError("fetching comparison failed: " + err.Error())
	}

	return &GetComparisonOutput{Body: *c}, nil
}

// RegisterComparisonRoutes registers comparison query endpoints with the
// Huma API.
func RegisterComparisonRoutes(api huma.API, h *ComparisonsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-comparisons",
		Method:      http.MethodGet,
		Path:        "/api/v1/comparisons",
		Summary:     "List stored comparisons",
		Description: "Returns stored comparison runs, newest first, with optional filters.",
		Tags:        []string{"comparisons"},
		Errors:      []int{http.StatusUnprocessableEntity, http.StatusInternalServerError},
	}, h.ListComparisons)

	huma.Register(api, huma.Operation{
		OperationID: "get-latest-comparison",
		Method:      http.MethodGet,
		Path:        "/api/v1/comparisons/latest",
		Summary:     "Get the newest comparison for a query",
		Description: "Returns the most recent stored comparison run for a search query.",
		Tags:        []string{"comparisons"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.LatestComparison)

	huma.Register(api, huma.Operation{
		OperationID: "get-comparison",
		Method:      http.MethodGet,
		Path:        "/api/v1/comparisons/{id}",
		Summary:     "Get a comparison by ID",
		Description: "Returns a single stored comparison run by its UUID.",
		Tags:        []string{"comparisons"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.GetComparison)
}
