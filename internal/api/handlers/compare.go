package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/basketwatch/basketwatch/internal/engine"
	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// Comparer runs a cross-platform comparison for a search query.
type Comparer interface {
	RunComparison(ctx context.Context, req engine.CompareRequest) (*domain.ComparisonResult, error)
}

// CompareHandler handles on-demand comparison requests.
type CompareHandler struct {
	engine Comparer
}

// NewCompareHandler creates a new CompareHandler.
func NewCompareHandler(eng Comparer) *CompareHandler {
	return &CompareHandler{engine: eng}
}

// CompareInput is the request body for the compare endpoint.
type CompareInput struct {
	Body struct {
		Query       string           `json:"query" minLength:"1" doc:"Product search query" example:"tata salt 1kg"`
		Platforms   []string         `json:"platforms,omitempty" doc:"Restrict the run to these platforms" example:"[\"zepto\",\"blinkit\"]"`
		Location    *domain.Location `json:"location,omitempty" doc:"Delivery location for the run"`
		Strict      bool             `json:"strict,omitempty" doc:"Require near-identical quantities when matching"`
		SkipPersist bool             `json:"skip_persist,omitempty" doc:"Do not store the result"`
	}
}

// CompareOutput is the response body for the compare endpoint.
type CompareOutput struct {
	Body domain.ComparisonResult
}

// Compare fetches listings from every configured platform, reconciles
// them into product groups, and returns the comparison document.
func (h *CompareHandler) Compare(ctx context.Context, input *CompareInput) (*CompareOutput, error) {
	var platforms []domain.Platform
	for _, p := range input.Body.Platforms {
		tag := domain.Platform(strings.ToLower(strings.TrimSpace(p)))
		if !tag.Valid() {
			return nil, huma.Error400BadRequest("blank platform tag in platforms")
		}
		platforms = append(platforms, tag)
	}

	result, err := h.engine.RunComparison(ctx, engine.CompareRequest{
		Query:       input.Body.Query,
		Platforms:   platforms,
		Location:    input.Body.Location,
		Strict:      input.Body.Strict,
		SkipPersist: input.Body.SkipPersist,
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("comparison failed: " + err.Error())
	}

	return &CompareOutput{Body: *result}, nil
}

// RegisterCompareRoutes registers the compare endpoint with the Huma API.
func RegisterCompareRoutes(api huma.API, h *CompareHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "run-comparison",
		Method:      http.MethodPost,
		Path:        "/api/v1/compare",
		Summary:     "Run a price comparison",
		Description: "Fans the query out to every configured platform, groups equivalent " +
			"products across platforms, and returns the comparison document.",
		Tags:   []string{"compare"},
		Errors: []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.Compare)
}
