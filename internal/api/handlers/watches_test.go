package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basketwatch/basketwatch/internal/api/handlers"
	domain "github.com/basketwatch/basketwatch/pkg/types"
)

func seedWatches() []domain.Watch {
	return []domain.Watch{
		{ID: "w1", Name: "Salt watch", SearchQuery: "tata salt 1kg", Enabled: true},
		{ID: "w2", Name: "Butter watch", SearchQuery: "amul butter", Enabled: false},
	}
}

func newWatchAPI(t *testing.T, fs *fakeWatchStore) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	handlers.RegisterWatchRoutes(api, handlers.NewWatchHandler(fs))
	return api
}

func TestWatchHandler_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		storeErr   error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "returns watches",
			path:       "/api/v1/watches",
			wantStatus: http.StatusOK,
			wantBody:   `"Butter watch"`,
		},
		{
			name:       "enabled only filter",
			path:       "/api/v1/watches?enabled=true",
			wantStatus: http.StatusOK,
			wantBody:   `"Salt watch"`,
		},
		{
			name:       "store error",
			path:       "/api/v1/watches",
			storeErr:   errors.New("db error"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `listing watches failed`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newWatchAPI(t, &fakeWatchStore{watches: seedWatches(), err: tt.storeErr})

			resp := api.Get(tt.path)
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestWatchHandler_List_EnabledFilterExcludesDisabled(t *testing.T) {
	t.Parallel()

	api := newWatchAPI(t, &fakeWatchStore{watches: seedWatches()})

	resp := api.Get("/api/v1/watches?enabled=true")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), `"Butter watch"`)
}

func TestWatchHandler_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "found",
			id:         "w1",
			wantStatus: http.StatusOK,
			wantBody:   `"tata salt 1kg"`,
		},
		{
			name:       "not found",
			id:         "w-missing",
			wantStatus: http.StatusNotFound,
			wantBody:   `watch not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newWatchAPI(t, &fakeWatchStore{watches: seedWatches()})

			resp := api.Get("/api/v1/watches/" + tt.id)
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestWatchHandler_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       map[string]any
		storeErr   error
		wantStatus int
		wantBody   string
	}{
		{
			name: "creates watch",
			body: map[string]any{
				"name":         "Honey watch",
				"search_query": "organic honey 500g",
				"platforms":    []string{"zepto", "bigbasket"},
				"max_price":    350.0,
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"w-new"`,
		},
		{
			name:       "missing name returns 422",
			body:       map[string]any{"search_query": "organic honey"},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `expected required property name to be present`,
		},
		{
			name:       "missing search query returns 422",
			body:       map[string]any{"name": "Honey watch"},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `expected required property search_query to be present`,
		},
		{
			name: "blank platform returns 400",
			body: map[string]any{
				"name":         "Honey watch",
				"search_query": "organic honey",
				"platforms":    []string{""},
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `blank platform tag`,
		},
		{
			name: "store error returns 500",
			body: map[string]any{
				"name":         "Honey watch",
				"search_query": "organic honey",
			},
			storeErr:   errors.New("db error"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `creating watch failed`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := &fakeWatchStore{err: tt.storeErr}
			api := newWatchAPI(t, fs)

			resp := api.Post("/api/v1/watches", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestWatchHandler_Create_DefaultsEnabled(t *testing.T) {
	t.Parallel()

	fs := &fakeWatchStore{}
	api := newWatchAPI(t, fs)

	resp := api.Post("/api/v1/watches", map[string]any{
		"name":         "Honey watch",
		"search_query": "organic honey",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	require.NotNil(t, fs.created)
	assert.True(t, fs.created.Enabled)

	resp = api.Post("/api/v1/watches", map[string]any{
		"name":         "Paused watch",
		"search_query": "amul butter",
		"enabled":      false,
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.False(t, fs.created.Enabled)
}

func TestWatchHandler_Update(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "updates existing watch",
			id:         "w1",
			wantStatus: http.StatusOK,
			wantBody:   `"Renamed watch"`,
		},
		{
			name:       "unknown id returns 404",
			id:         "w-missing",
			wantStatus: http.StatusNotFound,
			wantBody:   `watch not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := &fakeWatchStore{watches: seedWatches()}
			api := newWatchAPI(t, fs)

			resp := api.Put("/api/v1/watches/"+tt.id, map[string]any{
				"name":         "Renamed watch",
				"search_query": "tata salt",
			})
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestWatchHandler_SetEnabled(t *testing.T) {
	t.Parallel()

	fs := &fakeWatchStore{watches: seedWatches()}
	api := newWatchAPI(t, fs)

	resp := api.Put("/api/v1/watches/w2/enabled", map[string]any{"enabled": true})
	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "w2", fs.enabledID)
	assert.True(t, fs.enabledVal)

	resp = api.Put("/api/v1/watches/w-missing/enabled", map[string]any{"enabled": true})
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestWatchHandler_Delete(t *testing.T) {
	t.Parallel()

	fs := &fakeWatchStore{watches: seedWatches()}
	api := newWatchAPI(t, fs)

	resp := api.Delete("/api/v1/watches/w1")
	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "w1", fs.deletedID)

	resp = api.Delete("/api/v1/watches/w-missing")
	require.Equal(t, http.StatusNotFound, resp.Code)
}
