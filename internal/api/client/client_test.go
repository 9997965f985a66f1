package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.ListWatches(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListWatches(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 500)")
}

func TestClient_Compare(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/compare", r.URL.Path)

		var req CompareRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tata salt 1kg", req.Query)
		assert.Equal(t, []string{"zepto"}, req.Platforms)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.ComparisonResult{
			ID:          "cmp-1",
			SearchQuery: req.Query,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Compare(context.Background(), CompareRequest{
		Query:     "tata salt 1kg",
		Platforms: []string{"zepto"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cmp-1", result.ID)
	assert.Equal(t, "tata salt 1kg", result.SearchQuery)
}

func TestClient_ListComparisons(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/comparisons", r.URL.Path)
		assert.Equal(t, "tata salt", r.URL.Query().Get("search_query"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ComparisonPage{
			Comparisons: []domain.ComparisonResult{{ID: "cmp-1"}},
			Total:       1,
			Limit:       10,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	page, err := c.ListComparisons(context.Background(), ComparisonFilter{
		SearchQuery: "tata salt",
		Limit:       10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Comparisons, 1)
	assert.Equal(t, "cmp-1", page.Comparisons[0].ID)
}

func TestClient_LatestComparison(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/comparisons/latest", r.URL.Path)
		assert.Equal(t, "amul butter", r.URL.Query().Get("search_query"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.ComparisonResult{ID: "cmp-2"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.LatestComparison(context.Background(), "amul butter")
	require.NoError(t, err)
	assert.Equal(t, "cmp-2", result.ID)
}

func TestClient_ListWatches(t *testing.T) {
	t.Parallel()

	watches := []domain.Watch{
		{ID: "w1", Name: "Salt watch"},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/watches", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("enabled"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(watches)
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.ListWatches(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "w1", result[0].ID)
}

func TestClient_CreateWatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/watches", r.URL.Path)

		var req watchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Salt watch", req.Name)
		assert.Equal(t, []string{"zepto", "blinkit"}, req.Platforms)
		require.NotNil(t, req.Enabled)
		assert.True(t, *req.Enabled)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Watch{ID: "w-new", Name: req.Name})
	}))
	defer srv.Close()

	c := New(srv.URL)
	created, err := c.CreateWatch(context.Background(), &domain.Watch{
		Name:        "Salt watch",
		SearchQuery: "tata salt 1kg",
		Platforms:   []domain.Platform{domain.PlatformZepto, domain.PlatformBlinkit},
		Enabled:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "w-new", created.ID)
}

func TestClient_SetWatchEnabled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/watches/w1/enabled", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.SetWatchEnabled(context.Background(), "w1", false))
}

func TestClient_DeleteWatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/watches/w1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.DeleteWatch(context.Background(), "w1"))
}

func TestClient_GetJobHistory(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/jobs/watch_refresh", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]domain.JobRun{
			{ID: "r1", JobName: "watch_refresh", Status: "success"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	runs, err := c.GetJobHistory(context.Background(), "watch_refresh")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "success", runs[0].Status)
}
