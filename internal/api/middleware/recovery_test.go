package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovery_NoPanic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/comparisons", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Recovery(logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	err := handler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, buf.String(), "no panic should produce no log output")
}

func TestRecovery_Panic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		panicValue any
		wantInLog  []string
	}{
		{
			name:       "string panic",
			panicValue: "grouping blew up",
			wantInLog:  []string{"panic recovered", "grouping blew up"},
		},
		{
			name:       "error panic",
			panicValue: errors.New("nil store"),
			wantInLog:  []string{"nil store"},
		},
		{
			name:       "non-string panic",
			panicValue: 42,
			wantInLog:  []string{"42"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/compare", http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.Set("request_id", "req-123")

			handler := Recovery(logger)(func(_ echo.Context) error {
				panic(tt.panicValue)
			})

			err := handler(c)
			require.NoError(t, err)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Contains(t, rec.Body.String(), "internal server error")

			logOutput := buf.String()
			for _, want := range tt.wantInLog {
				assert.Contains(t, logOutput, want)
			}
			assert.Contains(t, logOutput, "method=POST")
			assert.Contains(t, logOutput, "path=/api/v1/compare")
			assert.Contains(t, logOutput, "request_id=req-123")
		})
	}
}

func TestRecovery_AbortHandlerRepanics(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/comparisons", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Recovery(logger)(func(_ echo.Context) error {
		panic(http.ErrAbortHandler)
	})

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		_ = handler(c)
	})
	assert.Empty(t, buf.String(), "aborted requests should not be logged here")
}
