// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy() Checker {
	return pingFunc(func(context.Context) error { return nil })
}

func failing() Checker {
	return pingFunc(func(context.Context) error { return errors.New("down") })
}

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		checks     []Check
		wantCode   int
		wantStatus string
	}{
		{
			name: "all healthy",
			checks: []Check{
				{Name: "database", Checker: healthy()},
				{Name: "redis", Checker: healthy()},
				{Name: "mailer", Checker: healthy()},
			},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name: "mailer down",
			checks: []Check{
				{Name: "database", Checker: healthy()},
				{Name: "mailer", Checker: failing()},
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
		},
		{
			name:       "unconfigured checker",
			checks:     []Check{{Name: "redis"}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(NewHandler(tt.checks...), "/readyz")
			require.Equal(t, tt.wantCode, rec.Code)

			var body ReadinessResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tt.wantStatus, body.Status)
			require.Len(t, body.Checks, len(tt.checks))
			for i, c := range tt.checks {
				require.Equal(t, c.Name, body.Checks[i].Name)
			}
		})
	}
}

func TestShutdownFlipsProbes(t *testing.T) {
	t.Parallel()

	h := NewHandler(Check{Name: "database", Checker: healthy()})
	require.Equal(t, http.StatusOK, serve(h, "/livez").Code)

	h.SetReady(false)
	require.Equal(t, http.StatusServiceUnavailable, serve(h, "/readyz").Code)
	require.Equal(t, http.StatusOK, serve(h, "/healthz").Code)

	h.SetShutdown(true)
	rec := serve(h, "/healthz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.JSONEq(t, `{"status":"shutting_down"}`, rec.Body.String())
}
