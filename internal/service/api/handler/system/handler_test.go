package system

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/darkkaiser/nordexplore/internal/pkg/version"
	"github.com/darkkaiser/nordexplore/internal/service/api/constants"
	"github.com/darkkaiser/nordexplore/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type fixedNext time.Time

func (f fixedNext) NextRun() time.Time { return time.Time(f) }

func TestNewHandler_PanicsWithoutRepository(t *testing.T) {
	assert.PanicsWithValue(t, "Repository는 필수입니다", func() {
		NewHandler(nil, nil, version.Info{})
	})
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	next := time.Date(2025, 6, 2, 3, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		ping       error
		scheduler  NextRunner
		wantStatus int
		wantHealth string
		wantNext   string
	}{
		{"Healthy", nil, fixedNext(next), http.StatusOK, constants.HealthStatusHealthy, "2025-06-02T03:00:00Z"},
		{"Healthy Without Scheduler", nil, nil, http.StatusOK, constants.HealthStatusHealthy, ""},
		{"Repository Down", errors.New("connection refused"), nil, http.StatusServiceUnavailable, constants.HealthStatusUnhealthy, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHandler(pingerFunc(func(context.Context) error { return tt.ping }), tt.scheduler, version.Info{})

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

			require.NoError(t, h.HealthCheckHandler(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp response.HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantHealth, resp.Status)
			assert.Equal(t, tt.wantNext, resp.NextSyncAt)
			assert.Equal(t, tt.wantHealth, resp.Dependencies[constants.DependencyRepository].Status)
			if tt.ping != nil {
				assert.Contains(t, resp.Dependencies[constants.DependencyRepository].Message, "connection refused")
			}
		})
	}
}

func TestVersionHandler(t *testing.T) {
	t.Parallel()

	h := NewHandler(pingerFunc(func(context.Context) error { return nil }), nil, version.Info{
		Version:     "1.2.0",
		Commit:      "a1b2c3d",
		BuildDate:   "2025-06-01",
		BuildNumber: "42",
	})

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/version", nil), rec)

	require.NoError(t, h.VersionHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp response.VersionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "1.2.0", resp.Version)
	assert.Equal(t, "a1b2c3d", resp.Commit)
	assert.Equal(t, "42", resp.BuildNumber)
	assert.NotEmpty(t, resp.GoVersion)
}
