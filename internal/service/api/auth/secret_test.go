package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darkkaiser/nordexplore/internal/service/api/constants"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "s3cret-0123456789"

func TestRequireSecret(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		secret     string
		scheme     Scheme
		headers    map[string]string
		wantStatus int
	}{
		{"Admin Header", testSecret, SchemeAdminHeader, map[string]string{constants.HeaderAdminSecret: testSecret}, http.StatusOK},
		{"Admin Bearer Fallback", testSecret, SchemeAdminHeader, map[string]string{echo.HeaderAuthorization: "Bearer " + testSecret}, http.StatusOK},
		{"Bearer Lowercase Prefix", testSecret, SchemeBearer, map[string]string{echo.HeaderAuthorization: "bearer " + testSecret}, http.StatusOK},
		{"Bearer Ignores Admin Header", testSecret, SchemeBearer, map[string]string{constants.HeaderAdminSecret: testSecret}, http.StatusUnauthorized},
		{"Wrong Secret", testSecret, SchemeAdminHeader, map[string]string{constants.HeaderAdminSecret: "nope"}, http.StatusUnauthorized},
		{"Missing", testSecret, SchemeBearer, nil, http.StatusUnauthorized},
		{"Basic Scheme", testSecret, SchemeBearer, map[string]string{echo.HeaderAuthorization: "Basic " + testSecret}, http.StatusUnauthorized},
		{"Server Secret Empty", "", SchemeBearer, map[string]string{echo.HeaderAuthorization: "Bearer "}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			called := false
			h := RequireSecret("test", tt.secret, tt.scheme)(func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/sync", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h(c)
			if tt.wantStatus == http.StatusOK {
				require.NoError(t, err)
				assert.True(t, called)
				return
			}

			require.Error(t, err)
			he, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, he.Code)
			assert.False(t, called, "인증 실패 시 핸들러가 실행되면 안 됩니다")
		})
	}
}
