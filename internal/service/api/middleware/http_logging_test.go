package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darkkaiser/nordexplore/internal/service/api/httputil"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskSensitiveQueryParams(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"민감 정보 없음", "/admin/tours?page=2", "/admin/tours?page=2"},
		{"토큰 마스킹", "/sync?token=secret123456789&id=100", "/sync?id=100&token=secr%2A%2A%2A6789"},
		{"짧은 값", "/sync?secret=abc", "/sync?secret=%2A%2A%2A"},
		{"쿼리 없음", "/health", "/health"},
		{"파싱 실패", "%zz", "%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskSensitiveQueryParams(tt.uri))
		})
	}
}

func TestHTTPLogger_RecordsFinalStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.StandardLogger()
	prevOut, prevFormatter, prevLevel := logger.Out, logger.Formatter, logger.GetLevel()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(applog.InfoLevel)
	t.Cleanup(func() {
		logger.SetOutput(prevOut)
		logger.SetFormatter(prevFormatter)
		logger.SetLevel(prevLevel)
	})

	e := echo.New()
	e.HTTPErrorHandler = httputil.ErrorHandler

	req := httptest.NewRequest(http.MethodGet, "/sync?token=secret123456789", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := HTTPLogger()(func(c echo.Context) error {
		return httputil.NewUnauthorizedError("인증에 실패했습니다")
	})

	require.NoError(t, h(c), "에러는 미들웨어 안에서 처리되어야 합니다")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var entry map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var m map[string]any
		if json.Unmarshal(line, &m) == nil && m["msg"] == "HTTP 요청" {
			entry = m
		}
	}
	require.NotNil(t, entry, "요청 로그가 기록되어야 합니다")
	assert.EqualValues(t, http.StatusUnauthorized, entry["status"])
	assert.NotContains(t, entry["uri"], "secret123456789")
}

func TestPanicRecovery(t *testing.T) {
	e := echo.New()

	t.Run("일반 panic은 에러로 변환", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		h := PanicRecovery()(func(echo.Context) error { panic("boom") })

		err := h(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
		assert.Equal(t, http.StatusInternalServerError, httputil.StatusCode(err))
	})

	t.Run("error 타입 panic 보존", func(t *testing.T) {
		cause := errors.New("nil map write")
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		h := PanicRecovery()(func(echo.Context) error { panic(cause) })

		assert.ErrorIs(t, h(c), cause)
	})

	t.Run("ErrAbortHandler는 다시 전파", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		h := PanicRecovery()(func(echo.Context) error { panic(http.ErrAbortHandler) })

		assert.PanicsWithValue(t, http.ErrAbortHandler, func() { _ = h(c) })
	})
}
