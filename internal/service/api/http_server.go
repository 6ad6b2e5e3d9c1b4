package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/darkkaiser/nordexplore/internal/service/api/constants"
	"github.com/darkkaiser/nordexplore/internal/service/api/httputil"
	appmiddleware "github.com/darkkaiser/nordexplore/internal/service/api/middleware"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HTTPServerConfig HTTP 서버 생성에 필요한 설정을 정의합니다.
type HTTPServerConfig struct {
	// Debug Echo 프레임워크의 디버그 모드 활성화 여부
	Debug bool

	// AllowOrigins CORS에서 허용할 Origin 목록
	AllowOrigins []string

	// RequestTimeout 일반 요청의 최대 처리 시간 (기본값: 30초)
	// 일괄 작업 경로(/sync, /import, PATCH /admin/tours)에는 적용되지 않습니다.
	RequestTimeout time.Duration

	// BodyLimit 요청 본문 최대 크기 (예: "1M")
	BodyLimit string

	// RateLimitEnabled가 false이면 IP별 요청 제한을 적용하지 않습니다.
	RateLimitEnabled  bool
	RequestsPerSecond float64
	Burst             int

	// Observer가 nil이 아니면 요청마다 지표를 기록합니다.
	Observer appmiddleware.RequestObserver
}

// NewHTTPServer 설정된 미들웨어를 포함한 Echo 인스턴스를 생성합니다.
//
// 미들웨어는 다음 순서로 적용됩니다:
//
//  1. PanicRecovery - 패닉 복구 및 로깅
//  2. RequestID - 요청 ID 부여 (X-Request-ID)
//  3. ServerHeader - Server 헤더 제거
//  4. HTTPLogger - 요청/응답 로깅 (민감한 쿼리 파라미터 마스킹)
//  5. Metrics - 라우트별 요청 수와 처리 시간 기록
//  6. RateLimiting - IP별 요청 제한 (초과 시 429)
//  7. BodyLimit - 요청 본문 크기 제한 (초과 시 413)
//  8. Timeout - 일반 요청 처리 시간 제한 (일괄 작업 경로 제외)
//  9. CORS - 관리 화면의 크로스 도메인 요청 허용
//  10. Secure - 보안 헤더 설정
//
// 라우트 설정은 포함되지 않으며, 반환된 Echo 인스턴스에 별도로 설정해야 합니다.
func NewHTTPServer(cfg HTTPServerConfig) *echo.Echo {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = constants.DefaultReadTimeout
	e.Server.ReadHeaderTimeout = constants.DefaultReadHeaderTimeout
	e.Server.IdleTimeout = constants.DefaultIdleTimeout
	// WriteTimeout은 설정하지 않습니다. 일괄 작업 응답과 진행 상황 스트림이 수 분 이상 걸릴 수 있습니다.

	e.Logger = appmiddleware.Logger{Logger: applog.StandardLogger()}
	e.HTTPErrorHandler = httputil.ErrorHandler

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	bodyLimit := cfg.BodyLimit
	if bodyLimit == "" {
		bodyLimit = constants.DefaultBodyLimit
	}

	// 1. Panic 복구
	e.Use(appmiddleware.PanicRecovery())
	// 2. Request ID
	e.Use(middleware.RequestID())
	// 3. Server 헤더 제거
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderServer, "")
			return next(c)
		}
	})
	// 4. HTTP 로깅 (이후 단계에서 발생한 429/413/503도 기록)
	e.Use(appmiddleware.HTTPLogger())
	// 5. 지표
	if cfg.Observer != nil {
		e.Use(appmiddleware.Metrics(cfg.Observer))
	}
	// 6. Rate Limiting
	if cfg.RateLimitEnabled {
		rps, burst := cfg.RequestsPerSecond, cfg.Burst
		if rps <= 0 {
			rps = constants.DefaultRateLimitPerSecond
		}
		if burst <= 0 {
			burst = constants.DefaultRateLimitBurst
		}
		e.Use(appmiddleware.RateLimiting(rps, burst))
	}
	// 7. Body Limit
	e.Use(middleware.BodyLimit(bodyLimit))
	// 8. Timeout
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Skipper:      isBatchRequest,
		ErrorMessage: constants.ErrMsgGatewayTimeout,
		Timeout:      timeout,
	}))
	// 9. CORS
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, constants.HeaderAdminSecret},
	}))
	// 10. 보안 헤더
	e.Use(middleware.Secure())

	return e
}

// isBatchRequest 요청 타임아웃을 적용하지 않는 일괄 작업 요청인지 확인합니다.
func isBatchRequest(c echo.Context) bool {
	req := c.Request()
	path := strings.TrimSuffix(req.URL.Path, "/")

	switch {
	case req.Method == http.MethodPost && (path == constants.PathSync || path == constants.PathImport):
		return true
	case req.Method == http.MethodPatch && path == constants.PathAdminTours:
		return true
	}
	return false
}
