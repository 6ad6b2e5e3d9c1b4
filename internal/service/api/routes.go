package api

import (
	"net/http"

	"github.com/darkkaiser/nordexplore/internal/service/api/auth"
	"github.com/darkkaiser/nordexplore/internal/service/api/constants"
	"github.com/darkkaiser/nordexplore/internal/service/api/handler/jobs"
	"github.com/darkkaiser/nordexplore/internal/service/api/handler/rates"
	"github.com/darkkaiser/nordexplore/internal/service/api/handler/system"
	"github.com/darkkaiser/nordexplore/internal/service/api/handler/tours"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers 라우트에 연결할 핸들러 묶음입니다. Rates와 Metrics는 nil이면 등록하지 않습니다.
type Handlers struct {
	System *system.Handler
	Tours  *tours.Handler
	Jobs   *jobs.Handler
	Rates  *rates.Handler

	Metrics http.Handler
}

// Secrets 엔드포인트별 인증 비밀 값입니다.
type Secrets struct {
	Admin  string
	Sync   string
	Import string
}

// RegisterRoutes API 서비스의 모든 라우트를 등록합니다.
//
//   - 관리자 엔드포인트 (/admin/tours): X-Admin-Secret 헤더 또는 Bearer 토큰
//   - 작업 엔드포인트 (/sync, /import): 각각의 Bearer 토큰
//   - 공개 엔드포인트: /rates, /health, /version, /metrics, /swagger/*
func RegisterRoutes(e *echo.Echo, h Handlers, s Secrets) {
	registerAdminRoutes(e, h.Tours, s.Admin)
	registerJobRoutes(e, h.Jobs, s)
	registerPublicRoutes(e, h)
	registerSwaggerRoutes(e)
}

func registerAdminRoutes(e *echo.Echo, h *tours.Handler, secret string) {
	g := e.Group(constants.PathAdminTours, auth.RequireSecret("admin", secret, auth.SchemeAdminHeader))
	g.GET("", h.ListHandler)
	g.POST("", h.AddHandler)
	g.DELETE("", h.DeleteHandler)
	g.PATCH("", h.RefreshHandler)
}

func registerJobRoutes(e *echo.Echo, h *jobs.Handler, s Secrets) {
	e.POST(constants.PathSync, h.SyncHandler, auth.RequireSecret("sync", s.Sync, auth.SchemeBearer))
	e.POST(constants.PathImport, h.ImportHandler, auth.RequireSecret("import", s.Import, auth.SchemeBearer))
}

func registerPublicRoutes(e *echo.Echo, h Handlers) {
	e.GET(constants.PathHealth, h.System.HealthCheckHandler)
	e.GET(constants.PathVersion, h.System.VersionHandler)

	if h.Rates != nil {
		e.GET(constants.PathRates, h.Rates.RatesHandler)
	}
	if h.Metrics != nil {
		e.GET(constants.PathMetrics, echo.WrapHandler(h.Metrics))
	}
}

func registerSwaggerRoutes(e *echo.Echo) {
	e.GET(constants.PathSwagger, echoSwagger.EchoWrapHandler(
		echoSwagger.URL("/swagger/doc.json"),
		echoSwagger.DeepLinking(true),
		echoSwagger.DocExpansion("list"),
	))
}
