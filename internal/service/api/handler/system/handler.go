// Package system 인증 없이 호출할 수 있는 헬스체크와 버전 정보 엔드포인트를 제공합니다.
package system

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/darkkaiser/nordexplore/internal/pkg/version"
	"github.com/darkkaiser/nordexplore/internal/service/api/constants"
	"github.com/darkkaiser/nordexplore/internal/service/api/model/response"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
	"github.com/labstack/echo/v4"
)

// pingTimeout 헬스체크 시 저장소 응답을 기다리는 최대 시간
const pingTimeout = 2 * time.Second

// Pinger 연결 상태를 확인할 수 있는 의존성입니다.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NextRunner 다음 예약 실행 시각을 알려주는 스케줄러입니다.
type NextRunner interface {
	NextRun() time.Time
}

// Handler 시스템 엔드포인트 핸들러 (헬스체크, 버전 정보)
type Handler struct {
	repository Pinger
	scheduler  NextRunner

	buildInfo version.Info

	serverStartTime time.Time
}

// NewHandler Handler 인스턴스를 생성합니다. scheduler는 nil일 수 있습니다.
func NewHandler(repository Pinger, scheduler NextRunner, buildInfo version.Info) *Handler {
	if repository == nil {
		panic("Repository는 필수입니다")
	}

	return &Handler{
		repository: repository,
		scheduler:  scheduler,

		buildInfo: buildInfo,

		serverStartTime: time.Now(),
	}
}

// HealthCheckHandler godoc
// @Summary 서버 헬스체크
// @Description 서버와 카탈로그 저장소의 상태를 확인합니다. 저장소에 연결할 수 없으면 503을 반환합니다.
// @Tags System
// @Produce json
// @Success 200 {object} response.HealthResponse "정상"
// @Failure 503 {object} response.HealthResponse "저장소 연결 실패"
// @Router /health [get]
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
	defer cancel()

	start := time.Now()
	dep := response.DependencyStatus{Status: constants.HealthStatusHealthy}
	if err := h.repository.Ping(ctx); err != nil {
		dep.Status = constants.HealthStatusUnhealthy
		dep.Message = err.Error()

		applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
			"dependency": constants.DependencyRepository,
			"error":      err,
		}).Warn("헬스체크: 저장소 연결 상태가 비정상입니다")
	}
	dep.LatencyMS = time.Since(start).Milliseconds()

	resp := response.HealthResponse{
		Status:       dep.Status,
		Uptime:       int64(time.Since(h.serverStartTime).Seconds()),
		Dependencies: map[string]response.DependencyStatus{constants.DependencyRepository: dep},
	}
	if h.scheduler != nil {
		if next := h.scheduler.NextRun(); !next.IsZero() {
			resp.NextSyncAt = next.UTC().Format(time.RFC3339)
		}
	}

	code := http.StatusOK
	if resp.Status != constants.HealthStatusHealthy {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, resp)
}

// VersionHandler godoc
// @Summary 서버 버전 정보
// @Description 서버의 버전, Git 커밋 해시, 빌드 날짜, 빌드 번호, Go 버전을 반환합니다.
// @Tags System
// @Produce json
// @Success 200 {object} response.VersionResponse "버전 정보"
// @Router /version [get]
func (h *Handler) VersionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, response.VersionResponse{
		Version:     h.buildInfo.Version,
		Commit:      h.buildInfo.Commit,
		BuildDate:   h.buildInfo.BuildDate,
		BuildNumber: h.buildInfo.BuildNumber,
		GoVersion:   runtime.Version(),
	})
}
