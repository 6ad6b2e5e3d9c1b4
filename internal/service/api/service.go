package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	_ "github.com/darkkaiser/nordexplore/docs"
	"github.com/darkkaiser/nordexplore/internal/config"
	"github.com/darkkaiser/nordexplore/internal/pkg/version"
	"github.com/darkkaiser/nordexplore/internal/service/api/constants"
	"github.com/darkkaiser/nordexplore/internal/service/api/handler/jobs"
	"github.com/darkkaiser/nordexplore/internal/service/api/handler/rates"
	"github.com/darkkaiser/nordexplore/internal/service/api/handler/system"
	"github.com/darkkaiser/nordexplore/internal/service/api/handler/tours"
	appmiddleware "github.com/darkkaiser/nordexplore/internal/service/api/middleware"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
	"github.com/labstack/echo/v4"
)

// Orchestrator 카탈로그 동기화 작업을 수행합니다.
type Orchestrator interface {
	tours.Catalog
	jobs.Runner
}

// Store 목록 조회와 헬스체크에 사용하는 저장소입니다.
type Store interface {
	tours.Store
	system.Pinger
}

// RateService 환율 조회와 가격 환산을 제공합니다.
type RateService interface {
	rates.Provider
	tours.Converter
}

// MetricsExporter 요청 지표를 기록하고 /metrics 응답을 제공합니다.
type MetricsExporter interface {
	appmiddleware.RequestObserver
	Handler() http.Handler
}

// Dependencies API 서비스가 사용하는 외부 구성 요소입니다.
// Rates, Scheduler, Metrics는 선택 사항이며 nil이면 해당 기능을 제공하지 않습니다.
type Dependencies struct {
	Catalog   Orchestrator
	Store     Store
	Rates     RateService
	Scheduler system.NextRunner
	Metrics   MetricsExporter

	BuildInfo version.Info
}

// Service 관리 API 서버의 생명주기를 관리하는 서비스입니다.
//
// Start()로 시작하면 별도의 고루틴에서 HTTP 서버가 실행되고, context가 취소되면 진행 중인 요청을
// 최대 ShutdownTimeout 동안 기다린 뒤 종료합니다.
type Service struct {
	appConfig *config.AppConfig
	deps      Dependencies

	running   bool
	runningMu sync.Mutex
}

// NewService Service 인스턴스를 생성합니다.
func NewService(appConfig *config.AppConfig, deps Dependencies) *Service {
	if appConfig == nil {
		panic("AppConfig는 필수입니다")
	}

	return &Service{
		appConfig: appConfig,
		deps:      deps,
	}
}

// Start API 서비스를 시작합니다. 이 함수는 즉시 반환되며 서버는 고루틴에서 실행됩니다.
// 서비스가 종료되면 serviceStopWG.Done()이 호출됩니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info("API 서비스 시작중...")

	if s.deps.Catalog == nil {
		defer serviceStopWG.Done()
		return ErrCatalogNotInitialized
	}
	if s.deps.Store == nil {
		defer serviceStopWG.Done()
		return ErrStoreNotInitialized
	}

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(constants.ComponentService).Warn("API 서비스가 이미 시작됨!!!")
		return nil
	}

	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port": s.appConfig.API.ListenPort,
	}).Info("API 서비스 시작됨")

	return nil
}

func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	e := s.setupServer()

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// setupServer 핸들러, 미들웨어, 라우트가 모두 구성된 Echo 인스턴스를 생성합니다.
func (s *Service) setupServer() *echo.Echo {
	apiConfig := s.appConfig.API

	batchTimeout := constants.DefaultBatchTimeout

	handlers := Handlers{
		System: system.NewHandler(s.deps.Store, s.deps.Scheduler, s.deps.BuildInfo),
		Jobs:   jobs.NewHandler(s.deps.Catalog, batchTimeout),
	}

	var converter tours.Converter
	if s.deps.Rates != nil {
		converter = s.deps.Rates
		handlers.Rates = rates.NewHandler(s.deps.Rates)
	}
	handlers.Tours = tours.NewHandler(s.deps.Catalog, s.deps.Store, converter, batchTimeout)

	serverConfig := HTTPServerConfig{
		Debug:             s.appConfig.Debug,
		AllowOrigins:      apiConfig.CORS.AllowOrigins,
		RequestTimeout:    apiConfig.RequestTimeout,
		BodyLimit:         apiConfig.BodyLimit,
		RateLimitEnabled:  apiConfig.RateLimit.Enabled,
		RequestsPerSecond: apiConfig.RateLimit.RequestsPerSecond,
		Burst:             apiConfig.RateLimit.Burst,
	}
	if s.deps.Metrics != nil {
		serverConfig.Observer = s.deps.Metrics
		if apiConfig.MetricsEnabled {
			handlers.Metrics = s.deps.Metrics.Handler()
		}
	}

	e := NewHTTPServer(serverConfig)

	RegisterRoutes(e, handlers, Secrets{
		Admin:  apiConfig.AdminSecret,
		Sync:   apiConfig.SyncSecret,
		Import: apiConfig.EffectiveImportSecret(),
	})

	return e
}

// startHTTPServer HTTP 서버를 시작합니다. 서버가 종료되면 done 채널을 닫습니다.
func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	port := s.appConfig.API.ListenPort
	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port": port,
	}).Debug("API 서비스 > HTTP 서버 시작")

	err := e.Start(fmt.Sprintf(":%d", port))
	if err == nil {
		return
	}
	if errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(constants.ComponentService).Info("API 서비스 > HTTP 서버 중지됨")
		return
	}

	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port":  port,
		"error": err,
	}).Error("API 서비스 > HTTP 서버를 구성하는 중에 치명적인 오류가 발생하였습니다")
}

// waitForShutdown 종료 신호를 기다린 뒤 Graceful Shutdown을 수행합니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(constants.ComponentService).Info("API 서비스 중지중...")
	case <-httpServerDone:
		// 포트 바인딩 실패 등으로 서버가 먼저 종료된 경우
		applog.WithComponent(constants.ComponentService).Error("API 서비스 > HTTP 서버가 예기치 않게 종료되었습니다")
		s.cleanup()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"error": err,
		}).Error("API 서비스 > HTTP 서버 종료 중 오류가 발생하였습니다")
	}

	select {
	case <-httpServerDone:
	case <-time.After(constants.ShutdownTimeout):
		applog.WithComponent(constants.ComponentService).Warn("API 서비스 > HTTP 서버 종료 대기 시간 초과")
	}

	s.cleanup()
}

func (s *Service) cleanup() {
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info("API 서비스 중지됨")
}
