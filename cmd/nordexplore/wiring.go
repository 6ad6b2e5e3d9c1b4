package main

import (
	"context"
	"io"
	"time"

	"github.com/darkkaiser/nordexplore/internal/config"
	"github.com/darkkaiser/nordexplore/internal/pkg/version"
	"github.com/darkkaiser/nordexplore/internal/service"
	"github.com/darkkaiser/nordexplore/internal/service/api"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/normalizer"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/repository"
	catalogsync "github.com/darkkaiser/nordexplore/internal/service/catalog/sync"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/viator"
	"github.com/darkkaiser/nordexplore/internal/service/currency"
	"github.com/darkkaiser/nordexplore/internal/service/fetcher"
	"github.com/darkkaiser/nordexplore/internal/service/metrics"
	"github.com/darkkaiser/nordexplore/internal/service/scheduler"
	"github.com/darkkaiser/nordexplore/pkg/concurrency"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
	"github.com/darkkaiser/nordexplore/pkg/throttle"
)

const (
	// redisKeyPrefix 환율 캐시 키 접두사
	redisKeyPrefix = config.AppName + ":rates:"

	// repositoryCloseTimeout 종료 시 저장소 연결 해제에 허용하는 시간
	repositoryCloseTimeout = 5 * time.Second
)

// app 설정으로부터 조립된 서비스 묶음입니다.
type app struct {
	services []service.Service
	closers  []func()
}

// close 조립 과정에서 연 자원을 역순으로 해제합니다.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApp 설정에 따라 저장소, 업스트림 클라이언트, 동기화 서비스, 스케줄러, API 서비스를 조립합니다.
func buildApp(ctx context.Context, appConfig *config.AppConfig, buildInfo version.Info) (*app, error) {
	a := &app{}

	// 1. 저장소
	repo, err := newRepository(ctx, appConfig.Storage)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), repositoryCloseTimeout)
		defer cancel()
		if err := repo.Close(closeCtx); err != nil {
			applog.WithComponentAndFields("main", applog.Fields{"error": err}).Warn("저장소 연결 해제 실패")
		}
	})

	// 2. 지표
	m := metrics.New(true)

	// 3. 업스트림 카탈로그 클라이언트
	viatorGate := throttle.Unlimited()
	if rps := appConfig.Viator.MaxRequestsPerSecond; rps > 0 {
		viatorGate = throttle.NewIntervalGate(time.Duration(float64(time.Second) / rps))
	}
	viatorFetcher := fetcher.New(fetcher.Config{
		Timeout:       appConfig.Viator.Timeout,
		MaxRetries:    appConfig.HTTPRetry.MaxRetries,
		MinRetryDelay: appConfig.HTTPRetry.RetryDelay,
		Gate:          viatorGate,
	})
	client := viator.New(viatorFetcher, viator.Config{
		BaseURL:              appConfig.Viator.BaseURL,
		APIKey:               appConfig.Viator.APIKey,
		Language:             appConfig.Viator.Language,
		Currency:             appConfig.Viator.Currency,
		DestinationOverrides: appConfig.Viator.Destinations(),
	},
		viator.WithDetailGate(throttle.NewIntervalGate(appConfig.Throttle.DetailInterval)),
		viator.WithRegionGate(throttle.NewIntervalGate(appConfig.Throttle.RegionInterval)),
	)

	// 4. 정규화 및 동기화 오케스트레이터
	n := normalizer.New(normalizer.Config{
		AffiliateDomain: appConfig.Viator.AffiliateDomain,
		PartnerID:       appConfig.Viator.PartnerID,
		CampaignID:      appConfig.Viator.CampaignID,
		Campaign:        appConfig.Viator.Campaign,
		DefaultCurrency: appConfig.Viator.Currency,
	})
	catalog := catalogsync.New(client, repo, n,
		catalogsync.WithItemGate(throttle.NewIntervalGate(appConfig.Throttle.ItemInterval)),
		catalogsync.WithSyncWindow(appConfig.Sync.Window),
		catalogsync.WithMaxPerCountry(appConfig.Sync.MaxPerCountry),
		catalogsync.WithRecorder(m),
		catalogsync.WithKeyedMutex(concurrency.NewKeyedMutex()),
	)

	deps := api.Dependencies{
		Catalog:   catalog,
		Store:     repo,
		Metrics:   m,
		BuildInfo: buildInfo,
	}

	// 5. 환율 캐시
	if appConfig.ExchangeRate.Enabled {
		rates, closeRates, err := newRateCache(ctx, appConfig.ExchangeRate, m)
		if err != nil {
			a.close()
			return nil, err
		}
		if closeRates != nil {
			a.closers = append(a.closers, closeRates)
		}
		deps.Rates = rates
	}

	// 6. 예약 동기화
	if appConfig.Sync.Enabled {
		s := scheduler.NewService(appConfig.Sync.TimeSpec, catalog, scheduler.DefaultRunTimeout)
		deps.Scheduler = s
		a.services = append(a.services, s)
	}

	// 7. 관리 API
	a.services = append(a.services, api.NewService(appConfig, deps))

	return a, nil
}

func newRepository(ctx context.Context, cfg config.StorageConfig) (repository.Repository, error) {
	if cfg.Driver == config.StorageDriverMemory {
		applog.WithComponent("main").Warn("메모리 저장소를 사용합니다. 프로세스가 종료되면 데이터가 사라집니다")
		return repository.NewMemoryRepository(), nil
	}

	return repository.NewMongoRepository(ctx, repository.MongoConfig{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		Collection:     cfg.Mongo.Collection,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
	})
}

// newRateCache 환율 캐시를 생성합니다. redis_url이 지정되면 Redis에, 아니면 메모리에 환율을 보관합니다.
func newRateCache(ctx context.Context, cfg config.ExchangeRateConfig, observer currency.Observer) (*currency.Cache, func(), error) {
	var (
		store   currency.Store
		closeFn func()
	)

	if cfg.RedisURL != "" {
		client, err := currency.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		store = currency.NewRedisStore(client, redisKeyPrefix)
		closeFn = func() { closeQuietly(client) }
	} else {
		store = currency.NewMemoryStore()
	}

	source := currency.NewHTTPSource(fetcher.New(fetcher.Config{Timeout: 10 * time.Second}), cfg.URL)

	cache := currency.NewCache(store, source, currency.Config{
		TTL:               cfg.TTL,
		FallbackOverrides: cfg.Fallback,
	}, currency.WithObserver(observer))

	return cache, closeFn, nil
}

func closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		applog.WithComponentAndFields("main", applog.Fields{"error": err}).Warn("연결 해제 실패")
	}
}
