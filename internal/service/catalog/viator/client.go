// Package viator 업스트림 투어 카탈로그(Viator Partner API v2) 클라이언트를 제공합니다.
//
// 클라이언트는 읽기 전용이며 인증 헤더와 목적지 ID 캐시 외에는 상태를 갖지 않습니다.
// HTTP 전송은 주입된 fetcher.Fetcher가 담당하므로, 테스트에서는 httptest 서버나 Mock으로 교체할 수 있습니다.
package viator

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/darkkaiser/nordexplore/internal/service/fetcher"
	"github.com/darkkaiser/nordexplore/pkg/throttle"
)

// component 카탈로그 클라이언트 로깅용 컴포넌트 이름
const component = "catalog.client"

const (
	// DefaultBaseURL Viator Partner API 운영 환경 주소입니다.
	DefaultBaseURL = "https://api.viator.com/partner"

	// DefaultDetailInterval 전체 카탈로그 수집 시 상품 상세 조회 사이의 최소 간격입니다.
	DefaultDetailInterval = 100 * time.Millisecond

	// DefaultRegionInterval 전체 카탈로그 수집 시 지역 사이의 최소 간격입니다.
	DefaultRegionInterval = 200 * time.Millisecond

	acceptHeader    = "application/json;version=2.0"
	defaultLanguage = "en-US"
	defaultCurrency = "USD"
)

// Client 업스트림 카탈로그 API 계약입니다.
type Client interface {
	// SearchProducts 목적지의 상품 요약 목록을 조회합니다. 2xx가 아닌 응답은 UpstreamError입니다.
	SearchProducts(ctx context.Context, destinationID string, opts SearchOptions) ([]ProductSummary, error)

	// GetProductDetails 상품 상세를 조회합니다.
	// 비활성 상품과 존재하지 않는 상품은 에러가 아니라 ProductDetail.Status로 표현됩니다.
	GetProductDetails(ctx context.Context, productCode string) (*ProductDetail, error)

	// GetProductPricing 가용성 스케줄에서 시작 가격을 조회합니다.
	// 조회에 실패하거나 가격이 없으면 false를 반환하며, 호출자를 중단시키지 않습니다.
	GetProductPricing(ctx context.Context, productCode string) (float64, bool)

	// GetAllNordicProducts 5개 지역 각각에서 평점순 상위 maxPerCountry개 상품을 수집하고 상세 정보로 보강합니다.
	GetAllNordicProducts(ctx context.Context, maxPerCountry int) ([]CatalogProduct, error)

	// UpdateModifiedProducts since 이후 변경된 상품 중 productCodes에 포함된 상품만 반환합니다.
	UpdateModifiedProducts(ctx context.Context, productCodes []string, since time.Time) ([]ProductDetail, error)
}

// Config 클라이언트 설정입니다.
type Config struct {
	BaseURL  string
	APIKey   string
	Language string
	Currency string

	// DestinationOverrides 지역별 목적지 ID를 고정합니다. 지정된 지역은 /destinations 조회를 생략합니다.
	DestinationOverrides map[model.Country]string
}

// Option 클라이언트 생성 옵션입니다.
type Option func(*client)

// WithDetailGate 전체 카탈로그 수집 시 상품 상세 조회 사이에 사용할 게이트를 지정합니다.
func WithDetailGate(g throttle.Gate) Option {
	return func(c *client) { c.detailGate = g }
}

// WithRegionGate 전체 카탈로그 수집 시 지역 사이에 사용할 게이트를 지정합니다.
func WithRegionGate(g throttle.Gate) Option {
	return func(c *client) { c.regionGate = g }
}

type client struct {
	config  Config
	fetcher fetcher.Fetcher
	header  http.Header

	detailGate throttle.Gate
	regionGate throttle.Gate

	destinationsMu sync.Mutex
	destinations   map[model.Country]string
}

var _ Client = (*client)(nil)

// New 새로운 카탈로그 클라이언트를 생성합니다.
func New(f fetcher.Fetcher, cfg Config, opts ...Option) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	if cfg.Currency == "" {
		cfg.Currency = defaultCurrency
	}

	header := make(http.Header)
	header.Set("exp-api-key", cfg.APIKey)
	header.Set("Accept", acceptHeader)
	header.Set("Accept-Language", cfg.Language)

	c := &client{
		config:       cfg,
		fetcher:      f,
		header:       header,
		detailGate:   throttle.NewIntervalGate(DefaultDetailInterval),
		regionGate:   throttle.NewIntervalGate(DefaultRegionInterval),
		destinations: make(map[model.Country]string),
	}
	for country, id := range cfg.DestinationOverrides {
		if id != "" {
			c.destinations[country] = id
		}
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}
