package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/darkkaiser/nordexplore/internal/pkg/validation"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/darkkaiser/nordexplore/pkg/cronx"
	"github.com/go-playground/validator/v10"
)

const (
	// HTTP 재시도 정책 기본값. 기본적으로 재시도하지 않습니다.
	DefaultMaxRetries = 0
	DefaultRetryDelay = "1s"

	DefaultViatorBaseURL        = "https://api.viator.com/partner"
	DefaultViatorLanguage       = "en-US"
	DefaultViatorCurrency       = "USD"
	DefaultViatorTimeout        = "30s"
	DefaultAffiliateDomain      = "https://www.viator.com"
	DefaultMaxRequestsPerSecond = 0

	// 호출 간격 기본값
	DefaultDetailInterval = "100ms"
	DefaultRegionInterval = "200ms"
	DefaultItemInterval   = "300ms"

	StorageDriverMongo  = "mongo"
	StorageDriverMemory = "memory"

	DefaultMongoDatabase       = "nordexplore"
	DefaultMongoCollection     = "experiences"
	DefaultMongoConnectTimeout = "10s"

	// DefaultSyncTimeSpec 매일 03:00:00에 증분 동기화를 실행합니다.
	DefaultSyncTimeSpec  = "0 0 3 * * *"
	DefaultSyncWindow    = "24h"
	DefaultMaxPerCountry = 50

	DefaultExchangeRateURL = "https://open.er-api.com/v6/latest/{base}"
	DefaultExchangeRateTTL = "1h"

	DefaultListenPort         = 8080
	DefaultRequestTimeout     = "30s"
	DefaultBodyLimit          = "1M"
	DefaultRateLimitPerSecond = 5
	DefaultRateLimitBurst     = 20
)

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate(v *validator.Validate) error {
	if err := c.HTTPRetry.validate(); err != nil {
		return err
	}
	if err := c.Viator.validate(v); err != nil {
		return err
	}
	if err := c.Throttle.validate(); err != nil {
		return err
	}
	if err := c.Storage.validate(v); err != nil {
		return err
	}
	if err := c.Sync.validate(v); err != nil {
		return err
	}
	if err := c.ExchangeRate.validate(); err != nil {
		return err
	}
	return c.API.validate(v)
}

// VerifyRecommendations 실행을 막지는 않지만 운영 환경에서 주의가 필요한 설정 항목을 경고 메시지로 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string
	warnings = append(warnings, c.API.VerifyRecommendations()...)
	if c.Storage.Driver == StorageDriverMemory {
		warnings = append(warnings, "메모리 저장소(storage.driver=memory)는 재시작 시 모든 카탈로그 데이터가 사라집니다")
	}
	if c.Viator.MaxRequestsPerSecond <= 0 {
		warnings = append(warnings, "Viator API 초당 요청 제한(viator.max_requests_per_second)이 설정되지 않았습니다")
	}
	return warnings
}

// HTTPRetryConfig 업스트림 HTTP 요청 재시도 정책
type HTTPRetryConfig struct {
	MaxRetries int           `json:"max_retries"`
	RetryDelay time.Duration `json:"retry_delay"`
}

func (c *HTTPRetryConfig) validate() error {
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("HTTP 재시도 횟수(max_retries)는 0에서 10 사이의 값이어야 합니다 (입력값: %d)", c.MaxRetries))
	}
	if c.MaxRetries > 0 && c.RetryDelay < 100*time.Millisecond {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("HTTP 재시도 대기 시간(retry_delay)은 100ms 이상이어야 합니다 (입력값: %s)", c.RetryDelay))
	}
	return nil
}

// ViatorConfig Viator Partner API 접속 및 제휴 링크 설정
type ViatorConfig struct {
	BaseURL  string        `json:"base_url" validate:"required"`
	APIKey   string        `json:"api_key" validate:"required"`
	Language string        `json:"language" validate:"required"`
	Currency string        `json:"currency" validate:"required,len=3,alpha"`
	Timeout  time.Duration `json:"timeout"`

	PartnerID       string `json:"partner_id"`
	CampaignID      string `json:"campaign_id"`
	Campaign        string `json:"campaign"`
	AffiliateDomain string `json:"affiliate_domain" validate:"required"`

	// DestinationOverrides 지역 키(예: "norway")별 목적지 ID입니다.
	DestinationOverrides map[string]string `json:"destination_overrides"`

	// MaxRequestsPerSecond 모든 Viator 요청에 적용하는 초당 요청 상한입니다. 0이면 제한하지 않습니다.
	MaxRequestsPerSecond float64 `json:"max_requests_per_second" validate:"min=0"`
}

func (c *ViatorConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c, "Viator"); err != nil {
		return err
	}
	if err := validation.ValidateURL(c.BaseURL); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, "Viator API 주소(base_url)가 올바르지 않습니다")
	}
	if err := validation.ValidateURL(c.AffiliateDomain); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, "제휴 도메인(affiliate_domain)이 올바르지 않습니다")
	}
	if c.Timeout < time.Second {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("Viator 요청 제한 시간(timeout)은 1초 이상이어야 합니다 (입력값: %s)", c.Timeout))
	}
	for key, id := range c.DestinationOverrides {
		if _, ok := model.ParseCountry(key); !ok {
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지원하지 않는 지역 키입니다(destination_overrides): '%s'", key))
		}
		if strings.TrimSpace(id) == "" {
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지역 '%s'의 목적지 ID가 비어 있습니다", key))
		}
	}
	return nil
}

// Destinations 목적지 ID 고정값을 지역 타입 키로 변환하여 반환합니다.
func (c *ViatorConfig) Destinations() map[model.Country]string {
	if len(c.DestinationOverrides) == 0 {
		return nil
	}
	out := make(map[model.Country]string, len(c.DestinationOverrides))
	for key, id := range c.DestinationOverrides {
		if country, ok := model.ParseCountry(key); ok {
			out[country] = strings.TrimSpace(id)
		}
	}
	return out
}

// ThrottleConfig 업스트림 호출 사이의 최소 간격
type ThrottleConfig struct {
	// DetailInterval 전체 카탈로그 수집 시 상품 상세 조회 사이 간격
	DetailInterval time.Duration `json:"detail_interval"`

	// RegionInterval 전체 카탈로그 수집 시 지역 사이 간격
	RegionInterval time.Duration `json:"region_interval"`

	// ItemInterval 추가/새로고침 배치에서 상품 사이 간격
	ItemInterval time.Duration `json:"item_interval"`
}

func (c *ThrottleConfig) validate() error {
	for name, d := range map[string]time.Duration{
		"detail_interval": c.DetailInterval,
		"region_interval": c.RegionInterval,
		"item_interval":   c.ItemInterval,
	} {
		if d < 0 || d > time.Minute {
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("호출 간격(%s)은 0에서 1분 사이여야 합니다 (입력값: %s)", name, d))
		}
	}
	return nil
}

// StorageConfig 카탈로그 저장소 설정
type StorageConfig struct {
	Driver string      `json:"driver" validate:"required,oneof=mongo memory"`
	Mongo  MongoConfig `json:"mongo"`
}

// MongoConfig MongoDB 접속 설정
type MongoConfig struct {
	URI            string        `json:"uri"`
	Database       string        `json:"database"`
	Collection     string        `json:"collection"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
}

func (c *StorageConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c, "저장소"); err != nil {
		return err
	}
	if c.Driver != StorageDriverMongo {
		return nil
	}

	if err := validation.ValidateURL(c.Mongo.URI, "mongodb", "mongodb+srv"); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, "MongoDB 접속 주소(storage.mongo.uri)가 올바르지 않습니다")
	}
	if strings.TrimSpace(c.Mongo.Database) == "" {
		return apperrors.New(apperrors.InvalidInput, "MongoDB 데이터베이스 이름(storage.mongo.database)이 비어 있습니다")
	}
	if c.Mongo.ConnectTimeout <= 0 {
		return apperrors.New(apperrors.InvalidInput, "MongoDB 접속 제한 시간(storage.mongo.connect_timeout)은 0보다 커야 합니다")
	}
	return nil
}

// SyncConfig 증분 동기화 스케줄 및 일괄 가져오기 설정
type SyncConfig struct {
	Enabled  bool   `json:"enabled"`
	TimeSpec string `json:"time_spec"`

	// Window 변경 피드 조회 시 현재 시각으로부터 거슬러 올라가는 기간
	Window time.Duration `json:"window"`

	MaxPerCountry int `json:"max_per_country" validate:"min=1,max=500"`
}

func (c *SyncConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c, "동기화"); err != nil {
		return err
	}
	if c.Window < time.Hour {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("동기화 조회 기간(window)은 1시간 이상이어야 합니다 (입력값: %s)", c.Window))
	}
	if c.Enabled {
		if err := cronx.Validate(c.TimeSpec); err != nil {
			return apperrors.Wrap(err, apperrors.InvalidInput, "동기화 스케줄(time_spec)이 올바르지 않습니다")
		}
	}
	return nil
}

// ExchangeRateConfig 환율 조회 및 캐시 설정
type ExchangeRateConfig struct {
	Enabled bool          `json:"enabled"`
	URL     string        `json:"url"`
	TTL     time.Duration `json:"ttl"`

	// RedisURL 비어 있으면 프로세스 메모리에 캐시합니다.
	RedisURL string `json:"redis_url"`

	// Fallback USD 기준 대체 환율표에 덮어쓸 값입니다.
	Fallback map[string]float64 `json:"fallback"`
}

func (c *ExchangeRateConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	if err := validation.ValidateURL(c.URL); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, "환율 API 주소(exchange_rate.url)가 올바르지 않습니다")
	}
	if c.TTL < time.Minute {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("환율 캐시 유효 시간(ttl)은 1분 이상이어야 합니다 (입력값: %s)", c.TTL))
	}
	if c.RedisURL != "" {
		if err := validation.ValidateURL(c.RedisURL, "redis", "rediss"); err != nil {
			return apperrors.Wrap(err, apperrors.InvalidInput, "Redis 접속 주소(exchange_rate.redis_url)가 올바르지 않습니다")
		}
	}
	for code, rate := range c.Fallback {
		if rate <= 0 {
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("대체 환율은 0보다 커야 합니다: '%s'=%v", code, rate))
		}
	}
	return nil
}

// APIConfig 관리용 HTTP 서버 설정
type APIConfig struct {
	ListenPort int        `json:"listen_port"`
	CORS       CORSConfig `json:"cors" validate:"-"`

	// AdminSecret 투어 관리 엔드포인트(/admin/tours)의 공유 비밀 값
	AdminSecret string `json:"admin_secret" validate:"required,min=16"`

	// SyncSecret 증분 동기화 엔드포인트(/sync)의 Bearer 토큰
	SyncSecret string `json:"sync_secret" validate:"required,min=16"`

	// ImportSecret 일괄 가져오기 엔드포인트(/import)의 Bearer 토큰. 비어 있으면 SyncSecret을 사용합니다.
	ImportSecret string `json:"import_secret" validate:"omitempty,min=16"`

	MetricsEnabled bool          `json:"metrics_enabled"`
	RequestTimeout time.Duration `json:"request_timeout"`
	BodyLimit      string        `json:"body_limit" validate:"required"`

	RateLimit RateLimitConfig `json:"rate_limit" validate:"-"`
}

// RateLimitConfig 클라이언트 IP별 요청 속도 제한
type RateLimitConfig struct {
	Enabled           bool    `json:"enabled"`
	RequestsPerSecond float64 `json:"requests_per_sec" validate:"gt=0"`
	Burst             int     `json:"burst" validate:"min=1"`
}

func (c *APIConfig) validate(v *validator.Validate) error {
	if err := validation.ValidatePort(c.ListenPort); err != nil {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("웹 서버 포트(listen_port)는 1에서 65535 사이의 값이어야 합니다 (입력값: %d)", c.ListenPort))
	}
	if err := checkStruct(v, c, "API"); err != nil {
		return err
	}
	if c.RequestTimeout < time.Second {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("요청 제한 시간(request_timeout)은 1초 이상이어야 합니다 (입력값: %s)", c.RequestTimeout))
	}
	if c.RateLimit.Enabled {
		if err := checkStruct(v, &c.RateLimit, "요청 속도 제한"); err != nil {
			return err
		}
	}
	return c.CORS.validate(v)
}

// EffectiveImportSecret 일괄 가져오기 인증에 실제로 사용할 토큰을 반환합니다.
func (c *APIConfig) EffectiveImportSecret() string {
	if c.ImportSecret != "" {
		return c.ImportSecret
	}
	return c.SyncSecret
}

// VerifyRecommendations API 설정의 권장 사항 위반 여부를 반환합니다.
func (c *APIConfig) VerifyRecommendations() []string {
	var warnings []string
	if c.ListenPort > 0 && c.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023) 사용이 감지되었습니다(listen_port: %d). 관리자 권한이 필요할 수 있습니다", c.ListenPort))
	}
	if c.ImportSecret == "" {
		warnings = append(warnings, "일괄 가져오기 토큰(import_secret)이 비어 있어 동기화 토큰(sync_secret)을 함께 사용합니다")
	}
	if c.AdminSecret != "" && (c.AdminSecret == c.SyncSecret || c.AdminSecret == c.ImportSecret) {
		warnings = append(warnings, "관리자 비밀 값(admin_secret)이 동기화/가져오기 토큰과 동일합니다")
	}
	if slices.Contains(c.CORS.AllowOrigins, "*") {
		warnings = append(warnings, "CORS 설정이 모든 출처('*')를 허용합니다")
	}
	return warnings
}

// CORSConfig CORS 허용 출처 설정
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"required,min=1,dive,cors_origin"`
}

func (c *CORSConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c, "CORS"); err != nil {
		return err
	}
	if len(c.AllowOrigins) > 1 && slices.Contains(c.AllowOrigins, "*") {
		return apperrors.New(apperrors.InvalidInput, "CORS 와일드카드('*')는 다른 Origin과 함께 사용할 수 없습니다")
	}
	if err := v.Var(c.AllowOrigins, "unique"); err != nil {
		return apperrors.New(apperrors.InvalidInput, "CORS 허용 출처(allow_origins)에 중복된 값이 존재합니다")
	}
	return nil
}
