// Package config 애플리케이션 설정을 기본값, JSON 설정 파일, 환경 변수 순서로 병합하여 로드하고 검증합니다.
package config

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "nordexplore"

	// DefaultFilename 실행 인자로 경로가 주어지지 않았을 때 읽는 기본 설정 파일명입니다.
	DefaultFilename = AppName + ".json"

	// EnvPrefix 설정을 덮어쓰는 환경 변수의 접두사입니다.
	// 예: NORDEXPLORE_VIATOR__API_KEY -> viator.api_key
	EnvPrefix = "NORDEXPLORE_"
)

// AppConfig 애플리케이션의 모든 설정을 관장하는 최상위 루트 구조체
type AppConfig struct {
	Debug        bool               `json:"debug"`
	HTTPRetry    HTTPRetryConfig    `json:"http_retry"`
	Viator       ViatorConfig       `json:"viator"`
	Throttle     ThrottleConfig     `json:"throttle"`
	Storage      StorageConfig      `json:"storage"`
	Sync         SyncConfig         `json:"sync"`
	ExchangeRate ExchangeRateConfig `json:"exchange_rate"`
	API          APIConfig          `json:"api"`
}

// defaultValues 가장 낮은 우선순위로 적용되는 기본 설정값입니다.
func defaultValues() map[string]any {
	return map[string]any{
		"debug": true,

		"http_retry.max_retries": DefaultMaxRetries,
		"http_retry.retry_delay": DefaultRetryDelay,

		"viator.base_url":                DefaultViatorBaseURL,
		"viator.language":                DefaultViatorLanguage,
		"viator.currency":                DefaultViatorCurrency,
		"viator.timeout":                 DefaultViatorTimeout,
		"viator.affiliate_domain":        DefaultAffiliateDomain,
		"viator.max_requests_per_second": DefaultMaxRequestsPerSecond,

		"throttle.detail_interval": DefaultDetailInterval,
		"throttle.region_interval": DefaultRegionInterval,
		"throttle.item_interval":   DefaultItemInterval,

		"storage.driver":                StorageDriverMongo,
		"storage.mongo.database":        DefaultMongoDatabase,
		"storage.mongo.collection":      DefaultMongoCollection,
		"storage.mongo.connect_timeout": DefaultMongoConnectTimeout,

		"sync.enabled":         true,
		"sync.time_spec":       DefaultSyncTimeSpec,
		"sync.window":          DefaultSyncWindow,
		"sync.max_per_country": DefaultMaxPerCountry,

		"exchange_rate.enabled": true,
		"exchange_rate.url":     DefaultExchangeRateURL,
		"exchange_rate.ttl":     DefaultExchangeRateTTL,

		"api.listen_port":                 DefaultListenPort,
		"api.cors.allow_origins":          []string{"*"},
		"api.metrics_enabled":             true,
		"api.request_timeout":             DefaultRequestTimeout,
		"api.body_limit":                  DefaultBodyLimit,
		"api.rate_limit.enabled":          true,
		"api.rate_limit.requests_per_sec": DefaultRateLimitPerSecond,
		"api.rate_limit.burst":            DefaultRateLimitBurst,
	}
}

// newDefaultConfig 기본값만으로 구성된 설정 객체를 생성합니다.
func newDefaultConfig() *AppConfig {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaultValues(), "."), nil); err != nil {
		panic(fmt.Sprintf("기본 설정 로드에 실패했습니다: %v", err))
	}

	var cfg AppConfig
	if err := unmarshal(k, &cfg); err != nil {
		panic(fmt.Sprintf("기본 설정 변환에 실패했습니다: %v", err))
	}
	return &cfg
}

// normalizeEnvKey 환경 변수 이름을 koanf 키 경로로 변환합니다.
// 접두사를 제거하고 소문자로 바꾼 뒤, 이중 언더스코어(__)를 계층 구분자(.)로 바꿉니다.
func normalizeEnvKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// unmarshal koanf에 병합된 값을 구조체로 변환합니다.
// 구조체에 없는 키가 있으면 실패하며, "2s" 같은 문자열은 time.Duration으로 변환됩니다.
func unmarshal(k *koanf.Koanf, out *AppConfig) error {
	return k.UnmarshalWithConf("", out, koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           out,
			TagName:          "json",
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		},
	})
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	if err := k.Load(confmap.Provider(defaultValues(), "."), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위)
	if err := k.Load(env.Provider(EnvPrefix, ".", normalizeEnvKey), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링
	var appConfig AppConfig
	if err := unmarshal(k, &appConfig); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 유효성 검사
	if err := appConfig.validate(newValidator()); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}
