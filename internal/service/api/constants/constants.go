// Package constants API 서비스 전반에서 공유하는 상수를 정의합니다.
package constants

import "time"

// 로그 발생 위치(컴포넌트) 식별을 위한 상수입니다.
const (
	ComponentService      = "api.service"
	ComponentHandler      = "api.handler"
	ComponentMiddleware   = "api.middleware"
	ComponentAuth         = "api.middleware.auth"
	ComponentErrorHandler = "api.error_handler"
)

// HTTP 헤더 키 상수입니다.
const (
	// HeaderAdminSecret 관리자 엔드포인트 인증에 사용하는 공유 비밀 헤더입니다.
	HeaderAdminSecret = "X-Admin-Secret"

	// HeaderRetryAfter 429 응답 시 재시도 대기 시간을 알려주는 헤더입니다.
	HeaderRetryAfter = "Retry-After"

	// ContentTypeNDJSON 갱신 진행 상황 스트리밍 응답의 Content-Type입니다.
	ContentTypeNDJSON = "application/x-ndjson"
)

// 라우트 경로 상수입니다.
const (
	PathAdminTours = "/admin/tours"
	PathSync       = "/sync"
	PathImport     = "/import"
	PathRates      = "/rates"
	PathHealth     = "/health"
	PathVersion    = "/version"
	PathMetrics    = "/metrics"
	PathSwagger    = "/swagger/*"
)

// 서버 설정 기본값 상수입니다.
const (
	DefaultRequestTimeout = 30 * time.Second

	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultReadTimeout       = 30 * time.Second
	DefaultIdleTimeout       = 120 * time.Second

	// DefaultBatchTimeout 일괄 작업(가져오기, 전체 갱신, 동기화)에 허용하는 최대 처리 시간입니다.
	// 요청 타임아웃 미들웨어는 이 경로들에 적용되지 않습니다.
	DefaultBatchTimeout = 2 * time.Hour

	DefaultBodyLimit = "1M"

	DefaultRateLimitPerSecond = 5
	DefaultRateLimitBurst     = 20

	ShutdownTimeout = 10 * time.Second
)

// 헬스체크 상태 상수입니다.
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"

	DependencyRepository = "repository"
)

// 클라이언트에게 반환되는 에러 메시지 상수입니다.
const (
	ErrMsgBadRequest            = "잘못된 요청입니다"
	ErrMsgBadRequestInvalidBody = "요청 본문을 파싱할 수 없습니다. JSON 형식을 확인해주세요"
	ErrMsgProductCodesRequired  = "productCodes는 비어 있을 수 없습니다"
	ErrMsgRefreshTargetRequired = "productCodes 또는 refreshAll 중 하나를 지정해야 합니다"
	ErrMsgInvalidCurrency       = "지원하지 않는 통화 코드입니다"

	ErrMsgUnauthorized = "인증에 실패했습니다"

	ErrMsgNotFound              = "요청한 리소스를 찾을 수 없습니다"
	ErrMsgRequestEntityTooLarge = "요청 본문이 너무 큽니다"
	ErrMsgTooManyRequests       = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요"
	ErrMsgConflict              = "요청이 현재 상태와 충돌합니다"

	ErrMsgInternalServer = "내부 서버 오류가 발생했습니다"
	ErrMsgBadGateway     = "외부 카탈로그 서비스 호출에 실패했습니다"
	ErrMsgGatewayTimeout = "요청 처리 시간이 초과되었습니다"
)

// SensitiveQueryParams 로그에 남길 때 마스킹해야 할 쿼리 파라미터 목록입니다.
var SensitiveQueryParams = []string{
	"secret",
	"token",
	"api_key",
	"password",
}
