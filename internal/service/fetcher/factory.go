package fetcher

import (
	"time"

	"github.com/darkkaiser/nordexplore/pkg/throttle"
)

// Config Fetcher 체인 구성 옵션입니다.
type Config struct {
	// Timeout 요청 하나의 제한 시간입니다. 0 이하이면 30초를 사용합니다.
	Timeout time.Duration

	// MaxRetries 멱등 요청의 최대 재시도 횟수입니다. 기본값 0은 재시도하지 않습니다.
	MaxRetries int

	// MinRetryDelay, MaxRetryDelay 재시도 대기 시간(지수 백오프)의 범위입니다.
	MinRetryDelay time.Duration
	MaxRetryDelay time.Duration

	// MaxBytes 응답 본문 크기 제한입니다. 0이면 10MB, NoLimit이면 제한하지 않습니다.
	MaxBytes int64

	// AllowedStatusCodes 성공으로 간주할 상태 코드 목록입니다. 비어 있으면 2xx 전체를 허용합니다.
	AllowedStatusCodes []int

	// Gate 모든 요청이 통과해야 하는 호출 간격 게이트입니다. nil이면 제한하지 않습니다.
	Gate throttle.Gate
}

// New 설정에 따라 HTTP 전송 단계 위에 미들웨어 체인을 조립합니다.
//
//	Logging → Throttle → Retry → StatusCode → MaxBytes → HTTP
func New(cfg Config) Fetcher {
	return Wrap(NewHTTPFetcher(cfg.Timeout), cfg)
}

// Wrap 주어진 전송 단계 위에 미들웨어 체인을 조립합니다. 테스트에서 전송 단계를 교체할 때 사용합니다.
func Wrap(base Fetcher, cfg Config) Fetcher {
	var f Fetcher = base
	f = NewMaxBytesFetcher(f, cfg.MaxBytes)
	f = NewStatusCodeFetcher(f, cfg.AllowedStatusCodes...)
	if cfg.MaxRetries > 0 {
		f = NewRetryFetcher(f, cfg.MaxRetries, cfg.MinRetryDelay, cfg.MaxRetryDelay)
	}
	f = NewThrottleFetcher(f, cfg.Gate)
	f = NewLoggingFetcher(f)
	return f
}
