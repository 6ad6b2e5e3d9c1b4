package viator

import (
	"fmt"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/darkkaiser/nordexplore/internal/service/fetcher"
)

// UpstreamError 업스트림 카탈로그 API 호출 실패입니다.
// StatusCode는 HTTP 응답을 받지 못한 전송 오류일 때 0입니다.
type UpstreamError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
	Cause      error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("카탈로그 API 호출 실패 (%s)", e.Op)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" 상태 코드: %d", e.StatusCode)
	}
	if e.Body != "" {
		msg += fmt.Sprintf(", 응답: %s", e.Body)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// newUpstreamError fetcher 에러를 UpstreamError로 변환합니다.
// 원인 체인에 분류된 AppError가 없으면 Unavailable로 감싸서 HTTP 계층이 502로 응답할 수 있게 합니다.
func newUpstreamError(op, url string, err error) error {
	ue := &UpstreamError{Op: op, URL: url, Cause: err}

	var statusErr *fetcher.HTTPStatusError
	if apperrors.As(err, &statusErr) {
		ue.StatusCode = statusErr.StatusCode
		ue.Body = statusErr.BodySnippet
		ue.URL = statusErr.URL
	}

	if apperrors.UnderlyingType(err) == apperrors.Unknown {
		ue.Cause = apperrors.Wrap(err, apperrors.Unavailable, "카탈로그 API에 연결할 수 없습니다")
	}

	return ue
}

// IsUpstreamError err 체인에 UpstreamError가 있는지 확인합니다.
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return apperrors.As(err, &ue)
}

// ErrDestinationNotFound 지역에 해당하는 목적지를 찾지 못했습니다.
var ErrDestinationNotFound = apperrors.New(apperrors.NotFound, "지역에 해당하는 목적지를 찾을 수 없습니다")
