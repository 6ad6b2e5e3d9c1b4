package fetcher

import (
	"fmt"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
)

var (
	// ErrMaxRetriesExceeded 최대 재시도 횟수를 모두 소진했을 때 반환됩니다.
	ErrMaxRetriesExceeded = apperrors.New(apperrors.Unavailable, "최대 재시도 횟수를 초과하였습니다")
)

func newErrRequestCreationFailed(err error, url string) error {
	return apperrors.Wrapf(err, apperrors.Internal, "HTTP 요청 생성에 실패했습니다 (URL: %s)", url)
}

func newErrReadResponseBodyFailed(err error, url string) error {
	if apperrors.Is(err, apperrors.InvalidInput) {
		return err
	}
	return apperrors.Wrapf(err, apperrors.Unavailable, "응답 본문을 읽는 중 에러가 발생했습니다 (URL: %s)", url)
}

func newErrMaxRetriesExceeded(cause error) error {
	return apperrors.Wrap(cause, apperrors.Unavailable, ErrMaxRetriesExceeded.Error())
}

func newErrRetryAfterExceeded(retryAfter, maxDelay string) error {
	return apperrors.New(apperrors.Unavailable, fmt.Sprintf("서버가 요구한 대기 시간(%s)이 최대 재시도 대기 시간(%s)을 초과하여 재시도를 중단합니다", retryAfter, maxDelay))
}

// NewErrResponseBodyTooLarge 응답 본문이 크기 제한을 초과했을 때의 에러를 생성합니다.
func NewErrResponseBodyTooLarge(limit int64) error {
	return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("응답 본문 크기가 제한(%d 바이트)을 초과하였습니다", limit))
}

func newErrResponseBodyTooLargeByContentLength(contentLength, limit int64) error {
	return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("응답 본문 크기(Content-Length: %d 바이트)가 제한(%d 바이트)을 초과하였습니다", contentLength, limit))
}
