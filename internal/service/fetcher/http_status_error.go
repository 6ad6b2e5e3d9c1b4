package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
)

// maxBodySnippetBytes 에러에 포함할 응답 본문의 최대 크기 (4KB)
const maxBodySnippetBytes = 4 * 1024

// HTTPStatusError 허용되지 않은 상태 코드를 받았을 때의 구조화된 에러입니다.
//
// Cause에는 상태 코드에 따라 분류된 apperrors.AppError가 담기므로,
// 호출자는 apperrors.Is로 에러 종류를 판별하고 errors.As로 상태 코드를 확인할 수 있습니다.
//
//	var statusErr *fetcher.HTTPStatusError
//	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
//	    ...
//	}
type HTTPStatusError struct {
	StatusCode int
	Status     string

	// URL 민감한 쿼리 파라미터는 마스킹되어 있습니다.
	URL string

	// Header 민감한 헤더는 마스킹되어 있습니다.
	Header http.Header

	// BodySnippet 응답 본문의 앞부분(최대 4KB)입니다.
	BodySnippet string

	Cause error
}

func (e *HTTPStatusError) Error() string {
	msg := fmt.Sprintf("HTTP %d (%s)", e.StatusCode, e.Status)
	if e.URL != "" {
		msg += fmt.Sprintf(" URL: %s", e.URL)
	}
	if e.BodySnippet != "" {
		msg += fmt.Sprintf(", Body: %s", e.BodySnippet)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *HTTPStatusError) Unwrap() error {
	return e.Cause
}

// CheckResponseStatus 응답 상태 코드를 검증합니다.
// allowedStatusCodes가 비어 있으면 2xx 전체를 허용합니다.
// 실패 시 응답 본문의 앞부분을 읽어 에러에 포함하므로, 호출자는 에러를 받은 뒤 Body를 닫아야 합니다.
func CheckResponseStatus(resp *http.Response, allowedStatusCodes ...int) error {
	if isAllowedStatus(resp.StatusCode, allowedStatusCodes) {
		return nil
	}

	var snippet string
	if resp.Body != nil {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySnippetBytes))
		snippet = strings.TrimSpace(string(b))
	}

	var url string
	if resp.Request != nil {
		url = redactURL(resp.Request.URL)
	}

	return &HTTPStatusError{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		URL:         url,
		Header:      redactHeaders(resp.Header),
		BodySnippet: snippet,
		Cause:       apperrors.New(classifyStatus(resp.StatusCode), fmt.Sprintf("HTTP 요청이 실패했습니다 (상태 코드: %d)", resp.StatusCode)),
	}
}

func isAllowedStatus(code int, allowed []int) bool {
	if len(allowed) == 0 {
		return code >= 200 && code < 300
	}
	return slices.Contains(allowed, code)
}

// classifyStatus 상태 코드를 에러 종류로 분류합니다.
// 5xx와 429는 일시적 장애(Unavailable)이고 404는 NotFound입니다. 인증 관련 코드는 Unauthorized/Forbidden, 그 외는 ExecutionFailed입니다.
func classifyStatus(code int) apperrors.ErrorType {
	switch {
	case code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout:
		return apperrors.Unavailable
	case code == http.StatusNotFound:
		return apperrors.NotFound
	case code == http.StatusUnauthorized:
		return apperrors.Unauthorized
	case code == http.StatusForbidden:
		return apperrors.Forbidden
	default:
		return apperrors.ExecutionFailed
	}
}

// StatusCode err 체인에 HTTPStatusError가 있으면 그 상태 코드를 반환합니다.
func StatusCode(err error) (int, bool) {
	var statusErr *HTTPStatusError
	if apperrors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	return 0, false
}
