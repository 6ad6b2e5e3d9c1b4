package fetcher

import (
	"context"
	"crypto/x509"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
)

const (
	maxAllowedRetries    = 10
	minAllowedRetryDelay = time.Second
	defaultMaxRetryDelay = 30 * time.Second
)

// RetryFetcher 일시적인 업스트림 장애(네트워크 오류, 408/429, 일부 5xx)를 지수 백오프로 재시도합니다.
//
// 기본 설정(재시도 0회)에서는 아무것도 재시도하지 않습니다. 운영자가 http_retry.max_retries를
// 지정한 경우에만 GET 계열 조회가 재시도되며, 검색(POST)처럼 멱등하지 않은 요청은 항상 한 번만 보냅니다.
// Retry-After 헤더가 있으면 그 값을 따르고, 상한보다 길면 즉시 포기합니다.
type RetryFetcher struct {
	delegate Fetcher

	maxRetries int
	baseDelay  time.Duration
	capDelay   time.Duration
}

var _ Fetcher = (*RetryFetcher)(nil)

// NewRetryFetcher maxRetries는 [0, 10], minRetryDelay는 1초 이상, maxRetryDelay는 minRetryDelay 이상으로 보정됩니다.
// maxRetryDelay가 0이면 30초를 사용합니다.
func NewRetryFetcher(delegate Fetcher, maxRetries int, minRetryDelay, maxRetryDelay time.Duration) *RetryFetcher {
	base := max(minRetryDelay, minAllowedRetryDelay)
	if maxRetryDelay == 0 {
		maxRetryDelay = defaultMaxRetryDelay
	}

	return &RetryFetcher{
		delegate:   delegate,
		maxRetries: min(max(maxRetries, 0), maxAllowedRetries),
		baseDelay:  base,
		capDelay:   max(maxRetryDelay, base),
	}
}

// budget 요청 하나에 허용되는 재시도 횟수입니다.
func (f *RetryFetcher) budget(req *http.Request) int {
	if !isIdempotentMethod(req.Method) {
		return 0
	}
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return 0
	}
	return f.maxRetries
}

func (f *RetryFetcher) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	retries := f.budget(req)

	var lastErr error
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			var err error
			if req, err = f.prepareRetry(req, attempt, retries, lastErr); err != nil {
				return nil, err
			}
		}

		resp, err := f.delegate.Do(req)
		switch {
		case err == nil && (attempt == retries || !isRetriableStatus(resp.StatusCode)):
			return resp, nil
		case err == nil:
			err = CheckResponseStatus(resp)
			drainAndCloseBody(resp.Body)
		case resp != nil:
			drainAndCloseBody(resp.Body)
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isRetriable(err) {
			return nil, err
		}
		lastErr = err

		if attempt == retries {
			break
		}
	}

	if retries == 0 {
		return nil, lastErr
	}
	return nil, newErrMaxRetriesExceeded(lastErr)
}

// prepareRetry 백오프만큼 대기한 뒤 다시 보낼 요청을 돌려줍니다. 본문이 있으면 GetBody로 새로 만듭니다.
func (f *RetryFetcher) prepareRetry(req *http.Request, attempt, retries int, lastErr error) (*http.Request, error) {
	delay, err := f.backoff(attempt, lastErr)
	if err != nil {
		return nil, err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"url":         redactURL(req.URL),
		"retry":       attempt,
		"max_retries": retries,
		"delay":       delay.String(),
		"error":       lastErr.Error(),
	}).Warn("일시적 오류로 요청을 재시도합니다")

	if err := sleep(req.Context(), delay); err != nil {
		return nil, err
	}

	if req.GetBody == nil {
		return req, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "재시도를 위한 요청 본문 재생성에 실패했습니다")
	}
	next := req.Clone(req.Context())
	next.Body = body
	return next, nil
}

// backoff Retry-After가 있으면 그 값을, 없으면 full jitter를 적용한 지수 백오프 값을 반환합니다.
func (f *RetryFetcher) backoff(attempt int, lastErr error) (time.Duration, error) {
	var statusErr *HTTPStatusError
	if errors.As(lastErr, &statusErr) && statusErr.Header != nil {
		if d, ok := parseRetryAfter(statusErr.Header.Get("Retry-After")); ok {
			if d > f.capDelay {
				return 0, newErrRetryAfterExceeded(d.String(), f.capDelay.String())
			}
			return d, nil
		}
	}

	ceiling := min(f.baseDelay<<(attempt-1), f.capDelay)
	if d := time.Duration(rand.Int64N(int64(ceiling) + 1)); d >= time.Millisecond {
		return d, nil
	}
	return f.baseDelay, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isRetriableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	case http.StatusNotImplemented, http.StatusHTTPVersionNotSupported, http.StatusNetworkAuthenticationRequired:
		return false
	default:
		return code >= http.StatusInternalServerError
	}
}

// permanentURLErrors 재시도해도 결과가 바뀌지 않는 url.Error 메시지 조각입니다.
var permanentURLErrors = []string{"stopped after", "unsupported protocol scheme", "invalid control character"}

// permanentTypes 재시도 대상에서 제외하는 AppError 분류입니다.
var permanentTypes = []apperrors.ErrorType{
	apperrors.InvalidInput,
	apperrors.ExecutionFailed,
	apperrors.NotFound,
	apperrors.Forbidden,
	apperrors.Unauthorized,
}

func isRetriable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		msg := urlErr.Err.Error()
		for _, frag := range permanentURLErrors {
			if strings.Contains(msg, frag) {
				return false
			}
		}
	}

	if isCertificateError(err) {
		return false
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return isRetriableStatus(statusErr.StatusCode)
	}

	for _, t := range permanentTypes {
		if apperrors.Is(err, t) {
			return false
		}
	}
	return true
}

func isCertificateError(err error) bool {
	var (
		hostnameErr  x509.HostnameError
		authorityErr x509.UnknownAuthorityError
		invalidErr   x509.CertificateInvalidError
	)
	return errors.As(err, &hostnameErr) || errors.As(err, &authorityErr) || errors.As(err, &invalidErr)
}

func isIdempotentMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

// parseRetryAfter 초 단위 정수 또는 HTTP-date 형식을 해석합니다. 지난 시각은 0으로 취급합니다.
func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second, true
	}
	if date, err := http.ParseTime(value); err == nil {
		return max(time.Until(date), 0), true
	}
	return 0, false
}
