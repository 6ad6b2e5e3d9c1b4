// Package fetcher 업스트림 API 호출에 사용하는 HTTP 요청 파이프라인을 제공합니다.
//
// 요청 처리는 데코레이터 체인으로 구성됩니다.
//
//	Logging → Throttle → Retry → StatusCode → MaxBytes → HTTP
//
// 각 단계는 Fetcher 인터페이스를 구현하며, New 함수가 Config에 따라 체인을 조립합니다.
package fetcher

import (
	"context"
	"io"
	"net/http"
)

// component 로깅에 사용하는 컴포넌트 이름
const component = "fetcher"

// Fetcher HTTP 요청을 수행하는 인터페이스입니다.
//
// 구현 시 주의사항:
//   - 반환된 응답 객체의 Body는 반드시 호출자가 닫아야 합니다.
//   - 에러를 반환할 때는 응답 객체를 nil로 반환하고 Body를 내부에서 정리합니다.
//   - Context가 취소되면 즉시 요청을 중단해야 합니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// FetcherFunc 함수를 Fetcher로 사용할 수 있게 해주는 어댑터입니다.
type FetcherFunc func(req *http.Request) (*http.Response, error)

// Do f(req)를 호출합니다.
func (f FetcherFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Get 지정된 URL로 HTTP GET 요청을 전송하는 헬퍼 함수입니다.
func Get(ctx context.Context, f Fetcher, url string, header http.Header) (*http.Response, error) {
	return Send(ctx, f, http.MethodGet, url, header, nil)
}

// Send 요청을 생성하여 전송합니다. 요청 실패 시 응답 객체의 Body를 정리한 뒤 에러만 반환합니다.
func Send(ctx context.Context, f Fetcher, method, url string, header http.Header, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, newErrRequestCreationFailed(err, url)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := f.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err
	}

	return resp, nil
}

// ReadAll 요청을 전송하고 응답 본문 전체를 읽어 반환합니다.
func ReadAll(ctx context.Context, f Fetcher, method, url string, header http.Header, body io.Reader) ([]byte, error) {
	resp, err := Send(ctx, f, method, url, header, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newErrReadResponseBodyFailed(err, url)
	}

	return data, nil
}
