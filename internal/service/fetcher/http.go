package fetcher

import (
	"net"
	"net/http"
	"time"

	"github.com/darkkaiser/nordexplore/internal/pkg/version"
)

const (
	// defaultTimeout 요청 하나에 허용하는 기본 제한 시간입니다.
	defaultTimeout = 30 * time.Second

	defaultMaxIdleConnsPerHost = 10
)

// HTTPFetcher 표준 http.Client를 감싼 체인의 가장 안쪽 단계입니다.
// 요청에 User-Agent가 없으면 서비스 식별 문자열을 추가합니다.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher 새로운 HTTPFetcher 인스턴스를 생성합니다. timeout이 0 이하이면 30초를 사용합니다.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: version.Get().UserAgent(),
	}
}

// NewHTTPFetcherWithClient 주어진 http.Client를 사용하는 HTTPFetcher를 생성합니다. 주로 테스트에서 사용합니다.
func NewHTTPFetcherWithClient(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{
		client:    client,
		userAgent: version.Get().UserAgent(),
	}
}

// Do 요청을 실행합니다.
func (h *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", h.userAgent)
	}
	return h.client.Do(req)
}

// Close 유휴 커넥션을 정리합니다.
func (h *HTTPFetcher) Close() {
	h.client.CloseIdleConnections()
}
