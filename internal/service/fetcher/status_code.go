package fetcher

import (
	"net/http"
)

// StatusCodeFetcher 응답 상태 코드를 검증하는 미들웨어입니다.
// 허용되지 않은 상태 코드는 HTTPStatusError로 변환하고, 응답 본문을 정리하여 커넥션을 반환합니다.
type StatusCodeFetcher struct {
	delegate Fetcher

	// allowedStatusCodes 비어 있으면 2xx 전체를 허용합니다.
	allowedStatusCodes []int
}

var _ Fetcher = (*StatusCodeFetcher)(nil)

// NewStatusCodeFetcher 새로운 StatusCodeFetcher 인스턴스를 생성합니다.
func NewStatusCodeFetcher(delegate Fetcher, allowedStatusCodes ...int) *StatusCodeFetcher {
	return &StatusCodeFetcher{
		delegate:           delegate,
		allowedStatusCodes: allowedStatusCodes,
	}
}

// Do 요청을 수행하고 응답 상태 코드를 검증합니다.
// 에러를 반환하는 경우 응답 본문은 이미 정리된 상태이므로 호출자가 닫을 필요가 없습니다.
func (f *StatusCodeFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err
	}

	if statusErr := CheckResponseStatus(resp, f.allowedStatusCodes...); statusErr != nil {
		drainAndCloseBody(resp.Body)
		return nil, statusErr
	}

	return resp, nil
}
