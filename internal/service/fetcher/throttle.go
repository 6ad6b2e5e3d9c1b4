package fetcher

import (
	"net/http"

	"github.com/darkkaiser/nordexplore/pkg/throttle"
)

// ThrottleFetcher 요청을 보내기 전에 게이트를 통과하도록 하여 업스트림 호출 간격을 제한하는 미들웨어입니다.
// 게이트 대기 중 Context가 취소되면 요청을 보내지 않고 Context 에러를 반환합니다.
type ThrottleFetcher struct {
	delegate Fetcher
	gate     throttle.Gate
}

var _ Fetcher = (*ThrottleFetcher)(nil)

// NewThrottleFetcher 새로운 ThrottleFetcher 인스턴스를 생성합니다. gate가 nil이면 delegate를 그대로 반환합니다.
func NewThrottleFetcher(delegate Fetcher, gate throttle.Gate) Fetcher {
	if gate == nil {
		return delegate
	}
	return &ThrottleFetcher{
		delegate: delegate,
		gate:     gate,
	}
}

func (f *ThrottleFetcher) Do(req *http.Request) (*http.Response, error) {
	if err := f.gate.Wait(req.Context()); err != nil {
		return nil, err
	}
	return f.delegate.Do(req)
}
