// Package mocks fetcher 패키지를 사용하는 코드의 테스트를 위한 Mock 구현체를 제공합니다.
package mocks

import (
	"bytes"
	"io"
	"net/http"
	"sync"

	"github.com/darkkaiser/nordexplore/internal/service/fetcher"
	"github.com/stretchr/testify/mock"
)

var _ fetcher.Fetcher = (*MockFetcher)(nil)
var _ fetcher.Fetcher = (*StaticFetcher)(nil)

// MockFetcher testify/mock 기반 Fetcher 구현체입니다.
type MockFetcher struct {
	mock.Mock
}

// NewMockFetcher 새로운 MockFetcher 인스턴스를 생성합니다.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{}
}

func (m *MockFetcher) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)

	var resp *http.Response
	if v := args.Get(0); v != nil {
		resp = v.(*http.Response)
	}
	return resp, args.Error(1)
}

// StaticFetcher "METHOD URL" 키별로 고정 응답을 돌려주는 Fetcher입니다. 요청 기록을 남깁니다.
type StaticFetcher struct {
	mu        sync.Mutex
	responses map[string]staticResponse
	requests  []*http.Request
}

type staticResponse struct {
	status int
	body   []byte
	err    error
}

// NewStaticFetcher 새로운 StaticFetcher 인스턴스를 생성합니다.
func NewStaticFetcher() *StaticFetcher {
	return &StaticFetcher{responses: make(map[string]staticResponse)}
}

// SetResponse method와 url에 대한 응답을 설정합니다.
func (f *StaticFetcher) SetResponse(method, url string, status int, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method+" "+url] = staticResponse{status: status, body: body}
}

// SetError method와 url에 대한 에러를 설정합니다.
func (f *StaticFetcher) SetError(method, url string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method+" "+url] = staticResponse{err: err}
}

// Requests 지금까지 받은 요청 목록을 반환합니다.
func (f *StaticFetcher) Requests() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request(nil), f.requests...)
}

func (f *StaticFetcher) Do(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	r, ok := f.responses[req.Method+" "+req.URL.String()]
	f.mu.Unlock()

	if !ok {
		return NewResponse(http.StatusNotFound, nil, req), nil
	}
	if r.err != nil {
		return nil, r.err
	}
	return NewResponse(r.status, r.body, req), nil
}

// NewResponse 테스트용 응답 객체를 생성합니다.
func NewResponse(status int, body []byte, req *http.Request) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Status:        http.StatusText(status),
		Header:        make(http.Header),
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
