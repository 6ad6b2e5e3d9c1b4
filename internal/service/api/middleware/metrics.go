package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// RequestObserver HTTP 요청 처리 결과를 지표로 기록합니다.
type RequestObserver interface {
	ObserveHTTPRequest(method, route string, status int, elapsed time.Duration)
}

// unmatchedRoute 등록되지 않은 경로의 요청을 하나의 라벨로 모읍니다. 임의 경로로 라벨 수가 늘어나는 것을 막습니다.
const unmatchedRoute = "unmatched"

// Metrics 요청마다 메서드, 라우트 패턴, 최종 상태 코드, 처리 시간을 기록하는 미들웨어를 반환합니다.
// HTTPLogger 안쪽에 두면 에러 응답의 상태 코드가 확정된 뒤에 기록됩니다.
func Metrics(observer RequestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = unmatchedRoute
			}
			observer.ObserveHTTPRequest(c.Request().Method, route, c.Response().Status, time.Since(start))

			return nil
		}
	}
}
