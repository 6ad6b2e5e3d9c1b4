// Package middleware API 서버의 Echo 미들웨어를 제공합니다.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/darkkaiser/nordexplore/internal/service/api/constants"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
	"github.com/labstack/echo/v4"
)

// stackBufferSize panic 발생 시 스택 트레이스를 저장할 버퍼 크기 (4KB)
const stackBufferSize = 4 << 10

// PanicRecovery 핸들러에서 발생한 panic을 복구하여 스택 트레이스와 함께 기록하고 500 응답으로 변환합니다.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (returnErr error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				err, ok := r.(error)
				// http.ErrAbortHandler는 의도된 중단이므로 다시 panic을 전파합니다.
				if ok && errors.Is(err, http.ErrAbortHandler) {
					panic(r)
				}
				if !ok {
					err = apperrors.New(apperrors.Internal, fmt.Sprintf("%v", r))
				}

				stack := make([]byte, stackBufferSize)
				length := runtime.Stack(stack, false)

				fields := applog.Fields{
					"error":  err,
					"stack":  string(stack[:length]),
					"path":   c.Request().URL.Path,
					"method": c.Request().Method,
				}
				if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
					fields["request_id"] = requestID
				}
				applog.WithComponentAndFields(constants.ComponentMiddleware, fields).Error("PANIC RECOVERED")

				returnErr = apperrors.Wrap(err, apperrors.Internal, "요청 처리 중 예기치 않은 오류가 발생했습니다")
			}()
			return next(c)
		}
	}
}
