// Package httputil 표준 에러 응답과 에러 타입별 HTTP 상태 코드 변환을 제공합니다.
package httputil

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/darkkaiser/nordexplore/internal/service/api/constants"
	"github.com/darkkaiser/nordexplore/internal/service/api/model/response"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
	"github.com/labstack/echo/v4"
)

// ErrorHandler Echo 프레임워크의 전역 에러 핸들러입니다.
//
// echo.HTTPError는 그대로, AppError는 StatusCode 규칙에 따라 변환하여 표준 ErrorResponse JSON으로 응답합니다.
// 5xx는 Error, 4xx는 Warn 레벨로 기록합니다.
func ErrorHandler(err error, c echo.Context) {
	code, message := resolve(err)

	fields := applog.Fields{
		"path":        c.Request().URL.Path,
		"method":      c.Request().Method,
		"status_code": code,
		"error":       err,
		"remote_ip":   c.RealIP(),
		"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
	}
	if code >= http.StatusInternalServerError {
		applog.WithComponentAndFields(constants.ComponentErrorHandler, fields).Error("HTTP 5xx 서버 오류")
	} else if code >= http.StatusBadRequest {
		applog.WithComponentAndFields(constants.ComponentErrorHandler, fields).Warn("HTTP 4xx 클라이언트 오류")
	}

	// 이미 응답이 전송된 경우(스트리밍 등) 추가 응답을 시도하지 않습니다.
	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	_ = c.JSON(code, response.ErrorResponse{
		ResultCode: code,
		Message:    message,
	})
}

// resolve 에러를 HTTP 상태 코드와 클라이언트용 메시지로 변환합니다.
func resolve(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := he.Code
		switch msg := he.Message.(type) {
		case response.ErrorResponse:
			return code, msg.Message
		case string:
			if code == http.StatusNotFound {
				return code, constants.ErrMsgNotFound
			}
			if code == http.StatusRequestEntityTooLarge {
				return code, constants.ErrMsgRequestEntityTooLarge
			}
			return code, msg
		}
		return code, http.StatusText(code)
	}

	// 500은 내부 정보를 노출하지 않도록 고정 메시지를 사용합니다.
	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		return code, constants.ErrMsgInternalServer
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return code, appErr.Message()
	}
	if code == http.StatusGatewayTimeout {
		return code, constants.ErrMsgGatewayTimeout
	}
	return code, http.StatusText(code)
}

// StatusCode 에러 체인의 가장 바깥쪽 AppError 분류를 HTTP 상태 코드로 변환합니다.
//
// 바깥쪽 분류를 기준으로 합니다. 예를 들어 변경 피드 조회 실패는 내부 원인이 401이더라도
// 오케스트레이터가 Unavailable로 분류하므로 502가 됩니다. 업스트림 타임아웃도 마찬가지입니다.
// 분류되지 않은 에러만 context.DeadlineExceeded 여부로 504를 판단합니다.
func StatusCode(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.Unknown:
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusInternalServerError
	case apperrors.InvalidInput, apperrors.ParsingFailed:
		return http.StatusBadRequest
	case apperrors.Unauthorized:
		return http.StatusUnauthorized
	case apperrors.Forbidden:
		return http.StatusForbidden
	case apperrors.NotFound:
		return http.StatusNotFound
	case apperrors.Conflict:
		return http.StatusConflict
	case apperrors.Unavailable, apperrors.ExecutionFailed:
		return http.StatusBadGateway
	case apperrors.Timeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
