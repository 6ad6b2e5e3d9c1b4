// Package auth 관리자 엔드포인트의 공유 비밀 값 인증을 제공합니다.
package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/darkkaiser/nordexplore/internal/service/api/constants"
	"github.com/darkkaiser/nordexplore/internal/service/api/httputil"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// Scheme 인증 값을 읽어올 위치입니다.
type Scheme int

const (
	// SchemeAdminHeader X-Admin-Secret 헤더를 먼저 확인하고, 없으면 Authorization: Bearer를 확인합니다.
	SchemeAdminHeader Scheme = iota

	// SchemeBearer Authorization: Bearer 헤더만 확인합니다.
	SchemeBearer
)

// RequireSecret 요청이 secret과 일치하는 값을 제시해야 통과하는 미들웨어를 반환합니다.
//
// 비교는 상수 시간으로 수행합니다. 서버 측 secret이 비어 있으면 모든 요청을 거부합니다.
// 인증 실패는 업스트림 호출이나 저장소 작업 전에 401로 응답합니다.
func RequireSecret(name, secret string, scheme Scheme) echo.MiddlewareFunc {
	expected := []byte(secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			presented := extract(c, scheme)

			if len(expected) == 0 || presented == "" || subtle.ConstantTimeCompare([]byte(presented), expected) != 1 {
				applog.WithComponentAndFields(constants.ComponentAuth, applog.Fields{
					"realm":      name,
					"path":       c.Request().URL.Path,
					"method":     c.Request().Method,
					"remote_ip":  c.RealIP(),
					"has_secret": presented != "",
					"configured": len(expected) > 0,
				}).Warn("인증 실패: 비밀 값이 일치하지 않습니다")

				return httputil.NewUnauthorizedError(constants.ErrMsgUnauthorized)
			}

			return next(c)
		}
	}
}

// extract 요청 헤더에서 인증 값을 꺼냅니다.
func extract(c echo.Context, scheme Scheme) string {
	h := c.Request().Header

	if scheme == SchemeAdminHeader {
		if v := strings.TrimSpace(h.Get(constants.HeaderAdminSecret)); v != "" {
			return v
		}
	}

	authz := h.Get(echo.HeaderAuthorization)
	if len(authz) > len(bearerPrefix) && strings.EqualFold(authz[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(authz[len(bearerPrefix):])
	}
	return ""
}
