// Package rates 표시 가격 환산에 사용하는 환율 조회 엔드포인트를 제공합니다.
package rates

import (
	"context"
	"net/http"

	"github.com/darkkaiser/nordexplore/internal/service/api/constants"
	"github.com/darkkaiser/nordexplore/internal/service/api/httputil"
	"github.com/darkkaiser/nordexplore/internal/service/currency"
	"github.com/labstack/echo/v4"
)

// DefaultBase base 파라미터를 생략했을 때 사용하는 기준 통화
const DefaultBase = "USD"

// Provider 기준 통화에 대한 환율을 제공합니다.
type Provider interface {
	Rates(ctx context.Context, base string) (*currency.Rates, error)
}

// Handler /rates 핸들러
type Handler struct {
	provider Provider
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(provider Provider) *Handler {
	if provider == nil {
		panic("Provider는 필수입니다")
	}

	return &Handler{provider: provider}
}

// RatesHandler godoc
// @Summary 환율 조회
// @Description 기준 통화 1단위에 대한 환율을 반환합니다. source는 live, cache, fallback 중 하나입니다.
// @Tags Rates
// @Produce json
// @Param base query string false "기준 통화 (기본값: USD)"
// @Success 200 {object} currency.Rates
// @Failure 400 {object} response.ErrorResponse
// @Router /rates [get]
func (h *Handler) RatesHandler(c echo.Context) error {
	base := currency.NormalizeCode(c.QueryParam("base"))
	if base == "" {
		base = DefaultBase
	}

	r, err := h.provider.Rates(c.Request().Context(), base)
	if err != nil {
		if httputil.StatusCode(err) == http.StatusBadRequest {
			return httputil.NewBadRequestError(constants.ErrMsgInvalidCurrency + ": " + base)
		}
		return err
	}

	return c.JSON(http.StatusOK, r)
}
