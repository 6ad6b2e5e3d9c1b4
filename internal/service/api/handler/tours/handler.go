// Package tours 관리자용 투어 목록 조회, 추가, 삭제, 갱신 엔드포인트를 제공합니다.
package tours

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/darkkaiser/nordexplore/internal/service/api/constants"
	"github.com/darkkaiser/nordexplore/internal/service/api/httputil"
	"github.com/darkkaiser/nordexplore/internal/service/api/model/request"
	"github.com/darkkaiser/nordexplore/internal/service/api/model/response"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/repository"
	catalogsync "github.com/darkkaiser/nordexplore/internal/service/catalog/sync"
	"github.com/darkkaiser/nordexplore/internal/service/currency"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
	"github.com/labstack/echo/v4"
)

// Catalog 투어 추가/삭제/갱신을 수행하는 동기화 오케스트레이터입니다.
type Catalog interface {
	AddByCodes(ctx context.Context, codes []string) (*catalogsync.AddResult, error)
	DeleteByCodes(ctx context.Context, codes []string) (*catalogsync.DeleteResult, error)
	Refresh(ctx context.Context, req catalogsync.RefreshRequest, progress catalogsync.ProgressFunc) (*catalogsync.RefreshResult, error)
}

// Store 목록 조회에 사용하는 저장소 기능입니다.
type Store interface {
	Find(ctx context.Context, filter repository.Filter, opts repository.ListOptions) ([]*model.Experience, error)
	Count(ctx context.Context, filter repository.Filter) (int64, error)
}

// Converter 가격을 다른 통화로 환산합니다.
type Converter interface {
	Supports(ctx context.Context, code string) error
	Convert(ctx context.Context, amount float64, from, to string) (float64, currency.Source, error)
}

// Handler /admin/tours 엔드포인트 핸들러
type Handler struct {
	catalog   Catalog
	store     Store
	converter Converter

	// batchTimeout 클라이언트 연결과 분리되어 실행되는 배치 작업의 최대 처리 시간
	batchTimeout time.Duration
}

// NewHandler Handler 인스턴스를 생성합니다. converter가 nil이면 currency 파라미터를 지원하지 않습니다.
func NewHandler(catalog Catalog, store Store, converter Converter, batchTimeout time.Duration) *Handler {
	if catalog == nil {
		panic("Catalog는 필수입니다")
	}
	if store == nil {
		panic("Store는 필수입니다")
	}
	if batchTimeout <= 0 {
		batchTimeout = constants.DefaultBatchTimeout
	}

	return &Handler{
		catalog:      catalog,
		store:        store,
		converter:    converter,
		batchTimeout: batchTimeout,
	}
}

// detached 클라이언트가 연결을 끊어도 배치 작업이 끝까지 진행되도록 요청 취소와 분리된 컨텍스트를 만듭니다.
func (h *Handler) detached(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(c.Request().Context()), h.batchTimeout)
}

// ListHandler godoc
// @Summary 투어 목록 조회
// @Description 로컬에 저장된 Viator 투어를 검색/정렬/페이지 단위로 조회합니다.
// @Description currency를 지정하면 각 항목에 환산 가격(displayPrice)이 포함됩니다.
// @Tags Admin
// @Produce json
// @Security AdminSecret
// @Param page query int false "페이지 (1부터)"
// @Param limit query int false "페이지 크기 (최대 100)"
// @Param search query string false "제목/설명/도시 검색어"
// @Param sortBy query string false "정렬 기준 (title, priceFrom, averageRating, totalReviews, createdAt, updatedAt, country)"
// @Param sortOrder query string false "정렬 방향 (asc, desc)"
// @Param country query string false "국가 (Norway, Iceland, Sweden, Finland, Denmark)"
// @Param currency query string false "환산 통화 (예: EUR)"
// @Success 200 {object} response.ToursPage
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /admin/tours [get]
func (h *Handler) ListHandler(c echo.Context) error {
	var q request.ListToursQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequest)
	}

	filter := repository.Filter{
		Partner: model.PartnerViator,
		Search:  strings.TrimSpace(q.Search),
	}
	if q.Country != "" {
		country, ok := model.ParseCountry(q.Country)
		if !ok {
			return httputil.NewBadRequestError("지원하지 않는 국가입니다: " + q.Country)
		}
		filter.Country = country.DisplayName()
	}

	if q.Limit <= 0 {
		q.Limit = repository.DefaultLimit
	}
	opts := repository.ListOptions{
		Page:      q.Page,
		Limit:     q.Limit,
		SortBy:    q.SortBy,
		SortOrder: repository.SortOrder(q.SortOrder),
	}.Normalize()

	ctx := c.Request().Context()

	targetCurrency := currency.NormalizeCode(q.Currency)
	if targetCurrency != "" {
		if h.converter == nil {
			return httputil.NewBadRequestError("환율 환산 기능이 비활성화되어 있습니다")
		}
		if err := h.converter.Supports(ctx, targetCurrency); err != nil {
			return httputil.NewBadRequestError(constants.ErrMsgInvalidCurrency + ": " + q.Currency)
		}
	}

	total, err := h.store.Count(ctx, filter)
	if err != nil {
		return err
	}
	records, err := h.store.Find(ctx, filter, opts)
	if err != nil {
		return err
	}

	page := response.ToursPage{
		Items:      make([]response.TourItem, 0, len(records)),
		Page:       opts.Page,
		Limit:      opts.Limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(opts.Limit))),
	}

	for _, e := range records {
		item := response.TourItem{Experience: e}
		if targetCurrency != "" {
			converted, source, err := h.converter.Convert(ctx, float64(e.PriceFrom), e.Currency, targetCurrency)
			if err != nil {
				applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
					"slug":  e.Slug,
					"from":  e.Currency,
					"to":    targetCurrency,
					"error": err,
				}).Debug("가격 환산 실패: 환산 가격 없이 응답합니다")
			} else {
				item.DisplayPrice = &converted
				item.DisplayCurrency = targetCurrency
				if source != "" {
					page.RateSource = string(source)
				}
			}
		}
		page.Items = append(page.Items, item)
	}

	return c.JSON(http.StatusOK, page)
}

// AddHandler godoc
// @Summary 상품 코드로 투어 추가
// @Description Viator 상품 코드 목록을 받아 상세 정보를 조회하고 정규화하여 저장합니다.
// @Description 이미 존재하거나 같은 요청 안에서 중복된 코드는 skipped, 검증에 실패한 코드는 failed에 사유와 함께 기록됩니다.
// @Tags Admin
// @Accept json
// @Produce json
// @Security AdminSecret
// @Param request body request.ProductCodesRequest true "상품 코드 목록"
// @Success 200 {object} catalogsync.AddResult
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /admin/tours [post]
func (h *Handler) AddHandler(c echo.Context) error {
	codes, err := bindProductCodes(c)
	if err != nil {
		return err
	}

	ctx, cancel := h.detached(c)
	defer cancel()

	result, err := h.catalog.AddByCodes(ctx, codes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// DeleteHandler godoc
// @Summary 상품 코드로 투어 삭제
// @Description 상품 코드에 해당하는 로컬 레코드를 삭제합니다. 없는 코드는 notFound에 기록됩니다.
// @Tags Admin
// @Accept json
// @Produce json
// @Security AdminSecret
// @Param request body request.ProductCodesRequest true "상품 코드 목록"
// @Success 200 {object} catalogsync.DeleteResult
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /admin/tours [delete]
func (h *Handler) DeleteHandler(c echo.Context) error {
	codes, err := bindProductCodes(c)
	if err != nil {
		return err
	}

	ctx, cancel := h.detached(c)
	defer cancel()

	result, err := h.catalog.DeleteByCodes(ctx, codes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// RefreshHandler godoc
// @Summary 투어 갱신
// @Description 지정한 상품(또는 refreshAll=true이면 전체)의 최신 상세 정보를 반영합니다.
// @Description 판매 중단된 상품은 삭제되어 removed에 기록됩니다. 평점과 리뷰 수는 함께 갱신되며, 슬러그, 국가, 카테고리는 유지됩니다.
// @Description progress=stream이면 상태 전이를 NDJSON으로 스트리밍한 뒤 마지막 줄에 요약을 보냅니다.
// @Tags Admin
// @Accept json
// @Produce json
// @Produce application/x-ndjson
// @Security AdminSecret
// @Param request body request.RefreshRequest true "갱신 대상"
// @Param progress query string false "stream이면 진행 상황을 스트리밍합니다"
// @Success 200 {object} catalogsync.RefreshResult
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /admin/tours [patch]
func (h *Handler) RefreshHandler(c echo.Context) error {
	var body request.RefreshRequest
	if err := c.Bind(&body); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}
	if !body.RefreshAll && len(nonBlank(body.ProductCodes)) == 0 {
		return httputil.NewBadRequestError(constants.ErrMsgRefreshTargetRequired)
	}

	req := catalogsync.RefreshRequest{Codes: nonBlank(body.ProductCodes), All: body.RefreshAll}

	ctx, cancel := h.detached(c)
	defer cancel()

	if c.QueryParam("progress") == "stream" {
		return h.streamRefresh(ctx, c, req)
	}

	result, err := h.catalog.Refresh(ctx, req, nil)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// bindProductCodes 요청 본문에서 비어 있지 않은 상품 코드 목록을 읽습니다.
func bindProductCodes(c echo.Context) ([]string, error) {
	var body request.ProductCodesRequest
	if err := c.Bind(&body); err != nil {
		return nil, httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	codes := nonBlank(body.ProductCodes)
	if len(codes) == 0 {
		return nil, httputil.NewBadRequestError(constants.ErrMsgProductCodesRequired)
	}
	return codes, nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
