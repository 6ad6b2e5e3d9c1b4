// Package jobs 증분 동기화와 일괄 가져오기를 외부에서 실행하는 엔드포인트를 제공합니다.
package jobs

import (
	"context"
	"net/http"
	"time"

	"github.com/darkkaiser/nordexplore/internal/service/api/constants"
	"github.com/darkkaiser/nordexplore/internal/service/api/httputil"
	"github.com/darkkaiser/nordexplore/internal/service/api/model/request"
	catalogsync "github.com/darkkaiser/nordexplore/internal/service/catalog/sync"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
	"github.com/labstack/echo/v4"
)

// Runner 동기화 작업을 실행합니다.
type Runner interface {
	IncrementalSync(ctx context.Context) (*catalogsync.SyncResult, error)
	BulkImport(ctx context.Context, opts catalogsync.ImportOptions) (*catalogsync.ImportResult, error)
}

// Handler /sync, /import 핸들러
type Handler struct {
	runner  Runner
	timeout time.Duration
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(runner Runner, timeout time.Duration) *Handler {
	if runner == nil {
		panic("Runner는 필수입니다")
	}
	if timeout <= 0 {
		timeout = constants.DefaultBatchTimeout
	}

	return &Handler{runner: runner, timeout: timeout}
}

// SyncHandler godoc
// @Summary 증분 동기화 실행
// @Description 최근 수정된 Viator 상품을 조회하여 로컬 레코드를 갱신합니다.
// @Description 이미 실행 중이면 409, 변경 피드 조회에 실패하면 502를 반환합니다.
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} catalogsync.SyncResult
// @Failure 401 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /sync [post]
func (h *Handler) SyncHandler(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), h.timeout)
	defer cancel()

	result, err := h.runner.IncrementalSync(ctx)
	if err != nil {
		return err
	}

	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"run_id":   result.RunID,
		"checked":  result.Checked,
		"modified": result.Modified,
		"updated":  result.Updated,
		"errors":   len(result.Errors),
	}).Info("외부 요청에 의한 증분 동기화 완료")

	return c.JSON(http.StatusOK, result)
}

// ImportHandler godoc
// @Summary 일괄 가져오기 실행
// @Description 북유럽 5개국의 상품을 수집하여 저장합니다. 본문은 생략할 수 있습니다.
// @Tags Jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.ImportRequest false "가져오기 옵션"
// @Success 200 {object} catalogsync.ImportResult
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /import [post]
func (h *Handler) ImportHandler(c echo.Context) error {
	var body request.ImportRequest
	if err := c.Bind(&body); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}
	if body.MaxPerCountry < 0 {
		return httputil.NewBadRequestError("maxPerCountry는 0 이상이어야 합니다")
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), h.timeout)
	defer cancel()

	result, err := h.runner.BulkImport(ctx, catalogsync.ImportOptions{
		MaxPerCountry: body.MaxPerCountry,
		ClearExisting: body.ClearExisting,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
