package tours

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/darkkaiser/nordexplore/internal/service/api/constants"
	catalogsync "github.com/darkkaiser/nordexplore/internal/service/catalog/sync"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
	"github.com/labstack/echo/v4"
)

// streamLine NDJSON 스트림의 한 줄입니다. 셋 중 하나만 채워집니다.
type streamLine struct {
	Event   *catalogsync.ProgressEvent `json:"event,omitempty"`
	Summary *catalogsync.RefreshResult `json:"summary,omitempty"`
	Error   string                     `json:"error,omitempty"`
}

// streamRefresh 갱신 상태 전이를 한 줄씩 전송하고 마지막 줄에 요약 또는 에러를 보냅니다.
//
// 응답 헤더를 먼저 보내므로 작업이 실패해도 상태 코드는 200이며, 실패는 마지막 줄의 error로 알립니다.
// 클라이언트가 연결을 끊어도 갱신은 끝까지 진행됩니다.
func (h *Handler) streamRefresh(ctx context.Context, c echo.Context, req catalogsync.RefreshRequest) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, constants.ContentTypeNDJSON)
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	enc := json.NewEncoder(res)
	writeLine := func(line streamLine) {
		if err := enc.Encode(line); err != nil {
			applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{"error": err}).Debug("진행 상황 스트림 쓰기 실패")
			return
		}
		res.Flush()
	}

	result, err := h.catalog.Refresh(ctx, req, func(ev catalogsync.ProgressEvent) {
		writeLine(streamLine{Event: &ev})
	})
	if err != nil {
		writeLine(streamLine{Error: err.Error()})
		return nil
	}

	writeLine(streamLine{Summary: result})
	return nil
}
