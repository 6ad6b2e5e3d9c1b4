package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/darkkaiser/nordexplore/internal/service/api/httputil"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/normalizer"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/repository"
	catalogsync "github.com/darkkaiser/nordexplore/internal/service/catalog/sync"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/viator"
	"github.com/darkkaiser/nordexplore/internal/service/fetcher"
	"github.com/darkkaiser/nordexplore/pkg/throttle"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	syncErr   error
	importErr error
	gotOpts   catalogsync.ImportOptions
}

func (f *fakeRunner) IncrementalSync(ctx context.Context) (*catalogsync.SyncResult, error) {
	if f.syncErr != nil {
		return nil, f.syncErr
	}
	return &catalogsync.SyncResult{RunID: "sync-1", Checked: 3, Modified: 2, Updated: 1, Duration: "1s"}, nil
}

func (f *fakeRunner) BulkImport(ctx context.Context, opts catalogsync.ImportOptions) (*catalogsync.ImportResult, error) {
	f.gotOpts = opts
	if f.importErr != nil {
		return nil, f.importErr
	}
	return &catalogsync.ImportResult{RunID: "import-1", Fetched: 10, Inserted: 8, Replaced: 2}, nil
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestNewHandler(t *testing.T) {
	assert.PanicsWithValue(t, "Runner는 필수입니다", func() { NewHandler(nil, time.Minute) })

	h := NewHandler(&fakeRunner{}, 0)
	assert.Greater(t, h.timeout, time.Duration(0))
}

func TestSyncHandler_Success(t *testing.T) {
	h := NewHandler(&fakeRunner{}, time.Minute)
	c, rec := newContext(http.MethodPost, "/sync", "")

	require.NoError(t, h.SyncHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var res catalogsync.SyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "sync-1", res.RunID)
	assert.Equal(t, 2, res.Modified)
}

func TestSyncHandler_ErrorStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"이미 실행 중", catalogsync.ErrSyncInProgress, http.StatusConflict},
		{"변경 피드 실패", apperrors.Wrap(apperrors.New(apperrors.Unauthorized, "invalid api key"), apperrors.Unavailable, "변경 피드 조회 실패"), http.StatusBadGateway},
		{"시간 초과", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"변경 피드 시간 초과", apperrors.Wrap(context.DeadlineExceeded, apperrors.Unavailable, "변경 피드 조회 실패"), http.StatusBadGateway},
		{"알 수 없는 에러", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHandler(&fakeRunner{syncErr: tt.err}, time.Minute)
			c, rec := newContext(http.MethodPost, "/sync", "")

			err := h.SyncHandler(c)
			require.Error(t, err)

			httputil.ErrorHandler(err, c)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestImportHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantOpts   catalogsync.ImportOptions
	}{
		{"본문 생략", "", http.StatusOK, catalogsync.ImportOptions{}},
		{"옵션 지정", `{"maxPerCountry":10,"clearExisting":true}`, http.StatusOK, catalogsync.ImportOptions{MaxPerCountry: 10, ClearExisting: true}},
		{"음수 제한", `{"maxPerCountry":-1}`, http.StatusBadRequest, catalogsync.ImportOptions{}},
		{"잘못된 JSON", `{"maxPerCountry":`, http.StatusBadRequest, catalogsync.ImportOptions{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runner := &fakeRunner{}
			h := NewHandler(runner, time.Minute)
			c, rec := newContext(http.MethodPost, "/import", tt.body)

			err := h.ImportHandler(c)
			if tt.wantStatus != http.StatusOK {
				var httpErr *echo.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, tt.wantStatus, httpErr.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantOpts, runner.gotOpts)

			var res catalogsync.ImportResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, "import-1", res.RunID)
		})
	}
}

func TestImportHandler_UpstreamFailure(t *testing.T) {
	h := NewHandler(&fakeRunner{importErr: apperrors.New(apperrors.Unavailable, "업스트림 응답 없음")}, time.Minute)
	c, rec := newContext(http.MethodPost, "/import", "")

	err := h.ImportHandler(c)
	require.Error(t, err)

	httputil.ErrorHandler(err, c)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSyncHandler_UpstreamTimeoutIsBadGateway(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(300 * time.Millisecond):
		}
	}))
	t.Cleanup(upstream.Close)

	repo := repository.NewMemoryRepository()
	require.NoError(t, repo.Insert(context.Background(), &model.Experience{
		Slug:             "aurora-hunt-123P4",
		ProductCode:      "123P4",
		Title:            "Aurora Hunt",
		AffiliatePartner: model.PartnerViator,
		IsActive:         true,
	}))

	client := viator.New(fetcher.New(fetcher.Config{Timeout: 50 * time.Millisecond}), viator.Config{BaseURL: upstream.URL, APIKey: "test-key"})
	svc := catalogsync.New(client, repo, normalizer.New(normalizer.Config{}), catalogsync.WithItemGate(throttle.Unlimited()))

	h := NewHandler(svc, time.Minute)
	c, rec := newContext(http.MethodPost, "/sync", "")

	err := h.SyncHandler(c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	httputil.ErrorHandler(err, c)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
