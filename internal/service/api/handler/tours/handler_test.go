package tours

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/darkkaiser/nordexplore/internal/service/api/constants"
	"github.com/darkkaiser/nordexplore/internal/service/api/model/response"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/repository"
	catalogsync "github.com/darkkaiser/nordexplore/internal/service/catalog/sync"
	"github.com/darkkaiser/nordexplore/internal/service/currency"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Doubles
// =============================================================================

type fakeCatalog struct {
	gotCodes   []string
	gotRefresh catalogsync.RefreshRequest
	ctxErr     error
	events     []catalogsync.ProgressEvent
	err        error
}

func (f *fakeCatalog) AddByCodes(ctx context.Context, codes []string) (*catalogsync.AddResult, error) {
	f.gotCodes = codes
	f.ctxErr = ctx.Err()
	if f.err != nil {
		return nil, f.err
	}
	res := &catalogsync.AddResult{RunID: "run-1"}
	for _, c := range codes {
		res.Added = append(res.Added, catalogsync.ItemResult{ProductCode: c})
	}
	return res, nil
}

func (f *fakeCatalog) DeleteByCodes(ctx context.Context, codes []string) (*catalogsync.DeleteResult, error) {
	f.gotCodes = codes
	if f.err != nil {
		return nil, f.err
	}
	return &catalogsync.DeleteResult{RunID: "run-2", NotFound: codes}, nil
}

func (f *fakeCatalog) Refresh(ctx context.Context, req catalogsync.RefreshRequest, progress catalogsync.ProgressFunc) (*catalogsync.RefreshResult, error) {
	f.gotRefresh = req
	if progress != nil {
		for _, ev := range f.events {
			progress(ev)
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &catalogsync.RefreshResult{
		RunID:   "run-3",
		Updated: []catalogsync.ItemResult{{ProductCode: "5010SYDNEY", Slug: "fjord-tour-5010sydney"}},
	}, nil
}

type fakeConverter struct {
	rates map[string]float64 // USD 기준
}

func (f fakeConverter) Supports(_ context.Context, code string) error {
	code = currency.NormalizeCode(code)
	if _, ok := f.rates[code]; !ok && code != "USD" {
		return currency.ErrUnsupportedCurrency
	}
	return nil
}

func (f fakeConverter) Convert(_ context.Context, amount float64, from, to string) (float64, currency.Source, error) {
	from, to = currency.NormalizeCode(from), currency.NormalizeCode(to)
	if from == to {
		return amount, "", nil
	}
	if from != "USD" {
		return 0, "", currency.ErrUnsupportedCurrency
	}
	return amount * f.rates[to], currency.SourceCache, nil
}

func seedRepository(t *testing.T) *repository.MemoryRepository {
	t.Helper()

	repo := repository.NewMemoryRepository()
	records := []*model.Experience{
		{Slug: "northern-lights-1001aa", ProductCode: "1001AA", Title: "Northern Lights Chase", Country: "Norway", PriceFrom: 120, Currency: "USD", AffiliatePartner: model.PartnerViator, IsActive: true},
		{Slug: "golden-circle-1002bb", ProductCode: "1002BB", Title: "Golden Circle Day Trip", Country: "Iceland", PriceFrom: 90, Currency: "USD", AffiliatePartner: model.PartnerViator, IsActive: true},
		{Slug: "fjord-cruise-1003cc", ProductCode: "1003CC", Title: "Fjord Cruise", Country: "Norway", PriceFrom: 75, Currency: "NOK", AffiliatePartner: model.PartnerViator, IsActive: true},
		{Slug: "city-walk-9999zz", ProductCode: "9999ZZ", Title: "City Walk", Country: "Norway", PriceFrom: 10, Currency: "USD", AffiliatePartner: "other", IsActive: true},
	}
	for _, r := range records {
		require.NoError(t, repo.Insert(context.Background(), r))
	}
	return repo
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func assertHTTPError(t *testing.T, err error, wantStatus int) {
	t.Helper()

	var httpErr *echo.HTTPError
	require.True(t, errors.As(err, &httpErr), "echo.HTTPError가 반환되어야 합니다: %v", err)
	assert.Equal(t, wantStatus, httpErr.Code)
}

// =============================================================================
// Constructor
// =============================================================================

func TestNewHandler_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "Catalog는 필수입니다", func() {
		NewHandler(nil, repository.NewMemoryRepository(), nil, time.Minute)
	})
	assert.PanicsWithValue(t, "Store는 필수입니다", func() {
		NewHandler(&fakeCatalog{}, nil, nil, time.Minute)
	})
}

func TestNewHandler_DefaultBatchTimeout(t *testing.T) {
	h := NewHandler(&fakeCatalog{}, repository.NewMemoryRepository(), nil, 0)
	assert.Equal(t, constants.DefaultBatchTimeout, h.batchTimeout)
}

// =============================================================================
// List
// =============================================================================

func TestListHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     string
		wantSlugs []string
		wantTotal int64
		wantPages int
		wantLimit int
	}{
		{
			name:      "기본 목록 (파트너 필터, 기본 정렬)",
			query:     "",
			wantSlugs: []string{"northern-lights-1001aa", "golden-circle-1002bb", "fjord-cruise-1003cc"},
			wantTotal: 3, wantPages: 1, wantLimit: repository.DefaultLimit,
		},
		{
			name:      "국가 필터 (대소문자 무시)",
			query:     "?country=norway&sortBy=title&sortOrder=asc",
			wantSlugs: []string{"fjord-cruise-1003cc", "northern-lights-1001aa"},
			wantTotal: 2, wantPages: 1, wantLimit: repository.DefaultLimit,
		},
		{
			name:      "검색어",
			query:     "?search=golden",
			wantSlugs: []string{"golden-circle-1002bb"},
			wantTotal: 1, wantPages: 1, wantLimit: repository.DefaultLimit,
		},
		{
			name:      "페이지 나누기",
			query:     "?limit=2&page=2&sortBy=priceFrom&sortOrder=desc",
			wantSlugs: []string{"fjord-cruise-1003cc"},
			wantTotal: 3, wantPages: 2, wantLimit: 2,
		},
		{
			name:      "최대 페이지 크기 제한",
			query:     "?limit=1000&sortBy=priceFrom&sortOrder=asc",
			wantSlugs: []string{"fjord-cruise-1003cc", "golden-circle-1002bb", "northern-lights-1001aa"},
			wantTotal: 3, wantPages: 1, wantLimit: repository.MaxLimit,
		},
	}

	repo := seedRepository(t)

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHandler(&fakeCatalog{}, repo, nil, time.Minute)
			c, rec := newContext(http.MethodGet, "/admin/tours"+tt.query, "")

			require.NoError(t, h.ListHandler(c))
			assert.Equal(t, http.StatusOK, rec.Code)

			var page response.ToursPage
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))

			slugs := make([]string, 0, len(page.Items))
			for _, it := range page.Items {
				slugs = append(slugs, it.Slug)
				assert.Nil(t, it.DisplayPrice)
			}
			if tt.name == "기본 목록 (파트너 필터, 기본 정렬)" {
				assert.ElementsMatch(t, tt.wantSlugs, slugs)
			} else {
				assert.Equal(t, tt.wantSlugs, slugs)
			}
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Equal(t, tt.wantLimit, page.Limit)
			assert.Empty(t, page.RateSource)
		})
	}
}

func TestListHandler_InvalidCountry(t *testing.T) {
	h := NewHandler(&fakeCatalog{}, seedRepository(t), nil, time.Minute)
	c, _ := newContext(http.MethodGet, "/admin/tours?country=Germany", "")

	assertHTTPError(t, h.ListHandler(c), http.StatusBadRequest)
}

func TestListHandler_InvalidQueryType(t *testing.T) {
	h := NewHandler(&fakeCatalog{}, seedRepository(t), nil, time.Minute)
	c, _ := newContext(http.MethodGet, "/admin/tours?page=abc", "")

	assertHTTPError(t, h.ListHandler(c), http.StatusBadRequest)
}

func TestListHandler_Currency(t *testing.T) {
	conv := fakeConverter{rates: map[string]float64{"EUR": 0.5, "NOK": 10}}
	h := NewHandler(&fakeCatalog{}, seedRepository(t), conv, time.Minute)

	c, rec := newContext(http.MethodGet, "/admin/tours?currency=eur&sortBy=priceFrom&sortOrder=desc", "")
	require.NoError(t, h.ListHandler(c))

	var page response.ToursPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Items, 3)

	// USD 상품은 환산되고, 환율 정보가 없는 NOK 상품은 환산 가격 없이 포함됩니다.
	assert.Equal(t, "northern-lights-1001aa", page.Items[0].Slug)
	require.NotNil(t, page.Items[0].DisplayPrice)
	assert.InDelta(t, 60.0, *page.Items[0].DisplayPrice, 0.001)
	assert.Equal(t, "EUR", page.Items[0].DisplayCurrency)

	assert.Equal(t, "fjord-cruise-1003cc", page.Items[2].Slug)
	assert.Nil(t, page.Items[2].DisplayPrice)
	assert.Empty(t, page.Items[2].DisplayCurrency)

	assert.Equal(t, string(currency.SourceCache), page.RateSource)
}

func TestListHandler_CurrencyErrors(t *testing.T) {
	t.Run("지원하지 않는 통화", func(t *testing.T) {
		h := NewHandler(&fakeCatalog{}, seedRepository(t), fakeConverter{rates: map[string]float64{"EUR": 0.5}}, time.Minute)
		c, _ := newContext(http.MethodGet, "/admin/tours?currency=XYZ", "")
		assertHTTPError(t, h.ListHandler(c), http.StatusBadRequest)
	})

	t.Run("실제 캐시에 없는 통화", func(t *testing.T) {
		cache := currency.NewCache(nil, nil, currency.Config{})
		h := NewHandler(&fakeCatalog{}, seedRepository(t), cache, time.Minute)
		c, _ := newContext(http.MethodGet, "/admin/tours?currency=XYZ", "")
		assertHTTPError(t, h.ListHandler(c), http.StatusBadRequest)
	})

	t.Run("환산 기능 비활성화", func(t *testing.T) {
		h := NewHandler(&fakeCatalog{}, seedRepository(t), nil, time.Minute)
		c, _ := newContext(http.MethodGet, "/admin/tours?currency=EUR", "")
		assertHTTPError(t, h.ListHandler(c), http.StatusBadRequest)
	})
}

// =============================================================================
// Add / Delete
// =============================================================================

func TestAddHandler(t *testing.T) {
	catalog := &fakeCatalog{}
	h := NewHandler(catalog, repository.NewMemoryRepository(), nil, time.Minute)

	c, rec := newContext(http.MethodPost, "/admin/tours", `{"productCodes":["1001AA"," ","1002BB"]}`)
	require.NoError(t, h.AddHandler(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"1001AA", "1002BB"}, catalog.gotCodes)
	assert.NoError(t, catalog.ctxErr)

	var res catalogsync.AddResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "run-1", res.RunID)
	assert.Len(t, res.Added, 2)
}

func TestAddHandler_ContinuesAfterClientDisconnect(t *testing.T) {
	catalog := &fakeCatalog{}
	h := NewHandler(catalog, repository.NewMemoryRepository(), nil, time.Minute)

	c, _ := newContext(http.MethodPost, "/admin/tours", `{"productCodes":["1001AA"]}`)
	ctx, cancel := context.WithCancel(c.Request().Context())
	cancel()
	c.SetRequest(c.Request().WithContext(ctx))

	require.NoError(t, h.AddHandler(c))
	assert.NoError(t, catalog.ctxErr, "요청 취소가 배치 작업으로 전파되면 안 됩니다")
}

func TestProductCodesHandlers_BadRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"빈 목록", `{"productCodes":[]}`},
		{"공백만 있는 코드", `{"productCodes":["  "]}`},
		{"필드 없음", `{}`},
		{"잘못된 JSON", `{"productCodes":`},
		{"잘못된 타입", `{"productCodes":"1001AA"}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			catalog := &fakeCatalog{}
			h := NewHandler(catalog, repository.NewMemoryRepository(), nil, time.Minute)

			c, _ := newContext(http.MethodPost, "/admin/tours", tt.body)
			assertHTTPError(t, h.AddHandler(c), http.StatusBadRequest)

			c, _ = newContext(http.MethodDelete, "/admin/tours", tt.body)
			assertHTTPError(t, h.DeleteHandler(c), http.StatusBadRequest)

			assert.Nil(t, catalog.gotCodes)
		})
	}
}

func TestDeleteHandler(t *testing.T) {
	catalog := &fakeCatalog{}
	h := NewHandler(catalog, repository.NewMemoryRepository(), nil, time.Minute)

	c, rec := newContext(http.MethodDelete, "/admin/tours", `{"productCodes":["404XX"]}`)
	require.NoError(t, h.DeleteHandler(c))

	var res catalogsync.DeleteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, []string{"404XX"}, res.NotFound)
}

func TestDeleteHandler_PropagatesError(t *testing.T) {
	boom := errors.New("storage down")
	h := NewHandler(&fakeCatalog{err: boom}, repository.NewMemoryRepository(), nil, time.Minute)

	c, _ := newContext(http.MethodDelete, "/admin/tours", `{"productCodes":["1001AA"]}`)
	assert.ErrorIs(t, h.DeleteHandler(c), boom)
}

// =============================================================================
// Refresh
// =============================================================================

func TestRefreshHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantReq    catalogsync.RefreshRequest
	}{
		{"상품 코드 지정", `{"productCodes":["5010SYDNEY"]}`, http.StatusOK, catalogsync.RefreshRequest{Codes: []string{"5010SYDNEY"}}},
		{"전체 갱신", `{"refreshAll":true}`, http.StatusOK, catalogsync.RefreshRequest{Codes: []string{}, All: true}},
		{"대상 없음", `{}`, http.StatusBadRequest, catalogsync.RefreshRequest{}},
		{"빈 코드와 false", `{"productCodes":[],"refreshAll":false}`, http.StatusBadRequest, catalogsync.RefreshRequest{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			catalog := &fakeCatalog{}
			h := NewHandler(catalog, repository.NewMemoryRepository(), nil, time.Minute)

			c, rec := newContext(http.MethodPatch, "/admin/tours", tt.body)
			err := h.RefreshHandler(c)

			if tt.wantStatus != http.StatusOK {
				assertHTTPError(t, err, tt.wantStatus)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantReq, catalog.gotRefresh)

			var res catalogsync.RefreshResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, "run-3", res.RunID)
			require.Len(t, res.Updated, 1)
		})
	}
}

func TestRefreshHandler_Stream(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	catalog := &fakeCatalog{events: []catalogsync.ProgressEvent{
		{ProductCode: "5010SYDNEY", State: catalogsync.StatePending, Index: 1, Total: 1, At: at},
		{ProductCode: "5010SYDNEY", State: catalogsync.StateFetchingDetail, Index: 1, Total: 1, At: at},
		{ProductCode: "5010SYDNEY", State: catalogsync.StateUpdated, Index: 1, Total: 1, At: at},
	}}
	h := NewHandler(catalog, repository.NewMemoryRepository(), nil, time.Minute)

	c, rec := newContext(http.MethodPatch, "/admin/tours?progress=stream", `{"productCodes":["5010SYDNEY"]}`)
	require.NoError(t, h.RefreshHandler(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constants.ContentTypeNDJSON, rec.Header().Get(echo.HeaderContentType))

	var lines []streamLine
	scanner := bufio.NewScanner(rec.Body)
	for scanner.Scan() {
		var line streamLine
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 4)

	states := make([]catalogsync.RefreshState, 0, 3)
	for _, l := range lines[:3] {
		require.NotNil(t, l.Event)
		states = append(states, l.Event.State)
	}
	assert.Equal(t, []catalogsync.RefreshState{catalogsync.StatePending, catalogsync.StateFetchingDetail, catalogsync.StateUpdated}, states)

	require.NotNil(t, lines[3].Summary)
	assert.Equal(t, "run-3", lines[3].Summary.RunID)
	assert.Empty(t, lines[3].Error)
}

func TestRefreshHandler_StreamError(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("storage down")}
	h := NewHandler(catalog, repository.NewMemoryRepository(), nil, time.Minute)

	c, rec := newContext(http.MethodPatch, "/admin/tours?progress=stream", `{"refreshAll":true}`)
	require.NoError(t, h.RefreshHandler(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var last streamLine
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(rec.Body.String())), &last))
	assert.Nil(t, last.Summary)
	assert.Equal(t, "storage down", last.Error)
}
