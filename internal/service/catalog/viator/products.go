package viator

import (
	"context"
	"math"
	"net/http"
	"net/url"

	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/darkkaiser/nordexplore/internal/service/fetcher"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
	"github.com/tidwall/gjson"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 50

	defaultSort  = "TRAVELER_RATING"
	defaultOrder = "DESCENDING"
)

// searchRequest POST /products/search 요청 본문입니다.
type searchRequest struct {
	Filtering  searchFiltering  `json:"filtering"`
	Sorting    searchSorting    `json:"sorting"`
	Pagination searchPagination `json:"pagination"`
	Currency   string           `json:"currency"`
}

type searchFiltering struct {
	Destination string `json:"destination"`
}

type searchSorting struct {
	Sort  string `json:"sort"`
	Order string `json:"order"`
}

type searchPagination struct {
	Start int `json:"start"`
	Count int `json:"count"`
}

func (c *client) SearchProducts(ctx context.Context, destinationID string, opts SearchOptions) ([]ProductSummary, error) {
	if opts.Currency == "" {
		opts.Currency = c.config.Currency
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultSearchLimit
	}
	opts.Limit = min(opts.Limit, maxSearchLimit)
	if opts.Sort == "" {
		opts.Sort = defaultSort
	}
	if opts.Order == "" {
		opts.Order = defaultOrder
	}

	res, err := c.post(ctx, "searchProducts", "/products/search", searchRequest{
		Filtering:  searchFiltering{Destination: destinationID},
		Sorting:    searchSorting{Sort: opts.Sort, Order: opts.Order},
		Pagination: searchPagination{Start: max(opts.Offset, 0) + 1, Count: opts.Limit},
		Currency:   opts.Currency,
	})
	if err != nil {
		return nil, err
	}

	products := res.Get("products").Array()
	summaries := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		raw := model.RawProduct(p.Raw)
		code := raw.Code()
		if code == "" {
			continue
		}
		summaries = append(summaries, ProductSummary{
			Code:  code,
			Raw:   raw,
			Price: p.Get("pricing.summary.fromPrice").Float(),
		})
	}

	return summaries, nil
}

func (c *client) GetProductDetails(ctx context.Context, productCode string) (*ProductDetail, error) {
	code := model.NormalizeProductCode(productCode)

	res, err := c.get(ctx, "getProductDetails", "/products/"+url.PathEscape(code), nil)
	if err != nil {
		if status, ok := fetcher.StatusCode(err); ok && status == http.StatusNotFound {
			return &ProductDetail{Code: code, Status: StatusNotFound}, nil
		}
		return nil, err
	}

	status := StatusActive
	if s := res.Get("status").String(); s != "" && s != string(StatusActive) {
		status = StatusInactive
	}

	return &ProductDetail{
		Code:   code,
		Status: status,
		Raw:    model.RawProduct(res.Raw),
	}, nil
}

func (c *client) GetProductPricing(ctx context.Context, productCode string) (float64, bool) {
	code := model.NormalizeProductCode(productCode)

	res, err := c.get(ctx, "getProductPricing", "/availability/schedules/"+url.PathEscape(code), nil)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"product_code": code,
			"error":        err,
		}).Warn("가격 스케줄 조회 실패: 가격을 알 수 없음으로 처리합니다")

		return 0, false
	}

	if p := res.Get("summary.fromPrice").Float(); p > 0 {
		return p, true
	}

	if p, ok := lowestAdultPrice(res); ok {
		return p, true
	}

	return 0, false
}

// lowestAdultPrice 스케줄의 모든 가격 기록 중 성인 권장 소비자 가격의 최솟값을 찾습니다.
func lowestAdultPrice(schedule gjson.Result) (float64, bool) {
	lowest := math.Inf(1)

	for _, item := range schedule.Get("bookableItems").Array() {
		for _, season := range item.Get("seasons").Array() {
			for _, record := range season.Get("pricingRecords").Array() {
				for _, detail := range record.Get("pricingDetails").Array() {
					if detail.Get("ageBand").String() != "ADULT" {
						continue
					}
					if p := detail.Get("price.original.recommendedRetailPrice").Float(); p > 0 && p < lowest {
						lowest = p
					}
				}
			}
		}
	}

	if math.IsInf(lowest, 1) {
		return 0, false
	}
	return lowest, true
}
