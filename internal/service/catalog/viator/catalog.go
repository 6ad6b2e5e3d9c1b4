package viator

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
)

const (
	modifiedSincePageSize = 500

	// maxModifiedSincePages 변경 피드를 따라가는 최대 페이지 수입니다.
	maxModifiedSincePages = 20
)

func (c *client) GetAllNordicProducts(ctx context.Context, maxPerCountry int) ([]CatalogProduct, error) {
	var products []CatalogProduct
	var lastErr error

	for i, country := range model.Countries {
		if i > 0 {
			if err := c.regionGate.Wait(ctx); err != nil {
				return products, err
			}
		}

		logger := applog.WithComponentAndFields(component, applog.Fields{"region": country})

		destinationID, err := c.resolveDestination(ctx, country)
		if err != nil {
			logger.WithError(err).Error("목적지 조회 실패: 해당 지역을 건너뜁니다")
			lastErr = err
			continue
		}

		summaries, err := c.SearchProducts(ctx, destinationID, SearchOptions{Limit: maxPerCountry})
		if err != nil {
			logger.WithError(err).Error("상품 검색 실패: 해당 지역을 건너뜁니다")
			lastErr = err
			continue
		}

		for _, s := range summaries {
			if err := c.detailGate.Wait(ctx); err != nil {
				return products, err
			}

			p := CatalogProduct{Code: s.Code, Country: country, Raw: s.Raw, SearchPrice: s.Price}

			detail, err := c.GetProductDetails(ctx, s.Code)
			switch {
			case err != nil:
				// 상세 조회에 실패한 상품은 검색 요약만으로 포함합니다.
				logger.WithError(err).WithField("product_code", s.Code).Error("상품 상세 조회 실패: 검색 요약 데이터를 사용합니다")
			case !detail.IsActive():
				logger.WithFields(applog.Fields{"product_code": s.Code, "status": detail.Status}).Info("판매 중이 아닌 상품을 제외합니다")
				continue
			default:
				p.Raw = detail.Raw
				p.Enriched = true
			}

			products = append(products, p)
		}

		logger.WithField("count", len(summaries)).Info("지역 상품 수집 완료")
	}

	if len(products) == 0 && lastErr != nil {
		return nil, lastErr
	}

	return products, nil
}

func (c *client) UpdateModifiedProducts(ctx context.Context, productCodes []string, since time.Time) ([]ProductDetail, error) {
	known := make(map[string]struct{}, len(productCodes))
	for _, code := range productCodes {
		if code = model.NormalizeProductCode(code); code != "" {
			known[code] = struct{}{}
		}
	}
	if len(known) == 0 {
		return nil, nil
	}

	var modified []ProductDetail
	seen := make(map[string]struct{})

	q := url.Values{}
	q.Set("modified-since", since.UTC().Format(time.RFC3339))
	q.Set("count", strconv.Itoa(modifiedSincePageSize))

	for page := 0; page < maxModifiedSincePages; page++ {
		res, err := c.get(ctx, "updateModifiedProducts", "/products/modified-since", q)
		if err != nil {
			return nil, err
		}

		for _, p := range res.Get("products").Array() {
			raw := model.RawProduct(p.Raw)
			code := raw.Code()
			if _, ok := known[code]; !ok {
				continue
			}
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}

			status := StatusActive
			if s := p.Get("status").String(); s != "" && s != string(StatusActive) {
				status = StatusInactive
			}
			modified = append(modified, ProductDetail{Code: code, Status: status, Raw: raw})
		}

		cursor := res.Get("nextCursor").String()
		if cursor == "" {
			return modified, nil
		}
		q.Set("cursor", cursor)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"max_pages": maxModifiedSincePages,
		"matched":   len(modified),
	}).Warn("변경 피드 최대 페이지 수에 도달하여 조회를 중단합니다")

	return modified, nil
}
