package normalizer

import (
	"math"
	"strconv"
	"strings"

	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/tidwall/gjson"
)

// DefaultPrice 가격 정보를 전혀 찾지 못했을 때 사용하는 시작 가격입니다.
const DefaultPrice = 100

// listingPricePaths 원문에서 시작 가격을 찾는 경로이며 배열 순서가 우선순위입니다.
var listingPricePaths = []string{
	"pricingInfo.fromPrice",
	"pricing.summary.fromPrice",
	"price.fromPrice",
}

// extractPrice 시작 가격과 출처를 결정합니다.
// 스케줄 가격, 원문 가격 필드, 검색 요약 가격, 기본값 순으로 확인합니다.
func extractPrice(raw model.RawProduct, override, searchPrice float64) (int, model.PriceSource) {
	if p := roundPrice(override); p > 0 {
		return p, model.PriceSourceSchedule
	}

	for _, path := range listingPricePaths {
		if amount, ok := parseAmount(raw.Get(path)); ok {
			if p := roundPrice(amount); p > 0 {
				return p, model.PriceSourceListing
			}
		}
	}

	if p := roundPrice(searchPrice); p > 0 {
		return p, model.PriceSourceSearch
	}

	return DefaultPrice, model.PriceSourceDefault
}

// parseAmount 숫자, 숫자 문자열, 또는 amount 필드를 가진 객체를 금액으로 해석합니다.
func parseAmount(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(v.String(), "$")), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case gjson.JSON:
		if v.IsObject() {
			if amount := v.Get("amount"); amount.Type == gjson.Number || amount.Type == gjson.String {
				return parseAmount(amount)
			}
		}
	}
	return 0, false
}

func roundPrice(v float64) int {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

// extractPricingType 1인 기준인지 그룹(단위) 기준인지 판별합니다. 알 수 없으면 1인 기준입니다.
func extractPricingType(raw model.RawProduct) model.PricingType {
	t := strings.ToUpper(firstString(raw, "pricingInfo.type", "pricingInfo.pricingType", "pricing.type"))
	switch t {
	case "UNIT", "PER_GROUP", "GROUP":
		return model.PricingPerGroup
	default:
		return model.PricingPerPerson
	}
}
