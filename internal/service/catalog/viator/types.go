package viator

import (
	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
)

// ProductStatus 상품 상세 조회 결과의 상태입니다.
type ProductStatus string

const (
	StatusActive   ProductStatus = "ACTIVE"
	StatusInactive ProductStatus = "INACTIVE"

	// StatusNotFound 업스트림이 404를 반환한 상품입니다. 더 이상 판매되지 않는 것으로 간주합니다.
	StatusNotFound ProductStatus = "NOT_FOUND"
)

// SearchOptions 상품 검색 옵션입니다.
type SearchOptions struct {
	Currency string
	Limit    int
	Offset   int

	// Sort 정렬 기준 (기본값: TRAVELER_RATING)
	Sort string

	// Order 정렬 방향 (기본값: DESCENDING)
	Order string
}

// ProductSummary 검색 결과의 상품 요약입니다.
type ProductSummary struct {
	Code string
	Raw  model.RawProduct

	// Price 검색 결과에 포함된 시작 가격입니다. 없으면 0입니다.
	Price float64
}

// ProductDetail 상품 상세 조회 결과입니다. Status가 StatusActive가 아니면 Raw는 비어 있을 수 있습니다.
type ProductDetail struct {
	Code   string
	Status ProductStatus
	Raw    model.RawProduct
}

// IsActive 업스트림에서 현재 판매 중인 상품인지 확인합니다.
func (d *ProductDetail) IsActive() bool {
	return d != nil && d.Status == StatusActive
}

// CatalogProduct 전체 카탈로그 수집 결과의 상품 하나입니다.
type CatalogProduct struct {
	Code    string
	Country model.Country
	Raw     model.RawProduct

	// SearchPrice 검색 요약에서 얻은 시작 가격입니다.
	SearchPrice float64

	// Enriched 상세 조회에 성공하여 Raw가 상세 원문인지 여부입니다. false이면 Raw는 검색 요약입니다.
	Enriched bool
}
