// Package request API 요청 본문 모델을 정의합니다.
package request

// ProductCodesRequest 상품 추가/삭제 요청입니다.
type ProductCodesRequest struct {
	ProductCodes []string `json:"productCodes" example:"424330P3,5678NORD"`
}

// RefreshRequest 상품 갱신 요청입니다. RefreshAll이 true이면 ProductCodes는 무시됩니다.
type RefreshRequest struct {
	ProductCodes []string `json:"productCodes"`
	RefreshAll   bool     `json:"refreshAll"`
}

// ImportRequest 일괄 가져오기 요청입니다. 본문이 비어 있으면 기본값을 사용합니다.
type ImportRequest struct {
	MaxPerCountry int  `json:"maxPerCountry" example:"50"`
	ClearExisting bool `json:"clearExisting"`
}

// ListToursQuery 목록 조회 쿼리 파라미터입니다.
type ListToursQuery struct {
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	Search    string `query:"search"`
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder"`
	Country   string `query:"country"`
	Currency  string `query:"currency"`
}
