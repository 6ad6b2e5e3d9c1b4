// Package response API 응답 본문 모델을 정의합니다.
package response

import (
	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
)

// ErrorResponse 에러 응답의 표준 형식입니다.
type ErrorResponse struct {
	// 결과 코드 (HTTP 상태 코드와 동일)
	ResultCode int `json:"result_code" example:"400"`

	// 에러 메시지
	Message string `json:"message" example:"잘못된 요청입니다"`
}

// TourItem 목록 조회 응답의 레코드 하나입니다. currency 파라미터가 지정되면 환산 가격이 포함됩니다.
type TourItem struct {
	*model.Experience

	DisplayPrice    *float64 `json:"displayPrice,omitempty"`
	DisplayCurrency string   `json:"displayCurrency,omitempty"`
}

// ToursPage 목록 조회 응답입니다.
type ToursPage struct {
	Items      []TourItem `json:"items"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	Total      int64      `json:"total"`
	TotalPages int        `json:"totalPages"`

	// RateSource 환산에 사용한 환율 출처 (live, cache, fallback)
	RateSource string `json:"rateSource,omitempty"`
}

// HealthResponse 헬스체크 응답입니다.
type HealthResponse struct {
	Status       string                      `json:"status" example:"healthy"`
	Uptime       int64                       `json:"uptime" example:"3600"`
	NextSyncAt   string                      `json:"next_sync_at,omitempty"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// DependencyStatus 외부 의존성 하나의 상태입니다.
type DependencyStatus struct {
	Status    string `json:"status" example:"healthy"`
	LatencyMS int64  `json:"latency_ms"`
	Message   string `json:"message,omitempty"`
}

// VersionResponse 버전 정보 응답입니다.
type VersionResponse struct {
	Version     string `json:"version" example:"1.2.0"`
	Commit      string `json:"commit" example:"a1b2c3d"`
	BuildDate   string `json:"build_date" example:"2025-06-01T12:00:00Z"`
	BuildNumber string `json:"build_number" example:"42"`
	GoVersion   string `json:"go_version" example:"go1.24.0"`
}
