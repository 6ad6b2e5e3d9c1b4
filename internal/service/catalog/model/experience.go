// Package model 카탈로그 동기화 파이프라인이 다루는 체험 상품(Experience) 레코드와 관련 타입을 정의합니다.
package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// PartnerViator 업스트림 제휴 파트너 식별자입니다.
	PartnerViator = "viator"

	// PlaceholderImage 이미지가 없는 상품에 사용하는 대체 이미지입니다.
	// 이 값만 가진 레코드는 신규 등록 대상에서 제외됩니다.
	PlaceholderImage = "/images/placeholder-experience.jpg"

	// MaxSlugLength 슬러그의 최대 길이입니다.
	MaxSlugLength = 100
)

// Experience 로컬에 저장되는 체험 상품 레코드입니다.
type Experience struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	Slug        string `json:"slug" bson:"slug"`
	ProductCode string `json:"productCode" bson:"productCode"`

	Title           string `json:"title" bson:"title"`
	Description     string `json:"description" bson:"description"`
	LongDescription string `json:"longDescription,omitempty" bson:"longDescription,omitempty"`

	Country  string   `json:"country" bson:"country"`
	City     string   `json:"city,omitempty" bson:"city,omitempty"`
	Region   string   `json:"region,omitempty" bson:"region,omitempty"`
	Category Category `json:"category" bson:"category"`
	Tags     []string `json:"tags,omitempty" bson:"tags,omitempty"`

	Duration    Duration    `json:"duration" bson:"duration"`
	PriceFrom   int         `json:"priceFrom" bson:"priceFrom"`
	PriceRange  PriceRange  `json:"priceRange" bson:"priceRange"`
	Currency    string      `json:"currency" bson:"currency"`
	PricingType PricingType `json:"pricingType" bson:"pricingType"`
	PriceSource PriceSource `json:"priceSource,omitempty" bson:"priceSource,omitempty"`

	Images     []string `json:"images" bson:"images"`
	CoverImage string   `json:"coverImage" bson:"coverImage"`

	AffiliateLink    string `json:"affiliateLink" bson:"affiliateLink"`
	AffiliatePartner string `json:"affiliatePartner" bson:"affiliatePartner"`

	Highlights  []string `json:"highlights" bson:"highlights"`
	Included    []string `json:"included" bson:"included"`
	NotIncluded []string `json:"notIncluded" bson:"notIncluded"`

	MeetingPoint       string `json:"meetingPoint,omitempty" bson:"meetingPoint,omitempty"`
	CancellationPolicy string `json:"cancellationPolicy,omitempty" bson:"cancellationPolicy,omitempty"`

	AverageRating float64 `json:"averageRating" bson:"averageRating"`
	TotalReviews  int     `json:"totalReviews" bson:"totalReviews"`

	IsActive    bool        `json:"isActive" bson:"isActive"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`

	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
	LastSyncedAt time.Time `json:"lastSyncedAt,omitempty" bson:"lastSyncedAt,omitempty"`
}

// HasRealImage 대체 이미지가 아닌 실제 커버 이미지가 있는지 확인합니다.
func (e *Experience) HasRealImage() bool {
	return e.CoverImage != "" && e.CoverImage != PlaceholderImage
}

// HasRating 평점과 리뷰 수가 모두 존재하는지 확인합니다.
func (e *Experience) HasRating() bool {
	return e.AverageRating > 0 && e.TotalReviews > 0
}

// HasRealPrice 고정 기본값이 아닌 실제 가격이 있는지 확인합니다.
func (e *Experience) HasRealPrice() bool {
	return e.PriceFrom > 0 && e.PriceSource != PriceSourceDefault
}

// ResolvedProductCode 레코드의 상품 코드를 반환합니다.
// 명시적 필드가 비어 있는 이전 레코드는 슬러그의 마지막 토큰에서 복원합니다.
func (e *Experience) ResolvedProductCode() string {
	if e.ProductCode != "" {
		return e.ProductCode
	}
	return CodeFromSlug(e.Slug)
}

// NormalizeProductCode 요청으로 받은 상품 코드를 비교 가능한 형태(앞뒤 공백 제거, 대문자)로 변환합니다.
func NormalizeProductCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CodeFromSlug 슬러그의 마지막 하이픈 구분 토큰을 대문자로 변환하여 상품 코드로 반환합니다.
func CodeFromSlug(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ""
	}
	if idx := strings.LastIndex(slug, "-"); idx >= 0 {
		slug = slug[idx+1:]
	}
	return strings.ToUpper(slug)
}

// RawProduct 업스트림 카탈로그 API가 반환한 상품 JSON 원문입니다.
// 응답 형태가 엔드포인트마다 조금씩 다르므로 구조체로 고정하지 않고 gjson으로 필요한 경로만 읽습니다.
type RawProduct json.RawMessage

// Get gjson 경로로 값을 조회합니다.
func (r RawProduct) Get(path string) gjson.Result {
	return gjson.GetBytes(r, path)
}

// Code 원문의 productCode 필드를 정규화하여 반환합니다.
func (r RawProduct) Code() string {
	return NormalizeProductCode(r.Get("productCode").String())
}

// MarshalJSON 원문을 그대로 직렬화합니다.
func (r RawProduct) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

// UnmarshalJSON 원문을 복사하여 보관합니다.
func (r *RawProduct) UnmarshalJSON(data []byte) error {
	*r = append((*r)[0:0], data...)
	return nil
}
