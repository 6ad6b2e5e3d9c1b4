package model

import (
	"slices"
	"time"
)

// Field 부분 갱신에 사용하는 레코드 필드 이름(BSON 키)입니다.
type Field string

const (
	FieldTitle              Field = "title"
	FieldDescription        Field = "description"
	FieldLongDescription    Field = "longDescription"
	FieldHighlights         Field = "highlights"
	FieldIncluded           Field = "included"
	FieldNotIncluded        Field = "notIncluded"
	FieldImages             Field = "images"
	FieldCoverImage         Field = "coverImage"
	FieldDuration           Field = "duration"
	FieldPriceFrom          Field = "priceFrom"
	FieldPriceRange         Field = "priceRange"
	FieldPriceSource        Field = "priceSource"
	FieldPricingType        Field = "pricingType"
	FieldAverageRating      Field = "averageRating"
	FieldTotalReviews       Field = "totalReviews"
	FieldMeetingPoint       Field = "meetingPoint"
	FieldCancellationPolicy Field = "cancellationPolicy"
	FieldAffiliateLink      Field = "affiliateLink"
	FieldProductCode        Field = "productCode"
	FieldIsActive           Field = "isActive"
)

// RefreshFields 관리자 갱신(Refresh)이 덮어쓰는 필드 목록입니다.
// 슬러그, 국가, 분류는 포함하지 않으므로 갱신으로 레코드가 재분류되지 않습니다.
var RefreshFields = []Field{
	FieldAverageRating,
	FieldTotalReviews,
	FieldPriceFrom,
	FieldPriceRange,
	FieldPriceSource,
	FieldPricingType,
	FieldImages,
	FieldCoverImage,
	FieldTitle,
	FieldDescription,
	FieldLongDescription,
	FieldHighlights,
	FieldIncluded,
	FieldNotIncluded,
	FieldMeetingPoint,
	FieldCancellationPolicy,
	FieldAffiliateLink,
	FieldDuration,
}

// SyncFields 정기 증분 동기화(Sync)가 덮어쓰는 필드 목록입니다.
// 정책, 집결지, 제휴 링크처럼 수동으로 다듬는 필드는 건드리지 않습니다.
var SyncFields = []Field{
	FieldPriceFrom,
	FieldPriceRange,
	FieldPriceSource,
	FieldTitle,
	FieldDescription,
	FieldHighlights,
	FieldIncluded,
	FieldNotIncluded,
	FieldImages,
	FieldCoverImage,
	FieldDuration,
	FieldAverageRating,
	FieldTotalReviews,
}

// Without fields에서 excluded에 포함된 필드를 제외한 새 슬라이스를 반환합니다.
func Without(fields []Field, excluded ...Field) []Field {
	result := make([]Field, 0, len(fields))
	for _, f := range fields {
		if !slices.Contains(excluded, f) {
			result = append(result, f)
		}
	}
	return result
}

// Patch 특정 레코드에 적용할 부분 갱신입니다. Values의 키는 BSON 필드 이름입니다.
type Patch struct {
	Values   map[Field]any
	SyncedAt time.Time
}

// NewPatch src에서 fields에 해당하는 값만 추출하여 Patch를 생성합니다.
// 알 수 없는 필드는 무시합니다.
func NewPatch(src *Experience, fields []Field, syncedAt time.Time) Patch {
	values := make(map[Field]any, len(fields))
	for _, f := range fields {
		if v, ok := src.fieldValue(f); ok {
			values[f] = v
		}
	}
	return Patch{Values: values, SyncedAt: syncedAt}
}

// Fields 패치에 포함된 필드 목록을 정렬하여 반환합니다.
func (p Patch) Fields() []Field {
	fields := make([]Field, 0, len(p.Values))
	for f := range p.Values {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// Apply 패치를 레코드에 적용하고 UpdatedAt/LastSyncedAt을 갱신합니다.
func (p Patch) Apply(dst *Experience) {
	for f, v := range p.Values {
		dst.setFieldValue(f, v)
	}
	dst.UpdatedAt = p.SyncedAt
	dst.LastSyncedAt = p.SyncedAt
}

func (e *Experience) fieldValue(f Field) (any, bool) {
	switch f {
	case FieldTitle:
		return e.Title, true
	case FieldDescription:
		return e.Description, true
	case FieldLongDescription:
		return e.LongDescription, true
	case FieldHighlights:
		return slices.Clone(e.Highlights), true
	case FieldIncluded:
		return slices.Clone(e.Included), true
	case FieldNotIncluded:
		return slices.Clone(e.NotIncluded), true
	case FieldImages:
		return slices.Clone(e.Images), true
	case FieldCoverImage:
		return e.CoverImage, true
	case FieldDuration:
		return e.Duration, true
	case FieldPriceFrom:
		return e.PriceFrom, true
	case FieldPriceRange:
		return e.PriceRange, true
	case FieldPriceSource:
		return e.PriceSource, true
	case FieldPricingType:
		return e.PricingType, true
	case FieldAverageRating:
		return e.AverageRating, true
	case FieldTotalReviews:
		return e.TotalReviews, true
	case FieldMeetingPoint:
		return e.MeetingPoint, true
	case FieldCancellationPolicy:
		return e.CancellationPolicy, true
	case FieldAffiliateLink:
		return e.AffiliateLink, true
	case FieldProductCode:
		return e.ProductCode, true
	case FieldIsActive:
		return e.IsActive, true
	}
	return nil, false
}

func (e *Experience) setFieldValue(f Field, v any) {
	switch f {
	case FieldTitle:
		e.Title, _ = v.(string)
	case FieldDescription:
		e.Description, _ = v.(string)
	case FieldLongDescription:
		e.LongDescription, _ = v.(string)
	case FieldHighlights:
		e.Highlights, _ = v.([]string)
	case FieldIncluded:
		e.Included, _ = v.([]string)
	case FieldNotIncluded:
		e.NotIncluded, _ = v.([]string)
	case FieldImages:
		e.Images, _ = v.([]string)
	case FieldCoverImage:
		e.CoverImage, _ = v.(string)
	case FieldDuration:
		e.Duration, _ = v.(Duration)
	case FieldPriceFrom:
		e.PriceFrom, _ = v.(int)
	case FieldPriceRange:
		e.PriceRange, _ = v.(PriceRange)
	case FieldPriceSource:
		e.PriceSource, _ = v.(PriceSource)
	case FieldPricingType:
		e.PricingType, _ = v.(PricingType)
	case FieldAverageRating:
		e.AverageRating, _ = v.(float64)
	case FieldTotalReviews:
		e.TotalReviews, _ = v.(int)
	case FieldMeetingPoint:
		e.MeetingPoint, _ = v.(string)
	case FieldCancellationPolicy:
		e.CancellationPolicy, _ = v.(string)
	case FieldAffiliateLink:
		e.AffiliateLink, _ = v.(string)
	case FieldProductCode:
		e.ProductCode, _ = v.(string)
	case FieldIsActive:
		e.IsActive, _ = v.(bool)
	}
}
