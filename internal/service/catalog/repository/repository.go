// Package repository 정규화된 Experience 레코드의 로컬 저장소를 정의합니다.
//
// 트랜잭션은 사용하지 않습니다. 레코드 단위의 삽입/갱신/삭제는 각각 독립적으로 즉시 반영되므로,
// 배치 작업은 전체 성공/실패가 아니라 항목별 결과를 보고해야 합니다.
package repository

import (
	"context"
	"strings"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
)

var (
	// ErrNotFound 조건에 맞는 레코드가 없습니다.
	ErrNotFound = apperrors.New(apperrors.NotFound, "레코드를 찾을 수 없습니다")

	// ErrDuplicateSlug 같은 슬러그를 가진 레코드가 이미 존재합니다.
	ErrDuplicateSlug = apperrors.New(apperrors.Conflict, "같은 슬러그를 가진 레코드가 이미 존재합니다")
)

// Repository 카탈로그 저장소 계약입니다.
type Repository interface {
	// FindBySlug 슬러그로 레코드를 조회합니다. 없으면 ErrNotFound입니다.
	FindBySlug(ctx context.Context, slug string) (*model.Experience, error)

	// FindByProductCode 상품 코드(대소문자 무시)로 레코드를 조회합니다.
	// productCode 필드가 비어 있는 이전 레코드는 슬러그 끝의 "-CODE"로 찾고, 찾은 레코드의 productCode를 채웁니다.
	FindByProductCode(ctx context.Context, code string) (*model.Experience, error)

	// Find 조건에 맞는 레코드 목록을 정렬/페이지 단위로 조회합니다. Limit이 0 이하이면 전체를 반환합니다.
	Find(ctx context.Context, filter Filter, opts ListOptions) ([]*model.Experience, error)

	// Count 조건에 맞는 레코드 수를 반환합니다.
	Count(ctx context.Context, filter Filter) (int64, error)

	// Insert 새 레코드를 추가합니다. 슬러그가 중복되면 ErrDuplicateSlug입니다.
	Insert(ctx context.Context, e *model.Experience) error

	// Upsert 슬러그 기준으로 레코드를 추가하거나 교체합니다. 기존 레코드의 생성 시각은 유지됩니다.
	Upsert(ctx context.Context, e *model.Experience) (inserted bool, err error)

	// UpdateBySlug 슬러그에 해당하는 레코드에 부분 갱신을 적용합니다. 없으면 ErrNotFound입니다.
	UpdateBySlug(ctx context.Context, slug string, patch model.Patch) error

	// DeleteBySlug 슬러그에 해당하는 레코드를 삭제합니다. 없으면 ErrNotFound입니다.
	DeleteBySlug(ctx context.Context, slug string) error

	// DeleteMany 조건에 맞는 레코드를 모두 삭제하고 삭제된 수를 반환합니다.
	DeleteMany(ctx context.Context, filter Filter) (int64, error)

	// Ping 저장소 연결 상태를 확인합니다.
	Ping(ctx context.Context) error

	// Close 저장소 연결을 종료합니다.
	Close(ctx context.Context) error
}

// Filter 목록 조회 조건입니다. 비어 있는 필드는 조건에서 제외됩니다.
type Filter struct {
	// Partner 제휴 파트너 (예: "viator")
	Partner string

	// Country 국가 표시 이름 (예: "Norway"). 대소문자를 구분하지 않습니다.
	Country string

	// Active nil이 아니면 활성 여부로 거릅니다.
	Active *bool

	// Search 제목, 설명, 도시에 대한 부분 일치 검색어입니다. 대소문자를 구분하지 않습니다.
	Search string

	// ProductCodes 지정된 상품 코드 중 하나를 가진 레코드만 조회합니다.
	ProductCodes []string
}

// SortOrder 정렬 방향입니다.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	// DefaultSortBy 정렬 기준을 지정하지 않았거나 허용되지 않은 값일 때 사용합니다.
	DefaultSortBy = "createdAt"

	DefaultLimit = 20
	MaxLimit     = 100
)

// sortableFields 정렬에 사용할 수 있는 필드 목록입니다.
var sortableFields = map[string]struct{}{
	"title":         {},
	"priceFrom":     {},
	"averageRating": {},
	"totalReviews":  {},
	"createdAt":     {},
	"updatedAt":     {},
	"country":       {},
}

// ListOptions 정렬 및 페이지 옵션입니다. Page는 1부터 시작합니다.
type ListOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
}

// Normalize 허용되지 않은 정렬 기준을 기본값으로 바꾸고 페이지 값을 보정합니다.
// Limit은 0 이하이면 전체 조회를 뜻하므로 그대로 두고, MaxLimit을 넘으면 잘라냅니다.
func (o ListOptions) Normalize() ListOptions {
	if _, ok := sortableFields[o.SortBy]; !ok {
		o.SortBy = DefaultSortBy
	}
	switch SortOrder(strings.ToLower(string(o.SortOrder))) {
	case SortAsc:
		o.SortOrder = SortAsc
	default:
		o.SortOrder = SortDesc
	}
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	return o
}

// Skip 건너뛸 레코드 수를 반환합니다.
func (o ListOptions) Skip() int64 {
	if o.Limit <= 0 {
		return 0
	}
	return int64(o.Page-1) * int64(o.Limit)
}

// IsSortable 정렬 가능한 필드인지 확인합니다.
func IsSortable(field string) bool {
	_, ok := sortableFields[field]
	return ok
}

// Bool 불리언 값의 포인터를 반환합니다. Filter.Active 지정에 사용합니다.
func Bool(v bool) *bool {
	return &v
}

func normalizeCodes(codes []string) []string {
	result := make([]string, 0, len(codes))
	for _, c := range codes {
		if c = model.NormalizeProductCode(c); c != "" {
			result = append(result, c)
		}
	}
	return result
}
