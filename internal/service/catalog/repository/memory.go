package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository 프로세스 메모리에 레코드를 보관하는 Repository 구현체입니다.
// 저장 드라이버가 memory일 때와 테스트에서 사용합니다. 여러 고루틴에서 동시에 사용해도 안전합니다.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*model.Experience // key: slug

	now func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository 비어 있는 MemoryRepository를 생성합니다.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[string]*model.Experience),
		now:     time.Now,
	}
}

// SetClock 생성/수정 시각에 사용할 시계를 지정합니다.
func (r *MemoryRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *MemoryRepository) FindBySlug(ctx context.Context, slug string) (*model.Experience, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.records[slug]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(e), nil
}

func (r *MemoryRepository) FindByProductCode(ctx context.Context, code string) (*model.Experience, error) {
	code = model.NormalizeProductCode(code)
	if code == "" {
		return nil, ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, slug := range r.sortedSlugs() {
		if r.records[slug].ProductCode == code {
			return clone(r.records[slug]), nil
		}
	}

	for _, slug := range r.sortedSlugs() {
		e := r.records[slug]
		if e.ProductCode == "" && slugEndsWithCode(e.Slug, code) {
			e.ProductCode = code
			return clone(e), nil
		}
	}

	return nil, ErrNotFound
}

func (r *MemoryRepository) Find(ctx context.Context, filter Filter, opts ListOptions) ([]*model.Experience, error) {
	opts = opts.Normalize()

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	slices.SortStableFunc(matched, func(a, b *model.Experience) int {
		c := compareField(a, b, opts.SortBy)
		if opts.SortOrder == SortDesc {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(a.Slug, b.Slug)
		}
		return c
	})

	if opts.Limit > 0 {
		skip := int(opts.Skip())
		if skip >= len(matched) {
			return []*model.Experience{}, nil
		}
		matched = matched[skip:min(skip+opts.Limit, len(matched))]
	}

	result := make([]*model.Experience, len(matched))
	for i, e := range matched {
		result[i] = clone(e)
	}
	return result, nil
}

func (r *MemoryRepository) Count(ctx context.Context, filter Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.match(filter))), nil
}

func (r *MemoryRepository) Insert(ctx context.Context, e *model.Experience) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[e.Slug]; exists {
		return ErrDuplicateSlug
	}

	now := r.now()
	stored := clone(e)
	if stored.ID.IsZero() {
		stored.ID = primitive.NewObjectID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = now
	}
	r.records[stored.Slug] = stored

	e.ID = stored.ID
	return nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, e *model.Experience) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	stored := clone(e)
	stored.UpdatedAt = now

	existing, exists := r.records[e.Slug]
	if exists {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.ID = primitive.NewObjectID()
		stored.CreatedAt = now
	}
	r.records[stored.Slug] = stored

	return !exists, nil
}

func (r *MemoryRepository) UpdateBySlug(ctx context.Context, slug string, patch model.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.records[slug]
	if !ok {
		return ErrNotFound
	}

	if patch.SyncedAt.IsZero() {
		patch.SyncedAt = r.now()
	}
	patch.Apply(e)
	return nil
}

func (r *MemoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[slug]; !ok {
		return ErrNotFound
	}
	delete(r.records, slug)
	return nil
}

func (r *MemoryRepository) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := r.match(filter)
	for _, e := range matched {
		delete(r.records, e.Slug)
	}
	return int64(len(matched)), nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryRepository) Close(ctx context.Context) error {
	return nil
}

// sortedSlugs 결정적인 순회를 위해 슬러그를 정렬하여 반환합니다. 호출자가 잠금을 보유해야 합니다.
func (r *MemoryRepository) sortedSlugs() []string {
	slugs := make([]string, 0, len(r.records))
	for slug := range r.records {
		slugs = append(slugs, slug)
	}
	slices.Sort(slugs)
	return slugs
}

// match 조건에 맞는 레코드를 반환합니다. 호출자가 잠금을 보유해야 합니다.
func (r *MemoryRepository) match(filter Filter) []*model.Experience {
	codes := normalizeCodes(filter.ProductCodes)
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	var result []*model.Experience
	for _, slug := range r.sortedSlugs() {
		e := r.records[slug]

		if filter.Partner != "" && e.AffiliatePartner != filter.Partner {
			continue
		}
		if filter.Country != "" && !strings.EqualFold(e.Country, filter.Country) {
			continue
		}
		if filter.Active != nil && e.IsActive != *filter.Active {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Title), search) &&
			!strings.Contains(strings.ToLower(e.Description), search) &&
			!strings.Contains(strings.ToLower(e.City), search) {
			continue
		}
		if len(filter.ProductCodes) > 0 && !slices.Contains(codes, e.ResolvedProductCode()) {
			continue
		}

		result = append(result, e)
	}
	return result
}

func compareField(a, b *model.Experience, field string) int {
	switch field {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "priceFrom":
		return cmp.Compare(a.PriceFrom, b.PriceFrom)
	case "averageRating":
		return cmp.Compare(a.AverageRating, b.AverageRating)
	case "totalReviews":
		return cmp.Compare(a.TotalReviews, b.TotalReviews)
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "country":
		return strings.Compare(a.Country, b.Country)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// slugEndsWithCode 슬러그의 마지막 토큰이 상품 코드와 일치하는지 대소문자 구분 없이 확인합니다.
func slugEndsWithCode(slug, code string) bool {
	upper := strings.ToUpper(slug)
	return upper == code || strings.HasSuffix(upper, "-"+code)
}

func clone(e *model.Experience) *model.Experience {
	c := *e
	c.Tags = slices.Clone(e.Tags)
	c.Images = slices.Clone(e.Images)
	c.Highlights = slices.Clone(e.Highlights)
	c.Included = slices.Clone(e.Included)
	c.NotIncluded = slices.Clone(e.NotIncluded)
	return &c
}
