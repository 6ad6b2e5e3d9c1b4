package currency

import (
	"context"
	"math"
	"time"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL 조회한 환율을 재사용하는 기본 기간입니다.
const DefaultTTL = time.Hour

// Observer 환율 조회가 어느 출처에서 처리되었는지 통보받습니다.
type Observer interface {
	ObserveRateLookup(source string)
}

// Config Cache 설정입니다.
type Config struct {
	TTL time.Duration

	// FallbackOverrides 기본 대체 환율표(USD 기준)에 덮어쓸 값입니다.
	FallbackOverrides map[string]float64
}

// Cache TTL이 있는 환율 캐시입니다.
//
// 같은 기준 통화에 대한 동시 요청은 singleflight로 묶어 외부 소스를 한 번만 호출합니다.
// 외부 소스가 실패하면 만료된 저장값 대신 대체 환율표를 반환하고, 대체값은 저장하지 않습니다.
type Cache struct {
	store    Store
	source   RateSource
	fallback *fallbackTable
	ttl      time.Duration

	now      func() time.Time
	observer Observer

	group singleflight.Group
}

// Option Cache 생성 옵션입니다.
type Option func(*Cache)

// WithClock 현재 시각을 반환하는 함수를 지정합니다.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithObserver 조회 출처를 통보받을 Observer를 지정합니다.
func WithObserver(o Observer) Option {
	return func(c *Cache) { c.observer = o }
}

// NewCache 새로운 Cache를 생성합니다. store가 nil이면 MemoryStore를, source가 nil이면 대체 환율표만 사용합니다.
func NewCache(store Store, source RateSource, cfg Config, opts ...Option) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	c := &Cache{
		store:    store,
		source:   source,
		fallback: newFallbackTable(cfg.FallbackOverrides),
		ttl:      cfg.TTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Rates base 기준 환율을 반환합니다.
func (c *Cache) Rates(ctx context.Context, base string) (*Rates, error) {
	base = NormalizeCode(base)
	if !isValidCode(base) {
		return nil, ErrUnsupportedCurrency
	}

	if cached, ok := c.cached(ctx, base); ok {
		c.observe(SourceCache)
		return cached, nil
	}

	v, err, _ := c.group.Do(base, func() (any, error) {
		return c.refresh(ctx, base)
	})
	if err != nil {
		return nil, err
	}

	r := v.(*Rates).clone()
	c.observe(r.Source)
	return r, nil
}

// Convert amount를 from 통화에서 to 통화로 환산하고, 사용한 환율의 출처를 함께 반환합니다.
// 두 통화가 같으면 환율을 조회하지 않으며 출처는 빈 문자열입니다.
// 결과는 소수점 둘째 자리에서 반올림합니다.
func (c *Cache) Convert(ctx context.Context, amount float64, from, to string) (float64, Source, error) {
	from, to = NormalizeCode(from), NormalizeCode(to)
	if from == to && isValidCode(from) {
		return amount, "", nil
	}

	r, err := c.Rates(ctx, from)
	if err != nil {
		return 0, "", err
	}

	rate, ok := r.Rate(to)
	if !ok {
		return 0, "", apperrors.Wrapf(ErrUnsupportedCurrency, apperrors.InvalidInput, "%s → %s 환율 정보가 없습니다", from, to)
	}

	return math.Round(amount*rate*100) / 100, r.Source, nil
}

// Supports code가 환산 가능한 통화인지 확인합니다. ReferenceBase 기준 환율표에 없으면 ErrUnsupportedCurrency입니다.
func (c *Cache) Supports(ctx context.Context, code string) error {
	code = NormalizeCode(code)
	if !isValidCode(code) {
		return apperrors.Wrapf(ErrUnsupportedCurrency, apperrors.InvalidInput, "잘못된 통화 코드입니다: %q", code)
	}

	r, err := c.Rates(ctx, ReferenceBase)
	if err != nil {
		return err
	}
	if _, ok := r.Rate(code); !ok {
		return apperrors.Wrapf(ErrUnsupportedCurrency, apperrors.InvalidInput, "%s 환율 정보가 없습니다", code)
	}
	return nil
}

func (c *Cache) cached(ctx context.Context, base string) (*Rates, bool) {
	r, ok, err := c.store.Get(ctx, base)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{"base": base, "error": err}).Warn("환율 저장소 조회 실패")
		return nil, false
	}
	if !ok || c.now().Sub(r.FetchedAt) >= c.ttl {
		return nil, false
	}

	r.Source = SourceCache
	return r, true
}

func (c *Cache) refresh(ctx context.Context, base string) (*Rates, error) {
	// 대기 중에 다른 요청이 갱신했을 수 있습니다.
	if cached, ok := c.cached(ctx, base); ok {
		return cached, nil
	}

	if c.source != nil {
		values, err := c.source.Fetch(ctx, base)
		if err == nil {
			r := &Rates{Base: base, Values: values, FetchedAt: c.now(), Source: SourceLive}
			if err := c.store.Set(ctx, r, c.ttl); err != nil {
				applog.WithComponentAndFields(component, applog.Fields{"base": base, "error": err}).Warn("환율 저장 실패")
			}
			return r, nil
		}

		applog.WithComponentAndFields(component, applog.Fields{"base": base, "error": err}).Warn("환율 조회 실패: 대체 환율표를 사용합니다")
	}

	r, ok := c.fallback.rates(base, c.now())
	if !ok {
		return nil, ErrUnsupportedCurrency
	}
	return r, nil
}

func (c *Cache) observe(s Source) {
	if c.observer != nil {
		c.observer.ObserveRateLookup(string(s))
	}
}
