// Package normalizer 업스트림 카탈로그 상품 원문을 로컬 Experience 레코드로 변환합니다.
//
// 변환은 입력만으로 결과가 결정되는 순수 함수이며 I/O를 수행하지 않습니다.
// 하위 구조가 잘못된 경우에도 실패하지 않고, 각 추출 단계가 정해진 기본값으로 대체됩니다.
// 레코드를 식별할 수 없는 경우(상품 코드 또는 제목 누락)에만 에러를 반환합니다.
package normalizer

import (
	"strings"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/microcosm-cc/bluemonday"
)

const (
	maxTitleLength           = 200
	maxDescriptionLength     = 500
	maxLongDescriptionLength = 5000
	maxListItemLength        = 200
	maxHighlights            = 10
	maxListItems             = 20
	maxImages                = 20
	maxMeetingPointLength    = 500
	maxPolicyLength          = 1000

	defaultCurrency = "USD"
)

var (
	// ErrMissingProductCode 원문에 상품 코드가 없어 레코드를 식별할 수 없습니다.
	ErrMissingProductCode = apperrors.New(apperrors.InvalidInput, "상품 원문에 productCode가 없습니다")

	// ErrMissingTitle 원문에 제목이 없어 슬러그를 만들 수 없습니다.
	ErrMissingTitle = apperrors.New(apperrors.InvalidInput, "상품 원문에 title이 없습니다")
)

// Config 제휴 링크 생성 등 변환에 필요한 고정 설정입니다.
type Config struct {
	// AffiliateDomain 제휴 파트너의 기본 도메인 (예: "https://www.viator.com")
	AffiliateDomain string

	// PartnerID 제휴 추적 파라미터 pid 값
	PartnerID string

	// CampaignID 제휴 추적 파라미터 mcid 값
	CampaignID string

	// Campaign 제휴 추적 파라미터 campaign 값
	Campaign string

	// DefaultCurrency 원문에 통화 정보가 없을 때 사용할 통화
	DefaultCurrency string
}

// Normalizer 상품 원문을 Experience로 변환하는 변환기입니다. 여러 고루틴에서 동시에 사용해도 안전합니다.
type Normalizer struct {
	config   Config
	tracking string
	policy   *bluemonday.Policy
}

// New 새로운 Normalizer를 생성합니다.
func New(cfg Config) *Normalizer {
	if cfg.AffiliateDomain == "" {
		cfg.AffiliateDomain = "https://www.viator.com"
	}
	cfg.AffiliateDomain = strings.TrimRight(cfg.AffiliateDomain, "/")
	if cfg.CampaignID == "" {
		cfg.CampaignID = "42383"
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = defaultCurrency
	}

	return &Normalizer{
		config:   cfg,
		tracking: trackingQuery(cfg),
		policy:   bluemonday.StrictPolicy(),
	}
}

// options Transform 호출별 선택 사항입니다.
type options struct {
	countryHint   string
	priceOverride float64
	searchPrice   float64
	slug          string
}

// Option Transform 동작을 조정합니다.
type Option func(*options)

// WithCountryHint 지역 검색 등으로 이미 알고 있는 국가를 지정합니다. 원문 텍스트 추론보다 우선합니다.
func WithCountryHint(country string) Option {
	return func(o *options) { o.countryHint = country }
}

// WithPriceOverride 가용성 스케줄에서 조회한 가격을 지정합니다. 0보다 크면 모든 가격 필드보다 우선합니다.
func WithPriceOverride(price float64) Option {
	return func(o *options) { o.priceOverride = price }
}

// WithSearchPrice 검색 결과 요약에서 얻은 가격을 지정합니다. 원문 가격 필드가 모두 없을 때 사용됩니다.
func WithSearchPrice(price float64) Option {
	return func(o *options) { o.searchPrice = price }
}

// WithSlug 기존 레코드의 슬러그를 유지하도록 지정합니다.
func WithSlug(slug string) Option {
	return func(o *options) { o.slug = slug }
}

// Transform 상품 원문을 Experience로 변환합니다.
func (n *Normalizer) Transform(raw model.RawProduct, opts ...Option) (*model.Experience, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	code := raw.Code()
	if code == "" {
		return nil, ErrMissingProductCode
	}

	title := n.extractTitle(raw)
	if title == "" {
		return nil, ErrMissingTitle
	}

	description, longDescription := n.extractDescriptions(raw)
	tags := extractTags(raw)

	searchText := strings.Join([]string{title, description, longDescription, strings.Join(tags, " "), raw.Get("location.address").String()}, " ")

	country := inferCountry(raw, o.countryHint, searchText)
	city, region := inferLocation(raw, country, searchText)

	price, priceSource := extractPrice(raw, o.priceOverride, o.searchPrice)
	images := extractImages(raw)

	slug := o.slug
	if slug == "" {
		slug = GenerateSlug(title, code)
	}

	e := &model.Experience{
		Slug:               slug,
		ProductCode:        code,
		Title:              title,
		Description:        description,
		LongDescription:    longDescription,
		Country:            country.DisplayName(),
		City:               city,
		Region:             region,
		Category:           inferCategory(title, description, tags),
		Tags:               tags,
		Duration:           parseDuration(raw),
		PriceFrom:          price,
		PriceRange:         model.PriceRangeFor(price),
		Currency:           n.extractCurrency(raw),
		PricingType:        extractPricingType(raw),
		PriceSource:        priceSource,
		Images:             images,
		CoverImage:         images[0],
		AffiliateLink:      n.affiliateLink(raw.Get("productUrl").String(), code),
		AffiliatePartner:   model.PartnerViator,
		Highlights:         n.flattenList(raw.Get("highlights"), maxHighlights),
		Included:           n.flattenList(raw.Get("inclusions"), maxListItems),
		NotIncluded:        n.flattenList(raw.Get("exclusions"), maxListItems),
		MeetingPoint:       n.extractMeetingPoint(raw),
		CancellationPolicy: n.extractCancellationPolicy(raw),
		AverageRating:      extractRating(raw),
		TotalReviews:       extractReviewCount(raw),
		IsActive:           isActiveStatus(raw.Get("status").String()),
		Coordinates:        extractCoordinates(raw, country),
	}

	return e, nil
}

func (n *Normalizer) extractCurrency(raw model.RawProduct) string {
	for _, path := range []string{"pricing.currency", "pricingInfo.currency", "currency"} {
		if c := strings.ToUpper(strings.TrimSpace(raw.Get(path).String())); len(c) == 3 {
			return c
		}
	}
	return n.config.DefaultCurrency
}

// isActiveStatus 상태 값이 없거나 ACTIVE이면 활성 상품으로 봅니다.
func isActiveStatus(status string) bool {
	return status == "" || strings.EqualFold(status, "ACTIVE")
}
