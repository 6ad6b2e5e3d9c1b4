package normalizer

import (
	"strings"
	"testing"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer() *Normalizer {
	return New(Config{
		AffiliateDomain: "https://www.viator.com/",
		PartnerID:       "P00012345",
		Campaign:        "nordexplore",
	})
}

func raw(s string) model.RawProduct {
	return model.RawProduct(s)
}

func TestTransform_NorthernLightsSafari(t *testing.T) {
	t.Parallel()

	n := newTestNormalizer()
	e, err := n.Transform(raw(`{
		"title": "Northern Lights Safari",
		"productCode": "424330P3",
		"pricingInfo": {"fromPrice": 120},
		"images": [{"variants": [{"url": "a.jpg", "width": 800}]}]
	}`))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(e.Slug, "northern-lights-safari-"))
	assert.True(t, strings.HasSuffix(e.Slug, "424330P3"))
	assert.Equal(t, "424330P3", e.ProductCode)
	assert.Equal(t, 120, e.PriceFrom)
	assert.Equal(t, model.PriceModerate, e.PriceRange)
	assert.Equal(t, model.PriceSourceListing, e.PriceSource)
	assert.Equal(t, "a.jpg", e.CoverImage)
	assert.Equal(t, []string{"a.jpg"}, e.Images)
	assert.Equal(t, model.CategoryNorthernLights, e.Category)
	assert.Equal(t, "Norway", e.Country)
	assert.Equal(t, model.DefaultDuration, e.Duration)
	assert.Equal(t, "USD", e.Currency)
	assert.Equal(t, model.PartnerViator, e.AffiliatePartner)
	assert.True(t, e.IsActive)
	assert.Equal(t, model.Norway.Centroid(), e.Coordinates)
	assert.NotNil(t, e.Highlights)
	assert.NotNil(t, e.Included)
	assert.NotNil(t, e.NotIncluded)
}

func TestTransform_MissingIdentity(t *testing.T) {
	t.Parallel()

	n := newTestNormalizer()

	_, err := n.Transform(raw(`{"title": "Fjord Cruise"}`))
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	assert.ErrorIs(t, err, ErrMissingProductCode)

	_, err = n.Transform(raw(`{"productCode": "123P1", "title": "  "}`))
	assert.ErrorIs(t, err, ErrMissingTitle)

	_, err = n.Transform(raw(`not json`))
	assert.ErrorIs(t, err, ErrMissingProductCode)
}

func TestTransform_Defaults(t *testing.T) {
	t.Parallel()

	e, err := newTestNormalizer().Transform(raw(`{"productCode": "99P1", "productName": "Mystery Trip"}`))
	require.NoError(t, err)

	assert.Equal(t, "Mystery Trip", e.Title)
	assert.Equal(t, DefaultPrice, e.PriceFrom)
	assert.Equal(t, model.PriceSourceDefault, e.PriceSource)
	assert.False(t, e.HasRealPrice())
	assert.Equal(t, []string{model.PlaceholderImage}, e.Images)
	assert.Equal(t, model.PlaceholderImage, e.CoverImage)
	assert.False(t, e.HasRealImage())
	assert.Equal(t, model.DefaultCountry.DisplayName(), e.Country)
	assert.Equal(t, model.DefaultCategory, e.Category)
	assert.Zero(t, e.AverageRating)
	assert.Zero(t, e.TotalReviews)
}

func TestTransform_Options(t *testing.T) {
	t.Parallel()

	n := newTestNormalizer()
	r := raw(`{"productCode": "5P1", "title": "Stockholm Archipelago Cruise", "pricingInfo": {"fromPrice": 80}}`)

	t.Run("국가 힌트가 텍스트 추론보다 우선", func(t *testing.T) {
		e, err := n.Transform(r, WithCountryHint("finland"))
		require.NoError(t, err)
		assert.Equal(t, "Finland", e.Country)
	})

	t.Run("텍스트 추론", func(t *testing.T) {
		e, err := n.Transform(r)
		require.NoError(t, err)
		assert.Equal(t, "Sweden", e.Country)
		assert.Equal(t, "Stockholm", e.City)
		assert.Equal(t, "Stockholm County", e.Region)
		assert.Equal(t, model.CategoryBoatTours, e.Category)
	})

	t.Run("스케줄 가격이 원문 가격보다 우선", func(t *testing.T) {
		e, err := n.Transform(r, WithPriceOverride(310.6))
		require.NoError(t, err)
		assert.Equal(t, 311, e.PriceFrom)
		assert.Equal(t, model.PriceLuxury, e.PriceRange)
		assert.Equal(t, model.PriceSourceSchedule, e.PriceSource)
	})

	t.Run("기존 슬러그 유지", func(t *testing.T) {
		e, err := n.Transform(r, WithSlug("legacy-slug-5P1"))
		require.NoError(t, err)
		assert.Equal(t, "legacy-slug-5P1", e.Slug)
	})
}

func TestGenerateSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title, code, want string
	}{
		{"Northern Lights Safari", "424330p3", "northern-lights-safari-424330P3"},
		{"  Oslo:  Fjord -- Cruise!! ", "1P", "oslo-fjord-cruise-1P"},
		{"Tromsø Whale Watching", "2P", "troms-whale-watching-2P"},
		{"!!!", "3P", "experience-3P"},
		{"", "4P", "experience-4P"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GenerateSlug(tt.title, tt.code), "title=%q", tt.title)
	}
}

func TestGenerateSlug_LengthPreservesCode(t *testing.T) {
	t.Parallel()

	title := strings.Repeat("very long title ", 20)
	for _, code := range []string{"1P", "424330P3", strings.Repeat("X", 60)} {
		slug := GenerateSlug(title, code)
		assert.LessOrEqual(t, len(slug), model.MaxSlugLength)
		assert.True(t, strings.HasSuffix(slug, "-"+code), slug)
		assert.Equal(t, code, model.CodeFromSlug(slug))
		assert.NotContains(t, slug, "--")
	}
}

func TestExtractPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		json       string
		search     float64
		wantPrice  int
		wantSource model.PriceSource
	}{
		{"pricingInfo 숫자", `{"pricingInfo": {"fromPrice": 49.5}}`, 0, 50, model.PriceSourceListing},
		{"pricing.summary", `{"pricing": {"summary": {"fromPrice": 150}}}`, 0, 150, model.PriceSourceListing},
		{"price 문자열", `{"price": {"fromPrice": "$75.20"}}`, 0, 75, model.PriceSourceListing},
		{"price amount 객체", `{"price": {"fromPrice": {"amount": 299}}}`, 0, 299, model.PriceSourceListing},
		{"0 가격은 무시", `{"pricingInfo": {"fromPrice": 0}}`, 64, 64, model.PriceSourceSearch},
		{"잘못된 문자열", `{"price": {"fromPrice": "call us"}}`, 0, DefaultPrice, model.PriceSourceDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, src := extractPrice(raw(tt.json), 0, tt.search)
			assert.Equal(t, tt.wantPrice, p)
			assert.Equal(t, tt.wantSource, src)
		})
	}
}

func TestExtractImages(t *testing.T) {
	t.Parallel()

	t.Run("가장 넓은 변형과 커버 우선", func(t *testing.T) {
		imgs := extractImages(raw(`{
			"images": [
				{"variants": [{"url": "small.jpg", "width": 100}, {"url": "big.jpg", "width": 1200}]},
				{"isCover": true, "variants": [{"url": "cover.jpg", "width": 720}]},
				"plain.jpg"
			],
			"productPhotos": [{"photoURL": "photo.jpg"}, {"photoUrl": "big.jpg"}]
		}`))
		assert.Equal(t, []string{"cover.jpg", "big.jpg", "plain.jpg", "photo.jpg"}, imgs)
	})

	t.Run("최대 개수 제한", func(t *testing.T) {
		var b strings.Builder
		b.WriteString(`{"productPhotos": [`)
		for i := 0; i < 30; i++ {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(`"p`)
			b.WriteString(strings.Repeat("x", i+1))
			b.WriteString(`.jpg"`)
		}
		b.WriteString(`]}`)
		assert.Len(t, extractImages(raw(b.String())), maxImages)
	})

	t.Run("이미지 없음", func(t *testing.T) {
		assert.Equal(t, []string{model.PlaceholderImage}, extractImages(raw(`{"images": [{}]}`)))
	})
}

func TestParseDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		json string
		want model.Duration
	}{
		{`{"duration": {"fixedDurationInMinutes": 90}}`, model.Duration{Value: 2, Unit: model.DurationHours}},
		{`{"duration": {"fixedDurationInMinutes": 20}}`, model.Duration{Value: 1, Unit: model.DurationHours}},
		{`{"itinerary": {"duration": {"fixedDurationInMinutes": 2880}}}`, model.Duration{Value: 2, Unit: model.DurationDays}},
		{`{"duration": {"variableDurationFromMinutes": 240}}`, model.Duration{Value: 4, Unit: model.DurationHours}},
		{`{"duration": 180}`, model.Duration{Value: 3, Unit: model.DurationHours}},
		{`{"duration": "2 days"}`, model.Duration{Value: 2, Unit: model.DurationDays}},
		{`{"duration": "1.5d"}`, model.Duration{Value: 2, Unit: model.DurationDays}},
		{`{"duration": "4h"}`, model.Duration{Value: 4, Unit: model.DurationHours}},
		{`{"duration": "2.5 hours"}`, model.Duration{Value: 3, Unit: model.DurationHours}},
		{`{"duration": "45 min"}`, model.Duration{Value: 1, Unit: model.DurationHours}},
		{`{"duration": "90 minutes"}`, model.Duration{Value: 2, Unit: model.DurationHours}},
		{`{"duration": "2 hrs"}`, model.Duration{Value: 2, Unit: model.DurationHours}},
		{`{"duration": "3 hours incl. 2 drinks"}`, model.Duration{Value: 3, Unit: model.DurationHours}},
		{`{"duration": "2 dinners, 5 museums"}`, model.DefaultDuration},
		{`{"duration": "flexible"}`, model.DefaultDuration},
		{`{}`, model.DefaultDuration},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseDuration(raw(tt.json)), tt.json)
	}
}

func TestAffiliateLink(t *testing.T) {
	t.Parallel()

	n := newTestNormalizer()

	t.Run("상품 URL에 추적 파라미터 병합", func(t *testing.T) {
		link := n.affiliateLink("https://www.viator.com/tours/Oslo/x/d1-5P1?lang=en&mcid=1", "5P1")
		assert.Contains(t, link, "lang=en")
		assert.Contains(t, link, "mcid=42383")
		assert.NotContains(t, link, "mcid=1&")
		assert.Contains(t, link, "pid=P00012345")
		assert.Contains(t, link, "medium=link")
		assert.Contains(t, link, "campaign=nordexplore")
	})

	t.Run("상품 코드로 경로 구성", func(t *testing.T) {
		link := n.affiliateLink("", "5P1")
		assert.True(t, strings.HasPrefix(link, "https://www.viator.com/tours/5P1?"), link)
	})

	t.Run("도메인만", func(t *testing.T) {
		assert.Equal(t, "https://www.viator.com", n.affiliateLink("not a url", ""))
	})
}

func TestTextExtraction(t *testing.T) {
	t.Parallel()

	n := newTestNormalizer()
	e, err := n.Transform(raw(`{
		"productCode": "7P7",
		"title": "<b>Reykjavik</b> Food &amp; Beer Walk",
		"description": "<p>Taste the city.</p><p>Local &quot;skyr&quot; included.<br/>Bring a coat.</p>",
		"tags": ["Food", {"allNamesByLocale": {"en": "Walking"}}, "food"],
		"highlights": ["<i>Skyr</i>", "Skyr", {"description": "Lamb soup"}, {"unknown": 1}],
		"inclusions": [{"otherDescription": "Guide"}, {"typeDescription": "Snacks"}],
		"exclusions": ["Hotel pickup"],
		"reviews": {"combinedAverageRating": 4.876, "totalReviews": 321},
		"pricingInfo": {"type": "UNIT", "fromPrice": 40},
		"cancellationPolicy": {"description": "Free cancellation up to 24 hours"},
		"status": "ACTIVE"
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Reykjavik Food & Beer Walk", e.Title)
	assert.Equal(t, `Taste the city. Local "skyr" included. Bring a coat.`, e.Description)
	assert.Equal(t, "Taste the city.\nLocal \"skyr\" included.\nBring a coat.", e.LongDescription)
	assert.Equal(t, []string{"Food", "Walking"}, e.Tags)
	assert.Equal(t, []string{"Skyr", "Lamb soup"}, e.Highlights)
	assert.Equal(t, []string{"Guide", "Snacks"}, e.Included)
	assert.Equal(t, []string{"Hotel pickup"}, e.NotIncluded)
	assert.Equal(t, 4.9, e.AverageRating)
	assert.Equal(t, 321, e.TotalReviews)
	assert.Equal(t, model.PricingPerGroup, e.PricingType)
	assert.Equal(t, "Free cancellation up to 24 hours", e.CancellationPolicy)
	assert.Equal(t, "Iceland", e.Country)
	assert.Equal(t, "Reykjavik", e.City)
	assert.Equal(t, model.CategoryFoodDrink, e.Category)
}

func TestExtractRating_Clamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5.0, extractRating(raw(`{"rating": 7.2}`)))
	assert.Equal(t, 0.0, extractRating(raw(`{"rating": -1}`)))
	assert.Equal(t, 0, extractReviewCount(raw(`{"totalReviews": -3}`)))
}

func TestTransform_InactiveAndCoordinates(t *testing.T) {
	t.Parallel()

	e, err := newTestNormalizer().Transform(raw(`{
		"productCode": "8P8", "title": "Copenhagen Canal Tour", "status": "INACTIVE",
		"location": {"coordinates": {"latitude": 55.68, "longitude": 12.59}}
	}`))
	require.NoError(t, err)

	assert.False(t, e.IsActive)
	assert.Equal(t, model.Coordinates{Lat: 55.68, Lon: 12.59}, e.Coordinates)
	assert.Equal(t, "Denmark", e.Country)
}
