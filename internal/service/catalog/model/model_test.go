package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceRangeFor_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		price int
		want  PriceRange
	}{
		{0, PriceBudget},
		{49, PriceBudget},
		{50, PriceModerate},
		{149, PriceModerate},
		{150, PricePremium},
		{299, PricePremium},
		{300, PriceLuxury},
		{5000, PriceLuxury},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PriceRangeFor(tt.price), "price=%d", tt.price)
	}
}

func TestCountry(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Norway", Norway.DisplayName())
	assert.Equal(t, "Iceland", Iceland.DisplayName())

	c, ok := ParseCountry(" Denmark ")
	assert.True(t, ok)
	assert.Equal(t, Denmark, c)

	_, ok = ParseCountry("Germany")
	assert.False(t, ok)

	assert.Equal(t, Coordinates{Lat: 64.9631, Lon: -19.0208}, Iceland.Centroid())
	assert.Equal(t, Norway.Centroid(), Country("atlantis").Centroid())
}

func TestCodeFromSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		slug, want string
	}{
		{"northern-lights-safari-424330p3", "424330P3"},
		{"northern-lights-safari-424330P3", "424330P3"},
		{"5678P12", "5678P12"},
		{"", ""},
		{"trailing-", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CodeFromSlug(tt.slug), tt.slug)
	}
}

func TestExperience_ResolvedProductCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ABC123", (&Experience{ProductCode: "ABC123", Slug: "x-OTHER"}).ResolvedProductCode())
	assert.Equal(t, "OTHER", (&Experience{Slug: "x-other"}).ResolvedProductCode())
}

func TestExperience_Validity(t *testing.T) {
	t.Parallel()

	e := &Experience{
		CoverImage:    "https://img/a.jpg",
		AverageRating: 4.8,
		TotalReviews:  120,
		PriceFrom:     120,
		PriceSource:   PriceSourceSchedule,
	}
	assert.True(t, e.HasRealImage())
	assert.True(t, e.HasRating())
	assert.True(t, e.HasRealPrice())

	e.CoverImage = PlaceholderImage
	e.TotalReviews = 0
	e.PriceSource = PriceSourceDefault
	assert.False(t, e.HasRealImage())
	assert.False(t, e.HasRating())
	assert.False(t, e.HasRealPrice())
}

func TestPatch(t *testing.T) {
	t.Parallel()

	syncedAt := time.Date(2026, 10, 18, 3, 0, 0, 0, time.UTC)
	src := &Experience{
		Slug:          "new-slug-X1",
		Country:       "Iceland",
		Category:      CategoryGlacierTours,
		Title:         "New title",
		PriceFrom:     210,
		PriceRange:    PricePremium,
		Images:        []string{"a.jpg"},
		Duration:      Duration{Value: 2, Unit: DurationDays},
		AverageRating: 4.5,
		MeetingPoint:  "Harbour",
	}
	dst := &Experience{
		Slug:         "old-slug-X1",
		Country:      "Norway",
		Category:     CategoryFjordTours,
		Title:        "Old title",
		MeetingPoint: "Curated meeting point",
	}

	patch := NewPatch(src, SyncFields, syncedAt)
	patch.Apply(dst)

	assert.Equal(t, "old-slug-X1", dst.Slug, "슬러그는 갱신되지 않아야 합니다")
	assert.Equal(t, "Norway", dst.Country)
	assert.Equal(t, CategoryFjordTours, dst.Category)
	assert.Equal(t, "Curated meeting point", dst.MeetingPoint, "동기화는 집결지를 갱신하지 않습니다")
	assert.Equal(t, "New title", dst.Title)
	assert.Equal(t, 210, dst.PriceFrom)
	assert.Equal(t, PricePremium, dst.PriceRange)
	assert.Equal(t, []string{"a.jpg"}, dst.Images)
	assert.Equal(t, Duration{Value: 2, Unit: DurationDays}, dst.Duration)
	assert.Equal(t, syncedAt, dst.UpdatedAt)
	assert.Equal(t, syncedAt, dst.LastSyncedAt)

	src.Images[0] = "mutated.jpg"
	assert.Equal(t, "a.jpg", dst.Images[0], "패치는 슬라이스를 복사해야 합니다")
}

func TestFieldLists(t *testing.T) {
	t.Parallel()

	for _, fields := range [][]Field{RefreshFields, SyncFields} {
		assert.NotContains(t, fields, Field("slug"))
		assert.NotContains(t, fields, Field("country"))
		assert.NotContains(t, fields, Field("category"))
	}

	assert.Contains(t, RefreshFields, FieldCancellationPolicy)
	assert.Contains(t, RefreshFields, FieldMeetingPoint)
	assert.NotContains(t, SyncFields, FieldCancellationPolicy)
	assert.NotContains(t, SyncFields, FieldMeetingPoint)
	assert.NotContains(t, SyncFields, FieldAffiliateLink)

	assert.Equal(t, []Field{FieldTitle}, Without([]Field{FieldTitle, FieldImages}, FieldImages))
}

func TestRawProduct_JSON(t *testing.T) {
	t.Parallel()

	var payload struct {
		Products []RawProduct `json:"products"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"products":[{"productCode":" 424330p3 ","title":"A"}]}`), &payload))
	require.Len(t, payload.Products, 1)

	assert.Equal(t, "424330P3", payload.Products[0].Code())
	assert.Equal(t, "A", payload.Products[0].Get("title").String())

	b, err := json.Marshal(payload.Products[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"productCode":" 424330p3 ","title":"A"}`, string(b))
}
