package normalizer

import (
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/darkkaiser/nordexplore/pkg/strutil"
	"github.com/tidwall/gjson"
)

var lineBreakTagRegexp = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</li>`)

// sanitize HTML 태그를 제거하고 엔티티를 해제한 뒤 공백을 정리한 한 줄 텍스트를 반환합니다.
// 문단이 붙어버리지 않도록 줄바꿈 태그는 공백으로 바꾼 뒤 제거합니다.
func (n *Normalizer) sanitize(s string) string {
	s = lineBreakTagRegexp.ReplaceAllString(s, " ")
	return strutil.NormalizeSpaces(html.UnescapeString(n.policy.Sanitize(s)))
}

// sanitizeMultiLine 줄바꿈 태그를 개행으로 보존하면서 HTML을 제거합니다.
func (n *Normalizer) sanitizeMultiLine(s string) string {
	s = lineBreakTagRegexp.ReplaceAllString(s, "\n")
	return strutil.NormalizeMultiLineSpaces(html.UnescapeString(n.policy.Sanitize(s)))
}

func (n *Normalizer) extractTitle(raw model.RawProduct) string {
	return strutil.Truncate(n.sanitize(firstString(raw, "title", "productName")), maxTitleLength)
}

// extractDescriptions 짧은 설명과 긴 설명을 추출합니다.
// 짧은 설명은 shortDescription이 우선이며, 없으면 전체 설명을 한 줄로 정리하여 자릅니다.
func (n *Normalizer) extractDescriptions(raw model.RawProduct) (short, long string) {
	full := firstString(raw, "description", "productDescription")

	long = strutil.Truncate(n.sanitizeMultiLine(full), maxLongDescriptionLength)

	short = n.sanitize(firstString(raw, "shortDescription"))
	if short == "" {
		short = n.sanitize(full)
	}
	short = strutil.Truncate(short, maxDescriptionLength)

	return short, long
}

// extractTags 태그 목록을 추출합니다. 문자열 배열과 이름 필드를 가진 객체 배열을 모두 허용합니다.
func extractTags(raw model.RawProduct) []string {
	var tags []string
	seen := make(map[string]struct{})

	raw.Get("tags").ForEach(func(_, tag gjson.Result) bool {
		var name string
		switch {
		case tag.Type == gjson.String:
			name = tag.String()
		case tag.IsObject():
			for _, key := range []string{"name", "allNamesByLocale.en", "tagName"} {
				if v := tag.Get(key); v.Type == gjson.String && v.String() != "" {
					name = v.String()
					break
				}
			}
		}

		name = strutil.NormalizeSpaces(name)
		if name == "" {
			return true
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
		tags = append(tags, name)

		return len(tags) < maxListItems
	})

	return tags
}

// listItemKeys 목록 항목이 객체일 때 텍스트를 찾는 키이며 배열 순서가 우선순위입니다.
var listItemKeys = []string{"otherDescription", "description", "typeDescription", "categoryDescription", "text"}

// flattenList 문자열 또는 객체로 이루어진 목록을 정리된 문자열 목록으로 변환합니다.
// 항목별 길이와 전체 개수를 제한하며, 같은 내용은 한 번만 포함합니다.
// 항상 nil이 아닌 슬라이스를 반환합니다.
func (n *Normalizer) flattenList(v gjson.Result, limit int) []string {
	items := make([]string, 0)
	seen := make(map[string]struct{})

	v.ForEach(func(_, item gjson.Result) bool {
		var text string
		switch {
		case item.Type == gjson.String:
			text = item.String()
		case item.IsObject():
			for _, key := range listItemKeys {
				if s := item.Get(key); s.Type == gjson.String && strings.TrimSpace(s.String()) != "" {
					text = s.String()
					break
				}
			}
		}

		text = strutil.Truncate(n.sanitize(text), maxListItemLength)
		if text == "" {
			return true
		}
		if _, ok := seen[text]; ok {
			return true
		}
		seen[text] = struct{}{}
		items = append(items, text)

		return len(items) < limit
	})

	return items
}

// extractMeetingPoint 집결지 설명을 추출합니다.
func (n *Normalizer) extractMeetingPoint(raw model.RawProduct) string {
	s := firstString(raw,
		"logistics.start.0.description",
		"logistics.travelerPickup.additionalInfo",
		"meetingPoint.description",
		"meetingPoint",
	)
	return strutil.Truncate(n.sanitize(s), maxMeetingPointLength)
}

// extractCancellationPolicy 취소 정책 설명을 추출합니다.
func (n *Normalizer) extractCancellationPolicy(raw model.RawProduct) string {
	s := firstString(raw, "cancellationPolicy.description", "cancellationPolicy")
	return strutil.Truncate(n.sanitize(s), maxPolicyLength)
}

// extractRating 평균 평점을 0~5 범위, 소수점 한 자리로 정리합니다.
func extractRating(raw model.RawProduct) float64 {
	var rating float64
	for _, path := range []string{"reviews.combinedAverageRating", "reviews.averageRating", "rating"} {
		if v := raw.Get(path); v.Type == gjson.Number {
			rating = v.Float()
			break
		}
	}

	rating = math.Max(0, math.Min(5, rating))
	return math.Round(rating*10) / 10
}

// extractReviewCount 전체 리뷰 수를 추출합니다. 음수는 0으로 처리합니다.
func extractReviewCount(raw model.RawProduct) int {
	for _, path := range []string{"reviews.totalReviews", "totalReviews", "reviewCount"} {
		if v := raw.Get(path); v.Type == gjson.Number {
			return max(0, int(v.Int()))
		}
	}
	return 0
}

// extractCoordinates 원문 좌표가 유효하면 사용하고, 그렇지 않으면 국가 중심 좌표를 사용합니다.
func extractCoordinates(raw model.RawProduct, country model.Country) model.Coordinates {
	for _, prefix := range []string{"location.coordinates", "logistics.start.0.location.coordinates", "coordinates"} {
		lat, lon := raw.Get(prefix+".latitude"), raw.Get(prefix+".longitude")
		if lat.Type != gjson.Number || lon.Type != gjson.Number {
			lat, lon = raw.Get(prefix+".lat"), raw.Get(prefix+".lon")
		}
		if lat.Type != gjson.Number || lon.Type != gjson.Number {
			continue
		}

		c := model.Coordinates{Lat: lat.Float(), Lon: lon.Float()}
		if c.IsZero() || math.Abs(c.Lat) > 90 || math.Abs(c.Lon) > 180 {
			continue
		}
		return c
	}

	return country.Centroid()
}
