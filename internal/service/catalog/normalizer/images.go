package normalizer

import (
	"strings"

	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/tidwall/gjson"
)

// extractImages images(변형 해상도 포함)와 productPhotos 두 컬렉션을 병합하여 중복 없는 URL 목록을 만듭니다.
// images 항목은 가장 넓은 변형을 선택하며, 커버로 지정된 항목을 맨 앞에 둡니다.
// 결과가 비어 있으면 대체 이미지 하나만 담은 목록을 반환합니다.
func extractImages(raw model.RawProduct) []string {
	var cover string
	var urls []string

	raw.Get("images").ForEach(func(_, img gjson.Result) bool {
		u := imageURL(img)
		if u == "" {
			return true
		}
		if cover == "" && img.Get("isCover").Bool() {
			cover = u
			return true
		}
		urls = append(urls, u)
		return true
	})

	raw.Get("productPhotos").ForEach(func(_, photo gjson.Result) bool {
		if u := imageURL(photo); u != "" {
			urls = append(urls, u)
		}
		return true
	})

	if cover != "" {
		urls = append([]string{cover}, urls...)
	}

	seen := make(map[string]struct{}, len(urls))
	result := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		result = append(result, u)
		if len(result) == maxImages {
			break
		}
	}

	if len(result) == 0 {
		return []string{model.PlaceholderImage}
	}
	return result
}

// imageURL 이미지 항목 하나에서 URL을 추출합니다.
// 문자열, variants 배열(가장 넓은 변형), url/photoURL/photoUrl/imageUrl 필드를 순서대로 확인합니다.
func imageURL(img gjson.Result) string {
	if img.Type == gjson.String {
		return strings.TrimSpace(img.String())
	}

	if variants := img.Get("variants"); variants.IsArray() {
		var best string
		bestWidth := int64(-1)
		variants.ForEach(func(_, v gjson.Result) bool {
			u := strings.TrimSpace(v.Get("url").String())
			if u == "" {
				return true
			}
			if w := v.Get("width").Int(); w > bestWidth {
				bestWidth = w
				best = u
			}
			return true
		})
		if best != "" {
			return best
		}
	}

	for _, key := range []string{"url", "photoURL", "photoUrl", "imageUrl"} {
		if u := strings.TrimSpace(img.Get(key).String()); u != "" {
			return u
		}
	}

	return ""
}
