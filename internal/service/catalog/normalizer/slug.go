package normalizer

import (
	"regexp"
	"strings"

	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
)

var (
	nonSlugCharsRegexp = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRegexp   = regexp.MustCompile(`\s+`)
	hyphenRunRegexp    = regexp.MustCompile(`-+`)
)

// emptySlugBase 제목에서 슬러그로 쓸 수 있는 문자가 하나도 남지 않을 때 사용합니다.
const emptySlugBase = "experience"

// GenerateSlug 제목과 상품 코드로 슬러그를 생성합니다.
//
// 제목을 소문자로 바꾸고 영숫자/공백/하이픈 외의 문자를 제거한 뒤, 공백을 하이픈으로 바꾸고
// 연속 하이픈을 하나로 줄입니다. 그 뒤에 "-{대문자 상품 코드}"를 붙이며 전체 길이는 100자를 넘지 않습니다.
// 길이를 맞출 때는 제목 부분만 잘라내므로 상품 코드는 항상 슬러그의 마지막 토큰으로 남습니다.
func GenerateSlug(title, productCode string) string {
	code := model.NormalizeProductCode(productCode)

	base := strings.ToLower(title)
	base = nonSlugCharsRegexp.ReplaceAllString(base, "")
	base = whitespaceRegexp.ReplaceAllString(strings.TrimSpace(base), "-")
	base = hyphenRunRegexp.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if base == "" {
		base = emptySlugBase
	}

	// 정규화 이후의 base는 ASCII만 남으므로 바이트 단위로 잘라도 안전합니다.
	maxBase := model.MaxSlugLength - len(code) - 1
	if maxBase < 1 {
		return truncateASCII(code, model.MaxSlugLength)
	}
	if len(base) > maxBase {
		base = strings.TrimRight(base[:maxBase], "-")
		if base == "" {
			base = emptySlugBase[:min(len(emptySlugBase), maxBase)]
		}
	}

	return base + "-" + code
}

func truncateASCII(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
