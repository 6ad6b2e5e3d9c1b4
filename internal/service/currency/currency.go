// Package currency 표시 가격 환산에 사용하는 환율 캐시를 제공합니다.
//
// 환율은 외부 소스에서 조회하여 TTL 동안 저장소(Store)에 보관합니다.
// 외부 소스 조회가 실패하면 정적인 대체 환율표를 사용하므로, 환산 요청이 업스트림 장애로 실패하지 않습니다.
package currency

import (
	"maps"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
)

const component = "currency"

// ReferenceBase 지원 통화 여부를 판단할 때 기준으로 삼는 통화입니다. 대체 환율표도 이 통화 기준입니다.
const ReferenceBase = "USD"

// Source 환율 정보를 어디에서 얻었는지 나타냅니다.
type Source string

const (
	SourceLive     Source = "live"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// Rates 기준 통화 1단위에 대한 다른 통화의 환율입니다.
type Rates struct {
	Base      string             `json:"base"`
	Values    map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetchedAt"`
	Source    Source             `json:"source"`
}

// Rate 대상 통화의 환율을 반환합니다. 기준 통화 자신은 항상 1입니다.
func (r *Rates) Rate(to string) (float64, bool) {
	to = NormalizeCode(to)
	if to == r.Base {
		return 1, true
	}
	v, ok := r.Values[to]
	return v, ok && v > 0
}

func (r *Rates) clone() *Rates {
	c := *r
	c.Values = maps.Clone(r.Values)
	return &c
}

var (
	// ErrUnsupportedCurrency 환율 정보가 없는 통화입니다.
	ErrUnsupportedCurrency = apperrors.New(apperrors.InvalidInput, "지원하지 않는 통화입니다")
)

// NormalizeCode 통화 코드를 대문자 3자리 형식으로 정리합니다.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// isValidCode ISO 4217 형식(영문 대문자 3자리)인지 확인합니다.
func isValidCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
