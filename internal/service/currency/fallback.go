package currency

import (
	"maps"
	"time"
)

// DefaultFallbackRates 외부 소스를 사용할 수 없을 때 쓰는 USD 기준 정적 환율표입니다.
var DefaultFallbackRates = map[string]float64{
	"USD": 1,
	"EUR": 0.92,
	"GBP": 0.79,
	"NOK": 10.7,
	"SEK": 10.5,
	"DKK": 6.9,
	"ISK": 138,
	"CHF": 0.88,
	"JPY": 150,
	"KRW": 1350,
}

// fallbackTable USD 기준 환율표로 임의의 기준 통화에 대한 교차 환율을 계산합니다.
type fallbackTable struct {
	usd map[string]float64
}

// newFallbackTable 기본 환율표에 overrides를 덮어써 대체 환율표를 만듭니다.
func newFallbackTable(overrides map[string]float64) *fallbackTable {
	usd := maps.Clone(DefaultFallbackRates)
	for code, v := range overrides {
		if code = NormalizeCode(code); isValidCode(code) && v > 0 {
			usd[code] = v
		}
	}
	usd["USD"] = 1
	return &fallbackTable{usd: usd}
}

// rates base 기준 환율을 반환합니다. base가 환율표에 없으면 false입니다.
func (t *fallbackTable) rates(base string, now time.Time) (*Rates, bool) {
	baseRate, ok := t.usd[base]
	if !ok || baseRate <= 0 {
		return nil, false
	}

	values := make(map[string]float64, len(t.usd))
	for code, v := range t.usd {
		if code == base {
			continue
		}
		values[code] = v / baseRate
	}

	return &Rates{Base: base, Values: values, FetchedAt: now, Source: SourceFallback}, true
}
