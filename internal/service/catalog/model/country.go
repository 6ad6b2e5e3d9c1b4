package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Country 카탈로그가 다루는 북유럽 5개국의 지역 키(소문자)입니다.
type Country string

const (
	Norway  Country = "norway"
	Iceland Country = "iceland"
	Sweden  Country = "sweden"
	Finland Country = "finland"
	Denmark Country = "denmark"

	// DefaultCountry 어떤 단서도 찾지 못했을 때 사용하는 기본 국가입니다.
	DefaultCountry = Norway
)

// Countries 지역 순회 순서가 고정된 국가 목록입니다.
var Countries = []Country{Norway, Iceland, Sweden, Finland, Denmark}

var displayCaser = cases.Title(language.English)

// DisplayName 저장 및 응답에 사용하는 표시 이름을 반환합니다. 예: "norway" -> "Norway"
func (c Country) DisplayName() string {
	return displayCaser.String(string(c))
}

// Valid 5개국 중 하나인지 확인합니다.
func (c Country) Valid() bool {
	for _, v := range Countries {
		if c == v {
			return true
		}
	}
	return false
}

// ParseCountry 지역 키 또는 표시 이름을 Country로 변환합니다. 대소문자와 앞뒤 공백은 무시합니다.
func ParseCountry(s string) (Country, bool) {
	c := Country(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Coordinates 위도/경도 좌표입니다.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lon float64 `json:"lon" bson:"lon"`
}

// IsZero 좌표가 설정되지 않았는지 확인합니다.
func (c Coordinates) IsZero() bool {
	return c.Lat == 0 && c.Lon == 0
}

// countryCentroids 좌표가 없는 상품에 사용하는 국가별 중심 좌표입니다.
var countryCentroids = map[Country]Coordinates{
	Norway:  {Lat: 60.4720, Lon: 8.4689},
	Iceland: {Lat: 64.9631, Lon: -19.0208},
	Sweden:  {Lat: 60.1282, Lon: 18.6435},
	Finland: {Lat: 61.9241, Lon: 25.7482},
	Denmark: {Lat: 56.2639, Lon: 9.5018},
}

// Centroid 국가의 중심 좌표를 반환합니다. 알 수 없는 국가는 기본 국가의 좌표를 사용합니다.
func (c Country) Centroid() Coordinates {
	if coords, ok := countryCentroids[c]; ok {
		return coords
	}
	return countryCentroids[DefaultCountry]
}
