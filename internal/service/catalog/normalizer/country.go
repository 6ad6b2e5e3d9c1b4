package normalizer

import (
	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/darkkaiser/nordexplore/pkg/strutil"
)

type city struct {
	name    string
	region  string
	matcher *strutil.KeywordMatcher
}

type countryProfile struct {
	country model.Country
	matcher *strutil.KeywordMatcher
	cities  []city
}

func newCity(name, region string, aliases ...string) city {
	return city{name: name, region: region, matcher: strutil.NewAnyKeywordMatcher(aliases...)}
}

// countryProfiles 국가 추론에 사용하는 고정 키워드 테이블입니다.
// 국가명, 주요 도시, 형용사형, 대표 지형 키워드로 구성되며 테이블 순서대로 먼저 일치한 국가가 선택됩니다.
var countryProfiles = []countryProfile{
	{
		country: model.Norway,
		matcher: strutil.NewAnyKeywordMatcher(
			"norway", "norwegian", "oslo", "bergen", "tromsø", "tromso", "stavanger", "trondheim",
			"ålesund", "alesund", "lofoten", "geiranger", "flåm", "flam", "svalbard", "fjord",
		),
		cities: []city{
			newCity("Oslo", "Eastern Norway", "oslo"),
			newCity("Bergen", "Fjord Norway", "bergen"),
			newCity("Tromsø", "Northern Norway", "tromsø", "tromso"),
			newCity("Stavanger", "Fjord Norway", "stavanger"),
			newCity("Trondheim", "Central Norway", "trondheim"),
			newCity("Ålesund", "Fjord Norway", "ålesund", "alesund"),
			newCity("Flåm", "Fjord Norway", "flåm", "flam"),
			newCity("Lofoten", "Northern Norway", "lofoten"),
			newCity("Longyearbyen", "Svalbard", "svalbard", "longyearbyen"),
		},
	},
	{
		country: model.Iceland,
		matcher: strutil.NewAnyKeywordMatcher(
			"iceland", "icelandic", "reykjavik", "reykjavík", "akureyri", "golden circle",
			"jökulsárlón", "jokulsarlon", "snæfellsnes", "snaefellsnes", "blue lagoon", "geysir",
		),
		cities: []city{
			newCity("Reykjavik", "Capital Region", "reykjavik", "reykjavík"),
			newCity("Akureyri", "North Iceland", "akureyri"),
			newCity("Vík", "South Iceland", "vík í mýrdal", "vik i myrdal"),
		},
	},
	{
		country: model.Sweden,
		matcher: strutil.NewAnyKeywordMatcher(
			"sweden", "swedish", "stockholm", "gothenburg", "göteborg", "malmö", "malmo",
			"kiruna", "abisko", "uppsala", "archipelago",
		),
		cities: []city{
			newCity("Stockholm", "Stockholm County", "stockholm"),
			newCity("Gothenburg", "West Sweden", "gothenburg", "göteborg"),
			newCity("Malmö", "Skåne", "malmö", "malmo"),
			newCity("Kiruna", "Swedish Lapland", "kiruna"),
			newCity("Abisko", "Swedish Lapland", "abisko"),
		},
	},
	{
		country: model.Finland,
		matcher: strutil.NewAnyKeywordMatcher(
			"finland", "finnish", "helsinki", "rovaniemi", "turku", "saariselkä", "saariselka", "sauna",
		),
		cities: []city{
			newCity("Helsinki", "Uusimaa", "helsinki"),
			newCity("Rovaniemi", "Finnish Lapland", "rovaniemi"),
			newCity("Turku", "Southwest Finland", "turku"),
			newCity("Saariselkä", "Finnish Lapland", "saariselkä", "saariselka"),
		},
	},
	{
		country: model.Denmark,
		matcher: strutil.NewAnyKeywordMatcher(
			"denmark", "danish", "copenhagen", "aarhus", "odense", "legoland", "nyhavn",
		),
		cities: []city{
			newCity("Copenhagen", "Capital Region of Denmark", "copenhagen", "nyhavn"),
			newCity("Aarhus", "Central Denmark", "aarhus"),
			newCity("Odense", "Southern Denmark", "odense"),
		},
	},
}

// inferCountry 국가를 결정합니다.
// 명시적 힌트, 원문의 국가 필드, 키워드 테이블 순으로 확인하고 모두 실패하면 기본 국가(노르웨이)를 사용합니다.
// 기본값은 의도된 대체값일 뿐 정확성을 보장하지 않습니다.
func inferCountry(raw model.RawProduct, hint, text string) model.Country {
	if c, ok := model.ParseCountry(hint); ok {
		return c
	}

	for _, path := range []string{"country", "location.country", "destination.country"} {
		if c, ok := model.ParseCountry(raw.Get(path).String()); ok {
			return c
		}
	}

	for _, p := range countryProfiles {
		if p.matcher.Match(text) {
			return p.country
		}
	}

	return model.DefaultCountry
}

// inferLocation 도시와 지역을 결정합니다. 원문 필드가 우선이며, 없으면 해당 국가의 도시 키워드로 추론합니다.
func inferLocation(raw model.RawProduct, country model.Country, text string) (cityName, region string) {
	cityName = strutil.NormalizeSpaces(firstString(raw, "city", "location.city", "destination.name"))
	region = strutil.NormalizeSpaces(firstString(raw, "region", "location.region"))

	if cityName != "" && region != "" {
		return cityName, region
	}

	for _, p := range countryProfiles {
		if p.country != country {
			continue
		}
		for _, c := range p.cities {
			if cityName != "" && !c.matcher.Match(cityName) {
				continue
			}
			if cityName == "" && !c.matcher.Match(text) {
				continue
			}
			if cityName == "" {
				cityName = c.name
			}
			if region == "" {
				region = c.region
			}
			return cityName, region
		}
	}

	return cityName, region
}

func firstString(raw model.RawProduct, paths ...string) string {
	for _, path := range paths {
		if v := raw.Get(path); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
