package normalizer

import (
	"strings"

	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/darkkaiser/nordexplore/pkg/strutil"
)

type categoryRule struct {
	category model.Category
	matcher  *strutil.KeywordMatcher
}

// categoryRules 순서가 있는 분류 규칙입니다. 먼저 일치한 규칙이 선택됩니다.
var categoryRules = []categoryRule{
	{model.CategoryNorthernLights, strutil.NewAnyKeywordMatcher("northern lights", "aurora")},
	{model.CategoryFjordTours, strutil.NewAnyKeywordMatcher("fjord")},
	{model.CategoryGlacierTours, strutil.NewAnyKeywordMatcher("glacier", "ice cave", "ice climbing", "iceberg")},
	{model.CategoryWinter, strutil.NewAnyKeywordMatcher("snowmobile", "dog sled", "dogsled", "husky", "snowshoe", "skiing", "sledding")},
	{model.CategoryWildlife, strutil.NewAnyKeywordMatcher("whale", "safari", "wildlife", "puffin", "reindeer", "moose", "seal", "bird watching")},
	{model.CategoryHiking, strutil.NewAnyKeywordMatcher("hike", "hiking", "trek", "trail", "mountain")},
	{model.CategoryBoatTours, strutil.NewAnyKeywordMatcher("cruise", "boat", "sailing", "kayak", "rib ", "canal")},
	{model.CategoryFoodDrink, strutil.NewAnyKeywordMatcher("food", "culinary", "tasting", "beer", "wine", "dinner")},
	{model.CategoryCultural, strutil.NewAnyKeywordMatcher("museum", "history", "viking", "heritage", "culture", "cultural")},
	{model.CategoryDayTrips, strutil.NewAnyKeywordMatcher("day trip", "day tour", "excursion")},
	{model.CategoryCityTours, strutil.NewAnyKeywordMatcher("city", "walking tour", "sightseeing")},
}

// inferCategory 제목, 설명, 태그를 이어 붙인 텍스트에 분류 규칙을 순서대로 적용합니다.
func inferCategory(title, description string, tags []string) model.Category {
	text := strings.ToLower(title + " " + description + " " + strings.Join(tags, " "))

	for _, rule := range categoryRules {
		if rule.matcher.Match(text) {
			return rule.category
		}
	}

	return model.DefaultCategory
}
