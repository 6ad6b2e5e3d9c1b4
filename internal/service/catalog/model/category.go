package model

// Category 체험 상품의 분류입니다.
type Category string

const (
	CategoryNorthernLights Category = "Northern Lights"
	CategoryFjordTours     Category = "Fjord Tours"
	CategoryGlacierTours   Category = "Glacier & Ice"
	CategoryWinter         Category = "Winter Activities"
	CategoryWildlife       Category = "Wildlife Safari"
	CategoryHiking         Category = "Hiking & Trekking"
	CategoryBoatTours      Category = "Boat Tours"
	CategoryFoodDrink      Category = "Food & Drink"
	CategoryCultural       Category = "Cultural Tours"
	CategoryDayTrips       Category = "Day Trips"
	CategoryCityTours      Category = "City Tours"

	// DefaultCategory 어떤 규칙에도 해당하지 않을 때의 분류입니다.
	DefaultCategory = CategoryCityTours
)

// PriceRange 가격대 구간입니다.
type PriceRange string

const (
	PriceBudget   PriceRange = "$"
	PriceModerate PriceRange = "$$"
	PricePremium  PriceRange = "$$$"
	PriceLuxury   PriceRange = "$$$$"
)

// PriceRangeFor 시작 가격을 가격대 구간으로 변환합니다. (<50, <150, <300, 그 이상)
func PriceRangeFor(price int) PriceRange {
	switch {
	case price < 50:
		return PriceBudget
	case price < 150:
		return PriceModerate
	case price < 300:
		return PricePremium
	default:
		return PriceLuxury
	}
}

// DurationUnit 소요 시간 단위입니다.
type DurationUnit string

const (
	DurationHours DurationUnit = "hours"
	DurationDays  DurationUnit = "days"
)

// Duration 체험 상품의 소요 시간입니다.
type Duration struct {
	Value int          `json:"value" bson:"value"`
	Unit  DurationUnit `json:"unit" bson:"unit"`
}

// DefaultDuration 소요 시간을 해석할 수 없을 때의 기본값(3시간)입니다.
var DefaultDuration = Duration{Value: 3, Unit: DurationHours}

// PricingType 가격 기준입니다.
type PricingType string

const (
	PricingPerPerson PricingType = "per_person"
	PricingPerGroup  PricingType = "per_group"
)

// PriceSource 시작 가격을 어디에서 얻었는지 나타냅니다.
type PriceSource string

const (
	PriceSourceSchedule PriceSource = "schedule" // 가용성 스케줄 조회
	PriceSourceListing  PriceSource = "listing"  // 상품 페이로드의 가격 필드
	PriceSourceSearch   PriceSource = "search"   // 검색 결과 요약의 가격
	PriceSourceStored   PriceSource = "stored"   // 갱신 시 기존 저장 가격 유지
	PriceSourceDefault  PriceSource = "default"  // 고정 기본값
)
