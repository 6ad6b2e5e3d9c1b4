package normalizer

import (
	"math"
	"regexp"
	"strconv"

	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/tidwall/gjson"
)

const minutesPerDay = 1440

var (
	daysPatternRegexp    = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*d(?:ays?)?\b`)
	hoursPatternRegexp   = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*h(?:rs?|ours?)?\b`)
	minutesPatternRegexp = regexp.MustCompile(`(?i)\b(\d+)\s*m(?:ins?|inutes?)?\b`)
)

// minutePaths 분 단위 소요 시간을 찾는 경로이며 배열 순서가 우선순위입니다.
var minutePaths = []string{
	"duration.fixedDurationInMinutes",
	"itinerary.duration.fixedDurationInMinutes",
	"duration.variableDurationFromMinutes",
	"itinerary.duration.variableDurationFromMinutes",
	"durationInMinutes",
}

// parseDuration 분 단위 숫자 또는 "Nh"/"Nd" 형태의 문자열에서 소요 시간을 추출합니다.
// 해석할 수 없으면 3시간을 반환합니다.
func parseDuration(raw model.RawProduct) model.Duration {
	for _, path := range minutePaths {
		if v := raw.Get(path); v.Type == gjson.Number && v.Float() > 0 {
			return durationFromMinutes(v.Float())
		}
	}

	switch d := raw.Get("duration"); d.Type {
	case gjson.Number:
		if d.Float() > 0 {
			return durationFromMinutes(d.Float())
		}
	case gjson.String:
		if parsed, ok := parseDurationText(d.String()); ok {
			return parsed
		}
	}

	return model.DefaultDuration
}

// durationFromMinutes 1440분 이상은 일 단위, 그 미만은 반올림한 시간 단위로 변환합니다. 최소값은 1입니다.
func durationFromMinutes(minutes float64) model.Duration {
	if minutes >= minutesPerDay {
		return model.Duration{Value: max(1, int(math.Round(minutes/minutesPerDay))), Unit: model.DurationDays}
	}
	return model.Duration{Value: max(1, int(math.Round(minutes/60))), Unit: model.DurationHours}
}

// parseDurationText "2d", "3 days", "4h", "2.5 hours", "90 min" 같은 문자열을 해석합니다.
// 일 단위 표기가 있으면 시간 표기보다 우선합니다.
func parseDurationText(s string) (model.Duration, bool) {
	if m := daysPatternRegexp.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
			return model.Duration{Value: max(1, int(math.Round(v))), Unit: model.DurationDays}, true
		}
	}
	if m := hoursPatternRegexp.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
			return durationFromMinutes(v * 60), true
		}
	}
	if m := minutesPatternRegexp.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
			return durationFromMinutes(v), true
		}
	}
	return model.Duration{}, false
}
