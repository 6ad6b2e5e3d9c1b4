package currency

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/darkkaiser/nordexplore/internal/service/fetcher"
	"github.com/tidwall/gjson"
)

// RateSource 외부 환율 소스입니다.
type RateSource interface {
	// Fetch base 기준 환율표를 조회합니다.
	Fetch(ctx context.Context, base string) (map[string]float64, error)
}

// DefaultSourceURL 기본 환율 API 주소입니다. "{base}"는 기준 통화로 치환됩니다.
const DefaultSourceURL = "https://open.er-api.com/v6/latest/{base}"

// HTTPSource JSON 환율 API를 조회하는 RateSource입니다.
// 응답의 "rates" 또는 "conversion_rates" 객체를 읽습니다.
type HTTPSource struct {
	fetcher fetcher.Fetcher
	url     string
}

// NewHTTPSource 새로운 HTTPSource를 생성합니다. urlTemplate이 비어 있으면 DefaultSourceURL을 사용합니다.
func NewHTTPSource(f fetcher.Fetcher, urlTemplate string) *HTTPSource {
	if urlTemplate == "" {
		urlTemplate = DefaultSourceURL
	}
	return &HTTPSource{fetcher: f, url: urlTemplate}
}

func (s *HTTPSource) Fetch(ctx context.Context, base string) (map[string]float64, error) {
	url := strings.ReplaceAll(s.url, "{base}", base)

	header := http.Header{}
	header.Set("Accept", "application/json")

	body, err := fetcher.ReadAll(ctx, s.fetcher, http.MethodGet, url, header, nil)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, apperrors.Newf(apperrors.ParsingFailed, "환율 응답이 올바른 JSON이 아닙니다 (URL: %s)", url)
	}

	doc := gjson.ParseBytes(body)
	if result := doc.Get("result").String(); result != "" && result != "success" {
		return nil, apperrors.Newf(apperrors.ExecutionFailed, "환율 API가 실패를 반환하였습니다 (result: %s)", result)
	}

	table := doc.Get("rates")
	if !table.IsObject() {
		table = doc.Get("conversion_rates")
	}
	if !table.IsObject() {
		return nil, apperrors.New(apperrors.ParsingFailed, "환율 응답에 rates 항목이 없습니다")
	}

	values := make(map[string]float64)
	table.ForEach(func(key, value gjson.Result) bool {
		code := NormalizeCode(key.String())
		if isValidCode(code) && value.Type == gjson.Number && value.Float() > 0 {
			values[code] = value.Float()
		}
		return true
	})
	if len(values) == 0 {
		return nil, apperrors.New(apperrors.ParsingFailed, "환율 응답에 유효한 환율이 없습니다")
	}

	return values, nil
}
