package normalizer

import (
	"net/url"
	"strings"
)

// trackingQuery 제휴 추적 파라미터를 인코딩된 쿼리 문자열로 만듭니다.
func trackingQuery(cfg Config) string {
	q := url.Values{}
	if cfg.PartnerID != "" {
		q.Set("pid", cfg.PartnerID)
	}
	q.Set("mcid", cfg.CampaignID)
	q.Set("medium", "link")
	if cfg.Campaign != "" {
		q.Set("campaign", cfg.Campaign)
	}
	return q.Encode()
}

// affiliateLink 제휴 추적 파라미터가 포함된 상품 링크를 만듭니다.
// 원문에 상품 URL이 있으면 기존 쿼리를 유지한 채 추적 파라미터를 덮어쓰고,
// 없으면 상품 코드로 경로를 구성합니다. 상품 코드도 없으면 제휴 도메인만 반환합니다.
func (n *Normalizer) affiliateLink(productURL, code string) string {
	if productURL = strings.TrimSpace(productURL); productURL != "" {
		if u, err := url.Parse(productURL); err == nil && u.Scheme != "" && u.Host != "" {
			q := u.Query()
			tracking, _ := url.ParseQuery(n.tracking)
			for k, v := range tracking {
				q[k] = v
			}
			u.RawQuery = q.Encode()
			return u.String()
		}
	}

	if code != "" {
		return n.config.AffiliateDomain + "/tours/" + url.PathEscape(code) + "?" + n.tracking
	}

	return n.config.AffiliateDomain
}
