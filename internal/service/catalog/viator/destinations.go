package viator

import (
	"context"
	"strings"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
)

// resolveDestination 지역 키에 해당하는 목적지 ID를 반환합니다.
// 설정으로 고정된 ID가 우선이며, 그 외에는 /destinations 목록에서 이름이 일치하는 첫 번째 COUNTRY 목적지를 사용합니다.
// 조회에 성공한 결과는 클라이언트 수명 동안 캐시됩니다.
func (c *client) resolveDestination(ctx context.Context, country model.Country) (string, error) {
	c.destinationsMu.Lock()
	defer c.destinationsMu.Unlock()

	if id, ok := c.destinations[country]; ok {
		return id, nil
	}

	res, err := c.get(ctx, "getDestinations", "/destinations", nil)
	if err != nil {
		return "", err
	}

	name := country.DisplayName()
	for _, d := range res.Get("destinations").Array() {
		if !strings.EqualFold(d.Get("type").String(), "COUNTRY") {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(d.Get("name").String()), name) {
			continue
		}

		id := d.Get("destinationId").String()
		if id == "" {
			continue
		}
		c.destinations[country] = id
		return id, nil
	}

	return "", apperrors.Wrapf(ErrDestinationNotFound, apperrors.NotFound, "목적지를 찾을 수 없습니다 (지역: %s)", country)
}
