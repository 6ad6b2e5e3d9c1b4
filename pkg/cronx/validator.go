package cronx

import (
	"fmt"
	"strings"
)

// Validate Cron 표현식이 StandardParser로 해석 가능한지 검증합니다.
func Validate(spec string) error {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return fmt.Errorf("Cron 표현식 파싱 실패: empty spec string")
	}

	if _, err := StandardParser().Parse(spec); err != nil {
		return fmt.Errorf("Cron 표현식 파싱 실패(%s): %w", spec, err)
	}

	return nil
}
