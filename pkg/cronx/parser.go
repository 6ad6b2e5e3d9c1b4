// Package cronx 애플리케이션 표준 Cron 표현식 파서와 검증 함수를 제공합니다.
package cronx

import "github.com/robfig/cron/v3"

// StandardParser 초 단위를 포함하는 6필드 Cron 표현식 파서를 반환합니다.
//
// 필드 순서: [초] [분] [시] [일] [월] [요일]. @daily, @every 1h 같은 Descriptor도 지원합니다.
//
// 예시:
//   - "0 0 3 * * *" : 매일 03:00:00 (기본 증분 동기화 주기)
//   - "@every 6h"   : 6시간마다
func StandardParser() cron.Parser {
	return cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}
