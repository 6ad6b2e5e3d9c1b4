// Package service 애플리케이션을 구성하는 장기 실행 서비스의 공통 계약을 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service 시작 후 context가 취소될 때까지 실행되는 구성 요소입니다.
//
// Start는 즉시 반환해야 하며, 서비스가 완전히 종료되면 serviceStopWG.Done()을 한 번 호출합니다.
// 시작에 실패한 경우에도 Done()은 호출되어야 합니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
