// Package throttle 업스트림 호출 간격을 제어하는 게이트(Gate)를 제공합니다.
//
// "무엇을 하는가"(상품별 처리 루프)와 "어떻게 속도를 조절하는가"(호출 간격)를 분리하기 위해,
// 호출 측은 매 반복마다 Gate.Wait만 호출하고 실제 간격 정책은 주입된 구현체가 결정합니다.
package throttle

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate 다음 작업을 진행해도 되는 시점까지 대기시키는 인터페이스입니다.
type Gate interface {
	// Wait 다음 작업이 허용될 때까지 블록합니다. ctx가 취소되면 ctx.Err()를 반환합니다.
	Wait(ctx context.Context) error
}

// intervalGate 버스트 1의 토큰 버킷으로 구현된 고정 간격 게이트입니다.
// 첫 번째 Wait는 즉시 통과하고, 이후 호출은 직전 통과 시점으로부터 interval만큼 대기합니다.
type intervalGate struct {
	limiter *rate.Limiter
}

// NewIntervalGate interval 간격으로 한 번씩 통과시키는 Gate를 생성합니다.
// interval이 0 이하이면 대기하지 않는 Gate를 반환합니다.
func NewIntervalGate(interval time.Duration) Gate {
	if interval <= 0 {
		return Unlimited()
	}
	return &intervalGate{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (g *intervalGate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

type unlimitedGate struct{}

// Unlimited 절대 대기하지 않는 Gate를 반환합니다. 테스트와 간격 미설정 시 사용합니다.
func Unlimited() Gate {
	return unlimitedGate{}
}

func (unlimitedGate) Wait(ctx context.Context) error {
	return ctx.Err()
}

// GateFunc 일반 함수를 Gate로 사용할 수 있게 합니다.
type GateFunc func(ctx context.Context) error

// Wait f(ctx)를 호출합니다.
func (f GateFunc) Wait(ctx context.Context) error {
	return f(ctx)
}
