// Package sync 업스트림 카탈로그와 로컬 저장소 사이의 동기화 작업을 조율합니다.
//
// 모든 작업은 상품 코드 단위로 순차 처리되며, 항목 간 간격은 주입된 throttle.Gate가 결정합니다.
// 항목별 실패는 결과 요약에 사유와 함께 기록되고 나머지 항목의 처리를 중단시키지 않습니다.
// 자동 재시도는 하지 않습니다.
package sync

import (
	"context"
	"time"

	"github.com/darkkaiser/nordexplore/internal/service/catalog/normalizer"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/repository"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/viator"
	"github.com/darkkaiser/nordexplore/pkg/concurrency"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
	"github.com/darkkaiser/nordexplore/pkg/throttle"
	"github.com/google/uuid"
)

// component 동기화 로그의 component 값입니다. 이 값으로 시작하는 로그는 동기화 감사 로그에도 기록됩니다.
const component = "catalog.sync"

const (
	// DefaultItemInterval 상품 코드 사이의 최소 간격입니다.
	DefaultItemInterval = 300 * time.Millisecond

	// DefaultSyncWindow 증분 동기화가 확인하는 변경 기간입니다.
	DefaultSyncWindow = 24 * time.Hour

	// DefaultMaxPerCountry 일괄 가져오기에서 국가별로 수집하는 기본 상품 수입니다.
	DefaultMaxPerCountry = 50

	// syncLockKey 증분 동기화의 중복 실행을 막는 잠금 키입니다. 상품 코드와 겹치지 않도록 소문자로 둡니다.
	syncLockKey = "run:incremental-sync"
)

// Service 카탈로그 동기화 작업(일괄 가져오기, 추가, 삭제, 갱신, 증분 동기화)을 수행합니다.
type Service struct {
	client     viator.Client
	repo       repository.Repository
	normalizer *normalizer.Normalizer

	itemGate throttle.Gate
	locks    *concurrency.KeyedMutex
	recorder Recorder

	now           func() time.Time
	window        time.Duration
	maxPerCountry int
}

// Option Service 생성 옵션입니다.
type Option func(*Service)

// WithItemGate 상품 코드 사이의 간격을 제어할 Gate를 지정합니다.
func WithItemGate(g throttle.Gate) Option {
	return func(s *Service) {
		if g != nil {
			s.itemGate = g
		}
	}
}

// WithClock 현재 시각을 반환하는 함수를 지정합니다.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSyncWindow 증분 동기화가 확인하는 변경 기간을 지정합니다.
func WithSyncWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithMaxPerCountry 일괄 가져오기 요청에 값이 없을 때 사용할 국가별 수집 수를 지정합니다.
func WithMaxPerCountry(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPerCountry = n
		}
	}
}

// WithRecorder 작업 결과를 기록할 Recorder를 지정합니다.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithKeyedMutex 상품 코드 단위 잠금을 다른 구성 요소와 공유할 때 지정합니다.
func WithKeyedMutex(km *concurrency.KeyedMutex) Option {
	return func(s *Service) {
		if km != nil {
			s.locks = km
		}
	}
}

// New 새로운 Service를 생성합니다.
func New(client viator.Client, repo repository.Repository, n *normalizer.Normalizer, opts ...Option) *Service {
	if client == nil {
		panic("sync: viator.Client는 필수입니다")
	}
	if repo == nil {
		panic("sync: repository.Repository는 필수입니다")
	}
	if n == nil {
		panic("sync: normalizer.Normalizer는 필수입니다")
	}

	s := &Service{
		client:     client,
		repo:       repo,
		normalizer: n,

		itemGate: throttle.NewIntervalGate(DefaultItemInterval),
		locks:    concurrency.NewKeyedMutex(),
		recorder: nopRecorder{},

		now:           time.Now,
		window:        DefaultSyncWindow,
		maxPerCountry: DefaultMaxPerCountry,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// run 작업 한 번의 실행 정보입니다. 실행마다 고유 ID를 부여하여 항목 로그를 묶습니다.
type run struct {
	id      string
	op      Operation
	startAt time.Time
	log     *applog.Entry
}

func (s *Service) startRun(op Operation, fields applog.Fields) *run {
	id := uuid.NewString()

	f := applog.Fields{"run_id": id, "operation": op}
	for k, v := range fields {
		f[k] = v
	}

	r := &run{
		id:      id,
		op:      op,
		startAt: s.now(),
		log:     applog.WithComponentAndFields(component, f),
	}
	r.log.Info("동기화 작업 시작")

	return r
}

func (s *Service) elapsed(r *run) time.Duration {
	return s.now().Sub(r.startAt)
}

// finishRun 작업 종료를 기록하고 소요 시간을 반환합니다.
func (s *Service) finishRun(r *run, err error, fields applog.Fields) time.Duration {
	d := s.elapsed(r)
	s.recorder.OperationCompleted(r.op, d, err)

	entry := r.log.WithFields(fields).WithField("duration", d.String())
	if err != nil {
		entry.WithError(err).Error("동기화 작업 실패")
	} else {
		entry.Info("동기화 작업 완료")
	}

	return d
}

// item 항목 처리 결과를 지표에 반영합니다.
func (s *Service) item(r *run, outcome Outcome) {
	s.recorder.ItemProcessed(r.op, outcome)
}

// wait 다음 상품 코드를 처리하기 전에 Gate를 통과할 때까지 대기합니다.
func (s *Service) wait(ctx context.Context) error {
	return s.itemGate.Wait(ctx)
}
