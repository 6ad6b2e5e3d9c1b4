// Package scheduler 증분 동기화를 Cron 스케줄에 맞춰 주기적으로 실행합니다.
package scheduler

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	catalogsync "github.com/darkkaiser/nordexplore/internal/service/catalog/sync"
	"github.com/darkkaiser/nordexplore/pkg/cronx"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
	"github.com/robfig/cron/v3"
)

// component Scheduler 서비스의 로깅용 컴포넌트 이름
const component = "scheduler.service"

// DefaultRunTimeout 예약된 동기화 한 번에 허용하는 최대 실행 시간
const DefaultRunTimeout = 2 * time.Hour

// Syncer 예약 실행되는 증분 동기화 작업입니다.
type Syncer interface {
	IncrementalSync(ctx context.Context) (*catalogsync.SyncResult, error)
}

// Scheduler 설정된 Cron 표현식에 맞춰 증분 동기화를 실행하는 서비스입니다.
type Scheduler struct {
	timeSpec   string
	runTimeout time.Duration

	syncer Syncer

	cron    *cron.Cron
	entryID cron.EntryID

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Scheduler 서비스 인스턴스를 생성합니다. runTimeout이 0 이하이면 DefaultRunTimeout을 사용합니다.
func NewService(timeSpec string, syncer Syncer, runTimeout time.Duration) *Scheduler {
	if syncer == nil {
		panic("Syncer는 필수입니다")
	}
	if runTimeout <= 0 {
		runTimeout = DefaultRunTimeout
	}

	return &Scheduler{
		timeSpec:   timeSpec,
		runTimeout: runTimeout,
		syncer:     syncer,
	}
}

// Start 스케줄러를 시작하고 증분 동기화 작업을 Cron 엔진에 등록합니다.
// serviceStopCtx가 취소되면 스케줄러를 중지하고 serviceStopWG.Done()을 호출합니다.
func (s *Scheduler) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: Scheduler 서비스 초기화 프로세스를 시작합니다")

	if s.syncer == nil {
		serviceStopWG.Done()
		return ErrSyncerNotInitialized
	}

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Scheduler 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	// Recover: 작업 중 발생한 panic이 스케줄러를 중단시키지 않습니다.
	// SkipIfStillRunning: 이전 실행이 끝나지 않았으면 이번 실행을 건너뜁니다.
	logger := cron.VerbosePrintfLogger(applog.StandardLogger())
	c := cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	entryID, err := c.AddFunc(s.timeSpec, s.runSync)
	if err != nil {
		serviceStopWG.Done()
		return NewErrInvalidCronSpec(s.timeSpec, err)
	}

	s.cron = c
	s.entryID = entryID
	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"time_spec": s.timeSpec,
		"next_run":  s.cron.Entry(entryID).Next,
	}).Info("서비스 시작 완료: 증분 동기화 스케줄이 등록되었습니다")

	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 스케줄러를 중지하고, 진행 중인 동기화가 끝날 때까지 대기합니다.
func (s *Scheduler) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("종료 절차 진입: Scheduler 서비스 중지 시그널을 수신했습니다")

	if s.cron != nil {
		<-s.cron.Stop().Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Scheduler 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}

// NextRun 다음 예약 실행 시각을 반환합니다. 실행 중이 아니면 zero 값을 반환합니다.
func (s *Scheduler) NextRun() time.Time {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running || s.cron == nil {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// runSync 예약된 증분 동기화를 한 번 실행합니다.
//
// 서비스 종료 컨텍스트와 분리된 컨텍스트를 사용합니다. 종료 시 cron.Stop()이 진행 중인 실행의 완료를 기다리므로
// 동기화가 중간에 취소되지 않습니다.
func (s *Scheduler) runSync() {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	log := applog.WithComponentAndFields(component, applog.Fields{"time_spec": s.timeSpec})

	result, err := s.syncer.IncrementalSync(ctx)
	if err != nil {
		if apperrors.Is(err, apperrors.Conflict) {
			log.WithError(err).Warn("예약 동기화 건너뜀: 다른 동기화가 이미 실행 중입니다")
			return
		}
		log.WithError(err).Error("예약 동기화 실패")
		return
	}

	log.WithFields(applog.Fields{
		"run_id":   result.RunID,
		"checked":  result.Checked,
		"modified": result.Modified,
		"updated":  result.Updated,
		"errors":   len(result.Errors),
	}).Info("예약 동기화 완료")
}
