package scheduler

import (
	"context"
	stdsync "sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	catalogsync "github.com/darkkaiser/nordexplore/internal/service/catalog/sync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSyncer struct {
	calls atomic.Int32
	err   error
	block chan struct{}
}

func (f *fakeSyncer) IncrementalSync(ctx context.Context) (*catalogsync.SyncResult, error) {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &catalogsync.SyncResult{RunID: "run-1", Checked: 3, Modified: 1, Updated: 1}, nil
}

func TestNewService(t *testing.T) {
	t.Run("Panic_NilSyncer", func(t *testing.T) {
		assert.PanicsWithValue(t, "Syncer는 필수입니다", func() {
			NewService("@every 1s", nil, 0)
		})
	})

	t.Run("DefaultRunTimeout", func(t *testing.T) {
		s := NewService("@every 1s", &fakeSyncer{}, 0)
		assert.Equal(t, DefaultRunTimeout, s.runTimeout)
	})
}

func TestScheduler_StartStop(t *testing.T) {
	syncer := &fakeSyncer{}
	s := NewService("@every 1s", syncer, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &stdsync.WaitGroup{}
	wg.Add(1)

	require.NoError(t, s.Start(ctx, wg))
	assert.False(t, s.NextRun().IsZero())

	assert.Eventually(t, func() bool { return syncer.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	cancel()
	wg.Wait()

	assert.False(t, s.running)
	assert.True(t, s.NextRun().IsZero())
}

func TestScheduler_Start_Duplicate(t *testing.T) {
	s := NewService("@every 1h", &fakeSyncer{}, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &stdsync.WaitGroup{}
	wg.Add(2)

	require.NoError(t, s.Start(ctx, wg))
	require.NoError(t, s.Start(ctx, wg), "중복 시작은 경고만 남기고 무시해야 합니다")

	cancel()
	wg.Wait()
}

func TestScheduler_Start_InvalidSpec(t *testing.T) {
	s := NewService("not a cron spec", &fakeSyncer{}, time.Minute)

	wg := &stdsync.WaitGroup{}
	wg.Add(1)

	err := s.Start(context.Background(), wg)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	assert.Contains(t, err.Error(), "not a cron spec")

	wg.Wait()
	assert.False(t, s.running)
}

func TestScheduler_StopWaitsForRunningSync(t *testing.T) {
	syncer := &fakeSyncer{block: make(chan struct{})}
	s := NewService("@every 1s", syncer, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &stdsync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))

	require.Eventually(t, func() bool { return syncer.calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		cancel()
		wg.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("진행 중인 동기화가 끝나기 전에 종료되었습니다")
	case <-time.After(200 * time.Millisecond):
	}

	close(syncer.block)

	select {
	case <-stopped:
	case <-time.After(3 * time.Second):
		t.Fatal("스케줄러가 종료되지 않았습니다")
	}
	assert.Equal(t, int32(1), syncer.calls.Load(), "실행 중에는 다음 실행을 건너뛰어야 합니다")
}

func TestScheduler_RunSync_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"Success", nil},
		{"AlreadyRunning", catalogsync.ErrSyncInProgress},
		{"UpstreamFailure", apperrors.New(apperrors.Unavailable, "change feed down")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			syncer := &fakeSyncer{err: tt.err}
			s := NewService("@every 1h", syncer, time.Second)

			assert.NotPanics(t, s.runSync)
			assert.Equal(t, int32(1), syncer.calls.Load())
		})
	}
}
