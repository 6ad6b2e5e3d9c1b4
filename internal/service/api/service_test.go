package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/darkkaiser/nordexplore/internal/config"
	"github.com/darkkaiser/nordexplore/internal/pkg/version"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// http.Client 연결 풀의 유휴 연결 고루틴
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

// =============================================================================
// Test Helpers
// =============================================================================

func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port
}

func newTestAppConfig(port int) *config.AppConfig {
	appConfig := &config.AppConfig{Debug: true}
	appConfig.API.ListenPort = port
	appConfig.API.CORS.AllowOrigins = []string{"*"}
	appConfig.API.AdminSecret = testAdminSecret
	appConfig.API.SyncSecret = testSyncSecret
	appConfig.API.RequestTimeout = 5 * time.Second
	appConfig.API.BodyLimit = "1M"
	return appConfig
}

func newTestDependencies() Dependencies {
	return Dependencies{
		Catalog:   &fakeOrchestrator{},
		Store:     repository.NewMemoryRepository(),
		BuildInfo: version.Info{Version: "1.0.0"},
	}
}

func waitForServer(t *testing.T, port int) {
	t.Helper()

	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", port), 100*time.Millisecond)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 5*time.Second, 20*time.Millisecond, "서버가 시작되지 않았습니다")
}

// =============================================================================
// Service Lifecycle
// =============================================================================

func TestNewService_PanicsWithoutConfig(t *testing.T) {
	assert.PanicsWithValue(t, "AppConfig는 필수입니다", func() {
		NewService(nil, newTestDependencies())
	})
}

func TestService_StartRejectsMissingDependencies(t *testing.T) {
	tests := []struct {
		name    string
		deps    Dependencies
		wantErr error
	}{
		{"Catalog 없음", Dependencies{Store: repository.NewMemoryRepository()}, ErrCatalogNotInitialized},
		{"Store 없음", Dependencies{Catalog: &fakeOrchestrator{}}, ErrStoreNotInitialized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(newTestAppConfig(8080), tt.deps)

			wg := &sync.WaitGroup{}
			wg.Add(1)
			err := s.Start(context.Background(), wg)

			assert.ErrorIs(t, err, tt.wantErr)
			wg.Wait()
			assert.False(t, s.running)
		})
	}
}

func TestService_StartAndShutdown(t *testing.T) {
	port := freePort(t)
	s := NewService(newTestAppConfig(port), newTestDependencies())

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}

	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))
	waitForServer(t, port)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// 중복 시작은 무시됩니다.
	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))

	cancel()
	wg.Wait()
	client.CloseIdleConnections()

	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	assert.False(t, s.running)
}

func TestService_PortInUse(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()

	s := NewService(newTestAppConfig(l.Addr().(*net.TCPAddr).Port), newTestDependencies())

	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, s.Start(context.Background(), wg))

	// 포트 바인딩에 실패하면 컨텍스트 취소 없이도 서비스가 스스로 종료됩니다.
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("포트 충돌 시 서비스가 종료되지 않았습니다")
	}
}
