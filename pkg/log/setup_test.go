//go:build test

package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_CreatesChannelFiles(t *testing.T) {
	resetForTest()
	t.Cleanup(resetForTest)

	dir := t.TempDir()
	c, err := Setup(Options{
		Name:               "nordexplore",
		Dir:                dir,
		Level:              DebugLevel,
		EnableCriticalLog:  true,
		EnableVerboseLog:   true,
		EnableSyncAuditLog: true,
	})
	require.NoError(t, err)

	WithComponent("catalog.sync").Info("동기화 완료")
	WithComponent("api.service").Error("서버 오류")
	WithComponent("api.service").Debug("상세")

	require.NoError(t, c.Close())

	read := func(name string) string {
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		return string(b)
	}

	assert.Contains(t, read("nordexplore.log"), "동기화 완료")
	assert.Contains(t, read("nordexplore.log"), "서버 오류")
	assert.NotContains(t, read("nordexplore.log"), "상세")
	assert.Contains(t, read("nordexplore.critical.log"), "서버 오류")
	assert.Contains(t, read("nordexplore.verbose.log"), "상세")
	assert.Contains(t, read("nordexplore.sync.log"), "동기화 완료")
	assert.NotContains(t, read("nordexplore.sync.log"), "서버 오류")
}

func TestSetup_OnlyOnce(t *testing.T) {
	resetForTest()
	t.Cleanup(resetForTest)

	dir := t.TempDir()
	c1, err1 := Setup(Options{Name: "first", Dir: dir})
	c2, err2 := Setup(Options{Name: "second", Dir: dir})

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Same(t, c1, c2)
	_ = c1.Close()

	_, err := os.Stat(filepath.Join(dir, "second.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestSetup_InvalidOptions(t *testing.T) {
	resetForTest()
	t.Cleanup(resetForTest)

	_, err := Setup(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "유효하지 않은 로그 설정")
}
