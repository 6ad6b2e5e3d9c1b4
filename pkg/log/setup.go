package log

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultDir        = "logs"
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 20
)

var (
	setupOnce      sync.Once
	globalCloser   io.Closer
	globalSetupErr error
)

// Setup 전역 로거를 초기화하고 채널별 로그 파일을 엽니다.
//
// 최초 1회만 실제로 초기화되며 이후 호출은 같은 결과를 돌려줍니다.
// 반환된 Closer는 프로세스 종료 직전에 닫아야 버퍼가 유실되지 않습니다.
func Setup(opts Options) (io.Closer, error) {
	setupOnce.Do(func() {
		globalCloser, globalSetupErr = setup(opts)
	})

	return globalCloser, globalSetupErr
}

// rotation 채널별 로그 파일(<Name>[.<채널>].log)의 회전 정책입니다.
type rotation struct {
	dir        string
	name       string
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
}

func newRotation(opts Options) rotation {
	return rotation{
		dir:        cmp.Or(opts.Dir, defaultDir),
		name:       opts.Name,
		maxSizeMB:  cmp.Or(opts.MaxSizeMB, defaultMaxSizeMB),
		maxBackups: cmp.Or(opts.MaxBackups, defaultMaxBackups),
		maxAgeDays: opts.MaxAge,
	}
}

func (r rotation) open(channel string) *lumberjack.Logger {
	base := r.name
	if channel != "" {
		base += "." + channel
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(r.dir, base+".log"),
		MaxSize:    r.maxSizeMB,
		MaxBackups: r.maxBackups,
		MaxAge:     r.maxAgeDays,
		LocalTime:  true,
	}
}

func setup(opts Options) (io.Closer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("유효하지 않은 로그 설정: %w", err)
	}

	rot := newRotation(opts)
	if err := os.MkdirAll(rot.dir, 0755); err != nil {
		return nil, fmt.Errorf("로그 디렉토리 생성 실패: %w", err)
	}

	logrus.SetLevel(cmp.Or(opts.Level, InfoLevel))
	logrus.SetReportCaller(opts.ReportCaller)
	logrus.SetFormatter(&silentFormatter{})
	logrus.SetOutput(io.Discard) // 실제 기록은 hook이 채널별로 수행

	mainWriter := rot.open("")
	h := &hook{
		mainWriter: mainWriter,
		formatter:  newTextFormatter(opts.CallerPathPrefix),
	}
	c := &closer{closers: []io.Closer{mainWriter}, hook: h}

	// 선택 채널: 활성화된 것만 파일을 엽니다.
	attach := func(enabled bool, channel string, target *io.Writer) {
		if !enabled {
			return
		}
		w := rot.open(channel)
		*target = w
		c.closers = append(c.closers, w)
	}
	attach(opts.EnableCriticalLog, "critical", &h.criticalWriter)
	attach(opts.EnableVerboseLog, "verbose", &h.verboseWriter)
	attach(opts.EnableSyncAuditLog, "sync", &h.auditWriter)

	if h.auditWriter != nil {
		h.auditPrefix = cmp.Or(opts.SyncAuditComponentPrefix, DefaultSyncAuditComponentPrefix)
	}
	if opts.EnableConsoleLog {
		h.consoleWriter = os.Stdout
	}

	logrus.AddHook(h)
	logrus.RegisterExitHandler(func() { _ = c.Close() })

	return c, nil
}

// newTextFormatter 파일과 콘솔에 공통으로 쓰는 텍스트 포맷터를 만듭니다.
// 호출자 정보는 "함수(line:N)" 형태로 남기며, prefix가 있으면 "..."으로 줄입니다.
func newTextFormatter(prefix string) *logrus.TextFormatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		CallerPrettyfier: func(frame *runtime.Frame) (string, string) {
			fn := frame.Function
			if prefix != "" {
				if rest, ok := strings.CutPrefix(fn, prefix); ok {
					fn = "..." + rest
				}
			}
			return fn + "(line:" + strconv.Itoa(frame.Line) + ")", ""
		},
	}
}
