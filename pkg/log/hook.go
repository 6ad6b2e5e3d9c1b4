package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// hook 로그 레벨과 component 필드에 따라 로그를 여러 채널로 분배합니다.
//
// 라우팅 정책:
//   - Console: 모든 레벨
//   - Critical: ERROR 이상
//   - Verbose: DEBUG 이하 (Main으로는 전달하지 않음)
//   - Main: INFO 이상
//   - Audit: component가 auditPrefix로 시작하는 INFO 이상 로그 (Main과 중복 기록)
type hook struct {
	mainWriter     io.Writer
	criticalWriter io.Writer
	verboseWriter  io.Writer
	auditWriter    io.Writer
	consoleWriter  io.Writer

	auditPrefix string

	formatter Formatter

	mu sync.RWMutex // 로그 기록(Read Lock)과 종료 처리(Write Lock) 간의 동시성 제어

	closed bool
}

func (h *hook) Levels() []Level {
	return AllLevels
}

// Fire 로그 이벤트를 수신하여 라우팅 정책에 따라 적절한 Writer로 기록합니다.
func (h *hook) Fire(entry *Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil
	}

	msg, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	var firstErr error
	record := func(w io.Writer, channel string) {
		if w == nil {
			return
		}
		if _, err := w.Write(msg); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-FAILURE] %s 로그 쓰기 실패: %v\n", channel, err)
		}
	}

	// 표준 출력 실패는 로깅 시스템 전체의 가용성에 영향을 주지 않도록 전파하지 않습니다.
	if h.consoleWriter != nil {
		if _, err := h.consoleWriter.Write(msg); err != nil {
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-WARN] 표준 출력(Console) 쓰기 실패: %v\n", err)
		}
	}

	if entry.Level <= ErrorLevel {
		record(h.criticalWriter, "Critical")
	}

	// 상세 로그는 Main과 Audit에 남기지 않습니다.
	if entry.Level >= DebugLevel {
		record(h.verboseWriter, "Verbose")
		return firstErr
	}

	record(h.mainWriter, "Main")

	if h.auditWriter != nil && h.isAuditEntry(entry) {
		record(h.auditWriter, "Audit")
	}

	return firstErr
}

func (h *hook) isAuditEntry(entry *Entry) bool {
	component, ok := entry.Data["component"].(string)
	if !ok {
		return false
	}
	return strings.HasPrefix(component, h.auditPrefix)
}

// Close Hook을 종료 상태로 전환하여 이후의 로그 기록 요청을 모두 무시합니다.
// 진행 중인 Fire 호출이 모두 끝날 때까지 대기합니다.
func (h *hook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true

	return nil
}
