package log

import (
	"fmt"
	"os"
)

// DefaultSyncAuditComponentPrefix 동기화 감사 로그로 분리할 component 필드의 기본 접두어입니다.
const DefaultSyncAuditComponentPrefix = "catalog.sync"

// Options 로거 설정을 위한 구조체입니다.
type Options struct {
	Name  string // 로그 파일명 생성에 사용될 애플리케이션 식별자
	Dir   string // 로그 파일이 저장될 디렉토리 경로
	Level Level  // 로그 레벨

	MaxAge     int // 오래된 로그 삭제 기준일 (일 단위, 0: 삭제 안 함)
	MaxSizeMB  int // 로그 파일 최대 크기 (MB, 0: 기본값 100MB 사용)
	MaxBackups int // 최대 백업 파일 수 (0: 기본값 20개 사용)

	EnableCriticalLog  bool // ERROR 이상의 로그를 별도 파일로 분리 저장할지 여부
	EnableVerboseLog   bool // DEBUG 이하의 로그를 별도 파일로 분리 저장할지 여부
	EnableSyncAuditLog bool // 카탈로그 동기화 로그를 별도 감사 파일로 복제 저장할지 여부
	EnableConsoleLog   bool // 표준 출력(Stdout)에도 로그를 출력할지 여부

	// 감사 로그로 복제할 component 접두어 (빈 값이면 DefaultSyncAuditComponentPrefix)
	SyncAuditComponentPrefix string

	// 로그를 호출한 소스 코드의 위치를 함께 기록할지 여부
	ReportCaller bool

	// 호출자 함수 경로에서 잘라낼 접두어
	// 예: "github.com/darkkaiser/nordexplore" -> ".../internal/service/catalog/sync.(*Service).AddByCodes"
	CallerPathPrefix string
}

// Validate Options 구조체의 필드 값이 유효한지 검증합니다.
func (opts *Options) Validate() error {
	if opts.Name == "" {
		return fmt.Errorf("애플리케이션 식별자(Name)가 설정되지 않았습니다")
	}

	if opts.Dir != "" {
		if info, err := os.Stat(opts.Dir); err == nil && !info.IsDir() {
			return fmt.Errorf("로그 디렉토리 경로(%s)가 이미 파일로 존재합니다", opts.Dir)
		}
	}

	if opts.MaxAge < 0 {
		return fmt.Errorf("MaxAge는 0 이상이어야 합니다: %d", opts.MaxAge)
	}
	if opts.MaxSizeMB < 0 {
		return fmt.Errorf("MaxSizeMB는 0 이상이어야 합니다: %d", opts.MaxSizeMB)
	}
	if opts.MaxBackups < 0 {
		return fmt.Errorf("MaxBackups는 0 이상이어야 합니다: %d", opts.MaxBackups)
	}

	return nil
}
