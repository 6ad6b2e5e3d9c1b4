package log

// NewProductionOptions 운영 환경에 최적화된 로그 설정을 반환합니다.
func NewProductionOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: InfoLevel,

		MaxAge:     30,  // 30일 보관
		MaxSizeMB:  100, // 100MB 단위 로테이션
		MaxBackups: 20,  // 최대 20개 백업 유지

		EnableCriticalLog:  true,
		EnableVerboseLog:   true,
		EnableSyncAuditLog: true,
		EnableConsoleLog:   false,

		ReportCaller: true,
	}
}

// NewDevelopmentOptions 개발 환경에 최적화된 로그 설정을 반환합니다.
func NewDevelopmentOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: TraceLevel,

		MaxAge:     1,
		MaxSizeMB:  50,
		MaxBackups: 5,

		EnableCriticalLog:  false,
		EnableVerboseLog:   false,
		EnableSyncAuditLog: true, // 개발 중에도 동기화 결과는 따로 확인할 수 있도록 유지
		EnableConsoleLog:   true,

		ReportCaller: true,
	}
}
