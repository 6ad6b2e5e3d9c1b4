package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/darkkaiser/nordexplore/internal/config"
	"github.com/darkkaiser/nordexplore/internal/pkg/version"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
)

// @title NordExplore Catalog Sync API
// @version 1.0
// @description Viator 파트너 카탈로그의 북유럽 투어를 로컬 저장소와 동기화하는 관리 API입니다.
// @description
// @description ## 인증
// @description - /admin/tours: X-Admin-Secret 헤더 (또는 Authorization: Bearer)
// @description - /sync, /import: Authorization: Bearer 토큰
// @description - /rates, /health, /version, /metrics: 인증 없음

// @contact.name DarkKaiser
// @contact.url https://github.com/DarkKaiser

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /

// @securityDefinitions.apikey AdminSecret
// @in header
// @name X-Admin-Secret

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const (
	banner = `
  _   _                _ _____            _
 | \ | | ___  _ __ __| | ____|_  ___ __ | | ___  _ __ ___
 |  \| |/ _ \| '__/ _' |  _| \ \/ / '_ \| |/ _ \| '__/ _ \
 | |\  | (_) | | | (_| | |___ >  <| |_) | | (_) | | |  __/
 |_| \_|\___/|_|  \__,_|_____/_/\_\ .__/|_|\___/|_|  \___|
                                  |_|          %s
--------------------------------------------------------------------------------
`
)

func main() {
	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	} else {
		logOpts = applog.NewProductionOptions(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패. 서버 구동을 중단합니다. (Cause: %v)\n", err)
		os.Exit(1)
	}
	defer appLogCloser.Close()

	applog.SetDebugMode(appConfig.Debug)

	buildInfo := version.Get()
	fmt.Printf(banner, buildInfo.Version)

	applog.WithComponentAndFields("main", applog.Fields{
		"version": buildInfo.String(),
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("서버 초기화 시작")

	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent("main").Warn(warning)
	}

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := buildApp(serviceStopCtx, appConfig, buildInfo)
	if err != nil {
		applog.WithComponentAndFields("main", applog.Fields{"error": err}).Error("서비스 구성 실패")
		appLogCloser.Close()
		os.Exit(1)
	}
	defer a.close()

	serviceStopWG := &sync.WaitGroup{}

	for _, s := range a.services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields("main", applog.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel()
			serviceStopWG.Wait()
			a.close()
			appLogCloser.Close()
			os.Exit(1)
		}
	}

	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("서버 가동 완료")

	<-termC

	applog.WithComponent("main").Info("종료 신호 수신")
	cancel()
	serviceStopWG.Wait()
}
