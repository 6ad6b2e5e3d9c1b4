// Package log logrus 기반의 전역 로깅 시스템을 제공합니다.
//
// 하나의 Hook이 로그 레벨과 component 필드에 따라 로그를 여러 파일로 분배합니다.
//
//   - name.log: INFO 이상의 운영 로그
//   - name.critical.log: ERROR 이상의 장애 로그
//   - name.verbose.log: DEBUG 이하의 상세 로그
//   - name.sync.log: "catalog.sync" 컴포넌트의 동기화 감사(Audit) 로그
//
// 모든 파일은 lumberjack을 통해 크기 기준으로 로테이션됩니다.
package log
