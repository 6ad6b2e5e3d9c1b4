// Package errors 카탈로그 동기화 서비스 전용 에러 처리 시스템을 제공합니다.
//
// 표준 errors 패키지를 확장하여 ErrorType 기반의 에러 분류와 에러 체이닝을 지원합니다.
// 모든 계층(Viator 클라이언트, 저장소, 동기화 오케스트레이터, HTTP 핸들러)은 이 패키지의
// AppError를 사용하여 실패를 표현하며, HTTP 계층은 ErrorType을 응답 상태 코드로 변환합니다.
//
// # 기본 사용법
//
//	err := errors.New(errors.NotFound, "상품을 찾을 수 없습니다")
//
//	if err != nil {
//	    return errors.Wrap(err, errors.System, "카탈로그 저장소 조회 실패")
//	}
//
//	if errors.Is(err, errors.NotFound) {
//	    // NotFound 처리
//	}
//
// # ErrorType 선택 가이드
//
//   - InvalidInput: 요청 본문 검증 실패, 잘못된 상품 코드 형식
//   - Unauthorized: 공유 비밀키(Shared Secret) 불일치
//   - NotFound: 로컬 저장소에 레코드가 없음
//   - Conflict: 슬러그 중복 등 저장소 제약 위반
//   - ExecutionFailed: 업스트림 카탈로그 API 호출 실패 (4xx 등 재시도 무의미)
//   - Unavailable: 업스트림 일시 장애 (5xx, 429)
//   - ParsingFailed: 업스트림 응답 JSON 해석 실패
//   - System: MongoDB/Redis 연결, 파일 I/O 등 인프라 장애
//   - Timeout: 컨텍스트 타임아웃
//   - Internal: 예상하지 못한 상태 (버그)
package errors
