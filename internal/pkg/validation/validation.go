// Package validation 설정 값 검증에 사용하는 도메인 독립적인 검사 함수들을 제공합니다.
package validation

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// hostnameLabelRegex RFC 1123 호스트명 레이블 형식입니다.
var hostnameLabelRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

// ValidateCORSOrigin 'Scheme://Host[:Port]' 형식의 CORS Origin인지 검증합니다.
// 와일드카드('*')는 유효하며, 경로/쿼리/프래그먼트/사용자 정보가 포함되면 거부합니다.
func ValidateCORSOrigin(origin string) error {
	origin = strings.TrimSpace(origin)
	switch {
	case origin == "*":
		return nil
	case origin == "":
		return fmt.Errorf("CORS Origin은 비어있을 수 없습니다")
	case strings.HasSuffix(origin, "/"):
		return fmt.Errorf("CORS Origin은 '/'로 끝날 수 없습니다 (input=%q)", origin)
	}

	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("CORS Origin이 유효한 URL 형식이 아닙니다 (input=%q): %w", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("CORS Origin은 'http' 또는 'https' 스키마만 허용됩니다 (input=%q)", origin)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return fmt.Errorf("CORS Origin에는 경로, 쿼리, 프래그먼트, 사용자 정보를 포함할 수 없습니다 (input=%q)", origin)
	}

	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("CORS Origin의 포트 번호가 유효하지 않습니다 (input=%q)", origin)
		}
		if err := ValidatePort(port); err != nil {
			return fmt.Errorf("CORS Origin 포트 오류: %w (input=%q)", err, origin)
		}
	}

	return ValidateHostname(u.Hostname())
}

// ValidatePort 포트 번호가 1-65535 범위인지 검증합니다.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("유효한 포트 범위(1-65535)가 아닙니다 (port=%d)", port)
	}
	return nil
}

// ValidateHostname localhost, IP 주소, 또는 RFC 1123 도메인명인지 검증합니다.
func ValidateHostname(host string) error {
	if host == "" {
		return fmt.Errorf("호스트명이 비어 있습니다")
	}
	if strings.EqualFold(host, "localhost") || net.ParseIP(host) != nil {
		return nil
	}
	if len(host) > 253 {
		return fmt.Errorf("호스트명이 너무 깁니다 (host=%q)", host)
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return fmt.Errorf("도메인명에는 최상위 도메인이 필요합니다 (host=%q)", host)
	}
	for _, label := range labels {
		if !hostnameLabelRegex.MatchString(label) {
			return fmt.Errorf("호스트명 형식이 올바르지 않습니다 (host=%q)", host)
		}
	}
	return nil
}

// ValidateURL 주어진 문자열이 허용된 스키마와 호스트를 가진 절대 URL인지 검증합니다.
// schemes가 비어 있으면 http, https만 허용합니다.
func ValidateURL(raw string, schemes ...string) error {
	if len(schemes) == 0 {
		schemes = []string{"http", "https"}
	}

	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("URL 형식이 올바르지 않습니다 (input=%q): %w", raw, err)
	}
	if !slices.Contains(schemes, strings.ToLower(u.Scheme)) {
		return fmt.Errorf("허용되지 않은 URL 스키마입니다 (input=%q, allowed=%v)", raw, schemes)
	}
	if u.Host == "" {
		return fmt.Errorf("URL에 호스트 정보가 없습니다 (input=%q)", raw)
	}
	return nil
}
