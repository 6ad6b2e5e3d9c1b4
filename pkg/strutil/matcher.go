package strutil

import (
	"slices"
	"strings"
)

// KeywordMatcher 상품 제목/설명 같은 텍스트가 키워드 조건을 만족하는지 검사합니다.
//
// 키워드는 생성 시점에 소문자로 정리해 두므로 같은 조건으로 많은 텍스트를 반복 검사할 때 사용합니다.
type KeywordMatcher struct {
	// 그룹 간은 AND, 그룹 안은 OR입니다. 입력 "northern lights|aurora"는 하나의 그룹이 됩니다.
	groups [][]string

	// 하나라도 포함되면 매칭 실패
	excluded []string
}

// NewKeywordMatcher included의 각 항목을 파이프(|)로 나눈 OR 그룹으로, excluded를 제외 키워드로 사용합니다.
func NewKeywordMatcher(included, excluded []string) *KeywordMatcher {
	m := &KeywordMatcher{}

	for _, expr := range included {
		if alts := lowerAll(SplitAndTrim(expr, "|")); len(alts) > 0 {
			m.groups = append(m.groups, alts)
		}
	}
	for _, k := range excluded {
		if k = strings.TrimSpace(k); k != "" {
			m.excluded = append(m.excluded, strings.ToLower(k))
		}
	}

	return m
}

// NewAnyKeywordMatcher 키워드 중 하나라도 포함하면 매칭되는 KeywordMatcher를 생성합니다.
func NewAnyKeywordMatcher(keywords ...string) *KeywordMatcher {
	return NewKeywordMatcher([]string{strings.Join(keywords, "|")}, nil)
}

// Match 대소문자를 구분하지 않고 검사합니다.
func (m *KeywordMatcher) Match(s string) bool {
	text := strings.ToLower(s)
	contains := func(k string) bool { return strings.Contains(text, k) }

	if slices.ContainsFunc(m.excluded, contains) {
		return false
	}
	for _, alts := range m.groups {
		if !slices.ContainsFunc(alts, contains) {
			return false
		}
	}
	return true
}

func lowerAll(ss []string) []string {
	for i, s := range ss {
		ss[i] = strings.ToLower(s)
	}
	return ss
}
