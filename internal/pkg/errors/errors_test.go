package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStd = errors.New("standard error")

// =============================================================================
// Creation
// =============================================================================

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		errType ErrorType
		message string
	}{
		{"NotFound", NotFound, "상품을 찾을 수 없습니다"},
		{"InvalidInput", InvalidInput, "productCodes 필드가 비어 있습니다"},
		{"Unavailable", Unavailable, "업스트림 카탈로그 API 일시 장애"},
		{"Empty Message", Internal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := New(tt.errType, tt.message)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.Contains(t, err.Error(), "["+tt.errType.String()+"]")
			assert.True(t, Is(err, tt.errType))
		})
	}
}

func TestNewf(t *testing.T) {
	t.Parallel()

	err := Newf(ExecutionFailed, "상품(%s) 상세 조회 실패", "424330P3")

	assert.EqualError(t, err, "[ExecutionFailed] 상품(424330P3) 상세 조회 실패")
}

// =============================================================================
// Wrapping
// =============================================================================

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("표준 에러 래핑", func(t *testing.T) {
		t.Parallel()

		wrapped := Wrap(errStd, System, "저장소 조회 실패")
		assert.EqualError(t, wrapped, "[System] 저장소 조회 실패: standard error")
		assert.True(t, errors.Is(wrapped, errStd))
	})

	t.Run("nil은 nil", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, Wrap(nil, Internal, "무시"))
		assert.Nil(t, Wrapf(nil, Internal, "무시 %d", 1))
	})

	t.Run("중첩 체인", func(t *testing.T) {
		t.Parallel()

		err := Wrap(Wrap(New(NotFound, "없음"), Internal, "내부"), System, "시스템")

		assert.True(t, Is(err, System))
		assert.True(t, Is(err, Internal))
		assert.True(t, Is(err, NotFound))
		assert.False(t, Is(err, Conflict))
	})
}

// =============================================================================
// Chain inspection
// =============================================================================

func TestIs_NilAndForeign(t *testing.T) {
	t.Parallel()

	assert.False(t, Is(nil, NotFound))
	assert.False(t, Is(errStd, NotFound))
	assert.False(t, Is(fmt.Errorf("context: %w", errStd), NotFound))
	assert.True(t, Is(fmt.Errorf("context: %w", New(NotFound, "x")), NotFound))
}

func TestAs(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("outer: %w", New(Conflict, "슬러그 중복"))

	var appErr *AppError
	require.True(t, As(err, &appErr))
	assert.Equal(t, Conflict, appErr.Type())
	assert.Equal(t, "슬러그 중복", appErr.Message())
	assert.NotEmpty(t, appErr.Stack())
}

func TestRootCause(t *testing.T) {
	t.Parallel()

	root := New(NotFound, "not found")
	err := Wrap(Wrap(root, Internal, "internal"), System, "system")

	assert.Equal(t, root, RootCause(err))
	assert.Equal(t, errStd, RootCause(Wrap(errStd, System, "x")))
	assert.Nil(t, RootCause(nil))
}

func TestUnderlyingType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, Unknown},
		{"외부 에러", errStd, Unknown},
		{"단일 AppError", New(Conflict, "x"), Conflict},
		{"가장 안쪽 타입 우선", Wrap(New(NotFound, "x"), System, "y"), NotFound},
		{"외부 에러를 감싼 경우", Wrap(context.DeadlineExceeded, Timeout, "x"), Timeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, UnderlyingType(tt.err))
		})
	}
}

// =============================================================================
// Formatting
// =============================================================================

func TestAppError_Format(t *testing.T) {
	t.Parallel()

	err := Wrap(errStd, System, "MongoDB 연결 실패")

	assert.Equal(t, err.Error(), fmt.Sprintf("%s", err))
	assert.Equal(t, err.Error(), fmt.Sprintf("%v", err))
	assert.Equal(t, fmt.Sprintf("%q", err.Error()), fmt.Sprintf("%q", err))

	detailed := fmt.Sprintf("%+v", err)
	assert.True(t, strings.HasPrefix(detailed, "[System] MongoDB 연결 실패"))
	assert.Contains(t, detailed, "Stack trace:")
	assert.Contains(t, detailed, "errors_test.go")
	assert.Contains(t, detailed, "Caused by:")
	assert.Contains(t, detailed, "standard error")
}

func TestAppError_Format_StackOnlyAtBoundary(t *testing.T) {
	t.Parallel()

	err := Wrap(New(NotFound, "inner"), Internal, "outer")

	detailed := fmt.Sprintf("%+v", err)
	assert.Equal(t, 1, strings.Count(detailed, "Stack trace:"))
}

func TestErrorType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Unknown", Unknown.String())
	assert.Equal(t, "ParsingFailed", ParsingFailed.String())
	assert.Equal(t, "Unavailable", Unavailable.String())
	assert.Equal(t, "ErrorType(-1)", ErrorType(-1).String())
	assert.Equal(t, "ErrorType(999)", ErrorType(999).String())
}

func TestTypeOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Unknown, TypeOf(nil))
	assert.Equal(t, Unknown, TypeOf(errStd))
	assert.Equal(t, System, TypeOf(Wrap(New(NotFound, "x"), System, "y")))
	assert.Equal(t, Unavailable, TypeOf(fmt.Errorf("ctx: %w", Wrap(New(Unauthorized, "x"), Unavailable, "y"))))
}
