package errors

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// AppError 분류(ErrorType), 메시지, 원인 에러, 생성 지점의 스택을 함께 담는 에러입니다.
//
// 업스트림 호출, 저장소, 동기화 단계는 모두 AppError를 반환하며, HTTP 계층은
// 가장 바깥쪽 AppError의 분류로 응답 코드를 결정합니다.
type AppError struct {
	errType ErrorType
	message string
	cause   error
	stack   []StackFrame
}

func build(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		errType: errType,
		message: message,
		cause:   cause,
		stack:   captureStack(defaultCallerSkip + 1),
	}
}

// New 원인 에러 없이 새로운 AppError를 생성합니다.
func New(errType ErrorType, message string) error {
	return build(errType, message, nil)
}

// Newf New와 같지만 메시지를 포맷 문자열로 만듭니다.
func Newf(errType ErrorType, format string, args ...any) error {
	return build(errType, fmt.Sprintf(format, args...), nil)
}

// Wrap err을 원인으로 하는 AppError를 생성합니다. err이 nil이면 nil을 반환합니다.
func Wrap(err error, errType ErrorType, message string) error {
	if err == nil {
		return nil
	}
	return build(errType, message, err)
}

// Wrapf Wrap과 같지만 메시지를 포맷 문자열로 만듭니다.
func Wrapf(err error, errType ErrorType, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return build(errType, fmt.Sprintf(format, args...), err)
}

func (e *AppError) Type() ErrorType     { return e.errType }
func (e *AppError) Message() string     { return e.message }
func (e *AppError) Stack() []StackFrame { return e.stack }
func (e *AppError) Unwrap() error       { return e.cause }

// Error "[분류] 메시지: 원인" 형식의 문자열을 반환합니다.
func (e *AppError) Error() string {
	head := "[" + e.errType.String() + "] " + e.message
	if e.cause == nil {
		return head
	}
	return head + ": " + e.cause.Error()
}

// Format %+v로 출력하면 원인 체인과 스택 트레이스를 함께 기록합니다.
// 스택은 체인에서 가장 안쪽 AppError(또는 외부 에러와 맞닿은 AppError)에서만 한 번 출력됩니다.
func (e *AppError) Format(s fmt.State, verb rune) {
	switch {
	case verb == 'v' && s.Flag('+'):
		fmt.Fprintf(s, "[%s] %s", e.errType, e.message)

		var inner *AppError
		if !errors.As(e.cause, &inner) {
			writeStack(s, e.stack)
		}
		if e.cause == nil {
			return
		}

		io.WriteString(s, "\nCaused by:\n")
		if f, ok := e.cause.(fmt.Formatter); ok {
			f.Format(s, verb)
		} else {
			fmt.Fprintf(s, "\t%v", e.cause)
		}
	case verb == 'q':
		fmt.Fprintf(s, "%q", e.Error())
	default:
		io.WriteString(s, e.Error())
	}
}

func writeStack(w io.Writer, frames []StackFrame) {
	if len(frames) == 0 {
		return
	}

	io.WriteString(w, "\nStack trace:")
	for _, f := range frames {
		fn := f.Function
		if i := strings.LastIndexByte(fn, '/'); i >= 0 {
			fn = fn[i+1:]
		}
		fmt.Fprintf(w, "\n\t%s:%d %s", f.File, f.Line, fn)
	}
}

// Is 에러 체인의 AppError 중 하나라도 errType으로 분류되어 있는지 확인합니다.
func Is(err error, errType ErrorType) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if appErr, ok := err.(*AppError); ok && appErr.errType == errType {
			return true
		}
	}
	return false
}

// As errors.As와 같습니다. 호출 측에서 표준 errors 패키지를 함께 가져오지 않아도 되도록 제공합니다.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// RootCause 체인의 가장 안쪽 에러를 반환합니다.
func RootCause(err error) error {
	for err != nil {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
	return nil
}

// TypeOf 체인에서 가장 바깥쪽 AppError의 분류를 반환합니다. AppError가 없으면 Unknown입니다.
//
// 동기화 단계가 업스트림 인증 실패(Unauthorized)를 Unavailable로 감싼 경우처럼,
// 호출자가 마지막에 부여한 의미가 필요할 때 사용합니다.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.errType
	}
	return Unknown
}

// UnderlyingType 체인에서 가장 안쪽 AppError의 분류를 반환합니다. AppError가 없으면 Unknown입니다.
//
// 저장소의 NotFound를 상위 단계가 System으로 한 번 더 감쌌더라도 NotFound가 반환됩니다.
func UnderlyingType(err error) ErrorType {
	t := Unknown
	for ; err != nil; err = errors.Unwrap(err) {
		if appErr, ok := err.(*AppError); ok {
			t = appErr.errType
		}
	}
	return t
}
