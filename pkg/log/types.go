package log

import (
	"github.com/sirupsen/logrus"
)

// 호출 측이 logrus를 직접 가져오지 않고도 로그 레벨과 필드를 다룰 수 있도록 별칭을 제공합니다.
type (
	Level     = logrus.Level
	Fields    = logrus.Fields
	Entry     = logrus.Entry
	Logger    = logrus.Logger
	Formatter = logrus.Formatter
)

// 로그 레벨입니다. 심각도가 높은 순서입니다.
const (
	PanicLevel = logrus.PanicLevel
	FatalLevel = logrus.FatalLevel
	ErrorLevel = logrus.ErrorLevel
	WarnLevel  = logrus.WarnLevel
	InfoLevel  = logrus.InfoLevel
	DebugLevel = logrus.DebugLevel
	TraceLevel = logrus.TraceLevel
)

var AllLevels = logrus.AllLevels
