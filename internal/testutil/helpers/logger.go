package helpers

import (
	"github.com/douhashi/conflictlabel/internal/logger"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewObservedLogger はログを記録するlogger.Loggerを返す
// 本番と同じくサニタイズを通したフィールドが記録される
func NewObservedLogger(level zapcore.Level) (logger.Logger, *observer.ObservedLogs) {
	core, recorded := observer.New(level)
	return logger.NewWithCore(core), recorded
}

// FieldsOf returns the context fields of every entry with the given message.
func FieldsOf(logs *observer.ObservedLogs, msg string) []map[string]interface{} {
	entries := logs.FilterMessage(msg).All()
	fields := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		fields = append(fields, e.ContextMap())
	}
	return fields
}
