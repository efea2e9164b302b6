// Package log 提供 pkg/ 下公共库使用的日志入口
//
// 公共库不依赖 internal/ 的日志配置，统一写到 slog.Default()。
// 嵌入方通过 slog.SetDefault 或 SetOutput 决定输出位置和级别。
package log

import (
	"io"
	"log/slog"
)

// SetOutput 把默认 logger 重定向到 w，使用指定级别的文本格式
//
// 示例：
//
//	file, _ := os.OpenFile("peerid.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
//	log.SetOutput(file, slog.LevelDebug)
func SetOutput(w io.Writer, level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, opts)))
}

// ============================================================================
//                              LazyLogger
// ============================================================================

// LazyLogger 懒加载 logger
//
// 每次调用都从 slog.Default() 取 handler，运行时切换默认 logger 立即生效。
//
//	var log = log.Logger("peer")
//	log.Debug("generated", "peer", id.ShortString())
type LazyLogger struct {
	component string
}

// Logger 返回带组件名的 LazyLogger
func Logger(component string) *LazyLogger {
	return &LazyLogger{component: component}
}

func (l *LazyLogger) current() *slog.Logger {
	return slog.Default().With("component", l.component)
}

// Debug 输出 Debug 级别日志
func (l *LazyLogger) Debug(msg string, args ...any) {
	l.current().Debug(msg, args...)
}

// Info 输出 Info 级别日志
func (l *LazyLogger) Info(msg string, args ...any) {
	l.current().Info(msg, args...)
}

// Warn 输出 Warn 级别日志
func (l *LazyLogger) Warn(msg string, args ...any) {
	l.current().Warn(msg, args...)
}

// Error 输出 Error 级别日志
func (l *LazyLogger) Error(msg string, args ...any) {
	l.current().Error(msg, args...)
}

// With 返回带额外属性的 *slog.Logger（取当时的默认 handler）
func (l *LazyLogger) With(args ...any) *slog.Logger {
	return l.current().With(args...)
}
