// Package logger 提供进程内统一的子系统日志
//
// 基于 log/slog，每个子系统一个 Logger，级别可按子系统配置：
//
//	var log = logger.Logger("identity")
//
//	log.Info("local identity loaded", "peer", id.ShortString())
//
// 环境变量：
//
//	# identity 模块 debug，其余 warn
//	DEP2P_LOG_LEVEL=identity=debug,warn
//
//	# JSON 输出
//	DEP2P_LOG_FORMAT=json
//
// pkg/ 下的公共库只写 slog.Default()，InstallDefault 把它接到这里的输出上。
package logger

import (
	"io"
	"log/slog"
	"sync"
)

// GlobalSubsystem 全局 Logger 的子系统名
const GlobalSubsystem = "peerid"

var (
	loggers  sync.Map // map[string]*slog.Logger
	handlers sync.Map // map[string]*subsystemHandler
)

// Logger 返回子系统的 Logger，同名调用返回同一实例
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	h := newHandler(subsystem, ConfigFromEnv())
	l, loaded := loggers.LoadOrStore(subsystem, slog.New(h))
	if !loaded {
		handlers.Store(subsystem, h)
	}
	return l.(*slog.Logger)
}

// GlobalLogger 返回不属于具体子系统的 Logger，也是 fx 注入的默认 Logger
func GlobalLogger() *slog.Logger {
	return Logger(GlobalSubsystem)
}

// InstallDefault 把 slog.Default() 指向全局 Logger
//
// pkg/lib/log 的 LazyLogger 随之输出到同一目标，并遵循同一套级别配置。
func InstallDefault() {
	slog.SetDefault(GlobalLogger())
}

// SetLevel 运行时调整子系统级别
func SetLevel(subsystem string, level slog.Level) {
	if h, ok := handlers.Load(subsystem); ok {
		h.(*subsystemHandler).SetLevel(level)
	}
}

// SetGlobalLevel 把所有已创建子系统的级别设为 level
func SetGlobalLevel(level slog.Level) {
	handlers.Range(func(_, h any) bool {
		h.(*subsystemHandler).SetLevel(level)
		return true
	})
}

// With 返回带预设属性的子系统 Logger
func With(subsystem string, args ...any) *slog.Logger {
	return Logger(subsystem).With(args...)
}

// Discard 返回丢弃所有日志的 Logger
func Discard() *slog.Logger {
	return slog.New(DiscardHandler())
}

// SetOutput 切换全局输出目标，已创建的 Logger 同样生效
//
//	file, _ := os.OpenFile("peerid.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
//	logger.SetOutput(file)
func SetOutput(w io.Writer) {
	outputMu.Lock()
	output = w
	outputMu.Unlock()
}
