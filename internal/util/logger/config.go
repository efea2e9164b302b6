package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// 环境变量
const (
	EnvLevel     = "DEP2P_LOG_LEVEL"
	EnvFormat    = "DEP2P_LOG_FORMAT"
	EnvAddSource = "DEP2P_LOG_ADD_SOURCE"
)

// LogFormat 日志输出格式
type LogFormat int

const (
	// FormatText 文本格式（默认）
	FormatText LogFormat = iota
	// FormatJSON JSON 格式
	FormatJSON
)

// ParseFormat 解析格式名称，未知名称回落到文本格式
func ParseFormat(name string) LogFormat {
	if strings.EqualFold(strings.TrimSpace(name), "json") {
		return FormatJSON
	}
	return FormatText
}

// Config 日志配置
type Config struct {
	// DefaultLevel 未单独配置的子系统使用的级别
	DefaultLevel slog.Level

	// SubsystemLevels 各子系统的级别
	SubsystemLevels map[string]slog.Level

	// Format 输出格式
	Format LogFormat

	// AddSource 是否输出源码位置
	AddSource bool
}

// LevelForSubsystem 返回子系统的日志级别
func (c *Config) LevelForSubsystem(subsystem string) slog.Level {
	if level, ok := c.SubsystemLevels[subsystem]; ok {
		return level
	}
	return c.DefaultLevel
}

var (
	configMu    sync.RWMutex
	configCache *Config
)

// ConfigFromEnv 返回当前配置
//
// 首次调用时解析环境变量：
//   - DEP2P_LOG_LEVEL: 子系统=级别,...,默认级别，例如 peer=debug,warn
//   - DEP2P_LOG_FORMAT: text 或 json
//   - DEP2P_LOG_ADD_SOURCE: true 或 false
func ConfigFromEnv() *Config {
	configMu.RLock()
	cfg := configCache
	configMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	configMu.Lock()
	defer configMu.Unlock()
	if configCache == nil {
		configCache = parseEnv()
	}
	return configCache
}

func parseEnv() *Config {
	cfg := &Config{
		DefaultLevel:    slog.LevelInfo,
		SubsystemLevels: make(map[string]slog.Level),
		Format:          ParseFormat(os.Getenv(EnvFormat)),
	}
	parseLevelSpec(cfg, os.Getenv(EnvLevel))

	if v := os.Getenv(EnvAddSource); v != "" {
		cfg.AddSource = v != "false" && v != "0"
	}
	return cfg
}

// Apply 用配置文件中的设置覆盖当前配置
//
// levelSpec 与 DEP2P_LOG_LEVEL 同格式；环境变量中的子系统级别仍然保留，
// 除非 levelSpec 重新指定。已创建的 Logger 立即切换到新级别；
// 格式只对之后创建的 Logger 生效。
func Apply(levelSpec, format string, addSource bool) {
	base := ConfigFromEnv()

	next := &Config{
		DefaultLevel:    base.DefaultLevel,
		SubsystemLevels: make(map[string]slog.Level, len(base.SubsystemLevels)),
		Format:          ParseFormat(format),
		AddSource:       addSource,
	}
	for k, v := range base.SubsystemLevels {
		next.SubsystemLevels[k] = v
	}
	parseLevelSpec(next, levelSpec)

	configMu.Lock()
	configCache = next
	configMu.Unlock()

	handlers.Range(func(key, value any) bool {
		value.(*subsystemHandler).SetLevel(next.LevelForSubsystem(key.(string)))
		return true
	})
}

// ValidateLevelSpec 检查级别配置串中的每一项都能解析
func ValidateLevelSpec(spec string) error {
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name := part
		if _, v, ok := strings.Cut(part, "="); ok {
			name = strings.TrimSpace(v)
		}
		if _, ok := ParseLevel(name); !ok {
			return &LevelError{Spec: part}
		}
	}
	return nil
}

// LevelError 无法解析的级别配置项
type LevelError struct {
	Spec string
}

func (e *LevelError) Error() string {
	return "unknown log level: " + e.Spec
}

// parseLevelSpec 解析 子系统=级别,...,默认级别，无法识别的项被忽略
func parseLevelSpec(cfg *Config, spec string) {
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if subsystem, name, ok := strings.Cut(part, "="); ok {
			if level, ok := ParseLevel(strings.TrimSpace(name)); ok {
				cfg.SubsystemLevels[strings.TrimSpace(subsystem)] = level
			}
			continue
		}
		if level, ok := ParseLevel(part); ok {
			cfg.DefaultLevel = level
		}
	}
}

// ParseLevel 解析级别名称（大小写不敏感）
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// ResetConfig 丢弃缓存的配置，下次访问重新读取环境变量（测试用）
func ResetConfig() {
	configMu.Lock()
	configCache = nil
	configMu.Unlock()
}
