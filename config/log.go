package config

import (
	"fmt"

	"github.com/dep2p/go-peerid/internal/util/logger"
)

// LogConfig 日志配置
//
// 与 DEP2P_LOG_* 环境变量同义；配置文件中的值在启动时覆盖环境变量。
type LogConfig struct {
	// Level 级别配置串，格式: 子系统=级别,...,默认级别
	// 示例: "identity=debug,info"；为空时沿用环境变量
	Level string `json:"level,omitempty"`

	// Format 输出格式: "text" 或 "json"
	Format string `json:"format"`

	// AddSource 是否输出源码位置
	AddSource bool `json:"add_source,omitempty"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Format: "text",
	}
}

// Validate 验证日志配置
func (c LogConfig) Validate() error {
	switch c.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format: must be text or json, got %q", c.Format)
	}
	if err := logger.ValidateLevelSpec(c.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Apply 把日志配置应用到进程的 logger
func (c LogConfig) Apply() {
	logger.Apply(c.Level, c.Format, c.AddSource)
}
