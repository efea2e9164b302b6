package config

import (
	"errors"
	"fmt"
)

// ValidateAll 验证整个配置，nil 配置视为错误
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// ValidateAndFix 补齐可推断的缺省值后再验证
//
// 修复项：
//   - 空的哈希函数 -> sha2-256
//   - 未设置超时 -> 默认超时
//   - 空的日志格式 -> text
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	def := NewConfig()
	if c.Identity.HashFunction == "" {
		c.Identity.HashFunction = def.Identity.HashFunction
	}
	if c.Identity.GenerateTimeout == 0 {
		c.Identity.GenerateTimeout = def.Identity.GenerateTimeout
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed after fixes: %w", err)
	}
	return c, nil
}

// MustValidate 验证失败时 panic，只用于初始化和测试
func MustValidate(c *Config) {
	if err := ValidateAll(c); err != nil {
		panic(fmt.Sprintf("config validation failed: %v", err))
	}
}
