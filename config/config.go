// Package config 提供 peerid 的配置
//
// 每个子配置在独立文件中定义，提供 DefaultXConfig() 与 Validate()。
// 配置以 JSON 保存：
//
//	cfg := config.NewConfig()
//	cfg.Identity = cfg.Identity.WithKeyType("Secp256k1").WithKeyFile("/var/lib/peerid/identity.json")
//
//	// 从文件加载（缺失的字段保留默认值）
//	cfg, err := config.LoadFile("peerid.json")
package config

// Config peerid 的完整配置
type Config struct {
	// Identity 身份配置
	Identity IdentityConfig `json:"identity"`

	// Log 日志配置
	Log LogConfig `json:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Identity: DefaultIdentityConfig(),
		Log:      DefaultLogConfig(),
	}
}

// Validate 依次验证各子配置
func (c *Config) Validate() error {
	if err := c.Identity.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return nil
}
