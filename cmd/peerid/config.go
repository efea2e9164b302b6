package main

import (
	"os"
	"strconv"

	"github.com/dep2p/go-peerid/config"
)

// 环境变量（均使用 DEP2P_ 前缀）
const (
	envPrefix             = "DEP2P_"
	envIdentityKeyFile    = "IDENTITY_KEY_FILE"
	envIdentityKeyType    = "IDENTITY_KEY_TYPE"
	envIdentityKeyBits    = "IDENTITY_KEY_BITS"
	envIdentityHash       = "IDENTITY_HASH_FUNCTION"
	envIdentityAutoCreate = "IDENTITY_AUTO_GENERATE"
)

// ============================================================================
//                              配置加载（CLI 专用）
// ============================================================================

// loadConfig 加载配置文件，路径为空时使用默认配置
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.NewConfig(), nil
	}
	return config.LoadFile(path)
}

// applyEnvOverrides 应用环境变量覆盖配置
//
// 环境变量优先级高于配置文件，低于命令行参数：
//   - DEP2P_IDENTITY_KEY_FILE: 身份记录文件
//   - DEP2P_IDENTITY_KEY_TYPE: 密钥类型
//   - DEP2P_IDENTITY_KEY_BITS: 密钥位数
//   - DEP2P_IDENTITY_HASH_FUNCTION: 指纹哈希函数
//   - DEP2P_IDENTITY_AUTO_GENERATE: 是否自动生成
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv(envPrefix + envIdentityKeyFile); v != "" {
		cfg.Identity.KeyFile = v
	}
	if v := os.Getenv(envPrefix + envIdentityKeyType); v != "" {
		cfg.Identity.KeyType = v
	}
	if v := os.Getenv(envPrefix + envIdentityKeyBits); v != "" {
		if bits, err := strconv.Atoi(v); err == nil {
			cfg.Identity.KeyBits = bits
		}
	}
	if v := os.Getenv(envPrefix + envIdentityHash); v != "" {
		cfg.Identity.HashFunction = v
	}
	if v := os.Getenv(envPrefix + envIdentityAutoCreate); v != "" {
		if auto, err := strconv.ParseBool(v); err == nil {
			cfg.Identity.AutoGenerate = auto
		}
	}
}
