package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dep2p/go-peerid/pkg/lib/crypto"
	"github.com/dep2p/go-peerid/pkg/lib/fingerprint"
)

// IdentityConfig 身份配置
//
// 描述本地身份如何生成、用什么哈希算指纹、保存在哪里：
//   - 密钥类型与位数
//   - 指纹哈希函数（multihash 名称）
//   - 身份记录文件路径
type IdentityConfig struct {
	// KeyType 密钥类型
	// 可选值: "Ed25519", "RSA", "ECDSA", "Secp256k1"（大小写不敏感）
	KeyType string `json:"key_type"`

	// KeyBits 密钥位数，0 表示该类型的默认值
	// RSA: 1024-8192；ECDSA: 256/384/521；Ed25519、Secp256k1 固定 256
	KeyBits int `json:"key_bits,omitempty"`

	// HashFunction 指纹哈希函数的 multihash 名称
	// 例如 "sha2-256"（默认）、"sha2-512"、"blake3"、"identity"
	HashFunction string `json:"hash_function"`

	// KeyFile 身份记录文件路径
	// 为空时只在内存中生成临时身份
	KeyFile string `json:"key_file"`

	// AutoGenerate 记录文件不存在时是否生成新身份并写入
	AutoGenerate bool `json:"auto_generate"`

	// GenerateTimeout 生成密钥的超时时间
	GenerateTimeout Duration `json:"generate_timeout"`

	// FingerprintCacheSize 公钥指纹缓存容量，0 表示不缓存
	// 解析大量远端公钥时可避免重复哈希
	FingerprintCacheSize int `json:"fingerprint_cache_size,omitempty"`
}

// DefaultIdentityConfig 返回默认身份配置
func DefaultIdentityConfig() IdentityConfig {
	return IdentityConfig{
		KeyType:         "Ed25519",
		HashFunction:    "sha2-256",
		AutoGenerate:    true,
		GenerateTimeout: Duration(30 * time.Second),
	}
}

// Validate 验证身份配置
func (c IdentityConfig) Validate() error {
	kt, err := c.ParsedKeyType()
	if err != nil {
		return err
	}
	if err := crypto.ValidateKeySize(kt, c.KeyBits); err != nil {
		return fmt.Errorf("identity.key_bits: %w", err)
	}
	if _, err := fingerprint.NewCodecByName(c.HashFunction); err != nil {
		return fmt.Errorf("identity.hash_function: %w", err)
	}
	if c.GenerateTimeout < 0 {
		return errors.New("identity.generate_timeout must not be negative")
	}
	if c.FingerprintCacheSize < 0 {
		return errors.New("identity.fingerprint_cache_size must not be negative")
	}
	if c.KeyFile == "" && !c.AutoGenerate {
		return errors.New("identity: auto_generate is required when key_file is empty")
	}
	return nil
}

// ParsedKeyType 返回 KeyType 对应的密钥类型
func (c IdentityConfig) ParsedKeyType() (crypto.KeyType, error) {
	kt, err := crypto.ParseKeyType(c.KeyType)
	if err != nil {
		return crypto.KeyTypeUnspecified, fmt.Errorf("identity.key_type: %w", err)
	}
	return kt, nil
}

// WithKeyType 设置密钥类型
func (c IdentityConfig) WithKeyType(keyType string) IdentityConfig {
	c.KeyType = keyType
	return c
}

// WithKeyBits 设置密钥位数
func (c IdentityConfig) WithKeyBits(bits int) IdentityConfig {
	c.KeyBits = bits
	return c
}

// WithHashFunction 设置指纹哈希函数
func (c IdentityConfig) WithHashFunction(name string) IdentityConfig {
	c.HashFunction = name
	return c
}

// WithKeyFile 设置身份记录文件路径
func (c IdentityConfig) WithKeyFile(path string) IdentityConfig {
	c.KeyFile = path
	return c
}

// WithAutoGenerate 设置是否自动生成
func (c IdentityConfig) WithAutoGenerate(auto bool) IdentityConfig {
	c.AutoGenerate = auto
	return c
}

// WithFingerprintCache 设置公钥指纹缓存容量
func (c IdentityConfig) WithFingerprintCache(size int) IdentityConfig {
	c.FingerprintCacheSize = size
	return c
}
