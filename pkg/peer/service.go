package peer

import (
	"fmt"

	"github.com/dep2p/go-peerid/pkg/lib/crypto"
	"github.com/dep2p/go-peerid/pkg/lib/fingerprint"
)

// ============================================================================
//                              外部服务接口
// ============================================================================

// KeyService 密钥服务
//
// ID 只通过此接口接触密钥原语。
type KeyService interface {
	// GenerateKeyPair 生成指定类型和位数的密钥对，bits 为 0 表示默认位数
	GenerateKeyPair(keyType crypto.KeyType, bits int) (crypto.PrivateKey, crypto.PublicKey, error)

	// DerivePublicKey 从私钥派生公钥
	DerivePublicKey(priv crypto.PrivateKey) (crypto.PublicKey, error)

	// HashPublicKey 计算公钥序列化形式的指纹
	HashPublicKey(pub crypto.PublicKey) ([]byte, error)

	MarshalPublicKey(pub crypto.PublicKey) ([]byte, error)
	MarshalPrivateKey(priv crypto.PrivateKey) ([]byte, error)
	UnmarshalPublicKey(data []byte) (crypto.PublicKey, error)
	UnmarshalPrivateKey(data []byte) (crypto.PrivateKey, error)
}

// FingerprintCodec 指纹编解码服务
type FingerprintCodec interface {
	// Cast 校验并复制指纹字节
	Cast(b []byte) ([]byte, error)

	// Encode 返回指纹的 Base58 形式
	Encode(fp []byte) string

	// Decode 解析 Base58 形式的指纹
	Decode(s string) ([]byte, error)
}

// Hasher 把字节哈希为指纹
type Hasher interface {
	Sum(data []byte) ([]byte, error)
}

var (
	_ FingerprintCodec = (*fingerprint.Codec)(nil)
	_ Hasher           = (*fingerprint.Codec)(nil)
	_ KeyService       = (*DefaultKeyService)(nil)
)

// ============================================================================
//                              默认实现
// ============================================================================

// DefaultKeyService 基于 pkg/lib/crypto 的密钥服务
type DefaultKeyService struct {
	hasher Hasher
}

// NewKeyService 创建密钥服务，hasher 为 nil 时使用 sha2-256
func NewKeyService(hasher Hasher) *DefaultKeyService {
	if hasher == nil {
		hasher = fingerprint.Default()
	}
	return &DefaultKeyService{hasher: hasher}
}

// GenerateKeyPair 生成密钥对
func (s *DefaultKeyService) GenerateKeyPair(keyType crypto.KeyType, bits int) (crypto.PrivateKey, crypto.PublicKey, error) {
	return crypto.GenerateKeyPairWithBits(keyType, bits)
}

// DerivePublicKey 从私钥派生公钥
func (s *DefaultKeyService) DerivePublicKey(priv crypto.PrivateKey) (crypto.PublicKey, error) {
	if priv == nil {
		return nil, crypto.ErrNilPrivateKey
	}
	pub := priv.GetPublic()
	if pub == nil {
		return nil, fmt.Errorf("%w: cannot derive public key", crypto.ErrInvalidPrivateKey)
	}
	return pub, nil
}

// HashPublicKey 计算 hash(MarshalPublicKey(pub))
func (s *DefaultKeyService) HashPublicKey(pub crypto.PublicKey) ([]byte, error) {
	data, err := crypto.MarshalPublicKey(pub)
	if err != nil {
		return nil, err
	}
	return s.hasher.Sum(data)
}

// MarshalPublicKey 序列化公钥
func (s *DefaultKeyService) MarshalPublicKey(pub crypto.PublicKey) ([]byte, error) {
	return crypto.MarshalPublicKey(pub)
}

// MarshalPrivateKey 序列化私钥
func (s *DefaultKeyService) MarshalPrivateKey(priv crypto.PrivateKey) ([]byte, error) {
	return crypto.MarshalPrivateKey(priv)
}

// UnmarshalPublicKey 反序列化公钥
func (s *DefaultKeyService) UnmarshalPublicKey(data []byte) (crypto.PublicKey, error) {
	return crypto.UnmarshalPublicKeyBytes(data)
}

// UnmarshalPrivateKey 反序列化私钥
func (s *DefaultKeyService) UnmarshalPrivateKey(data []byte) (crypto.PrivateKey, error) {
	return crypto.UnmarshalPrivateKeyBytes(data)
}
