package crypto

import (
	"crypto/ed25519"
	"crypto/subtle"
	"fmt"
	"io"
)

// Ed25519 密钥常量
const (
	// Ed25519PrivateKeySize Ed25519 私钥大小（64 字节：种子 + 公钥）
	Ed25519PrivateKeySize = ed25519.PrivateKeySize
	// Ed25519PublicKeySize Ed25519 公钥大小（32 字节）
	Ed25519PublicKeySize = ed25519.PublicKeySize
	// Ed25519SeedSize Ed25519 种子大小（32 字节）
	Ed25519SeedSize = ed25519.SeedSize
)

// ============================================================================
//                              Ed25519PublicKey
// ============================================================================

// Ed25519PublicKey Ed25519 公钥实现
type Ed25519PublicKey struct {
	k ed25519.PublicKey
}

// Raw 返回 32 字节公钥的副本
func (k *Ed25519PublicKey) Raw() ([]byte, error) {
	if k == nil || len(k.k) != Ed25519PublicKeySize {
		return nil, ErrNilPublicKey
	}
	return append([]byte(nil), k.k...), nil
}

// Type 返回密钥类型
func (k *Ed25519PublicKey) Type() KeyType {
	return KeyTypeEd25519
}

// Equals 常量时间比较
func (k *Ed25519PublicKey) Equals(other Key) bool {
	ek, ok := other.(*Ed25519PublicKey)
	if !ok || k == nil || ek == nil {
		return KeyEqual(k, other)
	}
	return subtle.ConstantTimeCompare(k.k, ek.k) == 1
}

// ============================================================================
//                              Ed25519PrivateKey
// ============================================================================

// Ed25519PrivateKey Ed25519 私钥实现
type Ed25519PrivateKey struct {
	k ed25519.PrivateKey
}

// Raw 返回 64 字节私钥（种子 + 公钥）的副本
func (k *Ed25519PrivateKey) Raw() ([]byte, error) {
	if k == nil || len(k.k) != Ed25519PrivateKeySize {
		return nil, ErrNilPrivateKey
	}
	return append([]byte(nil), k.k...), nil
}

// Type 返回密钥类型
func (k *Ed25519PrivateKey) Type() KeyType {
	return KeyTypeEd25519
}

// Equals 常量时间比较
func (k *Ed25519PrivateKey) Equals(other Key) bool {
	ek, ok := other.(*Ed25519PrivateKey)
	if !ok || k == nil || ek == nil {
		return KeyEqual(k, other)
	}
	return subtle.ConstantTimeCompare(k.k, ek.k) == 1
}

// GetPublic 返回对应的公钥
func (k *Ed25519PrivateKey) GetPublic() PublicKey {
	if k == nil || len(k.k) != Ed25519PrivateKeySize {
		return nil
	}
	pub, ok := k.k.Public().(ed25519.PublicKey)
	if !ok {
		return nil
	}
	return &Ed25519PublicKey{k: pub}
}

// ============================================================================
//                              工厂函数
// ============================================================================

// GenerateEd25519Key 生成新的 Ed25519 密钥对
func GenerateEd25519Key(src io.Reader) (PrivateKey, PublicKey, error) {
	pub, priv, err := ed25519.GenerateKey(src)
	if err != nil {
		return nil, nil, err
	}
	return &Ed25519PrivateKey{k: priv}, &Ed25519PublicKey{k: pub}, nil
}

// UnmarshalEd25519PublicKey 从 32 字节反序列化公钥
func UnmarshalEd25519PublicKey(data []byte) (PublicKey, error) {
	if len(data) != Ed25519PublicKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKeySize, Ed25519PublicKeySize, len(data))
	}
	return &Ed25519PublicKey{k: append(ed25519.PublicKey(nil), data...)}, nil
}

// UnmarshalEd25519PrivateKey 反序列化 Ed25519 私钥
//
// 接受三种长度：
//   - 32 字节：仅种子
//   - 64 字节：种子 + 公钥
//   - 96 字节：64 字节私钥后附带冗余公钥（libp2p 旧格式）
//
// 64/96 字节格式中携带的公钥必须与种子派生的公钥一致。
func UnmarshalEd25519PrivateKey(data []byte) (PrivateKey, error) {
	switch len(data) {
	case Ed25519SeedSize:
		return &Ed25519PrivateKey{k: ed25519.NewKeyFromSeed(data)}, nil

	case Ed25519PrivateKeySize + Ed25519PublicKeySize:
		if subtle.ConstantTimeCompare(data[Ed25519SeedSize:Ed25519PrivateKeySize], data[Ed25519PrivateKeySize:]) != 1 {
			return nil, fmt.Errorf("%w: redundant public key mismatch", ErrInvalidPrivateKey)
		}
		data = data[:Ed25519PrivateKeySize]
		fallthrough

	case Ed25519PrivateKeySize:
		priv := ed25519.NewKeyFromSeed(data[:Ed25519SeedSize])
		if subtle.ConstantTimeCompare(priv[Ed25519SeedSize:], data[Ed25519SeedSize:]) != 1 {
			return nil, fmt.Errorf("%w: embedded public key does not match seed", ErrInvalidPrivateKey)
		}
		return &Ed25519PrivateKey{k: priv}, nil

	default:
		return nil, fmt.Errorf("%w: expected %d, %d or %d bytes, got %d",
			ErrInvalidKeySize, Ed25519SeedSize, Ed25519PrivateKeySize, Ed25519PrivateKeySize+Ed25519PublicKeySize, len(data))
	}
}
