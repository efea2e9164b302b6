package crypto

import (
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Secp256k1 密钥常量
const (
	// Secp256k1PrivateKeySize Secp256k1 私钥大小（32 字节）
	Secp256k1PrivateKeySize = secp256k1.PrivKeyBytesLen
	// Secp256k1PublicKeySize Secp256k1 压缩公钥大小（33 字节）
	Secp256k1PublicKeySize = secp256k1.PubKeyBytesLenCompressed
)

// ============================================================================
//                              Secp256k1PublicKey
// ============================================================================

// Secp256k1PublicKey Secp256k1 公钥实现
type Secp256k1PublicKey struct {
	k *secp256k1.PublicKey
}

// Raw 返回 33 字节压缩公钥
func (k *Secp256k1PublicKey) Raw() ([]byte, error) {
	if k == nil || k.k == nil {
		return nil, ErrNilPublicKey
	}
	return k.k.SerializeCompressed(), nil
}

// Type 返回密钥类型
func (k *Secp256k1PublicKey) Type() KeyType {
	return KeyTypeSecp256k1
}

// Equals 比较两个公钥是否相等
func (k *Secp256k1PublicKey) Equals(other Key) bool {
	sk, ok := other.(*Secp256k1PublicKey)
	if !ok || k == nil || sk == nil || k.k == nil || sk.k == nil {
		return KeyEqual(k, other)
	}
	return k.k.IsEqual(sk.k)
}

// ============================================================================
//                              Secp256k1PrivateKey
// ============================================================================

// Secp256k1PrivateKey Secp256k1 私钥实现
type Secp256k1PrivateKey struct {
	k *secp256k1.PrivateKey
}

// Raw 返回 32 字节私钥标量
func (k *Secp256k1PrivateKey) Raw() ([]byte, error) {
	if k == nil || k.k == nil {
		return nil, ErrNilPrivateKey
	}
	return k.k.Serialize(), nil
}

// Type 返回密钥类型
func (k *Secp256k1PrivateKey) Type() KeyType {
	return KeyTypeSecp256k1
}

// Equals 常量时间比较私钥标量
func (k *Secp256k1PrivateKey) Equals(other Key) bool {
	sk, ok := other.(*Secp256k1PrivateKey)
	if !ok || k == nil || sk == nil || k.k == nil || sk.k == nil {
		return KeyEqual(k, other)
	}
	return subtle.ConstantTimeCompare(k.k.Serialize(), sk.k.Serialize()) == 1
}

// GetPublic 返回对应的公钥
func (k *Secp256k1PrivateKey) GetPublic() PublicKey {
	if k == nil || k.k == nil {
		return nil
	}
	return &Secp256k1PublicKey{k: k.k.PubKey()}
}

// ============================================================================
//                              工厂函数
// ============================================================================

// GenerateSecp256k1Key 生成新的 Secp256k1 密钥对
func GenerateSecp256k1Key(src io.Reader) (PrivateKey, PublicKey, error) {
	priv, err := secp256k1.GeneratePrivateKeyFromRand(src)
	if err != nil {
		return nil, nil, err
	}
	return &Secp256k1PrivateKey{k: priv}, &Secp256k1PublicKey{k: priv.PubKey()}, nil
}

// UnmarshalSecp256k1PublicKey 反序列化公钥
//
// 接受 33 字节压缩格式和 65 字节未压缩格式。
func UnmarshalSecp256k1PublicKey(data []byte) (PublicKey, error) {
	pub, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return &Secp256k1PublicKey{k: pub}, nil
}

// UnmarshalSecp256k1PrivateKey 从 32 字节反序列化私钥
func UnmarshalSecp256k1PrivateKey(data []byte) (PrivateKey, error) {
	if len(data) != Secp256k1PrivateKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKeySize, Secp256k1PrivateKeySize, len(data))
	}
	priv := secp256k1.PrivKeyFromBytes(data)
	if priv.Key.IsZero() {
		return nil, fmt.Errorf("%w: zero scalar", ErrInvalidPrivateKey)
	}
	return &Secp256k1PrivateKey{k: priv}, nil
}
