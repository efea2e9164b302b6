package crypto

import (
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"io"
)

// RSA 密钥常量
const (
	// RSAMinKeySize RSA 最小密钥大小（位），低于此值 Go 运行时拒绝生成
	RSAMinKeySize = 1024
	// RSADefaultKeySize RSA 默认密钥大小（位）
	RSADefaultKeySize = 2048
	// RSAMaxKeySize RSA 最大密钥大小（位）
	RSAMaxKeySize = 8192
)

// ============================================================================
//                              RSAPublicKey
// ============================================================================

// RSAPublicKey RSA 公钥实现
type RSAPublicKey struct {
	k *rsa.PublicKey
}

// Raw 返回 PKIX 格式的公钥字节
func (k *RSAPublicKey) Raw() ([]byte, error) {
	if k == nil || k.k == nil {
		return nil, ErrNilPublicKey
	}
	return x509.MarshalPKIXPublicKey(k.k)
}

// Type 返回密钥类型
func (k *RSAPublicKey) Type() KeyType {
	return KeyTypeRSA
}

// Equals 比较两个公钥是否相等
func (k *RSAPublicKey) Equals(other Key) bool {
	rk, ok := other.(*RSAPublicKey)
	if !ok || k == nil || rk == nil || k.k == nil || rk.k == nil {
		return KeyEqual(k, other)
	}
	return k.k.Equal(rk.k)
}

// ============================================================================
//                              RSAPrivateKey
// ============================================================================

// RSAPrivateKey RSA 私钥实现
type RSAPrivateKey struct {
	k *rsa.PrivateKey
}

// Raw 返回 PKCS#1 格式的私钥字节
//
// 长度随模数位数增长，可用来比较不同位数的密钥。
func (k *RSAPrivateKey) Raw() ([]byte, error) {
	if k == nil || k.k == nil {
		return nil, ErrNilPrivateKey
	}
	return x509.MarshalPKCS1PrivateKey(k.k), nil
}

// Type 返回密钥类型
func (k *RSAPrivateKey) Type() KeyType {
	return KeyTypeRSA
}

// Equals 比较两个私钥是否相等
func (k *RSAPrivateKey) Equals(other Key) bool {
	rk, ok := other.(*RSAPrivateKey)
	if !ok || k == nil || rk == nil || k.k == nil || rk.k == nil {
		return KeyEqual(k, other)
	}
	return k.k.Equal(rk.k)
}

// GetPublic 返回对应的公钥
func (k *RSAPrivateKey) GetPublic() PublicKey {
	if k == nil || k.k == nil {
		return nil
	}
	return &RSAPublicKey{k: &k.k.PublicKey}
}

// ============================================================================
//                              工厂函数
// ============================================================================

// GenerateRSAKey 生成新的 RSA 密钥对
func GenerateRSAKey(bits int, src io.Reader) (PrivateKey, PublicKey, error) {
	if bits < RSAMinKeySize || bits > RSAMaxKeySize {
		return nil, nil, fmt.Errorf("%w: RSA key size must be within [%d, %d] bits, got %d",
			ErrInvalidKeySize, RSAMinKeySize, RSAMaxKeySize, bits)
	}

	priv, err := rsa.GenerateKey(src, bits)
	if err != nil {
		return nil, nil, err
	}
	return &RSAPrivateKey{k: priv}, &RSAPublicKey{k: &priv.PublicKey}, nil
}

// UnmarshalRSAPublicKey 从 PKIX 字节反序列化 RSA 公钥
func UnmarshalRSAPublicKey(data []byte) (PublicKey, error) {
	pub, err := x509.ParsePKIXPublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA key", ErrInvalidPublicKey)
	}
	if rsaPub.N.BitLen() < RSAMinKeySize {
		return nil, fmt.Errorf("%w: RSA key too small", ErrInvalidPublicKey)
	}

	return &RSAPublicKey{k: rsaPub}, nil
}

// UnmarshalRSAPrivateKey 反序列化 RSA 私钥
//
// 支持 PKCS#1 和 PKCS#8 格式
func UnmarshalRSAPrivateKey(data []byte) (PrivateKey, error) {
	var priv *rsa.PrivateKey
	if key, err := x509.ParsePKCS1PrivateKey(data); err == nil {
		priv = key
	} else if key, err := x509.ParsePKCS8PrivateKey(data); err == nil {
		priv, _ = key.(*rsa.PrivateKey)
	}

	if priv == nil {
		return nil, ErrInvalidPrivateKey
	}
	if priv.N.BitLen() < RSAMinKeySize {
		return nil, fmt.Errorf("%w: RSA key too small", ErrInvalidPrivateKey)
	}
	return &RSAPrivateKey{k: priv}, nil
}
