package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"fmt"
	"io"
)

// ECDSADefaultKeySize ECDSA 默认曲线位数（P-256）
const ECDSADefaultKeySize = 256

// ecdsaCurve 按位数选择曲线
func ecdsaCurve(bits int) (elliptic.Curve, error) {
	switch bits {
	case 0, 256:
		return elliptic.P256(), nil
	case 384:
		return elliptic.P384(), nil
	case 521:
		return elliptic.P521(), nil
	default:
		return nil, fmt.Errorf("%w: ECDSA supports 256, 384 or 521 bits, got %d", ErrInvalidKeySize, bits)
	}
}

// ============================================================================
//                              ECDSAPublicKey
// ============================================================================

// ECDSAPublicKey ECDSA 公钥实现
type ECDSAPublicKey struct {
	k *ecdsa.PublicKey
}

// Raw 返回 PKIX 格式的公钥字节
func (k *ECDSAPublicKey) Raw() ([]byte, error) {
	if k == nil || k.k == nil {
		return nil, ErrNilPublicKey
	}
	return x509.MarshalPKIXPublicKey(k.k)
}

// Type 返回密钥类型
func (k *ECDSAPublicKey) Type() KeyType {
	return KeyTypeECDSA
}

// Equals 比较两个公钥是否相等
func (k *ECDSAPublicKey) Equals(other Key) bool {
	ek, ok := other.(*ECDSAPublicKey)
	if !ok || k == nil || ek == nil || k.k == nil || ek.k == nil {
		return KeyEqual(k, other)
	}
	return k.k.Equal(ek.k)
}

// ============================================================================
//                              ECDSAPrivateKey
// ============================================================================

// ECDSAPrivateKey ECDSA 私钥实现
type ECDSAPrivateKey struct {
	k *ecdsa.PrivateKey
}

// Raw 返回 SEC1 DER 格式的私钥字节
func (k *ECDSAPrivateKey) Raw() ([]byte, error) {
	if k == nil || k.k == nil {
		return nil, ErrNilPrivateKey
	}
	return x509.MarshalECPrivateKey(k.k)
}

// Type 返回密钥类型
func (k *ECDSAPrivateKey) Type() KeyType {
	return KeyTypeECDSA
}

// Equals 比较两个私钥是否相等
func (k *ECDSAPrivateKey) Equals(other Key) bool {
	ek, ok := other.(*ECDSAPrivateKey)
	if !ok || k == nil || ek == nil || k.k == nil || ek.k == nil {
		return KeyEqual(k, other)
	}
	return k.k.Equal(ek.k)
}

// GetPublic 返回对应的公钥
func (k *ECDSAPrivateKey) GetPublic() PublicKey {
	if k == nil || k.k == nil {
		return nil
	}
	return &ECDSAPublicKey{k: &k.k.PublicKey}
}

// ============================================================================
//                              工厂函数
// ============================================================================

// GenerateECDSAKey 生成新的 ECDSA 密钥对
//
// bits 决定曲线：0/256 → P-256，384 → P-384，521 → P-521。
func GenerateECDSAKey(bits int, src io.Reader) (PrivateKey, PublicKey, error) {
	curve, err := ecdsaCurve(bits)
	if err != nil {
		return nil, nil, err
	}
	priv, err := ecdsa.GenerateKey(curve, src)
	if err != nil {
		return nil, nil, err
	}
	return &ECDSAPrivateKey{k: priv}, &ECDSAPublicKey{k: &priv.PublicKey}, nil
}

// UnmarshalECDSAPublicKey 从 PKIX 字节反序列化 ECDSA 公钥
func UnmarshalECDSAPublicKey(data []byte) (PublicKey, error) {
	pub, err := x509.ParsePKIXPublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	ecPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an ECDSA key", ErrInvalidPublicKey)
	}
	return &ECDSAPublicKey{k: ecPub}, nil
}

// UnmarshalECDSAPrivateKey 反序列化 ECDSA 私钥
//
// 支持 SEC1 和 PKCS#8 格式
func UnmarshalECDSAPrivateKey(data []byte) (PrivateKey, error) {
	if key, err := x509.ParseECPrivateKey(data); err == nil {
		return &ECDSAPrivateKey{k: key}, nil
	}
	if key, err := x509.ParsePKCS8PrivateKey(data); err == nil {
		if ecKey, ok := key.(*ecdsa.PrivateKey); ok {
			return &ECDSAPrivateKey{k: ecKey}, nil
		}
	}
	return nil, ErrInvalidPrivateKey
}
