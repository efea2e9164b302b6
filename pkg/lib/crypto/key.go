package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"strings"
)

// ============================================================================
//                              密钥类型定义
// ============================================================================

// KeyType 密钥类型
//
// 值同时用作序列化信封中 Type 字段的枚举值：
//   - KEY_TYPE_UNSPECIFIED = 0
//   - RSA = 1
//   - Ed25519 = 2
//   - Secp256k1 = 3
//   - ECDSA = 4
type KeyType int

const (
	// KeyTypeUnspecified 未指定密钥类型
	KeyTypeUnspecified KeyType = 0
	// KeyTypeRSA RSA 密钥
	KeyTypeRSA KeyType = 1
	// KeyTypeEd25519 Ed25519 密钥（默认推荐）
	KeyTypeEd25519 KeyType = 2
	// KeyTypeSecp256k1 Secp256k1 密钥（区块链兼容）
	KeyTypeSecp256k1 KeyType = 3
	// KeyTypeECDSA ECDSA 密钥
	KeyTypeECDSA KeyType = 4
)

// String 返回密钥类型名称
func (kt KeyType) String() string {
	switch kt {
	case KeyTypeUnspecified:
		return "Unspecified"
	case KeyTypeRSA:
		return "RSA"
	case KeyTypeEd25519:
		return "Ed25519"
	case KeyTypeSecp256k1:
		return "Secp256k1"
	case KeyTypeECDSA:
		return "ECDSA"
	default:
		return "Unknown"
	}
}

// ParseKeyType 从名称解析密钥类型（大小写不敏感）
func ParseKeyType(name string) (KeyType, error) {
	for _, kt := range KeyTypes {
		if strings.EqualFold(kt.String(), name) {
			return kt, nil
		}
	}
	return KeyTypeUnspecified, fmt.Errorf("%w: %q", ErrBadKeyType, name)
}

// KeyTypes 支持的密钥类型列表
var KeyTypes = []KeyType{
	KeyTypeRSA,
	KeyTypeEd25519,
	KeyTypeSecp256k1,
	KeyTypeECDSA,
}

// ============================================================================
//                              密钥接口定义
// ============================================================================

// Key 基础密钥接口
type Key interface {
	// Raw 返回原始密钥字节
	Raw() ([]byte, error)

	// Type 返回密钥类型
	Type() KeyType

	// Equals 比较两个密钥是否相等
	Equals(Key) bool
}

// PublicKey 公钥接口
type PublicKey interface {
	Key
}

// PrivateKey 私钥接口
type PrivateKey interface {
	Key

	// GetPublic 返回对应的公钥
	//
	// 私钥本身无效（例如 nil 指针）时返回 nil。
	GetPublic() PublicKey
}

// ============================================================================
//                              密钥生成
// ============================================================================

// GenerateKeyPair 使用默认位数生成密钥对
func GenerateKeyPair(keyType KeyType) (PrivateKey, PublicKey, error) {
	return GenerateKeyPairWithReader(keyType, 0, rand.Reader)
}

// GenerateKeyPairWithBits 生成指定位数的密钥对
//
// bits 为 0 时使用该类型的默认位数。Ed25519 和 Secp256k1 的长度固定，
// 只接受 0 或 256。
func GenerateKeyPairWithBits(keyType KeyType, bits int) (PrivateKey, PublicKey, error) {
	return GenerateKeyPairWithReader(keyType, bits, rand.Reader)
}

// GenerateKeyPairWithReader 使用指定的随机源生成密钥对
//
// 参数：
//   - keyType: 密钥类型
//   - bits: 密钥位数，0 表示默认
//   - reader: 随机源（用于测试时的确定性生成）
func GenerateKeyPairWithReader(keyType KeyType, bits int, reader io.Reader) (PrivateKey, PublicKey, error) {
	switch keyType {
	case KeyTypeEd25519:
		if err := checkFixedBits(keyType, bits); err != nil {
			return nil, nil, err
		}
		return GenerateEd25519Key(reader)
	case KeyTypeSecp256k1:
		if err := checkFixedBits(keyType, bits); err != nil {
			return nil, nil, err
		}
		return GenerateSecp256k1Key(reader)
	case KeyTypeECDSA:
		return GenerateECDSAKey(bits, reader)
	case KeyTypeRSA:
		if bits == 0 {
			bits = RSADefaultKeySize
		}
		return GenerateRSAKey(bits, reader)
	default:
		return nil, nil, ErrBadKeyType
	}
}

// ValidateKeySize 检查位数对该密钥类型是否合法，0 表示默认位数
func ValidateKeySize(keyType KeyType, bits int) error {
	switch keyType {
	case KeyTypeEd25519, KeyTypeSecp256k1:
		return checkFixedBits(keyType, bits)
	case KeyTypeECDSA:
		_, err := ecdsaCurve(bits)
		return err
	case KeyTypeRSA:
		if bits == 0 {
			return nil
		}
		if bits < RSAMinKeySize || bits > RSAMaxKeySize {
			return fmt.Errorf("%w: RSA keys must be %d-%d bits, got %d",
				ErrInvalidKeySize, RSAMinKeySize, RSAMaxKeySize, bits)
		}
		return nil
	default:
		return ErrBadKeyType
	}
}

// checkFixedBits 固定长度算法只接受 0 或 256 位
func checkFixedBits(keyType KeyType, bits int) error {
	if bits != 0 && bits != 256 {
		return fmt.Errorf("%w: %s keys are 256 bits, got %d", ErrInvalidKeySize, keyType, bits)
	}
	return nil
}

// ============================================================================
//                              反序列化函数
// ============================================================================

// PubKeyUnmarshaller 公钥反序列化函数类型
type PubKeyUnmarshaller func(data []byte) (PublicKey, error)

// PrivKeyUnmarshaller 私钥反序列化函数类型
type PrivKeyUnmarshaller func(data []byte) (PrivateKey, error)

// PubKeyUnmarshallers 公钥反序列化函数映射
var PubKeyUnmarshallers = map[KeyType]PubKeyUnmarshaller{
	KeyTypeEd25519:   UnmarshalEd25519PublicKey,
	KeyTypeSecp256k1: UnmarshalSecp256k1PublicKey,
	KeyTypeECDSA:     UnmarshalECDSAPublicKey,
	KeyTypeRSA:       UnmarshalRSAPublicKey,
}

// PrivKeyUnmarshallers 私钥反序列化函数映射
var PrivKeyUnmarshallers = map[KeyType]PrivKeyUnmarshaller{
	KeyTypeEd25519:   UnmarshalEd25519PrivateKey,
	KeyTypeSecp256k1: UnmarshalSecp256k1PrivateKey,
	KeyTypeECDSA:     UnmarshalECDSAPrivateKey,
	KeyTypeRSA:       UnmarshalRSAPrivateKey,
}

// UnmarshalPublicKey 按类型从原始字节反序列化公钥
func UnmarshalPublicKey(keyType KeyType, data []byte) (PublicKey, error) {
	um, ok := PubKeyUnmarshallers[keyType]
	if !ok {
		return nil, ErrBadKeyType
	}
	return um(data)
}

// UnmarshalPrivateKey 按类型从原始字节反序列化私钥
func UnmarshalPrivateKey(keyType KeyType, data []byte) (PrivateKey, error) {
	um, ok := PrivKeyUnmarshallers[keyType]
	if !ok {
		return nil, ErrBadKeyType
	}
	return um(data)
}

// ============================================================================
//                              辅助函数
// ============================================================================

// KeyEqual 使用常量时间比较两个密钥是否相等
func KeyEqual(k1, k2 Key) bool {
	if k1 == nil || k2 == nil {
		return false
	}
	if k1.Type() != k2.Type() {
		return false
	}

	b1, err1 := k1.Raw()
	b2, err2 := k2.Raw()
	if err1 != nil || err2 != nil {
		return false
	}

	return subtle.ConstantTimeCompare(b1, b2) == 1
}
