package crypto

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// ============================================================================
//                              序列化格式
// ============================================================================

// 序列化格式（protobuf 线格式）：
//
//   ┌─────────────────────────────────────────────────────────────┐
//   │                    公钥/私钥序列化格式                         │
//   ├─────────────────────────────────────────────────────────────┤
//   │  field 1 (varint): Type  KeyType                            │
//   │  field 2 (bytes):  Data  密钥原始字节（见各算法的 Raw）        │
//   └─────────────────────────────────────────────────────────────┘
//
// 未知字段会被跳过，缺少 Type 或 Data 的输入视为无效。

const (
	envelopeTypeField protowire.Number = 1
	envelopeDataField protowire.Number = 2
)

// ============================================================================
//                              公钥序列化
// ============================================================================

// MarshalPublicKey 序列化公钥为 protobuf 信封
func MarshalPublicKey(key PublicKey) ([]byte, error) {
	if key == nil {
		return nil, ErrNilPublicKey
	}

	raw, err := key.Raw()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarshalFailed, err)
	}
	return marshalEnvelope(key.Type(), raw), nil
}

// UnmarshalPublicKeyBytes 从 protobuf 信封反序列化公钥
func UnmarshalPublicKeyBytes(data []byte) (PublicKey, error) {
	keyType, raw, err := unmarshalEnvelope(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	pub, err := UnmarshalPublicKey(keyType, raw)
	if errors.Is(err, ErrInvalidPublicKey) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	return pub, nil
}

// ============================================================================
//                              私钥序列化
// ============================================================================

// MarshalPrivateKey 序列化私钥为 protobuf 信封
func MarshalPrivateKey(key PrivateKey) ([]byte, error) {
	if key == nil {
		return nil, ErrNilPrivateKey
	}

	raw, err := key.Raw()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarshalFailed, err)
	}
	return marshalEnvelope(key.Type(), raw), nil
}

// UnmarshalPrivateKeyBytes 从 protobuf 信封反序列化私钥
func UnmarshalPrivateKeyBytes(data []byte) (PrivateKey, error) {
	keyType, raw, err := unmarshalEnvelope(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	priv, err := UnmarshalPrivateKey(keyType, raw)
	if errors.Is(err, ErrInvalidPrivateKey) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	return priv, nil
}

// ============================================================================
//                              信封编解码
// ============================================================================

func marshalEnvelope(keyType KeyType, raw []byte) []byte {
	buf := make([]byte, 0, len(raw)+8)
	buf = protowire.AppendTag(buf, envelopeTypeField, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(keyType))
	buf = protowire.AppendTag(buf, envelopeDataField, protowire.BytesType)
	buf = protowire.AppendBytes(buf, raw)
	return buf
}

func unmarshalEnvelope(data []byte) (KeyType, []byte, error) {
	if len(data) == 0 {
		return KeyTypeUnspecified, nil, fmt.Errorf("%w: empty input", ErrUnmarshalFailed)
	}

	var (
		keyType          KeyType
		raw              []byte
		hasType, hasData bool
	)
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return KeyTypeUnspecified, nil, fmt.Errorf("%w: %v", ErrUnmarshalFailed, protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == envelopeTypeField && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return KeyTypeUnspecified, nil, fmt.Errorf("%w: %v", ErrUnmarshalFailed, protowire.ParseError(m))
			}
			keyType, hasType = KeyType(v), true
			n = m
		case num == envelopeDataField && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return KeyTypeUnspecified, nil, fmt.Errorf("%w: %v", ErrUnmarshalFailed, protowire.ParseError(m))
			}
			raw, hasData = append([]byte(nil), v...), true
			n = m
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return KeyTypeUnspecified, nil, fmt.Errorf("%w: %v", ErrUnmarshalFailed, protowire.ParseError(n))
			}
		}
		data = data[n:]
	}

	if !hasType || !hasData {
		return KeyTypeUnspecified, nil, fmt.Errorf("%w: missing type or data field", ErrUnmarshalFailed)
	}
	return keyType, raw, nil
}
