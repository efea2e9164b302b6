package peer

import (
	"bytes"
	"context"
	"encoding/hex"

	"github.com/dep2p/go-peerid/pkg/lib/crypto"
	"github.com/dep2p/go-peerid/pkg/lib/fingerprint"
)

// ============================================================================
//                              构造
// ============================================================================

// New 由指纹和可选的密钥构造 ID
//
// 所有构造路径最终都经过这里。检查顺序：
//  1. 指纹必须是合法的 multihash（ErrInvalidFingerprint）
//  2. 同时给出私钥和公钥时二者必须对应（ErrInconsistentKeyPair）
//  3. 指纹必须等于公钥（或私钥派生的公钥）的哈希（ErrInconsistentFingerprint）
func (f *Factory) New(fp []byte, priv crypto.PrivateKey, pub crypto.PublicKey) (*ID, error) {
	cast, err := f.codec.Cast(fp)
	if err != nil {
		return nil, wrapErr(ErrInvalidFingerprint, err)
	}

	check := pub
	if priv != nil {
		derived, err := f.keys.DerivePublicKey(priv)
		if err != nil {
			return nil, wrapErr(ErrInvalidPrivateKey, err)
		}
		if pub != nil {
			if err := f.samePublicKey(derived, pub); err != nil {
				return nil, err
			}
		}
		check = derived
	}

	if check != nil {
		if err := f.matchFingerprint(cast, check); err != nil {
			return nil, err
		}
	}

	return newID(f, cast, priv, pub), nil
}

// samePublicKey 比较两个公钥的序列化字节
func (f *Factory) samePublicKey(derived, pub crypto.PublicKey) error {
	want, err := f.keys.MarshalPublicKey(derived)
	if err != nil {
		return wrapErr(ErrInvalidPrivateKey, err)
	}
	got, err := f.keys.MarshalPublicKey(pub)
	if err != nil {
		return wrapErr(ErrInvalidPublicKey, err)
	}
	if !bytes.Equal(want, got) {
		return ErrInconsistentKeyPair
	}
	return nil
}

// matchFingerprint 检查 fp == hash(serialize(pub))
//
// 哈希函数取自 fp 自带的 multihash 代码：与 Factory 的哈希函数不同时，
// 按 fp 的代码重新计算，因此任一哈希函数生成的身份都能被解析。
func (f *Factory) matchFingerprint(fp []byte, pub crypto.PublicKey) error {
	sum, err := f.keys.HashPublicKey(pub)
	if err != nil {
		return wrapErr(ErrInvalidPublicKey, err)
	}
	if bytes.Equal(fp, sum) {
		return nil
	}

	want, err := fingerprint.Inspect(fp)
	if err != nil {
		return wrapErr(ErrInvalidFingerprint, err)
	}
	got, err := fingerprint.Inspect(sum)
	if err != nil || got.Code == want.Code {
		return ErrInconsistentFingerprint
	}

	codec, err := fingerprint.NewCodec(want.Code)
	if err != nil {
		return wrapErr(ErrInconsistentFingerprint, err)
	}
	data, err := f.keys.MarshalPublicKey(pub)
	if err != nil {
		return wrapErr(ErrInvalidPublicKey, err)
	}
	alt, err := codec.Sum(data)
	if err != nil {
		return wrapErr(ErrInconsistentFingerprint, err)
	}
	if !bytes.Equal(fp, alt) {
		return ErrInconsistentFingerprint
	}
	return nil
}

// FromBytes 由原始指纹字节构造不带密钥的 ID
func (f *Factory) FromBytes(b []byte) (*ID, error) {
	return f.New(b, nil, nil)
}

// FromHexString 由十六进制指纹构造 ID
func (f *Factory) FromHexString(s string) (*ID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, wrapErr(ErrInvalidFingerprint, err)
	}
	return f.FromBytes(b)
}

// FromB58String 由 Base58 指纹构造 ID
func (f *Factory) FromB58String(s string) (*ID, error) {
	b, err := f.codec.Decode(s)
	if err != nil {
		return nil, wrapErr(ErrInvalidFingerprint, err)
	}
	return f.FromBytes(b)
}

// FromPublicKey 由公钥构造 ID，指纹由公钥哈希得到
func (f *Factory) FromPublicKey(ctx context.Context, pub crypto.PublicKey) (*ID, error) {
	return run(ctx, func() (*ID, error) {
		return f.fromPublicKey(pub)
	})
}

// FromPublicKeyBytes 由序列化的公钥构造 ID
func (f *Factory) FromPublicKeyBytes(ctx context.Context, data []byte) (*ID, error) {
	return run(ctx, func() (*ID, error) {
		pub, err := f.keys.UnmarshalPublicKey(data)
		if err != nil {
			return nil, wrapErr(ErrInvalidPublicKey, err)
		}
		return f.fromPublicKey(pub)
	})
}

func (f *Factory) fromPublicKey(pub crypto.PublicKey) (*ID, error) {
	if pub == nil {
		return nil, wrapErr(ErrInvalidPublicKey, crypto.ErrNilPublicKey)
	}
	fp, err := f.keys.HashPublicKey(pub)
	if err != nil {
		return nil, wrapErr(ErrInvalidPublicKey, err)
	}
	return f.New(fp, nil, pub)
}

// FromPrivateKey 由私钥构造 ID，同时设置派生的公钥
func (f *Factory) FromPrivateKey(ctx context.Context, priv crypto.PrivateKey) (*ID, error) {
	return run(ctx, func() (*ID, error) {
		return f.fromPrivateKey(priv)
	})
}

// FromPrivateKeyBytes 由序列化的私钥构造 ID
func (f *Factory) FromPrivateKeyBytes(ctx context.Context, data []byte) (*ID, error) {
	return run(ctx, func() (*ID, error) {
		priv, err := f.keys.UnmarshalPrivateKey(data)
		if err != nil {
			return nil, wrapErr(ErrInvalidPrivateKey, err)
		}
		return f.fromPrivateKey(priv)
	})
}

func (f *Factory) fromPrivateKey(priv crypto.PrivateKey) (*ID, error) {
	if priv == nil {
		return nil, wrapErr(ErrInvalidPrivateKey, crypto.ErrNilPrivateKey)
	}
	pub, err := f.keys.DerivePublicKey(priv)
	if err != nil {
		return nil, wrapErr(ErrInvalidPrivateKey, err)
	}
	fp, err := f.keys.HashPublicKey(pub)
	if err != nil {
		return nil, wrapErr(ErrInvalidPrivateKey, err)
	}
	return f.New(fp, priv, pub)
}

// ============================================================================
//                              包级函数（默认 Factory）
// ============================================================================

// New 使用默认 Factory 构造 ID
func New(fp []byte, priv crypto.PrivateKey, pub crypto.PublicKey) (*ID, error) {
	return defaultFactory.New(fp, priv, pub)
}

// FromBytes 由原始指纹字节构造 ID
func FromBytes(b []byte) (*ID, error) {
	return defaultFactory.FromBytes(b)
}

// FromHexString 由十六进制指纹构造 ID
func FromHexString(s string) (*ID, error) {
	return defaultFactory.FromHexString(s)
}

// FromB58String 由 Base58 指纹构造 ID
func FromB58String(s string) (*ID, error) {
	return defaultFactory.FromB58String(s)
}

// FromPublicKey 由公钥构造 ID
func FromPublicKey(ctx context.Context, pub crypto.PublicKey) (*ID, error) {
	return defaultFactory.FromPublicKey(ctx, pub)
}

// FromPublicKeyBytes 由序列化的公钥构造 ID
func FromPublicKeyBytes(ctx context.Context, data []byte) (*ID, error) {
	return defaultFactory.FromPublicKeyBytes(ctx, data)
}

// FromPrivateKey 由私钥构造 ID
func FromPrivateKey(ctx context.Context, priv crypto.PrivateKey) (*ID, error) {
	return defaultFactory.FromPrivateKey(ctx, priv)
}

// FromPrivateKeyBytes 由序列化的私钥构造 ID
func FromPrivateKeyBytes(ctx context.Context, data []byte) (*ID, error) {
	return defaultFactory.FromPrivateKeyBytes(ctx, data)
}
