package peer

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sync/atomic"

	"github.com/dep2p/go-peerid/pkg/lib/crypto"
	"github.com/dep2p/go-peerid/pkg/lib/fingerprint"
)

// ============================================================================
//                              ID
// ============================================================================

// ID 自认证的节点身份
//
// 指纹在构造时复制并固定，之后不可修改。私钥和公钥可以通过
// Set* 方法替换，替换后不自动校验，需要调用 IsValid。
//
// 密钥存放在原子指针指向的不可变槽位中，读写不加锁。
// ID 总是以指针形式使用。
type ID struct {
	fp      []byte
	factory *Factory
	keys    atomic.Pointer[keySlot]
}

// keySlot 一次性写入的密钥快照
type keySlot struct {
	priv crypto.PrivateKey
	pub  crypto.PublicKey

	// pubDerived 表示 pub 是从 priv 派生后缓存的
	pubDerived bool

	// 延迟到 IsValid 报告的解析错误
	privErr error
	pubErr  error
}

var emptySlot = &keySlot{}

func newID(f *Factory, fp []byte, priv crypto.PrivateKey, pub crypto.PublicKey) *ID {
	id := &ID{fp: fp, factory: f}
	id.keys.Store(&keySlot{priv: priv, pub: pub})
	return id
}

func (id *ID) fac() *Factory {
	if id == nil || id.factory == nil {
		return defaultFactory
	}
	return id.factory
}

func (id *ID) slot() *keySlot {
	if id == nil {
		return emptySlot
	}
	if s := id.keys.Load(); s != nil {
		return s
	}
	return emptySlot
}

// update 以 CAS 方式替换密钥槽位
func (id *ID) update(fn func(old keySlot) keySlot) {
	for {
		old := id.keys.Load()
		var cur keySlot
		if old != nil {
			cur = *old
		}
		next := fn(cur)
		if id.keys.CompareAndSwap(old, &next) {
			return
		}
	}
}

// ============================================================================
//                              编码与展示
// ============================================================================

// Bytes 返回指纹字节的副本
func (id *ID) Bytes() []byte {
	if id == nil || len(id.fp) == 0 {
		return nil
	}
	return append([]byte(nil), id.fp...)
}

// HexString 返回指纹的十六进制形式
func (id *ID) HexString() string {
	if id == nil {
		return ""
	}
	return hex.EncodeToString(id.fp)
}

// B58String 返回指纹的 Base58 形式
func (id *ID) B58String() string {
	if id == nil || len(id.fp) == 0 {
		return ""
	}
	return id.fac().codec.Encode(id.fp)
}

// String 同 B58String
func (id *ID) String() string {
	return id.B58String()
}

// ShortString 返回 "<peer.ID XXXXXX>"，XXXXXX 为 Base58 形式的第 3~8 个字符
//
// 仅用于展示，不可解析。
func (id *ID) ShortString() string {
	s := id.B58String()
	if len(s) <= 2 {
		return "<peer.ID >"
	}
	end := min(len(s), 8)
	return fmt.Sprintf("<peer.ID %s>", s[2:end])
}

// KeyString 返回可作为 map 键的指纹字符串
func (id *ID) KeyString() string {
	if id == nil {
		return ""
	}
	return string(id.fp)
}

// Code 返回指纹的哈希函数代码，指纹无法解析时返回 0
func (id *ID) Code() uint64 {
	info, err := fingerprint.Inspect(id.Bytes())
	if err != nil {
		return 0
	}
	return info.Code
}

// Digest 返回指纹中的摘要部分
func (id *ID) Digest() []byte {
	info, err := fingerprint.Inspect(id.Bytes())
	if err != nil {
		return nil
	}
	return info.Digest
}

// ============================================================================
//                              密钥访问
// ============================================================================

// PrivateKey 返回私钥，可能为 nil
func (id *ID) PrivateKey() crypto.PrivateKey {
	return id.slot().priv
}

// PublicKey 返回已知的公钥，可能为 nil
//
// 只有私钥时返回 nil；需要派生请使用 MarshalPublicKey。
func (id *ID) PublicKey() crypto.PublicKey {
	return id.slot().pub
}

// HasPrivateKey 是否持有私钥
func (id *ID) HasPrivateKey() bool {
	return id.slot().priv != nil
}

// KeyType 返回密钥类型，没有密钥时返回 KeyTypeUnspecified
func (id *ID) KeyType() crypto.KeyType {
	s := id.slot()
	switch {
	case s.priv != nil:
		return s.priv.Type()
	case s.pub != nil:
		return s.pub.Type()
	default:
		return crypto.KeyTypeUnspecified
	}
}

// MarshalPublicKey 返回序列化的公钥
//
// 没有公钥时从私钥派生并缓存。两者都没有时返回 ErrNoPublicKey。
func (id *ID) MarshalPublicKey() ([]byte, error) {
	s := id.slot()
	f := id.fac()

	if s.pub != nil {
		data, err := f.keys.MarshalPublicKey(s.pub)
		if err != nil {
			return nil, wrapErr(ErrInvalidPublicKey, err)
		}
		return data, nil
	}
	if s.pubErr != nil {
		return nil, s.pubErr
	}
	if s.priv == nil {
		if s.privErr != nil {
			return nil, s.privErr
		}
		return nil, ErrNoPublicKey
	}

	pub, err := f.keys.DerivePublicKey(s.priv)
	if err != nil {
		return nil, wrapErr(ErrInvalidPrivateKey, err)
	}
	data, err := f.keys.MarshalPublicKey(pub)
	if err != nil {
		return nil, wrapErr(ErrInvalidPrivateKey, err)
	}

	// 只有槽位未被并发修改时才缓存
	next := *s
	next.pub, next.pubDerived = pub, true
	id.keys.CompareAndSwap(s, &next)
	return data, nil
}

// MarshalPrivateKey 返回序列化的私钥
func (id *ID) MarshalPrivateKey() ([]byte, error) {
	s := id.slot()
	if s.priv == nil {
		if s.privErr != nil {
			return nil, s.privErr
		}
		return nil, ErrNoPrivateKey
	}
	data, err := id.fac().keys.MarshalPrivateKey(s.priv)
	if err != nil {
		return nil, wrapErr(ErrInvalidPrivateKey, err)
	}
	return data, nil
}

// ============================================================================
//                              密钥修改
// ============================================================================

// SetPrivateKey 替换私钥，nil 表示清除
//
// 不做一致性校验；之前从旧私钥派生缓存的公钥一并清除。
func (id *ID) SetPrivateKey(priv crypto.PrivateKey) {
	id.update(func(s keySlot) keySlot {
		s.priv, s.privErr = priv, nil
		if s.pubDerived {
			s.pub, s.pubDerived = nil, false
		}
		return s
	})
}

// SetPublicKey 替换公钥，nil 表示清除
func (id *ID) SetPublicKey(pub crypto.PublicKey) {
	id.update(func(s keySlot) keySlot {
		s.pub, s.pubDerived, s.pubErr = pub, false, nil
		return s
	})
}

// SetPrivateKeyBytes 以序列化形式替换私钥
//
// 解析失败不会立即报错，而是清除私钥并记录错误，由 IsValid 报告。
func (id *ID) SetPrivateKeyBytes(data []byte) {
	priv, err := id.fac().keys.UnmarshalPrivateKey(data)
	if err != nil {
		err = wrapErr(ErrInvalidPrivateKey, err)
		priv = nil
	}
	id.update(func(s keySlot) keySlot {
		s.priv, s.privErr = priv, err
		if s.pubDerived {
			s.pub, s.pubDerived = nil, false
		}
		return s
	})
}

// SetPublicKeyBytes 以序列化形式替换公钥
//
// 解析失败不会立即报错，由 IsValid 报告。
func (id *ID) SetPublicKeyBytes(data []byte) {
	pub, err := id.fac().keys.UnmarshalPublicKey(data)
	if err != nil {
		err = wrapErr(ErrInvalidPublicKey, err)
		pub = nil
	}
	id.update(func(s keySlot) keySlot {
		s.pub, s.pubDerived, s.pubErr = pub, false, err
		return s
	})
}

// SetFingerprint 总是 panic
//
// 指纹在构造后不可修改，调用此方法属于编程错误。
func (id *ID) SetFingerprint([]byte) {
	panic(&ImmutabilityError{ID: id.String()})
}

// ============================================================================
//                              相等与类型检查
// ============================================================================

// Operand Equals 的参数：*ID 或 RawFingerprint
type Operand interface {
	fingerprintBytes() []byte
}

// RawFingerprint 原始指纹字节
type RawFingerprint []byte

func (r RawFingerprint) fingerprintBytes() []byte {
	return r
}

func (id *ID) fingerprintBytes() []byte {
	if id == nil {
		return nil
	}
	return id.fp
}

// Equals 按指纹字节比较
func (id *ID) Equals(other Operand) bool {
	if id == nil || other == nil || len(id.fp) == 0 {
		return false
	}
	return bytes.Equal(id.fp, other.fingerprintBytes())
}

// IsID 判断 v 是否为经过构造函数创建的 *ID
func IsID(v any) bool {
	id, ok := v.(*ID)
	return ok && id != nil && id.factory != nil && len(id.fp) > 0
}

// ============================================================================
//                              文本编码
// ============================================================================

// MarshalText 返回 Base58 形式，用于 JSON 等文本编码
func (id *ID) MarshalText() ([]byte, error) {
	if id == nil || len(id.fp) == 0 {
		return nil, ErrInvalidFingerprint
	}
	return []byte(id.B58String()), nil
}

// UnmarshalText 解析 Base58 形式
//
// 只能用于零值 ID；已有指纹的 ID 返回 ErrImmutable。
func (id *ID) UnmarshalText(text []byte) error {
	if len(id.fp) > 0 {
		return &ImmutabilityError{ID: id.String()}
	}
	parsed, err := defaultFactory.FromB58String(string(text))
	if err != nil {
		return err
	}
	id.fp, id.factory = parsed.fp, parsed.factory
	id.keys.Store(&keySlot{})
	return nil
}
