package fingerprint

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/minio/sha256-simd"
	"github.com/mr-tron/base58/base58"
	mh "github.com/multiformats/go-multihash"
	"lukechampine.com/blake3"
)

// DefaultCode 默认哈希函数代码（sha2-256）
const DefaultCode uint64 = mh.SHA2_256

// ============================================================================
//                              Codec
// ============================================================================

// Codec 指纹编解码器
//
// Codec 绑定一个哈希函数，Sum 按该函数计算指纹；
// Cast/Decode 接受任意哈希函数的合法 multihash。
// Codec 无内部状态，可并发使用。
type Codec struct {
	code uint64
}

var defaultCodec = &Codec{code: DefaultCode}

// Default 返回 sha2-256 编解码器
func Default() *Codec {
	return defaultCodec
}

// NewCodec 按 multihash 代码创建编解码器
func NewCodec(code uint64) (*Codec, error) {
	if _, ok := mh.Codes[code]; !ok {
		return nil, fmt.Errorf("%w: code 0x%x", ErrUnsupportedHash, code)
	}
	if _, err := mh.GetHasher(code); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedHash, mh.Codes[code], err)
	}
	return &Codec{code: code}, nil
}

// NewCodecByName 按 multihash 名称创建编解码器，例如 "sha2-256"、"blake3"
//
// 名称为空时返回默认编解码器。
func NewCodecByName(name string) (*Codec, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return defaultCodec, nil
	}
	code, ok := mh.Names[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedHash, name)
	}
	return NewCodec(code)
}

// Code 返回哈希函数代码
func (c *Codec) Code() uint64 {
	return c.code
}

// Name 返回哈希函数名称
func (c *Codec) Name() string {
	return mh.Codes[c.code]
}

// ============================================================================
//                              计算与校验
// ============================================================================

// Sum 计算数据的指纹
func (c *Codec) Sum(data []byte) ([]byte, error) {
	switch c.code {
	case mh.SHA2_256:
		digest := sha256.Sum256(data)
		return mh.Encode(digest[:], mh.SHA2_256)
	case mh.BLAKE3:
		digest := blake3.Sum256(data)
		return mh.Encode(digest[:], mh.BLAKE3)
	case mh.IDENTITY:
		return mh.Encode(data, mh.IDENTITY)
	default:
		sum, err := mh.Sum(data, c.code, -1)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedHash, err)
		}
		return sum, nil
	}
}

// Cast 校验字节是否为合法指纹，返回其副本
func (c *Codec) Cast(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFingerprint, ErrEmptyInput)
	}
	m, err := mh.Cast(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFingerprint, err)
	}
	return append([]byte(nil), m...), nil
}

// ============================================================================
//                              文本形式
// ============================================================================

// Encode 返回指纹的 Base58 形式
func (c *Codec) Encode(fp []byte) string {
	return base58.Encode(fp)
}

// Decode 解析 Base58 形式的指纹
func (c *Codec) Decode(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFingerprint, ErrEmptyInput)
	}
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFingerprint, err)
	}
	return c.Cast(b)
}

// EncodeHex 返回指纹的十六进制形式
func (c *Codec) EncodeHex(fp []byte) string {
	return hex.EncodeToString(fp)
}

// DecodeHex 解析十六进制形式的指纹
func (c *Codec) DecodeHex(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFingerprint, ErrEmptyInput)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFingerprint, err)
	}
	return c.Cast(b)
}

// ============================================================================
//                              解析
// ============================================================================

// Info 指纹的分解结果
type Info struct {
	Code   uint64
	Name   string
	Length int
	Digest []byte
}

// Inspect 分解指纹
func Inspect(fp []byte) (*Info, error) {
	dm, err := mh.Decode(fp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFingerprint, err)
	}
	return &Info{
		Code:   dm.Code,
		Name:   dm.Name,
		Length: dm.Length,
		Digest: append([]byte(nil), dm.Digest...),
	}, nil
}
