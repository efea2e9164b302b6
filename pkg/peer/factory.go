package peer

import (
	"log/slog"

	"github.com/dep2p/go-peerid/pkg/lib/crypto"
	"github.com/dep2p/go-peerid/pkg/lib/fingerprint"
	liblog "github.com/dep2p/go-peerid/pkg/lib/log"
)

var log = liblog.Logger("peer")

// ============================================================================
//                              Factory
// ============================================================================

// Factory 绑定一组外部服务的 ID 构造器
//
// 包级函数（New、Generate、FromPublicKey 等）使用默认 Factory：
// Ed25519 密钥、sha2-256 指纹。Factory 创建后只读，可并发使用。
type Factory struct {
	keys    KeyService
	codec   FingerprintCodec
	keyType crypto.KeyType
	bits    int
	logger  *slog.Logger

	cacheSize int
}

// Option Factory 配置选项
type Option func(*Factory)

// WithKeyService 设置密钥服务
func WithKeyService(ks KeyService) Option {
	return func(f *Factory) {
		if ks != nil {
			f.keys = ks
		}
	}
}

// WithFingerprintCodec 设置指纹编解码服务
func WithFingerprintCodec(c FingerprintCodec) Option {
	return func(f *Factory) {
		if c != nil {
			f.codec = c
		}
	}
}

// WithHasher 使用默认密钥服务，但以 h 计算指纹
func WithHasher(h Hasher) Option {
	return func(f *Factory) {
		if h != nil {
			f.keys = NewKeyService(h)
		}
	}
}

// WithDefaultKeyType 设置 Generate 的默认密钥类型
func WithDefaultKeyType(kt crypto.KeyType) Option {
	return func(f *Factory) {
		f.keyType = kt
	}
}

// WithDefaultBits 设置 Generate 的默认位数
func WithDefaultBits(bits int) Option {
	return func(f *Factory) {
		f.bits = bits
	}
}

// WithLogger 设置日志记录器
func WithLogger(l *slog.Logger) Option {
	return func(f *Factory) {
		f.logger = l
	}
}

// WithFingerprintCache 用容量为 size 的 LRU 缓存公钥指纹，size <= 0 不缓存
//
// 缓存包装最终生效的密钥服务，与 WithKeyService / WithHasher 的顺序无关。
func WithFingerprintCache(size int) Option {
	return func(f *Factory) {
		f.cacheSize = size
	}
}

// NewFactory 创建 Factory
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		keys:    NewKeyService(fingerprint.Default()),
		codec:   fingerprint.Default(),
		keyType: crypto.KeyTypeEd25519,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.cacheSize > 0 {
		// size > 0 时 lru.New 不会失败
		if cached, err := NewCachingKeyService(f.keys, f.cacheSize); err == nil {
			f.keys = cached
		}
	}
	return f
}

var defaultFactory = NewFactory()

// DefaultFactory 返回包级函数使用的 Factory
func DefaultFactory() *Factory {
	return defaultFactory
}

// KeyService 返回密钥服务
func (f *Factory) KeyService() KeyService {
	return f.keys
}

// Codec 返回指纹编解码服务
func (f *Factory) Codec() FingerprintCodec {
	return f.codec
}

func (f *Factory) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
		return
	}
	log.Debug(msg, args...)
}

func (f *Factory) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
		return
	}
	log.Warn(msg, args...)
}
