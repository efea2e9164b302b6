package peer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-peerid/pkg/lib/crypto"
)

// ============================================================================
//                              生成选项
// ============================================================================

// generateConfig Generate 的参数
type generateConfig struct {
	keyType crypto.KeyType
	bits    int
}

// GenerateOption Generate 配置选项
type GenerateOption func(*generateConfig)

// WithKeyType 指定密钥类型
func WithKeyType(kt crypto.KeyType) GenerateOption {
	return func(c *generateConfig) {
		c.keyType = kt
	}
}

// WithBits 指定密钥位数，0 表示该类型的默认位数
func WithBits(bits int) GenerateOption {
	return func(c *generateConfig) {
		c.bits = bits
	}
}

func (f *Factory) generateConfig(opts []GenerateOption) generateConfig {
	cfg := generateConfig{keyType: f.keyType, bits: f.bits}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.keyType == crypto.KeyTypeUnspecified {
		cfg.keyType = crypto.KeyTypeEd25519
	}
	return cfg
}

// ============================================================================
//                              生成
// ============================================================================

// Generate 生成新的密钥对并派生 ID
//
// 未指定时使用 Factory 的默认密钥类型和位数（默认 Ed25519）。
// RSA 不指定位数时为 2048 位。
func (f *Factory) Generate(ctx context.Context, opts ...GenerateOption) (*ID, error) {
	cfg := f.generateConfig(opts)
	return run(ctx, func() (*ID, error) {
		return f.generate(cfg)
	})
}

func (f *Factory) generate(cfg generateConfig) (*ID, error) {
	priv, pub, err := f.keys.GenerateKeyPair(cfg.keyType, cfg.bits)
	if err != nil {
		return nil, fmt.Errorf("generate %s key: %w", cfg.keyType, err)
	}
	fp, err := f.keys.HashPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("hash public key: %w", err)
	}

	id, err := f.New(fp, priv, pub)
	if err != nil {
		return nil, err
	}
	f.debug("generated peer id", "peer", id.ShortString(), "keyType", cfg.keyType.String(), "bits", cfg.bits)
	return id, nil
}

// GenerateAsync 在后台生成 ID，结果通过通道返回
//
// 通道带缓冲，调用方可以不读取结果。
func (f *Factory) GenerateAsync(ctx context.Context, opts ...GenerateOption) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		id, err := f.Generate(ctx, opts...)
		out <- Result{ID: id, Err: err}
		close(out)
	}()
	return out
}

// GenerateBatch 并发生成 n 个 ID
//
// 任一生成失败时返回第一个错误，其余结果丢弃。
func (f *Factory) GenerateBatch(ctx context.Context, n int, opts ...GenerateOption) ([]*ID, error) {
	if n <= 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ids := make([]*ID, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := range ids {
		i := i
		g.Go(func() error {
			id, err := f.Generate(gctx, opts...)
			if err != nil {
				return err
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ============================================================================
//                              包级函数
// ============================================================================

// Generate 使用默认 Factory 生成 ID
func Generate(ctx context.Context, opts ...GenerateOption) (*ID, error) {
	return defaultFactory.Generate(ctx, opts...)
}

// GenerateAsync 使用默认 Factory 在后台生成 ID
func GenerateAsync(ctx context.Context, opts ...GenerateOption) <-chan Result {
	return defaultFactory.GenerateAsync(ctx, opts...)
}

// GenerateBatch 使用默认 Factory 并发生成 n 个 ID
func GenerateBatch(ctx context.Context, n int, opts ...GenerateOption) ([]*ID, error) {
	return defaultFactory.GenerateBatch(ctx, n, opts...)
}
