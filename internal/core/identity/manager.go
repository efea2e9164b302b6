package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dep2p/go-peerid/config"
	"github.com/dep2p/go-peerid/internal/util/logger"
	"github.com/dep2p/go-peerid/pkg/lib/fingerprint"
	"github.com/dep2p/go-peerid/pkg/peer"
)

// ============================================================================
//                              Factory 构建
// ============================================================================

// NewFactory 按身份配置构建 peer.Factory
//
// 指纹哈希取 HashFunction，Generate 默认使用 KeyType / KeyBits。
func NewFactory(cfg config.IdentityConfig, l *slog.Logger) (*peer.Factory, error) {
	kt, err := cfg.ParsedKeyType()
	if err != nil {
		return nil, err
	}
	codec, err := fingerprint.NewCodecByName(cfg.HashFunction)
	if err != nil {
		return nil, fmt.Errorf("identity.hash_function: %w", err)
	}

	return peer.NewFactory(
		peer.WithHasher(codec),
		peer.WithDefaultKeyType(kt),
		peer.WithDefaultBits(cfg.KeyBits),
		peer.WithLogger(l),
		peer.WithFingerprintCache(cfg.FingerprintCacheSize),
	), nil
}

// ============================================================================
//                              Manager 实现
// ============================================================================

// Manager 本地身份管理器
//
// 负责生成本地身份，以及读写身份记录文件。
type Manager struct {
	cfg     config.IdentityConfig
	factory *peer.Factory
	log     *slog.Logger
	metrics *Metrics
}

// ManagerOption 管理器选项
type ManagerOption func(*Manager)

// WithMetrics 记录操作指标
func WithMetrics(m *Metrics) ManagerOption {
	return func(mgr *Manager) {
		mgr.metrics = m
	}
}

// NewManager 创建身份管理器，l 为 nil 时使用 identity 子系统 Logger
func NewManager(cfg config.IdentityConfig, l *slog.Logger, opts ...ManagerOption) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = logger.Logger("identity")
	}

	f, err := NewFactory(cfg, l)
	if err != nil {
		return nil, err
	}
	m := &Manager{cfg: cfg, factory: f, log: l}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Factory 返回管理器使用的 peer.Factory
func (m *Manager) Factory() *peer.Factory {
	return m.factory
}

// Create 生成新身份
//
// 配置了 GenerateTimeout 时以此限制生成时间。
func (m *Manager) Create(ctx context.Context) (id *peer.ID, err error) {
	defer func() { m.metrics.observe(opCreate, err) }()

	if d := m.cfg.GenerateTimeout.Duration(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	start := time.Now()
	id, err = m.factory.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate identity: %w", err)
	}
	m.metrics.observeGenerate(id.KeyType().String(), time.Since(start))
	m.log.Info("generated identity", "peer", id.ShortString(), "keyType", id.KeyType().String())
	return id, nil
}

// Load 从文件加载身份
//
// 文件必须包含私钥，并通过 IsValid 校验。
func (m *Manager) Load(ctx context.Context, path string) (id *peer.ID, err error) {
	defer func() {
		// 文件不存在不算失败，由 LoadOrCreate 决定是否生成
		if !errors.Is(err, ErrKeyNotFound) {
			m.metrics.observe(opLoad, err)
		}
	}()

	data, err := readIdentityFile(path)
	if err != nil {
		return nil, err
	}

	id, err = decodeIdentity(ctx, m.factory, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFile, path, err)
	}
	if !id.HasPrivateKey() {
		return nil, fmt.Errorf("%w: %s", ErrNoPrivateKey, path)
	}
	if err := id.IsValid(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFile, path, err)
	}

	m.log.Info("loaded identity", "peer", id.ShortString(), "path", path)
	return id, nil
}

// Save 把身份写入文件，权限 0600
//
// 扩展名为 .pem 时写 PEM 形式，否则写 Record 的 JSON 形式。
func (m *Manager) Save(id *peer.ID, path string) (err error) {
	defer func() { m.metrics.observe(opSave, err) }()

	data, err := encodeIdentity(id, formatForPath(path))
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := atomicWriteFile(path, data, 0600); err != nil {
		return err
	}
	m.log.Debug("saved identity", "peer", id.ShortString(), "path", path)
	return nil
}

// LoadOrCreate 按配置取得本地身份
//
// 优先级：KeyFile 存在则加载；KeyFile 缺失且允许自动生成则生成并保存；
// 未配置 KeyFile 时生成仅存于内存的临时身份。
func (m *Manager) LoadOrCreate(ctx context.Context) (*peer.ID, error) {
	path := m.cfg.KeyFile

	if path == "" {
		if !m.cfg.AutoGenerate {
			return nil, ErrNoIdentity
		}
		return m.Create(ctx)
	}

	id, err := m.Load(ctx, path)
	switch {
	case err == nil:
		return id, nil
	case !errors.Is(err, ErrKeyNotFound):
		return nil, err
	case !m.cfg.AutoGenerate:
		return nil, fmt.Errorf("%w: %w", ErrNoIdentity, err)
	}

	id, err = m.Create(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.Save(id, path); err != nil {
		// 保存失败不影响本次运行
		m.log.Warn("failed to save identity", "path", path, "err", err)
	}
	return id, nil
}
