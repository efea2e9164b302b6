package peerid

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-peerid/config"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 基础配置，nil 时使用默认配置
	config *config.Config

	// 身份配置覆盖
	identityKeyFile string
	keyType         string
	keyBits         *int
	hashFunction    string

	// 注入的 Logger，覆盖子系统 Logger
	logger *slog.Logger

	// 指标注册器，nil 时不记录指标
	registerer prometheus.Registerer

	// 用户自定义 Fx 选项
	userFxOptions []fx.Option
}

// build 应用选项并返回最终配置
func (o *options) build() (*config.Config, error) {
	cfg := config.CloneConfig(o.config)
	if cfg == nil {
		cfg = config.NewConfig()
	}

	if o.identityKeyFile != "" {
		cfg.Identity.KeyFile = o.identityKeyFile
	}
	if o.keyType != "" {
		cfg.Identity.KeyType = o.keyType
	}
	if o.keyBits != nil {
		cfg.Identity.KeyBits = *o.keyBits
	}
	if o.hashFunction != "" {
		cfg.Identity.HashFunction = o.hashFunction
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithConfig 使用完整配置作为基础
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		o.config = cfg
		return nil
	}
}

// WithIdentityFromFile 从文件加载身份，文件不存在时生成并保存
//
// 扩展名为 .pem 时使用 PEM 形式，否则使用 JSON 记录。
func WithIdentityFromFile(path string) Option {
	return func(o *options) error {
		if path == "" {
			return errors.New("identity file path is empty")
		}
		o.identityKeyFile = path
		return nil
	}
}

// WithKeyType 设置生成身份时的密钥类型和位数，bits 为 0 表示默认
func WithKeyType(keyType string, bits int) Option {
	return func(o *options) error {
		o.keyType = keyType
		o.keyBits = &bits
		return nil
	}
}

// WithHashFunction 设置指纹哈希函数（multihash 名称）
func WithHashFunction(name string) Option {
	return func(o *options) error {
		o.hashFunction = name
		return nil
	}
}

// WithLogger 使用指定 Logger 记录身份模块日志
func WithLogger(l *slog.Logger) Option {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}

// WithMetrics 把身份模块指标注册到 reg
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) error {
		if reg == nil {
			return errors.New("metrics registerer is nil")
		}
		o.registerer = reg
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项
//
// 可用于注入依赖本地身份的组件：
//
//	peerid.WithFxOptions(fx.Invoke(fx.Annotate(register, fx.ParamTags(`name:"local_id"`))))
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
