package identity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-peerid/config"
	"github.com/dep2p/go-peerid/internal/util/logger"
	"github.com/dep2p/go-peerid/pkg/peer"
)

// ============================================================================
//                              模块输入依赖
// ============================================================================

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	// 配置（可选，缺省使用默认配置）
	Config *config.Config `optional:"true"`

	// Logger（可选，缺省使用 identity 子系统 Logger）
	Logger *slog.Logger `name:"logger" optional:"true"`

	// Registerer 指标注册器（可选，缺省不记录指标）
	Registerer prometheus.Registerer `optional:"true"`
}

// ============================================================================
//                              模块输出服务
// ============================================================================

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	// LocalID 本地身份（含私钥）
	LocalID *peer.ID `name:"local_id"`

	// Manager 身份管理器
	Manager *Manager

	// Factory 按配置构建的 ID 构造器，供其他组件解析远端身份
	Factory *peer.Factory
}

// ============================================================================
//                              服务提供
// ============================================================================

// ProvideServices 构建管理器并取得本地身份
func ProvideServices(input ModuleInput) (ModuleOutput, error) {
	cfg := config.DefaultIdentityConfig()
	if input.Config != nil {
		cfg = input.Config.Identity
	}

	l := input.Logger
	if l == nil {
		l = logger.Logger(Name)
	}

	var opts []ManagerOption
	if input.Registerer != nil {
		metrics, err := NewMetrics(input.Registerer)
		if err != nil {
			return ModuleOutput{}, fmt.Errorf("identity metrics: %w", err)
		}
		opts = append(opts, WithMetrics(metrics))
	}

	manager, err := NewManager(cfg, l, opts...)
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("identity config: %w", err)
	}

	id, err := manager.LoadOrCreate(context.Background())
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("local identity: %w", err)
	}

	return ModuleOutput{
		LocalID: id,
		Manager: manager,
		Factory: manager.Factory(),
	}, nil
}

// ============================================================================
//                              模块定义
// ============================================================================

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module(Name,
		fx.Provide(ProvideServices),
		fx.Invoke(registerLifecycle),
	)
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In
	LC      fx.Lifecycle
	LocalID *peer.ID     `name:"local_id"`
	Logger  *slog.Logger `name:"logger" optional:"true"`
}

// registerLifecycle 启动时再校验一次本地身份
func registerLifecycle(input lifecycleInput) {
	l := input.Logger
	if l == nil {
		l = logger.Logger(Name)
	}

	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := input.LocalID.IsValid(ctx); err != nil {
				return fmt.Errorf("local identity %s: %w", input.LocalID.ShortString(), err)
			}
			l.Info("identity ready", "peer", input.LocalID.String())
			return nil
		},
		OnStop: func(_ context.Context) error {
			l.Debug("identity stopped", "peer", input.LocalID.ShortString())
			return nil
		},
	})
}

// ============================================================================
//                              模块元信息
// ============================================================================

// 模块元信息常量
const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "identity"
	// Description 模块描述
	Description = "本地身份模块，按配置生成或加载自证明的节点身份"
)
