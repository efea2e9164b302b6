package peerid

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-peerid/config"
	"github.com/dep2p/go-peerid/internal/core/identity"
	"github.com/dep2p/go-peerid/pkg/peer"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序：
//  1. 配置与 Logger
//  2. Identity 模块
//  3. 用户 Fx 选项
//  4. Node 组件注入
func buildFxApp(cfg *config.Config, o *options, node *Node) *fx.App {
	modules := []fx.Option{
		fx.Supply(cfg),
	}

	if l := o.logger; l != nil {
		modules = append(modules, fx.Provide(
			fx.Annotate(func() *slog.Logger { return l }, fx.ResultTags(`name:"logger"`)),
		))
	}

	if reg := o.registerer; reg != nil {
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return reg }))
	}

	modules = append(modules, identity.Module())

	if len(o.userFxOptions) > 0 {
		modules = append(modules, o.userFxOptions...)
	}

	modules = append(modules,
		fx.Invoke(injectNodeComponents(node)),
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	return fx.New(modules...)
}

// nodeInjectParams Node 组件注入参数
type nodeInjectParams struct {
	fx.In

	LocalID *peer.ID `name:"local_id"`
	Manager *identity.Manager
	Factory *peer.Factory
}

// injectNodeComponents 把模块产出的组件挂到 Node 上
func injectNodeComponents(node *Node) interface{} {
	return func(p nodeInjectParams) {
		node.id = p.LocalID
		node.manager = p.Manager
		node.factory = p.Factory
	}
}
