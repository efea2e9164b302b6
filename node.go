package peerid

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/fx"

	"github.com/dep2p/go-peerid/config"
	"github.com/dep2p/go-peerid/internal/core/identity"
	"github.com/dep2p/go-peerid/pkg/lib/log"
	"github.com/dep2p/go-peerid/pkg/peer"
)

var logger = log.Logger("peerid")

// ════════════════════════════════════════════════════════════════════════════
//                              节点状态
// ════════════════════════════════════════════════════════════════════════════

// NodeState 节点状态
type NodeState int

const (
	// StateIdle 已创建，未启动
	StateIdle NodeState = iota

	// StateRunning 运行中
	StateRunning

	// StateStopped 已停止
	StateStopped
)

// String 返回状态的字符串表示
func (s NodeState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ErrNodeStopped 节点已停止，不能再次启动
var ErrNodeStopped = errors.New("node already stopped")

// ════════════════════════════════════════════════════════════════════════════
//                              Node
// ════════════════════════════════════════════════════════════════════════════

// Node 持有本地身份的节点
//
// 由 New 创建时已经取得本地身份；Start 运行生命周期钩子（校验身份），
// Close 释放资源。
type Node struct {
	mu     sync.Mutex
	state  NodeState
	app    *fx.App
	config *config.Config

	// 由 Fx 注入
	id      *peer.ID
	manager *identity.Manager
	factory *peer.Factory
}

// New 按选项创建节点
func New(opts ...Option) (*Node, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	cfg, err := o.build()
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	cfg.Log.Apply()

	node := &Node{config: cfg}
	app := buildFxApp(cfg, o, node)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("build node: %w", err)
	}
	node.app = app
	return node, nil
}

// Start 创建并启动节点
func Start(ctx context.Context, opts ...Option) (*Node, error) {
	node, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := node.Start(ctx); err != nil {
		return nil, err
	}
	return node, nil
}

// Start 启动节点
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == StateRunning {
		return nil
	}
	if n.state == StateStopped {
		return ErrNodeStopped
	}

	if err := n.app.Start(ctx); err != nil {
		return fmt.Errorf("start node: %w", err)
	}
	n.state = StateRunning
	logger.Info("node started", "peer", n.id.ShortString())
	return nil
}

// Stop 停止节点
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state != StateRunning {
		n.state = StateStopped
		return nil
	}

	n.state = StateStopped
	if err := n.app.Stop(ctx); err != nil {
		return fmt.Errorf("stop node: %w", err)
	}
	logger.Info("node stopped", "peer", n.id.ShortString())
	return nil
}

// Close 使用后台 context 停止节点
func (n *Node) Close() error {
	return n.Stop(context.Background())
}

// State 返回当前状态
func (n *Node) State() NodeState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// ID 返回本地身份（含私钥）
func (n *Node) ID() *peer.ID {
	return n.id
}

// Factory 返回按配置构建的 ID 构造器
//
// 解析远端身份时应使用它，以保证指纹哈希与本地一致。
func (n *Node) Factory() *peer.Factory {
	return n.factory
}

// Config 返回节点使用的配置
func (n *Node) Config() *config.Config {
	return n.config
}

// SaveIdentity 把本地身份写入文件
func (n *Node) SaveIdentity(path string) error {
	return n.manager.Save(n.id, path)
}

// ════════════════════════════════════════════════════════════════════════════
//                              便捷函数
// ════════════════════════════════════════════════════════════════════════════

// LoadLocalIdentity 按配置取得本地身份后立即释放节点
//
// cfg 为 nil 时使用默认配置（内存中的临时 Ed25519 身份）。
func LoadLocalIdentity(ctx context.Context, cfg *config.Config) (*peer.ID, error) {
	var opts []Option
	if cfg != nil {
		opts = append(opts, WithConfig(cfg))
	}

	node, err := Start(ctx, opts...)
	if err != nil {
		return nil, err
	}
	id := node.ID()
	if err := node.Stop(ctx); err != nil {
		return nil, err
	}
	return id, nil
}
