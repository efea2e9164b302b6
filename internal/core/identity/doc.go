// Package identity 管理本地节点身份
//
// 本包把 pkg/peer 的 ID 接入应用：按配置构建 peer.Factory，
// 生成或加载本地身份，并读写身份记录文件。
//
// # 身份记录文件
//
// 默认写 Record 的 JSON 形式，扩展名为 .pem 时写 PEM 形式
// （块类型 "PEER IDENTITY"，内容为 ID 的 protobuf 形式）。
// 文件权限 0600，写入使用临时文件加 rename。
//
// # 取得本地身份
//
//	manager, _ := identity.NewManager(cfg.Identity, nil)
//	id, err := manager.LoadOrCreate(ctx)
//
// KeyFile 存在时加载；不存在且 AutoGenerate 为 true 时生成并保存；
// KeyFile 为空时生成只存在于内存中的临时身份。
//
// # Fx 模块
//
//	app := fx.New(
//	    fx.Supply(cfg),
//	    identity.Module(),
//	    fx.Invoke(fx.Annotate(func(id *peer.ID) {
//	        fmt.Println("local peer:", id)
//	    }, fx.ParamTags(`name:"local_id"`))),
//	)
//
// 提供 prometheus.Registerer 时记录指标：
//   - peerid_identity_operations_total{op, result}: create / load / save 次数
//   - peerid_identity_generate_seconds{key_type}: 生成密钥对耗时
//
// # 架构定位
//
// 依赖关系：
//   - 依赖：config, pkg/peer, pkg/lib/fingerprint, internal/util/logger, prometheus
//   - 被依赖：根包 peerid
package identity
