// Package peerid 提供自证明的节点身份
//
// 节点身份是公钥的 multihash 指纹：任何人拿到公钥都能重算指纹，
// 从而确认对方确实持有这个身份。本包把 pkg/peer 的 ID 与配置、
// 日志、身份记录文件组装成一个可直接使用的本地身份。
//
// # 快速开始
//
//	import "github.com/dep2p/go-peerid"
//
//	// 生成或加载本地身份
//	node, err := peerid.Start(ctx,
//	    peerid.WithIdentityFromFile("/var/lib/peerid/identity.json"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer node.Close()
//
//	fmt.Println("local peer:", node.ID())
//
//	// 解析远端身份
//	remote, err := node.Factory().FromPublicKeyBytes(ctx, pubKeyBytes)
//
// 只需要一次性取得本地身份时：
//
//	id, err := peerid.LoadLocalIdentity(ctx, cfg)
//
// # API 层次结构
//
//   - peerid: Node 与选项，组装 fx 应用
//   - pkg/peer: ID 的构造、校验、编码与记录
//   - pkg/lib/crypto: 密钥类型与密钥信封
//   - pkg/lib/fingerprint: multihash 指纹编解码
//   - config: JSON 配置
//
// # 配置
//
// 选项覆盖 config.Config 中的对应字段：
//
//	cfg, _ := config.LoadFile("peerid.json")
//	node, err := peerid.New(
//	    peerid.WithConfig(cfg),
//	    peerid.WithKeyType("Secp256k1", 0),
//	)
package peerid
