// Package lib 包含身份相关的基础工具库
//
// 本目录下的库不依赖 internal/，可被外部直接引用：
//
//   - crypto: 密钥类型、按位数生成密钥对、protobuf 密钥信封的序列化
//   - fingerprint: multihash 指纹的计算、校验，以及 Base58 / 十六进制文本形式
//   - log: 跟随 slog.Default() 的延迟 Logger
//
// # 与 pkg/peer 的关系
//
// pkg/peer 的 ID 只通过 KeyService / FingerprintCodec 接口接触这些库，
// 默认实现由 crypto 与 fingerprint 提供。
//
// # 使用示例
//
//	import (
//	    "github.com/dep2p/go-peerid/pkg/lib/crypto"
//	    "github.com/dep2p/go-peerid/pkg/lib/fingerprint"
//	)
//
//	priv, pub, err := crypto.GenerateKeyPairWithBits(crypto.KeyTypeEd25519, 0)
//	data, err := crypto.MarshalPublicKey(pub)
//	fp, err := fingerprint.Default().Sum(data)
package lib
