// Package crypto 提供 PeerID 派生所需的密钥服务
//
// 本包实现身份模块依赖的密钥原语：生成密钥对、从私钥派生公钥、
// 以及密钥的序列化/反序列化。PeerID 本身的构造与校验在 pkg/peer 中完成。
//
// # 支持的密钥类型
//
//   - Ed25519（默认推荐）：固定 256 位
//   - Secp256k1（区块链兼容）：固定 256 位，基于 decred secp256k1
//   - ECDSA：按位数选择曲线（256 → P-256，384 → P-384，521 → P-521）
//   - RSA：1024 ~ 8192 位，默认 2048 位
//
// # 快速开始
//
//	priv, pub, err := crypto.GenerateKeyPairWithBits(crypto.KeyTypeRSA, 4096)
//
//	data, err := crypto.MarshalPublicKey(pub)
//	pub2, err := crypto.UnmarshalPublicKeyBytes(data)
//
// # 序列化格式
//
// 序列化后的密钥是一个 protobuf 信封：
//
//	message PublicKey  { KeyType Type = 1; bytes Data = 2; }
//	message PrivateKey { KeyType Type = 1; bytes Data = 2; }
//
// Data 的内容由具体算法决定（见各算法文件的 Raw 方法）。
package crypto
