// Package fingerprint 提供 PeerID 指纹的编解码
//
// 指纹是自描述的 multihash：
//
//	varint(哈希函数代码) varint(摘要长度) 摘要
//
// 对外有三种等价形式：原始字节、十六进制字符串、Base58 字符串，
// 三者可以无损互转。默认哈希函数为 sha2-256（代码 0x12），
// 因此默认指纹的 Base58 形式总是以 "Qm" 开头。
//
// # 快速开始
//
//	codec := fingerprint.Default()
//	fp, err := codec.Sum(pubKeyBytes)
//	s := codec.Encode(fp)          // "Qm..."
//	fp2, err := codec.Decode(s)
//
// # 哈希函数
//
// 支持 go-multihash 注册表中的所有哈希函数，常用的有：
//
//   - identity: 不做哈希，直接内嵌数据（适合短公钥）
//   - sha2-256: 默认，使用 sha256-simd 计算
//   - sha2-512
//   - blake3: 使用 lukechampine.com/blake3 计算 32 字节摘要
package fingerprint
