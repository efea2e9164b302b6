// Package peer 实现自认证的节点身份 ID
//
// ID 的核心是指纹：公钥序列化形式的 multihash。任何人拿到公钥都可以
// 重新计算指纹，从而验证 ID 确实属于该公钥的持有者，不需要第三方。
//
// # 构造
//
// 所有构造路径都汇聚到 New，一致性检查集中在一处：
//
//	id, err := peer.Generate(ctx)                                  // 新密钥对
//	id, err := peer.Generate(ctx, peer.WithKeyType(crypto.KeyTypeRSA), peer.WithBits(4096))
//	id, err := peer.FromB58String("QmPm2sunRFpswBAByqunK5Yk8PLj7mxL5HpCS4Qg6p7LdS")
//	id, err := peer.FromPublicKeyBytes(ctx, pubBytes)
//	id, err := peer.FromPrivateKey(ctx, priv)
//	id, err := peer.FromJSON(ctx, data)
//
// 涉及密钥运算的构造函数在独立 goroutine 中执行，ctx 取消时提前返回
// ctx.Err()，后台运算照常完成后丢弃结果。
//
// # 可变性
//
// 指纹不可修改，SetFingerprint 总是 panic（*ImmutabilityError）。
// 私钥和公钥可以替换，替换不做校验：
//
//	id.SetPublicKeyBytes(data)     // 解析失败也不报错
//	if err := id.IsValid(ctx); err != nil {
//	    // ErrInvalidPublicKey / ErrInconsistentFingerprint ...
//	}
//
// # 编码
//
//	id.Bytes()        // multihash 原始字节
//	id.HexString()    // 十六进制
//	id.B58String()    // Base58，同 String()
//	id.ShortString()  // <peer.ID Pm2sun>
//	id.ToJSON()       // {"fingerprint":..., "privateKey":..., "publicKey":...}
//
// 相等性只看指纹：id.Equals(other) 或 id.Equals(peer.RawFingerprint(b))。
package peer
