package identity

import "errors"

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrKeyNotFound 身份记录文件不存在
	ErrKeyNotFound = errors.New("identity file not found")

	// ErrInvalidFile 身份记录文件无法解析
	ErrInvalidFile = errors.New("invalid identity file")

	// ErrNoPrivateKey 身份记录缺少私钥，不能作为本地身份
	ErrNoPrivateKey = errors.New("identity file has no private key")

	// ErrNoIdentity 既没有记录文件也不允许自动生成
	ErrNoIdentity = errors.New("no identity: key file missing and auto generate disabled")
)
