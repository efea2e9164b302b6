package peer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dep2p/go-peerid/pkg/lib/crypto"
	"github.com/dep2p/go-peerid/pkg/lib/fingerprint"
)

// ============================================================================
//                              错误定义
// ============================================================================

var (
	// ErrInvalidFingerprint 指纹不是合法的 multihash
	ErrInvalidFingerprint = errors.New("invalid peer id fingerprint")

	// ErrInvalidPublicKey 公钥无法解析
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrInvalidPrivateKey 私钥无法解析
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrInconsistentKeyPair 公钥与私钥不对应
	ErrInconsistentKeyPair = errors.New("public key does not match private key")

	// ErrInconsistentFingerprint 指纹与公钥哈希不一致
	ErrInconsistentFingerprint = errors.New("fingerprint does not match public key")

	// ErrImmutable 指纹创建后不可修改
	ErrImmutable = errors.New("peer id fingerprint is immutable")

	// ErrNoPublicKey 既没有公钥也没有私钥
	ErrNoPublicKey = errors.New("peer id has no public key")

	// ErrNoPrivateKey 没有私钥
	ErrNoPrivateKey = errors.New("peer id has no private key")

	// ErrNilRecord 记录为 nil
	ErrNilRecord = errors.New("nil peer id record")

	// ErrInvalidRecord 记录格式错误
	ErrInvalidRecord = errors.New("invalid peer id record")
)

// ImmutabilityError 重新赋值指纹时的 panic 值
//
// 这是编程错误，不走错误返回通道。
type ImmutabilityError struct {
	ID string
}

func (e *ImmutabilityError) Error() string {
	return fmt.Sprintf("cannot reassign fingerprint of %s", e.ID)
}

// Unwrap 使 errors.Is(err, ErrImmutable) 成立
func (e *ImmutabilityError) Unwrap() error {
	return ErrImmutable
}

// ============================================================================
//                              错误包装
// ============================================================================

// sameKind 下层库中含义相同的哨兵错误
var sameKind = map[error]error{
	ErrInvalidFingerprint: fingerprint.ErrInvalidFingerprint,
	ErrInvalidPublicKey:   crypto.ErrInvalidPublicKey,
	ErrInvalidPrivateKey:  crypto.ErrInvalidPrivateKey,
}

// kindError 同时匹配 pkg/peer 与下层库哨兵的错误
type kindError struct {
	kind error
	err  error
	msg  string
}

func (e *kindError) Error() string   { return e.msg }
func (e *kindError) Unwrap() []error { return []error{e.kind, e.err} }

// wrapErr 用 kind 标记 err，消息中不重复同义的前缀
//
// errors.Is 对 kind 和 err 链上的哨兵都成立。
func wrapErr(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	lower, ok := sameKind[kind]
	if !ok || !errors.Is(err, lower) {
		return fmt.Errorf("%w: %w", kind, err)
	}
	msg := err.Error()
	if rest, found := strings.CutPrefix(msg, lower.Error()); found {
		msg = kind.Error() + rest
	}
	return &kindError{kind: kind, err: err, msg: msg}
}
