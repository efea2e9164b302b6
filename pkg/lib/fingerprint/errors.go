package fingerprint

import "errors"

var (
	// ErrInvalidFingerprint 不是合法的 multihash
	ErrInvalidFingerprint = errors.New("invalid fingerprint")

	// ErrUnsupportedHash 哈希函数不受支持
	ErrUnsupportedHash = errors.New("unsupported hash function")

	// ErrEmptyInput 输入为空
	ErrEmptyInput = errors.New("empty input")
)
