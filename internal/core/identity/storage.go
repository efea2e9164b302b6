package identity

import (
	"bytes"
	"context"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dep2p/go-peerid/pkg/peer"
)

// pemTypeIdentity PEM 形式的块类型，内容为 ID 的 protobuf 形式（含私钥）
const pemTypeIdentity = "PEER IDENTITY"

// FileFormat 身份记录文件格式
type FileFormat int

const (
	// FormatJSON Record 的 JSON 形式（默认）
	FormatJSON FileFormat = iota
	// FormatPEM protobuf 形式外包一层 PEM
	FormatPEM
)

// formatForPath 按扩展名选择格式，.pem 用 PEM，其余用 JSON
func formatForPath(path string) FileFormat {
	if strings.EqualFold(filepath.Ext(path), ".pem") {
		return FormatPEM
	}
	return FormatJSON
}

// ============================================================================
//                              编码
// ============================================================================

// encodeIdentity 按格式编码 ID（包含私钥）
func encodeIdentity(id *peer.ID, format FileFormat) ([]byte, error) {
	switch format {
	case FormatPEM:
		data, err := id.Marshal(false)
		if err != nil {
			return nil, err
		}
		return pem.EncodeToMemory(&pem.Block{Type: pemTypeIdentity, Bytes: data}), nil
	default:
		data, err := id.ToJSON()
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// decodeIdentity 解码文件内容，PEM 头优先识别，否则按 JSON 解析
func decodeIdentity(ctx context.Context, f *peer.Factory, data []byte) (*peer.ID, error) {
	trimmed := bytes.TrimSpace(data)

	if bytes.HasPrefix(trimmed, []byte("-----BEGIN")) {
		block, _ := pem.Decode(trimmed)
		if block == nil || block.Type != pemTypeIdentity {
			return nil, fmt.Errorf("%w: unexpected PEM block", ErrInvalidFile)
		}
		return f.FromProtobuf(ctx, block.Bytes)
	}
	return f.FromJSON(ctx, trimmed)
}

// ============================================================================
//                              读写
// ============================================================================

// readIdentityFile 读取身份记录文件
func readIdentityFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, path)
		}
		return nil, err
	}
	return data, nil
}

// atomicWriteFile 原子写文件
//
// 写入同目录下的临时文件，同步并设置权限后 rename 到目标路径。
// 任何一步失败时目标文件保持不变。
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create identity dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Chmod(perm); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}
