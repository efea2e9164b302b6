// Package main 提供 peerid 命令行工具
//
// 子命令：
//
//	peerid gen      生成新身份（可写入文件）
//	peerid show     按配置加载本地身份并显示
//	peerid inspect  解析并分解一个 ID 字符串
//	peerid version  显示版本信息
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dep2p/go-peerid"
	"github.com/dep2p/go-peerid/pkg/lib/fingerprint"
	"github.com/dep2p/go-peerid/pkg/lib/log"
	"github.com/dep2p/go-peerid/pkg/peer"
)

var logger = log.Logger("peerid/cmd")

// errUsage 参数错误（已输出用法）
var errUsage = errors.New("usage error")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		}
		os.Exit(1)
	}
}

// run 分派子命令
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printHelp(stderr)
		return errUsage
	}

	switch args[0] {
	case "gen":
		return runGen(ctx, args[1:], stdout, stderr)
	case "show":
		return runShow(ctx, args[1:], stdout, stderr)
	case "inspect":
		return runInspect(args[1:], stdout, stderr)
	case "version", "-version", "--version":
		fmt.Fprintln(stdout, peerid.VersionInfo())
		return nil
	case "help", "-h", "-help", "--help":
		printHelp(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "未知子命令: %s\n\n", args[0])
		printHelp(stderr)
		return errUsage
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// gen
// ═══════════════════════════════════════════════════════════════════════════

func runGen(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("gen", stderr)
	keyType := fs.String("type", "", "密钥类型 (RSA/Ed25519/Secp256k1/ECDSA)")
	bits := fs.Int("bits", 0, "密钥位数（0 = 该类型默认值）")
	hash := fs.String("hash", "", "指纹哈希函数（如 sha2-256、blake3）")
	out := fs.String("out", "", "身份文件输出路径（.pem 使用 PEM 格式，其余为 JSON）")
	configFile := fs.String("config", "", "配置文件路径")
	asJSON := fs.Bool("json", false, "以 JSON 记录输出（包含私钥）")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("加载配置文件失败: %w", err)
	}
	applyEnvOverrides(cfg)

	// gen 总是生成新身份，不读取配置中的身份文件
	cfg.Identity.KeyFile = ""
	cfg.Identity.AutoGenerate = true

	opts := []peerid.Option{peerid.WithConfig(cfg)}
	if *keyType != "" || isFlagSet(fs, "bits") {
		kt := *keyType
		if kt == "" {
			kt = cfg.Identity.KeyType
		}
		opts = append(opts, peerid.WithKeyType(kt, *bits))
	}
	if *hash != "" {
		opts = append(opts, peerid.WithHashFunction(*hash))
	}

	node, err := peerid.Start(ctx, opts...)
	if err != nil {
		return fmt.Errorf("生成身份失败: %w", err)
	}
	defer func() { _ = node.Close() }()

	if *out != "" {
		if _, err := os.Stat(*out); err == nil {
			return fmt.Errorf("文件已存在: %s", *out)
		}
		if err := node.SaveIdentity(*out); err != nil {
			return fmt.Errorf("保存身份失败: %w", err)
		}
		logger.Info("identity saved", "path", *out, "peer", node.ID().ShortString())
	}

	if *asJSON {
		data, err := node.ID().ToJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}
	return printIdentity(stdout, node.ID())
}

// ═══════════════════════════════════════════════════════════════════════════
// show
// ═══════════════════════════════════════════════════════════════════════════

func runShow(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("show", stderr)
	configFile := fs.String("config", "", "配置文件路径")
	identityFile := fs.String("identity", "", "身份文件路径（覆盖配置）")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("加载配置文件失败: %w", err)
	}
	applyEnvOverrides(cfg)

	opts := []peerid.Option{peerid.WithConfig(cfg)}
	if *identityFile != "" {
		opts = append(opts, peerid.WithIdentityFromFile(*identityFile))
	}

	node, err := peerid.Start(ctx, opts...)
	if err != nil {
		return fmt.Errorf("加载身份失败: %w", err)
	}
	defer func() { _ = node.Close() }()

	return printIdentity(stdout, node.ID())
}

// ═══════════════════════════════════════════════════════════════════════════
// inspect
// ═══════════════════════════════════════════════════════════════════════════

func runInspect(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("inspect", stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "用法: peerid inspect <base58|hex>")
		return errUsage
	}

	id, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}
	info, err := fingerprint.Inspect(id.Bytes())
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Peer ID:  %s\n", id.B58String())
	fmt.Fprintf(stdout, "Hex:      %s\n", id.HexString())
	fmt.Fprintf(stdout, "Hash:     %s (0x%x)\n", info.Name, info.Code)
	fmt.Fprintf(stdout, "Length:   %d\n", info.Length)
	fmt.Fprintf(stdout, "Digest:   %s\n", hex.EncodeToString(info.Digest))
	return nil
}

// parseID 先按 base58 解析，失败后按十六进制解析
func parseID(s string) (*peer.ID, error) {
	id, b58Err := peer.FromB58String(s)
	if b58Err == nil {
		return id, nil
	}
	id, hexErr := peer.FromHexString(s)
	if hexErr == nil {
		return id, nil
	}
	return nil, fmt.Errorf("无法解析 ID %q: %w", s, b58Err)
}

// ═══════════════════════════════════════════════════════════════════════════
// 输出
// ═══════════════════════════════════════════════════════════════════════════

// printIdentity 显示身份信息（不显示私钥）
func printIdentity(w io.Writer, id *peer.ID) error {
	info, err := fingerprint.Inspect(id.Bytes())
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Peer ID:  %s\n", id.B58String())
	fmt.Fprintf(w, "Hex:      %s\n", id.HexString())
	fmt.Fprintf(w, "Key Type: %s\n", id.KeyType())
	fmt.Fprintf(w, "Hash:     %s\n", info.Name)
	fmt.Fprintf(w, "Private:  %t\n", id.HasPrivateKey())
	return nil
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, `%s

用法:
  peerid <子命令> [参数]

子命令:
  gen       生成新身份
            -type <类型> -bits <位数> -hash <哈希> -out <文件> -config <文件> -json
  show      加载并显示本地身份
            -config <文件> -identity <文件>
  inspect   解析 ID 字符串（base58 或十六进制）
  version   显示版本信息

环境变量:
  DEP2P_IDENTITY_KEY_FILE         身份文件路径
  DEP2P_IDENTITY_KEY_TYPE         密钥类型
  DEP2P_IDENTITY_KEY_BITS         密钥位数
  DEP2P_IDENTITY_HASH_FUNCTION    指纹哈希函数
  DEP2P_IDENTITY_AUTO_GENERATE    身份文件不存在时是否自动生成
  DEP2P_LOG_LEVEL                 日志级别（如 info,identity=debug）
  DEP2P_LOG_FORMAT                日志格式 (text/json)
`, peerid.VersionInfo())
}

// ═══════════════════════════════════════════════════════════════════════════
// 辅助
// ═══════════════════════════════════════════════════════════════════════════

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// isFlagSet 检查命令行参数是否被显式设置
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
