package peer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dep2p/go-peerid/pkg/lib/crypto"
)

// ============================================================================
//                              Record
// ============================================================================

// Record ID 的可序列化形式
//
//	{"fingerprint": "<base58>", "privateKey": "<base64>", "publicKey": "<base64>"}
//
// 密钥字段是序列化密钥（protobuf 信封）的标准 Base64，缺失时省略。
type Record struct {
	Fingerprint string `json:"fingerprint"`
	PrivateKey  string `json:"privateKey,omitempty"`
	PublicKey   string `json:"publicKey,omitempty"`
}

// ToRecord 导出为 Record
//
// 只有私钥时公钥从私钥派生后一并导出。
func (id *ID) ToRecord() (*Record, error) {
	if id == nil || len(id.fp) == 0 {
		return nil, ErrInvalidFingerprint
	}
	rec := &Record{Fingerprint: id.B58String()}

	if id.HasPrivateKey() {
		data, err := id.MarshalPrivateKey()
		if err != nil {
			return nil, err
		}
		rec.PrivateKey = base64.StdEncoding.EncodeToString(data)
	}

	data, err := id.MarshalPublicKey()
	switch {
	case err == nil:
		rec.PublicKey = base64.StdEncoding.EncodeToString(data)
	case errors.Is(err, ErrNoPublicKey):
	default:
		return nil, err
	}
	return rec, nil
}

// ToJSON 导出为 Record 的 JSON 形式
func (id *ID) ToJSON() ([]byte, error) {
	rec, err := id.ToRecord()
	if err != nil {
		return nil, err
	}
	return json.Marshal(rec)
}

// FromRecord 由 Record 重建 ID
//
// 解码每个存在的字段后交给 New 做一致性检查。
func (f *Factory) FromRecord(ctx context.Context, rec *Record) (*ID, error) {
	return run(ctx, func() (*ID, error) {
		return f.fromRecord(rec)
	})
}

func (f *Factory) fromRecord(rec *Record) (*ID, error) {
	if rec == nil {
		return nil, ErrNilRecord
	}

	fp, err := f.codec.Decode(rec.Fingerprint)
	if err != nil {
		return nil, wrapErr(ErrInvalidFingerprint, err)
	}

	var priv crypto.PrivateKey
	if rec.PrivateKey != "" {
		data, err := base64.StdEncoding.DecodeString(rec.PrivateKey)
		if err != nil {
			return nil, wrapErr(ErrInvalidPrivateKey, err)
		}
		if priv, err = f.keys.UnmarshalPrivateKey(data); err != nil {
			return nil, wrapErr(ErrInvalidPrivateKey, err)
		}
	}

	var pub crypto.PublicKey
	if rec.PublicKey != "" {
		data, err := base64.StdEncoding.DecodeString(rec.PublicKey)
		if err != nil {
			return nil, wrapErr(ErrInvalidPublicKey, err)
		}
		if pub, err = f.keys.UnmarshalPublicKey(data); err != nil {
			return nil, wrapErr(ErrInvalidPublicKey, err)
		}
	}

	return f.New(fp, priv, pub)
}

// FromJSON 由 Record 的 JSON 形式重建 ID
func (f *Factory) FromJSON(ctx context.Context, data []byte) (*ID, error) {
	return run(ctx, func() (*ID, error) {
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, wrapErr(ErrInvalidRecord, err)
		}
		return f.fromRecord(&rec)
	})
}

// ============================================================================
//                              Protobuf 形式
// ============================================================================

// protobuf 字段：
//
//	message PeerId { bytes id = 1; bytes pubKey = 2; bytes privKey = 3; }
const (
	pbFieldID      protowire.Number = 1
	pbFieldPubKey  protowire.Number = 2
	pbFieldPrivKey protowire.Number = 3
)

// Marshal 导出为 protobuf 形式
//
// excludePriv 为 true 时不包含私钥。
func (id *ID) Marshal(excludePriv bool) ([]byte, error) {
	if id == nil || len(id.fp) == 0 {
		return nil, ErrInvalidFingerprint
	}

	buf := protowire.AppendTag(nil, pbFieldID, protowire.BytesType)
	buf = protowire.AppendBytes(buf, id.fp)

	pub, err := id.MarshalPublicKey()
	switch {
	case err == nil:
		buf = protowire.AppendTag(buf, pbFieldPubKey, protowire.BytesType)
		buf = protowire.AppendBytes(buf, pub)
	case errors.Is(err, ErrNoPublicKey):
	default:
		return nil, err
	}

	if !excludePriv && id.HasPrivateKey() {
		priv, err := id.MarshalPrivateKey()
		if err != nil {
			return nil, err
		}
		buf = protowire.AppendTag(buf, pbFieldPrivKey, protowire.BytesType)
		buf = protowire.AppendBytes(buf, priv)
	}
	return buf, nil
}

// FromProtobuf 由 protobuf 形式重建 ID
func (f *Factory) FromProtobuf(ctx context.Context, data []byte) (*ID, error) {
	return run(ctx, func() (*ID, error) {
		return f.fromProtobuf(data)
	})
}

func (f *Factory) fromProtobuf(data []byte) (*ID, error) {
	var fp, pubData, privData []byte
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, protowire.ParseError(n))
		}
		data = data[n:]

		if typ != protowire.BytesType || num < pbFieldID || num > pbFieldPrivKey {
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, protowire.ParseError(n))
			}
			data = data[n:]
			continue
		}

		v, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case pbFieldID:
			fp = v
		case pbFieldPubKey:
			pubData = v
		case pbFieldPrivKey:
			privData = v
		}
	}

	var (
		priv crypto.PrivateKey
		pub  crypto.PublicKey
		err  error
	)
	if len(privData) > 0 {
		if priv, err = f.keys.UnmarshalPrivateKey(privData); err != nil {
			return nil, wrapErr(ErrInvalidPrivateKey, err)
		}
	}
	if len(pubData) > 0 {
		if pub, err = f.keys.UnmarshalPublicKey(pubData); err != nil {
			return nil, wrapErr(ErrInvalidPublicKey, err)
		}
	}
	return f.New(fp, priv, pub)
}

// ============================================================================
//                              包级函数
// ============================================================================

// FromRecord 使用默认 Factory 由 Record 重建 ID
func FromRecord(ctx context.Context, rec *Record) (*ID, error) {
	return defaultFactory.FromRecord(ctx, rec)
}

// FromJSON 使用默认 Factory 由 JSON 重建 ID
func FromJSON(ctx context.Context, data []byte) (*ID, error) {
	return defaultFactory.FromJSON(ctx, data)
}

// FromProtobuf 使用默认 Factory 由 protobuf 形式重建 ID
func FromProtobuf(ctx context.Context, data []byte) (*ID, error) {
	return defaultFactory.FromProtobuf(ctx, data)
}
