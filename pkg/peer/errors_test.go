package peer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-peerid/pkg/lib/crypto"
	"github.com/dep2p/go-peerid/pkg/lib/fingerprint"
)

func TestWrapErr(t *testing.T) {
	tests := []struct {
		name  string
		kind  error
		err   error
		lower error
		want  string
	}{
		{
			name:  "crypto public key",
			kind:  ErrInvalidPublicKey,
			err:   fmt.Errorf("%w: bad length", crypto.ErrInvalidPublicKey),
			lower: crypto.ErrInvalidPublicKey,
			want:  "invalid public key: bad length",
		},
		{
			name:  "crypto private key",
			kind:  ErrInvalidPrivateKey,
			err:   fmt.Errorf("%w: bad length", crypto.ErrInvalidPrivateKey),
			lower: crypto.ErrInvalidPrivateKey,
			want:  "invalid private key: bad length",
		},
		{
			name:  "fingerprint",
			kind:  ErrInvalidFingerprint,
			err:   fmt.Errorf("%w: too short", fingerprint.ErrInvalidFingerprint),
			lower: fingerprint.ErrInvalidFingerprint,
			want:  "invalid peer id fingerprint: too short",
		},
		{
			name:  "unrelated",
			kind:  ErrInvalidPublicKey,
			err:   crypto.ErrBadKeyType,
			lower: crypto.ErrBadKeyType,
			want:  ErrInvalidPublicKey.Error() + ": " + crypto.ErrBadKeyType.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapErr(tt.kind, tt.err)
			assert.EqualError(t, err, tt.want)
			assert.ErrorIs(t, err, tt.kind)
			assert.ErrorIs(t, err, tt.lower)
		})
	}

	// 已经是同一哨兵时原样返回
	inner := fmt.Errorf("%w: x", ErrInvalidRecord)
	assert.Same(t, inner, wrapErr(ErrInvalidRecord, inner))
}

// TestErrorMessages_NoRepeatedPrefix 构造失败的错误消息不重复同义前缀
func TestErrorMessages_NoRepeatedPrefix(t *testing.T) {
	ctx := context.Background()
	_, secpPub := mustKeyPair(t, crypto.KeyTypeSecp256k1)
	priv, _ := mustKeyPair(t, crypto.KeyTypeEd25519)

	var errs []error
	_, err := FromPrivateKeyBytes(ctx, []byte("not a private key"))
	errs = append(errs, err)
	_, err = FromPrivateKeyBytes(ctx, mustMarshalPub(t, secpPub))
	errs = append(errs, err)
	_, err = FromPrivateKey(ctx, (*crypto.Ed25519PrivateKey)(nil))
	errs = append(errs, err)
	_, err = FromPublicKeyBytes(ctx, []byte("not a public key"))
	errs = append(errs, err)
	_, err = FromPublicKeyBytes(ctx, mustMarshalPriv(t, priv))
	errs = append(errs, err)
	_, err = FromPublicKey(ctx, (*crypto.RSAPublicKey)(nil))
	errs = append(errs, err)
	_, err = FromHexString("zz")
	errs = append(errs, err)
	_, err = FromB58String("0OIl")
	errs = append(errs, err)
	_, err = FromBytes([]byte{0x12, 0x20, 0xaa})
	errs = append(errs, err)

	for _, err := range errs {
		require.Error(t, err)
		msg := err.Error()
		for _, phrase := range []string{"invalid public key", "invalid private key", "invalid fingerprint"} {
			assert.LessOrEqual(t, strings.Count(msg, phrase), 1, msg)
		}
		assert.NotContains(t, msg, "invalid peer id fingerprint: invalid fingerprint", msg)
	}

	// 两层哨兵都能匹配
	_, err = FromB58String("0OIl")
	assert.ErrorIs(t, err, ErrInvalidFingerprint)
	assert.ErrorIs(t, err, fingerprint.ErrInvalidFingerprint)
	assert.EqualError(t, errs[2], "invalid private key: cannot derive public key")
	assert.True(t, errors.Is(errs[2], ErrInvalidPrivateKey))
	assert.True(t, errors.Is(errs[2], crypto.ErrInvalidPrivateKey))
}
