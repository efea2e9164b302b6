package peer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-peerid/pkg/lib/crypto"
	"github.com/dep2p/go-peerid/pkg/lib/fingerprint"
)

// ============================================================================
//                              指纹构造
// ============================================================================

func TestReferenceFingerprint(t *testing.T) {
	id, err := FromHexString(refHex)
	require.NoError(t, err)

	assert.Equal(t, refB58, id.B58String())
	assert.Equal(t, refB58, id.String())
	assert.Equal(t, refHex, id.HexString())
	assert.Equal(t, refShort, id.ShortString())
	assert.Nil(t, id.PrivateKey())
	assert.Nil(t, id.PublicKey())
}

func TestFingerprintRoundTrip(t *testing.T) {
	codec := fingerprint.Default()
	for i := 0; i < 8; i++ {
		fp, err := codec.Sum([]byte{byte(i), 0x42})
		require.NoError(t, err)

		id, err := FromBytes(fp)
		require.NoError(t, err)
		assert.Equal(t, fp, id.Bytes())

		fromHex, err := FromHexString(id.HexString())
		require.NoError(t, err)
		assert.Equal(t, fp, fromHex.Bytes())

		fromB58, err := FromB58String(id.B58String())
		require.NoError(t, err)
		assert.Equal(t, fp, fromB58.Bytes())
		assert.True(t, strings.HasPrefix(fromB58.B58String(), "Qm"))
	}
}

// TestFromBytes_Copies 构造时复制指纹，外部修改不影响 ID
func TestFromBytes_Copies(t *testing.T) {
	id, err := FromHexString(refHex)
	require.NoError(t, err)

	fp := id.Bytes()
	id2, err := FromBytes(fp)
	require.NoError(t, err)

	fp[5] ^= 0xff
	assert.Equal(t, refB58, id2.B58String())

	out := id2.Bytes()
	out[5] ^= 0xff
	assert.Equal(t, refB58, id2.B58String())
}

func TestFromBytes_Invalid(t *testing.T) {
	garbage := map[string][]byte{
		"nil":       nil,
		"empty":     {},
		"one byte":  {0x12},
		"truncated": {0x12, 0x20, 0xaa},
		"text":      []byte("definitely not a multihash"),
	}
	for name, b := range garbage {
		t.Run(name, func(t *testing.T) {
			id, err := FromBytes(b)
			assert.ErrorIs(t, err, ErrInvalidFingerprint)
			assert.Nil(t, id)
		})
	}
}

func TestFromString_Invalid(t *testing.T) {
	for _, s := range []string{"", "zz", "12", refHex + "ff"} {
		_, err := FromHexString(s)
		assert.ErrorIs(t, err, ErrInvalidFingerprint, "FromHexString(%q)", s)
	}
	for _, s := range []string{"", "0OIl", "Qm", "hello world"} {
		_, err := FromB58String(s)
		assert.ErrorIs(t, err, ErrInvalidFingerprint, "FromB58String(%q)", s)
	}
}

// ============================================================================
//                              New 一致性检查
// ============================================================================

func TestNew_Consistent(t *testing.T) {
	priv, pub := mustKeyPair(t, crypto.KeyTypeEd25519)
	fp, err := DefaultFactory().KeyService().HashPublicKey(pub)
	require.NoError(t, err)

	id, err := New(fp, priv, pub)
	require.NoError(t, err)
	assert.True(t, id.PrivateKey().Equals(priv))
	assert.True(t, id.PublicKey().Equals(pub))

	onlyPriv, err := New(fp, priv, nil)
	require.NoError(t, err)
	assert.Nil(t, onlyPriv.PublicKey())

	onlyPub, err := New(fp, nil, pub)
	require.NoError(t, err)
	assert.False(t, onlyPub.HasPrivateKey())
	assert.Equal(t, crypto.KeyTypeEd25519, onlyPub.KeyType())
}

func TestNew_InconsistentKeyPair(t *testing.T) {
	privA, pubA := mustKeyPair(t, crypto.KeyTypeEd25519)
	_, pubB := mustKeyPair(t, crypto.KeyTypeEd25519)
	fp, err := DefaultFactory().KeyService().HashPublicKey(pubA)
	require.NoError(t, err)

	id, err := New(fp, privA, pubB)
	assert.ErrorIs(t, err, ErrInconsistentKeyPair)
	assert.Nil(t, id)

	// 不同算法的密钥同样不匹配
	_, secpPub := mustKeyPair(t, crypto.KeyTypeSecp256k1)
	_, err = New(fp, privA, secpPub)
	assert.ErrorIs(t, err, ErrInconsistentKeyPair)
}

func TestNew_InconsistentFingerprint(t *testing.T) {
	privA, pubA := mustKeyPair(t, crypto.KeyTypeSecp256k1)
	_, pubB := mustKeyPair(t, crypto.KeyTypeSecp256k1)
	fpB, err := DefaultFactory().KeyService().HashPublicKey(pubB)
	require.NoError(t, err)

	_, err = New(fpB, nil, pubA)
	assert.ErrorIs(t, err, ErrInconsistentFingerprint)

	_, err = New(fpB, privA, nil)
	assert.ErrorIs(t, err, ErrInconsistentFingerprint)

	_, err = New(fpB, privA, pubA)
	assert.ErrorIs(t, err, ErrInconsistentFingerprint)
}

func TestNew_InvalidKeyHandles(t *testing.T) {
	id, err := FromHexString(refHex)
	require.NoError(t, err)
	fp := id.Bytes()

	_, err = New(fp, (*crypto.Ed25519PrivateKey)(nil), nil)
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)

	_, err = New(fp, nil, (*crypto.RSAPublicKey)(nil))
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
}

// ============================================================================
//                              由密钥构造
// ============================================================================

func TestFromPublicKey(t *testing.T) {
	ctx := context.Background()
	for _, tt := range testKeyTypes {
		t.Run(tt.name, func(t *testing.T) {
			id := mustGenerate(t, WithKeyType(tt.kt), WithBits(tt.bits))

			data, err := id.MarshalPublicKey()
			require.NoError(t, err)

			fromBytes, err := FromPublicKeyBytes(ctx, data)
			require.NoError(t, err)
			assert.Equal(t, id.Bytes(), fromBytes.Bytes())
			assert.True(t, fromBytes.Equals(id))
			assert.False(t, fromBytes.HasPrivateKey())

			fromHandle, err := FromPublicKey(ctx, id.PublicKey())
			require.NoError(t, err)
			assert.Equal(t, id.B58String(), fromHandle.B58String())
		})
	}
}

func TestFromPrivateKey(t *testing.T) {
	ctx := context.Background()
	for _, tt := range testKeyTypes {
		t.Run(tt.name, func(t *testing.T) {
			id := mustGenerate(t, WithKeyType(tt.kt), WithBits(tt.bits))

			data, err := id.MarshalPrivateKey()
			require.NoError(t, err)

			fromBytes, err := FromPrivateKeyBytes(ctx, data)
			require.NoError(t, err)
			assert.True(t, fromBytes.Equals(id))
			require.NotNil(t, fromBytes.PublicKey())
			assert.True(t, fromBytes.PublicKey().Equals(id.PublicKey()))
			assert.True(t, fromBytes.PrivateKey().Equals(id.PrivateKey()))

			fromHandle, err := FromPrivateKey(ctx, id.PrivateKey())
			require.NoError(t, err)
			assert.True(t, fromHandle.Equals(id))
		})
	}
}

// TestFromPublicKey_Garbage 垃圾输入只返回错误，不 panic
func TestFromPublicKey_Garbage(t *testing.T) {
	ctx := context.Background()
	priv, _ := mustKeyPair(t, crypto.KeyTypeEd25519)

	handles := map[string]crypto.PublicKey{
		"nil":             nil,
		"typed nil ed":    (*crypto.Ed25519PublicKey)(nil),
		"typed nil rsa":   (*crypto.RSAPublicKey)(nil),
		"typed nil secp":  (*crypto.Secp256k1PublicKey)(nil),
		"typed nil ecdsa": (*crypto.ECDSAPublicKey)(nil),
	}
	for name, pub := range handles {
		t.Run("handle/"+name, func(t *testing.T) {
			id, err := FromPublicKey(ctx, pub)
			assert.ErrorIs(t, err, ErrInvalidPublicKey)
			assert.Nil(t, id)
		})
	}

	blobs := map[string][]byte{
		"nil":         nil,
		"empty":       {},
		"zero":        {0x00},
		"text":        []byte("not a public key"),
		"fingerprint": []byte(refB58),
		"private key": mustMarshalPriv(t, priv),
	}
	for name, data := range blobs {
		t.Run("bytes/"+name, func(t *testing.T) {
			id, err := FromPublicKeyBytes(ctx, data)
			assert.ErrorIs(t, err, ErrInvalidPublicKey)
			assert.Nil(t, id)
		})
	}
}

func TestFromPrivateKey_Garbage(t *testing.T) {
	ctx := context.Background()
	_, secpPub := mustKeyPair(t, crypto.KeyTypeSecp256k1)

	handles := map[string]crypto.PrivateKey{
		"nil":             nil,
		"typed nil ed":    (*crypto.Ed25519PrivateKey)(nil),
		"typed nil rsa":   (*crypto.RSAPrivateKey)(nil),
		"typed nil secp":  (*crypto.Secp256k1PrivateKey)(nil),
		"typed nil ecdsa": (*crypto.ECDSAPrivateKey)(nil),
	}
	for name, priv := range handles {
		t.Run("handle/"+name, func(t *testing.T) {
			id, err := FromPrivateKey(ctx, priv)
			assert.ErrorIs(t, err, ErrInvalidPrivateKey)
			assert.Nil(t, id)
		})
	}

	blobs := map[string][]byte{
		"nil":        nil,
		"empty":      {},
		"zero":       {0x00},
		"text":       []byte("not a private key"),
		"public key": mustMarshalPub(t, secpPub),
	}
	for name, data := range blobs {
		t.Run("bytes/"+name, func(t *testing.T) {
			id, err := FromPrivateKeyBytes(ctx, data)
			assert.ErrorIs(t, err, ErrInvalidPrivateKey)
			assert.Nil(t, id)
		})
	}
}

// TestSmallRSAKeyScenario 小 RSA 密钥：公钥重建的 ID 与原 ID 相同
func TestSmallRSAKeyScenario(t *testing.T) {
	a := mustGenerate(t, WithKeyType(crypto.KeyTypeRSA), WithBits(crypto.RSAMinKeySize))

	data, err := a.MarshalPublicKey()
	require.NoError(t, err)

	b, err := FromPublicKeyBytes(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, a.Bytes(), b.Bytes())
	assert.Equal(t, a.B58String(), b.B58String())
}
