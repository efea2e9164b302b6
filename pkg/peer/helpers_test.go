package peer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-peerid/pkg/lib/crypto"
)

const (
	refHex   = "1220151ab1658d8294ab34b71d5582cfe20d06414212f440a69366f1bc31deb5c72d"
	refB58   = "QmPm2sunRFpswBAByqunK5Yk8PLj7mxL5HpCS4Qg6p7LdS"
	refShort = "<peer.ID Pm2sun>"
)

// testKeyTypes 测试覆盖的密钥类型，RSA 用最小位数以加快速度
var testKeyTypes = []struct {
	name string
	kt   crypto.KeyType
	bits int
}{
	{"Ed25519", crypto.KeyTypeEd25519, 0},
	{"Secp256k1", crypto.KeyTypeSecp256k1, 0},
	{"ECDSA", crypto.KeyTypeECDSA, 256},
	{"RSA", crypto.KeyTypeRSA, crypto.RSAMinKeySize},
}

func mustGenerate(t *testing.T, opts ...GenerateOption) *ID {
	t.Helper()
	id, err := Generate(context.Background(), opts...)
	require.NoError(t, err)
	require.NotNil(t, id)
	return id
}

func mustKeyPair(t *testing.T, kt crypto.KeyType) (crypto.PrivateKey, crypto.PublicKey) {
	t.Helper()
	bits := 0
	if kt == crypto.KeyTypeRSA {
		bits = crypto.RSAMinKeySize
	}
	priv, pub, err := crypto.GenerateKeyPairWithBits(kt, bits)
	require.NoError(t, err)
	return priv, pub
}

func mustMarshalPub(t *testing.T, pub crypto.PublicKey) []byte {
	t.Helper()
	data, err := crypto.MarshalPublicKey(pub)
	require.NoError(t, err)
	return data
}

func mustMarshalPriv(t *testing.T, priv crypto.PrivateKey) []byte {
	t.Helper()
	data, err := crypto.MarshalPrivateKey(priv)
	require.NoError(t, err)
	return data
}
