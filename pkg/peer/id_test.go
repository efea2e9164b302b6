package peer

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-peerid/pkg/lib/crypto"
)

// ============================================================================
//                              相等与类型检查
// ============================================================================

func TestEquals(t *testing.T) {
	a := mustGenerate(t)
	b := mustGenerate(t)

	assert.True(t, a.Equals(a))
	assert.False(t, a.Equals(b))
	assert.False(t, b.Equals(a))

	assert.True(t, a.Equals(RawFingerprint(a.Bytes())))
	assert.False(t, a.Equals(RawFingerprint(b.Bytes())))
	assert.False(t, a.Equals(RawFingerprint(nil)))

	assert.False(t, a.Equals(nil))
	assert.False(t, a.Equals((*ID)(nil)))
	assert.False(t, (*ID)(nil).Equals(a))
	assert.False(t, (&ID{}).Equals(RawFingerprint(nil)))

	// 只比较指纹，与密钥无关
	bare, err := FromBytes(a.Bytes())
	require.NoError(t, err)
	assert.True(t, bare.Equals(a))
	assert.Equal(t, a.KeyString(), bare.KeyString())
}

func TestKeyStringAsMapKey(t *testing.T) {
	a := mustGenerate(t)
	same, err := FromB58String(a.B58String())
	require.NoError(t, err)

	m := map[string]*ID{a.KeyString(): a}
	assert.Same(t, a, m[same.KeyString()])
}

func TestIsID(t *testing.T) {
	id := mustGenerate(t)
	bare, err := FromHexString(refHex)
	require.NoError(t, err)

	assert.True(t, IsID(id))
	assert.True(t, IsID(bare))

	for name, v := range map[string]any{
		"nil":         nil,
		"typed nil":   (*ID)(nil),
		"zero value":  &ID{},
		"bytes":       id.Bytes(),
		"string":      id.B58String(),
		"raw":         RawFingerprint(id.Bytes()),
		"record":      &Record{Fingerprint: id.B58String()},
		"non-pointer": 42,
	} {
		assert.False(t, IsID(v), name)
	}
}

// ============================================================================
//                              展示
// ============================================================================

func TestShortString(t *testing.T) {
	for i := 0; i < 4; i++ {
		id := mustGenerate(t)
		s := id.B58String()
		assert.Equal(t, "<peer.ID "+s[2:8]+">", id.ShortString())
	}

	var zero ID
	assert.Equal(t, "<peer.ID >", zero.ShortString())
	assert.Equal(t, "", zero.String())
	assert.Nil(t, zero.Bytes())
	assert.Equal(t, crypto.KeyTypeUnspecified, zero.KeyType())
}

func TestMarshalPublicKey_DerivedAndCached(t *testing.T) {
	src := mustGenerate(t, WithKeyType(crypto.KeyTypeSecp256k1))
	id, err := New(src.Bytes(), src.PrivateKey(), nil)
	require.NoError(t, err)
	require.Nil(t, id.PublicKey())

	data, err := id.MarshalPublicKey()
	require.NoError(t, err)

	want, err := src.MarshalPublicKey()
	require.NoError(t, err)
	assert.Equal(t, want, data)

	// 派生结果被缓存
	require.NotNil(t, id.PublicKey())
	assert.True(t, id.PublicKey().Equals(src.PublicKey()))
}

func TestMarshalKeys_Missing(t *testing.T) {
	id, err := FromHexString(refHex)
	require.NoError(t, err)

	_, err = id.MarshalPublicKey()
	assert.ErrorIs(t, err, ErrNoPublicKey)

	_, err = id.MarshalPrivateKey()
	assert.ErrorIs(t, err, ErrNoPrivateKey)
}

// ============================================================================
//                              不可变性
// ============================================================================

func TestSetFingerprintPanics(t *testing.T) {
	id := mustGenerate(t)
	before := id.B58String()

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		id.SetFingerprint([]byte{0x12, 0x20})
	}()

	err, ok := recovered.(error)
	require.True(t, ok, "panic value %v is not an error", recovered)
	assert.True(t, errors.Is(err, ErrImmutable))

	var ie *ImmutabilityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, before, ie.ID)
	assert.Equal(t, before, id.B58String())
}

func TestTextMarshaling(t *testing.T) {
	type envelope struct {
		Peer *ID `json:"peer"`
	}

	id := mustGenerate(t)
	data, err := json.Marshal(envelope{Peer: id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"peer":"`+id.B58String()+`"}`, string(data))

	var out envelope
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, out.Peer.Equals(id))
	assert.True(t, IsID(out.Peer))
	assert.Nil(t, out.Peer.PrivateKey())

	// 已有指纹的 ID 不能重新解析
	err = id.UnmarshalText([]byte(refB58))
	assert.ErrorIs(t, err, ErrImmutable)
	assert.NotEqual(t, refB58, id.B58String())

	var bad envelope
	assert.Error(t, json.Unmarshal([]byte(`{"peer":"not-a-peer"}`), &bad))
}

// TestConcurrentAccess 并发读写密钥不产生数据竞争
func TestConcurrentAccess(t *testing.T) {
	id := mustGenerate(t)
	other := mustGenerate(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				id.SetPublicKey(other.PublicKey())
			} else {
				id.SetPrivateKey(other.PrivateKey())
			}
		}()
		go func() {
			defer wg.Done()
			_, _ = id.MarshalPublicKey()
			_ = id.KeyType()
			_, _ = id.ToRecord()
		}()
	}
	wg.Wait()

	assert.NotNil(t, id.PublicKey())
}
