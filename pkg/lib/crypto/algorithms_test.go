package crypto

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"errors"
	"testing"
)

// ============================================================================
//                              Ed25519
// ============================================================================

func TestEd25519_UnmarshalPrivateKeyFormats(t *testing.T) {
	priv, pub, err := GenerateEd25519Key(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	full, _ := priv.Raw()
	pubRaw, _ := pub.Raw()

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{"seed", full[:Ed25519SeedSize], false},
		{"seed+pub", full, false},
		{"legacy redundant pub", append(append([]byte(nil), full...), pubRaw...), false},
		{"legacy mismatched pub", append(append([]byte(nil), full...), make([]byte, Ed25519PublicKeySize)...), true},
		{"embedded pub mismatch", append(append([]byte(nil), full[:Ed25519SeedSize]...), make([]byte, Ed25519PublicKeySize)...), true},
		{"short", full[:16], true},
		{"empty", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnmarshalEd25519PrivateKey(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalEd25519PrivateKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equals(priv) {
				t.Error("decoded private key mismatch")
			}
		})
	}
}

func TestEd25519_RawIsCopy(t *testing.T) {
	_, pub, _ := GenerateEd25519Key(rand.Reader)
	raw, _ := pub.Raw()
	raw[0] ^= 0xff

	raw2, _ := pub.Raw()
	if bytes.Equal(raw, raw2) {
		t.Error("mutating Raw() output changed the key")
	}
}

// ============================================================================
//                              RSA
// ============================================================================

func TestRSA_RejectsSmallKeys(t *testing.T) {
	if _, _, err := GenerateRSAKey(512, rand.Reader); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("GenerateRSAKey(512) error = %v, want ErrInvalidKeySize", err)
	}
	if _, err := UnmarshalRSAPublicKey([]byte("garbage")); !errors.Is(err, ErrInvalidPublicKey) {
		t.Errorf("UnmarshalRSAPublicKey(garbage) error = %v, want ErrInvalidPublicKey", err)
	}
	if _, err := UnmarshalRSAPrivateKey([]byte("garbage")); !errors.Is(err, ErrInvalidPrivateKey) {
		t.Errorf("UnmarshalRSAPrivateKey(garbage) error = %v, want ErrInvalidPrivateKey", err)
	}
}

// TestRSA_RejectsECDSAKey PKIX 中的非 RSA 公钥被拒绝
func TestRSA_RejectsECDSAKey(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	der, err := x509.MarshalPKIXPublicKey(&ecKey.PublicKey)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := UnmarshalRSAPublicKey(der); !errors.Is(err, ErrInvalidPublicKey) {
		t.Errorf("UnmarshalRSAPublicKey(ecdsa) error = %v, want ErrInvalidPublicKey", err)
	}
	if _, err := UnmarshalECDSAPublicKey(der); err != nil {
		t.Errorf("UnmarshalECDSAPublicKey() error = %v", err)
	}
}

// ============================================================================
//                              ECDSA
// ============================================================================

func TestECDSA_PKCS8PrivateKey(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(ecKey)
	if err != nil {
		t.Fatal(err)
	}

	priv, err := UnmarshalECDSAPrivateKey(der)
	if err != nil {
		t.Fatalf("UnmarshalECDSAPrivateKey(pkcs8) error = %v", err)
	}
	want := &ECDSAPrivateKey{k: ecKey}
	if !priv.Equals(want) {
		t.Error("decoded PKCS#8 key mismatch")
	}
}

// ============================================================================
//                              Secp256k1
// ============================================================================

func TestSecp256k1_UnmarshalPrivateKey(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"zero scalar", make([]byte, Secp256k1PrivateKeySize), ErrInvalidPrivateKey},
		{"short", make([]byte, 31), ErrInvalidKeySize},
		{"long", make([]byte, 33), ErrInvalidKeySize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalSecp256k1PrivateKey(tt.data); !errors.Is(err, tt.wantErr) {
				t.Errorf("UnmarshalSecp256k1PrivateKey() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSecp256k1_UncompressedPublicKey(t *testing.T) {
	priv, pub, err := GenerateSecp256k1Key(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	uncompressed := priv.(*Secp256k1PrivateKey).k.PubKey().SerializeUncompressed()

	got, err := UnmarshalSecp256k1PublicKey(uncompressed)
	if err != nil {
		t.Fatalf("UnmarshalSecp256k1PublicKey(uncompressed) error = %v", err)
	}
	if !got.Equals(pub) {
		t.Error("uncompressed key decodes to a different key")
	}

	raw, _ := got.Raw()
	if len(raw) != Secp256k1PublicKeySize {
		t.Errorf("len(Raw()) = %d, want %d", len(raw), Secp256k1PublicKeySize)
	}
}
