package crypto

import (
	"bytes"
	"errors"
	"reflect"
	"sort"
	"testing"
)

// TestKeyType 测试密钥类型名称
func TestKeyType(t *testing.T) {
	tests := []struct {
		kt   KeyType
		want string
	}{
		{KeyTypeUnspecified, "Unspecified"},
		{KeyTypeRSA, "RSA"},
		{KeyTypeEd25519, "Ed25519"},
		{KeyTypeSecp256k1, "Secp256k1"},
		{KeyTypeECDSA, "ECDSA"},
		{KeyType(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kt.String(); got != tt.want {
			t.Errorf("KeyType(%d).String() = %q, want %q", tt.kt, got, tt.want)
		}
	}
}

// TestKeyTypeValues 枚举值即信封 Type 字段的取值，不能变
func TestKeyTypeValues(t *testing.T) {
	want := map[KeyType]int{
		KeyTypeUnspecified: 0,
		KeyTypeRSA:         1,
		KeyTypeEd25519:     2,
		KeyTypeSecp256k1:   3,
		KeyTypeECDSA:       4,
	}
	for kt, v := range want {
		if int(kt) != v {
			t.Errorf("%s = %d, want %d", kt, int(kt), v)
		}
	}
}

func TestParseKeyType(t *testing.T) {
	tests := []struct {
		name    string
		want    KeyType
		wantErr bool
	}{
		{"ed25519", KeyTypeEd25519, false},
		{"RSA", KeyTypeRSA, false},
		{"secp256k1", KeyTypeSecp256k1, false},
		{"Ecdsa", KeyTypeECDSA, false},
		{"dsa", KeyTypeUnspecified, true},
		{"", KeyTypeUnspecified, true},
		{"Unspecified", KeyTypeUnspecified, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeyType(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKeyType(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrBadKeyType) {
				t.Errorf("ParseKeyType(%q) error = %v, want ErrBadKeyType", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseKeyType(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

// TestGenerateKeyPair 测试默认位数生成
func TestGenerateKeyPair(t *testing.T) {
	tests := []struct {
		name    string
		keyType KeyType
		wantErr bool
	}{
		{"Ed25519", KeyTypeEd25519, false},
		{"Secp256k1", KeyTypeSecp256k1, false},
		{"ECDSA", KeyTypeECDSA, false},
		{"RSA", KeyTypeRSA, false},
		{"Unspecified", KeyTypeUnspecified, true},
		{"Unknown", KeyType(99), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priv, pub, err := GenerateKeyPair(tt.keyType)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GenerateKeyPair(%v) error = %v, wantErr %v", tt.keyType, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrBadKeyType) {
					t.Errorf("GenerateKeyPair(%v) error = %v, want ErrBadKeyType", tt.keyType, err)
				}
				return
			}
			if priv.Type() != tt.keyType || pub.Type() != tt.keyType {
				t.Errorf("key types = %v/%v, want %v", priv.Type(), pub.Type(), tt.keyType)
			}
			if !priv.GetPublic().Equals(pub) {
				t.Error("GetPublic() does not match generated public key")
			}
		})
	}
}

func TestGenerateKeyPairWithBits(t *testing.T) {
	tests := []struct {
		name    string
		keyType KeyType
		bits    int
		wantErr bool
	}{
		{"Ed25519 default", KeyTypeEd25519, 0, false},
		{"Ed25519 256", KeyTypeEd25519, 256, false},
		{"Ed25519 512", KeyTypeEd25519, 512, true},
		{"Secp256k1 256", KeyTypeSecp256k1, 256, false},
		{"Secp256k1 128", KeyTypeSecp256k1, 128, true},
		{"ECDSA 384", KeyTypeECDSA, 384, false},
		{"ECDSA 521", KeyTypeECDSA, 521, false},
		{"ECDSA 512", KeyTypeECDSA, 512, true},
		{"RSA 1024", KeyTypeRSA, 1024, false},
		{"RSA 512", KeyTypeRSA, 512, true},
		{"RSA 16384", KeyTypeRSA, 16384, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := GenerateKeyPairWithBits(tt.keyType, tt.bits)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GenerateKeyPairWithBits(%v, %d) error = %v, wantErr %v", tt.keyType, tt.bits, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidKeySize) {
				t.Errorf("error = %v, want ErrInvalidKeySize", err)
			}
			if vErr := ValidateKeySize(tt.keyType, tt.bits); (vErr != nil) != tt.wantErr {
				t.Errorf("ValidateKeySize(%v, %d) = %v, wantErr %v", tt.keyType, tt.bits, vErr, tt.wantErr)
			}
		})
	}

	if err := ValidateKeySize(KeyTypeRSA, 0); err != nil {
		t.Errorf("ValidateKeySize(RSA, 0) = %v", err)
	}
	if err := ValidateKeySize(KeyTypeUnspecified, 0); !errors.Is(err, ErrBadKeyType) {
		t.Errorf("ValidateKeySize(Unspecified, 0) = %v, want ErrBadKeyType", err)
	}
}

// TestLargerKeyLongerPrivateKey 位数越大，私钥序列化越长
func TestLargerKeyLongerPrivateKey(t *testing.T) {
	tests := []struct {
		keyType    KeyType
		small, big int
	}{
		{KeyTypeRSA, 1024, 2048},
		{KeyTypeECDSA, 256, 384},
	}

	for _, tt := range tests {
		t.Run(tt.keyType.String(), func(t *testing.T) {
			small, _, err := GenerateKeyPairWithBits(tt.keyType, tt.small)
			if err != nil {
				t.Fatal(err)
			}
			big, _, err := GenerateKeyPairWithBits(tt.keyType, tt.big)
			if err != nil {
				t.Fatal(err)
			}

			smallRaw, _ := MarshalPrivateKey(small)
			bigRaw, _ := MarshalPrivateKey(big)
			if len(bigRaw) <= len(smallRaw) {
				t.Errorf("len(%d-bit) = %d, want > len(%d-bit) = %d", tt.big, len(bigRaw), tt.small, len(smallRaw))
			}
		})
	}
}

func TestKeyEqual(t *testing.T) {
	priv1, pub1, _ := GenerateKeyPair(KeyTypeEd25519)
	_, pub2, _ := GenerateKeyPair(KeyTypeEd25519)
	_, secpPub, _ := GenerateKeyPair(KeyTypeSecp256k1)

	if !KeyEqual(pub1, pub1) {
		t.Error("KeyEqual(pub1, pub1) = false")
	}
	if KeyEqual(pub1, pub2) {
		t.Error("KeyEqual(pub1, pub2) = true")
	}
	if KeyEqual(pub1, secpPub) {
		t.Error("KeyEqual() across key types = true")
	}
	if KeyEqual(pub1, priv1) {
		t.Error("KeyEqual(pub, priv) = true")
	}
	if KeyEqual(nil, pub1) || KeyEqual(pub1, nil) {
		t.Error("KeyEqual() with nil = true")
	}
}

// TestKeyInterfaces 密钥接口只包含身份需要的方法
func TestKeyInterfaces(t *testing.T) {
	methods := func(v any) []string {
		typ := reflect.TypeOf(v).Elem()
		names := make([]string, 0, typ.NumMethod())
		for i := 0; i < typ.NumMethod(); i++ {
			names = append(names, typ.Method(i).Name)
		}
		sort.Strings(names)
		return names
	}

	if got, want := methods((*PublicKey)(nil)), []string{"Equals", "Raw", "Type"}; !reflect.DeepEqual(got, want) {
		t.Errorf("PublicKey methods = %v, want %v", got, want)
	}
	if got, want := methods((*PrivateKey)(nil)), []string{"Equals", "GetPublic", "Raw", "Type"}; !reflect.DeepEqual(got, want) {
		t.Errorf("PrivateKey methods = %v, want %v", got, want)
	}
}

// TestNilReceivers 空指针密钥不能 panic
func TestNilReceivers(t *testing.T) {
	privs := []PrivateKey{
		(*Ed25519PrivateKey)(nil),
		(*Secp256k1PrivateKey)(nil),
		(*ECDSAPrivateKey)(nil),
		(*RSAPrivateKey)(nil),
	}
	for _, priv := range privs {
		if _, err := priv.Raw(); err == nil {
			t.Errorf("%T.Raw() error = nil", priv)
		}
		if priv.GetPublic() != nil {
			t.Errorf("%T.GetPublic() != nil", priv)
		}
		if _, err := MarshalPrivateKey(priv); !errors.Is(err, ErrMarshalFailed) {
			t.Errorf("MarshalPrivateKey(%T) error = %v, want ErrMarshalFailed", priv, err)
		}
	}

	pubs := []PublicKey{
		(*Ed25519PublicKey)(nil),
		(*Secp256k1PublicKey)(nil),
		(*ECDSAPublicKey)(nil),
		(*RSAPublicKey)(nil),
	}
	for _, pub := range pubs {
		if _, err := pub.Raw(); err == nil {
			t.Errorf("%T.Raw() error = nil", pub)
		}
		if pub.Equals(pub) {
			t.Errorf("%T.Equals(self) = true for nil key", pub)
		}
	}
}

// TestDeterministicGeneration 相同随机源产生相同密钥
func TestDeterministicGeneration(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 64)

	for _, kt := range []KeyType{KeyTypeEd25519, KeyTypeSecp256k1} {
		t.Run(kt.String(), func(t *testing.T) {
			priv1, _, err := GenerateKeyPairWithReader(kt, 0, bytes.NewReader(seed))
			if err != nil {
				t.Fatal(err)
			}
			priv2, _, err := GenerateKeyPairWithReader(kt, 0, bytes.NewReader(seed))
			if err != nil {
				t.Fatal(err)
			}
			if !priv1.Equals(priv2) {
				t.Error("same seed produced different keys")
			}
		})
	}
}
