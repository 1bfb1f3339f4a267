package types

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"
)

func TestBytesConversion(t *testing.T) {
	bytes := []byte{5}
	hash := BytesToHash(bytes)

	var exp Hash
	exp[31] = 5

	if hash != exp {
		t.Errorf("expected %x got %x", exp, hash)
	}
}

func TestIsHexAddress(t *testing.T) {
	tests := []struct {
		str string
		exp bool
	}{
		{"Wx5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"WxAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", true},
		{"Wx5aaeb6053f3e94c9b9a09f33669435e7ef1beaed1", false},
		{"Wx5aaeb6053f3e94c9b9a09f33669435e7ef1beae", false},
		{"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed11", false},
		{"Wxxaaeb6053f3e94c9b9a09f33669435e7ef1beaed", false},
	}

	for _, test := range tests {
		if result := IsHexAddress(test.str); result != test.exp {
			t.Errorf("IsHexAddress(%s) == %v; expected %v",
				test.str, result, test.exp)
		}
	}
}

func TestHashJsonValidation(t *testing.T) {
	var tests = []struct {
		Prefix string
		Size   int
		Error  string
	}{
		{"", 62, "json: cannot unmarshal hex string without Wx prefix into Go value of type types.Hash"},
		{"Wx", 66, "hex string has length 66, want 64 for types.Hash"},
		{"Wx", 63, "json: cannot unmarshal hex string of odd length into Go value of type types.Hash"},
		{"Wx", 0, "hex string has length 0, want 64 for types.Hash"},
		{"Wx", 64, ""},
	}
	for _, test := range tests {
		input := `"` + test.Prefix + strings.Repeat("0", test.Size) + `"`
		var v Hash
		err := json.Unmarshal([]byte(input), &v)
		if err == nil {
			if test.Error != "" {
				t.Errorf("%s: error mismatch: have nil, want %q", input, test.Error)
			}
		} else {
			if err.Error() != test.Error {
				t.Errorf("%s: error mismatch: have %q, want %q", input, err, test.Error)
			}
		}
	}
}

func TestAddressUnmarshalJSON(t *testing.T) {
	var tests = []struct {
		Input     string
		ShouldErr bool
		Output    *big.Int
	}{
		{"", true, nil},
		{`""`, true, nil},
		{`"Wx"`, true, nil},
		{`"Wx00"`, true, nil},
		{`"WxG000000000000000000000000000000000000000"`, true, nil},
		{`"Wx0000000000000000000000000000000000000000"`, false, big.NewInt(0)},
		{`"Wx0000000000000000000000000000000000000010"`, false, big.NewInt(16)},
	}
	for i, test := range tests {
		var v Address
		err := json.Unmarshal([]byte(test.Input), &v)
		if err != nil && !test.ShouldErr {
			t.Errorf("test #%d: unexpected error: %v", i, err)
		}
		if err == nil {
			if test.ShouldErr {
				t.Errorf("test #%d: expected error, got none", i)
			}
			if v.Big().Cmp(test.Output) != 0 {
				t.Errorf("test #%d: address mismatch: have %v, want %v", i, v.Big(), test.Output)
			}
		}
	}
}

func TestAddressFromPubkey(t *testing.T) {
	one, two := Pubkey{1}, Pubkey{2}

	addr := AddressFromPubkey(one)
	if addr == (Address{}) {
		t.Fatal("derived address is zero")
	}
	if addr != AddressFromPubkey(one) {
		t.Fatal("derivation is not deterministic")
	}
	if addr == AddressFromPubkey(two) {
		t.Fatal("different keys derive the same address")
	}
}

func TestHexToPubkeyRoundTrip(t *testing.T) {
	pubkey := Pubkey{0xab, 0xcd}

	if !strings.HasPrefix(pubkey.String(), "Wp") {
		t.Fatalf("pubkey string is %s", pubkey.String())
	}
	if decoded := HexToPubkey(pubkey.String()); decoded != pubkey {
		t.Fatalf("round trip gave %s, want %s", decoded.String(), pubkey.String())
	}
}

func BenchmarkAddressHex(b *testing.B) {
	testAddr := HexToAddress("Wx5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	for n := 0; n < b.N; n++ {
		testAddr.Hex()
	}
}
