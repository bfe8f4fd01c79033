package rpc

import (
	"math/big"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestHexToInt(t *testing.T) {
	tests := []struct {
		name    string
		in      *string
		want    string // "" means nil result
		wantErr bool
	}{
		{"nil", nil, "", false},
		{"prefixed", strPtr("0x14212d64"), "337718628", false},
		{"unprefixed", strPtr("ff"), "255", false},
		{"upper prefix", strPtr("0XFF"), "255", false},
		{"zero", strPtr("0x0"), "0", false},
		{"empty digits", strPtr("0x"), "0", false},
		{"beyond uint64", strPtr("0x10000000000000000"), "18446744073709551616", false},
		{"non hex", strPtr("0xzz"), "", true},
		{"sign rejected", strPtr("-1"), "", true},
		{"embedded space", strPtr("0x1 2"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HexToInt(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("HexToInt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if KindOf(err) != KindFormat {
					t.Errorf("error kind = %v, want %v", KindOf(err), KindFormat)
				}
				return
			}
			if tt.want == "" {
				if got != nil {
					t.Errorf("HexToInt() = %v, want nil", got)
				}
				return
			}
			if got == nil || got.String() != tt.want {
				t.Errorf("HexToInt() = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestHexToUint64(t *testing.T) {
	got, err := HexToUint64(nil)
	if err != nil || got != nil {
		t.Errorf("HexToUint64(nil) = %v, %v; want nil, nil", got, err)
	}

	got, err = HexToUint64(strPtr("0x4b7"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *got != 1207 {
		t.Errorf("HexToUint64(0x4b7) = %d, want 1207", *got)
	}

	_, err = HexToUint64(strPtr("0x10000000000000000"))
	if KindOf(err) != KindFormat {
		t.Errorf("overflow error kind = %v, want %v", KindOf(err), KindFormat)
	}
}

func TestIntToHex(t *testing.T) {
	tests := []struct {
		in   *big.Int
		want string
	}{
		{big.NewInt(0), "0x0"},
		{big.NewInt(1), "0x1"},
		{big.NewInt(255), "0xff"},
		{big.NewInt(4096), "0x1000"},
		{nil, "0x0"},
	}

	for _, tt := range tests {
		if got := IntToHex(tt.in); got != tt.want {
			t.Errorf("IntToHex(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	huge, _ := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	values := []*big.Int{big.NewInt(0), big.NewInt(1), big.NewInt(1206), big.NewInt(1 << 62), huge}

	for _, n := range values {
		h := IntToHex(n)
		got, err := HexToInt(&h)
		if err != nil {
			t.Fatalf("HexToInt(%s): %v", h, err)
		}
		if got.Cmp(n) != 0 {
			t.Errorf("round trip %s: got %s, want %s", h, got, n)
		}
	}
}

func TestUint64ToHex(t *testing.T) {
	if got := Uint64ToHex(1206); got != "0x4b6" {
		t.Errorf("Uint64ToHex(1206) = %s, want 0x4b6", got)
	}
}

func TestParseBlockTag(t *testing.T) {
	tests := []struct {
		arg     string
		want    BlockTag
		wantErr bool
	}{
		{"", Latest, false},
		{"latest", Latest, false},
		{" Pending ", Pending, false},
		{"earliest", Earliest, false},
		{"12345", "0x3039", false},
		{"0x172721e", "0x172721e", false},
		{"0xzz", "", true},
		{"tomorrow", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := ParseBlockTag(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBlockTag(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBlockTag(%q) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}
}
