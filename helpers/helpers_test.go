package helpers

import (
	"math/big"
	"strings"
	"testing"
)

func wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad wei literal " + s)
	}
	return v
}

func TestFormatEther(t *testing.T) {
	tests := []struct {
		in   *big.Int
		want string
	}{
		{wei("1000000000000000000"), "1.0"},
		{wei("1500000000000000000"), "1.5"},
		{wei("123456789000000000000"), "123.456789"},
		{wei("1"), "0.000000000000000001"},
		{wei("0"), "0.0"},
		{wei("-2500000000000000000"), "-2.5"},
		{nil, "0.0"},
	}
	for _, tt := range tests {
		if got := FormatEther(tt.in); got != tt.want {
			t.Errorf("FormatEther(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestShortenAddr(t *testing.T) {
	if got := ShortenAddr("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"); got != "0xd8dA…6045" {
		t.Errorf("unexpected short form %q", got)
	}
	if got := ShortenAddr("0x1234"); got != "0x1234" {
		t.Errorf("short input should pass through, got %q", got)
	}
}

func TestQRCode(t *testing.T) {
	qr := QRCode("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	if strings.Count(qr, "\n") < 10 {
		t.Errorf("QR code looks too small:\n%s", qr)
	}
}

func TestFadeStringEmpty(t *testing.T) {
	if FadeString("", "#000000", "#FFFFFF") != "" {
		t.Error("empty input should render empty")
	}
}
