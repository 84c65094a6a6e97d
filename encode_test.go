package qskema

import (
	"math"
	"math/big"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSearchParams(t *testing.T) {
	var nilStr *string
	word := "w"
	n, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	p := ToSearchParams(Entries{
		{"s", "a b"},
		{"f", 1e21},
		{"i", 42},
		{"i8", int8(-3)},
		{"u", uint(7)},
		{"t", true},
		{"off", false},
		{"none", nil},
		{"nilptr", nilStr},
		{"ptr", &word},
		{"big", n},
		{"ip", net.IPv4(127, 0, 0, 1)},
		{"empty", ""},
	})
	assert.Equal(t, "s=a+b&f=1e%2B21&i=42&i8=-3&u=7&t=true&ptr=w&big=123456789012345678901234567890&ip=127.0.0.1&empty=", p.String())
}

func TestMergeSearchParams(t *testing.T) {
	base := ParseParams("existing=value&page=5")
	out := MergeSearchParams(base, Entries{{"page", 1}, {"existing", nil}})
	assert.Equal(t, "page=1", out.String())
	assert.Equal(t, "existing=value&page=5", base.String(), "base is not modified")

	out = MergeSearchParams(ParseParams("a=1&flag=true&a=2"), Entries{{"flag", false}, {"a", "x"}, {"z", 0.5}})
	assert.Equal(t, "a=x&z=0.5", out.String())

	assert.Equal(t, "a=1", MergeSearchParams(ParseParams("a=1"), nil).String())
	assert.Equal(t, "", ToSearchParams(Entries{}).String())
}

func TestToSearchParams_RecordIsSorted(t *testing.T) {
	p := ToSearchParams(Record{"b": "2", "a": "1", "c": nil})
	assert.Equal(t, "a=1&b=2", p.String())
}

func TestStringify_JSValueText(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{float32(0.5), "0.5"},
		{int64(-9), "-9"},
		{uint64(18446744073709551615), "18446744073709551615"},
		{*big.NewInt(5), "5"},
		{math.Copysign(0, -1), "0"},
	}
	for _, tc := range cases {
		got, keep := stringify(tc.in)
		assert.True(t, keep)
		assert.Equal(t, tc.want, got)
	}
}
