// internal/registers/decode_test.go
package registers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_IntegerUnchanged(t *testing.T) {
	reg := Register{Kind: Integer, Tag: "a.b", Description: "d"}

	got := Decode(reg, -42)
	assert.Equal(t, []TagValue{{Tag: "a.b", Description: "d", Value: int64(-42)}}, got)
}

func TestDecode_DecimalScales(t *testing.T) {
	for p := 0; p <= 6; p++ {
		reg := Register{Kind: Decimal, Tag: "a.b", Places: p}
		for _, raw := range []int64{0, 1, 7, 225, 65535, 2147483647} {
			got := Decode(reg, raw)
			require.Len(t, got, 1)
			assert.Equal(t, float64(raw)/math.Pow10(p), got[0].Value)
		}
	}

	got := Decode(Register{Kind: Decimal, Tag: "temp.value", Places: 1}, 225)
	assert.Equal(t, 22.5, got[0].Value)
}

func TestDecode_ValueMap(t *testing.T) {
	reg := Register{Kind: ValueMap, Tag: "mode.value", Map: map[int64]int64{0: 0, 1: 10}}

	assert.Equal(t, int64(10), Decode(reg, 1)[0].Value)

	miss := Decode(reg, 7)
	require.Len(t, miss, 1)
	assert.Nil(t, miss[0].Value)
}

func TestDecode_BitMask(t *testing.T) {
	reg := Register{
		Kind: BitMask,
		Bits: []Bit{
			{Value: 1, Tag: "a.on", Description: "on"},
			{Value: 2, Tag: "a.alarm", Description: "alarm"},
			{Value: 8, Tag: "a.fault", Description: "fault"},
		},
	}

	got := Decode(reg, 3)
	assert.Equal(t, []TagValue{
		{Tag: "a.on", Description: "on", Value: true},
		{Tag: "a.alarm", Description: "alarm", Value: true},
	}, got)

	assert.Empty(t, Decode(reg, 0))

	for raw := int64(0); raw < 16; raw++ {
		for _, tv := range Decode(reg, raw) {
			var bit int64
			for _, b := range reg.Bits {
				if b.Tag == tv.Tag {
					bit = b.Value
				}
			}
			assert.NotZero(t, raw&bit, "raw=%d tag=%s", raw, tv.Tag)
		}
	}
}

func TestDecode_UnknownKind(t *testing.T) {
	assert.Nil(t, Decode(Register{}, 1))
}

func TestInt_WordWidths(t *testing.T) {
	cases := []struct {
		words []uint16
		want  int64
	}{
		{[]uint16{0x0001}, 1},
		{[]uint16{0xFFFF}, -1},
		{[]uint16{0x8000}, math.MinInt16},
		{[]uint16{0x0001, 0x0000}, 65536},
		{[]uint16{0xFFFF, 0xFFFE}, -2},
		{[]uint16{0xFFFF, 0xFFFF, 0xFFFF}, -1},
		{[]uint16{0x0000, 0x0001, 0x0000}, 65536},
		{[]uint16{0x8000, 0, 0, 0}, math.MinInt64},
		{[]uint16{0x7FFF, 0xFFFF, 0xFFFF, 0xFFFF}, math.MaxInt64},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Int(tc.words), "%#v", tc.words)
	}
}

func TestSplitTag(t *testing.T) {
	l0, l1, ok := SplitTag("temp.value")
	assert.True(t, ok)
	assert.Equal(t, "temp", l0)
	assert.Equal(t, "value", l1)

	for _, bad := range []string{"", "temp", "a.b.c", ".b", "a."} {
		_, _, ok := SplitTag(bad)
		assert.False(t, ok, bad)
	}
}
