package typed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	e := NewEncoder()
	d := NewDecoder()

	boolVal, err := d.DecodeBool(e.EncodeBool(true))
	require.NoError(t, err)
	require.True(t, boolVal)

	i16, err := d.DecodeInt16(e.EncodeInt16(-1234))
	require.NoError(t, err)
	require.Equal(t, int16(-1234), i16)

	u32, err := d.DecodeUInt32(e.EncodeUInt32(4_000_000_000))
	require.NoError(t, err)
	require.Equal(t, uint32(4_000_000_000), u32)

	i64, err := d.DecodeInt64(e.EncodeInt64(-9_000_000_000_000))
	require.NoError(t, err)
	require.Equal(t, int64(-9_000_000_000_000), i64)

	f32, err := d.DecodeFloat32(e.EncodeFloat32(3.5))
	require.NoError(t, err)
	require.InDelta(t, float32(3.5), f32, 0.0001)

	f64, err := d.DecodeFloat64(e.EncodeFloat64(2.71828))
	require.NoError(t, err)
	require.InDelta(t, 2.71828, f64, 0.00001)

	str, err := d.DecodeString(e.EncodeString("hi", 8))
	require.NoError(t, err)
	require.Equal(t, "hi", str)
}

func TestDecodeInsufficientData(t *testing.T) {
	d := NewDecoder()

	_, err := d.DecodeInt16([]byte{1})
	require.Error(t, err)

	_, err = d.DecodeUInt32([]byte{1, 2})
	require.Error(t, err)

	_, err = d.DecodeFloat64([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestDecodeStringHandlesNullTerminator(t *testing.T) {
	d := NewDecoder()
	s, err := d.DecodeString([]byte{'h', 'i', 0, 0, 0})
	require.NoError(t, err)
	require.Equal(t, "hi", s)
}

func TestEncodeStringTruncatesAndPads(t *testing.T) {
	e := NewEncoder()
	buf := e.EncodeString("toolongvalue", 4)
	require.Len(t, buf, 4)
	require.Equal(t, "tool", string(buf))

	buf2 := e.EncodeString("ab", 5)
	require.Len(t, buf2, 5)
	require.Equal(t, byte(0), buf2[2])
}
