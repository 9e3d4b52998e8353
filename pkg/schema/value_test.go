package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueWireEncoding(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  []byte
	}{
		{name: "int8 positive", value: Int8(5), want: []byte{0x05}},
		{name: "int8 negative", value: Int8(-1), want: []byte{0xFF}},
		{name: "int16", value: Int16(-5), want: []byte{0xFF, 0xFB}},
		{name: "int32", value: Int32(5000), want: []byte{0x00, 0x00, 0x13, 0x88}},
		{name: "int64", value: Int64(-2), want: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE}},
		{name: "uint64", value: UInt64(2048), want: []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x08, 0x00}},
		{name: "bool true", value: Bool(true), want: []byte{0x01}},
		{name: "bool false", value: Bool(false), want: []byte{0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Bytes())
		})
	}
}

func TestFixcharEncoding(t *testing.T) {
	v := Fixchar("hi", 4)
	b := v.Bytes()

	// cap bytes of padded text plus the capacity as a big-endian u64.
	require.Len(t, b, 12)
	assert.Equal(t, []byte{'h', 'i', 0x00, 0x00}, b[:4])
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 4}, b[4:])
}

func TestFixcharPaddingRoundTrip(t *testing.T) {
	v := Fixchar("Hello world", 64)
	b := v.Bytes()
	require.Len(t, b, 64+8)

	decoded, err := DecodeValue(b, Fixchar("", 64))
	require.NoError(t, err)
	assert.Equal(t, "Hello world", decoded.Text())
	assert.Equal(t, uint64(64), decoded.Cap())

	// Re-encoding the decoded value yields the same bytes.
	assert.Equal(t, b, decoded.Bytes())
}

func TestFixcharTruncatesOverlongText(t *testing.T) {
	v := Fixchar("overflowing", 4)
	b := v.Bytes()
	require.Len(t, b, 12)
	assert.Equal(t, []byte("over"), b[:4])
}

func TestDecodeValueRoundTrip(t *testing.T) {
	values := []Value{
		Int8(-12),
		Int16(300),
		Int32(-70000),
		Int64(1 << 40),
		UInt64(1<<63 + 7),
		Bool(true),
		Fixchar("crane", 16),
	}

	for _, v := range values {
		decoded, err := DecodeValue(v.Bytes(), v)
		require.NoError(t, err)
		assert.Equal(t, v, decoded)
	}
}

func TestDecodeValueTruncated(t *testing.T) {
	_, err := DecodeValue([]byte{0x01}, Int32(0))
	require.Error(t, err)
}

func TestWireLen(t *testing.T) {
	tests := []struct {
		value Value
		want  uint64
	}{
		{Int8(0), 1},
		{Int16(0), 2},
		{Int32(0), 4},
		{Int64(0), 8},
		{UInt64(0), 8},
		{Bool(false), 1},
		{Fixchar("", 64), 72},
	}

	for _, tt := range tests {
		n, ok := tt.value.WireLen()
		require.True(t, ok)
		assert.Equal(t, tt.want, n)
	}

	_, ok := Value{kind: KindVarchar}.WireLen()
	assert.False(t, ok)
}

func TestFromID(t *testing.T) {
	for id := uint16(1); id <= 7; id++ {
		v, err := FromID(id, 32)
		require.NoError(t, err)
		assert.Equal(t, id, v.ID())
	}

	v, err := FromID(6, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), v.Cap())

	_, err = FromID(99, 0)
	require.Error(t, err)
}
