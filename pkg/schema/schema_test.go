package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T, columns ...Column) *Schema {
	t.Helper()
	s, err := New("stuff", columns)
	require.NoError(t, err)
	return s
}

func TestRowRoundTrip(t *testing.T) {
	s := testSchema(t,
		Column{Name: "a", Template: Int16(0)},
		Column{Name: "b", Template: Int32(0)},
	)

	values := []Value{Int16(21), Int32(5000)}

	encoded, err := s.ProduceBytes(values)
	require.NoError(t, err)
	require.Equal(t, s.RowLen(), uint64(len(encoded)))

	decoded, err := s.ParseBytes(NewBuffer(encoded))
	require.NoError(t, err)
	assert.Equal(t, values, decoded)
}

func TestRowRoundTripAllKinds(t *testing.T) {
	s := testSchema(t,
		Column{Name: "i8", Template: Int8(0)},
		Column{Name: "i16", Template: Int16(0)},
		Column{Name: "i32", Template: Int32(0)},
		Column{Name: "i64", Template: Int64(0)},
		Column{Name: "u64", Template: UInt64(0)},
		Column{Name: "flag", Template: Bool(false)},
		Column{Name: "name", Template: Fixchar("", 32)},
	)
	require.Equal(t, uint64(1+2+4+8+8+1+40), s.RowLen())

	values := []Value{
		Int8(-3),
		Int16(-5),
		Int32(123456),
		Int64(-98765),
		UInt64(21),
		Bool(true),
		Fixchar("hello world", 32),
	}

	encoded, err := s.ProduceBytes(values)
	require.NoError(t, err)

	decoded, err := s.ParseBytes(NewBuffer(encoded))
	require.NoError(t, err)
	assert.Equal(t, values, decoded)
}

func TestRowsArePackedContiguously(t *testing.T) {
	s := testSchema(t, Column{Name: "v", Template: UInt64(0)})

	first, err := s.ProduceBytes([]Value{UInt64(5)})
	require.NoError(t, err)
	second, err := s.ProduceBytes([]Value{UInt64(6)})
	require.NoError(t, err)

	buf := NewBuffer(append(first, second...))

	row1, err := s.ParseBytes(buf)
	require.NoError(t, err)
	row2, err := s.ParseBytes(buf)
	require.NoError(t, err)

	assert.Equal(t, []Value{UInt64(5)}, row1)
	assert.Equal(t, []Value{UInt64(6)}, row2)
	assert.True(t, buf.Empty())
}

func TestNewRejectsVarchar(t *testing.T) {
	_, err := New("bad", []Column{{Name: "v", Template: Value{kind: KindVarchar}}})
	require.Error(t, err)
}

func TestProduceBytesValidatesRow(t *testing.T) {
	s := testSchema(t,
		Column{Name: "a", Template: Int16(0)},
		Column{Name: "b", Template: Fixchar("", 8)},
	)

	_, err := s.ProduceBytes([]Value{Int16(1)})
	require.Error(t, err, "wrong arity")

	_, err = s.ProduceBytes([]Value{Int32(1), Fixchar("x", 8)})
	require.Error(t, err, "kind mismatch")

	_, err = s.ProduceBytes([]Value{Int16(1), Fixchar("x", 16)})
	require.Error(t, err, "fixchar capacity mismatch")
}

func TestSchemaPersistenceRoundTrip(t *testing.T) {
	s := testSchema(t,
		Column{Name: "id", Template: UInt64(0)},
		Column{Name: "score", Template: Int16(0)},
		Column{Name: "label", Template: Fixchar("", 64)},
	)

	encoded := s.Encode()

	// A stored schema region is zero-filled past the written bytes; pad the
	// way a partition read would.
	padded := make([]byte, len(encoded)+256)
	copy(padded, encoded)

	decoded, err := Decode(NewBuffer(padded))
	require.NoError(t, err)

	assert.Equal(t, "stuff", decoded.Name())
	require.Len(t, decoded.Columns(), 3)
	assert.Equal(t, "id", decoded.Columns()[0].Name)
	assert.Equal(t, KindUInt64, decoded.Columns()[0].Template.Kind())
	assert.Equal(t, "score", decoded.Columns()[1].Name)
	assert.Equal(t, KindInt16, decoded.Columns()[1].Template.Kind())
	assert.Equal(t, "label", decoded.Columns()[2].Name)
	assert.Equal(t, KindFixchar, decoded.Columns()[2].Template.Kind())
	assert.Equal(t, uint64(64), decoded.Columns()[2].Template.Cap())
	assert.Equal(t, s.RowLen(), decoded.RowLen())
}
