package schema

import (
	"encoding/binary"
	"strings"

	"github.com/iamNilotpal/cranedb/pkg/errors"
)

// Kind identifies a column value type. The numeric values are part of the
// on-disk format: they are the type ids written into schema partitions.
type Kind uint16

const (
	KindInvalid Kind = 0
	KindInt8    Kind = 1
	KindInt16   Kind = 2
	KindInt32   Kind = 3
	KindInt64   Kind = 4
	KindUInt64  Kind = 5
	KindFixchar Kind = 6
	KindBool    Kind = 7

	// KindVarchar is reserved in the format but not supported by the codec:
	// it has no fixed wire length, and row schemas must have a constant size.
	KindVarchar Kind = 8
)

// String returns the kind's name for logs and error details.
func (k Kind) String() string {
	switch k {
	case KindInt8:
		return "Int8"
	case KindInt16:
		return "Int16"
	case KindInt32:
		return "Int32"
	case KindInt64:
		return "Int64"
	case KindUInt64:
		return "UInt64"
	case KindFixchar:
		return "Fixchar"
	case KindBool:
		return "Bool"
	case KindVarchar:
		return "Varchar"
	}
	return "Invalid"
}

// Value is a tagged union over the supported column types. Values are
// immutable and comparable; a Value doubles as a column template, where
// only the kind (and Fixchar capacity) matter and the payload is ignored.
type Value struct {
	kind Kind
	i    int64
	u    uint64
	str  string
	cap  uint64
	b    bool
}

// Int8 constructs an Int8 value.
func Int8(v int8) Value { return Value{kind: KindInt8, i: int64(v)} }

// Int16 constructs an Int16 value.
func Int16(v int16) Value { return Value{kind: KindInt16, i: int64(v)} }

// Int32 constructs an Int32 value.
func Int32(v int32) Value { return Value{kind: KindInt32, i: int64(v)} }

// Int64 constructs an Int64 value.
func Int64(v int64) Value { return Value{kind: KindInt64, i: v} }

// UInt64 constructs a UInt64 value.
func UInt64(v uint64) Value { return Value{kind: KindUInt64, u: v} }

// Bool constructs a Bool value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Fixchar constructs a fixed-capacity string value. Text longer than the
// capacity is truncated to cap bytes on the wire.
func Fixchar(text string, cap uint64) Value {
	return Value{kind: KindFixchar, str: text, cap: cap}
}

// Kind returns the value's type tag.
func (v Value) Kind() Kind { return v.kind }

// Int returns the payload of the signed integer kinds.
func (v Value) Int() int64 { return v.i }

// Uint returns the payload of a UInt64 value.
func (v Value) Uint() uint64 { return v.u }

// Text returns the payload of a Fixchar value.
func (v Value) Text() string { return v.str }

// Cap returns a Fixchar value's capacity in bytes.
func (v Value) Cap() uint64 { return v.cap }

// IsTrue returns the payload of a Bool value.
func (v Value) IsTrue() bool { return v.b }

// WireLen returns the number of bytes the value occupies on disk. The
// second result is false for Varchar, which has no defined length.
func (v Value) WireLen() (uint64, bool) {
	switch v.kind {
	case KindInt8:
		return 1, true
	case KindInt16:
		return 2, true
	case KindInt32:
		return 4, true
	case KindInt64:
		return 8, true
	case KindUInt64:
		return 8, true
	case KindFixchar:
		return v.cap + 8, true
	case KindBool:
		return 1, true
	}
	return 0, false
}

// Bytes encodes the value per the storage format: big-endian two's
// complement integers, 0x00/0x01 booleans, and Fixchar as cap zero-padded
// text bytes followed by the capacity as a big-endian u64. Varchar (and
// invalid values) encode to nothing.
func (v Value) Bytes() []byte {
	switch v.kind {
	case KindInt8:
		return []byte{byte(int8(v.i))}
	case KindInt16:
		return binary.BigEndian.AppendUint16(nil, uint16(int16(v.i)))
	case KindInt32:
		return binary.BigEndian.AppendUint32(nil, uint32(int32(v.i)))
	case KindInt64:
		return binary.BigEndian.AppendUint64(nil, uint64(v.i))
	case KindUInt64:
		return binary.BigEndian.AppendUint64(nil, v.u)
	case KindBool:
		if v.b {
			return []byte{0x01}
		}
		return []byte{0x00}
	case KindFixchar:
		buf := make([]byte, v.cap, v.cap+8)
		copy(buf, v.str)
		return binary.BigEndian.AppendUint64(buf, v.cap)
	}
	return nil
}

// ID returns the numeric type id written into schema partitions.
func (v Value) ID() uint16 {
	return uint16(v.kind)
}

// FromID builds a template value from a stored type id. metadata carries
// the Fixchar capacity and is ignored for every other kind.
func FromID(id uint16, metadata uint64) (Value, error) {
	switch Kind(id) {
	case KindInt8:
		return Int8(0), nil
	case KindInt16:
		return Int16(0), nil
	case KindInt32:
		return Int32(0), nil
	case KindInt64:
		return Int64(0), nil
	case KindUInt64:
		return UInt64(0), nil
	case KindFixchar:
		return Fixchar("", metadata), nil
	case KindBool:
		return Bool(false), nil
	}
	return Value{}, errors.NewBaseError(
		nil, errors.ErrorCodeMalformed, "unknown type id in stored schema",
	).WithDetail("typeId", id)
}

// DecodeValue decodes wire bytes against the template's kind. The byte
// slice must be exactly the template's wire length; anything shorter means
// the underlying region was truncated.
func DecodeValue(b []byte, template Value) (Value, error) {
	want, ok := template.WireLen()
	if !ok {
		return Value{}, errors.NewBaseError(
			nil, errors.ErrorCodeMalformed, "cannot decode value with undefined wire length",
		).WithDetail("kind", template.kind.String())
	}
	if uint64(len(b)) < want {
		return Value{}, errors.NewBaseError(
			nil, errors.ErrorCodeMalformed, "truncated value bytes",
		).WithDetail("kind", template.kind.String()).
			WithDetail("want", want).
			WithDetail("got", len(b))
	}

	switch template.kind {
	case KindInt8:
		return Int8(int8(b[0])), nil
	case KindInt16:
		return Int16(int16(binary.BigEndian.Uint16(b))), nil
	case KindInt32:
		return Int32(int32(binary.BigEndian.Uint32(b))), nil
	case KindInt64:
		return Int64(int64(binary.BigEndian.Uint64(b))), nil
	case KindUInt64:
		return UInt64(binary.BigEndian.Uint64(b)), nil
	case KindBool:
		return Bool(b[0] != 0x00), nil
	case KindFixchar:
		// The trailing 8 bytes carry the capacity; the text is the leading
		// cap bytes with the zero padding stripped.
		capBytes := b[len(b)-8:]
		storedCap := binary.BigEndian.Uint64(capBytes)
		if storedCap > uint64(len(b))-8 {
			return Value{}, errors.NewBaseError(
				nil, errors.ErrorCodeMalformed, "fixchar capacity exceeds encoded length",
			).WithDetail("cap", storedCap).WithDetail("encodedLen", len(b))
		}
		text := strings.ReplaceAll(string(b[:storedCap]), "\x00", "")
		return Fixchar(text, storedCap), nil
	}

	return Value{}, errors.NewBaseError(
		nil, errors.ErrorCodeMalformed, "cannot decode value of invalid kind",
	)
}
