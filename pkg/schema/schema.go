// Package schema implements the typed record codec: the enumeration of
// supported column value types, their on-disk encodings, and the ordered
// column list that turns rows into packed bytes and back.
//
// Rows are not aligned or padded; adjacent rows in a data partition are
// contiguous. Every supported type has a fixed wire length, so a schema's
// row length is a constant, the property the whole record placement
// scheme leans on.
package schema

import (
	"encoding/binary"

	"github.com/iamNilotpal/cranedb/pkg/errors"
)

// NameCap is the fixed capacity of schema and column names on disk.
const NameCap uint64 = 100

// Column pairs a name with a template value describing the column's type.
// The template's payload is ignored; for Fixchar the capacity matters.
type Column struct {
	Name     string
	Template Value
}

// Schema is an ordered list of typed, named columns.
type Schema struct {
	name    string
	columns []Column
	rowLen  uint64
}

// New builds a schema from the given columns. Every column must have a
// defined wire length; Varchar columns are rejected so that the row length
// stays constant.
func New(name string, columns []Column) (*Schema, error) {
	var rowLen uint64
	for _, col := range columns {
		n, ok := col.Template.WireLen()
		if !ok {
			return nil, errors.NewValidationError(
				nil, errors.ErrorCodeInvalidInput, "schema column has undefined wire length",
			).WithField(col.Name).
				WithRule("no_varchar").
				WithProvided(col.Template.Kind().String())
		}
		rowLen += n
	}

	return &Schema{name: name, columns: columns, rowLen: rowLen}, nil
}

// Name returns the schema's name.
func (s *Schema) Name() string { return s.name }

// Columns returns the ordered column list.
func (s *Schema) Columns() []Column { return s.columns }

// RowLen returns the constant byte length of one encoded row.
func (s *Schema) RowLen() uint64 { return s.rowLen }

// ProduceBytes encodes one row by concatenating each value's wire bytes in
// schema order. The values must match the schema's column kinds (and, for
// Fixchar, capacities) exactly.
func (s *Schema) ProduceBytes(values []Value) ([]byte, error) {
	if len(values) != len(s.columns) {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "row has wrong number of values",
		).WithField("values").
			WithRule("arity").
			WithProvided(len(values)).
			WithExpected(len(s.columns))
	}

	out := make([]byte, 0, s.rowLen)
	for i, v := range values {
		tmpl := s.columns[i].Template
		if v.Kind() != tmpl.Kind() || (v.Kind() == KindFixchar && v.Cap() != tmpl.Cap()) {
			return nil, errors.NewValidationError(
				nil, errors.ErrorCodeInvalidInput, "value does not match column type",
			).WithField(s.columns[i].Name).
				WithRule("type_match").
				WithProvided(v.Kind().String()).
				WithExpected(tmpl.Kind().String())
		}
		out = append(out, v.Bytes()...)
	}

	return out, nil
}

// ParseBytes decodes one row from the buffer, consuming exactly RowLen
// bytes: each column template's wire length in schema order.
func (s *Schema) ParseBytes(buf *Buffer) ([]Value, error) {
	values := make([]Value, 0, len(s.columns))
	for _, col := range s.columns {
		n, _ := col.Template.WireLen()
		v, err := DecodeValue(buf.Consume(n), col.Template)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// Encode serializes the schema for persistence: the schema name as a
// Fixchar(NameCap), then per column its name as a Fixchar(NameCap), its
// u16 type id, and for Fixchar columns the capacity as a u64. A zero type
// id terminates the list (the zero-filled partition supplies it).
func (s *Schema) Encode() []byte {
	out := Fixchar(s.name, NameCap).Bytes()
	for _, col := range s.columns {
		out = append(out, Fixchar(col.Name, NameCap).Bytes()...)
		out = binary.BigEndian.AppendUint16(out, col.Template.ID())
		if col.Template.Kind() == KindFixchar {
			out = binary.BigEndian.AppendUint64(out, col.Template.Cap())
		}
	}
	return out
}

// Decode reads a schema serialized by Encode. It stops at a zero type id
// or when too few bytes remain to hold another column entry.
func Decode(buf *Buffer) (*Schema, error) {
	nameTemplate := Fixchar("", NameCap)
	nameLen, _ := nameTemplate.WireLen()

	nameVal, err := DecodeValue(buf.Consume(nameLen), nameTemplate)
	if err != nil {
		return nil, err
	}

	var columns []Column
	for uint64(buf.Len()) >= nameLen+2 {
		colNameVal, err := DecodeValue(buf.Consume(nameLen), nameTemplate)
		if err != nil {
			return nil, err
		}

		idBytes := buf.Consume(2)
		id := binary.BigEndian.Uint16(idBytes)
		if id == 0 {
			break
		}

		var metadata uint64
		if Kind(id) == KindFixchar {
			capBytes := buf.Consume(8)
			if len(capBytes) < 8 {
				return nil, errors.NewBaseError(
					nil, errors.ErrorCodeMalformed, "truncated fixchar capacity in stored schema",
				).WithDetail("column", colNameVal.Text())
			}
			metadata = binary.BigEndian.Uint64(capBytes)
		}

		template, err := FromID(id, metadata)
		if err != nil {
			return nil, err
		}

		columns = append(columns, Column{Name: colNameVal.Text(), Template: template})
	}

	return New(nameVal.Text(), columns)
}
