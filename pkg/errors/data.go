package errors

// DataError provides specialized error handling for record-level operations:
// get, insert, update and remove against a schema slot. It extends the base
// error system with the context needed to reproduce a failed command.
type DataError struct {
	*baseError

	// Identifies which record key was being processed when the error
	// occurred. Zero means no key was involved (for example an insert that
	// never reached key assignment).
	key uint64

	// Indicates which schema slot the operation ran against.
	slot uint64

	// Describes what operation was being performed when the error occurred
	// (e.g. "Get", "Insert", "Update", "Remove").
	operation string
}

// NewDataError creates a new data-layer error with the provided context.
func NewDataError(err error, code ErrorCode, msg string) *DataError {
	return &DataError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the DataError type.
func (de *DataError) WithMessage(msg string) *DataError {
	de.baseError.WithMessage(msg)
	return de
}

// WithCode sets the error code while preserving the DataError type.
func (de *DataError) WithCode(code ErrorCode) *DataError {
	de.baseError.WithCode(code)
	return de
}

// WithDetail adds contextual information while maintaining the DataError type.
func (de *DataError) WithDetail(key string, value any) *DataError {
	de.baseError.WithDetail(key, value)
	return de
}

// WithKey records which record key was being processed.
func (de *DataError) WithKey(key uint64) *DataError {
	de.key = key
	return de
}

// WithSlot captures which schema slot the operation ran against.
func (de *DataError) WithSlot(slot uint64) *DataError {
	de.slot = slot
	return de
}

// WithOperation records what command was being executed.
func (de *DataError) WithOperation(operation string) *DataError {
	de.operation = operation
	return de
}

// Key returns the record key that was being processed when the error occurred.
func (de *DataError) Key() uint64 {
	return de.key
}

// Slot returns the schema slot associated with the error.
func (de *DataError) Slot() uint64 {
	return de.slot
}

// Operation returns the name of the command that was being executed.
func (de *DataError) Operation() string {
	return de.operation
}

// NewUnknownKeyError creates a specialized error for lookups against keys
// that are not present in the item tree.
func NewUnknownKeyError(operation string, key uint64) *DataError {
	return NewDataError(nil, ErrorCodeUnknownKey, "key not found in item tree").
		WithKey(key).
		WithOperation(operation)
}

// NewOutOfStorageError creates the error surfaced when no data partition can
// fit a record of the given size. The database layer treats this code as the
// signal to grow storage and retry.
func NewOutOfStorageError(slot uint64, recordSize uint64) *DataError {
	return NewDataError(nil, ErrorCodeOutOfStorage, "no data partition has room for record").
		WithSlot(slot).
		WithOperation("Insert").
		WithDetail("recordSize", recordSize)
}
