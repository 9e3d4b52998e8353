package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that
// can occur anywhere in the system.
const (
	// ErrorCodeIO represents failures in input/output operations against the
	// backing database file. This covers reads and writes that fail at the
	// operating system level as well as attempts to use a file handle that
	// has already been closed. Every partition shares the single file handle
	// owned by the disk, so once the disk is closed all partition I/O
	// surfaces this code.
	ErrorCodeIO ErrorCode = "IO_FAILURE"

	// ErrorCodeInvalidInput represents caller-side errors where the provided
	// data doesn't meet the system's requirements or constraints, such as a
	// row that doesn't match its schema or a reserved key value.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected failures that don't fit into
	// other categories. These indicate bugs or violated invariants that
	// shouldn't occur during normal operation, such as a record write that
	// would land past the end of its partition.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Storage-specific error codes extend the base taxonomy with the failure
// modes of the partitioned file format.
const (
	// ErrorCodeOutOfStorage indicates that no data partition has room for a
	// new record, or that the partition directory has no free entry left.
	// The database layer recovers from this exactly once per operation by
	// appending a fresh data partition and retrying.
	ErrorCodeOutOfStorage ErrorCode = "OUT_OF_STORAGE"

	// ErrorCodeMalformed indicates that bytes read from the file violate the
	// expected structure: an unknown type id during schema load, a truncated
	// directory entry, or an index record too short to decode.
	ErrorCodeMalformed ErrorCode = "MALFORMED"
)

// Data-layer error codes cover key-addressed record operations.
const (
	// ErrorCodeUnknownKey indicates that a get or update targeted a key that
	// is not present in the item tree. Removing a missing key is not an
	// error.
	ErrorCodeUnknownKey ErrorCode = "UNKNOWN_KEY"
)
