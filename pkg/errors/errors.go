// Package errors provides the structured error hierarchy used throughout
// the cranedb storage core.
//
// The system is built around a foundational baseError extended by
// domain-specific error types. This keeps error construction consistent
// across layers while letting each layer capture the context it actually
// has: the storage layers know partitions, sectors and byte offsets, the
// data layers know keys, slots and operations, and validation knows fields
// and rules. Capturing that context at the point of failure makes errors
// actionable without parsing message strings.
//
// Central to the system is a small error-code taxonomy. Codes serve the
// propagation policy directly: the database layer recovers OUT_OF_STORAGE
// exactly once by growing storage, while IO_FAILURE and MALFORMED are
// always fatal to the current operation. Code-based branching keeps that
// policy independent of error wording.
package errors

import (
	stdErrors "errors"
	"os"
	"syscall"
)

// IsValidationError checks if the given error is a ValidationError or
// contains one in its error chain.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stdErrors.As(err, &ve)
}

// IsStorageError determines if an error originated in the sector, partition
// or disk layers. Storage errors carry the file location context needed to
// correlate a failure with a region of the backing file.
func IsStorageError(err error) bool {
	var se *StorageError
	return stdErrors.As(err, &se)
}

// IsDataError identifies errors that occurred while executing a record
// command against a schema slot.
func IsDataError(err error) bool {
	var de *DataError
	return stdErrors.As(err, &de)
}

// AsValidationError safely extracts a ValidationError from an error chain,
// providing access to validation-specific context such as which field
// failed and what rule was violated.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsStorageError extracts StorageError context from an error chain,
// providing access to the partition id, sector, offset and path involved.
func AsStorageError(err error) (*StorageError, bool) {
	var se *StorageError
	if stdErrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsDataError extracts DataError context, providing access to the record
// key, schema slot and operation being performed.
func AsDataError(err error) (*DataError, bool) {
	var de *DataError
	if stdErrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// coded is satisfied by every error type in this package.
type coded interface {
	Code() ErrorCode
}

// GetErrorCode extracts the error code from any error that supports it, or
// returns ErrorCodeInternal for errors that don't carry one. This gives
// callers a single consistent way to categorize failures.
func GetErrorCode(err error) ErrorCode {
	var c coded
	if stdErrors.As(err, &c) {
		return c.Code()
	}
	return ErrorCodeInternal
}

// IsOutOfStorage reports whether the error chain carries the
// OUT_OF_STORAGE code. The database layer uses this to decide when to
// append a new data partition and retry.
func IsOutOfStorage(err error) bool {
	return GetErrorCode(err) == ErrorCodeOutOfStorage
}

// IsUnknownKey reports whether the error chain carries the UNKNOWN_KEY code.
func IsUnknownKey(err error) bool {
	return GetErrorCode(err) == ErrorCodeUnknownKey
}

// IsIOFailure reports whether the error chain carries the IO_FAILURE code.
func IsIOFailure(err error) bool {
	return GetErrorCode(err) == ErrorCodeIO
}

// IsMalformed reports whether the error chain carries the MALFORMED code.
func IsMalformed(err error) bool {
	return GetErrorCode(err) == ErrorCodeMalformed
}

// ClassifyFileOpenError analyzes database file opening failures and returns
// appropriate error codes based on the underlying system error. This
// provides much more specific information than a generic I/O error.
func ClassifyFileOpenError(err error, path string) error {
	if os.IsPermission(err) {
		return NewStorageError(
			err, ErrorCodeIO,
			"Insufficient permissions to open database file",
		).WithPath(path).
			WithDetail("operation", "file_open").
			WithDetail("required_permission", "read_write").
			WithDetail("suggestion", "check file permissions or run with elevated privileges")
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewStorageError(
					err, ErrorCodeIO,
					"Insufficient disk space to create database file",
				).WithPath(path).
					WithDetail("operation", "file_open").
					WithDetail("suggestion", "free up disk space")
			case syscall.EROFS:
				return NewStorageError(
					err, ErrorCodeIO,
					"Cannot create database file on read-only filesystem",
				).WithPath(path).
					WithDetail("operation", "file_open").
					WithDetail("suggestion", "remount filesystem with write permissions")
			}
		}
	}

	return NewStorageError(err, ErrorCodeIO, "Failed to open database file").
		WithPath(path).
		WithDetail("operation", "file_open")
}
