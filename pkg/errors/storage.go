package errors

// StorageError is a specialized error type for failures in the sector,
// partition and disk layers. It embeds baseError to inherit the standard
// error functionality, then adds storage-specific fields that pinpoint
// exactly where in the file a problem occurred.
type StorageError struct {
	*baseError
	partitionID uint64 // Which partition was being accessed when the error occurred.
	sector      uint64 // Sector within the partition where the problem happened.
	offset      uint64 // Byte offset within the partition where the problem happened.
	path        string // Path of the backing file, when known.
}

// NewStorageError creates a new storage-specific error.
func NewStorageError(err error, code ErrorCode, msg string) *StorageError {
	return &StorageError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the StorageError type.
func (se *StorageError) WithMessage(msg string) *StorageError {
	se.baseError.WithMessage(msg)
	return se
}

// WithCode sets the error code while preserving the StorageError type.
func (se *StorageError) WithCode(code ErrorCode) *StorageError {
	se.baseError.WithCode(code)
	return se
}

// WithDetail adds contextual information while maintaining the StorageError type.
func (se *StorageError) WithDetail(key string, value any) *StorageError {
	se.baseError.WithDetail(key, value)
	return se
}

// WithPartitionID sets which partition was involved in the error.
func (se *StorageError) WithPartitionID(id uint64) *StorageError {
	se.partitionID = id
	return se
}

// WithSector records the sector where the error occurred.
func (se *StorageError) WithSector(sector uint64) *StorageError {
	se.sector = sector
	return se
}

// WithOffset records the byte position within the partition where the error occurred.
func (se *StorageError) WithOffset(offset uint64) *StorageError {
	se.offset = offset
	return se
}

// WithPath captures the backing file's path.
func (se *StorageError) WithPath(path string) *StorageError {
	se.path = path
	return se
}

// PartitionID returns the partition identifier where the error occurred.
func (se *StorageError) PartitionID() uint64 {
	return se.partitionID
}

// Sector returns the sector where the error happened.
func (se *StorageError) Sector() uint64 {
	return se.sector
}

// Offset returns the byte offset within the partition where the error happened.
// Combined with PartitionID, this gives the exact location of the problem.
func (se *StorageError) Offset() uint64 {
	return se.offset
}

// Path returns the path of the backing file.
func (se *StorageError) Path() string {
	return se.path
}
