// Package sector implements sector-granular I/O against a byte range of
// the backing database file.
//
// The file is addressed in fixed 256-byte sectors. An IO value is bound to
// a sector origin and length within the file and addresses reads and
// writes relative to that origin; it does not check a requested range
// against the length. It holds only the narrow positional capability
// (io.ReaderAt + io.WriterAt), not the file itself. The disk layer is the
// sole owner of the file handle; once it closes the handle, every IO
// bound to it starts failing with IO_FAILURE.
package sector

import (
	"io"

	"github.com/iamNilotpal/cranedb/pkg/errors"
)

// Length is the size of one sector in bytes. It is a constant of the
// storage format: sector N occupies file bytes [N*256, (N+1)*256).
const Length uint64 = 256

// Handle is the positional-I/O capability the sector layer needs from the
// backing file. *os.File satisfies it; tests substitute in-memory fakes.
type Handle interface {
	io.ReaderAt
	io.WriterAt
}

// IO reads and writes sectors within one partition's byte range.
type IO struct {
	origin  uint64 // First sector of the range within the file.
	sectors uint64 // Length of the range in sectors.
	file    Handle
}

// New binds an IO to the range [origin, origin+sectors) of the file.
func New(origin, sectors uint64, file Handle) *IO {
	return &IO{origin: origin, sectors: sectors, file: file}
}

// Capacity returns the range's length in sectors.
func (s *IO) Capacity() uint64 {
	return s.sectors
}

// Read returns exactly (end-start)*256 bytes beginning at sector start of
// the range. Bytes past the end of the file come back as zeros; any other
// read error surfaces as IO_FAILURE.
func (s *IO) Read(start, end uint64) ([]byte, error) {
	if s.file == nil {
		return nil, errors.NewStorageError(
			nil, errors.ErrorCodeIO, "backing file handle is gone",
		).WithSector(start)
	}

	length := (end - start) * Length
	buf := make([]byte, length)

	// A read reaching past the current end of file yields io.EOF with a
	// partial fill. The remainder stays zero, which is exactly what those
	// sectors hold once the file grows to cover them.
	if _, err := s.file.ReadAt(buf, int64((s.origin+start)*Length)); err != nil && err != io.EOF {
		return nil, errors.NewStorageError(
			err, errors.ErrorCodeIO, "failed to read sectors",
		).WithSector(start).WithDetail("sectorCount", end-start)
	}

	return buf, nil
}

// Write places bytes at the given byte offset past sector start of the
// range. The second argument is an additional byte offset, not an end
// sector; callers addressing by byte offset pass start 0.
func (s *IO) Write(start, byteOffset uint64, p []byte) error {
	if s.file == nil {
		return errors.NewStorageError(
			nil, errors.ErrorCodeIO, "backing file handle is gone",
		).WithSector(start).WithOffset(byteOffset)
	}

	target := (s.origin+start)*Length + byteOffset
	if _, err := s.file.WriteAt(p, int64(target)); err != nil {
		return errors.NewStorageError(
			err, errors.ErrorCodeIO, "failed to write sectors",
		).WithSector(start).WithOffset(byteOffset).WithDetail("byteCount", len(p))
	}

	return nil
}
