// Package partition models the logical byte ranges the backing file is
// divided into: the fixed root partition holding the partition directory,
// and the numbered partitions recorded inside it.
//
// A partition is a contiguous sector range tagged with an id, a type and
// an initialized-length watermark: the high-water mark of bytes ever
// written, which the record placement logic uses to find fresh append
// slots. Partitions never overlap, and none is ever shrunk, moved or
// deleted.
package partition

import (
	"github.com/iamNilotpal/cranedb/internal/sector"
	"github.com/iamNilotpal/cranedb/pkg/errors"
)

// Partition wraps sector I/O with a per-partition origin and watermark.
type Partition struct {
	id             uint64
	offset         uint64 // First sector of the partition within the file.
	totalLen       uint64 // Length in sectors.
	initializedLen uint64 // Watermark in bytes, not sectors.
	partitionType  uint64
	io             *sector.IO
}

// New constructs a partition over the sector range
// [offset, offset+totalLen) of the file.
func New(id, offset, totalLen, initializedLen, partitionType uint64, file sector.Handle) *Partition {
	return &Partition{
		id:             id,
		offset:         offset,
		totalLen:       totalLen,
		initializedLen: initializedLen,
		partitionType:  partitionType,
		io:             sector.New(offset, totalLen, file),
	}
}

// ID returns the partition's id. Ids are 1-based and assigned in creation
// order; 0 is reserved for the root partition.
func (p *Partition) ID() uint64 { return p.id }

// Offset returns the partition's first sector within the file.
func (p *Partition) Offset() uint64 { return p.offset }

// Type returns the partition's type tag. Its semantics belong to the
// database layer's slot scheme.
func (p *Partition) Type() uint64 { return p.partitionType }

// Capacity returns the partition's length in sectors.
func (p *Partition) Capacity() uint64 { return p.totalLen }

// TotalBytes returns the partition's length in bytes.
func (p *Partition) TotalBytes() uint64 { return p.totalLen * sector.Length }

// InitializedLen returns the watermark of bytes ever written.
func (p *Partition) InitializedLen() uint64 { return p.initializedLen }

// WriteSectors writes bytes at the given byte offset past sector start,
// raising the watermark first. A write that would reach past the end of
// the partition is refused. The free-slot search is supposed to be the
// guard, and a placement bug must not clobber the neighbor partition.
func (p *Partition) WriteSectors(start, byteOffset uint64, b []byte) error {
	end := start*sector.Length + byteOffset + uint64(len(b))
	if end > p.TotalBytes() {
		return errors.NewStorageError(
			nil, errors.ErrorCodeInternal, "write would extend past end of partition",
		).WithPartitionID(p.id).
			WithSector(start).
			WithOffset(byteOffset).
			WithDetail("writeEnd", end).
			WithDetail("totalBytes", p.TotalBytes())
	}

	if end > p.initializedLen {
		p.initializedLen = end
	}

	if err := p.io.Write(start, byteOffset, b); err != nil {
		if se, ok := errors.AsStorageError(err); ok {
			return se.WithPartitionID(p.id)
		}
		return err
	}
	return nil
}

// ReadSectors reads the sector range [start, end) of the partition,
// regardless of the watermark.
func (p *Partition) ReadSectors(start, end uint64) ([]byte, error) {
	b, err := p.io.Read(start, end)
	if err != nil {
		if se, ok := errors.AsStorageError(err); ok {
			return nil, se.WithPartitionID(p.id)
		}
		return nil, err
	}
	return b, nil
}
