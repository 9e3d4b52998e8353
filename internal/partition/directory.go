package partition

import (
	"github.com/iamNilotpal/cranedb/pkg/errors"
	"github.com/iamNilotpal/cranedb/pkg/schema"
)

const (
	// RootSectors is the fixed size of the root partition: sectors [0, 12)
	// of the file, 3 KiB in total.
	RootSectors uint64 = 12

	// EntrySize is the on-disk size of one directory entry: four big-endian
	// u64 fields (start_sector, end_sector, initialized_len, partition_type).
	EntrySize uint64 = 32

	// MaxEntries is how many directory entries the root partition holds.
	MaxEntries = int(RootSectors * 256 / EntrySize)
)

// entrySchema describes one directory entry as a row of four u64 columns,
// so directory I/O runs through the same codec as record I/O.
var entrySchema = func() *schema.Schema {
	s, err := schema.New("partition_directory", []schema.Column{
		{Name: "start_sector", Template: schema.UInt64(0)},
		{Name: "end_sector", Template: schema.UInt64(0)},
		{Name: "initialized_len", Template: schema.UInt64(0)},
		{Name: "partition_type", Template: schema.UInt64(0)},
	})
	if err != nil {
		panic(err)
	}
	return s
}()

// Directory is the on-disk table of all partitions, stored in the root
// partition. Entries are kept as parallel arrays in insertion order;
// partition ids follow from that order (first entry → id 1). A zero
// start+end pair terminates the on-disk array.
type Directory struct {
	part   *Partition
	starts []uint64
	ends   []uint64
	inits  []uint64
	types  []uint64
}

// NewDirectory wraps the root partition with an empty entry table.
func NewDirectory(root *Partition) *Directory {
	return &Directory{part: root}
}

// LoadDirectory wraps the root partition and immediately reads the stored
// entry table from it.
func LoadDirectory(root *Partition) (*Directory, error) {
	d := NewDirectory(root)
	if err := d.Load(); err != nil {
		return nil, err
	}
	return d, nil
}

// Load reads the whole root region and decodes entries until the zero
// terminator or the end of the region.
func (d *Directory) Load() error {
	raw, err := d.part.ReadSectors(0, RootSectors)
	if err != nil {
		return err
	}

	starts := []uint64{}
	ends := []uint64{}
	inits := []uint64{}
	types := []uint64{}

	buf := schema.NewBuffer(raw)
	for uint64(buf.Len()) >= EntrySize {
		row, err := entrySchema.ParseBytes(buf)
		if err != nil {
			return errors.NewBaseError(
				err, errors.ErrorCodeMalformed, "undecodable partition directory entry",
			).WithDetail("entry", len(starts))
		}

		start, end := row[0].Uint(), row[1].Uint()
		if start == 0 && end == 0 {
			break
		}

		starts = append(starts, start)
		ends = append(ends, end)
		inits = append(inits, row[2].Uint())
		types = append(types, row[3].Uint())
	}

	d.starts, d.ends, d.inits, d.types = starts, ends, inits, types
	return nil
}

// Write rewrites every directory slot in place: entry i lands at byte
// offset i*EntrySize within the root partition.
func (d *Directory) Write() error {
	if len(d.starts) != len(d.ends) || len(d.starts) != len(d.inits) || len(d.starts) != len(d.types) {
		return errors.NewStorageError(
			nil, errors.ErrorCodeInternal, "partition directory arrays out of sync",
		).WithDetail("starts", len(d.starts)).
			WithDetail("ends", len(d.ends)).
			WithDetail("initLens", len(d.inits)).
			WithDetail("types", len(d.types))
	}

	for i := range d.starts {
		row, err := entrySchema.ProduceBytes([]schema.Value{
			schema.UInt64(d.starts[i]),
			schema.UInt64(d.ends[i]),
			schema.UInt64(d.inits[i]),
			schema.UInt64(d.types[i]),
		})
		if err != nil {
			return err
		}
		if err := d.part.WriteSectors(0, uint64(i)*EntrySize, row); err != nil {
			return err
		}
	}

	return nil
}

// Append records a new partition and persists the directory.
func (d *Directory) Append(start, end, initLen, partitionType uint64) error {
	if len(d.starts) >= MaxEntries {
		return errors.NewStorageError(
			nil, errors.ErrorCodeOutOfStorage, "partition directory is full",
		).WithDetail("maxEntries", MaxEntries)
	}

	d.starts = append(d.starts, start)
	d.ends = append(d.ends, end)
	d.inits = append(d.inits, initLen)
	d.types = append(d.types, partitionType)

	return d.Write()
}

// Len returns the number of directory entries.
func (d *Directory) Len() int {
	return len(d.starts)
}

// Entry returns the i-th directory entry as (start, end, initLen, type).
func (d *Directory) Entry(i int) (uint64, uint64, uint64, uint64) {
	return d.starts[i], d.ends[i], d.inits[i], d.types[i]
}

// SetInitLen updates the recorded watermark of entry i. The disk calls
// this for every partition before rewriting the directory on save.
func (d *Directory) SetInitLen(i int, v uint64) {
	d.inits[i] = v
}

// ComputeLens returns each entry's length in sectors.
func (d *Directory) ComputeLens() []uint64 {
	lens := make([]uint64, len(d.starts))
	for i := range d.starts {
		lens[i] = d.ends[i] - d.starts[i]
	}
	return lens
}
