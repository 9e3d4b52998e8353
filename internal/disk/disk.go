// Package disk provides the top-level owner of the backing database file.
//
// The disk holds the only *os.File in the process and hands each partition
// the narrow positional-I/O capability it needs, so partitions can never
// outlive or close the file themselves. It also owns the partition
// directory stored in the root partition, creates new partitions by
// appending sectors to the end of the file, and reconstructs the whole
// partition set from the directory when an existing database is opened.
//
// Metadata is flushed only on an explicit Save: data writes reach the file
// immediately, but the directory's recorded watermarks are rewritten when
// the caller decides the current state is worth keeping.
package disk

import (
	"fmt"
	"os"

	"github.com/iamNilotpal/cranedb/internal/partition"
	"github.com/iamNilotpal/cranedb/internal/sector"
	"github.com/iamNilotpal/cranedb/pkg/errors"
	"github.com/iamNilotpal/cranedb/pkg/filesys"
	"go.uber.org/zap"
)

// initSectors is how many sectors a fresh database file is zero-filled
// with. The root partition reserves sectors [0, 12); the remaining four
// sectors materialize lazily when the first partition is appended.
const initSectors uint64 = 8

// Disk owns the backing file, the partition directory and every partition
// reconstructed from or appended to it.
type Disk struct {
	path         string
	file         *os.File
	log          *zap.SugaredLogger
	directory    *partition.Directory
	partitions   []*partition.Partition
	totalSectors uint64
}

// Config carries the parameters needed to create or open a disk.
type Config struct {
	Path   string
	Logger *zap.SugaredLogger
}

func validate(config *Config) error {
	if config == nil {
		return errors.NewRequiredFieldError("config")
	}
	if config.Path == "" {
		return errors.NewRequiredFieldError("path")
	}
	if config.Logger == nil {
		return errors.NewRequiredFieldError("logger")
	}
	return nil
}

// Create initializes a new database file at the configured path,
// truncating any existing file. The first sectors are zero-filled and the
// partition directory starts empty.
func Create(config *Config) (*Disk, error) {
	if err := validate(config); err != nil {
		return nil, err
	}

	config.Logger.Infow("Creating database file", "path", config.Path)

	file, err := filesys.CreateFile(config.Path, true)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, config.Path)
	}

	zeros := make([]byte, initSectors*sector.Length)
	if _, err := file.WriteAt(zeros, 0); err != nil {
		file.Close()
		return nil, errors.NewStorageError(
			err, errors.ErrorCodeIO, "failed to zero-fill new database file",
		).WithPath(config.Path)
	}

	root := partition.New(0, 0, partition.RootSectors, 0, 0, file)

	// Placement starts past the whole 12-sector root region even though
	// only 8 sectors are physically zeroed; the gap fills in when the file
	// grows.
	d := &Disk{
		path:         config.Path,
		file:         file,
		log:          config.Logger,
		directory:    partition.NewDirectory(root),
		totalSectors: partition.RootSectors,
	}

	config.Logger.Infow("Database file created", "path", config.Path, "sectors", d.totalSectors)
	return d, nil
}

// Open loads an existing database file: it reads the partition directory
// and reconstructs one Partition per live entry. Entries whose start
// sector is zero are dead and are skipped; ids are assigned 1-based over
// the live entries in directory order.
func Open(config *Config) (*Disk, error) {
	if err := validate(config); err != nil {
		return nil, err
	}

	config.Logger.Infow("Opening database file", "path", config.Path)

	file, err := filesys.OpenFile(config.Path)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, config.Path)
	}

	root := partition.New(0, 0, partition.RootSectors, 0, 0, file)
	directory, err := partition.LoadDirectory(root)
	if err != nil {
		file.Close()
		return nil, err
	}

	partitions := make([]*partition.Partition, 0, directory.Len())
	for i := 0; i < directory.Len(); i++ {
		start, end, initLen, partitionType := directory.Entry(i)
		if start == 0 {
			continue
		}
		id := uint64(len(partitions) + 1)
		partitions = append(partitions, partition.New(id, start, end-start, initLen, partitionType, file))
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.NewStorageError(
			err, errors.ErrorCodeIO, "failed to stat database file",
		).WithPath(config.Path)
	}

	totalSectors := uint64(stat.Size()) / sector.Length
	if totalSectors < partition.RootSectors {
		totalSectors = partition.RootSectors
	}

	d := &Disk{
		path:         config.Path,
		file:         file,
		log:          config.Logger,
		directory:    directory,
		partitions:   partitions,
		totalSectors: totalSectors,
	}

	config.Logger.Infow(
		"Database file opened",
		"path", config.Path,
		"partitions", len(partitions),
		"sectors", d.totalSectors,
	)
	return d, nil
}

// AddSectors extends the file by n zero-filled sectors and returns the new
// total sector count.
func (d *Disk) AddSectors(n uint64) (uint64, error) {
	if d.file == nil {
		return 0, errors.NewStorageError(
			nil, errors.ErrorCodeIO, "backing file handle is gone",
		).WithPath(d.path)
	}

	zeros := make([]byte, n*sector.Length)
	if _, err := d.file.WriteAt(zeros, int64(d.totalSectors*sector.Length)); err != nil {
		return 0, errors.NewStorageError(
			err, errors.ErrorCodeIO, "failed to extend database file",
		).WithPath(d.path).WithDetail("sectors", n)
	}

	d.totalSectors += n
	return d.totalSectors, nil
}

// AppendPartition extends the file by sectorLen sectors, constructs a
// partition over the new range, records it in the directory (persisting
// the directory immediately) and returns the assigned id.
func (d *Disk) AppendPartition(sectorLen, partitionType uint64) (uint64, error) {
	oldEnd := d.totalSectors
	if _, err := d.AddSectors(sectorLen); err != nil {
		return 0, err
	}

	id := uint64(len(d.partitions) + 1)
	p := partition.New(id, oldEnd, sectorLen, 0, partitionType, d.file)
	d.partitions = append(d.partitions, p)

	if err := d.directory.Append(oldEnd, oldEnd+sectorLen, 0, partitionType); err != nil {
		return 0, err
	}

	d.log.Infow(
		"Appended partition",
		"id", id,
		"startSector", oldEnd,
		"sectors", sectorLen,
		"type", partitionType,
	)
	return id, nil
}

// PartitionByID returns the partition with the given 1-based id.
func (d *Disk) PartitionByID(id uint64) (*partition.Partition, error) {
	for _, p := range d.partitions {
		if p.ID() == id {
			return p, nil
		}
	}
	return nil, errors.NewStorageError(
		nil, errors.ErrorCodeInternal, fmt.Sprintf("no partition with id %d", id),
	).WithPartitionID(id)
}

// PartitionsByType returns every partition carrying the given type tag, in
// directory (creation) order.
func (d *Disk) PartitionsByType(partitionType uint64) []*partition.Partition {
	var out []*partition.Partition
	for _, p := range d.partitions {
		if p.Type() == partitionType {
			out = append(out, p)
		}
	}
	return out
}

// MaxPartitionType returns the largest type tag present on the disk, or
// zero when no partitions exist.
func (d *Disk) MaxPartitionType() uint64 {
	var maxType uint64
	for _, p := range d.partitions {
		if p.Type() > maxType {
			maxType = p.Type()
		}
	}
	return maxType
}

// Save rewrites the directory with every partition's current watermark.
func (d *Disk) Save() error {
	live := 0
	for i := 0; i < d.directory.Len(); i++ {
		start, _, _, _ := d.directory.Entry(i)
		if start == 0 {
			continue
		}
		d.directory.SetInitLen(i, d.partitions[live].InitializedLen())
		live++
	}
	return d.directory.Write()
}

// Path returns the backing file's path.
func (d *Disk) Path() string {
	return d.path
}

// Close releases the backing file. Every partition's subsequent I/O fails
// with IO_FAILURE once the handle is gone.
func (d *Disk) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}
