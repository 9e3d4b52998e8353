package options

const (
	// Specifies the default backing file path used when no path is provided
	// during initialization.
	DefaultPath = "./crane.cdb"

	// Represents the minimum allowed size for any partition, in sectors.
	MinPartitionSectors uint64 = 1

	// Represents the maximum allowed size for any partition, in sectors.
	// Bounded well below what the 96-entry partition directory could
	// address so a single misconfigured partition cannot exhaust it.
	MaxPartitionSectors uint64 = 4096

	// Specifies the default number of sectors reserved for a schema partition.
	DefaultSchemaSectors uint64 = 32

	// Specifies the default number of sectors reserved for an index partition.
	DefaultIndexSectors uint64 = 8

	// Specifies the default number of sectors reserved for each data
	// partition. Growth on overflow appends partitions of this same size.
	DefaultDataSectors uint64 = 16
)

// Holds the default configuration settings for a cranedb instance.
var defaultOptions = Options{
	Path: DefaultPath,
	PartitionOptions: &partitionOptions{
		SchemaSectors: DefaultSchemaSectors,
		IndexSectors:  DefaultIndexSectors,
		DataSectors:   DefaultDataSectors,
	},
}

// NewDefaultOptions returns a fresh copy of the defaults. The nested
// partition options are copied too, so one instance's overrides never
// leak into another's.
func NewDefaultOptions() Options {
	partitions := *defaultOptions.PartitionOptions
	opts := defaultOptions
	opts.PartitionOptions = &partitions
	return opts
}
