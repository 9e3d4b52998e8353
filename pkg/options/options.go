// Package options provides data structures and functions for configuring
// a cranedb instance. It defines the parameters that control how much
// space newly created partitions reserve and how much the database grows
// by when a schema's data partitions fill up.
package options

import "strings"

// Defines configurable sizing for the partition triple backing one schema
// slot. All sizes are in sectors.
type partitionOptions struct {
	// Sectors reserved for a schema partition when a schema is created.
	// The serialized schema (names included) must fit inside it.
	//
	//  - Default: 32
	SchemaSectors uint64 `json:"schemaSectors"`

	// Sectors reserved for an index (item tree) partition when a schema is
	// created. Bounds how many records a slot can index.
	//
	//  - Default: 8
	IndexSectors uint64 `json:"indexSectors"`

	// Sectors reserved for each data partition, both the one created with
	// the schema and every partition appended when storage runs out.
	//
	//  - Default: 16
	DataSectors uint64 `json:"dataSectors"`
}

// Options defines the configuration parameters for a cranedb instance.
type Options struct {
	// Specifies the path of the backing database file.
	//
	// Default: "./crane.cdb"
	Path string `json:"path"`

	// Configures partition sizing for schema, index and data partitions.
	PartitionOptions *partitionOptions `json:"partitionOptions"`
}

// OptionFunc is a function type that modifies the instance configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies the predefined set of default configuration values.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.Path = opts.Path
		o.PartitionOptions = opts.PartitionOptions
	}
}

// WithPath sets the backing file path.
func WithPath(path string) OptionFunc {
	return func(o *Options) {
		path = strings.TrimSpace(path)
		if path != "" {
			o.Path = path
		}
	}
}

// WithSchemaPartitionSectors sets how many sectors a new schema partition reserves.
func WithSchemaPartitionSectors(sectors uint64) OptionFunc {
	return func(o *Options) {
		if sectors >= MinPartitionSectors && sectors <= MaxPartitionSectors {
			o.PartitionOptions.SchemaSectors = sectors
		}
	}
}

// WithIndexPartitionSectors sets how many sectors a new index partition reserves.
func WithIndexPartitionSectors(sectors uint64) OptionFunc {
	return func(o *Options) {
		if sectors >= MinPartitionSectors && sectors <= MaxPartitionSectors {
			o.PartitionOptions.IndexSectors = sectors
		}
	}
}

// WithDataPartitionSectors sets how many sectors each data partition
// reserves, including partitions appended on growth.
func WithDataPartitionSectors(sectors uint64) OptionFunc {
	return func(o *Options) {
		if sectors >= MinPartitionSectors && sectors <= MaxPartitionSectors {
			o.PartitionOptions.DataSectors = sectors
		}
	}
}
