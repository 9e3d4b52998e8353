// Package cranedb provides a small single-file embedded database. One
// backing file is partitioned into fixed 256-byte sectors; on top sit a
// typed record schema codec, a partition directory that reloads from disk,
// a key→location index per schema, and a per-schema data manager that
// places records and grows storage when a partition fills.
//
// Instance is the primary entry point: create or open a database file,
// register schemas, then run keyed record operations against a schema
// slot. The core assumes exclusive single-process access and a cooperative
// caller that triggers Save to flush metadata; record bytes hit the file
// on every write, but the directory, schemas and indexes are only
// persisted by a save. Besides explicit Save calls, a save also runs when
// a schema is added, when a slot grows a new data partition, and on Close.
package cranedb

import (
	"context"

	"github.com/iamNilotpal/cranedb/internal/disk"
	"github.com/iamNilotpal/cranedb/internal/engine"
	"github.com/iamNilotpal/cranedb/internal/manager"
	"github.com/iamNilotpal/cranedb/pkg/logger"
	"github.com/iamNilotpal/cranedb/pkg/options"
	"github.com/iamNilotpal/cranedb/pkg/schema"
)

// Instance represents one embedded database over one backing file.
// It encapsulates the engine responsible for command execution and the
// configuration options applied to this database.
type Instance struct {
	engine  *engine.Engine   // The underlying engine dispatching record operations.
	options *options.Options // Configuration options applied to this instance.
}

// Create initializes a brand-new database file at the configured path
// (truncating any existing file) and returns an instance over it.
func Create(ctx context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	return build(ctx, service, true, opts)
}

// Open loads an existing database file, reconstructing every schema slot
// recorded in its partition directory.
func Open(ctx context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	return build(ctx, service, false, opts)
}

func build(_ context.Context, service string, create bool, opts []options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	defaultOpts := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&defaultOpts)
	}

	diskConfig := &disk.Config{Path: defaultOpts.Path, Logger: log}

	var d *disk.Disk
	var err error
	if create {
		d, err = disk.Create(diskConfig)
	} else {
		d, err = disk.Open(diskConfig)
	}
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(&engine.Config{Disk: d, Options: &defaultOpts, Logger: log})
	if err != nil {
		d.Close()
		return nil, err
	}

	return &Instance{engine: eng, options: &defaultOpts}, nil
}

// AddSchema registers a schema and returns the slot to address it by.
// The slot's partitions are created and persisted immediately.
func (i *Instance) AddSchema(ctx context.Context, sc *schema.Schema) (uint64, error) {
	return i.engine.AddSchema(sc)
}

// Get retrieves the row bound to key in the given schema slot.
func (i *Instance) Get(ctx context.Context, slot, key uint64) ([]schema.Value, error) {
	res, err := i.engine.Execute(slot, &manager.Get{Key: key})
	if err != nil {
		return nil, err
	}
	return res.Values, nil
}

// Insert places a new row in the given schema slot and returns the key it
// was bound to. Keys are assigned sequentially and removed keys are not
// reissued while the database stays open; after a reopen, numbering
// continues from the largest key still bound.
func (i *Instance) Insert(ctx context.Context, slot uint64, values ...schema.Value) (uint64, error) {
	res, err := i.engine.Execute(slot, &manager.Insert{Values: values})
	if err != nil {
		return 0, err
	}
	return res.Key, nil
}

// Update overwrites the row bound to key in place and returns the new key
// the fresh bytes are bound under. The old key remains bound to the same
// position.
func (i *Instance) Update(ctx context.Context, slot, key uint64, values ...schema.Value) (uint64, error) {
	res, err := i.engine.Execute(slot, &manager.Update{Key: key, Values: values})
	if err != nil {
		return 0, err
	}
	return res.Key, nil
}

// Remove unbinds a key. The row's bytes stay on disk until a later insert
// reuses the slot.
func (i *Instance) Remove(ctx context.Context, slot, key uint64) error {
	_, err := i.engine.Execute(slot, &manager.Remove{Key: key})
	return err
}

// Save flushes every schema, every index and the partition directory.
func (i *Instance) Save(ctx context.Context) error {
	return i.engine.Save()
}

// SchemaCount returns the number of registered schema slots.
func (i *Instance) SchemaCount() uint64 {
	return i.engine.SchemaCount()
}

// Schema returns the schema registered at the given slot.
func (i *Instance) Schema(slot uint64) (*schema.Schema, error) {
	return i.engine.Schema(slot)
}

// Close flushes all metadata and releases the backing file. The instance
// cannot be used afterwards.
func (i *Instance) Close(ctx context.Context) error {
	if err := i.engine.Save(); err != nil {
		return err
	}
	return i.engine.Close()
}
