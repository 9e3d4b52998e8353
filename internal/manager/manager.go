// Package manager coordinates record storage for one schema slot.
//
// Each slot owns a coherent triple of partition groups, found by type tag:
// a schema partition (3s+1) holding the serialized column list, an index
// partition (3s+2) holding the item tree, and one or more data partitions
// (3s+3) holding packed rows. The manager loads and saves the first two
// and runs commands (get, insert, update, remove) against the third.
package manager

import (
	"fmt"

	"github.com/iamNilotpal/cranedb/internal/disk"
	"github.com/iamNilotpal/cranedb/internal/index"
	"github.com/iamNilotpal/cranedb/internal/partition"
	"github.com/iamNilotpal/cranedb/pkg/errors"
	"github.com/iamNilotpal/cranedb/pkg/options"
	"github.com/iamNilotpal/cranedb/pkg/schema"
	"github.com/iamNilotpal/cranedb/pkg/slotinfo"
	"go.uber.org/zap"
)

// Manager holds one schema slot's partitions, schema and item tree.
type Manager struct {
	slot        uint64
	schema      *schema.Schema
	schemaPart  *partition.Partition
	indexPart   *partition.Partition
	dataParts   []*partition.Partition
	tree        *index.ItemTree
	log         *zap.SugaredLogger
}

// Config carries the dependencies shared by both constructors.
type Config struct {
	Disk    *disk.Disk
	Slot    uint64
	Options *options.Options
	Logger  *zap.SugaredLogger
}

func validate(config *Config) error {
	if config == nil || config.Disk == nil {
		return errors.NewRequiredFieldError("disk")
	}
	if config.Options == nil || config.Options.PartitionOptions == nil {
		return errors.NewRequiredFieldError("options")
	}
	if config.Logger == nil {
		return errors.NewRequiredFieldError("logger")
	}
	return nil
}

// CreateToDisk appends the slot's partition triple to the disk (schema,
// index and first data partition, tagged 3s+1, 3s+2 and 3s+3) and returns
// a manager over them with an empty item tree.
func CreateToDisk(config *Config, sc *schema.Schema) (*Manager, error) {
	if err := validate(config); err != nil {
		return nil, err
	}

	sizes := config.Options.PartitionOptions
	if _, err := config.Disk.AppendPartition(sizes.SchemaSectors, slotinfo.SchemaType(config.Slot)); err != nil {
		return nil, err
	}
	if _, err := config.Disk.AppendPartition(sizes.IndexSectors, slotinfo.IndexType(config.Slot)); err != nil {
		return nil, err
	}
	if _, err := config.Disk.AppendPartition(sizes.DataSectors, slotinfo.DataType(config.Slot)); err != nil {
		return nil, err
	}

	m, err := assemble(config, sc)
	if err != nil {
		return nil, err
	}

	config.Logger.Infow(
		"Created schema slot",
		"slot", config.Slot,
		"schema", sc.Name(),
		"rowLen", sc.RowLen(),
	)
	return m, nil
}

// FromDisk reconstructs the slot's manager from an opened disk, decoding
// the stored schema and item tree.
func FromDisk(config *Config) (*Manager, error) {
	if err := validate(config); err != nil {
		return nil, err
	}
	return assemble(config, nil)
}

// assemble looks up the slot's partitions by type tag and builds the
// manager. When sc is nil the schema is decoded from its partition;
// otherwise the given schema is adopted (the create path, whose partition
// is still blank).
func assemble(config *Config, sc *schema.Schema) (*Manager, error) {
	slot := config.Slot

	schemaParts := config.Disk.PartitionsByType(slotinfo.SchemaType(slot))
	if len(schemaParts) == 0 {
		return nil, missingPartition(slot, "schema")
	}
	indexParts := config.Disk.PartitionsByType(slotinfo.IndexType(slot))
	if len(indexParts) == 0 {
		return nil, missingPartition(slot, "index")
	}
	dataParts := config.Disk.PartitionsByType(slotinfo.DataType(slot))
	if len(dataParts) == 0 {
		return nil, missingPartition(slot, "data")
	}

	// Only the first schema partition of a slot is ever consulted; nothing
	// in this core creates a second.
	schemaPart := schemaParts[0]
	indexPart := indexParts[0]

	if sc == nil {
		raw, err := schemaPart.ReadSectors(0, schemaPart.Capacity())
		if err != nil {
			return nil, err
		}
		sc, err = schema.Decode(schema.NewBuffer(raw))
		if err != nil {
			return nil, err
		}
	}

	tree, err := index.FromPartition(indexPart, 0)
	if err != nil {
		return nil, err
	}

	return &Manager{
		slot:       slot,
		schema:     sc,
		schemaPart: schemaPart,
		indexPart:  indexPart,
		dataParts:  dataParts,
		tree:       tree,
		log:        config.Logger,
	}, nil
}

func missingPartition(slot uint64, group string) error {
	return errors.NewBaseError(
		nil, errors.ErrorCodeMalformed, fmt.Sprintf("slot has no %s partition", group),
	).WithDetail("slot", slot)
}

// Save serializes the schema and the item tree into their partitions,
// each at offset 0.
func (m *Manager) Save() error {
	if err := m.schemaPart.WriteSectors(0, 0, m.schema.Encode()); err != nil {
		return err
	}
	return m.tree.ToPartition(m.indexPart)
}

// Execute bundles the slot's mutable state and dispatches to the command.
func (m *Manager) Execute(cmd Command) (*Result, error) {
	state := &State{
		Schema:         m.schema,
		Tree:           m.tree,
		DataPartitions: m.dataParts,
	}

	res, err := cmd.Execute(state)
	if err != nil {
		if de, ok := errors.AsDataError(err); ok {
			return nil, de.WithSlot(m.slot)
		}
		return nil, err
	}
	return res, nil
}

// Slot returns the schema slot this manager serves.
func (m *Manager) Slot() uint64 { return m.slot }

// Schema returns the slot's schema.
func (m *Manager) Schema() *schema.Schema { return m.schema }

// Tree returns the slot's item tree.
func (m *Manager) Tree() *index.ItemTree { return m.tree }

// DataPartitions returns the slot's data partitions in directory order.
func (m *Manager) DataPartitions() []*partition.Partition { return m.dataParts }
