// Package engine implements the database façade over one disk: a
// collection of data managers indexed by schema slot.
//
// The engine reconstructs its managers from the partition directory (the
// number of slots follows from the largest partition type tag), creates
// new slots on demand, and runs commands. Its one piece of recovery
// policy: when a command fails because no data partition has room, the
// engine appends a fresh data partition for that slot, rebuilds the
// manager list so it sees the new partition, and retries exactly once.
// A second failure, or any other error, propagates to the caller.
package engine

import (
	stdErrors "errors"
	"sync/atomic"

	"github.com/iamNilotpal/cranedb/internal/disk"
	"github.com/iamNilotpal/cranedb/internal/manager"
	"github.com/iamNilotpal/cranedb/pkg/errors"
	"github.com/iamNilotpal/cranedb/pkg/options"
	"github.com/iamNilotpal/cranedb/pkg/schema"
	"github.com/iamNilotpal/cranedb/pkg/slotinfo"
	"go.uber.org/zap"
)

var (
	// ErrEngineClosed is returned when attempting to perform operations on a closed engine.
	ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")
)

// Engine owns the disk and one manager per schema slot.
type Engine struct {
	disk     *disk.Disk
	managers []*manager.Manager
	options  *options.Options
	log      *zap.SugaredLogger
	closed   atomic.Bool
}

// Config holds the parameters needed to initialize an Engine.
type Config struct {
	Disk    *disk.Disk
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New builds an engine over an opened disk, reconstructing one manager per
// schema slot recorded in the partition directory.
func New(config *Config) (*Engine, error) {
	if config == nil || config.Disk == nil {
		return nil, errors.NewRequiredFieldError("disk")
	}
	if config.Options == nil {
		return nil, errors.NewRequiredFieldError("options")
	}
	if config.Logger == nil {
		return nil, errors.NewRequiredFieldError("logger")
	}

	e := &Engine{
		disk:    config.Disk,
		options: config.Options,
		log:     config.Logger,
	}
	if err := e.rebuildManagers(); err != nil {
		return nil, err
	}

	config.Logger.Infow("Engine initialized", "schemas", len(e.managers))
	return e, nil
}

// rebuildManagers reconstructs the manager list from the disk. The slot
// count is derived from the largest partition type tag present.
func (e *Engine) rebuildManagers() error {
	count := slotinfo.CountSchemas(e.disk.MaxPartitionType())

	managers := make([]*manager.Manager, 0, count)
	for slot := uint64(0); slot < count; slot++ {
		m, err := manager.FromDisk(&manager.Config{
			Disk:    e.disk,
			Slot:    slot,
			Options: e.options,
			Logger:  e.log,
		})
		if err != nil {
			return err
		}
		managers = append(managers, m)
	}

	e.managers = managers
	return nil
}

// SchemaCount returns the number of schema slots.
func (e *Engine) SchemaCount() uint64 {
	return uint64(len(e.managers))
}

// Schema returns the schema stored at the given slot.
func (e *Engine) Schema(slot uint64) (*schema.Schema, error) {
	m, err := e.managerAt(slot)
	if err != nil {
		return nil, err
	}
	return m.Schema(), nil
}

// AddSchema allocates the next slot, creates its partition triple on disk
// and saves immediately so the new slot survives a crash of the caller.
func (e *Engine) AddSchema(sc *schema.Schema) (uint64, error) {
	if e.closed.Load() {
		return 0, ErrEngineClosed
	}

	slot := uint64(len(e.managers))
	m, err := manager.CreateToDisk(&manager.Config{
		Disk:    e.disk,
		Slot:    slot,
		Options: e.options,
		Logger:  e.log,
	}, sc)
	if err != nil {
		return 0, err
	}

	e.managers = append(e.managers, m)
	if err := e.Save(); err != nil {
		return 0, err
	}
	return slot, nil
}

// Execute runs a command against a slot. An out-of-storage failure is
// recovered exactly once: the engine appends a data partition of the
// slot's data type, rebuilds its managers and retries. In-memory state is
// flushed first so the rebuilt managers start from the same index the
// failed attempt saw.
func (e *Engine) Execute(slot uint64, cmd manager.Command) (*manager.Result, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	m, err := e.managerAt(slot)
	if err != nil {
		return nil, err
	}

	res, err := m.Execute(cmd)
	if err == nil || !errors.IsOutOfStorage(err) {
		return res, err
	}

	e.log.Infow(
		"Out of storage, growing slot",
		"slot", slot,
		"command", cmd.Name(),
		"dataSectors", e.options.PartitionOptions.DataSectors,
	)

	if err := e.Save(); err != nil {
		return nil, err
	}
	if _, err := e.disk.AppendPartition(
		e.options.PartitionOptions.DataSectors, slotinfo.DataType(slot),
	); err != nil {
		return nil, err
	}
	if err := e.rebuildManagers(); err != nil {
		return nil, err
	}

	m, err = e.managerAt(slot)
	if err != nil {
		return nil, err
	}
	return m.Execute(cmd)
}

// Save flushes every manager's schema and item tree, then rewrites the
// partition directory with current watermarks.
func (e *Engine) Save() error {
	for _, m := range e.managers {
		if err := m.Save(); err != nil {
			return err
		}
	}
	return e.disk.Save()
}

// Close shuts the engine down and releases the backing file. Unsaved
// metadata is not flushed implicitly; callers that want durability call
// Save first.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}
	return e.disk.Close()
}

func (e *Engine) managerAt(slot uint64) (*manager.Manager, error) {
	if slot >= uint64(len(e.managers)) {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "no such schema slot",
		).WithField("slot").
			WithProvided(slot).
			WithExpected(len(e.managers))
	}
	return e.managers[slot], nil
}
