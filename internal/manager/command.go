package manager

import (
	"github.com/iamNilotpal/cranedb/internal/index"
	"github.com/iamNilotpal/cranedb/internal/partition"
	"github.com/iamNilotpal/cranedb/internal/sector"
	"github.com/iamNilotpal/cranedb/pkg/errors"
	"github.com/iamNilotpal/cranedb/pkg/schema"
)

// State is the mutable bundle a command runs against: the slot's schema,
// its item tree and its data partitions. Mutations to the tree and writes
// to the data partitions must stay paired: a command that writes a row
// also records its position, in that order.
type State struct {
	Schema         *schema.Schema
	Tree           *index.ItemTree
	DataPartitions []*partition.Partition
}

// Result carries a command's outcome: the decoded row for gets, and the
// key a record ended up bound to for inserts and updates.
type Result struct {
	Key    uint64
	Values []schema.Value
}

// Command is a verb over a schema slot's state.
type Command interface {
	// Name identifies the command in errors and logs.
	Name() string
	Execute(state *State) (*Result, error)
}

// dataPartitionByID resolves a position's partition among the slot's data
// partitions.
func dataPartitionByID(state *State, id uint64) (*partition.Partition, error) {
	for _, p := range state.DataPartitions {
		if p.ID() == id {
			return p, nil
		}
	}
	return nil, errors.NewBaseError(
		nil, errors.ErrorCodeMalformed, "index references a partition outside this slot",
	).WithDetail("partitionId", id)
}

// readRow reads and decodes the row stored at pos. It reads whole sectors
// covering [offset, offset+rowLen), consumes the lead-in bytes and decodes.
func readRow(state *State, pos index.Position) ([]schema.Value, error) {
	p, err := dataPartitionByID(state, pos.Partition)
	if err != nil {
		return nil, err
	}

	rowLen := state.Schema.RowLen()
	startSector := pos.Offset / sector.Length
	startOffset := pos.Offset % sector.Length
	sectors := (startOffset + rowLen + sector.Length - 1) / sector.Length

	raw, err := p.ReadSectors(startSector, startSector+sectors)
	if err != nil {
		return nil, err
	}

	buf := schema.NewBuffer(raw)
	buf.Consume(startOffset)
	return state.Schema.ParseBytes(buf)
}

// writeRow encodes values and writes them at pos, then binds them in the
// tree under key.
func writeRow(state *State, key uint64, pos index.Position, values []schema.Value) error {
	p, err := dataPartitionByID(state, pos.Partition)
	if err != nil {
		return err
	}

	row, err := state.Schema.ProduceBytes(values)
	if err != nil {
		return err
	}

	if err := p.WriteSectors(0, pos.Offset, row); err != nil {
		return err
	}
	return state.Tree.Insert(key, pos.Partition, pos.Offset)
}

// Get retrieves the row bound to a key.
type Get struct {
	Key uint64
}

func (c *Get) Name() string { return "Get" }

func (c *Get) Execute(state *State) (*Result, error) {
	pos, ok := state.Tree.Get(c.Key)
	if !ok {
		return nil, errors.NewUnknownKeyError(c.Name(), c.Key)
	}

	values, err := readRow(state, pos)
	if err != nil {
		return nil, err
	}
	return &Result{Key: c.Key, Values: values}, nil
}

// Insert places a new row and binds it under the next key (max_key + 1).
type Insert struct {
	Values []schema.Value
}

func (c *Insert) Name() string { return "Insert" }

func (c *Insert) Execute(state *State) (*Result, error) {
	pos, err := placeRecord(state)
	if err != nil {
		return nil, err
	}

	key := state.Tree.MaxKey() + 1
	if err := writeRow(state, key, pos, c.Values); err != nil {
		return nil, err
	}
	return &Result{Key: key}, nil
}

// placeRecord picks where a new row goes: a vacated slot if the scan finds
// one, otherwise the first fresh slot with room.
func placeRecord(state *State) (index.Position, error) {
	if pos, ok := findReuseSlot(state); ok {
		return pos, nil
	}
	return findFreshSlot(state)
}

// findReuseSlot walks each data partition's row grid looking for a slot no
// live index entry references. Candidate offsets are R, 2R, 3R, … whose
// row still fits inside the partition. Offset 0 is never a candidate,
// and since the scan runs before the fresh-slot search and an unwritten
// slot counts as unreferenced, the slot at the very start of a partition
// is never handed out at all. That first-slot blind spot is part of the
// placement contract.
func findReuseSlot(state *State) (index.Position, bool) {
	rowLen := state.Schema.RowLen()
	referenced := state.Tree.PositionSet()

	for _, p := range state.DataPartitions {
		for offset := rowLen; offset+rowLen <= p.TotalBytes(); offset += rowLen {
			pos := index.Position{Partition: p.ID(), Offset: offset}
			if _, taken := referenced[pos]; !taken {
				return pos, true
			}
		}
	}

	return index.Position{}, false
}

// findFreshSlot returns the append position in the first data partition
// whose remaining capacity fits one row.
func findFreshSlot(state *State) (index.Position, error) {
	rowLen := state.Schema.RowLen()

	for _, p := range state.DataPartitions {
		if p.TotalBytes()-p.InitializedLen() >= rowLen {
			return index.Position{Partition: p.ID(), Offset: p.InitializedLen()}, nil
		}
	}

	return index.Position{}, errors.NewOutOfStorageError(0, rowLen)
}

// Update overwrites the row bound to a key in place. The fresh bytes stay
// at the same position but are bound under a new key (max_key + 1); the
// old key keeps pointing at the position as well.
type Update struct {
	Key    uint64
	Values []schema.Value
}

func (c *Update) Name() string { return "Update" }

func (c *Update) Execute(state *State) (*Result, error) {
	pos, ok := state.Tree.Get(c.Key)
	if !ok {
		return nil, errors.NewUnknownKeyError(c.Name(), c.Key)
	}

	key := state.Tree.MaxKey() + 1
	if err := writeRow(state, key, pos, c.Values); err != nil {
		return nil, err
	}
	return &Result{Key: key}, nil
}

// Remove unbinds a key. The row's bytes stay on disk until a later insert
// reuses the slot; max_key does not decrease.
type Remove struct {
	Key uint64
}

func (c *Remove) Name() string { return "Remove" }

func (c *Remove) Execute(state *State) (*Result, error) {
	state.Tree.Remove(c.Key)
	return &Result{Key: c.Key}, nil
}
