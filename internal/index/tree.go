// Package index implements the key→location index of a schema slot: a
// sorted map from record key to the position of the record's bytes,
// serializable into the slot's index partition.
//
// Keys are nonzero u64s handed out sequentially by the data layer; key 0
// is reserved as the on-disk terminator and is never inserted. The tree
// also tracks max_key, the largest key ever inserted. It never decreases
// when entries are removed, so freed keys are not reissued while the tree
// is in memory. max_key is not stored on disk: a tree read back from its
// partition recomputes it from the surviving entries.
package index

import (
	"encoding/binary"

	"github.com/google/btree"
	"github.com/iamNilotpal/cranedb/internal/partition"
	"github.com/iamNilotpal/cranedb/pkg/errors"
	"github.com/iamNilotpal/cranedb/pkg/schema"
)

// Position locates a record: the id of the partition holding it and the
// byte offset of its first byte relative to the partition's start.
type Position struct {
	Partition uint64
	Offset    uint64
}

// PositionWireLen is a Position's on-disk size: two big-endian u64s.
const PositionWireLen uint64 = 16

// Bytes encodes the position as partition then offset, big-endian.
func (p Position) Bytes() []byte {
	buf := binary.BigEndian.AppendUint64(nil, p.Partition)
	return binary.BigEndian.AppendUint64(buf, p.Offset)
}

// positionFrom decodes a position from the front of the buffer.
func positionFrom(buf *schema.Buffer) (Position, error) {
	b := buf.Consume(PositionWireLen)
	if uint64(len(b)) < PositionWireLen {
		return Position{}, errors.NewBaseError(
			nil, errors.ErrorCodeMalformed, "truncated position bytes",
		).WithDetail("got", len(b))
	}
	return Position{
		Partition: binary.BigEndian.Uint64(b[:8]),
		Offset:    binary.BigEndian.Uint64(b[8:]),
	}, nil
}

// entry is one key→position binding ordered by key.
type entry struct {
	key uint64
	pos Position
}

func entryLess(a, b entry) bool { return a.key < b.key }

// btreeDegree matches the default node fan-out the library recommends for
// in-memory use.
const btreeDegree = 32

// ItemTree is the sorted key→Position map plus the cached max_key.
type ItemTree struct {
	tree   *btree.BTreeG[entry]
	maxKey uint64
}

// New returns an empty tree.
func New() *ItemTree {
	return &ItemTree{tree: btree.NewG(btreeDegree, entryLess)}
}

// Insert binds key to (partitionID, offset), overwriting any existing
// binding, and raises max_key when the key exceeds it. Key 0 is reserved
// as the serialization terminator and is rejected.
func (t *ItemTree) Insert(key, partitionID, offset uint64) error {
	if key == 0 {
		return errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "key 0 is reserved as the index terminator",
		).WithField("key").WithRule("nonzero")
	}

	if key > t.maxKey {
		t.maxKey = key
	}
	t.tree.ReplaceOrInsert(entry{key: key, pos: Position{Partition: partitionID, Offset: offset}})
	return nil
}

// Get returns the position bound to key.
func (t *ItemTree) Get(key uint64) (Position, bool) {
	e, ok := t.tree.Get(entry{key: key})
	if !ok {
		return Position{}, false
	}
	return e.pos, true
}

// Remove deletes the key's binding. max_key does not decrease, so the key
// space never rewinds past a removed record.
func (t *ItemTree) Remove(key uint64) {
	t.tree.Delete(entry{key: key})
}

// MaxKey returns the largest key ever inserted.
func (t *ItemTree) MaxKey() uint64 {
	return t.maxKey
}

// Len returns the number of live bindings.
func (t *ItemTree) Len() int {
	return t.tree.Len()
}

// PositionSet returns the set of every currently referenced position, for
// O(1) membership tests during reuse-slot scans.
func (t *ItemTree) PositionSet() map[Position]struct{} {
	set := make(map[Position]struct{}, t.tree.Len())
	t.tree.Ascend(func(e entry) bool {
		set[e.pos] = struct{}{}
		return true
	})
	return set
}

// Bytes serializes the tree as (key, position) records in ascending key
// order. The output holds no terminator; ToPartition appends the zero-key
// entry that ends the sequence on disk.
func (t *ItemTree) Bytes() []byte {
	out := make([]byte, 0, t.tree.Len()*int(8+PositionWireLen))
	t.tree.Ascend(func(e entry) bool {
		out = binary.BigEndian.AppendUint64(out, e.key)
		out = append(out, e.pos.Bytes()...)
		return true
	})
	return out
}

// FromBytes rebuilds a tree from serialized records, stopping at a zero
// key or when the buffer runs out.
func FromBytes(buf *schema.Buffer) (*ItemTree, error) {
	t := New()
	for uint64(buf.Len()) >= 8+PositionWireLen {
		key := binary.BigEndian.Uint64(buf.Consume(8))
		if key == 0 {
			break
		}
		pos, err := positionFrom(buf)
		if err != nil {
			return nil, err
		}
		if err := t.Insert(key, pos.Partition, pos.Offset); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ToPartition writes the serialized tree at the very start of the given
// partition, followed by an explicit zero-entry terminator. The terminator
// matters on rewrite: a tree that shrank since the last save must not let
// a reader run into the previous save's stale tail.
func (t *ItemTree) ToPartition(p *partition.Partition) error {
	b := append(t.Bytes(), make([]byte, 8+PositionWireLen)...)
	return p.WriteSectors(0, 0, b)
}

// FromPartition reads the partition's whole sector range starting at
// sector off and parses the stored tree.
func FromPartition(p *partition.Partition, off uint64) (*ItemTree, error) {
	raw, err := p.ReadSectors(off, p.Capacity()+off)
	if err != nil {
		return nil, err
	}
	return FromBytes(schema.NewBuffer(raw))
}
