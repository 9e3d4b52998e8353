// Package slotinfo provides the arithmetic tying schema slots to partition
// type tags.
//
// Every schema occupies one "slot" s (a non-negative integer) and owns a
// coherent triple of partition groups, distinguished on disk purely by the
// partition_type field of the directory:
//
//	schema partition: 3s + 1
//	index partition:  3s + 2
//	data partitions:  3s + 3 (one or more)
//
// Type 0 is never assigned; a directory whose maximum type is T therefore
// describes (T - offset) / 3 schema slots. Keeping this arithmetic in one
// place means the manager, the database layer and the reload path can never
// disagree about which partitions belong to whom.
package slotinfo

import "fmt"

// TypeOffset is the base the type-tag scheme starts from. Slot 0's schema
// partition carries type TypeOffset + 1.
const TypeOffset uint64 = 0

// SchemaType returns the partition type tag of slot's schema partition.
func SchemaType(slot uint64) uint64 {
	return slot*3 + 1
}

// IndexType returns the partition type tag of slot's item tree partition.
func IndexType(slot uint64) uint64 {
	return slot*3 + 2
}

// DataType returns the partition type tag shared by all of slot's data partitions.
func DataType(slot uint64) uint64 {
	return slot*3 + 3
}

// SlotOf maps a partition type tag back to the schema slot that owns it.
// Type 0 (and the root partition) belong to no slot.
func SlotOf(partitionType uint64) (uint64, error) {
	if partitionType == 0 {
		return 0, fmt.Errorf("partition type 0 is reserved and belongs to no slot")
	}
	return (partitionType - 1) / 3, nil
}

// CountSchemas derives how many schema slots a set of partition types
// describes. maxType is the largest partition type present in the
// directory; zero means no typed partitions exist yet.
func CountSchemas(maxType uint64) uint64 {
	if maxType <= TypeOffset {
		return 0
	}
	return (maxType - TypeOffset) / 3
}
