package disk

import (
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/cranedb/internal/partition"
	"github.com/iamNilotpal/cranedb/pkg/errors"
	"github.com/iamNilotpal/cranedb/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Path:   filepath.Join(t.TempDir(), "db.cdb"),
		Logger: logger.NewNop(),
	}
}

func TestCreateStartsEmpty(t *testing.T) {
	config := testConfig(t)

	d, err := Create(config)
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, uint64(0), d.MaxPartitionType())
	assert.Nil(t, d.PartitionsByType(1))
}

func TestAppendPartitionAssignsSequentialIDs(t *testing.T) {
	d, err := Create(testConfig(t))
	require.NoError(t, err)
	defer d.Close()

	id1, err := d.AppendPartition(32, 1)
	require.NoError(t, err)
	id2, err := d.AppendPartition(8, 2)
	require.NoError(t, err)
	id3, err := d.AppendPartition(16, 3)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), id1)
	assert.Equal(t, uint64(2), id2)
	assert.Equal(t, uint64(3), id3)

	// Partitions are laid out back to back past the root region.
	p1, err := d.PartitionByID(id1)
	require.NoError(t, err)
	p2, err := d.PartitionByID(id2)
	require.NoError(t, err)
	p3, err := d.PartitionByID(id3)
	require.NoError(t, err)

	assert.Equal(t, partition.RootSectors, p1.Offset())
	assert.Equal(t, p1.Offset()+p1.Capacity(), p2.Offset())
	assert.Equal(t, p2.Offset()+p2.Capacity(), p3.Offset())
}

func TestDirectoryRoundTripThroughReopen(t *testing.T) {
	config := testConfig(t)

	d, err := Create(config)
	require.NoError(t, err)

	_, err = d.AppendPartition(32, 1)
	require.NoError(t, err)
	_, err = d.AppendPartition(8, 2)
	require.NoError(t, err)
	_, err = d.AppendPartition(16, 3)
	require.NoError(t, err)

	// Raise a watermark so the save has something to record.
	p2, err := d.PartitionByID(2)
	require.NoError(t, err)
	require.NoError(t, p2.WriteSectors(0, 0, make([]byte, 123)))

	require.NoError(t, d.Save())
	require.NoError(t, d.Close())

	reopened, err := Open(config)
	require.NoError(t, err)
	defer reopened.Close()

	for id := uint64(1); id <= 3; id++ {
		orig, err := d.PartitionByID(id)
		require.NoError(t, err)
		got, err := reopened.PartitionByID(id)
		require.NoError(t, err)

		assert.Equal(t, orig.Offset(), got.Offset())
		assert.Equal(t, orig.Capacity(), got.Capacity())
		assert.Equal(t, orig.Type(), got.Type())
		assert.Equal(t, orig.InitializedLen(), got.InitializedLen())
	}
	assert.Equal(t, uint64(3), reopened.MaxPartitionType())
}

func TestPartitionsByTypeKeepsDirectoryOrder(t *testing.T) {
	d, err := Create(testConfig(t))
	require.NoError(t, err)
	defer d.Close()

	_, err = d.AppendPartition(16, 3)
	require.NoError(t, err)
	_, err = d.AppendPartition(8, 2)
	require.NoError(t, err)
	_, err = d.AppendPartition(16, 3)
	require.NoError(t, err)

	data := d.PartitionsByType(3)
	require.Len(t, data, 2)
	assert.Equal(t, uint64(1), data[0].ID())
	assert.Equal(t, uint64(3), data[1].ID())
}

func TestAddSectorsExtendsFile(t *testing.T) {
	d, err := Create(testConfig(t))
	require.NoError(t, err)
	defer d.Close()

	total, err := d.AddSectors(4)
	require.NoError(t, err)
	assert.Equal(t, partition.RootSectors+uint64(4), total)

	total, err = d.AddSectors(2)
	require.NoError(t, err)
	assert.Equal(t, partition.RootSectors+uint64(6), total)
}

func TestClosedDiskFailsWithIOFailure(t *testing.T) {
	d, err := Create(testConfig(t))
	require.NoError(t, err)

	_, err = d.AppendPartition(16, 3)
	require.NoError(t, err)
	p, err := d.PartitionByID(1)
	require.NoError(t, err)

	require.NoError(t, d.Close())

	_, err = p.ReadSectors(0, 1)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeIO, errors.GetErrorCode(err))

	err = p.WriteSectors(0, 0, []byte{1})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeIO, errors.GetErrorCode(err))

	_, err = d.AddSectors(1)
	require.Error(t, err)
}
