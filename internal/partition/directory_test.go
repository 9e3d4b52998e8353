package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoot(t *testing.T) *Partition {
	t.Helper()
	return New(0, 0, RootSectors, 0, 0, testFile(t))
}

func TestDirectoryWriteLoadRoundTrip(t *testing.T) {
	root := testRoot(t)

	d := NewDirectory(root)
	require.NoError(t, d.Append(20, 119, 40, 1))
	require.NoError(t, d.Append(120, 281, 100, 2))
	require.NoError(t, d.Append(282, 300, 18, 3))

	loaded, err := LoadDirectory(root)
	require.NoError(t, err)

	require.Equal(t, 3, loaded.Len())
	for i := 0; i < 3; i++ {
		wantStart, wantEnd, wantInit, wantType := d.Entry(i)
		start, end, initLen, partitionType := loaded.Entry(i)
		assert.Equal(t, wantStart, start)
		assert.Equal(t, wantEnd, end)
		assert.Equal(t, wantInit, initLen)
		assert.Equal(t, wantType, partitionType)
	}
}

func TestDirectoryEmptyLoads(t *testing.T) {
	loaded, err := LoadDirectory(testRoot(t))
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestDirectoryUpdatesWatermarks(t *testing.T) {
	root := testRoot(t)

	d := NewDirectory(root)
	require.NoError(t, d.Append(12, 44, 0, 1))

	d.SetInitLen(0, 777)
	require.NoError(t, d.Write())

	loaded, err := LoadDirectory(root)
	require.NoError(t, err)
	_, _, initLen, _ := loaded.Entry(0)
	assert.Equal(t, uint64(777), initLen)
}

func TestComputeLens(t *testing.T) {
	d := NewDirectory(testRoot(t))
	require.NoError(t, d.Append(12, 44, 0, 1))
	require.NoError(t, d.Append(44, 52, 0, 2))

	assert.Equal(t, []uint64{32, 8}, d.ComputeLens())
}

func TestDirectoryCapacity(t *testing.T) {
	d := NewDirectory(testRoot(t))

	for i := 0; i < MaxEntries; i++ {
		start := uint64(12 + i*16)
		require.NoError(t, d.Append(start, start+16, 0, uint64(i+1)))
	}

	err := d.Append(9999, 10015, 0, 97)
	require.Error(t, err)
	assert.Equal(t, 96, MaxEntries)
}

func TestDirectoryEntryLayout(t *testing.T) {
	root := testRoot(t)

	d := NewDirectory(root)
	require.NoError(t, d.Append(12, 44, 2048, 5))

	raw, err := root.ReadSectors(0, 1)
	require.NoError(t, err)

	// 32-byte entry of four big-endian u64s at offset 0.
	want := []byte{
		0, 0, 0, 0, 0, 0, 0, 12,
		0, 0, 0, 0, 0, 0, 0, 44,
		0, 0, 0, 0, 0, 0, 8, 0,
		0, 0, 0, 0, 0, 0, 0, 5,
	}
	assert.Equal(t, want, raw[:32])
}
