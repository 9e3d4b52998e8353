package sector

import (
	"io"
	"testing"

	"github.com/iamNilotpal/cranedb/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memHandle is an in-memory stand-in for the backing file that records
// every access range.
type memHandle struct {
	data   []byte
	reads  [][2]int64 // (offset, length) per ReadAt
	writes [][2]int64 // (offset, length) per WriteAt
}

func (m *memHandle) ReadAt(p []byte, off int64) (int, error) {
	m.reads = append(m.reads, [2]int64{off, int64(len(p))})
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memHandle) WriteAt(p []byte, off int64) (int, error) {
	m.writes = append(m.writes, [2]int64{off, int64(len(p))})
	if need := off + int64(len(p)); need > int64(len(m.data)) {
		grown := make([]byte, need)
		copy(grown, m.data)
		m.data = grown
	}
	copy(m.data[off:], p)
	return len(p), nil
}

func TestReadReturnsExactSectorRange(t *testing.T) {
	h := &memHandle{data: make([]byte, 16*Length)}
	h.data[4*Length] = 0xAB

	sio := New(4, 8, h)

	got, err := sio.Read(0, 2)
	require.NoError(t, err)
	require.Len(t, got, int(2*Length))
	assert.Equal(t, byte(0xAB), got[0])

	// The access stayed inside the bound range: file offset origin*256.
	require.Len(t, h.reads, 1)
	assert.Equal(t, [2]int64{int64(4 * Length), int64(2 * Length)}, h.reads[0])
}

func TestReadPastEOFZeroFills(t *testing.T) {
	h := &memHandle{data: make([]byte, Length)}

	sio := New(0, 4, h)

	got, err := sio.Read(0, 4)
	require.NoError(t, err)
	require.Len(t, got, int(4*Length))
	assert.Equal(t, make([]byte, 3*Length), got[Length:])
}

func TestWriteTargetsStartSectorPlusByteOffset(t *testing.T) {
	h := &memHandle{}

	sio := New(10, 8, h)

	require.NoError(t, sio.Write(2, 13, []byte{1, 2, 3}))

	require.Len(t, h.writes, 1)
	assert.Equal(t, [2]int64{int64((10+2)*Length) + 13, 3}, h.writes[0])
	assert.Equal(t, []byte{1, 2, 3}, h.data[(10+2)*Length+13:(10+2)*Length+16])
}

func TestWriteReadRoundTrip(t *testing.T) {
	h := &memHandle{}

	sio := New(0, 16, h)

	payload := []byte("hello sectors")
	require.NoError(t, sio.Write(0, 300, payload))

	got, err := sio.Read(1, 2)
	require.NoError(t, err)
	assert.Equal(t, payload, got[300-int(Length):300-int(Length)+len(payload)])
}

func TestNilHandleFailsWithIOFailure(t *testing.T) {
	sio := New(0, 4, nil)

	_, err := sio.Read(0, 1)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeIO, errors.GetErrorCode(err))

	err = sio.Write(0, 0, []byte{1})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeIO, errors.GetErrorCode(err))
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, uint64(8), New(4, 8, &memHandle{}).Capacity())
}
