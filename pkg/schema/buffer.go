package schema

// Buffer is a consume-from-front byte queue used by the decoders. Each
// Consume removes bytes from the head, so a decoder walks a serialized
// region in the same order the encoder produced it.
type Buffer struct {
	raw []byte
}

// NewBuffer wraps the given bytes. The buffer takes ownership of the slice.
func NewBuffer(raw []byte) *Buffer {
	return &Buffer{raw: raw}
}

// Consume removes and returns the first n bytes. When fewer than n bytes
// remain, whatever is left is returned; callers that need exact counts
// check the returned length and report a malformed region.
func (b *Buffer) Consume(n uint64) []byte {
	if n > uint64(len(b.raw)) {
		n = uint64(len(b.raw))
	}
	head := b.raw[:n]
	b.raw = b.raw[n:]
	return head
}

// Empty reports whether all bytes have been consumed.
func (b *Buffer) Empty() bool {
	return len(b.raw) == 0
}

// Len returns the number of unconsumed bytes.
func (b *Buffer) Len() int {
	return len(b.raw)
}
