package ringbuf

import "time"

// Chunk is a fixed-capacity byte buffer carrying its own fill size,
// ported from the original's ByteBuffer<BufferSize>.
type Chunk struct {
	buf  []byte
	size int
}

// NewChunk allocates a chunk with the given capacity.
func NewChunk(capacity int) Chunk {
	return Chunk{buf: make([]byte, capacity)}
}

// Bytes returns the filled portion of the chunk.
func (c *Chunk) Bytes() []byte { return c.buf[:c.size] }

// Clear resets the chunk to empty without reallocating.
func (c *Chunk) Clear() { c.size = 0 }

// IsFull reports whether the chunk has no remaining space.
func (c *Chunk) IsFull() bool { return c.size >= len(c.buf) }

// IsEmpty reports whether the chunk holds no bytes.
func (c *Chunk) IsEmpty() bool { return c.size == 0 }

// AvailableSpace returns how many more bytes the chunk can hold.
func (c *Chunk) AvailableSpace() int { return len(c.buf) - c.size }

// ByteRing groups fixed-size chunks behind a Ring[Chunk], staging writes
// into a "next to send" chunk that auto-flushes when full — the variant
// §4.3 describes as backing the background file writer (§4.14).
type ByteRing struct {
	ring        *Ring[Chunk]
	chunkSize   int
	nextToSend  Chunk
	flushPollMS time.Duration
}

// NewByteRing creates a byte ring with queueSize chunks of chunkSize bytes
// each.
func NewByteRing(chunkSize, queueSize int) *ByteRing {
	return &ByteRing{
		ring:        New[Chunk](queueSize),
		chunkSize:   chunkSize,
		nextToSend:  NewChunk(chunkSize),
		flushPollMS: time.Millisecond,
	}
}

// Write copies data into the staging chunk, flushing (pushing onto the
// ring) whenever the staging chunk fills exactly. Blocks only by sleeping
// 1ms between retries when the ring itself is momentarily full — this is
// the one blocking point §5 attributes to the file writer's producer side.
func (b *ByteRing) Write(data []byte) int {
	written := 0
	for written < len(data) {
		available := b.nextToSend.AvailableSpace()
		toWrite := len(data) - written
		if toWrite > available {
			toWrite = available
		}
		copy(b.nextToSend.buf[b.nextToSend.size:], data[written:written+toWrite])
		b.nextToSend.size += toWrite
		written += toWrite

		if toWrite == available {
			b.Flush()
		}
	}
	return written
}

// Flush pushes any pending partial chunk onto the ring, retrying with a
// short sleep while the ring is full.
func (b *ByteRing) Flush() bool {
	if b.nextToSend.IsEmpty() {
		return true
	}
	for !b.ring.Push(b.nextToSend) {
		time.Sleep(b.flushPollMS)
	}
	// The pushed chunk keeps its buffer; stage into a fresh one so later
	// writes cannot overwrite bytes still queued on the ring.
	b.nextToSend = NewChunk(b.chunkSize)
	return true
}

// HasPendingData reports whether the staging chunk holds unflushed bytes.
func (b *ByteRing) HasPendingData() bool { return !b.nextToSend.IsEmpty() }

// Pop drains the next flushed chunk for the consumer side.
func (b *ByteRing) Pop() (Chunk, bool) { return b.ring.Pop() }
