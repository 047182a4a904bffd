package ringbuf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRingFIFOOrderNoLossBelowCapacity(t *testing.T) {
	r := New[int](8)
	for i := 0; i < 8; i++ {
		require.True(t, r.Push(i))
	}
	require.True(t, r.IsFull())
	require.False(t, r.Push(99), "push beyond capacity must fail, not overwrite")

	for i := 0; i < 8; i++ {
		v, ok := r.Pop()
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	require.True(t, r.IsEmpty())
	_, ok := r.Pop()
	require.False(t, ok)
}

func TestRingPeekDoesNotConsume(t *testing.T) {
	r := New[string](4)
	r.Push("a")
	r.Push("b")

	v, ok := r.Peek()
	require.True(t, ok)
	require.Equal(t, "a", v)

	v, ok = r.Pop()
	require.True(t, ok)
	require.Equal(t, "a", v)
}

func TestByteRingFlushesOnExactFill(t *testing.T) {
	br := NewByteRing(4, 8)
	br.Write([]byte{1, 2, 3, 4})
	require.False(t, br.HasPendingData())

	chunk, ok := br.Pop()
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3, 4}, chunk.Bytes())
}

func TestByteRingStagesPartialUntilFlush(t *testing.T) {
	br := NewByteRing(4, 8)
	br.Write([]byte{1, 2})
	require.True(t, br.HasPendingData())
	_, ok := br.Pop()
	require.False(t, ok)

	br.Flush()
	require.False(t, br.HasPendingData())
	chunk, ok := br.Pop()
	require.True(t, ok)
	require.Equal(t, []byte{1, 2}, chunk.Bytes())
}

func TestByteRingSplitsAcrossChunks(t *testing.T) {
	br := NewByteRing(4, 8)
	br.Write([]byte{1, 2, 3, 4, 5, 6})
	br.Flush()

	first, ok := br.Pop()
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3, 4}, first.Bytes())

	second, ok := br.Pop()
	require.True(t, ok)
	require.Equal(t, []byte{5, 6}, second.Bytes())
}
