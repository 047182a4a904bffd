package msgbus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPopGatesOnTimestamp(t *testing.T) {
	b := New()
	b.Push(MessageIn{Timestamp: 100, Mode: PadPress})

	_, ok := b.Pop(50)
	require.False(t, ok)

	msg, ok := b.Pop(100)
	require.True(t, ok)
	require.Equal(t, PadPress, msg.Mode)
}

func TestProcessDrainsInTimeOrder(t *testing.T) {
	b := New()
	b.Push(MessageIn{Timestamp: 10, X: 1})
	b.Push(MessageIn{Timestamp: 20, X: 2})
	b.Push(MessageIn{Timestamp: 30, X: 3})

	var seen []int
	b.Process(20, func(m MessageIn) { seen = append(seen, m.X) })
	require.Equal(t, []int{1, 2}, seen)

	seen = nil
	b.Process(30, func(m MessageIn) { seen = append(seen, m.X) })
	require.Equal(t, []int{3}, seen)
}
