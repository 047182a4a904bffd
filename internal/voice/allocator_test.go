package voice

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type cellVoice struct {
	gate bool
	x, y int
}

func (c *cellVoice) GateRef() Gate { return &c.gate }
func (c *cellVoice) Equal(other Voice) bool {
	o, ok := other.(*cellVoice)
	return ok && o.x == c.x && o.y == c.y
}

func TestAllocateRaisesGate(t *testing.T) {
	a := NewAllocator()
	a.SetPolyphony(2)

	v1 := &cellVoice{x: 0, y: 0}
	a.Allocate(v1)
	require.True(t, v1.gate)
	require.Equal(t, 1, a.NumActive())
}

func TestAllocateAtCapacityStealsOldestSlot(t *testing.T) {
	a := NewAllocator()
	a.SetPolyphony(1)

	v1 := &cellVoice{x: 0, y: 0}
	v2 := &cellVoice{x: 1, y: 1}

	a.Allocate(v1)
	require.True(t, v1.gate)

	a.Allocate(v2)
	require.False(t, v1.gate)
	require.True(t, v2.gate)
	require.Equal(t, 1, a.NumActive())
}

func TestDeallocateByEquality(t *testing.T) {
	a := NewAllocator()
	a.SetPolyphony(2)

	v1 := &cellVoice{x: 0, y: 0}
	a.Allocate(v1)

	a.Deallocate(&cellVoice{x: 0, y: 0})
	require.False(t, v1.gate)
	require.Equal(t, 0, a.NumActive())
}

func TestClearLowersAllGates(t *testing.T) {
	a := NewAllocator()
	a.SetPolyphony(3)
	v1 := &cellVoice{x: 0, y: 0}
	v2 := &cellVoice{x: 1, y: 0}
	a.Allocate(v1)
	a.Allocate(v2)

	a.Clear()
	require.False(t, v1.gate)
	require.False(t, v2.gate)
	require.Equal(t, 0, a.NumActive())
}

func TestActiveOnlyVisitsGatedVoices(t *testing.T) {
	a := NewAllocator()
	a.SetPolyphony(2)
	v1 := &cellVoice{x: 0, y: 0}
	a.Allocate(v1)

	require.Len(t, a.Active(), 1)
}
