package matrix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArpInputGetOutputLinearRange(t *testing.T) {
	in := NewArpInput()
	in.Offset = 0
	in.Interval = 0.1
	in.Min = 0
	in.Max = 10

	v := in.GetOutput(3, 0)
	require.InDelta(t, 3.0, v, 1e-9)
}

func TestArpInputInvert(t *testing.T) {
	in := NewArpInput()
	in.Interval = 0.25
	in.Min = 0
	in.Max = 1
	in.Invert = true

	v := in.GetOutput(1, 0)
	require.InDelta(t, 0.75, v, 1e-9)
}

func TestArpInputRetroReversesPhysicalIndex(t *testing.T) {
	in := NewArpInput()
	in.Retro = true
	in.Interval = 0.01
	in.Min = 0
	in.Max = 100
	in.RhythmLen = 4
	for i := range in.Rhythm {
		in.Rhythm[i] = false
	}
	for i := 0; i < 4; i++ {
		in.Rhythm[i] = true
	}

	v := in.GetOutput(0, 0) // physical index = NumNotes - 0 = 4
	require.InDelta(t, 4.0, v, 1e-9)
}

func TestIndexArpTriggersOnEnabledRhythmStep(t *testing.T) {
	a := NewIndexArp()
	in := NewArpInput()
	in.Clock = true
	in.TotalIndex = 0
	in.RhythmLen = 4
	for i := range in.Rhythm {
		in.Rhythm[i] = i < 4
	}

	a.Process(&in)
	require.True(t, a.Triggered())
}

func TestIndexArpSkipsDisabledRhythmStep(t *testing.T) {
	a := NewIndexArp()
	in := NewArpInput()
	in.Clock = true
	in.TotalIndex = 1
	in.RhythmLen = 4
	in.Rhythm[0] = true
	in.Rhythm[1] = false
	in.Rhythm[2] = true
	in.Rhythm[3] = true

	a.Process(&in)
	require.False(t, a.Triggered())
}

func TestIndexArpNoClockResets(t *testing.T) {
	a := NewIndexArp()
	in := NewArpInput()
	in.Clock = true
	in.TotalIndex = 3
	a.Process(&in)

	reset := NewArpInput()
	reset.NoClock = true
	a.Process(&reset)
	require.Equal(t, 0, a.index)
	require.Equal(t, 0, a.motiveIndex)
}

func TestNonagonProcessAdvancesAllVoices(t *testing.T) {
	n := NewNonagon()
	n.Trios[0].ClockSelect = 0
	n.Trios[0].TotalIndex = 0
	n.Trios[0].ZoneHeight = [VoicesPerTrio]float64{12, 12, 12}
	n.Trios[0].Interval = [VoicesPerTrio]float64{1, 1, 1}
	n.Clocks[0] = true

	n.Process(false)
	require.True(t, n.Arp(0).Triggered())
	require.True(t, n.Arp(1).Triggered())
	require.True(t, n.Arp(2).Triggered())
}
