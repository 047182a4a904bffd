package clock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameClockRunsEachStepperAtItsOwnRate(t *testing.T) {
	c := NewFrameClock(1, 4) // 1 control frame per 4 audio frames

	controlCount, audioCount := 0, 0
	c.ControlStep = func(uint64) error { controlCount++; return nil }
	c.AudioStep = func(uint64) error { audioCount++; return nil }

	require.NoError(t, c.StepCycles(4))
	require.Equal(t, 4, audioCount)
	require.Equal(t, 1, controlCount) // due again only at cycle 4
}

func TestResetClearsSchedules(t *testing.T) {
	c := NewFrameClock(1, 1)
	c.ControlStep = func(uint64) error { return nil }
	require.NoError(t, c.StepCycles(3))
	c.Reset()
	require.Equal(t, uint64(0), c.Cycle)
}
