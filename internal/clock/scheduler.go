// Package clock schedules the engine's two logical threads (§5):
// control/UI frames and audio frames, each running at its own rate off
// one shared cycle counter.
package clock

import "fmt"

// FrameClock coordinates the control and audio frame steppers against a
// shared cycle counter, adapted from a dot-by-dot hardware scheduler
// into a fixed-rate control/audio frame pump: each logical thread runs
// whenever the shared cycle has reached its own next-due cycle, and
// reschedules itself from its own rate rather than the other's.
type FrameClock struct {
	Cycle uint64

	ControlRate uint32 // control frames per second
	AudioRate   uint32 // audio frames per second (sample rate)

	controlNextCycle uint64
	audioNextCycle   uint64

	// ControlStep advances the control engine by one control frame;
	// AudioStep renders one audio frame from the latest control output.
	ControlStep func(cycles uint64) error
	AudioStep   func(cycles uint64) error
}

// NewFrameClock returns a clock ticking controlRate control frames and
// audioRate audio frames per second of wall-clock cycles.
func NewFrameClock(controlRate, audioRate uint32) *FrameClock {
	return &FrameClock{ControlRate: controlRate, AudioRate: audioRate}
}

// Step advances the shared cycle by one, running whichever stepper(s)
// are due this cycle.
func (c *FrameClock) Step() error {
	if c.ControlStep != nil && c.Cycle >= c.controlNextCycle {
		if err := c.ControlStep(1); err != nil {
			return fmt.Errorf("control step: %w", err)
		}
		cyclesPerControlFrame := uint64(c.AudioRate / c.ControlRate)
		if cyclesPerControlFrame == 0 {
			cyclesPerControlFrame = 1
		}
		c.controlNextCycle = c.Cycle + cyclesPerControlFrame
	}

	if c.AudioStep != nil && c.Cycle >= c.audioNextCycle {
		if err := c.AudioStep(1); err != nil {
			return fmt.Errorf("audio step: %w", err)
		}
		c.audioNextCycle = c.Cycle + 1
	}

	c.Cycle++
	return nil
}

// StepCycles advances the clock by cycles steps.
func (c *FrameClock) StepCycles(cycles uint64) error {
	for i := uint64(0); i < cycles; i++ {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Reset zeroes the cycle counter and both schedules.
func (c *FrameClock) Reset() {
	c.Cycle = 0
	c.controlNextCycle = 0
	c.audioNextCycle = 0
}
