package gridmodel

import "nonagonengine/internal/color"

// Encoder acceleration constants, ported from private/src/Encoder.hpp.
const (
	encoderMinSpeed   = 0.001
	encoderMaxSpeed   = 1.0 / 128.0
	encoderPressSpeed = 0.005

	resetTimeMicros = 200000
	fastTimeMicros  = 5000
	slowTimeMicros  = 50000
)

// EncoderCell is a turn/press modulation source whose normalized value
// lives in [0,1], advanced by HandleIncDec's acceleration curve (§4.6)
// or by OnPress/OnPressureChange's fixed-rate nudge.
type EncoderCell struct {
	BaseCell
	lastVelocity  uint8
	lastTimestamp uint64
	lastDeltaSign int
	lastSpeed     float64

	// Value owns the encoder's normalized [0,1] state and color hue;
	// the caller supplies the implementation.
	Value EncoderValue
}

// EncoderValue is the externally supplied value/color sink an
// EncoderCell mutates.
type EncoderValue interface {
	Normalized() float64
	Increment(delta float64)
	TwisterHue() uint8
	AnimationValue() uint8
}

// NewEncoderCell wraps a value sink; encoders are pressure sensitive by
// default.
func NewEncoderCell(value EncoderValue) *EncoderCell {
	e := &EncoderCell{lastSpeed: encoderMinSpeed, Value: value}
	e.PressureSensitive = true
	return e
}

func (e *EncoderCell) GetColor() color.Color {
	return color.Color{
		R: uint8(e.Value.Normalized() * 255),
		G: e.Value.TwisterHue(),
		B: e.Value.AnimationValue(),
	}
}

func (e *EncoderCell) OnPress(velocity uint8) {
	sv := int8(velocity)
	e.Value.Increment(float64(sv) * encoderPressSpeed)
	e.lastVelocity = velocity
}

func (e *EncoderCell) OnRelease() {
	e.lastVelocity = 0
}

func (e *EncoderCell) OnPressureChange(velocity uint8) {
	sv := int8(velocity) - int8(e.lastVelocity)
	e.Value.Increment(float64(sv) * encoderPressSpeed)
	e.lastVelocity = velocity
}

// HandleIncDec applies an accelerated relative tick at timestampMicros,
// resetting acceleration on a direction flip or a >200ms gap, and
// otherwise scaling last_speed by a factor in [1.0, 2.0] based on how
// quickly ticks are arriving (§4.6).
func (e *EncoderCell) HandleIncDec(timestampMicros uint64, delta int64) {
	if delta == 0 {
		return
	}

	currentSign := 1
	if delta < 0 {
		currentSign = -1
	}

	resetAcceleration := false
	switch {
	case e.lastTimestamp == 0:
		resetAcceleration = true
	case e.lastDeltaSign != 0 && currentSign != e.lastDeltaSign:
		resetAcceleration = true
	case e.lastTimestamp < timestampMicros && resetTimeMicros < timestampMicros-e.lastTimestamp:
		resetAcceleration = true
	}

	speed := encoderMinSpeed
	switch {
	case resetAcceleration:
		speed = encoderMinSpeed
	case e.lastTimestamp < timestampMicros:
		timeDelta := timestampMicros - e.lastTimestamp
		scaleFactor := 1.0
		switch {
		case timeDelta <= fastTimeMicros:
			scaleFactor = 2.0
		case slowTimeMicros <= timeDelta:
			scaleFactor = 1.0
		default:
			t := float64(timeDelta-fastTimeMicros) / float64(slowTimeMicros-fastTimeMicros)
			scaleFactor = 2.0*(1.0-t) + 1.0*t
		}
		speed = e.lastSpeed * scaleFactor
		speed = clampF(speed, encoderMinSpeed, encoderMaxSpeed)
	default:
		speed = e.lastSpeed
	}

	e.lastTimestamp = timestampMicros
	e.lastDeltaSign = currentSign
	e.lastSpeed = speed

	e.Value.Increment(float64(delta) * speed)
}
