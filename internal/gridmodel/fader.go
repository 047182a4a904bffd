package gridmodel

import (
	"math"

	"nonagonengine/internal/color"
)

// FaderStructure selects Fader's value curve.
type FaderStructure int

const (
	FaderLinear FaderStructure = iota
	FaderBipolar
	FaderExponential
)

// FaderMode selects how a press maps to movement.
type FaderMode int

const (
	FaderRelative FaderMode = iota
	// FaderAbsolute faders do not move on presses: only relative mode
	// sets a movement target, so an absolute fader's value changes only
	// through SetValue.
	FaderAbsolute
)

// Fader is a column of Height virtual-grid cells controlling a single
// normalized float, ported from SmartGrid.hpp's Fader/FaderCell.
type Fader struct {
	Height      int
	ColorScheme color.Scheme
	MinSpeed    float64
	MaxSpeed    float64
	MinValue    float64
	MaxValue    float64
	Structure   FaderStructure
	Mode        FaderMode

	logMaxOverMin float64
	state         float64
	lastAbsState  float64
	target        float64
	speed         float64
	moving        bool

	cells []*faderCell

	posFromBottom int
	posFromCenter int
	valueWithin   float64
}

type faderCell struct {
	BaseCell
	owner      *Fader
	fromBottom int
	fromCenter int
	velocity   uint8
}

// NewFader builds a fader column over an initial value.
func NewFader(height int, scheme color.Scheme, minValue, maxValue, minSpeed, maxSpeed float64, pressureSensitive bool, structure FaderStructure, mode FaderMode, initial float64) *Fader {
	f := &Fader{
		Height:      height,
		ColorScheme: scheme,
		MinSpeed:    minSpeed,
		MaxSpeed:    maxSpeed,
		MinValue:    minValue,
		MaxValue:    maxValue,
		Structure:   structure,
		Mode:        mode,
		state:       initial,
	}
	for i := 0; i < height; i++ {
		fc := &faderCell{owner: f, fromBottom: i}
		fc.PressureSensitive = pressureSensitive
		fc.fromCenter = i - height/2
		if height%2 == 0 && i >= height/2 {
			fc.fromCenter++
		}
		f.cells = append(f.cells, fc)
	}
	if structure == FaderExponential {
		f.logMaxOverMin = math.Log2(maxValue / minValue)
	}
	f.lastAbsState = initial
	f.computePos(f.normalize(initial))
	return f
}

func (f *Fader) isBipolar() bool     { return f.Structure == FaderBipolar }
func (f *Fader) isExponential() bool { return f.Structure == FaderExponential }

func (f *Fader) denormalize(v float64) float64 {
	switch {
	case f.isBipolar():
		return f.MaxValue * v
	case f.isExponential():
		return f.MinValue * math.Exp2(v*f.logMaxOverMin)
	default:
		return f.MinValue + (f.MaxValue-f.MinValue)*v
	}
}

func (f *Fader) normalize(v float64) float64 {
	switch {
	case f.isBipolar():
		return v / f.MaxValue
	case f.isExponential():
		return math.Log2(v/f.MinValue) / f.logMaxOverMin
	default:
		return (v - f.MinValue) / (f.MaxValue - f.MinValue)
	}
}

// Value returns the fader's current denormalized value.
func (f *Fader) Value() float64 { return f.state }

// SetValue overwrites the fader's value directly (e.g. from a scene
// load); Process will pick up the change next tick.
func (f *Fader) SetValue(v float64) { f.state = v }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (f *Fader) computePos(normState float64) {
	if f.isBipolar() {
		h := f.Height / 2
		perBlock := math.Abs(float64(h) * normState)
		posFromCenter := clampInt(int(perBlock), 0, h-1)
		if normState < 0 {
			f.posFromBottom = h - posFromCenter - 1
			f.valueWithin = clampF(perBlock-float64(f.posFromBottom), 0, 1)
		} else {
			if f.Height%2 == 1 {
				f.posFromBottom = h + posFromCenter + 1
			} else {
				f.posFromBottom = h + posFromCenter
			}
			f.valueWithin = clampF(perBlock-float64(posFromCenter), 0, 1)
		}
	} else {
		perBlock := float64(f.Height) * normState
		f.posFromBottom = clampInt(int(perBlock), 0, f.Height-1)
		f.valueWithin = clampF(perBlock-float64(f.posFromBottom), 0, 1)
	}

	f.posFromCenter = f.posFromBottom - f.Height/2
	if f.Height%2 == 0 && f.posFromBottom >= f.Height/2 {
		f.posFromCenter++
	}
}

func (c *faderCell) speedAtDistance() float64 {
	vel := c.velocity
	if c.owner.Mode == FaderRelative {
		towardsCenter := c.owner.Height/2 - absInt(c.fromCenter)
		vel = vel >> uint(2*towardsCenter)
	}
	frac := float64(vel) / 127.0
	return c.owner.MinSpeed + (c.owner.MaxSpeed-c.owner.MinSpeed)*frac
}

func (c *faderCell) nonReducedSpeed() float64 {
	frac := float64(c.velocity) / 127.0
	return c.owner.MinSpeed + (c.owner.MaxSpeed-c.owner.MinSpeed)*frac
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (c *faderCell) GetColor() color.Color {
	f := c.owner
	if f.isBipolar() && (c.fromCenter == 0 ||
		(absInt(c.fromCenter) < absInt(f.posFromCenter) && (c.fromCenter > 0) == (f.posFromCenter > 0))) {
		return f.ColorScheme.Back()
	}
	if !f.isBipolar() && c.fromBottom < f.posFromBottom {
		return f.ColorScheme.Back()
	}
	if c.fromBottom == f.posFromBottom {
		ix := int(f.valueWithin * float64(len(f.ColorScheme.Colors)))
		ix = clampInt(ix, 0, len(f.ColorScheme.Colors)-1)
		return f.ColorScheme.At(ix)
	}
	return color.Off
}

func (c *faderCell) OnPress(velocity uint8) {
	c.velocity = velocity
	c.owner.setSpeedAndTarget()
}

func (c *faderCell) OnRelease() {
	c.velocity = 0
	c.owner.setSpeedAndTarget()
}

func (c *faderCell) OnPressureChange(velocity uint8) { c.OnPress(velocity) }

func (f *Fader) setSpeedAndTarget() {
	speed := 0.0
	isEven := f.Height%2 == 0
	centerIdx := f.Height / 2
	isCenterTouched := f.cells[centerIdx].IsPressed()
	isNonCenterTouched := false
	if isCenterTouched && isEven {
		isCenterTouched = f.cells[centerIdx-1].IsPressed()
	}

	for _, c := range f.cells {
		if !c.IsPressed() {
			continue
		}
		if (!isEven && c.fromCenter != 0) || absInt(c.fromCenter) != 1 {
			isNonCenterTouched = true
		}
		if f.Mode == FaderRelative {
			component := c.speedAtDistance()
			if c.fromCenter > 0 {
				speed += component
			} else if c.fromCenter < 0 {
				speed -= component
			}
		}
	}

	if f.Mode != FaderRelative {
		return
	}

	switch {
	case f.isBipolar() && isCenterTouched && !isNonCenterTouched:
		f.target = 0
		f.speed = f.cells[centerIdx].nonReducedSpeed()
		f.moving = true
	case !f.isBipolar() && isCenterTouched && !isEven:
		f.moving = false
	case speed != 0:
		f.speed = math.Abs(speed)
		f.moving = true
		switch {
		case speed > 0:
			f.target = 1
		case f.isBipolar():
			f.target = -1
		default:
			f.target = 0
		}
	default:
		f.moving = false
	}
}

// Process advances the fader's internal value toward its target at its
// current speed, or recomputes cell positions when the backing value
// was changed externally (e.g. scene recall).
func (f *Fader) Process(dt float64) {
	if f.moving {
		dx := dt * f.speed
		normState := f.normalize(f.state)
		switch {
		case math.Abs(normState-f.target) < dx:
			normState = f.target
			f.state = f.denormalize(f.target)
			f.moving = false
		case normState < f.target:
			normState += dx
			f.state = f.denormalize(normState)
		default:
			normState -= dx
			f.state = f.denormalize(normState)
		}
		f.lastAbsState = f.state
		f.computePos(normState)
		return
	}
	if f.state != f.lastAbsState {
		f.computePos(f.normalize(f.state))
		f.lastAbsState = f.state
	}
}

// CellAt returns the GetColor/press target for row i of the column, to
// embed into a Grid at a given x offset.
func (f *Fader) CellAt(i int) Cell { return f.cells[i] }
