package midicodec

import "nonagonengine/internal/color"

// EncoderCCForPosition maps an encoder grid position to a CC number 0..15
// via y·4 + x (§4.12).
func EncoderCCForPosition(x, y int) int {
	return y*4 + x
}

// PositionForEncoderCC is the inverse of EncoderCCForPosition.
func PositionForEncoderCC(cc int) (x, y int) {
	return cc % 4, cc / 4
}

// EncoderChannel names which MIDI channel an encoder message arrived
// on: channel 0 carries signed increments, channel 1 carries
// press/release.
type EncoderChannel int

const (
	ChannelIncDec EncoderChannel = iota
	ChannelPress
)

// DecodeEncoderIncDec decodes channel 0's signed increment encoding,
// value − 64 per tick.
func DecodeEncoderIncDec(value uint8) int64 {
	return int64(value) - 64
}

// outPhase names the round-robin output phase for an encoder position:
// only changed phases are emitted (§4.12).
type outPhase int

const (
	phaseColor outPhase = iota
	phaseBrightness
	phaseValue
	numPhases
)

// EncoderOutputState tracks the three round-robin output messages for
// one encoder position and which were last sent, so only changed
// phases re-emit.
type EncoderOutputState struct {
	lastHue        uint8
	lastBrightness uint8
	lastValue      uint8
	sent           [numPhases]bool
	nextPhase      outPhase
}

// EncoderCCMessage is one outgoing CC message for an encoder position.
type EncoderCCMessage struct {
	Channel int
	CC      int
	Value   uint8
}

// NextOutput advances the round-robin phase and returns the message for
// that phase if its underlying value changed since last sent, per
// §4.12: "color (ch1, twister hue), brightness (ch2, 17+frac·30), value
// (ch0, frac·127) ... only changed phases are emitted."
func (s *EncoderOutputState) NextOutput(x, y int, c color.Color, frac float64) (EncoderCCMessage, bool) {
	cc := EncoderCCForPosition(x, y)
	phase := s.nextPhase
	s.nextPhase = (s.nextPhase + 1) % numPhases

	switch phase {
	case phaseColor:
		hue := c.G // twister hue code carried in color.G per gridmodel.EncoderCell.GetColor
		if hue == s.lastHue && s.sent[phaseColor] {
			return EncoderCCMessage{}, false
		}
		s.lastHue = hue
		s.sent[phaseColor] = true
		return EncoderCCMessage{Channel: 1, CC: cc, Value: hue}, true

	case phaseBrightness:
		b := uint8(17 + frac*30)
		if b == s.lastBrightness && s.sent[phaseBrightness] {
			return EncoderCCMessage{}, false
		}
		s.lastBrightness = b
		s.sent[phaseBrightness] = true
		return EncoderCCMessage{Channel: 2, CC: cc, Value: b}, true

	default:
		v := uint8(frac * 127)
		if v == s.lastValue && s.sent[phaseValue] {
			return EncoderCCMessage{}, false
		}
		s.lastValue = v
		s.sent[phaseValue] = true
		return EncoderCCMessage{Channel: 0, CC: cc, Value: v}, true
	}
}
