// Package color implements the engine's packed RGB color type: the 32-bit
// packed form with bitwise equality (§3), z-order encoding/decoding,
// brightness/saturation/interpolation helpers, and the MIDI Fighter
// Twister 7-bit hue code round trip — all ported from the original's
// private/src/Color.hpp and private/src/HSV.hpp.
package color

import "math"

// Color is three 8-bit channels plus one reserved byte. Equality is
// bitwise on the packed 32-bit form (§3 invariant).
type Color struct {
	R, G, B, Unused uint8
}

// RGB constructs a Color with Unused set to zero.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Pack32 returns the 32-bit packed form: R<<24 | G<<16 | B<<8 | Unused.
func (c Color) Pack32() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.Unused)
}

// Equal reports bitwise equality on the packed form.
func (c Color) Equal(o Color) bool {
	return c.Pack32() == o.Pack32()
}

// ZEncode interleaves the R/G/B bit planes into a 24-bit z-order index:
// bit 3*i is red bit i, 3*i+1 is green bit i, 3*i+2 is blue bit i.
func (c Color) ZEncode() uint32 {
	var result uint32
	for i := uint(0); i < 8; i++ {
		result |= uint32((c.R>>i)&1) << (3 * i)
		result |= uint32((c.G>>i)&1) << (3*i + 1)
		result |= uint32((c.B>>i)&1) << (3*i + 2)
	}
	return result
}

// ZDecode is the inverse of ZEncode.
func ZDecode(z uint32) Color {
	var c Color
	for i := uint(0); i < 8; i++ {
		c.R |= uint8((z>>(3*i))&1) << i
		c.G |= uint8((z>>(3*i+1))&1) << i
		c.B |= uint8((z>>(3*i+2))&1) << i
	}
	return c
}

// ZEncodeFloat maps the color to a float in [0,1) via its z-order index.
func (c Color) ZEncodeFloat() float64 {
	return ZToFloat(c.ZEncode())
}

// ZDecodeFloat is the inverse of ZEncodeFloat.
func ZDecodeFloat(x float64) Color {
	return ZDecode(FloatToZ(x))
}

// FloatToZ clamps x*(1<<24) into a valid 24-bit z-order index.
func FloatToZ(x float64) uint32 {
	const max = (1 << 24) - 1
	z := int64(x * (1 << 24))
	if z > max {
		return max
	}
	if z < 0 {
		return 0
	}
	return uint32(z)
}

// ZToFloat is the inverse of FloatToZ.
func ZToFloat(z uint32) float64 {
	return float64(z) / float64(uint32(1)<<24)
}

func clampChannel(x float64) uint8 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}

// AdjustBrightness scales every channel by x, clamped to [0,255].
func (c Color) AdjustBrightness(x float64) Color {
	return Color{
		R: clampChannel(x * float64(c.R)),
		G: clampChannel(x * float64(c.G)),
		B: clampChannel(x * float64(c.B)),
	}
}

// Dim is AdjustBrightness(1/8).
func (c Color) Dim() Color {
	return c.AdjustBrightness(1.0 / 8.0)
}

// Saturate multiplies every channel by the largest whole factor that keeps
// the dominant channel at or below 255 (integer 255/max), so the dominant
// channel reaches exactly 255 only when its value divides 255.
func (c Color) Saturate() Color {
	maxPrime := c.R
	if c.G > maxPrime {
		maxPrime = c.G
	}
	if c.B > maxPrime {
		maxPrime = c.B
	}
	if maxPrime == 0 {
		return c
	}
	scale := 255 / maxPrime
	return Color{R: c.R * scale, G: c.G * scale, B: c.B * scale}
}

// Interpolate linearly blends toward other at position in [0,1], clamping
// outside that range to the corresponding endpoint.
func (c Color) Interpolate(other Color, position float64) Color {
	if position <= 0 {
		return c
	}
	if position >= 1 {
		return other
	}
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*position)
	}
	return Color{R: lerp(c.R, other.R), G: lerp(c.G, other.G), B: lerp(c.B, other.B)}
}

// VeryDifferent permutes the channels by sorted rank so the result reads as
// visually distinct from c — used to derive a contrasting "Similar" shade.
func (c Color) VeryDifferent() Color {
	r, g, b := c.R, c.G, c.B
	switch {
	case r < g && g < b:
		return Color{R: b, G: g, B: r}
	case r < g && r < b:
		return Color{R: g, G: r, B: b}
	case r < g:
		return Color{R: r, G: b, B: g}
	case g < b:
		return Color{R: r, G: b, B: g}
	default:
		return Color{R: g, G: r, B: b}
	}
}

// Similar interpolates 25% of the way toward VeryDifferent.
func (c Color) Similar() Color {
	return c.Interpolate(c.VeryDifferent(), 0.25)
}

// ToTwister returns the MIDI Fighter Twister 7-bit hue code (1..126) for
// this color (§4.12, §8 scenario 5).
func (c Color) ToTwister() uint8 {
	return RGBToTwisterHue(c.R, c.G, c.B)
}

// FromTwister is the inverse of ToTwister.
func FromTwister(hue uint8) Color {
	r, g, b := TwisterHueToRGB(hue)
	return Color{R: r, G: g, B: b}
}

const twisterHueStep = 360.0 / 126.0
const twisterHueZero = 240.0

// RGBToTwisterHue converts 8-bit RGB to HSV hue and maps it to a 7-bit
// code in [1,126] whose value increases as hue decreases starting near
// blue (240°), one LED step (360/126 degrees) per code.
func RGBToTwisterHue(r8, g8, b8 uint8) uint8 {
	r := float64(r8) / 255.0
	g := float64(g8) / 255.0
	b := float64(b8) / 255.0

	cmax := math.Max(r, math.Max(g, b))
	cmin := math.Min(r, math.Min(g, b))
	delta := cmax - cmin

	hueDeg := 0.0
	if delta > 0 {
		switch cmax {
		case r:
			hueDeg = 60.0 * math.Mod((g-b)/delta, 6.0)
		case g:
			hueDeg = 60.0 * (((b - r) / delta) + 2.0)
		default:
			hueDeg = 60.0 * (((r - g) / delta) + 4.0)
		}
		if hueDeg < 0 {
			hueDeg += 360.0
		}
	}

	t := math.Mod(twisterHueZero-hueDeg+360.0, 360.0)
	code := 1 + int(math.Round(t/twisterHueStep))
	if code < 1 {
		code = 1
	}
	if code > 126 {
		code = 126
	}
	return uint8(code)
}

// TwisterHueToRGB is the inverse of RGBToTwisterHue, assuming full
// saturation and value.
func TwisterHueToRGB(hue uint8) (r8, g8, b8 uint8) {
	code := int(hue)
	if code < 1 {
		code = 1
	}
	if code > 126 {
		code = 126
	}

	t := float64(code-1) * twisterHueStep
	hueDeg := math.Mod(twisterHueZero-t+360.0, 360.0)

	h := hueDeg / 60.0
	const c = 1.0
	x := c * (1.0 - math.Abs(math.Mod(h, 2.0)-1.0))

	var r, g, b float64
	switch {
	case h < 1:
		r, g, b = c, x, 0
	case h < 2:
		r, g, b = x, c, 0
	case h < 3:
		r, g, b = 0, c, x
	case h < 4:
		r, g, b = 0, x, c
	case h < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8(math.Round(r * 255)), uint8(math.Round(g * 255)), uint8(math.Round(b * 255))
}

// Named palette constants ported from private/src/Color.hpp.
var (
	Invalid = Color{Unused: 1}
	Off     = Color{}
	Grey    = RGB(143, 143, 143)
	White   = RGB(253, 253, 253)
	Red     = RGB(255, 30, 18)
	Orange  = RGB(255, 108, 29)
	Yellow  = RGB(255, 248, 63)
	Green   = RGB(9, 255, 29)
	SeaGreen = RGB(9, 246, 59)
	Ocean   = RGB(0, 247, 167)
	Blue    = RGB(0, 60, 249)
	Fuscia  = RGB(255, 71, 250)
	Indigo  = RGB(56, 61, 249)
	Purple  = RGB(134, 63, 249)
	Pink    = RGB(255, 50, 120)
)

// Scheme is an ordered list of colors, e.g. a brightness ramp.
type Scheme struct {
	Colors []Color
}

// At returns the color at index ix.
func (s Scheme) At(ix int) Color { return s.Colors[ix] }

// Back returns the last color in the scheme.
func (s Scheme) Back() Color { return s.Colors[len(s.Colors)-1] }

// Hues builds a brightness ramp for c: starting saturated, halving
// brightness each step until every channel drops to 48 or below (that
// last rung included), then reversed so index 0 is dimmest.
func Hues(c Color) Scheme {
	c = c.Saturate()
	var out []Color
	for c.R > 48 || c.G > 48 || c.B > 48 {
		out = append(out, c)
		c.R /= 2
		c.G /= 2
		c.B /= 2
	}
	out = append(out, c)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return Scheme{Colors: out}
}

var (
	RedHues    = Hues(Red)
	OrangeHues = Hues(Orange)
	YellowHues = Hues(Yellow)
	GreenHues  = Hues(Green)
	BlueHues   = Hues(Blue)
)
