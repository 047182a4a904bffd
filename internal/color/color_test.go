package color

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackedEqualityIsBitwise(t *testing.T) {
	a := Color{R: 1, G: 2, B: 3, Unused: 0}
	b := Color{R: 1, G: 2, B: 3, Unused: 0}
	c := Color{R: 1, G: 2, B: 3, Unused: 1}
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestZEncodeDecodeRoundTrip(t *testing.T) {
	for _, c := range []Color{RGB(0, 0, 0), RGB(255, 255, 255), RGB(1, 128, 64), Red, Orange} {
		z := c.ZEncode()
		got := ZDecode(z)
		require.Equal(t, c.R, got.R)
		require.Equal(t, c.G, got.G)
		require.Equal(t, c.B, got.B)
	}
}

func TestDimIsOneEighthBrightness(t *testing.T) {
	c := RGB(160, 80, 240)
	dim := c.Dim()
	require.Equal(t, uint8(20), dim.R)
	require.Equal(t, uint8(10), dim.G)
	require.Equal(t, uint8(30), dim.B)
}

func TestInterpolateEndpointClamping(t *testing.T) {
	a, b := RGB(0, 0, 0), RGB(100, 100, 100)
	require.Equal(t, a, a.Interpolate(b, -1))
	require.Equal(t, b, a.Interpolate(b, 2))
	mid := a.Interpolate(b, 0.5)
	require.Equal(t, uint8(50), mid.R)
}

func TestTwisterHueWorkedExample(t *testing.T) {
	// §8 scenario 5: Orange (255,108,29) -> hue code ~77.
	code := Orange.ToTwister()
	require.InDelta(t, 77, int(code), 2)
}

func TestTwisterHueRoundTripIsApproximatelyStable(t *testing.T) {
	code := RGBToTwisterHue(0, 60, 249) // Blue
	r, g, b := TwisterHueToRGB(code)
	back := RGBToTwisterHue(r, g, b)
	require.Equal(t, code, back)
}

func TestHuesRampEndsBelowThreshold(t *testing.T) {
	scheme := Hues(Red)
	require.NotEmpty(t, scheme.Colors)
	last := scheme.Back()
	require.True(t, last.R > 48 || last.G > 48 || last.B > 48, "brightest rung should be the saturated color")
	first := scheme.At(0)
	require.True(t, first.R <= 48 && first.G <= 48 && first.B <= 48)
}

func TestRememberTableSuppressesUnchangedColor(t *testing.T) {
	table := NewRememberTable()
	require.False(t, table.Remember(0, 0, White), "first write is never suppressed")
	require.True(t, table.Remember(0, 0, White), "repeat of same color is suppressed")
	require.False(t, table.Remember(0, 0, Red), "changed color is never suppressed")
}
