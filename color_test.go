package holo

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#00d5ff")
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.R)
	assert.InDelta(t, 213.0/255, c.G, 1e-9)
	assert.Equal(t, 1.0, c.B)
	assert.Equal(t, 1.0, c.A)
	assert.Equal(t, "#00d5ff", c.Hex())

	c, err = ParseHexColor("00ffaa")
	require.NoError(t, err)
	assert.Equal(t, "#00ffaa", c.Hex())

	_, err = ParseHexColor("hologram")
	assert.Error(t, err)
	assert.Equal(t, Black, HexColor("hologram"))
}

func TestColorNRGBAClamps(t *testing.T) {
	assert.Equal(t, color.NRGBA{255, 0, 128, 255}, Color{2, -1, 0.5, 1}.NRGBA())
}

func TestMakeColorUnpremultiplies(t *testing.T) {
	c := MakeColor(color.NRGBA{255, 0, 0, 128})
	assert.InDelta(t, 1, c.R, 1e-3)
	assert.InDelta(t, 128.0/255, c.A, 1e-3)
	assert.Equal(t, Transparent, MakeColor(color.NRGBA{}))
}

func TestColorScalarOpsKeepAlpha(t *testing.T) {
	c := Color{0.2, 0.4, 0.6, 0.5}
	assert.Equal(t, 0.5, c.MulScalar(2).A)
	assert.Equal(t, 0.5, c.AddScalar(0.1).A)
	assert.InDelta(t, 1.0, White.Luminance(), 1e-12)
}
