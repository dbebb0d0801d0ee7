package gifenc

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPalette(n int) color.Palette {
	p := make(color.Palette, 0, n)
	for i := 0; i < n; i++ {
		p = append(p, color.RGBA{R: uint8(i * 7), G: uint8(255 - i), B: uint8(i * 3), A: 255})
	}
	return p
}

func testFrame(w, h int, pal color.Palette, fill uint8) *image.Paletted {
	pm := image.NewPaletted(image.Rect(0, 0, w, h), pal)
	for i := range pm.Pix {
		pm.Pix[i] = fill
	}
	return pm
}

func TestEncoderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, 8, 8)
	require.NoError(t, err)
	require.NoError(t, enc.SetLoopCount(0))

	pal := testPalette(4)
	for i := 0; i < 3; i++ {
		require.NoError(t, enc.WriteFrame(testFrame(8, 8, pal, uint8(i)), 3))
	}
	require.NoError(t, enc.Close())
	assert.Equal(t, 3, enc.Frames())

	decoded, err := gif.DecodeAll(&buf)
	require.NoError(t, err, "stream must decode with the standard library")

	assert.Equal(t, 0, decoded.LoopCount, "loop count 0 means loop forever")
	require.Len(t, decoded.Image, 3)
	require.Len(t, decoded.Delay, 3)
	for i, frame := range decoded.Image {
		assert.Equal(t, 3, decoded.Delay[i])
		assert.Equal(t, 8, frame.Bounds().Dx())
		assert.Equal(t, 8, frame.Bounds().Dy())
		// Every pixel of frame i was index i; compare the resolved colors.
		want := pal[i]
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				wr, wg, wb, _ := want.RGBA()
				gr, gg, gb, _ := frame.At(x, y).RGBA()
				require.Equal(t, [3]uint32{wr, wg, wb}, [3]uint32{gr, gg, gb},
					"frame %d pixel (%d,%d)", i, x, y)
			}
		}
	}
}

func TestEncoderFullPalette(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, 16, 16)
	require.NoError(t, err)

	pal := testPalette(256)
	pm := image.NewPaletted(image.Rect(0, 0, 16, 16), pal)
	for i := range pm.Pix {
		pm.Pix[i] = uint8(i)
	}
	require.NoError(t, enc.WriteFrame(pm, 10))
	require.NoError(t, enc.Close())

	decoded, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	require.Len(t, decoded.Image, 1)
	assert.Equal(t, pm.Pix, decoded.Image[0].Pix)
}

func TestEncoderTinyPalette(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, 4, 4)
	require.NoError(t, err)

	pm := testFrame(4, 4, testPalette(1), 0)
	require.NoError(t, enc.WriteFrame(pm, 0))
	require.NoError(t, enc.Close())

	_, err = gif.DecodeAll(&buf)
	assert.NoError(t, err)
}

func TestEncoderRejectsMismatchedFrame(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, 8, 8)
	require.NoError(t, err)

	err = enc.WriteFrame(testFrame(4, 4, testPalette(2), 0), 3)
	assert.Error(t, err)
	assert.Zero(t, enc.Frames())
}

func TestEncoderLoopCountAfterFrame(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, 8, 8)
	require.NoError(t, err)
	require.NoError(t, enc.WriteFrame(testFrame(8, 8, testPalette(2), 0), 3))

	assert.Error(t, enc.SetLoopCount(0), "loop block must precede the first frame")
}

func TestEncoderWriteAfterClose(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, 8, 8)
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	assert.Error(t, enc.WriteFrame(testFrame(8, 8, testPalette(2), 0), 3))
	assert.NoError(t, enc.Close(), "closing twice is a no-op")
}

func TestEncoderRejectsBadCanvas(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewEncoder(&buf, 0, 8)
	assert.Error(t, err)
	_, err = NewEncoder(&buf, 8, 70000)
	assert.Error(t, err)
}
