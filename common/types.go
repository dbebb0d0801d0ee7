// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"
	"image"
)

// Vec2 is a plain two-component float vector, used for pixel resolutions and
// origin offsets passed to shader uniforms.
type Vec2 struct {
	X, Y float32
}

// FramePixels holds raw RGBA pixel data read back from an offscreen render,
// pending quantization and encoding. Rows are in the GPU's native order; no
// vertical flip is applied anywhere in the pipeline.
type FramePixels struct {
	// Pixels is the byte slice representing the actual pixel data for the frame. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the frame in pixels. This is required to correctly interpret the pixel data.
	Width int
	// Height is the height of the frame in pixels. This is required to correctly interpret the pixel data.
	Height int
}

// Image wraps the pixel data in an *image.RGBA without copying.
// The returned image aliases the Pixels slice.
//
// Returns:
//   - *image.RGBA: the pixel data as a standard-library image
//   - error: error if the pixel slice does not match the declared dimensions
func (f *FramePixels) Image() (*image.RGBA, error) {
	if want := f.Width * f.Height * 4; len(f.Pixels) != want {
		return nil, fmt.Errorf("frame pixel data is %d bytes, expected %d for %dx%d RGBA", len(f.Pixels), want, f.Width, f.Height)
	}
	return &image.RGBA{
		Pix:    f.Pixels,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}, nil
}
