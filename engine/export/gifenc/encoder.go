// Package gifenc implements an append-only streaming GIF89a encoder.
//
// The standard library's image/gif encoder requires every frame up front
// (EncodeAll); an animated export that emits one frame per engine tick needs
// the opposite: open the stream once, append frames as they are produced, and
// finish with a trailer. This encoder writes the same wire format the standard
// library produces (logical screen descriptor without a global color table, a
// NETSCAPE2.0 loop block, then per frame a graphic control extension and an
// image descriptor with a local color table and LZW-packed indices), so its
// output round-trips through image/gif decoding.
package gifenc

import (
	"compress/lzw"
	"fmt"
	"image"
	"io"
)

const (
	extensionIntroducer = 0x21
	graphicControlLabel = 0xF9
	applicationLabel    = 0xFF
	imageSeparator      = 0x2C
	trailer             = 0x3B
)

// Encoder incrementally writes an animated GIF to an output stream. Frames are
// appended one at a time and are never rolled back; Close finishes the stream
// with a trailer. Encoder is not safe for concurrent use.
type Encoder struct {
	w             io.Writer
	width, height int
	frames        int
	closed        bool
}

// NewEncoder writes the GIF header and logical screen descriptor for a canvas
// of the given size and returns an Encoder ready to accept frames.
//
// Parameters:
//   - w: the output stream
//   - width, height: the canvas dimensions in pixels (1..65535)
//
// Returns:
//   - *Encoder: the streaming encoder
//   - error: error if the dimensions are out of range or the header write fails
func NewEncoder(w io.Writer, width, height int) (*Encoder, error) {
	if width <= 0 || width > 0xFFFF || height <= 0 || height > 0xFFFF {
		return nil, fmt.Errorf("gifenc: canvas size %dx%d out of range", width, height)
	}
	e := &Encoder{w: w, width: width, height: height}

	if _, err := io.WriteString(w, "GIF89a"); err != nil {
		return nil, fmt.Errorf("gifenc: writing header: %w", err)
	}
	// Logical screen descriptor: no global color table, 8 bits per primary.
	lsd := []byte{
		byte(width), byte(width >> 8),
		byte(height), byte(height >> 8),
		0x70, // color resolution 8, no global color table
		0x00, // background color index
		0x00, // pixel aspect ratio
	}
	if _, err := w.Write(lsd); err != nil {
		return nil, fmt.Errorf("gifenc: writing screen descriptor: %w", err)
	}
	return e, nil
}

// SetLoopCount writes the NETSCAPE2.0 application extension controlling
// animation looping. Must be called before the first frame is written.
//
// Parameters:
//   - count: number of repetitions after the first play; 0 loops indefinitely
//
// Returns:
//   - error: error if frames were already written or the write fails
func (e *Encoder) SetLoopCount(count int) error {
	if e.frames > 0 {
		return fmt.Errorf("gifenc: loop count must be set before the first frame")
	}
	if count < 0 || count > 0xFFFF {
		return fmt.Errorf("gifenc: loop count %d out of range", count)
	}
	block := []byte{
		extensionIntroducer, applicationLabel, 0x0B,
		'N', 'E', 'T', 'S', 'C', 'A', 'P', 'E', '2', '.', '0',
		0x03, 0x01,
		byte(count), byte(count >> 8),
		0x00,
	}
	if _, err := e.w.Write(block); err != nil {
		return fmt.Errorf("gifenc: writing loop extension: %w", err)
	}
	return nil
}

// WriteFrame appends one quantized frame covering the full canvas, with the
// given inter-frame delay in centiseconds. The frame's palette becomes the
// local color table of the written image block.
//
// Parameters:
//   - pm: the indexed-color frame; bounds must match the canvas exactly
//   - delay: inter-frame delay in hundredths of a second
//
// Returns:
//   - error: error if the frame does not match the canvas or a write fails
func (e *Encoder) WriteFrame(pm *image.Paletted, delay int) error {
	if e.closed {
		return fmt.Errorf("gifenc: encoder is closed")
	}
	b := pm.Bounds()
	if b.Dx() != e.width || b.Dy() != e.height {
		return fmt.Errorf("gifenc: frame is %dx%d, canvas is %dx%d", b.Dx(), b.Dy(), e.width, e.height)
	}
	if len(pm.Palette) == 0 || len(pm.Palette) > 256 {
		return fmt.Errorf("gifenc: palette has %d colors, expected 1..256", len(pm.Palette))
	}
	if delay < 0 || delay > 0xFFFF {
		return fmt.Errorf("gifenc: delay %d out of range", delay)
	}

	// Local color table size field: the table holds 1<<(sizeField+1) entries,
	// padded with black to the next power of two.
	sizeField := 0
	for 1<<(sizeField+1) < len(pm.Palette) {
		sizeField++
	}
	paddedLen := 1 << (sizeField + 1)

	gce := []byte{
		extensionIntroducer, graphicControlLabel, 0x04,
		0x00, // no disposal, no transparency
		byte(delay), byte(delay >> 8),
		0x00, // transparent color index (unused)
		0x00,
	}
	if _, err := e.w.Write(gce); err != nil {
		return fmt.Errorf("gifenc: writing graphic control: %w", err)
	}

	descriptor := []byte{
		imageSeparator,
		0x00, 0x00, 0x00, 0x00, // frame at origin
		byte(e.width), byte(e.width >> 8),
		byte(e.height), byte(e.height >> 8),
		0x80 | byte(sizeField), // local color table present
	}
	if _, err := e.w.Write(descriptor); err != nil {
		return fmt.Errorf("gifenc: writing image descriptor: %w", err)
	}

	table := make([]byte, paddedLen*3)
	for i, c := range pm.Palette {
		r, g, bb, _ := c.RGBA()
		table[i*3+0] = byte(r >> 8)
		table[i*3+1] = byte(g >> 8)
		table[i*3+2] = byte(bb >> 8)
	}
	if _, err := e.w.Write(table); err != nil {
		return fmt.Errorf("gifenc: writing color table: %w", err)
	}

	litWidth := sizeField + 1
	if litWidth < 2 {
		litWidth = 2
	}
	if _, err := e.w.Write([]byte{byte(litWidth)}); err != nil {
		return fmt.Errorf("gifenc: writing code size: %w", err)
	}

	bw := &blockWriter{w: e.w}
	lzww := lzw.NewWriter(bw, lzw.LSB, litWidth)
	if pm.Stride == b.Dx() {
		if _, err := lzww.Write(pm.Pix[:b.Dx()*b.Dy()]); err != nil {
			lzww.Close()
			return fmt.Errorf("gifenc: compressing frame: %w", err)
		}
	} else {
		for y := 0; y < b.Dy(); y++ {
			row := pm.Pix[y*pm.Stride : y*pm.Stride+b.Dx()]
			if _, err := lzww.Write(row); err != nil {
				lzww.Close()
				return fmt.Errorf("gifenc: compressing frame: %w", err)
			}
		}
	}
	if err := lzww.Close(); err != nil {
		return fmt.Errorf("gifenc: finishing compression: %w", err)
	}
	if err := bw.flush(); err != nil {
		return fmt.Errorf("gifenc: flushing frame data: %w", err)
	}
	// Block terminator ends the frame's data sub-blocks.
	if _, err := e.w.Write([]byte{0x00}); err != nil {
		return fmt.Errorf("gifenc: terminating frame: %w", err)
	}

	e.frames++
	return nil
}

// Frames returns the number of frames written so far.
//
// Returns:
//   - int: the appended frame count
func (e *Encoder) Frames() int {
	return e.frames
}

// Close writes the GIF trailer. The underlying stream is not closed; that
// remains the caller's responsibility. Safe to call once.
//
// Returns:
//   - error: error if the trailer write fails
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if _, err := e.w.Write([]byte{trailer}); err != nil {
		return fmt.Errorf("gifenc: writing trailer: %w", err)
	}
	return nil
}

// blockWriter chops the LZW byte stream into GIF data sub-blocks of at most
// 255 bytes, each prefixed with its length.
type blockWriter struct {
	w   io.Writer
	buf [256]byte
	n   int
}

func (b *blockWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		n := copy(b.buf[1+b.n:], p)
		b.n += n
		written += n
		p = p[n:]
		if b.n == 255 {
			if err := b.flush(); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

func (b *blockWriter) flush() error {
	if b.n == 0 {
		return nil
	}
	b.buf[0] = byte(b.n)
	_, err := b.w.Write(b.buf[:b.n+1])
	b.n = 0
	return err
}
