// Package export drives the animated-image export loop: one offscreen render
// per engine tick, sampled at uniform time steps, quantized to an indexed
// palette and appended to a streaming GIF encoder. The job is an explicit
// state machine advanced by the caller; it never blocks the interactive loop.
package export

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"

	"github.com/Carmen-Shannon/shady-go/common"
	"github.com/Carmen-Shannon/shady-go/engine/export/gifenc"
	"github.com/ericpauley/go-quantize/quantize"
)

// DefaultOutputPath is the fixed relative path exports are written to when no
// override is supplied.
const DefaultOutputPath = "shady_export.gif"

// FrameSource renders one offscreen frame at a sample time. The engine's
// implementation holds the shared-program guard for exactly the duration of
// the render call, serializing the export step against interactive drawing.
type FrameSource interface {
	// RenderFrame renders the frame sampled at the given time.
	//
	// Parameters:
	//   - time: the sample time in seconds
	//   - width, height: the frame dimensions in pixels
	//
	// Returns:
	//   - []byte: width*height*4 bytes of RGBA pixel data in native row order
	//   - error: error if the offscreen render fails
	RenderFrame(time float32, width, height int) ([]byte, error)
}

// Status is the result of one Advance call.
type Status int

const (
	// StatusInProgress means the frame was written and more remain.
	StatusInProgress Status = iota

	// StatusDone means the final frame was written and the stream is closed.
	StatusDone

	// StatusFailed means a frame-level error aborted the job. Already-written
	// frames are kept; Err returns the cause.
	StatusFailed
)

// String returns the status name for logging.
func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "in progress"
	}
}

// job is the implementation of the Job interface.
type job struct {
	source FrameSource

	width, height int
	fps           int
	seconds       int

	outputPath string
	out        io.Writer // overrides outputPath when set (tests, pipes)

	file *os.File
	bw   *bufio.Writer
	enc  *gifenc.Encoder

	quantizer quantize.MedianCutQuantizer

	frameIndex int
	frameCount int
	done       bool
	err        error
}

// Job is an in-progress animated-image export. Created only on explicit start;
// advanced one frame per tick; finished on completion or first frame-level
// error. There is no cancellation: a job only ends via StatusDone or
// StatusFailed.
type Job interface {
	// Advance renders, quantizes, and writes exactly one frame. The caller
	// controls tick cadence; responsiveness comes from emitting one frame per
	// tick, not from preemption.
	//
	// Returns:
	//   - Status: StatusInProgress, StatusDone, or StatusFailed
	Advance() Status

	// Frame returns the index of the next frame to be written, which equals
	// the number of successfully written frames.
	//
	// Returns:
	//   - int: the zero-based next frame index
	Frame() int

	// FrameCount returns the total number of frames the job will write.
	//
	// Returns:
	//   - int: the frame count (fps × duration)
	FrameCount() int

	// Err returns the error that aborted the job, or nil.
	//
	// Returns:
	//   - error: the failure cause when Advance returned StatusFailed
	Err() error
}

var _ Job = &job{}

// NewJob opens the output stream, writes the animated-image header configured
// to loop indefinitely, and returns a Job ready to be advanced. Defaults:
// 512×512 pixels, 30 frames per second, 3 seconds (90 frames), written to
// DefaultOutputPath.
//
// Parameters:
//   - source: the frame renderer (required)
//   - options: functional options to override resolution, rate, duration, or output
//
// Returns:
//   - Job: the started export job
//   - error: *IOError if the output cannot be created, or an encoder setup error
func NewJob(source FrameSource, options ...JobBuilderOption) (Job, error) {
	if source == nil {
		return nil, fmt.Errorf("export requires a frame source")
	}

	j := &job{
		source:     source,
		width:      512,
		height:     512,
		fps:        30,
		seconds:    3,
		outputPath: DefaultOutputPath,
		quantizer:  quantize.MedianCutQuantizer{Aggregation: quantize.Mode},
	}
	for _, opt := range options {
		opt(j)
	}
	j.frameCount = j.fps * j.seconds

	var w io.Writer = j.out
	if w == nil {
		file, err := os.Create(j.outputPath)
		if err != nil {
			return nil, &IOError{Op: "create", Err: err}
		}
		j.file = file
		j.bw = bufio.NewWriter(file)
		w = j.bw
	}

	enc, err := gifenc.NewEncoder(w, j.width, j.height)
	if err != nil {
		j.closeOutput()
		return nil, &IOError{Op: "open encoder", Err: err}
	}
	if err := enc.SetLoopCount(0); err != nil {
		j.closeOutput()
		return nil, &IOError{Op: "set loop", Err: err}
	}
	j.enc = enc
	return j, nil
}

func (j *job) Advance() Status {
	if j.err != nil {
		return StatusFailed
	}
	if j.done {
		return StatusDone
	}

	// Deterministic sampling: frame time depends only on the frame index and
	// rate, never on how long previous frames took to render.
	t := float32(j.frameIndex) / float32(j.fps)

	pixels, err := j.source.RenderFrame(t, j.width, j.height)
	if err != nil {
		return j.fail(&FrameEncodeError{Frame: j.frameIndex, Err: err})
	}

	frame := common.FramePixels{Pixels: pixels, Width: j.width, Height: j.height}
	img, err := frame.Image()
	if err != nil {
		return j.fail(&FrameEncodeError{Frame: j.frameIndex, Err: err})
	}

	paletted := j.quantize(img)

	// Integer centiseconds: 30 fps gives 3cs. The ~0.3ms/frame truncation
	// drift for non-round rates is accepted, not corrected.
	delay := 100 / j.fps

	if err := j.enc.WriteFrame(paletted, delay); err != nil {
		return j.fail(&FrameEncodeError{Frame: j.frameIndex, Err: err})
	}

	j.frameIndex++
	if j.frameIndex >= j.frameCount {
		if err := j.finish(); err != nil {
			j.err = err
			return StatusFailed
		}
		j.done = true
		return StatusDone
	}
	return StatusInProgress
}

func (j *job) Frame() int {
	return j.frameIndex
}

func (j *job) FrameCount() int {
	return j.frameCount
}

func (j *job) Err() error {
	return j.err
}

// quantize reduces a frame to a bounded-size palette (median cut, mode
// aggregation for speed) and dithers the pixels into it.
func (j *job) quantize(img *image.RGBA) *image.Paletted {
	pal := j.quantizer.Quantize(make(color.Palette, 0, 256), img)
	pm := image.NewPaletted(img.Bounds(), pal)
	draw.FloydSteinberg.Draw(pm, img.Bounds(), img, image.Point{})
	return pm
}

// fail records the aborting error and finishes the stream. Frames already
// written stay on disk (the encoder is append-only, nothing is rolled back),
// so the written frame count at failure equals the failing frame index.
func (j *job) fail(err error) Status {
	j.err = err
	if j.enc != nil {
		_ = j.enc.Close()
	}
	j.closeOutput()
	return StatusFailed
}

// finish writes the trailer and flushes/closes the output stream.
func (j *job) finish() error {
	if err := j.enc.Close(); err != nil {
		j.closeOutput()
		return err
	}
	if err := j.closeOutput(); err != nil {
		return &IOError{Op: "close", Err: err}
	}
	return nil
}

func (j *job) closeOutput() error {
	var err error
	if j.bw != nil {
		err = j.bw.Flush()
		j.bw = nil
	}
	if j.file != nil {
		if cerr := j.file.Close(); err == nil {
			err = cerr
		}
		j.file = nil
	}
	return err
}
