package export

import (
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

// JobBuilderOption is a functional option applied to an export job during construction via NewJob.
type JobBuilderOption func(*job)

// WithResolution overrides the export canvas size. Values <= 0 are ignored.
//
// Parameters:
//   - width, height: the canvas dimensions in pixels
//
// Returns:
//   - JobBuilderOption: a function that applies the resolution option to a job
func WithResolution(width, height int) JobBuilderOption {
	return func(j *job) {
		if width > 0 && height > 0 {
			j.width = width
			j.height = height
		}
	}
}

// WithFrameRate overrides the export frame rate. Values <= 0 are ignored.
//
// Parameters:
//   - fps: frames per second
//
// Returns:
//   - JobBuilderOption: a function that applies the frame rate option to a job
func WithFrameRate(fps int) JobBuilderOption {
	return func(j *job) {
		if fps > 0 {
			j.fps = fps
		}
	}
}

// WithDuration overrides the export duration. Values <= 0 are ignored.
//
// Parameters:
//   - seconds: the animation length in whole seconds
//
// Returns:
//   - JobBuilderOption: a function that applies the duration option to a job
func WithDuration(seconds int) JobBuilderOption {
	return func(j *job) {
		if seconds > 0 {
			j.seconds = seconds
		}
	}
}

// WithOutputPath overrides the file path the export is written to.
//
// Parameters:
//   - path: the output file path
//
// Returns:
//   - JobBuilderOption: a function that applies the output path option to a job
func WithOutputPath(path string) JobBuilderOption {
	return func(j *job) {
		if path != "" {
			j.outputPath = path
		}
	}
}

// WithOutput writes the export to the given stream instead of creating a file.
// The caller keeps ownership of the stream.
//
// Parameters:
//   - w: the destination stream
//
// Returns:
//   - JobBuilderOption: a function that applies the output stream option to a job
func WithOutput(w io.Writer) JobBuilderOption {
	return func(j *job) {
		j.out = w
	}
}

// WithMeanAggregation trades quantization speed for palette quality by
// averaging colors within each median-cut bucket instead of taking the most
// frequent one.
//
// Returns:
//   - JobBuilderOption: a function that applies the aggregation option to a job
func WithMeanAggregation() JobBuilderOption {
	return func(j *job) {
		j.quantizer = quantize.MedianCutQuantizer{Aggregation: quantize.Mean}
	}
}
