package engine

import (
	"github.com/Carmen-Shannon/shady-go/engine/gpu"
	"github.com/Carmen-Shannon/shady-go/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithWindow sets a custom configured window for the engine to use rather than
// allowing the engine to create and manage one internally.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithSource sets the initial shader source compiled on the first tick.
//
// Parameters:
//   - source: the fragment-shader source text
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSource(source string) EngineBuilderOption {
	return func(e *engine) {
		e.source = source
	}
}

// WithExportPath sets the output path for animated-image exports.
// An empty value falls back to the default export path.
//
// Parameters:
//   - path: the output file path
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithExportPath(path string) EngineBuilderOption {
	return func(e *engine) {
		e.exportPath = path
	}
}

// WithProfile sets the GLSL dialect targeted by generated shaders.
//
// Parameters:
//   - profile: the GPU profile (desktop or embedded)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfile(profile gpu.Profile) EngineBuilderOption {
	return func(e *engine) {
		e.profile = profile
	}
}
