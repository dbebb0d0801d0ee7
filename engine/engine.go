// Package engine is the host driver for the shader playground. It owns the
// window, the GPU context, the one live compiled program, and the export job,
// and interleaves recompilation, interactive drawing, and export stepping
// within a single cooperative tick on the thread that owns the GL context.
package engine

import (
	"fmt"
	"log"
	"time"

	"github.com/Carmen-Shannon/shady-go/common"
	"github.com/Carmen-Shannon/shady-go/engine/export"
	"github.com/Carmen-Shannon/shady-go/engine/gpu"
	"github.com/Carmen-Shannon/shady-go/engine/profiler"
	"github.com/Carmen-Shannon/shady-go/engine/renderer"
	"github.com/Carmen-Shannon/shady-go/engine/renderer/program"
	"github.com/Carmen-Shannon/shady-go/engine/window"
)

// DefaultSnippet is the tweet-mode demo shader loaded on startup.
const DefaultSnippet = `// Simple radial swirl
vec2 uv = (FC - r * vec2(0.7, 0.5)) / r.y * 2.0;
float d = length(uv);
float angle = atan(uv.y, uv.x);
float v = 0.5 + 0.5 * sin(8.0 * d - 2.0 * t + 4.0 * angle);
o = vec4(vec3(v), 1.0);`

// engine implements the Engine interface.
// All state is mutated from the window message loop; there is no background
// worker and no operation suspends mid-sequence.
type engine struct {
	window window.Window

	ctx      gpu.Context
	renderer renderer.Renderer

	// shared is the one live compiled program, guarded so an export step never
	// observes a half-replaced program.
	shared *program.Shared

	source         string
	needsRecompile bool
	lastErr        error

	job        export.Job
	exportPath string

	startTime time.Time

	profiler         *profiler.Profiler
	profilingEnabled bool

	profile gpu.Profile
}

// Engine is the main entry point for the playground.
// It orchestrates the tick loop, shader recompilation, interactive drawing,
// and incremental export stepping.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// SetSource replaces the shader source text, clears the prior error, and
	// schedules exactly one recompilation attempt before the next paint.
	//
	// Parameters:
	//   - source: the new fragment-shader source text
	SetSource(source string)

	// Source returns the current shader source text.
	//
	// Returns:
	//   - string: the source text
	Source() string

	// LastError returns the most recent user-visible error, if any.
	// Compile failures, export start failures, and export aborts all surface
	// here; each edit clears it.
	//
	// Returns:
	//   - error: the most recent error, or nil
	LastError() error

	// StartExport begins an animated-image export of the live program.
	// A no-op while an export is already in progress. Records an error when no
	// compiled program exists or the output cannot be opened.
	StartExport()

	// ExportProgress reports the state of the in-progress export.
	//
	// Returns:
	//   - int: frames written so far
	//   - int: total frames
	//   - bool: true if an export is in progress
	ExportProgress() (int, int, bool)

	// ElapsedSeconds returns the time since engine start, which drives the
	// interactive preview's t uniform.
	//
	// Returns:
	//   - float32: elapsed seconds
	ElapsedSeconds() float32

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Run starts the main loop (blocks until the window closes).
	Run()

	// Quit closes the window, ending the main loop.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options. The
// window is created (and its GL context made current) before the GPU context
// is initialized; the first tick compiles the initial source.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: error if the GPU context fails to initialize
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		source:    DefaultSnippet,
		profiler:  profiler.NewProfiler(),
		profile:   gpu.ProfileDesktop,
		startTime: time.Now(),
	}
	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		e.window = window.NewWindow(window.WithTitle("Shady - GLSL tweet shader"))
	}

	ctx, err := gpu.NewContext(e.profile)
	if err != nil {
		return nil, err
	}
	e.ctx = ctx
	e.renderer = renderer.NewRenderer(ctx)
	e.shared = program.NewShared(nil)
	e.exportPath = common.Coalesce(e.exportPath, export.DefaultOutputPath)
	e.needsRecompile = true

	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	e.window.SetUpdateCallback(e.tick)
	e.window.ProcessMessages()
}

func (e *engine) Quit() {
	if err := e.window.Close(); err != nil {
		log.Printf("[Engine] close: %v", err)
	}
}

// tick is one iteration of the cooperative loop: recompile if the source was
// edited, draw the interactive preview, advance the export job by exactly one
// frame. Each phase runs to completion before the next starts.
func (e *engine) tick() {
	if e.needsRecompile {
		e.recompile()
	}

	e.drawPreview()
	e.stepExport()

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}
}

// recompile makes exactly one compilation attempt for the current source.
// On success the shared reference is atomically swapped and the previous
// program's GPU resources are released; on failure the previous program stays
// live and the diagnostic replaces the preview message.
func (e *engine) recompile() {
	e.needsRecompile = false

	start := time.Now()
	p, err := program.Compile(e.ctx, e.source)
	if e.profiler != nil {
		e.profiler.Sample("compile", time.Since(start))
	}

	if err != nil {
		e.lastErr = err
		log.Printf("[Engine] %v", err)
		return
	}

	e.lastErr = nil
	if prev := e.shared.Swap(p); prev != nil {
		prev.Destroy()
	}
}

// drawPreview renders the live program to the window at the elapsed time.
func (e *engine) drawPreview() {
	width, height := e.window.Width(), e.window.Height()
	e.ctx.Viewport(0, 0, width, height)

	t := e.ElapsedSeconds()
	_ = e.shared.With(func(p program.Program) error {
		e.renderer.Draw(p, t, common.Vec2{}, common.Vec2{X: float32(width), Y: float32(height)})
		return nil
	})

	e.window.SwapBuffers()
}

// stepExport advances the active export job by one frame. A failed frame
// aborts the job and surfaces its error; the interactive preview is unaffected
// either way.
func (e *engine) stepExport() {
	if e.job == nil {
		return
	}

	start := time.Now()
	status := e.job.Advance()
	if e.profiler != nil {
		e.profiler.Sample("export.frame", time.Since(start))
	}

	switch status {
	case export.StatusDone:
		log.Printf("[Export] finished: %d frames written to %s", e.job.FrameCount(), e.exportPath)
		e.job = nil
	case export.StatusFailed:
		e.lastErr = e.job.Err()
		log.Printf("[Export] aborted: %v", e.lastErr)
		e.job = nil
	}
}

func (e *engine) SetSource(source string) {
	e.source = source
	e.lastErr = nil
	e.needsRecompile = true
}

func (e *engine) Source() string {
	return e.source
}

func (e *engine) LastError() error {
	return e.lastErr
}

func (e *engine) StartExport() {
	if e.job != nil {
		// Single active job; a second start must not open another stream.
		return
	}
	if e.shared == nil || !e.shared.Live() {
		e.lastErr = fmt.Errorf("no compiled shader to export")
		return
	}

	job, err := export.NewJob(&frameSource{engine: e}, export.WithOutputPath(e.exportPath))
	if err != nil {
		e.lastErr = err
		return
	}
	e.job = job
	log.Printf("[Export] started: %d frames to %s", job.FrameCount(), e.exportPath)
}

func (e *engine) ExportProgress() (int, int, bool) {
	if e.job == nil {
		return 0, 0, false
	}
	return e.job.Frame(), e.job.FrameCount(), true
}

func (e *engine) ElapsedSeconds() float32 {
	return float32(time.Since(e.startTime).Seconds())
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// frameSource adapts the engine's shared program and renderer to the export
// job. The shared-program guard is held only for the duration of one render
// call, serializing the export step against interactive drawing of the same
// tick.
type frameSource struct {
	engine *engine
}

var _ export.FrameSource = &frameSource{}

func (s *frameSource) RenderFrame(t float32, width, height int) ([]byte, error) {
	var pixels []byte
	err := s.engine.shared.With(func(p program.Program) error {
		var renderErr error
		pixels, renderErr = s.engine.renderer.RenderToPixels(p, t, width, height)
		return renderErr
	})
	if err != nil {
		return nil, err
	}
	if pixels == nil {
		return nil, fmt.Errorf("no compiled shader to render")
	}
	return pixels, nil
}
