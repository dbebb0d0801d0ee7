// Package renderer draws a compiled program as a full-screen triangle, either
// to the live surface or offscreen into a fixed-size RGBA buffer.
package renderer

import (
	"github.com/Carmen-Shannon/shady-go/common"
	"github.com/Carmen-Shannon/shady-go/engine/gpu"
	"github.com/Carmen-Shannon/shady-go/engine/renderer/program"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	ctx gpu.Context

	// clearColor is the color the target is cleared to before each draw.
	clearColor [4]float32
}

// Renderer binds a compiled program, sets its uniforms, and issues the
// full-screen-triangle draw. All methods must be called on the thread that
// owns the GPU context.
type Renderer interface {
	// Draw renders one frame of the program into the currently bound target.
	// Clears to the configured clear color, sets the t (elapsed seconds),
	// r (resolution in pixels), and rect_min (origin offset) uniforms by name,
	// then issues a fixed 3-vertex non-indexed draw covering the viewport.
	// Uniform names that fail to resolve are silently skipped: full-mode
	// programs may not declare them, and the driver may optimize them out.
	//
	// GPU-context-level failure here is unrecoverable and not reported.
	//
	// Parameters:
	//   - p: the compiled program to draw
	//   - time: elapsed seconds fed to the t uniform
	//   - origin: viewport origin offset in pixels (interactive sub-rectangle placement)
	//   - resolution: render target resolution in pixels
	Draw(p program.Program, time float32, origin, resolution common.Vec2)

	// RenderToPixels renders one frame offscreen at exact pixel dimensions and
	// reads back the raw RGBA bytes. A framebuffer and RGBA8 texture are
	// allocated for the call and unconditionally released before it returns,
	// regardless of the outcome; nothing is cached across calls.
	//
	// Rows are returned in the GPU's native order; no vertical flip is applied.
	//
	// Parameters:
	//   - p: the compiled program to draw
	//   - time: elapsed seconds fed to the t uniform
	//   - width, height: the offscreen target dimensions in pixels
	//
	// Returns:
	//   - []byte: width*height*4 bytes of RGBA pixel data
	//   - error: gpu.ResourceError on allocation failure, gpu.ErrFramebufferIncomplete if the target is unusable
	RenderToPixels(p program.Program, time float32, width, height int) ([]byte, error)
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer over the given GPU context with the specified
// options. The clear color defaults to opaque black.
//
// Parameters:
//   - ctx: the GPU context to draw through
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the configured renderer
func NewRenderer(ctx gpu.Context, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		ctx:        ctx,
		clearColor: [4]float32{0, 0, 0, 1},
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) Draw(p program.Program, time float32, origin, resolution common.Vec2) {
	ctx := r.ctx

	ctx.ClearColor(r.clearColor[0], r.clearColor[1], r.clearColor[2], r.clearColor[3])
	ctx.Clear()

	ctx.UseProgram(p.Handle())

	if loc, ok := ctx.UniformLocation(p.Handle(), "t"); ok {
		ctx.SetUniform1f(loc, time)
	}
	if loc, ok := ctx.UniformLocation(p.Handle(), "r"); ok {
		ctx.SetUniform2f(loc, resolution.X, resolution.Y)
	}
	if loc, ok := ctx.UniformLocation(p.Handle(), "rect_min"); ok {
		ctx.SetUniform2f(loc, origin.X, origin.Y)
	}

	ctx.BindVertexArray(p.VertexArray())
	ctx.DrawTriangles(0, 3)
}
