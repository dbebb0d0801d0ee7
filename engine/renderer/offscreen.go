package renderer

import (
	"github.com/Carmen-Shannon/shady-go/common"
	"github.com/Carmen-Shannon/shady-go/engine/gpu"
	"github.com/Carmen-Shannon/shady-go/engine/renderer/program"
)

// RenderToPixels allocates an ephemeral framebuffer + texture pair, draws one
// frame, and reads it back. Every pair of create calls is matched by deferred
// deletes so the GPU objects are released on all exit paths.
func (r *renderer) RenderToPixels(p program.Program, time float32, width, height int) ([]byte, error) {
	ctx := r.ctx

	framebuffer, err := ctx.CreateFramebuffer()
	if err != nil {
		return nil, err
	}
	defer ctx.DeleteFramebuffer(framebuffer)
	defer ctx.BindFramebuffer(0)
	ctx.BindFramebuffer(framebuffer)

	texture, err := ctx.CreateTexture()
	if err != nil {
		return nil, err
	}
	defer ctx.DeleteTexture(texture)
	defer ctx.BindTexture(0)
	ctx.BindTexture(texture)

	ctx.TexImageRGBA8(width, height)
	ctx.FramebufferTexture2D(texture)

	if !ctx.FramebufferComplete() {
		return nil, gpu.ErrFramebufferIncomplete
	}

	ctx.Viewport(0, 0, width, height)

	r.Draw(p, time, common.Vec2{X: 0, Y: 0}, common.Vec2{X: float32(width), Y: float32(height)})

	return ctx.ReadPixelsRGBA(width, height), nil
}
