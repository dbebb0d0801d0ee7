package renderer

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithClearColor sets the color the render target is cleared to before each
// draw. The default is opaque black.
//
// Parameters:
//   - r, g, b, a: the clear color components in the [0, 1] range
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(r, g, b, a float32) RendererBuilderOption {
	return func(rd *renderer) {
		rd.clearColor = [4]float32{r, g, b, a}
	}
}
