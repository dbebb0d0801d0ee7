// Package gpu wraps the OpenGL context behind an explicit capability object.
// Every component that touches the GPU (program compilation, drawing, offscreen
// readback) borrows a Context from the engine rather than reaching for ambient
// global state, which also makes those components testable with fake contexts.
package gpu

// Profile identifies the target graphics profile, which determines the GLSL
// version pragma and precision qualifiers injected into generated shader source.
type Profile int

const (
	// ProfileDesktop targets a desktop OpenGL core profile context.
	ProfileDesktop Profile = iota

	// ProfileEmbedded targets an OpenGL ES context (mobile, web).
	ProfileEmbedded
)

// VersionDirective returns the GLSL #version pragma for the profile.
//
// Returns:
//   - string: the version pragma line (e.g. "#version 330 core")
func (p Profile) VersionDirective() string {
	if p == ProfileEmbedded {
		return "#version 300 es"
	}
	return "#version 330 core"
}

// PrecisionDirective returns the default float precision qualifier line for the
// profile, or an empty string when the profile does not require one.
//
// Returns:
//   - string: the precision qualifier line, or "" on desktop profiles
func (p Profile) PrecisionDirective() string {
	if p == ProfileEmbedded {
		return "precision mediump float;"
	}
	return ""
}

// ShaderStage identifies a pipeline stage for shader object creation and error reporting.
type ShaderStage int

const (
	// StageVertex is the vertex shader stage.
	StageVertex ShaderStage = iota

	// StageFragment is the fragment shader stage.
	StageFragment
)

// String returns the lowercase stage name used in diagnostics.
func (s ShaderStage) String() string {
	if s == StageFragment {
		return "fragment"
	}
	return "vertex"
}

// GPU object handles. These are opaque identifiers owned by the Context that
// created them; zero is never a valid handle.
type (
	// ProgramID identifies a linked GPU program object.
	ProgramID uint32

	// ShaderID identifies an intermediate shader object.
	ShaderID uint32

	// VertexArrayID identifies a vertex array object.
	VertexArrayID uint32

	// FramebufferID identifies a framebuffer object.
	FramebufferID uint32

	// TextureID identifies a texture object.
	TextureID uint32
)

// Context is the process-wide GPU capability object. It is created once by the
// engine after the window's GL context is current, and borrowed by the
// compiler, renderer, and export components. All methods must be called from
// the thread that owns the GL context.
type Context interface {
	// Profile returns the graphics profile this context was created for.
	//
	// Returns:
	//   - Profile: the target graphics profile
	Profile() Profile

	// CreateProgram allocates a new program object.
	//
	// Returns:
	//   - ProgramID: the new program handle
	//   - error: ResourceError if allocation fails
	CreateProgram() (ProgramID, error)

	// CreateShader allocates a new shader object for the given stage.
	//
	// Parameters:
	//   - stage: the pipeline stage the shader belongs to
	//
	// Returns:
	//   - ShaderID: the new shader handle
	//   - error: ResourceError if allocation fails
	CreateShader(stage ShaderStage) (ShaderID, error)

	// ShaderSource uploads GLSL source text to a shader object.
	ShaderSource(s ShaderID, source string)

	// CompileShader compiles a shader object. Check CompileStatus for the result.
	CompileShader(s ShaderID)

	// CompileStatus reports whether the last compile of the shader succeeded.
	CompileStatus(s ShaderID) bool

	// ShaderInfoLog returns the driver's diagnostic log for a shader object.
	ShaderInfoLog(s ShaderID) string

	// AttachShader attaches a shader object to a program object.
	AttachShader(p ProgramID, s ShaderID)

	// DetachShader detaches a shader object from a program object.
	DetachShader(p ProgramID, s ShaderID)

	// LinkProgram links a program object. Check LinkStatus for the result.
	LinkProgram(p ProgramID)

	// LinkStatus reports whether the last link of the program succeeded.
	LinkStatus(p ProgramID) bool

	// ProgramInfoLog returns the driver's diagnostic log for a program object.
	ProgramInfoLog(p ProgramID) string

	// DeleteShader releases a shader object.
	DeleteShader(s ShaderID)

	// DeleteProgram releases a program object.
	DeleteProgram(p ProgramID)

	// CreateVertexArray allocates a vertex array object with no attached buffers.
	//
	// Returns:
	//   - VertexArrayID: the new vertex array handle
	//   - error: ResourceError if allocation fails
	CreateVertexArray() (VertexArrayID, error)

	// DeleteVertexArray releases a vertex array object.
	DeleteVertexArray(v VertexArrayID)

	// UseProgram binds a program for subsequent draws.
	UseProgram(p ProgramID)

	// BindVertexArray binds a vertex array for subsequent draws.
	BindVertexArray(v VertexArrayID)

	// UniformLocation resolves a uniform by name in a linked program.
	// A missing name (optimized out, or never declared) is not an error;
	// callers are expected to skip the uniform when ok is false.
	//
	// Parameters:
	//   - p: the program to query
	//   - name: the uniform variable name
	//
	// Returns:
	//   - int32: the uniform location
	//   - bool: false if the uniform does not resolve
	UniformLocation(p ProgramID, name string) (int32, bool)

	// SetUniform1f sets a scalar float uniform on the currently bound program.
	SetUniform1f(location int32, v float32)

	// SetUniform2f sets a vec2 uniform on the currently bound program.
	SetUniform2f(location int32, x, y float32)

	// ClearColor sets the color used by Clear.
	ClearColor(r, g, b, a float32)

	// Clear clears the color buffer of the currently bound framebuffer.
	Clear()

	// Viewport sets the viewport rectangle in pixels.
	Viewport(x, y, width, height int)

	// DrawTriangles issues a non-indexed triangle draw.
	//
	// Parameters:
	//   - first: index of the first vertex
	//   - count: number of vertices to draw
	DrawTriangles(first, count int)

	// CreateFramebuffer allocates a framebuffer object.
	//
	// Returns:
	//   - FramebufferID: the new framebuffer handle
	//   - error: ResourceError if allocation fails
	CreateFramebuffer() (FramebufferID, error)

	// BindFramebuffer binds a framebuffer as the draw/read target.
	// Pass 0 to restore the default framebuffer.
	BindFramebuffer(f FramebufferID)

	// DeleteFramebuffer releases a framebuffer object.
	DeleteFramebuffer(f FramebufferID)

	// CreateTexture allocates a texture object.
	//
	// Returns:
	//   - TextureID: the new texture handle
	//   - error: ResourceError if allocation fails
	CreateTexture() (TextureID, error)

	// BindTexture binds a 2D texture. Pass 0 to unbind.
	BindTexture(t TextureID)

	// DeleteTexture releases a texture object.
	DeleteTexture(t TextureID)

	// TexImageRGBA8 allocates uninitialized RGBA8 storage for the currently
	// bound texture at exact pixel dimensions, with linear min/mag filtering.
	TexImageRGBA8(width, height int)

	// FramebufferTexture2D attaches the texture to the currently bound
	// framebuffer's first color attachment.
	FramebufferTexture2D(t TextureID)

	// FramebufferComplete reports whether the currently bound framebuffer
	// satisfies completeness.
	FramebufferComplete() bool

	// ReadPixelsRGBA reads back the currently bound framebuffer as tightly
	// packed RGBA8 rows in the GPU's native row order (no vertical flip).
	//
	// Parameters:
	//   - width, height: the pixel dimensions to read
	//
	// Returns:
	//   - []byte: width*height*4 bytes of pixel data
	ReadPixelsRGBA(width, height int) []byte
}
