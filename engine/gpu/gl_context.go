package gpu

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// glInitOnce guards gl.Init, which must run exactly once per process after the
// first GL context is made current.
var glInitOnce sync.Once

// glContext is the OpenGL implementation of the Context interface.
// It is a thin layer over go-gl; all calls assume the owning thread holds a
// current GL context.
type glContext struct {
	profile Profile
}

var _ Context = &glContext{}

// NewContext initializes the OpenGL bindings and returns a Context for the
// given profile. Must be called on the thread whose GL context is current
// (the window takes care of making it current during creation).
//
// Parameters:
//   - profile: the target graphics profile (desktop or embedded)
//
// Returns:
//   - Context: the GPU context object
//   - error: error if the OpenGL bindings fail to initialize
func NewContext(profile Profile) (Context, error) {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	return &glContext{profile: profile}, nil
}

func (c *glContext) Profile() Profile {
	return c.profile
}

func (c *glContext) CreateProgram() (ProgramID, error) {
	p := gl.CreateProgram()
	if p == 0 {
		return 0, &ResourceError{Object: "program"}
	}
	return ProgramID(p), nil
}

func (c *glContext) CreateShader(stage ShaderStage) (ShaderID, error) {
	glStage := uint32(gl.VERTEX_SHADER)
	if stage == StageFragment {
		glStage = gl.FRAGMENT_SHADER
	}
	s := gl.CreateShader(glStage)
	if s == 0 {
		return 0, &ResourceError{Object: "shader"}
	}
	return ShaderID(s), nil
}

func (c *glContext) ShaderSource(s ShaderID, source string) {
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(uint32(s), 1, csource, nil)
	free()
}

func (c *glContext) CompileShader(s ShaderID) {
	gl.CompileShader(uint32(s))
}

func (c *glContext) CompileStatus(s ShaderID) bool {
	var status int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (c *glContext) ShaderInfoLog(s ShaderID) string {
	var logLen int32
	gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 0 {
		return ""
	}
	log := make([]byte, logLen+1)
	gl.GetShaderInfoLog(uint32(s), logLen, nil, &log[0])
	return strings.TrimRight(string(log), "\x00")
}

func (c *glContext) AttachShader(p ProgramID, s ShaderID) {
	gl.AttachShader(uint32(p), uint32(s))
}

func (c *glContext) DetachShader(p ProgramID, s ShaderID) {
	gl.DetachShader(uint32(p), uint32(s))
}

func (c *glContext) LinkProgram(p ProgramID) {
	gl.LinkProgram(uint32(p))
}

func (c *glContext) LinkStatus(p ProgramID) bool {
	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (c *glContext) ProgramInfoLog(p ProgramID) string {
	var logLen int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 0 {
		return ""
	}
	log := make([]byte, logLen+1)
	gl.GetProgramInfoLog(uint32(p), logLen, nil, &log[0])
	return strings.TrimRight(string(log), "\x00")
}

func (c *glContext) DeleteShader(s ShaderID) {
	gl.DeleteShader(uint32(s))
}

func (c *glContext) DeleteProgram(p ProgramID) {
	gl.DeleteProgram(uint32(p))
}

func (c *glContext) CreateVertexArray() (VertexArrayID, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	if vao == 0 {
		return 0, &ResourceError{Object: "vertex array"}
	}
	return VertexArrayID(vao), nil
}

func (c *glContext) DeleteVertexArray(v VertexArrayID) {
	vao := uint32(v)
	gl.DeleteVertexArrays(1, &vao)
}

func (c *glContext) UseProgram(p ProgramID) {
	gl.UseProgram(uint32(p))
}

func (c *glContext) BindVertexArray(v VertexArrayID) {
	gl.BindVertexArray(uint32(v))
}

func (c *glContext) UniformLocation(p ProgramID, name string) (int32, bool) {
	loc := gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
	return loc, loc >= 0
}

func (c *glContext) SetUniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (c *glContext) SetUniform2f(location int32, x, y float32) {
	gl.Uniform2f(location, x, y)
}

func (c *glContext) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (c *glContext) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (c *glContext) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (c *glContext) DrawTriangles(first, count int) {
	gl.DrawArrays(gl.TRIANGLES, int32(first), int32(count))
}

func (c *glContext) CreateFramebuffer() (FramebufferID, error) {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	if fbo == 0 {
		return 0, &ResourceError{Object: "framebuffer"}
	}
	return FramebufferID(fbo), nil
}

func (c *glContext) BindFramebuffer(f FramebufferID) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(f))
}

func (c *glContext) DeleteFramebuffer(f FramebufferID) {
	fbo := uint32(f)
	gl.DeleteFramebuffers(1, &fbo)
}

func (c *glContext) CreateTexture() (TextureID, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	if tex == 0 {
		return 0, &ResourceError{Object: "texture"}
	}
	return TextureID(tex), nil
}

func (c *glContext) BindTexture(t TextureID) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (c *glContext) DeleteTexture(t TextureID) {
	tex := uint32(t)
	gl.DeleteTextures(1, &tex)
}

func (c *glContext) TexImageRGBA8(width, height int) {
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
}

func (c *glContext) FramebufferTexture2D(t TextureID) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, uint32(t), 0)
}

func (c *glContext) FramebufferComplete() bool {
	return gl.CheckFramebufferStatus(gl.FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE
}

func (c *glContext) ReadPixelsRGBA(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))
	return pixels
}
