package program

import (
	"github.com/Carmen-Shannon/shady-go/engine/gpu"
	"github.com/Carmen-Shannon/shady-go/engine/renderer/shader"
)

// Compile builds a GPU program from fragment-shader source text, trying each
// candidate interpretation in classification-preferred order and returning the
// first that links. When every candidate fails the returned error is a
// *DualModeError aggregating each attempt's diagnostic, labeled by mode.
//
// Every GPU object allocated during a failed attempt is released before the
// next attempt starts; intermediate shader objects of a successful attempt are
// released immediately after linking.
//
// Parameters:
//   - ctx: the GPU context to allocate against
//   - source: the raw fragment-shader source text
//
// Returns:
//   - Program: the compiled program, nil on failure
//   - error: *DualModeError when all candidates fail
func Compile(ctx gpu.Context, source string) (Program, error) {
	var attempts []Attempt
	for _, c := range shader.Candidates(source, ctx.Profile()) {
		p, err := compileCandidate(ctx, c)
		if err == nil {
			return p, nil
		}
		attempts = append(attempts, Attempt{Mode: c.Mode, Err: err})
	}
	return nil, &DualModeError{Attempts: attempts}
}

// compileCandidate compiles and links one candidate. Cleanup on each failure
// path releases exactly the objects allocated so far in this attempt.
func compileCandidate(ctx gpu.Context, c shader.Candidate) (Program, error) {
	prog, err := ctx.CreateProgram()
	if err != nil {
		return nil, err
	}

	vs, err := compileStage(ctx, gpu.StageVertex, c.VertexSource)
	if err != nil {
		ctx.DeleteProgram(prog)
		return nil, err
	}

	fs, err := compileStage(ctx, gpu.StageFragment, c.FragmentSource)
	if err != nil {
		ctx.DeleteShader(vs)
		ctx.DeleteProgram(prog)
		return nil, err
	}

	ctx.AttachShader(prog, vs)
	ctx.AttachShader(prog, fs)

	ctx.LinkProgram(prog)
	if !ctx.LinkStatus(prog) {
		linkErr := &LinkError{Log: ctx.ProgramInfoLog(prog)}
		ctx.DeleteShader(vs)
		ctx.DeleteShader(fs)
		ctx.DeleteProgram(prog)
		return nil, linkErr
	}

	// The linked binary no longer needs the intermediate shader objects.
	ctx.DetachShader(prog, vs)
	ctx.DetachShader(prog, fs)
	ctx.DeleteShader(vs)
	ctx.DeleteShader(fs)

	vao, err := ctx.CreateVertexArray()
	if err != nil {
		ctx.DeleteProgram(prog)
		return nil, err
	}

	return &compiledProgram{ctx: ctx, handle: prog, vao: vao}, nil
}

// compileStage compiles a single shader object, returning a *CompileError
// carrying the stage's info log on failure.
func compileStage(ctx gpu.Context, stage gpu.ShaderStage, source string) (gpu.ShaderID, error) {
	s, err := ctx.CreateShader(stage)
	if err != nil {
		return 0, err
	}
	ctx.ShaderSource(s, source)
	ctx.CompileShader(s)
	if !ctx.CompileStatus(s) {
		compileErr := &CompileError{Stage: stage, Log: ctx.ShaderInfoLog(s)}
		ctx.DeleteShader(s)
		return 0, compileErr
	}
	return s, nil
}
