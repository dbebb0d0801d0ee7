package program

import (
	"errors"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/shady-go/engine/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harnessMarker only appears in harness-wrapped (tweet-mode) fragment sources.
const harnessMarker = "vec2 FC = gl_FragCoord.xy - rect_min;"

// fakeContext is a scripted gpu.Context that tracks object lifetimes so tests
// can assert that every failure path releases everything it allocated.
// Unimplemented Context methods panic via the embedded nil interface; Compile
// must never reach them.
type fakeContext struct {
	gpu.Context

	profile gpu.Profile

	// failCompile returns a non-empty info log to fail a shader compile.
	failCompile func(stage gpu.ShaderStage, source string) string

	// failLink returns a non-empty info log to fail every program link.
	failLink string

	// failCreateProgram makes program allocation fail.
	failCreateProgram bool

	nextID uint32

	liveShaders  map[gpu.ShaderID]gpu.ShaderStage
	shaderSource map[gpu.ShaderID]string
	shaderLog    map[gpu.ShaderID]string
	livePrograms map[gpu.ProgramID]bool
	liveVAOs     map[gpu.VertexArrayID]bool

	// fragmentsTried records fragment sources in compile order.
	fragmentsTried []string
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		profile:      gpu.ProfileDesktop,
		liveShaders:  make(map[gpu.ShaderID]gpu.ShaderStage),
		shaderSource: make(map[gpu.ShaderID]string),
		shaderLog:    make(map[gpu.ShaderID]string),
		livePrograms: make(map[gpu.ProgramID]bool),
		liveVAOs:     make(map[gpu.VertexArrayID]bool),
	}
}

func (f *fakeContext) id() uint32 {
	f.nextID++
	return f.nextID
}

func (f *fakeContext) Profile() gpu.Profile { return f.profile }

func (f *fakeContext) CreateProgram() (gpu.ProgramID, error) {
	if f.failCreateProgram {
		return 0, &gpu.ResourceError{Object: "program"}
	}
	p := gpu.ProgramID(f.id())
	f.livePrograms[p] = true
	return p, nil
}

func (f *fakeContext) CreateShader(stage gpu.ShaderStage) (gpu.ShaderID, error) {
	s := gpu.ShaderID(f.id())
	f.liveShaders[s] = stage
	return s, nil
}

func (f *fakeContext) ShaderSource(s gpu.ShaderID, source string) {
	f.shaderSource[s] = source
}

func (f *fakeContext) CompileShader(s gpu.ShaderID) {
	src := f.shaderSource[s]
	if f.liveShaders[s] == gpu.StageFragment {
		f.fragmentsTried = append(f.fragmentsTried, src)
	}
	if f.failCompile != nil {
		f.shaderLog[s] = f.failCompile(f.liveShaders[s], src)
	}
}

func (f *fakeContext) CompileStatus(s gpu.ShaderID) bool { return f.shaderLog[s] == "" }

func (f *fakeContext) ShaderInfoLog(s gpu.ShaderID) string { return f.shaderLog[s] }

func (f *fakeContext) AttachShader(gpu.ProgramID, gpu.ShaderID) {}

func (f *fakeContext) DetachShader(gpu.ProgramID, gpu.ShaderID) {}

func (f *fakeContext) LinkProgram(gpu.ProgramID) {}

func (f *fakeContext) LinkStatus(gpu.ProgramID) bool { return f.failLink == "" }

func (f *fakeContext) ProgramInfoLog(gpu.ProgramID) string { return f.failLink }

func (f *fakeContext) DeleteShader(s gpu.ShaderID) { delete(f.liveShaders, s) }

func (f *fakeContext) DeleteProgram(p gpu.ProgramID) { delete(f.livePrograms, p) }

func (f *fakeContext) CreateVertexArray() (gpu.VertexArrayID, error) {
	v := gpu.VertexArrayID(f.id())
	f.liveVAOs[v] = true
	return v, nil
}

func (f *fakeContext) DeleteVertexArray(v gpu.VertexArrayID) { delete(f.liveVAOs, v) }

// assertNoLeaks fails the test if any GPU object survived a failed compile.
func (f *fakeContext) assertNoLeaks(t *testing.T) {
	t.Helper()
	assert.Empty(t, f.liveShaders, "leaked shader objects")
	assert.Empty(t, f.livePrograms, "leaked program objects")
	assert.Empty(t, f.liveVAOs, "leaked vertex array objects")
}

func failFragmentsContaining(marker, log string) func(gpu.ShaderStage, string) string {
	return func(stage gpu.ShaderStage, source string) string {
		if stage == gpu.StageFragment && strings.Contains(source, marker) {
			return log
		}
		return ""
	}
}

func TestCompileTweetFirstForTweetSource(t *testing.T) {
	f := newFakeContext()
	p, err := Compile(f, "o = vec4(FC/r.xyx, 1.0);")
	require.NoError(t, err)
	require.NotNil(t, p)

	require.NotEmpty(t, f.fragmentsTried)
	assert.Contains(t, f.fragmentsTried[0], harnessMarker, "tweet-classified source tries the wrapped candidate first")
	assert.Len(t, f.fragmentsTried, 1, "first success stops the candidate sequence")
}

func TestCompileTweetSourceFallsBackToFull(t *testing.T) {
	f := newFakeContext()
	f.failCompile = failFragmentsContaining(harnessMarker, "0:4: error: redefinition of FC")

	p, err := Compile(f, "vec2 FC = ...; o = vec4(1.0);")
	require.NoError(t, err)
	require.NotNil(t, p)

	require.Len(t, f.fragmentsTried, 2)
	assert.Contains(t, f.fragmentsTried[0], harnessMarker)
	assert.NotContains(t, f.fragmentsTried[1], harnessMarker)

	// The surviving program and VAO are the only live objects.
	assert.Len(t, f.livePrograms, 1)
	assert.Len(t, f.liveVAOs, 1)
	assert.Empty(t, f.liveShaders, "intermediate shader objects are released after linking")
}

func TestCompileFullSourceFallsBackToTweet(t *testing.T) {
	f := newFakeContext()
	// Fail any fragment NOT wrapped by the harness, i.e. the raw candidate.
	f.failCompile = func(stage gpu.ShaderStage, source string) string {
		if stage == gpu.StageFragment && !strings.Contains(source, harnessMarker) {
			return "0:2: error: 'main' : function already has a body"
		}
		return ""
	}

	p, err := Compile(f, "void main() { gl_FragColor = vec4(1.0); }")
	require.NoError(t, err)
	require.NotNil(t, p)

	require.Len(t, f.fragmentsTried, 2)
	assert.NotContains(t, f.fragmentsTried[0], harnessMarker, "full-classified source tries the raw candidate first")
	assert.Contains(t, f.fragmentsTried[1], harnessMarker)
}

func TestCompileBothModesFailAggregatesDiagnostics(t *testing.T) {
	f := newFakeContext()
	f.failCompile = func(stage gpu.ShaderStage, source string) string {
		if stage != gpu.StageFragment {
			return ""
		}
		if strings.Contains(source, harnessMarker) {
			return "0:9: error: syntax error, unexpected '}'"
		}
		return "0:1: error: syntax error, unexpected '{'"
	}

	p, err := Compile(f, "o = vec4(1.0;") // unmatched paren, invalid in both modes
	require.Error(t, err)
	assert.Nil(t, p)

	var dual *DualModeError
	require.ErrorAs(t, err, &dual)
	require.Len(t, dual.Attempts, 2)

	msg := err.Error()
	assert.Contains(t, msg, "[tweet]")
	assert.Contains(t, msg, "[full]")
	assert.Contains(t, msg, "unexpected '}'")
	assert.Contains(t, msg, "unexpected '{'")

	f.assertNoLeaks(t)
}

func TestCompileLinkFailureReleasesEverything(t *testing.T) {
	f := newFakeContext()
	f.failLink = "error: no matching fragment output"

	_, err := Compile(f, "o = vec4(1.0);")
	require.Error(t, err)

	var dual *DualModeError
	require.ErrorAs(t, err, &dual)
	for _, a := range dual.Attempts {
		var linkErr *LinkError
		assert.ErrorAs(t, a.Err, &linkErr)
	}

	f.assertNoLeaks(t)
}

func TestCompileProgramAllocationFailure(t *testing.T) {
	f := newFakeContext()
	f.failCreateProgram = true

	_, err := Compile(f, "o = vec4(1.0);")
	require.Error(t, err)

	var resErr *gpu.ResourceError
	assert.True(t, errors.As(err, &resErr))
	f.assertNoLeaks(t)
}

func TestCompileTwiceYieldsIndependentPrograms(t *testing.T) {
	f := newFakeContext()
	source := "o = vec4(vec3(t), 1.0);"

	first, err := Compile(f, source)
	require.NoError(t, err)
	second, err := Compile(f, source)
	require.NoError(t, err)

	assert.NotEqual(t, first.Handle(), second.Handle())
	assert.Len(t, f.livePrograms, 2)

	first.Destroy()
	assert.Len(t, f.livePrograms, 1)
	assert.Len(t, f.liveVAOs, 1)
	assert.True(t, f.livePrograms[second.Handle()], "destroying the first program leaves the second intact")

	second.Destroy()
	f.assertNoLeaks(t)
}

func TestSharedSwapReturnsPrevious(t *testing.T) {
	f := newFakeContext()
	first, err := Compile(f, "o = vec4(1.0);")
	require.NoError(t, err)

	s := NewShared(nil)
	assert.False(t, s.Live())
	assert.Nil(t, s.Swap(first))
	assert.True(t, s.Live())

	second, err := Compile(f, "o = vec4(0.5);")
	require.NoError(t, err)

	prev := s.Swap(second)
	require.Equal(t, first, prev)
	prev.Destroy()

	called := false
	err = s.With(func(p Program) error {
		called = true
		assert.Equal(t, second.Handle(), p.Handle())
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
