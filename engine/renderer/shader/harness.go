package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/shady-go/engine/gpu"
)

// Candidate is one buildable interpretation of a shader source: the mode it
// represents plus the complete vertex and fragment source strings ready for
// compilation.
type Candidate struct {
	// Mode is the invocation convention this candidate implements.
	Mode Mode

	// VertexSource is the full-screen-triangle vertex shader source.
	VertexSource string

	// FragmentSource is the complete fragment shader source for this candidate.
	FragmentSource string
}

// vertexBody positions a single over-sized triangle from the primitive index,
// covering the whole viewport without any vertex or index buffer.
const vertexBody = `
const vec2 verts[3] = vec2[3](
    vec2(-1.0, -1.0),
    vec2(3.0, -1.0),
    vec2(-1.0, 3.0)
);

void main() {
    gl_Position = vec4(verts[gl_VertexID], 0.0, 1.0);
}
`

// Candidates builds both candidate programs for a source text and orders them
// by classification: the classified-preferred interpretation first, the other
// second. Version and precision directives are resolved from the profile here,
// once per compile, never per frame.
//
// Parameters:
//   - source: the raw fragment-shader source text
//   - profile: the target graphics profile (decides version/precision lines)
//
// Returns:
//   - []Candidate: two candidates in preferred-first try order
func Candidates(source string, profile gpu.Profile) []Candidate {
	vertex := VertexSource(profile)
	wrapped := Candidate{
		Mode:           ModeTweet,
		VertexSource:   vertex,
		FragmentSource: wrapFragment(source, profile),
	}
	raw := Candidate{
		Mode:           ModeFull,
		VertexSource:   vertex,
		FragmentSource: rawFragment(source, profile),
	}

	if Classify(source) == ModeFull {
		return []Candidate{raw, wrapped}
	}
	return []Candidate{wrapped, raw}
}

// VertexSource returns the shared full-screen-triangle vertex shader for the
// given profile.
//
// Parameters:
//   - profile: the target graphics profile
//
// Returns:
//   - string: the complete vertex shader source
func VertexSource(profile gpu.Profile) string {
	return profile.VersionDirective() + "\n" + vertexBody
}

// wrapFragment injects a tweet-mode body into the fixed harness. The harness
// supplies the implicit inputs FC (fragment coordinate relative to the
// viewport origin), r (resolution in pixels), t (elapsed seconds), initializes
// o to vec4(0.0), and routes the final o value to the declared output.
func wrapFragment(snippet string, profile gpu.Profile) string {
	return fmt.Sprintf(`%s
%s
uniform vec2 r;
uniform float t;
uniform vec2 rect_min;
out vec4 fragColor;

void main() {
    vec2 FC = gl_FragCoord.xy - rect_min;
    vec4 o = vec4(0.0);
    %s
    fragColor = o;
}
`, profile.VersionDirective(), profile.PrecisionDirective(), snippet)
}

// rawFragment returns a full-mode source ready for compilation. The text is
// used as-is, except that sources lacking a #version pragma get the profile's
// version (and, for embedded profiles, precision) directives prepended so the
// driver does not fall back to GLSL 1.10.
func rawFragment(source string, profile gpu.Profile) string {
	if versionRe.MatchString(source) {
		return source
	}
	var b strings.Builder
	b.WriteString(profile.VersionDirective())
	b.WriteString("\n")
	if p := profile.PrecisionDirective(); p != "" {
		b.WriteString(p)
		b.WriteString("\n")
	}
	b.WriteString(source)
	return b.String()
}
