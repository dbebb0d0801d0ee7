// Package shader classifies GLSL fragment-shader source text and builds the
// candidate program sources the compiler tries in order.
//
// Two invocation conventions are supported:
//   - "tweet": a short fragment body, shader-code-golf style, injected into a
//     fixed harness that supplies FC (fragment coordinate), r (resolution),
//     t (elapsed seconds) and consumes a final o (vec4) value.
//   - "full": a complete, self-contained fragment program declaring its own
//     entry point and output.
//
// Classification is a heuristic: it only decides which candidate the compiler
// tries first. Both candidates are always built.
package shader

import "regexp"

// Mode identifies which invocation convention a shader source follows.
type Mode int

const (
	// ModeTweet is a fragment body wrapped in the implicit-input harness.
	ModeTweet Mode = iota

	// ModeFull is a self-contained fragment program used as-is.
	ModeFull
)

// String returns the lowercase mode name used in diagnostics.
func (m Mode) String() string {
	if m == ModeFull {
		return "full"
	}
	return "tweet"
}

// Markers that indicate a self-contained fragment program: an explicit entry
// point, a version pragma, a legacy fixed-function output write, or an explicit
// output declaration.
var (
	entryPointRe = regexp.MustCompile(`\bvoid\s+main\s*\(`)
	versionRe    = regexp.MustCompile(`(?m)^\s*#version\b`)
	legacyOutRe  = regexp.MustCompile(`\bgl_FragColor\b`)
	outDeclRe    = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?out\s+\w+\s+\w+\s*;`)
)

// Classify inspects fragment-shader source text and reports which invocation
// convention it most likely follows. Sources containing an explicit entry
// point, a #version pragma, a gl_FragColor write, or an out declaration are
// classified as full; everything else is treated as a tweet body.
//
// Parameters:
//   - source: the raw fragment-shader source text
//
// Returns:
//   - Mode: ModeFull or ModeTweet
func Classify(source string) Mode {
	if entryPointRe.MatchString(source) ||
		versionRe.MatchString(source) ||
		legacyOutRe.MatchString(source) ||
		outDeclRe.MatchString(source) {
		return ModeFull
	}
	return ModeTweet
}
