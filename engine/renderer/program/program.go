// Package program owns the GPU program lifecycle: dual-mode compilation and
// linking of shader candidates, the compiled program + vertex-array pair, and
// the guarded shared reference the engine and export job both borrow.
package program

import (
	"sync"

	"github.com/Carmen-Shannon/shady-go/engine/gpu"
)

// compiledProgram is the implementation of the Program interface.
// It holds the linked program handle and a single vertex-array object with no
// vertex buffers; positions are derived from the primitive index in the
// vertex stage.
type compiledProgram struct {
	ctx    gpu.Context
	handle gpu.ProgramID
	vao    gpu.VertexArrayID
}

// Program is a successfully linked GPU program ready for drawing. Exactly one
// live instance is retained by the engine at a time; the previous instance is
// destroyed after a successful recompile swap.
type Program interface {
	// Handle returns the GPU program handle.
	//
	// Returns:
	//   - gpu.ProgramID: the linked program object
	Handle() gpu.ProgramID

	// VertexArray returns the program's empty vertex-array handle.
	//
	// Returns:
	//   - gpu.VertexArrayID: the vertex array object bound for draws
	VertexArray() gpu.VertexArrayID

	// Destroy releases the program and vertex-array GPU objects.
	// The Program must not be used afterwards.
	Destroy()
}

var _ Program = &compiledProgram{}

func (p *compiledProgram) Handle() gpu.ProgramID {
	return p.handle
}

func (p *compiledProgram) VertexArray() gpu.VertexArrayID {
	return p.vao
}

func (p *compiledProgram) Destroy() {
	p.ctx.DeleteVertexArray(p.vao)
	p.ctx.DeleteProgram(p.handle)
}

// Shared is a mutual-exclusion guard around the one live Program, shared by
// reference between the interactive draw and the export step of the same tick.
// The guard is held only for the duration of one render call.
type Shared struct {
	mu sync.Mutex
	p  Program
}

// NewShared wraps a compiled program in a shared guarded reference.
//
// Parameters:
//   - p: the program to share (may be nil until the first successful compile)
//
// Returns:
//   - *Shared: the guarded reference
func NewShared(p Program) *Shared {
	return &Shared{p: p}
}

// With runs fn with the shared program while holding the guard. Returns
// without calling fn if no program is live.
//
// Parameters:
//   - fn: the function to run with exclusive access to the program
//
// Returns:
//   - error: the error returned by fn, or nil if no program is live
func (s *Shared) With(fn func(Program) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.p == nil {
		return nil
	}
	return fn(s.p)
}

// Live reports whether a compiled program is currently held.
//
// Returns:
//   - bool: true if a program is live
func (s *Shared) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p != nil
}

// Swap atomically replaces the shared program and returns the previous one so
// the caller can release its GPU resources once no references remain.
//
// Parameters:
//   - next: the newly compiled program
//
// Returns:
//   - Program: the previous program, or nil
func (s *Shared) Swap(next Program) Program {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.p
	s.p = next
	return prev
}
