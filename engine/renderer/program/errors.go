package program

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/shady-go/engine/gpu"
	"github.com/Carmen-Shannon/shady-go/engine/renderer/shader"
)

// CompileError reports a failed shader stage compilation, carrying the
// driver's diagnostic log for that stage.
type CompileError struct {
	// Stage is the shader stage that failed to compile.
	Stage gpu.ShaderStage

	// Log is the driver's compile info log.
	Log string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compile error:\n%s", e.Stage, e.Log)
}

// LinkError reports a failed program link, carrying the linker's log.
type LinkError struct {
	// Log is the driver's link info log.
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("program link error:\n%s", e.Log)
}

// Attempt records the outcome of one candidate build strategy.
type Attempt struct {
	// Mode is the invocation convention the candidate implemented.
	Mode shader.Mode

	// Err is the error that ended the attempt.
	Err error
}

// DualModeError aggregates the errors of both candidate attempts when a source
// fails to compile in every mode. Each attempt's diagnostic is labeled by mode.
type DualModeError struct {
	// Attempts holds the failed attempts in the order they were tried.
	Attempts []Attempt
}

func (e *DualModeError) Error() string {
	var b strings.Builder
	b.WriteString("shader failed to compile in every mode:")
	for _, a := range e.Attempts {
		b.WriteString(fmt.Sprintf("\n[%s] %v", a.Mode, a.Err))
	}
	return b.String()
}

// Unwrap exposes the per-attempt errors for errors.Is/As matching.
func (e *DualModeError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}
