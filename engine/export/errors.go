package export

import "fmt"

// IOError reports a failure creating or writing the export output stream.
type IOError struct {
	// Op names the operation that failed (e.g. "create", "flush").
	Op string

	// Err is the underlying error.
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FrameEncodeError reports a failure producing or encoding a single frame.
// Any frame-level error aborts the whole export without resumption;
// already-written frames are kept.
type FrameEncodeError struct {
	// Frame is the zero-based index of the frame that failed.
	Frame int

	// Err is the underlying error.
	Err error
}

func (e *FrameEncodeError) Error() string {
	return fmt.Sprintf("export frame %d: %v", e.Frame, e.Err)
}

func (e *FrameEncodeError) Unwrap() error {
	return e.Err
}
