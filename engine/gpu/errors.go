package gpu

import (
	"errors"
	"fmt"
)

// ErrFramebufferIncomplete is returned when an offscreen framebuffer fails the
// GL completeness check after its color attachment is bound.
var ErrFramebufferIncomplete = errors.New("framebuffer is not complete")

// ResourceError reports a failed GPU object allocation (program, shader,
// texture, framebuffer, or vertex array).
type ResourceError struct {
	// Object names the kind of GPU object that could not be allocated.
	Object string
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("cannot create %s object", e.Object)
}
