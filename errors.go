package blit

import (
	"fmt"

	"github.com/db47h/blit/gl"
	"github.com/pkg/errors"
)

// Error classes. Use errors.Is to check whether an error belongs to one of
// them.
var (
	// ErrConstruction is matched by errors that abort the creation of a
	// Renderer.
	ErrConstruction = errors.New("renderer construction failed")
	// ErrResource is matched by GPU resource allocation failures and by uses
	// of released resources.
	ErrResource = errors.New("resource error")
	// ErrLoad is matched by texture load failures.
	ErrLoad = errors.New("texture load failed")
)

// ContextAcquisitionError is returned by New when the surface cannot provide a
// GPU context.
type ContextAcquisitionError struct {
	Err error
}

func (e *ContextAcquisitionError) Error() string {
	return "acquire GPU context: " + e.Err.Error()
}

func (e *ContextAcquisitionError) Unwrap() error        { return e.Err }
func (e *ContextAcquisitionError) Is(target error) bool { return target == ErrConstruction }

// ShaderCompileError is returned by New when a shader fails to compile. Log
// holds the driver's diagnostic output.
type ShaderCompileError struct {
	Stage string // "vertex" or "fragment"
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("compile %s shader: %s", e.Stage, e.Log)
}

func (e *ShaderCompileError) Is(target error) bool { return target == ErrConstruction }

// ProgramLinkError is returned by New when the shader program fails to link.
type ProgramLinkError struct {
	Log string
}

func (e *ProgramLinkError) Error() string {
	return "link shader program: " + e.Log
}

func (e *ProgramLinkError) Is(target error) bool { return target == ErrConstruction }

// ResourceError reports the failure to allocate a GPU resource, or the use of
// a resource that has been released.
type ResourceError struct {
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	return e.Resource + ": " + e.Err.Error()
}

func (e *ResourceError) Unwrap() error        { return e.Err }
func (e *ResourceError) Is(target error) bool { return target == ErrResource }

var errReleased = errors.New("resource released")

func released(resource string) error {
	return &ResourceError{Resource: resource, Err: errReleased}
}

// TextureLoadError is returned when an image cannot be fetched or decoded. No
// texture is created in that case.
type TextureLoadError struct {
	Path string
	Err  error
}

func (e *TextureLoadError) Error() string {
	return "load texture " + e.Path + ": " + e.Err.Error()
}

func (e *TextureLoadError) Unwrap() error        { return e.Err }
func (e *TextureLoadError) Is(target error) bool { return target == ErrLoad }

// LoadErrors collects the failures of LoadTextures, in path order.
type LoadErrors []*TextureLoadError

func (l LoadErrors) Error() string {
	var s string
	for i, err := range l {
		if i > 0 {
			s += "\n"
		}
		s += err.Error()
	}
	return s
}

func (l LoadErrors) Is(target error) bool { return target == ErrLoad }

// FramebufferIncompleteError is returned by SetRenderTarget when the render
// target's framebuffer is not complete. Status is the value reported by the
// driver.
type FramebufferIncompleteError struct {
	Status        gl.Enum
	Width, Height int
}

func (e *FramebufferIncompleteError) Error() string {
	return fmt.Sprintf("framebuffer %dx%d incomplete: %s", e.Width, e.Height, statusString(e.Status))
}

func statusString(s gl.Enum) string {
	switch s {
	case gl.FramebufferIncompleteAttachment:
		return "incomplete attachment"
	case gl.FramebufferIncompleteMissingAttachment:
		return "missing attachment"
	case gl.FramebufferUnsupported:
		return "unsupported"
	}
	return fmt.Sprintf("status 0x%X", uint32(s))
}
