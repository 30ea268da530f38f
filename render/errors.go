package render

import (
	"errors"
	"fmt"
)

var (
	ErrTargetNotBound      = errors.New("target not bound")
	ErrCommandNotBound     = errors.New("command not bound")
	ErrTargetAlreadyBound  = errors.New("cannot have two targets bound at the same time")
	ErrCommandAlreadyBound = errors.New("cannot have two commands bound at the same time")
	ErrNoTargetBound       = errors.New("cannot unbind target, none bound")
	ErrNoCommandBound      = errors.New("cannot unbind command, none bound")
	ErrNoGeometry          = errors.New("no geometry and no vertex count to draw")
	ErrNoTexture           = errors.New("texture uniform resolved to no texture")
)

// BindingError reports a scope violation. Expected and Actual are the
// identities the tracker expected and found; either may be nil.
type BindingError struct {
	Op       string
	Expected any
	Actual   any
	Err      error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("trying to perform %s: %v, expected %v, got %v", e.Op, e.Err, identity(e.Expected), identity(e.Actual))
}

func (e *BindingError) Unwrap() error {
	return e.Err
}

func identity(v any) string {
	if v == nil {
		return "<none>"
	}
	switch v := v.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%p", v)
}

// ShaderCompilationError carries the compiler or linker log. Stage is
// "vertex", "fragment" or "link".
type ShaderCompilationError struct {
	Stage string
	Log   string
}

func (e *ShaderCompilationError) Error() string {
	return fmt.Sprintf("failed to compile %s shader, log: %s", e.Stage, e.Log)
}

// UnknownUniformError is returned when a uniform named by a command has no
// active location in the linked program. Compilers drop unused uniforms, so
// this also catches declarations that are never read.
type UnknownUniformError struct {
	Identifier string
}

func (e *UnknownUniformError) Error() string {
	return fmt.Sprintf("no location for uniform: %s", e.Identifier)
}

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}
