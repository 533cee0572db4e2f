package content

import (
	"errors"
	"fmt"
)

// ErrUnknownContent matches every lookup of an ID the registry does not define.
// Such lookups can only come from a bad deploy or a programming error.
var ErrUnknownContent = errors.New("unknown content id")

// UnknownTemplateError is returned when a template ID is not in the registry.
type UnknownTemplateError struct {
	TemplateID TemplateID
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown template %q", e.TemplateID)
}

func (e *UnknownTemplateError) Unwrap() error { return ErrUnknownContent }

// UnknownModuleError is returned when a module ID is not in the registry.
type UnknownModuleError struct {
	ModuleID ModuleID
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("unknown module %q", e.ModuleID)
}

func (e *UnknownModuleError) Unwrap() error { return ErrUnknownContent }

// UnknownArcError is returned when an arc ID is not in the registry.
type UnknownArcError struct {
	ArcID ArcID
}

func (e *UnknownArcError) Error() string {
	return fmt.Sprintf("unknown arc %q", e.ArcID)
}

func (e *UnknownArcError) Unwrap() error { return ErrUnknownContent }
