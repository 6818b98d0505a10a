package cli

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/containerd/errdefs"
)

type ErrorKind string

const (
	// ErrConstruction is reported when the default value of an arguments
	// type cannot be built.
	ErrConstruction ErrorKind = "construction"
	// ErrInvalidTag is reported for malformed or conflicting cli_* tags.
	ErrInvalidTag ErrorKind = "invalid_tag"
	// ErrUnsupportedType is reported for tagged fields whose Go type cannot
	// be rendered on a command line.
	ErrUnsupportedType ErrorKind = "unsupported_type"
)

func (k ErrorKind) class() error {
	switch k {
	case ErrConstruction:
		return errdefs.ErrFailedPrecondition
	case ErrInvalidTag:
		return errdefs.ErrInvalidArgument
	case ErrUnsupportedType:
		return errdefs.ErrNotImplemented
	}
	return errdefs.ErrUnknown
}

// Error describes why an arguments value could not be converted. It matches
// the corresponding errdefs class with errors.Is.
type Error struct {
	Kind  ErrorKind
	Type  reflect.Type
	Field string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "compiler arguments (%s)", e.Kind)
	if e.Type != nil {
		fmt.Fprintf(&b, ": %s", e.Type)
		if e.Field != "" {
			fmt.Fprintf(&b, ".%s", e.Field)
		}
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind.class()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
