package shadergen

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind categorizes generation errors.
type ErrorKind uint8

const (
	_ ErrorKind = iota
	// ResolutionFailure: no implementation found for a required node.
	ResolutionFailure
	// CyclicGraph: node connections loop back on themselves.
	CyclicGraph
	// CyclicCompound: compound definitions reference each other.
	CyclicCompound
	// NameCollisionUnresolvable: name disambiguation was exhausted.
	NameCollisionUnresolvable
	// MissingLightImplementation: a light type has no usable implementation.
	MissingLightImplementation
	// SourceNotFound: a source template could not be located.
	SourceNotFound
	// InvalidGraph: type mismatch, dangling reference or unsupported type.
	InvalidGraph
	// InvalidOptions: GenOptions failed validation.
	InvalidOptions
)

func (k ErrorKind) String() string {
	switch k {
	case ResolutionFailure:
		return "ResolutionFailure"
	case CyclicGraph:
		return "CyclicGraph"
	case CyclicCompound:
		return "CyclicCompound"
	case NameCollisionUnresolvable:
		return "NameCollisionUnresolvable"
	case MissingLightImplementation:
		return "MissingLightImplementation"
	case SourceNotFound:
		return "SourceNotFound"
	case InvalidGraph:
		return "InvalidGraph"
	case InvalidOptions:
		return "InvalidOptions"
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Sentinels for use with errors.Is. Any *Error matches the sentinel of its kind.
var (
	ErrResolutionFailure          = &Error{Kind: ResolutionFailure}
	ErrCyclicGraph                = &Error{Kind: CyclicGraph}
	ErrCyclicCompound             = &Error{Kind: CyclicCompound}
	ErrNameCollisionUnresolvable  = &Error{Kind: NameCollisionUnresolvable}
	ErrMissingLightImplementation = &Error{Kind: MissingLightImplementation}
	ErrSourceNotFound             = &Error{Kind: SourceNotFound}
	ErrInvalidGraph               = &Error{Kind: InvalidGraph}
	ErrInvalidOptions             = &Error{Kind: InvalidOptions}
)

// Error is a generation error. Node names the offending node, compound or
// light definition and Path locates it, i.e: "material/NG_point_light/dist".
type Error struct {
	Kind    ErrorKind
	Node    string
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	} else if e.Node != "" {
		b.WriteString(" at ")
		b.WriteString(e.Node)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind carrying no
// further detail, which makes the package sentinels match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Node == "" && t.Path == "" && t.Message == "" && t.Err == nil
}

// IsKind reports whether err or any error it wraps is an *Error of kind k.
func IsKind(err error, k ErrorKind) bool {
	return errors.Is(err, &Error{Kind: k})
}
