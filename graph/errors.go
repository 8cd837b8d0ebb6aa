package graph

import (
	"fmt"
	"strings"
)

// CycleError reports a connection cycle. Path lists the names of the nodes
// on the cycle, starting and ending with the same node.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "connection cycle: " + strings.Join(e.Path, " -> ")
}

// TypeError reports an input whose connection or value does not match the
// declared type.
type TypeError struct {
	Node  string
	Input string
	Want  string
	Got   string
	Err   error
}

func (e *TypeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("node %s input %s: %v", e.Node, e.Input, e.Err)
	}
	return fmt.Sprintf("node %s input %s: want type %s, got %s", e.Node, e.Input, e.Want, e.Got)
}

func (e *TypeError) Unwrap() error { return e.Err }

// ReferenceError reports a connection to an element that does not exist.
type ReferenceError struct {
	Node   string
	Ref    string
	Reason string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("node %s: %s %q", e.Node, e.Reason, e.Ref)
}
