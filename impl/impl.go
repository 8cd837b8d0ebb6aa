// Package impl resolves node definitions to the implementation bound for a
// (language, target) pair.
package impl

import (
	"fmt"

	"github.com/soypat/shadergen/document"
)

// Kind is the implementation variant.
type Kind uint8

const (
	// Native implementations are emitted by code registered in-process.
	Native Kind = iota + 1
	// SourceTemplate implementations are target source text with
	// {{input}} placeholders, either an inline expression or a function.
	SourceTemplate
	// Compound implementations are node graphs expanded into functions.
	Compound
)

func (k Kind) String() string {
	switch k {
	case Native:
		return "native"
	case SourceTemplate:
		return "source"
	case Compound:
		return "compound"
	}
	return "Kind(" + fmt.Sprint(uint8(k)) + ")"
}

// Implementation is the resolved implementation of a node definition. Only the
// fields relevant to Kind are set.
type Implementation struct {
	Kind     Kind
	Name     string
	NodeDef  string
	Language string
	Target   string
	// File is the unresolved source template path of SourceTemplate.
	File string
	// Function names the function in File. Empty for inline templates.
	Function string
	// Graph is the unexpanded node graph of Compound.
	Graph *document.NodeGraph
}

// IsInline reports whether im is an inline expression template.
func (im Implementation) IsInline() bool { return im.Kind == SourceTemplate && im.Function == "" }

// String returns a short description of im for logs and errors.
func (im Implementation) String() string {
	switch im.Kind {
	case SourceTemplate:
		return im.Kind.String() + ":" + im.File
	case Compound:
		return im.Kind.String() + ":" + im.Graph.Name
	}
	return im.Kind.String() + ":" + im.Name
}

// NotFoundError is returned when no implementation of NodeDef exists for the
// language and target of a [Resolver].
type NotFoundError struct {
	NodeDef  string
	Language string
	Target   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no implementation of %s for %s/%s", e.NodeDef, e.Language, e.Target)
}
