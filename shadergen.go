// Package shadergen compiles shading node graphs into shader source code.
//
// A [Generator] is bound to one target syntax. Each call to
// [Generator.Generate] is a self-contained pass: it builds the graph of nodes
// reachable from the requested root, binds light types, allocates names and
// emits the source of every stage. Generators are safe for concurrent use.
package shadergen

import (
	"errors"
	"fmt"

	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/graph"
	"github.com/soypat/shadergen/syntax"
)

// SourceLocator finds source template files. [impl.SearchPath] implements it.
type SourceLocator interface {
	// Find returns the resolved path of file.
	Find(file string) (string, error)
	// Locate returns the contents of file.
	Locate(file string) (string, error)
}

// ColorManagementSystem converts color values between color spaces.
type ColorManagementSystem interface {
	// Transform returns expr, a value of type typ in color space from,
	// converted to color space to. ok is false if the transform is unsupported.
	Transform(s *syntax.Syntax, from, to, typ, expr string) (result string, ok bool)
}

// Config holds the collaborators of a Generator. Only Syntax is required.
type Config struct {
	Syntax *syntax.Syntax
	// Natives holds the native emitters. It is frozen by NewGenerator.
	Natives *Registry
	// Sources locates source template files.
	Sources SourceLocator
	// ColorManagement transforms color inputs to the target color space.
	ColorManagement ColorManagementSystem
}

// Generator generates shaders for one target syntax.
type Generator struct {
	syntax  *syntax.Syntax
	natives *Registry
	sources SourceLocator
	cms     ColorManagementSystem
}

// NewGenerator returns a Generator using the collaborators in cfg.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.Syntax == nil {
		return nil, errors.New("shadergen: nil syntax")
	}
	if cfg.Natives == nil {
		cfg.Natives = NewRegistry()
	}
	cfg.Natives.Freeze()
	return &Generator{
		syntax:  cfg.Syntax,
		natives: cfg.Natives,
		sources: cfg.Sources,
		cms:     cfg.ColorManagement,
	}, nil
}

// Syntax returns the target syntax of g.
func (g *Generator) Syntax() *syntax.Syntax { return g.syntax }

// Generate generates the shader named shaderName for root, a top-level or
// node graph *document.Output or a *document.Node. doc is never modified.
//
// Structural errors abort generation. Errors of individual nodes are
// returned joined when opts.FailurePolicy is AbortOnError; under Partial an
// invalid shader is returned together with them.
func (g *Generator) Generate(doc *document.Document, shaderName string, root document.Element, opts GenOptions) (*Shader, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	scope, roots, err := rootOf(doc, root)
	if err != nil {
		return nil, err
	}
	p := newPass(g, doc, shaderName, opts)
	return p.run(scope, roots)
}

// rootOf returns the container holding root and the graph roots for it.
func rootOf(doc *document.Document, root document.Element) (document.Container, []graph.Root, error) {
	switch r := root.(type) {
	case *document.Output:
		scope := doc.OutputContainer(r)
		if scope == nil {
			return nil, nil, &Error{Kind: InvalidGraph, Node: r.Name, Message: "output not part of document"}
		}
		return scope, []graph.Root{{Name: r.Name, Type: r.Type, Node: r.NodeName, Output: r.Output}}, nil
	case *document.Node:
		if doc.Node(r.Name) == r {
			return doc, []graph.Root{{Name: document.DefaultOutputName, Type: r.Type, Node: r.Name}}, nil
		}
		for _, ng := range doc.NodeGraphs {
			if ng.Node(r.Name) == r {
				return ng, []graph.Root{{Name: document.DefaultOutputName, Type: r.Type, Node: r.Name}}, nil
			}
		}
		return nil, nil, &Error{Kind: InvalidGraph, Node: r.Name, Message: "node not part of document"}
	case nil:
		return nil, nil, &Error{Kind: InvalidGraph, Message: "nil root element"}
	}
	return nil, nil, &Error{Kind: InvalidGraph, Message: fmt.Sprintf("unsupported root element %T", root)}
}

// FindRenderableElements returns the elements of doc worth generating a
// shader for: top-level outputs and top-level surface shader nodes.
func FindRenderableElements(doc *document.Document) []document.Element {
	var elems []document.Element
	for _, o := range doc.Outputs {
		elems = append(elems, o)
	}
	for _, n := range doc.Nodes {
		if n.Type == document.TypeSurfaceShader {
			elems = append(elems, n)
		}
	}
	return elems
}
