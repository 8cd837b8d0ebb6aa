// Package graph builds the acyclic shader graph of one generation pass from
// the node instances reachable from a set of root outputs.
package graph

import (
	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/impl"
)

// Graph is a typed, acyclic graph of the nodes reachable from its outputs.
// Nodes are stored in emission order: every node appears after the nodes
// feeding it and independent nodes keep document declaration order.
type Graph struct {
	Name    string
	Nodes   []*Node
	Outputs []*Socket
}

// Node returns the named node or nil.
func (g *Graph) Node(name string) *Node {
	for _, n := range g.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Unresolved returns the nodes without an implementation, in emission order.
func (g *Graph) Unresolved() []*Node {
	var nodes []*Node
	for _, n := range g.Nodes {
		if n.ResolveErr != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Node wraps a node instance with its definition and implementation.
type Node struct {
	Name string
	// Instance is nil for implicit geometric nodes added to feed
	// unconnected inputs with a default geometric property.
	Instance *document.Node
	Def      *document.NodeDef
	Impl     impl.Implementation
	// ResolveErr is set when no implementation was found.
	ResolveErr error
	// Inputs follow the order of the definition inputs.
	Inputs  []*Input
	Outputs []*Output
}

// Implicit reports whether n was added by the builder.
func (n *Node) Implicit() bool { return n.Instance == nil }

// Input returns the named input or nil.
func (n *Node) Input(name string) *Input {
	for _, in := range n.Inputs {
		if in.Name == name {
			return in
		}
	}
	return nil
}

// Output returns the named output or nil. An empty name selects the first output.
func (n *Node) Output(name string) *Output {
	if name == "" && len(n.Outputs) > 0 {
		return n.Outputs[0]
	}
	for _, out := range n.Outputs {
		if out.Name == name {
			return out
		}
	}
	return nil
}

// Input is an input of a graph node. At most one of Source and Interface
// is set. Unconnected inputs hold Value, which may be nil.
type Input struct {
	Name       string
	Type       string
	Value      document.Value
	ColorSpace string
	// Source is the upstream output feeding the input.
	Source *Output
	// Interface names the enclosing graph input feeding the input.
	Interface string
	// Variable is the uniform or constant name given to an unconnected
	// input during emission, if any.
	Variable string
}

// Connected reports whether the input is fed by a node or an interface input.
func (in *Input) Connected() bool { return in.Source != nil || in.Interface != "" }

// Output is an output of a graph node.
type Output struct {
	Name string
	Type string
	Node *Node
	// Variable is the name allocated for the output during emission.
	Variable string
}

// Socket is a designated output of the graph.
type Socket struct {
	Name   string
	Type   string
	Source *Output
	// Variable is the name allocated for the socket during emission.
	Variable string
}
