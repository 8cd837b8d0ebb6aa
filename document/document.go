// Package document is a minimal, read-only representation of a shading node
// graph document: node definitions, node instances, node graphs and
// implementation elements. Parsing documents from disk is left to callers.
package document

import (
	"errors"
	"fmt"
)

// Type names used throughout the document model.
const (
	TypeBoolean       = "boolean"
	TypeInteger       = "integer"
	TypeFloat         = "float"
	TypeVector2       = "vector2"
	TypeVector3       = "vector3"
	TypeVector4       = "vector4"
	TypeColor3        = "color3"
	TypeColor4        = "color4"
	TypeMatrix33      = "matrix33"
	TypeMatrix44      = "matrix44"
	TypeString        = "string"
	TypeFilename      = "filename"
	TypeSurfaceShader = "surfaceshader"
	TypeLightShader   = "lightshader"
)

// DefaultOutputName is the name given to the single output of a node definition
// that does not name its outputs.
const DefaultOutputName = "out"

// Element is implemented by document elements that can be used as the root of
// a shader generation pass: *Output and *Node.
type Element interface {
	ElementName() string
	ElementType() string
}

// Port is an input or output declared by a node definition or node graph interface.
type Port struct {
	Name  string
	Type  string
	Value Value
	// DefaultGeom names a geometric node ("position", "normal", "texcoord")
	// that feeds the port when a node instance leaves it unconnected.
	DefaultGeom string
}

// NodeDef is the declared interface shared by all instances of a kind of node.
type NodeDef struct {
	Name string
	// Node is the node category, i.e: "add", "noise2d", "point_light".
	Node    string
	Inputs  []*Port
	Outputs []*Port
	// OptionalStages lists the stages in which instances may be skipped
	// when no implementation can be resolved.
	OptionalStages []string
}

// Type returns the type of the first output of the node definition.
func (nd *NodeDef) Type() string {
	if len(nd.Outputs) == 0 {
		return ""
	}
	return nd.Outputs[0].Type
}

// Input returns the named input port or nil.
func (nd *NodeDef) Input(name string) *Port {
	for _, p := range nd.Inputs {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Output returns the named output port or nil.
func (nd *NodeDef) Output(name string) *Port {
	for _, p := range nd.Outputs {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// IsOptionalIn reports whether instances of nd may be skipped in stage.
func (nd *NodeDef) IsOptionalIn(stage string) bool {
	for _, s := range nd.OptionalStages {
		if s == stage {
			return true
		}
	}
	return false
}

// Input is a typed input socket of a node instance. It either holds a literal
// value or a connection to another node's output or to an interface input of
// the enclosing graph.
type Input struct {
	Name  string
	Type  string
	Value Value
	// NodeName is the name of the upstream node in the same container.
	NodeName string
	// Output selects the upstream node output. Empty selects the first output.
	Output string
	// InterfaceName connects the input to an input of the enclosing node graph.
	InterfaceName string
	// ColorSpace is the color space the literal value is authored in.
	ColorSpace string
}

// IsConnected reports whether the input is fed by a node or an interface input.
func (in *Input) IsConnected() bool { return in.NodeName != "" || in.InterfaceName != "" }

// Node is a use of a node definition inside a document or node graph.
type Node struct {
	Name     string
	Category string
	Type     string
	// NodeDef optionally names the node definition explicitly. When empty the
	// definition is matched by category and type.
	NodeDef string
	Inputs  []*Input
}

// ElementName implements [Element].
func (n *Node) ElementName() string { return n.Name }

// ElementType implements [Element].
func (n *Node) ElementType() string { return n.Type }

// Input returns the named input or nil.
func (n *Node) Input(name string) *Input {
	for _, in := range n.Inputs {
		if in.Name == name {
			return in
		}
	}
	return nil
}

// input returns the named input, adding it when missing.
func (n *Node) input(name string) *Input {
	in := n.Input(name)
	if in == nil {
		in = &Input{Name: name}
		n.Inputs = append(n.Inputs, in)
	}
	return in
}

// SetValue sets the literal value of the named input and returns the input.
func (n *Node) SetValue(name string, v Value) *Input {
	in := n.input(name)
	in.Value = v
	return in
}

// Connect connects the named input to the output of node upstream. An empty
// output selects the first output.
func (n *Node) Connect(name, upstream, output string) *Input {
	in := n.input(name)
	in.NodeName = upstream
	in.Output = output
	return in
}

// ConnectInterface connects the named input to an input of the enclosing
// node graph.
func (n *Node) ConnectInterface(name, iface string) *Input {
	in := n.input(name)
	in.InterfaceName = iface
	return in
}

// Output is a designated output of a node graph or document. It is connected
// to the output of a node in the same container.
type Output struct {
	Name     string
	Type     string
	NodeName string
	// Output selects the upstream node output. Empty selects the first output.
	Output string
	// container is the node container owning the output, set by AddOutput.
	container Container
}

// ElementName implements [Element].
func (o *Output) ElementName() string { return o.Name }

// ElementType implements [Element].
func (o *Output) ElementType() string { return o.Type }

// Container returns the node container the output belongs to.
func (o *Output) Container() Container { return o.container }

// Container holds node instances that reference each other by name.
type Container interface {
	ContainerName() string
	// Node returns the named node instance or nil.
	Node(name string) *Node
	// NodeIndex returns the declaration index of the named node or -1.
	NodeIndex(name string) int
	// InterfaceInput returns the named interface input or nil.
	InterfaceInput(name string) *Port
}

// NodeGraph is a named collection of nodes and outputs. A node graph whose
// NodeDef is set implements that node definition (a compound implementation).
type NodeGraph struct {
	Name    string
	NodeDef string
	Inputs  []*Port
	Nodes   []*Node
	Outputs []*Output
}

// ContainerName implements [Container].
func (ng *NodeGraph) ContainerName() string { return ng.Name }

// Node implements [Container].
func (ng *NodeGraph) Node(name string) *Node { return findNode(ng.Nodes, name) }

// NodeIndex implements [Container].
func (ng *NodeGraph) NodeIndex(name string) int { return nodeIndex(ng.Nodes, name) }

// InterfaceInput implements [Container].
func (ng *NodeGraph) InterfaceInput(name string) *Port {
	for _, p := range ng.Inputs {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// AddInput declares an interface input of the graph.
func (ng *NodeGraph) AddInput(name, typ string, v Value) *Port {
	p := &Port{Name: name, Type: typ, Value: v}
	ng.Inputs = append(ng.Inputs, p)
	return p
}

// AddNode appends a node to the graph and returns it.
func (ng *NodeGraph) AddNode(category, name, typ string) *Node {
	n := &Node{Name: name, Category: category, Type: typ}
	ng.Nodes = append(ng.Nodes, n)
	return n
}

// AddOutput appends an output connected to nodeName and returns it.
func (ng *NodeGraph) AddOutput(name, typ, nodeName string) *Output {
	o := &Output{Name: name, Type: typ, NodeName: nodeName, container: ng}
	ng.Outputs = append(ng.Outputs, o)
	return o
}

// OutputByName returns the named output or nil.
func (ng *NodeGraph) OutputByName(name string) *Output {
	for _, o := range ng.Outputs {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Implementation binds a node definition to code for a (language, target) pair.
type Implementation struct {
	Name     string
	NodeDef  string
	Language string
	// Target is empty for target-independent implementations.
	Target string
	// File is the path to a source template. Empty for native implementations.
	File string
	// Function names the function defined in File. When empty File holds an
	// inline expression.
	Function string
}

// Document is the top-level container of definitions, implementations, node
// graphs and top-level nodes and outputs.
type Document struct {
	Name            string
	NodeDefs        []*NodeDef
	Implementations []*Implementation
	NodeGraphs      []*NodeGraph
	Nodes           []*Node
	Outputs         []*Output
}

// New returns an empty document.
func New(name string) *Document { return &Document{Name: name} }

// ContainerName implements [Container].
func (d *Document) ContainerName() string { return d.Name }

// Node implements [Container].
func (d *Document) Node(name string) *Node { return findNode(d.Nodes, name) }

// NodeIndex implements [Container].
func (d *Document) NodeIndex(name string) int { return nodeIndex(d.Nodes, name) }

// InterfaceInput implements [Container]. Documents have no interface inputs.
func (d *Document) InterfaceInput(string) *Port { return nil }

// AddNode appends a top-level node and returns it.
func (d *Document) AddNode(category, name, typ string) *Node {
	n := &Node{Name: name, Category: category, Type: typ}
	d.Nodes = append(d.Nodes, n)
	return n
}

// AddOutput appends a top-level output connected to nodeName and returns it.
func (d *Document) AddOutput(name, typ, nodeName string) *Output {
	o := &Output{Name: name, Type: typ, NodeName: nodeName, container: d}
	d.Outputs = append(d.Outputs, o)
	return o
}

// AddNodeGraph appends an empty node graph and returns it.
func (d *Document) AddNodeGraph(name string) *NodeGraph {
	ng := &NodeGraph{Name: name}
	d.NodeGraphs = append(d.NodeGraphs, ng)
	return ng
}

// NodeGraph returns the named node graph or nil.
func (d *Document) NodeGraph(name string) *NodeGraph {
	for _, ng := range d.NodeGraphs {
		if ng.Name == name {
			return ng
		}
	}
	return nil
}

// NodeDef returns the named node definition or nil.
func (d *Document) NodeDef(name string) *NodeDef {
	for _, nd := range d.NodeDefs {
		if nd.Name == name {
			return nd
		}
	}
	return nil
}

// MatchNodeDef returns the node definition an instance conforms to. An
// explicit NodeDef name takes precedence over category and type matching.
func (d *Document) MatchNodeDef(n *Node) *NodeDef {
	if n.NodeDef != "" {
		return d.NodeDef(n.NodeDef)
	}
	for _, nd := range d.NodeDefs {
		if nd.Node == n.Category && nd.Type() == n.Type {
			return nd
		}
	}
	return nil
}

// ImplementationsFor returns the implementation elements bound to a node
// definition in declaration order.
func (d *Document) ImplementationsFor(nodedef string) []*Implementation {
	var impls []*Implementation
	for _, im := range d.Implementations {
		if im.NodeDef == nodedef {
			impls = append(impls, im)
		}
	}
	return impls
}

// NodeGraphFor returns the node graph implementing nodedef or nil.
func (d *Document) NodeGraphFor(nodedef string) *NodeGraph {
	for _, ng := range d.NodeGraphs {
		if ng.NodeDef == nodedef {
			return ng
		}
	}
	return nil
}

// ImportLibrary copies definitions, implementations and implementation
// graphs from lib into d, skipping elements whose name already exists.
func (d *Document) ImportLibrary(lib *Document) {
	for _, nd := range lib.NodeDefs {
		if d.NodeDef(nd.Name) == nil {
			d.NodeDefs = append(d.NodeDefs, nd)
		}
	}
	have := make(map[string]bool, len(d.Implementations))
	for _, im := range d.Implementations {
		have[im.Name] = true
	}
	for _, im := range lib.Implementations {
		if !have[im.Name] {
			d.Implementations = append(d.Implementations, im)
		}
	}
	for _, ng := range lib.NodeGraphs {
		if d.NodeGraph(ng.Name) == nil {
			d.NodeGraphs = append(d.NodeGraphs, ng)
		}
	}
}

// Validate performs reference checks on top-level nodes and outputs and on
// all node graphs: every connection names an existing node in its container
// and every node has a matching node definition.
func (d *Document) Validate() error {
	var errs []error
	check := func(c Container, nodes []*Node, outputs []*Output) {
		for _, n := range nodes {
			if d.MatchNodeDef(n) == nil {
				errs = append(errs, fmt.Errorf("%s/%s: no nodedef for category %q type %q", c.ContainerName(), n.Name, n.Category, n.Type))
			}
			for _, in := range n.Inputs {
				if in.NodeName != "" && c.Node(in.NodeName) == nil {
					errs = append(errs, fmt.Errorf("%s/%s: input %q connects to missing node %q", c.ContainerName(), n.Name, in.Name, in.NodeName))
				}
				if in.InterfaceName != "" && c.InterfaceInput(in.InterfaceName) == nil {
					errs = append(errs, fmt.Errorf("%s/%s: input %q connects to missing interface %q", c.ContainerName(), n.Name, in.Name, in.InterfaceName))
				}
			}
		}
		for _, o := range outputs {
			if c.Node(o.NodeName) == nil {
				errs = append(errs, fmt.Errorf("%s/%s: output connects to missing node %q", c.ContainerName(), o.Name, o.NodeName))
			}
		}
	}
	check(d, d.Nodes, d.Outputs)
	for _, ng := range d.NodeGraphs {
		check(ng, ng.Nodes, ng.Outputs)
	}
	return errors.Join(errs...)
}

func findNode(nodes []*Node, name string) *Node {
	if i := nodeIndex(nodes, name); i >= 0 {
		return nodes[i]
	}
	return nil
}

func nodeIndex(nodes []*Node, name string) int {
	for i, n := range nodes {
		if n.Name == name {
			return i
		}
	}
	return -1
}

// OutputContainer returns the container owning o, searching the document's
// top-level outputs and node graphs when o was not created through AddOutput.
func (d *Document) OutputContainer(o *Output) Container {
	if o.container != nil {
		return o.container
	}
	for _, out := range d.Outputs {
		if out == o {
			return d
		}
	}
	for _, ng := range d.NodeGraphs {
		for _, out := range ng.Outputs {
			if out == o {
				return ng
			}
		}
	}
	return nil
}
