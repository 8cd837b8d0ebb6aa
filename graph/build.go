package graph

import (
	"fmt"
	"slices"

	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/impl"
)

// Library matches node instances to their definitions.
// [*document.Document] implements Library.
type Library interface {
	MatchNodeDef(n *document.Node) *document.NodeDef
}

// ResolveFunc returns the implementation of a node definition.
type ResolveFunc func(def *document.NodeDef) (impl.Implementation, error)

// Root designates a graph output: the output of node Node named Output
// (empty selects the first output) exposed as a socket named Name.
type Root struct {
	Name   string
	Type   string
	Node   string
	Output string
}

// ImplicitPrefix prefixes the names of implicit geometric nodes.
const ImplicitPrefix = "geomprop_"

// Build walks scope backwards from roots and returns the graph of reachable
// nodes. Structural problems are returned as *CycleError, *TypeError or
// *ReferenceError and no graph is returned. Implementation lookups that fail
// do not fail the build; they are recorded on the node, see [Graph.Unresolved].
func Build(name string, lib Library, scope document.Container, roots []Root, resolve ResolveFunc) (*Graph, error) {
	b := &builder{
		lib:        lib,
		scope:      scope,
		resolve:    resolve,
		byInstance: make(map[*document.Node]*Node),
		state:      make(map[*document.Node]visitState),
		implicit:   make(map[string]*Node),
		keys:       make(map[*Node]int),
	}
	g := &Graph{Name: name}
	for _, root := range roots {
		inst := scope.Node(root.Node)
		if inst == nil {
			return nil, &ReferenceError{Node: root.Name, Ref: root.Node, Reason: "output connects to missing node"}
		}
		n, err := b.visit(inst)
		if err != nil {
			return nil, err
		}
		out := n.Output(root.Output)
		if out == nil {
			return nil, &ReferenceError{Node: root.Name, Ref: root.Output, Reason: "output connects to missing node output"}
		}
		if root.Type != "" && root.Type != out.Type {
			return nil, &TypeError{Node: root.Name, Input: root.Name, Want: root.Type, Got: out.Type}
		}
		g.Outputs = append(g.Outputs, &Socket{Name: root.Name, Type: out.Type, Source: out})
	}
	g.Nodes = b.sort()
	return g, nil
}

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	visited
)

type builder struct {
	lib        Library
	scope      document.Container
	resolve    ResolveFunc
	byInstance map[*document.Node]*Node
	state      map[*document.Node]visitState
	implicit   map[string]*Node
	// keys orders independent nodes: implicit nodes first in creation
	// order, then instances in declaration order.
	keys  map[*Node]int
	nodes []*Node
	stack []string
}

// visit adds inst and everything upstream of it depth first. Meeting a node
// still being visited closes a cycle.
func (b *builder) visit(inst *document.Node) (*Node, error) {
	switch b.state[inst] {
	case visited:
		return b.byInstance[inst], nil
	case visiting:
		start := slices.Index(b.stack, inst.Name)
		path := append(slices.Clone(b.stack[start:]), inst.Name)
		return nil, &CycleError{Path: path}
	}
	b.state[inst] = visiting
	b.stack = append(b.stack, inst.Name)

	def := b.lib.MatchNodeDef(inst)
	if def == nil {
		return nil, &ReferenceError{Node: inst.Name, Ref: inst.Category + "/" + inst.Type, Reason: "no node definition for"}
	}
	for _, in := range inst.Inputs {
		if def.Input(in.Name) == nil {
			return nil, &ReferenceError{Node: inst.Name, Ref: in.Name, Reason: "definition " + def.Name + " declares no input"}
		}
	}
	n := newNode(inst.Name, inst, def)
	for _, gi := range n.Inputs {
		if err := b.connect(n, gi, inst.Input(gi.Name), def.Input(gi.Name)); err != nil {
			return nil, err
		}
	}
	n.Impl, n.ResolveErr = b.resolve(def)

	b.stack = b.stack[:len(b.stack)-1]
	b.state[inst] = visited
	b.byInstance[inst] = n
	b.keys[n] = b.scope.NodeIndex(inst.Name)
	b.add(n)
	return n, nil
}

func newNode(name string, inst *document.Node, def *document.NodeDef) *Node {
	n := &Node{Name: name, Instance: inst, Def: def}
	for _, port := range def.Outputs {
		n.Outputs = append(n.Outputs, &Output{Name: port.Name, Type: port.Type, Node: n})
	}
	for _, port := range def.Inputs {
		n.Inputs = append(n.Inputs, &Input{Name: port.Name, Type: port.Type, Value: port.Value})
	}
	return n
}

// connect binds gi to what feeds it: an upstream node output, an interface
// input, a literal, or an implicit geometric node.
func (b *builder) connect(n *Node, gi *Input, di *document.Input, port *document.Port) error {
	if di != nil {
		if di.Type != "" && di.Type != port.Type {
			return &TypeError{Node: n.Name, Input: gi.Name, Want: port.Type, Got: di.Type}
		}
		gi.ColorSpace = di.ColorSpace
	}
	switch {
	case di != nil && di.NodeName != "":
		up := b.scope.Node(di.NodeName)
		if up == nil {
			return &ReferenceError{Node: n.Name, Ref: di.NodeName, Reason: "input " + gi.Name + " connects to missing node"}
		}
		upNode, err := b.visit(up)
		if err != nil {
			return err
		}
		out := upNode.Output(di.Output)
		if out == nil {
			return &ReferenceError{Node: n.Name, Ref: di.NodeName + "." + di.Output, Reason: "input " + gi.Name + " connects to missing output"}
		}
		if out.Type != port.Type {
			return &TypeError{Node: n.Name, Input: gi.Name, Want: port.Type, Got: out.Type}
		}
		gi.Source = out
	case di != nil && di.InterfaceName != "":
		iface := b.scope.InterfaceInput(di.InterfaceName)
		if iface == nil {
			return &ReferenceError{Node: n.Name, Ref: di.InterfaceName, Reason: "input " + gi.Name + " connects to missing interface input"}
		}
		if iface.Type != port.Type {
			return &TypeError{Node: n.Name, Input: gi.Name, Want: port.Type, Got: iface.Type}
		}
		gi.Interface = di.InterfaceName
	case di != nil && di.Value != nil:
		if err := document.CheckValue(port.Type, di.Value); err != nil {
			return &TypeError{Node: n.Name, Input: gi.Name, Want: port.Type, Got: fmt.Sprintf("%T", di.Value), Err: err}
		}
		gi.Value = di.Value
	case port.DefaultGeom != "":
		geo, err := b.implicitNode(port.DefaultGeom, port.Type)
		if err != nil {
			return err
		}
		gi.Source = geo.Outputs[0]
	}
	return nil
}

// implicitNode returns the shared geometric node for geom, creating it on
// first use.
func (b *builder) implicitNode(geom, typ string) (*Node, error) {
	key := geom + "/" + typ
	if n, ok := b.implicit[key]; ok {
		return n, nil
	}
	name := ImplicitPrefix + geom
	def := b.lib.MatchNodeDef(&document.Node{Name: name, Category: geom, Type: typ})
	if def == nil || len(def.Outputs) == 0 {
		return nil, &ReferenceError{Node: name, Ref: geom + "/" + typ, Reason: "no node definition for default geometry"}
	}
	n := newNode(name, nil, def)
	n.Impl, n.ResolveErr = b.resolve(def)
	// Implicit nodes sort before every declared node.
	b.keys[n] = -1<<30 + len(b.implicit)
	b.implicit[key] = n
	b.add(n)
	return n, nil
}

func (b *builder) add(n *Node) { b.nodes = append(b.nodes, n) }

// sort orders nodes topologically. Among nodes whose inputs are all
// satisfied the one with the smallest key is emitted first.
func (b *builder) sort() []*Node {
	pending := make(map[*Node]int, len(b.nodes))
	consumers := make(map[*Node][]*Node)
	for _, n := range b.nodes {
		for _, in := range n.Inputs {
			if in.Source != nil {
				pending[n]++
				up := in.Source.Node
				consumers[up] = append(consumers[up], n)
			}
		}
	}
	byKey := func(a, c *Node) int { return b.keys[a] - b.keys[c] }
	var ready []*Node
	for _, n := range b.nodes {
		if pending[n] == 0 {
			ready = append(ready, n)
		}
	}
	slices.SortFunc(ready, byKey)
	sorted := make([]*Node, 0, len(b.nodes))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		sorted = append(sorted, n)
		for _, c := range consumers[n] {
			pending[c]--
			if pending[c] == 0 {
				i, _ := slices.BinarySearchFunc(ready, c, byKey)
				ready = slices.Insert(ready, i, c)
			}
		}
	}
	return sorted
}
