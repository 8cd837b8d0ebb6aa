package shadergen

import (
	"errors"
	"slices"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/graph"
	"github.com/soypat/shadergen/impl"
	"github.com/soypat/shadergen/syntax"
)

// compoundFunc is a node graph implementation lowered to a function. It is
// defined once per pass and called from every instance.
type compoundFunc struct {
	name   string
	params []syntax.Param
}

// emitCompoundCall emits the call to the function of a compound node,
// defining the function on first use.
func (p *pass) emitCompoundCall(sc *scope, n *graph.Node) error {
	args, err := p.inputExprs(sc, n)
	if err != nil {
		return err
	}
	cf, err := p.compound(n.Impl, n.Def, nil)
	if err != nil {
		return err
	}
	p.emitCall(sc, n, cf.name, args)
	return nil
}

// compound returns the function implementing im, a compound implementation
// of def. When light is set the function takes the light data struct in
// place of the definition inputs and its interface reads the struct fields.
func (p *pass) compound(im impl.Implementation, def *document.NodeDef, light *lightBinding) (*compoundFunc, error) {
	ng := im.Graph
	key := ng.Name
	if light != nil {
		key += "#" + light.dataStruct
	}
	if cf, ok := p.compounds[key]; ok {
		return cf, nil
	}
	if p.active[key] {
		// Cycles are rejected before emission; this guards against
		// definitions resolved differently during emission.
		return nil, &Error{Kind: CyclicCompound, Node: ng.Name, Message: "compound expands itself"}
	}
	p.active[key] = true
	defer delete(p.active, key)

	path := p.name + "/" + ng.Name
	roots := make([]graph.Root, 0, len(def.Outputs))
	for _, port := range def.Outputs {
		out := ng.OutputByName(port.Name)
		if out == nil {
			return nil, &Error{Kind: InvalidGraph, Node: ng.Name, Path: path, Message: "compound lacks output " + port.Name}
		}
		roots = append(roots, graph.Root{Name: port.Name, Type: port.Type, Node: out.NodeName, Output: out.Output})
	}
	g, err := graph.Build(ng.Name, p.doc, ng, roots, p.res.Resolve)
	if err != nil {
		return nil, graphError(err, path)
	}
	p.reserveTemplateFunctions(g)

	cf := &compoundFunc{name: p.alloc(ng.Name, "", "")}
	sc := &scope{fn: cf.name, path: path, iface: make(map[string]string), emitted: make(map[*graph.Output]bool)}
	if light != nil {
		param := p.alloc("light", cf.name, "")
		cf.params = append(cf.params, syntax.Param{Name: param, Type: light.dataStruct})
		for port, field := range light.fields {
			sc.iface[port] = param + "." + field
		}
	} else {
		for _, port := range def.Inputs {
			if !p.syn.HasType(port.Type) {
				continue
			}
			param := p.alloc(port.Name, cf.name, port.Type)
			cf.params = append(cf.params, syntax.Param{Name: param, Type: port.Type})
			sc.iface[port.Name] = param
		}
	}
	outParams := make([]string, len(g.Outputs))
	for i, sock := range g.Outputs {
		outParams[i] = p.alloc(sock.Name, cf.name, sock.Type)
		cf.params = append(cf.params, syntax.Param{Name: outParams[i], Type: sock.Type, Out: true})
	}
	p.allocateOutputs(g, cf.name)
	if p.fatal != nil {
		return nil, p.fatal
	}

	for _, n := range g.Nodes {
		p.emitNode(sc, n)
		if p.fatal != nil {
			return nil, p.fatal
		}
	}
	for i, sock := range g.Outputs {
		sc.body = p.syn.AppendAssign(sc.body, syntax.Indent, p.syn.OutRef(outParams[i]), sock.Source.Variable)
	}
	for _, param := range cf.params {
		p.useType(param.Type)
		p.addVar(Variable{
			Name:       param.Name,
			Type:       param.Type,
			Qualifier:  QualifierLocal,
			Scope:      cf.name,
			Visibility: gputypes.ShaderStageFragment,
		})
	}
	fn := p.syn.AppendFunctionBegin(nil, cf.name, cf.params, "")
	fn = append(fn, sc.body...)
	fn = p.syn.AppendFunctionEnd(fn)
	p.functions = append(p.functions, fn...)
	p.compounds[key] = cf
	p.log.Debug("expanded compound", "graph", ng.Name, "function", cf.name, "nodes", len(g.Nodes))
	return cf, nil
}

// scanCompounds rejects compounds that reference each other, directly or
// transitively, starting from the compounds used by g and by light types.
// It reserves the template functions called by every compound and light on
// the way, so no name allocated later can shadow them.
func (p *pass) scanCompounds(g *graph.Graph) error {
	const (
		white = iota
		gray
		black
	)
	color := make(map[*document.NodeGraph]int)
	var stack []string
	var visit func(ng *document.NodeGraph) error
	visit = func(ng *document.NodeGraph) error {
		switch color[ng] {
		case black:
			return nil
		case gray:
			start := slices.Index(stack, ng.Name)
			cycle := append(slices.Clone(stack[start:]), ng.Name)
			return &Error{
				Kind:    CyclicCompound,
				Node:    ng.Name,
				Path:    strings.Join(cycle, " -> "),
				Message: "compound definitions reference each other",
			}
		}
		color[ng] = gray
		stack = append(stack, ng.Name)
		for _, n := range ng.Nodes {
			def := p.doc.MatchNodeDef(n)
			if def == nil {
				continue
			}
			im, err := p.res.Resolve(def)
			if err != nil {
				continue
			}
			if im.Kind == impl.SourceTemplate && im.Function != "" {
				p.names.Reserve(im.Function)
			}
			if im.Kind != impl.Compound {
				continue
			}
			if err := visit(im.Graph); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		color[ng] = black
		return nil
	}
	for _, n := range g.Nodes {
		if n.ResolveErr == nil && n.Impl.Kind == impl.Compound {
			if err := visit(n.Impl.Graph); err != nil {
				return err
			}
		}
	}
	for _, lb := range p.lights {
		if lb.im.Kind == impl.SourceTemplate {
			p.names.Reserve(lb.im.Function)
		}
		if lb.im.Kind == impl.Compound {
			if err := visit(lb.im.Graph); err != nil {
				return err
			}
		}
	}
	return nil
}

// graphError converts a graph build error to an *Error.
func graphError(err error, path string) error {
	var (
		cycle *graph.CycleError
		typ   *graph.TypeError
		ref   *graph.ReferenceError
	)
	switch {
	case errors.As(err, &cycle):
		return &Error{Kind: CyclicGraph, Node: cycle.Path[0], Path: path, Err: err}
	case errors.As(err, &typ):
		return &Error{Kind: InvalidGraph, Node: typ.Node, Path: path, Err: err}
	case errors.As(err, &ref):
		return &Error{Kind: InvalidGraph, Node: ref.Node, Path: path, Err: err}
	}
	return &Error{Kind: InvalidGraph, Path: path, Err: err}
}
