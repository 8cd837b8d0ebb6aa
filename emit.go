package shadergen

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/graph"
	"github.com/soypat/shadergen/impl"
	"github.com/soypat/shadergen/naming"
	"github.com/soypat/shadergen/syntax"
)

// Struct types shared by generated code and source templates.
var closureTypes = []struct {
	typ     string
	members []syntax.Member
}{
	{document.TypeSurfaceShader, []syntax.Member{
		{Name: "color", Type: document.TypeColor3},
		{Name: "transparency", Type: document.TypeColor3},
	}},
	{document.TypeLightShader, []syntax.Member{
		{Name: "intensity", Type: document.TypeColor3},
		{Name: "direction", Type: document.TypeVector3},
	}},
}

// pass is the state of one generation pass. Nothing in it outlives Generate.
type pass struct {
	gen   *Generator
	syn   *syntax.Syntax
	doc   *document.Document
	opts  GenOptions
	name  string
	log   *slog.Logger
	names *naming.Allocator
	res   *impl.Resolver

	// fatal is the first structural error. Once set the pass stops.
	fatal error
	// errs are the node errors subject to the failure policy.
	errs []error

	sources   map[string]string
	included  map[string]bool
	compounds map[string]*compoundFunc
	active    map[string]bool
	lights    []*lightBinding
	lightLoop string

	usedTypes  map[string]bool
	functions  []byte
	lightDecls []byte
	public     []syntax.Member
	constants  []byte
	vertexData []vertexDatum
	vars       []Variable
	// iface binds the interface inputs of a root node graph to their
	// published expressions.
	iface map[string]string

	publicBlock, publicInstance   string
	privateBlock, privateInstance string
	private                       [3]string
	hPositionWorld                string
}

// scope is a function body being emitted: main or a compound function.
type scope struct {
	fn      string
	path    string
	top     bool
	body    []byte
	iface   map[string]string
	emitted map[*graph.Output]bool
}

func newPass(g *Generator, doc *document.Document, name string, opts GenOptions) *pass {
	p := &pass{
		gen:       g,
		syn:       g.syntax,
		doc:       doc,
		opts:      opts,
		name:      name,
		log:       Logger().With("shader", name, "target", g.syntax.Target()),
		names:     naming.New(g.syntax),
		sources:   make(map[string]string),
		included:  make(map[string]bool),
		compounds: make(map[string]*compoundFunc),
		active:    make(map[string]bool),
		usedTypes: make(map[string]bool),
		iface:     make(map[string]string),
	}
	p.res = impl.NewResolver(doc, p.syn.Language(), p.syn.Target(), g.natives)
	return p
}

// run performs graph build, light binding and stage emission in order.
func (p *pass) run(container document.Container, roots []graph.Root) (*Shader, error) {
	g, err := graph.Build(p.name, p.doc, container, roots, p.res.Resolve)
	if err != nil {
		return nil, graphError(err, p.name)
	}
	p.log.Debug("graph built", "nodes", len(g.Nodes), "unresolved", len(g.Unresolved()))
	if err := p.bindLights(); err != nil {
		return nil, err
	}
	if err := p.scanCompounds(g); err != nil {
		return nil, err
	}

	p.reserve()
	p.allocateGraph(g, container)
	if p.fatal != nil {
		return nil, p.fatal
	}
	sources := make(map[string]string, 2)
	sources[syntax.StagePixel] = p.emitPixel(g)
	if p.fatal != nil {
		return nil, p.fatal
	}
	stages := []string{syntax.StagePixel}
	if p.opts.EmitVertexStage {
		sources[syntax.StageVertex] = p.emitVertex()
		stages = []string{syntax.StageVertex, syntax.StagePixel}
	}
	if p.fatal != nil {
		return nil, p.fatal
	}

	nodeErrs := errors.Join(p.errs...)
	if nodeErrs != nil && p.opts.FailurePolicy == AbortOnError {
		return nil, nodeErrs
	}
	if nodeErrs != nil {
		p.log.Warn("partial shader generated", "errors", len(p.errs))
	}
	lights := make([]LightType, len(p.lights))
	for i, lb := range p.lights {
		lights[i] = lb.lt
	}
	return &Shader{
		name:     p.name,
		stages:   stages,
		sources:  sources,
		vars:     p.vars,
		graph:    g,
		lights:   lights,
		errs:     nodeErrs,
		language: p.syn.Language(),
		target:   p.syn.Target(),
	}, nil
}

// fail records a structural error. Only the first is kept.
func (p *pass) fail(err error) {
	if p.fatal == nil {
		p.fatal = err
	}
}

// alloc allocates a name. Exhaustion is structural and recorded with fail.
func (p *pass) alloc(candidate, owner, typ string) string {
	name, err := p.names.Allocate(candidate, owner, typ)
	if err != nil {
		p.fail(&Error{Kind: NameCollisionUnresolvable, Node: owner, Err: err})
		return candidate
	}
	return name
}

func (p *pass) addVar(v Variable) { p.vars = append(p.vars, v) }

// reserve claims the names of the stage scaffolding and the uniform blocks
// before any graph name is allocated.
func (p *pass) reserve() {
	p.names.Reserve(p.syn.ReservedNames()...)
	for _, ct := range closureTypes {
		p.names.Reserve(ct.typ)
	}
	if p.opts.ShaderInterface == InterfaceComplete {
		p.publicBlock = p.alloc("PublicUniforms", "", "")
		p.publicInstance = p.alloc("u_public", "", "")
	}
	if p.opts.EmitVertexStage {
		p.privateBlock = p.alloc("PrivateUniforms", "", "")
		p.privateInstance = p.alloc("u_private", "", "")
		for i, name := range [3]string{"u_worldMatrix", "u_viewProjectionMatrix", "u_worldInverseTransposeMatrix"} {
			p.private[i] = p.alloc(name, "", document.TypeMatrix44)
			p.addVar(Variable{
				Name:       p.private[i],
				Type:       document.TypeMatrix44,
				Qualifier:  QualifierUniform,
				Block:      p.privateInstance,
				Binding:    p.opts.UniformBindingBase,
				Visibility: gputypes.ShaderStageVertex,
			})
		}
		p.hPositionWorld = p.alloc("hPositionWorld", "", "")
	}
}

// allocateGraph names the material graph: node outputs in emission order,
// then the output sockets, then the published inputs. When container is a
// node graph its interface inputs read by g are published once each.
func (p *pass) allocateGraph(g *graph.Graph, container document.Container) {
	p.reserveTemplateFunctions(g)
	p.allocateOutputs(g, "")
	for _, sock := range g.Outputs {
		sock.Variable = p.alloc(sock.Name, p.name, sock.Type)
		p.addVar(Variable{
			Name:       sock.Variable,
			Type:       document.TypeVector4,
			Qualifier:  QualifierOutput,
			Visibility: gputypes.ShaderStageFragment,
		})
	}
	for _, n := range g.Nodes {
		if n.Implicit() {
			continue
		}
		for _, in := range n.Inputs {
			if in.Interface != "" {
				p.publishInterface(container, n, in.Interface)
			}
			if in.Connected() || !p.syn.IsHostShareable(in.Type) {
				continue
			}
			in.Variable = p.publish(n.Name, n.Name+"_"+in.Name, in.Type, in.Value)
		}
	}
}

// publishInterface publishes the interface input iface of a root node
// graph the first time a node of the graph reads it.
func (p *pass) publishInterface(container document.Container, n *graph.Node, iface string) {
	ng, ok := container.(*document.NodeGraph)
	if !ok {
		return
	}
	if _, done := p.iface[iface]; done {
		return
	}
	port := ng.InterfaceInput(iface)
	if port == nil || !p.syn.IsHostShareable(port.Type) {
		return
	}
	name := p.publish(n.Name, port.Name, port.Type, port.Value)
	p.iface[iface] = p.publishedRef(name)
}

// publish declares a uniform or constant holding value and returns its name.
func (p *pass) publish(owner, candidate, typ string, value document.Value) string {
	name := p.alloc(candidate, owner, typ)
	v := Variable{
		Name:       name,
		Type:       typ,
		Value:      value,
		Visibility: gputypes.ShaderStageFragment,
	}
	if p.opts.ShaderInterface == InterfaceReduced {
		lit, err := p.syn.Literal(typ, value)
		if err != nil {
			p.fail(&Error{Kind: InvalidGraph, Node: owner, Path: p.name + "/" + owner, Err: err})
			return name
		}
		p.constants = p.syn.AppendConstDecl(p.constants, typ, name, lit)
		v.Qualifier = QualifierConstant
	} else {
		p.public = append(p.public, syntax.Member{Name: name, Type: typ})
		v.Qualifier = QualifierUniform
		v.Block = p.publicInstance
		v.Binding = p.opts.UniformBindingBase + 1
	}
	p.addVar(v)
	return name
}

// publishedRef returns the main function expression reading a published
// variable.
func (p *pass) publishedRef(name string) string {
	if p.opts.ShaderInterface == InterfaceComplete {
		return p.publicInstance + "." + name
	}
	return name
}

// allocateOutputs names every node output of g. fn is the enclosing
// function, empty for main.
func (p *pass) allocateOutputs(g *graph.Graph, fn string) {
	for _, n := range g.Nodes {
		for _, out := range n.Outputs {
			out.Variable = p.alloc(n.Name+"_"+out.Name, n.Name, out.Type)
			p.addVar(Variable{
				Name:       out.Variable,
				Type:       out.Type,
				Qualifier:  QualifierLocal,
				Scope:      fn,
				Visibility: gputypes.ShaderStageFragment,
			})
		}
	}
}

// reserveTemplateFunctions claims the function names defined by the source
// templates g calls so no variable shadows them.
func (p *pass) reserveTemplateFunctions(g *graph.Graph) {
	for _, n := range g.Nodes {
		if n.ResolveErr == nil && n.Impl.Kind == impl.SourceTemplate && n.Impl.Function != "" {
			p.names.Reserve(n.Impl.Function)
		}
	}
}

// emitPixel returns the pixel stage source.
func (p *pass) emitPixel(g *graph.Graph) string {
	p.emitLights()
	if p.fatal != nil {
		return ""
	}
	main := &scope{path: p.name, top: true, iface: p.iface, emitted: make(map[*graph.Output]bool)}
	for _, n := range g.Nodes {
		p.emitNode(main, n)
		if p.fatal != nil {
			return ""
		}
	}
	var outputs []syntax.Member
	for _, sock := range g.Outputs {
		expr, err := p.syn.ToVec4(sock.Type, sock.Source.Variable)
		if err != nil {
			p.fail(&Error{Kind: InvalidGraph, Node: sock.Name, Path: p.name + "/" + sock.Name, Err: err})
			return ""
		}
		main.body = p.syn.AppendAssign(main.body, syntax.Indent, sock.Variable, expr)
		outputs = append(outputs, syntax.Member{Name: sock.Variable, Type: document.TypeVector4})
	}

	var decl []byte
	for _, ct := range closureTypes {
		if p.usedTypes[ct.typ] {
			decl = p.syn.AppendStructDecl(decl, p.syn.TypeName(ct.typ), ct.members)
		}
	}
	decl = append(decl, p.lightDecls...)
	if len(p.public) > 0 {
		decl = p.syn.AppendUniformBlock(decl, p.publicBlock, p.publicInstance, p.opts.UniformBindingBase+1, p.public)
	}
	if len(p.constants) > 0 {
		decl = append(decl, p.constants...)
		decl = append(decl, '\n')
	}
	var inputs []syntax.Member
	for _, vd := range p.vertexData {
		inputs = append(inputs, syntax.Member{Name: vd.name, Type: vd.datum.Type()})
	}
	return string(p.syn.AppendStage(nil, syntax.StageParts{
		Stage:        syntax.StagePixel,
		Declarations: decl,
		Inputs:       inputs,
		Outputs:      outputs,
		Functions:    p.functions,
		Body:         main.body,
	}))
}

// emitNode appends the code of n to sc. Node errors are collected; a node
// that fails declares its outputs with default values so the rest of the
// program stays well formed.
func (p *pass) emitNode(sc *scope, n *graph.Node) {
	path := sc.path + "/" + n.Name
	if n.ResolveErr != nil {
		if n.Def.IsOptionalIn(syntax.StagePixel) {
			p.log.Warn("skipping optional node without implementation", "node", path)
		} else {
			p.nodeError(&Error{Kind: ResolutionFailure, Node: n.Name, Path: path, Err: n.ResolveErr})
		}
		p.declareDefaults(sc, n)
		return
	}
	var err error
	switch n.Impl.Kind {
	case impl.Native:
		err = p.emitNative(sc, n)
	case impl.SourceTemplate:
		err = p.emitTemplate(sc, n)
	case impl.Compound:
		err = p.emitCompoundCall(sc, n)
	}
	if err != nil {
		var gerr *Error
		if !errors.As(err, &gerr) {
			gerr = &Error{Kind: InvalidGraph, Node: n.Name, Path: path, Err: err}
		} else if gerr.Path == "" {
			gerr.Path = path
		}
		p.nodeError(gerr)
	}
	p.declareDefaults(sc, n)
}

// nodeError collects a per node error, unless it is structural.
func (p *pass) nodeError(err *Error) {
	switch err.Kind {
	case ResolutionFailure, SourceNotFound, InvalidGraph:
		p.errs = append(p.errs, err)
	default:
		p.fail(err)
	}
}

// declareDefaults declares the outputs of n not declared yet.
func (p *pass) declareDefaults(sc *scope, n *graph.Node) {
	for _, out := range n.Outputs {
		if sc.emitted[out] {
			continue
		}
		zero, err := p.syn.DefaultValue(out.Type)
		if err != nil {
			p.fail(&Error{Kind: InvalidGraph, Node: n.Name, Path: sc.path + "/" + n.Name, Err: err})
			return
		}
		p.declare(sc, out, zero)
	}
}

// declare appends the declaration of out initialized to expr.
func (p *pass) declare(sc *scope, out *graph.Output, expr string) {
	p.useType(out.Type)
	sc.body = p.syn.AppendLocalDecl(sc.body, syntax.Indent, out.Type, out.Variable, expr)
	sc.emitted[out] = true
}

func (p *pass) useType(typ string) {
	if typ == document.TypeSurfaceShader || typ == document.TypeLightShader {
		p.usedTypes[typ] = true
	}
}

// inputExpr returns the expression reading in within sc.
func (p *pass) inputExpr(sc *scope, in *graph.Input) (string, error) {
	var expr string
	switch {
	case in.Source != nil:
		return in.Source.Variable, nil
	case in.Interface != "":
		e, ok := sc.iface[in.Interface]
		if !ok {
			return "", &Error{Kind: InvalidGraph, Message: "unbound interface input " + in.Interface}
		}
		if !sc.top {
			return e, nil
		}
		expr = e
	case in.Variable != "" && sc.top:
		expr = p.publishedRef(in.Variable)
	default:
		lit, err := p.syn.Literal(in.Type, in.Value)
		if err != nil {
			return "", err
		}
		expr = lit
	}
	return p.colorTransform(in, expr), nil
}

// colorTransform converts an authored color to the target color space.
func (p *pass) colorTransform(in *graph.Input, expr string) string {
	cms := p.gen.cms
	if cms == nil || in.ColorSpace == "" || in.ColorSpace == p.opts.TargetColorSpace {
		return expr
	}
	if in.Type != document.TypeColor3 && in.Type != document.TypeColor4 {
		return expr
	}
	result, ok := cms.Transform(p.syn, in.ColorSpace, p.opts.TargetColorSpace, in.Type, expr)
	if !ok {
		p.log.Debug("no color transform", "from", in.ColorSpace, "to", p.opts.TargetColorSpace)
		return expr
	}
	return result
}

// inputExprs returns the expressions of all inputs of n in definition order.
func (p *pass) inputExprs(sc *scope, n *graph.Node) ([]string, error) {
	exprs := make([]string, len(n.Inputs))
	for i, in := range n.Inputs {
		e, err := p.inputExpr(sc, in)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	return exprs, nil
}

func (p *pass) emitNative(sc *scope, n *graph.Node) error {
	e, ok := p.gen.natives.Emitter(n.Impl.Name)
	if !ok {
		return &Error{Kind: ResolutionFailure, Node: n.Name, Message: "native emitter " + n.Impl.Name + " not registered"}
	}
	return e.EmitNode(&Context{p: p, sc: sc, node: n}, n)
}

// source returns the text of a template file, locating it once per pass.
func (p *pass) source(file string) (string, error) {
	if src, ok := p.sources[file]; ok {
		return src, nil
	}
	if p.gen.sources == nil {
		return "", &Error{Kind: SourceNotFound, Message: file, Err: impl.ErrSourceNotFound}
	}
	src, err := p.gen.sources.Locate(file)
	if err != nil {
		return "", &Error{Kind: SourceNotFound, Message: file, Err: err}
	}
	p.sources[file] = src
	return src, nil
}

// include appends a function template file to the function definitions
// the first time it is used.
func (p *pass) include(key, src string) {
	if p.included[key] {
		return
	}
	p.included[key] = true
	src = strings.TrimSpace(src)
	p.functions = append(p.functions, src...)
	p.functions = append(p.functions, "\n\n"...)
}

func (p *pass) emitTemplate(sc *scope, n *graph.Node) error {
	src, err := p.source(n.Impl.File)
	if err != nil {
		return err
	}
	args, err := p.inputExprs(sc, n)
	if err != nil {
		return err
	}
	if n.Impl.IsInline() {
		if len(n.Outputs) != 1 {
			return &Error{Kind: InvalidGraph, Node: n.Name, Message: "inline implementation with multiple outputs"}
		}
		pairs := make([]string, 0, 2*len(n.Inputs))
		for i, in := range n.Inputs {
			pairs = append(pairs, "{{"+in.Name+"}}", args[i])
		}
		expr := strings.NewReplacer(pairs...).Replace(strings.TrimSpace(src))
		if strings.Contains(expr, "{{") {
			return &Error{Kind: InvalidGraph, Node: n.Name, Message: "unbound placeholder in " + n.Impl.File}
		}
		p.declare(sc, n.Outputs[0], expr)
		return nil
	}
	p.include(n.Impl.File, src)
	p.emitCall(sc, n, n.Impl.Function, args)
	return nil
}

// emitCall declares the outputs of n and passes them as output arguments
// of a call to fn.
func (p *pass) emitCall(sc *scope, n *graph.Node, fn string, args []string) {
	p.declareDefaults(sc, n)
	for _, out := range n.Outputs {
		args = append(args, p.syn.OutArg(out.Variable))
	}
	sc.body = append(sc.body, syntax.Indent...)
	sc.body = append(sc.body, p.syn.Call(fn, args...)...)
	sc.body = append(sc.body, ";\n"...)
}
