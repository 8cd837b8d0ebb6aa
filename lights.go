package shadergen

import (
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/impl"
	"github.com/soypat/shadergen/naming"
	"github.com/soypat/shadergen/syntax"
)

// MapLightTypes scans the light shader instances of doc and returns one
// LightType per distinct node definition. Identifiers are assigned from
// zero in order of first occurrence: top-level nodes first, then nodes of
// node graphs that do not implement a definition. The result depends on the
// set of definitions in use, not on the number of instances.
func MapLightTypes(doc *document.Document) ([]LightType, error) {
	var types []LightType
	seen := make(map[string]bool)
	var missing []string
	scan := func(nodes []*document.Node) {
		for _, n := range nodes {
			if n.Type != document.TypeLightShader {
				continue
			}
			def := doc.MatchNodeDef(n)
			if def == nil {
				missing = append(missing, n.Name)
				continue
			}
			if seen[def.Name] {
				continue
			}
			seen[def.Name] = true
			types = append(types, LightType{NodeDef: def, ID: uint32(len(types))})
		}
	}
	scan(doc.Nodes)
	for _, ng := range doc.NodeGraphs {
		if ng.NodeDef == "" {
			scan(ng.Nodes)
		}
	}
	if len(missing) > 0 {
		return types, &Error{Kind: MissingLightImplementation, Node: missing[0], Message: "light instances without definition: " + strings.Join(missing, ", ")}
	}
	return types, nil
}

// lightBinding is the generated interface of one light type.
type lightBinding struct {
	lt LightType
	im impl.Implementation
	// dataStruct holds the parameters of one light instance.
	dataStruct string
	members    []syntax.Member
	fields     map[string]string
	block      string
	instance   string
	array      string
	count      string
	function   string
}

// bindLights maps light types and checks every type has a light
// implementation before anything is emitted.
func (p *pass) bindLights() error {
	types, err := MapLightTypes(p.doc)
	if err != nil {
		return err
	}
	for _, lt := range types {
		def := lt.NodeDef
		im, err := p.res.Resolve(def)
		switch {
		case err != nil:
			return &Error{Kind: MissingLightImplementation, Node: def.Name, Err: err}
		case im.Kind == impl.Native, im.IsInline():
			return &Error{Kind: MissingLightImplementation, Node: def.Name, Message: "light requires a compound or function implementation, found " + im.String()}
		}
		p.lights = append(p.lights, &lightBinding{lt: lt, im: im})
		p.log.Debug("bound light type", "nodedef", def.Name, "id", lt.ID)
	}
	return nil
}

// emitLights declares one data struct, one uniform block and one function
// per light type, plus the loop summing the contribution of every light.
func (p *pass) emitLights() {
	if len(p.lights) == 0 {
		return
	}
	p.useType(document.TypeLightShader)
	for _, lb := range p.lights {
		p.emitLightType(lb)
		if p.fatal != nil {
			return
		}
	}
	p.emitLightLoop()
}

func (p *pass) emitLightType(lb *lightBinding) {
	s := p.syn
	def := lb.lt.NodeDef
	cat := def.Node
	lb.dataStruct = p.alloc(cat+"_data", "", "")
	lb.fields = make(map[string]string)
	// Members live in the struct namespace, apart from the pass names.
	members := naming.New(s)
	for _, port := range def.Inputs {
		if !s.IsHostShareable(port.Type) {
			continue
		}
		field := s.MakeValidName(port.Name)
		if s.IsRestricted(field) {
			field = "m_" + field
		}
		field, err := members.Allocate(field, "", port.Type)
		if err != nil {
			p.fail(&Error{Kind: NameCollisionUnresolvable, Node: def.Name, Err: err})
			return
		}
		lb.fields[port.Name] = field
		lb.members = append(lb.members, syntax.Member{Name: field, Type: port.Type})
	}
	if len(lb.members) == 0 {
		p.fail(&Error{Kind: MissingLightImplementation, Node: def.Name, Message: "light definition has no parameters"})
		return
	}
	// Array elements of uniform buffers must be 16 byte aligned.
	lb.members[0].Align = 16
	lb.block = p.alloc(cat+"_block", "", "")
	lb.instance = p.alloc("u_"+cat, "", "")
	lb.array = p.alloc(cat+"_lights", "", "")
	lb.count = p.alloc(cat+"_count", "", "")
	binding := p.opts.UniformBindingBase + 2 + int(lb.lt.ID)

	p.lightDecls = s.AppendStructDecl(p.lightDecls, lb.dataStruct, lb.members)
	p.lightDecls = s.AppendUniformBlock(p.lightDecls, lb.block, lb.instance, binding, []syntax.Member{
		{Name: lb.array, Type: lb.dataStruct, Count: p.opts.MaxLightSources},
		{Name: lb.count, Type: document.TypeInteger},
	})
	for _, v := range []Variable{
		{Name: lb.array, Type: lb.dataStruct, ArraySize: p.opts.MaxLightSources},
		{Name: lb.count, Type: document.TypeInteger},
	} {
		v.Qualifier = QualifierUniform
		v.Block = lb.instance
		v.Binding = binding
		v.Visibility = gputypes.ShaderStageFragment
		p.addVar(v)
	}

	switch lb.im.Kind {
	case impl.Compound:
		cf, err := p.compound(lb.im, def, lb)
		if err != nil {
			p.fail(err)
			return
		}
		lb.function = cf.name
	case impl.SourceTemplate:
		src, err := p.source(lb.im.File)
		if err != nil {
			p.fail(&Error{Kind: MissingLightImplementation, Node: def.Name, Err: err})
			return
		}
		p.names.Reserve(lb.im.Function)
		src = strings.ReplaceAll(src, "{{light_data}}", lb.dataStruct)
		p.include(lb.im.File+"#"+lb.dataStruct, src)
		lb.function = lb.im.Function
	}
}

// emitLightLoop defines the function returning the radiance reaching a
// surface from every active light of every type.
func (p *pass) emitLightLoop() {
	s := p.syn
	fn := p.alloc("sampleLightSources", "", "")
	normal := p.alloc("lightNormal", fn, "")
	radiance := p.alloc("lightRadiance", fn, "")
	sample := p.alloc("lightSample", fn, "")
	index := p.alloc("lightIndex", fn, "")
	zero, _ := s.DefaultValue(document.TypeColor3)
	noLight, _ := s.DefaultValue(document.TypeLightShader)
	in2 := syntax.Indent + syntax.Indent

	b := s.AppendFunctionBegin(nil, fn, []syntax.Param{{Name: normal, Type: document.TypeVector3}}, document.TypeColor3)
	b = s.AppendLocalDecl(b, syntax.Indent, document.TypeColor3, radiance, zero)
	b = s.AppendLocalDecl(b, syntax.Indent, document.TypeLightShader, sample, noLight)
	for _, lb := range p.lights {
		limit := s.Call("min", lb.instance+"."+lb.count, strconv.Itoa(p.opts.MaxLightSources))
		b = s.AppendForBegin(b, syntax.Indent, index, limit)
		b = append(b, in2...)
		b = append(b, s.Call(lb.function, lb.instance+"."+lb.array+"["+index+"]", s.OutArg(sample))...)
		b = append(b, ";\n"...)
		b = append(b, in2+radiance+" += "+sample+".intensity * max(dot("+normal+", -"+sample+".direction), 0.0);\n"...)
		b = s.AppendBlockEnd(b, syntax.Indent)
	}
	b = append(b, syntax.Indent+"return "+radiance+";\n"...)
	b = s.AppendFunctionEnd(b)
	p.functions = append(p.functions, b...)
	p.lightLoop = fn
}
