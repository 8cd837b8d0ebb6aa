package shadergen

import (
	"github.com/gogpu/gputypes"
	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/syntax"
)

// emitVertex returns the vertex stage source. It transforms the position to
// clip space and computes the vertex data requested by the pixel stage.
func (p *pass) emitVertex() string {
	s := p.syn
	v3, v4 := document.TypeVector3, document.TypeVector4
	attr := func(name, typ string) string {
		name = p.alloc(name, "", typ)
		p.addVar(Variable{Name: name, Type: typ, Qualifier: QualifierInput, Visibility: gputypes.ShaderStageVertex})
		return name
	}
	uniform := func(i int) string { return p.privateInstance + "." + p.private[i] }

	inputs := []syntax.Member{{Name: attr("i_position", v3), Type: v3}}
	var body []byte
	world := s.Construct(v4, s.VertexInputRef(inputs[0].Name), "1.0")
	body = s.AppendLocalDecl(body, syntax.Indent, v4, p.hPositionWorld, uniform(0)+" * "+world)
	body = s.AppendAssign(body, syntax.Indent, s.ClipPositionRef(), uniform(1)+" * "+p.hPositionWorld)

	var outputs []syntax.Member
	for _, vd := range p.vertexData {
		var expr string
		switch vd.datum {
		case VertexPositionWorld:
			expr = p.hPositionWorld + ".xyz"
		case VertexNormalWorld:
			normal := attr("i_normal", v3)
			inputs = append(inputs, syntax.Member{Name: normal, Type: v3})
			expr = "normalize((" + uniform(2) + " * " + s.Construct(v4, s.VertexInputRef(normal), "0.0") + ").xyz)"
		case VertexTexcoord:
			uv := attr("i_texcoord_0", document.TypeVector2)
			inputs = append(inputs, syntax.Member{Name: uv, Type: document.TypeVector2})
			expr = s.VertexInputRef(uv)
		}
		body = s.AppendAssign(body, syntax.Indent, s.VertexOutputRef(vd.name), expr)
		outputs = append(outputs, syntax.Member{Name: vd.name, Type: vd.datum.Type()})
	}

	members := []syntax.Member{
		{Name: p.private[0], Type: document.TypeMatrix44},
		{Name: p.private[1], Type: document.TypeMatrix44},
		{Name: p.private[2], Type: document.TypeMatrix44},
	}
	decl := s.AppendUniformBlock(nil, p.privateBlock, p.privateInstance, p.opts.UniformBindingBase, members)
	return string(s.AppendStage(nil, syntax.StageParts{
		Stage:        syntax.StageVertex,
		Declarations: decl,
		Inputs:       inputs,
		Outputs:      outputs,
		Body:         body,
	}))
}
