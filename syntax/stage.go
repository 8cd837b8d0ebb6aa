package syntax

import (
	"strconv"

	"github.com/soypat/shadergen/document"
)

// Names used by the stage scaffolding of WGSL entry points.
const (
	wgslVertexInput  = "VertexInput"
	wgslVertexData   = "VertexData"
	wgslIn           = "vin"
	wgslOut          = "vout"
	wgslClipPosition = "clipPosition"
)

// StageParts are the pieces of one stage program, assembled by AppendStage.
type StageParts struct {
	Stage string
	// Declarations holds type, uniform and constant declarations.
	Declarations []byte
	// Inputs are vertex attributes in the vertex stage and interpolated
	// vertex data in the pixel stage.
	Inputs []Member
	// Outputs are vertex data in the vertex stage and the color output in
	// the pixel stage.
	Outputs []Member
	// Functions holds function definitions in dependency order.
	Functions []byte
	// Body holds the statements of the entry point, indented once.
	Body []byte
}

// ReservedNames returns the identifiers the stage scaffolding declares at
// module or entry point scope. Callers reserve them before allocating names.
func (s *Syntax) ReservedNames() []string {
	if s.family == FamilyWGSL {
		return []string{"main", wgslVertexInput, wgslVertexData, wgslIn, wgslOut}
	}
	return []string{"main"}
}

// VertexInputRef returns the vertex stage expression reading attribute name.
func (s *Syntax) VertexInputRef(name string) string {
	if s.family == FamilyWGSL {
		return wgslIn + "." + name
	}
	return name
}

// VertexOutputRef returns the vertex stage expression writing vertex data name.
func (s *Syntax) VertexOutputRef(name string) string {
	if s.family == FamilyWGSL {
		return wgslOut + "." + name
	}
	return name
}

// ClipPositionRef returns the vertex stage expression writing the clip
// space position.
func (s *Syntax) ClipPositionRef() string {
	if s.family == FamilyWGSL {
		return wgslOut + "." + wgslClipPosition
	}
	return "gl_Position"
}

// AppendStage appends the complete source of one stage.
func (s *Syntax) AppendStage(b []byte, p StageParts) []byte {
	if s.family == FamilyWGSL {
		return s.appendStageWGSL(b, p)
	}
	b = append(b, s.header...)
	b = append(b, '\n')
	b = append(b, p.Declarations...)
	vertex := p.Stage == StageVertex
	for i, m := range p.Inputs {
		if vertex {
			b = appendLocation(b, i)
		}
		b = append(b, "in "...)
		b = append(b, s.TypeName(m.Type)...)
		b = append(b, ' ')
		b = append(b, m.Name...)
		b = append(b, ";\n"...)
	}
	for i, m := range p.Outputs {
		if !vertex {
			b = appendLocation(b, i)
		}
		b = append(b, "out "...)
		b = append(b, s.TypeName(m.Type)...)
		b = append(b, ' ')
		b = append(b, m.Name...)
		b = append(b, ";\n"...)
	}
	if len(p.Inputs)+len(p.Outputs) > 0 {
		b = append(b, '\n')
	}
	b = append(b, p.Functions...)
	b = append(b, "void main() {\n"...)
	b = append(b, p.Body...)
	return append(b, "}\n"...)
}

func appendLocation(b []byte, loc int) []byte {
	b = append(b, "layout(location = "...)
	b = strconv.AppendInt(b, int64(loc), 10)
	return append(b, ") "...)
}

func (s *Syntax) appendStageWGSL(b []byte, p StageParts) []byte {
	b = append(b, p.Declarations...)
	if p.Stage == StageVertex {
		b = s.appendIOStruct(b, wgslVertexInput, "", p.Inputs)
		b = s.appendIOStruct(b, wgslVertexData, wgslClipPosition, p.Outputs)
		b = append(b, p.Functions...)
		b = append(b, "@vertex\nfn main("+wgslIn+": "+wgslVertexInput+") -> "+wgslVertexData+" {\n"...)
		b = append(b, Indent+"var "+wgslOut+": "+wgslVertexData+";\n"...)
		b = append(b, p.Body...)
		b = append(b, Indent+"return "+wgslOut+";\n}\n"...)
		return b
	}
	b = s.appendIOStruct(b, wgslVertexData, wgslClipPosition, p.Inputs)
	for _, m := range p.Inputs {
		b = s.AppendPrivateDecl(b, m.Type, m.Name)
	}
	if len(p.Inputs) > 0 {
		b = append(b, '\n')
	}
	b = append(b, p.Functions...)
	b = append(b, "@fragment\nfn main("+wgslIn+": "+wgslVertexData+") -> @location(0) vec4<f32> {\n"...)
	for _, m := range p.Inputs {
		b = s.AppendAssign(b, Indent, m.Name, wgslIn+"."+m.Name)
	}
	var result string
	if len(p.Outputs) > 0 {
		result = p.Outputs[0].Name
		b = append(b, Indent+"var "+result+": vec4<f32>;\n"...)
	}
	b = append(b, p.Body...)
	if result == "" {
		result = s.Construct(document.TypeVector4, "0.0")
	}
	b = append(b, Indent+"return "+result+";\n}\n"...)
	return b
}

// appendIOStruct declares an entry point interface struct. A non-empty
// builtin adds the clip position member first.
func (s *Syntax) appendIOStruct(b []byte, name, builtin string, members []Member) []byte {
	b = append(b, "struct "+name+" {\n"...)
	if builtin != "" {
		b = append(b, Indent+"@builtin(position) "+builtin+": vec4<f32>,\n"...)
	}
	for i, m := range members {
		b = append(b, Indent+"@location("...)
		b = strconv.AppendInt(b, int64(i), 10)
		b = append(b, ") "...)
		b = append(b, m.Name...)
		b = append(b, ": "...)
		b = append(b, s.TypeName(m.Type)...)
		b = append(b, ",\n"...)
	}
	return append(b, "}\n\n"...)
}
