package shadergen

import (
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/graph"
)

// Qualifier classifies a declared variable.
type Qualifier uint8

const (
	QualifierUniform Qualifier = iota + 1
	QualifierConstant
	// QualifierInput marks vertex attributes.
	QualifierInput
	// QualifierVertexData marks values passed from vertex to pixel stage.
	QualifierVertexData
	QualifierOutput
	// QualifierLocal marks node outputs and compound function variables.
	QualifierLocal
)

func (q Qualifier) String() string {
	switch q {
	case QualifierUniform:
		return "uniform"
	case QualifierConstant:
		return "constant"
	case QualifierInput:
		return "input"
	case QualifierVertexData:
		return "vertexdata"
	case QualifierOutput:
		return "output"
	case QualifierLocal:
		return "local"
	}
	return "Qualifier(?)"
}

// Variable is a symbol declared by a generated program. Names are unique
// across all variables of a [Shader].
type Variable struct {
	Name string
	// Type is a document type or the name of a generated struct.
	Type      string
	Qualifier Qualifier
	// Value is the default value of uniforms and constants.
	Value document.Value
	// Block is the instance name of the uniform block holding the variable.
	Block string
	// Binding of Block. Meaningful only when Block is set.
	Binding int
	// ArraySize is non-zero for arrays.
	ArraySize int
	// Scope names the function declaring a local. Empty for main.
	Scope string
	// Visibility are the stages that reference the variable.
	Visibility gputypes.ShaderStages
}

// LightType is a distinct light node definition and its identifier.
type LightType struct {
	NodeDef *document.NodeDef
	ID      uint32
}

// Shader is the result of one generation pass. It is immutable.
type Shader struct {
	name     string
	stages   []string
	sources  map[string]string
	vars     []Variable
	graph    *graph.Graph
	lights   []LightType
	errs     error
	language string
	target   string
}

// Name returns the shader name given to Generate.
func (s *Shader) Name() string { return s.name }

// Language returns the language the shader was generated for.
func (s *Shader) Language() string { return s.language }

// Target returns the target the shader was generated for.
func (s *Shader) Target() string { return s.target }

// Stages returns the generated stage names in generation order.
func (s *Shader) Stages() []string { return slices.Clone(s.stages) }

// SourceCode returns the source of stage or the empty string.
func (s *Shader) SourceCode(stage string) string { return s.sources[stage] }

// Variables returns every declared variable in declaration order.
func (s *Shader) Variables() []Variable { return slices.Clone(s.vars) }

// Variable returns the variable called name.
func (s *Shader) Variable(name string) (Variable, bool) {
	for _, v := range s.vars {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// Graph returns the material graph the shader was generated from.
func (s *Shader) Graph() *graph.Graph { return s.graph }

// LightTypes returns the light types bound for the shader, ordered by ID.
func (s *Shader) LightTypes() []LightType { return slices.Clone(s.lights) }

// Valid reports whether every node was emitted. Invalid shaders are only
// returned under the Partial failure policy.
func (s *Shader) Valid() bool { return s.errs == nil }

// Errors returns the node errors of an invalid shader.
func (s *Shader) Errors() error { return s.errs }

// BindGroupLayout returns one uniform buffer entry per uniform block in
// binding order, ready to create a bind group layout for group 0.
func (s *Shader) BindGroupLayout() []gputypes.BindGroupLayoutEntry {
	var entries []gputypes.BindGroupLayoutEntry
	index := make(map[string]int)
	for _, v := range s.vars {
		if v.Qualifier != QualifierUniform || v.Block == "" {
			continue
		}
		i, ok := index[v.Block]
		if !ok {
			i = len(entries)
			index[v.Block] = i
			entries = append(entries, gputypes.BindGroupLayoutEntry{
				Binding: uint32(v.Binding),
				Buffer:  &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			})
		}
		entries[i].Visibility |= v.Visibility
	}
	slices.SortFunc(entries, func(a, b gputypes.BindGroupLayoutEntry) int {
		return int(a.Binding) - int(b.Binding)
	})
	return entries
}

// VertexBufferLayout returns the layout of an interleaved vertex buffer
// feeding the vertex attributes, in shader location order. It is empty when
// no vertex stage was generated.
func (s *Shader) VertexBufferLayout() gputypes.VertexBufferLayout {
	layout := gputypes.VertexBufferLayout{StepMode: gputypes.VertexStepModeVertex}
	for _, v := range s.vars {
		if v.Qualifier != QualifierInput {
			continue
		}
		attr := gputypes.VertexAttribute{
			Format:         gputypes.VertexFormatFloat32x3,
			Offset:         layout.ArrayStride,
			ShaderLocation: uint32(len(layout.Attributes)),
		}
		if v.Type == document.TypeVector2 {
			attr.Format = gputypes.VertexFormatFloat32x2
			layout.ArrayStride += 8
		} else {
			layout.ArrayStride += 12
		}
		layout.Attributes = append(layout.Attributes, attr)
	}
	return layout
}
