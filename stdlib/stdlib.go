// Package stdlib is a small standard library of node definitions and their
// GLSL and WGSL implementations: arithmetic, noise, geometric properties, a
// lambert surface and point and directional lights.
package stdlib

import (
	"embed"
	"strings"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/shadergen"
	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/impl"
	"github.com/soypat/shadergen/syntax"
)

//go:embed genglsl genwgsl shared
var files embed.FS

var languages = [...]string{syntax.LanguageGLSL, syntax.LanguageWGSL}

// Sources returns the search path holding the library source templates.
func Sources() impl.SearchPath {
	return impl.SearchPath{{Name: "stdlib", FS: files}}
}

// NewGenerator returns a generator for s with the library natives, sources
// and [DefaultCMS] configured.
func NewGenerator(s *syntax.Syntax) (*shadergen.Generator, error) {
	reg := shadergen.NewRegistry()
	if err := RegisterNatives(reg); err != nil {
		return nil, err
	}
	return shadergen.NewGenerator(shadergen.Config{
		Syntax:          s,
		Natives:         reg,
		Sources:         Sources(),
		ColorManagement: DefaultCMS{},
	})
}

type builder struct {
	doc *document.Document
}

func port(name, typ string, v document.Value) *document.Port {
	return &document.Port{Name: name, Type: typ, Value: v}
}

func out(typ string) []*document.Port {
	return []*document.Port{{Name: document.DefaultOutputName, Type: typ}}
}

func (b *builder) def(name, node string, outputs []*document.Port, inputs ...*document.Port) {
	b.doc.NodeDefs = append(b.doc.NodeDefs, &document.NodeDef{Name: name, Node: node, Inputs: inputs, Outputs: outputs})
}

// implName returns the implementation element name of nodedef for language.
func implName(nodedef, language string) string {
	return "IM_" + strings.TrimPrefix(nodedef, "ND_") + "_" + language
}

// inline binds nodedef to an inline expression shared by every language.
func (b *builder) inline(nodedef, file string) {
	for _, lang := range languages {
		b.doc.Implementations = append(b.doc.Implementations, &document.Implementation{
			Name:     implName(nodedef, lang),
			NodeDef:  nodedef,
			Language: lang,
			File:     "shared/" + file + ".inline",
		})
	}
}

// function binds nodedef to the function fn defined in one template file
// per language.
func (b *builder) function(nodedef, fn string) {
	ext := map[string]string{syntax.LanguageGLSL: ".glsl", syntax.LanguageWGSL: ".wgsl"}
	for _, lang := range languages {
		b.doc.Implementations = append(b.doc.Implementations, &document.Implementation{
			Name:     implName(nodedef, lang),
			NodeDef:  nodedef,
			Language: lang,
			File:     lang + "/" + fn + ext[lang],
			Function: fn,
		})
	}
}

// native binds nodedef to the emitters registered by [RegisterNatives].
func (b *builder) native(nodedef string) {
	for _, lang := range languages {
		b.doc.Implementations = append(b.doc.Implementations, &document.Implementation{
			Name:     implName(nodedef, lang),
			NodeDef:  nodedef,
			Language: lang,
		})
	}
}

// Library returns a new document holding the library definitions,
// implementation elements and implementation graphs. Import it into a
// material document with [document.Document.ImportLibrary].
func Library() *document.Document {
	b := &builder{doc: document.New("stdlib")}
	const (
		f, c3, v2, v3 = document.TypeFloat, document.TypeColor3, document.TypeVector2, document.TypeVector3
	)
	zero := map[string]document.Value{
		f:  float32(0),
		c3: document.Color3(0, 0, 0),
		v2: ms2.Vec{},
		v3: ms3.Vec{},
	}
	one := map[string]document.Value{
		f:  float32(1),
		c3: document.Color3(1, 1, 1),
		v3: document.Vector3(1, 1, 1),
	}

	for _, typ := range []string{f, c3, v2, v3} {
		name := "ND_constant_" + typ
		b.def(name, "constant", out(typ), port("value", typ, zero[typ]))
		b.native(name)
	}
	for _, typ := range []string{f, c3, v3} {
		for _, op := range []string{"add", "subtract"} {
			name := "ND_" + op + "_" + typ
			b.def(name, op, out(typ), port("in1", typ, zero[typ]), port("in2", typ, zero[typ]))
			b.inline(name, "mx_"+op)
		}
		for _, op := range []string{"multiply", "divide"} {
			name := "ND_" + op + "_" + typ
			b.def(name, op, out(typ), port("in1", typ, zero[typ]), port("in2", typ, one[typ]))
			b.inline(name, "mx_"+op)
			if typ == f {
				continue
			}
			name += "FA"
			b.def(name, op, out(typ), port("in1", typ, zero[typ]), port("in2", f, float32(1)))
			b.inline(name, "mx_"+op)
		}
	}
	b.def("ND_dotproduct_vector3", "dotproduct", out(f), port("in1", v3, zero[v3]), port("in2", v3, zero[v3]))
	b.inline("ND_dotproduct_vector3", "mx_dotproduct")
	b.def("ND_normalize_vector3", "normalize", out(v3), port("in", v3, zero[v3]))
	b.inline("ND_normalize_vector3", "mx_normalize")
	b.def("ND_magnitude_vector3", "magnitude", out(f), port("in", v3, zero[v3]))
	b.inline("ND_magnitude_vector3", "mx_magnitude")
	for _, typ := range []string{f, c3} {
		name := "ND_power_" + typ
		b.def(name, "power", out(typ), port("in1", typ, zero[typ]), port("in2", typ, one[typ]))
		b.inline(name, "mx_power")
	}
	b.def("ND_mix_color3", "mix", out(c3), port("fg", c3, zero[c3]), port("bg", c3, zero[c3]), port("mix", f, float32(0)))
	b.inline("ND_mix_color3", "mx_mix")

	texcoord := port("texcoord", v2, nil)
	texcoord.DefaultGeom = "texcoord"
	b.def("ND_noise2d_color3", "noise2d", out(c3), port("amplitude", v3, one[v3]), port("pivot", f, float32(0)), texcoord)
	b.function("ND_noise2d_color3", "mx_noise2d_color3")

	b.def("ND_position_vector3", "position", out(v3))
	b.native("ND_position_vector3")
	b.def("ND_normal_vector3", "normal", out(v3))
	b.native("ND_normal_vector3")
	b.def("ND_texcoord_vector2", "texcoord", out(v2))
	b.native("ND_texcoord_vector2")

	normal := port("normal", v3, nil)
	normal.DefaultGeom = "normal"
	b.def("ND_surface_lambert", "surface_lambert", out(document.TypeSurfaceShader),
		port("base", f, float32(1)),
		port("color", c3, document.Color3(0.8, 0.8, 0.8)),
		normal,
		port("opacity", f, float32(1)),
	)
	b.native("ND_surface_lambert")

	b.def("ND_make_light_lightshader", "make_light", out(document.TypeLightShader),
		port("intensity", c3, zero[c3]), port("direction", v3, document.Vector3(0, 0, -1)))
	b.inline("ND_make_light_lightshader", "mx_make_light")

	b.def("ND_directional_light", "directional_light", out(document.TypeLightShader),
		port("direction", v3, document.Vector3(0, 0, -1)),
		port("color", c3, one[c3]),
		port("intensity", f, float32(1)),
	)
	b.function("ND_directional_light", "mx_directional_light")

	b.def("ND_point_light", "point_light", out(document.TypeLightShader),
		port("position", v3, zero[v3]),
		port("color", c3, one[c3]),
		port("intensity", f, float32(1)),
		port("decay_rate", f, float32(2)),
	)
	b.pointLightGraph()
	return b.doc
}

// pointLightGraph defines the point light as a node graph. The emitted
// light intensity falls off with distance to the power of decay_rate.
func (b *builder) pointLightGraph() {
	ng := b.doc.AddNodeGraph("NG_point_light")
	ng.NodeDef = "ND_point_light"
	ng.AddInput("position", document.TypeVector3, ms3.Vec{})
	ng.AddInput("color", document.TypeColor3, document.Color3(1, 1, 1))
	ng.AddInput("intensity", document.TypeFloat, float32(1))
	ng.AddInput("decay_rate", document.TypeFloat, float32(2))

	ng.AddNode("position", "surface_position", document.TypeVector3)
	delta := ng.AddNode("subtract", "delta", document.TypeVector3)
	delta.Connect("in1", "surface_position", "")
	delta.ConnectInterface("in2", "position")
	ng.AddNode("magnitude", "distance", document.TypeFloat).Connect("in", "delta", "")
	ng.AddNode("normalize", "direction", document.TypeVector3).Connect("in", "delta", "")
	falloff := ng.AddNode("power", "falloff", document.TypeFloat)
	falloff.Connect("in1", "distance", "")
	falloff.ConnectInterface("in2", "decay_rate")
	scaled := ng.AddNode("multiply", "scaled", document.TypeColor3)
	scaled.NodeDef = "ND_multiply_color3FA"
	scaled.ConnectInterface("in1", "color")
	scaled.ConnectInterface("in2", "intensity")
	radiance := ng.AddNode("divide", "radiance", document.TypeColor3)
	radiance.NodeDef = "ND_divide_color3FA"
	radiance.Connect("in1", "scaled", "")
	radiance.Connect("in2", "falloff", "")
	light := ng.AddNode("make_light", "light", document.TypeLightShader)
	light.Connect("intensity", "radiance", "")
	light.Connect("direction", "direction", "")
	ng.AddOutput(document.DefaultOutputName, document.TypeLightShader, "light")
}
