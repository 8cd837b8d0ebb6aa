// Package syntax holds the per-target-language rules used to emit shader
// source: type names, qualifier keywords, literal formatting, restricted
// identifiers and the declaration shapes of each language.
//
// A single [Syntax] type serves every supported language. Languages that
// share a C-like grammar (desktop GLSL and ESSL) differ only in version
// header and a handful of flags; WGSL uses its own declaration forms.
package syntax

import (
	"errors"
	"fmt"
	"strings"

	"github.com/soypat/shadergen/document"
)

// Language identifiers used to key implementations.
const (
	LanguageGLSL = "genglsl"
	LanguageWGSL = "genwgsl"
)

// Target identifiers.
const (
	TargetGLSL = "genglsl"
	TargetESSL = "essl"
	TargetWGSL = "genwgsl"
)

// Stage names.
const (
	StageVertex = "vertex"
	StagePixel  = "pixel"
)

// Family groups languages that share declaration grammar.
type Family uint8

const (
	// FamilyGLSL covers desktop GLSL and ESSL.
	FamilyGLSL Family = iota
	// FamilyWGSL covers the WebGPU shading language.
	FamilyWGSL
)

// Syntax is the syntax table of one (language, target) pair. Its zero value
// is not usable; use [GLSL], [ESSL] or [WGSL].
type Syntax struct {
	language string
	target   string
	family   Family
	// header is written at the top of every stage.
	header string
	// explicitBindings enables binding indices on uniform blocks.
	explicitBindings bool
	types            map[string]typeSyntax
	restricted       map[string]struct{}
}

type typeSyntax struct {
	name string
	zero string
}

var errUnknownType = errors.New("unknown type")

// GLSL returns the syntax table for desktop GLSL 4.20 core.
func GLSL() *Syntax {
	return &Syntax{
		language:         LanguageGLSL,
		target:           TargetGLSL,
		family:           FamilyGLSL,
		header:           "#version 420 core\n",
		explicitBindings: true,
		types:            glslTypeTable(),
		restricted:       makeSet(glslTypes, glslKeywords, glslFutureReserved, glslBuiltins),
	}
}

// ESSL returns the syntax table for OpenGL ES shading language 3.00.
// It shares the GLSL language so GLSL implementations resolve for it.
func ESSL() *Syntax {
	return &Syntax{
		language:   LanguageGLSL,
		target:     TargetESSL,
		family:     FamilyGLSL,
		header:     "#version 300 es\nprecision highp float;\nprecision highp int;\n",
		types:      glslTypeTable(),
		restricted: makeSet(glslTypes, glslKeywords, glslFutureReserved, glslBuiltins),
	}
}

// WGSL returns the syntax table for the WebGPU shading language.
func WGSL() *Syntax {
	return &Syntax{
		language:         LanguageWGSL,
		target:           TargetWGSL,
		family:           FamilyWGSL,
		explicitBindings: true,
		types: map[string]typeSyntax{
			document.TypeBoolean:       {"bool", "false"},
			document.TypeInteger:       {"i32", "0"},
			document.TypeFloat:         {"f32", "0.0"},
			document.TypeVector2:       {"vec2<f32>", "vec2<f32>(0.0)"},
			document.TypeVector3:       {"vec3<f32>", "vec3<f32>(0.0)"},
			document.TypeVector4:       {"vec4<f32>", "vec4<f32>(0.0)"},
			document.TypeColor3:        {"vec3<f32>", "vec3<f32>(0.0)"},
			document.TypeColor4:        {"vec4<f32>", "vec4<f32>(0.0)"},
			document.TypeMatrix33:      {"mat3x3<f32>", "mat3x3<f32>(1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 1.0)"},
			document.TypeMatrix44:      {"mat4x4<f32>", "mat4x4<f32>(1.0, 0.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 0.0, 1.0)"},
			document.TypeSurfaceShader: {"surfaceshader", "surfaceshader(vec3<f32>(0.0), vec3<f32>(0.0))"},
			document.TypeLightShader:   {"lightshader", "lightshader(vec3<f32>(0.0), vec3<f32>(0.0))"},
		},
		restricted: makeSet(wgslKeywords, wgslTypes, wgslReserved, wgslBuiltins),
	}
}

func glslTypeTable() map[string]typeSyntax {
	return map[string]typeSyntax{
		document.TypeBoolean:       {"bool", "false"},
		document.TypeInteger:       {"int", "0"},
		document.TypeFloat:         {"float", "0.0"},
		document.TypeVector2:       {"vec2", "vec2(0.0)"},
		document.TypeVector3:       {"vec3", "vec3(0.0)"},
		document.TypeVector4:       {"vec4", "vec4(0.0)"},
		document.TypeColor3:        {"vec3", "vec3(0.0)"},
		document.TypeColor4:        {"vec4", "vec4(0.0)"},
		document.TypeMatrix33:      {"mat3", "mat3(1.0)"},
		document.TypeMatrix44:      {"mat4", "mat4(1.0)"},
		document.TypeSurfaceShader: {"surfaceshader", "surfaceshader(vec3(0.0), vec3(0.0))"},
		document.TypeLightShader:   {"lightshader", "lightshader(vec3(0.0), vec3(0.0))"},
	}
}

// Language returns the implementation language key, i.e: "genglsl".
func (s *Syntax) Language() string { return s.language }

// Target returns the implementation target key, i.e: "essl".
func (s *Syntax) Target() string { return s.target }

// Family returns the grammar family of the syntax.
func (s *Syntax) Family() Family { return s.family }

// OutputQualifier returns the keyword qualifying stage outputs. WGSL has
// none and returns the empty string.
func (s *Syntax) OutputQualifier() string {
	if s.family == FamilyWGSL {
		return ""
	}
	return "out"
}

// InputQualifier returns the keyword qualifying stage inputs.
func (s *Syntax) InputQualifier() string {
	if s.family == FamilyWGSL {
		return ""
	}
	return "in"
}

// UniformQualifier returns the keyword qualifying uniforms.
func (s *Syntax) UniformQualifier() string {
	if s.family == FamilyWGSL {
		return "var<uniform>"
	}
	return "uniform"
}

// ConstantQualifier returns the keyword qualifying compile time constants.
func (s *Syntax) ConstantQualifier() string { return "const" }

// HasType reports whether typ has a representation in the language.
func (s *Syntax) HasType(typ string) bool {
	_, ok := s.types[typ]
	return ok
}

// TypeName returns the language type name for a document type. Names that
// are not document types, such as struct names, are returned unchanged.
func (s *Syntax) TypeName(typ string) string {
	if ts, ok := s.types[typ]; ok {
		return ts.name
	}
	return typ
}

// DefaultValue returns the literal of the default value of typ.
func (s *Syntax) DefaultValue(typ string) (string, error) {
	ts, ok := s.types[typ]
	if !ok {
		return "", fmt.Errorf("%s: %w %q", s.target, errUnknownType, typ)
	}
	return ts.zero, nil
}

// IsRestricted reports whether name is a keyword, reserved word or built-in
// identifier of the language.
func (s *Syntax) IsRestricted(name string) bool {
	if _, ok := s.restricted[name]; ok {
		return true
	}
	if s.family == FamilyGLSL && strings.HasPrefix(name, "gl_") {
		return true
	}
	return false
}

// MakeValidName turns name into a legal identifier of the language. It does
// not check restricted words.
func (s *Syntax) MakeValidName(name string) string {
	if name == "" {
		return "v"
	}
	b := make([]byte, 0, len(name)+1)
	for i := 0; i < len(name); i++ {
		c := name[i]
		isAlpha := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
		isDigit := c >= '0' && c <= '9'
		if !isAlpha && !isDigit {
			c = '_'
		}
		if c == '_' && len(b) > 0 && b[len(b)-1] == '_' {
			continue // Double underscores are reserved in both families.
		}
		b = append(b, c)
	}
	if b[0] >= '0' && b[0] <= '9' {
		b = append([]byte{'v', '_'}, b...)
	} else if b[0] == '_' && s.family == FamilyWGSL && len(b) == 1 {
		b = append(b, 'v')
	}
	return string(b)
}
