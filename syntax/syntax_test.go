package syntax_test

import (
	"math"
	"strings"
	"testing"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/syntax"
)

func TestAppendFloat(t *testing.T) {
	for _, test := range []struct {
		v    float32
		want string
	}{
		{1, "1.0"},
		{0, "0.0"},
		{-2, "-2.0"},
		{0.5, "0.5"},
		{0.1, "0.1"},
		{-0.25, "-0.25"},
		{1024, "1024.0"},
	} {
		got := string(syntax.AppendFloat(nil, test.v))
		if got != test.want {
			t.Errorf("AppendFloat(%v): want %q, got %q", test.v, test.want, got)
		}
	}
}

func TestLiteral(t *testing.T) {
	glsl, wgsl := syntax.GLSL(), syntax.WGSL()
	for _, test := range []struct {
		s    *syntax.Syntax
		typ  string
		v    document.Value
		want string
	}{
		{glsl, document.TypeFloat, float32(0.5), "0.5"},
		{glsl, document.TypeFloat, nil, "0.0"},
		{glsl, document.TypeInteger, 3, "3"},
		{glsl, document.TypeBoolean, true, "true"},
		{glsl, document.TypeColor3, document.Color3(1, 0.5, 0), "vec3(1.0, 0.5, 0.0)"},
		{glsl, document.TypeVector4, document.Vec4{1, 2, 3, 4}, "vec4(1.0, 2.0, 3.0, 4.0)"},
		{glsl, document.TypeMatrix33, ms3.IdentityMat3(), "mat3(1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 1.0)"},
		{wgsl, document.TypeVector2, ms2.Vec{X: 1, Y: 2}, "vec2<f32>(1.0, 2.0)"},
		{wgsl, document.TypeColor3, nil, "vec3<f32>(0.0)"},
		{wgsl, document.TypeInteger, -7, "-7"},
	} {
		got, err := test.s.Literal(test.typ, test.v)
		if err != nil {
			t.Errorf("%s %s: %v", test.s.Target(), test.typ, err)
			continue
		}
		if got != test.want {
			t.Errorf("%s %s: want %q, got %q", test.s.Target(), test.typ, test.want, got)
		}
	}
}

func TestLiteralErrors(t *testing.T) {
	s := syntax.GLSL()
	nan := float32(math.NaN())
	for _, test := range []struct {
		typ string
		v   document.Value
	}{
		{document.TypeFloat, nan},
		{document.TypeColor3, document.Color3(0, nan, 0)},
		{document.TypeFloat, "one"},
		{document.TypeFloat, float64(1)},
		{document.TypeFloat, 1},
		{document.TypeVector3, ms2.Vec{}},
		{document.TypeString, "text"},
	} {
		_, err := s.Literal(test.typ, test.v)
		if err == nil {
			t.Errorf("%s %v: expected error", test.typ, test.v)
		}
	}
}

func TestRestrictedNames(t *testing.T) {
	glsl, essl, wgsl := syntax.GLSL(), syntax.ESSL(), syntax.WGSL()
	for _, name := range []string{"out", "in", "uniform", "vec3", "main", "gl_FragColor", "texture"} {
		if !glsl.IsRestricted(name) {
			t.Errorf("glsl: %q should be restricted", name)
		}
		if !essl.IsRestricted(name) {
			t.Errorf("essl: %q should be restricted", name)
		}
	}
	for _, name := range []string{"fn", "let", "var", "f32", "vec3", "main", "pub"} {
		if !wgsl.IsRestricted(name) {
			t.Errorf("wgsl: %q should be restricted", name)
		}
	}
	for _, name := range []string{"unique_names_out", "noise", "albedo"} {
		if glsl.IsRestricted(name) || wgsl.IsRestricted(name) {
			t.Errorf("%q should not be restricted", name)
		}
	}
	if glsl.OutputQualifier() != "out" {
		t.Errorf("glsl output qualifier: got %q", glsl.OutputQualifier())
	}
	if wgsl.OutputQualifier() != "" {
		t.Errorf("wgsl has no output qualifier, got %q", wgsl.OutputQualifier())
	}
}

func TestMakeValidName(t *testing.T) {
	s := syntax.GLSL()
	for _, test := range []struct {
		name, want string
	}{
		{"albedo", "albedo"},
		{"base color", "base_color"},
		{"a__b", "a_b"},
		{"2d", "v_2d"},
		{"", "v"},
		{"node/out", "node_out"},
	} {
		got := s.MakeValidName(test.name)
		if got != test.want {
			t.Errorf("MakeValidName(%q): want %q, got %q", test.name, test.want, got)
		}
	}
}

func TestUniformBlock(t *testing.T) {
	members := []syntax.Member{
		{Name: "albedo", Type: document.TypeColor3},
		{Name: "lights", Type: "point_light_data", Count: 4},
	}
	glsl := string(syntax.GLSL().AppendUniformBlock(nil, "PublicUniforms", "u_public", 1, members))
	for _, want := range []string{
		"layout(std140, binding = 1) uniform PublicUniforms {",
		"    vec3 albedo;",
		"    point_light_data lights[4];",
		"} u_public;",
	} {
		if !strings.Contains(glsl, want) {
			t.Errorf("glsl block missing %q:\n%s", want, glsl)
		}
	}
	essl := string(syntax.ESSL().AppendUniformBlock(nil, "PublicUniforms", "u_public", 1, members))
	if strings.Contains(essl, "binding") {
		t.Errorf("essl block must not carry bindings:\n%s", essl)
	}
	wgsl := string(syntax.WGSL().AppendUniformBlock(nil, "PublicUniforms", "u_public", 1, members))
	for _, want := range []string{
		"struct PublicUniforms {",
		"    albedo: vec3<f32>,",
		"    lights: array<point_light_data, 4>,",
		"@group(0) @binding(1) var<uniform> u_public: PublicUniforms;",
	} {
		if !strings.Contains(wgsl, want) {
			t.Errorf("wgsl block missing %q:\n%s", want, wgsl)
		}
	}
}

func TestFunctionSignature(t *testing.T) {
	params := []syntax.Param{
		{Name: "amplitude", Type: document.TypeFloat},
		{Name: "result", Type: document.TypeColor3, Out: true},
	}
	glsl := string(syntax.GLSL().AppendFunctionBegin(nil, "mx_noise", params, ""))
	if glsl != "void mx_noise(float amplitude, out vec3 result) {\n" {
		t.Errorf("glsl signature: %q", glsl)
	}
	wgsl := string(syntax.WGSL().AppendFunctionBegin(nil, "mx_noise", params, document.TypeFloat))
	if wgsl != "fn mx_noise(amplitude: f32, result: ptr<function, vec3<f32>>) -> f32 {\n" {
		t.Errorf("wgsl signature: %q", wgsl)
	}
}

func TestToVec4(t *testing.T) {
	s := syntax.GLSL()
	for _, test := range []struct {
		typ, want string
	}{
		{document.TypeColor3, "vec4(c, 1.0)"},
		{document.TypeColor4, "c"},
		{document.TypeFloat, "vec4(c, c, c, 1.0)"},
		{document.TypeVector2, "vec4(c, 0.0, 1.0)"},
		{document.TypeSurfaceShader, "vec4(c.color, 1.0)"},
	} {
		got, err := s.ToVec4(test.typ, "c")
		if err != nil {
			t.Fatal(err)
		}
		if got != test.want {
			t.Errorf("%s: want %q, got %q", test.typ, test.want, got)
		}
	}
	if _, err := s.ToVec4(document.TypeLightShader, "c"); err == nil {
		t.Error("lightshader is not a color")
	}
}

func TestAppendStage(t *testing.T) {
	parts := syntax.StageParts{
		Stage:   syntax.StagePixel,
		Inputs:  []syntax.Member{{Name: "vd_texcoord_0", Type: document.TypeVector2}},
		Outputs: []syntax.Member{{Name: "out_color", Type: document.TypeVector4}},
		Body:    []byte("    out_color = vec4(1.0);\n"),
	}
	glsl := string(syntax.GLSL().AppendStage(nil, parts))
	for _, want := range []string{
		"#version 420 core\n",
		"in vec2 vd_texcoord_0;\n",
		"layout(location = 0) out vec4 out_color;\n",
		"void main() {\n    out_color = vec4(1.0);\n}\n",
	} {
		if !strings.Contains(glsl, want) {
			t.Errorf("glsl pixel stage missing %q:\n%s", want, glsl)
		}
	}
	essl := string(syntax.ESSL().AppendStage(nil, parts))
	if !strings.HasPrefix(essl, "#version 300 es\nprecision highp float;\n") {
		t.Errorf("essl header:\n%s", essl)
	}
	wgsl := string(syntax.WGSL().AppendStage(nil, parts))
	for _, want := range []string{
		"@builtin(position) clipPosition: vec4<f32>,",
		"@location(0) vd_texcoord_0: vec2<f32>,",
		"var<private> vd_texcoord_0: vec2<f32>;",
		"@fragment\nfn main(vin: VertexData) -> @location(0) vec4<f32> {",
		"    vd_texcoord_0 = vin.vd_texcoord_0;",
		"    return out_color;",
	} {
		if !strings.Contains(wgsl, want) {
			t.Errorf("wgsl pixel stage missing %q:\n%s", want, wgsl)
		}
	}
}
