package stdlib_test

import (
	"testing"

	"github.com/soypat/shadergen"
	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/stdlib"
	"github.com/soypat/shadergen/syntax"
)

func TestLibraryConsistent(t *testing.T) {
	lib := stdlib.Library()
	if err := lib.Validate(); err != nil {
		t.Fatal(err)
	}
	sources := stdlib.Sources()
	for _, im := range lib.Implementations {
		if lib.NodeDef(im.NodeDef) == nil {
			t.Errorf("%s implements unknown %s", im.Name, im.NodeDef)
		}
		if im.File == "" {
			continue
		}
		if _, err := sources.Locate(im.File); err != nil {
			t.Errorf("%s: %v", im.Name, err)
		}
	}
	ng := lib.NodeGraphFor("ND_point_light")
	if ng == nil {
		t.Fatal("point light has no node graph")
	}
	def := lib.NodeDef("ND_point_light")
	for _, port := range def.Inputs {
		if iface := ng.InterfaceInput(port.Name); iface == nil || iface.Type != port.Type {
			t.Errorf("point light interface mismatch on %s", port.Name)
		}
	}
}

func TestRegisterNatives(t *testing.T) {
	reg := shadergen.NewRegistry()
	if err := stdlib.RegisterNatives(reg); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"IM_constant_color3_genglsl", "IM_normal_vector3_genwgsl", "IM_surface_lambert_genglsl"} {
		if !reg.IsRegistered(name) {
			t.Errorf("%s not registered", name)
		}
	}
	if err := stdlib.RegisterNatives(reg); err == nil {
		t.Error("registering twice succeeded")
	}
}

func TestDefaultCMS(t *testing.T) {
	var cms stdlib.DefaultCMS
	tests := []struct {
		s      *syntax.Syntax
		from   string
		typ    string
		want   string
		wantOK bool
	}{
		{syntax.GLSL(), stdlib.ColorSpaceSRGBTexture, document.TypeColor3, "pow(c, vec3(2.2))", true},
		{syntax.WGSL(), stdlib.ColorSpaceGamma22, document.TypeColor3, "pow(c, vec3<f32>(2.2))", true},
		{syntax.GLSL(), stdlib.ColorSpaceSRGBTexture, document.TypeColor4, "vec4(pow(c.rgb, vec3(2.2)), c.a)", true},
		{syntax.GLSL(), "acescg", document.TypeColor3, "", false},
		{syntax.GLSL(), stdlib.ColorSpaceSRGBTexture, document.TypeFloat, "", false},
	}
	for _, test := range tests {
		got, ok := cms.Transform(test.s, test.from, stdlib.ColorSpaceLinearRec709, test.typ, "c")
		if ok != test.wantOK || got != test.want {
			t.Errorf("%s %s->%s: want %q %v, got %q %v", test.s.Target(), test.from, test.typ, test.want, test.wantOK, got, ok)
		}
	}
}
