package shadergen_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/soypat/shadergen"
	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/syntax"
)

func TestCheckImplementations(t *testing.T) {
	for _, s := range syntaxes() {
		gen := newGenerator(t, s)
		if err := gen.CheckImplementations(newDoc(), nil); err != nil {
			t.Errorf("%s: library incomplete: %v", s.Target(), err)
		}
	}

	doc := newDoc()
	doc.NodeDefs = append(doc.NodeDefs,
		&document.NodeDef{Name: "ND_orphan_float", Node: "orphan", Outputs: []*document.Port{{Name: "out", Type: document.TypeFloat}}},
		&document.NodeDef{Name: "ND_lost_float", Node: "lost", Outputs: []*document.Port{{Name: "out", Type: document.TypeFloat}}},
		&document.NodeDef{Name: "ND_interface_only", Node: "interface_only"},
	)
	doc.Implementations = append(doc.Implementations, &document.Implementation{
		Name: "IM_lost_float_genglsl", NodeDef: "ND_lost_float", Language: syntax.LanguageGLSL,
		File: "genglsl/mx_lost.glsl", Function: "mx_lost",
	})
	gen := newGenerator(t, syntax.GLSL())
	err := gen.CheckImplementations(doc, nil)
	if !shadergen.IsKind(err, shadergen.ResolutionFailure) || !strings.Contains(err.Error(), "ND_orphan_float") {
		t.Errorf("want resolution failure naming ND_orphan_float, got %v", err)
	}
	if !errors.Is(err, shadergen.ErrSourceNotFound) || !strings.Contains(err.Error(), "mx_lost.glsl") {
		t.Errorf("want missing source naming mx_lost.glsl, got %v", err)
	}
	if strings.Contains(err.Error(), "ND_interface_only") {
		t.Error("node definition without outputs checked")
	}
	if err := gen.CheckImplementations(doc, []string{"orphan", "ND_lost_float"}); err != nil {
		t.Errorf("skipped definitions checked: %v", err)
	}
}

func TestCoverageQueries(t *testing.T) {
	gen := newGenerator(t, syntax.WGSL())
	if !gen.ImplementationRegistered("IM_surface_lambert_genwgsl") {
		t.Error("lambert emitter not registered")
	}
	if gen.ImplementationRegistered("IM_add_float_genwgsl") {
		t.Error("inline implementation reported as native")
	}
	path, err := gen.FindSourceCode("genwgsl/mx_noise2d_color3.wgsl")
	if err != nil {
		t.Fatal(err)
	}
	if path != "stdlib/genwgsl/mx_noise2d_color3.wgsl" {
		t.Errorf("unexpected resolved path %q", path)
	}
	if _, err := gen.FindSourceCode("genwgsl/missing.wgsl"); !errors.Is(err, shadergen.ErrSourceNotFound) {
		t.Errorf("want source not found, got %v", err)
	}
}

func TestRegistryFrozen(t *testing.T) {
	reg := shadergen.NewRegistry()
	nop := shadergen.EmitterFunc(nil)
	if err := reg.Register("IM_a", nop); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register("IM_a", nop); err == nil {
		t.Error("duplicate registration accepted")
	}
	if _, err := shadergen.NewGenerator(shadergen.Config{Syntax: syntax.GLSL(), Natives: reg}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register("IM_b", nop); err == nil {
		t.Error("registration after freeze accepted")
	}
	if !reg.IsRegistered("IM_a") || reg.IsRegistered("IM_b") {
		t.Error("unexpected registry contents")
	}
}
