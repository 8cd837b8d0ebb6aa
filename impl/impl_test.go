package impl_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/impl"
)

type natives map[string]bool

func (n natives) IsRegistered(name string) bool { return n[name] }

func testLibrary() *document.Document {
	doc := document.New("lib")
	for _, name := range []string{"ND_a", "ND_b", "ND_c", "ND_d", "ND_e"} {
		doc.NodeDefs = append(doc.NodeDefs, &document.NodeDef{
			Name:    name,
			Node:    name[3:],
			Outputs: []*document.Port{{Name: "out", Type: document.TypeFloat}},
		})
	}
	doc.Implementations = []*document.Implementation{
		// ND_a: language-only element declared before the exact match.
		{Name: "IM_a_lang", NodeDef: "ND_a", Language: "genglsl", File: "a_lang.glsl"},
		{Name: "IM_a_essl", NodeDef: "ND_a", Language: "genglsl", Target: "essl", File: "a_essl.glsl", Function: "a"},
		// ND_b: native.
		{Name: "IM_b", NodeDef: "ND_b", Language: "genglsl"},
		// ND_c: unregistered native then nothing else.
		{Name: "IM_c", NodeDef: "ND_c", Language: "genglsl"},
		// ND_e: other language only.
		{Name: "IM_e", NodeDef: "ND_e", Language: "genwgsl", File: "e.wgsl"},
	}
	ng := doc.AddNodeGraph("NG_d")
	ng.NodeDef = "ND_d"
	return doc
}

func TestResolveOrder(t *testing.T) {
	doc := testLibrary()
	r := impl.NewResolver(doc, "genglsl", "essl", natives{"IM_b": true})
	for _, test := range []struct {
		nodedef string
		kind    impl.Kind
		name    string
	}{
		{"ND_a", impl.SourceTemplate, "IM_a_essl"},
		{"ND_b", impl.Native, "IM_b"},
		{"ND_d", impl.Compound, "NG_d"},
	} {
		im, err := r.Resolve(doc.NodeDef(test.nodedef))
		if err != nil {
			t.Fatal(err)
		}
		if im.Kind != test.kind || im.Name != test.name {
			t.Errorf("%s: want %v %s, got %v %s", test.nodedef, test.kind, test.name, im.Kind, im.Name)
		}
	}

	// Without the exact target the language-only element is used.
	r = impl.NewResolver(doc, "genglsl", "genglsl", nil)
	im, err := r.Resolve(doc.NodeDef("ND_a"))
	if err != nil {
		t.Fatal(err)
	}
	if im.Name != "IM_a_lang" || !im.IsInline() {
		t.Errorf("want inline IM_a_lang, got %+v", im)
	}
}

func TestResolveNotFound(t *testing.T) {
	doc := testLibrary()
	r := impl.NewResolver(doc, "genglsl", "genglsl", natives{})
	for _, nodedef := range []string{"ND_b", "ND_c", "ND_e"} {
		_, err := r.Resolve(doc.NodeDef(nodedef))
		var nf *impl.NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("%s: want NotFoundError, got %v", nodedef, err)
		}
		if nf.NodeDef != nodedef {
			t.Errorf("error names %q, want %q", nf.NodeDef, nodedef)
		}
		// Cached result is identical.
		_, err2 := r.Resolve(doc.NodeDef(nodedef))
		if err2 != err {
			t.Errorf("%s: cached error differs", nodedef)
		}
	}
}

func TestSearchPath(t *testing.T) {
	sp := impl.SearchPath{
		{Name: "user", FS: fstest.MapFS{"lib/add.glsl": {Data: []byte("user add")}}},
		{Name: "std", FS: fstest.MapFS{
			"lib/add.glsl": {Data: []byte("std add")},
			"lib/mul.glsl": {Data: []byte("std mul")},
		}},
	}
	for _, test := range []struct {
		file, resolved, contents string
	}{
		{"lib/add.glsl", "user/lib/add.glsl", "user add"},
		{"lib/./mul.glsl", "std/lib/mul.glsl", "std mul"},
	} {
		resolved, err := sp.Find(test.file)
		if err != nil {
			t.Fatal(err)
		}
		if resolved != test.resolved {
			t.Errorf("Find(%q): want %q, got %q", test.file, test.resolved, resolved)
		}
		src, err := sp.Locate(test.file)
		if err != nil {
			t.Fatal(err)
		}
		if src != test.contents {
			t.Errorf("Locate(%q): want %q, got %q", test.file, test.contents, src)
		}
	}
	for _, file := range []string{"lib/sub.glsl", "../escape.glsl", "lib"} {
		if _, err := sp.Locate(file); !errors.Is(err, impl.ErrSourceNotFound) {
			t.Errorf("Locate(%q): want ErrSourceNotFound, got %v", file, err)
		}
	}
}
