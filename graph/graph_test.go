package graph_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/graph"
	"github.com/soypat/shadergen/impl"
)

func testDoc() *document.Document {
	doc := document.New("test")
	f := document.TypeFloat
	doc.NodeDefs = []*document.NodeDef{
		{Name: "ND_constant_float", Node: "constant",
			Inputs:  []*document.Port{{Name: "value", Type: f}},
			Outputs: []*document.Port{{Name: "out", Type: f}}},
		{Name: "ND_add_float", Node: "add",
			Inputs:  []*document.Port{{Name: "in1", Type: f}, {Name: "in2", Type: f}},
			Outputs: []*document.Port{{Name: "out", Type: f}}},
		{Name: "ND_texcoord_vector2", Node: "texcoord",
			Outputs: []*document.Port{{Name: "out", Type: document.TypeVector2}}},
		{Name: "ND_noise_float", Node: "noise",
			Inputs:  []*document.Port{{Name: "texcoord", Type: document.TypeVector2, DefaultGeom: "texcoord"}},
			Outputs: []*document.Port{{Name: "out", Type: f}}},
	}
	return doc
}

func resolveAll(def *document.NodeDef) (impl.Implementation, error) {
	return impl.Implementation{Kind: impl.Native, Name: "IM_" + def.Name}, nil
}

func connect(n *document.Node, input, upstream string) {
	n.Inputs = append(n.Inputs, &document.Input{Name: input, NodeName: upstream})
}

func names(nodes []*graph.Node) []string {
	var s []string
	for _, n := range nodes {
		s = append(s, n.Name)
	}
	return s
}

func TestBuildOrderAndSharing(t *testing.T) {
	doc := testDoc()
	c1 := doc.AddNode("constant", "c1", document.TypeFloat)
	c1.Inputs = []*document.Input{{Name: "value", Value: float32(1)}}
	doc.AddNode("constant", "dead", document.TypeFloat)
	doc.AddNode("constant", "c2", document.TypeFloat)
	add1 := doc.AddNode("add", "add1", document.TypeFloat)
	connect(add1, "in1", "c2")
	connect(add1, "in2", "c1")
	add2 := doc.AddNode("add", "add2", document.TypeFloat)
	connect(add2, "in1", "add1")
	connect(add2, "in2", "c1")
	out := doc.AddOutput("out", document.TypeFloat, "add2")

	g, err := graph.Build("test", doc, doc, []graph.Root{{Name: out.Name, Type: out.Type, Node: out.NodeName}}, resolveAll)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"c1", "c2", "add1", "add2"}
	if got := names(g.Nodes); !slices.Equal(got, want) {
		t.Fatalf("order: want %v, got %v", want, got)
	}
	if g.Node("dead") != nil {
		t.Error("unreachable node included")
	}
	c1out := g.Node("c1").Outputs[0]
	if g.Node("add1").Input("in2").Source != c1out || g.Node("add2").Input("in2").Source != c1out {
		t.Error("shared node not shared")
	}
	if v := g.Node("c1").Input("value").Value; v != float32(1) {
		t.Errorf("literal value lost: %v", v)
	}
	if len(g.Outputs) != 1 || g.Outputs[0].Source != g.Node("add2").Outputs[0] {
		t.Error("output socket not connected to add2")
	}
}

func TestBuildDeterministic(t *testing.T) {
	doc := testDoc()
	for _, name := range []string{"z", "y", "x", "w"} {
		doc.AddNode("constant", name, document.TypeFloat)
	}
	a := doc.AddNode("add", "a", document.TypeFloat)
	connect(a, "in1", "x")
	connect(a, "in2", "z")
	b := doc.AddNode("add", "b", document.TypeFloat)
	connect(b, "in1", "a")
	connect(b, "in2", "w")
	roots := []graph.Root{{Name: "out", Node: "b"}}
	var first []string
	for i := 0; i < 10; i++ {
		g, err := graph.Build("test", doc, doc, roots, resolveAll)
		if err != nil {
			t.Fatal(err)
		}
		got := names(g.Nodes)
		if i == 0 {
			first = got
			want := []string{"z", "x", "w", "a", "b"}
			if !slices.Equal(got, want) {
				t.Fatalf("want %v, got %v", want, got)
			}
		} else if !slices.Equal(got, first) {
			t.Fatalf("run %d: order changed %v", i, got)
		}
	}
}

func TestBuildCycle(t *testing.T) {
	doc := testDoc()
	a := doc.AddNode("add", "a", document.TypeFloat)
	b := doc.AddNode("add", "b", document.TypeFloat)
	c := doc.AddNode("add", "c", document.TypeFloat)
	connect(a, "in1", "b")
	connect(b, "in1", "c")
	connect(c, "in1", "a")
	_, err := graph.Build("test", doc, doc, []graph.Root{{Name: "out", Node: "a"}}, resolveAll)
	var cycle *graph.CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("want CycleError, got %v", err)
	}
	want := []string{"a", "b", "c", "a"}
	if !slices.Equal(cycle.Path, want) {
		t.Errorf("cycle path: want %v, got %v", want, cycle.Path)
	}
}

func TestBuildInvalid(t *testing.T) {
	doc := testDoc()
	doc.AddNode("texcoord", "tc", document.TypeVector2)
	bad := doc.AddNode("add", "bad", document.TypeFloat)
	connect(bad, "in1", "tc")
	missing := doc.AddNode("add", "missing", document.TypeFloat)
	connect(missing, "in1", "nowhere")
	badValue := doc.AddNode("add", "badvalue", document.TypeFloat)
	badValue.Inputs = []*document.Input{{Name: "in1", Value: "text"}}
	undeclared := doc.AddNode("add", "undeclared", document.TypeFloat)
	undeclared.Inputs = []*document.Input{{Name: "in3", Value: float32(1)}}

	var typeErr *graph.TypeError
	var refErr *graph.ReferenceError
	for _, test := range []struct {
		root   string
		target any
	}{
		{"bad", &typeErr},
		{"badvalue", &typeErr},
		{"missing", &refErr},
		{"undeclared", &refErr},
		{"nonexistent", &refErr},
	} {
		_, err := graph.Build("test", doc, doc, []graph.Root{{Name: "out", Node: test.root}}, resolveAll)
		if !errors.As(err, test.target) {
			t.Errorf("%s: unexpected error %v", test.root, err)
		}
	}
	// Root type must match the connected output.
	_, err := graph.Build("test", doc, doc, []graph.Root{{Name: "out", Type: document.TypeColor3, Node: "tc"}}, resolveAll)
	if !errors.As(err, &typeErr) {
		t.Errorf("root type mismatch: got %v", err)
	}
}

func TestBuildImplicitGeometry(t *testing.T) {
	doc := testDoc()
	doc.AddNode("noise", "n1", document.TypeFloat)
	doc.AddNode("noise", "n2", document.TypeFloat)
	add := doc.AddNode("add", "sum", document.TypeFloat)
	connect(add, "in1", "n1")
	connect(add, "in2", "n2")
	g, err := graph.Build("test", doc, doc, []graph.Root{{Name: "out", Node: "sum"}}, resolveAll)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{graph.ImplicitPrefix + "texcoord", "n1", "n2", "sum"}
	if got := names(g.Nodes); !slices.Equal(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	geo := g.Nodes[0]
	if !geo.Implicit() {
		t.Error("geometric node should be implicit")
	}
	for _, name := range []string{"n1", "n2"} {
		if g.Node(name).Input("texcoord").Source != geo.Outputs[0] {
			t.Errorf("%s: texcoord not fed by shared implicit node", name)
		}
	}
}

func TestBuildUnresolved(t *testing.T) {
	doc := testDoc()
	doc.AddNode("noise", "n", document.TypeFloat)
	notFound := errors.New("not found")
	resolve := func(def *document.NodeDef) (impl.Implementation, error) {
		if def.Name == "ND_noise_float" {
			return impl.Implementation{}, notFound
		}
		return resolveAll(def)
	}
	g, err := graph.Build("test", doc, doc, []graph.Root{{Name: "out", Node: "n"}}, resolve)
	if err != nil {
		t.Fatal(err)
	}
	unresolved := g.Unresolved()
	if len(unresolved) != 1 || unresolved[0].Name != "n" || unresolved[0].ResolveErr != notFound {
		t.Errorf("want n unresolved, got %v", names(unresolved))
	}
}
