package shadergen

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/graph"
	"github.com/soypat/shadergen/syntax"
)

// VertexDatum is a geometric value computed by the vertex stage and
// interpolated for the pixel stage.
type VertexDatum uint8

const (
	VertexPositionWorld VertexDatum = iota
	VertexNormalWorld
	VertexTexcoord
)

func (d VertexDatum) String() string {
	switch d {
	case VertexPositionWorld:
		return "positionWorld"
	case VertexNormalWorld:
		return "normalWorld"
	case VertexTexcoord:
		return "texcoord_0"
	}
	return fmt.Sprintf("VertexDatum(%d)", uint8(d))
}

// Type returns the document type of the datum.
func (d VertexDatum) Type() string {
	if d == VertexTexcoord {
		return document.TypeVector2
	}
	return document.TypeVector3
}

type vertexDatum struct {
	datum VertexDatum
	name  string
}

// Context gives a native [Emitter] access to the pass emitting a node.
type Context struct {
	p    *pass
	sc   *scope
	node *graph.Node
}

// Syntax returns the target syntax.
func (c *Context) Syntax() *syntax.Syntax { return c.p.syn }

// Stage returns the stage being emitted.
func (c *Context) Stage() string { return syntax.StagePixel }

// Function returns the name of the function being emitted, empty for main.
func (c *Context) Function() string { return c.sc.fn }

// Input returns the expression reading the named input of the node.
func (c *Context) Input(name string) (string, error) {
	in := c.node.Input(name)
	if in == nil {
		return "", fmt.Errorf("node %s has no input %q", c.node.Name, name)
	}
	return c.p.inputExpr(c.sc, in)
}

// Declare declares out initialized to expr. Outputs left undeclared by an
// emitter are declared with their default value.
func (c *Context) Declare(out *graph.Output, expr string) {
	c.p.declare(c.sc, out, expr)
}

// Statement appends a statement to the function body. stmt carries no
// indentation nor trailing newline.
func (c *Context) Statement(stmt string) {
	c.sc.body = append(c.sc.body, syntax.Indent...)
	c.sc.body = append(c.sc.body, stmt...)
	c.sc.body = append(c.sc.body, '\n')
}

// VertexData requests d from the vertex stage and returns the pixel stage
// expression reading it.
func (c *Context) VertexData(d VertexDatum) string {
	p := c.p
	for _, vd := range p.vertexData {
		if vd.datum == d {
			return vd.name
		}
	}
	name := p.alloc("vd_"+d.String(), "", "")
	p.vertexData = append(p.vertexData, vertexDatum{datum: d, name: name})
	vis := gputypes.ShaderStageFragment
	if p.opts.EmitVertexStage {
		vis |= gputypes.ShaderStageVertex
	}
	p.addVar(Variable{Name: name, Type: d.Type(), Qualifier: QualifierVertexData, Visibility: vis})
	return name
}

// SampleLights returns an expression of the radiance received from all
// bound lights by a surface with the given normal. Without lights it is zero.
func (c *Context) SampleLights(normal string) string {
	s := c.p.syn
	if c.p.lightLoop == "" {
		return s.Construct(document.TypeColor3, "0.0")
	}
	return s.Call(c.p.lightLoop, normal)
}
