package stdlib

import (
	"fmt"

	"github.com/soypat/shadergen"
	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/graph"
)

// RegisterNatives registers the emitters of the natively implemented
// library nodes for every supported language.
func RegisterNatives(r *shadergen.Registry) error {
	natives := map[string]shadergen.EmitterFunc{
		"ND_position_vector3": vertexData(shadergen.VertexPositionWorld, false),
		"ND_normal_vector3":   vertexData(shadergen.VertexNormalWorld, true),
		"ND_texcoord_vector2": vertexData(shadergen.VertexTexcoord, false),
		"ND_surface_lambert":  emitLambert,
	}
	for _, typ := range []string{document.TypeFloat, document.TypeColor3, document.TypeVector2, document.TypeVector3} {
		natives["ND_constant_"+typ] = emitConstant
	}
	for nodedef, e := range natives {
		for _, lang := range languages {
			if err := r.Register(implName(nodedef, lang), e); err != nil {
				return err
			}
		}
	}
	return nil
}

func emitConstant(ctx *shadergen.Context, node *graph.Node) error {
	value, err := ctx.Input("value")
	if err != nil {
		return err
	}
	ctx.Declare(node.Outputs[0], value)
	return nil
}

// vertexData returns an emitter reading d from the vertex stage.
func vertexData(d shadergen.VertexDatum, normalize bool) shadergen.EmitterFunc {
	return func(ctx *shadergen.Context, node *graph.Node) error {
		expr := ctx.VertexData(d)
		if normalize {
			// Interpolation denormalizes.
			expr = ctx.Syntax().Call("normalize", expr)
		}
		ctx.Declare(node.Outputs[0], expr)
		return nil
	}
}

// emitLambert emits a diffuse surface lit by every bound light.
func emitLambert(ctx *shadergen.Context, node *graph.Node) error {
	s := ctx.Syntax()
	var in [4]string
	for i, name := range [4]string{"base", "color", "normal", "opacity"} {
		expr, err := ctx.Input(name)
		if err != nil {
			return fmt.Errorf("lambert: %w", err)
		}
		in[i] = expr
	}
	base, color, normal, opacity := in[0], in[1], in[2], in[3]
	diffuse := base + " * " + color + " * " + ctx.SampleLights(normal)
	transparency := s.Construct(document.TypeColor3, "1.0 - "+opacity)
	ctx.Declare(node.Outputs[0], s.Construct(document.TypeSurfaceShader, diffuse, transparency))
	return nil
}
