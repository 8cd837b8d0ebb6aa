//go:build tinygo || !cgo

package shadercheck

import "fmt"

// CompileGLSL compiles and links a vertex and a pixel stage. Without CGo
// there is no OpenGL context and it always fails.
func CompileGLSL(vertex, pixel string) error {
	return fmt.Errorf("%w: GLSL compilation requires CGo", ErrNoContext)
}
