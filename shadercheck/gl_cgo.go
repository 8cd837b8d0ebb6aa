//go:build !tinygo && cgo

package shadercheck

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

// CompileGLSL compiles and links a vertex and a pixel stage in a hidden
// OpenGL 4.6 window. Sources need no NUL terminator. On macOS it must be
// called from the main thread.
func CompileGLSL(vertex, pixel string) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	terminate, err := startGLFW()
	if err != nil {
		return err
	}
	defer terminate()
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vertex + "\x00",
		Fragment: pixel + "\x00",
	})
	if err != nil {
		return fmt.Errorf("glsl: %w", err)
	}
	prog.Delete()
	return nil
}

func startGLFW() (term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoContext, err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Visible, glfw.False)
	window, err := glfw.CreateWindow(1, 1, "shadercheck", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("%w: %v", ErrNoContext, err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("%w: %v", ErrNoContext, err)
	}
	return func() {
		window.Destroy()
		glfw.Terminate()
	}, nil
}
