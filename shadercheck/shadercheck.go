// Package shadercheck compiles generated shader source to catch errors the
// generator cannot see. WGSL is checked in process; GLSL needs an OpenGL
// 4.6 context and therefore CGo.
package shadercheck

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/ir"
)

// ErrNoContext is returned by [CompileGLSL] when no OpenGL context can be
// created, i.e: on headless machines or builds without CGo.
var ErrNoContext = errors.New("shadercheck: no OpenGL context")

// ValidateWGSL parses, lowers and validates one WGSL stage.
func ValidateWGSL(src string) error {
	_, err := lowerWGSL(src)
	return err
}

func lowerWGSL(src string) (*ir.Module, error) {
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("wgsl: %w", err)
	}
	mod, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, fmt.Errorf("wgsl: %w", err)
	}
	verrs, err := naga.Validate(mod)
	if err != nil {
		return nil, fmt.Errorf("wgsl: %w", err)
	}
	if len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i := range verrs {
			errs[i] = verrs[i]
		}
		return nil, fmt.Errorf("wgsl: invalid module: %w", errors.Join(errs...))
	}
	return mod, nil
}

// TranslateWGSL validates a WGSL stage and translates it to GLSL of the
// given version. It serves to compare generated GLSL with what a WGSL
// toolchain produces for the same material.
func TranslateWGSL(src string, version glsl.Version) (string, error) {
	mod, err := lowerWGSL(src)
	if err != nil {
		return "", err
	}
	opts := glsl.DefaultOptions()
	opts.LangVersion = version
	out, _, err := glsl.Compile(mod, opts)
	if err != nil {
		return "", err
	}
	return out, nil
}
