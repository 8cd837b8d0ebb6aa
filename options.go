package shadergen

import (
	"errors"
	"fmt"
)

// FailurePolicy decides what happens when individual nodes fail to emit.
type FailurePolicy uint8

const (
	// AbortOnError returns the collected node errors and no shader.
	AbortOnError FailurePolicy = iota
	// Partial returns a shader marked invalid along with the errors.
	Partial
)

// ShaderInterface decides how unconnected inputs of the material graph are
// published to the host.
type ShaderInterface uint8

const (
	// InterfaceComplete publishes every unconnected input as a uniform.
	InterfaceComplete ShaderInterface = iota
	// InterfaceReduced declares unconnected inputs as constants.
	InterfaceReduced
)

// GenOptions configures one generation pass. It is read-only during generation.
type GenOptions struct {
	FailurePolicy   FailurePolicy
	ShaderInterface ShaderInterface
	// MaxLightSources sizes the per light type uniform arrays.
	MaxLightSources int
	// UniformBindingBase is the first binding index used. Private vertex
	// uniforms use the base, public uniforms base+1 and light type k uses
	// base+2+k.
	UniformBindingBase int
	// TargetColorSpace is the working color space. Inputs authored in another
	// space are transformed when a color management system is set.
	TargetColorSpace string
	// EmitVertexStage enables generation of the vertex stage.
	EmitVertexStage bool
}

// DefaultGenOptions returns the options used when none are given.
func DefaultGenOptions() GenOptions {
	return GenOptions{
		FailurePolicy:      AbortOnError,
		ShaderInterface:    InterfaceComplete,
		MaxLightSources:    8,
		UniformBindingBase: 0,
		TargetColorSpace:   "lin_rec709",
		EmitVertexStage:    true,
	}
}

// Validate checks the options for consistency.
func (o GenOptions) Validate() error {
	var errs []error
	if o.FailurePolicy > Partial {
		errs = append(errs, fmt.Errorf("unknown failure policy %d", o.FailurePolicy))
	}
	if o.ShaderInterface > InterfaceReduced {
		errs = append(errs, fmt.Errorf("unknown shader interface %d", o.ShaderInterface))
	}
	if o.MaxLightSources <= 0 {
		errs = append(errs, errors.New("MaxLightSources must be positive"))
	}
	if o.UniformBindingBase < 0 {
		errs = append(errs, errors.New("negative UniformBindingBase"))
	}
	if err := errors.Join(errs...); err != nil {
		return &Error{Kind: InvalidOptions, Err: err}
	}
	return nil
}
