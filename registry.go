package shadergen

import (
	"errors"
	"fmt"
	"sync"

	"github.com/soypat/shadergen/graph"
)

// Emitter writes the code of a natively implemented node.
type Emitter interface {
	// EmitNode declares every output of node, reading inputs through ctx.
	EmitNode(ctx *Context, node *graph.Node) error
}

// EmitterFunc adapts a function to [Emitter].
type EmitterFunc func(ctx *Context, node *graph.Node) error

// EmitNode implements [Emitter].
func (f EmitterFunc) EmitNode(ctx *Context, node *graph.Node) error { return f(ctx, node) }

var errRegistryFrozen = errors.New("registry frozen")

// Registry maps native implementation names to emitters. It is filled once
// at startup and frozen when the first [Generator] uses it. After freezing
// it is read-only and safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	frozen   bool
	emitters map[string]Emitter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{emitters: make(map[string]Emitter)}
}

// Register binds the implementation name to e. Registering after the
// registry is frozen or registering a name twice fails.
func (r *Registry) Register(name string, e Emitter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("register %q: %w", name, errRegistryFrozen)
	}
	if _, ok := r.emitters[name]; ok {
		return fmt.Errorf("native implementation %q already registered", name)
	}
	r.emitters[name] = e
	return nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// IsRegistered reports whether name has an emitter.
func (r *Registry) IsRegistered(name string) bool {
	_, ok := r.Emitter(name)
	return ok
}

// Emitter returns the emitter registered as name.
func (r *Registry) Emitter(name string) (Emitter, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.emitters[name]
	return e, ok
}
