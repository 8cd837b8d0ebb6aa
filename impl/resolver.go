package impl

import (
	"github.com/soypat/shadergen/document"
)

// Library is the read-only part of a document consulted during resolution.
// [*document.Document] implements Library.
type Library interface {
	ImplementationsFor(nodedef string) []*document.Implementation
	NodeGraphFor(nodedef string) *document.NodeGraph
}

// NativeSet reports whether an implementation name has an in-process emitter.
type NativeSet interface {
	IsRegistered(name string) bool
}

type resolved struct {
	im  Implementation
	err error
}

// Resolver resolves node definitions for one (language, target) pair and
// caches the results. A Resolver belongs to one generation pass and is not
// safe for concurrent use.
type Resolver struct {
	lib      Library
	language string
	target   string
	natives  NativeSet
	cache    map[string]resolved
}

// NewResolver returns a Resolver over lib. natives may be nil when no native
// emitters exist.
func NewResolver(lib Library, language, target string, natives NativeSet) *Resolver {
	return &Resolver{
		lib:      lib,
		language: language,
		target:   target,
		natives:  natives,
		cache:    make(map[string]resolved),
	}
}

// Resolve returns the implementation of def. Implementation elements that
// match both language and target are preferred over language-only ones,
// which are preferred over a node graph implementing def. The returned
// error is a *NotFoundError.
//
// Resolve performs no I/O. Source template paths and compound graphs are
// returned unresolved.
func (r *Resolver) Resolve(def *document.NodeDef) (Implementation, error) {
	if c, ok := r.cache[def.Name]; ok {
		return c.im, c.err
	}
	im, err := r.resolve(def)
	r.cache[def.Name] = resolved{im: im, err: err}
	return im, err
}

func (r *Resolver) resolve(def *document.NodeDef) (Implementation, error) {
	elems := r.lib.ImplementationsFor(def.Name)
	for _, target := range [2]string{r.target, ""} {
		for _, el := range elems {
			if el.Language != r.language || el.Target != target {
				continue
			}
			im, ok := r.fromElement(el)
			if ok {
				return im, nil
			}
		}
	}
	if ng := r.lib.NodeGraphFor(def.Name); ng != nil {
		return Implementation{
			Kind:    Compound,
			Name:    ng.Name,
			NodeDef: def.Name,
			Graph:   ng,
		}, nil
	}
	return Implementation{}, &NotFoundError{NodeDef: def.Name, Language: r.language, Target: r.target}
}

// fromElement classifies an implementation element. Elements naming a
// registered native emitter are Native, elements pointing at a file are
// SourceTemplate and anything else is unusable.
func (r *Resolver) fromElement(el *document.Implementation) (Implementation, bool) {
	im := Implementation{
		Name:     el.Name,
		NodeDef:  el.NodeDef,
		Language: el.Language,
		Target:   el.Target,
	}
	switch {
	case r.natives != nil && r.natives.IsRegistered(el.Name):
		im.Kind = Native
	case el.File != "":
		im.Kind = SourceTemplate
		im.File = el.File
		im.Function = el.Function
	default:
		return im, false
	}
	return im, true
}
