package shadergen

import (
	"errors"
	"slices"

	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/impl"
)

// ImplementationRegistered reports whether name is a native implementation
// known to the generator.
func (g *Generator) ImplementationRegistered(name string) bool {
	return g.natives.IsRegistered(name)
}

// FindSourceCode returns the resolved path of the source template file.
func (g *Generator) FindSourceCode(file string) (string, error) {
	if g.sources == nil {
		return "", &Error{Kind: SourceNotFound, Message: file, Err: impl.ErrSourceNotFound}
	}
	resolved, err := g.sources.Find(file)
	if err != nil {
		return "", &Error{Kind: SourceNotFound, Message: file, Err: err}
	}
	return resolved, nil
}

// CheckImplementations checks every node definition of doc has an
// implementation for the generator's target and that every source template
// it names can be found. Definitions named in skip, by definition name or by
// node category, are not checked, nor are those without outputs.
// Problems are reported together, one error per definition.
func (g *Generator) CheckImplementations(doc *document.Document, skip []string) error {
	res := impl.NewResolver(doc, g.syntax.Language(), g.syntax.Target(), g.natives)
	var errs []error
	checked := 0
	for _, def := range doc.NodeDefs {
		if len(def.Outputs) == 0 || slices.Contains(skip, def.Name) || slices.Contains(skip, def.Node) {
			continue
		}
		checked++
		im, err := res.Resolve(def)
		if err != nil {
			errs = append(errs, &Error{Kind: ResolutionFailure, Node: def.Name, Err: err})
			continue
		}
		if im.Kind != impl.SourceTemplate {
			continue
		}
		if _, err := g.FindSourceCode(im.File); err != nil {
			var e *Error
			errors.As(err, &e)
			e.Node = def.Name
			errs = append(errs, e)
		}
	}
	Logger().Debug("checked implementations", "target", g.syntax.Target(), "nodedefs", checked, "missing", len(errs))
	return errors.Join(errs...)
}
