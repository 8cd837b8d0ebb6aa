package stdlib

import (
	"github.com/soypat/shadergen/document"
	"github.com/soypat/shadergen/syntax"
)

// Color spaces known to [DefaultCMS].
const (
	ColorSpaceLinearRec709 = "lin_rec709"
	ColorSpaceSRGBTexture  = "srgb_texture"
	ColorSpaceGamma22      = "gamma22"
)

// DefaultCMS converts gamma encoded colors to linear Rec.709 with a 2.2
// power curve. Other conversions are unsupported.
type DefaultCMS struct{}

// Transform implements [shadergen.ColorManagementSystem].
func (DefaultCMS) Transform(s *syntax.Syntax, from, to, typ, expr string) (string, bool) {
	if to != ColorSpaceLinearRec709 || (from != ColorSpaceSRGBTexture && from != ColorSpaceGamma22) {
		return "", false
	}
	gamma := s.Construct(document.TypeColor3, "2.2")
	switch typ {
	case document.TypeColor3:
		return s.Call("pow", expr, gamma), true
	case document.TypeColor4:
		rgb := s.Call("pow", expr+".rgb", gamma)
		return s.Construct(document.TypeColor4, rgb, expr+".a"), true
	}
	return "", false
}
