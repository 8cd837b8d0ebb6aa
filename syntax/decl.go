package syntax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/soypat/shadergen/document"
)

// Indent is the indentation unit of generated source.
const Indent = "    "

// Member is a member of a struct, a uniform block or a stage interface.
type Member struct {
	Name string
	// Type is a document type or the name of a declared struct.
	Type string
	// Count is the array length. Zero declares a single element.
	Count int
	// Align forces the member alignment in bytes. Only WGSL honors it.
	Align int
}

// Param is a function parameter.
type Param struct {
	Name string
	Type string
	// Out marks output parameters, written by the callee.
	Out bool
}

// IsHostShareable reports whether values of typ may live in a uniform block.
func (s *Syntax) IsHostShareable(typ string) bool {
	switch typ {
	case document.TypeSurfaceShader, document.TypeLightShader, document.TypeString, document.TypeFilename:
		return false
	case document.TypeBoolean:
		return s.family != FamilyWGSL
	}
	return s.HasType(typ)
}

// AppendStructDecl appends a struct type declaration.
func (s *Syntax) AppendStructDecl(b []byte, name string, members []Member) []byte {
	b = append(b, "struct "...)
	b = append(b, name...)
	b = append(b, " {\n"...)
	b = s.appendMembers(b, members)
	if s.family == FamilyWGSL {
		return append(b, "}\n\n"...)
	}
	return append(b, "};\n\n"...)
}

func (s *Syntax) appendMembers(b []byte, members []Member) []byte {
	for _, m := range members {
		b = append(b, Indent...)
		if s.family == FamilyWGSL {
			if m.Align > 0 {
				b = append(b, "@align("...)
				b = strconv.AppendInt(b, int64(m.Align), 10)
				b = append(b, ") "...)
			}
			b = append(b, m.Name...)
			b = append(b, ": "...)
			b = append(b, s.memberType(m)...)
			b = append(b, ",\n"...)
			continue
		}
		b = append(b, s.TypeName(m.Type)...)
		b = append(b, ' ')
		b = append(b, m.Name...)
		if m.Count > 0 {
			b = append(b, '[')
			b = strconv.AppendInt(b, int64(m.Count), 10)
			b = append(b, ']')
		}
		b = append(b, ";\n"...)
	}
	return b
}

func (s *Syntax) memberType(m Member) string {
	name := s.TypeName(m.Type)
	if m.Count > 0 {
		return "array<" + name + ", " + strconv.Itoa(m.Count) + ">"
	}
	return name
}

// AppendUniformBlock appends a uniform block named block whose members are
// accessed through instance. Bindings are only written for languages with
// explicit binding support.
func (s *Syntax) AppendUniformBlock(b []byte, block, instance string, binding int, members []Member) []byte {
	if s.family == FamilyWGSL {
		b = s.AppendStructDecl(b, block, members)
		b = append(b, "@group(0) @binding("...)
		b = strconv.AppendInt(b, int64(binding), 10)
		b = append(b, ") var<uniform> "...)
		b = append(b, instance...)
		b = append(b, ": "...)
		b = append(b, block...)
		return append(b, ";\n\n"...)
	}
	if s.explicitBindings {
		b = append(b, "layout(std140, binding = "...)
		b = strconv.AppendInt(b, int64(binding), 10)
		b = append(b, ") uniform "...)
	} else {
		b = append(b, "layout(std140) uniform "...)
	}
	b = append(b, block...)
	b = append(b, " {\n"...)
	b = s.appendMembers(b, members)
	b = append(b, "} "...)
	b = append(b, instance...)
	return append(b, ";\n\n"...)
}

// AppendConstDecl appends a module scope constant declaration.
func (s *Syntax) AppendConstDecl(b []byte, typ, name, expr string) []byte {
	if s.family == FamilyWGSL {
		return fmt.Appendf(b, "const %s: %s = %s;\n", name, s.TypeName(typ), expr)
	}
	return fmt.Appendf(b, "const %s %s = %s;\n", s.TypeName(typ), name, expr)
}

// AppendPrivateDecl appends a module scope variable private to one
// invocation. Only WGSL needs them.
func (s *Syntax) AppendPrivateDecl(b []byte, typ, name string) []byte {
	if s.family == FamilyWGSL {
		return fmt.Appendf(b, "var<private> %s: %s;\n", name, s.TypeName(typ))
	}
	return fmt.Appendf(b, "%s %s;\n", s.TypeName(typ), name)
}

// AppendLocalDecl appends a mutable function scope variable initialized to expr.
func (s *Syntax) AppendLocalDecl(b []byte, indent, typ, name, expr string) []byte {
	b = append(b, indent...)
	if s.family == FamilyWGSL {
		return fmt.Appendf(b, "var %s: %s = %s;\n", name, s.TypeName(typ), expr)
	}
	return fmt.Appendf(b, "%s %s = %s;\n", s.TypeName(typ), name, expr)
}

// AppendAssign appends an assignment statement.
func (s *Syntax) AppendAssign(b []byte, indent, lhs, expr string) []byte {
	b = append(b, indent...)
	b = append(b, lhs...)
	b = append(b, " = "...)
	b = append(b, expr...)
	return append(b, ";\n"...)
}

// AppendFunctionBegin appends a function signature and its opening brace.
// An empty ret declares a function without return value.
func (s *Syntax) AppendFunctionBegin(b []byte, name string, params []Param, ret string) []byte {
	if s.family == FamilyWGSL {
		b = append(b, "fn "...)
		b = append(b, name...)
		b = append(b, '(')
		for i, p := range params {
			if i > 0 {
				b = append(b, ", "...)
			}
			b = append(b, p.Name...)
			b = append(b, ": "...)
			if p.Out {
				b = append(b, "ptr<function, "...)
				b = append(b, s.TypeName(p.Type)...)
				b = append(b, '>')
			} else {
				b = append(b, s.TypeName(p.Type)...)
			}
		}
		b = append(b, ')')
		if ret != "" {
			b = append(b, " -> "...)
			b = append(b, s.TypeName(ret)...)
		}
		return append(b, " {\n"...)
	}
	if ret == "" {
		b = append(b, "void"...)
	} else {
		b = append(b, s.TypeName(ret)...)
	}
	b = append(b, ' ')
	b = append(b, name...)
	b = append(b, '(')
	for i, p := range params {
		if i > 0 {
			b = append(b, ", "...)
		}
		if p.Out {
			b = append(b, "out "...)
		}
		b = append(b, s.TypeName(p.Type)...)
		b = append(b, ' ')
		b = append(b, p.Name...)
	}
	return append(b, ") {\n"...)
}

// AppendFunctionEnd closes a function opened by AppendFunctionBegin.
func (s *Syntax) AppendFunctionEnd(b []byte) []byte { return append(b, "}\n\n"...) }

// AppendForBegin appends the head of a counting loop over [0, limit).
func (s *Syntax) AppendForBegin(b []byte, indent, counter, limit string) []byte {
	b = append(b, indent...)
	if s.family == FamilyWGSL {
		return fmt.Appendf(b, "for (var %s: i32 = 0; %s < %s; %s++) {\n", counter, counter, limit, counter)
	}
	return fmt.Appendf(b, "for (int %s = 0; %s < %s; ++%s) {\n", counter, counter, limit, counter)
}

// AppendBlockEnd closes a brace opened at indent.
func (s *Syntax) AppendBlockEnd(b []byte, indent string) []byte {
	b = append(b, indent...)
	return append(b, "}\n"...)
}

// OutRef returns the expression that writes output parameter name from
// within the function declaring it.
func (s *Syntax) OutRef(name string) string {
	if s.family == FamilyWGSL {
		return "(*" + name + ")"
	}
	return name
}

// OutArg returns the call argument passing variable name to an output parameter.
func (s *Syntax) OutArg(name string) string {
	if s.family == FamilyWGSL {
		return "&" + name
	}
	return name
}

// Call returns a function call expression.
func (s *Syntax) Call(fn string, args ...string) string {
	return fn + "(" + strings.Join(args, ", ") + ")"
}

// Construct returns a constructor expression of type typ.
func (s *Syntax) Construct(typ string, args ...string) string {
	return s.Call(s.TypeName(typ), args...)
}

// toFloat returns expr, a value of type from, as a float scalar.
func (s *Syntax) toFloat(from, expr string) string {
	if from == document.TypeFloat {
		return expr
	}
	return s.Construct(document.TypeFloat, expr)
}

// ToVec4 returns expr of type typ converted to a four component color
// suitable as a pixel stage output.
func (s *Syntax) ToVec4(typ, expr string) (string, error) {
	v4 := document.TypeVector4
	switch typ {
	case document.TypeVector4, document.TypeColor4:
		return expr, nil
	case document.TypeVector3, document.TypeColor3:
		return s.Construct(v4, expr, "1.0"), nil
	case document.TypeVector2:
		return s.Construct(v4, expr, "0.0", "1.0"), nil
	case document.TypeFloat, document.TypeInteger, document.TypeBoolean:
		f := s.toFloat(typ, expr)
		return s.Construct(v4, f, f, f, "1.0"), nil
	case document.TypeSurfaceShader:
		return s.Construct(v4, expr+".color", "1.0"), nil
	}
	return "", fmt.Errorf("%s: cannot output type %q as a color", s.target, typ)
}
