package syntax

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/shadergen/document"
)

var errNonFinite = errors.New("non-finite float literal")

// AppendFloat appends the shortest decimal form of v that reads back as the
// same float32. The result always carries a decimal point so it is parsed as
// a floating point literal by every supported language.
func AppendFloat(b []byte, v float32) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', -1, 32)
	if bytes.IndexByte(b[start:], '.') < 0 {
		b = append(b, ".0"...)
	}
	return b
}

// AppendFloats appends comma separated float literals.
func AppendFloats(b []byte, s ...float32) []byte {
	for i, v := range s {
		b = AppendFloat(b, v)
		if i != len(s)-1 {
			b = append(b, ", "...)
		}
	}
	return b
}

// Literal returns the source literal of value v of document type typ. A nil
// value yields the type's default value.
func (s *Syntax) Literal(typ string, v document.Value) (string, error) {
	b, err := s.AppendLiteral(nil, typ, v)
	return string(b), err
}

// AppendLiteral appends the literal of value v of type typ to b.
func (s *Syntax) AppendLiteral(b []byte, typ string, v document.Value) ([]byte, error) {
	if v == nil {
		zero, err := s.DefaultValue(typ)
		return append(b, zero...), err
	}
	// Literals follow the same typing rules as document values.
	if err := document.CheckValue(typ, v); err != nil {
		return b, err
	}
	var floats []float32
	switch typ {
	case document.TypeBoolean:
		bv, ok := v.(bool)
		if !ok {
			return b, literalTypeErr(typ, v)
		}
		return strconv.AppendBool(b, bv), nil
	case document.TypeInteger:
		iv, ok := v.(int)
		if !ok {
			return b, literalTypeErr(typ, v)
		}
		return strconv.AppendInt(b, int64(iv), 10), nil
	case document.TypeFloat:
		f, ok := v.(float32)
		if !ok {
			return b, literalTypeErr(typ, v)
		}
		if !isFinite(f) {
			return b, errNonFinite
		}
		return AppendFloat(b, f), nil
	case document.TypeVector2:
		vec, ok := v.(ms2.Vec)
		if !ok {
			return b, literalTypeErr(typ, v)
		}
		floats = []float32{vec.X, vec.Y}
	case document.TypeVector3, document.TypeColor3:
		vec, ok := v.(ms3.Vec)
		if !ok {
			return b, literalTypeErr(typ, v)
		}
		floats = []float32{vec.X, vec.Y, vec.Z}
	case document.TypeVector4, document.TypeColor4:
		vec, ok := v.(document.Vec4)
		if !ok {
			return b, literalTypeErr(typ, v)
		}
		floats = vec[:]
	case document.TypeMatrix33:
		m, ok := v.(ms3.Mat3)
		if !ok {
			return b, literalTypeErr(typ, v)
		}
		arr := m.Array()
		floats = columnMajor(arr[:], 3)
	case document.TypeMatrix44:
		m, ok := v.(ms3.Mat4)
		if !ok {
			return b, literalTypeErr(typ, v)
		}
		arr := m.Array()
		floats = columnMajor(arr[:], 4)
	default:
		return b, fmt.Errorf("%s: no literal form for type %q", s.target, typ)
	}
	for _, f := range floats {
		if !isFinite(f) {
			return b, errNonFinite
		}
	}
	b = append(b, s.TypeName(typ)...)
	b = append(b, '(')
	b = AppendFloats(b, floats...)
	b = append(b, ')')
	return b, nil
}

// columnMajor reorders a row major square matrix into constructor order.
func columnMajor(rowMajor []float32, n int) []float32 {
	out := make([]float32, 0, n*n)
	for col := 0; col < n; col++ {
		for row := 0; row < n; row++ {
			out = append(out, rowMajor[row*n+col])
		}
	}
	return out
}

func isFinite(f float32) bool { return !math32.IsNaN(f) && !math32.IsInf(f, 0) }

func literalTypeErr(typ string, v document.Value) error {
	return fmt.Errorf("value of Go type %T is not a valid %s literal", v, typ)
}
