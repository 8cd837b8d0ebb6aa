package document

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// Value is a literal held by an input or port. Concrete types are:
//
//	boolean   bool
//	integer   int
//	float     float32
//	vector2   ms2.Vec
//	vector3   ms3.Vec
//	color3    ms3.Vec (X,Y,Z hold R,G,B)
//	vector4   Vec4
//	color4    Vec4
//	matrix33  ms3.Mat3
//	matrix44  ms3.Mat4
//	string    string
type Value any

// Vec4 is a four component value used for vector4 and color4 types.
type Vec4 [4]float32

// Color3 returns a color3 value.
func Color3(r, g, b float32) ms3.Vec { return ms3.Vec{X: r, Y: g, Z: b} }

// Vector2 returns a vector2 value.
func Vector2(x, y float32) ms2.Vec { return ms2.Vec{X: x, Y: y} }

// Vector3 returns a vector3 value.
func Vector3(x, y, z float32) ms3.Vec { return ms3.Vec{X: x, Y: y, Z: z} }

// CheckValue returns an error if v cannot hold a value of type typ or holds
// a non-finite float.
func CheckValue(typ string, v Value) error {
	if v == nil {
		return nil
	}
	var ok bool
	var floats []float32
	switch typ {
	case TypeBoolean:
		_, ok = v.(bool)
	case TypeInteger:
		_, ok = v.(int)
	case TypeFloat:
		var f float32
		f, ok = v.(float32)
		floats = []float32{f}
	case TypeVector2:
		var vec ms2.Vec
		vec, ok = v.(ms2.Vec)
		floats = []float32{vec.X, vec.Y}
	case TypeVector3, TypeColor3:
		var vec ms3.Vec
		vec, ok = v.(ms3.Vec)
		floats = []float32{vec.X, vec.Y, vec.Z}
	case TypeVector4, TypeColor4:
		var vec Vec4
		vec, ok = v.(Vec4)
		floats = vec[:]
	case TypeMatrix33:
		var m ms3.Mat3
		m, ok = v.(ms3.Mat3)
		arr := m.Array()
		floats = arr[:]
	case TypeMatrix44:
		var m ms3.Mat4
		m, ok = v.(ms3.Mat4)
		arr := m.Array()
		floats = arr[:]
	case TypeString, TypeFilename:
		_, ok = v.(string)
	default:
		return fmt.Errorf("type %q does not hold literal values", typ)
	}
	if !ok {
		return fmt.Errorf("value of Go type %T is not a valid %s", v, typ)
	}
	for _, f := range floats {
		if math32.IsNaN(f) || math32.IsInf(f, 0) {
			return fmt.Errorf("non-finite %s value %v", typ, v)
		}
	}
	return nil
}
