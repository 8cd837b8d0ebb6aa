package syntax

func makeSet(groups ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, g := range groups {
		for _, w := range g {
			set[w] = struct{}{}
		}
	}
	return set
}

// GLSL 4.x and ESSL 3.x reserved words and built-in names that generated
// identifiers must never shadow.
var (
	glslTypes = []string{
		"void", "bool", "int", "uint", "float", "double",
		"vec2", "vec3", "vec4", "ivec2", "ivec3", "ivec4", "uvec2", "uvec3", "uvec4",
		"bvec2", "bvec3", "bvec4", "dvec2", "dvec3", "dvec4",
		"mat2", "mat3", "mat4", "mat2x2", "mat2x3", "mat2x4", "mat3x2", "mat3x3", "mat3x4",
		"mat4x2", "mat4x3", "mat4x4", "dmat2", "dmat3", "dmat4",
		"sampler1D", "sampler2D", "sampler3D", "samplerCube", "sampler2DShadow",
		"sampler2DArray", "samplerCubeArray", "samplerBuffer", "sampler2DMS",
		"image1D", "image2D", "image3D", "imageCube", "atomic_uint",
	}
	glslKeywords = []string{
		"attribute", "const", "uniform", "varying", "buffer", "shared", "coherent", "volatile",
		"restrict", "readonly", "writeonly", "layout", "centroid", "flat", "smooth",
		"noperspective", "patch", "sample", "break", "continue", "do", "for", "while",
		"switch", "case", "default", "if", "else", "subroutine", "in", "out", "inout",
		"true", "false", "invariant", "precise", "discard", "return", "struct",
		"lowp", "mediump", "highp", "precision",
	}
	glslFutureReserved = []string{
		"common", "partition", "active", "asm", "class", "union", "enum", "typedef",
		"template", "this", "resource", "goto", "inline", "noinline", "public", "static",
		"extern", "external", "interface", "long", "short", "half", "fixed", "unsigned",
		"superp", "input", "output", "hvec2", "hvec3", "hvec4", "fvec2", "fvec3", "fvec4",
		"filter", "sizeof", "cast", "namespace", "using",
	}
	glslBuiltins = []string{
		"main", "gl_Position", "gl_PointSize", "gl_FragCoord", "gl_FrontFacing",
		"gl_FragDepth", "gl_VertexID", "gl_InstanceID",
		"radians", "degrees", "sin", "cos", "tan", "asin", "acos", "atan", "pow", "exp",
		"log", "exp2", "log2", "sqrt", "inversesqrt", "abs", "sign", "floor", "ceil",
		"fract", "mod", "min", "max", "clamp", "mix", "step", "smoothstep", "length",
		"distance", "dot", "cross", "normalize", "reflect", "refract", "texture",
		"transpose", "inverse", "determinant",
	}
)

// WGSL reserved words, predeclared types and common built-in functions.
var (
	wgslKeywords = []string{
		"alias", "break", "case", "const", "const_assert", "continue", "continuing",
		"default", "diagnostic", "discard", "else", "enable", "false", "fn", "for",
		"if", "let", "loop", "override", "requires", "return", "struct", "switch",
		"true", "var", "while",
	}
	wgslTypes = []string{
		"bool", "f16", "f32", "i32", "u32", "vec2", "vec3", "vec4",
		"mat2x2", "mat2x3", "mat2x4", "mat3x2", "mat3x3", "mat3x4", "mat4x2", "mat4x3", "mat4x4",
		"array", "atomic", "ptr", "sampler", "sampler_comparison",
		"texture_1d", "texture_2d", "texture_2d_array", "texture_3d", "texture_cube",
		"texture_cube_array", "texture_depth_2d", "texture_multisampled_2d",
	}
	wgslReserved = []string{
		"NULL", "Self", "abstract", "active", "as", "async", "attribute", "auto", "await",
		"become", "cast", "catch", "class", "co_await", "co_return", "co_yield", "coherent",
		"common", "compile", "concept", "constexpr", "crate", "debugger", "decltype",
		"delete", "demote", "do", "dynamic_cast", "enum", "explicit", "export", "extends",
		"extern", "external", "filter", "final", "finally", "friend", "from", "fxgroup",
		"get", "goto", "groupshared", "highp", "impl", "implements", "import", "inline",
		"instanceof", "interface", "layout", "lowp", "macro", "match", "mediump", "meta",
		"mod", "module", "move", "mut", "mutable", "namespace", "new", "nil", "noexcept",
		"noinline", "nointerpolation", "null", "of", "operator", "package", "packoffset",
		"partition", "pass", "patch", "pixelfragment", "precise", "precision", "premerge",
		"priv", "protected", "pub", "public", "readonly", "ref", "regardless", "register",
		"reinterpret_cast", "require", "resource", "restrict", "self", "set", "shared",
		"sizeof", "smooth", "snorm", "static", "static_assert", "static_cast", "std",
		"subroutine", "super", "target", "template", "this", "thread_local", "throw",
		"trait", "try", "type", "typedef", "typeid", "typename", "typeof", "union",
		"unless", "unorm", "unsafe", "unsized", "use", "using", "varying", "virtual",
		"volatile", "wgsl", "where", "with", "writeonly", "yield",
	}
	wgslBuiltins = []string{
		"main", "abs", "acos", "asin", "atan", "ceil", "clamp", "cos", "cross",
		"distance", "dot", "exp", "exp2", "floor", "fract", "length", "log", "log2",
		"max", "min", "mix", "normalize", "pow", "reflect", "sign", "sin", "smoothstep",
		"sqrt", "step", "tan", "select", "bitcast",
	}
)
