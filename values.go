package ogrescript

// Texture channel wrap modes as authored by the host tool.
const (
	WrapRepeat  = "repeat"
	WrapExtend  = "extend"
	WrapClip    = "clip"
	WrapChecker = "checker"
)

// Texture channel projection and coordinate modes.
const (
	TexCoordsUV         = "uv"
	TexCoordsReflection = "reflection"

	ProjectionSphere = "sphere"
	ProjectionFlat   = "flat"
)

// textureAddressMode maps host wrap modes to tex_address_mode tokens.
var textureAddressMode = map[string]string{
	WrapRepeat:  "wrap",
	WrapExtend:  "clamp",
	WrapClip:    "border",
	WrapChecker: "mirror",
}

// textureColourOp maps host blend modes onto simple colour_op tokens.
// "mix" stays modulate: replace would kill lighting.
var textureColourOp = map[string]string{
	"mix":      "modulate",
	"add":      "add",
	"multiply": "modulate",
}

// textureColourOpEx maps host blend modes that need the extended
// colour_op_ex form with explicit source arguments.
var textureColourOpEx = map[string]string{
	"mix":        "blend_manual",
	"screen":     "modulate_x2",
	"lighten":    "modulate_x4",
	"subtract":   "subtract",
	"overlay":    "add_signed",
	"difference": "dotproduct", // best match
	"value":      "blend_diffuse_colour",
}

// ImageFormats lists the image file formats the exporter can force.
var ImageFormats = []string{"bmp", "jpg", "gif", "png", "tga", "dds"}

// paramFloatArity gives the expected value count per numeric param_named
// type tag. Tags outside this table are kept as raw tokens only.
var paramFloatArity = map[string]int{
	"float":  1,
	"float2": 2,
	"float3": 3,
	"float4": 4,
}
