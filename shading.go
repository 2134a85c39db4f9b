package ogrescript

import "github.com/go-gl/mathgl/mgl32"

// ShadingDescription is the abstract, host-independent description of one
// material authored in a 3D tool. The host fills it from its own shading
// model; the generator turns it into script text.
type ShadingDescription struct {
	// Name is the authored material name before sanitization.
	Name string
	// Library is the path of the library file the material came from, or
	// empty for a local material. Library materials get a file-based name
	// prefix so identically named materials from several libraries do not
	// collide in one namespace.
	Library string
	// ReceiveShadows requests shadow reception in the emitted material.
	ReceiveShadows bool
	// BlendMethod is the host blend mode; anything but "opaque" makes the
	// base color alpha effective.
	BlendMethod string

	BaseColor mgl32.Vec4 // Base color with alpha
	Metallic  float32    // Metallic input of the metallic/roughness model
	Roughness float32    // Roughness input of the metallic/roughness model

	// Parent optionally names a user-authored material to inherit from via
	// the registry.
	Parent string

	// Directives carries custom engine directives in authored order. A
	// bool value is rendered as on/off, everything else with the writer's
	// numeric or plain word rules.
	Directives []Directive

	// Channels are the ordered texture-channel bindings of this material.
	Channels []*TextureChannel

	// SubPasses are additional pass descriptions emitted after the primary
	// pass within the same technique.
	SubPasses []*ShadingDescription
}

// Directive is one custom engine directive: a bare name and value emitted
// verbatim inside the pass.
type Directive struct {
	Name  string
	Value any
}

// TextureChannel is one named texture binding of a shading description.
type TextureChannel struct {
	// Key is the channel binding name (base_color_texture, ...).
	Key string
	// Image references the bound image, nil for an unbound channel.
	Image *ImageRef

	// Extension is the wrap mode (repeat, extend, clip, checker).
	Extension string
	// BorderColor is emitted as tex_border_colour for clipped channels.
	BorderColor mgl32.Vec3

	Scale       mgl32.Vec3 // Non-identity scale emits scale 1/sx 1/sy
	Translation mgl32.Vec3 // Non-zero x/y emits scroll
	Rotation    float32    // Non-zero z rotation in radians emits rotate

	// TexCoords marks the coordinate source; reflection-mapped channels
	// emit env_map for sphere or flat projections.
	TexCoords  string
	Projection string

	// Blend selects the colour operation; empty defaults to modulate.
	// BlendFactor is the host blend factor consumed by blend_manual.
	Blend       string
	BlendFactor float32

	// TexCoordSet optionally selects an UV set index.
	TexCoordSet *int
}

// Bound reports whether the channel carries an image.
func (c *TextureChannel) Bound() bool {
	return c != nil && c.Image != nil
}
