/*
Package ogrescript provides a bidirectional engine for OGRE material
scripts: a parser that turns .material/.program text into a structured
material/technique/pass/texture-unit/program tree, and a generator that
emits the same grammar from an abstract shading description, including
parent-material inheritance through abstract passes and asset resolution
for textures and shader programs.

Parsing a directory tree of existing scripts into a registry:

	reg := ogrescript.NewRegistry()
	reg.ScanDir("media/materials", nil)
	parent, ok := reg.Material("Ocean/Calm")

Generating a material script:

	desc := &ogrescript.ShadingDescription{
		Name:      "hull",
		BaseColor: mgl32.Vec4{0.8, 0.8, 0.8, 1},
		Metallic:  0.2,
		Roughness: 0.5,
		Parent:    "Ocean/Calm",
	}
	gen := ogrescript.NewGenerator(desc, reg, nil)
	text := gen.Generate()

Writing a batch of materials and synchronizing their assets:

	err := ogrescript.WriteMaterials(descs, reg, "export", &ogrescript.GenerateOptions{
		TouchTextures: true,
		CopyPrograms:  true,
	})

Every generated script re-parses into a structurally equal definition:
name, technique count, pass count, and texture-unit names round-trip.
Recovered conditions (anonymous texture units, unknown param types,
redefined names, missing parents) are logged and optionally collected
into a Report; only a missing material header or an unbalanced pass body
is fatal to a chunk.
*/
package ogrescript
