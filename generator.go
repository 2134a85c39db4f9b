package ogrescript

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// BlendOpaque is the host blend method that forces the material alpha to
// one. An empty BlendMethod is treated as opaque.
const BlendOpaque = "opaque"

// MissingMaterial is appended once to combined emissions that reference an
// absent material. The red diffuse flags the missing assignment without
// crashing the import.
const MissingMaterial = `material _missing_material_
{
    receive_shadows off
    technique
    {
        pass
        {
            ambient 0.1 0.1 0.1 1.0
            diffuse 0.8 0.0 0.0 1.0
            specular 0.5 0.5 0.5 1.0 12.5
            emissive 0.3 0.3 0.3 1.0
        }
    }
}
`

var invalidNameChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// SanitizeName replaces characters invalid in material names with
// underscores.
func SanitizeName(name string) string {
	return invalidNameChars.ReplaceAllString(name, "_")
}

// MaterialName resolves the emitted name of a shading description.
// Library materials are prefixed with the library file's base name so that
// identically named materials from several libraries stay distinct; local
// materials get the configured prefix.
func MaterialName(desc *ShadingDescription, prefix string) string {
	name := SanitizeName(desc.Name)
	if desc.Library != "" {
		lib := filepath.Base(desc.Library)
		lib = strings.TrimSuffix(lib, filepath.Ext(lib))
		return SanitizeName(lib) + "_" + name
	}

	return prefix + name
}

// Generator turns one shading description into material script text,
// consulting the registry for parent materials and collecting the image
// and program assets the emitted script references.
type Generator struct {
	desc *ShadingDescription
	reg  *Registry
	opt  GenerateOptions
	w    *IndentedWriter
	name string

	images map[string]*ImageRef // Referenced images keyed by file path
}

// NewGenerator creates a generator for one shading description.
func NewGenerator(desc *ShadingDescription, reg *Registry, opt *GenerateOptions) *Generator {
	gopt := opt.normalize()
	return &Generator{
		desc:   desc,
		reg:    reg,
		opt:    gopt,
		w:      NewIndentedWriter(),
		name:   MaterialName(desc, gopt.Prefix),
		images: make(map[string]*ImageRef),
	}
}

// MaterialName returns the resolved name of the generated material.
func (g *Generator) MaterialName() string {
	return g.name
}

// Generate emits the material script text. The writer buffer is owned by
// this invocation and cleared on return; referenced assets remain
// available through Images and ActivePrograms.
func (g *Generator) Generate() string {
	w := g.w
	w.Line(fmt.Sprintf("// %s generated by ogrescript %s", g.desc.Name,
		g.opt.Now().Format("2006-01-02 15:04:05")))

	g.generateHeader()

	w.IWord("material").Word(g.name).Embed(func() {
		if g.desc.ReceiveShadows {
			w.ILine("receive_shadows on")
		} else {
			w.ILine("receive_shadows off")
		}
		w.IWord("technique").Embed(func() {
			g.generatePass(g.desc, "")
			for _, sub := range g.desc.SubPasses {
				g.generatePass(sub, SanitizeName(sub.Name))
			}
		})
	})

	return w.Flush()
}

// generateHeader emits the abstract-pass declarations of every inherited
// parent material before the material block. Abstract passes are
// top-level constructs: their bodies are copied verbatim from the parent
// definitions already validated at parse time.
func (g *Generator) generateHeader() {
	seen := make(map[string]bool)
	for _, d := range g.withSubPasses() {
		if d.Parent == "" || seen[d.Parent] {
			continue
		}
		seen[d.Parent] = true

		parent, ok := g.reg.Material(d.Parent)
		if !ok {
			continue
		}
		g.w.ILine("// user material: " + parent.Name)
		g.w.ILine("// abstract passes //")
		for _, ap := range parent.AsAbstractPasses() {
			g.w.Line(ap)
		}
	}
}

// generatePass emits one pass block for a shading description.
func (g *Generator) generatePass(d *ShadingDescription, passName string) {
	w := g.w

	var parent *MaterialDefinition
	if d.Parent != "" {
		p, ok := g.reg.Material(d.Parent)
		if ok {
			parent = p
		} else {
			// Missing parent falls back to the plain pass path.
			g.opt.Logger.WithFields(logrus.Fields{"material": g.name, "parent": d.Parent}).
				Warn("parent material not found in registry, generating without inheritance")
			g.opt.Report.Warn("missing_parent", "parent material not found", d.Parent)
		}
	}

	w.IWord("pass")
	if passName != "" {
		w.Word(passName)
	}
	if parent != nil {
		w.Word(":").Word(parent.Name + "/PASS0")
	}

	w.Embed(func() {
		color := d.BaseColor
		alpha := float32(1)
		if d.BlendMethod != "" && !strings.EqualFold(d.BlendMethod, BlendOpaque) {
			alpha = color.W()
		}

		for _, c := range d.Channels {
			if c.Bound() {
				g.images[c.Image.FilePath] = c.Image
			}
		}

		// Approximate the metallic/roughness model with diffuse+specular:
		// metallic drains the diffuse term and feeds the specular color,
		// roughness flattens the specular highlight.
		bf := 1 - d.Metallic
		mf := math32.Max(0.04, d.Metallic)
		rgb := color.Vec3()
		sc := rgb.Mul(mf).Add(mgl32.Vec3{1, 1, 1}.Mul((1 - mf) * (1 - d.Roughness)))
		si := (1 - d.Roughness) * 128

		w.IWord("diffuse").Real(rgb.X() * bf).Real(rgb.Y() * bf).Real(rgb.Z() * bf).Real(alpha).NL()
		w.IWord("specular").Real(sc.X()).Real(sc.Y()).Real(sc.Z()).Real(alpha).Real(si).NL()

		for _, dir := range d.Directives {
			w.IWord(dir.Name)
			writeDirectiveValue(w, dir.Value)
			w.NL()
		}
		w.NL()

		if parent != nil && len(parent.TextureUnits) > 0 {
			// Parent slots bind positionally; channels beyond the slot
			// count are dropped, unfilled slots stay empty.
			for i, slot := range parent.TextureUnitsOrder {
				if i >= len(d.Channels) {
					break
				}
				if c := d.Channels[i]; c.Bound() {
					g.generateTextureUnit(c, slot)
				}
			}
		} else {
			for _, c := range d.Channels {
				if c.Bound() {
					g.generateTextureUnit(c, "")
				}
			}
		}
	})
}

// generateTextureUnit emits one texture_unit block for a bound channel.
func (g *Generator) generateTextureUnit(c *TextureChannel, name string) {
	w := g.w
	filename := c.Image.ResolveFileName(g.opt.ForceImageFormat)

	w.IWord("texture_unit")
	if name != "" {
		w.Word(name)
	}
	w.Embed(func() {
		w.IWord("texture").Word(filename).NL()

		if mode, ok := textureAddressMode[c.Extension]; ok {
			w.IWord("tex_address_mode").Word(mode).NL()
		}
		if c.Extension == WrapClip {
			w.IWord("tex_border_colour").
				Real(c.BorderColor.X()).Real(c.BorderColor.Y()).Real(c.BorderColor.Z()).NL()
		}

		if scale := c.Scale; scale != (mgl32.Vec3{}) && scale != (mgl32.Vec3{1, 1, 1}) {
			w.IWord("scale").Real(1 / scale.X()).Real(1 / scale.Y()).NL()
		}

		if strings.EqualFold(c.TexCoords, TexCoordsReflection) {
			switch strings.ToLower(c.Projection) {
			case ProjectionSphere:
				w.ILine("env_map spherical")
			case ProjectionFlat:
				w.ILine("env_map planar")
			default:
				g.opt.Logger.WithFields(logrus.Fields{"channel": c.Key, "projection": c.Projection}).
					Warn("reflection-mapped channel needs a sphere or flat projection, omitting env_map")
				g.opt.Report.Warn("bad_projection", "unsupported reflection projection", c.Key)
			}
		}

		if c.Translation.X() != 0 || c.Translation.Y() != 0 {
			w.IWord("scroll").Real(c.Translation.X()).Real(c.Translation.Y()).NL()
		}
		if c.Rotation != 0 {
			w.IWord("rotate").Real(c.Rotation).NL()
		}
		if c.TexCoordSet != nil {
			w.IWord("tex_coord_set").Integer(*c.TexCoordSet).NL()
		}

		g.generateColourOp(c)
	})
}

// generateColourOp emits the channel's blend operation, defaulting to
// modulate when the blend mode has no mapping.
func (g *Generator) generateColourOp(c *TextureChannel) {
	w := g.w
	blend := strings.ToLower(c.Blend)

	// A mix blend with a partial factor needs the extended form so the
	// manual factor survives.
	if blend == "mix" && c.BlendFactor > 0 && c.BlendFactor < 1 {
		w.IWord("colour_op_ex").Word("blend_manual").Word("src_texture src_current").
			Real(1 - c.BlendFactor).NL()
		return
	}

	if op, ok := textureColourOp[blend]; ok {
		w.IWord("colour_op").Word(op).NL()
		return
	}
	if op, ok := textureColourOpEx[blend]; ok {
		w.IWord("colour_op_ex").Word(op).Word("src_texture src_current")
		if op == "blend_manual" {
			w.Real(1 - c.BlendFactor)
		}
		w.NL()
		return
	}

	w.IWord("colour_op").Word("modulate").NL()
}

// Images returns the referenced image assets sorted by file path.
func (g *Generator) Images() []*ImageRef {
	paths := make([]string, 0, len(g.images))
	for path := range g.images {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	out := make([]*ImageRef, 0, len(paths))
	for _, path := range paths {
		out = append(out, g.images[path])
	}

	return out
}

// ActivePrograms returns the registry programs referenced through the
// parent materials of this description, sorted by name.
func (g *Generator) ActivePrograms() []*Program {
	seen := make(map[string]bool)
	var names []string
	for _, d := range g.withSubPasses() {
		parent, ok := g.reg.Material(d.Parent)
		if d.Parent == "" || !ok {
			continue
		}
		for _, name := range parent.Programs() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)

	var out []*Program
	for _, name := range names {
		p, ok := g.reg.Program(name)
		if !ok {
			g.opt.Logger.WithFields(logrus.Fields{"program": name}).
				Debug("no shader program with this name")
			continue
		}
		out = append(out, p)
	}

	return out
}

// CopyTextures synchronizes every referenced image into the target.
func (g *Generator) CopyTextures(s *Synchronizer) {
	for _, img := range g.Images() {
		if err := s.SyncImage(img, img.ResolveFileName(g.opt.ForceImageFormat)); err != nil {
			g.opt.Logger.Warnf("texture sync failed: %v", err)
			g.opt.Report.Warn("sync_failed", err.Error(), img.FilePath)
		}
	}
}

// CopyPrograms synchronizes the source files of every referenced program
// into the target.
func (g *Generator) CopyPrograms(s *Synchronizer) {
	for _, p := range g.ActivePrograms() {
		if err := s.SyncProgram(p); err != nil {
			g.opt.Logger.Warnf("program sync failed: %v", err)
			g.opt.Report.Warn("sync_failed", err.Error(), p.Name)
		}
	}
}

// withSubPasses returns the description followed by its sub-passes.
func (g *Generator) withSubPasses() []*ShadingDescription {
	return append([]*ShadingDescription{g.desc}, g.desc.SubPasses...)
}

// writeDirectiveValue renders a custom directive value, translating bools
// to on/off tokens.
func writeDirectiveValue(w *IndentedWriter, value any) {
	switch v := value.(type) {
	case bool:
		if v {
			w.Word("on")
		} else {
			w.Word("off")
		}
	case string:
		w.Word(v)
	case float32:
		w.Real(v)
	case float64:
		w.Real(float32(v))
	case int:
		w.Integer(v)
	default:
		w.Word(fmt.Sprint(v))
	}
}

// WriteMaterial generates one material and writes it to
// <dir>/<material-name>.material, synchronizing assets when requested.
// It returns the resolved material name.
func WriteMaterial(desc *ShadingDescription, reg *Registry, dir string, opt *GenerateOptions) (string, error) {
	gopt := opt.normalize()
	g := NewGenerator(desc, reg, &gopt)
	text := g.Generate()
	gopt.Report.AddMaterial(g.MaterialName())

	syncAssets(g, dir, gopt)

	target := filepath.Join(dir, g.MaterialName()+".material")
	if err := os.WriteFile(target, []byte(text), 0o644); err != nil {
		return g.MaterialName(), err
	}

	return g.MaterialName(), nil
}

// WriteMaterials emits a batch of materials: one file per material when
// SeparateFiles is set, otherwise a combined <Prefix>.material. A nil
// description marks an absent material reference; the combined file then
// ends with the missing-material fallback block, appended exactly once.
func WriteMaterials(descs []*ShadingDescription, reg *Registry, dir string, opt *GenerateOptions) error {
	gopt := opt.normalize()
	if len(descs) == 0 {
		gopt.Logger.Debug("no materials, not writing material script")
		return nil
	}

	if gopt.SeparateFiles {
		for _, desc := range descs {
			if desc == nil {
				continue
			}
			if _, err := WriteMaterial(desc, reg, dir, &gopt); err != nil {
				return err
			}
		}
		return nil
	}

	prefix := gopt.Prefix
	if prefix == "" {
		prefix = "mats"
	}

	var b strings.Builder
	includeMissing := false
	for _, desc := range descs {
		if desc == nil {
			includeMissing = true
			continue
		}

		g := NewGenerator(desc, reg, &gopt)
		// Generate before synchronizing so the image set is collected.
		text := g.Generate()
		gopt.Report.AddMaterial(g.MaterialName())
		syncAssets(g, dir, gopt)

		b.WriteString(text)
		b.WriteString("\n")
	}

	if includeMissing {
		b.WriteString(MissingMaterial)
		b.WriteString("\n")
	}

	target := filepath.Join(dir, prefix+".material")
	return os.WriteFile(target, []byte(b.String()), 0o644)
}

// syncAssets runs the program/texture synchronization requested by the
// options.
func syncAssets(g *Generator, dir string, gopt GenerateOptions) {
	if !gopt.CopyPrograms && !gopt.TouchTextures {
		return
	}

	s := NewSynchronizer(dir, &SyncOptions{Logger: gopt.Logger, Report: gopt.Report})
	if gopt.CopyPrograms {
		g.CopyPrograms(s)
	}
	if gopt.TouchTextures {
		g.CopyTextures(s)
	}
}
