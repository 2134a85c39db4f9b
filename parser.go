package ogrescript

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// The .material grammar is line-oriented: directives never span lines and
// pass bodies must be captured verbatim, so parsing walks lines with an
// explicit context (technique, pass, program ref, texture unit) instead of
// a token scanner.

// ParseMaterials parses every material definition found in a script.
// Chunks that fail the grammar (no material header, unbalanced pass body)
// are logged and skipped; the remaining chunks are still returned.
func ParseMaterials(data []byte, opt *ParseOptions) []*MaterialDefinition {
	return parseMaterials(string(data), "", opt.normalize())
}

// DecodeMaterials parses material definitions from a reader.
func DecodeMaterials(r io.Reader, opt *ParseOptions) ([]*MaterialDefinition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read material script")
	}

	return ParseMaterials(data, opt), nil
}

// DecodeMaterialFile parses material definitions from a file.
func DecodeMaterialFile(path string, opt *ParseOptions) ([]*MaterialDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read material script %q", path)
	}

	return parseMaterials(string(data), path, opt.normalize()), nil
}

// parseMaterials chops the script into material chunks and parses each one
// independently, preserving chunk order.
func parseMaterials(data, origin string, opt ParseOptions) []*MaterialDefinition {
	var defs []*MaterialDefinition
	for _, chunk := range splitScript(data) {
		def, err := ParseDefinition(chunk, origin, &opt)
		if err != nil {
			opt.Logger.WithFields(logrus.Fields{"file": origin}).
				Warnf("skipping material chunk: %v", err)
			opt.Report.Error("bad_chunk", err.Error(), origin)
			continue
		}
		defs = append(defs, def)
	}

	return defs
}

// splitScript splits raw script text into candidate material chunks. A line
// whose first token is "material" starts a new chunk; vertex_program,
// fragment_program, and abstract blocks are skipped as opaque regions
// ending at the next line equal to "}"; any other line belongs to the open
// chunk. Blank lines are discarded.
func splitScript(data string) []string {
	var chunks [][]string
	skip := false
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		switch tok := firstToken(line); {
		case tok == "material":
			// A material declaration always terminates a skip region:
			// abstract-pass bodies copied from parent materials keep their
			// original indentation and may never hit a bare closer line.
			skip = false
			chunks = append(chunks, []string{line})
		case tok == "vertex_program" || tok == "fragment_program" || tok == "abstract":
			skip = true
		case len(chunks) > 0 && !skip:
			chunks[len(chunks)-1] = append(chunks[len(chunks)-1], line)
		case skip && line == "}":
			skip = false
		}
	}

	out := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		out = append(out, strings.Join(chunk, "\n"))
	}

	return out
}

// ParseDefinition parses one material chunk into a MaterialDefinition.
func ParseDefinition(chunk, origin string, opt *ParseOptions) (*MaterialDefinition, error) {
	popt := opt.normalize()
	log := popt.Logger

	def := &MaterialDefinition{
		Origin:           origin,
		Data:             strings.TrimSpace(chunk),
		VertexPrograms:   make(map[string]*ProgramRef),
		FragmentPrograms: make(map[string]*ProgramRef),
		TextureUnits:     make(map[string]*TextureUnit),
	}

	lines := strings.Split(def.Data, "\n")
	if len(lines) == 0 || !strings.HasPrefix(strings.TrimSpace(lines[0]), "material") {
		return nil, fmt.Errorf("%w: chunk does not start with a material declaration", ErrGrammar)
	}

	head := strings.TrimSpace(lines[0])
	if idx := strings.Index(head, ":"); idx >= 0 {
		def.Parent = strings.TrimSpace(head[idx+1:])
		head = head[:idx]
	}
	def.Name = lastToken(head)

	var (
		tech      *Technique
		prog      *ProgramRef
		tex       *TextureUnit
		bodyLines = make(map[*Pass][]string)
	)
	for _, rawline := range lines {
		line := strings.TrimSpace(stripComment(rawline))
		if line == "" {
			continue
		}

		// Popping any innermost context on a lone closing brace matches
		// the grammar: program refs and texture units never nest.
		if line == "}" {
			prog, tex = nil, nil
		}

		switch {
		case strings.HasPrefix(line, "technique"):
			tech = &Technique{}
			if len(strings.Fields(line)) > 1 {
				tech.Name = lastToken(line)
			}
			def.Techniques = append(def.Techniques, tech)

		case tech == nil:
			// Material-level directives before the first technique
			// (receive_shadows and friends) carry no structure we need.

		case strings.HasPrefix(line, "pass"):
			p := &Pass{}
			if name := passName(line); name != "" {
				p.Name = name
			}
			tech.Passes = append(tech.Passes, p)
			def.passes = append(def.passes, p)

		case len(tech.Passes) > 0:
			p := tech.Passes[len(tech.Passes)-1]
			bodyLines[p] = append(bodyLines[p], rawline)
			if line == "{" || line == "}" {
				continue
			}

			switch {
			case strings.HasPrefix(line, "vertex_program_ref"):
				prog = &ProgramRef{Name: lastToken(line), Params: make(map[string]Param)}
				p.VertexProgram = prog
				def.VertexPrograms[prog.Name] = prog

			case strings.HasPrefix(line, "fragment_program_ref"):
				prog = &ProgramRef{Name: lastToken(line), Params: make(map[string]Param)}
				p.FragmentProgram = prog
				def.FragmentPrograms[prog.Name] = prog

			case strings.HasPrefix(line, "texture_unit"):
				prog = nil
				tex = &TextureUnit{Name: lastToken(line), Params: make(map[string][]string)}
				if tex.Name == "texture_unit" {
					// Anonymous unit: still scanned for brace balance but
					// never retained.
					log.WithFields(logrus.Fields{"material": def.Name}).
						Warn("material contains unnamed texture_unit, ignoring it")
					popt.Report.Warn("unnamed_texture_unit", "unnamed texture_unit ignored", def.Name)
					continue
				}
				p.TextureUnits = append(p.TextureUnits, tex)
				def.TextureUnits[tex.Name] = tex
				def.TextureUnitsOrder = append(def.TextureUnitsOrder, tex.Name)

			case prog != nil:
				if firstToken(line) == "param_named" {
					parseParamNamed(line, prog, def.Name, popt)
				}

			case tex != nil:
				fields := strings.Fields(line)
				tex.Params[fields[0]] = fields[1:]
			}
		}
	}

	for _, p := range def.passes {
		body, err := trimPassBody(bodyLines[p])
		if err != nil {
			return nil, errors.Wrapf(err, "material %q", def.Name)
		}
		p.Body = body
	}

	def.dropTexturelessUnits(popt)

	if len(def.Techniques) > 1 {
		log.WithFields(logrus.Fields{"material": def.Name, "file": origin}).
			Warn("material has more than one technique")
		popt.Report.Warn("multiple_techniques", "material has more than one technique", def.Name)
	}

	return def, nil
}

// trimPassBody removes trailing stray closing-brace lines until the body's
// brace counts balance. A body that still does not balance means the
// parser choked on the chunk.
func trimPassBody(lines []string) (string, error) {
	for len(lines) > 0 && braceDelta(lines) != 0 {
		if strings.TrimSpace(lines[len(lines)-1]) == "}" {
			lines = lines[:len(lines)-1]
			continue
		}
		break
	}

	body := strings.Join(lines, "\n")
	if strings.Count(body, "{") != strings.Count(body, "}") {
		return "", fmt.Errorf("%w: pass body braces do not balance, the parser choked", ErrGrammar)
	}

	return body, nil
}

// braceDelta returns open minus close brace count across lines.
func braceDelta(lines []string) int {
	delta := 0
	for _, line := range lines {
		delta += strings.Count(line, "{") - strings.Count(line, "}")
	}
	return delta
}

// parseParamNamed parses one param_named directive into prog.
//
// Arity 4 is (param_named, name, type, value); arity 3 omits the type,
// which defaults to "class"; anything longer collects the remaining tokens
// as a vector value.
func parseParamNamed(line string, prog *ProgramRef, material string, opt ParseOptions) {
	items := strings.Fields(line)
	if len(items) < 3 {
		opt.Logger.WithFields(logrus.Fields{"material": material}).
			Warnf("malformed param_named directive: %q", line)
		opt.Report.Warn("bad_param_named", "malformed param_named directive", material)
		return
	}

	param := Param{Name: items[1]}
	switch {
	case len(items) == 3:
		param.Type = "class"
		param.RawTokens = items[2:]
	default:
		param.Type = items[2]
		param.RawTokens = items[3:]
	}

	if arity, ok := paramFloatArity[param.Type]; ok {
		values := make([]float32, 0, arity)
		for _, tok := range param.RawTokens {
			f, err := strconv.ParseFloat(tok, 32)
			if err != nil {
				values = nil
				break
			}
			values = append(values, float32(f))
		}
		if len(values) == arity {
			param.Values = values
		} else {
			opt.Logger.WithFields(logrus.Fields{"material": material, "param": param.Name}).
				Warnf("param_named %s expects %d float values, got %v", param.Type, arity, param.RawTokens)
			opt.Report.Warn("bad_param_value", "param_named value does not match its type", param.Name)
		}
	} else {
		opt.Logger.WithFields(logrus.Fields{"material": material, "param": param.Name}).
			Infof("unknown param_named type %q, keeping raw tokens", param.Type)
	}

	prog.Params[param.Name] = param
}

// dropTexturelessUnits removes texture units lacking a texture parameter
// from the definition's lookup mapping. The declaration-order list keeps
// their names so positional slot binding stays stable.
func (m *MaterialDefinition) dropTexturelessUnits(opt ParseOptions) {
	for _, name := range m.TextureUnitsOrder {
		tex, ok := m.TextureUnits[name]
		if !ok {
			continue
		}
		if _, ok := tex.Params["texture"]; ok {
			continue
		}

		opt.Logger.WithFields(logrus.Fields{"material": m.Name, "unit": name}).
			Warn("not using texture_unit because it lacks a \"texture\" parameter")
		opt.Report.Warn("textureless_unit", "texture_unit lacks a texture parameter", name)
		m.HiddenTextureUnits = append(m.HiddenTextureUnits, name)
		delete(m.TextureUnits, name)
	}
}

// passName extracts the optional pass name from its declaration line,
// ignoring any ": parent/PASSn" inheritance suffix.
func passName(line string) string {
	if idx := strings.Index(line, ":"); idx >= 0 {
		line = line[:idx]
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// stripComment discards everything after // on a line.
func stripComment(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		return line[:idx]
	}
	return line
}
