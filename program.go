package ogrescript

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Program represents one shader program declaration parsed from a .program
// file, together with the backing source file it names.
type Program struct {
	Name       string           `json:"name" yaml:"name"`
	Kind       string           `json:"kind" yaml:"kind"`                                 // vertex_program or fragment_program
	Syntax     string           `json:"syntax,omitempty" yaml:"syntax,omitempty"`         // glsl, hlsl, asm, ...
	Source     string           `json:"source,omitempty" yaml:"source,omitempty"`         // Backing source file as written
	EntryPoint string           `json:"entryPoint,omitempty" yaml:"entryPoint,omitempty"`
	Profiles   []string         `json:"profiles,omitempty" yaml:"profiles,omitempty"`
	Params     map[string]Param `json:"params,omitempty" yaml:"params,omitempty"` // default_params param_named entries
	Data       string           `json:"-" yaml:"-"`                               // Raw chunk text
	Origin     string           `json:"origin,omitempty" yaml:"origin,omitempty"` // .program file the chunk came from

	// Compiled is set once the backing source file has been confirmed
	// present and loadable.
	Compiled bool `json:"compiled" yaml:"compiled"`

	sourcePath string // Resolved source file location
	sourceText []byte // Loaded source contents
}

// ParsePrograms splits a .program file into declaration chunks and parses
// each one. Chunks without a name or head line are dropped with a warning.
func ParsePrograms(data []byte, origin string, opt *ParseOptions) []*Program {
	popt := opt.normalize()

	var progs []*Program
	for _, chunk := range splitProgramChunks(string(data)) {
		p, err := newProgram(chunk, origin, popt)
		if err != nil {
			popt.Logger.WithFields(logrus.Fields{"file": origin}).
				Warnf("skipping program chunk: %v", err)
			popt.Report.Warn("bad_program_chunk", err.Error(), origin)
			continue
		}
		progs = append(progs, p)
	}

	return progs
}

// splitProgramChunks cuts a .program file into disjoint declaration chunks.
// Comments are stripped first; a closing brace at column zero terminates
// the current chunk (indented closers belong to nested blocks such as
// default_params). Blank chunks are discarded.
func splitProgramChunks(data string) []string {
	var chunks []string
	var chunk []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimRight(stripComment(line), "\r")
		switch {
		case strings.HasPrefix(line, "}"):
			chunk = append(chunk, line)
			chunks = append(chunks, strings.Join(chunk, "\n"))
			chunk = nil
		case strings.TrimSpace(line) != "":
			chunk = append(chunk, line)
		}
	}
	if len(chunk) > 0 {
		chunks = append(chunks, strings.Join(chunk, "\n"))
	}

	return chunks
}

// newProgram builds a Program from one declaration chunk.
func newProgram(chunk, origin string, opt ParseOptions) (*Program, error) {
	lines := strings.Split(strings.TrimSpace(chunk), "\n")
	head := strings.Fields(lines[0])
	if len(head) < 2 {
		return nil, errors.Wrapf(ErrProgram, "missing declaration head in %q", lines[0])
	}

	p := &Program{
		Kind:   head[0],
		Name:   head[1],
		Data:   chunk,
		Origin: origin,
		Params: make(map[string]Param),
	}
	if len(head) > 2 {
		p.Syntax = head[2]
	}

	// Parameter defaults reuse the material param_named grammar.
	ref := &ProgramRef{Name: p.Name, Params: p.Params}
	for _, raw := range lines[1:] {
		line := strings.TrimSpace(raw)
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "source":
			p.Source = lastToken(line)
		case "entry_point":
			p.EntryPoint = lastToken(line)
		case "profiles":
			p.Profiles = fields[1:]
		case "param_named":
			parseParamNamed(line, ref, p.Name, opt)
		}
	}

	return p, nil
}

// Reload resolves and loads the program's backing source file relative to
// dir. It reports whether the source was found and readable, setting
// Compiled accordingly.
func (p *Program) Reload(dir string) bool {
	if p.Source == "" {
		return false
	}

	path := p.Source
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, p.Source)
	}

	text, err := os.ReadFile(path)
	if err != nil {
		p.Compiled = false
		return false
	}

	p.sourcePath = path
	p.sourceText = text
	p.Compiled = true
	return true
}

// Save writes the loaded source file into targetDir under its own base
// name. The program must have been reloaded first.
func (p *Program) Save(targetDir string) error {
	if !p.Compiled {
		return errors.Wrapf(ErrProgram, "program %q has no loaded source", p.Name)
	}

	target := filepath.Join(targetDir, filepath.Base(p.Source))
	if err := os.WriteFile(target, p.sourceText, 0o644); err != nil {
		return errors.Wrapf(err, "save program source %q", p.Name)
	}

	return nil
}
