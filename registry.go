package ogrescript

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// EnumItem is one selectable parent-material entry for host UIs: display
// label, value, and the script file it came from.
type EnumItem struct {
	Display string `json:"display" yaml:"display"`
	Value   string `json:"value" yaml:"value"`
	Origin  string `json:"origin" yaml:"origin"`
}

// Registry is the namespace of parsed material definitions and shader
// programs. It is owned by the caller and expects a single writer at a
// time: populate it with ScanDir before generating, then treat it as
// read-only. Wrap mutations in a mutex if concurrent access is ever
// needed.
type Registry struct {
	Materials map[string]*MaterialDefinition `json:"materials,omitempty" yaml:"materials,omitempty"`
	Programs  map[string]*Program            `json:"programs,omitempty" yaml:"programs,omitempty"`

	// Missing holds programs whose backing source file failed to load.
	// They are diagnostics only and never enter Programs.
	Missing []*Program `json:"missing,omitempty" yaml:"missing,omitempty"`

	// Entries lists materials that carry program references, one entry per
	// successful parse, so name collisions stay visible.
	Entries []EnumItem `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		Materials: make(map[string]*MaterialDefinition),
		Programs:  make(map[string]*Program),
	}
}

// Material looks up a material definition by name.
func (r *Registry) Material(name string) (*MaterialDefinition, bool) {
	def, ok := r.Materials[name]
	return def, ok
}

// EntriesFor returns every enumeration entry recorded under name, one per
// successful parse of a material carrying program references.
func (r *Registry) EntriesFor(name string) []EnumItem {
	var out []EnumItem
	for _, e := range r.Entries {
		if e.Value == name {
			out = append(out, e)
		}
	}
	return out
}

// Program looks up an active program by name.
func (r *Registry) Program(name string) (*Program, bool) {
	p, ok := r.Programs[name]
	return p, ok
}

// AddMaterial registers a definition. Redefinition of an existing name is
// last-write-wins and logged, never fatal.
func (r *Registry) AddMaterial(def *MaterialDefinition, opt *ParseOptions) {
	popt := opt.normalize()
	if _, ok := r.Materials[def.Name]; ok {
		popt.Logger.WithFields(logrus.Fields{"material": def.Name, "file": def.Origin}).
			Warn("material redefined, keeping the newer definition")
		popt.Report.Warn("redefined", "material redefined", def.Name)
	}
	r.Materials[def.Name] = def

	if len(def.VertexPrograms) > 0 || len(def.FragmentPrograms) > 0 {
		r.Entries = append(r.Entries, EnumItem{Display: def.Name, Value: def.Name, Origin: def.Origin})
	}
}

// AddScriptFile parses a .material file and registers every definition in
// it. Unreadable files are logged and skipped.
func (r *Registry) AddScriptFile(path string, opt *ParseOptions) {
	popt := opt.normalize()
	defs, err := DecodeMaterialFile(path, &popt)
	if err != nil {
		popt.Logger.Warnf("cannot read material script: %v", err)
		popt.Report.Error("unreadable", err.Error(), path)
		return
	}
	for _, def := range defs {
		r.AddMaterial(def, &popt)
	}
}

// AddProgramFile parses a .program file. Programs without a source are
// skipped silently; programs whose source fails to load go to the Missing
// diagnostic list instead of the active set.
func (r *Registry) AddProgramFile(path string, opt *ParseOptions) {
	popt := opt.normalize()
	data, err := os.ReadFile(path)
	if err != nil {
		popt.Logger.Warnf("cannot read program script: %v", err)
		popt.Report.Error("unreadable", err.Error(), path)
		return
	}

	for _, p := range ParsePrograms(data, path, &popt) {
		if p.Source == "" {
			continue
		}
		if !p.Reload(filepath.Dir(path)) {
			popt.Logger.WithFields(logrus.Fields{"program": p.Name, "source": p.Source}).
				Warn("program source missing")
			popt.Report.Warn("missing_program_source", "program source missing", p.Name)
			r.Missing = append(r.Missing, p)
			continue
		}
		r.Programs[p.Name] = p
	}
}

// ScanDir walks a directory tree depth-first and registers every .material
// and .program file found. I/O failures are logged and the scan continues
// with whatever could be read.
func (r *Registry) ScanDir(path string, opt *ParseOptions) {
	popt := opt.normalize()

	entries, err := os.ReadDir(path)
	if err != nil {
		popt.Logger.Warnf("cannot scan directory: %v", err)
		popt.Report.Error("unreadable", err.Error(), path)
		return
	}

	for _, entry := range entries {
		url := filepath.Join(path, entry.Name())
		switch {
		case entry.IsDir():
			r.ScanDir(url, &popt)
		case strings.HasSuffix(entry.Name(), ".material"):
			popt.Logger.Debugf("found material %s", url)
			r.AddScriptFile(url, &popt)
		case strings.HasSuffix(entry.Name(), ".program"):
			popt.Logger.Debugf("found program %s", url)
			r.AddProgramFile(url, &popt)
		}
	}
}
