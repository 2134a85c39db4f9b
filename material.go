package ogrescript

import (
	"fmt"
	"strings"
)

// MaterialDefinition represents one parsed top-level material block of a
// .material script.
type MaterialDefinition struct {
	Name       string       `json:"name" yaml:"name"`                             // Material name, globally unique within a Registry
	Parent     string       `json:"parent,omitempty" yaml:"parent,omitempty"`     // Optional parent material name
	Origin     string       `json:"origin,omitempty" yaml:"origin,omitempty"`     // File the definition was parsed from
	Data       string       `json:"-" yaml:"-"`                                   // Raw chunk text
	Techniques []*Technique `json:"techniques,omitempty" yaml:"techniques,omitempty"` // Ordered techniques

	// Lookup maps populated during parsing. TextureUnits drops units that
	// lack a texture parameter; TextureUnitsOrder keeps the declaration
	// order of every named unit for positional slot binding.
	VertexPrograms    map[string]*ProgramRef  `json:"vertexPrograms,omitempty" yaml:"vertexPrograms,omitempty"`
	FragmentPrograms  map[string]*ProgramRef  `json:"fragmentPrograms,omitempty" yaml:"fragmentPrograms,omitempty"`
	TextureUnits      map[string]*TextureUnit `json:"textureUnits,omitempty" yaml:"textureUnits,omitempty"`
	TextureUnitsOrder []string                `json:"textureUnitsOrder,omitempty" yaml:"textureUnitsOrder,omitempty"`

	// HiddenTextureUnits lists units dropped for lacking a texture parameter.
	HiddenTextureUnits []string `json:"hiddenTextureUnits,omitempty" yaml:"hiddenTextureUnits,omitempty"`

	passes []*Pass // Flattened passes across techniques, declaration order
}

// Technique represents one technique block.
type Technique struct {
	Name   string  `json:"name,omitempty" yaml:"name,omitempty"` // Optional technique name
	Passes []*Pass `json:"passes,omitempty" yaml:"passes,omitempty"`
}

// Pass represents one pass block within a technique. Body holds the raw
// pass lines verbatim, trimmed of trailing stray closing braces so that its
// open and close brace counts always match.
type Pass struct {
	Name            string         `json:"name,omitempty" yaml:"name,omitempty"`
	TextureUnits    []*TextureUnit `json:"textureUnits,omitempty" yaml:"textureUnits,omitempty"`
	VertexProgram   *ProgramRef    `json:"vertexProgram,omitempty" yaml:"vertexProgram,omitempty"`
	FragmentProgram *ProgramRef    `json:"fragmentProgram,omitempty" yaml:"fragmentProgram,omitempty"`
	Body            string         `json:"-" yaml:"-"`
}

// TextureUnit represents one texture_unit block.
type TextureUnit struct {
	Name   string              `json:"name" yaml:"name"`
	Params map[string][]string `json:"params,omitempty" yaml:"params,omitempty"` // Directive name to remaining tokens
}

// ProgramRef represents a vertex_program_ref or fragment_program_ref block.
type ProgramRef struct {
	Name   string           `json:"name" yaml:"name"`
	Params map[string]Param `json:"params,omitempty" yaml:"params,omitempty"`
}

// Param represents one param_named directive of a program reference.
type Param struct {
	Name      string    `json:"name" yaml:"name"`
	Type      string    `json:"type" yaml:"type"`                             // Type tag, "class" when omitted
	RawTokens []string  `json:"rawTokens,omitempty" yaml:"rawTokens,omitempty"` // Value tokens as written
	Values    []float32 `json:"values,omitempty" yaml:"values,omitempty"`       // Parsed floats for float/float2/float3/float4
}

// Passes returns every pass of the definition across all techniques in
// declaration order.
func (m *MaterialDefinition) Passes() []*Pass {
	return m.passes
}

// Programs returns the names of all referenced vertex and fragment
// programs.
func (m *MaterialDefinition) Programs() []string {
	names := make([]string, 0, len(m.VertexPrograms)+len(m.FragmentPrograms))
	for name := range m.VertexPrograms {
		names = append(names, name)
	}
	for name := range m.FragmentPrograms {
		names = append(names, name)
	}
	return names
}

// AsAbstractPasses renders each pass as a named abstract pass declaration
// (`abstract pass <name>/PASS<i>` plus the verbatim body) so inheriting
// materials can reference them without textual duplication.
func (m *MaterialDefinition) AsAbstractPasses() []string {
	out := make([]string, 0, len(m.passes))
	for i, p := range m.passes {
		head := fmt.Sprintf("abstract pass %s/PASS%d", m.Name, i)
		out = append(out, head+"\n"+p.Body)
	}
	return out
}

// firstToken returns the first whitespace-delimited token of line.
func firstToken(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// lastToken returns the last whitespace-delimited token of line.
func lastToken(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
