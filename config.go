package ogrescript

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds persisted exporter settings. Zero values mean "do not
// force/copy anything"; LoadConfig fills it from a YAML file.
type Config struct {
	// UserMaterials is the directory tree scanned for user-authored
	// .material scripts available as parent materials.
	UserMaterials string `yaml:"user_materials,omitempty" json:"userMaterials,omitempty"`
	// ShaderPrograms is the directory tree scanned for .program scripts.
	ShaderPrograms string `yaml:"shader_programs,omitempty" json:"shaderPrograms,omitempty"`
	// ForceImageFormat rewrites referenced image extensions (png, dds, ...).
	ForceImageFormat string `yaml:"force_image_format,omitempty" json:"forceImageFormat,omitempty"`
	// CopyShaderPrograms copies referenced program sources on export.
	CopyShaderPrograms bool `yaml:"copy_shader_programs" json:"copyShaderPrograms"`
	// TouchTextures synchronizes referenced images on export.
	TouchTextures bool `yaml:"touch_textures" json:"touchTextures"`
	// SeparateMaterials writes one .material file per material.
	SeparateMaterials bool `yaml:"separate_materials" json:"separateMaterials"`
}

// DefaultConfig mirrors the exporter's shipped defaults.
func DefaultConfig() Config {
	return Config{
		CopyShaderPrograms: true,
		TouchTextures:      true,
		SeparateMaterials:  true,
	}
}

// LoadConfig reads a YAML config file, applying defaults for absent keys.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %q", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), errors.Wrapf(err, "parse config %q", path)
	}

	return cfg, nil
}

// SaveConfig writes the config as YAML.
func SaveConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write config %q", path)
	}

	return nil
}

// GenerateOptions derives per-call generation options from the config.
func (c Config) GenerateOptions() *GenerateOptions {
	return &GenerateOptions{
		ForceImageFormat: c.ForceImageFormat,
		CopyPrograms:     c.CopyShaderPrograms,
		TouchTextures:    c.TouchTextures,
		SeparateFiles:    c.SeparateMaterials,
	}
}

// LoadUserMaterials scans the configured user material and shader program
// directories into a fresh registry.
func (c Config) LoadUserMaterials(opt *ParseOptions) *Registry {
	reg := NewRegistry()
	if c.UserMaterials != "" {
		reg.ScanDir(c.UserMaterials, opt)
	}
	if c.ShaderPrograms != "" && c.ShaderPrograms != c.UserMaterials {
		reg.ScanDir(c.ShaderPrograms, opt)
	}

	return reg
}
