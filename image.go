package ogrescript

import (
	"path/filepath"
	"strings"
)

// ImageRef references an image asset used by a texture channel.
type ImageRef struct {
	// FilePath is the image location as known by the host tool.
	FilePath string `json:"filePath" yaml:"filePath"`
	// Format is the stored image file format (png, tga, ...), empty when
	// unknown.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	// Packed holds the image bytes when the content lives only inside the
	// host's authoring file and has no backing file of its own.
	Packed []byte `json:"-" yaml:"-"`
}

// IsPacked reports whether the image has no externally backed file.
func (i *ImageRef) IsPacked() bool {
	return i != nil && i.Packed != nil
}

// ResolveFileName returns the file name the image is referenced by in
// emitted scripts: directory components stripped, extension rewritten to
// forceFormat when set, otherwise to the image's own format, otherwise
// left unchanged.
func (i *ImageRef) ResolveFileName(forceFormat string) string {
	name := filepath.Base(i.FilePath)
	base := strings.TrimSuffix(name, filepath.Ext(name))

	switch {
	case forceFormat != "":
		return base + "." + forceFormat
	case i.Format != "":
		return base + "." + i.Format
	default:
		return name
	}
}

// KnownImageFormat reports whether format is one the exporter can force.
func KnownImageFormat(format string) bool {
	for _, f := range ImageFormats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}
