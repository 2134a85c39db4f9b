package ogrescript

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ParseOptions controls material and program script parsing.
type ParseOptions struct {
	// Logger receives recovered-and-logged parse diagnostics
	// (default is the logrus standard logger).
	Logger *logrus.Logger
	// Report collects structured diagnostics alongside the log when set.
	Report *Report
}

// GenerateOptions controls material script generation.
type GenerateOptions struct {
	// Prefix is prepended to material names and used as the combined
	// output file name by WriteMaterials.
	Prefix string
	// ForceImageFormat rewrites every referenced image extension to this
	// format (for example "png") regardless of the stored one.
	ForceImageFormat string
	// CopyPrograms copies the source files of referenced shader programs
	// next to the emitted material files.
	CopyPrograms bool
	// TouchTextures synchronizes referenced images into the target
	// directory.
	TouchTextures bool
	// SeparateFiles writes one .material file per material instead of a
	// combined <Prefix>.material.
	SeparateFiles bool
	// Now supplies the header timestamp (default time.Now).
	Now func() time.Time
	// Logger receives generation diagnostics.
	Logger *logrus.Logger
	// Report collects structured diagnostics alongside the log when set.
	Report *Report
}

// SyncOptions controls asset synchronization.
type SyncOptions struct {
	// Logger receives copy/skip diagnostics.
	Logger *logrus.Logger
	// Report collects structured diagnostics alongside the log when set.
	Report *Report
}

// normalize normalizes the ParseOptions.
func (o *ParseOptions) normalize() ParseOptions {
	out := ParseOptions{}
	if o != nil {
		out = *o
	}
	if out.Logger == nil {
		out.Logger = logrus.StandardLogger()
	}

	return out
}

// normalize normalizes the GenerateOptions.
func (o *GenerateOptions) normalize() GenerateOptions {
	out := GenerateOptions{}
	if o != nil {
		out = *o
	}
	if out.Logger == nil {
		out.Logger = logrus.StandardLogger()
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	if out.ForceImageFormat != "" && !KnownImageFormat(out.ForceImageFormat) {
		out.Logger.Warnf("unknown image format %q, not forcing", out.ForceImageFormat)
		out.Report.Warn("unknown_image_format", "unknown forced image format", out.ForceImageFormat)
		out.ForceImageFormat = ""
	}

	return out
}

// normalize normalizes the SyncOptions.
func (o *SyncOptions) normalize() SyncOptions {
	out := SyncOptions{}
	if o != nil {
		out = *o
	}
	if out.Logger == nil {
		out.Logger = logrus.StandardLogger()
	}

	return out
}
