package ogrescript

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Synchronizer copies texture and program source files referenced by
// generated materials into a target directory, skipping work that is
// already up to date.
type Synchronizer struct {
	TargetDir string
	opt       SyncOptions
}

// NewSynchronizer creates a synchronizer for a target directory.
func NewSynchronizer(dir string, opt *SyncOptions) *Synchronizer {
	return &Synchronizer{TargetDir: dir, opt: opt.normalize()}
}

// SyncImage places an image into the target directory under filename.
// Packed images are always rewritten; file-backed images are copied only
// when the destination is absent or differs in size or modification time.
// The copy preserves the source modification time so the decision stays
// consistent across runs.
func (s *Synchronizer) SyncImage(img *ImageRef, filename string) error {
	log := s.opt.Logger
	target := filepath.Join(s.TargetDir, filename)

	if img.IsPacked() {
		if err := os.WriteFile(target, img.Packed, 0o644); err != nil {
			return errors.Wrapf(err, "save packed image %q", filename)
		}
		log.Infof("copy (%s)", img.FilePath)
		return nil
	}

	src, err := os.Stat(img.FilePath)
	if err != nil {
		return errors.Wrapf(err, "stat source image %q", img.FilePath)
	}

	update := true
	if dst, err := os.Stat(target); err == nil {
		update = src.Size() != dst.Size() || !src.ModTime().Equal(dst.ModTime())
	}
	if !update {
		log.Infof("skip copy (%s), texture is already up to date", img.FilePath)
		return nil
	}

	if err := copyFile(img.FilePath, target); err != nil {
		return errors.Wrapf(err, "copy image %q", img.FilePath)
	}
	// Carry the source mtime so the next up-to-date check holds.
	if err := os.Chtimes(target, src.ModTime(), src.ModTime()); err != nil {
		return errors.Wrapf(err, "preserve mtime of %q", target)
	}
	log.Infof("copy (%s)", img.FilePath)

	return nil
}

// SyncProgram copies a program's source file into the target directory.
// A program without a source is warned about and skipped, never fatal.
func (s *Synchronizer) SyncProgram(p *Program) error {
	if p.Source == "" {
		s.opt.Logger.WithFields(logrus.Fields{"program": p.Name}).
			Warn("uses program which has no source")
		s.opt.Report.Warn("program_without_source", "program has no source", p.Name)
		return nil
	}

	return p.Save(s.TargetDir)
}

// copyFile copies src to dst, truncating dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
