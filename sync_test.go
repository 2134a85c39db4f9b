package ogrescript

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietSyncOptions(rep *Report) *SyncOptions {
	return &SyncOptions{Logger: quietLogger(), Report: rep}
}

func TestSyncImageCopy(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	src := filepath.Join(srcDir, "rock.png")
	require.NoError(t, os.WriteFile(src, []byte("pixels"), 0o644))
	mtime := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	s := NewSynchronizer(dstDir, quietSyncOptions(nil))
	img := &ImageRef{FilePath: src}
	require.NoError(t, s.SyncImage(img, "rock.png"))

	target := filepath.Join(dstDir, "rock.png")
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))

	// The copy carries the source mtime so the up-to-date check holds on
	// the next run.
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))
}

func TestSyncImageSkipsUpToDate(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	src := filepath.Join(srcDir, "rock.png")
	require.NoError(t, os.WriteFile(src, []byte("pixels"), 0o644))

	s := NewSynchronizer(dstDir, quietSyncOptions(nil))
	img := &ImageRef{FilePath: src}
	require.NoError(t, s.SyncImage(img, "rock.png"))

	// Scribble over the copy keeping size and mtime; a second sync must
	// leave it alone.
	target := filepath.Join(dstDir, "rock.png")
	info, err := os.Stat(target)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(target, []byte("PIXELS"), 0o644))
	require.NoError(t, os.Chtimes(target, info.ModTime(), info.ModTime()))

	require.NoError(t, s.SyncImage(img, "rock.png"))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "PIXELS", string(data))
}

func TestSyncImageRecopiesOnChange(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	src := filepath.Join(srcDir, "rock.png")
	require.NoError(t, os.WriteFile(src, []byte("pixels"), 0o644))

	s := NewSynchronizer(dstDir, quietSyncOptions(nil))
	img := &ImageRef{FilePath: src}
	require.NoError(t, s.SyncImage(img, "rock.png"))

	require.NoError(t, os.WriteFile(src, []byte("new pixels"), 0o644))
	require.NoError(t, s.SyncImage(img, "rock.png"))

	data, err := os.ReadFile(filepath.Join(dstDir, "rock.png"))
	require.NoError(t, err)
	assert.Equal(t, "new pixels", string(data))
}

func TestSyncImagePacked(t *testing.T) {
	dstDir := t.TempDir()

	s := NewSynchronizer(dstDir, quietSyncOptions(nil))
	img := &ImageRef{FilePath: "baked.png", Packed: []byte("baked pixels")}
	require.NoError(t, s.SyncImage(img, "baked.png"))

	data, err := os.ReadFile(filepath.Join(dstDir, "baked.png"))
	require.NoError(t, err)
	assert.Equal(t, "baked pixels", string(data))

	// Packed images have no backing file to compare against, every sync
	// rewrites them.
	img.Packed = []byte("repainted")
	require.NoError(t, s.SyncImage(img, "baked.png"))
	data, err = os.ReadFile(filepath.Join(dstDir, "baked.png"))
	require.NoError(t, err)
	assert.Equal(t, "repainted", string(data))
}

func TestSyncImageMissingSource(t *testing.T) {
	s := NewSynchronizer(t.TempDir(), quietSyncOptions(nil))
	img := &ImageRef{FilePath: filepath.Join("nowhere", "gone.png")}
	assert.Error(t, s.SyncImage(img, "gone.png"))
}

func TestSyncProgramWithoutSource(t *testing.T) {
	rep := &Report{}
	s := NewSynchronizer(t.TempDir(), quietSyncOptions(rep))

	require.NoError(t, s.SyncProgram(&Program{Name: "X"}))
	require.Len(t, rep.Warnings(), 1)
	assert.Equal(t, "program_without_source", rep.Warnings()[0].Code)
}

func TestSyncProgram(t *testing.T) {
	reg := NewRegistry()
	reg.AddProgramFile(filepath.Join("testdata", "ocean.program"), quietOptions(nil))
	p, ok := reg.Program("Ocean2/FS")
	require.True(t, ok)

	dir := t.TempDir()
	s := NewSynchronizer(dir, quietSyncOptions(nil))
	require.NoError(t, s.SyncProgram(p))

	_, err := os.Stat(filepath.Join(dir, "ocean2.frag"))
	assert.NoError(t, err)
}
