package ogrescript

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParsePrograms(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "ocean.program"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	progs := ParsePrograms(data, "ocean.program", quietOptions(nil))
	if len(progs) != 4 {
		t.Fatalf("expected 4 programs, got %d", len(progs))
	}

	vs := progs[0]
	if vs.Kind != "vertex_program" || vs.Name != "Ocean2/VS" || vs.Syntax != "glsl" {
		t.Fatalf("unexpected head: %+v", vs)
	}
	if vs.Source != "ocean2.vert" || vs.EntryPoint != "main" {
		t.Fatalf("unexpected body: %+v", vs)
	}

	fs := progs[1]
	if fs.Source != "ocean2.frag" {
		t.Fatalf("unexpected source: %q", fs.Source)
	}
	tint, ok := fs.Params["tintColour"]
	if !ok || tint.Type != "float4" {
		t.Fatalf("missing default param: %+v", fs.Params)
	}
	if !reflect.DeepEqual(tint.Values, []float32{0, 0.05, 0.05, 1}) {
		t.Fatalf("unexpected param values: %v", tint.Values)
	}
	bias := fs.Params["fresnelBias"]
	if !reflect.DeepEqual(bias.Values, []float32{-0.3}) {
		t.Fatalf("unexpected bias values: %v", bias.Values)
	}

	if progs[3].Source != "" {
		t.Fatalf("expected no source on %s", progs[3].Name)
	}
}

func TestAddProgramFile(t *testing.T) {
	rep := &Report{}
	reg := NewRegistry()
	reg.AddProgramFile(filepath.Join("testdata", "ocean.program"), quietOptions(rep))

	if len(reg.Programs) != 2 {
		t.Fatalf("expected 2 active programs, got %d", len(reg.Programs))
	}
	for _, name := range []string{"Ocean2/VS", "Ocean2/FS"} {
		p, ok := reg.Program(name)
		if !ok {
			t.Fatalf("program %q not active", name)
		}
		if !p.Compiled {
			t.Fatalf("program %q not marked compiled", name)
		}
	}

	// A named but absent source goes to the diagnostic list, a missing
	// source directive is dropped silently.
	if len(reg.Missing) != 1 || reg.Missing[0].Name != "Missing/FS" {
		t.Fatalf("unexpected missing list: %+v", reg.Missing)
	}
	if _, ok := reg.Program("NoSource/VS"); ok {
		t.Fatalf("sourceless program must not be registered")
	}

	found := false
	for _, issue := range rep.Warnings() {
		if issue.Code == "missing_program_source" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a missing-source warning, got %v", rep.Issues)
	}
}

func TestProgramSave(t *testing.T) {
	reg := NewRegistry()
	reg.AddProgramFile(filepath.Join("testdata", "ocean.program"), quietOptions(nil))

	p, ok := reg.Program("Ocean2/VS")
	if !ok {
		t.Fatalf("program not registered")
	}

	dir := t.TempDir()
	if err := p.Save(dir); err != nil {
		t.Fatalf("save: %v", err)
	}

	want, err := os.ReadFile(filepath.Join("testdata", "ocean2.vert"))
	if err != nil {
		t.Fatalf("read source: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "ocean2.vert"))
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("copied source differs from original")
	}
}

func TestProgramSaveWithoutReload(t *testing.T) {
	p := &Program{Name: "X", Source: "x.vert"}
	if err := p.Save(t.TempDir()); err == nil {
		t.Fatalf("expected error saving unloaded program")
	}
}
