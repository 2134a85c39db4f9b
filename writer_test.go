package ogrescript

import (
	"strings"
	"testing"
)

func TestWriterNestedBlocks(t *testing.T) {
	w := NewIndentedWriter()
	w.IWord("material").Word("Demo").Embed(func() {
		w.ILine("receive_shadows on")
		w.IWord("technique").Embed(func() {
			w.IWord("pass").Embed(func() {
				w.IWord("diffuse").Real(0.5).Real(0).Real(1).Real(1).NL()
			})
		})
	})

	want := strings.Join([]string{
		"material Demo",
		"{",
		"    receive_shadows on",
		"    technique",
		"    {",
		"        pass",
		"        {",
		"            diffuse 0.5 0 1 1",
		"        }",
		"    }",
		"}",
		"",
	}, "\n")
	if got := w.Flush(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriterClosesBlockOnPanic(t *testing.T) {
	w := NewIndentedWriter()
	func() {
		defer func() { _ = recover() }()
		w.IWord("material").Word("X").Embed(func() {
			w.ILine("receive_shadows off")
			panic("boom")
		})
	}()

	text := w.Text()
	if strings.Count(text, "{") != strings.Count(text, "}") {
		t.Fatalf("block left open after panic:\n%s", text)
	}
	if !strings.HasSuffix(text, "}\n") {
		t.Fatalf("missing closing brace:\n%s", text)
	}
}

func TestWriterFlushResets(t *testing.T) {
	w := NewIndentedWriter()
	w.ILine("first")
	if got := w.Flush(); got != "first\n" {
		t.Fatalf("unexpected text: %q", got)
	}
	w.ILine("second")
	if got := w.Flush(); got != "second\n" {
		t.Fatalf("buffer not cleared: %q", got)
	}
}

func TestFormatReal(t *testing.T) {
	tests := []struct {
		in   float32
		want string
	}{
		{0, "0"},
		{1, "1"},
		{128, "128"},
		{0.25, "0.25"},
		{-0.3, "-0.3"},
		{0.012, "0.012"},
		{1.0 / 3.0, "0.33333334"},
	}
	for _, tt := range tests {
		if got := FormatReal(tt.in); got != tt.want {
			t.Fatalf("FormatReal(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
