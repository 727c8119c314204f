package module

import (
	"errors"
	"testing"

	"lemonc/internal/ast"
	"lemonc/internal/source"
)

func fakeParse(f *source.File) (*ast.Builder, ast.File, error) {
	b := ast.NewBuilder()
	return b, ast.File{Source: f.ID, Span: source.Span{File: f.ID, End: uint32(len(f.Text))}}, nil
}

func TestLoaderCachesByPath(t *testing.T) {
	fs := source.NewFileSet()
	files := map[string][]byte{"/root/a.ln": []byte("fn main() = {}")}
	loader := NewLoader(fs, func(p string) ([]byte, error) {
		if c, ok := files[p]; ok {
			return c, nil
		}
		return nil, errors.New("not found")
	}, fakeParse)

	m1, err := loader.Load("/root/a.ln", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m2, err := loader.Load("/root/a.ln", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m1.ID != m2.ID {
		t.Fatalf("expected cached module id, got %d and %d", m1.ID, m2.ID)
	}
}

func TestLoaderRejectsImportCycle(t *testing.T) {
	fs := source.NewFileSet()
	loader := NewLoader(fs, func(p string) ([]byte, error) { return []byte("x"), nil }, nil)
	loader.stack = append(loader.stack, "/root/a.ln")
	_, err := loader.Load("/root/a.ln", false)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
}

func TestCanonicalizeDirectoryUsesModFile(t *testing.T) {
	got := Canonicalize("/root/pkg", "sub")
	want := "/root/pkg/sub/mod.ln"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCanonicalizeRelativeFile(t *testing.T) {
	got := Canonicalize("/root/pkg", "../util.ln")
	want := "/root/util.ln"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
