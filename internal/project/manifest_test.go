package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadTOMLAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "lemon.toml")
	writeFile(t, manifestPath, "entry = \"main.ln\"\n")

	m, err := Load(manifestPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.MaxDiagnostics != defaultMaxDiagnostics {
		t.Fatalf("expected default max_diagnostics %d, got %d", defaultMaxDiagnostics, m.MaxDiagnostics)
	}
	wantEntry := filepath.Join(dir, "main.ln")
	if m.Entry != wantEntry {
		t.Fatalf("expected entry %q, got %q", wantEntry, m.Entry)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "lemon.yaml")
	writeFile(t, manifestPath, "entry: main.ln\nmax_diagnostics: 50\n")

	m, err := Load(manifestPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.MaxDiagnostics != 50 {
		t.Fatalf("expected max_diagnostics 50, got %d", m.MaxDiagnostics)
	}
}

func TestLoadMissingEntryErrors(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "lemon.toml")
	writeFile(t, manifestPath, "module_root = \".\"\n")

	if _, err := Load(manifestPath); err == nil {
		t.Fatalf("expected error for missing entry")
	}
}

func TestFindManifestWalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lemon.toml"), "entry = \"main.ln\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, ok, err := FindManifest(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected to find manifest")
	}
	want := filepath.Join(root, "lemon.toml")
	if path != want {
		t.Fatalf("expected %q, got %q", want, path)
	}
}

func TestFindManifestNotFound(t *testing.T) {
	dir := t.TempDir()
	_, ok, err := FindManifest(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected no manifest found under an empty temp dir")
	}
}
