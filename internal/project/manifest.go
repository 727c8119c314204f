// Package project loads the manifest that configures one compilation: the
// entry module, the base directory import paths resolve against, and the
// diagnostic bag's capacity (SPEC_FULL.md §2.3), mirroring how
// vovakirdan-surge/internal/project locates and loads surge.toml.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	manifestTOML = "lemon.toml"
	manifestYAML = "lemon.yaml"

	defaultMaxDiagnostics = 200
)

// Manifest is a loaded lemon.toml/lemon.yaml.
type Manifest struct {
	Path string
	Root string

	Entry          string `toml:"entry" yaml:"entry"`
	ModuleRoot     string `toml:"module_root" yaml:"module_root"`
	MaxDiagnostics int    `toml:"max_diagnostics" yaml:"max_diagnostics"`
}

// FindManifest walks up from startDir looking for lemon.toml, then
// lemon.yaml, the way FindSurgeToml walks up looking for surge.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range [...]string{manifestTOML, manifestYAML} {
			candidate := filepath.Join(dir, name)
			if _, statErr := os.Stat(candidate); statErr == nil {
				return candidate, true, nil
			} else if !errors.Is(statErr, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, statErr)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads and decodes the manifest at path, filling in defaults and
// resolving ModuleRoot/Entry relative to the manifest's own directory.
func Load(path string) (*Manifest, error) {
	m := &Manifest{Path: path, Root: filepath.Dir(path), MaxDiagnostics: defaultMaxDiagnostics}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, m); err != nil {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(raw), m); err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
	}

	if strings.TrimSpace(m.Entry) == "" {
		return nil, fmt.Errorf("%s: missing `entry`", path)
	}
	if m.MaxDiagnostics <= 0 {
		m.MaxDiagnostics = defaultMaxDiagnostics
	}
	if m.ModuleRoot == "" {
		m.ModuleRoot = "."
	}
	m.ModuleRoot = filepath.Join(m.Root, filepath.FromSlash(m.ModuleRoot))
	m.Entry = filepath.Join(m.ModuleRoot, filepath.FromSlash(m.Entry))
	return m, nil
}

// LoadFromDir locates and loads the manifest rooted at or above dir.
func LoadFromDir(dir string) (*Manifest, error) {
	path, ok, err := FindManifest(dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no %s or %s found above %s", manifestTOML, manifestYAML, dir)
	}
	return Load(path)
}
